package kfmt

import "io"

// maxNumBuf is the buffer size used when formatting numbers; 64-bit values
// need at most 22 digits in base 8.
const maxNumBuf = 22

var (
	errNoVerb       = []byte("%!(NOVERB)")
	errMissingArg   = []byte("%!(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	// singleByte is a shared one-byte buffer used to emit individual
	// characters without triggering a string-to-slice conversion which
	// would allocate.
	singleByte = []byte{0}

	// earlyBuffer captures output generated before any sink is attached.
	earlyBuffer ringBuffer

	// outputSink is where Printf sends its output. While nil, output is
	// redirected to earlyBuffer.
	outputSink io.Writer
)

// SetOutputSink sets the target for Printf output to w and drains any data
// captured by the early buffer into it. Passing nil reverts Printf to
// buffered mode.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyBuffer)
	}
}

// GetOutputSink returns the currently attached sink or the early buffer if
// no sink has been attached yet.
func GetOutputSink() io.Writer {
	if outputSink == nil {
		return &earlyBuffer
	}
	return outputSink
}

// Printf formats its arguments and writes the result to the active output
// sink. It can be safely used before the Go runtime is fully initialized as
// it performs no memory allocation.
//
// The following verbs are supported: %s (string or []byte), %o, %d and %x
// (any built-in integer type), %t (bool) and %c (byte). An optional decimal
// width before the verb left-pads the value: spaces for %s and %d, zeroes
// for %x and %o.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves like Printf but writes the formatted output to w.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		nextArg int
		i       int
	)

	for i = 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			emitByte(w, c)
			continue
		}

		// Scan optional width.
		i++
		width := 0
		for ; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i >= len(format) {
			doWrite(w, errNoVerb)
			break
		}

		verb := format[i]
		if verb == '%' {
			emitByte(w, '%')
			continue
		}

		if nextArg >= len(args) {
			doWrite(w, errMissingArg)
			continue
		}

		arg := args[nextArg]
		nextArg++

		switch verb {
		case 's':
			fmtString(w, arg, width)
		case 'o':
			fmtInt(w, arg, 8, width)
		case 'd':
			fmtInt(w, arg, 10, width)
		case 'x':
			fmtInt(w, arg, 16, width)
		case 't':
			fmtBool(w, arg)
		case 'c':
			fmtChar(w, arg)
		default:
			doWrite(w, errNoVerb)
		}
	}

	if nextArg < len(args) {
		doWrite(w, errExtraArg)
	}
}

func emitByte(w io.Writer, c byte) {
	singleByte[0] = c
	doWrite(w, singleByte)
}

func fmtString(w io.Writer, arg interface{}, width int) {
	switch t := arg.(type) {
	case string:
		for i := width - len(t); i > 0; i-- {
			emitByte(w, ' ')
		}
		// Emit byte-by-byte; converting the string to a byte slice
		// would allocate.
		for i := 0; i < len(t); i++ {
			emitByte(w, t[i])
		}
	case []byte:
		for i := width - len(t); i > 0; i-- {
			emitByte(w, ' ')
		}
		doWrite(w, t)
	default:
		doWrite(w, errWrongArgType)
	}
}

func fmtBool(w io.Writer, arg interface{}) {
	switch t := arg.(type) {
	case bool:
		if t {
			doWrite(w, trueValue)
		} else {
			doWrite(w, falseValue)
		}
	default:
		doWrite(w, errWrongArgType)
	}
}

func fmtChar(w io.Writer, arg interface{}) {
	switch t := arg.(type) {
	case byte:
		emitByte(w, t)
	default:
		doWrite(w, errWrongArgType)
	}
}

func fmtInt(w io.Writer, arg interface{}, base, width int) {
	var (
		v        uint64
		negative bool
	)

	switch t := arg.(type) {
	case uint8:
		v = uint64(t)
	case uint16:
		v = uint64(t)
	case uint32:
		v = uint64(t)
	case uint64:
		v = t
	case uint:
		v = uint64(t)
	case uintptr:
		v = uint64(t)
	case int8:
		negative = t < 0
		v = abs64(int64(t))
	case int16:
		negative = t < 0
		v = abs64(int64(t))
	case int32:
		negative = t < 0
		v = abs64(int64(t))
	case int64:
		negative = t < 0
		v = abs64(t)
	case int:
		negative = t < 0
		v = abs64(int64(t))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	var buf [maxNumBuf]byte
	i := len(buf)
	for {
		i--
		d := byte(v % uint64(base))
		if d < 10 {
			buf[i] = '0' + d
		} else {
			buf[i] = 'a' + d - 10
		}
		v /= uint64(base)
		if v == 0 {
			break
		}
	}

	digits := len(buf) - i
	if negative {
		digits++
	}

	pad := byte(' ')
	if base == 16 || base == 8 {
		pad = '0'
		// Zero padding goes after the sign.
		if negative {
			emitByte(w, '-')
			negative = false
		}
	}

	for n := width - digits; n > 0; n-- {
		emitByte(w, pad)
	}

	if negative {
		emitByte(w, '-')
	}
	doWrite(w, buf[i:])
}

func abs64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

// doWrite sends p to w, redirecting to the early buffer when w is nil.
func doWrite(w io.Writer, p []byte) {
	if w == nil {
		w = &earlyBuffer
	}
	w.Write(p)
}
