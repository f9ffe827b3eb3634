package uefi

import (
	"unsafe"

	"github.com/ameysawant1/os/kernel"
)

// utf16BufLen bounds a single OutputString call. Longer writes are split.
const utf16BufLen = 128

// utf16Buf is the static conversion buffer for console writes; firmware text
// output expects NUL-terminated UCS-2.
var utf16Buf [utf16BufLen + 1]uint16

// Console exposes the firmware text output protocol as an io.Writer so it
// can serve as the kfmt sink until boot services are exited. Writing after
// the exit is a stale-capability dereference and halts the system.
type Console struct {
	services *Services
}

// Console returns a writer backed by the firmware text output protocol.
func (s *Services) Console() *Console {
	return &Console{services: s}
}

// Reset clears the firmware console.
func (c *Console) Reset() *kernel.Error {
	s := c.services
	if s.state != BootServicesActive {
		panicFn(errServicesDead)
	}
	return callServiceFn(deref(s.conOut+conOutReset), s.conOut, 0, 0, 0).Err()
}

// Write converts p to UCS-2, expands newlines to CR-LF as the firmware
// console requires, and emits the result via OutputString.
func (c *Console) Write(p []byte) (int, error) {
	s := c.services
	if s.state != BootServicesActive {
		panicFn(errServicesDead)
	}

	outputString := deref(s.conOut + conOutOutputString)

	var n int
	for n < len(p) {
		var used int
		for n < len(p) && used < utf16BufLen-1 {
			b := p[n]
			if b == '\n' {
				utf16Buf[used] = '\r'
				used++
			}
			utf16Buf[used] = uint16(b)
			used++
			n++
		}
		utf16Buf[used] = 0

		status := callServiceFn(outputString, s.conOut, ptrval(unsafe.Pointer(&utf16Buf[0])), 0, 0)
		if err := status.Err(); err != nil {
			return n, err
		}
	}

	return n, nil
}
