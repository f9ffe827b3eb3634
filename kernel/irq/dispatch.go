// Package irq routes interrupt vectors to registered handlers and drives the
// legacy 8259 controllers that deliver hardware lines. The package owns the
// acknowledgement protocol: a hardware line is always acked before the entry
// stub returns, whether or not a handler claimed it.
package irq

import (
	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/cpu"
	"github.com/ameysawant1/os/kernel/kfmt"
)

// HandlerKind selects what the dispatcher does when a vector fires.
type HandlerKind uint8

const (
	// KindFatal dumps the captured registers and brings the system down.
	KindFatal HandlerKind = iota
	// KindResumable runs the handler and resumes the interrupted code.
	KindResumable
	// KindCounted records the delivery and resumes without running code.
	KindCounted
)

// HandlerFunc processes a single delivery of a vector. The registers point
// into the interrupt stack frame; mutations are restored into the processor
// when the handler returns.
type HandlerFunc func(regs *Registers)

type vectorEntry struct {
	kind  HandlerKind
	fn    HandlerFunc
	err   *kernel.Error
	count uint64
}

const numVectors = 256

var (
	vectorTable   [numVectors]vectorEntry
	lineRequested [irqLineCount]bool
	initialized   bool
	ready         bool

	errNotInitialized = &kernel.Error{Module: "irq", Message: "interrupt table not initialized"}
	errBadLine        = &kernel.Error{Module: "irq", Message: "hardware line out of range"}
	errUnexpectedTrap = &kernel.Error{Module: "irq", Message: "unexpected trap"}

	panicFn             = kfmt.Panic
	enableInterruptsFn  = cpu.EnableInterrupts
	disableInterruptsFn = cpu.DisableInterrupts
	interruptsEnabledFn = cpu.InterruptsEnabled
)

// Init remaps the 8259 controllers clear of the exception vectors, masks
// every line and installs the default handler set: exceptions are fatal,
// everything else is counted. Callers refine individual vectors afterwards
// with HandleTrap and HandleLine.
func Init() {
	remapPIC()

	for vec := 0; vec < numVectors; vec++ {
		if vec < 32 {
			vectorTable[vec] = vectorEntry{kind: KindFatal, err: errUnexpectedTrap}
		} else {
			vectorTable[vec] = vectorEntry{kind: KindCounted}
		}
	}

	initialized = true
	ready = false
}

// maskedSection runs fn with interrupt delivery suspended so table mutations
// never race a dispatch on the same CPU.
func maskedSection(fn func()) {
	wereEnabled := interruptsEnabledFn()
	if wereEnabled {
		disableInterruptsFn()
	}
	fn()
	if wereEnabled {
		enableInterruptsFn()
	}
}

// HandleTrap registers a handler for a CPU exception or software vector. For
// fatal vectors err is reported in the panic banner; a nil err falls back to
// the generic trap error.
func HandleTrap(vector uint8, kind HandlerKind, fn HandlerFunc, err *kernel.Error) *kernel.Error {
	if !initialized {
		return errNotInitialized
	}
	if err == nil {
		err = errUnexpectedTrap
	}

	maskedSection(func() {
		vectorTable[vector] = vectorEntry{kind: kind, fn: fn, err: err}
	})
	return nil
}

// HandleLine registers a handler for a hardware line and opens the line at
// the controller once interrupts are enabled. Lines registered before
// Enable stay masked until Enable runs.
func HandleLine(line uint8, kind HandlerKind, fn HandlerFunc) *kernel.Error {
	if !initialized {
		return errNotInitialized
	}
	if line >= irqLineCount {
		return errBadLine
	}

	maskedSection(func() {
		vectorTable[irqBase+line] = vectorEntry{kind: kind, fn: fn}
		lineRequested[line] = true
		if ready {
			unmaskLine(line)
		}
	})
	return nil
}

// Enable opens the requested hardware lines and turns on interrupt delivery.
// It refuses to run before Init has populated the full vector table.
func Enable() *kernel.Error {
	if !initialized {
		return errNotInitialized
	}

	for line := uint8(0); line < irqLineCount; line++ {
		if lineRequested[line] {
			unmaskLine(line)
		}
	}

	ready = true
	enableInterruptsFn()
	return nil
}

// InterruptsReady reports whether Enable has completed.
func InterruptsReady() bool {
	return ready
}

// VectorCount returns how many times a vector has been delivered.
func VectorCount(vector uint8) uint64 {
	return vectorTable[vector].count
}

// dispatchInterrupt is invoked by the assembly entry stubs with interrupt
// delivery suspended. Hardware lines are acked on every path that returns;
// fatal vectors never return.
//
//go:nosplit
func dispatchInterrupt(regs *Registers) {
	vec := uint8(regs.Vector)
	entry := &vectorTable[vec]
	entry.count++

	switch entry.kind {
	case KindFatal:
		if entry.fn != nil {
			entry.fn(regs)
		}
		err := entry.err
		if err == nil {
			err = errUnexpectedTrap
		}
		w := kfmt.GetOutputSink()
		kfmt.Fprintf(w, "\ntrap %d, error code %x\n", regs.Vector, regs.ErrCode)
		regs.DumpTo(w)
		panicFn(err)
	case KindResumable:
		if entry.fn != nil {
			entry.fn(regs)
		}
	case KindCounted:
	}

	if vec >= irqBase && vec < irqBase+irqLineCount {
		ackLine(vec - irqBase)
	}
}
