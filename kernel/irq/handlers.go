package irq

import (
	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/kfmt"
)

// CPU exception vectors with dedicated handling.
const (
	VectorDivideError = 0
	VectorBreakpoint  = 3
)

// Hardware lines with built-in drivers.
const (
	LineTimer    = 0
	LineKeyboard = 1
)

const keyboardDataPort = 0x60

var errDivideByZero = &kernel.Error{Module: "irq", Message: "divide by zero"}

// InstallBuiltinHandlers refines the defaults installed by Init: division
// faults carry their own panic message, breakpoints log and resume, the
// timer line is counted and the keyboard line drains its controller.
func InstallBuiltinHandlers() *kernel.Error {
	if err := HandleTrap(VectorDivideError, KindFatal, nil, errDivideByZero); err != nil {
		return err
	}
	if err := HandleTrap(VectorBreakpoint, KindResumable, breakpointHandler, nil); err != nil {
		return err
	}
	if err := HandleLine(LineTimer, KindCounted, nil); err != nil {
		return err
	}
	return HandleLine(LineKeyboard, KindResumable, keyboardHandler)
}

// TimerTicks returns the number of timer line deliveries since Init.
func TimerTicks() uint64 {
	return VectorCount(irqBase + LineTimer)
}

func breakpointHandler(regs *Registers) {
	kfmt.Printf("breakpoint hit at %x, resuming\n", regs.RIP)
}

// keyboardHandler drains the controller output buffer. The controller holds
// the line until the scancode is read, so the read is not optional.
func keyboardHandler(_ *Registers) {
	scancode := portReadFn(keyboardDataPort)
	kfmt.Printf("keyboard scancode %x\n", scancode)
}
