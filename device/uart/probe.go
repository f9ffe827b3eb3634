package uart

import "github.com/ameysawant1/os/device"

// HWProbes returns a slice of device.ProbeFn that can be used by the hal
// package to probe for serial port hardware.
func HWProbes() []device.ProbeFn {
	return []device.ProbeFn{
		probeForCOM1,
	}
}

// probeForCOM1 checks for a serial port at the COM1 base using the scratch
// register, which working 16550 implementations echo back.
func probeForCOM1() device.Driver {
	portWriteFn(com1Base+regScratch, 0xa5)
	if portReadFn(com1Base+regScratch) != 0xa5 {
		return nil
	}

	dev := NewUart(com1Base)
	activeUart = dev
	return dev
}
