package fb

import (
	"github.com/ameysawant1/os/device"
	"github.com/ameysawant1/os/kernel/uefi"
)

// HWProbes returns a slice of device.ProbeFn that can be used by the hal
// package to probe for framebuffer hardware.
func HWProbes() []device.ProbeFn {
	return []device.ProbeFn{
		probeForFramebuffer,
	}
}

// getFramebufferInfoFn is swapped out by tests.
var getFramebufferInfoFn = uefi.GetFramebufferInfo

// probeForFramebuffer picks up the framebuffer captured from the firmware
// before boot services were exited. Headless machines have none.
func probeForFramebuffer() device.Driver {
	info := getFramebufferInfoFn()
	if info.PhysAddr == 0 {
		return nil
	}

	dev := NewDevice(info.PhysAddr, info.Width, info.Height, info.Pitch)
	activeDevice = dev
	return dev
}

// ActiveDevice returns the probed framebuffer device, or nil on headless
// machines.
func ActiveDevice() *Device {
	return activeDevice
}

var activeDevice *Device
