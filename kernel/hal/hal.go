// Package hal discovers the hardware the kernel can drive and initializes
// the matching drivers.
package hal

import (
	"bytes"
	"sort"

	"github.com/ameysawant1/os/device"
	"github.com/ameysawant1/os/device/uart"
	"github.com/ameysawant1/os/device/video/fb"
	"github.com/ameysawant1/os/kernel/kfmt"
	"github.com/ameysawant1/os/kernel/uefi"
)

// managedDevices contains the devices discovered by the HAL.
type managedDevices struct {
	activeSerial      *uart.Uart
	activeFramebuffer *fb.Device

	// activeDrivers tracks all initialized device drivers.
	activeDrivers []device.Driver
}

var (
	devices managedDevices
	strBuf  bytes.Buffer

	cmdLineOptionFn = uefi.CmdLineOption
)

// ActiveSerial returns the discovered serial port, or nil when none was
// found.
func ActiveSerial() *uart.Uart {
	return devices.activeSerial
}

// ActiveFramebuffer returns the discovered framebuffer device, or nil on
// headless machines.
func ActiveFramebuffer() *fb.Device {
	return devices.activeFramebuffer
}

// DetectHardware probes for hardware devices and initializes the appropriate
// drivers. The serial port probes first so the rest of the boot transcript
// lands on it.
func DetectHardware() {
	var drivers device.DriverInfoList

	for _, probeFn := range uart.HWProbes() {
		drivers = append(drivers, &device.DriverInfo{Order: device.DetectOrderEarly, Probe: probeFn})
	}
	for _, probeFn := range fb.HWProbes() {
		drivers = append(drivers, &device.DriverInfo{Order: device.DetectOrderNormal, Probe: probeFn})
	}
	for _, info := range device.DriverList() {
		drivers = append(drivers, info)
	}
	sort.Sort(drivers)

	probe(drivers)
}

// probe executes the probe function for each driver and invokes
// onDriverInit for each successfully initialized driver.
func probe(driverInfoList device.DriverInfoList) {
	var w = kfmt.PrefixWriter{Sink: kfmt.GetOutputSink()}

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = strBuf.Bytes()

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(&w, "initialized\n")
		onDriverInit(drv)
		devices.activeDrivers = append(devices.activeDrivers, drv)
	}
}

// onDriverInit is invoked by probe() whenever a piece of hardware is detected
// and successfully initialized. The first serial port becomes the kernel log
// sink unless the boot command line disables it with serial=off.
func onDriverInit(drv device.Driver) {
	switch drvImpl := drv.(type) {
	case *uart.Uart:
		if devices.activeSerial != nil {
			return
		}
		devices.activeSerial = drvImpl

		if v, ok := cmdLineOptionFn("serial"); ok && v == "off" {
			return
		}
		kfmt.SetOutputSink(drvImpl)
	case *fb.Device:
		if devices.activeFramebuffer == nil {
			devices.activeFramebuffer = drvImpl
		}
	}
}
