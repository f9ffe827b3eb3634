package device

import (
	"io"

	"github.com/ameysawant1/os/kernel"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprintf.
	DriverInit(io.Writer) *kernel.Error
}

// ProbeFn is a function that scans for the presence of a particular
// piece of hardware and returns a driver for it.
type ProbeFn func() Driver

// The allowed detection orders for drivers. Drivers that need to run early
// (e.g. a serial port that carries the boot log) use DetectOrderEarly while
// drivers with no ordering requirements use DetectOrderNormal.
const (
	DetectOrderEarly  = -128
	DetectOrderNormal = 0
	DetectOrderLast   = 127
)

// DriverInfo describes a driver registered with the hardware detection
// pipeline.
type DriverInfo struct {
	// Order controls when the probe runs relative to other drivers.
	Order int8

	Probe ProbeFn
}

// DriverInfoList is a list of registered drivers sortable by detection
// order.
type DriverInfoList []*DriverInfo

func (l DriverInfoList) Len() int           { return len(l) }
func (l DriverInfoList) Swap(i, j int)      { l[i], l[j] = l[j], l[i] }
func (l DriverInfoList) Less(i, j int) bool { return l[i].Order < l[j].Order }

var registeredDrivers DriverInfoList

// RegisterDriver adds a driver to the hardware detection pipeline.
func RegisterDriver(info *DriverInfo) {
	registeredDrivers = append(registeredDrivers, info)
}

// DriverList returns the list of registered drivers.
func DriverList() DriverInfoList {
	return registeredDrivers
}
