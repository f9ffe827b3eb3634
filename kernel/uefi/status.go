package uefi

import "github.com/ameysawant1/os/kernel"

// Status mirrors EFI_STATUS. Error values have the high bit set.
type Status uint64

const statusErrorBit = Status(1) << 63

// EFI status values returned by boot service calls.
const (
	StatusSuccess          Status = 0
	StatusLoadError               = statusErrorBit | 1
	StatusInvalidParameter        = statusErrorBit | 2
	StatusUnsupported             = statusErrorBit | 3
	StatusBadBufferSize           = statusErrorBit | 4
	StatusBufferTooSmall          = statusErrorBit | 5
	StatusNotReady                = statusErrorBit | 6
	StatusDeviceError             = statusErrorBit | 7
	StatusOutOfResources          = statusErrorBit | 9
	StatusNotFound                = statusErrorBit | 14
)

var (
	errLoadError        = &kernel.Error{Module: "uefi", Message: "load error"}
	errInvalidParameter = &kernel.Error{Module: "uefi", Message: "invalid parameter"}
	errUnsupported      = &kernel.Error{Module: "uefi", Message: "unsupported"}
	errBadBufferSize    = &kernel.Error{Module: "uefi", Message: "bad buffer size"}
	errBufferTooSmall   = &kernel.Error{Module: "uefi", Message: "buffer too small"}
	errNotReady         = &kernel.Error{Module: "uefi", Message: "not ready"}
	errDeviceError      = &kernel.Error{Module: "uefi", Message: "device error"}
	errOutOfResources   = &kernel.Error{Module: "uefi", Message: "out of resources"}
	errNotFound         = &kernel.Error{Module: "uefi", Message: "not found"}
	errUnknownStatus    = &kernel.Error{Module: "uefi", Message: "unknown status"}
)

// Err maps an EFI status value to a kernel error, or nil for success.
func (s Status) Err() *kernel.Error {
	switch s {
	case StatusSuccess:
		return nil
	case StatusLoadError:
		return errLoadError
	case StatusInvalidParameter:
		return errInvalidParameter
	case StatusUnsupported:
		return errUnsupported
	case StatusBadBufferSize:
		return errBadBufferSize
	case StatusBufferTooSmall:
		return errBufferTooSmall
	case StatusNotReady:
		return errNotReady
	case StatusDeviceError:
		return errDeviceError
	case StatusOutOfResources:
		return errOutOfResources
	case StatusNotFound:
		return errNotFound
	default:
		return errUnknownStatus
	}
}
