package uefi

import (
	"unsafe"

	"github.com/ameysawant1/os/kernel/kfmt"
)

// panicFn is mocked by tests that exercise fatal-error paths.
var panicFn = kfmt.Panic

// derefFn is mocked by tests to avoid dereferencing fake table addresses.
var derefFn = func(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

// deref reads a pointer-sized value from a firmware table slot.
func deref(addr uintptr) uintptr {
	return derefFn(addr)
}

// ptrval returns the address of p as a uintptr for passing to firmware.
func ptrval(p unsafe.Pointer) uintptr {
	return uintptr(p)
}
