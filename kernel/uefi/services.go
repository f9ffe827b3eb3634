// Package uefi provides access to the firmware boot services for the short
// window between firmware handoff and the switch to kernel-owned execution.
package uefi

import "github.com/ameysawant1/os/kernel"

// Handle is an opaque capability granted by the firmware at entry. It must
// never be dereferenced after boot services have been exited.
type Handle uintptr

// State tracks the one-way transition out of firmware-owned execution. The
// state machine has a single forward edge and no path back.
type State uint8

const (
	// BootServicesActive indicates that firmware services may be called.
	BootServicesActive State = iota

	// KernelMode indicates that boot services have been exited and any
	// further firmware call is a fatal error.
	KernelMode
)

// EFI_SYSTEM_TABLE field offsets.
const (
	sysTableConOut       = 64
	sysTableBootServices = 96
)

// EFI_BOOT_SERVICES function offsets.
const (
	bootSvcAllocatePages    = 0x28
	bootSvcGetMemoryMap     = 0x38
	bootSvcHandleProtocol   = 0x98
	bootSvcExitBootServices = 0xe8
	bootSvcStall            = 0xf8
)

// EFI_SIMPLE_TEXT_OUTPUT_PROTOCOL function offsets.
const (
	conOutReset        = 0
	conOutOutputString = 8
)

var (
	errAlreadyInitialized = &kernel.Error{Module: "uefi", Message: "services already initialized"}
	errNilSystemTable     = &kernel.Error{Module: "uefi", Message: "nil image handle or system table"}
	errServicesDead       = &kernel.Error{Module: "uefi", Message: "boot service call after exit"}
)

// Services mediates every firmware call the kernel performs. It owns the
// image handle and system-table reference handed over at entry and
// invalidates both once boot services are exited.
type Services struct {
	imageHandle  Handle
	systemTable  uintptr
	bootServices uintptr
	conOut       uintptr

	state        State
	exitAttempts int

	// retainedMap holds the snapshot consumed by the allocator; kept
	// read-only for diagnostics after the exit.
	retainedMap MemoryMap
}

// Init records the firmware image handle and system-table reference. It must
// be called exactly once, before any other method.
func (s *Services) Init(imageHandle Handle, systemTable uintptr) *kernel.Error {
	if s.systemTable != 0 {
		return errAlreadyInitialized
	}
	if imageHandle == 0 || systemTable == 0 {
		return errNilSystemTable
	}

	s.imageHandle = imageHandle
	s.systemTable = systemTable
	s.bootServices = deref(systemTable + sysTableBootServices)
	s.conOut = deref(systemTable + sysTableConOut)
	s.state = BootServicesActive

	return nil
}

// State returns the current position in the boot-services state machine.
func (s *Services) State() State {
	return s.state
}

// MemoryMapSnapshot returns the retained read-only copy of the memory map
// captured by the successful exit call. It is only valid in KernelMode.
func (s *Services) MemoryMapSnapshot() *MemoryMap {
	return &s.retainedMap
}

// call routes a boot service invocation through the firmware, guarding
// against use after the services have been torn down.
func (s *Services) call(offset uintptr, a1, a2, a3, a4 uintptr) Status {
	if s.state != BootServicesActive {
		// A stale capability dereference cannot be recovered from.
		panicFn(errServicesDead)
	}
	return callServiceFn(deref(s.bootServices+offset), a1, a2, a3, a4)
}

// Stall delays execution for the supplied number of microseconds using the
// firmware timer. Only available before exit.
func (s *Services) Stall(usec uint64) *kernel.Error {
	return s.call(bootSvcStall, uintptr(usec), 0, 0, 0).Err()
}

// invalidate severs every firmware reference. After this call no boot
// service is reachable through this Services instance.
func (s *Services) invalidate() {
	s.state = KernelMode
	s.imageHandle = 0
	s.systemTable = 0
	s.bootServices = 0
	s.conOut = 0
}
