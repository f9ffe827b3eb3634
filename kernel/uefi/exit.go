package uefi

import (
	"unsafe"

	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/mem"
)

var errExitFailed = &kernel.Error{Module: "uefi", Message: "exit boot services failed twice"}

// maxExitAttempts bounds the snapshot-and-exit sequence: the map key may go
// stale once (firmware callbacks can allocate between the snapshot and the
// exit call) in which case a single re-snapshot is attempted before the
// failure escalates to fatal.
const maxExitAttempts = 2

// ExitBootServices irrevocably transfers memory and execution ownership from
// the firmware to the kernel. On success the service table is invalidated
// and the memory-map snapshot consumed by the exit is retained, read-only,
// for seeding the allocator and for diagnostics.
//
// This is a one-shot, non-reentrant transition: a stale map key is retried
// exactly once and a second failure returns an error the caller must treat
// as fatal.
func (s *Services) ExitBootServices() (*MemoryMap, *kernel.Error) {
	for s.exitAttempts < maxExitAttempts {
		s.exitAttempts++

		if err := s.GetMemoryMap(&s.retainedMap); err != nil {
			return nil, err
		}

		status := s.call(bootSvcExitBootServices,
			uintptr(s.imageHandle),
			s.retainedMap.MapKey,
			0, 0,
		)

		switch status {
		case StatusSuccess:
			s.invalidate()
			return &s.retainedMap, nil
		case StatusInvalidParameter:
			// Stale key; re-snapshot and retry.
			continue
		default:
			return nil, status.Err()
		}
	}

	return nil, errExitFailed
}

// ExitAttempts returns how many exit calls have been issued. It never
// exceeds maxExitAttempts.
func (s *Services) ExitAttempts() int {
	return s.exitAttempts
}

// AllocatePages requests size bytes of the supplied memory type from the
// firmware. Note that any allocation invalidates a previously captured
// memory map key.
func (s *Services) AllocatePages(memType uint32, size mem.Size) (uintptr, *kernel.Error) {
	var physicalAddress uint64

	pages := (size + mem.PageSize - 1) / mem.PageSize

	const allocateAnyPages = 0
	status := s.call(bootSvcAllocatePages,
		allocateAnyPages,
		uintptr(memType),
		uintptr(pages),
		ptrval(unsafe.Pointer(&physicalAddress)),
	)

	if err := status.Err(); err != nil {
		return 0, err
	}
	return uintptr(physicalAddress), nil
}
