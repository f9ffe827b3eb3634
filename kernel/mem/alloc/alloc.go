// Package alloc provides the kernel physical memory allocator. Allocation
// strategies are staged: a bump allocator seeded from the firmware memory
// map covers early boot, and can be swapped wholesale for a frame allocator
// once enough memory exists to hold its bookkeeping.
package alloc

import (
	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/mem"
	"github.com/ameysawant1/os/kernel/sync"
	"github.com/ameysawant1/os/kernel/uefi"
)

// Region describes a contiguous block of physical memory handed out by an
// allocator.
type Region struct {
	Start uintptr
	Size  mem.Size
}

// End returns the first address past the region.
func (r Region) End() uintptr {
	return r.Start + uintptr(r.Size)
}

// Stats summarizes an allocator's capacity and consumption.
type Stats struct {
	Used  mem.Size
	Total mem.Size
}

// Allocator hands out physical memory regions. Implementations fail without
// side effects: a failed request leaves Stats unchanged and an identical
// retry fails identically.
type Allocator interface {
	Allocate(size, align mem.Size) (Region, *kernel.Error)
	Stats() Stats
}

var (
	errNotInitialized = &kernel.Error{Module: "alloc", Message: "allocator not initialized"}
	errZeroSize       = &kernel.Error{Module: "alloc", Message: "zero-sized allocation"}
	errBadAlign       = &kernel.Error{Module: "alloc", Message: "alignment is not a power of two"}
	errOutOfMemory    = &kernel.Error{Module: "alloc", Message: "out of memory"}

	// lock serializes access to the active strategy. Interrupt handlers do
	// not allocate so this only guards against future multi-core callers.
	lock sync.Spinlock

	active Allocator
)

// Init seeds the early bump allocator from the usable regions of the
// firmware memory map and makes it the active strategy.
func Init(memoryMap *uefi.MemoryMap) *kernel.Error {
	bump, err := newBumpAllocator(memoryMap)
	if err != nil {
		return err
	}

	lock.Acquire()
	active = bump
	lock.Release()
	return nil
}

// SetStrategy replaces the active allocator wholesale. Regions handed out by
// the previous strategy remain valid; the new strategy simply must not hand
// them out again, which the caller arranges by seeding it past the old
// watermark.
func SetStrategy(a Allocator) {
	lock.Acquire()
	active = a
	lock.Release()
}

// Allocate requests a region from the active allocator.
func Allocate(size, align mem.Size) (Region, *kernel.Error) {
	lock.Acquire()
	defer lock.Release()

	if active == nil {
		return Region{}, errNotInitialized
	}
	return active.Allocate(size, align)
}

// AllocStats returns the active allocator's statistics.
func AllocStats() (Stats, *kernel.Error) {
	lock.Acquire()
	defer lock.Release()

	if active == nil {
		return Stats{}, errNotInitialized
	}
	return active.Stats(), nil
}

func checkRequest(size, align mem.Size) *kernel.Error {
	if size == 0 {
		return errZeroSize
	}
	if align == 0 || align&(align-1) != 0 {
		return errBadAlign
	}
	return nil
}

func alignUp(addr uintptr, align mem.Size) uintptr {
	mask := uintptr(align) - 1
	return (addr + mask) &^ mask
}
