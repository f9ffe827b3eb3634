package alloc

import (
	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/mem"
	"github.com/ameysawant1/os/kernel/uefi"
)

// maxRegions bounds the usable regions the bump allocator tracks. Firmware
// maps with more usable entries than this keep only the first maxRegions.
const maxRegions = 64

var errNoUsableMemory = &kernel.Error{Module: "alloc", Message: "memory map contains no usable regions"}

// bumpAllocator hands out memory by advancing a watermark through the usable
// regions captured from the firmware memory map. It never frees; its job is
// to carry the kernel to the point where a real allocator can take over.
type bumpAllocator struct {
	regions    [maxRegions]Region
	numRegions int

	current int
	cursor  uintptr

	used  mem.Size
	total mem.Size
}

func newBumpAllocator(memoryMap *uefi.MemoryMap) (*bumpAllocator, *kernel.Error) {
	var b bumpAllocator

	memoryMap.VisitRegions(func(d *uefi.MemoryDescriptor) bool {
		if !d.Usable() || d.NumberOfPages == 0 {
			return true
		}
		if b.numRegions == maxRegions {
			return false
		}
		b.regions[b.numRegions] = Region{Start: uintptr(d.PhysicalStart), Size: d.Size()}
		b.numRegions++
		b.total += d.Size()
		return true
	})

	if b.numRegions == 0 {
		return nil, errNoUsableMemory
	}

	b.cursor = b.regions[0].Start
	return &b, nil
}

// Allocate carves size bytes aligned to align out of the current region,
// spilling to the next region when the current one cannot fit the request.
// On failure the watermark does not move, so a retry of the same request
// fails the same way.
func (b *bumpAllocator) Allocate(size, align mem.Size) (Region, *kernel.Error) {
	if err := checkRequest(size, align); err != nil {
		return Region{}, err
	}

	for idx, cursor := b.current, b.cursor; idx < b.numRegions; idx++ {
		if idx != b.current {
			cursor = b.regions[idx].Start
		}

		start := alignUp(cursor, align)
		if start+uintptr(size) > b.regions[idx].End() || start < cursor {
			continue
		}

		b.current = idx
		b.cursor = start + uintptr(size)
		b.used += size
		return Region{Start: start, Size: size}, nil
	}

	return Region{}, errOutOfMemory
}

func (b *bumpAllocator) Stats() Stats {
	return Stats{Used: b.used, Total: b.total}
}
