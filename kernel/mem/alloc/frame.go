package alloc

import (
	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/mem"
)

var (
	errUnalignedRegion = &kernel.Error{Module: "alloc", Message: "frame allocator region is not page-aligned"}
	errBitmapTooSmall  = &kernel.Error{Module: "alloc", Message: "bitmap cannot cover the frame allocator region"}
)

// FrameAllocator manages a region at page granularity with a free bitmap.
// It is the second allocation stage: its bitmap storage is carved out of the
// bump allocator before the switch, so the two stages never overlap.
type FrameAllocator struct {
	base   uintptr
	frames int
	bitmap []uint64

	used  mem.Size
	total mem.Size
}

// NewFrameAllocator manages region using the supplied bitmap storage, which
// must hold one bit per page frame in the region.
func NewFrameAllocator(region Region, bitmap []uint64) (*FrameAllocator, *kernel.Error) {
	if region.Start&uintptr(mem.PageSize-1) != 0 {
		return nil, errUnalignedRegion
	}

	frames := int(region.Size >> mem.PageShift)
	if frames == 0 {
		return nil, errNoUsableMemory
	}
	if len(bitmap)*64 < frames {
		return nil, errBitmapTooSmall
	}

	for i := range bitmap {
		bitmap[i] = 0
	}

	return &FrameAllocator{
		base:   region.Start,
		frames: frames,
		bitmap: bitmap,
		total:  mem.Size(frames) << mem.PageShift,
	}, nil
}

// Allocate reserves a contiguous run of page frames covering size bytes. The
// run start honors align; on failure no frame is marked and the allocator
// state is unchanged.
func (f *FrameAllocator) Allocate(size, align mem.Size) (Region, *kernel.Error) {
	if err := checkRequest(size, align); err != nil {
		return Region{}, err
	}

	count := int((size + mem.PageSize - 1) >> mem.PageShift)
	step := 1
	if align > mem.PageSize {
		step = int(align >> mem.PageShift)
	}

	for frame := f.alignedStart(step); frame+count <= f.frames; frame += step {
		if !f.runFree(frame, count) {
			continue
		}
		f.markRun(frame, count)
		f.used += mem.Size(count) << mem.PageShift
		return Region{
			Start: f.base + uintptr(frame)<<mem.PageShift,
			Size:  mem.Size(count) << mem.PageShift,
		}, nil
	}

	return Region{}, errOutOfMemory
}

// Free releases a region previously handed out by Allocate.
func (f *FrameAllocator) Free(region Region) {
	frame := int((region.Start - f.base) >> mem.PageShift)
	count := int(region.Size >> mem.PageShift)
	for i := frame; i < frame+count; i++ {
		f.bitmap[i>>6] &^= 1 << (uint(i) & 63)
	}
	f.used -= mem.Size(count) << mem.PageShift
}

func (f *FrameAllocator) Stats() Stats {
	return Stats{Used: f.used, Total: f.total}
}

// alignedStart returns the first frame index whose physical address honors a
// step-frame alignment.
func (f *FrameAllocator) alignedStart(step int) int {
	if step == 1 {
		return 0
	}
	aligned := alignUp(f.base, mem.Size(step)<<mem.PageShift)
	return int((aligned - f.base) >> mem.PageShift)
}

func (f *FrameAllocator) runFree(frame, count int) bool {
	for i := frame; i < frame+count; i++ {
		if f.bitmap[i>>6]&(1<<(uint(i)&63)) != 0 {
			return false
		}
	}
	return true
}

func (f *FrameAllocator) markRun(frame, count int) {
	for i := frame; i < frame+count; i++ {
		f.bitmap[i>>6] |= 1 << (uint(i) & 63)
	}
}
