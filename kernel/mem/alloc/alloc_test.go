package alloc

import (
	"testing"

	"github.com/ameysawant1/os/kernel/mem"
	"github.com/ameysawant1/os/kernel/uefi"
)

func testMap(descriptors ...uefi.MemoryDescriptor) *uefi.MemoryMap {
	return &uefi.MemoryMap{Descriptors: descriptors}
}

func TestBumpAllocatorSeeding(t *testing.T) {
	m := testMap(
		uefi.MemoryDescriptor{Type: uefi.MemReserved, PhysicalStart: 0, NumberOfPages: 16},
		uefi.MemoryDescriptor{Type: uefi.MemConventional, PhysicalStart: 0x100000, NumberOfPages: 256},
		uefi.MemoryDescriptor{Type: uefi.MemACPIReclaim, PhysicalStart: 0x200000, NumberOfPages: 8},
	)

	b, err := newBumpAllocator(m)
	if err != nil {
		t.Fatal(err)
	}

	if got := b.Stats().Total; got != 1048576 {
		t.Fatalf("expected total 1048576 bytes; got %d", got)
	}
	if got := b.Stats().Used; got != 0 {
		t.Fatalf("expected no memory used after seeding; got %d", got)
	}

	if _, err := newBumpAllocator(testMap(
		uefi.MemoryDescriptor{Type: uefi.MemReserved, PhysicalStart: 0, NumberOfPages: 16},
	)); err != errNoUsableMemory {
		t.Fatalf("expected errNoUsableMemory; got %v", err)
	}
}

func TestBumpAllocatorExhaustion(t *testing.T) {
	m := testMap(
		uefi.MemoryDescriptor{Type: uefi.MemConventional, PhysicalStart: 0x100000, NumberOfPages: 256},
	)

	b, err := newBumpAllocator(m)
	if err != nil {
		t.Fatal(err)
	}

	r, err := b.Allocate(1024, 16)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 0x100000 || r.Size != 1024 {
		t.Fatalf("expected region [100000, 1024]; got [%x, %d]", r.Start, r.Size)
	}
	if got := b.Stats().Used; got != 1024 {
		t.Fatalf("expected 1024 bytes used; got %d", got)
	}

	// The remaining space cannot fit a full megabyte. The failure must not
	// move the watermark.
	for attempt := 0; attempt < 2; attempt++ {
		if _, err = b.Allocate(1048576, 16); err != errOutOfMemory {
			t.Fatalf("attempt %d: expected errOutOfMemory; got %v", attempt, err)
		}
		if got := b.Stats().Used; got != 1024 {
			t.Fatalf("attempt %d: expected used to stay at 1024; got %d", attempt, got)
		}
	}

	// The allocator still serves requests that fit.
	if r, err = b.Allocate(512, 16); err != nil {
		t.Fatal(err)
	}
	if r.Start != 0x100400 {
		t.Fatalf("expected next region at 100400; got %x", r.Start)
	}
}

func TestBumpAllocatorAlignmentAndSpill(t *testing.T) {
	m := testMap(
		uefi.MemoryDescriptor{Type: uefi.MemConventional, PhysicalStart: 0x1000, NumberOfPages: 1},
		uefi.MemoryDescriptor{Type: uefi.MemConventional, PhysicalStart: 0x10000, NumberOfPages: 4},
	)

	b, err := newBumpAllocator(m)
	if err != nil {
		t.Fatal(err)
	}

	if _, err = b.Allocate(0x10, 1); err != nil {
		t.Fatal(err)
	}

	r, err := b.Allocate(0x100, 0x100)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 0x1100 {
		t.Fatalf("expected aligned region at 1100; got %x", r.Start)
	}

	// Too big for the remainder of the first region, spills into the second.
	r, err = b.Allocate(0x2000, 0x1000)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 0x10000 {
		t.Fatalf("expected spill into second region at 10000; got %x", r.Start)
	}

	specs := []struct {
		size, align mem.Size
		expErr      error
	}{
		{0, 16, errZeroSize},
		{16, 0, errBadAlign},
		{16, 24, errBadAlign},
	}
	for specIndex, spec := range specs {
		if _, err := b.Allocate(spec.size, spec.align); err != spec.expErr {
			t.Errorf("[spec %d] expected %v; got %v", specIndex, spec.expErr, err)
		}
	}
}

func TestBumpAllocatorRegionsNeverOverlap(t *testing.T) {
	m := testMap(
		uefi.MemoryDescriptor{Type: uefi.MemConventional, PhysicalStart: 0x100000, NumberOfPages: 64},
	)

	b, err := newBumpAllocator(m)
	if err != nil {
		t.Fatal(err)
	}

	var regions []Region
	sizes := []mem.Size{1, 64, 3, 4096, 17, 1024}
	for _, size := range sizes {
		r, err := b.Allocate(size, 8)
		if err != nil {
			t.Fatal(err)
		}
		regions = append(regions, r)
	}

	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			a, b := regions[i], regions[j]
			if a.Start < b.End() && b.Start < a.End() {
				t.Fatalf("regions %d and %d overlap: [%x, %x) and [%x, %x)",
					i, j, a.Start, a.End(), b.Start, b.End())
			}
		}
	}
}

func TestFrameAllocator(t *testing.T) {
	bitmap := make([]uint64, 4)
	f, err := NewFrameAllocator(Region{Start: 0x200000, Size: 256 * mem.PageSize}, bitmap)
	if err != nil {
		t.Fatal(err)
	}

	if got := f.Stats().Total; got != 256*mem.PageSize {
		t.Fatalf("expected total %d; got %d", 256*mem.PageSize, got)
	}

	// Sub-page requests round up to a full frame.
	r, err := f.Allocate(100, 8)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 0x200000 || r.Size != mem.PageSize {
		t.Fatalf("expected one frame at 200000; got [%x, %d]", r.Start, r.Size)
	}
	if got := f.Stats().Used; got != mem.PageSize {
		t.Fatalf("expected one frame used; got %d", got)
	}

	// Multi-frame run lands past the first frame.
	r, err = f.Allocate(3*mem.PageSize, mem.PageSize)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 0x201000 || r.Size != 3*mem.PageSize {
		t.Fatalf("expected three frames at 201000; got [%x, %d]", r.Start, r.Size)
	}

	f.Free(r)
	if got := f.Stats().Used; got != mem.PageSize {
		t.Fatalf("expected one frame used after free; got %d", got)
	}

	// Freed frames are reused.
	r, err = f.Allocate(2*mem.PageSize, mem.PageSize)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 0x201000 {
		t.Fatalf("expected freed frames reused at 201000; got %x", r.Start)
	}
}

func TestFrameAllocatorValidation(t *testing.T) {
	if _, err := NewFrameAllocator(Region{Start: 0x200010, Size: mem.PageSize}, make([]uint64, 1)); err != errUnalignedRegion {
		t.Errorf("expected errUnalignedRegion; got %v", err)
	}
	if _, err := NewFrameAllocator(Region{Start: 0x200000, Size: 256 * mem.PageSize}, make([]uint64, 1)); err != errBitmapTooSmall {
		t.Errorf("expected errBitmapTooSmall; got %v", err)
	}
	if _, err := NewFrameAllocator(Region{Start: 0x200000, Size: 100}, make([]uint64, 1)); err != errNoUsableMemory {
		t.Errorf("expected errNoUsableMemory; got %v", err)
	}
}

func TestFrameAllocatorExhaustion(t *testing.T) {
	f, err := NewFrameAllocator(Region{Start: 0x200000, Size: 4 * mem.PageSize}, make([]uint64, 1))
	if err != nil {
		t.Fatal(err)
	}

	if _, err = f.Allocate(2*mem.PageSize, mem.PageSize); err != nil {
		t.Fatal(err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		if _, err = f.Allocate(3*mem.PageSize, mem.PageSize); err != errOutOfMemory {
			t.Fatalf("attempt %d: expected errOutOfMemory; got %v", attempt, err)
		}
		if got := f.Stats().Used; got != 2*mem.PageSize {
			t.Fatalf("attempt %d: expected used unchanged; got %d", attempt, got)
		}
	}
}

func TestStagedStrategySwitch(t *testing.T) {
	defer func() { active = nil }()

	if _, err := Allocate(16, 8); err != errNotInitialized {
		t.Fatalf("expected errNotInitialized; got %v", err)
	}

	m := testMap(
		uefi.MemoryDescriptor{Type: uefi.MemConventional, PhysicalStart: 0x100000, NumberOfPages: 256},
	)
	if err := Init(m); err != nil {
		t.Fatal(err)
	}

	// Carve the frame allocator's bitmap storage out of the bump stage, then
	// hand the untouched tail of the region to the frame stage.
	if _, err := Allocate(32, 8); err != nil {
		t.Fatal(err)
	}

	stats, err := AllocStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Used != 32 {
		t.Fatalf("expected bump stage used 32; got %d", stats.Used)
	}

	f, ferr := NewFrameAllocator(Region{Start: 0x101000, Size: 255 * mem.PageSize}, make([]uint64, 4))
	if ferr != nil {
		t.Fatal(ferr)
	}
	SetStrategy(f)

	r, aerr := Allocate(mem.PageSize, mem.PageSize)
	if aerr != nil {
		t.Fatal(aerr)
	}
	if r.Start != 0x101000 {
		t.Fatalf("expected frame stage to serve from 101000; got %x", r.Start)
	}

	stats, err = AllocStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 255*mem.PageSize {
		t.Fatalf("expected stats to reflect the new strategy; got total %d", stats.Total)
	}
}
