package desc

import "github.com/ameysawant1/os/kernel"

// GDT slot indices. The TSS descriptor spans two slots in long mode with the
// high half of its base address in the second slot.
const (
	segNull = iota
	segKernelCode
	segKernelData
	segTSS
	segTSSHigh
	segCount
)

// Segment selectors loaded into the segment registers and referenced by
// every IDT gate.
const (
	SelectorKernelCode = uint16(segKernelCode << 3)
	SelectorKernelData = uint16(segKernelData << 3)
	selectorTSS        = uint16(segTSS << 3)
)

// SegmentDescriptor is a 64-bit GDT entry. The uint64 underlying type forces
// 8-byte alignment.
type SegmentDescriptor uint64

// Segment descriptor flag bits (counted from bit 40 of the descriptor, i.e.
// the start of its second dword).
type segmentFlags uint32

const (
	segFlagAccess  segmentFlags = 1 << 8
	segFlagWrite   segmentFlags = 1 << 9
	segFlagCode    segmentFlags = 1 << 11
	segFlagSystem  segmentFlags = 1 << 12
	segFlagPresent segmentFlags = 1 << 15
	segFlagLong    segmentFlags = 1 << 21
	segFlagGranule segmentFlags = 1 << 23
)

// FlatSegmentLimit is the maximum 20-bit limit, covering the full address
// space with page granularity. Flat code and data segments use it.
const FlatSegmentLimit = 0xfffff

var (
	errZeroLimit    = &kernel.Error{Module: "desc", Message: "segment descriptor with zero limit"}
	errLimitTooHigh = &kernel.Error{Module: "desc", Message: "segment limit exceeds 20 bits"}
)

// newSegmentDescriptor encodes a code or data segment descriptor. Malformed
// input is a configuration error reported at build time, before anything is
// loaded into the processor.
func newSegmentDescriptor(base uint32, limit uint32, flags segmentFlags, dpl uint32) (SegmentDescriptor, *kernel.Error) {
	if limit == 0 {
		return 0, errZeroLimit
	}
	if limit > FlatSegmentLimit {
		return 0, errLimitTooHigh
	}

	flags |= segFlagPresent
	w0 := base<<16 | limit&0xffff
	w1 := base&0xff000000 | limit&0xf0000 | uint32(flags) | dpl<<13 | (base>>16)&0xff
	return SegmentDescriptor(uint64(w1)<<32 | uint64(w0)), nil
}
