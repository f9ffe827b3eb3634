package desc

import (
	"unsafe"
)

// TaskSegment is the 104-byte long mode TSS. Interrupt delivery reads RSP0
// when crossing from user to kernel mode and the IST slots when a gate names
// a non-zero IST index.
type TaskSegment struct {
	_      uint32
	rsp    [3][2]uint32
	_      [2]uint32
	ist    [7][2]uint32
	_      [2]uint32
	_      uint16
	ioBase uint16
}

const (
	tssTypeAvailable = 0x9
	tssLimit         = uint32(unsafe.Sizeof(TaskSegment{}) - 1)
)

func (t *TaskSegment) setRSP0(sp uintptr) {
	t.rsp[0][0] = uint32(sp)
	t.rsp[0][1] = uint32(sp >> 32)
}

func (t *TaskSegment) setIST(index int, sp uintptr) {
	t.ist[index-1][0] = uint32(sp)
	t.ist[index-1][1] = uint32(sp >> 32)
}

// tssDescriptor encodes the two GDT slots covering a 64-bit TSS descriptor.
// The first slot carries the low 32 bits of the base in legacy layout and the
// second the high 32 bits.
func tssDescriptor(base uintptr) (SegmentDescriptor, SegmentDescriptor) {
	w0 := uint32(base)<<16 | tssLimit&0xffff
	w1 := uint32(base)&0xff000000 |
		uint32(segFlagPresent) |
		tssTypeAvailable<<8 |
		(uint32(base)>>16)&0xff
	low := SegmentDescriptor(uint64(w1)<<32 | uint64(w0))
	high := SegmentDescriptor(base >> 32)
	return low, high
}
