package desc

import "github.com/ameysawant1/os/kernel"

// numVectors is the architectural interrupt vector count.
const numVectors = 256

// GateDescriptor is a 16-byte long mode IDT entry.
type GateDescriptor [2]uint64

// 64-bit interrupt gate, present, DPL 0. Interrupt gates clear IF on entry
// so handlers never nest.
const gateTypeInterrupt = 0x8e

var errGateUnmapped = &kernel.Error{Module: "desc", Message: "interrupt gate has no entry point"}

// newGateDescriptor encodes an interrupt gate targeting pc through the kernel
// code segment. A zero pc marks a vector the entry table never populated and
// is rejected before the table can be loaded.
func newGateDescriptor(pc uintptr, ist uint8) (GateDescriptor, *kernel.Error) {
	if pc == 0 {
		return GateDescriptor{}, errGateUnmapped
	}

	var g GateDescriptor
	g[0] = uint64(pc)&0xffff |
		uint64(SelectorKernelCode)<<16 |
		uint64(ist&0x7)<<32 |
		gateTypeInterrupt<<40 |
		uint64(pc)&0xffff0000<<32
	g[1] = uint64(pc) >> 32
	return g, nil
}
