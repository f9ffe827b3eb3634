// Package desc builds and installs the processor descriptor tables. A Set
// bundles the GDT, the TSS and the IDT so the three are validated as a unit
// before any of them is handed to the CPU.
package desc

import (
	"unsafe"

	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/cpu"
)

var (
	errInterruptsEnabled = &kernel.Error{Module: "desc", Message: "descriptor tables loaded with interrupts enabled"}
	errNotBuilt          = &kernel.Error{Module: "desc", Message: "descriptor tables not built"}
	errNoEntryFn         = &kernel.Error{Module: "desc", Message: "gate entry lookup not configured"}
	errNoKernelStack     = &kernel.Error{Module: "desc", Message: "kernel stack top not configured"}
	errBadVector         = &kernel.Error{Module: "desc", Message: "vector remapped while unmasked"}

	// Register load primitives. Swapped out by tests.
	loadGDTFn        = cpu.LoadGDT
	loadIDTFn        = cpu.LoadIDT
	loadTaskRegFn    = cpu.LoadTaskRegister
	reloadSegmentsFn = cpu.ReloadSegments
	interruptsOffFn  = func() bool { return !cpu.InterruptsEnabled() }
)

// Config carries everything Build needs to encode the tables. GateEntry maps
// an interrupt vector to the address of its entry stub and must cover all 256
// vectors. GateIST selects the IST slot for a vector; zero keeps the current
// stack. SegmentLimit is the limit encoded into the code and data segments,
// normally FlatSegmentLimit.
type Config struct {
	KernelStackTop uintptr
	FaultStackTop  uintptr
	SegmentLimit   uint32
	GateEntry      func(vector uint8) uintptr
	GateIST        func(vector uint8) uint8
}

// tableDescriptor is the 10-byte operand of lgdt and lidt.
type tableDescriptor struct {
	limit uint16
	base  uintptr
}

// Set holds the encoded tables. The arrays live inside the struct so a
// package-level Set has a stable address for the lifetime of the kernel.
type Set struct {
	gdt [segCount]SegmentDescriptor
	tss TaskSegment
	idt [numVectors]GateDescriptor

	gdtDesc tableDescriptor
	idtDesc tableDescriptor

	built  bool
	loaded bool
}

// Build encodes the GDT, TSS and IDT from cfg. Any malformed descriptor
// aborts the build and leaves the set unloadable, so a bad configuration can
// never reach the processor half-installed.
func (s *Set) Build(cfg Config) *kernel.Error {
	s.built = false

	if cfg.GateEntry == nil {
		return errNoEntryFn
	}
	if cfg.KernelStackTop == 0 {
		return errNoKernelStack
	}

	var err *kernel.Error
	if s.gdt[segKernelCode], err = newSegmentDescriptor(0, cfg.SegmentLimit,
		segFlagCode|segFlagSystem|segFlagAccess|segFlagLong|segFlagGranule, 0); err != nil {
		return err
	}
	if s.gdt[segKernelData], err = newSegmentDescriptor(0, cfg.SegmentLimit,
		segFlagWrite|segFlagSystem|segFlagAccess|segFlagGranule, 0); err != nil {
		return err
	}

	s.tss = TaskSegment{ioBase: uint16(unsafe.Sizeof(TaskSegment{}))}
	s.tss.setRSP0(cfg.KernelStackTop)
	if cfg.FaultStackTop != 0 {
		s.tss.setIST(1, cfg.FaultStackTop)
	}
	s.gdt[segTSS], s.gdt[segTSSHigh] = tssDescriptor(uintptr(unsafe.Pointer(&s.tss)))

	for vec := 0; vec < numVectors; vec++ {
		var ist uint8
		if cfg.GateIST != nil {
			ist = cfg.GateIST(uint8(vec))
		}
		if s.idt[vec], err = newGateDescriptor(cfg.GateEntry(uint8(vec)), ist); err != nil {
			return err
		}
	}

	s.gdtDesc = tableDescriptor{
		limit: uint16(segCount*8 - 1),
		base:  uintptr(unsafe.Pointer(&s.gdt[0])),
	}
	s.idtDesc = tableDescriptor{
		limit: uint16(numVectors*16 - 1),
		base:  uintptr(unsafe.Pointer(&s.idt[0])),
	}

	s.built = true
	return nil
}

// Load installs a built set into the processor: lgdt, segment register
// reload, ltr, then lidt. Interrupts must be off for the whole sequence since
// delivery through a half-installed table is unrecoverable.
func (s *Set) Load() *kernel.Error {
	if !s.built {
		return errNotBuilt
	}
	if !interruptsOffFn() {
		return errInterruptsEnabled
	}

	loadGDTFn(uintptr(unsafe.Pointer(&s.gdtDesc)))
	reloadSegmentsFn(SelectorKernelCode, SelectorKernelData)
	loadTaskRegFn(selectorTSS)
	loadIDTFn(uintptr(unsafe.Pointer(&s.idtDesc)))

	s.loaded = true
	return nil
}

// Loaded reports whether the set has been installed into the processor.
func (s *Set) Loaded() bool {
	return s.loaded
}

// RemapGate repoints a vector at a new entry stub after the table has been
// loaded. The caller must have the vector masked at its controller; the gate
// is invalidated before the edit so a spurious delivery during the rewrite
// hits a not-present gate instead of a torn one.
func (s *Set) RemapGate(vector uint8, pc uintptr, ist uint8) *kernel.Error {
	if !s.loaded {
		return errNotBuilt
	}
	if !interruptsOffFn() {
		return errBadVector
	}

	g, err := newGateDescriptor(pc, ist)
	if err != nil {
		return err
	}

	s.idt[vector] = GateDescriptor{}
	s.idt[vector] = g
	return nil
}
