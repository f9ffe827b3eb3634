package uefi

import (
	"unsafe"

	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/mem"
)

// EFI_MEMORY_TYPE values.
const (
	MemReserved uint32 = iota
	MemLoaderCode
	MemLoaderData
	MemBootServicesCode
	MemBootServicesData
	MemRuntimeServicesCode
	MemRuntimeServicesData
	MemConventional
	MemUnusable
	MemACPIReclaim
	MemACPINVS
	MemMappedIO
	MemMappedIOPortSpace
	MemPalCode
	MemPersistent
)

// maxMapEntries bounds the static buffer used to receive the firmware map.
// Firmware maps observed under OVMF stay well below 200 entries.
const maxMapEntries = 256

var (
	errMapTooLarge = &kernel.Error{Module: "uefi", Message: "memory map exceeds static buffer"}
	errStaleMapKey = &kernel.Error{Module: "uefi", Message: "stale memory map key"}

	// mapBuf receives the raw descriptor array. Static so obtaining the
	// snapshot performs no allocation.
	mapBuf [maxMapEntries * int(unsafe.Sizeof(MemoryDescriptor{}))]byte
)

// MemoryDescriptor mirrors EFI_MEMORY_DESCRIPTOR.
type MemoryDescriptor struct {
	Type          uint32
	_             uint32
	PhysicalStart uint64
	VirtualStart  uint64
	NumberOfPages uint64
	Attribute     uint64
}

// PhysicalEnd returns the physical address one past the descriptor range.
func (d *MemoryDescriptor) PhysicalEnd() uint64 {
	return d.PhysicalStart + d.NumberOfPages*uint64(mem.PageSize)
}

// Size returns the descriptor range size in bytes.
func (d *MemoryDescriptor) Size() mem.Size {
	return mem.Size(d.NumberOfPages) * mem.PageSize
}

// Usable reports whether the descriptor range is free for kernel use once
// boot services have been exited. Loader and boot-services ranges revert to
// conventional memory at that point (UEFI spec, memory type usage after
// ExitBootServices).
func (d *MemoryDescriptor) Usable() bool {
	switch d.Type {
	case MemLoaderCode, MemLoaderData, MemBootServicesCode, MemBootServicesData, MemConventional:
		return true
	default:
		return false
	}
}

// TypeName returns a printable name for the descriptor type.
func (d *MemoryDescriptor) TypeName() string {
	switch d.Type {
	case MemConventional:
		return "conventional"
	case MemLoaderCode, MemLoaderData:
		return "loader"
	case MemBootServicesCode, MemBootServicesData:
		return "boot services"
	case MemRuntimeServicesCode, MemRuntimeServicesData:
		return "runtime services"
	case MemACPIReclaim, MemACPINVS:
		return "acpi"
	case MemMappedIO, MemMappedIOPortSpace:
		return "mmio"
	case MemPersistent:
		return "persistent"
	default:
		return "reserved"
	}
}

// MemoryMap is an ordered snapshot of the firmware memory descriptors plus
// the key that must accompany the exit call. The key invalidates on any
// intervening firmware allocation.
type MemoryMap struct {
	Descriptors []MemoryDescriptor
	MapKey      uintptr

	descriptorSize uint64

	// entries backs Descriptors so that snapshots performed before the
	// allocator exists do not allocate.
	entries [maxMapEntries]MemoryDescriptor
}

// DescriptorVisitor is invoked by VisitRegions for every descriptor in the
// snapshot. Returning false aborts the scan.
type DescriptorVisitor func(d *MemoryDescriptor) bool

// VisitRegions walks the snapshot in firmware order.
func (m *MemoryMap) VisitRegions(visit DescriptorVisitor) {
	for i := range m.Descriptors {
		if !visit(&m.Descriptors[i]) {
			return
		}
	}
}

// TotalUsable sums the sizes of all usable regions in the snapshot.
func (m *MemoryMap) TotalUsable() mem.Size {
	var total mem.Size
	m.VisitRegions(func(d *MemoryDescriptor) bool {
		if d.Usable() {
			total += d.Size()
		}
		return true
	})
	return total
}

// GetMemoryMap queries the firmware for the current memory map. No firmware
// allocation may happen between this call and the exit call or the returned
// key goes stale.
func (s *Services) GetMemoryMap(m *MemoryMap) *kernel.Error {
	descSize := uint64(unsafe.Sizeof(MemoryDescriptor{}))

	mapSize := uint64(len(mapBuf))
	status := s.call(bootSvcGetMemoryMap,
		ptrval(unsafe.Pointer(&mapSize)),
		ptrval(unsafe.Pointer(&mapBuf[0])),
		ptrval(unsafe.Pointer(&m.MapKey)),
		ptrval(unsafe.Pointer(&m.descriptorSize)),
	)

	if status == StatusBufferTooSmall {
		return errMapTooLarge
	}
	if err := status.Err(); err != nil {
		return err
	}

	// The firmware descriptor stride may exceed our struct size; walk the
	// buffer using the reported stride.
	if m.descriptorSize == 0 {
		m.descriptorSize = descSize
	}

	count := 0
	for off := uint64(0); off+descSize <= mapSize && count < maxMapEntries; off += m.descriptorSize {
		m.entries[count] = *(*MemoryDescriptor)(unsafe.Pointer(&mapBuf[off]))
		count++
	}
	m.Descriptors = m.entries[:count]

	return nil
}
