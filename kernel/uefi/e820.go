package uefi

import (
	"io"

	"github.com/u-root/u-root/pkg/boot/bzimage"

	"github.com/ameysawant1/os/kernel/kfmt"
)

// Address range type for persistent memory; ACPI 6.0, table 15-312.
const addressRangePersistentMemory = 7

// E820 converts a firmware memory descriptor to the x86 E820 form used for
// post-exit diagnostics dumps.
func (d *MemoryDescriptor) E820() bzimage.E820Entry {
	e := bzimage.E820Entry{
		Addr: d.PhysicalStart,
		Size: uint64(d.Size()),
	}

	switch d.Type {
	case MemLoaderCode, MemLoaderData, MemBootServicesCode, MemBootServicesData, MemConventional:
		e.MemType = bzimage.RAM
	case MemPersistent:
		e.MemType = addressRangePersistentMemory
	case MemACPIReclaim:
		e.MemType = bzimage.ACPI
	case MemACPINVS:
		e.MemType = bzimage.NVS
	default:
		e.MemType = bzimage.Reserved
	}

	return e
}

// E820Table converts the whole snapshot to E820 form.
func (m *MemoryMap) E820Table() []bzimage.E820Entry {
	table := make([]bzimage.E820Entry, 0, len(m.Descriptors))
	for i := range m.Descriptors {
		table = append(table, m.Descriptors[i].E820())
	}
	return table
}

// DumpTo writes the snapshot in E820 form to w, one line per range. The
// firmware map is unreachable after boot-services exit, so this dump is the
// reference for debugging memory layout issues later on.
func (m *MemoryMap) DumpTo(w io.Writer) {
	for _, e := range m.E820Table() {
		kfmt.Fprintf(w, "  %16x - %16x %s\n", e.Addr, e.Addr+e.Size, e820TypeName(e))
	}
}

func e820TypeName(e bzimage.E820Entry) string {
	switch e.MemType {
	case bzimage.RAM:
		return "RAM"
	case bzimage.ACPI:
		return "ACPI reclaimable"
	case bzimage.NVS:
		return "ACPI NVS"
	case addressRangePersistentMemory:
		return "persistent"
	default:
		return "reserved"
	}
}
