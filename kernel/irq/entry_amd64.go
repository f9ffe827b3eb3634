package irq

import "unsafe"

// EntryPoint returns the address of the assembly entry stub for a vector, in
// the form the descriptor table builder encodes into an interrupt gate.
func EntryPoint(vector uint8) uintptr {
	return funcPC(vectorEntries[vector])
}

// EntryIST selects the interrupt stack for a vector. Double faults switch to
// the dedicated fault stack since the current stack may be the fault.
func EntryIST(vector uint8) uint8 {
	if vector == 8 {
		return 1
	}
	return 0
}

// funcPC extracts the entry address of fn. fn must be a top-level function
// so the func value is a pointer to a static funcval.
func funcPC(fn func()) uintptr {
	return **(**uintptr)(unsafe.Pointer(&fn))
}
