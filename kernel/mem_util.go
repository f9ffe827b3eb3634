package kernel

import "unsafe"

// Memset sets size bytes starting at addr to the supplied value. Instead of a
// byte-wise loop it performs log2(size) copy calls; allocated regions are
// page-aligned so the copies operate on aligned blocks.
func Memset(addr uintptr, value byte, size uintptr) {
	if size == 0 {
		return
	}

	target := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)

	target[0] = value
	for index := uintptr(1); index < size; index *= 2 {
		copy(target[index:], target[:index])
	}
}
