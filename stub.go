package main

import "github.com/ameysawant1/os/kernel/kmain"

var (
	imageHandlePtr uintptr
	systemTablePtr uintptr
)

// main makes a dummy call to the actual kernel main entrypoint function. It
// is intentionally defined to prevent the Go compiler from optimizing away
// the real kernel code.
//
// Global variables are passed as arguments to Kmain to prevent the compiler
// from inlining the actual call and removing Kmain from the generated .o
// file. The rt0 code patches them with the image handle and system-table
// pointer received from the firmware before jumping to main.
func main() {
	kmain.Kmain(imageHandlePtr, systemTablePtr)
}
