package kmain

import (
	"unsafe"

	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/cpu"
	"github.com/ameysawant1/os/kernel/desc"
	"github.com/ameysawant1/os/kernel/hal"
	"github.com/ameysawant1/os/kernel/irq"
	"github.com/ameysawant1/os/kernel/kfmt"
	"github.com/ameysawant1/os/kernel/mem/alloc"
	"github.com/ameysawant1/os/kernel/uefi"
	"github.com/ameysawant1/os/payload"
)

var (
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

	bootSvc uefi.Services

	// descriptorTables must live for the lifetime of the kernel; the CPU
	// keeps pointers into it after Load.
	descriptorTables desc.Set

	kernelStack [32 * 1024]byte
	faultStack  [8 * 1024]byte
)

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. The rt0 code passes through the image handle and
// system-table pointer received from the firmware.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the
// CPU.
//
//go:noinline
func Kmain(imageHandle, systemTable uintptr) {
	if err := bootSvc.Init(uefi.Handle(imageHandle), systemTable); err != nil {
		kfmt.Panic(err)
	}

	cons := bootSvc.Console()
	if err := cons.Reset(); err != nil {
		// A stale screen is cosmetic; keep using the console.
		kfmt.Printf("[kmain] %s\n", err.Message)
	}
	kfmt.SetOutputSink(cons)
	kfmt.Printf("[kmain] firmware handoff complete\n")

	bootSvc.ParseCmdLine()
	if err := bootSvc.QueryFramebuffer(); err != nil {
		kfmt.Printf("[kmain] %s\n", err.Message)
	}

	memoryMap, err := bootSvc.ExitBootServices()
	if err != nil {
		kfmt.Panic(err)
	}

	// The firmware console died with boot services. Buffer output until
	// hardware detection attaches a driver sink.
	kfmt.SetOutputSink(nil)

	kfmt.Printf("[kmain] memory map after boot-services exit:\n")
	memoryMap.DumpTo(kfmt.GetOutputSink())

	cpu.DisableInterrupts()
	irq.Init()

	if err = descriptorTables.Build(desc.Config{
		KernelStackTop: stackTop(kernelStack[:]),
		FaultStackTop:  stackTop(faultStack[:]),
		SegmentLimit:   desc.FlatSegmentLimit,
		GateEntry:      irq.EntryPoint,
		GateIST:        irq.EntryIST,
	}); err != nil {
		kfmt.Panic(err)
	}
	if err = descriptorTables.Load(); err != nil {
		kfmt.Panic(err)
	}

	if err = irq.InstallBuiltinHandlers(); err != nil {
		kfmt.Panic(err)
	}
	if err = alloc.Init(memoryMap); err != nil {
		kfmt.Panic(err)
	}
	if err = irq.Enable(); err != nil {
		kfmt.Panic(err)
	}

	hal.DetectHardware()

	if err = payload.Run(); err != nil {
		kfmt.Panic(err)
	}

	kfmt.Printf("[kmain] payload complete, idling\n")
	cpu.Halt()

	// Use kfmt.Panic instead of panic to prevent the compiler from
	// treating it as dead code and eliminating it.
	kfmt.Panic(errKmainReturned)
}

// stackTop returns the 16-byte aligned top of a stack buffer.
func stackTop(stack []byte) uintptr {
	top := uintptr(unsafe.Pointer(&stack[0])) + uintptr(len(stack))
	return top &^ 0xf
}
