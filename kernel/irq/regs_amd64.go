package irq

import (
	"io"

	"github.com/ameysawant1/os/kernel/kfmt"
)

// Registers is the processor state captured by the interrupt entry stubs.
// The field order matches the push sequence in entry_amd64.s; the tail past
// ErrCode is the frame the CPU itself pushed. Vectors without a hardware
// error code get a zero pushed in its place so every frame has the same
// shape.
type Registers struct {
	R15     uint64
	R14     uint64
	R13     uint64
	R12     uint64
	R11     uint64
	R10     uint64
	R9      uint64
	R8      uint64
	RDI     uint64
	RSI     uint64
	RBP     uint64
	RBX     uint64
	RDX     uint64
	RCX     uint64
	RAX     uint64
	Vector  uint64
	ErrCode uint64
	RIP     uint64
	CS      uint64
	RFlags  uint64
	RSP     uint64
	SS      uint64
}

// DumpTo outputs the register state to w.
func (regs *Registers) DumpTo(w io.Writer) {
	kfmt.Fprintf(w, "RAX = %16x RBX = %16x\n", regs.RAX, regs.RBX)
	kfmt.Fprintf(w, "RCX = %16x RDX = %16x\n", regs.RCX, regs.RDX)
	kfmt.Fprintf(w, "RSI = %16x RDI = %16x\n", regs.RSI, regs.RDI)
	kfmt.Fprintf(w, "RBP = %16x\n", regs.RBP)
	kfmt.Fprintf(w, "R8  = %16x R9  = %16x\n", regs.R8, regs.R9)
	kfmt.Fprintf(w, "R10 = %16x R11 = %16x\n", regs.R10, regs.R11)
	kfmt.Fprintf(w, "R12 = %16x R13 = %16x\n", regs.R12, regs.R13)
	kfmt.Fprintf(w, "R14 = %16x R15 = %16x\n", regs.R14, regs.R15)
	kfmt.Fprintf(w, "\nRIP = %16x CS  = %16x\n", regs.RIP, regs.CS)
	kfmt.Fprintf(w, "RSP = %16x SS  = %16x\n", regs.RSP, regs.SS)
	kfmt.Fprintf(w, "RFL = %16x\n", regs.RFlags)
}
