// genvectors emits the interrupt entry stubs for kernel/irq: one assembly
// stub per vector plus the Go declarations and lookup table that expose the
// stub addresses. Run it from the repository root after changing the frame
// layout or the dispatch entry point.
package main

import (
	"bytes"
	"fmt"
	"os"
)

const numVectors = 256

// Vectors where the CPU pushes an error code of its own. Every other stub
// pushes a zero so the frame layout is uniform.
var hasErrorCode = map[int]bool{
	8: true, 10: true, 11: true, 12: true, 13: true, 14: true,
	17: true, 21: true, 29: true, 30: true,
}

const header = "// Code generated by genvectors; DO NOT EDIT.\n\n"

func main() {
	if err := emit("kernel/irq/entry_amd64.s", genAsm()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := emit("kernel/irq/vectors_amd64.go", genGo()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func emit(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

func genAsm() []byte {
	var buf bytes.Buffer

	buf.WriteString(header)
	buf.WriteString(`#include "textflag.h"

// Saves the general purpose registers on top of the vector number and error
// code pushed by the per-vector stubs, forming the Registers layout, and
// hands the frame to the Go dispatcher. Hardware interrupt gates clear IF so
// the whole path runs with delivery suspended.
TEXT vectorCommon<>(SB), NOSPLIT|NOFRAME, $0
	PUSHQ AX
	PUSHQ CX
	PUSHQ DX
	PUSHQ BX
	PUSHQ BP
	PUSHQ SI
	PUSHQ DI
	PUSHQ R8
	PUSHQ R9
	PUSHQ R10
	PUSHQ R11
	PUSHQ R12
	PUSHQ R13
	PUSHQ R14
	PUSHQ R15
	MOVQ  SP, AX
	SUBQ  $8, SP
	MOVQ  AX, 0(SP)
	CALL  ·dispatchInterrupt(SB)
	ADDQ  $8, SP
	POPQ  R15
	POPQ  R14
	POPQ  R13
	POPQ  R12
	POPQ  R11
	POPQ  R10
	POPQ  R9
	POPQ  R8
	POPQ  DI
	POPQ  SI
	POPQ  BP
	POPQ  BX
	POPQ  DX
	POPQ  CX
	POPQ  AX
	ADDQ  $16, SP
	IRETQ
`)

	for vec := 0; vec < numVectors; vec++ {
		fmt.Fprintf(&buf, "\nTEXT ·vectorEntry%d(SB), NOSPLIT|NOFRAME, $0\n", vec)
		if !hasErrorCode[vec] {
			buf.WriteString("\tPUSHQ $0\n")
		}
		fmt.Fprintf(&buf, "\tPUSHQ $%d\n", vec)
		buf.WriteString("\tJMP   vectorCommon<>(SB)\n")
	}

	return buf.Bytes()
}

func genGo() []byte {
	var buf bytes.Buffer

	buf.WriteString(header)
	buf.WriteString("package irq\n\n")

	for vec := 0; vec < numVectors; vec++ {
		fmt.Fprintf(&buf, "func vectorEntry%d()\n", vec)
	}

	buf.WriteString("\nvar vectorEntries = [numVectors]func(){\n")
	for vec := 0; vec < numVectors; vec++ {
		fmt.Fprintf(&buf, "\tvectorEntry%d,\n", vec)
	}
	buf.WriteString("}\n")

	return buf.Bytes()
}
