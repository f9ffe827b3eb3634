// Package uart provides a driver for the 16550 serial port. The first port
// doubles as the kernel log sink so the boot transcript survives on machines
// without a usable display.
package uart

import (
	"io"

	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/cpu"
)

// Register offsets from the port base.
const (
	regData       = 0
	regIntEnable  = 1
	regFIFOCtrl   = 2
	regLineCtrl   = 3
	regModemCtrl  = 4
	regLineStatus = 5
	regScratch    = 7

	// Divisor latch, visible while DLAB is set in the line control register.
	regDivisorLo = 0
	regDivisorHi = 1

	lineStatusTxEmpty = 1 << 5

	com1Base = 0x3f8
)

// Port I/O primitives. Swapped out by tests.
var (
	portWriteFn = cpu.PortWriteByte
	portReadFn  = cpu.PortReadByte
)

// Uart drives a 16550-compatible serial port. It implements io.Writer so it
// can be attached directly as the kfmt output sink.
type Uart struct {
	base uint16
}

// NewUart returns a driver for the port at base.
func NewUart(base uint16) *Uart {
	return &Uart{base: base}
}

// DriverName returns the name of the driver.
func (dev *Uart) DriverName() string { return "16550_uart" }

// DriverVersion returns the driver version.
func (dev *Uart) DriverVersion() (uint16, uint16, uint16) { return 0, 1, 0 }

// DriverInit programs the port for 115200 8n1 operation with FIFOs enabled.
func (dev *Uart) DriverInit(_ io.Writer) *kernel.Error {
	portWriteFn(dev.base+regIntEnable, 0x00)
	portWriteFn(dev.base+regLineCtrl, 0x80) // DLAB on
	portWriteFn(dev.base+regDivisorLo, 0x01)
	portWriteFn(dev.base+regDivisorHi, 0x00)
	portWriteFn(dev.base+regLineCtrl, 0x03) // 8n1, DLAB off
	portWriteFn(dev.base+regFIFOCtrl, 0xc7)
	portWriteFn(dev.base+regModemCtrl, 0x0b)
	return nil
}

// Write outputs data on the port, translating line feeds to CRLF pairs for
// terminal consumption. It never fails; the error return satisfies
// io.Writer.
func (dev *Uart) Write(data []byte) (int, error) {
	for _, b := range data {
		if b == '\n' {
			dev.writeByte('\r')
		}
		dev.writeByte(b)
	}
	return len(data), nil
}

func (dev *Uart) writeByte(b byte) {
	for portReadFn(dev.base+regLineStatus)&lineStatusTxEmpty == 0 {
	}
	portWriteFn(dev.base+regData, b)
}

// ActiveUart returns the probed serial port, or nil when no port was found.
// The hal package attaches it to kfmt once hardware detection completes.
func ActiveUart() *Uart {
	return activeUart
}

var activeUart *Uart
