package irq

import "github.com/ameysawant1/os/kernel/cpu"

// Legacy 8259 controller ports.
const (
	picMasterCmd  = 0x20
	picMasterData = 0x21
	picSlaveCmd   = 0xa0
	picSlaveData  = 0xa1

	picCmdInit = 0x11
	picCmdEOI  = 0x20

	picMode8086 = 0x01

	// Hardware lines are delivered at vectors 0x20-0x2f, clear of the CPU
	// exception range.
	irqBase      = 0x20
	irqLineCount = 16
)

// Port I/O primitives. Swapped out by tests.
var (
	portWriteFn = cpu.PortWriteByte
	portReadFn  = cpu.PortReadByte
)

// remapPIC reprograms both 8259s so their lines land at irqBase and leaves
// every line masked. Unmasking is deferred until a handler is registered for
// the line.
func remapPIC() {
	portWriteFn(picMasterCmd, picCmdInit)
	portWriteFn(picSlaveCmd, picCmdInit)
	portWriteFn(picMasterData, irqBase)
	portWriteFn(picSlaveData, irqBase+8)
	portWriteFn(picMasterData, 0x04) // slave on line 2
	portWriteFn(picSlaveData, 0x02)
	portWriteFn(picMasterData, picMode8086)
	portWriteFn(picSlaveData, picMode8086)

	portWriteFn(picMasterData, 0xff)
	portWriteFn(picSlaveData, 0xff)
}

// maskLine disables delivery for a hardware line at the controller.
func maskLine(line uint8) {
	port := uint16(picMasterData)
	if line >= 8 {
		port = picSlaveData
		line -= 8
	}
	portWriteFn(port, portReadFn(port)|1<<line)
}

// unmaskLine enables delivery for a hardware line. Lines routed through the
// slave also need line 2 open on the master.
func unmaskLine(line uint8) {
	if line >= 8 {
		portWriteFn(picSlaveData, portReadFn(picSlaveData)&^(1<<(line-8)))
		line = 2
	}
	portWriteFn(picMasterData, portReadFn(picMasterData)&^(1<<line))
}

// ackLine signals end of interrupt for a hardware line. Slave lines need the
// acknowledgement on both controllers.
func ackLine(line uint8) {
	if line >= 8 {
		portWriteFn(picSlaveCmd, picCmdEOI)
	}
	portWriteFn(picMasterCmd, picCmdEOI)
}
