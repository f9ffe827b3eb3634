package cpu

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// InterruptsEnabled returns true if the interrupt flag is set.
func InterruptsEnabled() bool {
	return ReadFlags()&flagIF != 0
}

// flagIF is the interrupt-enable bit in RFLAGS.
const flagIF = 1 << 9

// ReadFlags returns the current contents of the RFLAGS register.
func ReadFlags() uint64

// Halt stops instruction execution with interrupts disabled. It never
// returns.
func Halt()

// LoadGDT loads the global descriptor table pointed to by the supplied
// 10-byte descriptor (16-bit limit followed by a 64-bit base).
func LoadGDT(descriptor uintptr)

// LoadIDT loads the interrupt descriptor table pointed to by the supplied
// 10-byte descriptor (16-bit limit followed by a 64-bit base).
func LoadIDT(descriptor uintptr)

// LoadTaskRegister loads the task register with the supplied TSS segment
// selector. The referenced GDT entry must already be present.
func LoadTaskRegister(selector uint16)

// ReloadSegments reloads the code segment register via a far return and
// points all data segment registers at the supplied data selector.
func ReloadSegments(code uint16, data uint16)

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8

// PortWriteWord writes a uint16 value to the requested port.
func PortWriteWord(port uint16, val uint16)

// PortReadWord reads a uint16 value from the requested port.
func PortReadWord(port uint16) uint16
