package gossip

// Opcode is a wire-protocol command byte. The high bit (0x80) distinguishes
// opcodes from operand/repeat bytes, with one exception: CmdNOP (0x00) is
// an opcode despite its high bit being clear.
type Opcode = byte

// cmdBase is the high bit every opcode but NOP carries.
const cmdBase byte = 0x80

// General opcodes.
const (
	CmdNOP   Opcode = 0x00
	CmdSleep Opcode = 0x10 | cmdBase
)

// Serial bus (SPI-like) opcodes.
const (
	CmdSPIEnable          Opcode = 0x20 | cmdBase
	CmdSPITransfer        Opcode = 0x21 | cmdBase
	CmdSPIDisable         Opcode = 0x22 | cmdBase
	CmdSPISetClockDivisor Opcode = 0x23 | cmdBase
	CmdSPISetMode         Opcode = 0x24 | cmdBase
	CmdSPISetRole         Opcode = 0x25 | cmdBase
	CmdSPISetFrame        Opcode = 0x26 | cmdBase
)

// Two-wire bus (I2C-like) opcodes.
const (
	CmdI2CEnable          Opcode = 0x30 | cmdBase
	CmdI2CWrite           Opcode = 0x31 | cmdBase
	CmdI2CRead            Opcode = 0x32 | cmdBase
	CmdI2CDisable         Opcode = 0x33 | cmdBase
	CmdI2CSetMode         Opcode = 0x34 | cmdBase
	CmdI2CSetSlaveAddress Opcode = 0x35 | cmdBase
)

// Async serial (UART-like) opcodes.
const (
	CmdUARTEnable       Opcode = 0x40 | cmdBase
	CmdUARTTransfer     Opcode = 0x41 | cmdBase
	CmdUARTReceive      Opcode = 0x42 | cmdBase // reserved, no state-machine entry
	CmdUARTDisable      Opcode = 0x43 | cmdBase
	CmdUARTSetBaudRate  Opcode = 0x44 | cmdBase
	CmdUARTSetDataBits  Opcode = 0x45 | cmdBase
	CmdUARTSetParity    Opcode = 0x46 | cmdBase
	CmdUARTSetStopBits  Opcode = 0x47 | cmdBase
)

// Pin bank (GPIO-like) opcodes.
const (
	CmdGPIOSetPull         Opcode = 0x50 | cmdBase
	CmdGPIOSetState        Opcode = 0x51 | cmdBase
	CmdGPIOWritePWMValue   Opcode = 0x52 | cmdBase
	CmdGPIOGetPull         Opcode = 0x53 | cmdBase
	CmdGPIOGetState        Opcode = 0x54 | cmdBase
	CmdGPIOReadPulseLength Opcode = 0x55 | cmdBase
	CmdGPIOSetInterrupt    Opcode = 0x56 | cmdBase
)

// NoChange is the sentinel operand (0xFF) that suppresses a GPIO setter
// call in SET_STATE/SET_PULL while still advancing the phase and echoing
// the byte.
const NoChange byte = 0xFF

// MinPinBankSize is the minimum number of PinBank entries a conforming
// host may address; indices at or beyond this are only guaranteed to be
// handled if the caller's PinBank slice is actually that long.
const MinPinBankSize = 8

// isOpcode reports whether b must be treated as an opcode: either the
// explicit NOP codepoint or any byte with the high bit set.
func isOpcode(b byte) bool {
	return b == CmdNOP || b&cmdBase != 0
}
