package gossip

import "strconv"

// State is the interpreter's current position in the wire protocol state
// machine. It is a closed enumeration: every value the interpreter can
// hold is named here, and HandleByte never leaves it in anything else.
type State int

const (
	// Idle awaits a top-level opcode.
	Idle State = iota

	// SpiOpen, I2cOpen and UartOpen are bus-open states: the peripheral has
	// been enabled and the interpreter awaits a bus-scoped opcode.
	SpiOpen
	I2cOpen
	UartOpen

	// SpiTransfer, UartTransfer, I2cWrite and I2cRead consume payload bytes
	// for an in-flight transfer; repeatRemaining governs how many bytes
	// remain before returning to the matching *Open state.
	SpiTransfer
	UartTransfer
	I2cWrite
	I2cRead

	// SpiSet* await one operand byte for the named SPI configuration field.
	SpiSetClockDiv
	SpiSetMode
	SpiSetRole
	SpiSetFrame

	// I2cSet* await one operand byte.
	I2cSetSlaveAddr
	I2cSetMode

	// UartSet* await one operand byte.
	UartSetBaud
	UartSetDataBits
	UartSetParity
	UartSetStopBits

	// GpioSetPullPin/GpioSetPullValue: two-operand pull configure. The
	// first phase collects the pin index, the second applies the value.
	GpioSetPullPin
	GpioSetPullValue

	// GpioSetStatePin/Value/Direction: three-operand state configure.
	GpioSetStatePin
	GpioSetStateValue
	GpioSetStateDirection

	// GpioWritePwmPin/Value: two-operand PWM write.
	GpioWritePwmPin
	GpioWritePwmValue

	// GpioGetPull: one operand (pin); produces one response byte.
	GpioGetPull

	// GpioGetStatePin/Value/Direction: three-phase read, one response byte
	// per phase after the pin.
	GpioGetStatePin
	GpioGetStateValue
	GpioGetStateDirection

	// GpioReadPulseLengthPin: one operand (pin).
	GpioReadPulseLengthPin

	// GpioSetInterruptPin/Value: two-operand interrupt configure.
	GpioSetInterruptPin
	GpioSetInterruptValue

	// ExpectRepeatCommand holds a repeat count, awaiting the opcode it
	// applies to.
	ExpectRepeatCommand
)

var stateNames = [...]string{
	Idle:                    "Idle",
	SpiOpen:                 "SpiOpen",
	I2cOpen:                 "I2cOpen",
	UartOpen:                "UartOpen",
	SpiTransfer:             "SpiTransfer",
	UartTransfer:            "UartTransfer",
	I2cWrite:                "I2cWrite",
	I2cRead:                 "I2cRead",
	SpiSetClockDiv:          "SpiSetClockDiv",
	SpiSetMode:              "SpiSetMode",
	SpiSetRole:              "SpiSetRole",
	SpiSetFrame:             "SpiSetFrame",
	I2cSetSlaveAddr:         "I2cSetSlaveAddr",
	I2cSetMode:              "I2cSetMode",
	UartSetBaud:             "UartSetBaud",
	UartSetDataBits:         "UartSetDataBits",
	UartSetParity:           "UartSetParity",
	UartSetStopBits:         "UartSetStopBits",
	GpioSetPullPin:          "GpioSetPullPin",
	GpioSetPullValue:        "GpioSetPullValue",
	GpioSetStatePin:         "GpioSetStatePin",
	GpioSetStateValue:       "GpioSetStateValue",
	GpioSetStateDirection:   "GpioSetStateDirection",
	GpioWritePwmPin:         "GpioWritePwmPin",
	GpioWritePwmValue:       "GpioWritePwmValue",
	GpioGetPull:             "GpioGetPull",
	GpioGetStatePin:         "GpioGetStatePin",
	GpioGetStateValue:       "GpioGetStateValue",
	GpioGetStateDirection:   "GpioGetStateDirection",
	GpioReadPulseLengthPin:  "GpioReadPulseLengthPin",
	GpioSetInterruptPin:     "GpioSetInterruptPin",
	GpioSetInterruptValue:   "GpioSetInterruptValue",
	ExpectRepeatCommand:     "ExpectRepeatCommand",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) || stateNames[s] == "" {
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}
