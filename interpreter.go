package gossip

import "log"

// Config carries construction-time options for an Interpreter. The zero
// value is valid: a nil Logger simply means diagnostics are discarded,
// matching the teacher's posture of never requiring a collaborator to be
// present before a device can be driven.
type Config struct {
	// Logger receives best-effort diagnostics for conditions the wire
	// protocol has no way to report, such as an out-of-range pin index.
	// May be nil.
	Logger *log.Logger
}

// Interpreter is the byte-stream command state machine described by the
// wire protocol. It borrows one Serial, one TwoWire, one AsyncSerial and a
// slice of PinBank entries for the lifetime of the host connection; it
// creates none of them and holds no other state.
//
// An Interpreter is not safe for concurrent use: the wire protocol has no
// concurrency of its own, and a single upstream byte stream is assumed.
type Interpreter struct {
	state           State
	repeatRemaining byte
	pin             byte

	spi  Serial
	i2c  TwoWire
	uart AsyncSerial
	gpio []PinBank

	logger *log.Logger
}

// NewInterpreter builds an Interpreter in Idle with repeatRemaining == 0,
// borrowing spi, i2c, uart and gpio for as long as it is used. gpio should
// have at least MinPinBankSize entries; shorter banks are accepted, but
// any command addressing a pin beyond the slice's length is ignored (and
// logged, if cfg.Logger is set) rather than panicking.
func NewInterpreter(spi Serial, i2c TwoWire, uart AsyncSerial, gpio []PinBank, cfg Config) *Interpreter {
	return &Interpreter{
		state:  Idle,
		spi:    spi,
		i2c:    i2c,
		uart:   uart,
		gpio:   gpio,
		logger: cfg.Logger,
	}
}

// State returns the interpreter's current state. Exposed for diagnostics
// and tests; the wire protocol itself never reports it.
func (it *Interpreter) State() State {
	return it.state
}

// HandleByte consumes one input byte, driving capability calls and
// writing any response bytes to out starting at offset 0. It returns the
// number of bytes written; out must be large enough to hold the largest
// response a single byte can produce (one byte: multi-byte GPIO responses
// are spread over the calls for their successive phases).
//
// HandleByte never errors and never panics on malformed input: any
// (state, byte) pair it doesn't recognize is a silent no-op that leaves
// state unchanged.
func (it *Interpreter) HandleByte(b byte, out []byte) int {
	// Repeat preamble (spec §4.1): a non-zero non-opcode byte in a
	// bus-open state sets the repeat count and nothing else.
	if b != 0 && !isOpcode(b) && it.isBusOpenState() {
		it.repeatRemaining = b
		it.state = ExpectRepeatCommand
		return 0
	}

	// Repeat resolution (spec §4.2).
	if it.state == ExpectRepeatCommand && it.repeatRemaining != 0 {
		switch b {
		case CmdNOP:
			for ; it.repeatRemaining > 0; it.repeatRemaining-- {
				noop()
			}
			it.state = Idle
		case CmdSleep:
			for ; it.repeatRemaining > 0; it.repeatRemaining-- {
				sleep()
			}
			it.state = Idle
		case CmdSPITransfer:
			it.state = SpiTransfer
		case CmdI2CWrite:
			it.state = I2cWrite
		case CmdI2CRead:
			it.state = I2cRead
		case CmdUARTTransfer:
			it.state = UartTransfer
		default:
			// Unrecognized opcode while a repeat is pending: treated as a
			// no-op. repeatRemaining is intentionally left non-zero and
			// state left at ExpectRepeatCommand — a known wire-protocol
			// quirk (spec §9) that lets a stale repeat couple to whatever
			// opcode arrives next.
			noop()
		}
		return 0
	}

	// One-shot normalization (spec §4.3).
	if it.repeatRemaining == 0 {
		it.repeatRemaining = 1
	}
	it.repeatRemaining--

	return it.dispatch(b, out)
}

// HandleBuffer feeds each byte of in to HandleByte in order, writing
// response bytes into out at increasing offsets, and returns the total
// number of bytes written. out must be large enough for the aggregate
// response; overflow is the caller's responsibility.
func (it *Interpreter) HandleBuffer(in []byte, out []byte) int {
	written := 0
	for _, b := range in {
		written += it.HandleByte(b, out[written:])
	}
	return written
}

func (it *Interpreter) isBusOpenState() bool {
	return it.state == SpiOpen || it.state == I2cOpen || it.state == UartOpen
}

// dispatch is the total function over (state, byte) described in spec
// §4.4. Every branch that doesn't match falls through to a silent no-op.
func (it *Interpreter) dispatch(b byte, out []byte) int {
	// GPIO SET_INTERRUPT preempts any state: it is legal everywhere, per
	// the wire protocol's GPIO command table.
	if b == CmdGPIOSetInterrupt {
		it.state = GpioSetInterruptPin
		return 0
	}

	switch it.state {
	case Idle:
		return it.dispatchIdle(b, out)
	case SpiOpen:
		return it.dispatchSpiOpen(b, out)
	case I2cOpen:
		return it.dispatchI2cOpen(b, out)
	case UartOpen:
		return it.dispatchUartOpen(b, out)

	case SpiTransfer:
		it.spi.Transfer(b)
		if it.repeatRemaining == 0 {
			it.state = SpiOpen
		}
	case UartTransfer:
		it.uart.Transfer(b)
		if it.repeatRemaining == 0 {
			it.state = UartOpen
		}
	case I2cWrite:
		it.i2c.Write(b)
		if it.repeatRemaining == 0 {
			it.state = I2cOpen
		}
	case I2cRead:
		it.i2c.Read()
		if it.repeatRemaining == 0 {
			it.state = I2cOpen
		}

	case SpiSetClockDiv:
		it.spi.SetClockSpeedDivisor(b)
		it.state = Idle
	case SpiSetMode:
		it.spi.SetMode(b)
		it.state = Idle
	case SpiSetRole:
		it.spi.SetRole(b)
		it.state = Idle
	case SpiSetFrame:
		it.spi.SetFrame(b)
		it.state = Idle

	case I2cSetSlaveAddr:
		it.i2c.SetSlaveAddress(b)
		it.state = Idle
	case I2cSetMode:
		it.i2c.SetMode(b)
		it.state = Idle

	case UartSetBaud:
		it.uart.SetBaudRate(b)
		it.state = Idle
	case UartSetDataBits:
		it.uart.SetDataBits(b)
		it.state = Idle
	case UartSetParity:
		it.uart.SetParity(b)
		it.state = Idle
	case UartSetStopBits:
		it.uart.SetStopBits(b)
		it.state = Idle

	case GpioSetPullPin:
		it.pin = b
		out[0] = b
		it.state = GpioSetPullValue
		return 1
	case GpioSetPullValue:
		if b != NoChange {
			if p := it.pinAt(it.pin); p != nil {
				p.SetPull(b)
			}
		}
		out[0] = b
		it.state = Idle
		return 1

	case GpioSetStatePin:
		it.pin = b
		out[0] = b
		it.state = GpioSetStateValue
		return 1
	case GpioSetStateValue:
		if b != NoChange {
			if p := it.pinAt(it.pin); p != nil {
				p.WriteDigitalValue(b)
			}
		}
		out[0] = b
		it.state = GpioSetStateDirection
		return 1
	case GpioSetStateDirection:
		if b != NoChange {
			if p := it.pinAt(it.pin); p != nil {
				p.SetDirection(b)
			}
		}
		out[0] = b
		it.state = Idle
		return 1

	case GpioWritePwmPin:
		it.pin = b
		it.state = GpioWritePwmValue
	case GpioWritePwmValue:
		if p := it.pinAt(it.pin); p != nil {
			p.WritePWMValue(b)
		}
		it.state = Idle

	case GpioGetPull:
		// The pin index is the byte itself, not a previously latched one:
		// GET_PULL is a two-phase command (opcode, pin) with no separate
		// pin-collection state.
		if p := it.pinAt(b); p != nil {
			out[0] = p.GetPull()
		} else {
			out[0] = 0
		}
		it.state = Idle
		return 1

	case GpioGetStatePin:
		it.pin = b
		out[0] = b
		it.state = GpioGetStateValue
		return 1
	case GpioGetStateValue:
		if p := it.pinAt(it.pin); p != nil {
			out[0] = p.ReadDigitalValue()
		} else {
			out[0] = 0
		}
		it.state = GpioGetStateDirection
		return 1
	case GpioGetStateDirection:
		if p := it.pinAt(it.pin); p != nil {
			out[0] = p.GetDirection()
		} else {
			out[0] = 0
		}
		it.state = Idle
		return 1

	case GpioReadPulseLengthPin:
		if p := it.pinAt(b); p != nil {
			p.ReadPulseLength()
		}
		it.state = Idle

	case GpioSetInterruptPin:
		it.pin = b
		it.state = GpioSetInterruptValue
	case GpioSetInterruptValue:
		if p := it.pinAt(it.pin); p != nil {
			p.SetInterrupt(b)
		}
		it.state = Idle

	default:
		// ExpectRepeatCommand is only reachable via the repeat-resolution
		// branch above and is always handled there; any other
		// unenumerated state is a silent no-op, same as an unmatched byte.
	}
	return 0
}

// dispatchFromAnyOpenState handles the two GPIO opcodes legal from Idle
// and every bus-open state (GET_PULL, READ_PULSE_LENGTH). It reports
// whether it claimed the byte so callers can fall through to their
// state-specific cases otherwise.
func (it *Interpreter) dispatchFromAnyOpenState(b byte, out []byte) (int, bool) {
	switch b {
	case CmdGPIOGetPull:
		out[0] = CmdGPIOGetPull
		it.state = GpioGetPull
		return 1, true
	case CmdGPIOReadPulseLength:
		it.state = GpioReadPulseLengthPin
		return 0, true
	}
	return 0, false
}

func (it *Interpreter) dispatchIdle(b byte, out []byte) int {
	if n, ok := it.dispatchFromAnyOpenState(b, out); ok {
		return n
	}
	switch b {
	case CmdNOP:
		noop()
	case CmdSleep:
		sleep()
	case CmdSPIEnable:
		it.spi.Enable()
		it.state = SpiOpen
	case CmdI2CEnable:
		it.i2c.Enable()
		it.state = I2cOpen
	case CmdUARTEnable:
		it.uart.Enable()
		it.state = UartOpen
	case CmdSPISetClockDivisor:
		it.state = SpiSetClockDiv
	case CmdSPISetMode:
		it.state = SpiSetMode
	case CmdSPISetRole:
		it.state = SpiSetRole
	case CmdSPISetFrame:
		it.state = SpiSetFrame
	case CmdI2CSetSlaveAddress:
		it.state = I2cSetSlaveAddr
	case CmdI2CSetMode:
		it.state = I2cSetMode
	case CmdUARTSetBaudRate:
		it.state = UartSetBaud
	case CmdUARTSetDataBits:
		it.state = UartSetDataBits
	case CmdUARTSetParity:
		it.state = UartSetParity
	case CmdUARTSetStopBits:
		it.state = UartSetStopBits
	case CmdGPIOSetPull:
		out[0] = CmdGPIOSetPull
		it.state = GpioSetPullPin
		return 1
	case CmdGPIOSetState:
		out[0] = CmdGPIOSetState
		it.state = GpioSetStatePin
		return 1
	case CmdGPIOGetState:
		out[0] = CmdGPIOGetState
		it.state = GpioGetStatePin
		return 1
	case CmdGPIOWritePWMValue:
		it.state = GpioWritePwmPin
	default:
		// Silent no-op.
	}
	return 0
}

func (it *Interpreter) dispatchSpiOpen(b byte, out []byte) int {
	if n, ok := it.dispatchFromAnyOpenState(b, out); ok {
		return n
	}
	switch b {
	case CmdSPITransfer:
		it.state = SpiTransfer
	case CmdSPIDisable:
		it.spi.Disable()
		it.state = Idle
	}
	return 0
}

func (it *Interpreter) dispatchI2cOpen(b byte, out []byte) int {
	if n, ok := it.dispatchFromAnyOpenState(b, out); ok {
		return n
	}
	switch b {
	case CmdI2CWrite:
		it.state = I2cWrite
	case CmdI2CRead:
		it.i2c.Read()
		if it.repeatRemaining != 0 {
			it.state = I2cRead
		}
	case CmdI2CDisable:
		it.i2c.Disable()
		it.state = Idle
	}
	return 0
}

func (it *Interpreter) dispatchUartOpen(b byte, out []byte) int {
	if n, ok := it.dispatchFromAnyOpenState(b, out); ok {
		return n
	}
	switch b {
	case CmdUARTTransfer:
		it.state = UartTransfer
	case CmdUARTDisable:
		it.uart.Disable()
		it.state = Idle
	}
	return 0
}

// pinAt returns the PinBank at idx, or nil if idx is outside the borrowed
// bank. This is the interpreter's only observable failure mode (spec §7);
// out-of-range indices are ignored rather than causing a panic.
func (it *Interpreter) pinAt(idx byte) PinBank {
	if int(idx) >= len(it.gpio) {
		if it.logger != nil {
			it.logger.Printf("gossip: pin index %d out of range (bank size %d)", idx, len(it.gpio))
		}
		return nil
	}
	return it.gpio[idx]
}

// noop and sleep are the two general-opcode actions. Neither has an
// observable effect of its own; they exist as named call sites so the
// repeat machinery has something concrete to invoke n times.
func noop()  {}
func sleep() {}
