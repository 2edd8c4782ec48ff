package gossip

// Serial is the capability contract for a SPI-like bus. All methods are
// infallible from the interpreter's point of view: a real driver that can
// fail should swallow the error (and optionally log it) rather than
// surface it here, since handle_byte has no error channel of its own.
type Serial interface {
	Enable()
	Disable()
	// Transfer clocks one byte out and returns the byte clocked in.
	Transfer(b byte) byte
	SetClockSpeedDivisor(divisor byte)
	SetMode(mode byte)
	SetRole(role byte)
	SetFrame(frame byte)
}

// TwoWire is the capability contract for an I2C-like bus.
type TwoWire interface {
	Enable()
	Disable()
	Write(b byte)
	Read() byte
	SetSlaveAddress(addr byte)
	SetMode(mode byte)
}

// AsyncSerial is the capability contract for a UART-like port.
type AsyncSerial interface {
	Enable()
	Disable()
	Transfer(b byte)
	SetBaudRate(baud byte)
	SetDataBits(bits byte)
	SetParity(parity byte)
	SetStopBits(bits byte)
}

// PinBank is the capability contract for a single addressable GPIO pin.
// The interpreter is handed a slice of at least MinPinBankSize entries and
// indexes into it; it never creates or destroys PinBank instances.
type PinBank interface {
	SetPull(pull byte)
	SetDirection(direction byte)
	WriteDigitalValue(value byte)
	WriteAnalogValue(value byte)
	WritePWMValue(value byte)
	GetPull() byte
	GetDirection() byte
	ReadDigitalValue() byte
	ReadAnalogValue() byte
	ReadPulseLength() byte
	SetInterrupt(interrupt byte)
}
