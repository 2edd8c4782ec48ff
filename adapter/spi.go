package adapter

import (
	"log"
	"sync"

	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

// maxSPIFrequency bounds the clock divisor mapping; it mirrors the ceiling
// FTDI's MPSSE engine imposes on a d2xx.spi port, which is the fastest
// real-world bus this interpreter is likely to be wired to.
const maxSPIFrequency = 30 * physic.MegaHertz

// SPIPort adapts a periph.io spi.PortCloser into a gossip.Serial. A single
// SPIPort instance is meant to be borrowed for the lifetime of one
// Interpreter; Connect is deferred to Enable so that SetClockSpeedDivisor,
// SetMode and SetFrame calls made before the bus is opened take effect on
// the first Connect rather than requiring a reconnect.
type SPIPort struct {
	mu   sync.Mutex
	port spi.PortCloser
	conn spi.Conn

	divisor byte
	mode    spi.Mode
	bits    int

	logger *log.Logger
}

// NewSPIPort borrows port for the adapter's lifetime. logger may be nil.
func NewSPIPort(port spi.PortCloser, logger *log.Logger) *SPIPort {
	return &SPIPort{port: port, bits: 8, logger: logger}
}

func (a *SPIPort) Enable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	f := maxSPIFrequency
	if a.divisor > 0 {
		f = maxSPIFrequency / physic.Frequency(a.divisor+1)
	}
	conn, err := a.port.Connect(f, a.mode, a.bits)
	if err != nil {
		a.logf("spi: connect failed: %v", err)
		return
	}
	a.conn = conn
}

func (a *SPIPort) Disable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.conn = nil
}

// Transfer clocks b out and returns the byte clocked in, or 0 if the bus
// isn't currently connected or the transfer fails.
func (a *SPIPort) Transfer(b byte) byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil {
		a.logf("spi: transfer while disabled")
		return 0
	}
	w := [1]byte{b}
	var r [1]byte
	if err := a.conn.Tx(w[:], r[:]); err != nil {
		a.logf("spi: transfer failed: %v", err)
		return 0
	}
	return r[0]
}

// SetClockSpeedDivisor stores the divisor applied against maxSPIFrequency
// on the next Enable; it does not reconnect an already-open bus, matching
// the wire protocol's SPI config opcodes being legal only from Idle.
func (a *SPIPort) SetClockSpeedDivisor(divisor byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.divisor = divisor
}

// SetMode stores the SPI clock polarity/phase (0-3) applied on Enable.
func (a *SPIPort) SetMode(mode byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch mode & 0x03 {
	case 0:
		a.mode = spi.Mode0
	case 1:
		a.mode = spi.Mode1
	case 2:
		a.mode = spi.Mode2
	case 3:
		a.mode = spi.Mode3
	}
}

// SetRole is a no-op: periph.io's spi package models a controller only, so
// a peripheral-mode request is logged and otherwise ignored rather than
// surfaced as an error the interpreter has no channel for.
func (a *SPIPort) SetRole(role byte) {
	if role != 0 {
		a.logf("spi: peripheral role requested but not supported, ignoring")
	}
}

// SetFrame stores the bits-per-word applied on Enable.
func (a *SPIPort) SetFrame(frame byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if frame == 0 {
		return
	}
	a.bits = int(frame)
}

func (a *SPIPort) logf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
