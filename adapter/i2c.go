package adapter

import (
	"log"
	"sync"

	"periph.io/x/periph/conn/i2c"
)

// I2CBus adapts a periph.io i2c.BusCloser into a gossip.TwoWire.
//
// periph.io models an I2C transaction as a single Tx(addr, w, r) call
// spanning its own START/STOP, while the wire protocol exposes Write and
// Read as independent, byte-at-a-time opcodes bounded by ENABLE/DISABLE.
// This adapter bridges the two the way most I2C peripherals are actually
// addressed: bytes accumulated since the last flush are held as a pending
// write buffer, and Read flushes them as the write half of one Tx whose
// read half is the single response byte (the common write-register,
// then-read convention). A DISABLE with unread pending writes flushes them
// as a write-only Tx.
type I2CBus struct {
	mu   sync.Mutex
	bus  i2c.BusCloser
	addr uint16
	mode byte

	pending []byte

	logger *log.Logger
}

// NewI2CBus borrows bus for the adapter's lifetime. logger may be nil.
func NewI2CBus(bus i2c.BusCloser, logger *log.Logger) *I2CBus {
	return &I2CBus{bus: bus, logger: logger}
}

func (a *I2CBus) Enable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = a.pending[:0]
}

func (a *I2CBus) Disable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.pending) == 0 {
		return
	}
	if err := a.bus.Tx(a.addr, a.pending, nil); err != nil {
		a.logf("i2c: flush on disable failed: %v", err)
	}
	a.pending = a.pending[:0]
}

func (a *I2CBus) Write(b byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = append(a.pending, b)
}

// Read flushes any pending writes as the write half of one transaction and
// returns the single response byte, or 0 if the transaction fails.
func (a *I2CBus) Read() byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	var r [1]byte
	if err := a.bus.Tx(a.addr, a.pending, r[:]); err != nil {
		a.logf("i2c: read failed: %v", err)
		a.pending = a.pending[:0]
		return 0
	}
	a.pending = a.pending[:0]
	return r[0]
}

func (a *I2CBus) SetSlaveAddress(addr byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.addr = uint16(addr)
}

// SetMode records the addressing mode byte (7-bit vs. 10-bit); periph.io's
// BusCloser.Tx takes the address as given and leaves width interpretation
// to the underlying driver, so the recorded mode is not applied to any
// transaction.
func (a *I2CBus) SetMode(mode byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = mode
}

func (a *I2CBus) logf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
