package adapter

import (
	"testing"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/physic"
)

type fakeI2CBus struct {
	lastAddr  uint16
	lastWrite []byte
	readValue byte
	txErr     error
}

func (f *fakeI2CBus) String() string       { return "fakeI2CBus" }
func (f *fakeI2CBus) Close() error         { return nil }
func (f *fakeI2CBus) Duplex() conn.Duplex  { return conn.Full }
func (f *fakeI2CBus) SetSpeed(physic.Frequency) error { return nil }
func (f *fakeI2CBus) Tx(addr uint16, w, r []byte) error {
	f.lastAddr = addr
	f.lastWrite = append([]byte(nil), w...)
	if f.txErr != nil {
		return f.txErr
	}
	for i := range r {
		r[i] = f.readValue
	}
	return nil
}

func TestI2CBusWriteThenReadFlushesPending(t *testing.T) {
	bus := &fakeI2CBus{readValue: 7}
	a := NewI2CBus(bus, nil)
	a.SetSlaveAddress(0x50)
	a.Enable()
	a.Write(0x10)
	got := a.Read()
	if got != 7 {
		t.Fatalf("Read = %d, want 7", got)
	}
	if bus.lastAddr != 0x50 {
		t.Fatalf("lastAddr = %#x, want 0x50", bus.lastAddr)
	}
	if len(bus.lastWrite) != 1 || bus.lastWrite[0] != 0x10 {
		t.Fatalf("lastWrite = %v, want [0x10]", bus.lastWrite)
	}
}

func TestI2CBusPendingFlushedOnDisable(t *testing.T) {
	bus := &fakeI2CBus{}
	a := NewI2CBus(bus, nil)
	a.Enable()
	a.Write(1)
	a.Write(2)
	a.Disable()
	if len(bus.lastWrite) != 2 {
		t.Fatalf("lastWrite = %v, want 2 bytes flushed", bus.lastWrite)
	}
}

func TestI2CBusReadAfterFailureReturnsZero(t *testing.T) {
	bus := &fakeI2CBus{txErr: errTx}
	a := NewI2CBus(bus, nil)
	a.Enable()
	if got := a.Read(); got != 0 {
		t.Fatalf("Read on failure = %d, want 0", got)
	}
}

var errTx = &txError{}

type txError struct{}

func (*txError) Error() string { return "tx failed" }
