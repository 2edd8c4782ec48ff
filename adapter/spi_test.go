package adapter

import (
	"testing"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

// fakeSPIConn and fakeSPIPort are hand-rolled fakes in the style of
// driver_test.go's d2xxFakeHandle: no assertion library, just plain
// structs recording what was asked of them.
type fakeSPIConn struct {
	lastWrite byte
}

func (f *fakeSPIConn) Tx(w, r []byte) error {
	f.lastWrite = w[0]
	r[0] = w[0] + 1
	return nil
}
func (f *fakeSPIConn) Duplex() conn.Duplex { return conn.Full }

type fakeSPIPort struct {
	conn       *fakeSPIConn
	lastFreq   physic.Frequency
	lastMode   spi.Mode
	lastBits   int
	connectErr error
}

func (f *fakeSPIPort) String() string { return "fakeSPIPort" }
func (f *fakeSPIPort) Close() error   { return nil }
func (f *fakeSPIPort) Connect(freq physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	f.lastFreq, f.lastMode, f.lastBits = freq, mode, bits
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	f.conn = &fakeSPIConn{}
	return f.conn, nil
}

func TestSPIPortTransfer(t *testing.T) {
	port := &fakeSPIPort{}
	a := NewSPIPort(port, nil)
	a.Enable()
	if got := a.Transfer(41); got != 42 {
		t.Fatalf("Transfer = %d, want 42", got)
	}
	if port.conn.lastWrite != 41 {
		t.Fatalf("lastWrite = %d, want 41", port.conn.lastWrite)
	}
}

func TestSPIPortTransferWhileDisabled(t *testing.T) {
	port := &fakeSPIPort{}
	a := NewSPIPort(port, nil)
	if got := a.Transfer(1); got != 0 {
		t.Fatalf("Transfer while disabled = %d, want 0", got)
	}
}

func TestSPIPortClockDivisorAffectsConnectFrequency(t *testing.T) {
	port := &fakeSPIPort{}
	a := NewSPIPort(port, nil)
	a.SetClockSpeedDivisor(2)
	a.Enable()
	want := maxSPIFrequency / 3
	if port.lastFreq != want {
		t.Fatalf("lastFreq = %s, want %s", port.lastFreq, want)
	}
}

func TestSPIPortModeMapping(t *testing.T) {
	port := &fakeSPIPort{}
	a := NewSPIPort(port, nil)
	a.SetMode(2)
	a.Enable()
	if port.lastMode != spi.Mode2 {
		t.Fatalf("lastMode = %v, want Mode2", port.lastMode)
	}
}

func TestSPIPortDisableDropsConn(t *testing.T) {
	port := &fakeSPIPort{}
	a := NewSPIPort(port, nil)
	a.Enable()
	a.Disable()
	if got := a.Transfer(1); got != 0 {
		t.Fatalf("Transfer after Disable = %d, want 0", got)
	}
}
