package session

import (
	"testing"

	"github.com/technicalmachine/gossip"
)

type stubSerial struct{}

func (stubSerial) Enable()                       {}
func (stubSerial) Disable()                       {}
func (stubSerial) Transfer(b byte) byte           { return b }
func (stubSerial) SetClockSpeedDivisor(byte)      {}
func (stubSerial) SetMode(byte)                   {}
func (stubSerial) SetRole(byte)                   {}
func (stubSerial) SetFrame(byte)                  {}

type stubTwoWire struct{}

func (stubTwoWire) Enable()             {}
func (stubTwoWire) Disable()            {}
func (stubTwoWire) Write(byte)          {}
func (stubTwoWire) Read() byte          { return 0 }
func (stubTwoWire) SetSlaveAddress(byte) {}
func (stubTwoWire) SetMode(byte)         {}

type stubAsyncSerial struct{}

func (stubAsyncSerial) Enable()        {}
func (stubAsyncSerial) Disable()       {}
func (stubAsyncSerial) Transfer(byte)  {}
func (stubAsyncSerial) SetBaudRate(byte) {}
func (stubAsyncSerial) SetDataBits(byte) {}
func (stubAsyncSerial) SetParity(byte)   {}
func (stubAsyncSerial) SetStopBits(byte) {}

type stubPinBank struct{}

func (stubPinBank) SetPull(byte)            {}
func (stubPinBank) SetDirection(byte)       {}
func (stubPinBank) WriteDigitalValue(byte)  {}
func (stubPinBank) WriteAnalogValue(byte)   {}
func (stubPinBank) WritePWMValue(byte)      {}
func (stubPinBank) GetPull() byte           { return 0 }
func (stubPinBank) GetDirection() byte      { return 0 }
func (stubPinBank) ReadDigitalValue() byte  { return 0 }
func (stubPinBank) ReadAnalogValue() byte   { return 0 }
func (stubPinBank) ReadPulseLength() byte   { return 0 }
func (stubPinBank) SetInterrupt(byte)       {}

func newStubInterpreter() *gossip.Interpreter {
	bank := make([]gossip.PinBank, gossip.MinPinBankSize)
	for i := range bank {
		bank[i] = stubPinBank{}
	}
	return gossip.NewInterpreter(stubSerial{}, stubTwoWire{}, stubAsyncSerial{}, bank, gossip.Config{})
}

func TestRecordEncodeDecodeRoundTrip(t *testing.T) {
	it := newStubInterpreter()
	r := NewRecorder(it)
	for _, b := range []byte{gossip.CmdSPIEnable, gossip.CmdSPITransfer, 7, gossip.CmdSPIDisable} {
		r.HandleByte(b)
	}
	frame := r.Finish()

	encoded := Encode(frame)
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Final != frame.Final {
		t.Fatalf("decoded.Final = %v, want %v", decoded.Final, frame.Final)
	}
}

func TestDecodeRejectsCorruptedChecksum(t *testing.T) {
	it := newStubInterpreter()
	r := NewRecorder(it)
	r.HandleByte(gossip.CmdSPIEnable)
	frame := r.Finish()
	encoded := Encode(frame)
	encoded[len(encoded)-1] ^= 0xFF
	if _, err := Decode(encoded); err == nil {
		t.Fatal("Decode accepted a corrupted checksum")
	}
}

func TestReplayMatchesRecording(t *testing.T) {
	it := newStubInterpreter()
	r := NewRecorder(it)
	for _, b := range []byte{gossip.CmdI2CEnable, gossip.CmdI2CWrite, 5, gossip.CmdI2CDisable} {
		r.HandleByte(b)
	}
	frame := r.Finish()
	Replay(t, frame, newStubInterpreter)
}
