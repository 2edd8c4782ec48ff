package adapter

import (
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
	"testing"
)

// fakePin is a hand-rolled gpio.PinIO fake, in the style of
// driver_test.go's plain fakes: a struct with exported/observable fields
// and no behavior beyond recording what was asked of it.
type fakePin struct {
	level     gpio.Level
	pull      gpio.Pull
	edge      gpio.Edge
	duty      gpio.Duty
	outCalled bool
	inCalled  bool
}

func (f *fakePin) String() string                { return "fakePin" }
func (f *fakePin) Halt() error                    { return nil }
func (f *fakePin) Name() string                   { return "fakePin" }
func (f *fakePin) Number() int                    { return 0 }
func (f *fakePin) Function() string                { return "" }
func (f *fakePin) Read() gpio.Level               { return f.level }
func (f *fakePin) WaitForEdge(t time.Duration) bool { return false }
func (f *fakePin) Pull() gpio.Pull                { return f.pull }
func (f *fakePin) In(pull gpio.Pull, edge gpio.Edge) error {
	f.inCalled = true
	if pull != gpio.PullNoChange {
		f.pull = pull
	}
	f.edge = edge
	return nil
}
func (f *fakePin) Out(l gpio.Level) error {
	f.outCalled = true
	f.level = l
	return nil
}
func (f *fakePin) PWM(duty gpio.Duty, freq physic.Frequency) error {
	f.duty = duty
	return nil
}

func TestPinSetPullSwitchesToInput(t *testing.T) {
	fp := &fakePin{}
	p := NewPin(fp, nil)
	p.SetPull(1)
	if fp.pull != gpio.PullUp {
		t.Fatalf("pull = %v, want PullUp", fp.pull)
	}
	if p.GetDirection() != 1 {
		t.Fatalf("direction = %d, want 1 (input)", p.GetDirection())
	}
}

func TestPinWriteThenSetDirectionOut(t *testing.T) {
	fp := &fakePin{}
	p := NewPin(fp, nil)
	p.WriteDigitalValue(1)
	if fp.outCalled {
		t.Fatal("Out called while pin still input-shadowed")
	}
	p.SetDirection(0)
	if !fp.outCalled || !bool(fp.level) {
		t.Fatalf("pin not driven high on switch to output")
	}
}

func TestPinReadDigitalValue(t *testing.T) {
	fp := &fakePin{level: gpio.High}
	p := NewPin(fp, nil)
	if p.ReadDigitalValue() != 1 {
		t.Fatal("ReadDigitalValue = 0, want 1")
	}
}

func TestPinWritePWMValue(t *testing.T) {
	fp := &fakePin{}
	p := NewPin(fp, nil)
	p.WritePWMValue(255)
	if fp.duty != gpio.DutyMax {
		t.Fatalf("duty = %v, want DutyMax", fp.duty)
	}
}

func TestPinSetInterrupt(t *testing.T) {
	fp := &fakePin{}
	p := NewPin(fp, nil)
	p.SetInterrupt(3)
	if fp.edge != gpio.BothEdges {
		t.Fatalf("edge = %v, want BothEdges", fp.edge)
	}
}
