package adapter

import (
	"log"
	"sync"
	"time"

	gpiolib "periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"

	"github.com/technicalmachine/gossip"
)

// pwmFrequency is a fixed carrier frequency for WritePWMValue; the wire
// protocol has no opcode to configure it per pin.
const pwmFrequency = 1 * physic.KiloHertz

// pulseWaitTimeout bounds how long ReadPulseLength blocks for an edge
// before giving up and reporting zero.
const pulseWaitTimeout = 100 * time.Millisecond

// Pin adapts one periph.io gpio.PinIO into a gossip.PinBank entry. Unlike
// SPIPort and I2CBus, a Pin is not exclusively borrowed by ENABLE/DISABLE:
// GPIO SET_INTERRUPT, GET_PULL and READ_PULSE_LENGTH are accepted while a
// bus is open, so a Pin must be safe to use concurrently with the bus
// adapters even though nothing in this package calls it from more than one
// goroutine itself.
type Pin struct {
	mu   sync.Mutex
	pin  gpiolib.PinIO
	dir  byte // shadow of the last applied direction: 0 output, 1 input
	last gpiolib.Level

	logger *log.Logger
}

var _ gossip.PinBank = (*Pin)(nil)

// NewPin borrows pin for the adapter's lifetime. logger may be nil. A new
// Pin is treated as an input until SetDirection(0) makes it an output.
func NewPin(pin gpiolib.PinIO, logger *log.Logger) *Pin {
	return &Pin{pin: pin, dir: 1, logger: logger}
}

// NewPinBank wraps each entry of pins as a gossip.PinBank, in order.
func NewPinBank(pins []gpiolib.PinIO, logger *log.Logger) []gossip.PinBank {
	bank := make([]gossip.PinBank, len(pins))
	for i, p := range pins {
		bank[i] = NewPin(p, logger)
	}
	return bank
}

// SetPull reconfigures the pin as an input with the given pull resistor.
// periph.io only exposes pull as a property of an input pin; requesting a
// pull on a pin currently held as an output switches it to input, matching
// how most GPIO controllers actually expose pull resistors.
func (p *Pin) SetPull(pull byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.pin.In(toPull(pull), gpiolib.NoEdge); err != nil {
		p.logf("gpio: set pull on %s failed: %v", p.pin, err)
		return
	}
	p.dir = 1
}

func (p *Pin) GetPull() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fromPull(p.pin.Pull())
}

// SetDirection switches the pin between input (preserving its last
// configured pull) and output (driving its last written digital value).
func (p *Pin) SetDirection(direction byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if direction == 0 {
		if err := p.pin.Out(p.last); err != nil {
			p.logf("gpio: set direction out on %s failed: %v", p.pin, err)
			return
		}
		p.dir = 0
		return
	}
	if err := p.pin.In(p.pin.Pull(), gpiolib.NoEdge); err != nil {
		p.logf("gpio: set direction in on %s failed: %v", p.pin, err)
		return
	}
	p.dir = 1
}

func (p *Pin) GetDirection() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dir
}

// WriteDigitalValue stores the requested level and, if the pin is
// currently an output, drives it immediately. A value staged while the
// pin is an input takes effect on the next SetDirection(0) call.
func (p *Pin) WriteDigitalValue(value byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = value != 0
	if p.dir == 0 {
		if err := p.pin.Out(p.last); err != nil {
			p.logf("gpio: write on %s failed: %v", p.pin, err)
		}
	}
}

func (p *Pin) ReadDigitalValue() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pin.Read() {
		return 1
	}
	return 0
}

// WriteAnalogValue has no periph.io gpio.PinIO equivalent; it is logged
// and otherwise ignored, the same posture the interpreter expects of any
// capability call it cannot service.
func (p *Pin) WriteAnalogValue(value byte) {
	p.logf("gpio: analog output not supported on %s", p.pin)
}

func (p *Pin) ReadAnalogValue() byte {
	p.logf("gpio: analog input not supported on %s", p.pin)
	return 0
}

func (p *Pin) WritePWMValue(value byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	duty := gpiolib.Duty(uint32(value) * uint32(gpiolib.DutyMax) / 255)
	if err := p.pin.PWM(duty, pwmFrequency); err != nil {
		p.logf("gpio: pwm on %s failed: %v", p.pin, err)
	}
}

// ReadPulseLength waits for one edge and reports the elapsed time since
// the call started, scaled into a single byte. It is necessarily lossy:
// the wire protocol has no way to report a duration wider than one byte.
func (p *Pin) ReadPulseLength() byte {
	start := time.Now()
	if !p.pin.WaitForEdge(pulseWaitTimeout) {
		return 0
	}
	elapsed := time.Since(start)
	scaled := elapsed / (pulseWaitTimeout / 255)
	if scaled > 255 {
		return 255
	}
	return byte(scaled)
}

func (p *Pin) SetInterrupt(interrupt byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	edge := gpiolib.NoEdge
	switch interrupt {
	case 1:
		edge = gpiolib.RisingEdge
	case 2:
		edge = gpiolib.FallingEdge
	case 3:
		edge = gpiolib.BothEdges
	}
	if err := p.pin.In(p.pin.Pull(), edge); err != nil {
		p.logf("gpio: set interrupt on %s failed: %v", p.pin, err)
	}
}

func (p *Pin) logf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

func toPull(pull byte) gpiolib.Pull {
	switch pull {
	case 1:
		return gpiolib.PullUp
	case 2:
		return gpiolib.PullDown
	case 0:
		return gpiolib.Float
	default:
		return gpiolib.PullNoChange
	}
}

func fromPull(pull gpiolib.Pull) byte {
	switch pull {
	case gpiolib.PullUp:
		return 1
	case gpiolib.PullDown:
		return 2
	case gpiolib.Float:
		return 0
	default:
		return 3
	}
}
