package adapter

import (
	"log"
	"sync"

	"github.com/gofrs/flock"
	"go.bug.st/serial"
)

// standardBauds maps a single baud-rate selector byte onto a conventional
// rate; the wire protocol's SET_BAUD_RATE opcode carries one byte, far too
// narrow to encode an arbitrary integer baud rate directly.
var standardBauds = [...]int{
	300, 1200, 2400, 4800, 9600, 19200, 38400, 57600,
	115200, 230400, 460800, 921600,
}

// SerialPort adapts a go.bug.st/serial port into a gossip.AsyncSerial. A
// gofrs/flock advisory lock on a lock file beside the device node (its path
// plus ".lock") is held for the duration the port is open, so two
// interpreters on the same host can't silently fight over one UART.
type SerialPort struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
	port serial.Port
	mode serial.Mode

	logger *log.Logger
}

// NewSerialPort targets the device node at path (e.g. "/dev/ttyUSB0"). The
// port isn't opened until Enable is called. logger may be nil.
func NewSerialPort(path string, logger *log.Logger) *SerialPort {
	return &SerialPort{
		path: path,
		mode: serial.Mode{BaudRate: 9600, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit},
		logger: logger,
	}
}

func (a *SerialPort) Enable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lock = flock.New(a.path + ".lock")
	ok, err := a.lock.TryLock()
	if err != nil || !ok {
		a.logf("uart: %s busy or lock failed: %v", a.path, err)
		a.lock = nil
		return
	}
	port, err := serial.Open(a.path, &a.mode)
	if err != nil {
		a.logf("uart: open %s failed: %v", a.path, err)
		a.lock.Unlock()
		a.lock = nil
		return
	}
	a.port = port
}

func (a *SerialPort) Disable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.port != nil {
		if err := a.port.Close(); err != nil {
			a.logf("uart: close %s failed: %v", a.path, err)
		}
		a.port = nil
	}
	if a.lock != nil {
		a.lock.Unlock()
		a.lock = nil
	}
}

func (a *SerialPort) Transfer(b byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.port == nil {
		a.logf("uart: transfer while disabled")
		return
	}
	if _, err := a.port.Write([]byte{b}); err != nil {
		a.logf("uart: write failed: %v", err)
	}
}

func (a *SerialPort) SetBaudRate(baud byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := int(baud)
	if idx >= len(standardBauds) {
		idx = len(standardBauds) - 1
	}
	a.mode.BaudRate = standardBauds[idx]
	a.applyLocked()
}

func (a *SerialPort) SetDataBits(bits byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if bits >= 5 && bits <= 8 {
		a.mode.DataBits = int(bits)
	}
	a.applyLocked()
}

func (a *SerialPort) SetParity(parity byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch parity {
	case 0:
		a.mode.Parity = serial.NoParity
	case 1:
		a.mode.Parity = serial.OddParity
	case 2:
		a.mode.Parity = serial.EvenParity
	case 3:
		a.mode.Parity = serial.MarkParity
	case 4:
		a.mode.Parity = serial.SpaceParity
	}
	a.applyLocked()
}

func (a *SerialPort) SetStopBits(bits byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch bits {
	case 0:
		a.mode.StopBits = serial.OneStopBit
	case 1:
		a.mode.StopBits = serial.OnePointFiveStopBits
	case 2:
		a.mode.StopBits = serial.TwoStopBits
	}
	a.applyLocked()
}

// applyLocked pushes the accumulated mode to an already-open port; a
// config opcode that arrives before ENABLE just updates the pending mode
// for the next Enable call.
func (a *SerialPort) applyLocked() {
	if a.port == nil {
		return
	}
	if err := a.port.SetMode(&a.mode); err != nil {
		a.logf("uart: set mode on %s failed: %v", a.path, err)
	}
}

func (a *SerialPort) logf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
