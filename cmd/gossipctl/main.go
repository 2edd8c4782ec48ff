// gossipctl drives an Interpreter from a hex string, stdin, or a live
// serial connection, and prints the resulting state transitions and
// response bytes, color coded by bus when attached to a terminal.
package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
	"go.bug.st/serial"

	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"

	"github.com/technicalmachine/gossip"
	"github.com/technicalmachine/gossip/adapter"
)

// busRGB picks a color for state by which bus it belongs to, so a
// terminal session visually groups SPI/I2C/UART/GPIO activity, with gray
// for every other state. ansi256.Code maps each RGB triplet down to the
// nearest of the terminal's 256 palette entries.
func busRGB(s gossip.State) (r, g, b uint8) {
	name := s.String()
	switch {
	case strings.HasPrefix(name, "Spi"):
		return 0, 128, 255
	case strings.HasPrefix(name, "I2c"):
		return 255, 128, 0
	case strings.HasPrefix(name, "Uart"):
		return 0, 255, 0
	case strings.HasPrefix(name, "Gpio"):
		return 128, 0, 255
	default:
		return 192, 192, 192
	}
}

func parseLine(line string) ([]byte, error) {
	line = strings.TrimSpace(line)
	line = strings.ReplaceAll(line, " ", "")
	if line == "" {
		return nil, nil
	}
	return hex.DecodeString(line)
}

// looksLikeDevicePath reports whether in names a device node rather than
// a literal hex payload: it either contains a path separator or fails to
// decode as hex outright.
func looksLikeDevicePath(in string) bool {
	if strings.ContainsRune(in, '/') {
		return true
	}
	if _, err := hex.DecodeString(strings.ReplaceAll(in, " ", "")); err != nil {
		return true
	}
	return false
}

// enableRawMode puts fd (expected to be a tty) into cbreak mode: no
// canonical line buffering, no echo, one byte at a time. It returns a
// restore func that must be called to put the terminal back the way it
// found it. Mirrors the teacher's own POSIX ioctl use in d2xx_posix.go,
// applied here to the operator's terminal instead of a USB bridge chip.
func enableRawMode(fd int) (restore func(), err error) {
	orig, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("gossipctl: get termios: %w", err)
	}
	raw := *orig
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return nil, fmt.Errorf("gossipctl: set termios: %w", err)
	}
	return func() {
		unix.IoctlSetTermios(fd, unix.TCSETS, orig)
	}, nil
}

func buildInterpreter(spiName, i2cName, uartPath string, logger *log.Logger) (*gossip.Interpreter, error) {
	spiPort, err := spireg.Open(spiName)
	if err != nil {
		return nil, fmt.Errorf("spi: %w", err)
	}
	i2cBus, err := i2creg.Open(i2cName)
	if err != nil {
		return nil, fmt.Errorf("i2c: %w", err)
	}
	pins := gpioreg.All()
	if len(pins) < gossip.MinPinBankSize {
		return nil, fmt.Errorf("gpio: found %d pins, need at least %d", len(pins), gossip.MinPinBankSize)
	}

	spiCap := adapter.NewSPIPort(spiPort, logger)
	twoWire := adapter.NewI2CBus(i2cBus, logger)
	async := adapter.NewSerialPort(uartPath, logger)
	bank := adapter.NewPinBank(pins[:gossip.MinPinBankSize], logger)

	return gossip.NewInterpreter(spiCap, twoWire, async, bank, gossip.Config{Logger: logger}), nil
}

func mainImpl() error {
	spiName := flag.String("spi", "", "SPI port name, as registered with spireg")
	i2cName := flag.String("i2c", "", "I2C bus name, as registered with i2creg")
	uartPath := flag.String("uart", "/dev/ttyUSB0", "UART device node the interpreter's AsyncSerial capability drives")
	in := flag.String("in", "-", "input source: a hex string, \"-\" for stdin, or a device path opened via go.bug.st/serial")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	logger := log.New(ioutil.Discard, "", log.Lmicroseconds)
	if *verbose {
		logger.SetOutput(os.Stderr)
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	it, err := buildInterpreter(*spiName, *i2cName, *uartPath, logger)
	if err != nil {
		return err
	}

	out := colorable.NewColorableStdout()
	useColor := isatty.IsTerminal(os.Stdout.Fd())

	return run(it, *in, out, useColor)
}

// run dispatches *in to the right input-sourcing strategy and drives it
// through to completion.
func run(it *gossip.Interpreter, in string, out io.Writer, useColor bool) error {
	switch {
	case in == "-":
		return runStdin(it, out, useColor)
	case looksLikeDevicePath(in):
		return runDevice(it, in, out, useColor)
	default:
		payload, err := hex.DecodeString(strings.ReplaceAll(in, " ", ""))
		if err != nil {
			return fmt.Errorf("gossipctl: bad hex input: %w", err)
		}
		streamBytes(it, bytes.NewReader(payload), out, useColor)
		return nil
	}
}

// runStdin reads from stdin. When stdin is a terminal, it is put into
// raw mode and read one byte at a time so keystrokes reach the
// interpreter live; otherwise (a pipe or redirected file) input is
// treated as hex-encoded lines, one line per Scan.
func runStdin(it *gossip.Interpreter, out io.Writer, useColor bool) error {
	fd := int(os.Stdin.Fd())
	if isatty.IsTerminal(uintptr(fd)) {
		restore, err := enableRawMode(fd)
		if err != nil {
			return err
		}
		defer restore()
		streamBytes(it, os.Stdin, out, useColor)
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	response := make([]byte, 16)
	for scanner.Scan() {
		line, err := parseLine(scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "gossipctl: bad hex input: %v\n", err)
			continue
		}
		for _, b := range line {
			n := it.HandleByte(b, response)
			printTransition(out, useColor, b, response[:n], it.State())
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// runDevice opens path as a live serial connection and streams raw bytes
// from it until it's closed or errors out.
func runDevice(it *gossip.Interpreter, path string, out io.Writer, useColor bool) error {
	port, err := serial.Open(path, &serial.Mode{BaudRate: 115200})
	if err != nil {
		return fmt.Errorf("gossipctl: open %s: %w", path, err)
	}
	defer port.Close()
	streamBytes(it, port, out, useColor)
	return nil
}

// streamBytes reads single bytes from r until EOF or an error, feeding
// each one to it and printing the resulting transition.
func streamBytes(it *gossip.Interpreter, r io.Reader, out io.Writer, useColor bool) {
	response := make([]byte, 16)
	var b [1]byte
	for {
		if _, err := r.Read(b[:]); err != nil {
			return
		}
		n := it.HandleByte(b[0], response)
		printTransition(out, useColor, b[0], response[:n], it.State())
	}
}

func printTransition(out io.Writer, useColor bool, in byte, resp []byte, state gossip.State) {
	if !useColor {
		fmt.Fprintf(out, "<- %#02x -> %v [% x]\n", in, state, resp)
		return
	}
	r, g, b := busRGB(state)
	code := ansi256.Code(r, g, b)
	fmt.Fprintf(out, "\x1b[38;5;%dm<- %#02x -> %v [% x]\x1b[0m\n", code, in, state, resp)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "gossipctl: %s.\n", err)
		os.Exit(1)
	}
}
