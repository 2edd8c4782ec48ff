// Package gossip implements the firmware-side command interpreter for a
// bridge device that exposes a host's SPI, I²C, UART and GPIO peripherals
// to an upstream controller over a single byte-oriented channel.
//
// The upstream controller streams opcode and operand bytes; Interpreter
// drives the four peripheral capability contracts (Serial, TwoWire,
// AsyncSerial, PinBank) and emits response bytes for the small set of
// opcodes that produce one (GPIO SET_PULL, SET_STATE, GET_PULL and
// GET_STATE). The interpreter never owns the
// peripherals it drives and never blocks on its own account: callers
// supply capability implementations, real or mocked, and feed bytes in.
//
// Subpackages
//
// adapter wraps real periph.io buses and a real serial port so the
// capability contracts can be backed by actual hardware.
//
// session records and replays byte streams against an Interpreter for
// regression testing.
//
// cmd/gossipctl is a small command line tool that drives an Interpreter
// from a hex string, stdin, or a live serial connection for manual bring-up.
package gossip
