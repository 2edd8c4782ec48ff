package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/sigurn/crc16"

	"github.com/technicalmachine/gossip"
)

var crcTable = crc16.MakeTable(crc16.CCITTFalse)

// Frame is one recorded interaction: the bytes fed to an Interpreter and
// the response bytes it produced, plus the state the Interpreter settled
// in. Checksum covers Input and Output so a hand-edited fixture is
// detected rather than silently replayed as if it were genuine.
type Frame struct {
	Input    []byte
	Output   []byte
	Final    gossip.State
	Checksum uint16
}

// Recorder wraps an Interpreter, mirroring every byte handled (and every
// response byte produced) into a Frame that can be persisted and replayed
// later as a regression fixture.
type Recorder struct {
	it    *gossip.Interpreter
	frame Frame
}

// NewRecorder begins recording against it. The Interpreter's existing
// state is taken as the frame's starting point; nothing about it is reset.
func NewRecorder(it *gossip.Interpreter) *Recorder {
	return &Recorder{it: it}
}

// HandleByte mirrors Interpreter.HandleByte, appending b to the recorded
// input and any produced bytes to the recorded output.
func (r *Recorder) HandleByte(b byte) {
	var out [4]byte
	n := r.it.HandleByte(b, out[:])
	r.frame.Input = append(r.frame.Input, b)
	r.frame.Output = append(r.frame.Output, out[:n]...)
}

// Finish closes out the recording, computing Final and Checksum, and
// returns the completed Frame.
func (r *Recorder) Finish() Frame {
	r.frame.Final = r.it.State()
	r.frame.Checksum = checksum(r.frame.Input, r.frame.Output)
	return r.frame
}

func checksum(input, output []byte) uint16 {
	buf := make([]byte, 0, len(input)+len(output)+8)
	buf = append(buf, input...)
	buf = append(buf, output...)
	return crc16.Checksum(buf, crcTable)
}

// Encode serializes a Frame as a length-prefixed byte stream: a uint32
// length, the input bytes, a second uint32 length, the output bytes, the
// final state as one byte, and the checksum as a trailing uint16. It has
// no ambition beyond being a stable, greppable fixture format.
func Encode(f Frame) []byte {
	var buf bytes.Buffer
	writeChunk(&buf, f.Input)
	writeChunk(&buf, f.Output)
	buf.WriteByte(byte(f.Final))
	binary.Write(&buf, binary.BigEndian, f.Checksum)
	return buf.Bytes()
}

func writeChunk(buf *bytes.Buffer, data []byte) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	buf.Write(length[:])
	buf.Write(data)
}

// Decode parses a byte stream produced by Encode and verifies its
// checksum.
func Decode(data []byte) (Frame, error) {
	var f Frame
	r := bytes.NewReader(data)
	input, err := readChunk(r)
	if err != nil {
		return f, fmt.Errorf("session: decode input: %w", err)
	}
	output, err := readChunk(r)
	if err != nil {
		return f, fmt.Errorf("session: decode output: %w", err)
	}
	var final byte
	if err := binary.Read(r, binary.BigEndian, &final); err != nil {
		return f, fmt.Errorf("session: decode final state: %w", err)
	}
	var sum uint16
	if err := binary.Read(r, binary.BigEndian, &sum); err != nil {
		return f, fmt.Errorf("session: decode checksum: %w", err)
	}
	f = Frame{Input: input, Output: output, Final: gossip.State(final), Checksum: sum}
	if want := checksum(f.Input, f.Output); want != f.Checksum {
		return f, fmt.Errorf("session: checksum mismatch: got %#04x, want %#04x", f.Checksum, want)
	}
	return f, nil
}

var errShortChunk = errors.New("session: truncated chunk")

func readChunk(r *bytes.Reader) ([]byte, error) {
	var length [4]byte
	if _, err := r.Read(length[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(length[:])
	data := make([]byte, n)
	read, err := r.Read(data)
	if err != nil {
		return nil, err
	}
	if uint32(read) != n {
		return nil, errShortChunk
	}
	return data, nil
}

// Replay feeds frame.Input through a freshly constructed Interpreter
// (built by newInterpreter, which should wire in fakes or mocks) and fails
// t if either the response bytes or the final state diverge from the
// recorded frame.
func Replay(t *testing.T, frame Frame, newInterpreter func() *gossip.Interpreter) {
	t.Helper()
	it := newInterpreter()
	out := make([]byte, len(frame.Input)*4)
	n := it.HandleBuffer(frame.Input, out)
	got := out[:n]
	if !bytes.Equal(got, frame.Output) {
		t.Fatalf("replay output = %v, want %v", got, frame.Output)
	}
	if it.State() != frame.Final {
		t.Fatalf("replay final state = %v, want %v", it.State(), frame.Final)
	}
}
