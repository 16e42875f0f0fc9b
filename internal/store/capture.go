package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tenzoki/gowire/internal/wireformat"
)

// Direction marks which way a captured frame travelled.
type Direction byte

const (
	Inbound Direction = iota
	Outbound
)

func (d Direction) String() string {
	if d == Outbound {
		return "out"
	}
	return "in"
}

// CapturedFrame is one append-log record: a decoded command's tag and
// raw wire bytes, its direction, and the wall-clock time it was seen.
type CapturedFrame struct {
	Direction Direction
	Tag       wireformat.Tag
	Timestamp int64 // UnixNano
	Raw       []byte
}

// FrameRecorder mirrors every decoded Command plus its direction and
// timestamp into a msgpack-encoded append log (SPEC_FULL.md §B.2), for
// offline diagnosis of interop failures against the bit-exact rules of
// spec.md §6. It is a side observation channel: attaching one to a
// Connection never alters what goes out on the wire, which stays
// OpenWire tight/loose per §4.1.
type FrameRecorder struct {
	mu  sync.Mutex
	enc *msgpack.Encoder
	f   *os.File
}

// NewFrameRecorder opens path for appending (creating it if necessary)
// and returns a recorder ready for Record calls.
func NewFrameRecorder(path string) (*FrameRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: opening frame capture log: %w", err)
	}
	return &FrameRecorder{enc: msgpack.NewEncoder(f), f: f}, nil
}

// Record appends one frame. raw is the already-encoded wire body (as
// read off or just written to the transport), kept verbatim so
// a captured log can be replayed through the real Format later.
func (r *FrameRecorder) Record(dir Direction, cmd wireformat.Command, raw []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	frame := CapturedFrame{
		Direction: dir,
		Tag:       cmd.Tag(),
		Timestamp: time.Now().UnixNano(),
		Raw:       raw,
	}
	return r.enc.Encode(&frame)
}

// Close flushes and closes the underlying file.
func (r *FrameRecorder) Close() error {
	return r.f.Close()
}

// ReadCaptured reads every frame previously written by a FrameRecorder
// at path, for offline tooling that wants to replay or inspect a
// capture.
func ReadCaptured(path string) ([]CapturedFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: opening capture log: %w", err)
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	var out []CapturedFrame
	for {
		var frame CapturedFrame
		if err := dec.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("store: decoding capture log: %w", err)
		}
		out = append(out, frame)
	}
	return out, nil
}
