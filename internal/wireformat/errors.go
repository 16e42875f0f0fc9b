// Package wireformat implements the OpenWire binary codec: the tagged
// command model of spec.md §3, the tight/loose marshalling rules of §4.1,
// and the framing and version-negotiation rules of §6.
//
// The codec is pure: Command values in, bytes out, and back. It knows
// nothing about transports, connections, or sessions.
package wireformat

import "fmt"

// UnknownCommandError is returned when a tag byte does not match any
// registered command in the effective marshaller table.
type UnknownCommandError struct {
	Tag byte
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("wireformat: unknown command tag %d", e.Tag)
}

// TruncatedFrameError is returned when the transport yields fewer bytes
// than a frame's length prefix promised.
type TruncatedFrameError struct {
	Want int
	Got  int
}

func (e *TruncatedFrameError) Error() string {
	return fmt.Sprintf("wireformat: truncated frame, want %d bytes, got %d", e.Want, e.Got)
}

// CodecInvariantViolation signals that tightMarshal1's size estimate and
// tightMarshal2's actual byte count disagree. This is fatal: the
// connection that observes it must be torn down (spec.md §7).
type CodecInvariantViolation struct {
	Tag      byte
	Estimate int
	Actual   int
}

func (e *CodecInvariantViolation) Error() string {
	return fmt.Sprintf("wireformat: codec invariant violated for tag %d: estimated %d bytes, wrote %d", e.Tag, e.Estimate, e.Actual)
}

// ErrFrameTooLarge guards against a corrupt or hostile length prefix
// causing an unbounded allocation. Grounded on the same defensive cap
// used by oriys-nova's vsockpb.Codec.
type ErrFrameTooLarge struct {
	Len uint32
	Max uint32
}

func (e *ErrFrameTooLarge) Error() string {
	return fmt.Sprintf("wireformat: frame length %d exceeds maximum %d", e.Len, e.Max)
}

// UnsupportedVersionError is returned when a peer proposes a version with
// no registered marshaller table.
type UnsupportedVersionError struct {
	Version int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("wireformat: unsupported version %d", e.Version)
}
