package wireformat

import (
	"encoding/binary"
	"fmt"
)

// Tight-long length codes: a 3-bit selector in the boolean stream picks
// one of six byte widths a long can be packed into, per spec.md §6.
const (
	longCode0 = iota // 0 bytes: value is exactly 0
	longCode1        // 1 byte
	longCode2        // 2 bytes
	longCode4        // 4 bytes
	longCode6        // 6 bytes
	longCode8        // 8 bytes
)

func tightLongCode(v int64) (code int, nbytes int) {
	switch {
	case v == 0:
		return longCode0, 0
	case v >= -0x80 && v < 0x80:
		return longCode1, 1
	case v >= -0x8000 && v < 0x8000:
		return longCode2, 2
	case v >= -0x80000000 && v < 0x80000000:
		return longCode4, 4
	case v >= -(1<<47) && v < (1<<47):
		return longCode6, 6
	default:
		return longCode8, 8
	}
}

func writeLongCodeBits(bs *BooleanStream, code int) {
	bs.WriteBoolean(code&1 != 0)
	bs.WriteBoolean(code&2 != 0)
	bs.WriteBoolean(code&4 != 0)
}

func readLongCodeBits(bs *BooleanStream) (int, error) {
	var code int
	for i := 0; i < 3; i++ {
		b, err := bs.ReadBoolean()
		if err != nil {
			return 0, err
		}
		if b {
			code |= 1 << i
		}
	}
	return code, nil
}

func codeByteWidth(code int) int {
	switch code {
	case longCode0:
		return 0
	case longCode1:
		return 1
	case longCode2:
		return 2
	case longCode4:
		return 4
	case longCode6:
		return 6
	case longCode8:
		return 8
	default:
		return 8
	}
}

// TightMarshalLong1 records the length-selector bits for v and returns the
// number of body bytes pass 2 must emit.
func TightMarshalLong1(bs *BooleanStream, v int64) int {
	code, n := tightLongCode(v)
	writeLongCodeBits(bs, code)
	return n
}

// TightMarshalLong2 appends v's packed body bytes to buf, consuming the
// selector bits tightMarshal1 wrote.
func TightMarshalLong2(bs *BooleanStream, v int64, buf []byte) ([]byte, error) {
	code, err := readLongCodeBits(bs)
	if err != nil {
		return nil, err
	}
	n := codeByteWidth(code)
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[8-n:]...), nil
}

// TightUnmarshalLong reads a packed long given the selector bits already
// consumed by the caller (nbytes is codeByteWidth(code)).
func TightUnmarshalLong(data []byte, nbytes int) (int64, []byte, error) {
	if len(data) < nbytes {
		return 0, nil, fmt.Errorf("wireformat: truncated tight long")
	}
	var tmp [8]byte
	copy(tmp[8-nbytes:], data[:nbytes])
	v := int64(binary.BigEndian.Uint64(tmp[:]))
	// sign-extend short representations
	if nbytes > 0 && nbytes < 8 {
		signBit := int64(1) << (nbytes*8 - 1)
		mask := int64(1)<<(nbytes*8) - 1
		if v&signBit != 0 {
			v |= ^mask
		}
	}
	return v, data[nbytes:], nil
}

// TightReadLong reads a packed long, consuming both the selector bits
// tightMarshal1 wrote and the corresponding body bytes.
func TightReadLong(bs *BooleanStream, data []byte) (int64, []byte, error) {
	code, err := readLongCodeBits(bs)
	if err != nil {
		return 0, nil, err
	}
	n := codeByteWidth(code)
	return TightUnmarshalLong(data, n)
}

// WriteLooseLong writes a long in its full 8-byte loose form.
func WriteLooseLong(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

// ReadLooseLong reads a full 8-byte loose long.
func ReadLooseLong(data []byte) (int64, []byte, error) {
	if len(data) < 8 {
		return 0, nil, fmt.Errorf("wireformat: truncated loose long")
	}
	return int64(binary.BigEndian.Uint64(data[:8])), data[8:], nil
}

// WriteInt writes a 4-byte big-endian int (ints are never compacted in
// either encoding, only longs and strings are).
func WriteInt(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

// ReadInt reads a 4-byte big-endian int.
func ReadInt(data []byte) (int32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, fmt.Errorf("wireformat: truncated int")
	}
	return int32(binary.BigEndian.Uint32(data[:4])), data[4:], nil
}

// WriteShort writes a 2-byte big-endian short.
func WriteShort(buf []byte, v int16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(v))
	return append(buf, tmp[:]...)
}

// ReadShort reads a 2-byte big-endian short.
func ReadShort(data []byte) (int16, []byte, error) {
	if len(data) < 2 {
		return 0, nil, fmt.Errorf("wireformat: truncated short")
	}
	return int16(binary.BigEndian.Uint16(data[:2])), data[2:], nil
}

// shortStringLimit is the byte-length threshold below which a tight string
// is "short" and carries a 2-byte length instead of a 4-byte one. This is
// Java's Short.MAX_VALUE, not 65535: the 2-byte length is written and read
// as a signed short, so anything above it would write a negative length.
const shortStringLimit = 1<<15 - 1

// TightMarshalString1 writes the "present"/"isShort" decision bits for s
// (s == nil means a null string) and returns the number of body bytes
// pass 2 must emit (length prefix + UTF-8 bytes).
func TightMarshalString1(bs *BooleanStream, s *string) int {
	if s == nil {
		bs.WriteBoolean(false)
		return 0
	}
	bs.WriteBoolean(true)
	n := len(*s)
	isShort := n <= shortStringLimit
	bs.WriteBoolean(isShort)
	if isShort {
		return 2 + n
	}
	return 4 + n
}

// TightMarshalString2 appends s's length-prefixed UTF-8 body to buf,
// consuming the decision bits tightMarshal1 wrote.
func TightMarshalString2(bs *BooleanStream, s *string, buf []byte) ([]byte, error) {
	present, err := bs.ReadBoolean()
	if err != nil {
		return nil, err
	}
	if !present {
		return buf, nil
	}
	isShort, err := bs.ReadBoolean()
	if err != nil {
		return nil, err
	}
	n := len(*s)
	if isShort {
		buf = WriteShort(buf, int16(n))
	} else {
		buf = WriteInt(buf, int32(n))
	}
	return append(buf, (*s)...), nil
}

// TightUnmarshalString reads a tight string given the already-consumed
// present/isShort decision bits.
func TightUnmarshalString(bs *BooleanStream, data []byte) (*string, []byte, error) {
	present, err := bs.ReadBoolean()
	if err != nil {
		return nil, nil, err
	}
	if !present {
		return nil, data, nil
	}
	isShort, err := bs.ReadBoolean()
	if err != nil {
		return nil, nil, err
	}
	var n int
	if isShort {
		v, rest, err := ReadShort(data)
		if err != nil {
			return nil, nil, err
		}
		n = int(uint16(v))
		data = rest
	} else {
		v, rest, err := ReadInt(data)
		if err != nil {
			return nil, nil, err
		}
		n = int(uint32(v))
		data = rest
	}
	if len(data) < n {
		return nil, nil, fmt.Errorf("wireformat: truncated tight string body")
	}
	s := string(data[:n])
	return &s, data[n:], nil
}

// WriteLooseString writes a loose (self-contained) string: a 4-byte
// length followed by the UTF-8 bytes; nil is encoded as length -1.
func WriteLooseString(buf []byte, s *string) []byte {
	if s == nil {
		return WriteInt(buf, -1)
	}
	buf = WriteInt(buf, int32(len(*s)))
	return append(buf, (*s)...)
}

// ReadLooseString reads a loose string (see WriteLooseString).
func ReadLooseString(data []byte) (*string, []byte, error) {
	n, rest, err := ReadInt(data)
	if err != nil {
		return nil, nil, err
	}
	if n < 0 {
		return nil, rest, nil
	}
	if len(rest) < int(n) {
		return nil, nil, fmt.Errorf("wireformat: truncated loose string body")
	}
	s := string(rest[:n])
	return &s, rest[n:], nil
}

// WriteBool writes a single byte boolean (used by loose encoding, where
// every presence bit is a full byte per spec.md §4.1).
func WriteBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// ReadBool reads a single byte boolean.
func ReadBool(data []byte) (bool, []byte, error) {
	if len(data) < 1 {
		return false, nil, fmt.Errorf("wireformat: truncated bool")
	}
	return data[0] != 0, data[1:], nil
}
