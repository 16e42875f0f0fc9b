package wireformat

import (
	"fmt"
	"math"
)

// valueKind tags a single entry of a Message's Properties map, or of a
// MapMessage/StreamMessage body, the way OpenWire tags primitive values
// inside a "marshalled primitive map" — a one-byte type tag followed by
// the type-specific body. Loose and tight encoding share this format;
// only the surrounding string/long compaction differs.
type valueKind byte

const (
	valueNil valueKind = iota
	valueBool
	valueByte
	valueShort
	valueInt
	valueLong
	valueFloat
	valueDouble
	valueString
	valueBytes
)

// WriteValue appends a type-tagged primitive value to buf. Supported Go
// types: nil, bool, int8 (a JMS byte), int16, int32, int64, float32, float64,
// string, []byte — the closed set spec.md's "JMS message property
// grammar" subset requires (§1 scope: "beyond what the state machine
// requires").
func WriteValue(buf []byte, v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return append(buf, byte(valueNil)), nil
	case bool:
		buf = append(buf, byte(valueBool))
		return WriteBool(buf, x), nil
	case int8:
		return append(buf, byte(valueByte), byte(x)), nil
	case int16:
		buf = append(buf, byte(valueShort))
		return WriteShort(buf, x), nil
	case int32:
		buf = append(buf, byte(valueInt))
		return WriteInt(buf, x), nil
	case int:
		buf = append(buf, byte(valueInt))
		return WriteInt(buf, int32(x)), nil
	case int64:
		buf = append(buf, byte(valueLong))
		return WriteLooseLong(buf, x), nil
	case float32:
		buf = append(buf, byte(valueFloat))
		return WriteInt(buf, int32(math.Float32bits(x))), nil
	case float64:
		buf = append(buf, byte(valueDouble))
		return WriteLooseLong(buf, int64(math.Float64bits(x))), nil
	case string:
		buf = append(buf, byte(valueString))
		return WriteLooseString(buf, &x), nil
	case []byte:
		buf = append(buf, byte(valueBytes))
		buf = WriteInt(buf, int32(len(x)))
		return append(buf, x...), nil
	default:
		return nil, fmt.Errorf("wireformat: unsupported property value type %T", v)
	}
}

// ReadValue reads back one WriteValue-encoded entry.
func ReadValue(data []byte) (interface{}, []byte, error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("wireformat: truncated value tag")
	}
	kind := valueKind(data[0])
	data = data[1:]

	switch kind {
	case valueNil:
		return nil, data, nil
	case valueBool:
		v, rest, err := ReadBool(data)
		return v, rest, err
	case valueByte:
		if len(data) < 1 {
			return nil, nil, fmt.Errorf("wireformat: truncated byte value")
		}
		return int8(data[0]), data[1:], nil
	case valueShort:
		v, rest, err := ReadShort(data)
		return v, rest, err
	case valueInt:
		v, rest, err := ReadInt(data)
		return v, rest, err
	case valueLong:
		v, rest, err := ReadLooseLong(data)
		return v, rest, err
	case valueFloat:
		v, rest, err := ReadInt(data)
		if err != nil {
			return nil, nil, err
		}
		return math.Float32frombits(uint32(v)), rest, nil
	case valueDouble:
		v, rest, err := ReadLooseLong(data)
		if err != nil {
			return nil, nil, err
		}
		return math.Float64frombits(uint64(v)), rest, nil
	case valueString:
		v, rest, err := ReadLooseString(data)
		if err != nil {
			return nil, nil, err
		}
		if v == nil {
			return "", rest, nil
		}
		return *v, rest, nil
	case valueBytes:
		n, rest, err := ReadInt(data)
		if err != nil {
			return nil, nil, err
		}
		if len(rest) < int(n) {
			return nil, nil, fmt.Errorf("wireformat: truncated bytes value")
		}
		out := make([]byte, n)
		copy(out, rest[:n])
		return out, rest[n:], nil
	default:
		return nil, nil, fmt.Errorf("wireformat: unknown value kind %d", kind)
	}
}

// writeStream encodes an ordered sequence of WriteValue-compatible values:
// a count, then each value in order (StreamMessage body, spec.md §3).
func writeStream(buf []byte, values []interface{}) ([]byte, error) {
	buf = WriteInt(buf, int32(len(values)))
	for _, v := range values {
		var err error
		buf, err = WriteValue(buf, v)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// readStream reads back a writeStream-encoded sequence.
func readStream(data []byte) ([]interface{}, []byte, error) {
	n, rest, err := ReadInt(data)
	if err != nil {
		return nil, nil, err
	}
	out := make([]interface{}, 0, n)
	for i := int32(0); i < n; i++ {
		var v interface{}
		v, rest, err = ReadValue(rest)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, v)
	}
	return out, rest, nil
}

// WriteValueMap encodes an ordered (by iteration) string-keyed map of
// WriteValue-compatible values: a count, then key/value pairs.
func WriteValueMap(buf []byte, m map[string]interface{}) ([]byte, error) {
	buf = WriteInt(buf, int32(len(m)))
	for k, v := range m {
		key := k
		buf = WriteLooseString(buf, &key)
		var err error
		buf, err = WriteValue(buf, v)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// ReadValueMap reads back a WriteValueMap-encoded map.
func ReadValueMap(data []byte) (map[string]interface{}, []byte, error) {
	n, rest, err := ReadInt(data)
	if err != nil {
		return nil, nil, err
	}
	m := make(map[string]interface{}, n)
	for i := int32(0); i < n; i++ {
		key, after, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		val, after2, err := ReadValue(after)
		if err != nil {
			return nil, nil, err
		}
		if key != nil {
			m[*key] = val
		}
		rest = after2
	}
	return m, rest, nil
}
