package wireformat

import (
	"sync/atomic"
)

// Format is the negotiated wire codec for one connection: a marshaller
// table selected by protocol version plus the negotiated encoding flags
// (spec.md §4.1). The table pointer is swapped atomically on renegotiation so
// an in-flight Marshal/Unmarshal never sees a half-updated table.
type Format struct {
	table              atomic.Pointer[marshalTable]
	tightEncodingEnabled atomic.Bool
	sizePrefixDisabled   atomic.Bool
	cacheEnabled         atomic.Bool
	cacheSize            atomic.Int32
	stackTraceEnabled    atomic.Bool
	version              atomic.Int32

	cache *StringCache
}

// NewFormat builds a Format for the given negotiated version, defaulting
// to loose encoding until ApplyWireFormatInfo negotiates otherwise.
func NewFormat(version int32) (*Format, error) {
	table, err := buildMarshalTable(version)
	if err != nil {
		return nil, err
	}
	f := &Format{cache: NewStringCache(0)}
	f.table.Store(table)
	f.version.Store(version)
	return f, nil
}

// ApplyWireFormatInfo updates the Format's negotiated flags and swaps in
// a freshly built table for effective.Version. effective is the result
// of NegotiateWireFormat over both sides' advertised WireFormatInfo.
func (f *Format) ApplyWireFormatInfo(effective *WireFormatInfo) error {
	table, err := buildMarshalTable(effective.Version)
	if err != nil {
		return err
	}
	f.table.Store(table)
	f.version.Store(effective.Version)
	f.tightEncodingEnabled.Store(effective.TightEncodingEnabled)
	f.sizePrefixDisabled.Store(effective.SizePrefixDisabled)
	f.cacheEnabled.Store(effective.CacheEnabled)
	f.cacheSize.Store(effective.CacheSize)
	f.stackTraceEnabled.Store(effective.StackTraceEnabled)
	if effective.CacheEnabled {
		f.cache = NewStringCache(int(effective.CacheSize))
	}
	return nil
}

func (f *Format) Version() int32            { return f.version.Load() }
func (f *Format) TightEncoding() bool        { return f.tightEncodingEnabled.Load() }
func (f *Format) SizePrefixDisabled() bool   { return f.sizePrefixDisabled.Load() }
func (f *Format) StackTraceEnabled() bool    { return f.stackTraceEnabled.Load() }
func (f *Format) CacheEnabled() bool         { return f.cacheEnabled.Load() }
func (f *Format) CacheSize() int32           { return f.cacheSize.Load() }

// Marshal encodes cmd as a tag byte followed by its body, under whichever
// encoding is currently negotiated. A nil cmd encodes as the single
// TagNull byte (spec.md §6).
func (f *Format) Marshal(cmd Command) ([]byte, error) {
	if cmd == nil {
		return []byte{byte(TagNull)}, nil
	}
	entry, err := entryFor(f.table.Load(), cmd.Tag())
	if err != nil {
		return nil, err
	}

	if !f.tightEncodingEnabled.Load() {
		body, err := entry.looseMarshal(cmd)
		if err != nil {
			return nil, err
		}
		return append([]byte{byte(cmd.Tag())}, body...), nil
	}

	bs := NewBooleanStream()
	if _, err := entry.tightMarshal1(cmd, bs); err != nil {
		return nil, err
	}
	bs.Rewind()
	body, err := entry.tightMarshal2(cmd, bs)
	if err != nil {
		return nil, err
	}
	out := []byte{byte(cmd.Tag())}
	out = append(out, bs.MarshalPreamble()...)
	out = append(out, body...)
	return out, nil
}

// Unmarshal decodes one tag-prefixed command. A lone TagNull byte decodes
// to (nil, nil).
func (f *Format) Unmarshal(data []byte) (Command, error) {
	if len(data) < 1 {
		return nil, &TruncatedFrameError{Want: 1, Got: 0}
	}
	tag := Tag(data[0])
	data = data[1:]
	if tag == TagNull {
		return nil, nil
	}

	entry, err := entryFor(f.table.Load(), tag)
	if err != nil {
		return nil, err
	}

	if !f.tightEncodingEnabled.Load() {
		cmd, _, err := entry.looseUnmarshal(data)
		return cmd, err
	}

	bs, consumed, err := NewBooleanStreamReader(data)
	if err != nil {
		return nil, err
	}
	cmd, _, err := entry.tightUnmarshal(bs, data[consumed:])
	return cmd, err
}
