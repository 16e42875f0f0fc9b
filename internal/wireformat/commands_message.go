package wireformat

import (
	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
)

// BodyKind discriminates a Message's payload variant (spec.md §9 design
// note: "Collapse to a tagged variant whose body is one of {text, bytes,
// map, stream, object-blob}; common header fields live outside the
// variant").
type BodyKind byte

const (
	BodyText BodyKind = iota
	BodyBytes
	BodyMap
	BodyStream
	BodyObject
)

func (k BodyKind) tag() Tag {
	switch k {
	case BodyText:
		return TagTextMessage
	case BodyBytes:
		return TagBytesMessage
	case BodyMap:
		return TagMapMessage
	case BodyStream:
		return TagStreamMessage
	case BodyObject:
		return TagObjectMessage
	default:
		return TagMessage
	}
}

// Body holds exactly one of the variant's payload representations,
// selected by Kind.
type Body struct {
	Kind   BodyKind
	Text   string
	Bytes  []byte
	Map    map[string]interface{}
	Stream []interface{}
	Object []byte
}

// Message is the common envelope for every JMS message kind. Header
// fields live outside the Body variant per the §9 design note.
//
// PreMarshalled, when non-nil, is the MarshalAware escape hatch of
// spec.md §4.1: an already-encoded body blob that bypasses Body entirely
// when the Message is re-sent without modification.
type Message struct {
	BaseCommand

	MessageId     ids.MessageId
	ProducerId    ids.ProducerId
	Destination   destination.Destination
	ReplyTo       *destination.Destination
	CorrelationId string
	Timestamp     int64
	Expiration    int64
	Priority      int8
	Persistent    bool
	Type          string
	GroupId       string
	GroupSequence int32

	// RedeliveryCounter and BrokerSequenceId are consumer-side bookkeeping
	// fields, not broker-authoritative at send time, but are round-tripped
	// on MessageDispatch.
	RedeliveryCounter int16
	BrokerSequenceId  int64

	Properties map[string]interface{}
	Body       Body

	PreMarshalled []byte
}

func (m *Message) Tag() Tag {
	if len(m.PreMarshalled) > 0 {
		return m.Body.Kind.tag()
	}
	return m.Body.Kind.tag()
}

// NewTextMessage builds a Message carrying a text body.
func NewTextMessage(text string) *Message {
	return &Message{Body: Body{Kind: BodyText, Text: text}}
}

// NewBytesMessage builds a Message carrying an opaque byte-array body.
func NewBytesMessage(data []byte) *Message {
	return &Message{Body: Body{Kind: BodyBytes, Bytes: data}}
}

// NewMapMessage builds a Message carrying a string-keyed primitive map.
func NewMapMessage(m map[string]interface{}) *Message {
	return &Message{Body: Body{Kind: BodyMap, Map: m}}
}

// NewStreamMessage builds a Message carrying an ordered primitive
// sequence.
func NewStreamMessage(values []interface{}) *Message {
	return &Message{Body: Body{Kind: BodyStream, Stream: values}}
}

// NewObjectMessage builds a Message carrying a pre-serialized object
// blob (the client never interprets it).
func NewObjectMessage(blob []byte) *Message {
	return &Message{Body: Body{Kind: BodyObject, Object: blob}}
}
