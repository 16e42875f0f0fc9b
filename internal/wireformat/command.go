package wireformat

// Tag identifies a command's wire type. The codec keeps an array indexed
// by tag (0..255); tag 0 is always the explicit null payload (spec.md §6).
type Tag byte

const (
	TagNull Tag = 0

	TagWireFormatInfo Tag = 1
	TagBrokerInfo     Tag = 2

	TagConnectionInfo Tag = 3
	TagSessionInfo    Tag = 4
	TagConsumerInfo   Tag = 5
	TagProducerInfo   Tag = 6
	TagRemoveInfo     Tag = 7
	TagDestinationInfo Tag = 8

	TagMessage       Tag = 10
	TagTextMessage   Tag = 11
	TagBytesMessage  Tag = 12
	TagMapMessage    Tag = 13
	TagStreamMessage Tag = 14
	TagObjectMessage Tag = 15

	TagMessageDispatch Tag = 20
	TagMessageAck      Tag = 21
	TagMessagePull     Tag = 22

	TagTransactionInfo Tag = 25

	TagShutdownInfo   Tag = 30
	TagKeepAliveInfo  Tag = 31
	TagConnectionError Tag = 32

	TagResponse          Tag = 40
	TagExceptionResponse Tag = 41
)

// Command is the closed tagged-union the codec and runtime agree on
// (spec.md §3 "Command (protocol message)").
type Command interface {
	Tag() Tag
	GetCommandId() int32
	SetCommandId(int32)
	IsResponseRequired() bool
	SetResponseRequired(bool)
}

// BaseCommand carries the fields every command shares: a correlation id
// (spec.md: "Each carries a correlation id when part of a request/response
// pair") and whether the sender expects a Response/ExceptionResponse.
type BaseCommand struct {
	CommandId        int32
	ResponseRequired bool
}

func (b *BaseCommand) GetCommandId() int32         { return b.CommandId }
func (b *BaseCommand) SetCommandId(id int32)       { b.CommandId = id }
func (b *BaseCommand) IsResponseRequired() bool    { return b.ResponseRequired }
func (b *BaseCommand) SetResponseRequired(v bool)  { b.ResponseRequired = v }
