package wireformat

import (
	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
)

// MessageDispatch carries one delivered message (or a synthetic
// null-payload dispatch on a pull timeout, spec.md §4.4) from broker to
// client, routed by ConsumerId.
type MessageDispatch struct {
	BaseCommand

	ConsumerId  ids.ConsumerId
	Destination destination.Destination
	Message     *Message // nil for a synthetic "no message" dispatch
	RedeliveryCounter int16
}

func (*MessageDispatch) Tag() Tag { return TagMessageDispatch }

// AckType enumerates the acknowledgement kinds spec.md §4.4 requires:
// DELIVERED is a pure flow-control ack, CONSUMED confirms final receipt,
// POISON signals redelivery-cap exhaustion, REDELIVERED accounts for a
// rollback-triggered window adjustment without removing the message.
type AckType int32

const (
	AckDelivered AckType = iota
	AckConsumed
	AckPoison
	AckRedelivered
)

// MessageAck is the coalesced acknowledgement spec.md §4.4's
// pending-ack coalescer builds. The range [FirstMessageId,
// LastMessageId] must cover at least MessageCount contiguous messages
// (spec.md §8 invariant 4).
type MessageAck struct {
	BaseCommand

	ConsumerId     ids.ConsumerId
	Destination    destination.Destination
	AckType        AckType
	FirstMessageId ids.MessageId
	LastMessageId  ids.MessageId
	MessageCount   int32
	TransactionId  *ids.TransactionId
}

func (*MessageAck) Tag() Tag { return TagMessageAck }

// MessagePull requests one dispatch for a zero-prefetch consumer
// (spec.md §4.4 "Zero-prefetch / pull mode"). Timeout follows spec.md's
// documented sign convention: -1 means "pull only if already queued" (no
// wait); 0 means wait indefinitely; >0 is a bounded wait in milliseconds.
type MessagePull struct {
	BaseCommand

	ConsumerId  ids.ConsumerId
	Destination destination.Destination
	Timeout     int64
}

func (*MessagePull) Tag() Tag { return TagMessagePull }

// Response correlates to a prior request by CommandId (spec.md §4.2
// "syncRequest").
type Response struct {
	BaseCommand

	CorrelationId int32
}

func (*Response) Tag() Tag { return TagResponse }

// ExceptionResponse carries a broker-reported error for a syncRequest
// (spec.md §7 kind 4).
type ExceptionResponse struct {
	BaseCommand

	CorrelationId int32
	Message       string
	StackTrace    string // only populated when stackTraceEnabled was negotiated
}

func (*ExceptionResponse) Tag() Tag { return TagExceptionResponse }
