package wireformat

import (
	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
)

// ConnectionInfo registers a connection with the broker.
type ConnectionInfo struct {
	BaseCommand

	ConnectionId ids.ConnectionId
	ClientId     string
	UserName     string
	Password     string
}

func (*ConnectionInfo) Tag() Tag { return TagConnectionInfo }

// SessionInfo registers a session with the broker. Sent oneway
// (spec.md §4.2 "createSession").
type SessionInfo struct {
	BaseCommand

	SessionId ids.SessionId
}

func (*SessionInfo) Tag() Tag { return TagSessionInfo }

// ConsumerInfo registers a consumer with the broker (spec.md §3 table).
type ConsumerInfo struct {
	BaseCommand

	ConsumerId                 ids.ConsumerId
	Destination                destination.Destination
	Selector                   string
	PrefetchSize               int32
	MaximumPendingMessageLimit int32
	NoLocal                    bool
	Browser                    bool
	DispatchAsync              bool
	Exclusive                  bool
	Retroactive                bool
	Priority                   int8
	NetworkSubscription        bool
}

func (*ConsumerInfo) Tag() Tag { return TagConsumerInfo }

// ProducerInfo registers a producer with the broker. Destination is nil
// for an anonymous producer (destination supplied per-send).
type ProducerInfo struct {
	BaseCommand

	ProducerId  ids.ProducerId
	Destination *destination.Destination
}

func (*ProducerInfo) Tag() Tag { return TagProducerInfo }

// RemoveInfo tears down a previously registered session/consumer/producer.
// ObjectId is the string form of whichever id is being removed.
type RemoveInfo struct {
	BaseCommand

	ObjectId string
}

func (*RemoveInfo) Tag() Tag { return TagRemoveInfo }

// DestinationOperation enumerates the admin operations a DestinationInfo
// can request (spec.md §4.2 "destroyDestination").
type DestinationOperation int32

const (
	DestinationAdd DestinationOperation = iota
	DestinationRemove
)

// DestinationInfo is the synchronous admin call spec.md §4.2's
// destroyDestination issues; a REMOVE request fails with a broker-
// reported ExceptionResponse when consumers are still attached.
type DestinationInfo struct {
	BaseCommand

	ConnectionId ids.ConnectionId
	Destination  destination.Destination
	Operation    DestinationOperation
}

func (*DestinationInfo) Tag() Tag { return TagDestinationInfo }

// TransactionType enumerates the lifecycle events of a
// SESSION_TRANSACTED TransactionContext (spec.md §4.3).
type TransactionType int32

const (
	TransactionBegin TransactionType = iota
	TransactionCommit
	TransactionRollback
	TransactionEnd
)

// TransactionInfo carries a begin/commit/rollback/end event for a
// TransactionId.
type TransactionInfo struct {
	BaseCommand

	TransactionId ids.TransactionId
	Type          TransactionType
}

func (*TransactionInfo) Tag() Tag { return TagTransactionInfo }
