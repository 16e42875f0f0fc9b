// Package ids implements the identifier and routing-key model of spec.md
// §3: opaque, never-reused ids structured as (parent, monotonic sequence)
// pairs, generated client-side.
//
// Grounded on cellorg/internal/envelope.NewEnvelope's uuid.New() for the
// connection-root id, and cellorg/internal/broker/service.go's
// fmt.Sprintf("conn_%d", time.Now().UnixNano()) pattern for the parented
// sequence counters — generalized here into explicit (parent, sequence)
// structs because spec.md requires structured ids, not opaque strings,
// for everything below ConnectionId.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// ConnectionId is a stable, uniquely generated string for the life of a
// connection (spec.md §3).
type ConnectionId struct {
	Value string
}

// NewConnectionId generates a fresh, globally unique connection id.
func NewConnectionId() ConnectionId {
	return ConnectionId{Value: "ID:" + uuid.New().String()}
}

func (c ConnectionId) String() string { return c.Value }

// SessionId is (ConnectionId, monotonically increasing session sequence).
type SessionId struct {
	ConnectionId ConnectionId
	Value        int64
}

func (s SessionId) String() string {
	return fmt.Sprintf("%s:%d", s.ConnectionId.Value, s.Value)
}

// ConsumerId is (SessionId, monotonically increasing consumer sequence).
type ConsumerId struct {
	SessionId SessionId
	Value     int64
}

func (c ConsumerId) String() string {
	return fmt.Sprintf("%s:%d", c.SessionId.String(), c.Value)
}

// ProducerId is (SessionId, monotonically increasing producer sequence).
type ProducerId struct {
	SessionId SessionId
	Value     int64
}

func (p ProducerId) String() string {
	return fmt.Sprintf("%s:%d", p.SessionId.String(), p.Value)
}

// MessageId is (ProducerId, broker-assigned or client-assigned sequence).
// Messages from a single ProducerId are totally ordered by Value.
type MessageId struct {
	ProducerId ProducerId
	Value      int64
}

func (m MessageId) String() string {
	return fmt.Sprintf("%s:%d", m.ProducerId.String(), m.Value)
}

// Less reports whether m sorts before other; only meaningful for ids that
// share a ProducerId (spec.md's "totally ordered per ProducerId").
func (m MessageId) Less(other MessageId) bool {
	return m.Value < other.Value
}

// TransactionId identifies a session-transacted unit of work.
type TransactionId struct {
	ConnectionId ConnectionId
	Value        int64
}

func (t TransactionId) String() string {
	return fmt.Sprintf("TX:%s:%d", t.ConnectionId.Value, t.Value)
}

// SessionSequenceGenerator hands out monotonically increasing SessionIds
// for one connection. Never reuses a value for the life of the parent
// (spec.md invariant 4).
type SessionSequenceGenerator struct {
	connectionId ConnectionId
	counter      int64
}

func NewSessionSequenceGenerator(connectionId ConnectionId) *SessionSequenceGenerator {
	return &SessionSequenceGenerator{connectionId: connectionId}
}

func (g *SessionSequenceGenerator) Next() SessionId {
	v := atomic.AddInt64(&g.counter, 1)
	return SessionId{ConnectionId: g.connectionId, Value: v}
}

// ConsumerSequenceGenerator hands out monotonically increasing ConsumerIds
// for one session.
type ConsumerSequenceGenerator struct {
	sessionId SessionId
	counter   int64
}

func NewConsumerSequenceGenerator(sessionId SessionId) *ConsumerSequenceGenerator {
	return &ConsumerSequenceGenerator{sessionId: sessionId}
}

func (g *ConsumerSequenceGenerator) Next() ConsumerId {
	v := atomic.AddInt64(&g.counter, 1)
	return ConsumerId{SessionId: g.sessionId, Value: v}
}

// ProducerSequenceGenerator hands out monotonically increasing ProducerIds
// for one session.
type ProducerSequenceGenerator struct {
	sessionId SessionId
	counter   int64
}

func NewProducerSequenceGenerator(sessionId SessionId) *ProducerSequenceGenerator {
	return &ProducerSequenceGenerator{sessionId: sessionId}
}

func (g *ProducerSequenceGenerator) Next() ProducerId {
	v := atomic.AddInt64(&g.counter, 1)
	return ProducerId{SessionId: g.sessionId, Value: v}
}

// MessageSequenceGenerator hands out monotonically increasing MessageIds
// for one producer.
type MessageSequenceGenerator struct {
	producerId ProducerId
	counter    int64
}

func NewMessageSequenceGenerator(producerId ProducerId) *MessageSequenceGenerator {
	return &MessageSequenceGenerator{producerId: producerId}
}

func (g *MessageSequenceGenerator) Next() MessageId {
	v := atomic.AddInt64(&g.counter, 1)
	return MessageId{ProducerId: g.producerId, Value: v}
}

// TransactionSequenceGenerator hands out monotonically increasing
// TransactionIds for one connection.
type TransactionSequenceGenerator struct {
	connectionId ConnectionId
	counter      int64
}

func NewTransactionSequenceGenerator(connectionId ConnectionId) *TransactionSequenceGenerator {
	return &TransactionSequenceGenerator{connectionId: connectionId}
}

func (g *TransactionSequenceGenerator) Next() TransactionId {
	v := atomic.AddInt64(&g.counter, 1)
	return TransactionId{ConnectionId: g.connectionId, Value: v}
}
