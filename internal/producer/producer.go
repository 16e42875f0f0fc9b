// Package producer implements spec.md §4.5: the client-side Producer
// that stamps a Message with its id, timestamp, and expiration before
// delegating the actual send to its owning session.
//
// Grounded on cellorg/internal/client's publish path, which stamps a
// generated id and timestamp onto an outbound envelope before handing it
// to the broker connection; gowire generalizes that single-path stamping
// into the full JMS per-send option set (deliveryMode, priority, ttl,
// disableMessageTimeStamp, disableMessageId, explicitQosEnabled).
package producer

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
	"github.com/tenzoki/gowire/internal/logging"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// DeliveryMode mirrors the two JMS delivery modes spec.md §4.5 names.
type DeliveryMode int

const (
	NonPersistent DeliveryMode = iota
	Persistent
)

// Options holds one producer's default send options (spec.md §4.5: "Key
// options per send"). These are the values used when explicitQosEnabled
// is true; otherwise the provider defaults in DefaultOptions apply.
type Options struct {
	DeliveryMode            DeliveryMode
	Priority                int8
	TimeToLive               time.Duration
	DisableMessageTimeStamp bool
	DisableMessageId        bool
	ExplicitQosEnabled      bool
}

// DefaultOptions mirrors the standard JMS provider defaults: persistent,
// priority 4, no expiration, both stamps enabled, explicit QoS off (so a
// freshly constructed Producer behaves like a stock JMS MessageProducer
// until the caller opts into explicit control).
func DefaultOptions() Options {
	return Options{
		DeliveryMode: Persistent,
		Priority:     4,
	}
}

// Sender is the narrow slice of Session a Producer depends on: handing
// a fully-stamped Message off to the broker.
type Sender interface {
	Send(msg *wireformat.Message) error
}

// Producer is the client-side half of one broker producer registration.
// Destination is nil for an anonymous producer, which requires the
// destination to be supplied on every Send call.
type Producer struct {
	Info        *wireformat.ProducerInfo
	Options     Options

	send    Sender
	nextSeq int64
	logger  logging.Logger
	closed  atomic.Bool
}

// New wires a Producer for one ProducerInfo. info.Destination may be
// nil for an anonymous producer.
func New(info *wireformat.ProducerInfo, opts Options, send Sender, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Producer{Info: info, Options: opts, send: send, logger: logger}
}

// SendOptions overrides one call's delivery mode, priority, and TTL
// without mutating the producer's own Options — the per-send overload
// of javax.jms.MessageProducer.send.
type SendOptions struct {
	DeliveryMode DeliveryMode
	Priority     int8
	TimeToLive   time.Duration
}

// Send publishes msg to the producer's fixed destination using the
// producer's default options. Returns an error if the producer is
// anonymous (spec.md §4.5 requires a destination either from the
// producer or from the call).
func (p *Producer) Send(msg *wireformat.Message) error {
	if p.Info.Destination == nil {
		return fmt.Errorf("producer: anonymous producer requires SendTo")
	}
	return p.sendTo(*p.Info.Destination, msg, nil)
}

// SendTo publishes msg to dest, overriding the producer's fixed
// destination (or supplying one for an anonymous producer).
func (p *Producer) SendTo(dest destination.Destination, msg *wireformat.Message) error {
	return p.sendTo(dest, msg, nil)
}

// SendWithOptions publishes msg to the producer's fixed destination
// using a per-call override of deliveryMode/priority/timeToLive (the
// overloaded javax.jms.MessageProducer.send(Message, int, int, long)).
func (p *Producer) SendWithOptions(msg *wireformat.Message, opts SendOptions) error {
	if p.Info.Destination == nil {
		return fmt.Errorf("producer: anonymous producer requires SendTo")
	}
	return p.sendTo(*p.Info.Destination, msg, &opts)
}

func (p *Producer) sendTo(dest destination.Destination, msg *wireformat.Message, override *SendOptions) error {
	if p.closed.Load() {
		return fmt.Errorf("producer: send on closed producer")
	}

	deliveryMode, priority, ttl := p.resolveQos(override)

	msg.ProducerId = p.Info.ProducerId
	msg.Destination = dest
	msg.Persistent = deliveryMode == Persistent
	msg.Priority = priority

	if !p.Options.DisableMessageId {
		msg.MessageId = ids.MessageId{ProducerId: p.Info.ProducerId, Value: atomic.AddInt64(&p.nextSeq, 1)}
	}

	now := time.Now()
	if !p.Options.DisableMessageTimeStamp {
		msg.Timestamp = now.UnixMilli()
	}
	if ttl > 0 {
		msg.Expiration = now.Add(ttl).UnixMilli()
	} else {
		msg.Expiration = 0
	}

	p.logger.Printf("sending message %s to %s (persistent=%v priority=%d)", msg.MessageId, dest.PhysicalName, msg.Persistent, msg.Priority)
	return p.send.Send(msg)
}

// resolveQos implements spec.md §4.5's "when explicitQosEnabled is false
// the producer-level defaults are overridden by destination defaults"
// rule. gowire's destination model carries no destination-level QoS
// policy (only the consumer.* URI options of spec.md §6), so "the
// destination defaults" resolve to the stock JMS provider defaults of
// DefaultOptions — the closest grounded meaning available without a
// policy-entry subsystem the spec never asks for.
func (p *Producer) resolveQos(override *SendOptions) (DeliveryMode, int8, time.Duration) {
	if override != nil {
		return override.DeliveryMode, override.Priority, override.TimeToLive
	}
	if p.Options.ExplicitQosEnabled {
		return p.Options.DeliveryMode, p.Options.Priority, p.Options.TimeToLive
	}
	def := DefaultOptions()
	return def.DeliveryMode, def.Priority, def.TimeToLive
}

// Close marks the producer unusable. Idempotent.
func (p *Producer) Close() error {
	p.closed.Store(true)
	return nil
}

func (p *Producer) Closed() bool { return p.closed.Load() }
