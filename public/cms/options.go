package cms

import (
	"time"

	"github.com/tenzoki/gowire/internal/consumer"
	"github.com/tenzoki/gowire/internal/producer"
)

// Options holds a Template's defaults (spec.md §3 "CmsTemplate state"):
// a default destination (name + pubsub-domain flag), a default
// selector, default timeToLive/deliveryMode/priority/receiveTimeout,
// and the explicitQosEnabled flag.
type Options struct {
	PubSubDomain           bool
	DefaultDestinationName string
	DefaultSelector        string

	ReceiveTimeout     time.Duration // 0 = block indefinitely
	ExplicitQosEnabled bool
	DeliveryMode       producer.DeliveryMode
	Priority           int8
	TimeToLive         time.Duration

	// AckMode is the ack mode each borrowed session opens with. CmsTemplate
	// never holds a session across operations, so AckSessionTransacted
	// would commit nothing a caller could observe — DefaultOptions uses
	// AckAuto.
	AckMode consumer.AckMode
}

// DefaultOptions mirrors the stock JMS defaults producer.DefaultOptions
// already establishes for a single producer, applied here at the
// template level.
func DefaultOptions() Options {
	return Options{
		DeliveryMode: producer.Persistent,
		Priority:     4,
		AckMode:      consumer.AckAuto,
	}
}

func (o Options) producerOptions() producer.Options {
	return producer.Options{
		DeliveryMode:       o.DeliveryMode,
		Priority:           o.Priority,
		TimeToLive:         o.TimeToLive,
		ExplicitQosEnabled: o.ExplicitQosEnabled,
	}
}
