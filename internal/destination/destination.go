// Package destination implements the Destination variant of spec.md §3
// (Queue / Topic / TemporaryQueue / TemporaryTopic) and the consumer.*
// URI option table of §6, parsed off the physical destination name's
// query string.
//
// Grounded on cellorg/internal/config/config.go's tagged-struct config
// pattern, adapted from YAML tags to URL query-string parsing since these
// options travel inline on the destination name rather than from a
// config file.
package destination

import (
	"fmt"
	"net/url"
	"strconv"
)

// Kind distinguishes the four destination variants of spec.md §3.
type Kind int

const (
	Queue Kind = iota
	Topic
	TemporaryQueue
	TemporaryTopic
)

func (k Kind) String() string {
	switch k {
	case Queue:
		return "queue"
	case Topic:
		return "topic"
	case TemporaryQueue:
		return "temp-queue"
	case TemporaryTopic:
		return "temp-topic"
	default:
		return "unknown"
	}
}

func (k Kind) Temporary() bool {
	return k == TemporaryQueue || k == TemporaryTopic
}

// Destination is a physical name plus its variant. Temporary destinations
// additionally carry the ConnectionId that owns them (spec.md §3: "owned
// by a ConnectionId; destruction fails if any consumer is attached").
type Destination struct {
	Kind         Kind
	PhysicalName string
	OwnerConnID  string // only meaningful when Kind.Temporary()
}

func NewQueue(name string) Destination { return Destination{Kind: Queue, PhysicalName: name} }
func NewTopic(name string) Destination { return Destination{Kind: Topic, PhysicalName: name} }

// NewTemporaryQueue and NewTemporaryTopic tag the destination with the
// owning connection's id (OwnerConnID), which the codec carries on the
// wire; nothing client-side checks it before a destroy call is sent.
func NewTemporaryQueue(name, ownerConnID string) Destination {
	return Destination{Kind: TemporaryQueue, PhysicalName: name, OwnerConnID: ownerConnID}
}

func NewTemporaryTopic(name, ownerConnID string) Destination {
	return Destination{Kind: TemporaryTopic, PhysicalName: name, OwnerConnID: ownerConnID}
}

// Options holds the consumer.* URI overrides recognized on a destination
// name per spec.md §6.
type Options struct {
	PrefetchSize              *int
	MaximumPendingMessageLimit *int
	NoLocal                   bool
	DispatchAsync             bool
	Exclusive                 bool
	Retroactive               bool
	Priority                  *int
	Selector                  string
	NetworkSubscription       bool
}

// ParseDestinationName splits a destination string of the form
// "name?consumer.prefetchSize=10&consumer.selector=..." into the bare
// physical name and the parsed Options. A name with no query string
// yields zero-value Options.
func ParseDestinationName(raw string) (string, *Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", nil, fmt.Errorf("destination: invalid name %q: %w", raw, err)
	}
	if u.RawQuery == "" {
		return raw, &Options{}, nil
	}

	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", nil, fmt.Errorf("destination: invalid options on %q: %w", raw, err)
	}

	opts := &Options{}
	if v := values.Get("consumer.prefetchSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", nil, fmt.Errorf("destination: invalid consumer.prefetchSize %q: %w", v, err)
		}
		opts.PrefetchSize = &n
	}
	if v := values.Get("consumer.maximumPendingMessageLimit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", nil, fmt.Errorf("destination: invalid consumer.maximumPendingMessageLimit %q: %w", v, err)
		}
		opts.MaximumPendingMessageLimit = &n
	}
	if v := values.Get("consumer.priority"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", nil, fmt.Errorf("destination: invalid consumer.priority %q: %w", v, err)
		}
		opts.Priority = &n
	}
	opts.NoLocal = values.Get("consumer.noLocal") == "true"
	opts.DispatchAsync = values.Get("consumer.dispatchAsync") == "true"
	opts.Exclusive = values.Get("consumer.exclusive") == "true"
	opts.Retroactive = values.Get("consumer.retroactive") == "true"
	opts.NetworkSubscription = values.Get("consumer.networkSubscription") == "true"
	opts.Selector = values.Get("consumer.selector")

	name := u.Path
	if name == "" {
		name = raw[:len(raw)-len(u.RawQuery)-1]
	}
	return name, opts, nil
}
