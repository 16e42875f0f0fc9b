// Package transport describes the byte-stream collaborator the
// connection layer depends on (spec.md §1: "transport framing is out of
// scope; the codec assumes a reliable, ordered byte stream"). This
// package implements no concrete transport — public/client.DialTCP is
// gowire's plain-TCP one, and TLS/failover are the embedding
// application's concern — but it defines the narrow
// interface internal/connection drives so any io.ReadWriteCloser-based
// implementation can be plugged in.
package transport

import (
	"io"
)

// Transport is a reliable, ordered, full-duplex byte stream plus the
// lifecycle hooks a reconnect-capable Connection needs.
type Transport interface {
	io.ReadWriteCloser

	// Start begins any background I/O pumping the implementation needs
	// before Read/Write are first called.
	Start() error

	// RemoteAddress reports the peer this transport is connected to, for
	// logging.
	RemoteAddress() string
}

// Factory builds a fresh Transport for one connection attempt, given a
// broker URI. A reconnect-capable Connection calls it again after a
// transport failure.
type Factory func(uri string) (Transport, error)
