// Package main implements wireprobe: a tiny diagnostic CLI that dials a
// broker, runs the WireFormatInfo handshake of spec.md §4.1, and prints
// the format gowire actually settled on. It never opens a session — the
// point is to answer "what would this client and that broker agree to
// speak" without touching any destination.
//
// Called by: an operator checking a broker URI before wiring a real
// application at it.
// Calls: public/client.NewConnectionFactory, internal/config.Load.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tenzoki/gowire/internal/config"
	"github.com/tenzoki/gowire/internal/connection"
	"github.com/tenzoki/gowire/public/client"
)

// main picks its broker URI the way the teacher's orchestrator picks a
// config file: a command-line argument first, then a conventional
// default file, then a hardcoded fallback. No flag-parsing library —
// wireprobe takes at most one argument.
func main() {
	var uri string
	var source string

	switch {
	case len(os.Args) >= 2:
		uri = os.Args[1]
		source = "command line"
	default:
		if cfg, err := config.Load("config/gowire.yaml"); err == nil {
			uri = cfg.BrokerURI
			source = "config/gowire.yaml"
		} else {
			uri = "tcp://localhost:61616"
			source = "hardcoded default"
		}
	}

	log.Printf("wireprobe: dialing %s (from %s)", uri, source)

	factory, err := client.NewConnectionFactory(uri, connection.Options{})
	if err != nil {
		log.Fatalf("wireprobe: building connection factory: %v", err)
	}

	conn, err := factory.NewConnection()
	if err != nil {
		log.Fatalf("wireprobe: connect: %v", err)
	}
	defer conn.Close()

	format := conn.WireFormat()
	fmt.Printf("connected to %s\n", conn.RemoteAddress())
	fmt.Printf("connection id: %s\n", conn.ConnectionId().String())
	fmt.Println("negotiated wire format:")
	fmt.Printf("  version:              %d\n", format.Version())
	fmt.Printf("  tightEncodingEnabled: %t\n", format.TightEncoding())
	fmt.Printf("  sizePrefixDisabled:   %t\n", format.SizePrefixDisabled())
	fmt.Printf("  cacheEnabled:         %t\n", format.CacheEnabled())
	fmt.Printf("  cacheSize:            %d\n", format.CacheSize())
	fmt.Printf("  stackTraceEnabled:    %t\n", format.StackTraceEnabled())
}
