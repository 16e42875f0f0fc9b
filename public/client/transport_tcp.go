package client

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/tenzoki/gowire/internal/transport"
)

// tcpTransport adapts a net.Conn to transport.Transport. Grounded on
// cellorg/internal/client.BrokerClient.Connect's net.Dial("tcp",
// address) connection establishment (code/cellorg/internal/client/
// client_broker.go).
type tcpTransport struct {
	net.Conn
}

func (t *tcpTransport) Start() error { return nil }

func (t *tcpTransport) RemoteAddress() string { return t.Conn.RemoteAddr().String() }

// DialTCP is gowire's default transport.Factory: it dials uri (accepted
// as either a bare "host:port" or a "tcp://host:port" URL) with a
// bounded connect timeout. Callers needing TLS, a failover transport
// URI, or an in-process test double supply their own transport.Factory
// to NewConnectionFactoryWithTransport instead.
func DialTCP(uri string) (transport.Transport, error) {
	addr := uri
	if u, err := url.Parse(uri); err == nil && u.Host != "" {
		addr = u.Host
	}
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("client: dialing %s: %w", uri, err)
	}
	return &tcpTransport{Conn: conn}, nil
}
