package client

import (
	"net"
	"testing"

	"github.com/tenzoki/gowire/internal/connection"
	"github.com/tenzoki/gowire/internal/consumer"
	"github.com/tenzoki/gowire/internal/transport"
	"github.com/tenzoki/gowire/internal/wireformat"
)

type pipeTransport struct {
	net.Conn
}

func (p *pipeTransport) Start() error          { return nil }
func (p *pipeTransport) RemoteAddress() string { return "pipe" }

// fakeBroker answers just enough of the handshake/registration
// sequence for NewConnection/NewConnectionAndSession to succeed.
type fakeBroker struct {
	t      *testing.T
	format *wireformat.Format
	reader *wireformat.FrameReader
	writer *wireformat.FrameWriter
}

func newFakeBroker(t *testing.T, conn net.Conn) *fakeBroker {
	t.Helper()
	f, err := wireformat.NewFormat(2)
	if err != nil {
		t.Fatalf("new format: %v", err)
	}
	return &fakeBroker{
		t:      t,
		format: f,
		reader: wireformat.NewFrameReader(conn, false),
		writer: wireformat.NewFrameWriter(conn, false),
	}
}

func (b *fakeBroker) readCommand() wireformat.Command {
	b.t.Helper()
	raw, err := b.reader.ReadFrame()
	if err != nil {
		b.t.Fatalf("broker read frame: %v", err)
	}
	cmd, err := b.format.Unmarshal(raw)
	if err != nil {
		b.t.Fatalf("broker unmarshal: %v", err)
	}
	return cmd
}

func (b *fakeBroker) send(cmd wireformat.Command) {
	b.t.Helper()
	body, err := b.format.Marshal(cmd)
	if err != nil {
		b.t.Fatalf("broker marshal: %v", err)
	}
	if err := b.writer.WriteFrame(body); err != nil {
		b.t.Fatalf("broker write frame: %v", err)
	}
}

func (b *fakeBroker) respondOK(requestId int32) {
	b.send(&wireformat.Response{CorrelationId: requestId})
}

func (b *fakeBroker) handshakeAndRegister() {
	offer := b.readCommand().(*wireformat.WireFormatInfo) // client's WireFormatInfo offer
	mine := wireformat.DefaultClientWireFormatInfo()
	b.send(mine)
	// The client switches to the negotiated encoding once it has read
	// this reply, so the broker side switches too.
	if err := b.format.ApplyWireFormatInfo(wireformat.NegotiateWireFormat(mine, offer)); err != nil {
		b.t.Fatalf("broker apply wire format: %v", err)
	}

	connInfo := b.readCommand().(*wireformat.ConnectionInfo)
	b.respondOK(connInfo.GetCommandId())
}

func TestNewConnectionNegotiatesAndRegisters(t *testing.T) {
	clientConn, brokerConn := net.Pipe()
	factory := transport.Factory(func(uri string) (transport.Transport, error) {
		return &pipeTransport{Conn: clientConn}, nil
	})
	f, err := NewConnectionFactoryWithTransport("pipe://test", factory, connection.Options{})
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	broker := newFakeBroker(t, brokerConn)

	connCh := make(chan *connection.Connection, 1)
	errCh := make(chan error, 1)
	go func() {
		conn, err := f.NewConnection()
		connCh <- conn
		errCh <- err
	}()
	broker.handshakeAndRegister()

	if err := <-errCh; err != nil {
		t.Fatalf("new connection: %v", err)
	}
	conn := <-connCh
	defer conn.Close()
	defer brokerConn.Close()

	if conn.Closed() {
		t.Fatalf("expected an open connection")
	}
}

func TestNewConnectionAndSessionWiresUpSession(t *testing.T) {
	clientConn, brokerConn := net.Pipe()
	factory := transport.Factory(func(uri string) (transport.Transport, error) {
		return &pipeTransport{Conn: clientConn}, nil
	})
	f, err := NewConnectionFactoryWithTransport("pipe://test", factory, connection.Options{})
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	broker := newFakeBroker(t, brokerConn)

	type result struct {
		conn *connection.Connection
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		conn, sess, err := f.NewConnectionAndSession(consumer.AckAuto)
		if err == nil && sess == nil {
			t.Errorf("expected a non-nil session")
		}
		resCh <- result{conn: conn, err: err}
	}()

	broker.handshakeAndRegister()
	go func() { _ = broker.readCommand() }() // SessionInfo, oneway

	res := <-resCh
	if res.err != nil {
		t.Fatalf("new connection and session: %v", res.err)
	}
	defer res.conn.Close()
	defer brokerConn.Close()
}
