package cms

import (
	"net"
	"testing"
	"time"

	"github.com/tenzoki/gowire/internal/connection"
	"github.com/tenzoki/gowire/internal/session"
	"github.com/tenzoki/gowire/internal/transport"
	"github.com/tenzoki/gowire/internal/wireformat"
	"github.com/tenzoki/gowire/public/client"
)

type pipeTransport struct {
	net.Conn
}

func (p *pipeTransport) Start() error          { return nil }
func (p *pipeTransport) RemoteAddress() string { return "pipe" }

// fakeBroker answers the handshake/registration sequence a
// ConnectionFactory-borrowed connection+session performs, then hands
// every further frame to a caller-supplied observer until the pipe
// closes. A Template opens and tears down a connection per operation,
// so the broker side has to keep draining oneway frames (RemoveInfo,
// acks) it never needs to act on, or those writes would block forever
// on the unbuffered net.Pipe.
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

func (b *fakeBroker) readCommand() (wireformat.Command, error) {
	raw, err := b.reader.ReadFrame()
	if err != nil {
		return nil, err
	}
	return b.format.Unmarshal(raw)
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

// serve runs the broker side of one borrowed connection+session to
// completion: wire format handshake, ConnectionInfo and SessionInfo
// registration, then a loop that answers ProducerInfo/ConsumerInfo
// synchronously and forwards everything else to onFrame until the pipe
// closes. onFrame may itself call b.send to push a frame back (e.g. a
// MessageDispatch answering a MessagePull).
func (b *fakeBroker) serve(onFrame func(cmd wireformat.Command)) {
	first, err := b.readCommand() // client's WireFormatInfo offer
	if err != nil {
		return
	}
	mine := wireformat.DefaultClientWireFormatInfo()
	b.send(mine)
	// The client switches to the negotiated encoding once it has read
	// this reply, so the broker side switches too.
	if err := b.format.ApplyWireFormatInfo(wireformat.NegotiateWireFormat(mine, first.(*wireformat.WireFormatInfo))); err != nil {
		b.t.Errorf("broker apply wire format: %v", err)
		return
	}

	cmd, err := b.readCommand()
	if err != nil {
		return
	}
	connInfo := cmd.(*wireformat.ConnectionInfo)
	b.respondOK(connInfo.GetCommandId())

	for {
		cmd, err := b.readCommand()
		if err != nil {
			return
		}
		switch c := cmd.(type) {
		case *wireformat.SessionInfo:
			// oneway: no response
		case *wireformat.ProducerInfo:
			b.respondOK(c.GetCommandId())
		case *wireformat.ConsumerInfo:
			b.respondOK(c.GetCommandId())
		}
		if onFrame != nil {
			onFrame(cmd)
		}
	}
}

func newTestTemplate(t *testing.T, opts Options, onFrame func(cmd wireformat.Command)) (*Template, *fakeBroker, func()) {
	t.Helper()
	clientConn, brokerConn := net.Pipe()
	factory := transport.Factory(func(uri string) (transport.Transport, error) {
		return &pipeTransport{Conn: clientConn}, nil
	})
	f, err := client.NewConnectionFactoryWithTransport("pipe://test", factory, connection.Options{})
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	broker := newFakeBroker(t, brokerConn)
	done := make(chan struct{})
	go func() {
		broker.serve(onFrame)
		close(done)
	}()

	tmpl := New(f, opts)
	cleanup := func() {
		brokerConn.Close()
		<-done
	}
	return tmpl, broker, cleanup
}

func TestTemplateSendPublishesToDefaultDestination(t *testing.T) {
	sent := make(chan *wireformat.Message, 1)
	tmpl, _, cleanup := newTestTemplate(t, Options{DefaultDestinationName: "orders", AckMode: 0}, func(cmd wireformat.Command) {
		if msg, ok := cmd.(*wireformat.Message); ok {
			sent <- msg
		}
	})
	defer cleanup()

	err := tmpl.Send(func(sess *session.Session) (*wireformat.Message, error) {
		return wireformat.NewTextMessage("hello"), nil
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case msg := <-sent:
		if msg.Body.Text != "hello" {
			t.Fatalf("unexpected body: %q", msg.Body.Text)
		}
		if msg.Destination.PhysicalName != "orders" {
			t.Fatalf("unexpected destination: %+v", msg.Destination)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("message never reached the broker")
	}
}

func TestTemplateSendToOverridesDefaultDestination(t *testing.T) {
	sent := make(chan *wireformat.Message, 1)
	tmpl, _, cleanup := newTestTemplate(t, Options{DefaultDestinationName: "orders"}, func(cmd wireformat.Command) {
		if msg, ok := cmd.(*wireformat.Message); ok {
			sent <- msg
		}
	})
	defer cleanup()

	err := tmpl.SendTo("overrides", func(sess *session.Session) (*wireformat.Message, error) {
		return wireformat.NewTextMessage("override"), nil
	})
	if err != nil {
		t.Fatalf("sendTo: %v", err)
	}

	select {
	case msg := <-sent:
		if msg.Destination.PhysicalName != "overrides" {
			t.Fatalf("unexpected destination: %+v", msg.Destination)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("message never reached the broker")
	}
}

func TestTemplateReceiveFromDefaultDestination(t *testing.T) {
	consumerId := make(chan *wireformat.ConsumerInfo, 1)
	tmpl, broker, cleanup := newTestTemplate(t, Options{DefaultDestinationName: "orders"}, func(cmd wireformat.Command) {
		switch c := cmd.(type) {
		case *wireformat.ConsumerInfo:
			consumerId <- c
		case *wireformat.MessagePull:
			info := <-consumerId
			broker.send(&wireformat.MessageDispatch{
				ConsumerId:  info.ConsumerId,
				Destination: info.Destination,
				Message:     wireformat.NewTextMessage("world"),
			})
		}
	})
	defer cleanup()

	msg, err := tmpl.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if msg == nil {
		t.Fatalf("expected a message")
	}
	if msg.Body.Text != "world" {
		t.Fatalf("unexpected body: %q", msg.Body.Text)
	}
}

func TestTemplateReceiveRequiresADestination(t *testing.T) {
	tmpl, _, cleanup := newTestTemplate(t, Options{}, nil)
	defer cleanup()

	if _, err := tmpl.Receive(); err == nil {
		t.Fatalf("expected an error with no default destination configured")
	}
}
