package connection

import (
	"net"
	"testing"
	"time"

	"github.com/tenzoki/gowire/internal/consumer"
	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/session"
	"github.com/tenzoki/gowire/internal/transport"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// pipeTransport adapts a net.Conn (one end of a net.Pipe) to
// transport.Transport for tests; Start is a no-op since net.Pipe is
// already connected.
type pipeTransport struct {
	net.Conn
}

func (p *pipeTransport) Start() error          { return nil }
func (p *pipeTransport) RemoteAddress() string { return "pipe" }

// fakeBroker answers the handshake and ConnectionInfo registration every
// Open() performs, then hands control to the test over replyTo.
type fakeBroker struct {
	conn   net.Conn
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
		conn:   conn,
		format: f,
		reader: wireformat.NewFrameReader(conn, false),
		writer: wireformat.NewFrameWriter(conn, false),
	}
}

func (b *fakeBroker) readCommand(t *testing.T) wireformat.Command {
	t.Helper()
	raw, err := b.reader.ReadFrame()
	if err != nil {
		t.Fatalf("broker read frame: %v", err)
	}
	cmd, err := b.format.Unmarshal(raw)
	if err != nil {
		t.Fatalf("broker unmarshal: %v", err)
	}
	return cmd
}

func (b *fakeBroker) send(t *testing.T, cmd wireformat.Command) {
	t.Helper()
	body, err := b.format.Marshal(cmd)
	if err != nil {
		t.Fatalf("broker marshal: %v", err)
	}
	if err := b.writer.WriteFrame(body); err != nil {
		t.Fatalf("broker write frame: %v", err)
	}
}

// respondOK answers a syncRequest command with a bare Response carrying
// a matching correlation id.
func (b *fakeBroker) respondOK(t *testing.T, requestId int32) {
	t.Helper()
	b.send(t, &wireformat.Response{CorrelationId: requestId})
}

// handshakeAsBroker performs the broker side of Open()'s WireFormatInfo
// exchange and ConnectionInfo registration.
func (b *fakeBroker) handshakeAsBroker(t *testing.T) {
	t.Helper()
	offer := b.readCommand(t).(*wireformat.WireFormatInfo) // client's WireFormatInfo offer
	mine := wireformat.DefaultClientWireFormatInfo()
	b.send(t, mine)
	// The client switches to the negotiated encoding once it has read
	// this reply, so the broker side switches too.
	if err := b.format.ApplyWireFormatInfo(wireformat.NegotiateWireFormat(mine, offer)); err != nil {
		t.Fatalf("broker apply wire format: %v", err)
	}

	connInfo := b.readCommand(t).(*wireformat.ConnectionInfo)
	b.respondOK(t, connInfo.GetCommandId())
}

func newOpenedConnection(t *testing.T) (*Connection, *fakeBroker) {
	t.Helper()
	clientConn, brokerConn := net.Pipe()
	broker := newFakeBroker(t, brokerConn)

	factory := transport.Factory(func(uri string) (transport.Transport, error) {
		return &pipeTransport{Conn: clientConn}, nil
	})

	conn := New("pipe://test", factory, Options{})

	errCh := make(chan error, 1)
	go func() { errCh <- conn.Open() }()
	broker.handshakeAsBroker(t)
	if err := <-errCh; err != nil {
		t.Fatalf("open: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		brokerConn.Close()
	})
	return conn, broker
}

func TestOpenNegotiatesAndRegistersConnection(t *testing.T) {
	conn, _ := newOpenedConnection(t)
	if conn.Closed() {
		t.Fatalf("expected connection to be open")
	}
}

func TestSyncRequestMatchesResponseByCorrelationId(t *testing.T) {
	conn, broker := newOpenedConnection(t)

	resultCh := make(chan error, 1)
	go func() {
		_, err := conn.SyncRequest(&wireformat.SessionInfo{}, 2*time.Second)
		resultCh <- err
	}()

	cmd := broker.readCommand(t)
	broker.respondOK(t, cmd.GetCommandId())

	if err := <-resultCh; err != nil {
		t.Fatalf("syncRequest: %v", err)
	}
}

func TestSyncRequestTranslatesExceptionResponse(t *testing.T) {
	conn, broker := newOpenedConnection(t)

	resultCh := make(chan error, 1)
	go func() {
		_, err := conn.SyncRequest(&wireformat.SessionInfo{}, 2*time.Second)
		resultCh <- err
	}()

	cmd := broker.readCommand(t)
	broker.send(t, &wireformat.ExceptionResponse{CorrelationId: cmd.GetCommandId(), Message: "boom"})

	err := <-resultCh
	if err == nil {
		t.Fatalf("expected an error")
	}
	be, ok := err.(*BrokerError)
	if !ok {
		t.Fatalf("expected *BrokerError, got %T", err)
	}
	if be.Message != "boom" {
		t.Fatalf("unexpected message: %q", be.Message)
	}
}

func TestSyncRequestTimesOut(t *testing.T) {
	conn, broker := newOpenedConnection(t)

	// net.Pipe is unbuffered: the broker must read the request or the
	// client's write never completes. It reads and never answers.
	go func() { _ = broker.readCommand(t) }()

	_, err := conn.SyncRequest(&wireformat.SessionInfo{}, 30*time.Millisecond)
	if _, ok := err.(*TimeoutError); !ok {
		t.Fatalf("expected *TimeoutError, got %v (%T)", err, err)
	}
}

func TestCreateSessionAndConsumerWiresUpDispatcher(t *testing.T) {
	conn, broker := newOpenedConnection(t)

	go func() {
		cmd := broker.readCommand(t) // SessionInfo, oneway: no response expected
		_ = cmd
	}()
	time.Sleep(10 * time.Millisecond)

	s, err := conn.CreateSession(consumer.AckAuto, session.Options{UseAsyncDispatch: true})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	resultCh := make(chan error, 1)
	var c *consumer.Consumer
	go func() {
		var err error
		c, err = s.CreateConsumer(destination.NewQueue("orders"), "", 10)
		resultCh <- err
	}()
	cmd := broker.readCommand(t).(*wireformat.ConsumerInfo)
	broker.respondOK(t, cmd.GetCommandId())
	if err := <-resultCh; err != nil {
		t.Fatalf("create consumer: %v", err)
	}

	msg := wireformat.NewTextMessage("hello")
	dispatch := &wireformat.MessageDispatch{ConsumerId: c.Info.ConsumerId, Destination: c.Info.Destination, Message: msg}
	broker.send(t, dispatch)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got, _ := c.ReceiveNoWait(); got != nil {
			if got.Body.Text != "hello" {
				t.Fatalf("unexpected text: %q", got.Body.Text)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("dispatched message never reached the consumer")
}

func TestStopBuffersDispatchUntilStart(t *testing.T) {
	conn, broker := newOpenedConnection(t)

	go func() { _ = broker.readCommand(t) }()
	time.Sleep(10 * time.Millisecond)

	s, err := conn.CreateSession(consumer.AckAuto, session.Options{UseAsyncDispatch: true})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	resultCh := make(chan error, 1)
	var c *consumer.Consumer
	go func() {
		var err error
		c, err = s.CreateConsumer(destination.NewQueue("orders"), "", 10)
		resultCh <- err
	}()
	cmd := broker.readCommand(t).(*wireformat.ConsumerInfo)
	broker.respondOK(t, cmd.GetCommandId())
	if err := <-resultCh; err != nil {
		t.Fatalf("create consumer: %v", err)
	}

	if err := conn.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	msg := wireformat.NewTextMessage("buffered")
	broker.send(t, &wireformat.MessageDispatch{ConsumerId: c.Info.ConsumerId, Destination: c.Info.Destination, Message: msg})

	time.Sleep(50 * time.Millisecond)
	if got, _ := c.ReceiveNoWait(); got != nil {
		t.Fatalf("expected no message to be delivered while stopped, got %q", got.Body.Text)
	}

	if err := conn.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got, _ := c.ReceiveNoWait(); got != nil {
			if got.Body.Text != "buffered" {
				t.Fatalf("unexpected text: %q", got.Body.Text)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("buffered message was never flushed by Start")
}

func TestDestroyDestinationTranslatesBrokerErrorToInUse(t *testing.T) {
	conn, broker := newOpenedConnection(t)

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- conn.DestroyDestination(destination.NewQueue("orders"))
	}()

	cmd := broker.readCommand(t).(*wireformat.DestinationInfo)
	broker.send(t, &wireformat.ExceptionResponse{CorrelationId: cmd.GetCommandId(), Message: "consumers attached"})

	err := <-resultCh
	if _, ok := err.(*DestinationInUseError); !ok {
		t.Fatalf("expected *DestinationInUseError, got %v (%T)", err, err)
	}
}

func TestUnmappedDispatchIsDroppedWithSyntheticAck(t *testing.T) {
	conn, broker := newOpenedConnection(t)

	msg := wireformat.NewTextMessage("orphan")
	msg.MessageId.Value = 42
	broker.send(t, &wireformat.MessageDispatch{Message: msg})

	ack := broker.readCommand(t).(*wireformat.MessageAck)
	if ack.AckType != wireformat.AckConsumed {
		t.Fatalf("expected a CONSUMED synthetic ack, got %v", ack.AckType)
	}
	if ack.MessageCount != 1 {
		t.Fatalf("expected MessageCount=1, got %d", ack.MessageCount)
	}
	_ = conn
}
