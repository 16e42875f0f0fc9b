// Package connection implements spec.md §4.2: the Connection owns the
// transport collaborator, multiplexes inbound commands to sessions,
// serializes outbound commands under one write mutex, and correlates
// synchronous request/response pairs by command id.
//
// Grounded on cellorg/internal/client.BrokerClient's connection
// lifecycle (Connect/Disconnect, a reqID counter, a response-channel map
// guarded by its own mutex, and a background messageListener goroutine)
// adapted from JSON-RPC framing to OpenWire's tagged binary commands.
package connection

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tenzoki/gowire/internal/consumer"
	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
	"github.com/tenzoki/gowire/internal/logging"
	"github.com/tenzoki/gowire/internal/session"
	"github.com/tenzoki/gowire/internal/store"
	"github.com/tenzoki/gowire/internal/transport"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// Options configures a Connection beyond its transport and URI.
type Options struct {
	ClientId          string
	UserName          string
	Password          string
	ExceptionListener func(error)
	Logger            logging.Logger
	RequestTimeout    time.Duration

	// Recorder is an optional wire capture/replay hook (SPEC_FULL.md
	// §B.2): when set, every decoded Command crossing this Connection in
	// either direction is mirrored into it. Off by default — this is a
	// diagnostic side channel, never load-bearing for the wire protocol
	// itself.
	Recorder *store.FrameRecorder
}

// Connection is one client-side connection to a broker: the transport,
// the negotiated wire Format, the outbound write lock, the sessions it
// owns, and the consumer-id → session dispatcher table spec.md §4.2
// requires.
type Connection struct {
	uri     string
	factory transport.Factory
	opts    Options

	transport transport.Transport
	format    *wireformat.Format

	frameReader *wireformat.FrameReader
	frameWriter *wireformat.FrameWriter
	writeMu     sync.Mutex

	info        *wireformat.ConnectionInfo
	sessionSeq  *ids.SessionSequenceGenerator
	txnSeq      *ids.TransactionSequenceGenerator
	nextCmdId   atomic.Int32

	recorder *store.FrameRecorder

	mu          sync.RWMutex
	sessions    map[ids.SessionId]*session.Session
	dispatchers map[ids.ConsumerId]session.Dispatcher

	waitersMu sync.Mutex
	waiters   map[int32]chan waiterResult

	started atomic.Bool // gates dispatch delivery (spec.md §4.2 start/stop)
	closed  atomic.Bool

	pendingMu sync.Mutex
	pending   []*wireformat.MessageDispatch // buffered while stopped

	logger logging.Logger
}

type waiterResult struct {
	cmd wireformat.Command
	err error
}

// New constructs a Connection bound to uri, without dialing. Call Open
// to establish the transport and perform the handshake.
func New(uri string, factory transport.Factory, opts Options) *Connection {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	connId := ids.NewConnectionId()
	c := &Connection{
		uri:     uri,
		factory: factory,
		opts:    opts,
		info: &wireformat.ConnectionInfo{
			ConnectionId: connId,
			ClientId:     opts.ClientId,
			UserName:     opts.UserName,
			Password:     opts.Password,
		},
		sessionSeq:  ids.NewSessionSequenceGenerator(connId),
		txnSeq:      ids.NewTransactionSequenceGenerator(connId),
		sessions:    make(map[ids.SessionId]*session.Session),
		dispatchers: make(map[ids.ConsumerId]session.Dispatcher),
		waiters:     make(map[int32]chan waiterResult),
		recorder:    opts.Recorder,
		logger:      logger,
	}
	return c
}

// ConnectionId returns the id this Connection registered with the
// broker, stable for its lifetime.
func (c *Connection) ConnectionId() ids.ConnectionId { return c.info.ConnectionId }

// WireFormat exposes the negotiated codec for diagnostics (cmd/wireprobe
// prints it after Open completes); nothing in the send/receive path
// needs a caller-visible handle to it.
func (c *Connection) WireFormat() *wireformat.Format { return c.format }

// RemoteAddress exposes the underlying transport's peer address for
// diagnostics, once Open has dialed it.
func (c *Connection) RemoteAddress() string {
	if c.transport == nil {
		return ""
	}
	return c.transport.RemoteAddress()
}

// Open dials the transport, negotiates the wire format, sends
// ConnectionInfo, and starts the inbound dispatch loop. The connection
// begins in the started state.
func (c *Connection) Open() error {
	if err := c.dialAndHandshake(); err != nil {
		return err
	}
	c.started.Store(true)
	go c.readLoop()

	if _, err := c.SyncRequest(c.info, c.opts.RequestTimeout); err != nil {
		return fmt.Errorf("connection: registering connection: %w", err)
	}
	return nil
}

// dialAndHandshake builds a fresh transport and Format and performs the
// WireFormatInfo exchange, shared by Open and Reconnect.
func (c *Connection) dialAndHandshake() error {
	t, err := c.factory(c.uri)
	if err != nil {
		return fmt.Errorf("connection: dial %s: %w", c.uri, err)
	}
	if err := t.Start(); err != nil {
		return fmt.Errorf("connection: starting transport: %w", err)
	}

	local := wireformat.DefaultClientWireFormatInfo()
	f, err := wireformat.NewFormat(local.Version)
	if err != nil {
		t.Close()
		return err
	}

	c.writeMu.Lock()
	c.transport = t
	c.format = f
	c.frameReader = wireformat.NewFrameReader(t, false)
	c.frameWriter = wireformat.NewFrameWriter(t, false)
	c.writeMu.Unlock()

	if err := c.handshake(local); err != nil {
		t.Close()
		return err
	}
	return nil
}

// handshake performs the WireFormatInfo exchange of spec.md §4.1: send
// the local offer, read the broker's, negotiate, and apply the result
// before any other command is framed.
func (c *Connection) handshake(local *wireformat.WireFormatInfo) error {
	local.SetCommandId(c.nextCommandId())
	body, err := c.format.Marshal(local)
	if err != nil {
		return err
	}
	if err := c.frameWriter.WriteFrame(body); err != nil {
		return err
	}

	raw, err := c.frameReader.ReadFrame()
	if err != nil {
		return fmt.Errorf("connection: reading remote wire format: %w", err)
	}
	cmd, err := c.format.Unmarshal(raw)
	if err != nil {
		return err
	}
	remote, ok := cmd.(*wireformat.WireFormatInfo)
	if !ok {
		return fmt.Errorf("connection: expected WireFormatInfo, got %T", cmd)
	}

	effective := wireformat.NegotiateWireFormat(local, remote)
	return c.format.ApplyWireFormatInfo(effective)
}

func (c *Connection) nextCommandId() int32 {
	return c.nextCmdId.Add(1)
}

// Start resumes dispatch delivery to user listeners (spec.md §4.2
// "start()"), flushing whatever MessageDispatch commands arrived while
// stopped in the order they were received.
func (c *Connection) Start() error {
	if c.closed.Load() {
		return &AlreadyClosedError{What: "connection"}
	}
	c.started.Store(true)

	c.pendingMu.Lock()
	flush := c.pending
	c.pending = nil
	c.pendingMu.Unlock()

	for _, d := range flush {
		c.routeDispatch(d)
	}
	return nil
}

// Stop gates dispatch delivery without tearing down the transport
// (spec.md §4.2 "stop()").
func (c *Connection) Stop() error {
	c.started.Store(false)
	return nil
}

// CreateSession registers a new session locally and announces it to the
// broker with a oneway SessionInfo (spec.md §4.2 "createSession").
func (c *Connection) CreateSession(ackMode consumer.AckMode, opts session.Options) (*session.Session, error) {
	if c.closed.Load() {
		return nil, &AlreadyClosedError{What: "connection"}
	}
	sessionId := c.sessionSeq.Next()
	info := &wireformat.SessionInfo{SessionId: sessionId}
	if err := c.Oneway(info); err != nil {
		return nil, fmt.Errorf("connection: announcing session: %w", err)
	}

	if opts.Logger == nil {
		opts.Logger = c.logger
	}
	s := session.New(info, ackMode, c, c.txnSeq, opts)

	c.mu.Lock()
	c.sessions[sessionId] = s
	c.mu.Unlock()
	return s, nil
}

// removeSession drops the bookkeeping for a closed session; Close calls
// it for each session it has just closed.
func (c *Connection) removeSession(id ids.SessionId) {
	c.mu.Lock()
	delete(c.sessions, id)
	c.mu.Unlock()
}

// AddDispatcher registers the session that owns consumerId in the
// routing table a MessageDispatch is demuxed through (spec.md §4.2
// "addDispatcher").
func (c *Connection) AddDispatcher(consumerId ids.ConsumerId, d session.Dispatcher) {
	c.mu.Lock()
	c.dispatchers[consumerId] = d
	c.mu.Unlock()
}

// RemoveDispatcher unregisters a consumer's routing entry (spec.md §4.2
// "removeDispatcher").
func (c *Connection) RemoveDispatcher(consumerId ids.ConsumerId) {
	c.mu.Lock()
	delete(c.dispatchers, consumerId)
	c.mu.Unlock()
}

// DestroyDestination issues the synchronous admin call of spec.md §4.2;
// a broker report of active consumers surfaces as DestinationInUseError.
func (c *Connection) DestroyDestination(d destination.Destination) error {
	info := &wireformat.DestinationInfo{
		ConnectionId: c.info.ConnectionId,
		Destination:  d,
		Operation:    wireformat.DestinationRemove,
	}
	_, err := c.SyncRequest(info, c.opts.RequestTimeout)
	if err == nil {
		return nil
	}
	if _, ok := err.(*BrokerError); ok {
		return &DestinationInUseError{Name: d.PhysicalName}
	}
	return err
}

// Close stops dispatch, closes every owned session, and tears down the
// transport. Idempotent.
func (c *Connection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.started.Store(false)

	c.mu.Lock()
	sessions := make([]*session.Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.mu.Unlock()

	var firstErr error
	for _, s := range sessions {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.removeSession(s.Info.SessionId)
	}

	c.waitersMu.Lock()
	for id, ch := range c.waiters {
		close(ch)
		delete(c.waiters, id)
	}
	c.waitersMu.Unlock()

	if c.transport != nil {
		if err := c.transport.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Connection) Closed() bool { return c.closed.Load() }
