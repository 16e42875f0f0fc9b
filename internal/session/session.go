package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tenzoki/gowire/internal/consumer"
	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
	"github.com/tenzoki/gowire/internal/logging"
	"github.com/tenzoki/gowire/internal/producer"
	"github.com/tenzoki/gowire/internal/store"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// Requester is the narrow slice of Connection a Session needs: fire-
// and-forget sends, and request/response with a correlation id (spec.md
// §4.2 "oneway"/"syncRequest").
type Requester interface {
	Oneway(cmd wireformat.Command) error
	SyncRequest(cmd wireformat.Command, timeout time.Duration) (wireformat.Command, error)

	// AddDispatcher/RemoveDispatcher maintain the connection-level
	// consumer-id routing table (spec.md §4.2); Dispatch is implemented
	// by *Session itself so it can register as its own dispatch target.
	AddDispatcher(consumerId ids.ConsumerId, d Dispatcher)
	RemoveDispatcher(consumerId ids.ConsumerId)
}

// Dispatcher mirrors connection.Dispatcher without importing that
// package (which already imports session, so the dependency must run
// the other way).
type Dispatcher interface {
	Dispatch(d *wireformat.MessageDispatch) error
}

const defaultRequestTimeout = 15 * time.Second

// Session implements spec.md §4.3: one JMS session, owning its
// consumers and producers, its SessionExecutor, and (when transacted)
// its TransactionContext.
type Session struct {
	Info    *wireformat.SessionInfo
	AckMode consumer.AckMode

	conn Requester

	consumerSeq *ids.ConsumerSequenceGenerator
	producerSeq *ids.ProducerSequenceGenerator

	mu        sync.Mutex
	consumers map[ids.ConsumerId]*consumer.Consumer
	producers map[ids.ProducerId]*producer.Producer

	executor *Executor // nil when the session runs sync-dispatch

	txn *TransactionContext // nil unless AckMode == consumer.AckSessionTransacted

	useAsyncSend  bool
	asyncSendCh   chan asyncSendItem
	asyncSendOnce sync.Once
	excListener   func(error)
	durableStore  *store.AsyncSendStore // SPEC_FULL.md §B.1, nil unless DurableAsyncSend was set

	logger logging.Logger
	closed atomic.Bool
}

type asyncSendItem struct {
	msg *wireformat.Message
}

// Options configures a new Session beyond its ack mode.
type Options struct {
	UseAsyncDispatch bool // zero value false dispatches inline; client.ConnectionFactory sets it true (spec.md §4.3's default mode)
	UseAsyncSend     bool
	ExceptionListener func(error)
	Logger            logging.Logger

	// DurableAsyncSend stages every async-sent message in Store before
	// handing it to the broker, and clears the staged entry once the
	// broker's Response for that send arrives (SPEC_FULL.md §B.1). Only
	// meaningful when UseAsyncSend is also true.
	DurableAsyncSend bool
	Store            *store.AsyncSendStore
}

// New builds a Session already registered with the broker by the
// caller (the SessionInfo must already have been sent via conn.Oneway,
// as Connection.CreateSession does — Session itself only owns post-registration
// lifecycle, matching Consumer/Producer's pattern in this module).
func New(info *wireformat.SessionInfo, ackMode consumer.AckMode, conn Requester, txnGen *ids.TransactionSequenceGenerator, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Session{
		Info:        info,
		AckMode:     ackMode,
		conn:        conn,
		consumerSeq: ids.NewConsumerSequenceGenerator(info.SessionId),
		producerSeq: ids.NewProducerSequenceGenerator(info.SessionId),
		consumers:   make(map[ids.ConsumerId]*consumer.Consumer),
		producers:   make(map[ids.ProducerId]*producer.Producer),
		useAsyncSend: opts.UseAsyncSend,
		excListener:  opts.ExceptionListener,
		logger:       logger,
	}
	if opts.UseAsyncSend && opts.DurableAsyncSend {
		s.durableStore = opts.Store
	}
	if ackMode == consumer.AckSessionTransacted {
		s.txn = NewTransactionContext(txnGen)
	}
	if opts.UseAsyncDispatch {
		s.executor = NewExecutor(logger)
		s.executor.Start()
	}
	if s.useAsyncSend {
		s.asyncSendCh = make(chan asyncSendItem, 256)
		go s.runAsyncSend()
	}
	return s
}

// CreateConsumer registers a new consumer on dest with the broker and
// returns the wired Consumer. It is shorthand for
// CreateConsumerWithOptions with every destination.* URI option at its
// zero value.
func (s *Session) CreateConsumer(dest destination.Destination, selector string, prefetchSize int32) (*consumer.Consumer, error) {
	return s.CreateConsumerWithOptions(dest, &destination.Options{Selector: selector}, prefetchSize)
}

// CreateConsumerWithOptions registers a new consumer, forwarding the
// full consumer.* URI option table of spec.md §6 (SPEC_FULL.md §C:
// "gowire's destination package parses [exclusive/retroactive] into
// ConsumerInfo.Exclusive/Retroactive and forwards them unmodified") onto
// the wire ConsumerInfo. opts may be nil. prefetchSize overrides
// opts.PrefetchSize when non-zero, matching how a caller that already
// has a numeric prefetch in hand (rather than a parsed URI) expects to
// use this API.
func (s *Session) CreateConsumerWithOptions(dest destination.Destination, opts *destination.Options, prefetchSize int32) (*consumer.Consumer, error) {
	if s.closed.Load() {
		return nil, fmt.Errorf("session: cannot create consumer on closed session")
	}
	if opts == nil {
		opts = &destination.Options{}
	}
	if prefetchSize == 0 && opts.PrefetchSize != nil {
		prefetchSize = int32(*opts.PrefetchSize)
	}
	maxPending := int32(0)
	if opts.MaximumPendingMessageLimit != nil {
		maxPending = int32(*opts.MaximumPendingMessageLimit)
	}
	priority := int8(0)
	if opts.Priority != nil {
		priority = int8(*opts.Priority)
	}

	consumerId := s.consumerSeq.Next()
	info := &wireformat.ConsumerInfo{
		ConsumerId:                 consumerId,
		Destination:                dest,
		Selector:                   opts.Selector,
		PrefetchSize:               prefetchSize,
		MaximumPendingMessageLimit: maxPending,
		NoLocal:                    opts.NoLocal,
		DispatchAsync:              opts.DispatchAsync,
		Exclusive:                  opts.Exclusive,
		Retroactive:                opts.Retroactive,
		Priority:                   priority,
		NetworkSubscription:        opts.NetworkSubscription,
	}
	if _, err := s.conn.SyncRequest(info, defaultRequestTimeout); err != nil {
		return nil, fmt.Errorf("session: registering consumer: %w", err)
	}

	var pull consumer.PullFunc
	if prefetchSize == 0 {
		pull = func(timeout int64) error {
			return s.conn.Oneway(&wireformat.MessagePull{ConsumerId: consumerId, Destination: dest, Timeout: timeout})
		}
	}

	currentTxnId := func() *ids.TransactionId { return nil }
	if s.txn != nil {
		currentTxnId = s.beginOrCurrentTxnId
	}

	// c is captured by the redispatch closure below; Go closures bind the
	// variable, not its value at closure-creation time, so this is safe
	// even though c isn't assigned until NewConsumer returns.
	var c *consumer.Consumer
	var redispatch consumer.RequestRedispatch
	if s.executor != nil {
		redispatch = func() { s.executor.Redispatch(c) }
	}
	c = consumer.NewConsumer(info, s.AckMode, s, pull, redispatch, currentTxnId)

	s.mu.Lock()
	s.consumers[consumerId] = c
	s.mu.Unlock()
	s.conn.AddDispatcher(consumerId, s)
	return c, nil
}

// CreateProducer registers a new producer (dest may be nil for an
// anonymous producer) and returns the wired Producer.
func (s *Session) CreateProducer(dest *destination.Destination, opts producer.Options) (*producer.Producer, error) {
	if s.closed.Load() {
		return nil, fmt.Errorf("session: cannot create producer on closed session")
	}
	producerId := s.producerSeq.Next()
	info := &wireformat.ProducerInfo{ProducerId: producerId, Destination: dest}
	if _, err := s.conn.SyncRequest(info, defaultRequestTimeout); err != nil {
		return nil, fmt.Errorf("session: registering producer: %w", err)
	}

	p := producer.New(info, opts, s, s.logger)
	s.mu.Lock()
	s.producers[producerId] = p
	s.mu.Unlock()
	return p, nil
}

// Oneway implements consumer.Sender: acks flow straight to the
// connection, never through the async-send queue (which is a send-path
// concept only).
func (s *Session) Oneway(cmd wireformat.Command) error {
	return s.conn.Oneway(cmd)
}

// beginOrCurrentTxnId opens the session's transaction if none is open
// yet (spec.md §4.3: "opens the next transaction lazily, on first
// consume/send"), returning the current TransactionId either way. A
// begin failure is logged and treated as "no transaction" rather than
// propagated, matching the narrow func() *ids.TransactionId shape
// internal/consumer and internal/producer depend on.
func (s *Session) beginOrCurrentTxnId() *ids.TransactionId {
	id, err := s.txn.EnsureBegun(s.conn.Oneway)
	if err != nil {
		s.logger.Printf("failed to begin transaction: %v", err)
		return nil
	}
	return &id
}

// Send implements producer.Sender. When useAsyncSend is enabled the
// message is copied and enqueued for the session's single send worker;
// otherwise it is sent inline, ensuring FIFO-per-producer ordering
// either way (spec.md §4.3 "Async-send queue"). In a transacted session
// this also opens the transaction lazily on first send, per spec.md
// §4.3 — note gowire's wire Message carries no TransactionId field (see
// DESIGN.md), so the transaction's scope over producer sends is tracked
// by the session's commit/rollback synchronizations rather than stamped
// onto the message itself.
func (s *Session) Send(msg *wireformat.Message) error {
	if s.txn != nil {
		s.beginOrCurrentTxnId()
	}
	if !s.useAsyncSend {
		return s.conn.Oneway(msg)
	}
	cp := *msg
	select {
	case s.asyncSendCh <- asyncSendItem{msg: &cp}:
		return nil
	default:
		return fmt.Errorf("session: async-send queue full")
	}
}

// runAsyncSend is the session's single send worker. When durableStore is
// set, each message is staged before the send and cleared only once the
// broker's Response for it arrives (SyncRequest instead of Oneway). A
// staged entry a crash leaves behind stays in the store, where
// AsyncSendStore.Recover returns it; nothing in this package replays it.
func (s *Session) runAsyncSend() {
	for item := range s.asyncSendCh {
		if s.durableStore == nil {
			if err := s.conn.Oneway(item.msg); err != nil && s.excListener != nil {
				s.excListener(err)
			}
			continue
		}

		if err := s.durableStore.Put(item.msg.ProducerId, item.msg.MessageId.Value, item.msg); err != nil {
			s.logger.Printf("failed to stage durable async-send entry: %v", err)
		}
		if _, err := s.conn.SyncRequest(item.msg, defaultRequestTimeout); err != nil {
			if s.excListener != nil {
				s.excListener(err)
			}
			continue
		}
		if err := s.durableStore.Remove(item.msg.ProducerId, item.msg.MessageId.Value); err != nil {
			s.logger.Printf("failed to clear staged async-send entry: %v", err)
		}
	}
}

// Dispatch routes an inbound MessageDispatch to its owning consumer,
// either inline (sync-dispatch) or via the executor (async-dispatch).
func (s *Session) Dispatch(d *wireformat.MessageDispatch) error {
	s.mu.Lock()
	c, ok := s.consumers[d.ConsumerId]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("session: dispatch for unknown consumer %s", d.ConsumerId.String())
	}
	if s.executor != nil {
		s.executor.Enqueue(c, d)
		return nil
	}
	return c.Dispatch(d)
}

// Acknowledge implements spec.md §4.3's session-level acknowledge():
// one coalesced CONSUMED ack per consumer, covering everything
// currently dispatched-but-unacked.
func (s *Session) Acknowledge() error {
	s.mu.Lock()
	cs := make([]*consumer.Consumer, 0, len(s.consumers))
	for _, c := range s.consumers {
		cs = append(cs, c)
	}
	s.mu.Unlock()

	var firstErr error
	for _, c := range cs {
		if err := c.AcknowledgeAll(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Commit implements spec.md §4.3 commit(): only valid when
// AckMode == SessionTransacted.
func (s *Session) Commit() error {
	if s.txn == nil {
		return fmt.Errorf("session: commit() on a non-transacted session")
	}
	txnId := s.txn.Current()
	if txnId == nil {
		// Nothing was ever begun (no consume/send occurred); commit is a
		// no-op per the "opens lazily" contract.
		return nil
	}
	if err := s.Acknowledge(); err != nil {
		return err
	}
	if err := s.conn.Oneway(&wireformat.TransactionInfo{TransactionId: *txnId, Type: wireformat.TransactionCommit}); err != nil {
		return err
	}
	return s.txn.Resolve(true)
}

// Rollback implements spec.md §4.3 rollback(): delegates the
// redelivery algorithm to each consumer (spec.md §4.4), then notifies
// the broker and any registered synchronizations.
func (s *Session) Rollback() error {
	if s.txn == nil {
		return fmt.Errorf("session: rollback() on a non-transacted session")
	}
	txnId := s.txn.Current()

	s.mu.Lock()
	cs := make([]*consumer.Consumer, 0, len(s.consumers))
	for _, c := range s.consumers {
		cs = append(cs, c)
	}
	s.mu.Unlock()

	var firstErr error
	for _, c := range cs {
		if err := c.Rollback(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if txnId != nil {
		if err := s.conn.Oneway(&wireformat.TransactionInfo{TransactionId: *txnId, Type: wireformat.TransactionRollback}); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.txn.Resolve(false); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Recover implements spec.md §4.3 recover(): illegal when transacted.
func (s *Session) Recover() error {
	if s.txn != nil {
		return fmt.Errorf("session: recover() is illegal on a transacted session")
	}
	s.mu.Lock()
	cs := make([]*consumer.Consumer, 0, len(s.consumers))
	for _, c := range s.consumers {
		cs = append(cs, c)
	}
	s.mu.Unlock()
	for _, c := range cs {
		c.Recover()
	}
	return nil
}

// Close implements spec.md §4.3 close(): stops the executor, closes
// every owned consumer/producer, removes the session from the broker,
// draining each consumer's pending ack queue as a side effect of its
// own Close.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.executor != nil {
		s.executor.Stop()
	}
	if s.asyncSendCh != nil {
		s.asyncSendOnce.Do(func() { close(s.asyncSendCh) })
	}

	s.mu.Lock()
	cs := make([]*consumer.Consumer, 0, len(s.consumers))
	for _, c := range s.consumers {
		cs = append(cs, c)
	}
	ps := make([]*producer.Producer, 0, len(s.producers))
	for _, p := range s.producers {
		ps = append(ps, p)
	}
	s.mu.Unlock()

	var firstErr error
	for _, c := range cs {
		s.conn.RemoveDispatcher(c.Info.ConsumerId)
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, p := range ps {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := s.conn.Oneway(&wireformat.RemoveInfo{ObjectId: s.Info.SessionId.String()}); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (s *Session) Closed() bool { return s.closed.Load() }

// MarkAllClearRequired propagates a transport-interruption signal to
// every consumer this session owns (spec.md §4.2 "Transport
// interruption": "sets an in-progress-clear-required flag on every
// consumer").
func (s *Session) MarkAllClearRequired() {
	s.mu.Lock()
	cs := make([]*consumer.Consumer, 0, len(s.consumers))
	for _, c := range s.consumers {
		cs = append(cs, c)
	}
	s.mu.Unlock()
	for _, c := range cs {
		c.MarkClearRequired()
	}
}

// Reannounce resends this session's SessionInfo followed by every owned
// ConsumerInfo/ProducerInfo, in the order spec.md §4.2 requires after a
// transport reconnect: "re-announces ConnectionInfo + all SessionInfo +
// ConsumerInfo + ProducerInfo".
func (s *Session) Reannounce() error {
	if err := s.conn.Oneway(s.Info); err != nil {
		return err
	}
	s.mu.Lock()
	cs := make([]*wireformat.ConsumerInfo, 0, len(s.consumers))
	for _, c := range s.consumers {
		cs = append(cs, c.Info)
	}
	ps := make([]*wireformat.ProducerInfo, 0, len(s.producers))
	for _, p := range s.producers {
		ps = append(ps, p.Info)
	}
	s.mu.Unlock()

	for _, ci := range cs {
		if err := s.conn.Oneway(ci); err != nil {
			return err
		}
	}
	for _, pi := range ps {
		if err := s.conn.Oneway(pi); err != nil {
			return err
		}
	}
	return nil
}
