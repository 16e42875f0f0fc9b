package consumer

import (
	"fmt"
	"sync"
	"time"

	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// AckMode is the session-level acknowledgement policy spec.md §3
// enumerates; it governs every consumer belonging to that session.
type AckMode int32

const (
	AckAuto AckMode = iota
	AckClient
	AckDupsOk
	AckIndividual
	AckSessionTransacted
)

// MessageListener is the asynchronous delivery callback (spec.md §4.4
// "setMessageListener").
type MessageListener func(*wireformat.Message)

// PullFunc issues a MessagePull for a zero-prefetch consumer.
type PullFunc func(timeout int64) error

// RequestRedispatch is how a Consumer asks its session to re-run its
// listener loop after a rollback (spec.md §4.4 step 5, "request the
// session to redispatch").
type RequestRedispatch func()

// Consumer is the client-side half of one broker subscription: the
// prefetch queue, the dispatched-but-unacked log, the ack coalescer,
// and the ack-mode state machine of spec.md §4.4.
type Consumer struct {
	Info     *wireformat.ConsumerInfo
	AckMode  AckMode
	Redelivery *RedeliveryPolicy

	unconsumed *UnconsumedQueue
	dispatched *DispatchedLog
	coalescer  *AckCoalescer

	mu                  sync.Mutex
	listener            MessageListener
	closed              bool
	clearRequired       bool
	lastRedeliveryDelay time.Duration

	pull              PullFunc
	requestRedispatch RequestRedispatch
	currentTxnId      func() *ids.TransactionId
}

// NewConsumer wires a Consumer for one ConsumerInfo. pull is nil for a
// prefetch>0 consumer (it never needs to ask); currentTxnId returns the
// session's active TransactionId, or nil outside a transaction.
func NewConsumer(info *wireformat.ConsumerInfo, ackMode AckMode, send Sender, pull PullFunc, requestRedispatch RequestRedispatch, currentTxnId func() *ids.TransactionId) *Consumer {
	return &Consumer{
		Info:              info,
		AckMode:           ackMode,
		Redelivery:        DefaultRedeliveryPolicy(),
		unconsumed:        NewUnconsumedQueue(),
		dispatched:        NewDispatchedLog(),
		coalescer:         NewAckCoalescer(send, info.ConsumerId, info.Destination, info.PrefetchSize),
		pull:              pull,
		requestRedispatch: requestRedispatch,
		currentTxnId:      currentTxnId,
	}
}

// Dispatch hands one broker MessageDispatch to the consumer's pipeline:
// the concurrent-clear race check, expiration, pre-hand-off ack-mode
// bookkeeping, then either a listener callback or a queue push.
func (c *Consumer) Dispatch(d *wireformat.MessageDispatch) error {
	c.mu.Lock()
	if c.clearRequired {
		c.unconsumed.Clear()
		c.clearRequired = false
	}
	listener := c.listener
	c.mu.Unlock()

	if d.Message != nil && d.Message.Expiration > 0 && time.Now().UnixMilli() > d.Message.Expiration {
		if err := c.coalescer.SendImmediate(d.Message.MessageId, wireformat.AckDelivered, c.currentTxnId()); err != nil {
			return err
		}
		return c.coalescer.SendImmediate(d.Message.MessageId, wireformat.AckConsumed, c.currentTxnId())
	}

	if err := c.preHandoffAck(d); err != nil {
		return err
	}

	if listener != nil {
		listener(d.Message)
		return c.postHandoffAutoAck(d)
	}
	c.unconsumed.Enqueue(d)
	return nil
}

// preHandoffAck implements the "On delivery (pre-hand-off)" column of
// spec.md §4.4's ack-mode table.
func (c *Consumer) preHandoffAck(d *wireformat.MessageDispatch) error {
	switch c.AckMode {
	case AckAuto:
		return nil
	case AckDupsOk:
		if c.Info.Destination.Kind.Temporary() || c.Info.Destination.Kind == destination.Queue {
			return nil
		}
		c.dispatched.Push(d)
		return nil
	case AckClient, AckIndividual:
		c.dispatched.Push(d)
		if d.Message != nil {
			return c.coalescer.Add(d.Message.MessageId, wireformat.AckDelivered, nil)
		}
		return nil
	case AckSessionTransacted:
		c.dispatched.Push(d)
		c.currentTxnId() // triggers the transaction's lazy begin on first consume
		return nil
	default:
		return fmt.Errorf("consumer: unknown ack mode %d", c.AckMode)
	}
}

// postHandoffAutoAck implements the "On user accept" column for the
// listener-driven path, where "accept" is simply the callback
// returning without panicking.
func (c *Consumer) postHandoffAutoAck(d *wireformat.MessageDispatch) error {
	if d.Message == nil {
		return nil
	}
	switch c.AckMode {
	case AckAuto:
		return c.coalescer.SendImmediate(d.Message.MessageId, wireformat.AckConsumed, nil)
	case AckDupsOk:
		if !c.Info.Destination.Kind.Temporary() && c.Info.Destination.Kind != destination.Queue {
			return c.coalescer.Add(d.Message.MessageId, wireformat.AckConsumed, nil)
		}
		return c.coalescer.SendImmediate(d.Message.MessageId, wireformat.AckConsumed, nil)
	default:
		// CLIENT/INDIVIDUAL/SESSION_TRANSACTED: nothing until the user
		// (or the session, on commit) explicitly acknowledges.
		return nil
	}
}

// Receive blocks until a non-expired message is available, issuing a
// MessagePull first if prefetch == 0 and the queue is empty. A nil
// return means "no message" (closed).
func (c *Consumer) Receive() (*wireformat.Message, error) {
	return c.receiveDeadline(time.Time{})
}

// ReceiveTimeout blocks at most timeout; the deadline is absolute, so
// an expired pop doesn't reset the budget.
func (c *Consumer) ReceiveTimeout(timeout time.Duration) (*wireformat.Message, error) {
	return c.receiveDeadline(time.Now().Add(timeout))
}

// ReceiveNoWait returns immediately.
func (c *Consumer) ReceiveNoWait() (*wireformat.Message, error) {
	if c.Info.PrefetchSize == 0 && c.unconsumed.Len() == 0 {
		if err := c.pullIfZeroPrefetch(-1); err != nil {
			return nil, err
		}
	}
	for {
		d, ok := c.unconsumed.PopNoWait()
		if !ok {
			return nil, nil
		}
		if msg := c.handlePopped(d); msg != nil || d.Message == nil {
			return msg, nil
		}
	}
}

func (c *Consumer) receiveDeadline(deadline time.Time) (*wireformat.Message, error) {
	if c.Info.PrefetchSize == 0 && c.unconsumed.Len() == 0 {
		timeout := int64(0)
		if !deadline.IsZero() {
			timeout = -1
			if ms := time.Until(deadline).Milliseconds(); ms > 0 {
				timeout = ms
			}
		}
		if err := c.pullIfZeroPrefetch(timeout); err != nil {
			return nil, err
		}
	}
	for {
		d, ok := c.unconsumed.Pop(deadline)
		if !ok {
			return nil, nil
		}
		if msg := c.handlePopped(d); msg != nil || d.Message == nil {
			return msg, nil
		}
	}
}

func (c *Consumer) pullIfZeroPrefetch(timeout int64) error {
	if c.pull == nil {
		return nil
	}
	return c.pull(timeout)
}

// handlePopped applies expiration handling to a synchronously-popped
// dispatch, returning the message to give the caller: nil for an expired
// message (the caller keeps waiting) and nil for a synthetic null-payload
// dispatch (the caller returns "no message"). The pre-hand-off ack
// bookkeeping already ran in Dispatch.
func (c *Consumer) handlePopped(d *wireformat.MessageDispatch) *wireformat.Message {
	if d.Message == nil {
		return nil
	}
	if d.Message.Expiration > 0 && time.Now().UnixMilli() > d.Message.Expiration {
		_ = c.coalescer.SendImmediate(d.Message.MessageId, wireformat.AckDelivered, c.currentTxnId())
		_ = c.coalescer.SendImmediate(d.Message.MessageId, wireformat.AckConsumed, c.currentTxnId())
		return nil
	}
	// A synchronous receive has no separate "accept" signal the way a
	// listener callback returning does — control returning to the
	// caller here IS the accept, so AUTO/DUPS_OK ack immediately.
	if c.AckMode == AckAuto || c.AckMode == AckDupsOk {
		_ = c.postHandoffAutoAck(d)
	}
	return d.Message
}

// AcknowledgeAll drains the dispatched log and sends one coalesced
// CONSUMED ack covering it — the per-consumer half of spec.md §4.4's
// session-level acknowledge() ("a single coalesced CONSUMED ack covering
// every currently-dispatched-but-unacked message across all consumers").
func (c *Consumer) AcknowledgeAll() error {
	log := c.dispatched.Clear()
	if len(log) == 0 {
		return nil
	}
	first, last := log[0], log[len(log)-1]
	if first.Message == nil || last.Message == nil {
		return nil
	}
	return c.coalescer.SendRange(first.Message.MessageId, last.Message.MessageId, int32(len(log)), wireformat.AckConsumed, c.currentTxnId())
}

// Acknowledge flushes the pending DELIVERED ack immediately for CLIENT
// mode, or sends the single per-message CONSUMED ack for INDIVIDUAL mode.
func (c *Consumer) Acknowledge(msgId ids.MessageId) error {
	switch c.AckMode {
	case AckClient:
		return c.coalescer.FlushIfType(wireformat.AckDelivered)
	case AckIndividual:
		return c.coalescer.SendImmediate(msgId, wireformat.AckConsumed, nil)
	default:
		return fmt.Errorf("consumer: acknowledge() not valid in ack mode %d", c.AckMode)
	}
}

// SetMessageListener installs l, switching to async delivery. Per
// spec.md §4.4: prefetch==0 with a non-nil listener is illegal;
// switching listeners drains the UnconsumedQueue into the new listener
// first (stop, re-dispatch, restart).
func (c *Consumer) SetMessageListener(l MessageListener) error {
	if l != nil && c.Info.PrefetchSize == 0 {
		return fmt.Errorf("consumer: cannot set a listener on a zero-prefetch consumer")
	}
	c.mu.Lock()
	c.listener = l
	c.mu.Unlock()
	if l == nil {
		return nil
	}
	return c.drainQueuedIntoListener(l)
}

// drainQueuedIntoListener feeds every already-queued dispatch to l. The
// pre-hand-off ack bookkeeping already ran when these dispatches were
// first enqueued (Dispatch always runs preHandoffAck before a listener
// check), so only the post-hand-off half applies here.
func (c *Consumer) drainQueuedIntoListener(l MessageListener) error {
	for {
		d, ok := c.unconsumed.PopNoWait()
		if !ok {
			return nil
		}
		l(d.Message)
		if err := c.postHandoffAutoAck(d); err != nil {
			return err
		}
	}
}

// RedispatchQueued feeds whatever is currently queued to the installed
// listener, if any — spec.md §4.4 step 5, "if a listener is registered,
// request the session to redispatch" after a rollback re-enqueues the
// dispatched log. A no-op for pull/receive-style consumption, where the
// next Receive call drains the queue itself.
func (c *Consumer) RedispatchQueued() error {
	c.mu.Lock()
	l := c.listener
	c.mu.Unlock()
	if l == nil {
		return nil
	}
	return c.drainQueuedIntoListener(l)
}

// MarkClearRequired flags that the UnconsumedQueue must be drained
// before the next dispatch, per the transport-interruption recovery
// rule of spec.md §4.2.
func (c *Consumer) MarkClearRequired() {
	c.mu.Lock()
	c.clearRequired = true
	c.mu.Unlock()
}

// Rollback implements spec.md §4.4 "Redelivery on rollback (transacted)".
func (c *Consumer) Rollback() error {
	log := c.dispatched.Clear()
	if len(log) == 0 {
		return nil
	}

	last := log[len(log)-1]
	var redeliveryCounter int16
	if last.Message != nil {
		redeliveryCounter = last.Message.RedeliveryCounter
	}
	wasRedelivered := redeliveryCounter > 0

	if wasRedelivered {
		c.lastRedeliveryDelay = c.Redelivery.Next(c.lastRedeliveryDelay)
	}
	for _, d := range log {
		if d.Message != nil {
			d.Message.RedeliveryCounter++
		}
	}

	first := log[0]
	if last.Message != nil && c.Redelivery.Poisoned(last.Message.RedeliveryCounter) {
		return c.coalescer.SendRange(first.Message.MessageId, last.Message.MessageId, int32(len(log)), wireformat.AckPoison, nil)
	}

	if wasRedelivered && first.Message != nil && last.Message != nil {
		if err := c.coalescer.SendRange(first.Message.MessageId, last.Message.MessageId, int32(len(log)), wireformat.AckRedelivered, nil); err != nil {
			return err
		}
	}

	delay := c.lastRedeliveryDelay
	c.Redelivery.Scheduler.Schedule(delay, func() {
		// Logged again, as Dispatch logs a fresh delivery.
		for _, d := range log {
			c.dispatched.Push(d)
		}
		c.unconsumed.EnqueueFront(log)
		if c.requestRedispatch != nil {
			c.requestRedispatch()
		}
	})
	return nil
}

// Recover implements spec.md §4.3 Session.recover()'s consumer-side
// half: mark every dispatched-but-unacked message redelivered and
// restart delivery from the oldest. Unlike Rollback, it does not touch
// the redelivery policy or poison threshold — recover is a non-
// transacted operation.
func (c *Consumer) Recover() {
	log := c.dispatched.Clear()
	for _, d := range log {
		if d.Message != nil {
			d.Message.RedeliveryCounter++
		}
		c.dispatched.Push(d)
	}
	c.unconsumed.EnqueueFront(log)
}

// Close tears the consumer down: closes the UnconsumedQueue (waking
// blocked receivers) and, per spec.md §4.4's close contract, flushes a
// pending DELIVERED ack first.
func (c *Consumer) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	err := c.coalescer.FlushIfType(wireformat.AckDelivered)
	c.unconsumed.Close()
	return err
}

func (c *Consumer) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
