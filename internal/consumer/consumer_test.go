package consumer

import (
	"sync"
	"testing"
	"time"

	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// recordingSender is a fake Sender that captures every oneway command.
type recordingSender struct {
	mu   sync.Mutex
	acks []*wireformat.MessageAck
}

func (r *recordingSender) Oneway(cmd wireformat.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ack, ok := cmd.(*wireformat.MessageAck); ok {
		r.acks = append(r.acks, ack)
	}
	return nil
}

func (r *recordingSender) last() *wireformat.MessageAck {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.acks) == 0 {
		return nil
	}
	return r.acks[len(r.acks)-1]
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.acks)
}

func testConsumerIds() (ids.ConsumerId, ids.ProducerId) {
	conn := ids.NewConnectionId()
	sess := ids.SessionId{ConnectionId: conn, Value: 1}
	consumerId := ids.ConsumerId{SessionId: sess, Value: 1}
	producerId := ids.ProducerId{SessionId: sess, Value: 1}
	return consumerId, producerId
}

func newTestConsumer(t *testing.T, ackMode AckMode, prefetch int32, sender *recordingSender) (*Consumer, ids.ProducerId) {
	t.Helper()
	consumerId, producerId := testConsumerIds()
	info := &wireformat.ConsumerInfo{
		ConsumerId:   consumerId,
		Destination:  destination.NewQueue("orders"),
		PrefetchSize: prefetch,
	}
	c := NewConsumer(info, ackMode, sender, nil, nil, func() *ids.TransactionId { return nil })
	return c, producerId
}

func dispatchFor(producerId ids.ProducerId, seq int64, text string) *wireformat.MessageDispatch {
	msg := wireformat.NewTextMessage(text)
	msg.MessageId = ids.MessageId{ProducerId: producerId, Value: seq}
	msg.Destination = destination.NewQueue("orders")
	return &wireformat.MessageDispatch{
		ConsumerId:  ids.ConsumerId{},
		Destination: msg.Destination,
		Message:     msg,
	}
}

func TestAutoAckSendsConsumedAfterReceive(t *testing.T) {
	sender := &recordingSender{}
	c, producerId := newTestConsumer(t, AckAuto, 10, sender)

	if err := c.Dispatch(dispatchFor(producerId, 1, "hello")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	msg, err := c.ReceiveNoWait()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if msg == nil || msg.Body.Text != "hello" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	// AUTO acks on synchronous receive happen at hand-off time (there is
	// no separate "accept" signal for pull-style receive), so the
	// consumer must have already sent a CONSUMED ack for message 1.
	if sender.count() != 1 {
		t.Fatalf("expected 1 ack sent, got %d", sender.count())
	}
	if last := sender.last(); last.AckType != wireformat.AckConsumed {
		t.Fatalf("expected CONSUMED ack, got %v", last.AckType)
	}
}

func TestClientAckFlushesDeliveredThenConsumed(t *testing.T) {
	sender := &recordingSender{}
	c, producerId := newTestConsumer(t, AckClient, 10, sender)

	d := dispatchFor(producerId, 1, "payload")
	if err := c.Dispatch(d); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	msg, err := c.ReceiveNoWait()
	if err != nil || msg == nil {
		t.Fatalf("receive: %v, %+v", err, msg)
	}

	// pre-hand-off should have queued a DELIVERED ack via the coalescer,
	// not flushed it yet.
	if sender.count() != 0 {
		t.Fatalf("expected no ack sent before Acknowledge, got %d", sender.count())
	}

	if err := c.Acknowledge(msg.MessageId); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if sender.count() != 1 {
		t.Fatalf("expected 1 ack after Acknowledge, got %d", sender.count())
	}
	if last := sender.last(); last.AckType != wireformat.AckDelivered {
		t.Fatalf("expected DELIVERED ack flushed by CLIENT ack, got %v", last.AckType)
	}

	if err := c.AcknowledgeAll(); err != nil {
		t.Fatalf("acknowledge all: %v", err)
	}
	if sender.count() != 2 {
		t.Fatalf("expected 2 acks after AcknowledgeAll, got %d", sender.count())
	}
	if last := sender.last(); last.AckType != wireformat.AckConsumed {
		t.Fatalf("expected CONSUMED ack from AcknowledgeAll, got %v", last.AckType)
	}
}

func TestIndividualAckSendsStandaloneConsumed(t *testing.T) {
	sender := &recordingSender{}
	c, producerId := newTestConsumer(t, AckIndividual, 10, sender)

	d := dispatchFor(producerId, 5, "x")
	if err := c.Dispatch(d); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	msg, err := c.ReceiveNoWait()
	if err != nil || msg == nil {
		t.Fatalf("receive: %v", err)
	}

	if err := c.Acknowledge(msg.MessageId); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	last := sender.last()
	if last == nil || last.AckType != wireformat.AckConsumed {
		t.Fatalf("expected standalone CONSUMED ack, got %+v", last)
	}
	if last.FirstMessageId != msg.MessageId || last.LastMessageId != msg.MessageId {
		t.Fatalf("expected single-message range, got %+v", last)
	}
}

func TestRollbackRedeliversAndBumpsCounter(t *testing.T) {
	sender := &recordingSender{}
	c, producerId := newTestConsumer(t, AckSessionTransacted, 10, sender)
	c.Redelivery.Scheduler = SynchronousScheduler{}

	d := dispatchFor(producerId, 1, "tx-msg")
	if err := c.Dispatch(d); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, err := c.ReceiveNoWait(); err != nil {
		t.Fatalf("receive: %v", err)
	}

	if err := c.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	redone, err := c.ReceiveNoWait()
	if err != nil {
		t.Fatalf("receive after rollback: %v", err)
	}
	if redone == nil {
		t.Fatalf("expected redelivered message, got nil")
	}
	if redone.RedeliveryCounter != 1 {
		t.Fatalf("expected redelivery counter 1, got %d", redone.RedeliveryCounter)
	}
}

func TestRollbackPoisonsAfterMaxRedeliveries(t *testing.T) {
	sender := &recordingSender{}
	c, producerId := newTestConsumer(t, AckSessionTransacted, 10, sender)
	c.Redelivery.Scheduler = SynchronousScheduler{}
	c.Redelivery.MaxRedeliveries = 0

	d := dispatchFor(producerId, 1, "doomed")
	if err := c.Dispatch(d); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, err := c.ReceiveNoWait(); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if err := c.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	if sender.count() != 1 || sender.last().AckType != wireformat.AckPoison {
		t.Fatalf("expected a POISON ack, got %+v", sender.acks)
	}
	if redone, _ := c.ReceiveNoWait(); redone != nil {
		t.Fatalf("poisoned message must not be redelivered, got %+v", redone)
	}
}

func TestSetMessageListenerRejectedOnZeroPrefetch(t *testing.T) {
	sender := &recordingSender{}
	c, _ := newTestConsumer(t, AckAuto, 0, sender)

	if err := c.SetMessageListener(func(*wireformat.Message) {}); err == nil {
		t.Fatalf("expected error setting a listener on a zero-prefetch consumer")
	}
}

func TestZeroPrefetchReceiveIssuesPull(t *testing.T) {
	sender := &recordingSender{}
	consumerId, _ := testConsumerIds()
	info := &wireformat.ConsumerInfo{
		ConsumerId:   consumerId,
		Destination:  destination.NewQueue("orders"),
		PrefetchSize: 0,
	}

	var pulledTimeout int64 = -99
	pull := func(timeout int64) error {
		pulledTimeout = timeout
		return nil
	}
	c := NewConsumer(info, AckAuto, sender, pull, nil, func() *ids.TransactionId { return nil })

	msg, err := c.ReceiveNoWait()
	if err != nil {
		t.Fatalf("receivenowait: %v", err)
	}
	if msg != nil {
		t.Fatalf("expected no message, got %+v", msg)
	}
	if pulledTimeout != -1 {
		t.Fatalf("expected a no-wait pull (-1), got %d", pulledTimeout)
	}
}

func TestReceiveTimeoutReturnsNilAfterDeadline(t *testing.T) {
	sender := &recordingSender{}
	// Prefetch > 0: no pull func, so the only way this consumer's queue
	// is ever woken is by a dispatch that never arrives — the bounded
	// wait has to be honored by the queue itself.
	c, _ := newTestConsumer(t, AckAuto, 10, sender)

	start := time.Now()
	msg, err := c.ReceiveTimeout(100 * time.Millisecond)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("receivetimeout: %v", err)
	}
	if msg != nil {
		t.Fatalf("expected no message, got %+v", msg)
	}
	if elapsed < 100*time.Millisecond {
		t.Fatalf("returned before the deadline: %v", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("returned long after the deadline, looks hung: %v", elapsed)
	}
}

func TestExpiredMessageSkipsDeliveryAndAcksDeliveredConsumed(t *testing.T) {
	sender := &recordingSender{}
	c, producerId := newTestConsumer(t, AckAuto, 10, sender)

	msg := wireformat.NewTextMessage("stale")
	msg.MessageId = ids.MessageId{ProducerId: producerId, Value: 1}
	msg.Destination = destination.NewQueue("orders")
	msg.Expiration = time.Now().Add(-time.Hour).UnixMilli()
	d := &wireformat.MessageDispatch{Destination: msg.Destination, Message: msg}

	if err := c.Dispatch(d); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if sender.count() != 2 {
		t.Fatalf("expected DELIVERED+CONSUMED ack pair for expired message, got %d", sender.count())
	}
	if sender.acks[0].AckType != wireformat.AckDelivered || sender.acks[1].AckType != wireformat.AckConsumed {
		t.Fatalf("unexpected ack sequence: %+v", sender.acks)
	}

	if m, _ := c.ReceiveNoWait(); m != nil {
		t.Fatalf("expired message must not be delivered to the user, got %+v", m)
	}
}

func TestCloseFlushesPendingDeliveredAck(t *testing.T) {
	sender := &recordingSender{}
	c, producerId := newTestConsumer(t, AckClient, 10, sender)

	d := dispatchFor(producerId, 1, "closing")
	if err := c.Dispatch(d); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, err := c.ReceiveNoWait(); err != nil {
		t.Fatalf("receive: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if sender.count() != 1 || sender.last().AckType != wireformat.AckDelivered {
		t.Fatalf("expected close to flush the pending DELIVERED ack, got %+v", sender.acks)
	}
	if !c.Closed() {
		t.Fatalf("expected consumer to report closed")
	}
}
