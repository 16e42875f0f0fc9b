package session

import (
	"sync"
	"testing"
	"time"

	"github.com/tenzoki/gowire/internal/consumer"
	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
	"github.com/tenzoki/gowire/internal/producer"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// fakeRequester records every command sent and answers every
// SyncRequest with a bare Response.
type fakeRequester struct {
	mu          sync.Mutex
	oneways     []wireformat.Command
	requests    []wireformat.Command
	dispatchers map[ids.ConsumerId]Dispatcher
}

func (f *fakeRequester) Oneway(cmd wireformat.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.oneways = append(f.oneways, cmd)
	return nil
}

func (f *fakeRequester) SyncRequest(cmd wireformat.Command, timeout time.Duration) (wireformat.Command, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, cmd)
	return &wireformat.Response{}, nil
}

func (f *fakeRequester) AddDispatcher(consumerId ids.ConsumerId, d Dispatcher) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dispatchers == nil {
		f.dispatchers = make(map[ids.ConsumerId]Dispatcher)
	}
	f.dispatchers[consumerId] = d
}

func (f *fakeRequester) RemoveDispatcher(consumerId ids.ConsumerId) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.dispatchers, consumerId)
}

func (f *fakeRequester) onewayOfType(t wireformat.Tag) []wireformat.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []wireformat.Command
	for _, c := range f.oneways {
		if c.Tag() == t {
			out = append(out, c)
		}
	}
	return out
}

func testSessionId() ids.SessionId {
	return ids.SessionId{ConnectionId: ids.NewConnectionId(), Value: 1}
}

func newTestSession(t *testing.T, ackMode consumer.AckMode, req *fakeRequester) *Session {
	t.Helper()
	info := &wireformat.SessionInfo{SessionId: testSessionId()}
	txnGen := ids.NewTransactionSequenceGenerator(info.SessionId.ConnectionId)
	return New(info, ackMode, req, txnGen, Options{UseAsyncDispatch: true})
}

func TestCreateConsumerRegistersAndDispatches(t *testing.T) {
	req := &fakeRequester{}
	s := newTestSession(t, consumer.AckAuto, req)

	c, err := s.CreateConsumer(destination.NewQueue("orders"), "", 10)
	if err != nil {
		t.Fatalf("create consumer: %v", err)
	}
	if len(req.requests) != 1 {
		t.Fatalf("expected 1 sync request registering the consumer, got %d", len(req.requests))
	}

	msg := wireformat.NewTextMessage("hi")
	msg.MessageId = ids.MessageId{ProducerId: ids.ProducerId{SessionId: testSessionId(), Value: 1}, Value: 1}
	d := &wireformat.MessageDispatch{ConsumerId: c.Info.ConsumerId, Destination: c.Info.Destination, Message: msg}

	if err := s.Dispatch(d); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if got, _ := c.ReceiveNoWait(); got != nil {
			if got.Body.Text != "hi" {
				t.Fatalf("unexpected body: %q", got.Body.Text)
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("message never arrived via async-dispatch executor")
}

func TestCreateProducerAndSend(t *testing.T) {
	req := &fakeRequester{}
	s := newTestSession(t, consumer.AckAuto, req)

	dest := destination.NewQueue("orders")
	p, err := s.CreateProducer(&dest, producer.DefaultOptions())
	if err != nil {
		t.Fatalf("create producer: %v", err)
	}
	if err := p.Send(wireformat.NewTextMessage("x")); err != nil {
		t.Fatalf("send: %v", err)
	}
	msgs := req.onewayOfType(wireformat.TagTextMessage)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message sent, got %d", len(msgs))
	}
}

func TestCommitOnNonTransactedSessionFails(t *testing.T) {
	req := &fakeRequester{}
	s := newTestSession(t, consumer.AckAuto, req)
	if err := s.Commit(); err == nil {
		t.Fatalf("expected commit to fail on a non-transacted session")
	}
}

func TestRecoverIllegalWhenTransacted(t *testing.T) {
	req := &fakeRequester{}
	s := newTestSession(t, consumer.AckSessionTransacted, req)
	if err := s.Recover(); err == nil {
		t.Fatalf("expected recover() to be illegal on a transacted session")
	}
}

func TestTransactedSendBeginsTransactionLazily(t *testing.T) {
	req := &fakeRequester{}
	s := newTestSession(t, consumer.AckSessionTransacted, req)

	dest := destination.NewQueue("orders")
	p, err := s.CreateProducer(&dest, producer.DefaultOptions())
	if err != nil {
		t.Fatalf("create producer: %v", err)
	}
	if s.txn.Current() != nil {
		t.Fatalf("expected no transaction open before the first send")
	}
	if err := p.Send(wireformat.NewTextMessage("x")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if s.txn.Current() == nil {
		t.Fatalf("expected the transaction to have begun lazily on first send")
	}
	begins := req.onewayOfType(wireformat.TagTransactionInfo)
	if len(begins) != 1 {
		t.Fatalf("expected 1 TransactionInfo begin sent, got %d", len(begins))
	}
}

func TestCommitSendsConsumedAckThenCommitInfo(t *testing.T) {
	req := &fakeRequester{}
	s := newTestSession(t, consumer.AckSessionTransacted, req)

	c, err := s.CreateConsumer(destination.NewQueue("orders"), "", 10)
	if err != nil {
		t.Fatalf("create consumer: %v", err)
	}
	msg := wireformat.NewTextMessage("tx")
	msg.MessageId = ids.MessageId{ProducerId: ids.ProducerId{SessionId: testSessionId(), Value: 1}, Value: 1}
	d := &wireformat.MessageDispatch{ConsumerId: c.Info.ConsumerId, Destination: c.Info.Destination, Message: msg}
	if err := c.Dispatch(d); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if err := s.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	acks := req.onewayOfType(wireformat.TagMessageAck)
	if len(acks) != 1 {
		t.Fatalf("expected 1 consumed ack on commit, got %d", len(acks))
	}
	if ack := acks[0].(*wireformat.MessageAck); ack.AckType != wireformat.AckConsumed {
		t.Fatalf("expected CONSUMED ack, got %v", ack.AckType)
	}
	commits := req.onewayOfType(wireformat.TagTransactionInfo)
	if len(commits) != 2 { // begin (from Dispatch's lazy-begin) + commit
		t.Fatalf("expected begin+commit TransactionInfo pair, got %d", len(commits))
	}
}

func TestCloseStopsExecutorAndRemovesSession(t *testing.T) {
	req := &fakeRequester{}
	s := newTestSession(t, consumer.AckAuto, req)
	if _, err := s.CreateConsumer(destination.NewQueue("orders"), "", 10); err != nil {
		t.Fatalf("create consumer: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !s.Closed() {
		t.Fatalf("expected session to report closed")
	}
	removes := req.onewayOfType(wireformat.TagRemoveInfo)
	if len(removes) != 1 {
		t.Fatalf("expected 1 RemoveInfo for the session, got %d", len(removes))
	}
}
