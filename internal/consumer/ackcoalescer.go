package consumer

import (
	"sync"

	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// Sender is the narrow slice of Connection the ack coalescer needs: a
// oneway send of a built MessageAck.
type Sender interface {
	Oneway(cmd wireformat.Command) error
}

// AckCoalescer builds at most one pending MessageAck at a time, per the
// rules of spec.md §4.4 "Pending-ack coalescer":
//
//  1. new ack matches pending type -> extend range, bump count.
//  2. types differ, pending isn't DELIVERED -> flush pending, replace.
//  3. types differ, pending is DELIVERED (pure flow control, redundant) -> discard, replace.
//  4. flush when deliveredCounter - additionalWindowSize >= prefetchSize/2.
type AckCoalescer struct {
	mu   sync.Mutex
	send Sender

	consumerId  ids.ConsumerId
	destination destination.Destination

	pending *wireformat.MessageAck

	deliveredCounter    int32
	additionalWindowSize int32
	prefetchSize        int32
}

func NewAckCoalescer(send Sender, consumerId ids.ConsumerId, dest destination.Destination, prefetchSize int32) *AckCoalescer {
	return &AckCoalescer{send: send, consumerId: consumerId, destination: dest, prefetchSize: prefetchSize}
}

// Add folds one message's ack of the given type into the pending buffer,
// flushing the old pending first when the coalescing rules require it,
// then flushing the result when the delivered-counter threshold is hit.
func (a *AckCoalescer) Add(msgId ids.MessageId, ackType wireformat.AckType, txnId *ids.TransactionId) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending != nil && a.pending.AckType == ackType {
		a.pending.LastMessageId = msgId
		a.pending.MessageCount++
	} else if a.pending != nil && a.pending.AckType != wireformat.AckDelivered {
		if err := a.flushLocked(); err != nil {
			return err
		}
		a.startPendingLocked(msgId, ackType, txnId)
	} else {
		// either no pending, or pending was a redundant DELIVERED: discard, replace
		a.startPendingLocked(msgId, ackType, txnId)
	}

	if ackType == wireformat.AckDelivered {
		a.deliveredCounter++
	}

	if a.prefetchSize > 0 && int32(a.deliveredCounter)-a.additionalWindowSize >= a.prefetchSize/2 {
		return a.flushLocked()
	}
	return nil
}

func (a *AckCoalescer) startPendingLocked(msgId ids.MessageId, ackType wireformat.AckType, txnId *ids.TransactionId) {
	a.pending = &wireformat.MessageAck{
		ConsumerId:     a.consumerId,
		Destination:    a.destination,
		AckType:        ackType,
		FirstMessageId: msgId,
		LastMessageId:  msgId,
		MessageCount:   1,
		TransactionId:  txnId,
	}
}

// Flush sends the pending ack (if any) immediately and resets the
// delivered-counter bookkeeping, regardless of the threshold.
func (a *AckCoalescer) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flushLocked()
}

func (a *AckCoalescer) flushLocked() error {
	if a.pending == nil {
		return nil
	}
	p := a.pending
	a.pending = nil
	a.deliveredCounter = 0
	a.additionalWindowSize = 0
	return a.send.Oneway(p)
}

// FlushIfType flushes the pending ack only if it matches ackType — used
// by Consumer.Close and a CLIENT-mode Consumer.Acknowledge to flush a
// lingering DELIVERED ack without disturbing a pending ack of another
// type.
func (a *AckCoalescer) FlushIfType(ackType wireformat.AckType) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil || a.pending.AckType != ackType {
		return nil
	}
	return a.flushLocked()
}

// SendImmediate builds and sends a standalone ack covering exactly one
// message, bypassing coalescing — used for AUTO-ack-mode CONSUMED acks
// and for the expired-message DELIVERED+CONSUMED pair (spec.md §4.4).
func (a *AckCoalescer) SendImmediate(msgId ids.MessageId, ackType wireformat.AckType, txnId *ids.TransactionId) error {
	ack := &wireformat.MessageAck{
		ConsumerId:     a.consumerId,
		Destination:    a.destination,
		AckType:        ackType,
		FirstMessageId: msgId,
		LastMessageId:  msgId,
		MessageCount:   1,
		TransactionId:  txnId,
	}
	return a.send.Oneway(ack)
}

// SendRange builds and sends a standalone ack covering a contiguous
// range of messages — used for the coalesced CONSUMED ack session.commit
// and session.acknowledge build across an entire dispatched log.
func (a *AckCoalescer) SendRange(first, last ids.MessageId, count int32, ackType wireformat.AckType, txnId *ids.TransactionId) error {
	ack := &wireformat.MessageAck{
		ConsumerId:     a.consumerId,
		Destination:    a.destination,
		AckType:        ackType,
		FirstMessageId: first,
		LastMessageId:  last,
		MessageCount:   count,
		TransactionId:  txnId,
	}
	return a.send.Oneway(ack)
}
