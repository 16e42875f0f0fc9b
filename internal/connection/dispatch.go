package connection

import (
	"errors"
	"io"

	"github.com/tenzoki/gowire/internal/store"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// readLoop pumps frames off the transport and demuxes them per spec.md
// §4.2's four numbered rules. It exits the first time the transport
// returns an error, reporting the break to the exception listener unless
// the error is io.EOF or the connection is already closed.
func (c *Connection) readLoop() {
	for {
		raw, err := c.frameReader.ReadFrame()
		if err != nil {
			if c.closed.Load() || errors.Is(err, io.EOF) {
				return
			}
			c.onTransportBroken(err)
			return
		}

		cmd, err := c.format.Unmarshal(raw)
		if err != nil {
			c.logger.Printf("discarding unparseable frame: %v", err)
			continue
		}
		if cmd == nil {
			continue
		}
		if c.recorder != nil {
			if err := c.recorder.Record(store.Inbound, cmd, raw); err != nil {
				c.logger.Printf("frame recorder: %v", err)
			}
		}
		c.handleInbound(cmd)
	}
}

// handleInbound routes one decoded command per spec.md §4.2's inbound
// demux rules.
func (c *Connection) handleInbound(cmd wireformat.Command) {
	switch v := cmd.(type) {

	case *wireformat.Response:
		// Rule 1: Response/ExceptionResponse matched by correlation id.
		c.resolveWaiter(v.CorrelationId, waiterResult{cmd: v})

	case *wireformat.ExceptionResponse:
		c.resolveWaiter(v.CorrelationId, waiterResult{err: &BrokerError{Message: v.Message, StackTrace: v.StackTrace}})

	case *wireformat.MessageDispatch:
		// Rule 2: dispatcher-table lookup by consumer id, else rule 4.
		if !c.started.Load() {
			// spec.md §4.2: "messages continue to be received and queued
			// while stopped; they are not delivered to user listeners."
			// Buffered here and flushed by Start, so a listener-backed
			// consumer never sees it until then.
			c.pendingMu.Lock()
			c.pending = append(c.pending, v)
			c.pendingMu.Unlock()
			return
		}
		c.routeDispatch(v)

	case *wireformat.ConnectionError:
		// Rule 3.
		c.onBrokerReportedError(v)

	case *wireformat.BrokerInfo:
		c.logger.Printf("connected to broker %s (%s)", v.BrokerName, v.BrokerId)

	case *wireformat.KeepAliveInfo:
		if v.IsResponseRequired() {
			_ = c.Oneway(&wireformat.KeepAliveInfo{})
		}

	case *wireformat.ShutdownInfo:
		c.onBrokerReportedError(nil)

	case *wireformat.WireFormatInfo:
		// Unsolicited renegotiation after the initial handshake.
		effective := wireformat.NegotiateWireFormat(wireformat.DefaultClientWireFormatInfo(), v)
		if err := c.format.ApplyWireFormatInfo(effective); err != nil {
			c.logger.Printf("renegotiation failed: %v", err)
		}

	default:
		c.logger.Printf("unhandled inbound command %T", cmd)
	}
}

// routeDispatch looks d's consumer up in the dispatcher table and hands
// it off, or drops it per rule 4 if the consumer is unknown.
func (c *Connection) routeDispatch(d *wireformat.MessageDispatch) {
	c.mu.RLock()
	target, ok := c.dispatchers[d.ConsumerId]
	c.mu.RUnlock()
	if !ok {
		c.dropUnmappedDispatch(d)
		return
	}
	if err := target.Dispatch(d); err != nil {
		c.logger.Printf("dispatch error for consumer %s: %v", d.ConsumerId.String(), err)
	}
}

// dropUnmappedDispatch implements spec.md §4.2 rule 4: an unmapped
// consumer id (the consumer already closed client-side, racing with an
// in-flight broker dispatch) is dropped after decrementing the broker's
// flow-control credit with a synthetic ack, so the broker doesn't wait
// forever for an acknowledgement that will never come.
func (c *Connection) dropUnmappedDispatch(d *wireformat.MessageDispatch) {
	c.logger.Printf("dropping dispatch for unmapped consumer %s", d.ConsumerId.String())
	if d.Message == nil {
		return
	}
	ack := &wireformat.MessageAck{
		ConsumerId:     d.ConsumerId,
		Destination:    d.Destination,
		AckType:        wireformat.AckConsumed,
		FirstMessageId: d.Message.MessageId,
		LastMessageId:  d.Message.MessageId,
		MessageCount:   1,
	}
	if err := c.Oneway(ack); err != nil {
		c.logger.Printf("failed to send synthetic ack for dropped dispatch: %v", err)
	}
}

// onBrokerReportedError fans the failure out to the registered exception
// listener and unblocks every outstanding syncRequest waiter with it,
// since none of them will ever see their Response now.
func (c *Connection) onBrokerReportedError(v *wireformat.ConnectionError) {
	var err error
	if v != nil {
		err = &BrokerError{Message: v.Message, StackTrace: v.StackTrace}
	} else {
		err = &TransportBrokenError{Cause: errors.New("broker requested shutdown")}
	}
	c.breakAllWaiters(err)
	if c.opts.ExceptionListener != nil {
		c.opts.ExceptionListener(err)
	}
}

func (c *Connection) onTransportBroken(cause error) {
	c.onTransportInterrupted()
	err := &TransportBrokenError{Cause: cause}
	c.breakAllWaiters(err)
	if c.opts.ExceptionListener != nil {
		c.opts.ExceptionListener(err)
	}
}

// breakAllWaiters delivers err to every pending syncRequest, since a
// broken connection means none of them will ever see a real response.
func (c *Connection) breakAllWaiters(err error) {
	c.waitersMu.Lock()
	waiters := c.waiters
	c.waiters = make(map[int32]chan waiterResult)
	c.waitersMu.Unlock()
	for _, ch := range waiters {
		ch <- waiterResult{err: err}
	}
}
