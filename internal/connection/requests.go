package connection

import (
	"fmt"
	"time"

	"github.com/tenzoki/gowire/internal/store"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// Oneway sends cmd fire-and-forget (spec.md §4.2 "oneway"). Marshalling
// happens under writeMu so the frame a concurrent syncRequest writes
// never interleaves with this one (spec.md §5 "Shared resource policy").
func (c *Connection) Oneway(cmd wireformat.Command) error {
	if c.closed.Load() {
		return &AlreadyClosedError{What: "connection"}
	}
	cmd.SetCommandId(c.nextCommandId())
	cmd.SetResponseRequired(false)
	return c.writeFrame(cmd)
}

// SyncRequest sends cmd with a fresh correlation id, registers a waiter,
// and blocks until a Response/ExceptionResponse with that id arrives or
// timeout elapses (spec.md §4.2 "syncRequest"). A broker-reported
// exception is translated to a *BrokerError.
func (c *Connection) SyncRequest(cmd wireformat.Command, timeout time.Duration) (wireformat.Command, error) {
	if c.closed.Load() {
		return nil, &AlreadyClosedError{What: "connection"}
	}
	id := c.nextCommandId()
	cmd.SetCommandId(id)
	cmd.SetResponseRequired(true)

	ch := make(chan waiterResult, 1)
	c.waitersMu.Lock()
	c.waiters[id] = ch
	c.waitersMu.Unlock()

	cleanup := func() {
		c.waitersMu.Lock()
		delete(c.waiters, id)
		c.waitersMu.Unlock()
	}

	if err := c.writeFrame(cmd); err != nil {
		cleanup()
		return nil, err
	}

	select {
	case res, ok := <-ch:
		if !ok {
			return nil, &TransportBrokenError{Cause: fmt.Errorf("connection closed while awaiting response to command %d", id)}
		}
		return res.cmd, res.err
	case <-time.After(timeout):
		cleanup()
		return nil, &TimeoutError{Operation: fmt.Sprintf("syncRequest(%T)", cmd)}
	}
}

// writeFrame marshals and writes cmd under the connection's single
// write mutex.
func (c *Connection) writeFrame(cmd wireformat.Command) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	body, err := c.format.Marshal(cmd)
	if err != nil {
		return err
	}
	if err := c.frameWriter.WriteFrame(body); err != nil {
		return &TransportBrokenError{Cause: err}
	}
	if c.recorder != nil {
		if err := c.recorder.Record(store.Outbound, cmd, body); err != nil {
			c.logger.Printf("frame recorder: %v", err)
		}
	}
	return nil
}

// resolveWaiter delivers a Response/ExceptionResponse to its matching
// waiter (spec.md §4.2 inbound demux rule 1).
func (c *Connection) resolveWaiter(correlationId int32, result waiterResult) {
	c.waitersMu.Lock()
	ch, ok := c.waiters[correlationId]
	if ok {
		delete(c.waiters, correlationId)
	}
	c.waitersMu.Unlock()
	if !ok {
		c.logger.Printf("no waiter registered for correlation id %d", correlationId)
		return
	}
	ch <- result
}
