package connection

import (
	"fmt"

	"github.com/tenzoki/gowire/internal/session"
)

// onTransportInterrupted implements the first half of spec.md §4.2's
// "Transport interruption" paragraph: every owned consumer is marked
// in-progress-clear-required so its next dispatch clears the
// UnconsumedQueue before delivery resumes, regardless of whether a
// reconnect ever succeeds.
func (c *Connection) onTransportInterrupted() {
	c.mu.RLock()
	sessions := make([]*session.Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.mu.RUnlock()
	for _, s := range sessions {
		s.MarkAllClearRequired()
	}
}

// Reconnect redials the transport (reconnection itself is the
// transport's responsibility per spec.md §4.2; this is the hook an
// embedding failover transport calls once it has a fresh byte stream),
// repeats the wire-format handshake and ConnectionInfo registration,
// then re-announces every session/consumer/producer in the order
// spec.md §4.2 specifies.
func (c *Connection) Reconnect() error {
	if c.closed.Load() {
		return &AlreadyClosedError{What: "connection"}
	}

	if err := c.dialAndHandshake(); err != nil {
		return err
	}
	go c.readLoop()

	if _, err := c.SyncRequest(c.info, c.opts.RequestTimeout); err != nil {
		return fmt.Errorf("connection: re-registering connection: %w", err)
	}

	c.mu.RLock()
	sessions := make([]*session.Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.mu.RUnlock()

	for _, s := range sessions {
		if err := s.Reannounce(); err != nil {
			return fmt.Errorf("connection: re-announcing session %s: %w", s.Info.SessionId.String(), err)
		}
	}
	return nil
}
