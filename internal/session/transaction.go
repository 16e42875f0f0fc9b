package session

import (
	"github.com/tenzoki/gowire/internal/ids"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// Synchronization is a callback registered on a TransactionContext,
// notified on commit or rollback — spec.md §4.4's "register transaction
// synchronization" step for SESSION_TRANSACTED consumers.
type Synchronization interface {
	AfterCommit() error
	AfterRollback() error
}

// TransactionContext tracks the current unit of work for a
// SESSION_TRANSACTED session. A session opens the next one lazily, on
// first consume or send after commit/rollback (spec.md §4.3).
type TransactionContext struct {
	id          *ids.TransactionId
	gen         *ids.TransactionSequenceGenerator
	syncs       []Synchronization
}

// NewTransactionContext builds a context with no transaction open yet.
func NewTransactionContext(gen *ids.TransactionSequenceGenerator) *TransactionContext {
	return &TransactionContext{gen: gen}
}

// Current returns the active TransactionId, or nil if none is open.
func (t *TransactionContext) Current() *ids.TransactionId {
	return t.id
}

// EnsureBegun opens a transaction if none is currently active, sending
// a TransactionInfo{Type: TransactionBegin}.
func (t *TransactionContext) EnsureBegun(send func(wireformat.Command) error) (ids.TransactionId, error) {
	if t.id != nil {
		return *t.id, nil
	}
	next := t.gen.Next()
	if err := send(&wireformat.TransactionInfo{TransactionId: next, Type: wireformat.TransactionBegin}); err != nil {
		return ids.TransactionId{}, err
	}
	t.id = &next
	return next, nil
}

// AddSynchronization registers s to be notified when the current
// transaction resolves.
func (t *TransactionContext) AddSynchronization(s Synchronization) {
	t.syncs = append(t.syncs, s)
}

// Resolve notifies every registered Synchronization and clears the
// transaction, ready for the next EnsureBegun to open a fresh one.
func (t *TransactionContext) Resolve(committed bool) error {
	syncs := t.syncs
	t.syncs = nil
	t.id = nil

	var firstErr error
	for _, s := range syncs {
		var err error
		if committed {
			err = s.AfterCommit()
		} else {
			err = s.AfterRollback()
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
