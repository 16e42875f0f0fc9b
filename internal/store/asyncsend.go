// Package store implements SPEC_FULL.md §B's domain-stack additions:
// durable staging for the session's async-send queue, and an optional
// wire capture log for offline diagnosis. Neither participates in the
// OpenWire protocol itself (spec.md §4.1/§6 stay byte-exact); both sit
// beside it as client-side durability and observability hooks.
//
// Grounded on omni/internal/storage.BadgerStore's Open/Get/Set/Delete
// shape (code/omni/internal/storage/badger.go), adapted from opaque
// []byte values to msgpack-encoded wireformat.Message records.
package store

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tenzoki/gowire/internal/ids"
	"github.com/tenzoki/gowire/internal/wireformat"
)

const asyncSendKeyPrefix = "asend/"

// AsyncSendStore durably stages outbound messages enqueued on a
// session's async-send path (SPEC_FULL.md §B.1), so an un-acknowledged
// send survives a client process crash and can be replayed by Recover
// on restart. This is a client-side durability enhancement; the broker
// still owns message persistence once it has the send.
type AsyncSendStore struct {
	db     *badger.DB
	mu     sync.Mutex
	closed bool
}

// OpenAsyncSendStore opens (creating if necessary) a badger database
// rooted at dir, configured the way omni's NewBadgerStore configures
// one for small, latency-sensitive embedded workloads.
func OpenAsyncSendStore(dir string) (*AsyncSendStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: opening async-send staging db: %w", err)
	}
	return &AsyncSendStore{db: db}, nil
}

func stagingKey(producerId ids.ProducerId, sequence int64) []byte {
	return []byte(fmt.Sprintf("%s%s/%020d", asyncSendKeyPrefix, producerId.String(), sequence))
}

// Put stages msg keyed by (producerId, sequence) — the same pair that
// uniquely identifies a MessageId within one producer (spec.md §3:
// "totally ordered per ProducerId").
func (s *AsyncSendStore) Put(producerId ids.ProducerId, sequence int64, msg *wireformat.Message) error {
	data, err := msgpack.Marshal(msg)
	if err != nil {
		return fmt.Errorf("store: encoding staged message: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stagingKey(producerId, sequence), data)
	})
}

// Remove clears a staged entry once the broker has acknowledged the
// send it shadows.
func (s *AsyncSendStore) Remove(producerId ids.ProducerId, sequence int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(stagingKey(producerId, sequence))
	})
}

// Recover returns every staged-but-unacknowledged message in key order
// (lexicographic on the zero-padded sequence, so FIFO-per-producer),
// for replay onto the async-send queue after a restart.
func (s *AsyncSendStore) Recover() ([]*wireformat.Message, error) {
	var out []*wireformat.Message
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(asyncSendKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if err := item.Value(func(val []byte) error {
				var msg wireformat.Message
				if err := msgpack.Unmarshal(val, &msg); err != nil {
					return fmt.Errorf("store: decoding staged message %s: %w", item.Key(), err)
				}
				out = append(out, &msg)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// Close releases the underlying badger database. Idempotent.
func (s *AsyncSendStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
