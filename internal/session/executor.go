// Package session implements spec.md §4.3: the Session contract and its
// SessionExecutor, serializing user-visible consumer callbacks the way
// a JMS session must be single-threaded from the user's perspective.
//
// Grounded on cellorg/internal/broker/service.go's single-worker
// dequeue-and-dispatch loop (one goroutine draining a channel of
// pending work items), generalized here into a re-orderable queue of
// arbitrary work items so rollback redispatch can both jump the line
// (executeFirst) and reuse the same serialized worker as ordinary
// dispatch.
package session

import (
	"sync"

	"github.com/tenzoki/gowire/internal/consumer"
	"github.com/tenzoki/gowire/internal/logging"
	"github.com/tenzoki/gowire/internal/wireformat"
)

// Executor owns the single worker goroutine that serializes every
// user-visible callback for one session — spec.md §4.3's async-dispatch
// mode, which is gowire's default. Sync-dispatch (running dispatch
// directly on the transport's inbound goroutine) is the zero-value
// path: a Session with UseAsyncDispatch false calls Consumer.Dispatch
// inline and never touches an Executor at all.
type Executor struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	closed  bool
	logger  logging.Logger
	wg      sync.WaitGroup
	started bool
}

// NewExecutor builds a stopped Executor; call Start to spin up its
// worker.
func NewExecutor(logger logging.Logger) *Executor {
	if logger == nil {
		logger = logging.Discard()
	}
	e := &Executor{logger: logger}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Start spins up the worker goroutine. Idempotent.
func (e *Executor) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	e.wg.Add(1)
	go e.run()
}

func (e *Executor) run() {
	defer e.wg.Done()
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.closed {
			e.cond.Wait()
		}
		if len(e.queue) == 0 && e.closed {
			e.mu.Unlock()
			return
		}
		work := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		e.runOne(work)
	}
}

func (e *Executor) runOne(work func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Printf("recovered from panic in session executor: %v", r)
		}
	}()
	work()
}

func (e *Executor) enqueueLocked(work func(), front bool) {
	if e.closed {
		return
	}
	if front {
		e.queue = append([]func(){work}, e.queue...)
	} else {
		e.queue = append(e.queue, work)
	}
	e.cond.Signal()
}

// Enqueue dispatches d to c on the worker, at the tail of the queue.
func (e *Executor) Enqueue(c *consumer.Consumer, d *wireformat.MessageDispatch) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enqueueLocked(func() {
		if err := c.Dispatch(d); err != nil {
			e.logger.Printf("dispatch error: %v", err)
		}
	}, false)
}

// ExecuteFirst places dispatches at the head of the queue, preserving
// their relative order — used for rollback redispatch (spec.md §4.4
// step 5, "request the session to redispatch").
func (e *Executor) ExecuteFirst(c *consumer.Consumer, ds []*wireformat.MessageDispatch) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || len(ds) == 0 {
		return
	}
	items := make([]func(), len(ds))
	for i, d := range ds {
		d := d
		items[i] = func() {
			if err := c.Dispatch(d); err != nil {
				e.logger.Printf("dispatch error: %v", err)
			}
		}
	}
	e.queue = append(items, e.queue...)
	e.cond.Broadcast()
}

// Redispatch asks the worker to drain c's already-queued dispatches
// into its installed listener, serialized the same as ordinary
// delivery — the session-level half of spec.md §4.4 step 5.
func (e *Executor) Redispatch(c *consumer.Consumer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enqueueLocked(func() {
		if err := c.RedispatchQueued(); err != nil {
			e.logger.Printf("redispatch error: %v", err)
		}
	}, false)
}

// Stop refuses new work, wakes the worker, lets it finish whatever is
// already queued, and joins it.
func (e *Executor) Stop() {
	e.mu.Lock()
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()
	e.wg.Wait()
}
