// Package schedule provides the bounded-delay message scheduler used by
// step entry handlers to stage output, simulating a typing cadence.
//
// Deliveries are strictly FIFO: a single worker drains the queue in
// scheduling order, sleeping a randomized delay inside [min, max] before
// each one. Cancellation is token-based; CancelAll is called on session
// teardown and guarantees no pending delivery fires afterwards.
package schedule

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/voyago/itinera/internal/logging"
)

// Handle is the cancellation token returned for one scheduled delivery.
type Handle struct {
	mu        sync.Mutex
	cancelled bool
	done      chan struct{}
}

// Cancel prevents the delivery if it has not fired yet.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.cancelled {
		h.cancelled = true
		close(h.done)
	}
}

type item struct {
	deliver  func()
	min, max time.Duration
	handle   *Handle
}

// Scheduler stages deliveries with a bounded random delay.
type Scheduler struct {
	mu      sync.Mutex
	pending []*item
	handles []*Handle
	wake    chan struct{}
	closed  chan struct{}
	once    sync.Once
	logger  *slog.Logger
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger for delivery diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New creates a scheduler and starts its delivery worker.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Schedule enqueues a delivery and returns its cancellation token.
// Deliveries fire in the order they were scheduled.
func (s *Scheduler) Schedule(deliver func(), minDelay, maxDelay time.Duration) *Handle {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	h := &Handle{done: make(chan struct{})}

	s.mu.Lock()
	s.pending = append(s.pending, &item{deliver: deliver, min: minDelay, max: maxDelay, handle: h})
	s.handles = append(s.handles, h)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return h
}

// Pending returns how many deliveries have been scheduled but not yet
// fired or cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// CancelAll cancels every outstanding handle. Already-delivered messages
// are unaffected; nothing still pending will fire.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	handles := s.handles
	s.handles = nil
	s.pending = nil
	s.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
	s.logger.Debug("cancelled scheduled deliveries", "count", len(handles))
}

// Close cancels everything and stops the worker. The scheduler must not be
// used afterwards.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.CancelAll()
		close(s.closed)
	})
}

func (s *Scheduler) run() {
	for {
		next := s.pop()
		if next == nil {
			select {
			case <-s.wake:
				continue
			case <-s.closed:
				return
			}
		}

		delay := next.min
		if spread := next.max - next.min; spread > 0 {
			delay += time.Duration(rand.Int64N(int64(spread)))
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
			// The handle mutex is held across check-and-deliver: a Cancel
			// racing the timer blocks until the delivery completes, so once
			// CancelAll returns nothing pending can still fire.
			next.handle.mu.Lock()
			if !next.handle.cancelled {
				next.deliver()
				next.handle.cancelled = true // spent; CancelAll skips it
				close(next.handle.done)
			}
			next.handle.mu.Unlock()
		case <-next.handle.done:
			timer.Stop()
		case <-s.closed:
			timer.Stop()
			return
		}
		s.forget(next.handle)
	}
}

func (s *Scheduler) pop() *item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	return next
}

func (s *Scheduler) forget(h *Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, held := range s.handles {
		if held == h {
			s.handles = append(s.handles[:i], s.handles[i+1:]...)
			return
		}
	}
}
