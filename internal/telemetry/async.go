package telemetry

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrQueueFull  = errors.New("telemetry: async queue full, message dropped")
	ErrSinkClosed = errors.New("telemetry: sink closed")
)

// DefaultAsyncBuffer holds a few position windows of a crowded arena.
const DefaultAsyncBuffer = 256

// AsyncSink hands messages to a single background goroutine that delivers
// them to the wrapped sink. Send never blocks: when the queue is full the
// message is dropped and ErrQueueFull returned.
type AsyncSink struct {
	inner  Sink
	ch     chan Message
	done   chan struct{}
	logger *slog.Logger

	// DrainTimeout bounds how long Close waits for queued messages.
	DrainTimeout time.Duration

	mu     sync.RWMutex
	closed bool

	dropped atomic.Int64
	failed  atomic.Int64
}

// NewAsyncSink starts the delivery goroutine. Call Close to stop it.
func NewAsyncSink(inner Sink, buffer int, logger *slog.Logger) *AsyncSink {
	if buffer <= 0 {
		buffer = DefaultAsyncBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &AsyncSink{
		inner:        inner,
		ch:           make(chan Message, buffer),
		done:         make(chan struct{}),
		logger:       logger,
		DrainTimeout: 2 * time.Second,
	}
	go s.drain()
	return s
}

func (s *AsyncSink) drain() {
	defer close(s.done)
	for m := range s.ch {
		if err := s.inner.Send(m); err != nil {
			s.failed.Add(1)
			s.logger.Warn("telemetry_async_send_failed", "address", m.Address, "error", err)
		}
	}
}

func (s *AsyncSink) Send(m Message) error {
	args := make([]any, len(m.Args))
	copy(args, m.Args)
	m.Args = args

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}
	select {
	case s.ch <- m:
		return nil
	default:
		if s.dropped.Add(1) == 1 {
			s.logger.Warn("telemetry_queue_full", "address", m.Address, "buffer", cap(s.ch))
		}
		return ErrQueueFull
	}
}

// Dropped counts messages rejected because the queue was full.
func (s *AsyncSink) Dropped() int64 { return s.dropped.Load() }

// Failed counts messages the wrapped sink rejected.
func (s *AsyncSink) Failed() int64 { return s.failed.Load() }

// Close stops accepting messages and waits up to DrainTimeout for the queue
// to empty. Safe to call more than once.
func (s *AsyncSink) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-time.After(s.DrainTimeout):
		s.logger.Warn("telemetry_drain_timeout", "pending", len(s.ch))
		return errors.New("telemetry: drain timed out")
	}
}
