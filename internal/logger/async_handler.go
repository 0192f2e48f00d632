package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultAsyncBufferSize   = 1024
	defaultAsyncFlushTimeout = 5 * time.Second
)

// AsyncOptions configures the async log pipeline.
type AsyncOptions struct {
	BufferSize   int
	FlushTimeout time.Duration
}

type asyncRecord struct {
	ctx     context.Context
	record  slog.Record
	handler slog.Handler
}

// asyncQueue is shared by every handler derived through WithAttrs/WithGroup.
type asyncQueue struct {
	mu           sync.RWMutex
	closed       bool
	ch           chan asyncRecord
	done         chan struct{}
	flushTimeout time.Duration
	dropped      atomic.Uint64
}

func newAsyncQueue(opts AsyncOptions) *asyncQueue {
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultAsyncBufferSize
	}
	if opts.FlushTimeout <= 0 {
		opts.FlushTimeout = defaultAsyncFlushTimeout
	}

	q := &asyncQueue{
		ch:           make(chan asyncRecord, opts.BufferSize),
		done:         make(chan struct{}),
		flushTimeout: opts.FlushTimeout,
	}
	go q.drain()
	return q
}

func (q *asyncQueue) drain() {
	defer close(q.done)
	for rec := range q.ch {
		_ = rec.handler.Handle(rec.ctx, rec.record)
	}
}

// push never blocks; records are dropped when the buffer is full.
func (q *asyncQueue) push(rec asyncRecord) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return
	}
	select {
	case q.ch <- rec:
	default:
		q.dropped.Add(1)
	}
}

func (q *asyncQueue) close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.flushTimeout)
		defer cancel()
	}

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AsyncHandler ships records to the wrapped handler from a background
// goroutine so remote sinks (Better Stack) never block a webhook reply.
type AsyncHandler struct {
	queue   *asyncQueue
	handler slog.Handler
}

// NewAsyncHandler creates a new async handler with its own queue.
func NewAsyncHandler(handler slog.Handler, opts AsyncOptions) *AsyncHandler {
	return &AsyncHandler{
		queue:   newAsyncQueue(opts),
		handler: handler,
	}
}

// Enabled reports whether the underlying handler is enabled for the given level.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle enqueues a clone of the record. The context is detached from
// cancellation because the record is handled after the caller returns.
func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	h.queue.push(asyncRecord{
		ctx:     context.WithoutCancel(ctx),
		record:  r.Clone(),
		handler: h.handler,
	})
	return nil
}

// WithAttrs returns a new async handler sharing the same queue.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{queue: h.queue, handler: h.handler.WithAttrs(attrs)}
}

// WithGroup returns a new async handler sharing the same queue.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{queue: h.queue, handler: h.handler.WithGroup(name)}
}

// Dropped returns the number of records discarded because the buffer was full.
func (h *AsyncHandler) Dropped() uint64 {
	return h.queue.dropped.Load()
}

// Shutdown stops accepting records and waits for the queue to drain.
func (h *AsyncHandler) Shutdown(ctx context.Context) error {
	if h == nil || h.queue == nil {
		return nil
	}
	return h.queue.close(ctx)
}
