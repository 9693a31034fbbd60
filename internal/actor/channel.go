package actor

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
)

// ErrChannelClosed is returned by Send when the receiving side has already
// shut its mailbox down.
type ErrChannelClosedType struct{}

func (ErrChannelClosedType) Error() string { return "actor: channel closed" }

// ErrChannelClosed is the sentinel value reported when sending into a closed
// mailbox.
var ErrChannelClosed error = ErrChannelClosedType{}

// mailbox is the bounded, single-receiver multi-sender channel every actor's
// inbox is built from. It is a direct generalization of ChannelMailbox[M,R]:
// a buffered Go channel guarded by an RWMutex so Send
// can check "is this closed" and enqueue atomically with respect to Close,
// plus an iterator-based Receive/Drain pair in the style of Go 1.23's
// range-over-func.
type mailbox[T any] struct {
	mu     sync.RWMutex
	ch     chan T
	done   chan struct{}
	closed atomic.Bool
	once   sync.Once
}

// newMailbox creates a mailbox with the given buffer size (0 is unbuffered,
// i.e. fully synchronous hand-off).
func newMailbox[T any](buffer int) *mailbox[T] {
	return &mailbox[T]{ch: make(chan T, buffer), done: make(chan struct{})}
}

// Send enqueues msg, blocking if the buffer is full, and returns
// ErrChannelClosed if the mailbox has been closed. Honors ctx cancellation.
func (m *mailbox[T]) Send(ctx context.Context, msg T) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed.Load() {
		return ErrChannelClosed
	}

	select {
	case m.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend enqueues msg without blocking, returning false if the buffer is
// full or the mailbox is closed.
func (m *mailbox[T]) TrySend(msg T) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed.Load() {
		return false
	}

	select {
	case m.ch <- msg:
		return true
	default:
		return false
	}
}

// Closed returns a channel that is closed once the mailbox has been closed,
// whether or not buffered messages remain to be received.
func (m *mailbox[T]) Closed() <-chan struct{} {
	return m.done
}

// IsClosed reports whether Close has been called.
func (m *mailbox[T]) IsClosed() bool {
	return m.closed.Load()
}

// Close marks the mailbox closed: further Send/TrySend calls fail, and the
// underlying channel is closed so Receive/Drain observe end-of-stream once
// buffered messages are exhausted. Close is idempotent.
func (m *mailbox[T]) Close() {
	m.once.Do(func() {
		m.mu.Lock()
		m.closed.Store(true)
		close(m.ch)
		close(m.done)
		m.mu.Unlock()
	})
}

// Receive returns an iterator over the mailbox's messages, honoring ctx
// cancellation as an early-exit condition. Ranging over the sequence ends
// when the mailbox is closed and drained, or ctx is done.
func (m *mailbox[T]) Receive(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			select {
			case msg, ok := <-m.ch:
				if !ok {
					return
				}
				if !yield(msg) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}
}

// Drain returns an iterator over whatever messages remain buffered, without
// blocking for more. Used during shutdown to flush a mailbox to a
// dead-letter sink or a StrategyProcessAll termination pass.
func (m *mailbox[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			select {
			case msg, ok := <-m.ch:
				if !ok {
					return
				}
				if !yield(msg) {
					return
				}
			default:
				return
			}
		}
	}
}
