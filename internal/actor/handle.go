package actor

import (
	"context"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// HandleStatus is the lifecycle state of a MessageHandle.
type HandleStatus int

const (
	// StatusPending means no reply has been observed yet.
	StatusPending HandleStatus = iota
	// StatusConsumed means a reply was received and consumed.
	StatusConsumed
	// StatusFailed means the handle resolved to an error (timeout,
	// cancellation, or a dead target) instead of a value.
	StatusFailed
)

func (s HandleStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConsumed:
		return "consumed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MessageHandle is the consumer-side half of a replyCell: the awaitable
// object an Ask-style send hands back to its caller. It generalizes
// interface.go's Future[T]/Promise[T] (Await/ThenApply/OnComplete) into a
// Pending/Consumed/Failed state machine, adding WithTimeout/Forget/
// MapReply/Then/MapErr convenience wrappers.
//
// Settlement is stored as an fn.Result[R] (interface.go's own Future[T]
// settles via fn.Result[T], the same reply/option vocabulary from the
// teacher's dependency graph) rather than a bare (value, error) pair, so
// Await's (R, error) return is just res.Unpack() at the boundary.
type MessageHandle[R any] struct {
	cell *replyCell[R]

	mu     sync.Mutex
	status HandleStatus
	result fn.Result[R]
}

func newMessageHandle[R any](cell *replyCell[R]) *MessageHandle[R] {
	return &MessageHandle[R]{cell: cell, status: StatusPending}
}

// Resolved builds a MessageHandle that is already settled with value v and
// no error. Useful for synchronous Handler implementations (and tests) that
// want to hand back an already-complete handle.
func Resolved[R any](v R) *MessageHandle[R] {
	return &MessageHandle[R]{status: StatusConsumed, result: fn.Ok(v)}
}

// Failed builds a MessageHandle that is already settled with err.
func Failed[R any](err error) *MessageHandle[R] {
	return &MessageHandle[R]{status: StatusFailed, result: fn.Err[R](err)}
}

// Status reports the handle's current lifecycle state without blocking.
func (h *MessageHandle[R]) Status() HandleStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Await blocks until a reply arrives, ctx is cancelled, or the handle has
// already resolved (in which case it returns immediately with the cached
// result). Resolution is cached: a second Await call never blocks again.
func (h *MessageHandle[R]) Await(ctx context.Context) (R, error) {
	h.mu.Lock()
	if h.status != StatusPending {
		res := h.result
		h.mu.Unlock()
		return res.Unpack()
	}
	cell := h.cell
	h.mu.Unlock()

	if cell == nil {
		return h.settle(StatusFailed, fn.Err[R](ErrActorDead))
	}

	select {
	case v, ok := <-cell.ch:
		if !ok {
			return h.settle(StatusFailed, fn.Err[R](cell.failure()))
		}
		return h.settle(StatusConsumed, fn.Ok(v))
	case <-ctx.Done():
		return h.settle(StatusFailed, fn.Err[R](ctx.Err()))
	}
}

// WithTimeout is Await bounded by a duration instead of a caller-supplied
// context; a deadline that elapses first resolves the handle to
// ErrHandleTimeout.
func (h *MessageHandle[R]) WithTimeout(parent context.Context, d time.Duration) (R, error) {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()

	v, err := h.Await(ctx)
	if err == context.DeadlineExceeded {
		h.mu.Lock()
		h.result = fn.Err[R](ErrHandleTimeout)
		h.mu.Unlock()
		return v, ErrHandleTimeout
	}
	return v, err
}

func (h *MessageHandle[R]) settle(status HandleStatus, res fn.Result[R]) (R, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status != StatusPending {
		return h.result.Unpack()
	}
	h.status = status
	h.result = res
	return res.Unpack()
}

// TryReply is a non-blocking poll: it reports the reply if one is already
// available (consuming it), without waiting.
func (h *MessageHandle[R]) TryReply() (R, bool) {
	h.mu.Lock()
	if h.status != StatusPending {
		v, err := h.result.Unpack()
		ok := h.status == StatusConsumed && err == nil
		h.mu.Unlock()
		return v, ok
	}
	cell := h.cell
	h.mu.Unlock()

	if cell == nil {
		return *new(R), false
	}

	select {
	case v, ok := <-cell.ch:
		if !ok {
			h.settle(StatusFailed, fn.Err[R](cell.failure()))
			return *new(R), false
		}
		v, _ = h.settle(StatusConsumed, fn.Ok(v))
		return v, true
	default:
		return *new(R), false
	}
}

// Forget detaches the handle from its caller: the eventual reply (if any)
// is discarded rather than observed. Used for genuine fire-and-forget sends
// that still went through the Ask path (e.g. to reuse a Handler).
func (h *MessageHandle[R]) Forget() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status == StatusPending {
		h.status = StatusConsumed
	}
}

// MapReply derives a new MessageHandle[U] that resolves once h does,
// applying f to a successful value. Errors pass through unchanged.
func MapReply[R any, U any](h *MessageHandle[R], f func(R) U) *MessageHandle[U] {
	out := &MessageHandle[U]{status: StatusPending}
	go func() {
		v, err := h.Await(context.Background())
		if err != nil {
			out.settle(StatusFailed, fn.Err[U](err))
			return
		}
		out.settle(StatusConsumed, fn.Ok(f(v)))
	}()
	return out
}

// MapErr derives a new MessageHandle that transforms a failure's error
// through f, leaving successful values untouched.
func MapErr[R any](h *MessageHandle[R], f func(error) error) *MessageHandle[R] {
	out := &MessageHandle[R]{status: StatusPending}
	go func() {
		v, err := h.Await(context.Background())
		if err != nil {
			out.settle(StatusFailed, fn.Err[R](f(err)))
			return
		}
		out.settle(StatusConsumed, fn.Ok(v))
	}()
	return out
}

// Then registers f to run (in its own goroutine) once h resolves
// successfully; it is a fire-and-forget observer, not a chained handle.
func (h *MessageHandle[R]) Then(f func(R)) {
	go func() {
		v, err := h.Await(context.Background())
		if err == nil {
			f(v)
		}
	}()
}
