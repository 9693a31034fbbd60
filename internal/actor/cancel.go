package actor

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// SourceLocation identifies the call site that issued a cancellation, for
// diagnostics. Captured with runtime.Caller the way actor.go captures
// construction sites in error wrapping.
type SourceLocation struct {
	File     string
	Line     int
	Function string
}

func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d (%s)", s.File, s.Line, s.Function)
}

func callerLocation(skip int) SourceLocation {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return SourceLocation{}
	}
	fn := runtime.FuncForPC(pc)
	name := "unknown"
	if fn != nil {
		name = fn.Name()
	}
	return SourceLocation{File: file, Line: line, Function: name}
}

// CancelReason bundles the reason value a token was cancelled with, along
// with where the cancellation originated.
type CancelReason[C any] struct {
	Value  C
	Source SourceLocation
}

// CancelToken is a node in a hierarchical cancellation tree: cancelling a
// parent propagates to every child that existed at cancel time (and to any
// child created afterward, since new children are born already-cancelled).
// The transition Running -> Cancelled is monotonic and first-cancel-wins:
// once a reason is recorded it can never be overwritten.
//
// Modeled on actor.go's mergeContexts/context.WithCancel plumbing,
// generalized into a reason-carrying tree since context.Context alone has no
// slot for a typed cancellation reason.
type CancelToken[C any] struct {
	mu       sync.Mutex
	done     chan struct{}
	reason   *CancelReason[C]
	children []*CancelToken[C]
	closed   bool
}

// NewCancelToken creates a fresh, un-cancelled root token.
func NewCancelToken[C any]() *CancelToken[C] {
	return &CancelToken[C]{
		done: make(chan struct{}),
	}
}

// Child creates a new token subordinate to t. If t is already cancelled, the
// child is born already-cancelled with the same reason.
func (t *CancelToken[C]) Child() *CancelToken[C] {
	child := NewCancelToken[C]()

	t.mu.Lock()
	reason := t.reason
	if reason == nil {
		t.children = append(t.children, child)
	}
	t.mu.Unlock()

	if reason != nil {
		child.CancelWithReason(*reason)
	}

	return child
}

// Cancel records reason (tagging it with the caller's source location) and
// propagates to every child, unless the token was already cancelled.
func (t *CancelToken[C]) Cancel(reason C) bool {
	return t.cancelWithReason(CancelReason[C]{
		Value:  reason,
		Source: callerLocation(1),
	})
}

// CancelWithReason is like Cancel but lets the caller supply (and preserve)
// an existing CancelReason, e.g. one propagated from a parent token.
func (t *CancelToken[C]) CancelWithReason(reason CancelReason[C]) bool {
	return t.cancelWithReason(reason)
}

func (t *CancelToken[C]) cancelWithReason(reason CancelReason[C]) bool {
	t.mu.Lock()
	if t.reason != nil {
		// First-cancel-wins: a later cancellation is a no-op.
		t.mu.Unlock()
		return false
	}
	t.reason = &reason
	children := t.children
	t.children = nil
	if !t.closed {
		t.closed = true
		close(t.done)
	}
	t.mu.Unlock()

	for _, child := range children {
		child.CancelWithReason(reason)
	}

	return true
}

// IsCancelled reports whether the token has been cancelled.
func (t *CancelToken[C]) IsCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason != nil
}

// Reason returns the recorded cancellation reason, if any.
func (t *CancelToken[C]) Reason() (CancelReason[C], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reason == nil {
		return CancelReason[C]{}, false
	}
	return *t.reason, true
}

// Done returns a channel closed the instant the token is cancelled, mirroring
// context.Context's Done() so CancelToken composes with select statements
// alongside ctx.Done().
func (t *CancelToken[C]) Done() <-chan struct{} {
	return t.done
}

// Cancelled blocks until the token is cancelled or ctx is done, returning the
// recorded reason in the former case.
func (t *CancelToken[C]) Cancelled(ctx context.Context) (CancelReason[C], bool) {
	select {
	case <-t.done:
		reason, ok := t.Reason()
		return reason, ok
	case <-ctx.Done():
		return CancelReason[C]{}, false
	}
}

// CancelledOrDropped suspends until the token is cancelled or the dropped
// channel closes (signalling every sender handle has gone away with no
// explicit cancellation). It reports the reason when cancellation actually
// occurred, or (_, false) if dropped fired first.
func (t *CancelToken[C]) CancelledOrDropped(ctx context.Context, dropped <-chan struct{}) (CancelReason[C], bool) {
	select {
	case <-t.done:
		reason, ok := t.Reason()
		return reason, ok
	case <-dropped:
		// Another drain of t.done in case both fired concurrently.
		select {
		case <-t.done:
			reason, ok := t.Reason()
			return reason, ok
		default:
		}
		return CancelReason[C]{}, false
	case <-ctx.Done():
		return CancelReason[C]{}, false
	}
}

// Reset rebuilds the token into a fresh, un-cancelled state, detaching any
// previously recorded reason and children. Used by Proxy when it re-spawns
// an actor behind a stable external Link.
func (t *CancelToken[C]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reason = nil
	t.children = nil
	t.closed = false
	t.done = make(chan struct{})
}
