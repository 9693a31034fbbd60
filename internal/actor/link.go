package actor

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
	"weak"
)

// linkState is the refcounted heart shared by every strong Link clone and
// every WeakLink pointing at one actor. Exactly one of these exists per
// spawned actor.
//
// Go has no destructor, so "dropping the last Link cancels the actor" is
// implemented explicitly: Clone increments
// refcount, Release decrements it and cancels+marks dead on reaching zero.
// weak.Pointer (Go 1.24+) is used for WeakLink so a dead actor's state can
// actually be reclaimed once every strong Link and the runtime loop's own
// closures have let go of it; `dead` is the authoritative liveness flag
// Upgrade checks, independent of whether the GC has run yet.
type linkState[M any, C any, S any] struct {
	id       string
	mailbox  *mailbox[M]
	token    *CancelToken[C]
	shared   atomic.Pointer[S]
	refcount atomic.Int64
	dead     atomic.Bool

	// exited is closed once by runLoop after the actor's loop, Terminate,
	// and every tracked child goroutine have fully finished — the signal
	// CancelAndWait blocks on. Kept separate from the mailbox's own
	// channel so waiting for loop-exit never races the loop's own reads
	// off that channel.
	exited chan struct{}
}

// Link is a strong, refcounted reference to a running actor. Sending
// through a Link never succeeds once the actor is dead; the zero Link
// (as from a failed Spawn) is always dead.
//
// Grounded on actor.go's actorRefImpl (Tell/Ask) plus system.go's
// type-erasure pattern, restructured around the explicit refcount above.
type Link[M any, C any, S any] struct {
	state *linkState[M, C, S]
}

// ID returns the target actor's stable identifier. The zero Link returns
// the empty string.
func (l Link[M, C, S]) ID() string {
	if l.state == nil {
		return ""
	}
	return l.state.id
}

// IsDead reports whether the target actor's runtime loop has exited or its
// last strong Link has been released (which marks it dead at once, while the
// loop may still be shutting down).
func (l Link[M, C, S]) IsDead() bool {
	return l.state == nil || l.state.dead.Load()
}

// Tell enqueues msg into the actor's mailbox, blocking (subject to ctx)
// while the mailbox is full.
func (l Link[M, C, S]) Tell(ctx context.Context, msg M) error {
	if l.IsDead() || l.state.token.IsCancelled() {
		return ErrActorDead
	}
	if err := l.state.mailbox.Send(ctx, msg); err != nil {
		return err
	}
	return nil
}

// TryTell is the non-blocking form of Tell.
func (l Link[M, C, S]) TryTell(msg M) error {
	if l.IsDead() || l.state.token.IsCancelled() {
		return ErrActorDead
	}
	if !l.state.mailbox.TrySend(msg) {
		return ErrMailboxFull
	}
	return nil
}

// SendRawMessage bypasses every SendableMessage wrapper and pushes a
// pre-formed M straight onto the mailbox, returning a MessageHandle that
// reflects only whether delivery succeeded, not any application-level
// reply.
func (l Link[M, C, S]) SendRawMessage(ctx context.Context, msg M) *MessageHandle[struct{}] {
	if err := l.Tell(ctx, msg); err != nil {
		return Failed[struct{}](fmt.Errorf("%w: %w", ErrSendFailed, err))
	}
	return Resolved[struct{}](struct{}{})
}

// Alive reports whether the target actor's mailbox is still open: once the
// mailbox is closed, no further send will ever succeed. The runtime loop
// closes the mailbox only on its way out, so after a Cancel, Alive stays
// true (while Tell already fails) until the loop has finished shutting down.
func (l Link[M, C, S]) Alive() bool {
	if l.state == nil {
		return false
	}
	return !l.state.mailbox.IsClosed()
}

// CancelAndWait is a two-step barrier: cancel the actor with reason, then
// suspend (subject to ctx) until its runtime loop has fully exited. Dropping
// the last strong Link to a live actor is observable this way — see the
// last-drop termination property this package's tests exercise.
func (l Link[M, C, S]) CancelAndWait(ctx context.Context, reason C) error {
	if l.state == nil {
		return ErrActorDead
	}
	l.state.token.Cancel(reason)
	select {
	case <-l.state.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the actor's most recently published Shared snapshot without
// sending it any message, or the zero S and false if the actor is dead and
// never published one.
func (l Link[M, C, S]) State() (S, bool) {
	if l.state == nil {
		var zero S
		return zero, false
	}
	p := l.state.shared.Load()
	if p == nil {
		var zero S
		return zero, false
	}
	return *p, true
}

// Cancel cancels the actor's CancelToken directly with reason.
func (l Link[M, C, S]) Cancel(reason C) bool {
	if l.state == nil {
		return false
	}
	return l.state.token.Cancel(reason)
}

// Clone returns a new strong Link sharing the same underlying actor and
// increments its refcount. Each clone must eventually be Released.
func (l Link[M, C, S]) Clone() Link[M, C, S] {
	if l.state != nil {
		l.state.refcount.Add(1)
	}
	return l
}

// Release decrements the refcount. When it reaches zero the actor's
// CancelToken is cancelled with the zero C value (if not already cancelled
// for some other reason) and the link is marked dead.
func (l Link[M, C, S]) Release() {
	if l.state == nil {
		return
	}
	if l.state.refcount.Add(-1) == 0 {
		l.state.token.Cancel(*new(C))
		l.state.dead.Store(true)
	}
}

// Downgrade produces a WeakLink that does not keep the actor alive and does
// not prevent cancellation-on-last-release.
func (l Link[M, C, S]) Downgrade() WeakLink[M, C, S] {
	if l.state == nil {
		return WeakLink[M, C, S]{}
	}
	return WeakLink[M, C, S]{ptr: weak.Make(l.state)}
}

// ToDyn erases M/C/S into a DynLink, for registries and message brokers that
// hold references to actors of differing concrete types (e.g. the
// mcpbridge tool surface, or a Receptionist-style directory).
func (l Link[M, C, S]) ToDyn() DynLink {
	if l.state == nil {
		return DynLink{}
	}
	return DynLink{
		id:   l.state.id,
		kind: reflect.TypeFor[M](),
		boxed: func() any {
			return l
		},
		send: func(ctx context.Context, msg any) error {
			m, ok := msg.(M)
			if !ok {
				return ErrDynSend
			}
			return l.Tell(ctx, m)
		},
	}
}

// Ask sends payload to an Envelope-backed actor and awaits its reply,
// folding NewEnvelope+Tell+Await into a single call for the common
// request/response case.
func Ask[T any, R any, C any, S any](ctx context.Context, l Link[*Envelope[T, R], C, S], payload T) (R, error) {
	env, handle := NewEnvelope[T, R](payload)
	if err := l.Tell(ctx, env); err != nil {
		var zero R
		return zero, err
	}
	return handle.Await(ctx)
}

// WeakLink is a non-owning reference to an actor: it never keeps the actor
// alive and never blocks cancellation-on-last-release. Upgrade must be
// called to get a usable strong Link.
type WeakLink[M any, C any, S any] struct {
	ptr weak.Pointer[linkState[M, C, S]]
}

// Upgrade attempts to obtain a strong Link, incrementing the refcount on
// success. It fails if the actor is dead (refcount already hit zero) even
// if the underlying memory has not yet been garbage collected.
func (w WeakLink[M, C, S]) Upgrade() (Link[M, C, S], bool) {
	state := w.ptr.Value()
	if state == nil || state.dead.Load() {
		return Link[M, C, S]{}, false
	}
	state.refcount.Add(1)
	return Link[M, C, S]{state: state}, true
}

// SendRawMessage mirrors Link.SendRawMessage: it upgrades, forwards, and
// releases the temporary strong Link, or synthesizes an ErrActorDead-shaped
// failure without ever touching a mailbox when the actor is already gone.
func (w WeakLink[M, C, S]) SendRawMessage(ctx context.Context, msg M) *MessageHandle[struct{}] {
	l, ok := w.Upgrade()
	if !ok {
		return Failed[struct{}](ErrActorDead)
	}
	defer l.Release()
	return l.SendRawMessage(ctx, msg)
}

// Cancel mirrors Link.Cancel: a no-op reporting false once the actor is
// already dead, since there is nothing left to cancel.
func (w WeakLink[M, C, S]) Cancel(reason C) bool {
	l, ok := w.Upgrade()
	if !ok {
		return false
	}
	defer l.Release()
	return l.Cancel(reason)
}

// Alive mirrors Link.Alive, reporting false for an actor that has already
// been garbage collected or whose last strong Link has been released.
func (w WeakLink[M, C, S]) Alive() bool {
	l, ok := w.Upgrade()
	if !ok {
		return false
	}
	defer l.Release()
	return l.Alive()
}

// DynLink is a fully type-erased actor reference: it knows only the
// target's stable ID and its Message type's reflect.Type, enough to route a
// dynamically-typed Send and to support downcasting back to a concrete Link
// via To.
type DynLink struct {
	id    string
	kind  reflect.Type
	boxed func() any
	send  func(ctx context.Context, msg any) error
}

// ID returns the target actor's stable identifier.
func (d DynLink) ID() string { return d.id }

// Send delivers msg if its dynamic type matches the target's Message type,
// or ErrDynSend otherwise.
func (d DynLink) Send(ctx context.Context, msg any) error {
	if d.send == nil {
		return ErrActorDead
	}
	return d.send(ctx, msg)
}

// Is reports whether d's underlying actor expects messages of type M.
func Is[M any](d DynLink) bool {
	if d.kind == nil {
		return false
	}
	return d.kind == reflect.TypeFor[M]()
}

// To downcasts d back to a concrete Link[M, C, S]. Per this package's sole
// documented exception to "no panics cross an exported API boundary," a
// mismatched type tag panics rather than returning an error — callers that
// need a non-panicking probe should guard with Is[M] first. C and S cannot be
// checked independently since Go erases them from DynLink, so a mismatched
// C/S with a matching M panics on the type assertion below too — callers
// should pair To with a single well-known (M, C, S) triple per message type,
// the same discipline Receptionist's ServiceKey enforces in system.go.
func To[M any, C any, S any](d DynLink) Link[M, C, S] {
	if !Is[M](d) || d.boxed == nil {
		panic(fmt.Sprintf("actor: DynLink %q: wrong type tag for %T", d.id, *new(M)))
	}
	l, ok := d.boxed().(Link[M, C, S])
	if !ok {
		panic(fmt.Sprintf("actor: DynLink %q: boxed value is not Link[%T,...]", d.id, *new(M)))
	}
	return l
}
