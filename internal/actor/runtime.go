package actor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TerminationStrategy controls what happens to messages still sitting in an
// actor's mailbox once its CancelToken fires.
type TerminationStrategy int

const (
	// StrategyExit stops dispatching immediately once cancelled: any
	// message still buffered in the mailbox is left undelivered and the
	// mailbox is closed so further sends observe ErrActorDead.
	StrategyExit TerminationStrategy = iota

	// StrategyProcessAll keeps draining and handling whatever is already
	// buffered in the mailbox before calling Terminate and exiting. New
	// sends after cancellation still fail, but a burst already enqueued
	// is not silently dropped.
	StrategyProcessAll
)

// ActorContext is the non-generic slice of per-actor runtime facilities
// every Handler/Call/Exec needs regardless of the actor's Message/Cancel/
// Shared type parameters: a stable ID for logging, a cancellation signal,
// and the ability to spawn tracked child goroutines that the runtime waits
// on during shutdown.
//
// Grounded on actor.go's per-Actor bookkeeping (ID, internal context,
// started/stopped state) generalized away from any one M/R pair.
type ActorContext struct {
	id     string
	signal cancelSignal
	wg     *sync.WaitGroup
}

type cancelSignal interface {
	Done() <-chan struct{}
	IsCancelled() bool
}

// ID returns the actor's stable identifier (a UUID assigned at spawn time
// unless overridden via WithActorID).
func (a *ActorContext) ID() string { return a.id }

// Done returns a channel closed once the actor's cancellation token fires.
func (a *ActorContext) Done() <-chan struct{} { return a.signal.Done() }

// IsCancelled reports whether the actor's token has fired.
func (a *ActorContext) IsCancelled() bool { return a.signal.IsCancelled() }

// Spawn launches fn in its own goroutine, tracked by the actor's runtime
// loop so that shutdown (under either TerminationStrategy) waits for it to
// finish before declaring the actor fully stopped.
func (a *ActorContext) Spawn(ctx context.Context, fn func(context.Context)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(ctx)
	}()
}

// Init is handed to Actor.Init: everything available before the actor's
// runtime loop starts processing messages.
type Init[M any, C any, S any] struct {
	*ActorContext
	Token *CancelToken[C]
	Self  WeakLink[M, C, S]
}

// Exec is handed to Actor.Handle/Terminate: everything available while
// processing a message, including a way to publish an updated Shared
// snapshot visible to holders of a Link without sending a message.
type Exec[M any, C any, S any] struct {
	*ActorContext
	Token   *CancelToken[C]
	Self    WeakLink[M, C, S]
	publish func(S)
}

// Publish replaces the Shared snapshot observable via Link.State.
func (e *Exec[M, C, S]) Publish(s S) {
	if e.publish != nil {
		e.publish(s)
	}
}

// Actor is implemented by user-defined actor types. The actor's own struct
// IS its private state (handlers use pointer-receiver methods the same way
// any stateful Go type does); S is only the subset of state an actor
// chooses to publish for lock-free reads via Link.State.
//
// Grounded on interface.go's ActorBehavior[M,R], generalized from a single
// Receive(ctx, M) (R, error) method into an Init/Handle/Tick/Terminate
// lifecycle.
type Actor[M any, C any, S any] interface {
	// Init runs once, before the mailbox is drained, to perform any
	// asynchronous setup (dial a connection, warm a cache).
	Init(ctx context.Context, init *Init[M, C, S]) error

	// Snapshot returns the value to publish as this actor's Shared state
	// immediately after Init succeeds. It is called only that once; later
	// updates are whatever values the actor passes to Exec.Publish.
	Snapshot() S

	// Handle processes one message.
	Handle(ctx context.Context, ectx *Exec[M, C, S], msg M)

	// Tick optionally returns a channel the runtime loop selects on
	// alongside the mailbox, for actors that do periodic work
	// independent of incoming messages. Returning nil disables ticking.
	Tick() <-chan time.Time

	// OnTick runs whenever Tick's channel yields a value. Actors that
	// return a nil Tick channel can implement this as a no-op; it is
	// never called with a synthesized message, unlike Handle.
	OnTick(ctx context.Context, ectx *Exec[M, C, S])

	// Terminate runs once the actor's CancelToken fires (or StrategyExit
	// is about to exit), before the mailbox is closed.
	Terminate(ctx context.Context, ectx *Exec[M, C, S], reason CancelReason[C])

	// TerminationStrategy selects how buffered messages are treated once
	// cancellation fires.
	TerminationStrategy() TerminationStrategy

	// Crash is invoked if Init or Handle panics; the runtime recovers the
	// panic, calls Crash with a wrapped error, and then tears the actor
	// down as if its token had been cancelled.
	Crash(err error)
}

// SpawnOption configures Spawn.
type SpawnOption func(*spawnOptions)

type spawnOptions struct {
	id         string
	mailboxCap int
	parentTok  any // *CancelToken[C], type-erased until Spawn's C is known
}

// WithActorID overrides the UUID the runtime would otherwise assign.
func WithActorID(id string) SpawnOption {
	return func(o *spawnOptions) { o.id = id }
}

// WithMailboxCapacity sets the bounded mailbox buffer size (default 10).
func WithMailboxCapacity(n int) SpawnOption {
	return func(o *spawnOptions) { o.mailboxCap = n }
}

// WithParentToken runs the spawned actor as a child of an existing
// CancelToken[C], so cancelling the parent cancels the new actor too.
func WithParentToken[C any](parent *CancelToken[C]) SpawnOption {
	return func(o *spawnOptions) { o.parentTok = parent }
}

const defaultMailboxCapacity = 10

// Spawn starts a new actor goroutine running a, returning a strong Link the
// caller owns. The actor runs until its CancelToken is cancelled (directly,
// by a parent, or by the last Link being released) or the process is torn
// down.
//
// Grounded on actor.go's NewActor+Start (sync.Once-guarded single start,
// goroutine-per-actor loop) generalized to the Init/Handle/Tick/Terminate
// lifecycle and a refcounted Link instead of a plain ActorRef.
func Spawn[A Actor[M, C, S], M any, C any, S any](
	ctx context.Context, a A, opts ...SpawnOption,
) (Link[M, C, S], error) {

	cfg := spawnOptions{mailboxCap: defaultMailboxCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	id := cfg.id
	if id == "" {
		id = uuid.NewString()
	}

	var token *CancelToken[C]
	if parent, ok := cfg.parentTok.(*CancelToken[C]); ok && parent != nil {
		token = parent.Child()
	} else {
		token = NewCancelToken[C]()
	}

	box := newMailbox[M](cfg.mailboxCap)

	state := &linkState[M, C, S]{
		id:      id,
		mailbox: box,
		token:   token,
		exited:  make(chan struct{}),
	}
	state.refcount.Store(1)

	link := Link[M, C, S]{state: state}
	weakSelf := link.Downgrade()

	wg := &sync.WaitGroup{}
	actorCtx := &ActorContext{id: id, signal: token, wg: wg}

	init := &Init[M, C, S]{ActorContext: actorCtx, Token: token, Self: weakSelf}
	if err := runInit(ctx, a, init); err != nil {
		link.Release()
		return Link[M, C, S]{}, err
	}
	state.shared.Store(snapshotPtr(a.Snapshot()))

	ectx := &Exec[M, C, S]{
		ActorContext: actorCtx,
		Token:        token,
		Self:         weakSelf,
		publish: func(s S) {
			state.shared.Store(snapshotPtr(s))
		},
	}

	go runLoop(ctx, a, state, ectx, wg)

	return link, nil
}

func snapshotPtr[S any](s S) *S { return &s }

func runInit[A Actor[M, C, S], M any, C any, S any](ctx context.Context, a A, init *Init[M, C, S]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = wrapPanic(r)
			a.Crash(err)
		}
	}()
	return a.Init(ctx, init)
}

// replyFailer is implemented by every message wrapper (Envelope,
// multiMessage) whose reply cell can still be unblocked with a failure
// instead of a value. The dispatch loop type-asserts a generic M against
// this interface so a handler panic (or an actor dying with a message still
// in flight) fails the caller's MessageHandle with ErrRecvFailed rather than
// leaving it to hang forever.
type replyFailer interface {
	failReply(err error)
}

func runLoop[A Actor[M, C, S], M any, C any, S any](
	ctx context.Context, a A, state *linkState[M, C, S], ectx *Exec[M, C, S], wg *sync.WaitGroup,
) {
	strategy := a.TerminationStrategy()

	// dispatch reports whether the handler panicked. A panic cancels the
	// actor's token (so the loop stops dequeuing and subsequent sends see
	// ErrActorDead) and fails the in-flight message's reply cell, if it has
	// one, with ErrRecvFailed instead of leaving the caller's MessageHandle
	// pending forever.
	dispatch := func(msg M) (crashed bool) {
		defer func() {
			if r := recover(); r != nil {
				a.Crash(wrapPanic(r))
				ectx.Token.Cancel(*new(C))
				if rf, ok := any(msg).(replyFailer); ok {
					rf.failReply(ErrRecvFailed)
				}
				crashed = true
			}
		}()
		a.Handle(ctx, ectx, msg)
		return false
	}

	onTick := func() (crashed bool) {
		defer func() {
			if r := recover(); r != nil {
				a.Crash(wrapPanic(r))
				ectx.Token.Cancel(*new(C))
				crashed = true
			}
		}()
		a.OnTick(ctx, ectx)
		return false
	}

	loop := func() bool {
		tick := a.Tick()
		for {
			select {
			case msg, ok := <-state.mailbox.ch:
				if !ok {
					return true
				}
				if dispatch(msg) {
					return false
				}
			case <-ectx.Token.Done():
				return false
			case <-ctx.Done():
				ectx.Token.Cancel(*new(C))
				return false
			case <-tick:
				if onTick() {
					return false
				}
			}
		}
	}
	drained := loop()

	reason, _ := ectx.Token.Reason()

	if !drained {
		for msg := range state.mailbox.Drain() {
			if strategy == StrategyProcessAll {
				dispatch(msg)
				continue
			}
			if rf, ok := any(msg).(replyFailer); ok {
				rf.failReply(ErrRecvFailed)
			}
		}
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				a.Crash(wrapPanic(r))
			}
		}()
		a.Terminate(ctx, ectx, reason)
	}()

	state.mailbox.Close()
	state.dead.Store(true)
	wg.Wait()
	close(state.exited)
}

type panicError struct{ v any }

func (p panicError) Error() string { return panicMessage(p.v) }

func wrapPanic(v any) error { return panicError{v: v} }

func panicMessage(v any) string {
	if err, ok := v.(error); ok {
		return "actor: panic: " + err.Error()
	}
	return "actor: panic recovered"
}
