package actor

import "context"

// Reply is the value a Handler hands back from Handle. Besides carrying the
// actual reply payload, it doubles as the async-reply sentinel: a Handler
// that intends to answer later (via Call.Reply from another goroutine)
// returns Async[R]() instead of a value, and the dispatch loop skips
// auto-firing the reply cell for it.
//
// Re-expressed as a small wrapper type since Go lacks a dedicated sentinel
// value per instantiation of a generic type parameter.
type Reply[T any] struct {
	value T
	async bool
}

// Value wraps a synchronous reply value.
func Value[T any](v T) Reply[T] { return Reply[T]{value: v} }

// Async builds the "I'll reply later" sentinel for a Reply[T].
func Async[T any]() Reply[T] { return Reply[T]{async: true} }

// IsAsync reports whether this Reply is the async-reply sentinel.
func (r Reply[T]) IsAsync() bool { return r.async }

// Unwrap returns the carried value (undefined if IsAsync is true).
func (r Reply[T]) Unwrap() T { return r.value }

// Call is the per-message context a Handler receives: it exposes the
// take-once reply cell (Reply/TryReply/ReplyAsync) and the invoking actor's
// ActorContext.
type Call[A any, R any] struct {
	cell *replyCell[R]
	Ctx  *ActorContext
}

// Reply fires the reply cell with v. Returns false if already fired.
func (c *Call[A, R]) Reply(v R) bool {
	return c.cell.fire(v)
}

// TryReply is Reply but reports ErrReplyTaken instead of a bool.
func (c *Call[A, R]) TryReply(v R) error {
	if !c.cell.fire(v) {
		return ErrReplyTaken
	}
	return nil
}

// ReplyAsync builds the sentinel a Handler returns from Handle to signal
// "I will call c.Reply myself, later, from another goroutine."
func (c *Call[A, R]) ReplyAsync() Reply[R] {
	return Async[R]()
}

// Replied reports whether this call's reply cell has already fired.
func (c *Call[A, R]) Replied() bool {
	return c.cell.alreadyFired()
}

// Handler is implemented by adapters binding one message type T to one
// reply type R for an actor of type A. Since Go methods cannot be
// overloaded by parameter type, actor authors do not implement Handler
// directly on their actor type; instead they write ordinarily-named methods
// (HandleIncrement, HandleReset, ...) and wrap them with HandlerFunc at
// registration time via a method expression, e.g.
// HandlerFunc[Worker, Task, TaskResult]((*Worker).HandleTask) — the
// parameter order below (actor, ctx, call, msg) matches a method
// expression's signature exactly, so no extra closure is needed. This also
// keeps construction side-agnostic to any one actor instance: the concrete
// *A is supplied later, by Invoke, once the message actually reaches its
// target's mailbox.
type Handler[A any, T any, R any] interface {
	Handle(actor *A, ctx context.Context, call *Call[A, R], msg T) Reply[R]
}

// HandlerFunc adapts a plain function (or a bound method expression) to
// Handler[A, T, R].
type HandlerFunc[A any, T any, R any] func(actor *A, ctx context.Context, call *Call[A, R], msg T) Reply[R]

// Handle implements Handler.
func (f HandlerFunc[A, T, R]) Handle(actor *A, ctx context.Context, call *Call[A, R], msg T) Reply[R] {
	return f(actor, ctx, call, msg)
}

// Multi is the type-erased message envelope used by actors whose Message
// type dispatches across many (payload, reply) pairs instead of a single
// fixed Envelope[T,R]. An actor's Handle method receives a Multi[A] and
// simply calls Invoke (or the DispatchMulti helper) to run whichever
// Handler produced it.
type Multi[A any] interface {
	// Invoke runs the boxed handler against actor and returns once the
	// handler call completes (the reply may still be pending if the
	// handler chose Async).
	Invoke(ctx context.Context, actor *A, ectx *ActorContext)
}

// multiMessage is the concrete Multi[A] built by NewHandlerMessage: a boxed
// (payload, reply cell, handler) triple closing over the two type
// parameters the actor's own Message type (Multi[A]) erases.
type multiMessage[A any, T any, R any] struct {
	payload T
	cell    *replyCell[R]
	handler Handler[A, T, R]
}

func (m *multiMessage[A, T, R]) Invoke(ctx context.Context, actor *A, ectx *ActorContext) {
	call := &Call[A, R]{cell: m.cell, Ctx: ectx}
	reply := m.handler.Handle(actor, ctx, call, m.payload)
	if reply.IsAsync() {
		return
	}
	m.cell.fire(reply.Unwrap())
}

// failReply implements the package-private replyFailer interface, letting
// runtime.go's dispatch loop unblock a Multi caller's MessageHandle when the
// handler panics before Invoke ever reaches the reply cell.
func (m *multiMessage[A, T, R]) failReply(err error) {
	m.cell.fail(err)
}

// NewHandlerMessage boxes payload and handler into a Multi[A] ready to send
// to an actor's mailbox, returning the MessageHandle the caller awaits for
// the reply.
func NewHandlerMessage[A any, T any, R any](handler Handler[A, T, R], payload T) (Multi[A], *MessageHandle[R]) {
	cell := newReplyCell[R]()
	msg := &multiMessage[A, T, R]{payload: payload, cell: cell, handler: handler}
	return msg, newMessageHandle(cell)
}

// DispatchMulti runs msg against actor. It is a one-line helper so an
// actor's Handle(ctx, ectx, msg Multi[A]) method body reads as a single
// dispatch statement: `actor.DispatchMulti(ctx, a, ectx.ActorContext, msg)`.
func DispatchMulti[A any](ctx context.Context, actor *A, ectx *ActorContext, msg Multi[A]) {
	msg.Invoke(ctx, actor, ectx)
}
