package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// SendableMessage adapts a caller's payload into a concrete mailbox message
// M plus the MessageHandle[R] that will eventually carry its reply. It lets
// SendMessage and friends stay generic over *how* the reply is wired
// (a plain Envelope, a Multi[A]/Handler pair, or a relayed envelope from a
// third party) instead of just over the Envelope case the way Ask is.
type SendableMessage[M any, R any] interface {
	// Build constructs the message to enqueue and the handle its eventual
	// reply resolves.
	Build() (M, *MessageHandle[R])

	// Failed synthesizes the reply value a WeakLink hands back when
	// Upgrade fails, without ever building a message or touching a
	// mailbox.
	Failed(err error) R
}

// WeakSendableMessage is the same adapter surface SendableMessage exposes;
// a WeakLink needs nothing more than Build/Failed, so it is spelled as an
// alias rather than a second interface with the same two methods.
type WeakSendableMessage[M any, R any] = SendableMessage[M, R]

// EnvelopeMessage adapts a plain request/reply payload into an
// Envelope[T,R]-shaped mailbox message, the SendableMessage counterpart of
// Ask.
type EnvelopeMessage[T any, R any] struct {
	Payload T

	// FailWith synthesizes the reply value for Failed. If nil, Failed
	// returns the zero R, so callers that never exercise the WeakLink path
	// may leave it unset.
	FailWith func(error) R
}

// Build implements SendableMessage.
func (e EnvelopeMessage[T, R]) Build() (*Envelope[T, R], *MessageHandle[R]) {
	return NewEnvelope[T, R](e.Payload)
}

// Failed implements SendableMessage.
func (e EnvelopeMessage[T, R]) Failed(err error) R {
	if e.FailWith != nil {
		return e.FailWith(err)
	}
	var zero R
	return zero
}

// HandlerMessage adapts a (Handler, payload) pair into a Multi[A]-shaped
// mailbox message, the SendableMessage counterpart of NewHandlerMessage for
// actors whose Message type dispatches across many Handlers.
type HandlerMessage[A any, T any, R any] struct {
	Handler  Handler[A, T, R]
	Payload  T
	FailWith func(error) R
}

// Build implements SendableMessage.
func (h HandlerMessage[A, T, R]) Build() (Multi[A], *MessageHandle[R]) {
	return NewHandlerMessage[A, T, R](h.Handler, h.Payload)
}

// Failed implements SendableMessage.
func (h HandlerMessage[A, T, R]) Failed(err error) R {
	if h.FailWith != nil {
		return h.FailWith(err)
	}
	var zero R
	return zero
}

// RelayMessage forwards an in-flight request to a second actor while
// preserving the first caller's reply destination: Build produces a fresh
// Envelope[T,R] that reuses the reply cell captured by NewRelayMessage, so a
// reply fired by the second actor resolves the original caller directly,
// with no second reply hop and no goroutine. Its SendableMessage instance is
// over struct{}, not R: the code doing the relaying only learns whether the
// relay enqueue itself succeeded via the resulting MessageHandle[struct{}];
// the original reply keeps flowing to the first caller independently.
type RelayMessage[T any, R any] struct {
	Payload T
	cell    *replyCell[R]
}

// NewRelayMessage captures src's reply cell so a RelayMessage can be built
// carrying a new payload of type T to a different actor, while any reply the
// second actor sends still resolves src's original caller.
func NewRelayMessage[T any, U any, R any](src *Envelope[U, R], payload T) RelayMessage[T, R] {
	return RelayMessage[T, R]{Payload: payload, cell: src.cell}
}

// Build implements SendableMessage[*Envelope[T,R], struct{}].
func (r RelayMessage[T, R]) Build() (*Envelope[T, R], *MessageHandle[struct{}]) {
	env := &Envelope[T, R]{payload: r.Payload, cell: r.cell}
	return env, Resolved[struct{}](struct{}{})
}

// Failed implements SendableMessage[*Envelope[T,R], struct{}].
func (r RelayMessage[T, R]) Failed(err error) struct{} {
	return struct{}{}
}

// SendMessage builds snd's message via Build and enqueues it on l, returning
// a MessageHandle[M.Reply]-shaped handle for whatever reply protocol snd
// wired up. Unlike Ask, which is fixed to the Envelope[T,R] shape, SendMessage
// works for any SendableMessage, including HandlerMessage and RelayMessage.
func SendMessage[M any, R any, C any, S any](ctx context.Context, l Link[M, C, S], snd SendableMessage[M, R]) *MessageHandle[R] {
	msg, handle := snd.Build()
	if err := l.Tell(ctx, msg); err != nil {
		return Failed[R](fmt.Errorf("%w: %w", ErrSendFailed, err))
	}
	return handle
}

// SendAndReply is SendMessage followed immediately by Await.
func SendAndReply[M any, R any, C any, S any](ctx context.Context, l Link[M, C, S], snd SendableMessage[M, R]) (R, error) {
	return SendMessage[M, R](ctx, l, snd).Await(ctx)
}

// SendAndForget is SendMessage with the reply discarded.
func SendAndForget[M any, R any, C any, S any](ctx context.Context, l Link[M, C, S], snd SendableMessage[M, R]) {
	SendMessage[M, R](ctx, l, snd).Forget()
}

// SendWithTimeout is SendMessage followed by WithTimeout, bounded by d if
// present (a present zero duration times out unless the reply is already
// there); a None duration falls back to an unbounded Await against ctx, the
// same None-means-use-the-caller's-own-deadline convention the teacher's own
// CleanupTimeout fn.Option[time.Duration] follows.
func SendWithTimeout[M any, R any, C any, S any](ctx context.Context, l Link[M, C, S], snd SendableMessage[M, R], d fn.Option[time.Duration]) (R, error) {
	handle := SendMessage[M, R](ctx, l, snd)
	if d.IsSome() {
		return handle.WithTimeout(ctx, d.UnwrapOr(0))
	}
	return handle.Await(ctx)
}

// WeakSendMessage mirrors SendMessage: it upgrades w, forwards, and releases
// the temporary strong Link, or synthesizes snd's Failed(ErrActorDead) reply
// without ever building a message when the actor is already gone.
func WeakSendMessage[M any, R any, C any, S any](ctx context.Context, w WeakLink[M, C, S], snd WeakSendableMessage[M, R]) *MessageHandle[R] {
	l, ok := w.Upgrade()
	if !ok {
		return Resolved[R](snd.Failed(ErrActorDead))
	}
	defer l.Release()
	return SendMessage[M, R](ctx, l, snd)
}

// WeakSendAndReply mirrors SendAndReply over a WeakLink.
func WeakSendAndReply[M any, R any, C any, S any](ctx context.Context, w WeakLink[M, C, S], snd WeakSendableMessage[M, R]) (R, error) {
	return WeakSendMessage[M, R](ctx, w, snd).Await(ctx)
}

// WeakSendAndForget mirrors SendAndForget over a WeakLink.
func WeakSendAndForget[M any, R any, C any, S any](ctx context.Context, w WeakLink[M, C, S], snd WeakSendableMessage[M, R]) {
	WeakSendMessage[M, R](ctx, w, snd).Forget()
}

// WeakSendWithTimeout mirrors SendWithTimeout over a WeakLink.
func WeakSendWithTimeout[M any, R any, C any, S any](ctx context.Context, w WeakLink[M, C, S], snd WeakSendableMessage[M, R], d fn.Option[time.Duration]) (R, error) {
	l, ok := w.Upgrade()
	if !ok {
		return snd.Failed(ErrActorDead), nil
	}
	defer l.Release()
	return SendWithTimeout[M, R](ctx, l, snd, d)
}
