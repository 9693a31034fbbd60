package actor

import (
	"context"
	"sync"
	"sync/atomic"
)

// replyCell is the take-once reply slot shared by Envelope, Multi's Call,
// and MessageHandle: exactly one Fire succeeds, every later one observes
// ErrReplyTaken, and the consumer side (MessageHandle) receives the value
// exactly once off the buffered channel.
type replyCell[R any] struct {
	ch    chan R
	fired atomic.Bool

	mu  sync.Mutex
	err error
}

func newReplyCell[R any]() *replyCell[R] {
	return &replyCell[R]{ch: make(chan R, 1)}
}

// fire attempts to deliver v, succeeding only for the first caller.
func (c *replyCell[R]) fire(v R) bool {
	if !c.fired.CompareAndSwap(false, true) {
		return false
	}
	c.ch <- v
	return true
}

// fail is fire's failure counterpart: instead of delivering a value it
// closes the channel and records err, so a receiver ranging over ch
// observes end-of-stream and failure() reports why, rather than mistaking a
// zero value for a genuine reply.
func (c *replyCell[R]) fail(err error) bool {
	if !c.fired.CompareAndSwap(false, true) {
		return false
	}
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	close(c.ch)
	return true
}

func (c *replyCell[R]) failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *replyCell[R]) alreadyFired() bool {
	return c.fired.Load()
}

// Envelope pairs a message payload with a single-shot reply sender. It is
// the wire type every point-to-point Ask flows through: the sender holds
// a MessageHandle[R] (the receiving half of the same replyCell) while the
// Envelope itself travels to the actor's mailbox carrying only the payload
// and the sending half.
//
// Grounded on actor.go's envelope[M,R] (payload + promise), split here into
// an explicit payload/reply-sender pair.
type Envelope[T any, R any] struct {
	payload T
	cell    *replyCell[R]
}

// NewEnvelope builds an Envelope around payload along with the
// MessageHandle the caller uses to await the eventual reply.
func NewEnvelope[T any, R any](payload T) (*Envelope[T, R], *MessageHandle[R]) {
	cell := newReplyCell[R]()
	return &Envelope[T, R]{payload: payload, cell: cell}, newMessageHandle(cell)
}

// Payload returns the message payload.
func (e *Envelope[T, R]) Payload() T {
	return e.payload
}

// Reply fires the reply cell with v, returning false if a reply was already
// sent (first-reply-wins, matching the take-once cell backing Call/Handler
// dispatch).
func (e *Envelope[T, R]) Reply(v R) bool {
	return e.cell.fire(v)
}

// TryReply is like Reply but returns ErrReplyTaken instead of a bool when
// the cell has already fired, for callers that want an error-returning call
// site.
func (e *Envelope[T, R]) TryReply(v R) error {
	if !e.cell.fire(v) {
		return ErrReplyTaken
	}
	return nil
}

// Replied reports whether this envelope's reply cell has already fired.
func (e *Envelope[T, R]) Replied() bool {
	return e.cell.alreadyFired()
}

// failReply fails the envelope's reply cell with err, implementing the
// package-private replyFailer interface runtime.go's dispatch loop uses to
// unblock a caller's MessageHandle when its handler never gets the chance
// to reply (a panic, or the actor dying with the message still in flight).
func (e *Envelope[T, R]) failReply(err error) {
	e.cell.fail(err)
}

// Split decomposes the envelope into its payload and a bound reply function,
// for handlers that prefer destructuring over holding the Envelope value
// itself.
func (e *Envelope[T, R]) Split() (T, func(R) bool) {
	return e.payload, e.Reply
}

// MapEnvelope transforms an Envelope[T,R]'s payload with f, producing a new
// Envelope[U,R] that shares the same underlying reply cell — replying to the
// mapped envelope replies to the original caller. Used by actors that
// receive a broader message type and want to forward a narrowed payload to
// an internal helper.
func MapEnvelope[T any, U any, R any](e *Envelope[T, R], f func(T) U) *Envelope[U, R] {
	return &Envelope[U, R]{payload: f(e.payload), cell: e.cell}
}

// Relay builds a new Envelope[U,R] carrying payload that reuses src's
// existing reply cell, so replying to the relayed envelope resolves src's
// original caller directly — no second reply hop, no goroutine. It differs
// from RelayEnvelope below in exactly that way: RelayEnvelope bridges two
// already-resolved Envelope/MessageHandle pairs after the fact, while Relay
// hands an in-flight request to a second actor before either side has a
// reply, preserving the first caller's reply destination untouched.
func Relay[T any, U any, R any](src *Envelope[T, R], payload U) *Envelope[U, R] {
	return &Envelope[U, R]{payload: payload, cell: src.cell}
}

// RelayEnvelope forwards src's reply cell to dst's once dst resolves,
// letting one actor proxy a request to another. It spawns no goroutine when
// dst is already resolved; otherwise it starts a single goroutine that
// blocks until dst's handle settles.
func RelayEnvelope[T any, R any](src *Envelope[T, R], dst *MessageHandle[R]) {
	if dst.Status() != StatusPending {
		if v, err := dst.Await(context.Background()); err == nil {
			src.Reply(v)
		}
		return
	}
	go func() {
		v, err := dst.Await(context.Background())
		if err != nil {
			return
		}
		src.Reply(v)
	}()
}
