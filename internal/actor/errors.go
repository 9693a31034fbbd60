package actor

import "errors"

// ActorError is the sentinel-error taxonomy for this package, grounded on
// interface.go's ErrActorTerminated/ErrServiceKeyTypeMismatch style: plain
// package-level errors.New values, tested with errors.Is at call sites
// rather than a custom error interface hierarchy.
var (
	// ErrActorDead is returned (or delivered as a synthesized reply) when a
	// message is sent to an actor whose token has been cancelled, whose last
	// strong Link has been released, or whose runtime loop has exited.
	ErrActorDead = errors.New("actor: actor is dead")

	// ErrReplyTaken is returned by a reply attempt on an Envelope/Call whose
	// take-once reply cell has already fired.
	ErrReplyTaken = errors.New("actor: reply already taken")

	// ErrAsyncReply describes a reply that will be delivered
	// asynchronously. The dispatch loop does not look for it: a Handler
	// signals a later reply by returning Async[R]() (Call.ReplyAsync), which
	// the loop recognizes through Reply.IsAsync.
	ErrAsyncReply = errors.New("actor: reply will be delivered asynchronously")

	// ErrDynSend is returned by DynLink.Send when the supplied message
	// does not match the concrete actor's expected message type.
	ErrDynSend = errors.New("actor: message type does not match target actor")

	// ErrHandleConsumed names the state of a MessageHandle that has already
	// resolved. No MessageHandle method returns it: Await and WithTimeout on
	// a resolved handle return its recorded result.
	ErrHandleConsumed = errors.New("actor: message handle already consumed")

	// ErrHandleTimeout is the failure reason recorded on a MessageHandle
	// whose WithTimeout deadline elapsed before a reply arrived.
	ErrHandleTimeout = errors.New("actor: message handle timed out")

	// ErrMailboxFull is returned by TrySend-style non-blocking sends when
	// the target's bounded mailbox has no free capacity.
	ErrMailboxFull = errors.New("actor: mailbox is full")

	// ErrSendFailed is the error a MessageHandle settles with when the
	// envelope never made it into the mailbox at all (the actor was
	// already dead or cancelled, or the send's context expired first).
	ErrSendFailed = errors.New("actor: send failed")

	// ErrRecvFailed is the error a MessageHandle settles with when the
	// reply sender was dropped without ever firing: the actor died mid-
	// handler (including a recovered panic) or the handler simply never
	// replied before its actor terminated.
	ErrRecvFailed = errors.New("actor: reply sender dropped without replying")
)
