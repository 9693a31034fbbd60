// Package actorutil provides combinators for working with Link/WeakLink
// values from internal/actor, in the style of an earlier internal/actorutil
// package that did the same for an ActorRef/TellOnlyRef vocabulary.
package actorutil

import (
	"context"
	"fmt"

	"github.com/fenwick-labs/actorcore/internal/actor"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// AskAwait sends payload to an Envelope-backed actor and blocks for the
// reply, folding NewEnvelope+Tell+Await (actor.Ask) into one call. It is a
// thin re-export kept here so callers only need to import actorutil for the
// whole combinator surface.
func AskAwait[T any, R any, C any, S any](
	ctx context.Context, l actor.Link[*actor.Envelope[T, R], C, S], payload T,
) (R, error) {
	return actor.Ask[T, R](ctx, l, payload)
}

// AskAwaitTyped is like AskAwait but additionally asserts the reply into a
// narrower concrete type T2, for actors whose reply type is a union/
// interface and callers that want one specific variant.
func AskAwaitTyped[T any, R any, C any, S any, T2 any](
	ctx context.Context, l actor.Link[*actor.Envelope[T, R], C, S], payload T,
) (T2, error) {
	resp, err := AskAwait[T, R](ctx, l, payload)
	if err != nil {
		var zero T2
		return zero, err
	}
	typed, ok := any(resp).(T2)
	if !ok {
		var zero T2
		return zero, fmt.Errorf(
			"actorutil: unexpected reply type: got %T, want %T", resp, zero,
		)
	}
	return typed, nil
}

// TellAll fire-and-forgets msg to every Link in refs.
func TellAll[M any, C any, S any](ctx context.Context, refs []actor.Link[M, C, S], msg M) {
	for _, ref := range refs {
		_ = ref.Tell(ctx, msg)
	}
}

// ParallelAsk sends msgs[i] to refs[i] concurrently (Envelope-backed actors
// only) and collects every MessageHandle result, in the original order.
// refs and msgs must have the same length.
func ParallelAsk[T any, R any, C any, S any](
	ctx context.Context, refs []actor.Link[*actor.Envelope[T, R], C, S], msgs []T,
) []fn.Result[R] {
	if len(refs) != len(msgs) {
		panic("actorutil: refs and msgs must have same length")
	}

	handles := make([]*actor.MessageHandle[R], len(refs))
	for i, ref := range refs {
		env, handle := actor.NewEnvelope[T, R](msgs[i])
		if err := ref.Tell(ctx, env); err != nil {
			handle = actor.Failed[R](err)
		}
		handles[i] = handle
	}

	results := make([]fn.Result[R], len(handles))
	for i, h := range handles {
		v, err := h.Await(ctx)
		if err != nil {
			results[i] = fn.Err[R](err)
		} else {
			results[i] = fn.Ok(v)
		}
	}
	return results
}

// ParallelAskSame sends the same payload to every ref concurrently.
func ParallelAskSame[T any, R any, C any, S any](
	ctx context.Context, refs []actor.Link[*actor.Envelope[T, R], C, S], payload T,
) []fn.Result[R] {
	msgs := make([]T, len(refs))
	for i := range msgs {
		msgs[i] = payload
	}
	return ParallelAsk(ctx, refs, msgs)
}

// FirstSuccess asks every ref the same payload and returns the first
// successful reply, cancelling the rest. If every ref fails, the last
// observed error is returned.
func FirstSuccess[T any, R any, C any, S any](
	ctx context.Context, refs []actor.Link[*actor.Envelope[T, R], C, S], payload T,
) (R, error) {
	if len(refs) == 0 {
		var zero R
		return zero, fmt.Errorf("actorutil: no actors provided")
	}

	type indexed struct {
		val R
		err error
	}
	resultCh := make(chan indexed, len(refs))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, ref := range refs {
		go func(l actor.Link[*actor.Envelope[T, R], C, S]) {
			v, err := actor.Ask[T, R](ctx, l, payload)
			select {
			case resultCh <- indexed{val: v, err: err}:
			case <-ctx.Done():
			}
		}(ref)
	}

	var lastErr error
	for range refs {
		select {
		case res := <-resultCh:
			if res.err == nil {
				cancel()
				return res.val, nil
			}
			lastErr = res.err
		case <-ctx.Done():
			var zero R
			return zero, ctx.Err()
		}
	}

	var zero R
	return zero, lastErr
}

// MapResponses transforms every successful result with mapFn, passing
// errors through unchanged.
func MapResponses[R any, T any](results []fn.Result[R], mapFn func(R) T) []fn.Result[T] {
	mapped := make([]fn.Result[T], len(results))
	for i, r := range results {
		val, err := r.Unpack()
		if err != nil {
			mapped[i] = fn.Err[T](err)
		} else {
			mapped[i] = fn.Ok(mapFn(val))
		}
	}
	return mapped
}

// CollectSuccesses returns only the successful values from results.
func CollectSuccesses[R any](results []fn.Result[R]) []R {
	var successes []R
	for _, r := range results {
		if val, err := r.Unpack(); err == nil {
			successes = append(successes, val)
		}
	}
	return successes
}

// AllSucceeded reports whether every result succeeded.
func AllSucceeded[R any](results []fn.Result[R]) bool {
	for _, r := range results {
		if _, err := r.Unpack(); err != nil {
			return false
		}
	}
	return true
}

// FirstError returns the first error in results, or nil if all succeeded.
func FirstError[R any](results []fn.Result[R]) error {
	for _, r := range results {
		if _, err := r.Unpack(); err != nil {
			return err
		}
	}
	return nil
}
