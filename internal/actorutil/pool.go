package actorutil

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fenwick-labs/actorcore/internal/actor"
)

// Pool distributes Envelope-backed Ask/Tell traffic across a fixed set of
// identically-typed worker actors using round-robin scheduling, so a
// workload can be spread across several actor instances instead of one.
//
// Grounded on internal/actorutil/pool.go (Pool[M,R] holding
// actor.ActorRef[M,R] plus a round-robin atomic counter), retargeted from
// ActorRef to this module's Link and from a single Factory+ActorConfig
// bring-up to repeated calls to actor.Spawn.
type Pool[T any, R any, C any, S any] struct {
	id    string
	links []actor.Link[*actor.Envelope[T, R], C, S]
	next  atomic.Uint64
}

// PoolConfig configures NewPool.
type PoolConfig[T any, R any, C any, S any] struct {
	// ID names the pool; it is reported by Pool.ID and is not passed to
	// Spawn.
	ID string

	// Size is the number of workers to spawn.
	Size int

	// Spawn builds and spawns the idx'th worker, returning its Link.
	Spawn func(ctx context.Context, idx int) (actor.Link[*actor.Envelope[T, R], C, S], error)
}

// NewPool spawns cfg.Size workers via cfg.Spawn and wires them into a single
// round-robin Pool.
func NewPool[T any, R any, C any, S any](ctx context.Context, cfg PoolConfig[T, R, C, S]) (*Pool[T, R, C, S], error) {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}

	p := &Pool[T, R, C, S]{
		id:    cfg.ID,
		links: make([]actor.Link[*actor.Envelope[T, R], C, S], cfg.Size),
	}

	for i := 0; i < cfg.Size; i++ {
		link, err := cfg.Spawn(ctx, i)
		if err != nil {
			p.Stop()
			return nil, fmt.Errorf("actorutil: spawning pool worker %d: %w", i, err)
		}
		p.links[i] = link
	}

	return p, nil
}

// ID returns the pool's identifier.
func (p *Pool[T, R, C, S]) ID() string { return p.id }

// Size returns the number of workers in the pool.
func (p *Pool[T, R, C, S]) Size() int { return len(p.links) }

func (p *Pool[T, R, C, S]) pick() actor.Link[*actor.Envelope[T, R], C, S] {
	idx := p.next.Add(1) % uint64(len(p.links))
	return p.links[idx]
}

// Tell fire-and-forgets an Envelope carrying payload to the next worker.
func (p *Pool[T, R, C, S]) Tell(ctx context.Context, payload T) error {
	env, _ := actor.NewEnvelope[T, R](payload)
	return p.pick().Tell(ctx, env)
}

// Ask sends payload to the next worker and awaits its reply.
func (p *Pool[T, R, C, S]) Ask(ctx context.Context, payload T) (R, error) {
	return actor.Ask[T, R](ctx, p.pick(), payload)
}

// Broadcast fire-and-forgets payload to every worker.
func (p *Pool[T, R, C, S]) Broadcast(ctx context.Context, payload T) {
	for _, l := range p.links {
		env, _ := actor.NewEnvelope[T, R](payload)
		_ = l.Tell(ctx, env)
	}
}

// BroadcastAsk sends payload to every worker concurrently and returns every
// MessageHandle, in worker order.
func (p *Pool[T, R, C, S]) BroadcastAsk(ctx context.Context, payload T) []*actor.MessageHandle[R] {
	handles := make([]*actor.MessageHandle[R], len(p.links))
	for i, l := range p.links {
		env, handle := actor.NewEnvelope[T, R](payload)
		if err := l.Tell(ctx, env); err != nil {
			handle = actor.Failed[R](err)
		}
		handles[i] = handle
	}
	return handles
}

// Links returns a copy of the pool's worker Links.
func (p *Pool[T, R, C, S]) Links() []actor.Link[*actor.Envelope[T, R], C, S] {
	out := make([]actor.Link[*actor.Envelope[T, R], C, S], len(p.links))
	copy(out, p.links)
	return out
}

// Stop releases every worker's Link, triggering shutdown via the
// last-Link-drop-cancels rule.
func (p *Pool[T, R, C, S]) Stop() {
	for _, l := range p.links {
		l.Release()
	}
}
