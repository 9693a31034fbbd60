package actor

import (
	"context"
	"sync/atomic"
)

// ProxySpec describes how to (re)produce the actor a Proxy fronts: a zero-arg
// factory building a fresh A plus the SpawnOptions to apply each time Init or
// Reset spawns a replacement.
type ProxySpec[A Actor[M, C, S], M any, C any, S any] struct {
	New  func() A
	Opts []SpawnOption
}

// Proxy is a stable external handle fronting an actor that may be internally
// re-spawned (e.g. after a crash-and-restart policy, or an explicit Reset),
// so callers holding a Proxy never need to learn about a new Link each time
// the actor underneath is replaced. Unlike NewProxy's earlier bare
// atomic-swap wrapper, Proxy now owns the backing actor's whole lifecycle via
// ProxySpec: it spawns the first instance itself and can tear down and
// respawn a fresh one on demand.
//
// Expressed here as an atomically-swapped Link so readers never observe a
// torn pointer mid-respawn.
type Proxy[A Actor[M, C, S], M any, C any, S any] struct {
	spec    ProxySpec[A, M, C, S]
	current atomic.Pointer[Link[M, C, S]]
}

// NewProxy spawns spec's first backing actor and returns a Proxy fronting
// it.
func NewProxy[A Actor[M, C, S], M any, C any, S any](ctx context.Context, spec ProxySpec[A, M, C, S]) (*Proxy[A, M, C, S], error) {
	p := &Proxy[A, M, C, S]{spec: spec}
	if err := p.Init(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Init spawns a fresh backing actor from the proxy's spec and installs it,
// releasing whatever was previously installed (if anything). Messages sent
// through Tell while Init is mid-flight are served by the Link being
// replaced until the atomic swap completes.
func (p *Proxy[A, M, C, S]) Init(ctx context.Context) error {
	link, err := Spawn[A, M, C, S](ctx, p.spec.New(), p.spec.Opts...)
	if err != nil {
		return err
	}
	old := p.current.Swap(&link)
	if old != nil {
		old.Release()
	}
	return nil
}

// Shutdown cancels and releases the currently installed backing actor,
// leaving the Proxy with nothing installed until Init or Reset is called
// again. Tell calls made after Shutdown observe ErrActorDead via the zero
// Link Current returns.
func (p *Proxy[A, M, C, S]) Shutdown(reason C) {
	if l := p.current.Swap(nil); l != nil {
		l.Cancel(reason)
		l.Release()
	}
}

// Reset is Shutdown followed by Init: the backing actor is torn down and a
// brand new instance takes its place, with no window where Current returns a
// stale but still-cancelling Link.
func (p *Proxy[A, M, C, S]) Reset(ctx context.Context, reason C) error {
	p.Shutdown(reason)
	return p.Init(ctx)
}

// Tell forwards to whichever Link is currently installed.
func (p *Proxy[A, M, C, S]) Tell(ctx context.Context, msg M) error {
	return p.Current().Tell(ctx, msg)
}

// Current returns the Link presently installed behind the proxy, or the zero
// Link if none is (after Shutdown, or before the first successful Init).
func (p *Proxy[A, M, C, S]) Current() Link[M, C, S] {
	if l := p.current.Load(); l != nil {
		return *l
	}
	return Link[M, C, S]{}
}

// Respawn atomically swaps in a replacement Link, releasing the previous
// one. Lower-level than Reset: useful when the caller already holds a Link
// built some other way (e.g. with a different SpawnOption set than the
// proxy's own spec) rather than wanting the spec's factory re-run.
func (p *Proxy[A, M, C, S]) Respawn(replacement Link[M, C, S]) {
	old := p.current.Swap(&replacement)
	if old != nil {
		old.Release()
	}
}

// IsDead reports whether the currently installed Link is dead. A Proxy
// itself never "dies": callers are expected to watch for this and call
// Reset.
func (p *Proxy[A, M, C, S]) IsDead() bool {
	return p.Current().IsDead()
}
