// Package examples holds small reference actors exercising every piece of
// the internal/actor API: Counter (plain Envelope request/reply), Echo
// (Envelope + published shared state), and Worker (Multi[A]/Handler
// dispatch with an async-reply worker).
package examples

import (
	"context"
	"fmt"
	"time"

	"github.com/fenwick-labs/actorcore/internal/actor"
)

// CounterRequest is the payload of a CounterMessage.
type CounterRequest int

const (
	CounterIncrement CounterRequest = iota
	CounterGetCount
)

// CounterResponse is the reply of a CounterMessage.
type CounterResponse struct {
	Count int
}

// CounterMessage is the actor's Message type: directly an Envelope, the
// simplest shape a request/reply actor can take.
type CounterMessage = *actor.Envelope[CounterRequest, CounterResponse]

// CounterActor is a minimal stateful counter. Its cancel reason type is
// string (a human-readable shutdown cause); its published Shared state is
// the current count, so callers can peek at it via Link.State without
// sending a message.
type CounterActor struct {
	count int
	calls actor.Count[CounterActor]
}

// NewCounterActor builds a counter actor starting at initial.
func NewCounterActor(initial int) *CounterActor {
	return &CounterActor{count: initial}
}

func (a *CounterActor) Init(ctx context.Context, init *actor.Init[CounterMessage, string, int]) error {
	a.calls.Inc()
	log.InfoS(ctx, "counter actor initialized", "count", a.count)
	return nil
}

func (a *CounterActor) Snapshot() int { return a.count }

func (a *CounterActor) Handle(ctx context.Context, ectx *actor.Exec[CounterMessage, string, int], msg CounterMessage) {
	req, reply := msg.Split()
	switch req {
	case CounterIncrement:
		a.count++
		ectx.Publish(a.count)
		reply(CounterResponse{Count: a.count})
	case CounterGetCount:
		reply(CounterResponse{Count: a.count})
	}
}

func (a *CounterActor) Tick() <-chan time.Time { return nil }

func (a *CounterActor) OnTick(context.Context, *actor.Exec[CounterMessage, string, int]) {}

func (a *CounterActor) Terminate(ctx context.Context, _ *actor.Exec[CounterMessage, string, int], reason actor.CancelReason[string]) {
	a.calls.Dec()
	log.InfoS(ctx, "counter actor terminating", "reason", reason.Value, "final_count", a.count)
}

func (a *CounterActor) TerminationStrategy() actor.TerminationStrategy {
	return actor.StrategyExit
}

func (a *CounterActor) Crash(err error) {
	log.ErrorS(context.Background(), "counter actor crashed", err)
}

// SpawnCounter spawns a CounterActor, hiding the verbose explicit type
// arguments Spawn otherwise requires at call sites.
func SpawnCounter(ctx context.Context, initial int, opts ...actor.SpawnOption) (actor.Link[CounterMessage, string, int], error) {
	return actor.Spawn[*CounterActor, CounterMessage, string, int](ctx, NewCounterActor(initial), opts...)
}

// AskIncrement is a convenience wrapper around actor.Ask for the common
// request.
func AskIncrement(ctx context.Context, l actor.Link[CounterMessage, string, int]) (int, error) {
	resp, err := actor.Ask[CounterRequest, CounterResponse](ctx, l, CounterIncrement)
	if err != nil {
		return 0, fmt.Errorf("examples: increment: %w", err)
	}
	return resp.Count, nil
}
