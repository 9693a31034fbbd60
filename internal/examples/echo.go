package examples

import (
	"context"
	"strings"
	"time"

	"github.com/fenwick-labs/actorcore/internal/actor"
)

// EchoMessage is an Envelope-backed request/reply pair: send a string, get
// it back upper-cased along with a running count of requests served.
type EchoMessage = *actor.Envelope[string, EchoResponse]

// EchoResponse is returned for every EchoMessage.
type EchoResponse struct {
	Text    string
	Ordinal int
}

// EchoActor demonstrates CancelledOrDropped-style graceful shutdown: it
// keeps draining whatever is already queued (StrategyProcessAll) before
// exiting, so a final burst of requests right before shutdown still gets an
// answer.
type EchoActor struct {
	served int
}

func (a *EchoActor) Init(ctx context.Context, init *actor.Init[EchoMessage, string, int]) error {
	log.InfoS(ctx, "echo actor initialized")
	return nil
}

func (a *EchoActor) Snapshot() int { return a.served }

func (a *EchoActor) Handle(ctx context.Context, ectx *actor.Exec[EchoMessage, string, int], msg EchoMessage) {
	text, reply := msg.Split()
	a.served++
	ectx.Publish(a.served)
	reply(EchoResponse{Text: strings.ToUpper(text), Ordinal: a.served})
}

func (a *EchoActor) Tick() <-chan time.Time { return nil }

func (a *EchoActor) OnTick(context.Context, *actor.Exec[EchoMessage, string, int]) {}

func (a *EchoActor) Terminate(ctx context.Context, _ *actor.Exec[EchoMessage, string, int], reason actor.CancelReason[string]) {
	log.InfoS(ctx, "echo actor terminating", "reason", reason.Value, "served", a.served)
}

func (a *EchoActor) TerminationStrategy() actor.TerminationStrategy {
	return actor.StrategyProcessAll
}

func (a *EchoActor) Crash(err error) {
	log.ErrorS(context.Background(), "echo actor crashed", err)
}

// SpawnEcho spawns an EchoActor.
func SpawnEcho(ctx context.Context, opts ...actor.SpawnOption) (actor.Link[EchoMessage, string, int], error) {
	return actor.Spawn[*EchoActor, EchoMessage, string, int](ctx, &EchoActor{}, opts...)
}
