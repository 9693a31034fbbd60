package actorutil_test

import (
	"context"
	"testing"
	"time"

	"github.com/fenwick-labs/actorcore/internal/actor"
	"github.com/fenwick-labs/actorcore/internal/actorutil"
	"github.com/stretchr/testify/require"
)

type doubleMessage = *actor.Envelope[int, int]

type doublerActor struct {
	fail bool
}

func (a *doublerActor) Init(context.Context, *actor.Init[doubleMessage, string, int]) error {
	return nil
}
func (a *doublerActor) Snapshot() int { return 0 }
func (a *doublerActor) Handle(ctx context.Context, ectx *actor.Exec[doubleMessage, string, int], msg doubleMessage) {
	n, reply := msg.Split()
	if a.fail {
		return
	}
	reply(n * 2)
}
func (a *doublerActor) Tick() <-chan time.Time { return nil }
func (a *doublerActor) OnTick(context.Context, *actor.Exec[doubleMessage, string, int]) {}
func (a *doublerActor) Terminate(context.Context, *actor.Exec[doubleMessage, string, int], actor.CancelReason[string]) {
}
func (a *doublerActor) TerminationStrategy() actor.TerminationStrategy { return actor.StrategyExit }
func (a *doublerActor) Crash(error)                                   {}

func spawnDoubler(t *testing.T, ctx context.Context) actor.Link[doubleMessage, string, int] {
	t.Helper()
	link, err := actor.Spawn[*doublerActor, doubleMessage, string, int](ctx, &doublerActor{})
	require.NoError(t, err)
	return link
}

func TestParallelAskCollectsInOrder(t *testing.T) {
	ctx := context.Background()

	links := make([]actor.Link[doubleMessage, string, int], 3)
	for i := range links {
		links[i] = spawnDoubler(t, ctx)
		defer links[i].Release()
	}

	results := actorutil.ParallelAsk[int, int](ctx, links, []int{1, 2, 3})
	require.True(t, actorutil.AllSucceeded(results))

	vals := actorutil.CollectSuccesses(results)
	require.Equal(t, []int{2, 4, 6}, vals)
}

func TestFirstSuccessReturnsFirstWinner(t *testing.T) {
	ctx := context.Background()

	good := spawnDoubler(t, ctx)
	defer good.Release()

	v, err := actorutil.FirstSuccess[int, int](ctx, []actor.Link[doubleMessage, string, int]{good}, 21)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestParallelAskSameWithNoLinksReturnsEmpty(t *testing.T) {
	results := actorutil.ParallelAskSame[int, int](
		context.Background(), nil, 0,
	)
	require.Empty(t, results)
}
