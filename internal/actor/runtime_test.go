package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// echoMessage is the Envelope-backed Message type for echoActor: send a
// string, get the same string back, uppercased.
type echoMessage = *Envelope[string, string]

type echoActor struct {
	handled int
	crashed error
}

func (a *echoActor) Init(context.Context, *Init[echoMessage, string, int]) error { return nil }

func (a *echoActor) Snapshot() int { return a.handled }

func (a *echoActor) Handle(ctx context.Context, ectx *Exec[echoMessage, string, int], msg echoMessage) {
	a.handled++
	ectx.Publish(a.handled)
	payload, reply := msg.Split()
	reply(upper(payload))
}

func (a *echoActor) Tick() <-chan time.Time { return nil }

func (a *echoActor) OnTick(context.Context, *Exec[echoMessage, string, int]) {}

func (a *echoActor) Terminate(context.Context, *Exec[echoMessage, string, int], CancelReason[string]) {
}

func (a *echoActor) TerminationStrategy() TerminationStrategy { return StrategyExit }

func (a *echoActor) Crash(err error) { a.crashed = err }

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}

func TestSpawnTellAndAsk(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)
	defer link.Release()

	reply, err := Ask[string, string](ctx, link, "hello")
	require.NoError(t, err)
	require.Equal(t, "HELLO", reply)

	// Give the publish a moment to land, then check the shared snapshot.
	require.Eventually(t, func() bool {
		n, ok := link.State()
		return ok && n == 1
	}, time.Second, time.Millisecond)
}

func TestLinkReleaseCancelsOnLastDrop(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)

	clone := link.Clone()

	link.Release()
	require.False(t, clone.IsDead(), "actor should survive while a clone is outstanding")

	clone.Release()
	require.Eventually(t, func() bool {
		return clone.IsDead()
	}, time.Second, time.Millisecond)
}

func TestWeakLinkUpgradeFailsAfterDeath(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)

	weak := link.Downgrade()

	upgraded, ok := weak.Upgrade()
	require.True(t, ok)
	upgraded.Release() // undo the refcount bump Upgrade performed

	link.Release()
	require.Eventually(t, func() bool {
		_, ok := weak.Upgrade()
		return !ok
	}, time.Second, time.Millisecond)
}

func TestDynLinkRoundTrip(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)
	defer link.Release()

	dyn := link.ToDyn()
	require.True(t, Is[echoMessage](dyn))
	require.False(t, Is[int](dyn))

	back := To[echoMessage, string, int](dyn)
	require.Equal(t, link.ID(), back.ID())

	require.Panics(t, func() {
		To[int, string, int](dyn)
	})
}

func TestTerminationStrategyProcessAllDrainsBuffer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	a := &drainingActor{}
	link, err := Spawn[*drainingActor, echoMessage, string, int](ctx, a, WithMailboxCapacity(4))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		env, _ := NewEnvelope[string, string]("x")
		require.NoError(t, link.TryTell(env))
	}

	link.Cancel("shutdown")
	cancel()

	require.Eventually(t, func() bool {
		return link.IsDead()
	}, time.Second, time.Millisecond)

	require.Equal(t, 3, a.handledCount())
}

type drainingActor struct {
	echoActor
}

func (a *drainingActor) TerminationStrategy() TerminationStrategy { return StrategyProcessAll }

func (a *drainingActor) handledCount() int { return a.handled }

// panickyActor panics on its first Handle call and behaves like echoActor
// afterwards (not that "afterwards" is ever reached: a panic cancels the
// actor, so no further message is ever dispatched to it).
type panickyActor struct {
	echoActor
}

func (a *panickyActor) Handle(ctx context.Context, ectx *Exec[echoMessage, string, int], msg echoMessage) {
	panic("boom")
}

func TestHandlerPanicCancelsActor(t *testing.T) {
	ctx := context.Background()

	a := &panickyActor{}
	link, err := Spawn[*panickyActor, echoMessage, string, int](ctx, a, WithMailboxCapacity(4))
	require.NoError(t, err)
	defer link.Release()

	handle := SendMessage[echoMessage, string](ctx, link, EnvelopeMessage[string, string]{Payload: "x"})
	_, err = handle.Await(ctx)
	require.ErrorIs(t, err, ErrRecvFailed)

	require.Eventually(t, func() bool {
		return link.IsDead()
	}, time.Second, time.Millisecond)

	require.ErrorIs(t, link.Tell(ctx, nil), ErrActorDead)
	require.Error(t, a.crashed)
}
