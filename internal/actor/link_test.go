package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLinkSendRawMessageDeliversDirectly(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)
	defer link.Release()

	env, reply := NewEnvelope[string, string]("raw")
	handle := link.SendRawMessage(ctx, env)
	_, err = handle.Await(ctx)
	require.NoError(t, err)

	got, err := reply.Await(ctx)
	require.NoError(t, err)
	require.Equal(t, "RAW", got)
}

func TestLinkSendRawMessageFailsWhenDead(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)
	link.Release()

	require.Eventually(t, func() bool { return link.IsDead() }, time.Second, time.Millisecond)

	env, _ := NewEnvelope[string, string]("raw")
	handle := link.SendRawMessage(ctx, env)
	_, err = handle.Await(ctx)
	require.ErrorIs(t, err, ErrSendFailed)
}

func TestLinkAliveAndCancelAndWait(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)
	defer link.Release()

	require.True(t, link.Alive())

	clone := link.Clone()
	err = clone.CancelAndWait(ctx, "shutdown")
	require.NoError(t, err)
	require.False(t, clone.Alive())
}

func TestWeakLinkSendFamilyMirrorsLink(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)

	weak := link.Downgrade()
	require.True(t, weak.Alive())

	env, reply := NewEnvelope[string, string]("weak")
	handle := weak.SendRawMessage(ctx, env)
	_, err = handle.Await(ctx)
	require.NoError(t, err)

	got, err := reply.Await(ctx)
	require.NoError(t, err)
	require.Equal(t, "WEAK", got)

	require.True(t, weak.Cancel("bye"))

	require.Eventually(t, func() bool {
		return !weak.Alive()
	}, time.Second, time.Millisecond)

	link.Release()
}

func TestWeakLinkSendRawMessageFailsAfterDeath(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)

	weak := link.Downgrade()
	link.Release()

	require.Eventually(t, func() bool { return !weak.Alive() }, time.Second, time.Millisecond)

	env, _ := NewEnvelope[string, string]("x")
	handle := weak.SendRawMessage(ctx, env)
	_, err = handle.Await(ctx)
	require.ErrorIs(t, err, ErrActorDead)

	require.False(t, weak.Cancel("noop"))
}
