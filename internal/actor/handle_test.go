package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessageHandleAwaitConsumesOnce(t *testing.T) {
	env, handle := NewEnvelope[string, int]("hi")
	env.Reply(99)

	v, err := handle.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 99, v)
	require.Equal(t, StatusConsumed, handle.Status())

	// Second Await returns the cached result without blocking.
	v, err = handle.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 99, v)
}

func TestMessageHandleWithTimeoutExpires(t *testing.T) {
	_, handle := NewEnvelope[string, int]("hi")

	_, err := handle.WithTimeout(context.Background(), 5*time.Millisecond)
	require.ErrorIs(t, err, ErrHandleTimeout)
	require.Equal(t, StatusFailed, handle.Status())
}

func TestMessageHandleForget(t *testing.T) {
	env, handle := NewEnvelope[string, int]("hi")
	handle.Forget()
	require.Equal(t, StatusConsumed, handle.Status())

	// A late reply must not panic even though nobody is awaiting.
	env.Reply(1)
}

func TestMapReplyTransformsValue(t *testing.T) {
	env, handle := NewEnvelope[string, int]("hi")
	mapped := MapReply(handle, func(n int) string {
		return "n=" + string(rune('0'+n))
	})

	env.Reply(7)

	v, err := mapped.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "n=7", v)
}

func TestResolvedAndFailedHelpers(t *testing.T) {
	h := Resolved(10)
	v, err := h.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, v)

	ferr := Failed[int](ErrActorDead)
	_, err = ferr.Await(context.Background())
	require.ErrorIs(t, err, ErrActorDead)
}
