package actor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvelopeReplyIsTakeOnce(t *testing.T) {
	env, handle := NewEnvelope[int, string](41)

	require.Equal(t, 41, env.Payload())
	require.True(t, env.Reply("ok"))
	require.False(t, env.Reply("second"))
	require.True(t, env.Replied())

	v, ok := handle.TryReply()
	require.True(t, ok)
	require.Equal(t, "ok", v)
}

func TestEnvelopeTryReplyErrorsOnSecondFire(t *testing.T) {
	env, _ := NewEnvelope[int, string](1)

	require.NoError(t, env.TryReply("a"))
	require.ErrorIs(t, env.TryReply("b"), ErrReplyTaken)
}

func TestMapEnvelopeSharesReplyCell(t *testing.T) {
	env, handle := NewEnvelope[int, string](3)
	mapped := MapEnvelope(env, func(n int) string { return "payload-" + string(rune('0'+n)) })

	require.True(t, mapped.Reply("done"))

	v, ok := handle.TryReply()
	require.True(t, ok)
	require.Equal(t, "done", v)
}

func TestEnvelopeSplit(t *testing.T) {
	env, handle := NewEnvelope[int, int](5)
	payload, reply := env.Split()
	require.Equal(t, 5, payload)
	require.True(t, reply(payload * 2))

	v, ok := handle.TryReply()
	require.True(t, ok)
	require.Equal(t, 10, v)
}
