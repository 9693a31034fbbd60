package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type counterMultiActor struct {
	n int
}

func (a *counterMultiActor) handleIncrement(_ context.Context, call *Call[counterMultiActor, int], by int) Reply[int] {
	a.n += by
	return Value(a.n)
}

func (a *counterMultiActor) handleAsyncGet(_ context.Context, call *Call[counterMultiActor, int], _ struct{}) Reply[int] {
	go call.Reply(a.n)
	return call.ReplyAsync()
}

func TestMultiDispatchSynchronous(t *testing.T) {
	a := &counterMultiActor{}
	handler := HandlerFunc[counterMultiActor, int, int]((*counterMultiActor).handleIncrement)

	msg, handle := NewHandlerMessage[counterMultiActor, int, int](handler, 5)

	ectx := &ActorContext{id: "t", signal: NewCancelToken[struct{}](), wg: nil}
	msg.Invoke(context.Background(), a, ectx)

	v, err := handle.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, v)
	require.Equal(t, 5, a.n)
}

func TestMultiDispatchAsyncReply(t *testing.T) {
	a := &counterMultiActor{n: 3}
	handler := HandlerFunc[counterMultiActor, struct{}, int]((*counterMultiActor).handleAsyncGet)

	msg, handle := NewHandlerMessage[counterMultiActor, struct{}, int](handler, struct{}{})

	ectx := &ActorContext{id: "t", signal: NewCancelToken[struct{}](), wg: nil}
	msg.Invoke(context.Background(), a, ectx)

	v, err := handle.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, v)
}

func TestCallReplyIsTakeOnce(t *testing.T) {
	cell := newReplyCell[int]()
	call := &Call[counterMultiActor, int]{cell: cell}

	require.True(t, call.Reply(1))
	require.ErrorIs(t, call.TryReply(2), ErrReplyTaken)
	require.True(t, call.Replied())
}
