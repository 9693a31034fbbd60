package actor

import (
	"context"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
)

func TestSendMessageEnvelopeRoundTrip(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)
	defer link.Release()

	reply, err := SendAndReply[echoMessage, string](ctx, link, EnvelopeMessage[string, string]{Payload: "hi"})
	require.NoError(t, err)
	require.Equal(t, "HI", reply)
}

func TestSendAndForgetDoesNotBlock(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)
	defer link.Release()

	SendAndForget[echoMessage, string](ctx, link, EnvelopeMessage[string, string]{Payload: "bye"})

	require.Eventually(t, func() bool {
		n, ok := link.State()
		return ok && n >= 1
	}, time.Second, time.Millisecond)
}

func TestSendWithTimeoutHonorsOption(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)
	defer link.Release()

	reply, err := SendWithTimeout[echoMessage, string](
		ctx, link, EnvelopeMessage[string, string]{Payload: "slow"}, fn.Some(time.Second))
	require.NoError(t, err)
	require.Equal(t, "SLOW", reply)

	reply, err = SendWithTimeout[echoMessage, string](
		ctx, link, EnvelopeMessage[string, string]{Payload: "none"}, fn.None[time.Duration]())
	require.NoError(t, err)
	require.Equal(t, "NONE", reply)
}

// multiEchoActor dispatches a Multi[multiEchoActor]-shaped message, giving
// HandlerMessage something concrete to exercise through SendMessage.
type multiEchoActor struct {
	handled int
}

type multiEchoMessage = Multi[multiEchoActor]

func (a *multiEchoActor) upper(_ context.Context, call *Call[multiEchoActor, string], s string) Reply[string] {
	a.handled++
	return Value(upper(s))
}

func (a *multiEchoActor) Init(context.Context, *Init[multiEchoMessage, string, int]) error {
	return nil
}
func (a *multiEchoActor) Snapshot() int { return a.handled }

func (a *multiEchoActor) Handle(ctx context.Context, ectx *Exec[multiEchoMessage, string, int], msg multiEchoMessage) {
	DispatchMulti(ctx, a, ectx.ActorContext, msg)
}

func (a *multiEchoActor) Tick() <-chan time.Time { return nil }

func (a *multiEchoActor) OnTick(context.Context, *Exec[multiEchoMessage, string, int]) {}

func (a *multiEchoActor) Terminate(context.Context, *Exec[multiEchoMessage, string, int], CancelReason[string]) {
}

func (a *multiEchoActor) TerminationStrategy() TerminationStrategy { return StrategyExit }

func (a *multiEchoActor) Crash(error) {}

func TestSendMessageHandlerMessageRoundTrip(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*multiEchoActor, multiEchoMessage, string, int](ctx, &multiEchoActor{})
	require.NoError(t, err)
	defer link.Release()

	handler := HandlerFunc[multiEchoActor, string, string]((*multiEchoActor).upper)
	reply, err := SendAndReply[multiEchoMessage, string](
		ctx, link, HandlerMessage[multiEchoActor, string, string]{Handler: handler, Payload: "go"})
	require.NoError(t, err)
	require.Equal(t, "GO", reply)
}

func TestRelayMessagePreservesOriginalReplyCell(t *testing.T) {
	ctx := context.Background()

	downstream, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)
	defer downstream.Release()

	src, callerHandle := NewEnvelope[string, string]("relay-me")
	relayDone := SendMessage[echoMessage, struct{}](ctx, downstream, NewRelayMessage[string](src, src.Payload()))

	_, err = relayDone.Await(ctx)
	require.NoError(t, err)

	got, err := callerHandle.Await(ctx)
	require.NoError(t, err)
	require.Equal(t, "RELAY-ME", got)
}

func TestWeakSendMessageSynthesizesFailureWhenDead(t *testing.T) {
	ctx := context.Background()

	link, err := Spawn[*echoActor, echoMessage, string, int](ctx, &echoActor{})
	require.NoError(t, err)

	weak := link.Downgrade()
	link.Release()

	require.Eventually(t, func() bool { return !weak.Alive() }, time.Second, time.Millisecond)

	reply, err := WeakSendAndReply[echoMessage, string](ctx, weak, EnvelopeMessage[string, string]{
		Payload:  "x",
		FailWith: func(error) string { return "dead" },
	})
	require.NoError(t, err)
	require.Equal(t, "dead", reply)
}
