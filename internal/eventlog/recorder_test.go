package eventlog_test

import (
	"context"
	"testing"

	"github.com/fenwick-labs/actorcore/internal/eventlog"
	"github.com/stretchr/testify/require"
)

func TestRecorderActorAppendsThroughMailbox(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	link, err := eventlog.SpawnRecorder(ctx, store)
	require.NoError(t, err)
	defer link.Release()

	id1, err := eventlog.Record(ctx, link, eventlog.RecordRequest{
		ActorID: "actor-7", Kind: "spawned",
	})
	require.NoError(t, err)
	require.Positive(t, id1)

	id2, err := eventlog.Record(ctx, link, eventlog.RecordRequest{
		ActorID: "actor-7", Kind: "crashed", Detail: "boom",
	})
	require.NoError(t, err)
	require.Greater(t, id2, id1)

	events, err := store.QueryEvents(ctx, "actor-7")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "crashed", events[1].Kind)
	require.Equal(t, "boom", events[1].Detail)
}
