package eventlog_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fenwick-labs/actorcore/internal/eventlog"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *eventlog.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "eventlog.db")

	store, err := eventlog.Open(context.Background(), eventlog.Config{
		DatabaseFilePath: dbPath,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestRecordAndQueryEvents(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id, err := store.RecordEvent(ctx, eventlog.Event{
		ActorID: "actor-1",
		Kind:    "spawned",
		Detail:  "initial",
	})
	require.NoError(t, err)
	require.Positive(t, id)

	_, err = store.RecordEvent(ctx, eventlog.Event{
		ActorID:       "actor-1",
		ParentActorID: "actor-0",
		Kind:          "terminated",
		Detail:        "strategy=exit",
	})
	require.NoError(t, err)

	events, err := store.QueryEvents(ctx, "actor-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "spawned", events[0].Kind)
	require.Equal(t, "terminated", events[1].Kind)
	require.Equal(t, "actor-0", events[1].ParentActorID)
}

func TestQueryEventsEmptyForUnknownActor(t *testing.T) {
	store := openTestStore(t)

	events, err := store.QueryEvents(context.Background(), "does-not-exist")
	require.NoError(t, err)
	require.Empty(t, events)
}
