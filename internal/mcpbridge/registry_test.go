package mcpbridge_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fenwick-labs/actorcore/internal/examples"
	"github.com/fenwick-labs/actorcore/internal/mcpbridge"
	"github.com/stretchr/testify/require"
)

func TestRegisterAskRoundTripsJSON(t *testing.T) {
	ctx := context.Background()
	link, err := examples.SpawnCounter(ctx, 5)
	require.NoError(t, err)
	defer link.Release()

	reg := mcpbridge.NewRegistry()
	mcpbridge.RegisterAsk[examples.CounterRequest, examples.CounterResponse](reg, "counter-1", link)

	entry, ok := reg.Lookup("counter-1")
	require.True(t, ok)
	require.True(t, entry.Askable())

	payload, err := json.Marshal(examples.CounterIncrement)
	require.NoError(t, err)

	raw, err := entry.Ask(ctx, payload)
	require.NoError(t, err)

	var resp examples.CounterResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Equal(t, 6, resp.Count)
}

func TestListReportsAllRegisteredActors(t *testing.T) {
	ctx := context.Background()
	link, err := examples.SpawnCounter(ctx, 0)
	require.NoError(t, err)
	defer link.Release()

	reg := mcpbridge.NewRegistry()
	mcpbridge.RegisterAsk[examples.CounterRequest, examples.CounterResponse](reg, "counter-2", link)

	entries := reg.List()
	require.Len(t, entries, 1)
	require.Equal(t, "counter-2", entries[0].ID)

	reg.Unregister("counter-2")
	require.Empty(t, reg.List())
}

func TestLookupUnknownActorFails(t *testing.T) {
	reg := mcpbridge.NewRegistry()
	_, ok := reg.Lookup("missing")
	require.False(t, ok)
}
