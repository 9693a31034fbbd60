package actorutil_test

import (
	"context"
	"testing"

	"github.com/fenwick-labs/actorcore/internal/actor"
	"github.com/fenwick-labs/actorcore/internal/actorutil"
	"github.com/stretchr/testify/require"
)

func TestPoolRoundRobinsAndBroadcasts(t *testing.T) {
	ctx := context.Background()

	pool, err := actorutil.NewPool(ctx, actorutil.PoolConfig[int, int, string, int]{
		ID:   "doublers",
		Size: 3,
		Spawn: func(ctx context.Context, idx int) (actor.Link[*actor.Envelope[int, int], string, int], error) {
			return actor.Spawn[*doublerActor, doubleMessage, string, int](ctx, &doublerActor{})
		},
	})
	require.NoError(t, err)
	defer pool.Stop()

	require.Equal(t, 3, pool.Size())

	for i := 1; i <= 3; i++ {
		v, err := pool.Ask(ctx, i)
		require.NoError(t, err)
		require.Equal(t, i*2, v)
	}

	handles := pool.BroadcastAsk(ctx, 10)
	require.Len(t, handles, 3)
	for _, h := range handles {
		v, err := h.Await(ctx)
		require.NoError(t, err)
		require.Equal(t, 20, v)
	}
}
