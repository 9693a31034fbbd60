package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCancelTokenFirstCancelWins(t *testing.T) {
	tok := NewCancelToken[string]()

	require.True(t, tok.Cancel("first"))
	require.False(t, tok.Cancel("second"))

	reason, ok := tok.Reason()
	require.True(t, ok)
	require.Equal(t, "first", reason.Value)
}

func TestCancelTokenPropagatesToExistingChildren(t *testing.T) {
	root := NewCancelToken[int]()
	child := root.Child()
	grandchild := child.Child()

	require.True(t, root.Cancel(42))

	reason, ok := child.Reason()
	require.True(t, ok)
	require.Equal(t, 42, reason.Value)

	reason, ok = grandchild.Reason()
	require.True(t, ok)
	require.Equal(t, 42, reason.Value)
}

func TestCancelTokenChildBornCancelledInheritsReason(t *testing.T) {
	root := NewCancelToken[int]()
	root.Cancel(7)

	child := root.Child()
	reason, ok := child.Reason()
	require.True(t, ok)
	require.Equal(t, 7, reason.Value)
}

func TestCancelTokenCancelledBlocksUntilFired(t *testing.T) {
	tok := NewCancelToken[string]()

	done := make(chan struct{})
	go func() {
		defer close(done)
		reason, ok := tok.Cancelled(context.Background())
		require.True(t, ok)
		require.Equal(t, "go-time", reason.Value)
	}()

	time.Sleep(10 * time.Millisecond)
	tok.Cancel("go-time")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cancelled did not unblock")
	}
}

func TestCancelTokenCancelledRespectsContext(t *testing.T) {
	tok := NewCancelToken[string]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := tok.Cancelled(ctx)
	require.False(t, ok)
}

func TestCancelTokenReset(t *testing.T) {
	tok := NewCancelToken[string]()
	tok.Cancel("x")
	require.True(t, tok.IsCancelled())

	tok.Reset()
	require.False(t, tok.IsCancelled())

	_, ok := tok.Reason()
	require.False(t, ok)
}

// TestCancelTokenTreePropagationProperty exercises the hierarchical
// propagation invariant under random tree shapes and random cancel points:
// cancelling a node must cancel exactly that node and every descendant that
// existed at cancel time, and must leave unrelated branches untouched.
func TestCancelTokenTreePropagationProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		root := NewCancelToken[int]()
		nodes := []*CancelToken[int]{root}
		parent := []int{-1}

		n := rapid.IntRange(0, 20).Draw(rt, "n")
		for i := 0; i < n; i++ {
			parentIdx := rapid.IntRange(0, len(nodes)-1).Draw(rt, "parent")
			nodes = append(nodes, nodes[parentIdx].Child())
			parent = append(parent, parentIdx)
		}

		isDescendant := func(idx, ancestor int) bool {
			for idx != -1 {
				if idx == ancestor {
					return true
				}
				idx = parent[idx]
			}
			return false
		}

		cancelIdx := rapid.IntRange(0, len(nodes)-1).Draw(rt, "cancelAt")
		reasonVal := rapid.Int().Draw(rt, "reason")
		nodes[cancelIdx].Cancel(reasonVal)

		for i, node := range nodes {
			want := isDescendant(i, cancelIdx)
			require.Equal(rt, want, node.IsCancelled(), "node %d", i)
		}
	})
}
