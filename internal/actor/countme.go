package actor

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Count is a lightweight, type-parameterized live-instance counter. Each
// actor type that wants population diagnostics embeds a Count[itsOwnType]
// value (zero-sized in the common case where nobody reads it) and calls
// Inc/Dec around its lifecycle; Live() reports the current population
// across every instance of that type.
//
// Modeled on the map+mutex-free atomic counters system.go uses for
// receptionist bookkeeping, specialized to per-type population tracking
// rather than a registry of live refs.
type Count[T any] struct {
	_ [0]T
}

var liveCounts sync.Map // reflect.Type -> *atomic.Int64

func counterFor[T any]() *atomic.Int64 {
	key := reflect.TypeFor[T]()
	if v, ok := liveCounts.Load(key); ok {
		return v.(*atomic.Int64)
	}
	v, _ := liveCounts.LoadOrStore(key, new(atomic.Int64))
	return v.(*atomic.Int64)
}

// Inc increments the live count for T and returns the new total.
func (Count[T]) Inc() int64 {
	return counterFor[T]().Add(1)
}

// Dec decrements the live count for T and returns the new total.
func (Count[T]) Dec() int64 {
	return counterFor[T]().Add(-1)
}

// Live reports the current live count for T.
func (Count[T]) Live() int64 {
	return counterFor[T]().Load()
}
