package eventlog

import (
	"context"
	"fmt"
	"time"

	"github.com/fenwick-labs/actorcore/internal/actor"
)

// RecordRequest is the payload sent to a RecorderActor to append one
// lifecycle event.
type RecordRequest struct {
	ActorID       string
	ParentActorID string
	Kind          string
	Detail        string
}

// RecordResponse is the reply to a RecordRequest.
type RecordResponse struct {
	EventID int64
}

// RecorderMessage is the RecorderActor's Message type.
type RecorderMessage = *actor.Envelope[RecordRequest, RecordResponse]

// RecorderActor serializes writes to a Store behind a single mailbox so
// concurrent Tell/Ask callers never race on the underlying *sql.DB.
type RecorderActor struct {
	store    *Store
	recorded actor.Count[RecorderActor]
}

// NewRecorderActor wraps store for actor-mailbox access.
func NewRecorderActor(store *Store) *RecorderActor {
	return &RecorderActor{store: store}
}

func (a *RecorderActor) Init(ctx context.Context, init *actor.Init[RecorderMessage, string, int]) error {
	a.recorded.Inc()
	log.InfoContext(ctx, "eventlog recorder initialized")
	return nil
}

func (a *RecorderActor) Snapshot() int { return int(a.recorded.Live()) }

func (a *RecorderActor) Handle(ctx context.Context, ectx *actor.Exec[RecorderMessage, string, int], msg RecorderMessage) {
	req, reply := msg.Split()

	id, err := a.store.RecordEvent(ctx, Event{
		ActorID:       req.ActorID,
		ParentActorID: req.ParentActorID,
		Kind:          req.Kind,
		Detail:        req.Detail,
		OccurredAt:    time.Now(),
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to record eventlog entry", "error", err, "actor_id", req.ActorID, "kind", req.Kind)
	}
	reply(RecordResponse{EventID: id})
}

func (a *RecorderActor) Tick() <-chan time.Time { return nil }

func (a *RecorderActor) OnTick(context.Context, *actor.Exec[RecorderMessage, string, int]) {}

func (a *RecorderActor) Terminate(ctx context.Context, _ *actor.Exec[RecorderMessage, string, int], reason actor.CancelReason[string]) {
	a.recorded.Dec()
	log.InfoContext(ctx, "eventlog recorder terminating", "reason", reason.Value)
}

func (a *RecorderActor) TerminationStrategy() actor.TerminationStrategy {
	return actor.StrategyProcessAll
}

func (a *RecorderActor) Crash(err error) {
	log.ErrorContext(context.Background(), "eventlog recorder crashed", "error", err)
}

// SpawnRecorder spawns a RecorderActor bound to store.
func SpawnRecorder(ctx context.Context, store *Store, opts ...actor.SpawnOption) (actor.Link[RecorderMessage, string, int], error) {
	return actor.Spawn[*RecorderActor, RecorderMessage, string, int](ctx, NewRecorderActor(store), opts...)
}

// Record is a convenience wrapper around actor.Ask for appending one event
// through a running RecorderActor.
func Record(ctx context.Context, l actor.Link[RecorderMessage, string, int], req RecordRequest) (int64, error) {
	resp, err := actor.Ask[RecordRequest, RecordResponse](ctx, l, req)
	if err != nil {
		return 0, fmt.Errorf("eventlog: record: %w", err)
	}
	return resp.EventID, nil
}
