package examples

import (
	"context"
	"fmt"
	"time"

	"github.com/fenwick-labs/actorcore/internal/actor"
)

// WorkerMessage is the Multi[A]-backed Message type for Worker: unlike
// CounterActor/EchoActor, a single Worker answers two unrelated
// (payload, reply) shapes — Task and GetWorkerStats — dispatched through
// the same mailbox via boxed Handler values.
type WorkerMessage = actor.Multi[Worker]

// Task asks a Worker to process one unit of work, simulating processing_time
// worth of blocking I/O.
type Task struct {
	ID             uint32
	Data           string
	ProcessingTime time.Duration
}

// TaskResult is the reply for a Task.
type TaskResult struct {
	TaskID   uint32
	WorkerID uint32
	Result   string
}

// GetWorkerStats asks a Worker to report how many tasks it has completed.
type GetWorkerStats struct{}

// WorkerStats is the reply for GetWorkerStats.
type WorkerStats struct {
	WorkerID       uint32
	TasksProcessed uint32
}

// Worker processes Tasks slowly enough that handling them inline would
// stall the mailbox, so Task replies are delivered asynchronously: Handle
// returns immediately via Call.ReplyAsync and a spawned goroutine (tracked
// by ActorContext.Spawn, so shutdown waits for it) does the simulated work
// and calls Call.Reply once done.
type Worker struct {
	id             uint32
	tasksProcessed uint32
}

// NewWorker builds a Worker with the given stable id.
func NewWorker(id uint32) *Worker {
	return &Worker{id: id}
}

func (w *Worker) Init(ctx context.Context, init *actor.Init[WorkerMessage, string, WorkerStats]) error {
	log.InfoS(ctx, "worker initialized", "worker_id", w.id)
	return nil
}

func (w *Worker) Snapshot() WorkerStats {
	return WorkerStats{WorkerID: w.id, TasksProcessed: w.tasksProcessed}
}

func (w *Worker) Handle(ctx context.Context, ectx *actor.Exec[WorkerMessage, string, WorkerStats], msg WorkerMessage) {
	actor.DispatchMulti(ctx, w, ectx.ActorContext, msg)
}

func (w *Worker) Tick() <-chan time.Time { return nil }

func (w *Worker) OnTick(context.Context, *actor.Exec[WorkerMessage, string, WorkerStats]) {}

func (w *Worker) Terminate(ctx context.Context, _ *actor.Exec[WorkerMessage, string, WorkerStats], reason actor.CancelReason[string]) {
	log.InfoS(ctx, "worker terminating", "worker_id", w.id, "reason", reason.Value)
}

func (w *Worker) TerminationStrategy() actor.TerminationStrategy {
	return actor.StrategyExit
}

func (w *Worker) Crash(err error) {
	log.ErrorS(context.Background(), "worker crashed", err, "worker_id", w.id)
}

// HandleTask implements the Task side of Worker's dispatch table.
func (w *Worker) HandleTask(ctx context.Context, call *actor.Call[Worker, TaskResult], task Task) actor.Reply[TaskResult] {
	call.Ctx.Spawn(ctx, func(ctx context.Context) {
		select {
		case <-time.After(task.ProcessingTime):
		case <-ctx.Done():
			return
		}
		w.tasksProcessed++
		call.Reply(TaskResult{
			TaskID:   task.ID,
			WorkerID: w.id,
			Result:   fmt.Sprintf("processed %q by worker %d", task.Data, w.id),
		})
	})
	return call.ReplyAsync()
}

// HandleGetWorkerStats implements the GetWorkerStats side of Worker's
// dispatch table; unlike HandleTask this answers synchronously.
func (w *Worker) HandleGetWorkerStats(ctx context.Context, call *actor.Call[Worker, WorkerStats], _ GetWorkerStats) actor.Reply[WorkerStats] {
	return actor.Value(w.Snapshot())
}

// SpawnWorker spawns a Worker with the given id.
func SpawnWorker(ctx context.Context, id uint32, opts ...actor.SpawnOption) (actor.Link[WorkerMessage, string, WorkerStats], error) {
	return actor.Spawn[*Worker, WorkerMessage, string, WorkerStats](ctx, NewWorker(id), opts...)
}

// SendTask boxes task behind Worker.HandleTask and sends it to l, returning
// the MessageHandle for the eventual TaskResult.
func SendTask(ctx context.Context, l actor.Link[WorkerMessage, string, WorkerStats], task Task) (*actor.MessageHandle[TaskResult], error) {
	msg, handle := actor.NewHandlerMessage[Worker, Task, TaskResult](
		actor.HandlerFunc[Worker, Task, TaskResult]((*Worker).HandleTask), task,
	)
	if err := l.Tell(ctx, msg); err != nil {
		return nil, err
	}
	return handle, nil
}

// AskWorkerStats boxes a GetWorkerStats request and awaits the reply.
func AskWorkerStats(ctx context.Context, l actor.Link[WorkerMessage, string, WorkerStats]) (WorkerStats, error) {
	msg, handle := actor.NewHandlerMessage[Worker, GetWorkerStats, WorkerStats](
		actor.HandlerFunc[Worker, GetWorkerStats, WorkerStats]((*Worker).HandleGetWorkerStats), GetWorkerStats{},
	)
	if err := l.Tell(ctx, msg); err != nil {
		return WorkerStats{}, err
	}
	return handle.Await(ctx)
}
