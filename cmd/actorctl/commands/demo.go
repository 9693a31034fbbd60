package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fenwick-labs/actorcore/internal/actor"
	"github.com/fenwick-labs/actorcore/internal/examples"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a reference actor in-process and print the result",
}

var (
	demoCounterStart int
	demoCounterTimes int
)

var demoCounterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Spawn a counter actor and increment it a number of times",
	RunE:  runDemoCounter,
}

func init() {
	demoCounterCmd.Flags().IntVar(&demoCounterStart, "start", 0, "initial count")
	demoCounterCmd.Flags().IntVar(&demoCounterTimes, "times", 3, "number of increments")

	demoCmd.AddCommand(demoCounterCmd)
	demoCmd.AddCommand(demoWorkerCmd)
	demoCmd.AddCommand(demoEchoCmd)
	demoCmd.AddCommand(demoProxyCmd)
}

func runDemoCounter(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	link, err := examples.SpawnCounter(ctx, demoCounterStart, actor.WithActorID(uuid.NewString()))
	if err != nil {
		return fmt.Errorf("spawn counter: %w", err)
	}
	defer link.Release()

	var count int
	for i := 0; i < demoCounterTimes; i++ {
		count, err = examples.AskIncrement(ctx, link)
		if err != nil {
			return fmt.Errorf("increment: %w", err)
		}
	}

	if outputFormat == "json" {
		return outputJSON(map[string]any{
			"actor_id": link.ID(),
			"count":    count,
		})
	}
	fmt.Printf("counter %s: count=%d\n", link.ID(), count)
	return nil
}

var (
	demoWorkerID    int
	demoWorkerTasks int
)

var demoWorkerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Spawn a worker and dispatch a number of asynchronous tasks to it",
	RunE:  runDemoWorker,
}

func init() {
	demoWorkerCmd.Flags().IntVar(&demoWorkerID, "worker-id", 1, "worker id")
	demoWorkerCmd.Flags().IntVar(&demoWorkerTasks, "tasks", 3, "number of tasks to submit")
}

func runDemoWorker(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	link, err := examples.SpawnWorker(ctx, uint32(demoWorkerID), actor.WithActorID(uuid.NewString()))
	if err != nil {
		return fmt.Errorf("spawn worker: %w", err)
	}
	defer link.Release()

	handles := make([]*actor.MessageHandle[examples.TaskResult], 0, demoWorkerTasks)
	for i := 0; i < demoWorkerTasks; i++ {
		handle, err := examples.SendTask(ctx, link, examples.Task{
			ID:             uint32(i + 1),
			Data:           fmt.Sprintf("task-%d", i+1),
			ProcessingTime: 5 * time.Millisecond,
		})
		if err != nil {
			return fmt.Errorf("send task: %w", err)
		}
		handles = append(handles, handle)
	}

	results := make([]examples.TaskResult, 0, len(handles))
	for _, h := range handles {
		result, err := h.Await(ctx)
		if err != nil {
			return fmt.Errorf("await task: %w", err)
		}
		results = append(results, result)
	}

	stats, err := examples.AskWorkerStats(ctx, link)
	if err != nil {
		return fmt.Errorf("ask stats: %w", err)
	}

	if outputFormat == "json" {
		return outputJSON(map[string]any{
			"results": results,
			"stats":   stats,
		})
	}
	for _, r := range results {
		fmt.Printf("task %d -> %s\n", r.TaskID, r.Result)
	}
	fmt.Printf("worker %d processed %d tasks\n", stats.WorkerID, stats.TasksProcessed)
	return nil
}

var demoEchoCmd = &cobra.Command{
	Use:   "echo [text...]",
	Short: "Spawn an echo actor and send it one message per argument",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDemoEcho,
}

func runDemoEcho(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	link, err := examples.SpawnEcho(ctx, actor.WithActorID(uuid.NewString()))
	if err != nil {
		return fmt.Errorf("spawn echo: %w", err)
	}
	defer link.Release()

	for _, text := range args {
		resp, err := actor.Ask[string, examples.EchoResponse](ctx, link, text)
		if err != nil {
			return fmt.Errorf("ask echo: %w", err)
		}
		if outputFormat == "json" {
			if err := outputJSON(resp); err != nil {
				return err
			}
			continue
		}
		fmt.Printf("[%d] %s\n", resp.Ordinal, resp.Text)
	}
	return nil
}

var demoProxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Front a counter actor with a Proxy, increment it, then Reset and increment again",
	RunE:  runDemoProxy,
}

func runDemoProxy(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	spec := actor.ProxySpec[*examples.CounterActor, examples.CounterMessage, string, int]{
		New: func() *examples.CounterActor { return examples.NewCounterActor(0) },
	}
	proxy, err := actor.NewProxy(ctx, spec)
	if err != nil {
		return fmt.Errorf("spawn counter proxy: %w", err)
	}

	beforeID := proxy.Current().ID()
	before, err := examples.AskIncrement(ctx, proxy.Current())
	if err != nil {
		return fmt.Errorf("increment before reset: %w", err)
	}

	if err := proxy.Reset(ctx, "demo reset"); err != nil {
		return fmt.Errorf("reset counter proxy: %w", err)
	}

	afterID := proxy.Current().ID()
	after, err := examples.AskIncrement(ctx, proxy.Current())
	if err != nil {
		return fmt.Errorf("increment after reset: %w", err)
	}
	proxy.Shutdown("demo done")

	if outputFormat == "json" {
		return outputJSON(map[string]any{
			"before_id":    beforeID,
			"before_count": before,
			"after_id":     afterID,
			"after_count":  after,
		})
	}
	fmt.Printf("counter %s: count=%d (before reset)\n", beforeID, before)
	fmt.Printf("counter %s: count=%d (after reset, fresh actor)\n", afterID, after)
	return nil
}
