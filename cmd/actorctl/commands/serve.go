package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fenwick-labs/actorcore/internal/actor"
	"github.com/fenwick-labs/actorcore/internal/eventlog"
	"github.com/fenwick-labs/actorcore/internal/examples"
	"github.com/fenwick-labs/actorcore/internal/mcpbridge"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var serveEventlogPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Spawn the reference actors and expose them over MCP on stdio",
	Long: `serve spawns a counter, echo, and worker actor, registers them with
the mcpbridge tool surface (tell/ask/list_actors), and additionally wires
an eventlog recorder that every spawn is announced to. It then blocks
serving MCP requests on stdio until the client disconnects.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveEventlogPath, "eventlog", "", "sqlite path for the actor event log (default: temp file)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath := serveEventlogPath
	if dbPath == "" {
		var err error
		dbPath, err = eventlog.DefaultDBPath(os.TempDir())
		if err != nil {
			return fmt.Errorf("resolve eventlog path: %w", err)
		}
	}

	store, err := eventlog.Open(ctx, eventlog.Config{DatabaseFilePath: dbPath})
	if err != nil {
		return fmt.Errorf("open eventlog: %w", err)
	}
	defer store.Close()

	recorder, err := eventlog.SpawnRecorder(ctx, store, actor.WithActorID(uuid.NewString()))
	if err != nil {
		return fmt.Errorf("spawn recorder: %w", err)
	}
	defer recorder.Release()

	reg := mcpbridge.NewRegistry()

	counter, err := examples.SpawnCounter(ctx, 0, actor.WithActorID(uuid.NewString()))
	if err != nil {
		return fmt.Errorf("spawn counter: %w", err)
	}
	defer counter.Release()
	mcpbridge.RegisterAsk[examples.CounterRequest, examples.CounterResponse](reg, counter.ID(), counter)
	recordSpawn(ctx, recorder, counter.ID(), "counter")

	echo, err := examples.SpawnEcho(ctx, actor.WithActorID(uuid.NewString()))
	if err != nil {
		return fmt.Errorf("spawn echo: %w", err)
	}
	defer echo.Release()
	mcpbridge.RegisterAsk[string, examples.EchoResponse](reg, echo.ID(), echo)
	recordSpawn(ctx, recorder, echo.ID(), "echo")

	worker, err := examples.SpawnWorker(ctx, 1, actor.WithActorID(uuid.NewString()))
	if err != nil {
		return fmt.Errorf("spawn worker: %w", err)
	}
	defer worker.Release()
	mcpbridge.RegisterTell[examples.WorkerMessage](reg, worker.ID(), worker)
	recordSpawn(ctx, recorder, worker.ID(), "worker")

	bridge := mcpbridge.NewServer(reg)
	return bridge.Run(ctx, &mcp.StdioTransport{})
}

func recordSpawn(ctx context.Context, recorder actor.Link[eventlog.RecorderMessage, string, int], actorID, kind string) {
	if _, err := eventlog.Record(ctx, recorder, eventlog.RecordRequest{
		ActorID: actorID,
		Kind:    "spawned",
		Detail:  kind,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "eventlog: failed to record spawn of %s: %v\n", actorID, err)
	}
}
