package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TellArgs are the arguments for the tell tool.
type TellArgs struct {
	ActorID string          `json:"actor_id" jsonschema:"ID of the target actor"`
	Payload json.RawMessage `json:"payload" jsonschema:"JSON-encoded message payload"`
}

// TellResult is the result of the tell tool.
type TellResult struct {
	Delivered bool `json:"delivered"`
}

func (s *Server) handleTell(ctx context.Context,
	req *mcp.CallToolRequest, args TellArgs) (*mcp.CallToolResult, TellResult, error) {

	entry, ok := s.registry.Lookup(args.ActorID)
	if !ok {
		return nil, TellResult{}, fmt.Errorf("mcpbridge: unknown actor %q", args.ActorID)
	}
	if entry.Tell == nil {
		return nil, TellResult{}, fmt.Errorf("mcpbridge: actor %q does not accept tell", args.ActorID)
	}
	if err := entry.Tell(ctx, args.Payload); err != nil {
		return nil, TellResult{}, err
	}
	return nil, TellResult{Delivered: true}, nil
}

// AskArgs are the arguments for the ask tool.
type AskArgs struct {
	ActorID string          `json:"actor_id" jsonschema:"ID of the target actor"`
	Payload json.RawMessage `json:"payload,omitempty" jsonschema:"JSON-encoded request payload"`
}

// AskResult is the result of the ask tool.
type AskResult struct {
	Response json.RawMessage `json:"response"`
}

func (s *Server) handleAsk(ctx context.Context,
	req *mcp.CallToolRequest, args AskArgs) (*mcp.CallToolResult, AskResult, error) {

	entry, ok := s.registry.Lookup(args.ActorID)
	if !ok {
		return nil, AskResult{}, fmt.Errorf("mcpbridge: unknown actor %q", args.ActorID)
	}
	if entry.Ask == nil {
		return nil, AskResult{}, fmt.Errorf("mcpbridge: actor %q does not accept ask", args.ActorID)
	}

	resp, err := entry.Ask(ctx, args.Payload)
	if err != nil {
		return nil, AskResult{}, err
	}
	return nil, AskResult{Response: resp}, nil
}

// ListActorsArgs are the arguments for the list_actors tool (none).
type ListActorsArgs struct{}

// ActorSummary describes one registered actor.
type ActorSummary struct {
	ID          string `json:"id"`
	MessageType string `json:"message_type"`
	Askable     bool   `json:"askable"`
}

// ListActorsResult is the result of the list_actors tool.
type ListActorsResult struct {
	Actors []ActorSummary `json:"actors"`
}

func (s *Server) handleListActors(ctx context.Context,
	req *mcp.CallToolRequest, args ListActorsArgs) (*mcp.CallToolResult, ListActorsResult, error) {

	entries := s.registry.List()
	out := make([]ActorSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActorSummary{
			ID:          e.ID,
			MessageType: e.MessageType,
			Askable:     e.Askable(),
		})
	}
	return nil, ListActorsResult{Actors: out}, nil
}
