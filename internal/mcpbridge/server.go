package mcpbridge

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps an MCP server exposing a Registry of actors as tools.
type Server struct {
	server   *mcp.Server
	registry *Registry
}

// NewServer creates an MCP server with the tell/ask/list_actors tools
// registered against reg.
func NewServer(reg *Registry) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "actorcore-bridge",
		Version: "0.1.0",
	}, nil)

	s := &Server{server: mcpServer, registry: reg}
	s.registerTools()

	return s
}

// Run starts the bridge on transport, blocking until ctx is done or the
// transport closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tell",
		Description: "Send a one-way message to a registered actor by ID",
	}, s.handleTell)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Send a request to a registered actor and await its reply",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_actors",
		Description: "List actors reachable through this bridge",
	}, s.handleListActors)
}
