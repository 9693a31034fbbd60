// Package mcpbridge exposes a registry of running actors as an MCP tool
// surface: tell, ask, and list_actors, so an MCP client (an LLM agent) can
// drive actors without a Go-typed handle.
//
// Grounded on internal/mcp/server.go's mcp.NewServer/mcp.AddTool
// registration pattern, retargeted from the mail service's fixed tool list
// to a dynamic actor directory.
package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/fenwick-labs/actorcore/internal/actor"
)

// TellFunc decodes payload and delivers it to a registered actor's mailbox.
type TellFunc func(ctx context.Context, payload json.RawMessage) error

// AskFunc decodes payload, sends it to a registered actor, and re-encodes
// the reply. Entries without request/reply semantics leave this nil.
type AskFunc func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)

// Entry describes one actor reachable through the bridge.
type Entry struct {
	ID          string
	MessageType string
	Tell        TellFunc
	Ask         AskFunc
}

// Askable reports whether the entry supports the ask tool.
func (e Entry) Askable() bool { return e.Ask != nil }

// Registry is a concurrency-safe directory of actors by ID, mirroring the
// role internal/mcp.Server.registry (agent.Registry) plays for mail agents.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds or replaces the entry for id.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = e
}

// Unregister removes id from the directory.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Lookup returns the entry for id, if any.
func (r *Registry) Lookup(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// List returns every registered entry, sorted by ID for stable output.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RegisterTell registers a Tell-only actor: payload is JSON-decoded into M
// and delivered via link.Tell.
func RegisterTell[M any, C any, S any](reg *Registry, id string, link actor.Link[M, C, S]) {
	reg.Register(Entry{
		ID:          id,
		MessageType: fmt.Sprintf("%T", *new(M)),
		Tell: func(ctx context.Context, payload json.RawMessage) error {
			var msg M
			if err := json.Unmarshal(payload, &msg); err != nil {
				return fmt.Errorf("mcpbridge: decode message for %s: %w", id, err)
			}
			return link.Tell(ctx, msg)
		},
	})
}

// RegisterAsk registers an Envelope-backed actor: payload is JSON-decoded
// into T, sent via actor.Ask, and the R reply is JSON-encoded back.
func RegisterAsk[T any, R any, C any, S any](reg *Registry, id string, link actor.Link[*actor.Envelope[T, R], C, S]) {
	reg.Register(Entry{
		ID:          id,
		MessageType: fmt.Sprintf("%T", *new(T)),
		Ask: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req T
			if len(payload) > 0 {
				if err := json.Unmarshal(payload, &req); err != nil {
					return nil, fmt.Errorf("mcpbridge: decode request for %s: %w", id, err)
				}
			}
			resp, err := actor.Ask[T, R](ctx, link, req)
			if err != nil {
				return nil, err
			}
			out, err := json.Marshal(resp)
			if err != nil {
				return nil, fmt.Errorf("mcpbridge: encode response for %s: %w", id, err)
			}
			return out, nil
		},
	})
}
