// Package mcpserver exposes a tool.Registry over the Model Context
// Protocol, on either the stdio or the SSE transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cqian/sysdiag/tool"
)

// Option configures a Server.
type Option func(*config)

type config struct {
	name     string
	version  string
	basePath string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) Option {
	return func(c *config) {
		c.version = version
	}
}

// WithBasePath sets the URL prefix of the SSE endpoints.
func WithBasePath(basePath string) Option {
	return func(c *config) {
		c.basePath = basePath
	}
}

// New creates an MCP server exposing every tool in the registry. Tool
// schemas pass through verbatim as raw input schemas.
func New(registry *tool.Registry, opts ...Option) *server.MCPServer {
	cfg := &config{
		name:    "sysdiag-mcp",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	for _, t := range registry.Tools() {
		handler, ok := registry.Get(t.Name)
		if !ok || handler == nil {
			continue
		}
		s.AddTool(
			mcp.NewToolWithRawSchema(t.Name, t.Description, t.Schema),
			mcpHandler(handler),
		)
	}
	return s
}

// mcpHandler wraps a tool.Handler as an MCP tool handler. Handler errors
// become error results rather than protocol errors so clients can show
// them to the model.
func mcpHandler(handler tool.Handler) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := json.RawMessage("{}")
		if raw := req.Params.Arguments; raw != nil {
			data, err := json.Marshal(raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			args = data
		}

		result, err := handler(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

// ServeStdio serves the registry over stdin/stdout. This is the standard
// transport for MCP servers launched as subprocesses; nothing else may
// write to stdout while it runs.
func ServeStdio(registry *tool.Registry, opts ...Option) error {
	return server.ServeStdio(New(registry, opts...))
}

// ServeSSE serves the registry over HTTP server-sent events at addr.
// It blocks until the listener fails.
func ServeSSE(registry *tool.Registry, addr string, opts ...Option) error {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	sse := server.NewSSEServer(
		New(registry, opts...),
		server.WithStaticBasePath(cfg.basePath),
	)
	return sse.Start(addr)
}
