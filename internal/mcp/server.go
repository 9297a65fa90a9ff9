// Package mcp serves read-only daemon status to MCP clients over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskfx/internal/ipc"
)

const (
	ServerName    = "deskfx"
	ServerVersion = "0.1.0"
)

// StatusClient is the subset of the IPC client the tools call.
type StatusClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	GetEffects() (*ipc.EffectsData, error)
	Snapshot(path string) (*ipc.SnapshotData, error)
}

// Server is the MCP server for deskfx status.
type Server struct {
	mcpServer *mcpsdk.Server
	client    StatusClient
	logger    *slog.Logger

	// defaultSnapshotPath resolves the snapshot path when none is given.
	defaultSnapshotPath func() (string, error)
}

// NewServer creates an MCP server that answers from the running daemon.
func NewServer(client StatusClient, logger *slog.Logger, defaultSnapshotPath func() (string, error)) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		client:              client,
		logger:              logger,
		defaultSnapshotPath: defaultSnapshotPath,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report daemon status: plugin name and version, backend mode, uptime, background count, running effects by category, and the keymap applied at start-up.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_backgrounds",
		Description: "List monitors with their geometry and the hex color of the background built for each.",
	}, s.handleListBackgrounds)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_effects",
		Description: "List running effects in start order with category, target actor, progress and duration.",
	}, s.handleListEffects)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snapshot",
		Description: "Render the current scene to a PNG file on the daemon's machine and return its path and size.",
	}, s.handleSnapshot)
}
