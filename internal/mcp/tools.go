package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskfx/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *status, nil
}

func (s *Server) handleListBackgrounds(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.MonitorsData, error) {
	monitors, err := s.client.GetMonitors()
	if err != nil {
		return nil, ipc.MonitorsData{}, err
	}
	out := *monitors
	if out.Monitors == nil {
		out.Monitors = []ipc.MonitorInfo{}
	}
	return nil, out, nil
}

func (s *Server) handleListEffects(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.EffectsData, error) {
	effects, err := s.client.GetEffects()
	if err != nil {
		return nil, ipc.EffectsData{}, err
	}
	out := *effects
	if out.Effects == nil {
		out.Effects = []ipc.EffectInfo{}
	}
	return nil, out, nil
}

func (s *Server) handleSnapshot(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapshotInput) (*mcpsdk.CallToolResult, ipc.SnapshotData, error) {
	path := args.Path
	if path == "" {
		if s.defaultSnapshotPath == nil {
			return nil, ipc.SnapshotData{}, fmt.Errorf("path is required")
		}
		var err error
		path, err = s.defaultSnapshotPath()
		if err != nil {
			return nil, ipc.SnapshotData{}, fmt.Errorf("resolve snapshot path: %w", err)
		}
	}
	data, err := s.client.Snapshot(path)
	if err != nil {
		return nil, ipc.SnapshotData{}, err
	}
	s.logger.Info("snapshot written", "path", data.Path, "width", data.Width, "height", data.Height)
	return nil, *data, nil
}
