package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

type fakeProvider struct{}

func (p *fakeProvider) Status(context.Context) (StatusData, error) {
	return StatusData{
		Name:          "Default Effects",
		Version:       "0.1",
		Mode:          "x11",
		Started:       true,
		Backgrounds:   2,
		ActiveEffects: 1,
		EffectCounts:  map[string]int{"map": 1},
	}, nil
}

func (p *fakeProvider) Monitors(context.Context) (MonitorsData, error) {
	return MonitorsData{Monitors: []MonitorInfo{
		{ID: 0, Name: "DP-1", Width: 1920, Height: 1080, BackgroundColor: "#102030"},
	}}, nil
}

func (p *fakeProvider) Effects(context.Context) (EffectsData, error) {
	return EffectsData{}, errors.New("loop stopped")
}

func (p *fakeProvider) Snapshot(_ context.Context, req SnapshotPayload) (SnapshotData, error) {
	return SnapshotData{Path: req.Path, Width: 1920, Height: 1080}, nil
}

func startServer(t *testing.T, p StatusProvider) *Client {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "deskfx.sock")
	srv, err := NewServer(socket, p, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientWithSocket(socket)
}

func TestStatusAndMonitorsRoundTrip(t *testing.T) {
	c := startServer(t, &fakeProvider{})

	status, err := c.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Name != "Default Effects" || status.Backgrounds != 2 || status.EffectCounts["map"] != 1 {
		t.Fatalf("status = %+v", status)
	}

	monitors, err := c.GetMonitors()
	if err != nil {
		t.Fatalf("GetMonitors: %v", err)
	}
	if len(monitors.Monitors) != 1 || monitors.Monitors[0].BackgroundColor != "#102030" {
		t.Fatalf("monitors = %+v", monitors)
	}
}

func TestProviderErrorsAreReported(t *testing.T) {
	c := startServer(t, &fakeProvider{})

	_, err := c.GetEffects()
	if err == nil || !strings.Contains(err.Error(), "loop stopped") {
		t.Fatalf("GetEffects error = %v", err)
	}
}

func TestSnapshotRequiresPath(t *testing.T) {
	c := startServer(t, &fakeProvider{})

	if _, err := c.Snapshot(""); err == nil || !strings.Contains(err.Error(), "path is required") {
		t.Fatalf("Snapshot without path error = %v", err)
	}
	data, err := c.Snapshot("/tmp/scene.png")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if data.Path != "/tmp/scene.png" || data.Width != 1920 {
		t.Fatalf("snapshot = %+v", data)
	}
}

func TestUnknownCommand(t *testing.T) {
	s := &Server{provider: &fakeProvider{}, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	resp := s.handleCommand(context.Background(), &Request{Command: "RELOAD"})
	if resp.Status != "ERROR" || !strings.Contains(resp.Error, "Unknown command") {
		t.Fatalf("response = %+v", resp)
	}
}

func TestClientReportsMissingDaemon(t *testing.T) {
	c := NewClientWithSocket(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("Ping error = %v", err)
	}
}
