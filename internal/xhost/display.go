package xhost

import (
	"log/slog"

	"github.com/1broseidon/deskfx/internal/platform"
	"github.com/1broseidon/deskfx/internal/scene"
)

// LiveDisplay reads the monitor layout from the X server. MonitorCount
// refreshes the cached list; MonitorGeometry reads from it.
type LiveDisplay struct {
	source  Source
	stage   *scene.Stage
	logger  *slog.Logger
	current platform.Monitors
}

// MonitorCount re-queries the monitors and resizes the stage to cover them.
func (d *LiveDisplay) MonitorCount() int {
	mons, err := d.source.Displays()
	if err != nil {
		d.logger.Warn("failed to query monitors", "error", err)
		d.current = nil
		return 0
	}
	d.current = mons
	if d.stage != nil && len(mons) > 0 {
		var w, h int
		for _, m := range mons {
			w = max(w, m.Bounds.X+m.Bounds.Width)
			h = max(h, m.Bounds.Y+m.Bounds.Height)
		}
		d.stage.SetSize(w, h)
	}
	return len(mons)
}

// MonitorGeometry returns monitor i from the last count.
func (d *LiveDisplay) MonitorGeometry(i int) scene.Rect {
	return d.current.MonitorGeometry(i)
}

// Monitors returns the list read by the last MonitorCount.
func (d *LiveDisplay) Monitors() platform.Monitors { return d.current }
