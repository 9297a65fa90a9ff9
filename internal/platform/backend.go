package platform

import "github.com/1broseidon/deskfx/internal/scene"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Display describes a physical display.
type Display struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Bounds scene.Rect `json:"bounds"`
}

// Monitors is an ordered monitor list. It satisfies the background
// manager's Display interface.
type Monitors []Display

// MonitorCount returns the number of monitors.
func (m Monitors) MonitorCount() int { return len(m) }

// MonitorGeometry returns the bounds of monitor i, or an empty rect when i
// is out of range.
func (m Monitors) MonitorGeometry(i int) scene.Rect {
	if i < 0 || i >= len(m) {
		return scene.Rect{}
	}
	return m[i].Bounds
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID      WindowID
	AppID   string
	Title   string
	Bounds  scene.Rect
	Desktop int
	Hidden  bool
}

// PropertyChange reports that a window property changed. Root is set for
// changes on the root window.
type PropertyChange struct {
	Window WindowID
	Root   bool
	Atom   string
}

// Backend abstracts the window-system operations the effects daemon needs.
type Backend interface {
	Displays() (Monitors, error)
	SetKeymap(layout, variant, options string) error
}
