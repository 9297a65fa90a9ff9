package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Window is a managed top-level client as seen through EWMH.
type Window struct {
	ID      xproto.Window
	Title   string
	Class   string
	X       int
	Y       int
	Width   int
	Height  int
	Desktop int
	Hidden  bool
}

// ClientList returns managed normal windows bottom-to-top.
func (c *Connection) ClientList() ([]Window, error) {
	clients, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil {
		clients, err = ewmh.ClientListGet(c.XUtil)
		if err != nil {
			return nil, fmt.Errorf("failed to get client list: %w", err)
		}
	}

	windows := make([]Window, 0, len(clients))
	for _, id := range clients {
		if !c.IsNormalWindow(id) {
			continue
		}
		w, err := c.WindowInfo(id)
		if err != nil {
			continue
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// WindowInfo reads geometry, title, desktop and hidden state for one window.
func (c *Connection) WindowInfo(id xproto.Window) (Window, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return Window{}, fmt.Errorf("get geometry of 0x%x: %w", uint32(id), err)
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), id, c.Root, 0, 0).Reply()
	if err != nil {
		return Window{}, fmt.Errorf("translate coordinates of 0x%x: %w", uint32(id), err)
	}

	desktop, err := c.GetWindowDesktop(uint32(id))
	if err != nil {
		desktop = -1
	}
	return Window{
		ID:      id,
		Title:   c.windowTitle(id),
		Class:   c.windowClass(id),
		X:       int(translate.DstX),
		Y:       int(translate.DstY),
		Width:   int(geom.Width),
		Height:  int(geom.Height),
		Desktop: desktop,
		Hidden:  c.IsHidden(id),
	}, nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

// IsHidden reports whether the window carries _NET_WM_STATE_HIDDEN.
func (c *Connection) IsHidden(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// IconGeometry returns _NET_WM_ICON_GEOMETRY, set by taskbars for minimize
// animations.
func (c *Connection) IconGeometry(windowID xproto.Window) (x, y, width, height int, ok bool) {
	geom, err := ewmh.WmIconGeometryGet(c.XUtil, windowID)
	if err != nil || geom.Width == 0 || geom.Height == 0 {
		return 0, 0, 0, 0, false
	}
	return geom.X, geom.Y, int(geom.Width), int(geom.Height), true
}

func (c *Connection) windowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}
