package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// GetCurrentDesktop returns the current virtual desktop number (0-indexed).
// Uses _NET_CURRENT_DESKTOP atom. Returns 0 with an error if detection fails.
func (c *Connection) GetCurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// GetWindowDesktop returns the desktop number a window is on.
// Uses _NET_WM_DESKTOP atom. Returns -1 for "sticky" windows (visible on all desktops).
// Returns 0 with an error if detection fails.
func (c *Connection) GetWindowDesktop(windowID uint32) (int, error) {
	desktop, err := ewmh.WmDesktopGet(c.XUtil, xproto.Window(windowID))
	if err != nil {
		return 0, fmt.Errorf("failed to get window desktop: %w", err)
	}
	// 0xFFFFFFFF means the window is on all desktops (sticky)
	if desktop == 0xFFFFFFFF {
		return -1, nil
	}
	return int(desktop), nil
}

// GetDesktopLayout returns the desktop count and the number of columns in
// the pager grid from _NET_DESKTOP_LAYOUT. Without a layout hint desktops
// are treated as a single row.
func (c *Connection) GetDesktopLayout() (count, columns int, err error) {
	n, err := ewmh.NumberOfDesktopsGet(c.XUtil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get desktop count: %w", err)
	}
	count = int(n)
	columns = count

	layout, err := ewmh.DesktopLayoutGet(c.XUtil)
	if err == nil && layout.Columns > 0 {
		columns = int(layout.Columns)
	}
	return count, columns, nil
}
