//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/deskfx/internal/scene"
	"github.com/1broseidon/deskfx/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays ordered by CRTC index.
func (b *LinuxBackend) Displays() (Monitors, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make(Monitors, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

// SetKeymap pushes an XKB layout to the X server.
func (b *LinuxBackend) SetKeymap(layout, variant, options string) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetKeymap(layout, variant, options)
}

// Windows lists managed normal windows bottom-to-top.
func (b *LinuxBackend) Windows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}
	windows := make([]Window, 0, len(clients))
	for _, c := range clients {
		windows = append(windows, windowFromX11(c))
	}
	return windows, nil
}

// Window returns the current state of one window.
func (b *LinuxBackend) Window(id WindowID) (Window, error) {
	conn, err := b.connection()
	if err != nil {
		return Window{}, err
	}
	w, err := conn.WindowInfo(xproto.Window(id))
	if err != nil {
		return Window{}, err
	}
	return windowFromX11(w), nil
}

// IconGeometry returns where the window's taskbar entry is, if a panel
// published it.
func (b *LinuxBackend) IconGeometry(id WindowID) (scene.Rect, bool) {
	conn, err := b.connection()
	if err != nil {
		return scene.Rect{}, false
	}
	x, y, w, h, ok := conn.IconGeometry(xproto.Window(id))
	if !ok {
		return scene.Rect{}, false
	}
	return scene.Rect{X: x, Y: y, Width: w, Height: h}, true
}

// CurrentDesktop returns the active virtual desktop.
func (b *LinuxBackend) CurrentDesktop() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.GetCurrentDesktop()
}

// DesktopLayout returns the desktop count and pager columns.
func (b *LinuxBackend) DesktopLayout() (count, columns int, err error) {
	conn, err := b.connection()
	if err != nil {
		return 0, 0, err
	}
	return conn.GetDesktopLayout()
}

// WatchProperties delivers root and client property changes. fn runs on the
// X event goroutine.
func (b *LinuxBackend) WatchProperties(fn func(PropertyChange)) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchProperties(func(pc x11.PropertyChange) {
		fn(PropertyChange{
			Window: WindowID(pc.Window),
			Root:   pc.Window == conn.Root,
			Atom:   pc.Atom,
		})
	})
}

// ListenWindow subscribes to property changes on a client window.
func (b *LinuxBackend) ListenWindow(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ListenProperties(xproto.Window(id))
}

// WatchMonitors calls fn on the X event goroutine when the monitor layout
// changes.
func (b *LinuxBackend) WatchMonitors(fn func()) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchMonitors(fn)
}

// Run blocks in the X event loop until Quit.
func (b *LinuxBackend) Run() {
	if conn, err := b.connection(); err == nil {
		conn.EventLoop()
	}
}

// Quit stops Run.
func (b *LinuxBackend) Quit() {
	if conn, err := b.connection(); err == nil {
		conn.Quit()
	}
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: scene.Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
	}
}

func windowFromX11(w x11.Window) Window {
	return Window{
		ID:    WindowID(w.ID),
		AppID: w.Class,
		Title: w.Title,
		Bounds: scene.Rect{
			X:      w.X,
			Y:      w.Y,
			Width:  w.Width,
			Height: w.Height,
		},
		Desktop: w.Desktop,
		Hidden:  w.Hidden,
	}
}
