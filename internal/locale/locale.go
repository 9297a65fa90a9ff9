// Package locale reads the system keyboard layout from systemd-localed.
package locale

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	busName    = "org.freedesktop.locale1"
	objectPath = dbus.ObjectPath("/org/freedesktop/locale1")
	getAll     = "org.freedesktop.DBus.Properties.GetAll"

	// DefaultTimeout bounds the one-shot startup query.
	DefaultTimeout = 100 * time.Millisecond
)

// Keymap is an XKB layout triple.
type Keymap struct {
	Layout  string `json:"layout"`
	Variant string `json:"variant"`
	Options string `json:"options"`
}

// DefaultKeymap is used for properties localed does not report.
func DefaultKeymap() Keymap {
	return Keymap{Layout: "us"}
}

// Service is anything that can produce the system keymap.
type Service interface {
	Keymap(ctx context.Context) (Keymap, error)
}

// propertySource fetches every locale1 property.
type propertySource interface {
	GetAll(ctx context.Context) (map[string]dbus.Variant, error)
}

// Client queries localed over the system bus.
type Client struct {
	timeout time.Duration
	source  propertySource
	logger  *slog.Logger
}

// NewClient returns a client that talks to the system bus. A zero timeout
// means DefaultTimeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{timeout: timeout, source: systemBus{}, logger: logger}
}

var _ Service = (*Client)(nil)

// Keymap performs one bounded GetAll call and maps X11Layout, X11Variant and
// X11Options to a Keymap. Missing or mistyped properties keep their defaults.
func (c *Client) Keymap(ctx context.Context) (Keymap, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	props, err := c.source.GetAll(ctx)
	if err != nil {
		return Keymap{}, fmt.Errorf("query %s: %w", busName, err)
	}
	km := keymapFromProperties(props)
	c.logger.Debug("system keymap", "layout", km.Layout, "variant", km.Variant, "options", km.Options)
	return km, nil
}

func keymapFromProperties(props map[string]dbus.Variant) Keymap {
	km := DefaultKeymap()
	if v, ok := stringProp(props, "X11Layout"); ok {
		km.Layout = v
	}
	if v, ok := stringProp(props, "X11Variant"); ok {
		km.Variant = v
	}
	if v, ok := stringProp(props, "X11Options"); ok {
		km.Options = v
	}
	return km
}

func stringProp(props map[string]dbus.Variant, name string) (string, bool) {
	v, ok := props[name]
	if !ok {
		return "", false
	}
	s, ok := v.Value().(string)
	return s, ok
}

type systemBus struct{}

func (systemBus) GetAll(ctx context.Context) (map[string]dbus.Variant, error) {
	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	defer conn.Close()

	var props map[string]dbus.Variant
	obj := conn.Object(busName, objectPath)
	if err := obj.CallWithContext(ctx, getAll, 0, busName).Store(&props); err != nil {
		return nil, err
	}
	return props, nil
}
