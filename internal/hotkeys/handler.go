// Package hotkeys binds global X11 key sequences to daemon actions.
package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Poster runs fn on the goroutine that owns the scene.
type Poster interface {
	Post(fn func()) error
}

// Handler manages global keyboard shortcuts. Callbacks fire on the X event
// goroutine and are forwarded to the loop.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	loop   Poster
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on the backend's X connection.
func NewHandler(backend any, loop Poster, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("hotkeys require an X11 backend")
	}
	if logger == nil {
		logger = slog.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		loop:   loop,
		logger: logger,
	}, nil
}

// Register binds keySequence to action, which runs on the loop.
func (h *Handler) Register(name, keySequence string, action func()) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.logger.Debug("hotkey triggered", "action", name, "keys", keySequence)
		if err := h.loop.Post(action); err != nil {
			h.logger.Warn("dropped hotkey action", "action", name, "error", err)
		}
	}).Connect(h.xu, h.root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to register %s hotkey %q: %w", name, keySequence, err)
	}
	h.logger.Info("hotkey registered", "action", name, "keys", keySequence)
	return nil
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")
	xevent.IgnoreMods = ignoreMasks(uint16(xproto.ModMaskLock), numLock, scrollLock)
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, so a binding fires regardless of lock state. Zero masks and
// duplicates are skipped.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	masks := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		masks = append(masks, mask)
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
