package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// PropertyChange is a PropertyNotify reduced to what callers match on.
type PropertyChange struct {
	Window  xproto.Window
	Atom    string
	Deleted bool
}

// WatchProperties selects property changes on the root window and calls fn
// from the event loop for every PropertyNotify, root or client. Clients must
// be added with ListenProperties.
func (c *Connection) WatchProperties(fn func(PropertyChange)) error {
	if err := c.ListenProperties(c.Root); err != nil {
		return err
	}
	xevent.HookFun(func(xu *xgbutil.XUtil, ev interface{}) bool {
		pn, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok {
			return true
		}
		name, err := xprop.AtomName(xu, pn.Atom)
		if err != nil {
			return true
		}
		fn(PropertyChange{
			Window:  pn.Window,
			Atom:    name,
			Deleted: pn.State == xproto.PropertyDelete,
		})
		return true
	}).Connect(c.XUtil)
	return nil
}

// ListenProperties adds PropertyChange to this connection's event mask on win.
func (c *Connection) ListenProperties(win xproto.Window) error {
	if err := xwindow.New(c.XUtil, win).Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("listen for property changes on 0x%x: %w", uint32(win), err)
	}
	return nil
}
