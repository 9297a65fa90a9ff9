package xhost

import (
	"slices"

	"github.com/1broseidon/deskfx/internal/effects"
	"github.com/1broseidon/deskfx/internal/scene"
)

// switchDesktop reacts to a _NET_CURRENT_DESKTOP change by sliding the old
// desktop's windows out and the new desktop's windows in.
func (h *Host) switchDesktop() {
	to, err := h.source.CurrentDesktop()
	if err != nil {
		h.logger.Warn("failed to read current desktop", "error", err)
		return
	}
	from := h.desktop
	if to == from {
		return
	}
	h.desktop = to

	var outgoing, incoming []*window
	for _, w := range h.windows {
		if w.hidden || w.desktop == stickyDesktop {
			continue
		}
		switch w.desktop {
		case from:
			outgoing = append(outgoing, w)
		case to:
			incoming = append(incoming, w)
		}
	}

	width, height := h.stage.Size()
	req := effects.SwitchRequest{
		Outgoing:  stackOrder(outgoing),
		Incoming:  stackOrder(incoming),
		Direction: h.direction(from, to),
		Width:     width,
		Height:    height,
	}

	h.logger.Debug("desktop changed", "from", from, "to", to, "direction", req.Direction.String())
	if h.hooks == nil || !h.hooks.OnSwitchWorkspace(req) {
		h.syncVisibility()
		return
	}
	// Both desktops stay visible while they slide. A switch cancelled by
	// this one may have just hidden the outgoing windows.
	for _, a := range slices.Concat(req.Outgoing, req.Incoming) {
		a.Show()
	}
}

// direction places desktop to relative to from in the pager grid.
func (h *Host) direction(from, to int) effects.Direction {
	_, columns, err := h.source.DesktopLayout()
	if err != nil || columns <= 0 {
		columns = max(from, to) + 1
	}
	fromRow, fromCol := from/columns, from%columns
	toRow, toCol := to/columns, to%columns
	return directionBetween(fromRow, fromCol, toRow, toCol)
}

func directionBetween(fromRow, fromCol, toRow, toCol int) effects.Direction {
	switch {
	case toRow > fromRow:
		return effects.DirectionDown
	case toRow < fromRow:
		return effects.DirectionUp
	case toCol < fromCol:
		return effects.DirectionLeft
	default:
		return effects.DirectionRight
	}
}

// stackOrder returns the windows' actors bottom to top.
func stackOrder(ws []*window) []*scene.Actor {
	slices.SortFunc(ws, func(a, b *window) int { return a.actor.Index() - b.actor.Index() })
	out := make([]*scene.Actor, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.actor)
	}
	return out
}
