package xhost

import (
	"github.com/1broseidon/deskfx/internal/scene"
)

// MinimizeCompleted is called once the minimize animation has resolved.
func (h *Host) MinimizeCompleted(a *scene.Actor) {
	h.logger.Debug("minimize completed", "actor", uint64(a.ID()))
}

// MapCompleted is called once the map animation has resolved.
func (h *Host) MapCompleted(a *scene.Actor) {
	h.logger.Debug("map completed", "actor", uint64(a.ID()))
}

// DestroyCompleted tears the window's actor down.
func (h *Host) DestroyCompleted(a *scene.Actor) {
	h.logger.Debug("destroy completed", "actor", uint64(a.ID()))
	a.Destroy()
}

// SwitchWorkspaceCompleted hides the windows left behind on the old desktop.
func (h *Host) SwitchWorkspaceCompleted() {
	h.logger.Debug("workspace switch completed", "desktop", h.desktop)
	h.syncVisibility()
}

// IconGeometry returns the taskbar icon of the window behind a.
func (h *Host) IconGeometry(a *scene.Actor) (scene.Rect, bool) {
	w, ok := h.byActor[a.ID()]
	if !ok {
		return scene.Rect{}, false
	}
	return h.source.IconGeometry(w.id)
}
