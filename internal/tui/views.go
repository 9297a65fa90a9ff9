package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskfx/internal/ipc"
)

var (
	monitorColumns = []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Name", Width: 16},
		{Title: "Geometry", Width: 22},
		{Title: "Background", Width: 12},
	}
	effectColumns = []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Category", Width: 10},
		{Title: "Actor", Width: 24},
		{Title: "Progress", Width: 18},
		{Title: "Duration", Width: 10},
	}

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(20)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

func monitorRows(data *ipc.MonitorsData) []table.Row {
	if data == nil {
		return nil
	}
	rows := make([]table.Row, 0, len(data.Monitors))
	for _, mon := range data.Monitors {
		swatch := mon.BackgroundColor
		if swatch != "" {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(swatch)).Render("■") + " " + swatch
		}
		rows = append(rows, table.Row{
			fmt.Sprint(mon.ID),
			mon.Name,
			fmt.Sprintf("%dx%d+%d+%d", mon.Width, mon.Height, mon.X, mon.Y),
			swatch,
		})
	}
	return rows
}

func effectRows(data *ipc.EffectsData) []table.Row {
	if data == nil {
		return nil
	}
	rows := make([]table.Row, 0, len(data.Effects))
	for _, e := range data.Effects {
		id := e.ID
		if len(id) > 8 {
			id = id[:8]
		}
		actor := e.ActorName
		if actor == "" {
			actor = fmt.Sprintf("#%d", e.Actor)
		}
		rows = append(rows, table.Row{
			id,
			e.Category,
			actor,
			progressBar(e.Progress, 10),
			(time.Duration(e.DurationMS) * time.Millisecond).String(),
		})
	}
	return rows
}

// progressBar draws p in [0,1] as a fixed-width bar followed by a percentage.
func progressBar(p float64, width int) string {
	p = min(max(p, 0), 1)
	filled := int(p*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf(" %3.0f%%", p*100)
}

func renderStatus(st *ipc.StatusData, width int) string {
	if st == nil {
		return ""
	}
	row := func(label string, value any) string {
		return labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value))
	}

	lines := []string{
		row("plugin", st.Name+" "+st.Version),
		row("mode", st.Mode),
		row("started", st.Started),
		row("uptime", (time.Duration(st.UptimeSeconds) * time.Second).String()),
		row("backgrounds", st.Backgrounds),
		row("tracked actors", st.TrackedActors),
		row("switch running", st.SwitchInProgress),
		row("active effects", st.ActiveEffects),
	}

	categories := make([]string, 0, len(st.EffectCounts))
	for c := range st.EffectCounts {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		lines = append(lines, row("  "+c, st.EffectCounts[c]))
	}

	if st.KeymapLayout != "" {
		km := st.KeymapLayout
		if st.KeymapVariant != "" {
			km += " (" + st.KeymapVariant + ")"
		}
		lines = append(lines, row("keymap", km))
	}

	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(strings.Join(lines, "\n"))
}

func renderDisconnected(lastError string, width, height int) string {
	msg := "waiting for daemon…"
	if lastError != "" {
		msg += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(lastError)
	}
	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Foreground(lipgloss.Color("241")).
		Align(lipgloss.Center, lipgloss.Center)
	return style.Render(msg)
}
