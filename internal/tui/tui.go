// Package tui is the live dashboard behind `deskfx top`: it polls the daemon
// over IPC and shows status, monitors and running effects.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskfx/internal/ipc"
)

// DefaultInterval is the poll period when none is given.
const DefaultInterval = 250 * time.Millisecond

// Client is the part of the IPC client the dashboard reads from.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	GetEffects() (*ipc.EffectsData, error)
}

// Run starts the dashboard and blocks until the user quits.
func Run(client Client, interval time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("top requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	p := tea.NewProgram(newModel(client, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
