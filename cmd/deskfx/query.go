package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/deskfx/internal/ipc"
	"github.com/1broseidon/deskfx/internal/runtimepath"
	"github.com/1broseidon/deskfx/internal/tui"
)

// wantJSON reports whether output should be JSON: forced by --json, or
// because stdout is not a terminal.
func wantJSON(cmd *cobra.Command) bool {
	if forced, _ := cmd.Flags().GetBool("json"); forced {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers(headers...).
		Rows(rows...).
		Render()
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status via IPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return writeJSON(out, status)
			}
			printStatus(out, status)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func printStatus(w io.Writer, st *ipc.StatusData) {
	fmt.Fprintf(w, "plugin:          %s %s\n", st.Name, st.Version)
	fmt.Fprintf(w, "mode:            %s\n", st.Mode)
	fmt.Fprintf(w, "started:         %v\n", st.Started)
	fmt.Fprintf(w, "uptime:          %s\n", time.Duration(st.UptimeSeconds)*time.Second)
	fmt.Fprintf(w, "backgrounds:     %d\n", st.Backgrounds)
	fmt.Fprintf(w, "tracked_actors:  %d\n", st.TrackedActors)
	fmt.Fprintf(w, "switch_running:  %v\n", st.SwitchInProgress)
	fmt.Fprintf(w, "active_effects:  %d\n", st.ActiveEffects)

	categories := make([]string, 0, len(st.EffectCounts))
	for c := range st.EffectCounts {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(w, "  %-14s %d\n", c+":", st.EffectCounts[c])
	}
	if st.KeymapLayout != "" {
		fmt.Fprintf(w, "keymap:          %s %s %s\n", st.KeymapLayout, st.KeymapVariant, st.KeymapOptions)
	}
}

func newMonitorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitors",
		Short: "List monitors and their backgrounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ipc.NewClient().GetMonitors()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return writeJSON(out, data)
			}
			fmt.Fprintln(out, monitorsTable(data))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func monitorsTable(data *ipc.MonitorsData) string {
	rows := make([][]string, 0, len(data.Monitors))
	for _, m := range data.Monitors {
		rows = append(rows, []string{
			fmt.Sprint(m.ID),
			m.Name,
			fmt.Sprintf("%dx%d+%d+%d", m.Width, m.Height, m.X, m.Y),
			m.BackgroundColor,
		})
	}
	return renderTable([]string{"ID", "NAME", "GEOMETRY", "BACKGROUND"}, rows)
}

func newEffectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effects",
		Short: "List running effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ipc.NewClient().GetEffects()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return writeJSON(out, data)
			}
			if len(data.Effects) == 0 {
				fmt.Fprintln(out, "no running effects")
				return nil
			}
			fmt.Fprintln(out, effectsTable(data))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func effectsTable(data *ipc.EffectsData) string {
	rows := make([][]string, 0, len(data.Effects))
	for _, e := range data.Effects {
		rows = append(rows, []string{
			e.ID,
			e.Category,
			fmt.Sprintf("%d (%s)", e.Actor, e.ActorName),
			fmt.Sprintf("%.0f%%", e.Progress*100),
			(time.Duration(e.DurationMS) * time.Millisecond).String(),
		})
	}
	return renderTable([]string{"ID", "CATEGORY", "ACTOR", "PROGRESS", "DURATION"}, rows)
}

func newSnapshotCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the daemon's scene to a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := outPath
			if path == "" {
				var err error
				if path, err = runtimepath.SnapshotPath(); err != nil {
					return err
				}
			}
			// The daemon resolves relative paths against its own cwd.
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			data, err := ipc.NewClient().Snapshot(abs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", data.Path, data.Width, data.Height)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output PNG path (default: runtime dir)")
	return cmd
}

func newTopCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Live dashboard of status, monitors and running effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(ipc.NewClient(), interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", tui.DefaultInterval, "Poll interval")
	return cmd
}
