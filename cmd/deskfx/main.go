package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskfx/internal/config"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "deskfx",
		Short:         "Desktop compositor effects: window animations, workspace switching, backgrounds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file path (default: ~/.config/deskfx/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override: debug|info|warn|error")

	root.AddCommand(
		newDaemonCmd(opts),
		newStatusCmd(),
		newMonitorsCmd(),
		newEffectsCmd(),
		newSnapshotCmd(),
		newTopCmd(),
		newConfigCmd(opts),
		newMCPCmd(opts),
	)
	return root
}

// loadConfig reads the config named by --config, or the default location.
func (o *rootOptions) loadConfig() (*config.LoadResult, error) {
	if o.configPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(o.configPath)
}

// logger builds the process logger from the config, honoring --log-level.
func (o *rootOptions) logger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	return newLogger(level, cfg.Logging.Format, w)
}

func newLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}
