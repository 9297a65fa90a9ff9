package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskfx/internal/config"
	"github.com/1broseidon/deskfx/internal/daemon"
	"github.com/1broseidon/deskfx/internal/hotkeys"
	"github.com/1broseidon/deskfx/internal/ipc"
	"github.com/1broseidon/deskfx/internal/locale"
	"github.com/1broseidon/deskfx/internal/metrics"
	"github.com/1broseidon/deskfx/internal/platform"
	"github.com/1broseidon/deskfx/internal/plugin"
	"github.com/1broseidon/deskfx/internal/render"
	"github.com/1broseidon/deskfx/internal/scene"
	"github.com/1broseidon/deskfx/internal/xhost"
)

const shutdownTimeout = 2 * time.Second

func newDaemonCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the effects daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := opts.logger(res.Config, os.Stderr)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDaemon(ctx, res.Config, logger)
		},
	}
}

func runDaemon(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("configuration loaded",
		"backend", cfg.Backend, "frame_interval", cfg.FrameInterval(), "seed", cfg.Background.Seed)

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	stage := scene.NewStage(0, 0)
	windows := stage.NewActor("window-group")
	windows.Show()
	if err := stage.Root().AddChild(windows); err != nil {
		return err
	}

	var facade *plugin.Facade
	loop := daemon.NewLoop(daemon.LoopConfig{
		Interval: cfg.FrameInterval(),
		Frame:    func(dt time.Duration) { facade.Advance(dt) },
		Logger:   logger.With("component", "loop"),
	})

	host := xhost.New(xhost.Config{
		Source:      backend,
		Loop:        loop,
		Stage:       stage,
		WindowGroup: windows,
		Logger:      logger.With("component", "xhost"),
	})
	display := host.Display()
	m := metrics.New()

	facade = plugin.New(plugin.Options{
		Mode:          plugin.Mode(cfg.Backend),
		Stage:         stage,
		WindowGroup:   windows,
		Host:          host,
		Icons:         host,
		Observer:      m,
		Durations:     cfg.EffectDurations(),
		Display:       display,
		Watcher:       host,
		Seed:          cfg.Background.Seed,
		Vignette:      cfg.Vignette(),
		OnRebuild:     m.BackgroundsRebuilt,
		Keymaps:       locale.NewClient(cfg.LocaleTimeout(), logger.With("component", "locale")),
		KeymapSink:    backend,
		KeymapTimeout: cfg.LocaleTimeout(),
		Logger:        logger,
	})
	host.Bind(facade)

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		loop.Run(loopCtx)
		close(loopDone)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	var (
		startErr error
		tracked  int
	)
	if err := loop.Call(ctx, func() {
		if startErr = facade.Start(ctx); startErr != nil {
			return
		}
		startErr = host.Start()
		tracked = host.Len()
	}); err != nil {
		return err
	}
	if startErr != nil {
		return fmt.Errorf("failed to start plugin: %w", startErr)
	}

	if seq := cfg.Hotkeys.SkipEffects; seq != "" {
		h, err := hotkeys.NewHandler(backend, loop, logger.With("component", "hotkeys"))
		if err == nil {
			err = h.Register("skip-effects", seq, facade.KillAllEffects)
		}
		if err != nil {
			logger.Warn("hotkey unavailable", "error", err)
		}
	}

	// X event dispatch runs until Quit.
	go backend.Run()
	defer backend.Quit()

	if cfg.IPC.Enabled {
		provider := &loopProvider{
			loop:     loop,
			plugin:   facade,
			monitors: display.Monitors,
			stage:    stage,
			render:   render.SavePNG,
		}
		srv, err := ipc.NewServer("", provider, logger.With("component", "ipc"))
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Stop()
	}

	if cfg.Metrics.Listen != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Listen, logger.With("component", "metrics")); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	logger.Info("deskfx daemon started", "windows", tracked)
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := loop.Call(shutdownCtx, facade.Stop); err != nil {
		logger.Warn("plugin stop did not complete", "error", err)
	}
	return nil
}
