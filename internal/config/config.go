package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/1broseidon/deskfx/internal/background"
	"github.com/1broseidon/deskfx/internal/effects"
)

// Backend names the windowing mode the daemon runs under.
const (
	BackendX11     = "x11"
	BackendWayland = "wayland"
)

// DurationsConfig sets the timeline length of each effect, in milliseconds.
type DurationsConfig struct {
	MinimizeMS int `yaml:"minimize_ms"`
	DestroyMS  int `yaml:"destroy_ms"`
	MapMS      int `yaml:"map_ms"`
	SwitchMS   int `yaml:"switch_ms"`
}

// VignetteConfig configures the background vignette.
type VignetteConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Brightness float64 `yaml:"brightness"`
	Strength   float64 `yaml:"strength"`
}

// BackgroundConfig configures the per-monitor backgrounds.
type BackgroundConfig struct {
	// Seed makes background colors reproducible across rebuilds.
	Seed     uint64         `yaml:"seed"`
	Vignette VignetteConfig `yaml:"vignette"`
}

// LocaleConfig configures the system keymap query.
type LocaleConfig struct {
	TimeoutMS int `yaml:"timeout_ms"`
}

// LoggingConfig configures the daemon's structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is host:port; empty disables the endpoint.
	Listen string `yaml:"listen"`
}

// HotkeysConfig binds global key sequences, in xgbutil keybind syntax
// (for example "Mod4-Escape"). Empty disables the binding.
type HotkeysConfig struct {
	// SkipEffects force-completes every running effect.
	SkipEffects string `yaml:"skip_effects"`
}

// IPCConfig configures the status socket.
type IPCConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the effective daemon configuration.
type Config struct {
	Backend         string           `yaml:"backend"`
	Display         string           `yaml:"display,omitempty"`
	FrameIntervalMS int              `yaml:"frame_interval_ms"`
	Durations       DurationsConfig  `yaml:"durations"`
	Background      BackgroundConfig `yaml:"background"`
	Locale          LocaleConfig     `yaml:"locale"`
	Logging         LoggingConfig    `yaml:"logging"`
	Hotkeys         HotkeysConfig    `yaml:"hotkeys"`
	Metrics         MetricsConfig    `yaml:"metrics"`
	IPC             IPCConfig        `yaml:"ipc"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	d := effects.DefaultDurations()
	v := background.DefaultVignette()
	return &Config{
		Backend:         BackendX11,
		FrameIntervalMS: 16,
		Durations: DurationsConfig{
			MinimizeMS: int(d.Minimize / time.Millisecond),
			DestroyMS:  int(d.Destroy / time.Millisecond),
			MapMS:      int(d.Map / time.Millisecond),
			SwitchMS:   int(d.Switch / time.Millisecond),
		},
		Background: BackgroundConfig{
			Seed: background.DefaultSeed,
			Vignette: VignetteConfig{
				Enabled:    v.Enabled,
				Brightness: v.Brightness,
				Strength:   v.Strength,
			},
		},
		Locale: LocaleConfig{TimeoutMS: 100},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		IPC: IPCConfig{Enabled: true},
	}
}

// DefaultConfigPath returns ~/.config/deskfx/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "deskfx", "config.yaml"), nil
}

// FrameInterval returns the frame clock period.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// EffectDurations converts the configured timings for the effects engine.
func (c *Config) EffectDurations() effects.Durations {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return effects.Durations{
		Minimize: ms(c.Durations.MinimizeMS),
		Map:      ms(c.Durations.MapMS),
		Destroy:  ms(c.Durations.DestroyMS),
		Switch:   ms(c.Durations.SwitchMS),
	}
}

// Vignette converts the vignette settings for the background manager.
func (c *Config) Vignette() background.Vignette {
	return background.Vignette{
		Enabled:    c.Background.Vignette.Enabled,
		Brightness: c.Background.Vignette.Brightness,
		Strength:   c.Background.Vignette.Strength,
	}
}

// LocaleTimeout returns the keymap query timeout.
func (c *Config) LocaleTimeout() time.Duration {
	return time.Duration(c.Locale.TimeoutMS) * time.Millisecond
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendX11, BackendWayland:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: x11, wayland")}
	}
	if c.FrameIntervalMS < 1 || c.FrameIntervalMS > 1000 {
		return &ValidationError{Path: "frame_interval_ms", Err: fmt.Errorf("frame_interval_ms must be between 1 and 1000")}
	}

	durations := []struct {
		path  string
		value int
	}{
		{"durations.minimize_ms", c.Durations.MinimizeMS},
		{"durations.destroy_ms", c.Durations.DestroyMS},
		{"durations.map_ms", c.Durations.MapMS},
		{"durations.switch_ms", c.Durations.SwitchMS},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return &ValidationError{Path: d.path, Err: fmt.Errorf("duration must be > 0")}
		}
	}

	if b := c.Background.Vignette.Brightness; b < 0 || b > 1 {
		return &ValidationError{Path: "background.vignette.brightness", Err: fmt.Errorf("brightness must be between 0 and 1")}
	}
	if s := c.Background.Vignette.Strength; s < 0 || s > 1 {
		return &ValidationError{Path: "background.vignette.strength", Err: fmt.Errorf("strength must be between 0 and 1")}
	}
	if c.Locale.TimeoutMS <= 0 {
		return &ValidationError{Path: "locale.timeout_ms", Err: fmt.Errorf("timeout_ms must be > 0")}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: text, json")}
	}

	if c.Metrics.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			return &ValidationError{Path: "metrics.listen", Err: fmt.Errorf("listen must be host:port: %w", err)}
		}
	}
	return nil
}
