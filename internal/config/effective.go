package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over DefaultConfig. It does not validate.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Backend != nil {
		cfg.Backend = strings.ToLower(strings.TrimSpace(*raw.Backend))
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.FrameIntervalMS != nil {
		cfg.FrameIntervalMS = *raw.FrameIntervalMS
	}

	if d := raw.Durations; d != nil {
		cfg.Durations.MinimizeMS = derefInt(d.MinimizeMS, cfg.Durations.MinimizeMS)
		cfg.Durations.DestroyMS = derefInt(d.DestroyMS, cfg.Durations.DestroyMS)
		cfg.Durations.MapMS = derefInt(d.MapMS, cfg.Durations.MapMS)
		cfg.Durations.SwitchMS = derefInt(d.SwitchMS, cfg.Durations.SwitchMS)
	}

	if b := raw.Background; b != nil {
		if b.Seed != nil {
			cfg.Background.Seed = *b.Seed
		}
		if v := b.Vignette; v != nil {
			if v.Enabled != nil {
				cfg.Background.Vignette.Enabled = *v.Enabled
			}
			if v.Brightness != nil {
				cfg.Background.Vignette.Brightness = *v.Brightness
			}
			if v.Strength != nil {
				cfg.Background.Vignette.Strength = *v.Strength
			}
		}
	}

	if raw.Locale != nil {
		cfg.Locale.TimeoutMS = derefInt(raw.Locale.TimeoutMS, cfg.Locale.TimeoutMS)
	}

	if l := raw.Logging; l != nil {
		if l.Level != nil {
			cfg.Logging.Level = normalizeLevel(*l.Level)
		}
		if l.Format != nil {
			cfg.Logging.Format = strings.ToLower(strings.TrimSpace(*l.Format))
		}
	}

	if raw.Hotkeys != nil && raw.Hotkeys.SkipEffects != nil {
		cfg.Hotkeys.SkipEffects = strings.TrimSpace(*raw.Hotkeys.SkipEffects)
	}
	if raw.Metrics != nil && raw.Metrics.Listen != nil {
		cfg.Metrics.Listen = strings.TrimSpace(*raw.Metrics.Listen)
	}
	if raw.IPC != nil && raw.IPC.Enabled != nil {
		cfg.IPC.Enabled = *raw.IPC.Enabled
	}

	return cfg
}

// normalizeLevel accepts "warning" as an alias for "warn".
func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return "warn"
	}
	return level
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
