package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	backend
//	display
//	frame_interval_ms
//	durations.minimize_ms
//	background.seed
//	background.vignette.brightness
//	locale.timeout_ms
//	logging.level
//	hotkeys.skip_effects
//	metrics.listen
//	ipc.enabled
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	values := map[string]any{
		"backend":                        cfg.Backend,
		"display":                        cfg.Display,
		"frame_interval_ms":              cfg.FrameIntervalMS,
		"durations":                      cfg.Durations,
		"durations.minimize_ms":          cfg.Durations.MinimizeMS,
		"durations.destroy_ms":           cfg.Durations.DestroyMS,
		"durations.map_ms":               cfg.Durations.MapMS,
		"durations.switch_ms":            cfg.Durations.SwitchMS,
		"background":                     cfg.Background,
		"background.seed":                cfg.Background.Seed,
		"background.vignette":            cfg.Background.Vignette,
		"background.vignette.enabled":    cfg.Background.Vignette.Enabled,
		"background.vignette.brightness": cfg.Background.Vignette.Brightness,
		"background.vignette.strength":   cfg.Background.Vignette.Strength,
		"locale":                         cfg.Locale,
		"locale.timeout_ms":              cfg.Locale.TimeoutMS,
		"logging":                        cfg.Logging,
		"logging.level":                  cfg.Logging.Level,
		"logging.format":                 cfg.Logging.Format,
		"hotkeys":                        cfg.Hotkeys,
		"hotkeys.skip_effects":           cfg.Hotkeys.SkipEffects,
		"metrics":                        cfg.Metrics,
		"metrics.listen":                 cfg.Metrics.Listen,
		"ipc":                            cfg.IPC,
		"ipc.enabled":                    cfg.IPC.Enabled,
	}
	v, ok := values[strings.TrimSpace(path)]
	if !ok {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	return v, nil
}
