package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawDurations struct {
	MinimizeMS *int `yaml:"minimize_ms"`
	DestroyMS  *int `yaml:"destroy_ms"`
	MapMS      *int `yaml:"map_ms"`
	SwitchMS   *int `yaml:"switch_ms"`
}

type RawVignette struct {
	Enabled    *bool    `yaml:"enabled"`
	Brightness *float64 `yaml:"brightness"`
	Strength   *float64 `yaml:"strength"`
}

type RawBackground struct {
	Seed     *uint64      `yaml:"seed"`
	Vignette *RawVignette `yaml:"vignette"`
}

type RawLocale struct {
	TimeoutMS *int `yaml:"timeout_ms"`
}

type RawLogging struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

type RawMetrics struct {
	Listen *string `yaml:"listen"`
}

type RawHotkeys struct {
	SkipEffects *string `yaml:"skip_effects"`
}

type RawIPC struct {
	Enabled *bool `yaml:"enabled"`
}

// RawConfig is one YAML file as written. Nil fields were not set.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Backend         *string        `yaml:"backend"`
	Display         *string        `yaml:"display"`
	FrameIntervalMS *int           `yaml:"frame_interval_ms"`
	Durations       *RawDurations  `yaml:"durations"`
	Background      *RawBackground `yaml:"background"`
	Locale          *RawLocale     `yaml:"locale"`
	Logging         *RawLogging    `yaml:"logging"`
	Hotkeys         *RawHotkeys    `yaml:"hotkeys"`
	Metrics         *RawMetrics    `yaml:"metrics"`
	IPC             *RawIPC        `yaml:"ipc"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Backend != nil {
		out.Backend = overlay.Backend
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.FrameIntervalMS != nil {
		out.FrameIntervalMS = overlay.FrameIntervalMS
	}

	if overlay.Durations != nil {
		base := RawDurations{}
		if out.Durations != nil {
			base = *out.Durations
		}
		merged := mergeRawDurations(base, *overlay.Durations)
		out.Durations = &merged
	}

	if overlay.Background != nil {
		base := RawBackground{}
		if out.Background != nil {
			base = *out.Background
		}
		if overlay.Background.Seed != nil {
			base.Seed = overlay.Background.Seed
		}
		if overlay.Background.Vignette != nil {
			v := RawVignette{}
			if base.Vignette != nil {
				v = *base.Vignette
			}
			v = mergeRawVignette(v, *overlay.Background.Vignette)
			base.Vignette = &v
		}
		out.Background = &base
	}

	if overlay.Locale != nil && overlay.Locale.TimeoutMS != nil {
		out.Locale = &RawLocale{TimeoutMS: overlay.Locale.TimeoutMS}
	}

	if overlay.Logging != nil {
		base := RawLogging{}
		if out.Logging != nil {
			base = *out.Logging
		}
		if overlay.Logging.Level != nil {
			base.Level = overlay.Logging.Level
		}
		if overlay.Logging.Format != nil {
			base.Format = overlay.Logging.Format
		}
		out.Logging = &base
	}

	if overlay.Hotkeys != nil && overlay.Hotkeys.SkipEffects != nil {
		out.Hotkeys = &RawHotkeys{SkipEffects: overlay.Hotkeys.SkipEffects}
	}
	if overlay.Metrics != nil && overlay.Metrics.Listen != nil {
		out.Metrics = &RawMetrics{Listen: overlay.Metrics.Listen}
	}
	if overlay.IPC != nil && overlay.IPC.Enabled != nil {
		out.IPC = &RawIPC{Enabled: overlay.IPC.Enabled}
	}

	return out
}

func mergeRawDurations(base RawDurations, overlay RawDurations) RawDurations {
	out := base
	if overlay.MinimizeMS != nil {
		out.MinimizeMS = overlay.MinimizeMS
	}
	if overlay.DestroyMS != nil {
		out.DestroyMS = overlay.DestroyMS
	}
	if overlay.MapMS != nil {
		out.MapMS = overlay.MapMS
	}
	if overlay.SwitchMS != nil {
		out.SwitchMS = overlay.SwitchMS
	}
	return out
}

func mergeRawVignette(base RawVignette, overlay RawVignette) RawVignette {
	out := base
	if overlay.Enabled != nil {
		out.Enabled = overlay.Enabled
	}
	if overlay.Brightness != nil {
		out.Brightness = overlay.Brightness
	}
	if overlay.Strength != nil {
		out.Strength = overlay.Strength
	}
	return out
}
