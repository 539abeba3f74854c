package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/spinwheel/internal/storage"
	"github.com/xtding233/spinwheel/internal/wheel"
)

var (
	ErrInvalidConfig = errors.New("config validation failed")
	ErrUnknownPreset = errors.New("unknown preset")
)

// Validate checks semantic constraints of a RawConfig.
func Validate(cfg RawConfig) error {
	var errs []string

	// spin
	if cfg.Spin.FullSpins != nil && *cfg.Spin.FullSpins < 0 {
		errs = append(errs, "spin.full_spins must be >= 0")
	}
	if cfg.Spin.DurationMs != nil && *cfg.Spin.DurationMs <= 0 {
		errs = append(errs, "spin.duration_ms must be > 0")
	}
	if cfg.Spin.FrameIntervalMs != nil && *cfg.Spin.FrameIntervalMs <= 0 {
		errs = append(errs, "spin.frame_interval_ms must be > 0")
	}
	if cfg.Spin.Easing != "" {
		if err := wheel.Easing(cfg.Spin.Easing).Validate(); err != nil {
			errs = append(errs, "spin.easing must be one of: linear, easeOutQuad, easeOutCubic, easeInOutCubic")
		}
	}

	// render
	if r := cfg.Render; r != nil {
		if r.Size != nil && *r.Size <= 0 {
			errs = append(errs, "render.size must be > 0")
		}
		if r.LabelInset != nil && *r.LabelInset < 0 {
			errs = append(errs, "render.label_inset must be >= 0")
		}
		if r.MinFont != nil && *r.MinFont <= 0 {
			errs = append(errs, "render.min_font must be > 0")
		}
		if r.MinFont != nil && r.MaxFont != nil && *r.MinFont > *r.MaxFont {
			errs = append(errs, "render.min_font must be <= render.max_font")
		}
	}

	// options
	for i, o := range cfg.Options {
		if o.Weight < 1 || o.Weight > wheel.MaxWeight {
			errs = append(errs, fmt.Sprintf("options[%d].weight must be in [1, %d]", i, wheel.MaxWeight))
		}
	}

	// store
	if s := cfg.Store; s != nil {
		switch s.Driver {
		case "", storage.DriverMemory, storage.DriverFile, storage.DriverSQLite:
		default:
			errs = append(errs, "store.driver must be one of: memory, file, sqlite")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}
