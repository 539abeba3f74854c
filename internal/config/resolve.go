package config

import (
	"time"

	"github.com/xtding233/spinwheel/internal/render"
	"github.com/xtding233/spinwheel/internal/wheel"
)

// Overrides carries per-request tweaks on top of the YAML layers, e.g.
// from query parameters of the simulation endpoint.
type Overrides struct {
	FullSpins  *int
	DurationMs *int
	Easing     *string
}

func (o Overrides) apply(cfg RawConfig) RawConfig {
	if o.FullSpins != nil {
		cfg.Spin.FullSpins = o.FullSpins
	}
	if o.DurationMs != nil {
		cfg.Spin.DurationMs = o.DurationMs
	}
	if o.Easing != nil {
		cfg.Spin.Easing = *o.Easing
	}
	return cfg
}

// Resolve merges default → preset → overrides, validates, and normalizes.
func (l *Loader) Resolve(preset string, o Overrides) (RawConfig, Settings, error) {
	raw, err := l.LoadMerged(preset)
	if err != nil {
		return RawConfig{}, Settings{}, err
	}
	raw = o.apply(raw)
	if err := Validate(raw); err != nil {
		return RawConfig{}, Settings{}, err
	}
	return raw, Normalize(raw), nil
}

// Normalize fills built-in defaults for everything a layer left unset.
func Normalize(raw RawConfig) Settings {
	spin := wheel.DefaultSpinConfig()
	if raw.Spin.FullSpins != nil {
		spin.FullSpins = *raw.Spin.FullSpins
	}
	if raw.Spin.DurationMs != nil {
		spin.Duration = time.Duration(*raw.Spin.DurationMs) * time.Millisecond
	}
	if raw.Spin.Easing != "" {
		spin.Easing = wheel.Easing(raw.Spin.Easing)
	}
	frame := wheel.DefaultFrameInterval
	if raw.Spin.FrameIntervalMs != nil {
		frame = time.Duration(*raw.Spin.FrameIntervalMs) * time.Millisecond
	}

	rc := render.DefaultConfig()
	if r := raw.Render; r != nil {
		setF(&rc.Size, r.Size)
		setF(&rc.LabelInset, r.LabelInset)
		setF(&rc.BaseFont, r.BaseFont)
		setF(&rc.MinFont, r.MinFont)
		setF(&rc.MaxFont, r.MaxFont)
	}

	defaults := wheel.DefaultOptions()
	if len(raw.Options) > 0 {
		defaults = make(wheel.OptionSet, len(raw.Options))
		for i, o := range raw.Options {
			defaults[i] = wheel.Option{Label: o.Label, Weight: o.Weight}
		}
	}

	var store StoreCfg
	if raw.Store != nil {
		store = *raw.Store
	}

	return Settings{
		Version:       raw.Version,
		Spin:          spin,
		FrameInterval: frame,
		Render:        rc,
		Defaults:      defaults,
		Store:         store,
	}
}

func setF(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
