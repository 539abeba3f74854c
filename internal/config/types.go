package config

import (
	"time"

	"github.com/xtding233/spinwheel/internal/render"
	"github.com/xtding233/spinwheel/internal/wheel"
)

// RawConfig is one YAML layer: config/default.yaml or a preset file.
// Pointer fields distinguish "unset" from zero so layers can merge.
type RawConfig struct {
	Version string      `yaml:"version"`
	Spin    SpinCfg     `yaml:"spin"`
	Render  *RenderCfg  `yaml:"render,omitempty"`
	Options []OptionCfg `yaml:"options,omitempty"`
	Store   *StoreCfg   `yaml:"store,omitempty"`
	Notes   string      `yaml:"notes,omitempty"`
}

type SpinCfg struct {
	FullSpins       *int   `yaml:"full_spins,omitempty"`
	DurationMs      *int   `yaml:"duration_ms,omitempty"`
	FrameIntervalMs *int   `yaml:"frame_interval_ms,omitempty"`
	Easing          string `yaml:"easing,omitempty"`
}

type RenderCfg struct {
	Size       *float64 `yaml:"size,omitempty"`
	LabelInset *float64 `yaml:"label_inset,omitempty"`
	BaseFont   *float64 `yaml:"base_font,omitempty"`
	MinFont    *float64 `yaml:"min_font,omitempty"`
	MaxFont    *float64 `yaml:"max_font,omitempty"`
}

// OptionCfg seeds the wheel when nothing is persisted yet.
type OptionCfg struct {
	Label  string `yaml:"label"`
	Weight int    `yaml:"weight"`
}

type StoreCfg struct {
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

// Settings is the normalized configuration the rest of the program uses.
type Settings struct {
	Version       string
	Spin          wheel.SpinConfig
	FrameInterval time.Duration
	Render        render.Config
	Defaults      wheel.OptionSet
	Store         StoreCfg
}
