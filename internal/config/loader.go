package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths locates the YAML layers.
type Paths struct {
	BaseDir string // e.g. ./config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}

func (p Paths) PresetPath(preset string) string {
	return filepath.Join(p.BaseDir, "presets", preset+".yaml")
}

// Loader reads YAML layers and merges default → preset.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: preset name, "" for default only
}

func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// WatchedFiles lists the files whose change should invalidate the cache.
func (l *Loader) WatchedFiles(preset string) []string {
	files := []string{l.paths.DefaultPath()}
	if preset != "" {
		files = append(files, l.paths.PresetPath(preset))
	}
	return files
}

// LoadMerged returns default.yaml overlaid with the preset (optional).
// Missing files count as empty layers; a named preset that does not exist
// is an error.
func (l *Loader) LoadMerged(preset string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[preset]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, _, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if preset != "" {
		presetCfg, found, err := readYAML(l.paths.PresetPath(preset))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read preset %q: %w", preset, err)
		}
		if !found {
			return RawConfig{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
		}
		merged = mergeRaw(merged, presetCfg)
	}

	l.mu.Lock()
	l.cache[preset] = merged
	l.mu.Unlock()
	return merged, nil
}

// Invalidate clears the cache. Called when the watcher sees a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads one layer. A missing file is an empty layer, not an error.
func readYAML(path string) (RawConfig, bool, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, false, err
	}
	return cfg, true, nil
}

// mergeRaw overlays b on a: every field b sets wins. Option lists are
// replaced wholesale.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// spin
	if b.Spin.FullSpins != nil {
		out.Spin.FullSpins = b.Spin.FullSpins
	}
	if b.Spin.DurationMs != nil {
		out.Spin.DurationMs = b.Spin.DurationMs
	}
	if b.Spin.FrameIntervalMs != nil {
		out.Spin.FrameIntervalMs = b.Spin.FrameIntervalMs
	}
	if b.Spin.Easing != "" {
		out.Spin.Easing = b.Spin.Easing
	}

	// render
	switch {
	case out.Render == nil && b.Render != nil:
		c := *b.Render
		out.Render = &c
	case out.Render != nil && b.Render != nil:
		c := *out.Render
		if b.Render.Size != nil {
			c.Size = b.Render.Size
		}
		if b.Render.LabelInset != nil {
			c.LabelInset = b.Render.LabelInset
		}
		if b.Render.BaseFont != nil {
			c.BaseFont = b.Render.BaseFont
		}
		if b.Render.MinFont != nil {
			c.MinFont = b.Render.MinFont
		}
		if b.Render.MaxFont != nil {
			c.MaxFont = b.Render.MaxFont
		}
		out.Render = &c
	}

	if len(b.Options) > 0 {
		out.Options = append([]OptionCfg(nil), b.Options...)
	}

	// store
	switch {
	case out.Store == nil && b.Store != nil:
		c := *b.Store
		out.Store = &c
	case out.Store != nil && b.Store != nil:
		c := *out.Store
		if b.Store.Driver != "" {
			c.Driver = b.Store.Driver
		}
		if b.Store.DSN != "" {
			c.DSN = b.Store.DSN
		}
		out.Store = &c
	}

	return out
}
