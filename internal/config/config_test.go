package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/spinwheel/internal/render"
	"github.com/xtding233/spinwheel/internal/wheel"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

const defaultYAML = `
version: "1"
spin:
  full_spins: 5
  duration_ms: 4000
render:
  size: 500
  label_inset: 40
options:
  - label: Write Something
    weight: 1
store:
  driver: sqlite
  dsn: wheel.db
`

const lunchYAML = `
version: "lunch-2"
spin:
  duration_ms: 2500
  easing: easeOutQuad
render:
  size: 300
options:
  - label: Pizza
    weight: 3
  - label: Sushi
    weight: 1
`

func TestLoaderMergesPreset(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)
	writeFile(t, l.Paths().DefaultPath(), defaultYAML)
	writeFile(t, l.Paths().PresetPath("lunch"), lunchYAML)

	raw, st, err := l.Resolve("lunch", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "lunch-2", raw.Version)
	assert.Equal(t, 5, st.Spin.FullSpins, "inherited from default")
	assert.Equal(t, 2500*time.Millisecond, st.Spin.Duration)
	assert.Equal(t, wheel.EaseOutQuad, st.Spin.Easing)
	assert.Equal(t, 300.0, st.Render.Size)
	assert.Equal(t, 40.0, st.Render.LabelInset)
	assert.Equal(t, wheel.OptionSet{{Label: "Pizza", Weight: 3}, {Label: "Sushi", Weight: 1}}, st.Defaults)
	assert.Equal(t, StoreCfg{Driver: "sqlite", DSN: "wheel.db"}, st.Store)

	_, st, err = l.Resolve("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, wheel.DefaultOptions(), st.Defaults)
	assert.Equal(t, 4*time.Second, st.Spin.Duration)
}

func TestLoaderWithoutFiles(t *testing.T) {
	l := NewLoader(t.TempDir())
	_, st, err := l.Resolve("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, wheel.DefaultSpinConfig(), st.Spin)
	assert.Equal(t, wheel.DefaultFrameInterval, st.FrameInterval)
	assert.Equal(t, render.DefaultConfig(), st.Render)
	assert.Equal(t, wheel.DefaultOptions(), st.Defaults)

	_, _, err = l.Resolve("nope", Overrides{})
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestLoaderCacheAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)
	writeFile(t, l.Paths().DefaultPath(), "version: a\n")

	raw, err := l.LoadMerged("")
	require.NoError(t, err)
	assert.Equal(t, "a", raw.Version)

	writeFile(t, l.Paths().DefaultPath(), "version: b\n")
	raw, err = l.LoadMerged("")
	require.NoError(t, err)
	assert.Equal(t, "a", raw.Version, "served from cache")

	l.Invalidate()
	raw, err = l.LoadMerged("")
	require.NoError(t, err)
	assert.Equal(t, "b", raw.Version)
}

func TestLoaderBadYAML(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)
	writeFile(t, l.Paths().DefaultPath(), "spin: [oops")
	_, err := l.LoadMerged("")
	assert.Error(t, err)
}

func TestOverrides(t *testing.T) {
	l := NewLoader(t.TempDir())
	spins, ms, easing := 2, 100, "linear"
	_, st, err := l.Resolve("", Overrides{FullSpins: &spins, DurationMs: &ms, Easing: &easing})
	require.NoError(t, err)
	assert.Equal(t, wheel.SpinConfig{FullSpins: 2, Duration: 100 * time.Millisecond, Easing: wheel.EaseLinear}, st.Spin)

	bad := "wobble"
	_, _, err = l.Resolve("", Overrides{Easing: &bad})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	neg, zero := -1, 0
	small, big := 20.0, 10.0
	err := Validate(RawConfig{
		Spin:    SpinCfg{FullSpins: &neg, DurationMs: &zero, Easing: "bounce"},
		Render:  &RenderCfg{MinFont: &small, MaxFont: &big},
		Options: []OptionCfg{{Label: "x", Weight: 0}},
		Store:   &StoreCfg{Driver: "mongo"},
	})
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{"full_spins", "duration_ms", "easing", "min_font", "options[0].weight", "store.driver"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.NoError(t, Validate(RawConfig{}))
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.yaml")
	writeFile(t, path, "version: a\n")

	var changed []string
	w := NewWatcher([]string{path, filepath.Join(dir, "missing.yaml")}, time.Hour, func(p string) {
		changed = append(changed, p)
	})
	w.Scan(true)
	w.Scan(false)
	assert.Empty(t, changed)

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	w.Scan(false)
	assert.Equal(t, []string{path}, changed)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("WHEEL_HTTP_ADDR", ":1234")
	t.Setenv("WHEEL_STORE", "memory")
	t.Setenv("WHEEL_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("WHEEL_CONFIG_WATCH", "0s")

	e, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, ":1234", e.HTTPAddr)
	assert.Equal(t, ":9090", e.GRPCAddr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, e.CORSOrigins)
	assert.Equal(t, time.Duration(0), e.WatchInterval)
	assert.Equal(t, StoreCfg{Driver: "memory"}, e.StoreFor(Settings{}))

	e.StoreDriver = ""
	assert.Equal(t, StoreCfg{Driver: "sqlite", DSN: "spinwheel.db"}, e.StoreFor(Settings{}))
	assert.Equal(t, StoreCfg{Driver: "file", DSN: "data"}, e.StoreFor(Settings{Store: StoreCfg{Driver: "file"}}))
}
