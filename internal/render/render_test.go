package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/spinwheel/internal/wheel"
)

func TestFontSize(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 16.0, cfg.FontSize(1))
	assert.Equal(t, 14.0, cfg.FontSize(10))
	assert.InDelta(t, 11.666, cfg.FontSize(12), 1e-3)
	assert.Equal(t, 10.0, cfg.FontSize(20))
	assert.Equal(t, 10.0, cfg.FontSize(200))
}

func TestBuild(t *testing.T) {
	set := wheel.OptionSet{{Label: "A", Weight: 3}, {Label: "B", Weight: 1}}
	scene := Build(set, 0, DefaultConfig())
	require.Len(t, scene.Slices, 2)
	assert.Equal(t, 4, scene.Total)

	a := scene.Slices[0]
	assert.Equal(t, "A", a.Label)
	assert.Equal(t, "75.0", a.Percent)
	assert.Equal(t, "hsl(0, 80%, 60%)", a.Color.String())
	// mid of A is 3π/4: left half of the screen, label flipped
	assert.True(t, a.Flip)
	assert.InDelta(t, 210*math.Cos(3*math.Pi/4), a.LabelX, 1e-9)
	assert.InDelta(t, 210*math.Sin(3*math.Pi/4), a.LabelY, 1e-9)
	assert.InDelta(t, 3*math.Pi/4+math.Pi, a.LabelRotation(), 1e-12)

	// mid of B is 7π/4: right half, upright
	assert.False(t, scene.Slices[1].Flip)
}

func TestBuildFlipFollowsRotation(t *testing.T) {
	set := wheel.OptionSet{{Label: "A", Weight: 1}, {Label: "B", Weight: 1}, {Label: "C", Weight: 1}, {Label: "D", Weight: 1}}
	// A's mid is π/4; turning by π puts it at 5π/4
	assert.False(t, Build(set, 0, DefaultConfig()).Slices[0].Flip)
	assert.True(t, Build(set, math.Pi, DefaultConfig()).Slices[0].Flip)
	// exactly at π/2 text is not flipped (open interval)
	assert.False(t, Build(set, math.Pi/4, DefaultConfig()).Slices[0].Flip)
}

func TestBuildEmpty(t *testing.T) {
	scene := Build(nil, 1, DefaultConfig())
	assert.True(t, scene.Empty())
}

func TestHitTest(t *testing.T) {
	set := wheel.OptionSet{{Label: "A", Weight: 3}, {Label: "B", Weight: 1}}

	tip := HitTest(set, 0, -100, 0, 250) // screen angle π
	assert.True(t, tip.Visible)
	assert.Equal(t, 0, tip.Index)
	assert.Equal(t, "A (75.0%)", tip.Text)

	tip = HitTest(set, 0, 100, -10, 250) // just above 3 o'clock: inside B
	assert.True(t, tip.Visible)
	assert.Equal(t, "B (25.0%)", tip.Text)

	tip = HitTest(set, 0, 300, 0, 250)
	assert.False(t, tip.Visible)

	tip = HitTest(nil, 0, 1, 1, 250)
	assert.False(t, tip.Visible)
}

func TestHoverUnderPointerMatchesResult(t *testing.T) {
	set := wheel.OptionSet{{Label: "A", Weight: 2}, {Label: "B", Weight: 5}, {Label: "C", Weight: 1}}
	rng := wheel.NewSeededRNG(3)
	for k := 0; k < 300; k++ {
		rest := rng.Float64() * 12 * math.Pi
		sel, err := wheel.Resolve(set, rest)
		require.NoError(t, err)
		// straight above the center is where the pointer sits
		tip := HitTest(set, rest, 0, -100, 250)
		require.True(t, tip.Visible)
		assert.Equal(t, sel.Index, tip.Index, "rest angle %v", rest)
	}
}

func TestWriteSVG(t *testing.T) {
	set := wheel.OptionSet{{Label: "<b>", Weight: 1}, {Label: "B", Weight: 1}, {Label: "C", Weight: 1}}
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, Build(set, 0.5, DefaultConfig())))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Equal(t, 3, strings.Count(out, "<path "))
	assert.Equal(t, 3, strings.Count(out, "<text "))
	assert.Contains(t, out, "&lt;b&gt;")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, `id="rotor"`)

	buf.Reset()
	require.NoError(t, WriteSVG(&buf, Build(wheel.DefaultOptions(), 0, DefaultConfig())))
	assert.Equal(t, 0, strings.Count(buf.String(), "<path "))
	assert.Contains(t, buf.String(), "<circle ")
}

func TestWritePDF(t *testing.T) {
	set := wheel.OptionSet{{Label: "Café", Weight: 2}, {Label: "B", Weight: 1}}
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, Build(set, 1.2, DefaultConfig())))
	assert.Greater(t, buf.Len(), 100)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	buf.Reset()
	require.NoError(t, WritePDF(&buf, Build(nil, 0, DefaultConfig())))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
