package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/xtding233/spinwheel/internal/config"
	"github.com/xtding233/spinwheel/internal/render"
	"github.com/xtding233/spinwheel/internal/wheel"
)

const (
	defaultSimSpins = 1000
	maxSimSpins     = 1_000_000
)

type pageView struct {
	Rows     []wheel.Row
	SVG      template.HTML
	Size     float64
	Spinning bool
	Last     *wheel.Selection
	Empty    bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.wheelFor(w, r).Snapshot()
	cfg := s.settings().Render
	var svg bytes.Buffer
	if err := render.WriteSVG(&svg, render.Build(snap.Options, snap.Angle, cfg)); err != nil {
		writeError(w, r, err)
		return
	}
	vm := pageView{
		Rows:     wheel.ViewModel(snap.Options),
		SVG:      template.HTML(svg.String()), // labels are escaped by WriteSVG
		Size:     cfg.Size,
		Spinning: snap.Spinning,
		Last:     snap.Last,
		Empty:    snap.Options.TotalWeight() == 0,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = s.Tmpl.ExecuteTemplate(w, "index.html", vm)
}

func (s *Server) scene(w http.ResponseWriter, r *http.Request) render.Scene {
	snap := s.wheelFor(w, r).Snapshot()
	return render.Build(snap.Options, snap.Angle, s.settings().Render)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	scene := s.scene(w, r)
	var buf bytes.Buffer
	if err := render.WriteSVG(&buf, scene); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	scene := s.scene(w, r)
	var buf bytes.Buffer
	if err := render.WritePDF(&buf, scene); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="wheel.pdf"`)
	_, _ = w.Write(buf.Bytes())
}

// handleHover hit-tests a point given in canvas pixels from the top-left
// corner of the painted wheel.
func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	x, okX, err := queryFloat(r, "x")
	if err != nil {
		writeError(w, r, err)
		return
	}
	y, okY, err := queryFloat(r, "y")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !okX || !okY {
		writeError(w, r, fmt.Errorf("%w: x and y are required", errBadRequest))
		return
	}
	snap := s.wheelFor(w, r).Snapshot()
	radius := s.settings().Render.Radius()
	writeJSON(w, http.StatusOK, render.HitTest(snap.Options, snap.Angle, x-radius, y-radius, radius))
}

type simResp struct {
	wheel.SimStats
	Labels    []string `json:"labels"`
	FullSpins int      `json:"full_spins"`
	Easing    string   `json:"easing"`
}

// handleSimulate runs a fairness check over the visitor's options. Spin
// settings may be overridden with full_spins, duration_ms and easing; seed
// makes the run reproducible.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	n := defaultSimSpins
	if v, err := queryInt(r, "n"); err != nil {
		writeError(w, r, err)
		return
	} else if v != nil {
		n = *v
	}
	if n < 1 || n > maxSimSpins {
		writeError(w, r, fmt.Errorf("%w: n must be in [1, %d]", errBadRequest, maxSimSpins))
		return
	}

	var o config.Overrides
	var err error
	if o.FullSpins, err = queryInt(r, "full_spins"); err != nil {
		writeError(w, r, err)
		return
	}
	if o.DurationMs, err = queryInt(r, "duration_ms"); err != nil {
		writeError(w, r, err)
		return
	}
	if e := r.URL.Query().Get("easing"); e != "" {
		o.Easing = &e
	}
	cfg, err := s.simConfig(o)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rng := wheel.DefaultRNG()
	if seed := r.URL.Query().Get("seed"); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid seed", errBadRequest))
			return
		}
		rng = wheel.NewSeededRNG(v)
	}

	set := s.wheelFor(w, r).Options()
	stats, err := wheel.Simulate(set, cfg, rng, n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	labels := make([]string, len(set))
	for i, opt := range set {
		labels[i] = opt.Label
	}
	writeJSON(w, http.StatusOK, simResp{SimStats: stats, Labels: labels, FullSpins: cfg.FullSpins, Easing: string(cfg.Easing)})
}

func (s *Server) simConfig(o config.Overrides) (wheel.SpinConfig, error) {
	if s.Loader != nil {
		_, st, err := s.Loader.Resolve(s.Preset, o)
		return st.Spin, err
	}
	cfg := s.settings().Spin
	if o.FullSpins != nil {
		if *o.FullSpins < 0 {
			return cfg, fmt.Errorf("%w: full_spins must be >= 0", errBadRequest)
		}
		cfg.FullSpins = *o.FullSpins
	}
	if o.DurationMs != nil {
		if *o.DurationMs <= 0 {
			return cfg, fmt.Errorf("%w: duration_ms must be > 0", errBadRequest)
		}
		cfg.Duration = time.Duration(*o.DurationMs) * time.Millisecond
	}
	if o.Easing != nil {
		cfg.Easing = wheel.Easing(*o.Easing)
		if err := cfg.Easing.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
