package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/spinwheel/internal/log"
	"github.com/xtding233/spinwheel/internal/metrics"
	"github.com/xtding233/spinwheel/internal/wheel"
)

// spinResp describes a spin started by POST /api/spin so a client can
// animate it locally. Started is false when a spin was already running.
type spinResp struct {
	Started       bool    `json:"started"`
	Target        float64 `json:"target,omitempty"`
	TotalRotation float64 `json:"total_rotation,omitempty"`
	StartUnixMs   int64   `json:"start_unix_ms,omitempty"`
	DurationMs    int64   `json:"duration_ms,omitempty"`
	Easing        string  `json:"easing,omitempty"`
}

func planResp(p wheel.Plan) spinResp {
	return spinResp{
		Started:       true,
		Target:        p.Target,
		TotalRotation: p.TotalRotation,
		StartUnixMs:   p.Start.UnixMilli(),
		DurationMs:    p.Duration.Milliseconds(),
		Easing:        string(p.Easing),
	}
}

type frameEvent struct {
	Angle    float64 `json:"angle"`
	Progress float64 `json:"progress"`
	Spinning bool    `json:"spinning"`
}

func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request) {
	ctrl := s.wheelFor(w, r)
	src, stop := s.frames()
	// the spin outlives the request
	ctx := context.WithoutCancel(r.Context())
	begin := time.Now()
	run, started, err := ctrl.Start(ctx, src)
	metrics.ObserveSpin(transport, started, err)
	if err != nil {
		stop()
		writeError(w, r, err)
		return
	}
	if !started {
		stop()
		writeJSON(w, http.StatusOK, spinResp{Started: false})
		return
	}
	go func() {
		defer stop()
		<-run.Done
		metrics.SpinSeconds.Observe(time.Since(begin).Seconds())
	}()
	writeJSON(w, http.StatusAccepted, planResp(run.Plan))
}

// eventWriter serializes server-sent events. Listeners may fire from other
// goroutines, so writes after close are dropped.
type eventWriter struct {
	mu     sync.Mutex
	w      io.Writer
	f      http.Flusher
	closed bool
}

func (e *eventWriter) send(event string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, b)
	e.f.Flush()
}

func (e *eventWriter) close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

// handleSpinStream starts a spin and streams it as server-sent events:
// "frame" per redraw, "selection" once, and a final "done". A spin already
// in flight yields "ignored"; an empty wheel yields "error".
func (s *Server) handleSpinStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ctrl := s.wheelFor(w, r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ev := &eventWriter{w: w, f: flusher}
	defer ev.close()
	unsubscribe := ctrl.Subscribe(wheel.ListenerFuncs{
		OnRedraw: func(snap wheel.Snapshot) {
			ev.send("frame", frameEvent{Angle: snap.Angle, Progress: snap.Progress, Spinning: snap.Spinning})
		},
		OnSelect: func(sel wheel.Selection) { ev.send("selection", sel) },
	})
	defer unsubscribe()

	src, stop := s.frames()
	defer stop()
	begin := time.Now()
	// a client hanging up fast-forwards the spin; the outcome still lands
	run, started, err := ctrl.Start(r.Context(), src)
	metrics.ObserveSpin(transport, started, err)
	switch {
	case err != nil:
		ev.send("error", errorResp{Error: err.Error()})
	case !started:
		ev.send("ignored", spinResp{Started: false})
	default:
		out := <-run.Done
		metrics.SpinSeconds.Observe(time.Since(begin).Seconds())
		if out.Err != nil {
			log.Warn(r.Context(), "streamed spin ended without selection", zap.Error(out.Err))
			ev.send("error", errorResp{Error: out.Err.Error()})
		}
	}
	ev.send("done", struct{}{})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sel, err := s.wheelFor(w, r).Resolve()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}
