// Package metrics exposes Prometheus instruments for spins and edits.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xtding233/spinwheel/internal/wheel"
)

// Spin outcomes for SpinsTotal.
const (
	SpinStarted  = "started"
	SpinIgnored  = "ignored"
	SpinRejected = "rejected"
)

var (
	SpinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spinwheel_spins_total",
		Help: "Spin requests by outcome",
	}, []string{"outcome", "transport"})

	SpinSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spinwheel_spin_seconds",
		Help:    "Wall time from spin start to selection",
		Buckets: []float64{0.5, 1, 2, 3, 4, 5, 8},
	})

	SelectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spinwheel_selections_total",
		Help: "Completed spins that produced a selection",
	})

	RedrawsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spinwheel_redraws_total",
		Help: "Redraw events emitted by wheels",
	})

	OptionEditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spinwheel_option_edits_total",
		Help: "Option edits by operation",
	}, []string{"op"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spinwheel_sessions_active",
		Help: "Wheels currently held in memory",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Listener counts redraws and selections of one wheel.
type Listener struct{}

func (Listener) Redraw(wheel.Snapshot) { RedrawsTotal.Inc() }

func (Listener) Selected(wheel.Selection) { SelectionsTotal.Inc() }

// ObserveSpin records one spin attempt.
func ObserveSpin(transport string, started bool, err error) {
	switch {
	case err != nil:
		SpinsTotal.WithLabelValues(SpinRejected, transport).Inc()
	case !started:
		SpinsTotal.WithLabelValues(SpinIgnored, transport).Inc()
	default:
		SpinsTotal.WithLabelValues(SpinStarted, transport).Inc()
	}
}
