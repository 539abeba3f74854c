package config

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/spinwheel/internal/log"
)

// Watcher polls file modification times and calls onChange for each file
// that changed since the previous scan. Files that appear later count as a
// change; files that disappear are skipped.
type Watcher struct {
	Paths     []string
	Interval  time.Duration
	onChange  func(path string)
	lastMTime map[string]time.Time
}

func NewWatcher(paths []string, interval time.Duration, onChange func(string)) *Watcher {
	return &Watcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
	}
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	w.Scan(true)
	for {
		select {
		case <-ticker.C:
			w.Scan(false)
		case <-ctx.Done():
			return
		}
	}
}

// Scan checks every path once. With prime set it only records mtimes.
func (w *Watcher) Scan(prime bool) {
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		mt := fi.ModTime()
		last, seen := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || (seen && !mt.After(last)) {
			continue
		}
		log.Info(context.Background(), "config file changed", zap.String("path", p))
		if w.onChange != nil {
			w.onChange(p)
		}
	}
}
