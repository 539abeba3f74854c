package wheel

import (
	"math"
	"time"
)

// SimStats summarizes repeated spins of one option set.
type SimStats struct {
	Spins       int       `json:"spins"`
	Counts      []int     `json:"counts"`
	Frequencies []float64 `json:"frequencies"`
	Expected    []float64 `json:"expected"`
	// MaxDeviation is the largest |frequency - expected| over all options.
	MaxDeviation float64 `json:"max_deviation"`
	// ChiSquare is Pearson's statistic against the weight shares.
	ChiSquare float64 `json:"chi_square"`
}

// Simulate plans spins without animating them and tallies where each one
// comes to rest. It checks that selection frequency tracks weight.
func Simulate(set OptionSet, cfg SpinConfig, rng RandomSource, spins int) (SimStats, error) {
	g := NewGeometry(set)
	if g.Empty() {
		return SimStats{}, ErrEmptyWheel
	}
	if spins <= 0 {
		return SimStats{}, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	counts := make([]int, len(set))
	for i := 0; i < spins; i++ {
		plan := NewPlan(cfg, rng, time.Time{})
		sel, err := resolveWith(g, set, plan.TotalRotation)
		if err != nil {
			return SimStats{}, err
		}
		counts[sel.Index]++
	}
	return calcSimStats(set, counts, spins), nil
}

func calcSimStats(set OptionSet, counts []int, spins int) SimStats {
	total := float64(set.TotalWeight())
	st := SimStats{
		Spins:       spins,
		Counts:      counts,
		Frequencies: make([]float64, len(set)),
		Expected:    make([]float64, len(set)),
	}
	for i, o := range set {
		freq := float64(counts[i]) / float64(spins)
		exp := float64(o.Weight) / total
		st.Frequencies[i] = freq
		st.Expected[i] = exp
		if d := math.Abs(freq - exp); d > st.MaxDeviation {
			st.MaxDeviation = d
		}
		e := exp * float64(spins)
		if e > 0 {
			diff := float64(counts[i]) - e
			st.ChiSquare += diff * diff / e
		}
	}
	return st
}
