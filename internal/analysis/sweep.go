package analysis

import (
	"context"
	"errors"

	"github.com/san-kum/physiosim/internal/metrics"
	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/serum"
)

var ErrNoEntry = errors.New("analysis: compound not in stack")

// SweepPoint is the steady-state level band for one dose.
type SweepPoint struct {
	Dose   float64 `json:"dose"`
	Peak   float64 `json:"peak"`
	Trough float64 `json:"trough"`
	Mean   float64 `json:"mean"`
}

// DoseSweep varies the per-administration dose of one compound across
// [lo, hi] and records the steady-state band of the total serum curve. Every
// other entry keeps its dose.
func DoseSweep(ctx context.Context, ref *pkpd.Reference, base pkpd.Stack, compound string, lo, hi float64, steps int, cfg serum.Config) ([]SweepPoint, error) {
	idx := -1
	for i, e := range base {
		if e.Compound == compound {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNoEntry
	}
	if steps < 2 {
		steps = 2
	}
	if cfg.DurationDays == 0 {
		cfg.DurationDays = serum.DurationDays(ref, base)
	}
	from := metrics.SteadyWindowStart(cfg.DurationDays)

	out := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		dose := lo + (hi-lo)*float64(i)/float64(steps-1)
		s := base.Clone()
		s[idx].Dose = dose
		s[idx].FrontLoadDose = 0

		peak := metrics.NewPeak(serum.SeriesTotal)
		trough := metrics.NewTrough(serum.SeriesTotal, from)
		mean := metrics.NewMean(serum.SeriesTotal, from)
		sim := serum.New(ref)
		sim.AddObserver(serum.ObserverFunc(func(smp serum.Sample) {
			if smp.Hour >= from {
				peak.Observe(smp)
			}
		}))
		sim.AddMetric(trough)
		sim.AddMetric(mean)
		if _, err := sim.Run(ctx, s, cfg); err != nil {
			return nil, err
		}
		out = append(out, SweepPoint{Dose: dose, Peak: peak.Value(), Trough: trough.Value(), Mean: mean.Value()})
	}
	return out, nil
}
