package analysis

import (
	"github.com/san-kum/physiosim/internal/metrics"
	"github.com/san-kum/physiosim/internal/serum"
)

// Spectrum describes the oscillation of a steady window.
type Spectrum struct {
	PeriodHours float64   `json:"period_hours"`
	Power       []float64 `json:"power"`
	BinHours    float64   `json:"bin_hours"`
}

// SteadyStart is the hour the final steady window of res begins.
func SteadyStart(res *serum.Result) float64 {
	if res == nil || len(res.Hours) == 0 {
		return 0
	}
	return metrics.SteadyWindowStart(res.Hours[len(res.Hours)-1] / 24)
}

// DominantPeriod finds the strongest period in series from fromHour on. The
// mean is removed first so the DC bin never wins. Samples must be evenly
// spaced; a flat or too short window yields a zero period.
func DominantPeriod(series, hours []float64, fromHour float64) Spectrum {
	var window []float64
	for i, h := range hours {
		if h >= fromHour && i < len(series) {
			window = append(window, series[i])
		}
	}
	if len(window) < 4 || len(hours) < 2 {
		return Spectrum{}
	}
	dt := hours[1] - hours[0]

	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))
	for i := range window {
		window[i] -= mean
	}

	ps := PowerSpectrum(window)
	n := nextPow2(len(window))
	best, bestIdx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, bestIdx = ps[i], i
		}
	}
	out := Spectrum{Power: ps, BinHours: dt}
	if bestIdx > 0 && best > 1e-9 {
		out.PeriodHours = float64(n) * dt / float64(bestIdx)
	}
	return out
}
