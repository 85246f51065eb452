package systemic

import (
	"math"

	"github.com/san-kum/physiosim/internal/kinetics"
	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	cardioCoefficient  = 2.5
	hepaticCoefficient = 5.0
	renalCoefficient   = 4.0
	neuroCoefficient   = 4.0
	dragExponent       = 1.15

	// Orals above surgeThresholdMg daily add a first-pass hepatic surge.
	surgeThresholdMg = 10.0
	surgeReferenceMg = 25.0
	surgeExponent    = 1.35
	surgeBase        = 6.0
	surgeHepatic     = 0.9

	// axisSaturation is the raw axis load that reads as 100.
	axisSaturation = 60.0
	// CriticalAxis is the scaled hepatic or renal load that marks a stack
	// critical.
	CriticalAxis = 70.0
	// dominantFloor is the raw load an axis needs before it can dominate.
	dominantFloor = 5.0
)

const (
	AxisCardiovascular = "cardiovascular"
	AxisHepatic        = "hepatic"
	AxisRenal          = "renal"
	AxisNeuro          = "neuro"
	AxisBalanced       = "balanced"
)

// SystemLoad is organ stress on a 0-100 scale per axis.
type SystemLoad struct {
	Cardio            float64 `json:"cardio"`
	Hepatic           float64 `json:"hepatic"`
	Renal             float64 `json:"renal"`
	Neuro             float64 `json:"neuro"`
	Total             float64 `json:"total"`
	Dominant          string  `json:"dominant"`
	PenaltyMultiplier float64 `json:"penalty_multiplier"`
	IsCritical        bool    `json:"is_critical"`
}

type rawLoad struct {
	cardio, hepatic, renal, neuro float64
}

// OralSurge is the first-pass hepatic surge of one oral load, zero at or
// below the surge threshold.
func OralSurge(c *pkpd.Compound, l kinetics.Load) float64 {
	if c == nil || !c.IsOral() {
		return 0
	}
	daily := l.DailyMg()
	if daily <= surgeThresholdMg {
		return 0
	}
	tier := c.ToxicityTier
	if tier <= 0 {
		tier = 1
	}
	return math.Pow(math.Max(1, daily/surgeReferenceMg), surgeExponent) * surgeBase * tier
}

func loadRatio(freeSat, scale float64) float64 {
	if freeSat <= 0 {
		return 0
	}
	return freeSat / kinetics.ReferenceLoadMg / scale
}

func accumulateLoad(ref *pkpd.Reference, loads []kinetics.Load, freeSat []float64, scale float64) rawLoad {
	var r rawLoad
	for i, l := range loads {
		c, ok := ref.Compound(l.Compound)
		if !ok {
			continue
		}
		drag := math.Pow(loadRatio(freeSat[i], scale), dragExponent)
		r.cardio += c.Toxicity.Cardio * cardioCoefficient * drag
		r.hepatic += c.Toxicity.Hepatic * hepaticCoefficient * drag
		r.renal += c.Toxicity.Renal * renalCoefficient * drag
		r.neuro += c.Toxicity.Neuro * neuroCoefficient * drag
		if s := OralSurge(c, l); s > 0 {
			r.hepatic += s * surgeHepatic
		}
	}
	return r
}

func scaleAxis(raw float64) float64 {
	return math.Min(100, math.Max(0, raw)*100/axisSaturation)
}

func dominantAxis(cardio, hepatic, renal, neuro float64) string {
	name, top := AxisBalanced, dominantFloor
	for _, a := range []struct {
		name string
		v    float64
	}{
		{AxisCardiovascular, cardio},
		{AxisHepatic, hepatic},
		{AxisRenal, renal},
		{AxisNeuro, neuro},
	} {
		if a.v > top {
			name, top = a.name, a.v
		}
	}
	return name
}
