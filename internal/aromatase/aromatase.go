// Package aromatase estimates serum estradiol from aromatizable substrate
// with Michaelis-Menten kinetics.
package aromatase

import (
	"math"

	"github.com/san-kum/physiosim/internal/kinetics"
	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	Vmax = 180.0
	Km   = 600.0

	// NaturalEstradiol is the untouched baseline in pg/mL; it decays toward
	// EstradiolFloor as exogenous load shuts down natural production.
	NaturalEstradiol = 25.0
	EstradiolFloor   = 8.0
	MinEstradiol     = 5.0
	MaxEstradiol     = 350.0

	suppressionScaleMg = 400.0
	metaboliteRate     = 0.05
)

type enzymeScale struct{ vmax, km float64 }

var enzymeScales = map[pkpd.Level]enzymeScale{
	pkpd.Low:      {vmax: 0.7, km: 1.2},
	pkpd.Moderate: {vmax: 1, km: 1},
	pkpd.High:     {vmax: 1.35, km: 0.85},
}

type Result struct {
	Substrate  float64 `json:"substrate"`
	Vmax       float64 `json:"vmax"`
	Km         float64 `json:"km"`
	Inhibition float64 `json:"inhibition"`
	Rate       float64 `json:"rate"`
	Metabolite float64 `json:"metabolite"`
	Baseline   float64 `json:"baseline"`
	Estradiol  float64 `json:"estradiol"`
}

// Estimate converts free aromatizable substrate into estradiol. freeFractions
// scales each compound's saturation; a nil map or missing id means fully free.
func Estimate(ref *pkpd.Reference, loads []kinetics.Load, freeFractions map[string]float64, profile pkpd.UserProfile) Result {
	p := profile.Normalized()
	es := enzymeScales[p.EnzymeActivity]

	res := Result{
		Vmax: Vmax * es.vmax * pkpd.Clamp(1+(p.BodyFatPct-15)/50, 0.8, 1.5),
		Km:   Km * es.km,
	}

	var inhibitor, suppressive float64
	for _, l := range loads {
		c, ok := ref.Compound(l.Compound)
		if !ok || l.SaturationMg <= 0 {
			continue
		}
		ff := 1.0
		if f, ok := freeFractions[l.Compound]; ok {
			ff = f
		}
		free := l.SaturationMg * ff

		res.Substrate += free * c.Metabolic.Aromatization
		inhibitor += l.SaturationMg * c.Metabolic.AntiAromatase
		if c.Flags.MethylEstrogen {
			res.Metabolite += free * metaboliteRate
		}
		if c.Class == pkpd.Injectable || c.Class == pkpd.Oral {
			suppressive += l.SaturationMg
		}
	}

	res.Inhibition = 1 / (1 + inhibitor)
	res.Vmax *= res.Inhibition
	if res.Substrate > 0 {
		res.Rate = res.Vmax * res.Substrate / (res.Km + res.Substrate)
	}
	res.Baseline = EstradiolFloor + (NaturalEstradiol-EstradiolFloor)*math.Exp(-suppressive/suppressionScaleMg)
	res.Estradiol = pkpd.Clamp(res.Baseline+res.Rate+res.Metabolite, MinEstradiol, MaxEstradiol)
	return res
}
