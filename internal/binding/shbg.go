package binding

import (
	"math"

	"github.com/san-kum/physiosim/internal/kinetics"
	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	SHBGBaselineMale   = 35.0
	SHBGBaselineFemale = 60.0
	SHBGMin            = 5.0
	SHBGMax            = 120.0

	// SHBGCapacityPerUnit is the mg-equivalent one nmol/L of SHBG can hold.
	SHBGCapacityPerUnit = 8.0

	suppressionScaleMg = 1000.0
	inductionThreshold = 25.0
	inductionPerPgML   = 0.08
)

type SHBGResult struct {
	Baseline      float64            `json:"baseline"`
	Pressure      float64            `json:"pressure"`
	Suppression   float64            `json:"suppression"`
	Induction     float64            `json:"induction"`
	Level         float64            `json:"level"`
	Capacity      float64            `json:"capacity"`
	Demand        float64            `json:"demand"`
	FreeFractions map[string]float64 `json:"free_fractions"`
}

// FreeFraction returns the unbound share of a compound; compounds that do not
// bind SHBG are fully free.
func (r SHBGResult) FreeFraction(id string) float64 {
	if f, ok := r.FreeFractions[id]; ok {
		return f
	}
	return 1
}

// SHBG balances androgenic suppression against estrogenic induction and then
// shares the resulting binding capacity among bindable compounds in
// proportion to their demand.
func SHBG(ref *pkpd.Reference, loads []kinetics.Load, estradiol float64, profile pkpd.UserProfile) SHBGResult {
	res := SHBGResult{
		Baseline:      SHBGBaselineMale,
		FreeFractions: make(map[string]float64),
	}
	if profile.Normalized().Gender == pkpd.Female {
		res.Baseline = SHBGBaselineFemale
	}

	ids := compoundOrder(loads)
	demand := make(map[string]float64, len(ids))
	for _, id := range ids {
		c, ok := ref.Compound(id)
		if !ok {
			continue
		}
		sat := saturationOf(loads, id)
		res.Pressure += sat * c.Pathways.SHBGSuppression / suppressionScaleMg
		if c.Pathways.SHBGBinding > 0 && sat > 0 {
			demand[id] = c.Pathways.SHBGBinding * sat
			res.Demand += demand[id]
		}
	}

	res.Pressure = math.Max(res.Pressure, 0)
	res.Suppression = res.Pressure / (1 + res.Pressure)
	res.Induction = math.Max(0, estradiol-inductionThreshold) * inductionPerPgML
	res.Level = pkpd.Clamp(res.Baseline*(1-res.Suppression)+res.Induction, SHBGMin, SHBGMax)
	res.Capacity = res.Level * SHBGCapacityPerUnit

	for _, id := range ids {
		d, ok := demand[id]
		if !ok {
			continue
		}
		c, _ := ref.Compound(id)
		share := d / res.Demand
		allocated := math.Min(d, res.Capacity*share)
		// Fractions scale total saturation, so the bound share of the
		// bindable pool is weighted by that pool's size.
		res.FreeFractions[id] = pkpd.Clamp(1-c.Pathways.SHBGBinding*allocated/d, 0, 1)
	}
	return res
}
