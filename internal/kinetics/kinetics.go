// Package kinetics converts stack entries into weekly active mg and
// steady-state saturation mg, and maps the combined saturation through the
// three-tier diminishing-returns curve.
package kinetics

import (
	"math"
	"sort"

	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	// MaxAccumulation caps the steady-state accumulation ratio.
	MaxAccumulation = 6.0

	Tier1Mg    = 1500.0
	Tier2Mg    = 2500.0
	Tier1Slope = 1.0
	Tier2Slope = 0.7
	Tier3Slope = 0.3

	// ReferenceLoadMg is the saturation that counts as one unit of organ load.
	ReferenceLoadMg = 500.0
)

// Load is the normalized view of one stack entry.
type Load struct {
	Compound      string          `json:"compound"`
	Class         pkpd.AdminClass `json:"class"`
	Ester         string          `json:"ester,omitempty"`
	DosesPerWeek  float64         `json:"doses_per_week"`
	WeeklyMg      float64         `json:"weekly_mg"`
	ActiveMg      float64         `json:"weekly_active_mg"`
	HalfLifeHours float64         `json:"half_life_hours"`
	Accumulation  float64         `json:"accumulation"`
	SaturationMg  float64         `json:"saturation_mg"`
	Efficiency    float64         `json:"efficiency"`
	ToxicityLoad  float64         `json:"toxicity_load"`
}

// DailyMg is the average daily raw dose.
func (l Load) DailyMg() float64 { return l.WeeklyMg / 7 }

// AccumulationRatio is 1/(1-e^(-k*tau)) with k from the half-life and tau the
// dosing interval in days, capped at MaxAccumulation. Degenerate inputs give 1.
func AccumulationRatio(halfLifeHours, dosesPerWeek float64) float64 {
	if halfLifeHours <= 0 || dosesPerWeek <= 0 {
		return 1
	}
	k := math.Ln2 / (halfLifeHours / 24)
	tau := 7 / dosesPerWeek
	denom := 1 - math.Exp(-k*tau)
	if denom <= 0 {
		return MaxAccumulation
	}
	return math.Min(1/denom, MaxAccumulation)
}

// NormalizeEntry derives the load of a single entry. A nil compound or a
// non-positive dose gives a zero load.
func NormalizeEntry(c *pkpd.Compound, e pkpd.StackEntry) Load {
	if c == nil || e.Dose <= 0 {
		return Load{Compound: e.Compound, Efficiency: 1}
	}
	ester := c.Ester(e.Ester)
	dpw := c.DosesPerWeek(e.Frequency)
	l := Load{
		Compound:      c.ID,
		Class:         c.Class,
		Ester:         e.Ester,
		DosesPerWeek:  dpw,
		WeeklyMg:      e.Dose * dpw,
		HalfLifeHours: ester.HalfLifeHours,
		Efficiency:    1,
	}
	if l.Ester == "" {
		l.Ester = c.DefaultEster
	}
	l.ActiveMg = l.WeeklyMg * ester.Weight
	l.Accumulation = AccumulationRatio(l.HalfLifeHours, dpw)
	l.SaturationMg = l.ActiveMg * l.Accumulation
	return l
}

// Normalize resolves every known entry of s and applies the shared efficiency
// ratio. Loads come back sorted by compound id; unknown compounds are dropped.
func Normalize(ref *pkpd.Reference, s pkpd.Stack, profile pkpd.UserProfile) []Load {
	loads := make([]Load, 0, len(s))
	for _, e := range s {
		c, ok := ref.Compound(e.Compound)
		if !ok || e.Dose <= 0 {
			continue
		}
		loads = append(loads, NormalizeEntry(c, e))
	}
	sort.SliceStable(loads, func(i, j int) bool {
		if loads[i].Compound != loads[j].Compound {
			return loads[i].Compound < loads[j].Compound
		}
		return loads[i].Ester < loads[j].Ester
	})

	scale := profile.LeanMassScale()
	eff := Efficiency(TotalSaturation(loads), scale)
	for i := range loads {
		loads[i].Efficiency = eff
		loads[i].ToxicityLoad = loads[i].SaturationMg / ReferenceLoadMg / scale
	}
	return loads
}

// TotalSaturation sums saturation mg across loads that act on the receptor;
// supports and ancillaries are excluded.
func TotalSaturation(loads []Load) float64 {
	var total float64
	for _, l := range loads {
		if l.Class == pkpd.Injectable || l.Class == pkpd.Oral {
			total += l.SaturationMg
		}
	}
	return total
}
