package stack

import (
	"math"

	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	stabilityPerDay   = 0.1
	blendPenalty      = 0.2
	blendMinFrequency = 3.0

	oralToxicityThreshold = 500.0
	oralToxicityRate      = 0.003
	defaultOralTier       = 2.0
	oralSynergyPenalty    = 1.0

	suppressionThreshold = 200.0
	estrogenRatioFloor   = 0.4
	crashedE2Penalty     = 3.0
	estrogenLoadLimit    = 1000.0
	estrogenOverloadCap  = 2.0

	renalPenalty   = 2.0
	boldenoneID    = "eq"
	highBoldenone  = 600.0
	oralSafeWeeks  = 6.0
	chronicWeeks   = 8.0
	recoveryWeeks  = 12.0
	recoveryStep   = 4.0
	recoveryWeight = 0.5
	durationPower  = 1.5
)

// Protocol is the cycle context of a stack. The zero value applies the
// scheduling and protocol penalties without any duration scaling.
type Protocol struct {
	// CycleWeeks is the planned length; zero skips the duration penalties.
	CycleWeeks float64 `yaml:"cycle_weeks,omitempty" json:"cycle_weeks,omitempty"`
}

// Penalties itemizes the risk terms a Protocol adds on top of the curves.
type Penalties struct {
	// Stability is the per-compound risk multiplier from the pinning schedule.
	Stability map[string]float64 `json:"stability"`
	// OralDuration multiplies the risk of every oral.
	OralDuration float64 `json:"oral_duration"`

	OralToxicity     float64 `json:"oral_toxicity"`
	OralSynergy      float64 `json:"oral_synergy"`
	CrashedE2        float64 `json:"crashed_e2"`
	EstrogenOverload float64 `json:"estrogen_overload"`
	Renal            float64 `json:"renal"`

	// Suppression grows with weeks past a standard cycle.
	Suppression float64 `json:"suppression"`
	// TimeFactor scales the whole adjusted risk for long cycles.
	TimeFactor float64 `json:"time_factor"`
}

// Global is the sum of the additive protocol terms.
func (p Penalties) Global() float64 {
	return p.OralToxicity + p.OralSynergy + p.CrashedE2 + p.EstrogenOverload + p.Renal
}

// RiskMultiplier is the factor applied to one compound's curve risk.
func (p Penalties) RiskMultiplier(c *pkpd.Compound) float64 {
	m, ok := p.Stability[c.ID]
	if !ok {
		m = 1
	}
	if c.IsOral() {
		m *= p.OralDuration
	}
	return m
}

// adjust applies the additive terms and then the time factor to a risk total.
func (p Penalties) adjust(risk float64) float64 {
	return (risk + p.Global() + p.Suppression) * p.TimeFactor
}

// StabilityPenalty is the risk multiplier for pinning an injectable less
// often than its ester half-life, plus a surcharge for blends pinned fewer
// than three times a week. Orals are taken daily and are never penalized.
func StabilityPenalty(c *pkpd.Compound, e pkpd.StackEntry) float64 {
	if c.IsTablet() {
		return 1
	}
	freq := c.DosesPerWeek(e.Frequency)
	ester := c.Ester(e.Ester)
	halfLifeDays := ester.HalfLifeHours / 24
	if halfLifeDays <= 0 {
		halfLifeDays = 1
	}
	penalty := 1.0
	if interval := 7 / freq; interval > halfLifeDays {
		penalty += (interval - halfLifeDays) * stabilityPerDay
	}
	if ester.Blend && freq < blendMinFrequency {
		penalty += blendPenalty
	}
	return penalty
}

func computePenalties(ref *pkpd.Reference, s pkpd.Stack, entries []resolved, proto Protocol) Penalties {
	p := Penalties{
		Stability:    make(map[string]float64),
		OralDuration: 1,
		TimeFactor:   1,
	}
	for _, e := range s {
		c, ok := ref.Compound(e.Compound)
		if !ok || pkpd.CurveDose(c, e) <= 0 {
			continue
		}
		p.Stability[c.ID] = math.Max(p.Stability[c.ID], StabilityPenalty(c, e))
	}

	var oralLoad, estrogenLoad, suppressives float64
	var orals int
	var renalToxic, pressor bool
	for _, r := range entries {
		c := r.compound
		if c.IsOral() {
			orals++
			tier := c.ToxicityTier
			if tier <= 0 {
				tier = defaultOralTier
			}
			oralLoad += r.weekly * tier
		}
		estrogenLoad += r.weekly * c.Metabolic.Aromatization
		if c.Flags.Suppressive {
			suppressives += r.weekly
		}
		renalToxic = renalToxic || c.Flags.RenalToxic
		pressor = pressor || c.Flags.HeavyBP || (c.ID == boldenoneID && r.weekly > highBoldenone)
	}

	if oralLoad > oralToxicityThreshold {
		p.OralToxicity = (oralLoad - oralToxicityThreshold) * oralToxicityRate
	}
	if orals > 1 {
		p.OralSynergy = float64(orals-1) * oralSynergyPenalty
	}
	if suppressives > suppressionThreshold {
		if ratio := estrogenLoad / suppressives; ratio < estrogenRatioFloor {
			p.CrashedE2 = (1 - ratio/estrogenRatioFloor) * crashedE2Penalty
		}
	}
	if estrogenLoad > estrogenLoadLimit {
		p.EstrogenOverload = math.Min((estrogenLoad-estrogenLoadLimit)/1000, estrogenOverloadCap)
	}
	if renalToxic && pressor {
		p.Renal = renalPenalty
	}

	if w := proto.CycleWeeks; w > 0 {
		if w > oralSafeWeeks {
			p.OralDuration = math.Pow(w/oralSafeWeeks, durationPower)
		}
		p.Suppression = math.Max(0, (w-recoveryWeeks)/recoveryStep) * recoveryWeight
		if w > chronicWeeks {
			p.TimeFactor = math.Pow(w/chronicWeeks, durationPower)
		}
	}
	return p
}
