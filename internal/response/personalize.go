package response

import (
	"math"

	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	hyperResponderScale = 1.2
	lowResponderScale   = 0.8

	lowEnzymeRisk  = 0.84
	highEnzymeRisk = 1.28

	lowNeuroRisk  = 0.75
	highNeuroRisk = 2.0

	cuttingBenefit       = 0.68
	cuttingAntiCatabolic = 0.88
	bulkingOralRisk      = 1.25

	trainingBoost     = 1.2
	powerliftingHyper = 0.8
	crossfitCardio    = 1.3

	// Female profiles sit in a virilization regime roughly an order of
	// magnitude above the male baseline at identical mg.
	femaleScale = 10.0

	ageReference   = 35.0
	ageSpan        = 35.0
	ageRiskRise    = 0.4
	ageRiskRelief  = 0.15
	bodyFatPivot   = 15.0
	bodyFatSpan    = 50.0
	bodyFatRiskMin = 0.8
	bodyFatRiskMax = 1.5
)

type experienceScale struct{ benefit, risk float64 }

var experienceScales = map[pkpd.Experience]experienceScale{
	pkpd.ExperienceNone:        {benefit: 0.18, risk: 0.35},
	pkpd.ExperienceTestOnly:    {benefit: 0.08, risk: 0.15},
	pkpd.ExperienceMulti:       {benefit: -0.05, risk: -0.05},
	pkpd.ExperienceBlastCruise: {benefit: -0.12, risk: 0},
}

// Multiplier returns the product of every profile scalar that applies to
// compound c on the given polarity. Unknown profile classes count as neutral.
func Multiplier(c *pkpd.Compound, pol pkpd.Polarity, profile pkpd.UserProfile) float64 {
	if c == nil {
		return 0
	}
	p := profile.Normalized()
	if pol == pkpd.Risk {
		return riskMultiplier(c, p)
	}
	return benefitMultiplier(c, p)
}

func benefitMultiplier(c *pkpd.Compound, p pkpd.UserProfile) float64 {
	m := 1.0

	switch p.ReceptorSensitivity {
	case pkpd.HyperResponder:
		m *= hyperResponderScale
	case pkpd.LowResponder:
		m *= lowResponderScale
	}

	if p.DietState == pkpd.DietCutting {
		if c.Flags.AntiCatabolic {
			m *= cuttingAntiCatabolic
		} else {
			m *= cuttingBenefit
		}
	}

	switch p.TrainingStyle {
	case pkpd.TrainingPowerlifting:
		switch c.Archetype {
		case pkpd.ArchetypeStrength:
			m *= trainingBoost
		case pkpd.ArchetypeHypertrophy:
			m *= powerliftingHyper
		}
	case pkpd.TrainingBodybuilding:
		m *= trainingBoost
	case pkpd.TrainingCrossfit:
		if c.Archetype == pkpd.ArchetypeEndurance {
			m *= trainingBoost
		}
	}

	if p.Gender == pkpd.Female {
		m *= femaleScale
	}
	if s, ok := experienceScales[p.Experience]; ok {
		m *= 1 + s.benefit
	}
	return math.Max(m, 0)
}

func riskMultiplier(c *pkpd.Compound, p pkpd.UserProfile) float64 {
	m := 1.0
	aromatizer := c.Metabolic.Aromatization > 0

	if aromatizer {
		switch p.EnzymeActivity {
		case pkpd.Low:
			m *= lowEnzymeRisk
		case pkpd.High:
			m *= highEnzymeRisk
		}
		m *= pkpd.Clamp(1+(p.BodyFatPct-bodyFatPivot)/bodyFatSpan, bodyFatRiskMin, bodyFatRiskMax)
	}

	if c.Flags.Neurotoxic {
		switch p.NeuroSensitivity {
		case pkpd.Low:
			m *= lowNeuroRisk
		case pkpd.High:
			m *= highNeuroRisk
		}
	}

	if p.DietState == pkpd.DietBulking && c.IsOral() {
		m *= bulkingOralRisk
	}
	if p.TrainingStyle == pkpd.TrainingCrossfit && c.Flags.CardioImpairing {
		m *= crossfitCardio
	}

	m /= p.LeanMassScale()

	if p.Gender == pkpd.Female {
		m *= femaleScale
	}

	offset := pkpd.Clamp((p.Age-ageReference)/ageSpan, -1, 1)
	if offset > 0 {
		m *= 1 + ageRiskRise*offset
	} else {
		m *= 1 + ageRiskRelief*offset
	}

	if s, ok := experienceScales[p.Experience]; ok {
		m *= 1 + s.risk
	}
	return math.Max(m, 0)
}

// Personalize scales a base curve point by the profile multiplier. Value and
// CI move together and never go negative.
func Personalize(c *pkpd.Compound, pol pkpd.Polarity, base pkpd.CurvePoint, profile pkpd.UserProfile) pkpd.CurvePoint {
	m := Multiplier(c, pol, profile)
	out := base
	out.Value = math.Max(base.Value*m, 0)
	out.CI = math.Max(base.CI*m, 0)
	return out
}
