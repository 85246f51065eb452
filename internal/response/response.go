package response

import (
	"math"

	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	oralBeyondExponent    = 1.35
	defaultBeyondExponent = 1.0
)

// Meta describes where a dose sits relative to the compound's evidence.
type Meta struct {
	RequestedDose  float64 `json:"requested_dose"`
	PlateauDose    float64 `json:"plateau_dose"`
	HardMax        float64 `json:"hard_max"`
	NearingPlateau bool    `json:"nearing_plateau"`
	BeyondEvidence bool    `json:"beyond_evidence"`
	Missing        bool    `json:"missing,omitempty"`
}

type Response struct {
	Compound string        `json:"compound"`
	Polarity pkpd.Polarity `json:"polarity"`
	Value    float64       `json:"value"`
	CI       float64       `json:"ci"`
	Meta     Meta          `json:"meta"`
}

// Evaluate returns the personalized response of compound c at dose, in the
// unit its curves use. A nil compound or a malformed curve yields zero.
//
// Benefit stays flat past the last control point. Risk keeps growing in
// proportion to dose there, supra-linearly for orals.
func Evaluate(c *pkpd.Compound, pol pkpd.Polarity, dose float64, profile pkpd.UserProfile) Response {
	dose = math.Max(dose, 0)
	if c == nil {
		return Response{Polarity: pol, Meta: Meta{RequestedDose: dose, Missing: true}}
	}

	r := Response{
		Compound: c.ID,
		Polarity: pol,
		Meta: Meta{
			RequestedDose: dose,
			PlateauDose:   c.BenefitCurve.PlateauDose(),
			HardMax:       c.HardMax(),
		},
	}
	if r.Meta.HardMax > 0 {
		r.Meta.BeyondEvidence = dose > r.Meta.HardMax
	}

	curve := c.Curve(pol)
	if len(curve) == 0 || pkpd.ValidateCurve(curve, pol) != nil {
		return r
	}
	if r.Meta.PlateauDose > 0 {
		r.Meta.NearingPlateau = dose >= r.Meta.PlateauDose
	}

	point := Interpolate(curve, dose)
	if pol == pkpd.Risk {
		point = extendRisk(c, curve, dose, point)
	}

	point = Personalize(c, pol, point, profile)
	r.Value = point.Value
	r.CI = point.CI
	return r
}

func extendRisk(c *pkpd.Compound, curve pkpd.Curve, dose float64, point pkpd.CurvePoint) pkpd.CurvePoint {
	ceiling := curve.Cap()
	if ceiling <= 0 || dose <= ceiling {
		return point
	}
	exp := defaultBeyondExponent
	if c.IsOral() {
		exp = oralBeyondExponent
	}
	f := math.Pow(dose/ceiling, exp)
	point.Dose = dose
	point.Value *= f
	point.CI *= f
	return point
}
