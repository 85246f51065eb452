package response

import "github.com/san-kum/physiosim/internal/pkpd"

// Interpolate looks dose up on a piecewise-linear curve. Doses outside the
// curve return the boundary point unchanged; an empty curve returns the zero
// point at the requested dose.
func Interpolate(c pkpd.Curve, dose float64) pkpd.CurvePoint {
	if len(c) == 0 {
		return pkpd.CurvePoint{Dose: dose}
	}
	if dose <= c[0].Dose {
		return c[0]
	}
	last := c[len(c)-1]
	if dose >= last.Dose {
		return last
	}

	for i := 0; i < len(c)-1; i++ {
		lo, hi := c[i], c[i+1]
		if dose < lo.Dose || dose > hi.Dose {
			continue
		}
		span := hi.Dose - lo.Dose
		if span <= 0 {
			return hi
		}
		ratio := (dose - lo.Dose) / span
		return pkpd.CurvePoint{
			Dose:  dose,
			Value: lo.Value + ratio*(hi.Value-lo.Value),
			CI:    lo.CI + ratio*(hi.CI-lo.CI),
			Tier:  lo.Tier,
		}
	}
	return last
}
