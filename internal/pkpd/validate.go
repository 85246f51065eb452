package pkpd

import (
	"errors"
	"fmt"
)

// ValidateCurve checks the shape rules every curve must satisfy: it starts at
// (0,0), doses strictly increase and, for risk curves, values never decrease.
// An empty curve is valid and evaluates to zero.
func ValidateCurve(c Curve, p Polarity) error {
	if len(c) == 0 {
		return nil
	}
	if c[0].Dose != 0 || c[0].Value != 0 {
		return fmt.Errorf("%w: first point is (%g,%g), want (0,0)", ErrMalformedCurve, c[0].Dose, c[0].Value)
	}
	for i := 1; i < len(c); i++ {
		if c[i].Dose <= c[i-1].Dose {
			return fmt.Errorf("%w: dose %g at index %d does not increase", ErrMalformedCurve, c[i].Dose, i)
		}
		if p == Risk && c[i].Value < c[i-1].Value {
			return fmt.Errorf("%w: risk drops from %g to %g at dose %g", ErrMalformedCurve, c[i-1].Value, c[i].Value, c[i].Dose)
		}
	}
	return nil
}

// Validate reports every problem in the reference tables at once.
func (r *Reference) Validate() error {
	if r == nil {
		return ErrInvalidReference
	}
	var errs []error
	for _, id := range r.CompoundIDs() {
		c := r.compounds[id]
		if id == "" {
			errs = append(errs, &ValidationError{Field: "compound.id", Value: id, Wrapped: ErrInvalidReference})
		}
		if c.HalfLifeHours < 0 {
			errs = append(errs, &ValidationError{Field: id + ".half_life_hours", Value: c.HalfLifeHours, Wrapped: ErrInvalidReference})
		}
		if err := ValidateCurve(c.BenefitCurve, Benefit); err != nil {
			errs = append(errs, &ValidationError{Field: id + ".benefit_curve", Value: len(c.BenefitCurve), Wrapped: err})
		}
		if err := ValidateCurve(c.RiskCurve, Risk); err != nil {
			errs = append(errs, &ValidationError{Field: id + ".risk_curve", Value: len(c.RiskCurve), Wrapped: err})
		}
	}
	for _, id := range r.PairIDs() {
		p := r.pairs[id]
		for _, cid := range p.Compounds {
			if _, ok := r.compounds[cid]; !ok {
				errs = append(errs, &ValidationError{Field: id + ".compounds", Value: cid, Wrapped: ErrUnknownCompound})
			}
		}
		for d := range p.Synergy {
			if pol, ok := DimensionPolarity(d); !ok || pol != Benefit {
				errs = append(errs, &ValidationError{Field: id + ".synergy", Value: d, Wrapped: ErrInvalidReference})
			}
		}
		for d := range p.Penalties {
			if pol, ok := DimensionPolarity(d); !ok || pol != Risk {
				errs = append(errs, &ValidationError{Field: id + ".penalties", Value: d, Wrapped: ErrInvalidReference})
			}
		}
	}
	return errors.Join(errs...)
}
