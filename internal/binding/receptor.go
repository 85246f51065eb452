package binding

import (
	"github.com/san-kum/physiosim/internal/kinetics"
	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	// ReferenceKi is the Ki of the reference androgen, in nM.
	ReferenceKi = 0.9
	// OccupancyScaleMg converts saturation mg into binding-term units.
	OccupancyScaleMg = 1000.0
)

// CompoundKi returns the explicit Ki, or one inferred from the relative
// receptor affinity. ok is false for compounds that do not bind.
func CompoundKi(c *pkpd.Compound) (float64, bool) {
	if c == nil {
		return 0, false
	}
	if c.Ki > 0 {
		return c.Ki, true
	}
	if a := c.Pathways.ReceptorAffinity; a > 0 {
		return ReferenceKi / a, true
	}
	return 0, false
}

type Occupancy struct {
	Compound     string  `json:"compound"`
	SaturationMg float64 `json:"saturation_mg"`
	Ki           float64 `json:"ki"`
	BindingTerm  float64 `json:"binding_term"`
	Fraction     float64 `json:"fraction"`
}

type ReceptorResult struct {
	Entries      []Occupancy `json:"entries"`
	Occupied     float64     `json:"occupied"`
	FreeFraction float64     `json:"free_fraction"`
}

// Receptor computes occupancy_i = b_i/(1+sum b) for every binding compound
// with positive saturation. The fractions always sum below 1.
func Receptor(ref *pkpd.Reference, loads []kinetics.Load) ReceptorResult {
	res := ReceptorResult{FreeFraction: 1}

	for _, id := range compoundOrder(loads) {
		sat := saturationOf(loads, id)
		if sat <= 0 {
			continue
		}
		c, _ := ref.Compound(id)
		ki, ok := CompoundKi(c)
		if !ok {
			continue
		}
		res.Entries = append(res.Entries, Occupancy{
			Compound:     id,
			SaturationMg: sat,
			Ki:           ki,
			BindingTerm:  (sat / OccupancyScaleMg) / ki,
		})
	}

	var sum float64
	for _, e := range res.Entries {
		sum += e.BindingTerm
	}
	for i := range res.Entries {
		res.Entries[i].Fraction = res.Entries[i].BindingTerm / (1 + sum)
		res.Occupied += res.Entries[i].Fraction
	}
	res.FreeFraction = 1 - res.Occupied
	return res
}

// compoundOrder lists the distinct compound ids of loads in first-seen order.
// Loads from kinetics.Normalize are already sorted.
func compoundOrder(loads []kinetics.Load) []string {
	var ids []string
	seen := make(map[string]bool, len(loads))
	for _, l := range loads {
		if !seen[l.Compound] {
			seen[l.Compound] = true
			ids = append(ids, l.Compound)
		}
	}
	return ids
}

func saturationOf(loads []kinetics.Load, id string) float64 {
	var sat float64
	for _, l := range loads {
		if l.Compound == id {
			sat += l.SaturationMg
		}
	}
	return sat
}
