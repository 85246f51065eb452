package pkpd

import "sort"

// Dimension is a named physiological axis a pair interaction acts on.
type Dimension string

const (
	DimBase        Dimension = "base"
	DimAnabolic    Dimension = "anabolic"
	DimVascularity Dimension = "vascularity"
	DimStrength    Dimension = "strength"
	DimJoint       Dimension = "joint"
	DimBP          Dimension = "bp"
	DimHematocrit  Dimension = "hematocrit"
	DimBloat       Dimension = "bloat"
	DimNeuro       Dimension = "neuro"
	DimEstrogenic  Dimension = "estrogenic"
	DimHepatic     Dimension = "hepatic"
)

var dimensionOrder = []Dimension{
	DimAnabolic, DimVascularity, DimStrength, DimJoint,
	DimBP, DimHematocrit, DimBloat, DimNeuro, DimEstrogenic, DimHepatic,
}

// Dimensions lists every interaction dimension, benefit axes first.
func Dimensions() []Dimension {
	out := make([]Dimension, len(dimensionOrder))
	copy(out, dimensionOrder)
	return out
}

// DimensionPolarity reports whether d is a benefit or risk axis.
func DimensionPolarity(d Dimension) (Polarity, bool) {
	switch d {
	case DimAnabolic, DimVascularity, DimStrength, DimJoint:
		return Benefit, true
	case DimBP, DimHematocrit, DimBloat, DimNeuro, DimEstrogenic, DimHepatic:
		return Risk, true
	}
	return "", false
}

// Sensitivities maps a sensitivity axis (estrogen, water, cardio, neuro) to
// a scalar. Missing axes count as 1.
type Sensitivities map[string]float64

const (
	AxisEstrogen = "estrogen"
	AxisWater    = "water"
	AxisCardio   = "cardio"
	AxisNeuro    = "neuro"
)

func DefaultSensitivities() Sensitivities {
	return Sensitivities{AxisEstrogen: 1, AxisWater: 1, AxisCardio: 1, AxisNeuro: 1}
}

func (s Sensitivities) Scalar(axis string) float64 {
	if v, ok := s[axis]; ok && v >= 0 {
		return v
	}
	return 1
}

type HillParams struct {
	EC50A float64 `yaml:"ec50_a" json:"ec50_a"`
	EC50B float64 `yaml:"ec50_b" json:"ec50_b"`
	N     float64 `yaml:"n" json:"n"`
}

// Evidence weighs clinical against anecdotal support for a pair record.
type Evidence struct {
	Clinical float64 `yaml:"clinical" json:"clinical"`
	Anecdote float64 `yaml:"anecdote" json:"anecdote"`
}

const (
	DefaultEC50           = 300.0
	DefaultHillN          = 2.0
	DefaultEvidenceWeight = 0.5
	DefaultEvidenceBlend  = 0.4
)

// PairRecord is the interaction record for two compounds.
type PairRecord struct {
	ID           string                          `yaml:"id" json:"id"`
	Compounds    [2]string                       `yaml:"compounds" json:"compounds"`
	Synergy      map[Dimension]float64           `yaml:"synergy,omitempty" json:"synergy,omitempty"`
	Penalties    map[Dimension]float64           `yaml:"penalties,omitempty" json:"penalties,omitempty"`
	Weights      map[Dimension]map[string]float64 `yaml:"weights,omitempty" json:"weights,omitempty"`
	Hill         HillParams                      `yaml:"hill" json:"hill"`
	Evidence     *Evidence                       `yaml:"evidence,omitempty" json:"evidence,omitempty"`
	DefaultDoses map[string]float64              `yaml:"default_doses,omitempty" json:"default_doses,omitempty"`
	DoseRanges   map[string][2]float64           `yaml:"dose_ranges,omitempty" json:"dose_ranges,omitempty"`
}

// Dimensions returns every dimension the record defines a coefficient for,
// in the fixed dimension order.
func (p *PairRecord) Dimensions() []Dimension {
	out := make([]Dimension, 0, len(p.Synergy)+len(p.Penalties))
	for _, d := range dimensionOrder {
		_, s := p.Synergy[d]
		_, r := p.Penalties[d]
		if s || r {
			out = append(out, d)
		}
	}
	return out
}

// Weight is the pair-specific weight of one compound on one dimension.
func (p *PairRecord) Weight(d Dimension, compound string) float64 {
	if w, ok := p.Weights[d][compound]; ok {
		return w
	}
	return 1
}

// HillOrDefault returns the record's dose-shape parameters with defaults filled in.
func (p *PairRecord) HillOrDefault() HillParams {
	h := p.Hill
	if h.EC50A <= 0 {
		h.EC50A = DefaultEC50
	}
	if h.EC50B <= 0 {
		h.EC50B = DefaultEC50
	}
	if h.N <= 0 {
		h.N = DefaultHillN
	}
	return h
}

func (p *PairRecord) EvidenceOrDefault() Evidence {
	if p.Evidence == nil {
		return Evidence{Clinical: DefaultEvidenceWeight, Anecdote: DefaultEvidenceWeight}
	}
	return *p.Evidence
}

// DoseRange returns the UI dose range for a compound, defaulting to [0,1000].
func (p *PairRecord) DoseRange(compound string) (float64, float64) {
	if r, ok := p.DoseRanges[compound]; ok && r[1] > r[0] {
		return r[0], r[1]
	}
	return 0, 1000
}

type GoalPreset struct {
	Label   string                `yaml:"label" json:"label"`
	Benefit map[Dimension]float64 `yaml:"benefit" json:"benefit"`
	Risk    map[Dimension]float64 `yaml:"risk" json:"risk"`
}

// Reference bundles the static tables every entry point receives.
type Reference struct {
	compounds map[string]*Compound
	pairs     map[string]*PairRecord
	goals     map[string]GoalPreset
}

// NewReference copies the given tables into an immutable bundle. Pair records
// without an id are keyed by their compound ids.
func NewReference(compounds []Compound, pairs []PairRecord, goals map[string]GoalPreset) *Reference {
	r := &Reference{
		compounds: make(map[string]*Compound, len(compounds)),
		pairs:     make(map[string]*PairRecord, len(pairs)),
		goals:     make(map[string]GoalPreset, len(goals)),
	}
	for i := range compounds {
		c := compounds[i]
		r.compounds[c.ID] = &c
	}
	for i := range pairs {
		p := pairs[i]
		if p.ID == "" {
			p.ID = PairKey(p.Compounds[0], p.Compounds[1])
		}
		r.pairs[p.ID] = &p
	}
	for k, g := range goals {
		r.goals[k] = g
	}
	return r
}

func PairKey(a, b string) string { return a + "_" + b }

func (r *Reference) Compound(id string) (*Compound, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.compounds[id]
	return c, ok
}

// Pair looks a record up in either order.
func (r *Reference) Pair(a, b string) (*PairRecord, bool) {
	if r == nil || a == b {
		return nil, false
	}
	if p, ok := r.pairs[PairKey(a, b)]; ok {
		return p, true
	}
	p, ok := r.pairs[PairKey(b, a)]
	return p, ok
}

func (r *Reference) PairByID(id string) (*PairRecord, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.pairs[id]
	return p, ok
}

func (r *Reference) Goal(key string) (GoalPreset, bool) {
	if r == nil {
		return GoalPreset{}, false
	}
	g, ok := r.goals[key]
	return g, ok
}

func (r *Reference) CompoundIDs() []string {
	if r == nil {
		return nil
	}
	return sortedKeys(r.compounds)
}

func (r *Reference) PairIDs() []string {
	if r == nil {
		return nil
	}
	return sortedKeys(r.pairs)
}

func (r *Reference) GoalKeys() []string {
	if r == nil {
		return nil
	}
	return sortedKeys(r.goals)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
