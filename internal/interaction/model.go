package interaction

import (
	"math"

	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/response"
)

// MaxDimensionTotal bounds every per-dimension total.
const MaxDimensionTotal = 6.0

var sensitivityAxis = map[pkpd.Dimension]string{
	pkpd.DimBloat:      pkpd.AxisWater,
	pkpd.DimEstrogenic: pkpd.AxisEstrogen,
	pkpd.DimBP:         pkpd.AxisCardio,
	pkpd.DimHematocrit: pkpd.AxisCardio,
	pkpd.DimHepatic:    pkpd.AxisCardio,
	pkpd.DimNeuro:      pkpd.AxisNeuro,
}

// SensitivityAxis names the sensitivity axis a dimension is scaled by, or ""
// when none applies.
func SensitivityAxis(d pkpd.Dimension) string { return sensitivityAxis[d] }

// Options carry the per-call knobs shared by every pair evaluation.
type Options struct {
	Profile       pkpd.UserProfile
	Sensitivities pkpd.Sensitivities
	EvidenceBlend float64
}

func DefaultOptions() Options {
	return Options{
		Profile:       pkpd.DefaultProfile(),
		Sensitivities: pkpd.DefaultSensitivities(),
		EvidenceBlend: pkpd.DefaultEvidenceBlend,
	}
}

type DimensionResult struct {
	Dimension pkpd.Dimension `json:"dimension"`
	Polarity  pkpd.Polarity  `json:"polarity"`
	BaseA     float64        `json:"base_a"`
	BaseB     float64        `json:"base_b"`
	Naive     float64        `json:"naive"`
	Delta     float64        `json:"delta"`
	Total     float64        `json:"total"`
	DoseShape float64        `json:"dose_shape"`
}

// EvidenceScalar blends clinical against anecdotal weight. blend 0 trusts
// clinical data only, 1 anecdote only.
func EvidenceScalar(e pkpd.Evidence, blend float64) float64 {
	total := e.Clinical + e.Anecdote
	if total == 0 {
		total = 1
	}
	clinical := pkpd.Clamp(1-blend, 0, 1)
	anecdote := pkpd.Clamp(blend, 0, 1)
	return (e.Clinical*clinical + e.Anecdote*anecdote) / total
}

// EvaluateDimension computes the naive sum, the Hill-shaped interaction delta
// and the clamped total for one pair on one dimension. doses maps compound id
// to dose in curve units; missing compounds count as 0. It returns false when
// the pair or dimension is unknown.
func EvaluateDimension(ref *pkpd.Reference, pair *pkpd.PairRecord, dim pkpd.Dimension, doses map[string]float64, opts Options) (DimensionResult, bool) {
	if pair == nil {
		return DimensionResult{}, false
	}
	pol, ok := pkpd.DimensionPolarity(dim)
	if !ok {
		return DimensionResult{}, false
	}

	a, b := pair.Compounds[0], pair.Compounds[1]
	doseA, doseB := math.Max(doses[a], 0), math.Max(doses[b], 0)

	res := DimensionResult{Dimension: dim, Polarity: pol}
	res.BaseA = baseResponse(ref, a, pol, doseA, opts.Profile) * pair.Weight(dim, a)
	res.BaseB = baseResponse(ref, b, pol, doseB, opts.Profile) * pair.Weight(dim, b)
	res.Naive = res.BaseA + res.BaseB

	coeff := pair.Synergy[dim]
	if pol == pkpd.Risk {
		coeff = pair.Penalties[dim]
	}

	h := pair.HillOrDefault()
	res.DoseShape = Hill(doseA, h.EC50A, h.N) * Hill(doseB, h.EC50B, h.N)

	sensitivity := 1.0
	if axis := SensitivityAxis(dim); axis != "" {
		sensitivity = opts.Sensitivities.Scalar(axis)
	}

	res.Delta = coeff * res.DoseShape * sensitivity * EvidenceScalar(pair.EvidenceOrDefault(), opts.EvidenceBlend)

	if pol == pkpd.Risk {
		res.Total = pkpd.Clamp(res.Naive+math.Abs(res.Delta), 0, MaxDimensionTotal)
	} else {
		res.Total = pkpd.Clamp(res.Naive+res.Delta, 0, MaxDimensionTotal)
	}
	return res, true
}

func baseResponse(ref *pkpd.Reference, id string, pol pkpd.Polarity, dose float64, profile pkpd.UserProfile) float64 {
	c, ok := ref.Compound(id)
	if !ok {
		return 0
	}
	return response.Evaluate(c, pol, dose, profile).Value
}
