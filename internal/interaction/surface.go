package interaction

import (
	"math"

	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	DefaultCurveSamples = 20
	DefaultSurfaceSteps = 12
)

// Mode selects which half of a pair's interaction a heatmap shows.
type Mode string

const (
	ModeBenefit  Mode = "benefit"
	ModeRisk     Mode = "risk"
	ModeCombined Mode = "combined"
)

// Heatmap sums |delta| over the pair's defined dimensions at its default doses.
func Heatmap(ref *pkpd.Reference, pair *pkpd.PairRecord, mode Mode, opts Options) float64 {
	if pair == nil {
		return 0
	}
	var benefit, risk float64
	for _, d := range pair.Dimensions() {
		res, ok := EvaluateDimension(ref, pair, d, pair.DefaultDoses, opts)
		if !ok {
			continue
		}
		if res.Polarity == pkpd.Risk {
			risk += math.Abs(res.Delta)
		} else {
			benefit += math.Abs(res.Delta)
		}
	}
	switch mode {
	case ModeBenefit:
		return benefit
	case ModeRisk:
		return risk
	default:
		return benefit + risk
	}
}

type SeriesPoint struct {
	Dose        float64 `json:"dose"`
	BasePrimary float64 `json:"base_primary"`
	Naive       float64 `json:"naive"`
	Total       float64 `json:"total"`
}

// PrimaryCurveSeries sweeps the primary compound across its dose range while
// the partner stays at its dose in doses.
func PrimaryCurveSeries(ref *pkpd.Reference, pair *pkpd.PairRecord, dim pkpd.Dimension, primary string, doses map[string]float64, samples int, opts Options) []SeriesPoint {
	if pair == nil || (primary != pair.Compounds[0] && primary != pair.Compounds[1]) {
		return nil
	}
	if samples <= 0 {
		samples = DefaultCurveSamples
	}
	lo, hi := pair.DoseRange(primary)
	step := (hi - lo) / float64(samples)

	out := make([]SeriesPoint, 0, samples+1)
	for i := 0; i <= samples; i++ {
		dose := lo + float64(i)*step
		point := make(map[string]float64, len(doses)+1)
		for k, v := range doses {
			point[k] = v
		}
		point[primary] = dose

		res, ok := EvaluateDimension(ref, pair, dim, point, opts)
		if !ok {
			return nil
		}
		base := res.BaseA
		if primary == pair.Compounds[1] {
			base = res.BaseB
		}
		out = append(out, SeriesPoint{Dose: math.Round(dose), BasePrimary: base, Naive: res.Naive, Total: res.Total})
	}
	return out
}

type SurfaceCell struct {
	DoseA   float64 `json:"dose_a"`
	DoseB   float64 `json:"dose_b"`
	Benefit float64 `json:"benefit"`
	Risk    float64 `json:"risk"`
	Score   float64 `json:"score"`
}

// Surface evaluates a steps+1 by steps+1 dose grid over both compounds' dose
// ranges. Each cell sums dimension totals into benefit and risk.
func Surface(ref *pkpd.Reference, pair *pkpd.PairRecord, steps int, opts Options) []SurfaceCell {
	if pair == nil {
		return nil
	}
	if steps <= 0 {
		steps = DefaultSurfaceSteps
	}
	a, b := pair.Compounds[0], pair.Compounds[1]
	loA, hiA := pair.DoseRange(a)
	loB, hiB := pair.DoseRange(b)
	stepA := (hiA - loA) / float64(steps)
	stepB := (hiB - loB) / float64(steps)
	dims := pair.Dimensions()

	cells := make([]SurfaceCell, 0, (steps+1)*(steps+1))
	for i := 0; i <= steps; i++ {
		for j := 0; j <= steps; j++ {
			cell := SurfaceCell{
				DoseA: math.Round(loA + float64(i)*stepA),
				DoseB: math.Round(loB + float64(j)*stepB),
			}
			doses := map[string]float64{a: cell.DoseA, b: cell.DoseB}
			for _, d := range dims {
				res, ok := EvaluateDimension(ref, pair, d, doses, opts)
				if !ok {
					continue
				}
				if res.Polarity == pkpd.Risk {
					cell.Risk += res.Total
				} else {
					cell.Benefit += res.Total
				}
			}
			cell.Score = cell.Benefit - cell.Risk
			cells = append(cells, cell)
		}
	}
	return cells
}
