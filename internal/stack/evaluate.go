package stack

import (
	"math"
	"slices"
	"sort"

	"github.com/san-kum/physiosim/internal/interaction"
	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/response"
)

const (
	avalancheThreshold = 1200.0
	avalancheScale     = 1500.0
	avalancheExponent  = 1.5
)

type CompoundResult struct {
	Compound    string        `json:"compound"`
	Dose        float64       `json:"dose"`
	WeeklyMg    float64       `json:"weekly_mg"`
	Benefit     float64       `json:"benefit"`
	BenefitCI   float64       `json:"benefit_ci"`
	Risk        float64       `json:"risk"`
	RiskCI      float64       `json:"risk_ci"`
	BenefitMeta response.Meta `json:"benefit_meta"`
	RiskMeta    response.Meta `json:"risk_meta"`

	// RiskMultiplier is the protocol factor already folded into Risk.
	RiskMultiplier float64 `json:"risk_multiplier,omitempty"`
}

type PairResult struct {
	Pair       string                        `json:"pair"`
	Compounds  [2]string                     `json:"compounds"`
	Dimensions []interaction.DimensionResult `json:"dimensions"`
}

type Result struct {
	Compounds []CompoundResult `json:"compounds"`
	Pairs     []PairResult     `json:"pairs"`

	// DimensionTotals sums pair deltas per dimension across every pair. The
	// [0,6] bound holds for each pair's DimensionResult.Total, not for these
	// aggregates.
	DimensionTotals map[pkpd.Dimension]float64 `json:"dimension_totals"`

	BaseBenefit     float64 `json:"base_benefit"`
	BaseRisk        float64 `json:"base_risk"`
	TotalBenefit    float64 `json:"total_benefit"`
	TotalRisk       float64 `json:"total_risk"`
	WeightedBenefit float64 `json:"weighted_benefit"`
	WeightedRisk    float64 `json:"weighted_risk"`
	NetScore        float64 `json:"net_score"`
	Ratio           float64 `json:"ratio"`

	WeeklyLoadMg        float64        `json:"weekly_load_mg"`
	AvalancheMultiplier float64        `json:"avalanche_multiplier"`
	Warnings            []pkpd.Warning `json:"warnings"`
	Penalties           *Penalties     `json:"penalties,omitempty"`
}

type resolved struct {
	compound *pkpd.Compound
	dose     float64
	weekly   float64
}

// Evaluate scores a stack for one profile and goal preset. An empty stack
// yields an all-zero result. Unknown compounds contribute nothing.
func Evaluate(ref *pkpd.Reference, s pkpd.Stack, profile pkpd.UserProfile, goalKey string, sens pkpd.Sensitivities, evidenceBlend float64) Result {
	return evaluate(ref, s, profile, goalKey, sens, evidenceBlend, nil)
}

// EvaluateProtocol is Evaluate with the scheduling, protocol and cycle
// duration penalties of proto applied to the risk side.
func EvaluateProtocol(ref *pkpd.Reference, s pkpd.Stack, profile pkpd.UserProfile, goalKey string, sens pkpd.Sensitivities, evidenceBlend float64, proto Protocol) Result {
	return evaluate(ref, s, profile, goalKey, sens, evidenceBlend, &proto)
}

func evaluate(ref *pkpd.Reference, s pkpd.Stack, profile pkpd.UserProfile, goalKey string, sens pkpd.Sensitivities, evidenceBlend float64, proto *Protocol) Result {
	res := Result{
		DimensionTotals:     make(map[pkpd.Dimension]float64),
		AvalancheMultiplier: 1,
	}
	profile = profile.Normalized()
	entries, unknown := resolve(ref, s)
	if proto != nil && len(entries) > 0 {
		p := computePenalties(ref, s, entries, *proto)
		res.Penalties = &p
	}

	opts := interaction.Options{Profile: profile, Sensitivities: sens, EvidenceBlend: evidenceBlend}
	doses := make(map[string]float64, len(entries))

	for _, e := range entries {
		c := e.compound
		b := response.Evaluate(c, pkpd.Benefit, e.dose, profile)
		r := response.Evaluate(c, pkpd.Risk, e.dose, profile)
		var mult float64
		if res.Penalties != nil {
			mult = res.Penalties.RiskMultiplier(c)
			r.Value *= mult
		}
		res.Compounds = append(res.Compounds, CompoundResult{
			Compound:    c.ID,
			Dose:        e.dose,
			WeeklyMg:    e.weekly,
			Benefit:     b.Value,
			BenefitCI:   b.CI,
			Risk:        r.Value,
			RiskCI:      r.CI,
			BenefitMeta: b.Meta,
			RiskMeta:    r.Meta,

			RiskMultiplier: mult,
		})
		res.BaseBenefit += b.Value
		res.BaseRisk += r.Value
		doses[c.ID] = e.dose
		if c.Class == pkpd.Injectable || c.Class == pkpd.Oral {
			res.WeeklyLoadMg += e.weekly
		}
	}

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			pair, ok := ref.Pair(entries[i].compound.ID, entries[j].compound.ID)
			if !ok {
				continue
			}
			pr := PairResult{Pair: pair.ID, Compounds: pair.Compounds}
			for _, d := range pair.Dimensions() {
				dr, ok := interaction.EvaluateDimension(ref, pair, d, doses, opts)
				if !ok {
					continue
				}
				pr.Dimensions = append(pr.Dimensions, dr)
				if dr.Polarity == pkpd.Risk {
					res.DimensionTotals[d] += math.Abs(dr.Delta)
				} else {
					res.DimensionTotals[d] += dr.Delta
				}
			}
			res.Pairs = append(res.Pairs, pr)
		}
	}

	limit := avalancheThreshold * profile.LeanMassScale()
	if res.WeeklyLoadMg > limit {
		res.AvalancheMultiplier = 1 + math.Pow((res.WeeklyLoadMg-limit)/avalancheScale, avalancheExponent)
	}

	goal, hasGoal := ref.Goal(goalKey)
	benefitBase, riskBase := 1.0, 1.0
	if hasGoal {
		benefitBase = baseFactor(goal.Benefit)
		riskBase = baseFactor(goal.Risk)
	}

	var synergyBenefit, synergyRisk, weightedSynergyBenefit, weightedSynergyRisk float64
	for _, d := range pkpd.Dimensions() {
		total, ok := res.DimensionTotals[d]
		if !ok {
			continue
		}
		pol, _ := pkpd.DimensionPolarity(d)
		w := 1.0
		if pol == pkpd.Risk {
			if hasGoal {
				w = goal.Risk[d]
			}
			synergyRisk += total
			weightedSynergyRisk += total * w
		} else {
			if hasGoal {
				w = goal.Benefit[d]
			}
			synergyBenefit += total
			weightedSynergyBenefit += total * w
		}
	}

	res.TotalBenefit = res.BaseBenefit + synergyBenefit
	res.TotalRisk = (res.BaseRisk + synergyRisk) * res.AvalancheMultiplier
	res.WeightedBenefit = res.BaseBenefit*benefitBase + weightedSynergyBenefit
	res.WeightedRisk = (res.BaseRisk*riskBase + weightedSynergyRisk) * res.AvalancheMultiplier
	if res.Penalties != nil {
		res.TotalRisk = res.Penalties.adjust(res.TotalRisk)
		res.WeightedRisk = res.Penalties.adjust(res.WeightedRisk)
	}
	res.NetScore = res.WeightedBenefit - res.WeightedRisk
	if res.TotalRisk > 0 {
		res.Ratio = res.TotalBenefit / res.TotalRisk
	} else {
		res.Ratio = res.TotalBenefit
	}

	res.Warnings = warnings(entries, unknown, profile)
	return res
}

// resolve merges duplicate entries and drops unknown or non-positive ones.
// The result is sorted by compound id.
func resolve(ref *pkpd.Reference, s pkpd.Stack) ([]resolved, []string) {
	byID := make(map[string]*resolved, len(s))
	var unknown []string
	for _, e := range s {
		c, ok := ref.Compound(e.Compound)
		if !ok {
			if !slices.Contains(unknown, e.Compound) {
				unknown = append(unknown, e.Compound)
			}
			continue
		}
		dose := pkpd.CurveDose(c, e)
		if dose <= 0 {
			continue
		}
		r, ok := byID[c.ID]
		if !ok {
			r = &resolved{compound: c}
			byID[c.ID] = r
		}
		r.dose += dose
		r.weekly += e.Dose * c.DosesPerWeek(e.Frequency)
	}

	out := make([]resolved, 0, len(byID))
	for _, id := range s.CompoundIDs() {
		if r, ok := byID[id]; ok {
			out = append(out, *r)
		}
	}
	sort.Strings(unknown)
	return out, unknown
}

// baseFactor sums the preset weights in key order so the float result is
// reproducible.
func baseFactor(weights map[pkpd.Dimension]float64) float64 {
	keys := make([]string, 0, len(weights))
	for d := range weights {
		keys = append(keys, string(d))
	}
	sort.Strings(keys)
	var sum float64
	for _, k := range keys {
		sum += weights[pkpd.Dimension(k)]
	}
	if sum > 0 {
		return sum
	}
	return 1
}
