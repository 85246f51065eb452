package interaction

import (
	"math"
	"testing"

	"github.com/san-kum/physiosim/internal/pkpd"
)

func testReference() *pkpd.Reference {
	curve := pkpd.Curve{{}, {Dose: 500, Value: 2}, {Dose: 1000, Value: 3}}
	compounds := []pkpd.Compound{
		{ID: "a", Class: pkpd.Injectable, BenefitCurve: curve, RiskCurve: curve},
		{ID: "b", Class: pkpd.Injectable, BenefitCurve: curve, RiskCurve: curve},
	}
	pairs := []pkpd.PairRecord{{
		Compounds: [2]string{"a", "b"},
		Synergy:   map[pkpd.Dimension]float64{pkpd.DimAnabolic: 0.4},
		Penalties: map[pkpd.Dimension]float64{pkpd.DimBloat: -0.5, pkpd.DimNeuro: 0.2},
		Weights: map[pkpd.Dimension]map[string]float64{
			pkpd.DimNeuro: {"a": 0, "b": 0.5},
		},
		Hill:         pkpd.HillParams{EC50A: 300, EC50B: 300, N: 2},
		Evidence:     &pkpd.Evidence{Clinical: 1, Anecdote: 0},
		DefaultDoses: map[string]float64{"a": 300, "b": 300},
		DoseRanges:   map[string][2]float64{"a": {0, 1000}, "b": {0, 600}},
	}}
	return pkpd.NewReference(compounds, pairs, nil)
}

// neutralOptions uses a profile whose multipliers are all 1.
func neutralOptions() Options {
	opts := DefaultOptions()
	opts.Profile.Experience = ""
	opts.Profile.Age = 35
	return opts
}

func TestHill(t *testing.T) {
	tests := []struct {
		dose, ec50, n, expected float64
	}{
		{0, 300, 2, 0},
		{-5, 300, 2, 0},
		{300, 300, 2, 0.5},
		{600, 300, 1, 2.0 / 3.0},
	}
	for _, tt := range tests {
		if got := Hill(tt.dose, tt.ec50, tt.n); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Hill(%f,%f,%f): expected %f, got %f", tt.dose, tt.ec50, tt.n, tt.expected, got)
		}
	}
}

func TestEvidenceScalar(t *testing.T) {
	e := pkpd.Evidence{Clinical: 0.45, Anecdote: 0.55}
	if got := EvidenceScalar(e, 0); math.Abs(got-0.45) > 1e-12 {
		t.Errorf("expected clinical-only 0.45, got %f", got)
	}
	if got := EvidenceScalar(e, 1); math.Abs(got-0.55) > 1e-12 {
		t.Errorf("expected anecdote-only 0.55, got %f", got)
	}
	if got := EvidenceScalar(pkpd.Evidence{}, 0.5); got != 0 {
		t.Errorf("expected zero evidence to give 0, got %f", got)
	}
}

func TestEvaluateDimensionBenefit(t *testing.T) {
	ref := testReference()
	pair, _ := ref.Pair("a", "b")
	opts := neutralOptions()
	opts.EvidenceBlend = 0

	res, ok := EvaluateDimension(ref, pair, pkpd.DimAnabolic, map[string]float64{"a": 300, "b": 300}, opts)
	if !ok {
		t.Fatal("expected dimension to evaluate")
	}
	naive := 2 * (2 * 300.0 / 500.0)
	if math.Abs(res.Naive-naive) > 1e-9 {
		t.Errorf("expected naive %f, got %f", naive, res.Naive)
	}
	if math.Abs(res.DoseShape-0.25) > 1e-12 {
		t.Errorf("expected dose shape 0.25, got %f", res.DoseShape)
	}
	if math.Abs(res.Delta-0.1) > 1e-12 {
		t.Errorf("expected delta 0.1, got %f", res.Delta)
	}
	if math.Abs(res.Total-(naive+0.1)) > 1e-9 {
		t.Errorf("expected total %f, got %f", naive+0.1, res.Total)
	}
}

func TestRiskDeltaNeverCancels(t *testing.T) {
	ref := testReference()
	pair, _ := ref.Pair("a", "b")
	opts := DefaultOptions()

	res, _ := EvaluateDimension(ref, pair, pkpd.DimBloat, map[string]float64{"a": 300, "b": 300}, opts)
	if res.Delta >= 0 {
		t.Fatalf("expected a negative raw delta, got %f", res.Delta)
	}
	if res.Total < res.Naive {
		t.Errorf("risk total %f dropped below naive %f", res.Total, res.Naive)
	}
}

func TestSensitivityAndWeights(t *testing.T) {
	ref := testReference()
	pair, _ := ref.Pair("a", "b")
	doses := map[string]float64{"a": 300, "b": 300}

	opts := neutralOptions()
	base, _ := EvaluateDimension(ref, pair, pkpd.DimNeuro, doses, opts)
	opts.Sensitivities = pkpd.Sensitivities{pkpd.AxisNeuro: 2}
	scaled, _ := EvaluateDimension(ref, pair, pkpd.DimNeuro, doses, opts)

	if math.Abs(scaled.Delta-2*base.Delta) > 1e-12 {
		t.Errorf("expected neuro sensitivity to double delta, got %f vs %f", scaled.Delta, base.Delta)
	}
	if base.BaseA != 0 {
		t.Errorf("expected zero weight to null compound a, got %f", base.BaseA)
	}
	if math.Abs(base.BaseB-0.6) > 1e-9 {
		t.Errorf("expected half-weighted base b 0.6, got %f", base.BaseB)
	}
}

func TestTotalsClamped(t *testing.T) {
	ref := testReference()
	pair, _ := ref.Pair("a", "b")
	res, _ := EvaluateDimension(ref, pair, pkpd.DimAnabolic, map[string]float64{"a": 5000, "b": 5000}, DefaultOptions())
	if res.Total != MaxDimensionTotal {
		t.Errorf("expected clamp at %f, got %f", MaxDimensionTotal, res.Total)
	}
}

func TestUnknownInputs(t *testing.T) {
	ref := testReference()
	pair, _ := ref.Pair("a", "b")
	if _, ok := EvaluateDimension(ref, nil, pkpd.DimAnabolic, nil, DefaultOptions()); ok {
		t.Error("expected nil pair to be rejected")
	}
	if _, ok := EvaluateDimension(ref, pair, "mood", nil, DefaultOptions()); ok {
		t.Error("expected unknown dimension to be rejected")
	}
}
