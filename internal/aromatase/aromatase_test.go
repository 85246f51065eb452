package aromatase

import (
	"math"
	"testing"

	"github.com/san-kum/physiosim/internal/kinetics"
	"github.com/san-kum/physiosim/internal/pkpd"
)

func testReference() *pkpd.Reference {
	return pkpd.NewReference([]pkpd.Compound{
		{ID: "test", Class: pkpd.Injectable, Metabolic: pkpd.Metabolic{Aromatization: 1}},
		{ID: "dbol", Class: pkpd.Oral, Metabolic: pkpd.Metabolic{Aromatization: 2}, Flags: pkpd.Flags{MethylEstrogen: true}},
		{ID: "dry", Class: pkpd.Injectable},
		{ID: "ai", Class: pkpd.Ancillary, Metabolic: pkpd.Metabolic{AntiAromatase: 0.3}},
	}, nil, nil)
}

func TestNoLoadGivesNaturalBaseline(t *testing.T) {
	res := Estimate(testReference(), nil, nil, pkpd.DefaultProfile())
	if res.Estradiol != NaturalEstradiol {
		t.Errorf("expected %f, got %f", NaturalEstradiol, res.Estradiol)
	}
}

func TestMichaelisMenten(t *testing.T) {
	ref := testReference()
	loads := []kinetics.Load{{Compound: "test", SaturationMg: Km}}
	res := Estimate(ref, loads, nil, pkpd.DefaultProfile())

	if math.Abs(res.Rate-Vmax/2) > 1e-9 {
		t.Errorf("expected half-maximal rate %f at S=Km, got %f", Vmax/2, res.Rate)
	}
	expectedBase := EstradiolFloor + (NaturalEstradiol-EstradiolFloor)*math.Exp(-Km/400)
	if math.Abs(res.Baseline-expectedBase) > 1e-9 {
		t.Errorf("expected baseline %f, got %f", expectedBase, res.Baseline)
	}
}

func TestRateSaturates(t *testing.T) {
	ref := testReference()
	prev := 0.0
	for _, sat := range []float64{100, 1000, 10000, 100000} {
		res := Estimate(ref, []kinetics.Load{{Compound: "test", SaturationMg: sat}}, nil, pkpd.DefaultProfile())
		if res.Rate <= prev || res.Rate >= Vmax {
			t.Errorf("sat %f: rate %f must rise and stay under Vmax", sat, res.Rate)
		}
		prev = res.Rate
	}
}

func TestInhibitorLowersEstradiol(t *testing.T) {
	ref := testReference()
	base := []kinetics.Load{{Compound: "test", SaturationMg: 600}}
	withAI := append(base, kinetics.Load{Compound: "ai", SaturationMg: 3.5})

	a := Estimate(ref, base, nil, pkpd.DefaultProfile())
	b := Estimate(ref, withAI, nil, pkpd.DefaultProfile())
	if b.Estradiol >= a.Estradiol {
		t.Errorf("expected AI to lower E2, got %f vs %f", b.Estradiol, a.Estradiol)
	}
}

func TestEnzymeActivityAndFreeFraction(t *testing.T) {
	ref := testReference()
	loads := []kinetics.Load{{Compound: "test", SaturationMg: 600}}

	profile := pkpd.DefaultProfile()
	moderate := Estimate(ref, loads, nil, profile)
	profile.EnzymeActivity = pkpd.High
	high := Estimate(ref, loads, nil, profile)
	if high.Rate <= moderate.Rate {
		t.Errorf("expected high enzyme activity to raise the rate, got %f vs %f", high.Rate, moderate.Rate)
	}

	bound := Estimate(ref, loads, map[string]float64{"test": 0.5}, pkpd.DefaultProfile())
	if bound.Substrate != 300 {
		t.Errorf("expected free substrate 300, got %f", bound.Substrate)
	}
}

func TestMethylEstrogenMetabolite(t *testing.T) {
	ref := testReference()
	res := Estimate(ref, []kinetics.Load{{Compound: "dbol", SaturationMg: 100}}, nil, pkpd.DefaultProfile())
	if res.Metabolite != 5 {
		t.Errorf("expected metabolite 5, got %f", res.Metabolite)
	}
}

func TestEstradiolClamped(t *testing.T) {
	ref := testReference()
	res := Estimate(ref, []kinetics.Load{{Compound: "dbol", SaturationMg: 1e7}}, nil, pkpd.DefaultProfile())
	if res.Estradiol != MaxEstradiol {
		t.Errorf("expected clamp at %f, got %f", MaxEstradiol, res.Estradiol)
	}

	dry := Estimate(ref, []kinetics.Load{{Compound: "dry", SaturationMg: 1e6}}, nil, pkpd.DefaultProfile())
	if dry.Estradiol < MinEstradiol {
		t.Errorf("expected floor at %f, got %f", MinEstradiol, dry.Estradiol)
	}
}
