package systemic

import (
	"math"

	"github.com/san-kum/physiosim/internal/aromatase"
	"github.com/san-kum/physiosim/internal/binding"
	"github.com/san-kum/physiosim/internal/kinetics"
	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	naturalTestosterone  = 600.0
	naturalSuppressionMg = 400.0
	yieldToSerum         = 4.5
	// naturalFreeFraction applies when no exogenous testosterone is present.
	naturalFreeFraction = 0.2

	maxCreatinine = 5.0
	maxHematocrit = 65.0
	minHDL        = 5.0
)

type Options struct {
	Profile pkpd.UserProfile `yaml:"profile" json:"profile"`
	// Baseline holds the user's own labs; zero fields use population values.
	Baseline BaselineLabs `yaml:"baseline_labs" json:"baseline_labs"`
}

type Snapshot struct {
	Loads             []kinetics.Load        `json:"loads"`
	TotalSaturationMg float64                `json:"total_saturation_mg"`
	FreeSaturationMg  float64                `json:"free_saturation_mg"`
	Efficiency        float64                `json:"efficiency"`
	Receptor          binding.ReceptorResult `json:"receptor"`
	SHBG              binding.SHBGResult     `json:"shbg"`
	InitialEstradiol  float64                `json:"initial_estradiol"`
	Aromatase         aromatase.Result       `json:"aromatase"`
	Support           Shield                 `json:"support"`
	Load              SystemLoad             `json:"system_load"`
	Labs              Labs                   `json:"labs"`
	LabFlags          []LabFlag              `json:"lab_flags"`
	Gains             Gains                  `json:"gains"`
	CNS               CNSProfile             `json:"cns"`
}

// CalculateCycleMetrics produces the full safety snapshot of s.
func CalculateCycleMetrics(ref *pkpd.Reference, s pkpd.Stack, opts Options) Snapshot {
	profile := opts.Profile.Normalized()
	scale := profile.LeanMassScale()

	loads := kinetics.Normalize(ref, s, profile)
	snap := Snapshot{
		Loads:             loads,
		TotalSaturationMg: kinetics.TotalSaturation(loads),
		Efficiency:        1,
	}
	if len(loads) > 0 {
		snap.Efficiency = loads[0].Efficiency
	}

	snap.Receptor = binding.Receptor(ref, loads)
	first := aromatase.Estimate(ref, loads, nil, profile)
	snap.InitialEstradiol = first.Estradiol
	snap.SHBG = binding.SHBG(ref, loads, first.Estradiol, profile)
	snap.Aromatase = aromatase.Estimate(ref, loads, snap.SHBG.FreeFractions, profile)

	freeSat := make([]float64, len(loads))
	for i, l := range loads {
		freeSat[i] = l.SaturationMg * snap.SHBG.FreeFraction(l.Compound)
		if l.Class == pkpd.Injectable || l.Class == pkpd.Oral {
			snap.FreeSaturationMg += freeSat[i]
		}
	}

	snap.Support = CalculateOrganSupport(ref, loads)
	raw := accumulateLoad(ref, loads, freeSat, scale)
	hepatic := raw.hepatic * (1 - snap.Support.Hepatic)
	renal := raw.renal * (1 - snap.Support.Renal)

	snap.Labs = projectLabs(ref, loads, freeSat, scale, snap, raw.neuro, opts.Baseline.withDefaults())
	flags, penalty := CheckLabs(snap.Labs)
	snap.LabFlags = flags

	snap.Load = SystemLoad{
		Cardio:            scaleAxis(raw.cardio),
		Hepatic:           scaleAxis(hepatic),
		Renal:             scaleAxis(renal),
		Neuro:             scaleAxis(raw.neuro),
		Dominant:          dominantAxis(raw.cardio, hepatic, renal, raw.neuro),
		PenaltyMultiplier: penalty,
	}
	total := (raw.cardio + hepatic + renal + raw.neuro) / axisSaturation * 100 * penalty
	snap.Load.Total = math.Min(100, total)
	snap.Load.IsCritical = snap.Load.Hepatic > CriticalAxis || snap.Load.Renal > CriticalAxis

	gains, drive, drag := projectGains(ref, loads, freeSat, scale)
	snap.Gains = gains
	snap.CNS = cnsProfile(drive, drag, snap.Load.Neuro)
	return snap
}

func projectLabs(ref *pkpd.Reference, loads []kinetics.Load, freeSat []float64, scale float64, snap Snapshot, neuroRaw float64, base BaselineLabs) Labs {
	hepShield := 1 - snap.Support.Hepatic
	renShield := 1 - snap.Support.Renal
	d := DefaultBaselineLabs()

	l := Labs{
		HDL:        base.HDL,
		LDL:        base.LDL,
		ALT:        base.ALT,
		AST:        base.AST,
		Hematocrit: base.Hematocrit,
		Prolactin:  base.Prolactin,
		Creatinine: base.Creatinine,
	}
	l.Estradiol = pkpd.Clamp(snap.Aromatase.Estradiol+base.Estradiol-d.Estradiol, aromatase.MinEstradiol, aromatase.MaxEstradiol)
	l.SHBG = pkpd.Clamp(snap.SHBG.Level*base.SHBG/d.SHBG, binding.SHBGMin, binding.SHBGMax)

	var exogenous, yieldWeight, weightedFree float64
	for i, ld := range loads {
		c, ok := ref.Compound(ld.Compound)
		if !ok {
			continue
		}
		lr := loadRatio(freeSat[i], scale)
		lipid := lr * (1 + c.Toxicity.Lipid)
		if c.IsOral() {
			l.HDL -= lipid * 2.5
		} else {
			l.HDL -= lipid
		}
		l.LDL += lipid * 2.5

		surge := OralSurge(c, ld)
		l.ALT += (c.Toxicity.Hepatic*lr*18 + surge*2.2) * hepShield
		l.AST += (c.Toxicity.Hepatic*lr*15 + surge*1.8) * hepShield
		l.Creatinine += c.Toxicity.Renal * lr * 0.1 * renShield
		l.Hematocrit += c.Metabolic.Erythropoiesis * lr * 1.5
		l.Prolactin += freeSat[i] * c.Metabolic.Prolactin * 0.01

		if y := c.Metabolic.TestosteroneYield; y > 0 {
			exogenous += ld.SaturationMg * y * yieldToSerum
			yieldWeight += ld.SaturationMg * y
			weightedFree += ld.SaturationMg * y * snap.SHBG.FreeFraction(ld.Compound)
		}
	}
	l.HDL = math.Max(minHDL, l.HDL)
	l.Creatinine = math.Min(maxCreatinine, l.Creatinine)
	l.Hematocrit = math.Min(maxHematocrit, l.Hematocrit)

	l.TotalTestosterone = naturalTestosterone*math.Exp(-snap.TotalSaturationMg/naturalSuppressionMg) + exogenous
	l.FreeTestFraction = naturalFreeFraction
	if yieldWeight > 0 {
		l.FreeTestFraction = weightedFree / yieldWeight
	}
	l.FreeTestosterone = l.TotalTestosterone * l.FreeTestFraction
	l.NeuroRisk = math.Min(10, math.Round(scaleAxis(neuroRaw)/10))
	return l
}
