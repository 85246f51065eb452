package systemic

import (
	"math"

	"github.com/san-kum/physiosim/internal/kinetics"
	"github.com/san-kum/physiosim/internal/pkpd"
)

const maxGain = 10.0

// Gains are projected training outcomes on a 0-10 scale.
type Gains struct {
	Hypertrophy float64 `json:"hypertrophy"`
	Strength    float64 `json:"strength"`
	FatLoss     float64 `json:"fat_loss"`
	Fullness    float64 `json:"fullness"`
	Composite   float64 `json:"composite"`
}

type CNSState string

const (
	CNSWired    CNSState = "wired"
	CNSFatigued CNSState = "fatigued"
	CNSFlat     CNSState = "flat"
	CNSBalanced CNSState = "balanced"
)

type CNSProfile struct {
	Drive   float64  `json:"drive"`
	Fatigue float64  `json:"fatigue"`
	Net     float64  `json:"net"`
	State   CNSState `json:"state"`
}

// projectGains scales each benefit vector by the efficiency-damped free load.
func projectGains(ref *pkpd.Reference, loads []kinetics.Load, freeSat []float64, scale float64) (Gains, float64, float64) {
	var g Gains
	var drive, drag float64
	for i, l := range loads {
		c, ok := ref.Compound(l.Compound)
		if !ok {
			continue
		}
		rel := l.Efficiency * loadRatio(freeSat[i], scale)
		b := c.Benefits
		g.Hypertrophy += b.ContractileGrowth * rel * 1.5
		g.Strength += b.NeuralStrength * rel * 1.2
		g.FatLoss += b.Lipolysis * rel
		g.Fullness += b.Fullness * rel
		if b.CNSDrive >= 0 {
			drive += b.CNSDrive * rel
		} else {
			drag -= b.CNSDrive * rel
		}
	}
	g.Hypertrophy = pkpd.Clamp(g.Hypertrophy, 0, maxGain)
	g.Strength = pkpd.Clamp(g.Strength, 0, maxGain)
	g.FatLoss = pkpd.Clamp(g.FatLoss, 0, maxGain)
	g.Fullness = pkpd.Clamp(g.Fullness, 0, maxGain)
	g.Composite = math.Min(maxGain, 0.4*g.Hypertrophy+0.3*g.Strength+0.2*g.FatLoss+0.1*g.Fullness)
	return g, drive, drag
}

// cnsProfile weighs stimulant drive against neuro load and sedating compounds.
func cnsProfile(drive, drag, neuroScaled float64) CNSProfile {
	p := CNSProfile{
		Drive:   pkpd.Clamp(drive, 0, maxGain),
		Fatigue: pkpd.Clamp(neuroScaled/10+drag, 0, maxGain),
	}
	p.Net = p.Drive - p.Fatigue
	switch {
	case p.Drive < 1 && p.Fatigue < 1:
		p.State = CNSFlat
	case p.Drive >= 4 && p.Net >= 2:
		p.State = CNSWired
	case p.Net <= -2:
		p.State = CNSFatigued
	default:
		p.State = CNSBalanced
	}
	return p
}
