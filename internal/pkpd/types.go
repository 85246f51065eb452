package pkpd

import "sort"

type Polarity string

const (
	Benefit Polarity = "benefit"
	Risk    Polarity = "risk"
)

type AdminClass string

const (
	Injectable AdminClass = "injectable"
	Oral       AdminClass = "oral"
	Support    AdminClass = "support"
	Ancillary  AdminClass = "ancillary"
)

// Archetype is the kind of training signal a compound amplifies.
type Archetype string

const (
	ArchetypeStrength    Archetype = "strength"
	ArchetypeHypertrophy Archetype = "hypertrophy"
	ArchetypeEndurance   Archetype = "endurance"
	ArchetypeHybrid      Archetype = "hybrid"
)

type CurvePoint struct {
	Dose  float64 `yaml:"dose" json:"dose"`
	Value float64 `yaml:"value" json:"value"`
	CI    float64 `yaml:"ci,omitempty" json:"ci,omitempty"`
	Tier  string  `yaml:"tier,omitempty" json:"tier,omitempty"`
}

// Curve is an ordered list of control points with strictly increasing dose.
type Curve []CurvePoint

// Cap returns the dose of the last control point, or 0 for an empty curve.
func (c Curve) Cap() float64 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1].Dose
}

// PlateauDose uses the penultimate point so the asymptote does not count.
func (c Curve) PlateauDose() float64 {
	switch len(c) {
	case 0:
		return 0
	case 1:
		return c[0].Dose
	default:
		return c[len(c)-2].Dose
	}
}

type Ester struct {
	Weight        float64 `yaml:"weight" json:"weight"`
	HalfLifeHours float64 `yaml:"half_life_hours" json:"half_life_hours"`
	// Blend marks a mix of esters whose levels swing unless pinned often.
	Blend bool `yaml:"blend,omitempty" json:"blend,omitempty"`
}

// Toxicity holds per-organ toxicity scores on a 0-10 scale.
type Toxicity struct {
	Hepatic    float64 `yaml:"hepatic,omitempty" json:"hepatic,omitempty"`
	Renal      float64 `yaml:"renal,omitempty" json:"renal,omitempty"`
	Cardio     float64 `yaml:"cardio,omitempty" json:"cardio,omitempty"`
	Lipid      float64 `yaml:"lipid,omitempty" json:"lipid,omitempty"`
	Neuro      float64 `yaml:"neuro,omitempty" json:"neuro,omitempty"`
	Androgenic float64 `yaml:"androgenic,omitempty" json:"androgenic,omitempty"`
}

type Metabolic struct {
	Aromatization  float64 `yaml:"aromatization,omitempty" json:"aromatization,omitempty"`
	DHTConversion  float64 `yaml:"dht_conversion,omitempty" json:"dht_conversion,omitempty"`
	Diuretic       float64 `yaml:"diuretic,omitempty" json:"diuretic,omitempty"`
	Lipolysis      float64 `yaml:"lipolysis,omitempty" json:"lipolysis,omitempty"`
	Erythropoiesis float64 `yaml:"erythropoiesis,omitempty" json:"erythropoiesis,omitempty"`
	Prolactin      float64 `yaml:"prolactin,omitempty" json:"prolactin,omitempty"`
	// AntiAromatase is the inhibition strength per saturation mg.
	AntiAromatase float64 `yaml:"anti_aromatase,omitempty" json:"anti_aromatase,omitempty"`
	// TestosteroneYield converts saturation mg into serum testosterone.
	TestosteroneYield float64 `yaml:"testosterone_yield,omitempty" json:"testosterone_yield,omitempty"`
}

type Benefits struct {
	ContractileGrowth float64 `yaml:"contractile_growth,omitempty" json:"contractile_growth,omitempty"`
	NeuralStrength    float64 `yaml:"neural_strength,omitempty" json:"neural_strength,omitempty"`
	JointSupport      float64 `yaml:"joint_support,omitempty" json:"joint_support,omitempty"`
	Lipolysis         float64 `yaml:"lipolysis,omitempty" json:"lipolysis,omitempty"`
	Fullness          float64 `yaml:"fullness,omitempty" json:"fullness,omitempty"`
	CNSDrive          float64 `yaml:"cns_drive,omitempty" json:"cns_drive,omitempty"`
}

type Pathways struct {
	// ReceptorAffinity is relative to the reference androgen (1.0 = equal).
	ReceptorAffinity float64 `yaml:"receptor_affinity,omitempty" json:"receptor_affinity,omitempty"`
	// SHBGBinding is the share of a compound's mass that can bind SHBG (0-1).
	SHBGBinding float64 `yaml:"shbg_binding,omitempty" json:"shbg_binding,omitempty"`
	// SHBGSuppression scales how hard the compound pushes SHBG down.
	SHBGSuppression float64 `yaml:"shbg_suppression,omitempty" json:"shbg_suppression,omitempty"`
}

type Flags struct {
	Neurotoxic      bool `yaml:"neurotoxic,omitempty" json:"neurotoxic,omitempty"`
	AntiCatabolic   bool `yaml:"anti_catabolic,omitempty" json:"anti_catabolic,omitempty"`
	CardioImpairing bool `yaml:"cardio_impairing,omitempty" json:"cardio_impairing,omitempty"`
	RenalToxic      bool `yaml:"renal_toxic,omitempty" json:"renal_toxic,omitempty"`
	HeavyBP         bool `yaml:"heavy_bp,omitempty" json:"heavy_bp,omitempty"`
	Suppressive     bool `yaml:"suppressive,omitempty" json:"suppressive,omitempty"`
	MethylEstrogen  bool `yaml:"methyl_estrogen,omitempty" json:"methyl_estrogen,omitempty"`
	Nor19           bool `yaml:"nor19,omitempty" json:"nor19,omitempty"`
}

// OrganSupport describes the shield a support compound gives at its
// reference daily dose.
type OrganSupport struct {
	Hepatic          float64 `yaml:"hepatic,omitempty" json:"hepatic,omitempty"`
	Renal            float64 `yaml:"renal,omitempty" json:"renal,omitempty"`
	ReferenceDailyMg float64 `yaml:"reference_daily_mg" json:"reference_daily_mg"`
}

// Compound is a static compound profile. Curves use weekly mg for injectables
// and daily mg for orals, supports and ancillaries.
type Compound struct {
	ID               string           `yaml:"id" json:"id"`
	Name             string           `yaml:"name" json:"name"`
	Class            AdminClass       `yaml:"class" json:"class"`
	Archetype        Archetype        `yaml:"archetype,omitempty" json:"archetype,omitempty"`
	DefaultEster     string           `yaml:"default_ester,omitempty" json:"default_ester,omitempty"`
	Esters           map[string]Ester `yaml:"esters,omitempty" json:"esters,omitempty"`
	HalfLifeHours    float64          `yaml:"half_life_hours" json:"half_life_hours"`
	DefaultFrequency Frequency        `yaml:"default_frequency,omitempty" json:"default_frequency,omitempty"`
	BasePotency      float64          `yaml:"base_potency,omitempty" json:"base_potency,omitempty"`
	ToxicityTier     float64          `yaml:"toxicity_tier,omitempty" json:"toxicity_tier,omitempty"`
	BenefitCurve     Curve            `yaml:"benefit_curve,omitempty" json:"benefit_curve,omitempty"`
	RiskCurve        Curve            `yaml:"risk_curve,omitempty" json:"risk_curve,omitempty"`
	Toxicity         Toxicity         `yaml:"toxicity,omitempty" json:"toxicity,omitempty"`
	Metabolic        Metabolic        `yaml:"metabolic,omitempty" json:"metabolic,omitempty"`
	Benefits         Benefits         `yaml:"benefits,omitempty" json:"benefits,omitempty"`
	Pathways         Pathways         `yaml:"pathways,omitempty" json:"pathways,omitempty"`
	// Ki in nM; zero means infer it from Pathways.ReceptorAffinity.
	Ki      float64       `yaml:"ki,omitempty" json:"ki,omitempty"`
	Flags   Flags         `yaml:"flags,omitempty" json:"flags,omitempty"`
	Support *OrganSupport `yaml:"support,omitempty" json:"support,omitempty"`
}

func (c *Compound) IsOral() bool { return c.Class == Oral }

// IsTablet reports whether curves and doses use daily units.
func (c *Compound) IsTablet() bool {
	switch c.Class {
	case Oral, Support, Ancillary:
		return true
	}
	return false
}

// Curve returns the benefit or risk curve.
func (c *Compound) Curve(p Polarity) Curve {
	if p == Risk {
		return c.RiskCurve
	}
	return c.BenefitCurve
}

// HardMax is the largest dose any curve or the plateau covers.
func (c *Compound) HardMax() float64 {
	return max(c.BenefitCurve.Cap(), c.RiskCurve.Cap(), c.BenefitCurve.PlateauDose())
}

// Ester resolves an ester key, falling back to the default ester and then to
// an unmodified compound with its own half-life.
func (c *Compound) Ester(key string) Ester {
	if key == "" {
		key = c.DefaultEster
	}
	if e, ok := c.Esters[key]; ok {
		if e.Weight <= 0 {
			e.Weight = 1
		}
		if e.HalfLifeHours <= 0 {
			e.HalfLifeHours = c.HalfLifeHours
		}
		return e
	}
	return Ester{Weight: 1, HalfLifeHours: c.HalfLifeHours}
}

// DosesPerWeek resolves an unspecified frequency to the compound default:
// daily for tablets, weekly for injectables.
func (c *Compound) DosesPerWeek(f Frequency) float64 {
	if f > 0 && finite(float64(f)) {
		return float64(f)
	}
	if c.DefaultFrequency > 0 {
		return float64(c.DefaultFrequency)
	}
	if c.IsTablet() {
		return 7
	}
	return 1
}

// StackEntry is one line of a regimen. Dose is mg per administration.
type StackEntry struct {
	Compound      string    `yaml:"compound" json:"compound"`
	Dose          float64   `yaml:"dose" json:"dose"`
	Frequency     Frequency `yaml:"frequency,omitempty" json:"frequency,omitempty"`
	Ester         string    `yaml:"ester,omitempty" json:"ester,omitempty"`
	FrontLoadDose float64   `yaml:"front_load_dose,omitempty" json:"front_load_dose,omitempty"`
}

// CurveDose converts an entry to the unit its compound's curves use: weekly
// mg for injectables, daily mg for everything taken as a tablet.
func CurveDose(c *Compound, e StackEntry) float64 {
	if c == nil || e.Dose <= 0 {
		return 0
	}
	weekly := e.Dose * c.DosesPerWeek(e.Frequency)
	if c.IsTablet() {
		return weekly / 7
	}
	return weekly
}

type Stack []StackEntry

// Clone returns a deep copy so callers can scale doses without touching the
// original regimen.
func (s Stack) Clone() Stack {
	c := make(Stack, len(s))
	copy(c, s)
	return c
}

// Scale multiplies every dose by factor.
func (s Stack) Scale(factor float64) Stack {
	c := s.Clone()
	for i := range c {
		c[i].Dose *= factor
		c[i].FrontLoadDose *= factor
	}
	return c
}

// CompoundIDs returns the distinct compound ids in lexical order.
func (s Stack) CompoundIDs() []string {
	seen := make(map[string]struct{}, len(s))
	ids := make([]string, 0, len(s))
	for _, e := range s {
		if _, ok := seen[e.Compound]; ok {
			continue
		}
		seen[e.Compound] = struct{}{}
		ids = append(ids, e.Compound)
	}
	sort.Strings(ids)
	return ids
}

type WarningLevel string

const (
	LevelInfo     WarningLevel = "info"
	LevelWarning  WarningLevel = "warning"
	LevelHigh     WarningLevel = "high"
	LevelCritical WarningLevel = "critical"
)

// Warning is advisory output. It never changes a computed total.
type Warning struct {
	Kind    string       `json:"kind"`
	Level   WarningLevel `json:"level"`
	Message string       `json:"message"`
}
