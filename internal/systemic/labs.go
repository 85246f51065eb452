package systemic

// BaselineLabs are a user's own pre-cycle values. Zero fields fall back to the
// population defaults.
type BaselineLabs struct {
	HDL        float64 `yaml:"hdl,omitempty" json:"hdl,omitempty"`
	LDL        float64 `yaml:"ldl,omitempty" json:"ldl,omitempty"`
	ALT        float64 `yaml:"alt,omitempty" json:"alt,omitempty"`
	AST        float64 `yaml:"ast,omitempty" json:"ast,omitempty"`
	Estradiol  float64 `yaml:"estradiol,omitempty" json:"estradiol,omitempty"`
	Hematocrit float64 `yaml:"hematocrit,omitempty" json:"hematocrit,omitempty"`
	Prolactin  float64 `yaml:"prolactin,omitempty" json:"prolactin,omitempty"`
	SHBG       float64 `yaml:"shbg,omitempty" json:"shbg,omitempty"`
	Creatinine float64 `yaml:"creatinine,omitempty" json:"creatinine,omitempty"`
}

func DefaultBaselineLabs() BaselineLabs {
	return BaselineLabs{
		HDL:        55,
		LDL:        90,
		ALT:        25,
		AST:        25,
		Estradiol:  25,
		Hematocrit: 45,
		Prolactin:  12,
		SHBG:       35,
		Creatinine: 0.9,
	}
}

func (b BaselineLabs) withDefaults() BaselineLabs {
	d := DefaultBaselineLabs()
	fill := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&b.HDL, d.HDL)
	fill(&b.LDL, d.LDL)
	fill(&b.ALT, d.ALT)
	fill(&b.AST, d.AST)
	fill(&b.Estradiol, d.Estradiol)
	fill(&b.Hematocrit, d.Hematocrit)
	fill(&b.Prolactin, d.Prolactin)
	fill(&b.SHBG, d.SHBG)
	fill(&b.Creatinine, d.Creatinine)
	return b
}

type Labs struct {
	TotalTestosterone float64 `json:"total_testosterone"`
	FreeTestosterone  float64 `json:"free_testosterone"`
	FreeTestFraction  float64 `json:"free_test_fraction"`
	Estradiol         float64 `json:"estradiol"`
	HDL               float64 `json:"hdl"`
	LDL               float64 `json:"ldl"`
	ALT               float64 `json:"alt"`
	AST               float64 `json:"ast"`
	Hematocrit        float64 `json:"hematocrit"`
	Prolactin         float64 `json:"prolactin"`
	SHBG              float64 `json:"shbg"`
	Creatinine        float64 `json:"creatinine"`
	NeuroRisk         float64 `json:"neuro_risk"`
}

type LabTier string

const (
	TierWarning  LabTier = "warning"
	TierCritical LabTier = "critical"
)

type LabFlag struct {
	Lab   string  `json:"lab"`
	Value float64 `json:"value"`
	Tier  LabTier `json:"tier"`
}

type labRule struct {
	lab      string
	value    func(Labs) float64
	high     bool
	warning  float64
	critical float64
	penalty  float64
	// severe adds an extra penalty past a second critical threshold.
	severe        float64
	severePenalty float64
}

var labRules = []labRule{
	{lab: "hdl", value: func(l Labs) float64 { return l.HDL }, warning: 35, critical: 30, penalty: 0.3, severe: 20, severePenalty: 0.6},
	{lab: "ldl", value: func(l Labs) float64 { return l.LDL }, high: true, warning: 160, critical: 180, penalty: 0.3},
	{lab: "alt", value: func(l Labs) float64 { return l.ALT }, high: true, warning: 60, critical: 80, penalty: 0.4},
	{lab: "ast", value: func(l Labs) float64 { return l.AST }, high: true, warning: 60, critical: 80},
	{lab: "creatinine", value: func(l Labs) float64 { return l.Creatinine }, high: true, warning: 1.3, critical: 1.4, penalty: 0.5},
	{lab: "hematocrit", value: func(l Labs) float64 { return l.Hematocrit }, high: true, warning: 52, critical: 54, penalty: 0.3},
}

// CheckLabs flags every lab past its warning or critical tier and returns the
// additive penalty multiplier. ALT and AST share one liver penalty.
func CheckLabs(l Labs) ([]LabFlag, float64) {
	var flags []LabFlag
	multiplier := 1.0
	liver := false

	for _, r := range labRules {
		v := r.value(l)
		past := func(threshold float64) bool {
			if r.high {
				return v > threshold
			}
			return v < threshold
		}
		switch {
		case past(r.critical):
			flags = append(flags, LabFlag{Lab: r.lab, Value: v, Tier: TierCritical})
			if r.lab == "alt" || r.lab == "ast" {
				if !liver {
					multiplier += 0.4
					liver = true
				}
				continue
			}
			multiplier += r.penalty
			if r.severePenalty > 0 && past(r.severe) {
				multiplier += r.severePenalty
			}
		case past(r.warning):
			flags = append(flags, LabFlag{Lab: r.lab, Value: v, Tier: TierWarning})
		}
	}
	return flags, multiplier
}
