package pkpd

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

type ReceptorSensitivity string

const (
	LowResponder   ReceptorSensitivity = "low_responder"
	NormalResponse ReceptorSensitivity = "normal"
	HyperResponder ReceptorSensitivity = "hyper_responder"
)

// Level is a three-step class used for enzyme activity and neuro sensitivity.
type Level string

const (
	Low      Level = "low"
	Moderate Level = "moderate"
	High     Level = "high"
)

type TrainingStyle string

const (
	TrainingGeneral      TrainingStyle = "general"
	TrainingBodybuilding TrainingStyle = "bodybuilding"
	TrainingPowerlifting TrainingStyle = "powerlifting"
	TrainingCrossfit     TrainingStyle = "crossfit"
)

type DietState string

const (
	DietMaintenance DietState = "maintenance"
	DietCutting     DietState = "cutting"
	DietBulking     DietState = "bulking"
)

type Experience string

const (
	ExperienceNone        Experience = "none"
	ExperienceTestOnly    Experience = "test_only"
	ExperienceMulti       Experience = "multi_compound"
	ExperienceBlastCruise Experience = "blast_cruise"
)

const (
	DefaultAge        = 30.0
	DefaultBodyweight = 90.0
	DefaultBodyFat    = 15.0

	// ReferenceLeanMassKg is the lean mass the curves are calibrated against.
	ReferenceLeanMassKg = DefaultBodyweight * (1 - DefaultBodyFat/100)
)

type UserProfile struct {
	Age                 float64             `yaml:"age" json:"age"`
	BodyweightKg        float64             `yaml:"bodyweight_kg" json:"bodyweight_kg"`
	BodyFatPct          float64             `yaml:"body_fat_pct" json:"body_fat_pct"`
	Gender              Gender              `yaml:"gender" json:"gender"`
	ReceptorSensitivity ReceptorSensitivity `yaml:"receptor_sensitivity" json:"receptor_sensitivity"`
	EnzymeActivity      Level               `yaml:"enzyme_activity" json:"enzyme_activity"`
	NeuroSensitivity    Level               `yaml:"neuro_sensitivity" json:"neuro_sensitivity"`
	TrainingStyle       TrainingStyle       `yaml:"training_style" json:"training_style"`
	DietState           DietState           `yaml:"diet_state" json:"diet_state"`
	Experience          Experience          `yaml:"experience" json:"experience"`
}

func DefaultProfile() UserProfile {
	return UserProfile{
		Age:                 DefaultAge,
		BodyweightKg:        DefaultBodyweight,
		BodyFatPct:          DefaultBodyFat,
		Gender:              Male,
		ReceptorSensitivity: NormalResponse,
		EnzymeActivity:      Moderate,
		NeuroSensitivity:    Moderate,
		TrainingStyle:       TrainingGeneral,
		DietState:           DietMaintenance,
		Experience:          ExperienceTestOnly,
	}
}

// Normalized replaces out-of-range numbers and unrecognized classes with the
// neutral defaults. Experience falls back to neutral rather than the default
// tier so an unknown value never scales a response.
func (p UserProfile) Normalized() UserProfile {
	d := DefaultProfile()
	if p.Age <= 0 || p.Age > 120 {
		p.Age = d.Age
	}
	if p.BodyweightKg <= 0 {
		p.BodyweightKg = d.BodyweightKg
	}
	if p.BodyFatPct <= 0 || p.BodyFatPct >= 70 {
		p.BodyFatPct = d.BodyFatPct
	}
	switch p.Gender {
	case Male, Female:
	default:
		p.Gender = Male
	}
	switch p.ReceptorSensitivity {
	case LowResponder, NormalResponse, HyperResponder:
	default:
		p.ReceptorSensitivity = NormalResponse
	}
	p.EnzymeActivity = normalizeLevel(p.EnzymeActivity)
	p.NeuroSensitivity = normalizeLevel(p.NeuroSensitivity)
	switch p.TrainingStyle {
	case TrainingGeneral, TrainingBodybuilding, TrainingPowerlifting, TrainingCrossfit:
	default:
		p.TrainingStyle = TrainingGeneral
	}
	switch p.DietState {
	case DietMaintenance, DietCutting, DietBulking:
	default:
		p.DietState = DietMaintenance
	}
	switch p.Experience {
	case ExperienceNone, ExperienceTestOnly, ExperienceMulti, ExperienceBlastCruise:
	default:
		p.Experience = ""
	}
	return p
}

func normalizeLevel(l Level) Level {
	switch l {
	case Low, Moderate, High:
		return l
	}
	return Moderate
}

func (p UserProfile) LeanMassKg() float64 {
	p = p.Normalized()
	return p.BodyweightKg * (1 - p.BodyFatPct/100)
}

// LeanMassScale is lean mass relative to the calibration reference, bounded
// so extreme inputs stay within the model's intended range.
func (p UserProfile) LeanMassScale() float64 {
	return clamp(p.LeanMassKg()/ReferenceLeanMassKg, 0.6, 1.8)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 { return clamp(v, lo, hi) }
