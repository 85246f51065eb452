package response

import (
	"fmt"

	"github.com/san-kum/physiosim/internal/pkpd"
)

// Narrative turns a profile into short talking points about how it bends the
// curves. A neutral profile yields no points.
func Narrative(profile pkpd.UserProfile) []string {
	p := profile.Normalized()
	var out []string

	switch p.ReceptorSensitivity {
	case pkpd.HyperResponder:
		out = append(out, "Hyper-responder: benefit curves run about 20% above baseline.")
	case pkpd.LowResponder:
		out = append(out, "Low responder: benefit curves run about 20% below baseline.")
	}
	switch p.EnzymeActivity {
	case pkpd.High:
		out = append(out, "High aromatase activity: aromatizing compounds carry more estrogenic risk.")
	case pkpd.Low:
		out = append(out, "Low aromatase activity: aromatizing compounds carry less estrogenic risk.")
	}
	if p.NeuroSensitivity == pkpd.High {
		out = append(out, "High neuro sensitivity: neurotoxic compounds roughly double their risk.")
	}
	switch p.DietState {
	case pkpd.DietCutting:
		out = append(out, "Cutting: expect a smaller benefit, except from anti-catabolic compounds.")
	case pkpd.DietBulking:
		out = append(out, "Bulking: oral compounds carry extra hepatic and lipid load.")
	}
	switch p.TrainingStyle {
	case pkpd.TrainingPowerlifting:
		out = append(out, "Powerlifting favors strength compounds over pure hypertrophy agents.")
	case pkpd.TrainingBodybuilding:
		out = append(out, "Bodybuilding training amplifies the benefit of every compound.")
	case pkpd.TrainingCrossfit:
		out = append(out, "CrossFit rewards endurance compounds and punishes cardio-impairing ones.")
	}
	if p.Gender == pkpd.Female {
		out = append(out, "Female profile: virilization risk rises steeply at every dose.")
	}
	if p.Age > ageReference {
		out = append(out, fmt.Sprintf("Age %.0f: risk scales up with every year past %.0f.", p.Age, ageReference))
	}
	switch p.Experience {
	case pkpd.ExperienceNone:
		out = append(out, "First cycle: strong response, but side effects hit harder.")
	case pkpd.ExperienceBlastCruise:
		out = append(out, "Blast and cruise history: receptors respond less to the same dose.")
	}
	if s := p.LeanMassScale(); s > 1.1 {
		out = append(out, "Above-reference lean mass dilutes toxicity per mg.")
	} else if s < 0.9 {
		out = append(out, "Below-reference lean mass concentrates toxicity per mg.")
	}
	return out
}
