package stack

import (
	"fmt"

	"github.com/san-kum/physiosim/internal/pkpd"
)

// warnings derives the advisory side channel. It never feeds back into any
// total.
func warnings(entries []resolved, unknown []string, profile pkpd.UserProfile) []pkpd.Warning {
	var out []pkpd.Warning
	var orals, nors int
	var renal, heavyBP, suppressive, aromatizer, cardioImpairing bool

	for _, e := range entries {
		c := e.compound
		if c.IsOral() {
			orals++
		}
		if c.Flags.Nor19 {
			nors++
		}
		renal = renal || c.Flags.RenalToxic
		heavyBP = heavyBP || c.Flags.HeavyBP
		suppressive = suppressive || c.Flags.Suppressive
		aromatizer = aromatizer || c.Metabolic.Aromatization > 0
		cardioImpairing = cardioImpairing || c.Flags.CardioImpairing
	}

	if orals > 1 {
		out = append(out, pkpd.Warning{
			Kind:    "hepatotoxicity_synergy",
			Level:   pkpd.LevelHigh,
			Message: fmt.Sprintf("%d oral compounds compound hepatic stress.", orals),
		})
	}
	if renal && heavyBP {
		out = append(out, pkpd.Warning{
			Kind:    "kidney_stress",
			Level:   pkpd.LevelWarning,
			Message: "A renal-toxic compound is combined with a heavy blood-pressure driver.",
		})
	}
	if nors > 1 {
		out = append(out, pkpd.Warning{
			Kind:    "nor19_stacking",
			Level:   pkpd.LevelHigh,
			Message: "Stacking 19-nor compounds multiplies prolactin and neuro side effects.",
		})
	}
	if suppressive && !aromatizer {
		out = append(out, pkpd.Warning{
			Kind:    "no_test_base",
			Level:   pkpd.LevelWarning,
			Message: "Suppressive compounds without an aromatizing base leave estrogen unsupported.",
		})
	}
	if cardioImpairing && profile.TrainingStyle == pkpd.TrainingCrossfit {
		out = append(out, pkpd.Warning{
			Kind:    "cardio_capacity",
			Level:   pkpd.LevelWarning,
			Message: "Cardio-impairing compounds will limit conditioning work.",
		})
	}
	for _, e := range entries {
		if hm := e.compound.HardMax(); hm > 0 && e.dose > hm {
			out = append(out, pkpd.Warning{
				Kind:    "beyond_evidence",
				Level:   pkpd.LevelInfo,
				Message: fmt.Sprintf("%s at %.0f exceeds the evidence ceiling of %.0f.", e.compound.ID, e.dose, hm),
			})
		}
	}
	for _, id := range unknown {
		out = append(out, pkpd.Warning{
			Kind:    "unknown_compound",
			Level:   pkpd.LevelInfo,
			Message: fmt.Sprintf("%q is not in the reference table and was ignored.", id),
		})
	}
	return out
}
