package systemic

import (
	"math"

	"github.com/san-kum/physiosim/internal/kinetics"
	"github.com/san-kum/physiosim/internal/pkpd"
)

const (
	MaxSupportContribution = 0.35
	MaxSupportShield       = 0.6
)

// Shield is the fraction of hepatic and renal load removed by support
// compounds.
type Shield struct {
	Hepatic float64 `json:"hepatic"`
	Renal   float64 `json:"renal"`
}

// CalculateOrganSupport sums the capped shield of every support compound in
// loads. Non-support compounds contribute nothing.
func CalculateOrganSupport(ref *pkpd.Reference, loads []kinetics.Load) Shield {
	var s Shield
	for _, l := range loads {
		c, ok := ref.Compound(l.Compound)
		if !ok || c.Class != pkpd.Support || c.Support == nil || l.WeeklyMg <= 0 {
			continue
		}
		refMg := c.Support.ReferenceDailyMg
		if refMg <= 0 {
			refMg = 1
		}
		ratio := l.DailyMg() / refMg
		s.Hepatic += math.Min(c.Support.Hepatic*ratio, MaxSupportContribution)
		s.Renal += math.Min(c.Support.Renal*ratio, MaxSupportContribution)
	}
	s.Hepatic = pkpd.Clamp(s.Hepatic, 0, MaxSupportShield)
	s.Renal = pkpd.Clamp(s.Renal, 0, MaxSupportShield)
	return s
}
