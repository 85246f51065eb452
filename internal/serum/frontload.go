package serum

import (
	"fmt"
	"math"

	"github.com/san-kum/physiosim/internal/kinetics"
	"github.com/san-kum/physiosim/internal/pkpd"
)

const steadyStateHalfLives = 5.0

type FrontLoad struct {
	Compound        string  `json:"compound"`
	Ester           string  `json:"ester,omitempty"`
	IntervalDays    float64 `json:"interval_days"`
	MaintenanceDose float64 `json:"maintenance_dose"`
	FrontLoadDose   float64 `json:"front_load_dose"`
	Accumulation    float64 `json:"accumulation"`
	TimeSavedDays   float64 `json:"time_saved_days"`
	WeeksSaved      int     `json:"weeks_saved"`
	Message         string  `json:"message"`
}

// CalculateFrontLoad returns the first dose that lands at the steady-state
// peak: the maintenance dose per administration times the accumulation
// ratio. It reports false for a nil compound or a non-positive dose.
func CalculateFrontLoad(c *pkpd.Compound, weeklyMg float64, freq pkpd.Frequency, ester string) (FrontLoad, bool) {
	if c == nil || weeklyMg <= 0 {
		return FrontLoad{}, false
	}
	dpw := c.DosesPerWeek(freq)
	hl := c.Ester(ester).HalfLifeHours
	if hl <= 0 {
		hl = fallbackHalfLifeHr
	}
	if ester == "" {
		ester = c.DefaultEster
	}

	fl := FrontLoad{
		Compound:        c.ID,
		Ester:           ester,
		IntervalDays:    pkpd.Frequency(dpw).IntervalDays(),
		MaintenanceDose: weeklyMg / dpw,
		Accumulation:    kinetics.AccumulationRatio(hl, dpw),
	}
	fl.FrontLoadDose = math.Round(fl.MaintenanceDose * fl.Accumulation)
	fl.TimeSavedDays = math.Round(steadyStateHalfLives * hl / 24)
	fl.WeeksSaved = int(math.Round(steadyStateHalfLives * hl / 24 / 7))
	fl.Message = fmt.Sprintf("Front-load %.0fmg to hit peak levels immediately. Saves ~%d weeks of ramp-up.", fl.FrontLoadDose, fl.WeeksSaved)
	return fl, true
}
