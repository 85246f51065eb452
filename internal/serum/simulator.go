// Package serum steps a depot and an active compartment per stack entry at a
// fixed interval and reports per-compound and total serum trajectories.
package serum

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/physiosim/internal/pkpd"
)

type Simulator struct {
	ref       *pkpd.Reference
	metrics   []Metric
	observers []Observer
}

func New(ref *pkpd.Reference) *Simulator {
	return &Simulator{
		ref:       ref,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// compartment is the two-state model of one stack entry.
type compartment struct {
	compound      string
	dose          float64
	frontLoad     float64
	weight        float64
	intervalHours float64
	absorption    float64
	elimination   float64
	depot         float64
	active        float64
}

// AbsorptionRate is the depot share released per 4h step: near instant for
// orals and short half-lives, slow for long esters.
func AbsorptionRate(halfLifeHours float64) float64 {
	switch {
	case halfLifeHours < 12:
		return 0.8
	case halfLifeHours < 48:
		return 0.15
	default:
		return 0.05
	}
}

// DurationDays is six of the longest half-lives, bounded to [28,140] days.
func DurationDays(ref *pkpd.Reference, stack pkpd.Stack) float64 {
	var longest float64
	for _, e := range stack {
		c, ok := ref.Compound(e.Compound)
		if !ok {
			continue
		}
		longest = math.Max(longest, c.Ester(e.Ester).HalfLifeHours)
	}
	return pkpd.Clamp(durationHalfLives*longest/24, MinDurationDays, MaxDurationDays)
}

func (s *Simulator) compartments(stack pkpd.Stack, dt float64) []*compartment {
	out := make([]*compartment, 0, len(stack))
	for _, e := range stack {
		c, ok := s.ref.Compound(e.Compound)
		if !ok || e.Dose <= 0 {
			continue
		}
		ester := c.Ester(e.Ester)
		hl := ester.HalfLifeHours
		if hl <= 0 {
			hl = fallbackHalfLifeHr
		}
		steps := dt / DefaultDtHours
		out = append(out, &compartment{
			compound:      c.ID,
			dose:          e.Dose,
			frontLoad:     e.FrontLoadDose,
			weight:        ester.Weight,
			intervalHours: 24 * pkpd.Frequency(c.DosesPerWeek(e.Frequency)).IntervalDays(),
			absorption:    1 - math.Pow(1-AbsorptionRate(hl), steps),
			elimination:   math.Pow(0.5, dt/hl),
		})
	}
	return out
}

// administrations counts the doses scheduled in [hour, hour+dt).
func (c *compartment) administrations(hour, dt float64) int {
	period := math.Round(c.intervalHours)
	if period < 1 {
		return 1
	}
	return int(math.Ceil((hour+dt)/period) - math.Ceil(hour/period))
}

func (c *compartment) step(hour, dt float64) {
	for n := c.administrations(hour, dt); n > 0; n-- {
		dose := c.dose
		if hour == 0 && c.frontLoad > 0 && n == 1 {
			dose = c.frontLoad
		}
		c.depot += dose * c.weight
	}
	absorbed := c.depot * c.absorption
	c.depot -= absorbed
	c.active += absorbed
	c.active *= c.elimination
}

// Run simulates stack and feeds every sample to the registered metrics and
// observers. Cancellation returns the partial result with ctx.Err().
func (s *Simulator) Run(ctx context.Context, stack pkpd.Stack, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	dt := cfg.DtHours
	if dt == 0 {
		dt = DefaultDtHours
	}
	days := cfg.DurationDays
	if days == 0 {
		days = DurationDays(s.ref, stack)
	}
	if n := days * 24 / dt; n > MaxSteps {
		return nil, fmt.Errorf("%w: %.0f steps exceeds %d", ErrTooManySteps, n, MaxSteps)
	}

	comps := s.compartments(stack, dt)
	ids := make([]string, 0, len(comps))
	seen := make(map[string]bool, len(comps))
	for _, c := range comps {
		if !seen[c.compound] {
			seen[c.compound] = true
			ids = append(ids, c.compound)
		}
	}
	sort.Strings(ids)

	steps := int(days*24/dt) + 1
	result := &Result{
		Hours:     make([]float64, 0, steps),
		Compounds: ids,
		Levels:    make(map[string][]float64, len(ids)),
		Total:     make([]float64, 0, steps),
		Metrics:   make(map[string]float64),
	}
	for _, id := range ids {
		result.Levels[id] = make([]float64, 0, steps)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		hour := float64(i) * dt
		sample := Sample{Hour: hour, Levels: make(map[string]float64, len(ids))}
		for _, c := range comps {
			c.step(hour, dt)
			sample.Levels[c.compound] += c.active
			sample.Total += c.active
		}

		result.Hours = append(result.Hours, hour)
		result.Total = append(result.Total, sample.Total)
		for _, id := range ids {
			result.Levels[id] = append(result.Levels[id], sample.Levels[id])
		}
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// Simulate runs stack without metrics or cancellation.
func Simulate(ref *pkpd.Reference, stack pkpd.Stack, cfg Config) (*Result, error) {
	return New(ref).Run(context.Background(), stack, cfg)
}

func validateConfig(cfg Config) error {
	if cfg.DtHours < 0 || math.IsNaN(cfg.DtHours) || math.IsInf(cfg.DtHours, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.DtHours)
	}
	if cfg.DtHours > 0 && cfg.DtHours < MinDtHours {
		return fmt.Errorf("dt %f is below the %.2fh minimum", cfg.DtHours, MinDtHours)
	}
	if cfg.DurationDays < 0 || math.IsNaN(cfg.DurationDays) || math.IsInf(cfg.DurationDays, 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.DurationDays)
	}
	if cfg.DtHours > 0 && cfg.DurationDays > 0 && cfg.DtHours > cfg.DurationDays*24 {
		return fmt.Errorf("dt %f exceeds duration of %f days", cfg.DtHours, cfg.DurationDays)
	}
	return nil
}
