package serum

import "errors"

// Sample is the serum state after one step. Levels are active mg per compound.
type Sample struct {
	Hour   float64            `json:"hour"`
	Levels map[string]float64 `json:"levels"`
	Total  float64            `json:"total"`
}

// Day is the sample time in days.
func (s Sample) Day() float64 { return s.Hour / 24 }

// Value returns one series: a compound id, or the total for "" and "total".
func (s Sample) Value(series string) float64 {
	if series == "" || series == SeriesTotal {
		return s.Total
	}
	return s.Levels[series]
}

const SeriesTotal = "total"

var ErrTooManySteps = errors.New("serum: too many steps")

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Sample)

func (f ObserverFunc) OnStep(s Sample) { f(s) }

const (
	DefaultDtHours     = 4.0
	MinDtHours         = 0.25
	MaxSteps           = 1_000_000
	MinDurationDays    = 28.0
	MaxDurationDays    = 140.0
	durationHalfLives  = 6.0
	fallbackHalfLifeHr = 24.0
)

type Config struct {
	// DtHours is the step size; zero uses DefaultDtHours.
	DtHours float64 `yaml:"dt_hours" json:"dt_hours"`
	// DurationDays is the simulated span; zero derives it from the longest
	// half-life in the stack.
	DurationDays float64 `yaml:"duration_days" json:"duration_days"`
}

type Result struct {
	Hours      []float64            `json:"hours"`
	Compounds  []string             `json:"compounds"`
	Levels     map[string][]float64 `json:"levels"`
	Total      []float64            `json:"total"`
	Metrics    map[string]float64   `json:"metrics"`
	StepsTaken int                  `json:"steps_taken"`
}

// Sample rebuilds the i-th sample of the run.
func (r *Result) Sample(i int) Sample {
	s := Sample{Hour: r.Hours[i], Total: r.Total[i], Levels: make(map[string]float64, len(r.Compounds))}
	for _, c := range r.Compounds {
		s.Levels[c] = r.Levels[c][i]
	}
	return s
}

// Series returns the trajectory of one compound or the total.
func (r *Result) Series(series string) []float64 {
	if series == "" || series == SeriesTotal {
		return r.Total
	}
	return r.Levels[series]
}

// Days converts the sample hours to days.
func (r *Result) Days() []float64 {
	out := make([]float64, len(r.Hours))
	for i, h := range r.Hours {
		out[i] = h / 24
	}
	return out
}
