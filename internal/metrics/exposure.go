package metrics

import "github.com/san-kum/physiosim/internal/serum"

// AUC integrates a series over time with the trapezoid rule, in mg*day.
type AUC struct {
	name     string
	series   string
	area     float64
	lastHour float64
	lastV    float64
	samples  int
}

func NewAUC(series string) *AUC {
	return &AUC{name: metricName("auc", series), series: series}
}

func (a *AUC) Name() string { return a.name }

func (a *AUC) Observe(s serum.Sample) {
	v := s.Value(a.series)
	if a.samples > 0 {
		a.area += (v + a.lastV) / 2 * (s.Hour - a.lastHour) / 24
	}
	a.lastHour, a.lastV = s.Hour, v
	a.samples++
}

func (a *AUC) Value() float64 { return a.area }

func (a *AUC) Reset() {
	a.area = 0
	a.lastHour, a.lastV = 0, 0
	a.samples = 0
}

const (
	DefaultSteadyFraction = 0.9
	steadyWindowHours     = 7 * 24
)

// TimeToSteady is the first day the series reaches fraction of its mean over
// the final week of the run. A run shorter than a week reports its last day.
type TimeToSteady struct {
	name     string
	series   string
	fraction float64
	hours    []float64
	values   []float64
}

func NewTimeToSteady(series string, fraction float64) *TimeToSteady {
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultSteadyFraction
	}
	return &TimeToSteady{name: metricName("time_to_steady", series), series: series, fraction: fraction}
}

func (t *TimeToSteady) Name() string { return t.name }

func (t *TimeToSteady) Observe(s serum.Sample) {
	t.hours = append(t.hours, s.Hour)
	t.values = append(t.values, s.Value(t.series))
}

func (t *TimeToSteady) Value() float64 {
	n := len(t.hours)
	if n == 0 {
		return 0
	}
	last := t.hours[n-1]
	if last < steadyWindowHours {
		return last / 24
	}

	var sum float64
	var count int
	for i := n - 1; i >= 0 && t.hours[i] > last-steadyWindowHours; i-- {
		sum += t.values[i]
		count++
	}
	target := t.fraction * sum / float64(count)
	if target <= 0 {
		return 0
	}
	for i, v := range t.values {
		if v >= target {
			return t.hours[i] / 24
		}
	}
	return last / 24
}

func (t *TimeToSteady) Reset() {
	t.hours = t.hours[:0]
	t.values = t.values[:0]
}

// Standard returns the full metric set for one series. Window-based metrics
// start at fromHour.
func Standard(series string, fromHour float64) []serum.Metric {
	return []serum.Metric{
		NewPeak(series),
		NewTrough(series, fromHour),
		NewMean(series, fromHour),
		NewAUC(series),
		NewFluctuation(series, fromHour),
		NewTimeToSteady(series, DefaultSteadyFraction),
	}
}

// SteadyWindowStart puts the window over the final two weeks of a run, or the
// whole run when it is shorter than four weeks.
func SteadyWindowStart(durationDays float64) float64 {
	if durationDays < 28 {
		return 0
	}
	return (durationDays - 14) * 24
}
