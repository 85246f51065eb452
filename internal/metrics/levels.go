// Package metrics observes serum runs. Each metric tracks one series, a
// compound id or the total, and may ignore samples before a window start so
// trough and fluctuation describe the steady phase rather than the ramp.
package metrics

import (
	"math"

	"github.com/san-kum/physiosim/internal/serum"
)

func metricName(kind, series string) string {
	if series == "" || series == serum.SeriesTotal {
		return kind
	}
	return kind + "_" + series
}

type Peak struct {
	name   string
	series string
	peak   float64
	hour   float64
}

func NewPeak(series string) *Peak {
	return &Peak{name: metricName("peak", series), series: series}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(s serum.Sample) {
	if v := s.Value(p.series); v > p.peak {
		p.peak = v
		p.hour = s.Hour
	}
}

func (p *Peak) Value() float64 { return p.peak }

// Day is when the peak was reached.
func (p *Peak) Day() float64 { return p.hour / 24 }

func (p *Peak) Reset() {
	p.peak = 0
	p.hour = 0
}

type Trough struct {
	name     string
	series   string
	fromHour float64
	trough   float64
	samples  int
}

// NewTrough tracks the minimum from fromHour onward.
func NewTrough(series string, fromHour float64) *Trough {
	return &Trough{name: metricName("trough", series), series: series, fromHour: fromHour}
}

func (t *Trough) Name() string { return t.name }

func (t *Trough) Observe(s serum.Sample) {
	if s.Hour < t.fromHour {
		return
	}
	v := s.Value(t.series)
	if t.samples == 0 || v < t.trough {
		t.trough = v
	}
	t.samples++
}

func (t *Trough) Value() float64 { return t.trough }

func (t *Trough) Reset() {
	t.trough = 0
	t.samples = 0
}

type Mean struct {
	name     string
	series   string
	fromHour float64
	sum      float64
	samples  int
}

func NewMean(series string, fromHour float64) *Mean {
	return &Mean{name: metricName("mean", series), series: series, fromHour: fromHour}
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Observe(s serum.Sample) {
	if s.Hour < m.fromHour {
		return
	}
	m.sum += s.Value(m.series)
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}

// Fluctuation is (max-min)/mean over the window.
type Fluctuation struct {
	name     string
	series   string
	fromHour float64
	lo, hi   float64
	sum      float64
	samples  int
}

func NewFluctuation(series string, fromHour float64) *Fluctuation {
	return &Fluctuation{name: metricName("fluctuation", series), series: series, fromHour: fromHour}
}

func (f *Fluctuation) Name() string { return f.name }

func (f *Fluctuation) Observe(s serum.Sample) {
	if s.Hour < f.fromHour {
		return
	}
	v := s.Value(f.series)
	if f.samples == 0 {
		f.lo, f.hi = v, v
	}
	f.lo = math.Min(f.lo, v)
	f.hi = math.Max(f.hi, v)
	f.sum += v
	f.samples++
}

func (f *Fluctuation) Value() float64 {
	if f.samples == 0 || f.sum == 0 {
		return 0
	}
	return (f.hi - f.lo) / (f.sum / float64(f.samples))
}

func (f *Fluctuation) Reset() {
	f.lo, f.hi = 0, 0
	f.sum = 0
	f.samples = 0
}
