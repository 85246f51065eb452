package pkpd

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frequency is a dosing frequency in doses per week. Zero means unspecified.
type Frequency float64

var frequencyTokens = map[string]float64{
	"ED":      7,
	"QD":      7,
	"EOD":     3.5,
	"QW":      1,
	"2X/WK":   2,
	"3X/WK":   3,
	"3.5X/WK": 3.5,
	"Q3D":     7.0 / 3.0,
	"Q4D":     7.0 / 4.0,
}

// ParseFrequency normalizes a number or free-text token into doses per week.
// Unrecognized tokens, including non-finite numbers, fall back to once
// weekly; an empty token is unspecified.
func ParseFrequency(token string) Frequency {
	key := strings.ToUpper(strings.TrimSpace(token))
	if key == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(key, 64); err == nil {
		if !finite(v) {
			return 1
		}
		return Frequency(max(v, 0))
	}
	switch {
	case strings.Contains(key, "TWICE"):
		return 2
	case strings.Contains(key, "WEEKLY"):
		return 1
	case strings.Contains(key, "DAILY"):
		return 7
	}
	if v, ok := frequencyTokens[key]; ok {
		return Frequency(v)
	}
	return 1
}

// IntervalDays is the spacing between administrations.
func (f Frequency) IntervalDays() float64 {
	if f <= 0 {
		return 7
	}
	return 7 / float64(f)
}

func (f *Frequency) UnmarshalYAML(value *yaml.Node) error {
	*f = ParseFrequency(value.Value)
	return nil
}

func (f *Frequency) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		if !finite(n) {
			n = 0
		}
		*f = Frequency(max(n, 0))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*f = ParseFrequency(s)
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
