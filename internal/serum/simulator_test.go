package serum

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/refdata"
)

func testReference(t *testing.T) *pkpd.Reference {
	t.Helper()
	ref, err := refdata.Default()
	if err != nil {
		t.Fatalf("load reference: %v", err)
	}
	return ref
}

var testE = pkpd.Stack{{Compound: "testosterone", Dose: 250, Frequency: 2}}

type countingMetric struct {
	samples int
	peak    float64
}

func (m *countingMetric) Name() string { return "count" }
func (m *countingMetric) Observe(s Sample) {
	m.samples++
	m.peak = math.Max(m.peak, s.Total)
}
func (m *countingMetric) Value() float64 { return float64(m.samples) }
func (m *countingMetric) Reset()         { m.samples, m.peak = 0, 0 }

func TestSimulatorRun(t *testing.T) {
	result, err := Simulate(testReference(t), testE, Config{DurationDays: 28})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Hours) != 169 {
		t.Errorf("expected 169 samples, got %d", len(result.Hours))
	}
	if result.Hours[0] != 0 {
		t.Errorf("expected first sample at hour 0, got %f", result.Hours[0])
	}
	if last := result.Hours[len(result.Hours)-1]; last != 28*24 {
		t.Errorf("expected last sample at hour %d, got %f", 28*24, last)
	}
	if len(result.Compounds) != 1 || result.Compounds[0] != "testosterone" {
		t.Errorf("expected [testosterone], got %v", result.Compounds)
	}
	for i, v := range result.Total {
		if v < 0 {
			t.Fatalf("negative level %f at sample %d", v, i)
		}
		if v != result.Levels["testosterone"][i] {
			t.Fatalf("total %f differs from only compound %f at sample %d", v, result.Levels["testosterone"][i], i)
		}
	}
}

func TestLongEsterAccumulates(t *testing.T) {
	result, err := Simulate(testReference(t), testE, Config{DurationDays: 84})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	week1 := result.Total[7*6]
	week6 := result.Total[42*6]
	if week6 <= week1 {
		t.Errorf("expected accumulation, week 1 %f, week 6 %f", week1, week6)
	}
}

func TestFrontLoadRaisesEarlyLevels(t *testing.T) {
	ref := testReference(t)
	loaded := testE.Clone()
	loaded[0].FrontLoadDose = 600

	plain, err := Simulate(ref, testE, Config{DurationDays: 28})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	front, err := Simulate(ref, loaded, Config{DurationDays: 28})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if front.Total[6] <= plain.Total[6] {
		t.Errorf("expected front-load to lead at day 1, got %f vs %f", front.Total[6], plain.Total[6])
	}
}

func TestUnknownCompoundIgnored(t *testing.T) {
	result, err := Simulate(testReference(t), pkpd.Stack{{Compound: "unobtainium", Dose: 100}}, Config{DurationDays: 28})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Compounds) != 0 {
		t.Errorf("expected no compounds, got %v", result.Compounds)
	}
	for _, v := range result.Total {
		if v != 0 {
			t.Fatalf("expected zero total, got %f", v)
		}
	}
}

func TestDurationDays(t *testing.T) {
	ref := testReference(t)
	tests := []struct {
		name  string
		stack pkpd.Stack
		want  float64
	}{
		{"empty", nil, MinDurationDays},
		{"short ester floored", pkpd.Stack{{Compound: "testosterone", Dose: 100, Ester: "propionate"}}, MinDurationDays},
		{"decanoate", pkpd.Stack{{Compound: "nandrolone", Dose: 300}}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationDays(ref, tt.stack); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(testReference(t))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative dt", Config{DtHours: -1, DurationDays: 28}},
		{"negative duration", Config{DtHours: 4, DurationDays: -1}},
		{"dt beyond duration", Config{DtHours: 48, DurationDays: 1}},
		{"vanishing dt", Config{DtHours: 1e-300, DurationDays: 28}},
		{"dt below minimum", Config{DtHours: 0.1, DurationDays: 28}},
		{"infinite duration", Config{DtHours: 4, DurationDays: math.Inf(1)}},
		{"too many steps", Config{DtHours: MinDtHours, DurationDays: 100_000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sim.Run(context.Background(), testE, tt.cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestSimulatorStepLimit(t *testing.T) {
	_, err := Simulate(testReference(t), testE, Config{DtHours: 1, DurationDays: 50_000})
	if !errors.Is(err, ErrTooManySteps) {
		t.Errorf("expected ErrTooManySteps, got %v", err)
	}

	result, err := Simulate(testReference(t), testE, Config{DtHours: MinDtHours, DurationDays: 7})
	if err != nil {
		t.Fatalf("run at minimum dt failed: %v", err)
	}
	if len(result.Hours) != 7*24*4+1 {
		t.Errorf("expected %d samples, got %d", 7*24*4+1, len(result.Hours))
	}
}

func TestAdministrationsPerStep(t *testing.T) {
	tests := []struct {
		name     string
		interval float64
		dt       float64
		expected int
	}{
		{"twice daily at 4h", 12, 4, 14},
		{"twice daily at 24h", 12, 24, 14},
		{"twice weekly at 4h", 84, 4, 2},
		{"twice weekly at 24h", 84, 24, 2},
		{"daily at 56h", 24, 56, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &compartment{intervalHours: tt.interval}
			var total int
			for hour := 0.0; hour < 168; hour += tt.dt {
				total += c.administrations(hour, tt.dt)
			}
			if total != tt.expected {
				t.Errorf("expected %d doses in a week, got %d", tt.expected, total)
			}
		})
	}
}

func TestSimulatorHooks(t *testing.T) {
	sim := New(testReference(t))
	m := &countingMetric{}
	var observed int
	sim.AddMetric(m)
	sim.AddObserver(ObserverFunc(func(Sample) { observed++ }))

	result, err := sim.Run(context.Background(), testE, Config{DurationDays: 28})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if observed != result.StepsTaken {
		t.Errorf("expected %d observer calls, got %d", result.StepsTaken, observed)
	}
	if result.Metrics["count"] != float64(result.StepsTaken) {
		t.Errorf("expected metric %d, got %f", result.StepsTaken, result.Metrics["count"])
	}

	// metrics reset between runs
	if _, err := sim.Run(context.Background(), testE, Config{DurationDays: 28}); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if m.samples != result.StepsTaken {
		t.Errorf("expected reset before second run, got %d samples", m.samples)
	}
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(testReference(t)).Run(ctx, testE, Config{DurationDays: 28})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected empty partial result, got %+v", result)
	}
}

func TestAbsorptionRate(t *testing.T) {
	tests := []struct {
		hl   float64
		want float64
	}{
		{4, 0.8},
		{24, 0.15},
		{108, 0.05},
	}
	for _, tt := range tests {
		if got := AbsorptionRate(tt.hl); got != tt.want {
			t.Errorf("hl %f: expected %f, got %f", tt.hl, tt.want, got)
		}
	}
}

func TestCalculateFrontLoad(t *testing.T) {
	ref := testReference(t)
	c, _ := ref.Compound("testosterone")

	fl, ok := CalculateFrontLoad(c, 500, 2, "enanthate")
	if !ok {
		t.Fatal("expected a front-load")
	}
	if math.Abs(fl.MaintenanceDose-250) > 1e-9 {
		t.Errorf("expected maintenance 250, got %f", fl.MaintenanceDose)
	}
	if fl.FrontLoadDose <= 500 || fl.FrontLoadDose >= 700 {
		t.Errorf("expected front-load in (500,700), got %f", fl.FrontLoadDose)
	}
	if fl.WeeksSaved != 3 {
		t.Errorf("expected 3 weeks saved, got %d", fl.WeeksSaved)
	}

	if _, ok := CalculateFrontLoad(nil, 500, 2, ""); ok {
		t.Error("expected no front-load for a nil compound")
	}
	if _, ok := CalculateFrontLoad(c, 0, 2, ""); ok {
		t.Error("expected no front-load for a zero dose")
	}
}
