package systemic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/physiosim/internal/aromatase"
	"github.com/san-kum/physiosim/internal/binding"
	"github.com/san-kum/physiosim/internal/kinetics"
	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/refdata"
)

func reference(t *testing.T) *pkpd.Reference {
	t.Helper()
	ref, err := refdata.Default()
	require.NoError(t, err)
	return ref
}

func defaultOptions() Options {
	return Options{Profile: pkpd.DefaultProfile()}
}

func TestEmptyStackIsBaseline(t *testing.T) {
	snap := CalculateCycleMetrics(reference(t), nil, defaultOptions())
	base := DefaultBaselineLabs()

	assert.Empty(t, snap.Loads)
	assert.Equal(t, 1.0, snap.Efficiency)
	assert.Equal(t, base.HDL, snap.Labs.HDL)
	assert.Equal(t, base.ALT, snap.Labs.ALT)
	assert.InDelta(t, base.Estradiol, snap.Labs.Estradiol, 1e-9)
	assert.InDelta(t, base.SHBG, snap.Labs.SHBG, 1e-9)
	assert.InDelta(t, naturalTestosterone, snap.Labs.TotalTestosterone, 1e-9)
	assert.Equal(t, naturalFreeFraction, snap.Labs.FreeTestFraction)
	assert.Zero(t, snap.Load.Total)
	assert.Equal(t, AxisBalanced, snap.Load.Dominant)
	assert.Equal(t, 1.0, snap.Load.PenaltyMultiplier)
	assert.False(t, snap.Load.IsCritical)
	assert.Empty(t, snap.LabFlags)
	assert.Equal(t, CNSFlat, snap.CNS.State)
}

func TestSHBGCorrectionIsSinglePass(t *testing.T) {
	ref := reference(t)
	profile := pkpd.DefaultProfile()
	s := pkpd.Stack{
		{Compound: "testosterone", Dose: 500, Frequency: 2},
		{Compound: "nandrolone", Dose: 300, Frequency: 2},
	}
	snap := CalculateCycleMetrics(ref, s, Options{Profile: profile})
	require.NotEmpty(t, snap.SHBG.FreeFractions)

	loads := kinetics.Normalize(ref, s, profile.Normalized())
	first := aromatase.Estimate(ref, loads, nil, profile.Normalized())
	assert.Equal(t, first.Estradiol, snap.InitialEstradiol)
	assert.Equal(t, binding.SHBG(ref, loads, snap.InitialEstradiol, profile.Normalized()), snap.SHBG)
	assert.Equal(t, aromatase.Estimate(ref, loads, snap.SHBG.FreeFractions, profile.Normalized()), snap.Aromatase)
	assert.Less(t, snap.Aromatase.Estradiol, snap.InitialEstradiol)
}

func TestOrganSupport(t *testing.T) {
	ref := reference(t)

	t.Run("reference dose", func(t *testing.T) {
		s := CalculateOrganSupport(ref, []kinetics.Load{{Compound: "tudca", Class: pkpd.Support, WeeklyMg: 3500}})
		assert.InDelta(t, 0.3, s.Hepatic, 1e-9)
		assert.Zero(t, s.Renal)
	})

	t.Run("contribution and total caps", func(t *testing.T) {
		s := CalculateOrganSupport(ref, []kinetics.Load{
			{Compound: "tudca", Class: pkpd.Support, WeeklyMg: 70000},
			{Compound: "nac", Class: pkpd.Support, WeeklyMg: 70000},
		})
		assert.Equal(t, MaxSupportShield, s.Hepatic)
		assert.Equal(t, MaxSupportContribution, s.Renal)
	})

	t.Run("ignores non-support", func(t *testing.T) {
		s := CalculateOrganSupport(ref, []kinetics.Load{{Compound: "dianabol", Class: pkpd.Oral, WeeklyMg: 350}})
		assert.Equal(t, Shield{}, s)
	})
}

func TestOralSurgeMarksCritical(t *testing.T) {
	ref := reference(t)
	dbol := pkpd.Stack{{Compound: "dianabol", Dose: 50}}

	bare := CalculateCycleMetrics(ref, dbol, defaultOptions())
	assert.True(t, bare.Load.IsCritical)
	assert.Equal(t, AxisHepatic, bare.Load.Dominant)

	shielded := CalculateCycleMetrics(ref, append(dbol, pkpd.StackEntry{Compound: "tudca", Dose: 500}), defaultOptions())
	assert.False(t, shielded.Load.IsCritical)
	assert.Less(t, shielded.Load.Hepatic, bare.Load.Hepatic)
	assert.Less(t, shielded.Labs.ALT, bare.Labs.ALT)
}

func TestHigherDoseRaisesLoadAndGains(t *testing.T) {
	ref := reference(t)
	low := CalculateCycleMetrics(ref, pkpd.Stack{{Compound: "testosterone", Dose: 300}}, defaultOptions())
	high := CalculateCycleMetrics(ref, pkpd.Stack{{Compound: "testosterone", Dose: 900}}, defaultOptions())

	assert.Greater(t, high.Load.Cardio, low.Load.Cardio)
	assert.Greater(t, high.Gains.Hypertrophy, low.Gains.Hypertrophy)
	assert.Less(t, high.Labs.HDL, low.Labs.HDL)
	assert.Greater(t, high.Labs.TotalTestosterone, low.Labs.TotalTestosterone)
	assert.Greater(t, high.Labs.Estradiol, low.Labs.Estradiol)
	assert.LessOrEqual(t, high.Efficiency, low.Efficiency)
}

func TestFreeTestosteroneFraction(t *testing.T) {
	snap := CalculateCycleMetrics(reference(t), pkpd.Stack{{Compound: "testosterone", Dose: 500}}, defaultOptions())

	require.Greater(t, snap.Labs.FreeTestFraction, 0.0)
	require.LessOrEqual(t, snap.Labs.FreeTestFraction, 1.0)
	assert.InDelta(t, snap.Labs.TotalTestosterone*snap.Labs.FreeTestFraction, snap.Labs.FreeTestosterone, 1e-9)
	assert.InDelta(t, snap.SHBG.FreeFraction("testosterone"), snap.Labs.FreeTestFraction, 1e-9)
	assert.LessOrEqual(t, snap.FreeSaturationMg, snap.TotalSaturationMg)
}

func TestBaselineLabsShiftProjection(t *testing.T) {
	ref := reference(t)
	stack := pkpd.Stack{{Compound: "testosterone", Dose: 500}}

	def := CalculateCycleMetrics(ref, stack, defaultOptions())
	opts := defaultOptions()
	opts.Baseline = BaselineLabs{HDL: 40, Creatinine: 1.2}
	own := CalculateCycleMetrics(ref, stack, opts)

	assert.InDelta(t, def.Labs.HDL-15, own.Labs.HDL, 1e-9)
	assert.InDelta(t, def.Labs.Creatinine+0.3, own.Labs.Creatinine, 1e-9)
	assert.Equal(t, def.Labs.LDL, own.Labs.LDL)
}

func TestCheckLabs(t *testing.T) {
	healthy := Labs{HDL: 55, LDL: 90, ALT: 25, AST: 25, Creatinine: 0.9, Hematocrit: 45}

	tests := []struct {
		name    string
		mutate  func(*Labs)
		flags   int
		penalty float64
	}{
		{"healthy", func(*Labs) {}, 0, 1},
		{"hdl warning", func(l *Labs) { l.HDL = 33 }, 1, 1},
		{"hdl critical", func(l *Labs) { l.HDL = 25 }, 1, 1.3},
		{"hdl severe", func(l *Labs) { l.HDL = 15 }, 1, 1.9},
		{"liver shares one penalty", func(l *Labs) { l.ALT, l.AST = 90, 95 }, 2, 1.4},
		{"creatinine", func(l *Labs) { l.Creatinine = 1.5 }, 1, 1.5},
		{"hematocrit warning", func(l *Labs) { l.Hematocrit = 53 }, 1, 1},
		{"hematocrit critical", func(l *Labs) { l.Hematocrit = 55 }, 1, 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := healthy
			tt.mutate(&l)
			flags, penalty := CheckLabs(l)
			assert.Len(t, flags, tt.flags)
			assert.InDelta(t, tt.penalty, penalty, 1e-9)
		})
	}
}

func TestCNSProfile(t *testing.T) {
	tests := []struct {
		drive, drag, neuro float64
		want               CNSState
	}{
		{0, 0, 0, CNSFlat},
		{6, 0, 10, CNSWired},
		{1, 3, 20, CNSFatigued},
		{2, 0, 10, CNSBalanced},
	}
	for _, tt := range tests {
		p := cnsProfile(tt.drive, tt.drag, tt.neuro)
		assert.Equal(t, tt.want, p.State, "drive=%v drag=%v neuro=%v", tt.drive, tt.drag, tt.neuro)
		assert.InDelta(t, p.Drive-p.Fatigue, p.Net, 1e-9)
	}
}

func TestAxesStayBounded(t *testing.T) {
	snap := CalculateCycleMetrics(reference(t), pkpd.Stack{
		{Compound: "anadrol", Dose: 150},
		{Compound: "trenbolone", Dose: 150, Frequency: 7},
		{Compound: "testosterone", Dose: 2000},
	}, defaultOptions())

	for _, v := range []float64{snap.Load.Cardio, snap.Load.Hepatic, snap.Load.Renal, snap.Load.Neuro, snap.Load.Total} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.LessOrEqual(t, snap.Gains.Composite, maxGain)
	assert.LessOrEqual(t, snap.Labs.Hematocrit, maxHematocrit)
	assert.GreaterOrEqual(t, snap.Labs.HDL, minHDL)
	assert.Less(t, snap.Receptor.Occupied, 1.0)
}
