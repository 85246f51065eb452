package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/refdata"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Goal != DefaultGoal {
		t.Errorf("expected goal %s, got %s", DefaultGoal, cfg.Goal)
	}
	if len(cfg.Stack) == 0 {
		t.Error("default stack should not be empty")
	}
	if cfg.Serum.DtHours <= 0 {
		t.Error("dt should be positive")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lean_mass", "test_primo")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Stack) != 2 {
		t.Errorf("expected 2 entries, got %d", len(cfg.Stack))
	}

	cfg.Stack[0].Dose = 9999
	if again := GetPreset("lean_mass", "test_primo"); again.Stack[0].Dose == 9999 {
		t.Error("expected GetPreset to return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("lean_mass", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "trt"); cfg != nil {
		t.Error("expected nil for nonexistent goal")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("lean_mass")
	if len(presets) == 0 {
		t.Error("expected presets for lean_mass")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("expected sorted names, got %v", presets)
		}
	}

	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent goal")
	}
}

func TestPresetsValidate(t *testing.T) {
	ref, err := refdata.Default()
	if err != nil {
		t.Fatalf("load reference: %v", err)
	}
	for _, goal := range Goals() {
		for _, name := range ListPresets(goal) {
			cfg := GetPreset(goal, name)
			if err := cfg.Validate(ref); err != nil {
				t.Errorf("preset %s/%s: %v", goal, name, err)
			}
			if cfg.Goal != goal {
				t.Errorf("preset %s/%s: goal %s", goal, name, cfg.Goal)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	ref, err := refdata.Default()
	if err != nil {
		t.Fatalf("load reference: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Goal = "bulk_forever"
	cfg.Stack = append(cfg.Stack, pkpd.StackEntry{Compound: "unobtainium", Dose: -5})

	err = cfg.Validate(ref)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []error{pkpd.ErrUnknownGoal, pkpd.ErrUnknownCompound, pkpd.ErrInvalidStack} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("strength", "test_tren")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("goal: strength\nstack:\n  - compound: trenbolone\n    dose: 50\n    frequency: ED\n    ester: acetate\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Goal != "strength" {
		t.Errorf("expected goal strength, got %s", cfg.Goal)
	}
	if len(cfg.Stack) != 1 || cfg.Stack[0].Frequency != 7 {
		t.Errorf("expected one daily entry, got %+v", cfg.Stack)
	}
	if cfg.Profile.Age != pkpd.DefaultAge {
		t.Errorf("expected default age, got %f", cfg.Profile.Age)
	}
	if cfg.EvidenceBlend != pkpd.DefaultEvidenceBlend {
		t.Errorf("expected default blend, got %f", cfg.EvidenceBlend)
	}
}

func TestConfigEvaluateProtocol(t *testing.T) {
	ref, err := refdata.Default()
	if err != nil {
		t.Fatalf("load reference: %v", err)
	}
	cfg := DefaultConfig()
	if res := cfg.Evaluate(ref); res.Penalties != nil {
		t.Error("expected no penalties without a protocol")
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("goal: lean_mass\nprotocol:\n  cycle_weeks: 20\n"), 0644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Protocol == nil || loaded.Protocol.CycleWeeks != 20 {
		t.Fatalf("expected a 20 week protocol, got %+v", loaded.Protocol)
	}
	res := loaded.Evaluate(ref)
	if res.Penalties == nil || res.Penalties.TimeFactor <= 1 {
		t.Errorf("expected duration scaling, got %+v", res.Penalties)
	}
}
