package config

import (
	"sort"

	"github.com/san-kum/physiosim/internal/pkpd"
)

func preset(name, goal string, stack pkpd.Stack, mutate ...func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Goal = goal
	cfg.Stack = stack
	for _, m := range mutate {
		m(cfg)
	}
	return cfg
}

// Presets holds named regimens grouped by goal preset.
var Presets = map[string]map[string]*Config{
	"lean_mass": {
		"trt": preset("trt", "lean_mass", pkpd.Stack{
			{Compound: "testosterone", Dose: 75, Frequency: 2, Ester: "cypionate"},
		}),
		"test_base": preset("test_base", "lean_mass", pkpd.Stack{
			{Compound: "testosterone", Dose: 250, Frequency: 2, Ester: "enanthate"},
		}),
		"test_primo": preset("test_primo", "lean_mass", pkpd.Stack{
			{Compound: "testosterone", Dose: 200, Frequency: 2, Ester: "enanthate"},
			{Compound: "primobolan", Dose: 300, Frequency: 2},
		}),
		"dbol_kickstart": preset("dbol_kickstart", "lean_mass", pkpd.Stack{
			{Compound: "testosterone", Dose: 250, Frequency: 2, Ester: "enanthate", FrontLoadDose: 600},
			{Compound: "dianabol", Dose: 25, Frequency: 7},
			{Compound: "tudca", Dose: 500, Frequency: 7},
		}),
	},
	"dry_cosmetic": {
		"test_masteron": preset("test_masteron", "dry_cosmetic", pkpd.Stack{
			{Compound: "testosterone", Dose: 150, Frequency: 2, Ester: "enanthate"},
			{Compound: "masteron", Dose: 200, Frequency: 2},
		}),
		"cut_finish": preset("cut_finish", "dry_cosmetic", pkpd.Stack{
			{Compound: "testosterone", Dose: 125, Frequency: 2, Ester: "enanthate"},
			{Compound: "anavar", Dose: 40, Frequency: 7},
			{Compound: "arimidex", Dose: 0.5, Frequency: 3.5},
		}, func(c *Config) { c.Profile.DietState = pkpd.DietCutting }),
	},
	"joint_friendly": {
		"test_deca": preset("test_deca", "joint_friendly", pkpd.Stack{
			{Compound: "testosterone", Dose: 250, Frequency: 2, Ester: "enanthate"},
			{Compound: "nandrolone", Dose: 150, Frequency: 2, Ester: "decanoate"},
		}),
		"test_eq": preset("test_eq", "joint_friendly", pkpd.Stack{
			{Compound: "testosterone", Dose: 250, Frequency: 2, Ester: "enanthate"},
			{Compound: "eq", Dose: 200, Frequency: 2},
		}),
	},
	"strength": {
		"test_tren": preset("test_tren", "strength", pkpd.Stack{
			{Compound: "testosterone", Dose: 250, Frequency: 2, Ester: "enanthate"},
			{Compound: "trenbolone", Dose: 50, Frequency: 7, Ester: "acetate"},
		}, func(c *Config) { c.Profile.TrainingStyle = pkpd.TrainingPowerlifting }),
		"meet_prep": preset("meet_prep", "strength", pkpd.Stack{
			{Compound: "testosterone", Dose: 300, Frequency: 2, Ester: "enanthate"},
			{Compound: "anadrol", Dose: 50, Frequency: 7},
			{Compound: "nac", Dose: 1200, Frequency: 7},
			{Compound: "tudca", Dose: 500, Frequency: 7},
		}, func(c *Config) { c.Profile.TrainingStyle = pkpd.TrainingPowerlifting }),
	},
}

// GetPreset returns a copy of a named preset, or nil.
func GetPreset(goal, name string) *Config {
	goalPresets, ok := Presets[goal]
	if !ok {
		return nil
	}
	cfg, ok := goalPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of a goal in lexical order.
func ListPresets(goal string) []string {
	goalPresets, ok := Presets[goal]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(goalPresets))
	for name := range goalPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Goals lists the goals that have presets.
func Goals() []string {
	goals := make([]string, 0, len(Presets))
	for g := range Presets {
		goals = append(goals, g)
	}
	sort.Strings(goals)
	return goals
}
