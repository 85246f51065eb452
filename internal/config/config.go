package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/serum"
	"github.com/san-kum/physiosim/internal/stack"
	"github.com/san-kum/physiosim/internal/systemic"
)

const (
	DefaultGoal      = "lean_mass"
	DefaultTestDose  = 250.0
	DefaultTestFreq  = 2.0
	DefaultDtHours   = serum.DefaultDtHours
	DefaultSerumDays = 0.0
)

// Config is one run: who takes what, and what they optimize for.
type Config struct {
	Name          string                `yaml:"name,omitempty" json:"name,omitempty"`
	Goal          string                `yaml:"goal" json:"goal"`
	Profile       pkpd.UserProfile      `yaml:"profile" json:"profile"`
	Stack         pkpd.Stack            `yaml:"stack" json:"stack"`
	Sensitivities pkpd.Sensitivities    `yaml:"sensitivities" json:"sensitivities"`
	EvidenceBlend float64               `yaml:"evidence_blend" json:"evidence_blend"`
	Serum         serum.Config          `yaml:"serum" json:"serum"`
	BaselineLabs  systemic.BaselineLabs `yaml:"baseline_labs,omitempty" json:"baseline_labs,omitempty"`
	// Protocol enables the scheduling and cycle penalties when set.
	Protocol *stack.Protocol `yaml:"protocol,omitempty" json:"protocol,omitempty"`
}

// Evaluate scores the run, with protocol penalties when a Protocol is set.
func (c *Config) Evaluate(ref *pkpd.Reference) stack.Result {
	if c.Protocol != nil {
		return stack.EvaluateProtocol(ref, c.Stack, c.Profile, c.Goal, c.Sensitivities, c.EvidenceBlend, *c.Protocol)
	}
	return stack.Evaluate(ref, c.Stack, c.Profile, c.Goal, c.Sensitivities, c.EvidenceBlend)
}

func DefaultConfig() *Config {
	return &Config{
		Goal:    DefaultGoal,
		Profile: pkpd.DefaultProfile(),
		Stack: pkpd.Stack{
			{Compound: "testosterone", Dose: DefaultTestDose, Frequency: DefaultTestFreq, Ester: "enanthate"},
		},
		Sensitivities: pkpd.DefaultSensitivities(),
		EvidenceBlend: pkpd.DefaultEvidenceBlend,
		Serum:         serum.Config{DtHours: DefaultDtHours, DurationDays: DefaultSerumDays},
	}
}

// Load unmarshals path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the config against the reference tables and reports every
// problem at once.
func (c *Config) Validate(ref *pkpd.Reference) error {
	var errs []error
	if _, ok := ref.Goal(c.Goal); !ok {
		errs = append(errs, &pkpd.ValidationError{Field: "goal", Value: c.Goal, Wrapped: pkpd.ErrUnknownGoal})
	}
	if len(c.Stack) == 0 {
		errs = append(errs, &pkpd.ValidationError{Field: "stack", Value: 0, Wrapped: pkpd.ErrInvalidStack})
	}
	for i, e := range c.Stack {
		field := fmt.Sprintf("stack[%d]", i)
		if _, ok := ref.Compound(e.Compound); !ok {
			errs = append(errs, &pkpd.ValidationError{Field: field + ".compound", Value: e.Compound, Wrapped: pkpd.ErrUnknownCompound})
		}
		if e.Dose < 0 || e.FrontLoadDose < 0 {
			errs = append(errs, &pkpd.ValidationError{Field: field + ".dose", Value: e.Dose, Wrapped: pkpd.ErrInvalidStack})
		}
	}
	if c.EvidenceBlend < 0 || c.EvidenceBlend > 1 {
		errs = append(errs, &pkpd.ValidationError{Field: "evidence_blend", Value: c.EvidenceBlend, Wrapped: pkpd.ErrInvalidStack})
	}
	return errors.Join(errs...)
}

func (c *Config) SystemicOptions() systemic.Options {
	return systemic.Options{Profile: c.Profile, Baseline: c.BaselineLabs}
}

// Clone returns a copy that shares nothing mutable with c.
func (c *Config) Clone() *Config {
	out := *c
	out.Stack = c.Stack.Clone()
	out.Sensitivities = make(pkpd.Sensitivities, len(c.Sensitivities))
	for k, v := range c.Sensitivities {
		out.Sensitivities[k] = v
	}
	return &out
}
