package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/herald/internal/fixture"
	"github.com/roach88/herald/internal/ir"
)

// Scenario is one evaluation pass and what it should produce.
type Scenario struct {
	// Name identifies the scenario and its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// WorldFile is a fixture world, relative to the scenario file.
	// Exclusive with World.
	WorldFile string `yaml:"world_file,omitempty"`

	// World is an inline fixture world.
	World *fixture.Document `yaml:"world,omitempty"`

	// Object is the PHID of the revision to evaluate.
	Object string `yaml:"object"`

	// NewObject marks the revision as being created in this pass.
	NewObject bool `yaml:"new_object,omitempty"`

	// ExplicitReviewers, when set, overrides the reviewers field.
	ExplicitReviewers map[string]string `yaml:"explicit_reviewers,omitempty"`

	// Effects are applied in order. An effect without an object targets
	// Object.
	Effects []EffectStep `yaml:"effects"`

	Expect Expect `yaml:"expect"`

	// dir is the directory of the scenario file, for resolving WorldFile.
	dir string
}

// EffectStep is one effect as written in a scenario.
type EffectStep struct {
	Object string   `yaml:"object,omitempty"`
	Action string   `yaml:"action"`
	Target []string `yaml:"target,omitempty"`
	Reason string   `yaml:"reason,omitempty"`
	Rule   RuleStep `yaml:"rule"`
}

// RuleStep identifies the rule behind an effect.
type RuleStep struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name,omitempty"`
	Author string `yaml:"author,omitempty"`
	Scope  string `yaml:"scope"`
}

// Expect lists what a pass should produce. Nil fields are not checked.
type Expect struct {
	// Error, when set, expects the pass to fail with an error whose text
	// contains it. Other expectations are then ignored.
	Error string `yaml:"error,omitempty"`

	Transcripts []ExpectTranscript `yaml:"transcripts,omitempty"`
	Reviewers   []string           `yaml:"reviewers,omitempty"`
	Blocking    []string           `yaml:"blocking,omitempty"`
	BuildPlans  []string           `yaml:"build_plans,omitempty"`
	Signatures  []string           `yaml:"signatures,omitempty"`
	Email       []string           `yaml:"email,omitempty"`
	CC          []string           `yaml:"cc,omitempty"`

	// Fields are compared as canonical JSON against the pass snapshot.
	Fields map[string]any `yaml:"fields,omitempty"`
}

// ExpectTranscript is the expected outcome of the effect at the same index.
type ExpectTranscript struct {
	Applied bool `yaml:"applied"`

	// Reason, when set, must equal the transcript's message.
	Reason string `yaml:"reason,omitempty"`
}

// LoadScenario reads a scenario file. Unknown keys are rejected so typos
// fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &s, nil
}

// LoadScenarios reads every *.yaml scenario in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Object == "" {
		return fmt.Errorf("object is required")
	}
	switch {
	case s.WorldFile == "" && s.World == nil:
		return fmt.Errorf("world or world_file is required")
	case s.WorldFile != "" && s.World != nil:
		return fmt.Errorf("world and world_file are exclusive")
	}
	for i, e := range s.Effects {
		if e.Action == "" {
			return fmt.Errorf("effects[%d]: action is required", i)
		}
		if e.Rule.ID == "" {
			return fmt.Errorf("effects[%d]: rule.id is required", i)
		}
		if _, err := ir.ParseRuleScope(e.Rule.Scope); err != nil {
			return fmt.Errorf("effects[%d]: %w", i, err)
		}
	}
	if n := len(s.Expect.Transcripts); n != 0 && n != len(s.Effects) {
		return fmt.Errorf("expect.transcripts has %d entries for %d effects", n, len(s.Effects))
	}
	return nil
}

// effects converts the scenario's steps into IR effects.
func (s *Scenario) effects() []ir.Effect {
	out := make([]ir.Effect, 0, len(s.Effects))
	for _, e := range s.Effects {
		object := e.Object
		if object == "" {
			object = s.Object
		}
		rule := ir.RuleRef{
			ID:         e.Rule.ID,
			Name:       e.Rule.Name,
			AuthorPHID: e.Rule.Author,
			Scope:      ir.RuleScope(e.Rule.Scope),
		}
		out = append(out, ir.NewEffect(object, ir.ActionID(e.Action), e.Target, rule, e.Reason))
	}
	return out
}

// world builds the scenario's fixture world.
func (s *Scenario) world() (*fixture.World, error) {
	if s.World != nil {
		return fixture.New(*s.World)
	}
	path := s.WorldFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}
	return fixture.LoadFile(path)
}
