package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/herald/internal/ir"
)

// PassSnapshot is the stable part of a scenario's outcome. Hashes are
// left out so golden files survive hashing changes.
type PassSnapshot struct {
	ScenarioName string
	Object       string
	Token        string
	Seq          int64
	Error        string
	Transcripts  []ir.StoredTranscript
	Reviewers    []string
	Blocking     []string
	BuildPlans   []string
	Signatures   []string
	Email        []string
	CC           []string
}

// NewPassSnapshot builds a snapshot from a scenario result.
func NewPassSnapshot(name string, r *Result) PassSnapshot {
	snap := PassSnapshot{
		ScenarioName: name,
		Transcripts:  r.Transcripts,
		Reviewers:    r.Reviewers,
		Blocking:     r.Blocking,
		BuildPlans:   r.BuildPlans,
		Signatures:   r.Signatures,
		Email:        []string{},
		CC:           []string{},
	}
	if r.Evaluation != nil {
		snap.Object = r.Evaluation.ObjectPHID
		snap.Token = r.Evaluation.Token
		snap.Seq = r.Evaluation.Seq
	}
	if r.EvalError != nil {
		snap.Error = r.EvalError.Error()
	}
	if r.Standard != nil {
		snap.Email = r.Standard.Email.Slice()
		snap.CC = r.Standard.AddCC.Slice()
	}
	return snap
}

// toCanonicalMap converts the snapshot for ir.MarshalCanonical, which only
// handles IR types and primitives.
func (s *PassSnapshot) toCanonicalMap() map[string]any {
	transcripts := make([]any, len(s.Transcripts))
	for i, t := range s.Transcripts {
		transcripts[i] = map[string]any{
			"index":   t.Index,
			"action":  string(t.Effect.Action),
			"target":  stringsOrEmpty(t.Effect.Target),
			"rule":    t.Effect.Rule.ID,
			"applied": t.Applied,
			"reason":  t.Reason,
		}
	}

	m := map[string]any{
		"scenario_name": s.ScenarioName,
		"transcripts":   transcripts,
		"reviewers":     stringsOrEmpty(s.Reviewers),
		"blocking":      stringsOrEmpty(s.Blocking),
		"build_plans":   stringsOrEmpty(s.BuildPlans),
		"signatures":    stringsOrEmpty(s.Signatures),
		"email":         stringsOrEmpty(s.Email),
		"cc":            stringsOrEmpty(s.CC),
	}
	if s.Error != "" {
		m["error"] = s.Error
		return m
	}
	m["object"] = s.Object
	m["token"] = s.Token
	m["seq"] = s.Seq
	return m
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s *PassSnapshot) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden runs scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snap := NewPassSnapshot(name, result)
	data, err := snap.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

func stringsOrEmpty(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
