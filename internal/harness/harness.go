package harness

import (
	"context"
	"fmt"

	"github.com/roach88/herald/internal/differential"
	"github.com/roach88/herald/internal/engine"
	"github.com/roach88/herald/internal/store"
)

// Run evaluates s and checks its expectations.
//
// The returned error is for scenarios that cannot run at all (bad world,
// unknown object, store failure). A pass that fails is reported in the
// result and checked against Expect.Error.
func Run(s *Scenario) (*Result, error) {
	ctx := context.Background()

	world, err := s.world()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	a, err := world.Bind(ctx, s.Object)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	a.SetNewObject(s.NewObject)
	if s.ExplicitReviewers != nil {
		reviewers := make(map[string]differential.ReviewerStatus, len(s.ExplicitReviewers))
		for phid, status := range s.ExplicitReviewers {
			reviewers[phid] = differential.ReviewerStatus(status)
		}
		a.SetExplicitReviewers(reviewers)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	defer st.Close()

	eng := engine.New(
		engine.WithTokenGenerator(&engine.SequentialGenerator{Prefix: s.Name}),
		engine.WithRecorder(st),
	)

	result := NewResult()
	pass, err := eng.Evaluate(ctx, a, s.effects())
	if err != nil {
		result.EvalError = err
		checkError(result, s.Expect.Error, err)
		return result, nil
	}

	stored, err := st.ReadPass(ctx, pass.Token)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	transcripts, err := st.ReadTranscripts(ctx, pass.Token)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	result.Evaluation = stored
	result.Transcripts = transcripts
	result.Reviewers = a.ReviewersAdded()
	result.Blocking = a.BlockingReviewersAdded()
	result.BuildPlans = nonNil(a.BuildPlans())
	result.Signatures = nonNil(a.RequiredSignatureDocumentPHIDs())
	result.Standard = a.StandardResult()

	checkExpect(result, s.Expect)
	return result, nil
}

// RunAll runs scenarios in order. A scenario that cannot run stops the
// batch; failed expectations do not.
func RunAll(scenarios []*Scenario) ([]*Result, error) {
	results := make([]*Result, 0, len(scenarios))
	for _, s := range scenarios {
		r, err := Run(s)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
