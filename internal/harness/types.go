package harness

import (
	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/ir"
)

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Errors describes each failed expectation.
	Errors []string `json:"errors,omitempty"`

	// Evaluation is the pass as read back from the store. Nil when the pass
	// failed.
	Evaluation *ir.Pass `json:"evaluation,omitempty"`

	// Transcripts are the stored transcripts, in effect order.
	Transcripts []ir.StoredTranscript `json:"transcripts"`

	// EvalError is the pass-level error, if any.
	EvalError error `json:"-"`

	Reviewers  []string `json:"reviewers"`
	Blocking   []string `json:"blocking"`
	BuildPlans []string `json:"build_plans"`
	Signatures []string `json:"signatures"`

	Standard *adapter.StandardResult `json:"-"`
}

// NewResult creates a passing result with empty lists.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Errors:      []string{},
		Transcripts: []ir.StoredTranscript{},
		Reviewers:   []string{},
		Blocking:    []string{},
		BuildPlans:  []string{},
		Signatures:  []string{},
	}
}

// AddError records a failed expectation.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
