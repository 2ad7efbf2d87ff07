package differential

import (
	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/ir"
)

// Transcript messages for revision actions.
const (
	MsgAddedReviewers         = "Added reviewers."
	MsgAddedBlockingReviewers = "Added blocking reviewers."
	MsgAppliedBuildPlans      = "Applied build plans."
	MsgRequiredSignatures     = "Required signatures."
)

// Result accumulates the review-state changes of one pass.
//
// Blocking is a subset of Reviewers. Once a reviewer is blocking it stays
// blocking for the rest of the pass, whatever order the effects arrive in.
// BuildPlans and SignatureDocuments keep duplicates.
type Result struct {
	Reviewers          adapter.Set
	Blocking           adapter.Set
	BuildPlans         []string
	SignatureDocuments []string
}

// ApplyEffects applies effects to res in order. Revision actions are handled
// here; everything else goes to std. It returns exactly one transcript per
// effect, in input order. A failed effect does not stop later ones and
// nothing is rolled back.
func ApplyEffects(effects []ir.Effect, res *Result, std adapter.StandardApplier) []ir.ApplyTranscript {
	transcripts := make([]ir.ApplyTranscript, 0, len(effects))
	for _, effect := range effects {
		transcripts = append(transcripts, applyEffect(effect, res, std))
	}
	return transcripts
}

func applyEffect(effect ir.Effect, res *Result, std adapter.StandardApplier) ir.ApplyTranscript {
	switch effect.Action {
	case ir.ActionAddReviewers:
		res.Reviewers.Add(effect.Target...)
		return ir.NewApplyTranscript(effect, true, MsgAddedReviewers)
	case ir.ActionAddBlockingReviewers:
		res.Reviewers.Add(effect.Target...)
		res.Blocking.Add(effect.Target...)
		return ir.NewApplyTranscript(effect, true, MsgAddedBlockingReviewers)
	case ir.ActionApplyBuildPlans:
		res.BuildPlans = append(res.BuildPlans, effect.Target...)
		return ir.NewApplyTranscript(effect, true, MsgAppliedBuildPlans)
	case ir.ActionRequireSignature:
		res.SignatureDocuments = append(res.SignatureDocuments, effect.Target...)
		return ir.NewApplyTranscript(effect, true, MsgRequiredSignatures)
	default:
		return std.ApplyStandardEffect(effect)
	}
}
