package differential

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/ir"
)

// ContentType is the adapter's content type.
const ContentType = "differential"

// Adapter exposes one revision to the rule engine.
//
// An Adapter belongs to a single evaluation pass. It is not safe for
// concurrent use; run independent passes on independent adapters.
type Adapter struct {
	*adapter.Base

	src      DataSource
	revision *Revision
	diff     *Diff

	// nil means no override; an empty non-nil map overrides with nobody.
	explicitReviewers map[string]ReviewerStatus

	result Result

	changesets       adapter.Lazy[[]*Changeset]
	hunks            adapter.Lazy[[]*Changeset]
	repository       adapter.Lazy[*Repository]
	affectedPaths    adapter.Lazy[[]string]
	affectedPackages adapter.Lazy[[]Package]
	content          adapter.Lazy[map[string]string]
	addedContent     adapter.Lazy[map[string]string]
	removedContent   adapter.Lazy[map[string]string]
}

var _ adapter.Adapter = (*Adapter)(nil)

// New creates an adapter with no revision bound. Bind one with SetObject
// before evaluating.
func New(src DataSource, custom ...adapter.CustomAction) *Adapter {
	return &Adapter{
		Base: adapter.NewBase(ContentType, custom...),
		src:  src,
	}
}

// Load reloads revision id with relationships and reviewer status and binds
// it, together with diff, to a new adapter.
func Load(ctx context.Context, src DataSource, id int64, diff *Diff, custom ...adapter.CustomAction) (*Adapter, error) {
	rev, err := src.LoadRevision(ctx, Query{
		IDs:                []int64{id},
		NeedRelationships:  true,
		NeedReviewerStatus: true,
	})
	if err != nil {
		return nil, adapter.NewLoadError("", fmt.Sprintf("revision %d", id), err)
	}
	a := New(src, custom...)
	a.SetObject(rev, diff)
	slog.Debug("bound revision",
		"revision", rev.PHID,
		"diff", diffPHID(diff),
	)
	return a, nil
}

func diffPHID(d *Diff) string {
	if d == nil {
		return ""
	}
	return d.PHID
}

// SetObject binds rev and diff. diff may be nil when only revision fields
// are evaluated; diff-derived fields are then empty.
func (a *Adapter) SetObject(rev *Revision, diff *Diff) {
	a.revision = rev
	a.diff = diff
}

// Revision returns the bound revision, or nil.
func (a *Adapter) Revision() *Revision {
	return a.revision
}

// Diff returns the bound diff, or nil.
func (a *Adapter) Diff() *Diff {
	return a.diff
}

// SetExplicitReviewers overrides the reviewers field with the keys of
// reviewers. Passing nil removes the override.
func (a *Adapter) SetExplicitReviewers(reviewers map[string]ReviewerStatus) {
	if reviewers == nil {
		a.explicitReviewers = nil
		return
	}
	a.explicitReviewers = maps.Clone(reviewers)
}

// SupportsRuleType reports whether rules of scope can target revisions.
func (a *Adapter) SupportsRuleType(scope ir.RuleScope) bool {
	switch scope {
	case ir.ScopeGlobal, ir.ScopePersonal:
		return true
	default:
		return false
	}
}

// RepetitionOptions lists the repetition policies revision rules may use.
func (a *Adapter) RepetitionOptions() []ir.RepetitionPolicy {
	return []ir.RepetitionPolicy{ir.RepeatEvery, ir.RepeatFirst}
}

// PHID returns the bound revision's PHID.
func (a *Adapter) PHID() (string, error) {
	if a.revision == nil {
		return "", adapter.NewNoObjectError(ContentType)
	}
	return a.revision.PHID, nil
}

// HeraldName returns the bound revision's title.
func (a *Adapter) HeraldName() (string, error) {
	if a.revision == nil {
		return "", adapter.NewNoObjectError(ContentType)
	}
	return a.revision.Title, nil
}

// Result returns the review-state changes accumulated by ApplyEffects.
func (a *Adapter) Result() *Result {
	return &a.result
}

// StandardResult returns what the standard applier accumulated.
func (a *Adapter) StandardResult() *adapter.StandardResult {
	return a.Standard().Result()
}

// ReviewersAdded lists reviewers added by rules, in first-added order.
func (a *Adapter) ReviewersAdded() []string {
	return a.result.Reviewers.Slice()
}

// BlockingReviewersAdded lists reviewers rules marked blocking.
func (a *Adapter) BlockingReviewersAdded() []string {
	return a.result.Blocking.Slice()
}

// BuildPlans lists build plans to run, duplicates included.
func (a *Adapter) BuildPlans() []string {
	return slices.Clone(a.result.BuildPlans)
}

// RequiredSignatureDocumentPHIDs lists legal documents the author must
// sign, duplicates included.
func (a *Adapter) RequiredSignatureDocumentPHIDs() []string {
	return slices.Clone(a.result.SignatureDocuments)
}

// ApplyEffects applies effects to the adapter's own result.
func (a *Adapter) ApplyEffects(effects []ir.Effect) []ir.ApplyTranscript {
	return ApplyEffects(effects, &a.result, a.Standard())
}
