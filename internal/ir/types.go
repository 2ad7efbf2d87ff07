package ir

import (
	"fmt"
	"slices"
)

// FieldID names a value an adapter can extract from its object.
// Identifiers are versioned: an adapter may add new ones but must never
// change what an existing identifier means.
type FieldID string

// Base fields, resolved by every adapter.
const (
	FieldAlways    FieldID = "always"
	FieldRule      FieldID = "rule"
	FieldNewObject FieldID = "new-object"
)

// Differential revision fields.
const (
	FieldTitle                FieldID = "title"
	FieldBody                 FieldID = "body"
	FieldAuthor               FieldID = "author"
	FieldAuthorProjects       FieldID = "author-projects"
	FieldReviewers            FieldID = "reviewers"
	FieldCC                   FieldID = "cc"
	FieldRepository           FieldID = "repository"
	FieldRepositoryProjects   FieldID = "repository-projects"
	FieldDiffFile             FieldID = "diff-file"
	FieldDiffContent          FieldID = "diff-content"
	FieldDiffAddedContent     FieldID = "diff-added-content"
	FieldDiffRemovedContent   FieldID = "diff-removed-content"
	FieldAffectedPackage      FieldID = "affected-package"
	FieldAffectedPackageOwner FieldID = "affected-package-owner"
)

// RuleScope determines which actions a rule may take.
type RuleScope string

const (
	// ScopeGlobal rules are organization-wide and owned by administrators.
	ScopeGlobal RuleScope = "global"

	// ScopePersonal rules act on behalf of a single user.
	ScopePersonal RuleScope = "personal"

	// ScopeObject rules are attached to and triggered by one object.
	ScopeObject RuleScope = "object"
)

// ValidScopes lists every scope in declaration order.
var ValidScopes = []RuleScope{ScopeGlobal, ScopePersonal, ScopeObject}

// ParseRuleScope converts a string into a RuleScope.
// Returns error for anything outside ValidScopes.
func ParseRuleScope(s string) (RuleScope, error) {
	scope := RuleScope(s)
	if !slices.Contains(ValidScopes, scope) {
		return "", fmt.Errorf("invalid rule scope %q: must be global, personal, or object", s)
	}
	return scope, nil
}

// RepetitionPolicy controls whether a rule fires on every match or only the
// first. The "already fired" state is tracked by the condition engine.
type RepetitionPolicy string

const (
	RepeatEvery RepetitionPolicy = "every"
	RepeatFirst RepetitionPolicy = "first"
)

// ParseRepetitionPolicy converts a string into a RepetitionPolicy.
func ParseRepetitionPolicy(s string) (RepetitionPolicy, error) {
	switch RepetitionPolicy(s) {
	case RepeatEvery, RepeatFirst:
		return RepetitionPolicy(s), nil
	default:
		return "", fmt.Errorf("invalid repetition policy %q: must be every or first", s)
	}
}

// RuleRef identifies the rule an effect came from.
type RuleRef struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	AuthorPHID string    `json:"author_phid"`
	Scope      RuleScope `json:"scope"`
}

// Effect is one matched (rule, action) pair produced by the condition engine.
// Effects are never mutated after creation; build them with NewEffect.
type Effect struct {
	ObjectPHID string   `json:"object_phid"`
	Action     ActionID `json:"action"`
	Target     []string `json:"target"`
	Rule       RuleRef  `json:"rule"`
	Reason     string   `json:"reason,omitempty"`
}

// NewEffect creates an Effect, copying target so later changes to the
// caller's slice cannot leak into it.
func NewEffect(objectPHID string, action ActionID, target []string, rule RuleRef, reason string) Effect {
	return Effect{
		ObjectPHID: objectPHID,
		Action:     action,
		Target:     slices.Clone(target),
		Rule:       rule,
		Reason:     reason,
	}
}

// ApplyTranscript records the outcome of applying (or attempting) one effect.
type ApplyTranscript struct {
	Effect  Effect `json:"effect"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason"`
}

// NewApplyTranscript creates a transcript for effect. The target is copied
// so the transcript does not share memory with the caller's effect.
func NewApplyTranscript(effect Effect, applied bool, reason string) ApplyTranscript {
	effect.Target = slices.Clone(effect.Target)
	return ApplyTranscript{Effect: effect, Applied: applied, Reason: reason}
}
