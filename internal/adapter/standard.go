package adapter

import (
	"fmt"

	"github.com/roach88/herald/internal/ir"
)

// Standard transcript messages.
const (
	MsgNothing        = "Did nothing."
	MsgEmail          = "Added mailable to mail targets."
	MsgAddCC          = "Added addresses to CC list."
	MsgRemoveCC       = "Removed addresses from CC list."
	MsgFlag           = "Added flag."
	MsgAlreadyFlagged = "Object already flagged."
	MsgFlagNoAuthor   = "Flag requires a rule author."
)

// StandardApplier applies the actions every adapter shares.
// It returns exactly one transcript per effect, success or failure.
type StandardApplier interface {
	ApplyStandardEffect(effect ir.Effect) ir.ApplyTranscript
}

// Flag is a colored marker placed on the object for one user.
type Flag struct {
	OwnerPHID string `json:"owner_phid"`
	Color     string `json:"color"`
	RuleID    string `json:"rule_id"`
}

// StandardResult accumulates what the standard actions did during a pass.
type StandardResult struct {
	Email    Set
	AddCC    Set
	RemoveCC Set
	Flags    []Flag
}

// Standard is the shared applier for email, CC, flag, nothing, and custom
// actions. Adapters compose one and forward anything they do not handle.
type Standard struct {
	contentType string
	custom      map[ir.ActionID]CustomAction
	order       []CustomAction
	result      StandardResult
	flagged     map[string]bool
}

// NewStandard creates an applier for adapters of contentType. Custom actions
// that do not apply to contentType, or that reuse the ID of a built-in
// action, are ignored.
func NewStandard(contentType string, custom ...CustomAction) *Standard {
	s := &Standard{
		contentType: contentType,
		custom:      make(map[ir.ActionID]CustomAction),
		flagged:     make(map[string]bool),
	}
	for _, c := range custom {
		if !c.AppliesToAdapter(contentType) {
			continue
		}
		if _, builtin := ir.ShapeOf(c.ActionID()); builtin {
			continue
		}
		if _, dup := s.custom[c.ActionID()]; dup {
			continue
		}
		s.custom[c.ActionID()] = c
		s.order = append(s.order, c)
	}
	return s
}

// Result returns the accumulated standard-action state.
func (s *Standard) Result() *StandardResult {
	return &s.result
}

// ApplyStandardEffect applies one standard or custom effect.
func (s *Standard) ApplyStandardEffect(effect ir.Effect) ir.ApplyTranscript {
	if shape, ok := ir.ShapeOf(effect.Action); ok {
		if err := ir.CheckShape(shape, effect.Target); err != nil {
			return ir.NewApplyTranscript(effect, false, fmt.Sprintf("Invalid target: %v.", err))
		}
	}

	switch effect.Action {
	case ir.ActionNothing:
		return ir.NewApplyTranscript(effect, true, MsgNothing)

	case ir.ActionEmail:
		s.result.Email.Add(effect.Target...)
		return ir.NewApplyTranscript(effect, true, MsgEmail)

	case ir.ActionAddCC:
		s.result.AddCC.Add(effect.Target...)
		return ir.NewApplyTranscript(effect, true, MsgAddCC)

	case ir.ActionRemoveCC:
		s.result.RemoveCC.Add(effect.Target...)
		return ir.NewApplyTranscript(effect, true, MsgRemoveCC)

	case ir.ActionFlag:
		return s.applyFlag(effect)
	}

	if c, ok := s.custom[effect.Action]; ok {
		if err := ir.CheckShape(c.Shape(), effect.Target); err != nil {
			return ir.NewApplyTranscript(effect, false, fmt.Sprintf("Invalid target: %v.", err))
		}
		return c.Apply(effect)
	}

	err := NewUnsupportedActionError(effect.Action)
	return ir.NewApplyTranscript(effect, false, err.Error())
}

// applyFlag flags the object for the rule's author. Each author gets at
// most one flag per object.
func (s *Standard) applyFlag(effect ir.Effect) ir.ApplyTranscript {
	owner := effect.Rule.AuthorPHID
	if owner == "" {
		return ir.NewApplyTranscript(effect, false, MsgFlagNoAuthor)
	}
	if s.flagged[owner] {
		return ir.NewApplyTranscript(effect, false, MsgAlreadyFlagged)
	}
	s.flagged[owner] = true
	s.result.Flags = append(s.result.Flags, Flag{
		OwnerPHID: owner,
		Color:     effect.Target[0],
		RuleID:    effect.Rule.ID,
	})
	return ir.NewApplyTranscript(effect, true, MsgFlag)
}

// CustomActions returns the custom actions offered to rules of scope, in
// registration order.
func (s *Standard) CustomActions(scope ir.RuleScope) []ir.ActionID {
	var ids []ir.ActionID
	for _, c := range s.order {
		if c.AppliesToRuleType(scope) {
			ids = append(ids, c.ActionID())
		}
	}
	return ids
}
