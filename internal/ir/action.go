package ir

import "fmt"

// ActionID names something a rule can do to an object.
type ActionID string

// Standard actions, applied by the shared standard applier.
const (
	ActionAddCC    ActionID = "add-cc"
	ActionRemoveCC ActionID = "remove-cc"
	ActionEmail    ActionID = "email"
	ActionFlag     ActionID = "flag"
	ActionNothing  ActionID = "nothing"
)

// Differential revision actions.
const (
	ActionAddReviewers         ActionID = "add-reviewers"
	ActionAddBlockingReviewers ActionID = "add-blocking-reviewers"
	ActionApplyBuildPlans      ActionID = "apply-build-plans"
	ActionRequireSignature     ActionID = "require-signature"
)

// TargetShape is the fixed arity of an action's target.
type TargetShape int

const (
	// TargetNone takes no target values.
	TargetNone TargetShape = iota
	// TargetScalar takes exactly one value.
	TargetScalar
	// TargetSet takes zero or more identifiers.
	TargetSet
)

func (s TargetShape) String() string {
	switch s {
	case TargetNone:
		return "none"
	case TargetScalar:
		return "scalar"
	case TargetSet:
		return "set"
	default:
		return fmt.Sprintf("TargetShape(%d)", int(s))
	}
}

var actionShapes = map[ActionID]TargetShape{
	ActionAddCC:                TargetSet,
	ActionRemoveCC:             TargetSet,
	ActionEmail:                TargetSet,
	ActionFlag:                 TargetScalar,
	ActionNothing:              TargetNone,
	ActionAddReviewers:         TargetSet,
	ActionAddBlockingReviewers: TargetSet,
	ActionApplyBuildPlans:      TargetSet,
	ActionRequireSignature:     TargetSet,
}

// ShapeOf returns the target shape of a known action.
// Returns false for actions this package does not define (custom actions
// declare their own shape).
func ShapeOf(id ActionID) (TargetShape, bool) {
	shape, ok := actionShapes[id]
	return shape, ok
}

// ValidationError represents a validation error with field path and message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CheckShape reports whether target fits shape.
func CheckShape(shape TargetShape, target []string) error {
	switch shape {
	case TargetNone:
		if len(target) != 0 {
			return ValidationError{Field: "target", Message: fmt.Sprintf("expected no target, got %d values", len(target))}
		}
	case TargetScalar:
		if len(target) != 1 {
			return ValidationError{Field: "target", Message: fmt.Sprintf("expected exactly one target, got %d values", len(target))}
		}
	}
	return nil
}
