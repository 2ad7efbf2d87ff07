package adapter

import (
	"context"

	"github.com/roach88/herald/internal/ir"
)

// Adapter binds one business-object type into the engine.
//
// ApplyEffects is the only mutating operation. It is not idempotent across
// calls: reapplying an effect leaves set-valued results unchanged but still
// emits a transcript, so callers apply once per evaluation pass.
type Adapter interface {
	// ContentType names the object type, e.g. "differential".
	ContentType() string

	// SupportsRuleType reports whether rules of scope can target this type.
	SupportsRuleType(scope ir.RuleScope) bool

	// Fields lists the adapter's fields followed by inherited base fields.
	Fields() []ir.FieldID

	// RepetitionOptions lists the repetition policies rules may use.
	RepetitionOptions() []ir.RepetitionPolicy

	// Actions lists the actions rules of scope may take. An unsupported
	// scope yields none.
	Actions(scope ir.RuleScope) []ir.ActionID

	// HeraldField returns the current value of field on the bound object.
	// Unknown fields fail with an UnknownField error.
	HeraldField(ctx context.Context, field ir.FieldID) (ir.IRValue, error)

	// ApplyEffects applies effects in order and returns one transcript per
	// effect, in the same order.
	ApplyEffects(effects []ir.Effect) []ir.ApplyTranscript

	// PHID identifies the bound object.
	PHID() (string, error)

	// HeraldName is the bound object's display name.
	HeraldName() (string, error)
}

// baseFieldOrder is appended after every adapter's own fields.
var baseFieldOrder = []ir.FieldID{ir.FieldAlways, ir.FieldRule}

var baseFields = NewFields[*Base]().
	Register(ir.FieldAlways, func(context.Context, *Base) (ir.IRValue, error) {
		return ir.IRBool(true), nil
	}).
	Register(ir.FieldRule, func(context.Context, *Base) (ir.IRValue, error) {
		// The condition engine substitutes the rule under evaluation.
		return ir.IRNull{}, nil
	}).
	Register(ir.FieldNewObject, func(_ context.Context, b *Base) (ir.IRValue, error) {
		return ir.IRBool(b.newObject), nil
	})

// Base carries the behavior all adapters share: base field resolution,
// inherited actions, and the standard applier. Concrete adapters embed it
// and fall through to it for anything they do not handle.
type Base struct {
	contentType string
	newObject   bool
	standard    *Standard
}

// NewBase creates the shared part of an adapter of contentType.
func NewBase(contentType string, custom ...CustomAction) *Base {
	return &Base{
		contentType: contentType,
		standard:    NewStandard(contentType, custom...),
	}
}

// ContentType names the object type.
func (b *Base) ContentType() string {
	return b.contentType
}

// SetNewObject marks whether the object is being created in this pass.
func (b *Base) SetNewObject(isNew bool) {
	b.newObject = isNew
}

// BaseFields lists the fields every adapter inherits.
func (b *Base) BaseFields() []ir.FieldID {
	return baseFieldOrder
}

// HeraldField resolves base fields.
// Anything else fails with an UnknownField error.
func (b *Base) HeraldField(ctx context.Context, field ir.FieldID) (ir.IRValue, error) {
	v, ok, err := baseFields.Resolve(ctx, b, field)
	if !ok {
		return nil, NewUnknownFieldError(field)
	}
	return v, err
}

// InheritedActions lists the custom actions rules of scope may use, with
// ActionNothing last.
func (b *Base) InheritedActions(scope ir.RuleScope) []ir.ActionID {
	return append(b.standard.CustomActions(scope), ir.ActionNothing)
}

// Standard returns the composed standard applier.
func (b *Base) Standard() *Standard {
	return b.standard
}
