package queryir

import "github.com/roach88/herald/internal/ir"

// Query is a sealed interface over query nodes.
type Query interface {
	queryNode()
}

// Predicate is a sealed interface over filter nodes.
type Predicate interface {
	predicateNode()
}

// Field names a filterable transcript attribute.
type Field string

// Transcript fields.
const (
	FieldPassToken  Field = "pass_token"
	FieldIndex      Field = "idx"
	FieldEffectID   Field = "effect_id"
	FieldObjectPHID Field = "object_phid"
	FieldAction     Field = "action"
	FieldRuleID     Field = "rule_id"
	FieldRuleAuthor Field = "rule_author"
	FieldRuleScope  Field = "rule_scope"
	FieldApplied    Field = "applied"
)

// Kind is the value type a field holds.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

var fieldKinds = map[Field]Kind{
	FieldPassToken:  KindString,
	FieldIndex:      KindInt,
	FieldEffectID:   KindString,
	FieldObjectPHID: KindString,
	FieldAction:     KindString,
	FieldRuleID:     KindString,
	FieldRuleAuthor: KindString,
	FieldRuleScope:  KindString,
	FieldApplied:    KindBool,
}

// KindOf returns the value type of f, or false for an unknown field.
func KindOf(f Field) (Kind, bool) {
	k, ok := fieldKinds[f]
	return k, ok
}

// Transcripts selects stored transcripts matching Filter, oldest pass
// first and in effect order within a pass. A nil Filter matches every
// transcript. Limit caps the result; zero means no limit.
type Transcripts struct {
	Filter Predicate
	Limit  int
}

func (Transcripts) queryNode() {}

// Equals matches when Field equals Value.
type Equals struct {
	Field Field
	Value ir.IRValue
}

func (Equals) predicateNode() {}

// In matches when Field equals any of Values. An empty In matches nothing.
type In struct {
	Field  Field
	Values []ir.IRValue
}

func (In) predicateNode() {}

// And matches when every predicate matches. An empty And matches
// everything.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Eq is shorthand for an Equals on a string field.
func Eq(f Field, s string) Equals {
	return Equals{Field: f, Value: ir.IRString(s)}
}

// AllOf builds an And, dropping nil predicates. A single remaining
// predicate is returned as is, and none yields nil.
func AllOf(preds ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Predicates: kept}
	}
}
