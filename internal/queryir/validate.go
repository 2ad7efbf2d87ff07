package queryir

import (
	"errors"
	"fmt"

	"github.com/roach88/herald/internal/ir"
)

// Validate checks that every field in q is known and every value matches
// its field's kind. It reports all problems found, joined.
func Validate(q Query) error {
	v := &validator{}
	v.validateQuery(q)
	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) addError(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.addError("nil query")
	case Transcripts:
		v.validateTranscripts(query)
	case *Transcripts:
		v.validateTranscripts(*query)
	default:
		v.addError("unknown query type %T", q)
	}
}

func (v *validator) validateTranscripts(q Transcripts) {
	if q.Limit < 0 {
		v.addError("negative limit %d", q.Limit)
	}
	if q.Filter != nil {
		v.validatePredicate(q.Filter)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		v.addError("nil predicate")
	case Equals:
		v.validateValue(pred.Field, pred.Value)
	case *Equals:
		v.validateValue(pred.Field, pred.Value)
	case In:
		v.validateIn(pred)
	case *In:
		v.validateIn(*pred)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addError("unknown predicate type %T", p)
	}
}

func (v *validator) validateIn(in In) {
	if _, ok := KindOf(in.Field); !ok {
		v.addError("unknown field %q", in.Field)
		return
	}
	for _, val := range in.Values {
		v.validateValue(in.Field, val)
	}
}

func (v *validator) validateAnd(and And) {
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}

func (v *validator) validateValue(f Field, val ir.IRValue) {
	kind, ok := KindOf(f)
	if !ok {
		v.addError("unknown field %q", f)
		return
	}
	if got, ok := kindOfValue(val); !ok || got != kind {
		v.addError("field %q takes a %s, got %T", f, kind, val)
	}
}

func kindOfValue(val ir.IRValue) (Kind, bool) {
	switch val.(type) {
	case ir.IRString:
		return KindString, true
	case ir.IRInt:
		return KindInt, true
	case ir.IRBool:
		return KindBool, true
	default:
		return 0, false
	}
}
