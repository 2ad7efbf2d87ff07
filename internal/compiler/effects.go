package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/herald/internal/ir"
)

// CompileEffects reads the effect list from an effect document.
//
// Each entry needs an action and a rule with an id and a valid scope. An
// entry's object defaults to the document's top-level object. Known actions
// are checked against their target shape and a mismatch rejects the whole
// document, so a pass never starts from a malformed file. Effects built in
// code skip this gate and get a failed transcript from the applier instead.
// Unknown actions pass through so the adapter can report them in a
// transcript.
func CompileEffects(v cue.Value) ([]ir.Effect, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}

	defaultObject := ""
	if obj := v.LookupPath(cue.ParsePath("object")); obj.Exists() {
		s, err := obj.String()
		if err != nil {
			return nil, formatCUEError("object", err)
		}
		defaultObject = s
	}

	list := v.LookupPath(cue.ParsePath("effect"))
	if !list.Exists() {
		return nil, &CompileError{Field: "effect", Message: "effect list is required", Pos: v.Pos()}
	}
	iter, err := list.List()
	if err != nil {
		return nil, formatCUEError("effect", err)
	}

	effects := []ir.Effect{}
	for i := 0; iter.Next(); i++ {
		e, err := compileEffect(iter.Value(), defaultObject, fmt.Sprintf("effect[%d]", i))
		if err != nil {
			return nil, err
		}
		effects = append(effects, e)
	}
	return effects, nil
}

func compileEffect(v cue.Value, defaultObject, path string) (ir.Effect, error) {
	object, err := optionalString(v, "object", path)
	if err != nil {
		return ir.Effect{}, err
	}
	if object == "" {
		object = defaultObject
	}
	if object == "" {
		return ir.Effect{}, &CompileError{Field: path + ".object", Message: "object is required when the document has no default", Pos: v.Pos()}
	}

	action, err := requiredString(v, "action", path)
	if err != nil {
		return ir.Effect{}, err
	}

	target, err := compileTarget(v, path)
	if err != nil {
		return ir.Effect{}, err
	}
	if shape, ok := ir.ShapeOf(ir.ActionID(action)); ok {
		if err := ir.CheckShape(shape, target); err != nil {
			return ir.Effect{}, &CompileError{
				Field:   path + ".target",
				Message: fmt.Sprintf("%s takes a %s target: %v", action, shape, err),
				Pos:     v.LookupPath(cue.ParsePath("target")).Pos(),
			}
		}
	}

	rule, err := compileRule(v, path)
	if err != nil {
		return ir.Effect{}, err
	}

	reason, err := optionalString(v, "reason", path)
	if err != nil {
		return ir.Effect{}, err
	}

	return ir.NewEffect(object, ir.ActionID(action), target, rule, reason), nil
}

// compileTarget accepts a list of strings or, for scalar actions, a single
// string. A missing target is empty.
func compileTarget(v cue.Value, path string) ([]string, error) {
	t := v.LookupPath(cue.ParsePath("target"))
	if !t.Exists() {
		return nil, nil
	}
	if s, err := t.String(); err == nil {
		return []string{s}, nil
	}
	iter, err := t.List()
	if err != nil {
		return nil, &CompileError{Field: path + ".target", Message: "target must be a string or a list of strings", Pos: t.Pos()}
	}
	var target []string
	for i := 0; iter.Next(); i++ {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(fmt.Sprintf("%s.target[%d]", path, i), err)
		}
		target = append(target, s)
	}
	return target, nil
}

func compileRule(v cue.Value, path string) (ir.RuleRef, error) {
	rv := v.LookupPath(cue.ParsePath("rule"))
	if !rv.Exists() {
		return ir.RuleRef{}, &CompileError{Field: path + ".rule", Message: "rule is required", Pos: v.Pos()}
	}
	rulePath := path + ".rule"

	id, err := requiredString(rv, "id", rulePath)
	if err != nil {
		return ir.RuleRef{}, err
	}
	scopeStr, err := requiredString(rv, "scope", rulePath)
	if err != nil {
		return ir.RuleRef{}, err
	}
	scope, err := ir.ParseRuleScope(scopeStr)
	if err != nil {
		return ir.RuleRef{}, &CompileError{Field: rulePath + ".scope", Message: err.Error(), Pos: rv.LookupPath(cue.ParsePath("scope")).Pos()}
	}
	name, err := optionalString(rv, "name", rulePath)
	if err != nil {
		return ir.RuleRef{}, err
	}
	author, err := optionalString(rv, "author", rulePath)
	if err != nil {
		return ir.RuleRef{}, err
	}

	return ir.RuleRef{ID: id, Name: name, AuthorPHID: author, Scope: scope}, nil
}

func requiredString(v cue.Value, field, path string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", &CompileError{Field: path + "." + field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(path+"."+field, err)
	}
	if s == "" {
		return "", &CompileError{Field: path + "." + field, Message: field + " must not be empty", Pos: f.Pos()}
	}
	return s, nil
}

func optionalString(v cue.Value, field, path string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(path+"."+field, err)
	}
	return s, nil
}
