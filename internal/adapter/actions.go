package adapter

import (
	"slices"

	"github.com/roach88/herald/internal/ir"
)

// Catalog lists the actions an adapter type allows per rule scope.
// A scope that was never allowed yields no actions; there is no fallback.
type Catalog struct {
	byScope map[ir.RuleScope][]ir.ActionID
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byScope: make(map[ir.RuleScope][]ir.ActionID)}
}

// Allow appends actions to scope's list, in order, and returns the catalog
// for chaining. Duplicates are ignored.
func (c *Catalog) Allow(scope ir.RuleScope, actions ...ir.ActionID) *Catalog {
	list := c.byScope[scope]
	for _, a := range actions {
		if !slices.Contains(list, a) {
			list = append(list, a)
		}
	}
	c.byScope[scope] = list
	return c
}

// Handles reports whether scope has an entry at all.
func (c *Catalog) Handles(scope ir.RuleScope) bool {
	_, ok := c.byScope[scope]
	return ok
}

// Actions returns a copy of scope's list, or nil when scope is not handled.
func (c *Catalog) Actions(scope ir.RuleScope) []ir.ActionID {
	list, ok := c.byScope[scope]
	if !ok {
		return nil
	}
	return slices.Clone(list)
}

// MergeActions keeps own's order, appends inherited actions own does not
// list, and moves ActionNothing to the end if either side has it.
func MergeActions(own, inherited []ir.ActionID) []ir.ActionID {
	merged := make([]ir.ActionID, 0, len(own)+len(inherited))
	hasNothing := false
	for _, list := range [][]ir.ActionID{own, inherited} {
		for _, a := range list {
			if a == ir.ActionNothing {
				hasNothing = true
				continue
			}
			if !slices.Contains(merged, a) {
				merged = append(merged, a)
			}
		}
	}
	if hasNothing {
		merged = append(merged, ir.ActionNothing)
	}
	return merged
}

// CustomAction is an extension action contributed to every adapter it
// applies to. The standard applier dispatches to it.
type CustomAction interface {
	// ActionID is the identifier effects use to name this action.
	ActionID() ir.ActionID

	// Shape is the arity of the action's target.
	Shape() ir.TargetShape

	// AppliesToAdapter reports whether adapters of contentType offer it.
	AppliesToAdapter(contentType string) bool

	// AppliesToRuleType reports whether rules of scope may use it.
	AppliesToRuleType(scope ir.RuleScope) bool

	// Apply performs the action and reports the outcome.
	Apply(effect ir.Effect) ir.ApplyTranscript
}
