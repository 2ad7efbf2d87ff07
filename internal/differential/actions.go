package differential

import (
	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/ir"
)

// Build plans and signature requirements need organization-level
// authority, so personal rules cannot take them. Global rules cannot flag:
// a flag belongs to the rule's author.
var catalog = adapter.NewCatalog().
	Allow(ir.ScopeGlobal,
		ir.ActionAddCC,
		ir.ActionRemoveCC,
		ir.ActionEmail,
		ir.ActionAddReviewers,
		ir.ActionAddBlockingReviewers,
		ir.ActionApplyBuildPlans,
		ir.ActionRequireSignature,
		ir.ActionNothing,
	).
	Allow(ir.ScopePersonal,
		ir.ActionAddCC,
		ir.ActionRemoveCC,
		ir.ActionEmail,
		ir.ActionFlag,
		ir.ActionAddReviewers,
		ir.ActionAddBlockingReviewers,
		ir.ActionNothing,
	)

// Actions lists what rules of scope may do to a revision, custom actions
// included. Scopes without a catalog entry get nothing.
func (a *Adapter) Actions(scope ir.RuleScope) []ir.ActionID {
	if !catalog.Handles(scope) {
		return nil
	}
	return adapter.MergeActions(catalog.Actions(scope), a.InheritedActions(scope))
}
