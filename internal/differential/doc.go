// Package differential adapts code-review revisions to the rule engine.
//
// A revision adapter is bound to one revision and, optionally, the diff
// being evaluated. Fields come from the revision itself and from the
// DataSource collaborator (changesets, hunks, repository, owners packages,
// project membership). Expensive derived values are loaded lazily and
// memoized per adapter instance.
//
// Effects that change review state (reviewers, blocking reviewers, build
// plans, signature requirements) accumulate into a Result which the
// persistence layer reads back after the pass; everything else goes to the
// standard applier.
package differential
