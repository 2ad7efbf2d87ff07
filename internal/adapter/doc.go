// Package adapter defines the contract that binds one business-object type
// into the rule engine, plus the behavior every adapter shares.
//
// An adapter has three jobs:
//   - Field extraction: resolve a symbolic FieldID to the current value on
//     its object (Fields registry, falling through to Base).
//   - Action enumeration: list the actions a rule of a given scope may take
//     (Catalog merged with inherited custom actions).
//   - Effect application: apply the effects produced by the condition
//     engine, returning exactly one ir.ApplyTranscript per effect in input
//     order. Actions the adapter does not handle natively go to the
//     composed Standard applier.
//
// Adapters are single-threaded: one instance is bound to one object for one
// evaluation pass. Lazy caches and accumulators are never shared between
// instances, so nothing here locks.
package adapter
