// Package engine runs evaluation passes.
//
// A pass binds one adapter to one object, snapshots every field the adapter
// declares, applies the effects the condition engine produced for that
// snapshot, and records the result. Within a pass everything is sequential:
// one goroutine, one ApplyEffects call, transcripts in effect order.
//
// Independent passes share no mutable state and may run concurrently;
// EvaluateAll does so with a bounded number of workers.
//
// Ordering:
//
//	Passes are stamped with a logical sequence number from Clock, never a
//	wall-clock time. Resume a clock from the store's highest sequence with
//	NewClockAt so numbers stay increasing across runs.
//
// Deadlines belong to the caller. The engine passes ctx to every blocking
// load but never adds a timeout of its own.
package engine
