package adapter

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/herald/internal/ir"
)

// Resolver computes one field's value on adapter instance obj.
type Resolver[T any] func(ctx context.Context, obj T) (ir.IRValue, error)

// Fields maps field identifiers to resolvers for one adapter type.
// Build it once at package init and share it across instances; resolvers
// receive the instance, so the registry holds no per-object state.
type Fields[T any] struct {
	order []ir.FieldID
	byID  map[ir.FieldID]Resolver[T]
}

// NewFields creates an empty registry.
func NewFields[T any]() *Fields[T] {
	return &Fields[T]{byID: make(map[ir.FieldID]Resolver[T])}
}

// Register adds a resolver for id and returns the registry for chaining.
// Panics on a duplicate identifier: two resolvers for one field is a
// programming error caught at init.
func (f *Fields[T]) Register(id ir.FieldID, r Resolver[T]) *Fields[T] {
	if _, exists := f.byID[id]; exists {
		panic(fmt.Sprintf("adapter: field %q registered twice", id))
	}
	f.byID[id] = r
	f.order = append(f.order, id)
	return f
}

// Lookup returns the resolver for id.
func (f *Fields[T]) Lookup(id ir.FieldID) (Resolver[T], bool) {
	r, ok := f.byID[id]
	return r, ok
}

// IDs returns registered identifiers in registration order.
func (f *Fields[T]) IDs() []ir.FieldID {
	return slices.Clone(f.order)
}

// Resolve runs the resolver for id on obj.
// The second return is false when id is not registered.
func (f *Fields[T]) Resolve(ctx context.Context, obj T, id ir.FieldID) (ir.IRValue, bool, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, false, nil
	}
	v, err := r(ctx, obj)
	return v, true, err
}

// MergeFields returns own followed by the base fields own does not already
// list. Order is significant: consuming UIs render fields in this order.
func MergeFields(own, base []ir.FieldID) []ir.FieldID {
	merged := make([]ir.FieldID, 0, len(own)+len(base))
	seen := make(map[ir.FieldID]bool, len(own)+len(base))
	for _, list := range [][]ir.FieldID{own, base} {
		for _, id := range list {
			if seen[id] {
				continue
			}
			seen[id] = true
			merged = append(merged, id)
		}
	}
	return merged
}
