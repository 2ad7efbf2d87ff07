package adapter

// Lazy is a once-computed cache slot for a derived value.
//
// The first successful Get runs load and stores the result; later calls
// return it without calling load. A failed load is not cached, so the error
// surfaces to every caller that asks. Lazy is not safe for concurrent use;
// it belongs to a single adapter instance.
type Lazy[T any] struct {
	loaded bool
	value  T
}

// Get returns the cached value, computing it with load on first use.
func (l *Lazy[T]) Get(load func() (T, error)) (T, error) {
	if l.loaded {
		return l.value, nil
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	l.value = v
	l.loaded = true
	return v, nil
}

// Loaded reports whether the value has been computed.
func (l *Lazy[T]) Loaded() bool {
	return l.loaded
}
