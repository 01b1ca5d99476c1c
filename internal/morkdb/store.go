package morkdb

// Key addresses one entity in an object store. Rows and tables are each
// scoped per namespace; the same id in two namespaces names two entities.
type Key struct {
	Namespace string
	ID        string
}

// store is a generic (namespace, id)-keyed object store preserving first
// insertion order for enumeration. Putting an existing key replaces the
// entity wholesale and keeps its original position.
type store[T any] struct {
	entries map[Key]T
	order   []Key
}

func newStore[T any]() *store[T] {
	return &store[T]{entries: make(map[Key]T)}
}

func (s *store[T]) get(k Key) (T, bool) {
	v, ok := s.entries[k]
	return v, ok
}

func (s *store[T]) put(k Key, v T) {
	if _, ok := s.entries[k]; !ok {
		s.order = append(s.order, k)
	}
	s.entries[k] = v
}

func (s *store[T]) len() int {
	return len(s.order)
}

// all returns entities in insertion order.
func (s *store[T]) all() []T {
	out := make([]T, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.entries[k])
	}
	return out
}
