package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
	Clear()
}

// Store is a generic typed store for ECS components. Entities are kept in
// insertion order next to the map so that iteration is stable from tick to
// tick; map iteration order alone would make combat non-deterministic.
type Store[T any] struct {
	data  map[EntityID]*T
	order []EntityID
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data:  make(map[EntityID]*T, 16),
		order: make([]EntityID, 0, 16),
	}
}

// Set attaches c to id, replacing any previous value. The component becomes
// visible to every later reader in one step.
func (s *Store[T]) Set(id EntityID, c *T) {
	if _, ok := s.data[id]; !ok {
		s.order = append(s.order, id)
	}
	s.data[id] = c
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Remove(id EntityID) {
	if _, ok := s.data[id]; !ok {
		return
	}
	delete(s.data, id)
	for i, e := range s.order {
		if e == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

func (s *Store[T]) Clear() {
	s.data = make(map[EntityID]*T, 16)
	s.order = s.order[:0]
}

// Entities returns a copy of the ids holding this component, in insertion order.
func (s *Store[T]) Entities() []EntityID {
	out := make([]EntityID, len(s.order))
	copy(out, s.order)
	return out
}

// Each visits every component in insertion order. It walks a copy of the id
// list, so fn may add or remove components (of this or any other store);
// entries removed before they are reached are skipped.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.Entities() {
		if c, ok := s.data[id]; ok {
			fn(id, c)
		}
	}
}
