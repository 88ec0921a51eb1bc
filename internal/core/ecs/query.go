package ecs

// Each2 iterates over entities that have both component A and B, in the
// insertion order of sa. Like Store.Each it works on a copy of the id list.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	for _, id := range sa.Entities() {
		a, ok := sa.data[id]
		if !ok {
			continue
		}
		if b, ok := sb.data[id]; ok {
			fn(id, a, b)
		}
	}
}

// Presence is the minimal view Query needs of a store.
type Presence interface {
	Has(id EntityID) bool
	Entities() []EntityID
	Len() int
}

// Query returns the ids present in every given store. The first store drives
// the order; pass the store whose order matters (usually a role tag) first.
func Query(stores ...Presence) []EntityID {
	if len(stores) == 0 {
		return nil
	}
	candidates := stores[0].Entities()
	for _, s := range stores[1:] {
		filtered := candidates[:0]
		for _, id := range candidates {
			if s.Has(id) {
				filtered = append(filtered, id)
			}
		}
		candidates = filtered
		if len(candidates) == 0 {
			break
		}
	}
	return candidates
}
