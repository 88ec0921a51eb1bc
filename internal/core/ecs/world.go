package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed by CleanupSystem each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 8),
	}
}

// NewStoreIn creates a component store and registers it with w.
func NewStoreIn[T any](w *World) *Store[T] {
	s := NewStore[T]()
	w.registry.Register(s)
	return s
}

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// DestroyEntity removes id and all of its components immediately.
func (w *World) DestroyEntity(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	for _, queued := range w.destroyQueue {
		if queued == id {
			return
		}
	}
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestruction reports whether id is queued for cleanup.
func (w *World) PendingDestruction(id EntityID) bool {
	for _, queued := range w.destroyQueue {
		if queued == id {
			return true
		}
	}
	return false
}

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by CleanupSystem at the end of each tick.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.destroyQueue {
		w.DestroyEntity(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}

// Reset drops every entity and component.
func (w *World) Reset() {
	w.registry.ClearAll()
	w.pool.Reset()
	w.destroyQueue = w.destroyQueue[:0]
}
