package command

import "sync"

// Queue is an unbounded, append-only buffer of commands. Dispatch may be
// called from any goroutine; Drain is called once per tick by the game loop.
type Queue struct {
	mu      sync.Mutex
	pending []Command
}

func NewQueue() *Queue {
	return &Queue{}
}

// Dispatch appends c. A nil command is dropped.
func (q *Queue) Dispatch(c Command) {
	if c == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, c)
	q.mu.Unlock()
}

// Drain atomically empties the queue and returns its contents in dispatch
// order. Returns nil when nothing is pending.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	out := q.pending
	q.pending = nil
	q.mu.Unlock()
	return out
}

// Len returns the number of commands waiting for the next tick.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
