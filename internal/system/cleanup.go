package system

import (
	"time"

	coresys "github.com/roguewave/sim/internal/core/system"
)

// CleanupSystem flushes entities marked for destruction during the tick.
// Phase 10 (Cleanup).
type CleanupSystem struct {
	d *Deps
}

func NewCleanupSystem(d *Deps) *CleanupSystem {
	return &CleanupSystem{d: d}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.d.World.World.FlushDestroyQueue()
}
