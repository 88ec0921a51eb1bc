package system

import (
	"time"

	coresys "github.com/roguewave/sim/internal/core/system"
)

// CooldownSystem counts ability cooldowns and the stance-switch cooldown down
// by the effective delta. Entries are removed when they reach zero; a missing
// entry means ready. Phase 1 (Cooldown).
type CooldownSystem struct {
	d *Deps
}

func NewCooldownSystem(d *Deps) *CooldownSystem {
	return &CooldownSystem{d: d}
}

func (s *CooldownSystem) Phase() coresys.Phase { return coresys.PhaseCooldown }

func (s *CooldownSystem) Update(dt time.Duration) {
	ms := millis(dt)
	if ms <= 0 {
		return
	}
	ws := s.d.World
	for _, id := range ws.Cooldowns.Entities() {
		cd, _ := ws.Cooldowns.Get(id)
		for key, e := range cd.Entries {
			e.Remaining -= ms
			if e.Remaining <= 0 {
				delete(cd.Entries, key)
			}
		}
	}
	for _, id := range ws.Stances.Entities() {
		st, _ := ws.Stances.Get(id)
		st.SwitchCooldown = max(0, st.SwitchCooldown-ms)
	}
}
