package system

import (
	"time"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	coresys "github.com/roguewave/sim/internal/core/system"
)

// StatusEffectSystem pulses damage and healing over time, then counts down
// status effects, buffs and timed shields, removing expired entries.
// Phase 5 (StatusEffect).
type StatusEffectSystem struct {
	d *Deps
}

func NewStatusEffectSystem(d *Deps) *StatusEffectSystem {
	return &StatusEffectSystem{d: d}
}

func (s *StatusEffectSystem) Phase() coresys.Phase { return coresys.PhaseStatusEffect }

func (s *StatusEffectSystem) Update(dt time.Duration) {
	ms := millis(dt)
	if ms <= 0 {
		return
	}
	ws := s.d.World
	ws.Statuses.Each(func(id ecs.EntityID, st *component.StatusEffects) {
		if ws.Defeated(id) {
			return
		}
		s.tickStatuses(id, st, ms)
	})
	ws.Buffs.Each(func(_ ecs.EntityID, b *component.Buffs) {
		kept := b.Active[:0]
		for _, bf := range b.Active {
			bf.Remaining -= ms
			if bf.Remaining > 0 {
				kept = append(kept, bf)
			}
		}
		b.Active = kept
	})
	ws.Shields.Each(func(id ecs.EntityID, sh *component.Shield) {
		if sh.Remaining <= 0 {
			return // lasts until broken
		}
		sh.Remaining -= ms
		if sh.Remaining <= 0 {
			ws.Shields.Remove(id)
		}
	})
}

func (s *StatusEffectSystem) tickStatuses(id ecs.EntityID, st *component.StatusEffects, ms float64) {
	d, ws := s.d, s.d.World
	kept := st.Active[:0]
	for _, e := range st.Active {
		if e.Interval > 0 && !ws.Defeated(id) {
			e.Elapsed += min(ms, e.Remaining)
			for e.Elapsed >= e.Interval {
				e.Elapsed -= e.Interval
				s.pulse(id, e)
				if d.killed(id) {
					break
				}
			}
		}
		e.Remaining -= ms
		if e.Remaining > 0 {
			kept = append(kept, e)
		}
	}
	st.Active = kept
	if d.killed(id) {
		d.clearPendingActions(id)
		ws.Logf("%s succumbs.", ws.DisplayName(id))
	}
}

func (s *StatusEffectSystem) pulse(id ecs.EntityID, e component.StatusEffect) {
	d, ws := s.d, s.d.World
	amount := max(1, round(e.Magnitude))
	switch {
	case e.Type.IsDamageOverTime():
		dealt, absorbed := d.applyDamage(id, amount)
		ws.Logf("%s takes %d %s damage.", ws.DisplayName(id), dealt+absorbed, e.Type)
		ws.Animate(component.AnimDoT, !ws.Players.Has(id), dealt+absorbed, string(e.Type))
	case e.Type == component.StatusRegen:
		if healed := d.heal(id, amount); healed > 0 {
			ws.Animate(component.AnimHeal, ws.Players.Has(id), healed, string(e.Type))
		}
	}
}
