package system

import (
	"math"
	"time"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	coresys "github.com/roguewave/sim/internal/core/system"
)

// RegenSystem adds health and mana per second of effective time, regenerates
// spend-type path resources and decays gain-type ones. Fractions carry over
// between ticks. Phase 6 (Regen).
type RegenSystem struct {
	d *Deps
}

func NewRegenSystem(d *Deps) *RegenSystem {
	return &RegenSystem{d: d}
}

func (s *RegenSystem) Phase() coresys.Phase { return coresys.PhaseRegen }

func (s *RegenSystem) Update(dt time.Duration) {
	ms := millis(dt)
	if ms <= 0 {
		return
	}
	d, ws := s.d, s.d.World
	ecs.Each2(ws.Regens, ws.Healths, func(id ecs.EntityID, r *component.Regen, h *component.Health) {
		if ws.Defeated(id) {
			return
		}
		rate := r.HealthPerSecond + d.mods(id).Regen
		h.Current = accrue(h.Current, h.Max, rate*ms/1000, &r.HealthCarry)
	})
	ecs.Each2(ws.Regens, ws.Manas, func(id ecs.EntityID, r *component.Regen, m *component.Mana) {
		if ws.Defeated(id) {
			return
		}
		m.Current = accrue(m.Current, m.Max, r.ManaPerSecond*ms/1000, &r.ManaCarry)
	})
	ws.Resources.Each(func(id ecs.EntityID, res *component.PathResource) {
		if ws.Defeated(id) || res.PerSecond == 0 {
			return
		}
		delta := res.PerSecond * ms / 1000
		if res.Behavior == component.ResourceGain {
			delta = -delta
		}
		res.Current = accrue(res.Current, res.Max, delta, &res.Carry)
	})
}

// accrue adds delta (possibly negative) to cur through a fractional carry and
// clamps the result to [0, maxV].
func accrue(cur, maxV int, delta float64, carry *float64) int {
	*carry += delta
	whole := math.Trunc(*carry)
	*carry -= whole
	cur += int(whole)
	switch {
	case cur >= maxV:
		*carry = 0
		return maxV
	case cur <= 0:
		*carry = 0
		return 0
	}
	return cur
}
