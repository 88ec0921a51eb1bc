package sim

import (
	"fmt"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	"github.com/roguewave/sim/internal/world"
)

// Audit reports every invariant the pipeline must hold between ticks. Each
// error is a bug, never a user mistake.
func Audit(ws *world.State) []error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	ws.Healths.Each(func(id ecs.EntityID, h *component.Health) {
		if h.Current < 0 || h.Current > h.Max {
			add("entity %d: health %d outside [0, %d]", id, h.Current, h.Max)
		}
	})
	ws.Manas.Each(func(id ecs.EntityID, m *component.Mana) {
		if m.Current < 0 || m.Current > m.Max {
			add("entity %d: mana %d outside [0, %d]", id, m.Current, m.Max)
		}
	})
	ws.Resources.Each(func(id ecs.EntityID, r *component.PathResource) {
		if r.Current < 0 || r.Current > r.Max {
			add("entity %d: %s %d outside [0, %d]", id, r.Name, r.Current, r.Max)
		}
	})
	ws.Cooldowns.Each(func(id ecs.EntityID, cd *component.Cooldowns) {
		for key, e := range cd.Entries {
			if e.Remaining < 0 {
				add("entity %d: cooldown %s is negative (%g)", id, key, e.Remaining)
			}
		}
	})
	ws.Stances.Each(func(id ecs.EntityID, st *component.Stance) {
		if st.SwitchCooldown < 0 {
			add("entity %d: stance switch cooldown is negative (%g)", id, st.SwitchCooldown)
		}
	})
	if n := ws.Casting.Len(); n > 0 {
		add("%d casting markers survived the power phase", n)
	}
	if n := ws.Ready.Len(); n > 0 {
		add("%d attack-ready markers survived the combat phase", n)
	}
	ws.Dying.Each(func(id ecs.EntityID, dy *component.Dying) {
		if ws.Players.Has(id) {
			return
		}
		if dy.Elapsed >= dy.Duration && ws.World.Alive(id) {
			add("entity %d: dying window over (%g/%g ms) but still alive", id, dy.Elapsed, dy.Duration)
		}
	})
	return errs
}
