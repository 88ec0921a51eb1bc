package system

import (
	"math"

	"github.com/roguewave/sim/internal/core/ecs"
)

// Mitigate subtracts flat defense from raw damage. The result is never below 1.
func Mitigate(raw, defense int) int {
	if defense < 0 {
		defense = 0
	}
	if dmg := raw - defense; dmg > 1 {
		return dmg
	}
	return 1
}

// applyDamage runs amount through the target's shield and then its health.
// Returns the health lost and the amount the shield absorbed.
func (d *Deps) applyDamage(target ecs.EntityID, amount int) (dealt, absorbed int) {
	if amount <= 0 {
		return 0, 0
	}
	if sh, ok := d.World.Shields.Get(target); ok && sh.Amount > 0 {
		absorbed = min(sh.Amount, amount)
		sh.Amount -= absorbed
		amount -= absorbed
		if sh.Amount <= 0 {
			d.World.Shields.Remove(target)
		}
	}
	h, ok := d.World.Healths.Get(target)
	if !ok || amount <= 0 {
		return 0, absorbed
	}
	dealt = min(h.Current, amount)
	h.Current -= dealt
	return dealt, absorbed
}

// heal restores up to amount health without exceeding max. Returns the
// health actually restored.
func (d *Deps) heal(id ecs.EntityID, amount int) int {
	h, ok := d.World.Healths.Get(id)
	if !ok || amount <= 0 || h.Current <= 0 {
		return 0
	}
	restored := min(amount, h.Max-h.Current)
	if restored < 0 {
		restored = 0
	}
	h.Current += restored
	return restored
}

// clearPendingActions drops the one-tick markers of an entity that was just
// killed so nothing it queued this tick can still land.
func (d *Deps) clearPendingActions(id ecs.EntityID) {
	d.World.Ready.Remove(id)
	d.World.Casting.Remove(id)
}

// killed reports whether id's health just reached zero.
func (d *Deps) killed(id ecs.EntityID) bool {
	h, ok := d.World.Healths.Get(id)
	return ok && h.Current <= 0
}

// healthFraction returns current/max health, 0 when id has no health.
func (d *Deps) healthFraction(id ecs.EntityID) float64 {
	h, ok := d.World.Healths.Get(id)
	if !ok || h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}

func round(v float64) int {
	return int(math.Round(v))
}
