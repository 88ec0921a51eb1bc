package system

import (
	"time"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	coresys "github.com/roguewave/sim/internal/core/system"
)

// CombatSystem resolves every AttackReady marker: dodge, defense, block,
// shield, then health. Markers are always removed. Phase 3 (Combat).
type CombatSystem struct {
	d *Deps
}

func NewCombatSystem(d *Deps) *CombatSystem {
	return &CombatSystem{d: d}
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseCombat }

func (s *CombatSystem) Update(_ time.Duration) {
	ws := s.d.World
	// 玩家先結算，再依生成順序結算敵人
	if pid, ok := ws.Player(); ok {
		if r, ok := ws.Ready.Get(pid); ok {
			s.resolve(pid, *r)
		}
	}
	for _, id := range ws.Enemies.Entities() {
		if r, ok := ws.Ready.Get(id); ok {
			s.resolve(id, *r)
		}
	}
	ws.Ready.Clear()
}

func (s *CombatSystem) resolve(att ecs.EntityID, r component.AttackReady) {
	d, ws := s.d, s.d.World
	ws.Ready.Remove(att)
	if ws.Defeated(att) {
		return
	}
	def, ok := ws.Opponent(att)
	if !ok || ws.Defeated(def) {
		return
	}
	byPlayer := ws.Players.Has(att)
	attName, defName := ws.DisplayName(att), ws.DisplayName(def)

	if !byPlayer && ws.Players.Has(def) && d.Rng.Float64() < d.dodgeChance(def) {
		ws.Logf("%s dodges the %s's attack.", defName, attName)
		ws.Animate(component.AnimDodge, false, 0, defName)
		return
	}

	dmg := Mitigate(r.Damage, d.defense(def))
	blocked := false
	if b, ok := ws.Blocking.Get(def); ok {
		dmg = max(1, round(float64(dmg)*(1-b.Reduction)))
		ws.Blocking.Remove(def)
		blocked = true
	}
	dealt, absorbed := d.applyDamage(def, dmg)

	line := "%s hits %s for %d damage"
	if r.IsCrit {
		line = "%s critically hits %s for %d damage"
	}
	ws.Logf(line+"%s.", attName, defName, dealt, s.suffix(absorbed, blocked))
	kind := component.AnimAttack
	if r.IsCrit {
		kind = component.AnimCrit
	}
	ws.Animate(kind, byPlayer, dmg, attName)

	s.onHit(att, def, dmg)

	if d.killed(def) {
		d.clearPendingActions(def)
		ws.Logf("%s falls.", defName)
	}
	if d.killed(att) {
		d.clearPendingActions(att)
		ws.Logf("%s falls.", attName)
	}
}

func (s *CombatSystem) suffix(absorbed int, blocked bool) string {
	out := ""
	if absorbed > 0 {
		out += s.d.World.Sprintf(" (%d absorbed)", absorbed)
	}
	if blocked {
		out += " (blocked)"
	}
	return out
}

// onHit applies resource gain, lifesteal and reflect after a landed hit.
func (s *CombatSystem) onHit(att, def ecs.EntityID, dmg int) {
	d, ws := s.d, s.d.World
	if res, ok := ws.Resources.Get(att); ok && res.OnHitGain > 0 {
		res.Current = min(res.Max, res.Current+res.OnHitGain)
	}
	if ls := d.lifesteal(att); ls > 0 {
		if healed := d.heal(att, round(float64(dmg)*ls)); healed > 0 {
			ws.Animate(component.AnimHeal, ws.Players.Has(att), healed, "lifesteal")
		}
	}
	if ws.Players.Has(def) && !d.killed(def) {
		if rf := d.mods(def).Reflect; rf > 0 {
			if back := round(float64(dmg) * rf); back > 0 {
				dealt, _ := d.applyDamage(att, back)
				ws.Logf("%s reflects %d damage.", ws.DisplayName(def), dealt)
			}
		}
	}
}
