package system

import (
	"time"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	"github.com/roguewave/sim/internal/core/event"
	coresys "github.com/roguewave/sim/internal/core/system"
	"github.com/roguewave/sim/internal/data"
	"go.uber.org/zap"
)

// defaultDebuff is applied by a debuff power that configures no status.
var defaultDebuff = component.StatusEffect{Type: component.StatusSlow, Magnitude: 0.2, Remaining: 3000}

// PowerSystem picks enemy intents and resolves every Casting marker:
// resource check, effect, cooldown. The marker is removed on every path.
// Phase 4 (Power).
type PowerSystem struct {
	d *Deps
}

func NewPowerSystem(d *Deps) *PowerSystem {
	return &PowerSystem{d: d}
}

func (s *PowerSystem) Phase() coresys.Phase { return coresys.PhasePower }

func (s *PowerSystem) Update(dt time.Duration) {
	ws := s.d.World
	if millis(dt) > 0 && ws.InCombat() {
		s.enemyIntents()
	}
	if pid, ok := ws.Player(); ok {
		if c, ok := ws.Casting.Get(pid); ok {
			powerID := c.PowerID
			ws.Casting.Remove(pid)
			s.cast(pid, powerID)
		}
	}
	for _, id := range ws.Enemies.Entities() {
		if c, ok := ws.Casting.Get(id); ok {
			powerID := c.PowerID
			ws.Casting.Remove(id)
			s.cast(id, powerID)
		}
	}
	ws.Casting.Clear()
}

// enemyIntents lets each fighting enemy cast its first ready ability and
// records the next ability it will use.
func (s *PowerSystem) enemyIntents() {
	d, ws := s.d, s.d.World
	ws.Enemies.Each(func(id ecs.EntityID, e *component.Enemy) {
		if ws.Defeated(id) || ws.Stunned(id) || ws.Casting.Has(id) {
			return
		}
		if _, ok := ws.Opponent(id); !ok {
			return
		}
		var next string
		soonest := -1.0
		for _, a := range e.Abilities {
			if !d.onCooldown(id, a) {
				ws.Casting.Set(id, &component.Casting{PowerID: a})
				next = a
				break
			}
			cd, _ := ws.Cooldowns.Get(id)
			if r := cd.Entries[a].Remaining; soonest < 0 || r < soonest {
				soonest, next = r, a
			}
		}
		e.Intent = next
	})
}

// cast runs one power for caster. Every failure is a logged no-op that leaves
// resources and cooldowns untouched.
func (s *PowerSystem) cast(caster ecs.EntityID, powerID string) {
	d, ws := s.d, s.d.World
	byPlayer := ws.Players.Has(caster)
	pw := d.Content.Powers.Get(powerID)
	if pw == nil || !d.ownsPower(caster, powerID) {
		d.Log.Debug("施放失敗：未知技能", zap.String("power", powerID))
		return
	}
	if ws.Defeated(caster) || ws.Stunned(caster) || d.onCooldown(caster, powerID) {
		d.Log.Debug("施放失敗：狀態不允許", zap.String("power", powerID))
		return
	}

	target := caster
	if pw.Effect == data.EffectDamage || pw.Effect == data.EffectDebuff {
		t, ok := ws.Opponent(caster)
		if !ok {
			if byPlayer {
				ws.Logf("%s has no target.", pw.Name)
			}
			return
		}
		target = t
	}

	thresholdValue, ok := s.pay(caster, pw)
	if !ok {
		return
	}
	bonus := 0.0
	if res, ok := ws.Resources.Get(caster); ok {
		bonus = thresholdBonus(res, thresholdValue)
	}
	rank := d.powerRank(caster, powerID)

	res := castResult{}
	switch pw.Effect {
	case data.EffectDamage:
		res = s.damage(caster, target, pw, rank, bonus)
	case data.EffectDebuff:
		res = s.debuff(caster, target, pw, rank, bonus)
	case data.EffectHeal:
		res.healed = s.healPower(caster, pw, rank)
	case data.EffectBuff:
		s.buff(caster, pw, rank)
	}

	if pw.SelfDamage > 0 {
		if h, ok := ws.Healths.Get(caster); ok {
			cost := max(1, round(float64(h.Max)*pw.SelfDamage))
			h.Current = max(1, h.Current-cost)
		}
	}
	if pw.Shield > 0 {
		ws.Shields.Set(caster, &component.Shield{Amount: pw.Shield, Remaining: pw.ShieldDuration})
	}
	if pw.ResetCooldowns {
		if cd, ok := ws.Cooldowns.Get(caster); ok {
			for key := range cd.Entries {
				if key != powerID {
					delete(cd.Entries, key)
				}
			}
		}
	}
	d.startCooldown(caster, powerID, pw.Cooldown)
	if res.killed && pw.OnKillResetCooldowns {
		if cd, ok := ws.Cooldowns.Get(caster); ok {
			clear(cd.Entries)
		}
		ws.Logf("%s's cooldowns are refreshed!", ws.DisplayName(caster))
	}

	ws.Animate(component.AnimPower, byPlayer, res.damage+res.healed, pw.ID)
	event.Emit(d.Bus, event.PowerCast{
		Tick:     ws.Tick,
		PowerID:  pw.ID,
		ByPlayer: byPlayer,
		Damage:   res.damage,
		Healed:   res.healed,
		Killed:   res.killed,
	})
}

// pay deducts or accrues the cost. It returns the resource value thresholds
// are checked against: the pre-spend value for spend pools and the post-gain
// value for gain pools.
func (s *PowerSystem) pay(caster ecs.EntityID, pw *data.PowerInfo) (int, bool) {
	d, ws := s.d, s.d.World
	if ok, reason := d.canAfford(caster, pw); !ok {
		if ws.Players.Has(caster) {
			ws.Logf("Cannot use %s: %s.", pw.Name, reason)
		}
		d.Log.Debug("施放被拒", zap.String("power", pw.ID), zap.String("reason", reason))
		return 0, false
	}
	if res, ok := ws.Resources.Get(caster); ok {
		if res.Behavior == component.ResourceGain {
			res.Current += pw.Cost
			return res.Current, true
		}
		pre := res.Current
		res.Current -= pw.Cost
		return pre, true
	}
	if m, ok := ws.Manas.Get(caster); ok {
		m.Current -= pw.Cost
	}
	return 0, true
}

// thresholdBonus returns the largest bonus whose threshold value is met.
func thresholdBonus(res *component.PathResource, value int) float64 {
	best := 0.0
	for _, t := range res.Thresholds {
		if value >= t.Value && t.DamageBonus > best {
			best = t.DamageBonus
		}
	}
	return best
}

type castResult struct {
	damage int
	healed int
	killed bool
}

func (s *PowerSystem) damage(caster, target ecs.EntityID, pw *data.PowerInfo, rank int, bonus float64) castResult {
	d, ws := s.d, s.d.World
	mult := pw.Multiplier + float64(rank)*pw.UpgradeBonus
	raw := d.attackPower(caster) * mult * d.variance()
	if pw.ExecuteThreshold > 0 && d.healthFraction(target) < pw.ExecuteThreshold {
		raw *= 1 + pw.ExecuteBonus
	}
	if pw.SelfBelowHP > 0 && d.healthFraction(caster) < pw.SelfBelowHP {
		raw *= 1 + pw.SelfBelowBonus
	}
	raw *= 1 + bonus

	dmg := Mitigate(round(raw), d.defense(target))
	dealt, absorbed := d.applyDamage(target, dmg)
	ws.Logf("%s uses %s on %s for %d damage.", ws.DisplayName(caster), pw.Name, ws.DisplayName(target), dealt+absorbed)

	res := castResult{damage: dealt + absorbed}
	if pw.Lifesteal > 0 {
		res.healed = d.heal(caster, round(float64(dmg)*pw.Lifesteal))
	}
	if d.killed(target) {
		res.killed = true
		d.clearPendingActions(target)
		ws.Logf("%s falls.", ws.DisplayName(target))
		return res
	}
	s.applyStatuses(target, pw)
	return res
}

func (s *PowerSystem) debuff(caster, target ecs.EntityID, pw *data.PowerInfo, rank int, bonus float64) castResult {
	if pw.Multiplier > 0 {
		return s.damage(caster, target, pw, rank, bonus)
	}
	ws := s.d.World
	ws.Logf("%s uses %s on %s.", ws.DisplayName(caster), pw.Name, ws.DisplayName(target))
	s.applyStatuses(target, pw)
	return castResult{}
}

// applyStatuses attaches the power's stun and status effects to target,
// falling back to a slow for a debuff that configures none.
func (s *PowerSystem) applyStatuses(target ecs.EntityID, pw *data.PowerInfo) {
	d := s.d
	applied := false
	if pw.StunDuration > 0 {
		d.addStatus(target, component.StatusEffect{
			Type: component.StatusStun, Source: pw.ID, Magnitude: 1, Remaining: pw.StunDuration,
		})
		applied = true
	}
	for _, st := range pw.Statuses {
		d.addStatus(target, component.StatusEffect{
			Type:      st.Type,
			Source:    pw.ID,
			Magnitude: st.Magnitude,
			Remaining: st.Duration,
			Interval:  st.Interval,
		})
		applied = true
	}
	if !applied && pw.Effect == data.EffectDebuff {
		e := defaultDebuff
		e.Source = pw.ID
		d.addStatus(target, e)
	}
}

func (s *PowerSystem) healPower(caster ecs.EntityID, pw *data.PowerInfo, rank int) int {
	d, ws := s.d, s.d.World
	h, ok := ws.Healths.Get(caster)
	if !ok {
		return 0
	}
	amount := float64(pw.HealFlat) + pw.HealPercent*float64(h.Max)
	amount *= 1 + float64(rank)*pw.UpgradeBonus
	healed := d.heal(caster, round(amount))
	ws.Logf("%s uses %s and recovers %d health.", ws.DisplayName(caster), pw.Name, healed)
	if healed > 0 {
		ws.Animate(component.AnimHeal, ws.Players.Has(caster), healed, pw.ID)
	}
	return healed
}

func (s *PowerSystem) buff(caster ecs.EntityID, pw *data.PowerInfo, rank int) {
	d, ws := s.d, s.d.World
	for _, b := range pw.Buffs {
		dur := b.Duration
		if dur <= 0 {
			dur = pw.BuffDuration
		}
		d.addBuff(caster, component.Buff{
			Stat:       b.Stat,
			Source:     pw.ID,
			Multiplier: b.Multiplier + float64(rank)*pw.UpgradeBonus,
			Remaining:  dur,
		})
	}
	ws.Logf("%s uses %s.", ws.DisplayName(caster), pw.Name)
}
