package system

import (
	"math"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	"github.com/roguewave/sim/internal/data"
)

// mods sums permanent bonuses with the active stance and its enhancements.
func (d *Deps) mods(id ecs.EntityID) component.StatMods {
	var m component.StatMods
	if b, ok := d.World.Bonuses.Get(id); ok {
		m = m.Add(*b)
	}
	st, ok := d.World.Stances.Get(id)
	if !ok {
		return m
	}
	if info := d.Content.Paths.Stance(st.Active); info != nil {
		m = m.Add(info.Mods.StatMods())
	}
	for _, eid := range st.Enhancements {
		enh := d.Content.Paths.Enhancement(eid)
		if enh == nil {
			continue
		}
		if enh.Stance == "" || enh.Stance == st.Active {
			m = m.Add(enh.Mods.StatMods())
		}
	}
	return m
}

// itemStats sums the stats of every equipped item at its enhancement level.
func (d *Deps) itemStats(id ecs.EntityID) data.ItemStats {
	var total data.ItemStats
	eq, ok := d.World.Equipment.Get(id)
	if !ok {
		return total
	}
	for _, slot := range []component.EquipSlot{component.SlotWeapon, component.SlotArmor, component.SlotAccessory} {
		it, ok := eq.Slots[slot]
		if !ok {
			continue
		}
		info := d.Content.Items.Get(it.ItemID)
		if info == nil {
			continue
		}
		s := info.Scaled(it.Level)
		total.Attack += s.Attack
		total.Defense += s.Defense
		total.Health += s.Health
		total.CritChance += s.CritChance
		total.Speed += s.Speed
	}
	return total
}

// buffMult multiplies every active buff on stat.
func (d *Deps) buffMult(id ecs.EntityID, stat component.BuffStat) float64 {
	mult := 1.0
	if b, ok := d.World.Buffs.Get(id); ok {
		for _, bf := range b.Active {
			if bf.Stat == stat && bf.Remaining > 0 {
				mult *= bf.Multiplier
			}
		}
	}
	return mult
}

// statusSum adds up the magnitudes of the active effects of type t.
func (d *Deps) statusSum(id ecs.EntityID, t component.StatusType) float64 {
	sum := 0.0
	if st, ok := d.World.Statuses.Get(id); ok {
		for _, e := range st.Active {
			if e.Type == t && e.Remaining > 0 {
				sum += e.Magnitude
			}
		}
	}
	return sum
}

// attackPower is the pre-variance outgoing damage of id.
func (d *Deps) attackPower(id ecs.EntityID) float64 {
	atk, ok := d.World.Attacks.Get(id)
	if !ok {
		return 0
	}
	base := float64(atk.Damage + d.itemStats(id).Attack)
	base *= 1 + d.mods(id).Damage
	base *= d.buffMult(id, component.BuffDamage)
	weaken := math.Min(d.statusSum(id, component.StatusWeaken), d.Balance.WeakenCap)
	base *= 1 - weaken
	return math.Max(base, 0)
}

// defense is the flat mitigation of id.
func (d *Deps) defense(id ecs.EntityID) int {
	def, ok := d.World.Defenses.Get(id)
	if !ok {
		return 0
	}
	v := float64(def.Value + d.itemStats(id).Defense)
	v *= 1 + d.mods(id).Defense
	v *= d.buffMult(id, component.BuffDefense)
	if v < 0 {
		return 0
	}
	return int(v)
}

// critChance is only meaningful for the player.
func (d *Deps) critChance(id ecs.EntityID) float64 {
	atk, ok := d.World.Attacks.Get(id)
	if !ok {
		return 0
	}
	c := atk.CritChance + d.itemStats(id).CritChance + d.mods(id).CritChance
	c += d.buffMult(id, component.BuffCritChance) - 1
	return math.Max(0, math.Min(c, 1))
}

func (d *Deps) critMultiplier(id ecs.EntityID) float64 {
	if atk, ok := d.World.Attacks.Get(id); ok && atk.CritMultiplier > 0 {
		return atk.CritMultiplier
	}
	return d.Balance.CritMultiplier
}

// speedValue is the speed stat fed to attack_interval.
func (d *Deps) speedValue(id ecs.EntityID) float64 {
	sp, ok := d.World.Speeds.Get(id)
	if !ok {
		return 0
	}
	v := (sp.Value + d.itemStats(id).Speed) * (1 + d.mods(id).Speed)
	if v <= 0 {
		return sp.Value
	}
	return v
}

// attackThreshold is the accumulated time id needs for its next attack:
// the interval stretched by slows and shortened by speed buffs.
func (d *Deps) attackThreshold(id ecs.EntityID, interval float64) float64 {
	slow := math.Min(d.statusSum(id, component.StatusSlow), d.Balance.SlowCap)
	return interval * (1 + slow) / d.buffMult(id, component.BuffSpeed)
}

// dodgeChance applies only to the player defending against an enemy.
func (d *Deps) dodgeChance(id ecs.EntityID) float64 {
	fortune := 0
	if f, ok := d.World.Fortunes.Get(id); ok {
		fortune = f.Value
	}
	c := d.Lua.DodgeChance(fortune) + d.mods(id).Dodge
	return math.Max(0, math.Min(c, d.Balance.DodgeCap))
}

// lifesteal is the fraction of dealt damage returned to id as health.
func (d *Deps) lifesteal(id ecs.EntityID) float64 {
	if e, ok := d.World.Enemies.Get(id); ok {
		return e.Lifesteal
	}
	return d.mods(id).Lifesteal
}

// maxHealthBonus is the health granted by equipment, folded into Health.Max
// when items change.
func (d *Deps) maxHealthBonus(id ecs.EntityID) int {
	return d.itemStats(id).Health
}
