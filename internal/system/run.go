package system

import (
	"github.com/google/uuid"
	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	"github.com/roguewave/sim/internal/data"
	"go.uber.org/zap"
)

// ==================== 排程 ====================

func (d *Deps) scheduleSpawn(delay float64) {
	sc := d.World.Schedule()
	sc.Spawns = append(sc.Spawns, component.ScheduledSpawn{Delay: delay})
}

func (d *Deps) scheduleTransition(phase component.RunPhase, delay float64) {
	sc := d.World.Schedule()
	sc.Transitions = append(sc.Transitions, component.ScheduledTransition{Phase: phase, Delay: delay})
}

func (d *Deps) clearSchedule() {
	sc := d.World.Schedule()
	sc.Spawns = nil
	sc.Transitions = nil
}

// ==================== 開局 ====================

// startRun creates the player for class and enters floor 1.
func (d *Deps) startRun(class *data.ClassInfo) {
	g := d.World.Game()
	runID, err := uuid.NewRandomFromReader(d.Rng)
	if err != nil {
		d.Log.Error("產生 run id 失敗", zap.Error(err))
	}
	d.createPlayer(class)

	g.Phase = component.PhaseCombat
	g.Floor = 1
	g.Room = 0
	g.Paused = false
	g.RunID = runID.String()
	g.RunTicks = 0
	d.clearSchedule()
	d.scheduleSpawn(d.Balance.FirstSpawnDelay)

	d.World.Logf("A %s descends into the dungeon.", class.Name)
	d.Log.Info("新遊戲開始", zap.String("class", class.ID), zap.String("run", g.RunID))
}

// createPlayer attaches the full player component set built from class.
func (d *Deps) createPlayer(class *data.ClassInfo) ecs.EntityID {
	ws := d.World
	id := ws.World.CreateEntity()
	ws.Players.Set(id, &component.Player{Name: class.Name, ClassID: class.ID})
	ws.Healths.Set(id, &component.Health{Current: class.Health, Max: class.Health})
	ws.Manas.Set(id, &component.Mana{Current: class.Mana, Max: class.Mana})
	ws.Attacks.Set(id, &component.Attack{Damage: class.Attack, CritChance: class.CritChance})
	ws.Defenses.Set(id, &component.Defense{Value: class.Defense})
	ws.Fortunes.Set(id, &component.Fortune{Value: class.Fortune})
	ws.Speeds.Set(id, &component.Speed{Value: class.Speed, AttackInterval: d.Lua.AttackInterval(class.Speed)})
	ws.Regens.Set(id, &component.Regen{HealthPerSecond: class.HealthRegen, ManaPerSecond: class.ManaRegen})

	slots := make([]component.PowerSlot, 0, len(class.StartingPowers))
	for _, p := range class.StartingPowers {
		slots = append(slots, component.PowerSlot{ID: p})
	}
	ws.Powers.Set(id, &component.Powers{Slots: slots})
	ws.Cooldowns.Set(id, &component.Cooldowns{Entries: make(map[string]*component.Cooldown)})
	ws.Statuses.Set(id, &component.StatusEffects{})
	ws.Buffs.Set(id, &component.Buffs{})
	ws.Bonuses.Set(id, &component.StatMods{})
	ws.Progress.Set(id, &component.Progress{Level: 1, XPToNext: d.Balance.BaseXPToNext, Gold: class.StartingGold})
	ws.Equipment.Set(id, &component.Equipment{Slots: make(map[component.EquipSlot]component.EquippedItem)})
	return id
}

// ==================== 樓層 ====================

// destroyEnemies removes every enemy immediately.
func (d *Deps) destroyEnemies() {
	for _, id := range d.World.Enemies.Entities() {
		d.World.World.DestroyEntity(id)
	}
}

// restorePlayer refills health and mana and drops timed effects.
func (d *Deps) restorePlayer(pid ecs.EntityID, full bool) {
	ws := d.World
	ws.Dying.Remove(pid)
	d.clearEffects(pid)
	if sp, ok := ws.Speeds.Get(pid); ok {
		sp.Accumulated = 0
	}
	if !full {
		return
	}
	if h, ok := ws.Healths.Get(pid); ok {
		h.Current = h.Max
	}
	if m, ok := ws.Manas.Get(pid); ok {
		m.Current = m.Max
	}
}

// resetResource puts the path resource back to its starting value.
func (d *Deps) resetResource(pid ecs.EntityID) {
	res, ok := d.World.Resources.Get(pid)
	if !ok {
		return
	}
	p, _ := d.World.Players.Get(pid)
	if path := d.Content.Paths.Get(p.PathID); path != nil && path.Resource != nil {
		res.Current = path.Resource.Start
	} else {
		res.Current = 0
	}
	res.Carry = 0
}

// nextFloor starts the floor after the current one.
func (d *Deps) nextFloor() {
	g := d.World.Game()
	pid, ok := d.World.Player()
	if !ok {
		return
	}
	d.destroyEnemies()
	d.clearSchedule()
	d.restorePlayer(pid, d.Balance.HealBetweenFloors)
	d.World.ClosePopup(component.PopupFloorSummary)

	g.Floor++
	g.Room = 0
	g.Phase = component.PhaseCombat
	d.scheduleSpawn(d.Balance.FirstSpawnDelay)
	d.World.Logf("Floor %d begins.", g.Floor)
	d.Log.Info("進入樓層", zap.Int("floor", g.Floor))
}

// retryFloor restarts the current floor from room 0 with a restored player.
func (d *Deps) retryFloor() {
	g := d.World.Game()
	pid, ok := d.World.Player()
	if !ok {
		return
	}
	d.destroyEnemies()
	d.clearSchedule()
	d.restorePlayer(pid, true)
	d.resetResource(pid)
	if cd, ok := d.World.Cooldowns.Get(pid); ok {
		clear(cd.Entries)
	}

	g.Room = 0
	g.Phase = component.PhaseCombat
	g.Paused = false
	d.scheduleSpawn(d.Balance.FirstSpawnDelay)
	d.World.Logf("You steel yourself and retry floor %d.", g.Floor)
	d.Log.Info("重試樓層", zap.Int("floor", g.Floor))
}

// ==================== 職業路線 ====================

// applyPath grants the player the path's power bar and resource, or its
// stances for a passive path.
func (d *Deps) applyPath(pid ecs.EntityID, path *data.PathInfo) {
	ws := d.World
	p, _ := ws.Players.Get(pid)
	p.PathID = path.ID

	switch path.Kind {
	case data.PathActive:
		for _, pw := range path.Powers {
			d.grantPower(pid, pw)
		}
		if r := path.Resource; r != nil {
			ws.Resources.Set(pid, &component.PathResource{
				Name:       r.Name,
				Current:    r.Start,
				Max:        r.Max,
				Behavior:   r.Behavior,
				OnHitGain:  r.OnHitGain,
				PerSecond:  r.PerSecond,
				Thresholds: thresholds(r.Thresholds),
			})
		}
	case data.PathPassive:
		active := ""
		if len(path.Stances) > 0 {
			active = path.Stances[0]
		}
		ws.Stances.Set(pid, &component.Stance{Active: active})
	}
	ws.Logf("You walk the path of the %s.", path.Name)
}

func thresholds(in []data.ThresholdInfo) []component.ResourceThreshold {
	out := make([]component.ResourceThreshold, 0, len(in))
	for _, t := range in {
		out = append(out, component.ResourceThreshold{Value: t.Value, DamageBonus: t.DamageBonus})
	}
	return out
}

// grantPower adds a power slot unless the player already has it.
func (d *Deps) grantPower(pid ecs.EntityID, powerID string) bool {
	pw, ok := d.World.Powers.Get(pid)
	if !ok {
		return false
	}
	for _, s := range pw.Slots {
		if s.ID == powerID {
			return false
		}
	}
	pw.Slots = append(pw.Slots, component.PowerSlot{ID: powerID})
	return true
}

// powerRank returns the upgrade rank of a power slot, 0 when absent.
func (d *Deps) powerRank(id ecs.EntityID, powerID string) int {
	if pw, ok := d.World.Powers.Get(id); ok {
		for _, s := range pw.Slots {
			if s.ID == powerID {
				return s.Rank
			}
		}
	}
	return 0
}

// ownsPower reports whether id has powerID on its bar (players) or in its
// ability list (enemies).
func (d *Deps) ownsPower(id ecs.EntityID, powerID string) bool {
	if pw, ok := d.World.Powers.Get(id); ok {
		for _, s := range pw.Slots {
			if s.ID == powerID {
				return true
			}
		}
	}
	if e, ok := d.World.Enemies.Get(id); ok {
		for _, a := range e.Abilities {
			if a == powerID {
				return true
			}
		}
	}
	return false
}

// ==================== 資源 ====================

// canAfford checks the cost of pw against id's path resource, falling back to
// mana. Returns a short reason when the cast is not affordable.
func (d *Deps) canAfford(id ecs.EntityID, pw *data.PowerInfo) (bool, string) {
	if res, ok := d.World.Resources.Get(id); ok {
		switch res.Behavior {
		case component.ResourceGain:
			if res.Current+pw.Cost > res.Max {
				return false, res.Name + " would overflow"
			}
		default:
			if res.Current < pw.Cost {
				return false, "not enough " + res.Name
			}
		}
		return true, ""
	}
	if m, ok := d.World.Manas.Get(id); ok {
		if m.Current < pw.Cost {
			return false, "not enough mana"
		}
		return true, ""
	}
	if pw.Cost > 0 {
		return false, "no resource"
	}
	return true, ""
}

// onCooldown reports whether key has time remaining for id.
func (d *Deps) onCooldown(id ecs.EntityID, key string) bool {
	cd, ok := d.World.Cooldowns.Get(id)
	if !ok {
		return false
	}
	e, ok := cd.Entries[key]
	return ok && e.Remaining > 0
}

func (d *Deps) startCooldown(id ecs.EntityID, key string, ms float64) {
	if ms <= 0 {
		return
	}
	cd, ok := d.World.Cooldowns.Get(id)
	if !ok {
		cd = &component.Cooldowns{Entries: make(map[string]*component.Cooldown)}
		d.World.Cooldowns.Set(id, cd)
	}
	cd.Entries[key] = &component.Cooldown{Remaining: ms, Base: ms}
}
