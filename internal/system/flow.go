package system

import (
	"strings"
	"time"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/event"
	coresys "github.com/roguewave/sim/internal/core/system"
	"github.com/roguewave/sim/internal/data"
	"github.com/roguewave/sim/internal/scripting"
	"go.uber.org/zap"
)

// FlowSystem counts down the scheduled phase transitions and enemy spawns on
// the GameState entity and applies the ones that come due. Runs last so a
// kill earlier in the tick has already scheduled its follow-up.
// Phase 9 (Flow).
type FlowSystem struct {
	d *Deps
}

func NewFlowSystem(d *Deps) *FlowSystem {
	return &FlowSystem{d: d}
}

func (s *FlowSystem) Phase() coresys.Phase { return coresys.PhaseFlow }

func (s *FlowSystem) Update(dt time.Duration) {
	ms := millis(dt)
	if ms <= 0 {
		return
	}
	sc := s.d.World.Schedule()

	var due []component.RunPhase
	kept := sc.Transitions[:0]
	for _, t := range sc.Transitions {
		t.Delay -= ms
		if t.Delay <= 0 {
			due = append(due, t.Phase)
			continue
		}
		kept = append(kept, t)
	}
	sc.Transitions = kept
	for _, phase := range due {
		s.transition(phase)
	}

	if !s.d.World.InCombat() {
		return
	}
	spawns := 0
	keptSpawns := sc.Spawns[:0]
	for _, sp := range sc.Spawns {
		sp.Delay -= ms
		if sp.Delay <= 0 {
			spawns++
			continue
		}
		keptSpawns = append(keptSpawns, sp)
	}
	sc.Spawns = keptSpawns
	for range spawns {
		s.spawn()
	}
}

// ==================== 階段轉換 ====================

func (s *FlowSystem) transition(phase component.RunPhase) {
	d, ws := s.d, s.d.World
	g := ws.Game()
	if phase == component.PhaseFloorComplete || phase == component.PhaseVictory {
		if pid, ok := ws.Player(); ok && ws.Defeated(pid) {
			d.Log.Debug("玩家已倒下，略過階段轉換", zap.String("phase", string(phase)))
			return
		}
	}
	switch phase {
	case component.PhaseFloorComplete:
		g.Phase = component.PhaseFloorComplete
		ws.Schedule().Spawns = nil
		ws.Logf("Floor %d cleared!", g.Floor)
		ws.ShowPopup(component.PopupFloorSummary, ws.Sprintf("Floor %d cleared", g.Floor))
		event.Emit(d.Bus, event.FloorCompleted{Tick: ws.Tick, Floor: g.Floor})
		d.Log.Info("樓層完成", zap.Int("floor", g.Floor))
	case component.PhaseVictory:
		g.Phase = component.PhaseVictory
		ws.Schedule().Spawns = nil
		level := 0
		if pid, ok := ws.Player(); ok {
			if prog, ok := ws.Progress.Get(pid); ok {
				level = prog.Level
			}
		}
		ws.Logf("Victory! The dungeon is conquered.")
		event.Emit(d.Bus, event.RunWon{Tick: ws.Tick, Floor: g.Floor, Level: level})
		d.Log.Info("通關", zap.Int("floor", g.Floor), zap.Int("level", level))
	case component.PhaseDefeat:
		g.Phase = component.PhaseDefeat
		g.Paused = false
	default:
		g.Phase = phase
	}
}

// ==================== 生怪 ====================

// spawn advances to the next room and creates its enemy. Past the last room it
// schedules floor completion, or victory on the final floor.
func (s *FlowSystem) spawn() {
	d, ws := s.d, s.d.World
	g := ws.Game()
	if pid, ok := ws.Player(); !ok || ws.Defeated(pid) {
		return
	}
	if _, busy := ws.ActiveEnemy(); busy {
		return
	}

	g.Room++
	if g.Room > d.Balance.RoomsPerFloor {
		g.Room = d.Balance.RoomsPerFloor
		if g.Floor >= d.Balance.MaxFloor {
			d.scheduleTransition(component.PhaseVictory, d.Balance.TransitionDelay)
		} else {
			d.scheduleTransition(component.PhaseFloorComplete, d.Balance.TransitionDelay)
		}
		return
	}

	tier := component.EnemyTier(d.Lua.EnemyTier(g.Floor, g.Room, d.Balance.RoomsPerFloor, d.Rng.Float64()))
	pool := d.Content.Enemies.Eligible(g.Floor, tier == component.TierBoss)
	if len(pool) == 0 && tier == component.TierBoss {
		tier = component.TierElite
		pool = d.Content.Enemies.Eligible(g.Floor, false)
	}
	if len(pool) == 0 {
		d.Log.Error("沒有可生成的敵人", zap.Int("floor", g.Floor))
		return
	}
	tmpl := pool[d.Rng.Intn(len(pool))]
	s.createEnemy(tmpl, tier)
}

func (s *FlowSystem) createEnemy(tmpl *data.EnemyInfo, tier component.EnemyTier) {
	d, ws := s.d, s.d.World
	g := ws.Game()
	st := d.Lua.EnemyStats(scripting.EnemyStatsContext{
		Health:  tmpl.Health,
		Attack:  tmpl.Attack,
		Defense: tmpl.Defense,
		Speed:   tmpl.Speed,
		XP:      tmpl.XP,
		Gold:    tmpl.Gold,
		Floor:   g.Floor,
		Tier:    string(tier),
	})

	health, attack := float64(st.Health), float64(st.Attack)
	defense, speed := st.Defense, st.Speed
	lifesteal := 0.0
	var mods, prefixes []string
	if n := d.Lua.ModifierCount(string(tier), g.Floor); n > 0 {
		ids := d.Content.Enemies.ModifierIDs()
		for _, i := range d.Rng.Perm(len(ids))[:min(n, len(ids))] {
			m := d.Content.Enemies.Modifier(ids[i])
			health *= m.HealthMult
			attack *= m.DamageMult
			defense += m.DefenseBonus
			speed *= m.SpeedMult
			lifesteal += m.Lifesteal
			mods = append(mods, m.ID)
			prefixes = append(prefixes, m.Name)
		}
	}
	name := tmpl.Name
	if len(prefixes) > 0 {
		name = strings.Join(prefixes, " ") + " " + name
	}

	id := ws.World.CreateEntity()
	hp := max(1, round(health))
	e := &component.Enemy{
		TemplateID: tmpl.ID,
		Name:       name,
		Tier:       tier,
		Floor:      g.Floor,
		Room:       g.Room,
		Abilities:  append([]string(nil), tmpl.Abilities...),
		Modifiers:  mods,
		XPReward:   st.XP,
		GoldReward: st.Gold,
		Lifesteal:  lifesteal,
	}
	cds := &component.Cooldowns{Entries: make(map[string]*component.Cooldown)}
	for _, a := range tmpl.Abilities {
		if pw := d.Content.Powers.Get(a); pw != nil && pw.Cooldown > 0 {
			cds.Entries[a] = &component.Cooldown{Remaining: pw.Cooldown, Base: pw.Cooldown}
		}
	}
	if len(e.Abilities) > 0 {
		e.Intent = e.Abilities[0]
	}

	ws.Enemies.Set(id, e)
	ws.Healths.Set(id, &component.Health{Current: hp, Max: hp})
	ws.Attacks.Set(id, &component.Attack{Damage: max(1, round(attack))})
	ws.Defenses.Set(id, &component.Defense{Value: defense})
	ws.Speeds.Set(id, &component.Speed{Value: speed, AttackInterval: d.Lua.AttackInterval(speed)})
	ws.Cooldowns.Set(id, cds)
	ws.Statuses.Set(id, &component.StatusEffects{})
	ws.Buffs.Set(id, &component.Buffs{})

	ws.Logf("A %s appears!", name)
	ws.Animate(component.AnimSpawn, false, hp, name)
	d.Log.Debug("敵人生成",
		zap.String("template", tmpl.ID), zap.String("tier", string(tier)),
		zap.Int("floor", g.Floor), zap.Int("room", g.Room), zap.Strings("modifiers", mods))
}
