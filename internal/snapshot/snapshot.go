// Package snapshot projects the world into a read model for presentation.
// Build never mutates the world and every slice or map in the result is a
// copy, so a snapshot stays valid after later ticks.
package snapshot

import (
	"maps"
	"slices"
	"sort"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	"github.com/roguewave/sim/internal/world"
)

type Snapshot struct {
	Tick   uint64
	Game   GameView
	Player *PlayerView // nil before a run starts
	Enemy  *EnemyView  // nil when no enemy is on the field

	// PlayerAttackProgress and EnemyAttackProgress are the 0..1 fill of each
	// side's auto-attack timer.
	PlayerAttackProgress float64
	EnemyAttackProgress  float64
}

type GameView struct {
	Phase          component.RunPhase
	Floor          int
	Room           int
	CombatSpeed    int
	Paused         bool
	SelectedClass  string
	RunID          string
	RunTicks       uint64
	CombatLog      []string
	Animations     []component.AnimationEvent
	Popups         []component.Popup
	PathPending    bool
	SubpathPending bool
	AbilityChoices []component.Choice
}

type PowerView struct {
	ID       string
	Rank     int
	Cooldown float64 // remaining ms, 0 = ready
}

type PlayerView struct {
	Name      string
	ClassID   string
	PathID    string
	SubpathID string

	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int
	Shield    int

	Resource *ResourceView

	Attack     int
	Defense    int
	Speed      float64
	CritChance float64
	Fortune    int

	Level    int
	XP       int
	XPToNext int
	Gold     int

	Powers        []PowerView
	BlockCooldown float64
	Blocking      bool
	Stance        string
	StanceCD      float64
	Enhancements  []string
	Statuses      []component.StatusEffect
	Buffs         []component.Buff
	Equipment     map[component.EquipSlot]component.EquippedItem
	Dying         bool
}

type ResourceView struct {
	Name     string
	Current  int
	Max      int
	Behavior component.ResourceBehavior
}

type EnemyView struct {
	Name      string
	Template  string
	Tier      component.EnemyTier
	Health    int
	MaxHealth int
	Shield    int
	Attack    int
	Defense   int
	Intent    string
	Modifiers []string
	Statuses  []component.StatusEffect
	Buffs     []component.Buff
	Dying     bool
}

// Build projects ws. Calling it twice without a tick in between returns
// structurally equal snapshots.
func Build(ws *world.State) Snapshot {
	g := ws.Game()
	f := ws.Feed()
	snap := Snapshot{
		Tick: ws.Tick,
		Game: GameView{
			Phase:          g.Phase,
			Floor:          g.Floor,
			Room:           g.Room,
			CombatSpeed:    g.CombatSpeed,
			Paused:         g.Paused,
			SelectedClass:  g.SelectedClass,
			RunID:          g.RunID,
			RunTicks:       g.RunTicks,
			CombatLog:      slices.Clone(f.CombatLog),
			Animations:     slices.Clone(f.Animations),
			Popups:         slices.Clone(f.Popups),
			PathPending:    f.PathPending,
			SubpathPending: f.SubpathPending,
			AbilityChoices: slices.Clone(f.AbilityChoices),
		},
	}
	if pid, ok := ws.Player(); ok {
		snap.Player = player(ws, pid)
		snap.PlayerAttackProgress = attackProgress(ws, pid)
	}
	if eid, ok := visibleEnemy(ws); ok {
		snap.Enemy = enemy(ws, eid)
		snap.EnemyAttackProgress = attackProgress(ws, eid)
	}
	return snap
}

// visibleEnemy prefers the fighting enemy and falls back to one still in its
// dying window so the death animation has something to show.
func visibleEnemy(ws *world.State) (ecs.EntityID, bool) {
	if id, ok := ws.ActiveEnemy(); ok {
		return id, true
	}
	ids := ws.Enemies.Entities()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[len(ids)-1], true
}

func attackProgress(ws *world.State, id ecs.EntityID) float64 {
	sp, ok := ws.Speeds.Get(id)
	if !ok || ws.Defeated(id) {
		return 0
	}
	wait := sp.Threshold
	if wait <= 0 {
		wait = sp.AttackInterval
	}
	if wait <= 0 {
		return 0
	}
	return min(1, max(0, sp.Accumulated/wait))
}

func player(ws *world.State, id ecs.EntityID) *PlayerView {
	p, _ := ws.Players.Get(id)
	v := &PlayerView{
		Name:      p.Name,
		ClassID:   p.ClassID,
		PathID:    p.PathID,
		SubpathID: p.SubpathID,
		Blocking:  ws.Blocking.Has(id),
		Dying:     ws.Dying.Has(id),
	}
	if h, ok := ws.Healths.Get(id); ok {
		v.Health, v.MaxHealth = h.Current, h.Max
	}
	if m, ok := ws.Manas.Get(id); ok {
		v.Mana, v.MaxMana = m.Current, m.Max
	}
	if s, ok := ws.Shields.Get(id); ok {
		v.Shield = s.Amount
	}
	if r, ok := ws.Resources.Get(id); ok {
		v.Resource = &ResourceView{Name: r.Name, Current: r.Current, Max: r.Max, Behavior: r.Behavior}
	}
	if a, ok := ws.Attacks.Get(id); ok {
		v.Attack, v.CritChance = a.Damage, a.CritChance
	}
	if d, ok := ws.Defenses.Get(id); ok {
		v.Defense = d.Value
	}
	if sp, ok := ws.Speeds.Get(id); ok {
		v.Speed = sp.Value
	}
	if fo, ok := ws.Fortunes.Get(id); ok {
		v.Fortune = fo.Value
	}
	if pr, ok := ws.Progress.Get(id); ok {
		v.Level, v.XP, v.XPToNext, v.Gold = pr.Level, pr.XP, pr.XPToNext, pr.Gold
	}

	cd, _ := ws.Cooldowns.Get(id)
	remaining := func(key string) float64 {
		if cd == nil {
			return 0
		}
		if e, ok := cd.Entries[key]; ok {
			return e.Remaining
		}
		return 0
	}
	if pw, ok := ws.Powers.Get(id); ok {
		for _, s := range pw.Slots {
			v.Powers = append(v.Powers, PowerView{ID: s.ID, Rank: s.Rank, Cooldown: remaining(s.ID)})
		}
	}
	v.BlockCooldown = remaining("block")

	if st, ok := ws.Stances.Get(id); ok {
		v.Stance = st.Active
		v.StanceCD = st.SwitchCooldown
		v.Enhancements = slices.Clone(st.Enhancements)
	}
	v.Statuses, v.Buffs = effects(ws, id)
	if eq, ok := ws.Equipment.Get(id); ok {
		v.Equipment = maps.Clone(eq.Slots)
	}
	return v
}

func enemy(ws *world.State, id ecs.EntityID) *EnemyView {
	e, _ := ws.Enemies.Get(id)
	v := &EnemyView{
		Name:      e.Name,
		Template:  e.TemplateID,
		Tier:      e.Tier,
		Intent:    e.Intent,
		Modifiers: slices.Clone(e.Modifiers),
		Dying:     ws.Defeated(id),
	}
	if h, ok := ws.Healths.Get(id); ok {
		v.Health, v.MaxHealth = h.Current, h.Max
	}
	if s, ok := ws.Shields.Get(id); ok {
		v.Shield = s.Amount
	}
	if a, ok := ws.Attacks.Get(id); ok {
		v.Attack = a.Damage
	}
	if d, ok := ws.Defenses.Get(id); ok {
		v.Defense = d.Value
	}
	v.Statuses, v.Buffs = effects(ws, id)
	return v
}

// effects copies the status effects and buffs, longest remaining first.
func effects(ws *world.State, id ecs.EntityID) ([]component.StatusEffect, []component.Buff) {
	var sts []component.StatusEffect
	var bfs []component.Buff
	if st, ok := ws.Statuses.Get(id); ok {
		sts = slices.Clone(st.Active)
		sort.SliceStable(sts, func(i, j int) bool { return sts[i].Remaining > sts[j].Remaining })
	}
	if b, ok := ws.Buffs.Get(id); ok {
		bfs = slices.Clone(b.Active)
		sort.SliceStable(bfs, func(i, j int) bool { return bfs[i].Remaining > bfs[j].Remaining })
	}
	return sts, bfs
}
