package snapshot_test

import (
	"testing"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	"github.com/roguewave/sim/internal/snapshot"
	"github.com/roguewave/sim/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPlayer(ws *world.State) ecs.EntityID {
	id := ws.World.CreateEntity()
	ws.Players.Set(id, &component.Player{Name: "Warrior", ClassID: "warrior"})
	ws.Healths.Set(id, &component.Health{Current: 90, Max: 120})
	ws.Manas.Set(id, &component.Mana{Current: 10, Max: 40})
	ws.Attacks.Set(id, &component.Attack{Damage: 14, CritChance: 0.05})
	ws.Speeds.Set(id, &component.Speed{Value: 10, AttackInterval: 1000, Accumulated: 250})
	ws.Powers.Set(id, &component.Powers{Slots: []component.PowerSlot{{ID: "power_strike", Rank: 1}}})
	ws.Cooldowns.Set(id, &component.Cooldowns{Entries: map[string]*component.Cooldown{
		"power_strike": {Remaining: 1500, Base: 4000},
		"block":        {Remaining: 800, Base: 3000},
	}})
	ws.Statuses.Set(id, &component.StatusEffects{Active: []component.StatusEffect{
		{Type: component.StatusPoison, Remaining: 1000},
		{Type: component.StatusSlow, Remaining: 3000},
	}})
	ws.Equipment.Set(id, &component.Equipment{Slots: map[component.EquipSlot]component.EquippedItem{
		component.SlotWeapon: {ItemID: "rusty_sword", Level: 2},
	}})
	ws.Progress.Set(id, &component.Progress{Level: 3, XP: 10, XPToNext: 225, Gold: 40})
	return id
}

func withEnemy(ws *world.State, name string) ecs.EntityID {
	id := ws.World.CreateEntity()
	ws.Enemies.Set(id, &component.Enemy{Name: name, TemplateID: "goblin", Tier: component.TierNormal, Intent: "enemy_bash"})
	ws.Healths.Set(id, &component.Health{Current: 30, Max: 40})
	ws.Speeds.Set(id, &component.Speed{Value: 11, AttackInterval: 900, Accumulated: 2000})
	return id
}

func TestBuildEmptyWorld(t *testing.T) {
	ws := world.NewState(10)
	snap := snapshot.Build(ws)
	assert.Equal(t, component.PhaseMenu, snap.Game.Phase)
	assert.Equal(t, 1, snap.Game.CombatSpeed)
	assert.Nil(t, snap.Player)
	assert.Nil(t, snap.Enemy)
}

func TestBuildPlayerView(t *testing.T) {
	ws := world.NewState(10)
	withPlayer(ws)
	snap := snapshot.Build(ws)

	p := snap.Player
	require.NotNil(t, p)
	assert.Equal(t, 90, p.Health)
	assert.Equal(t, 120, p.MaxHealth)
	assert.Equal(t, []snapshot.PowerView{{ID: "power_strike", Rank: 1, Cooldown: 1500}}, p.Powers)
	assert.InDelta(t, 800, p.BlockCooldown, 1e-9)
	assert.Nil(t, p.Resource)
	assert.Equal(t, 40, p.Gold)
	assert.InDelta(t, 0.25, snap.PlayerAttackProgress, 1e-9)

	require.Len(t, p.Statuses, 2)
	assert.Equal(t, component.StatusSlow, p.Statuses[0].Type, "longest remaining first")
	assert.Equal(t, 2, p.Equipment[component.SlotWeapon].Level)
}

func TestBuildCopiesState(t *testing.T) {
	ws := world.NewState(10)
	pid := withPlayer(ws)
	ws.Logf("hello")

	snap := snapshot.Build(ws)
	snap.Player.Equipment[component.SlotArmor] = component.EquippedItem{ItemID: "x"}
	snap.Player.Statuses[0].Remaining = -1
	snap.Game.CombatLog[0] = "changed"

	eq, _ := ws.Equipment.Get(pid)
	assert.NotContains(t, eq.Slots, component.SlotArmor)
	st, _ := ws.Statuses.Get(pid)
	assert.InDelta(t, 1000, st.Active[0].Remaining, 1e-9)
	assert.Equal(t, "hello", ws.Feed().CombatLog[0])
	assert.Equal(t, snapshot.Build(ws), snapshot.Build(ws))
}

func TestAttackProgressUsesSlowedThreshold(t *testing.T) {
	ws := world.NewState(10)
	withPlayer(ws)
	eid := withEnemy(ws, "Goblin")
	sp, _ := ws.Speeds.Get(eid)
	sp.AttackInterval, sp.Threshold, sp.Accumulated = 1000, 1150, 1000

	assert.InDelta(t, 1000.0/1150, snapshot.Build(ws).EnemyAttackProgress, 1e-9)
}

func TestEnemyViewPrefersActiveEnemy(t *testing.T) {
	ws := world.NewState(10)
	withPlayer(ws)
	dying := withEnemy(ws, "Old Goblin")
	ws.Dying.Set(dying, &component.Dying{Duration: 800})

	snap := snapshot.Build(ws)
	require.NotNil(t, snap.Enemy)
	assert.Equal(t, "Old Goblin", snap.Enemy.Name, "dying enemy stays visible")
	assert.True(t, snap.Enemy.Dying)
	assert.Zero(t, snap.EnemyAttackProgress)

	withEnemy(ws, "New Goblin")
	snap = snapshot.Build(ws)
	assert.Equal(t, "New Goblin", snap.Enemy.Name)
	assert.False(t, snap.Enemy.Dying)
	assert.InDelta(t, 1, snap.EnemyAttackProgress, 1e-9, "progress is clamped")
}
