package autopilot

import (
	"testing"

	"github.com/roguewave/sim/content"
	"github.com/roguewave/sim/internal/command"
	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/data"
	"github.com/roguewave/sim/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBot(t *testing.T, class string) *Bot {
	t.Helper()
	tables, err := data.LoadContent(content.Data())
	require.NoError(t, err)
	return New(class, tables)
}

func combatSnap() snapshot.Snapshot {
	return snapshot.Snapshot{
		Game: snapshot.GameView{Phase: component.PhaseCombat, Floor: 1, Room: 1, CombatSpeed: 1},
		Player: &snapshot.PlayerView{
			Name: "Warrior", ClassID: "warrior",
			Health: 120, MaxHealth: 120, Mana: 40, MaxMana: 40,
			Powers: []snapshot.PowerView{{ID: "power_strike"}},
		},
		Enemy: &snapshot.EnemyView{Name: "Goblin", Health: 40, MaxHealth: 40},
	}
}

func TestMenuSelectsClassThenStarts(t *testing.T) {
	b := newBot(t, "rogue")
	snap := snapshot.Snapshot{Game: snapshot.GameView{Phase: component.PhaseMenu}}
	assert.Equal(t, []command.Command{command.SelectClass{ClassID: "rogue"}}, b.Decide(snap))

	snap.Game.SelectedClass = "rogue"
	assert.Equal(t, []command.Command{command.StartGame{}}, b.Decide(snap))
}

func TestFightUsesReadyPower(t *testing.T) {
	b := newBot(t, "warrior")
	cmds := b.Decide(combatSnap())
	assert.Contains(t, cmds, command.ActivatePower{PowerID: "power_strike"})
	assert.NotContains(t, cmds, command.Block{})
}

func TestFightSkipsCooldownAndUnaffordable(t *testing.T) {
	b := newBot(t, "warrior")
	snap := combatSnap()
	snap.Player.Powers[0].Cooldown = 500
	assert.Empty(t, b.Decide(snap))

	snap.Player.Powers[0].Cooldown = 0
	snap.Player.Mana = 5
	assert.Empty(t, b.Decide(snap))
}

func TestBlocksIncomingAttack(t *testing.T) {
	b := newBot(t, "warrior")
	snap := combatSnap()
	snap.EnemyAttackProgress = 0.9
	assert.Contains(t, b.Decide(snap), command.Block{})

	snap.Player.BlockCooldown = 1000
	assert.NotContains(t, b.Decide(snap), command.Block{})
}

func TestHealsWhenLow(t *testing.T) {
	b := newBot(t, "paladin")
	snap := combatSnap()
	snap.Player.ClassID = "paladin"
	snap.Player.Powers = []snapshot.PowerView{{ID: "holy_light"}}
	snap.Player.Mana = 70

	assert.NotContains(t, b.Decide(snap), command.ActivatePower{PowerID: "holy_light"}, "healthy")

	snap.Player.Health = 30
	assert.Contains(t, b.Decide(snap), command.ActivatePower{PowerID: "holy_light"})
}

func TestGainPoolAffordability(t *testing.T) {
	b := newBot(t, "mage")
	snap := combatSnap()
	snap.Player.Powers = []snapshot.PowerView{{ID: "arcane_blast"}}
	snap.Player.Resource = &snapshot.ResourceView{Name: "Arcane Charges", Current: 90, Max: 100, Behavior: component.ResourceGain}
	assert.Empty(t, b.Decide(snap))

	snap.Player.Resource.Current = 10
	assert.Contains(t, b.Decide(snap), command.ActivatePower{PowerID: "arcane_blast"})
}

func TestChoicesAndPopups(t *testing.T) {
	b := newBot(t, "warrior")
	snap := combatSnap()
	snap.Game.PathPending = true
	snap.Game.AbilityChoices = []component.Choice{{ID: "execute", Kind: component.ChoicePower}}
	snap.Game.Popups = []component.Popup{{Kind: component.PopupLevelUp}, {Kind: component.PopupPathChoice}}
	snap.Game.Animations = []component.AnimationEvent{{ID: 4}, {ID: 9}}

	cmds := b.Decide(snap)
	assert.Contains(t, cmds, command.MarkAnimationsConsumed{IDs: []uint64{4, 9}})
	assert.Contains(t, cmds, command.DismissPopup{Popup: string(component.PopupLevelUp)})
	assert.NotContains(t, cmds, command.DismissPopup{Popup: string(component.PopupPathChoice)})
	assert.Contains(t, cmds, command.SelectPath{PathID: "berserker"})
	assert.Contains(t, cmds, command.SelectAbility{AbilityID: "execute"})
}

func TestUnpausesBeforeFighting(t *testing.T) {
	b := newBot(t, "warrior")
	snap := combatSnap()
	snap.Game.Paused = true
	assert.Equal(t, []command.Command{command.TogglePause{}}, b.Decide(snap))
}

func TestStanceSwitchWhenHurt(t *testing.T) {
	b := newBot(t, "warrior")
	snap := combatSnap()
	snap.Player.PathID = "guardian"
	snap.Player.Powers = nil
	snap.Player.Stance = "bulwark"
	assert.Empty(t, b.Decide(snap))

	snap.Player.Health = 20
	assert.Contains(t, b.Decide(snap), command.SwitchStance{StanceID: "retaliation"})

	snap.Player.StanceCD = 100
	assert.Empty(t, b.Decide(snap))
}

func TestDefeatRetriesThenAbandons(t *testing.T) {
	b := newBot(t, "warrior")
	b.MaxRetries = 2
	snap := snapshot.Snapshot{Game: snapshot.GameView{Phase: component.PhaseDefeat}}

	assert.Equal(t, []command.Command{command.RetryFloor{}}, b.Decide(snap))
	assert.Equal(t, []command.Command{command.RetryFloor{}}, b.Decide(snap))
	assert.Equal(t, []command.Command{command.AbandonRun{}}, b.Decide(snap))
	assert.True(t, b.Done())
}

func TestVictoryEndsRun(t *testing.T) {
	b := newBot(t, "warrior")
	b.Decide(snapshot.Snapshot{Game: snapshot.GameView{Phase: component.PhaseVictory}})
	assert.True(t, b.Done())
}

func TestFloorCompleteShopsWhenAffordable(t *testing.T) {
	b := newBot(t, "warrior")
	snap := combatSnap()
	snap.Game.Phase = component.PhaseFloorComplete
	snap.Player.Gold = 10
	assert.Equal(t, []command.Command{command.AdvanceRoom{}}, b.Decide(snap))

	snap.Player.Gold = 30
	assert.Equal(t, []command.Command{command.GoToShop{}}, b.Decide(snap))
}

func TestShopBuysOncePerSlotThenLeaves(t *testing.T) {
	b := newBot(t, "warrior")
	snap := combatSnap()
	snap.Game.Phase = component.PhaseShop
	snap.Player.Gold = 65

	assert.Equal(t, []command.Command{command.PurchaseItem{ItemID: "rusty_sword", Cost: 30}}, b.Decide(snap))
	snap.Player.Gold = 35
	snap.Player.Equipment = map[component.EquipSlot]component.EquippedItem{component.SlotWeapon: {ItemID: "rusty_sword"}}
	assert.Equal(t, []command.Command{command.PurchaseItem{ItemID: "leather_armor", Cost: 30}}, b.Decide(snap))
	snap.Player.Gold = 5
	assert.Equal(t, []command.Command{command.LeaveShop{}}, b.Decide(snap))
}
