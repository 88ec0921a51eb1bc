package system

import (
	"time"

	"github.com/roguewave/sim/internal/command"
	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	coresys "github.com/roguewave/sim/internal/core/system"
	"go.uber.org/zap"
)

// Drainer is the consuming side of the command queue.
type Drainer interface {
	Drain() []command.Command
}

// InputSystem drains the command queue and applies each command as the
// smallest possible state change. Commands that do not apply are dropped.
// Phase 0 (Input).
type InputSystem struct {
	d        *Deps
	queue    Drainer
	observer func(tick uint64, cmds []command.Command)
}

func NewInputSystem(d *Deps, queue Drainer) *InputSystem {
	return &InputSystem{d: d, queue: queue}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Observe registers fn to receive every non-empty drained batch before it is
// applied. Used by the replay recorder.
func (s *InputSystem) Observe(fn func(tick uint64, cmds []command.Command)) {
	s.observer = fn
}

func (s *InputSystem) Update(_ time.Duration) {
	cmds := s.queue.Drain()
	if len(cmds) == 0 {
		return
	}
	if s.observer != nil {
		s.observer(s.d.World.Tick, cmds)
	}
	for _, c := range cmds {
		s.handle(c)
	}
}

func (s *InputSystem) handle(c command.Command) {
	switch cmd := c.(type) {
	case command.ActivatePower:
		s.activatePower(cmd.PowerID)
	case command.Block:
		s.block()
	case command.SetCombatSpeed:
		s.setCombatSpeed(cmd.Speed)
	case command.TogglePause:
		s.togglePause()
	case command.SelectClass:
		s.selectClass(cmd.ClassID)
	case command.StartGame:
		s.startGame()
	case command.SelectPath:
		s.selectPath(cmd.PathID)
	case command.SelectSubpath:
		s.selectSubpath(cmd.SubpathID)
	case command.SelectAbility:
		s.selectAbility(cmd.AbilityID)
	case command.SwitchStance:
		s.switchStance(cmd.StanceID)
	case command.AdvanceRoom:
		s.advanceRoom()
	case command.GoToShop:
		s.goToShop()
	case command.LeaveShop:
		s.leaveShop()
	case command.RetryFloor:
		s.retryFloor()
	case command.AbandonRun:
		s.abandonRun()
	case command.DismissPopup:
		s.dismissPopup(cmd.Popup)
	case command.MarkAnimationsConsumed:
		s.d.World.ConsumeAnimations(cmd.IDs)
	case command.PurchaseItem:
		s.purchaseItem(cmd.ItemID, cmd.Cost)
	case command.EnhanceItem:
		s.enhanceItem(component.EquipSlot(cmd.Slot))
	default:
		s.d.Log.Debug("未知指令，已丟棄", zap.Any("command", c))
	}
}

func (s *InputSystem) drop(kind command.Kind, reason string) {
	s.d.Log.Debug("指令已丟棄", zap.String("kind", string(kind)), zap.String("reason", reason))
}

// ==================== 戰鬥指令 ====================

// combatReady returns the player when combat commands may act on it.
func (s *InputSystem) combatReady(kind command.Kind) (ecs.EntityID, bool) {
	ws := s.d.World
	if !ws.InCombat() {
		s.drop(kind, "not in combat")
		return 0, false
	}
	if ws.Game().Paused {
		s.drop(kind, "paused")
		return 0, false
	}
	id, found := ws.Player()
	if !found || ws.Defeated(id) {
		s.drop(kind, "player defeated")
		return 0, false
	}
	return id, true
}

func (s *InputSystem) activatePower(powerID string) {
	pid, ok := s.combatReady(command.KindActivatePower)
	if !ok {
		return
	}
	d, ws := s.d, s.d.World
	pw := d.Content.Powers.Get(powerID)
	switch {
	case pw == nil || !d.ownsPower(pid, powerID):
		s.drop(command.KindActivatePower, "power not owned")
		return
	case ws.Stunned(pid):
		s.drop(command.KindActivatePower, "stunned")
		return
	case d.onCooldown(pid, powerID):
		s.drop(command.KindActivatePower, "on cooldown")
		return
	case ws.Casting.Has(pid):
		s.drop(command.KindActivatePower, "already casting")
		return
	}
	if ok, reason := d.canAfford(pid, pw); !ok {
		ws.Logf("Cannot use %s: %s.", pw.Name, reason)
		s.drop(command.KindActivatePower, reason)
		return
	}
	ws.Casting.Set(pid, &component.Casting{PowerID: powerID})
}

func (s *InputSystem) block() {
	pid, ok := s.combatReady(command.KindBlock)
	if !ok {
		return
	}
	d, ws := s.d, s.d.World
	if ws.Stunned(pid) || ws.Blocking.Has(pid) || d.onCooldown(pid, blockCooldownKey) {
		s.drop(command.KindBlock, "cannot block now")
		return
	}
	ws.Blocking.Set(pid, &component.Blocking{Reduction: d.Balance.BlockReduction})
	d.startCooldown(pid, blockCooldownKey, d.Balance.BlockCooldown)
	ws.Animate(component.AnimBlock, true, 0, "block")
}

// blockCooldownKey is the cooldown-table entry used by BLOCK.
const blockCooldownKey = "block"

func (s *InputSystem) setCombatSpeed(n int) {
	if n < 1 || n > 3 {
		s.drop(command.KindSetCombatSpeed, "speed out of range")
		return
	}
	s.d.World.Game().CombatSpeed = n
}

func (s *InputSystem) togglePause() {
	if !s.d.World.InCombat() {
		s.drop(command.KindTogglePause, "not in combat")
		return
	}
	g := s.d.World.Game()
	g.Paused = !g.Paused
}

// ==================== 選擇 ====================

func (s *InputSystem) selectClass(classID string) {
	g := s.d.World.Game()
	if g.Phase != component.PhaseMenu || s.d.Content.Classes.Get(classID) == nil {
		s.drop(command.KindSelectClass, "invalid class or phase")
		return
	}
	g.SelectedClass = classID
}

func (s *InputSystem) startGame() {
	g := s.d.World.Game()
	class := s.d.Content.Classes.Get(g.SelectedClass)
	if g.Phase != component.PhaseMenu || class == nil {
		s.drop(command.KindStartGame, "no class selected")
		return
	}
	s.d.startRun(class)
}

func (s *InputSystem) selectPath(pathID string) {
	d, ws := s.d, s.d.World
	pid, ok := ws.Player()
	feed := ws.Feed()
	if !ok || !feed.PathPending {
		s.drop(command.KindSelectPath, "no path choice pending")
		return
	}
	p, _ := ws.Players.Get(pid)
	path := d.Content.Paths.Get(pathID)
	if path == nil || path.Class != p.ClassID {
		s.drop(command.KindSelectPath, "path not available to class")
		return
	}
	d.applyPath(pid, path)
	feed.PathPending = false
	ws.ClosePopup(component.PopupPathChoice)
}

func (s *InputSystem) selectSubpath(subpathID string) {
	d, ws := s.d, s.d.World
	pid, ok := ws.Player()
	feed := ws.Feed()
	if !ok || !feed.SubpathPending {
		s.drop(command.KindSelectSubpath, "no subpath choice pending")
		return
	}
	p, _ := ws.Players.Get(pid)
	sub := d.Content.Paths.Subpath(subpathID)
	if sub == nil || sub.Path != p.PathID {
		s.drop(command.KindSelectSubpath, "subpath not on path")
		return
	}
	p.SubpathID = sub.ID
	if b, ok := ws.Bonuses.Get(pid); ok {
		*b = b.Add(sub.Bonus.StatMods())
	}
	for _, pw := range sub.Powers {
		d.grantPower(pid, pw)
	}
	if st, ok := ws.Stances.Get(pid); ok {
		st.Enhancements = append(st.Enhancements, sub.Enhancements...)
	}
	feed.SubpathPending = false
	ws.ClosePopup(component.PopupSubpathPick)
	ws.Logf("You specialise as a %s.", sub.Name)
}

func (s *InputSystem) selectAbility(abilityID string) {
	d, ws := s.d, s.d.World
	pid, ok := ws.Player()
	feed := ws.Feed()
	if !ok {
		s.drop(command.KindSelectAbility, "no player")
		return
	}
	var choice *component.Choice
	for i := range feed.AbilityChoices {
		if feed.AbilityChoices[i].ID == abilityID {
			choice = &feed.AbilityChoices[i]
			break
		}
	}
	if choice == nil {
		s.drop(command.KindSelectAbility, "not offered")
		return
	}

	switch choice.Kind {
	case component.ChoicePower:
		if !d.grantPower(pid, abilityID) {
			d.upgradePower(pid, abilityID)
		}
	case component.ChoiceUpgrade:
		d.upgradePower(pid, abilityID)
	case component.ChoiceStance:
		if st, ok := ws.Stances.Get(pid); ok {
			st.Enhancements = append(st.Enhancements, abilityID)
		}
	}
	feed.AbilityChoices = nil
	ws.ClosePopup(component.PopupAbilityPick)
}

func (s *InputSystem) switchStance(stanceID string) {
	d, ws := s.d, s.d.World
	pid, ok := ws.Player()
	if !ok || ws.Game().Phase == component.PhaseMenu {
		s.drop(command.KindSwitchStance, "no run")
		return
	}
	st, ok := ws.Stances.Get(pid)
	info := d.Content.Paths.Stance(stanceID)
	p, _ := ws.Players.Get(pid)
	switch {
	case !ok:
		s.drop(command.KindSwitchStance, "no stances")
	case info == nil || info.Path != p.PathID:
		s.drop(command.KindSwitchStance, "unknown stance")
	case st.Active == stanceID:
		s.drop(command.KindSwitchStance, "already active")
	case st.SwitchCooldown > 0:
		s.drop(command.KindSwitchStance, "on cooldown")
	default:
		st.Active = stanceID
		st.SwitchCooldown = d.Balance.StanceSwitchCooldown
		ws.Logf("You shift into %s stance.", info.Name)
	}
}

// ==================== 流程指令 ====================

func (s *InputSystem) advanceRoom() {
	if s.d.World.Game().Phase != component.PhaseFloorComplete {
		s.drop(command.KindAdvanceRoom, "floor not complete")
		return
	}
	s.d.nextFloor()
}

func (s *InputSystem) goToShop() {
	g := s.d.World.Game()
	if g.Phase != component.PhaseFloorComplete {
		s.drop(command.KindGoToShop, "floor not complete")
		return
	}
	g.Phase = component.PhaseShop
}

func (s *InputSystem) leaveShop() {
	if s.d.World.Game().Phase != component.PhaseShop {
		s.drop(command.KindLeaveShop, "not in shop")
		return
	}
	s.d.nextFloor()
}

func (s *InputSystem) retryFloor() {
	if s.d.World.Game().Phase != component.PhaseDefeat {
		s.drop(command.KindRetryFloor, "not defeated")
		return
	}
	s.d.retryFloor()
}

func (s *InputSystem) abandonRun() {
	ws := s.d.World
	if ws.Game().Phase == component.PhaseMenu {
		s.drop(command.KindAbandonRun, "no run")
		return
	}
	floor := ws.Game().Floor
	s.d.Bus.Discard()
	ws.Reset()
	s.d.Log.Info("放棄本局", zap.Int("floor", floor))
}

func (s *InputSystem) dismissPopup(kind string) {
	k := component.PopupKind(kind)
	if !k.Dismissible() || !s.d.World.ClosePopup(k) {
		s.drop(command.KindDismissPopup, "popup not dismissible")
	}
}
