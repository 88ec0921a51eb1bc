package system

import (
	"github.com/roguewave/sim/internal/command"
	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	"go.uber.org/zap"
)

// 商店：購買會替換同部位裝備，強化提升裝備等級。

func (s *InputSystem) shopPlayer(kind command.Kind) (ecs.EntityID, *component.Progress, *component.Equipment, bool) {
	ws := s.d.World
	if ws.Game().Phase != component.PhaseShop {
		s.drop(kind, "not in shop")
		return 0, nil, nil, false
	}
	pid, ok := ws.Player()
	if !ok {
		s.drop(kind, "no player")
		return 0, nil, nil, false
	}
	prog, ok1 := ws.Progress.Get(pid)
	eq, ok2 := ws.Equipment.Get(pid)
	if !ok1 || !ok2 {
		s.drop(kind, "player has no inventory")
		return 0, nil, nil, false
	}
	return pid, prog, eq, true
}

func (s *InputSystem) purchaseItem(itemID string, cost int) {
	pid, prog, eq, ok := s.shopPlayer(command.KindPurchaseItem)
	if !ok {
		return
	}
	d := s.d
	item := d.Content.Items.Get(itemID)
	switch {
	case item == nil:
		s.drop(command.KindPurchaseItem, "unknown item")
		return
	case cost != item.Price:
		s.drop(command.KindPurchaseItem, "price mismatch")
		return
	case prog.Gold < cost:
		d.World.Logf("Not enough gold for %s (%d needed).", item.Name, cost)
		s.drop(command.KindPurchaseItem, "not enough gold")
		return
	}
	before := d.maxHealthBonus(pid)
	prog.Gold -= cost
	eq.Slots[item.Slot] = component.EquippedItem{ItemID: item.ID}
	d.refreshItemHealth(pid, before)
	d.World.Logf("Bought %s for %d gold.", item.Name, cost)
	d.Log.Debug("購買裝備", zap.String("item", item.ID), zap.Int("gold", prog.Gold))
}

func (s *InputSystem) enhanceItem(slot component.EquipSlot) {
	pid, prog, eq, ok := s.shopPlayer(command.KindEnhanceItem)
	if !ok {
		return
	}
	d := s.d
	cur, ok := eq.Slots[slot]
	if !ok {
		s.drop(command.KindEnhanceItem, "slot empty")
		return
	}
	item := d.Content.Items.Get(cur.ItemID)
	if item == nil || cur.Level >= item.MaxLevel {
		s.drop(command.KindEnhanceItem, "cannot enhance further")
		return
	}
	cost := d.Lua.EnhanceCost(item.Price, cur.Level)
	if cost < 0 || prog.Gold < cost {
		s.drop(command.KindEnhanceItem, "not enough gold")
		return
	}
	before := d.maxHealthBonus(pid)
	prog.Gold -= cost
	cur.Level++
	eq.Slots[slot] = cur
	d.refreshItemHealth(pid, before)
	d.World.Logf("%s is now +%d.", item.Name, cur.Level)
}

// refreshItemHealth moves Health.Max (and Current) by the change in
// equipment health since before.
func (d *Deps) refreshItemHealth(pid ecs.EntityID, before int) {
	h, ok := d.World.Healths.Get(pid)
	if !ok {
		return
	}
	delta := d.maxHealthBonus(pid) - before
	h.Max += delta
	if h.Max < 1 {
		h.Max = 1
	}
	h.Current = max(0, min(h.Current+delta, h.Max))
	if h.Current == 0 && delta < 0 {
		h.Current = 1
	}
}
