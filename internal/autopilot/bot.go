// Package autopilot plays the game headless. The bot only reads snapshots and
// answers with commands, the same way a UI would.
package autopilot

import (
	"math"

	"github.com/roguewave/sim/internal/command"
	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/data"
	"github.com/roguewave/sim/internal/snapshot"
)

const (
	healBelow    = 0.4
	blockAbove   = 0.85 // enemy attack timer fill that triggers a block
	defaultTries = 3
)

// Bot decides the next commands for a snapshot. Content is used only to look
// up static definitions (costs, path ids, prices).
type Bot struct {
	class   string
	content *data.Content

	// MaxRetries is how many defeats the bot retries before abandoning.
	MaxRetries int

	retries  int
	done     bool
	shopDone map[string]bool
}

func New(class string, content *data.Content) *Bot {
	return &Bot{class: class, content: content, MaxRetries: defaultTries}
}

// Done reports whether the bot has won or given up.
func (b *Bot) Done() bool { return b.done }

// Decide returns the commands to dispatch for snap.
func (b *Bot) Decide(snap snapshot.Snapshot) []command.Command {
	var out []command.Command
	g := snap.Game
	if ids := animationIDs(g.Animations); len(ids) > 0 {
		out = append(out, command.MarkAnimationsConsumed{IDs: ids})
	}
	for _, p := range g.Popups {
		if p.Kind.Dismissible() {
			out = append(out, command.DismissPopup{Popup: string(p.Kind)})
		}
	}
	if g.Phase != component.PhaseShop {
		b.shopDone = nil
	}

	switch g.Phase {
	case component.PhaseMenu:
		if b.done {
			return out
		}
		if g.SelectedClass != b.class {
			return append(out, command.SelectClass{ClassID: b.class})
		}
		return append(out, command.StartGame{})
	case component.PhaseVictory:
		b.done = true
		return out
	case component.PhaseDefeat:
		if b.retries >= b.MaxRetries {
			b.done = true
			return append(out, command.AbandonRun{})
		}
		b.retries++
		return append(out, command.RetryFloor{})
	case component.PhaseFloorComplete:
		if snap.Player != nil && b.cheapestItem(snap.Player) <= snap.Player.Gold {
			return append(out, command.GoToShop{})
		}
		return append(out, command.AdvanceRoom{})
	case component.PhaseShop:
		return append(out, b.shop(snap.Player))
	case component.PhaseCombat:
		if g.Paused {
			return append(out, command.TogglePause{})
		}
		out = append(out, b.choices(snap)...)
		return append(out, b.fight(snap)...)
	}
	return out
}

func animationIDs(anims []component.AnimationEvent) []uint64 {
	if len(anims) == 0 {
		return nil
	}
	ids := make([]uint64, len(anims))
	for i, a := range anims {
		ids[i] = a.ID
	}
	return ids
}

// ==================== 選擇 ====================

func (b *Bot) choices(snap snapshot.Snapshot) []command.Command {
	g, p := snap.Game, snap.Player
	if p == nil {
		return nil
	}
	var out []command.Command
	if g.PathPending {
		if class := b.content.Classes.Get(p.ClassID); class != nil && len(class.Paths) > 0 {
			out = append(out, command.SelectPath{PathID: class.Paths[0]})
		}
	}
	if g.SubpathPending {
		if path := b.content.Paths.Get(p.PathID); path != nil && len(path.Subpaths) > 0 {
			out = append(out, command.SelectSubpath{SubpathID: path.Subpaths[0]})
		}
	}
	if len(g.AbilityChoices) > 0 {
		out = append(out, command.SelectAbility{AbilityID: g.AbilityChoices[0].ID})
	}
	return out
}

// ==================== 戰鬥 ====================

func (b *Bot) fight(snap snapshot.Snapshot) []command.Command {
	p, e := snap.Player, snap.Enemy
	if p == nil || p.Dying || e == nil || e.Dying {
		return nil
	}
	var out []command.Command
	if c, ok := b.stance(p); ok {
		out = append(out, c)
	}
	if !p.Blocking && p.BlockCooldown <= 0 && snap.EnemyAttackProgress >= blockAbove {
		out = append(out, command.Block{})
	}

	low := p.MaxHealth > 0 && float64(p.Health)/float64(p.MaxHealth) < healBelow
	var pick string
	for _, pw := range p.Powers {
		info := b.content.Powers.Get(pw.ID)
		if info == nil || pw.Cooldown > 0 || !affordable(p, info.Cost) {
			continue
		}
		if info.Effect == data.EffectHeal {
			if low {
				pick = pw.ID
				break
			}
			continue
		}
		if pick == "" {
			pick = pw.ID
		}
	}
	if pick != "" {
		out = append(out, command.ActivatePower{PowerID: pick})
	}
	return out
}

// stance switches to the path's second stance when hurt and back when healthy.
func (b *Bot) stance(p *snapshot.PlayerView) (command.Command, bool) {
	if p.Stance == "" || p.StanceCD > 0 {
		return nil, false
	}
	path := b.content.Paths.Get(p.PathID)
	if path == nil || len(path.Stances) < 2 {
		return nil, false
	}
	want := path.Stances[0]
	if p.MaxHealth > 0 && float64(p.Health)/float64(p.MaxHealth) < healBelow {
		want = path.Stances[1]
	}
	if want == p.Stance {
		return nil, false
	}
	return command.SwitchStance{StanceID: want}, true
}

func affordable(p *snapshot.PlayerView, cost int) bool {
	if r := p.Resource; r != nil {
		if r.Behavior == component.ResourceGain {
			return r.Current+cost <= r.Max
		}
		return r.Current >= cost
	}
	return p.Mana >= cost
}

// ==================== 商店 ====================

// shop buys the first affordable item for each empty slot, then leaves.
func (b *Bot) shop(p *snapshot.PlayerView) command.Command {
	if b.shopDone == nil {
		b.shopDone = make(map[string]bool)
	}
	if p != nil {
		for _, id := range b.content.Items.Stock() {
			it := b.content.Items.Get(id)
			if b.shopDone[string(it.Slot)] || it.Price > p.Gold {
				continue
			}
			if _, equipped := p.Equipment[it.Slot]; equipped {
				continue
			}
			b.shopDone[string(it.Slot)] = true
			return command.PurchaseItem{ItemID: it.ID, Cost: it.Price}
		}
	}
	return command.LeaveShop{}
}

func (b *Bot) cheapestItem(p *snapshot.PlayerView) int {
	best := -1
	for _, id := range b.content.Items.Stock() {
		it := b.content.Items.Get(id)
		if _, equipped := p.Equipment[it.Slot]; equipped {
			continue
		}
		if best < 0 || it.Price < best {
			best = it.Price
		}
	}
	if best < 0 {
		return math.MaxInt
	}
	return best
}
