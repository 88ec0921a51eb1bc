package system

import (
	"slices"
	"time"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	"github.com/roguewave/sim/internal/core/event"
	coresys "github.com/roguewave/sim/internal/core/system"
	"github.com/roguewave/sim/internal/data"
	"go.uber.org/zap"
)

// ProgressionSystem converts banked XP into levels and offers the level-gated
// path, subpath and ability choices. Phase 8 (Progression).
type ProgressionSystem struct {
	d *Deps
}

func NewProgressionSystem(d *Deps) *ProgressionSystem {
	return &ProgressionSystem{d: d}
}

func (s *ProgressionSystem) Phase() coresys.Phase { return coresys.PhaseProgression }

func (s *ProgressionSystem) Update(_ time.Duration) {
	ws := s.d.World
	pid, ok := ws.Player()
	if !ok {
		return
	}
	prog, ok := ws.Progress.Get(pid)
	if !ok {
		return
	}
	if prog.XPToNext <= 0 {
		s.d.Log.Warn("經驗門檻無效，已修正", zap.Int("xp_to_next", prog.XPToNext))
		prog.XPToNext = max(1, s.d.Balance.BaseXPToNext)
	}
	for prog.XP >= prog.XPToNext {
		prog.XP -= prog.XPToNext
		prog.Level++
		prog.XPToNext = max(1, int(float64(prog.XPToNext)*s.d.Balance.ExpMultiplier))
		s.levelUp(pid, prog.Level)
	}
}

func (s *ProgressionSystem) levelUp(pid ecs.EntityID, level int) {
	d, ws := s.d, s.d.World
	p, _ := ws.Players.Get(pid)
	gains := d.Lua.LevelUpGains(p.ClassID, level)

	if h, ok := ws.Healths.Get(pid); ok {
		h.Max += gains.Health
		if h.Current > 0 {
			h.Current = min(h.Max, h.Current+gains.Health)
		}
	}
	if m, ok := ws.Manas.Get(pid); ok {
		m.Max += gains.Mana
		m.Current = min(m.Max, m.Current+gains.Mana)
	}
	if a, ok := ws.Attacks.Get(pid); ok {
		a.Damage += gains.Attack
	}
	if def, ok := ws.Defenses.Get(pid); ok {
		def.Value += gains.Defense
	}

	ws.Logf("Level up! You are now level %d.", level)
	ws.Animate(component.AnimLevelUp, true, level, "")
	ws.ShowPopup(component.PopupLevelUp, ws.Sprintf("Reached level %d", level))
	event.Emit(d.Bus, event.LevelGained{Tick: ws.Tick, Level: level})
	d.Log.Info("玩家升級", zap.Int("level", level))

	s.offerChoices(pid, level)
}

// ==================== 等級選擇 ====================

func (s *ProgressionSystem) offerChoices(pid ecs.EntityID, level int) {
	d, ws := s.d, s.d.World
	p, _ := ws.Players.Get(pid)
	feed := ws.Feed()

	if p.PathID == "" {
		if level >= d.Balance.PathLevel && !feed.PathPending {
			feed.PathPending = true
			ws.ShowPopup(component.PopupPathChoice, "Choose your path")
		}
		return
	}
	path := d.Content.Paths.Get(p.PathID)
	if path == nil {
		return
	}
	if p.SubpathID == "" && path.SubpathLevel > 0 && level >= path.SubpathLevel && !feed.SubpathPending {
		feed.SubpathPending = true
		ws.ShowPopup(component.PopupSubpathPick, "Choose your specialisation")
	}

	choices := s.availableChoices(pid, path, path.ChoicesAt(level))
	if len(choices) == 0 {
		return
	}
	feed.AbilityChoices = choices
	ws.ShowPopup(component.PopupAbilityPick, "Choose an ability")
}

// availableChoices filters options to the ones that still mean something for
// the player: active paths offer new powers and upgrades of owned powers,
// passive paths offer stance enhancements not yet taken.
func (s *ProgressionSystem) availableChoices(pid ecs.EntityID, path *data.PathInfo, opts []data.ChoiceOption) []component.Choice {
	d, ws := s.d, s.d.World
	var out []component.Choice
	for _, o := range opts {
		switch path.Kind {
		case data.PathActive:
			owned := d.ownsPower(pid, o.ID)
			if (o.Kind == component.ChoicePower && owned) || (o.Kind == component.ChoiceUpgrade && !owned) {
				continue
			}
			if o.Kind != component.ChoicePower && o.Kind != component.ChoiceUpgrade {
				continue
			}
		case data.PathPassive:
			if o.Kind != component.ChoiceStance {
				continue
			}
			if st, ok := ws.Stances.Get(pid); ok && slices.Contains(st.Enhancements, o.ID) {
				continue
			}
		}
		out = append(out, component.Choice{ID: o.ID, Kind: o.Kind})
	}
	return out
}

// upgradePower raises the rank of an owned power by one.
func (d *Deps) upgradePower(pid ecs.EntityID, powerID string) {
	pw, ok := d.World.Powers.Get(pid)
	if !ok {
		return
	}
	for i := range pw.Slots {
		if pw.Slots[i].ID == powerID {
			pw.Slots[i].Rank++
			if info := d.Content.Powers.Get(powerID); info != nil {
				d.World.Logf("%s is now rank %d.", info.Name, pw.Slots[i].Rank+1)
			}
			return
		}
	}
}
