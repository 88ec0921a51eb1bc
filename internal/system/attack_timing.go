package system

import (
	"math"
	"time"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	coresys "github.com/roguewave/sim/internal/core/system"
)

// AttackTimingSystem advances every fighter's auto-attack timer and attaches
// AttackReady when the timer crosses its threshold. The excess carries over.
// Phase 2 (AttackTiming).
type AttackTimingSystem struct {
	d *Deps
}

func NewAttackTimingSystem(d *Deps) *AttackTimingSystem {
	return &AttackTimingSystem{d: d}
}

func (s *AttackTimingSystem) Phase() coresys.Phase { return coresys.PhaseAttackTiming }

func (s *AttackTimingSystem) Update(dt time.Duration) {
	ms := millis(dt)
	if ms <= 0 || !s.d.World.InCombat() {
		return
	}
	s.d.World.Speeds.Each(func(id ecs.EntityID, sp *component.Speed) {
		s.advance(id, sp, ms)
	})
}

func (s *AttackTimingSystem) advance(id ecs.EntityID, sp *component.Speed, ms float64) {
	d, ws := s.d, s.d.World
	if ws.Defeated(id) || ws.Ready.Has(id) {
		return
	}
	if _, ok := ws.Opponent(id); !ok {
		return
	}
	// 暈眩時計時器暫停
	if ws.Stunned(id) {
		return
	}

	sp.AttackInterval = d.Lua.AttackInterval(d.speedValue(id))
	threshold := d.attackThreshold(id, sp.AttackInterval)
	sp.Threshold = threshold
	sp.Accumulated += ms
	if sp.Accumulated < threshold {
		return
	}
	sp.Accumulated -= threshold
	if sp.Accumulated >= threshold {
		// at most one attack per tick; drop whole extra intervals
		sp.Accumulated = math.Mod(sp.Accumulated, threshold)
	}
	dmg, crit := s.roll(id)
	ws.Ready.Set(id, &component.AttackReady{Damage: dmg, IsCrit: crit})
}

// roll computes auto-attack damage once. Only the player can crit.
func (s *AttackTimingSystem) roll(id ecs.EntityID) (int, bool) {
	d := s.d
	dmg := d.attackPower(id) * d.variance()
	crit := false
	if d.World.Players.Has(id) && d.Rng.Float64() < d.critChance(id) {
		crit = true
		dmg *= d.critMultiplier(id)
	}
	return max(1, round(dmg)), crit
}
