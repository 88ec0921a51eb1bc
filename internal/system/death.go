package system

import (
	"time"

	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
	"github.com/roguewave/sim/internal/core/event"
	coresys "github.com/roguewave/sim/internal/core/system"
	"go.uber.org/zap"
)

// DeathSystem notices entities whose health reached zero, awards rewards
// exactly once, starts the dying window and marks finished non-player
// entities for removal. Runs after every damage-producing phase.
// Phase 7 (Death).
type DeathSystem struct {
	d *Deps
}

func NewDeathSystem(d *Deps) *DeathSystem {
	return &DeathSystem{d: d}
}

func (s *DeathSystem) Phase() coresys.Phase { return coresys.PhaseDeath }

func (s *DeathSystem) Update(dt time.Duration) {
	ws := s.d.World
	for _, id := range ws.Enemies.Entities() {
		if s.newlyDead(id) {
			s.enemyDied(id)
		}
	}
	if pid, ok := ws.Player(); ok && s.newlyDead(pid) {
		s.playerDied(pid)
	}

	ms := millis(dt)
	ws.Dying.Each(func(id ecs.EntityID, dy *component.Dying) {
		dy.Elapsed += ms
		// 玩家實體保留給失敗畫面使用
		if ws.Players.Has(id) {
			return
		}
		if dy.Elapsed >= dy.Duration {
			ws.World.MarkForDestruction(id)
		}
	})
}

func (s *DeathSystem) newlyDead(id ecs.EntityID) bool {
	if s.d.World.Dying.Has(id) {
		return false
	}
	return s.d.killed(id)
}

func (s *DeathSystem) startDying(id ecs.EntityID) {
	d, ws := s.d, s.d.World
	d.clearPendingActions(id)
	ws.Blocking.Remove(id)
	ws.Dying.Set(id, &component.Dying{StartedAtTick: ws.Tick, Duration: d.Balance.DyingDuration})
	ws.Animate(component.AnimDeath, !ws.Players.Has(id), 0, ws.DisplayName(id))
}

// ==================== 敵人死亡 ====================

func (s *DeathSystem) enemyDied(id ecs.EntityID) {
	d, ws := s.d, s.d.World
	e, _ := ws.Enemies.Get(id)
	s.startDying(id)

	if pid, ok := ws.Player(); ok {
		if prog, ok := ws.Progress.Get(pid); ok {
			prog.XP += e.XPReward
			prog.Gold += e.GoldReward
		}
	}
	g := ws.Game()
	ws.Logf("%s is defeated! +%d XP, +%d gold.", e.Name, e.XPReward, e.GoldReward)
	event.Emit(d.Bus, event.EnemyDefeated{
		Tick:     ws.Tick,
		Name:     e.Name,
		Tier:     string(e.Tier),
		Floor:    g.Floor,
		Room:     g.Room,
		XPReward: e.XPReward,
		Gold:     e.GoldReward,
	})
	d.Log.Debug("敵人死亡", zap.String("name", e.Name), zap.Int("floor", g.Floor), zap.Int("room", g.Room))
	d.scheduleSpawn(d.Balance.SpawnDelay)
}

// ==================== 玩家死亡 ====================

func (s *DeathSystem) playerDied(pid ecs.EntityID) {
	d, ws := s.d, s.d.World
	s.startDying(pid)
	g := ws.Game()
	level := 0
	if prog, ok := ws.Progress.Get(pid); ok {
		level = prog.Level
	}

	// a pending floor-complete or victory must not outrun the defeat
	d.clearSchedule()
	d.scheduleTransition(component.PhaseDefeat, d.Balance.TransitionDelay)
	ws.Logf("You have been defeated on floor %d.", g.Floor)
	event.Emit(d.Bus, event.PlayerDefeated{Tick: ws.Tick, Floor: g.Floor, Room: g.Room, Level: level})
	d.Log.Info("玩家死亡", zap.Int("floor", g.Floor), zap.Int("room", g.Room), zap.Int("level", level))
}
