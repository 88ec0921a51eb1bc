// Package sim drives the combat pipeline: it owns the world state, the command
// queue, the event bus and the system runner, and advances them one tick at a
// time.
package sim

import (
	"math/rand"
	"time"

	"github.com/roguewave/sim/internal/command"
	"github.com/roguewave/sim/internal/config"
	"github.com/roguewave/sim/internal/core/event"
	coresys "github.com/roguewave/sim/internal/core/system"
	"github.com/roguewave/sim/internal/data"
	"github.com/roguewave/sim/internal/snapshot"
	"github.com/roguewave/sim/internal/system"
	"github.com/roguewave/sim/internal/world"
	"go.uber.org/zap"
)

// Kernel is the simulation. Dispatch may be called from any goroutine; every
// other method belongs to the goroutine driving Tick.
type Kernel struct {
	cfg    *config.Config
	deps   *system.Deps
	queue  *command.Queue
	input  *system.InputSystem
	runner *coresys.Runner
	log    *zap.Logger
}

// New builds a kernel in the menu phase. lua supplies the balance formulas.
func New(cfg *config.Config, content *data.Content, lua system.Formulas, log *zap.Logger) *Kernel {
	deps := &system.Deps{
		World:   world.NewState(cfg.Simulation.CombatLogSize),
		Content: content,
		Balance: cfg.Balance,
		Lua:     lua,
		Rng:     rand.New(rand.NewSource(cfg.Simulation.Seed)),
		Bus:     event.NewBus(),
		Log:     log,
	}
	k := &Kernel{
		cfg:    cfg,
		deps:   deps,
		queue:  command.NewQueue(),
		runner: coresys.NewRunner(),
		log:    log,
	}
	k.input = system.NewInputSystem(deps, k.queue)

	// 系統依階段排序，註冊順序不影響執行順序
	k.runner.Register(k.input)
	k.runner.Register(system.NewCooldownSystem(deps))
	k.runner.Register(system.NewAttackTimingSystem(deps))
	k.runner.Register(system.NewCombatSystem(deps))
	k.runner.Register(system.NewPowerSystem(deps))
	k.runner.Register(system.NewStatusEffectSystem(deps))
	k.runner.Register(system.NewRegenSystem(deps))
	k.runner.Register(system.NewDeathSystem(deps))
	k.runner.Register(system.NewProgressionSystem(deps))
	k.runner.Register(system.NewFlowSystem(deps))
	k.runner.Register(system.NewCleanupSystem(deps))
	return k
}

// Dispatch queues a command for the next tick. Safe for concurrent use.
func (k *Kernel) Dispatch(c command.Command) {
	k.queue.Dispatch(c)
}

// Tick advances the simulation by dt of real time.
//
// Events emitted during the previous tick are delivered first. Input then
// applies the drained commands, so a pause or speed change takes effect in
// the same tick. Every later phase receives the effective delta: dt scaled by
// the combat speed, or zero while paused or out of combat.
func (k *Kernel) Tick(dt time.Duration) {
	ws := k.deps.World
	k.deps.Bus.SwapBuffers()
	k.deps.Bus.DispatchAll()

	k.runner.TickPhase(coresys.PhaseInput, dt)

	eff := k.EffectiveDelta(dt)
	if ws.InCombat() && eff > 0 {
		ws.Game().RunTicks++
	}
	k.runner.TickFrom(coresys.PhaseCooldown, eff)
	ws.Tick++

	if k.cfg.Simulation.Audit {
		if errs := Audit(ws); len(errs) > 0 {
			for _, err := range errs {
				k.log.Error("不變量違反", zap.Uint64("tick", ws.Tick), zap.Error(err))
			}
		}
	}
}

// EffectiveDelta scales dt by the combat speed, zero while paused or outside
// the combat phase.
func (k *Kernel) EffectiveDelta(dt time.Duration) time.Duration {
	g := k.deps.World.Game()
	if g.Paused || !k.deps.World.InCombat() {
		return 0
	}
	return dt * time.Duration(max(1, g.CombatSpeed))
}

// Snapshot builds the read model of the current state.
func (k *Kernel) Snapshot() snapshot.Snapshot {
	return snapshot.Build(k.deps.World)
}

// Reset discards the run and returns to the menu phase. Queued commands and
// undelivered events are dropped.
func (k *Kernel) Reset() {
	k.queue.Drain()
	k.deps.Bus.Discard()
	k.deps.World.Reset()
	k.log.Info("模擬已重置")
}

// Observe forwards every drained command batch to fn before it is applied.
func (k *Kernel) Observe(fn func(tick uint64, cmds []command.Command)) {
	k.input.Observe(fn)
}

// Bus exposes the domain event bus for subscribers.
func (k *Kernel) Bus() *event.Bus { return k.deps.Bus }

// TickCount returns the number of completed ticks.
func (k *Kernel) TickCount() uint64 { return k.deps.World.Tick }

// State exposes the world for inspection by tests and tools.
func (k *Kernel) State() *world.State { return k.deps.World }

// Audit checks the world invariants now.
func (k *Kernel) Audit() []error { return Audit(k.deps.World) }
