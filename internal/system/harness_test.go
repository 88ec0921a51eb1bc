package system

import (
	"math/rand"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/roguewave/sim/content"
	"github.com/roguewave/sim/internal/command"
	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/config"
	"github.com/roguewave/sim/internal/core/ecs"
	"github.com/roguewave/sim/internal/core/event"
	"github.com/roguewave/sim/internal/data"
	"github.com/roguewave/sim/internal/scripting"
	"github.com/roguewave/sim/internal/world"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// harness wires Deps to the embedded content and formulas. Variance is pinned
// to 1 and dodge is disabled so damage numbers are exact.
type harness struct {
	d     *Deps
	logs  *observer.ObservedLogs
	queue *command.Queue
	input *InputSystem
}

func newHarness(t testing.TB) *harness {
	t.Helper()
	tables, err := data.LoadContent(content.Data())
	require.NoError(t, err)
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)
	lua, err := scripting.NewEngine(content.Scripts(), log)
	require.NoError(t, err)
	t.Cleanup(lua.Close)

	bal := config.Defaults().Balance
	bal.VarianceMin, bal.VarianceMax = 1, 1
	bal.DodgeCap = 0

	d := &Deps{
		World:   world.NewState(100),
		Content: tables,
		Balance: bal,
		Lua:     lua,
		Rng:     rand.New(rand.NewSource(1)),
		Bus:     event.NewBus(),
		Log:     log,
	}
	q := command.NewQueue()
	return &harness{d: d, logs: logs, queue: q, input: NewInputSystem(d, q)}
}

// player creates a player of class on floor 1 in combat, with crits off.
func (h *harness) player(t testing.TB, class string) ecs.EntityID {
	t.Helper()
	info := h.d.Content.Classes.Get(class)
	require.NotNil(t, info, class)
	id := h.d.createPlayer(info)
	atk, _ := h.d.World.Attacks.Get(id)
	atk.CritChance = 0
	g := h.d.World.Game()
	g.Phase = component.PhaseCombat
	g.Floor = 1
	g.SelectedClass = class
	return id
}

// withPath applies pathID to the player.
func (h *harness) withPath(t testing.TB, pid ecs.EntityID, pathID string) {
	t.Helper()
	path := h.d.Content.Paths.Get(pathID)
	require.NotNil(t, path, pathID)
	h.d.applyPath(pid, path)
}

// dummy spawns a plain enemy named Dummy.
func (h *harness) dummy(health, attack, defense int, speed float64, abilities ...string) ecs.EntityID {
	ws := h.d.World
	id := ws.World.CreateEntity()
	ws.Enemies.Set(id, &component.Enemy{
		TemplateID: "dummy",
		Name:       "Dummy",
		Tier:       component.TierNormal,
		Floor:      1,
		Room:       1,
		Abilities:  abilities,
		XPReward:   20,
		GoldReward: 5,
	})
	ws.Healths.Set(id, &component.Health{Current: health, Max: health})
	ws.Attacks.Set(id, &component.Attack{Damage: attack})
	ws.Defenses.Set(id, &component.Defense{Value: defense})
	ws.Speeds.Set(id, &component.Speed{Value: speed, AttackInterval: h.d.Lua.AttackInterval(speed)})
	ws.Cooldowns.Set(id, &component.Cooldowns{Entries: make(map[string]*component.Cooldown)})
	ws.Statuses.Set(id, &component.StatusEffects{})
	ws.Buffs.Set(id, &component.Buffs{})
	return id
}

// send dispatches cmds and runs the input phase.
func (h *harness) send(cmds ...command.Command) {
	for _, c := range cmds {
		h.queue.Dispatch(c)
	}
	h.input.Update(0)
}

func (h *harness) health(id ecs.EntityID) int {
	hp, _ := h.d.World.Healths.Get(id)
	return hp.Current
}

func (h *harness) progress(id ecs.EntityID) *component.Progress {
	p, _ := h.d.World.Progress.Get(id)
	return p
}

// logged reports whether any combat log line contains substr.
func (h *harness) logged(substr string) bool {
	return slices.ContainsFunc(h.d.World.Feed().CombatLog, func(line string) bool {
		return strings.Contains(line, substr)
	})
}

// deliver flushes events emitted so far to subscribers.
func (h *harness) deliver() {
	h.d.Bus.SwapBuffers()
	h.d.Bus.DispatchAll()
}

func msec(n float64) time.Duration {
	return time.Duration(n * float64(time.Millisecond))
}
