package sim_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roguewave/sim/content"
	"github.com/roguewave/sim/internal/autopilot"
	"github.com/roguewave/sim/internal/command"
	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/config"
	"github.com/roguewave/sim/internal/core/event"
	"github.com/roguewave/sim/internal/data"
	"github.com/roguewave/sim/internal/replay"
	"github.com/roguewave/sim/internal/scripting"
	"github.com/roguewave/sim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const tick = 50 * time.Millisecond

type fixture struct {
	k       *sim.Kernel
	content *data.Content
	logs    *observer.ObservedLogs
}

func newKernel(t testing.TB, seed int64) fixture {
	t.Helper()
	tables, err := data.LoadContent(content.Data())
	require.NoError(t, err)
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	lua, err := scripting.NewEngine(content.Scripts(), log)
	require.NoError(t, err)
	t.Cleanup(lua.Close)

	cfg := config.Defaults()
	cfg.Simulation.Seed = seed
	cfg.Simulation.Audit = true
	return fixture{k: sim.New(cfg, tables, lua, log), content: tables, logs: logs}
}

// drive ticks k n times, letting bot answer every snapshot.
func drive(k *sim.Kernel, bot *autopilot.Bot, n int) {
	for range n {
		k.Tick(tick)
		if bot.Done() {
			return
		}
		for _, c := range bot.Decide(k.Snapshot()) {
			k.Dispatch(c)
		}
	}
}

// startCombat begins a warrior run and ticks until the first enemy is up.
func startCombat(t testing.TB, k *sim.Kernel) {
	t.Helper()
	k.Dispatch(command.SelectClass{ClassID: "warrior"})
	k.Dispatch(command.StartGame{})
	for range 100 {
		k.Tick(tick)
		if k.Snapshot().Enemy != nil {
			return
		}
	}
	t.Fatal("no enemy spawned")
}

func TestSameSeedSameRun(t *testing.T) {
	a, b := newKernel(t, 7), newKernel(t, 7)
	drive(a.k, autopilot.New("warrior", a.content), 3000)
	drive(b.k, autopilot.New("warrior", b.content), 3000)

	sa, sb := a.k.Snapshot(), b.k.Snapshot()
	require.NotEmpty(t, sa.Game.CombatLog)
	assert.Equal(t, sa, sb)
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a, b := newKernel(t, 1), newKernel(t, 2)
	startCombat(t, a.k)
	startCombat(t, b.k)
	ra, rb := a.k.Snapshot().Game.RunID, b.k.Snapshot().Game.RunID
	require.NotEmpty(t, ra)
	assert.NotEqual(t, ra, rb)
}

func TestAutopilotRunHoldsInvariants(t *testing.T) {
	for _, class := range []string{"warrior", "mage", "rogue", "paladin"} {
		t.Run(class, func(t *testing.T) {
			f := newKernel(t, 42)
			kills := 0
			event.Subscribe(f.k.Bus(), func(event.EnemyDefeated) { kills++ })

			bot := autopilot.New(class, f.content)
			for range 4000 {
				drive(f.k, bot, 1)
				require.Empty(t, f.k.Audit(), "tick %d", f.k.TickCount())
			}
			assert.Zero(t, f.logs.FilterMessage("不變量違反").Len())
			assert.Positive(t, kills)
			assert.Positive(t, f.k.Snapshot().Game.RunTicks)
		})
	}
}

func TestPauseFreezesCombat(t *testing.T) {
	f := newKernel(t, 3)
	startCombat(t, f.k)

	f.k.Dispatch(command.TogglePause{})
	f.k.Tick(tick)
	before := f.k.Snapshot()
	require.True(t, before.Game.Paused)
	assert.Zero(t, f.k.EffectiveDelta(tick))

	for range 200 {
		f.k.Tick(tick)
	}
	after := f.k.Snapshot()
	assert.Equal(t, before.Game, after.Game)
	assert.Equal(t, before.Player, after.Player)
	assert.Equal(t, before.Enemy, after.Enemy)
	assert.Equal(t, before.Tick+200, after.Tick, "real ticks still count")
}

func TestEffectiveDelta(t *testing.T) {
	f := newKernel(t, 1)
	assert.Zero(t, f.k.EffectiveDelta(tick), "menu runs no combat time")

	startCombat(t, f.k)
	assert.Equal(t, tick, f.k.EffectiveDelta(tick))

	f.k.Dispatch(command.SetCombatSpeed{Speed: 3})
	f.k.Tick(tick)
	assert.Equal(t, 3*tick, f.k.EffectiveDelta(tick))
}

func TestCombatSpeedScalesCooldowns(t *testing.T) {
	slow, fast := newKernel(t, 9), newKernel(t, 9)
	startCombat(t, slow.k)
	startCombat(t, fast.k)
	slow.k.Dispatch(command.ActivatePower{PowerID: "power_strike"})
	fast.k.Dispatch(command.SetCombatSpeed{Speed: 2})
	fast.k.Dispatch(command.ActivatePower{PowerID: "power_strike"})

	for range 20 {
		slow.k.Tick(tick)
		fast.k.Tick(tick)
	}
	// the cooldown starts in the first tick and runs for the other 19
	assert.InDelta(t, 4000-19*50, slow.k.Snapshot().Player.Powers[0].Cooldown, 1e-9)
	assert.InDelta(t, 4000-19*100, fast.k.Snapshot().Player.Powers[0].Cooldown, 1e-9)
}

func TestEventsArriveNextTick(t *testing.T) {
	f := newKernel(t, 5)
	var got []event.LevelGained
	event.Subscribe(f.k.Bus(), func(e event.LevelGained) { got = append(got, e) })

	bot := autopilot.New("warrior", f.content)
	for range 4000 {
		drive(f.k, bot, 1)
		if len(got) > 0 {
			break
		}
	}
	require.NotEmpty(t, got)
	assert.Less(t, got[0].Tick, f.k.TickCount(), "delivered on a later tick")
}

func TestSnapshotIsACopy(t *testing.T) {
	f := newKernel(t, 1)
	startCombat(t, f.k)

	s1 := f.k.Snapshot()
	s2 := f.k.Snapshot()
	assert.Equal(t, s1, s2)

	s1.Game.CombatLog[0] = "tampered"
	s1.Player.Powers[0].ID = "tampered"
	s3 := f.k.Snapshot()
	assert.NotEqual(t, "tampered", s3.Game.CombatLog[0])
	assert.NotEqual(t, "tampered", s3.Player.Powers[0].ID)
}

func TestResetReturnsToMenu(t *testing.T) {
	f := newKernel(t, 1)
	startCombat(t, f.k)
	f.k.Dispatch(command.Block{})

	f.k.Reset()
	f.k.Tick(tick)
	snap := f.k.Snapshot()
	assert.Equal(t, component.PhaseMenu, snap.Game.Phase)
	assert.Nil(t, snap.Player)
	assert.Nil(t, snap.Enemy)
	assert.Equal(t, 1, f.logs.FilterMessage("模擬已重置").Len())
}

func TestReplayReproducesRun(t *testing.T) {
	const seed = 11
	rec := newKernel(t, seed)
	recorder := replay.NewRecorder(seed, tick)
	rec.k.Observe(recorder.Observe)
	drive(rec.k, autopilot.New("paladin", rec.content), 2500)

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, replay.Save(path, recorder.Finish(rec.k.TickCount())))
	session, err := replay.Load(path)
	require.NoError(t, err)
	require.NotEmpty(t, session.Frames)

	play := newKernel(t, session.Seed)
	require.NoError(t, replay.Play(play.k, session))
	assert.Equal(t, rec.k.Snapshot(), play.k.Snapshot())
}
