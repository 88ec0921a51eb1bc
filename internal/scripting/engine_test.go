package scripting_test

import (
	"testing"
	"testing/fstest"

	"github.com/roguewave/sim/content"
	"github.com/roguewave/sim/internal/scripting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

func newEngine(t testing.TB) (*scripting.Engine, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	e, err := scripting.NewEngine(content.Scripts(), zap.New(core))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, logs
}

func TestAttackIntervalIsInverseOfSpeed(t *testing.T) {
	e, _ := newEngine(t)
	assert.InDelta(t, 1000, e.AttackInterval(10), 1e-9)
	assert.InDelta(t, 500, e.AttackInterval(20), 1e-9)
}

func TestEnemyTierLastRoomIsBoss(t *testing.T) {
	e, _ := newEngine(t)
	assert.Equal(t, "boss", e.EnemyTier(1, 5, 5, 0.99))
	assert.Equal(t, "elite", e.EnemyTier(1, 2, 5, 0.0))
	assert.Equal(t, "normal", e.EnemyTier(1, 2, 5, 0.99))
}

func TestEnemyStatsScaleWithFloor(t *testing.T) {
	e, _ := newEngine(t)
	base := scripting.EnemyStatsContext{Health: 100, Attack: 10, Defense: 2, Speed: 10, XP: 20, Gold: 5, Tier: "normal"}

	base.Floor = 1
	f1 := e.EnemyStats(base)
	assert.Equal(t, 100, f1.Health)
	assert.Equal(t, 10, f1.Attack)

	base.Floor = 3
	f3 := e.EnemyStats(base)
	assert.Greater(t, f3.Health, f1.Health)
	assert.Greater(t, f3.XP, f1.XP)
	assert.InDelta(t, 10, f3.Speed, 1e-9)
}

func TestLevelUpGains(t *testing.T) {
	e, _ := newEngine(t)
	g := e.LevelUpGains("warrior", 2)
	assert.Equal(t, scripting.LevelUpGains{Health: 12, Mana: 3, Attack: 2, Defense: 1}, g)
	assert.Equal(t, 3, e.LevelUpGains("warrior", 5).Attack, "every fifth level adds one")
}

func TestEnhanceCost(t *testing.T) {
	e, _ := newEngine(t)
	assert.Equal(t, 15, e.EnhanceCost(30, 0))
	assert.Equal(t, 30, e.EnhanceCost(30, 1))
}

func TestMissingFunctionRejected(t *testing.T) {
	fsys := fstest.MapFS{"a.lua": {Data: []byte("function attack_interval(s) return 1 end")}}
	_, err := scripting.NewEngine(fsys, zap.NewNop())
	assert.ErrorContains(t, err, "not defined")
}

func TestSyntaxErrorRejected(t *testing.T) {
	fsys := fstest.MapFS{"bad.lua": {Data: []byte("function (")}}
	_, err := scripting.NewEngine(fsys, zap.NewNop())
	assert.ErrorContains(t, err, "bad.lua")
}

func TestRuntimeErrorFallsBackAndLogs(t *testing.T) {
	src := `
function attack_interval(s) error("boom") end
function dodge_chance(f) return 0 end
function enemy_tier(f, r, n, roll) return nil end
function modifier_count(t, f) return 0 end
function enemy_stats(e) return { health = 0, speed = 0 } end
function level_up_gains(c, l) error("nope") end
function enhance_cost(p, l) return "free" end
`
	core, logs := observer.New(zap.DebugLevel)
	e, err := scripting.NewEngine(fstest.MapFS{"f.lua": {Data: []byte(src)}}, zap.New(core))
	require.NoError(t, err)
	defer e.Close()

	assert.InDelta(t, 1000, e.AttackInterval(10), 1e-9)
	assert.Equal(t, "normal", e.EnemyTier(1, 1, 5, 0.5))
	ctx := scripting.EnemyStatsContext{Health: 50, Attack: 5, Speed: 10, Floor: 2}
	assert.Equal(t, 50, e.EnemyStats(ctx).Health, "invalid stats fall back to the template")
	assert.Equal(t, scripting.LevelUpGains{}, e.LevelUpGains("mage", 2))
	assert.Equal(t, -1, e.EnhanceCost(10, 0))

	assert.NotZero(t, logs.FilterMessage("lua call error").Len())
	assert.Equal(t, 1, logs.FilterMessage("lua enemy_tier returned non-string").Len())
	assert.Equal(t, 1, logs.FilterMessage("lua enemy_stats returned invalid stats").Len())
}

func TestProperty_AttackIntervalPositive(t *testing.T) {
	e, _ := newEngine(t)
	rapid.Check(t, func(rt *rapid.T) {
		speed := rapid.Float64Range(-5, 100).Draw(rt, "speed")
		if v := e.AttackInterval(speed); v <= 0 {
			rt.Fatalf("interval %g for speed %g", v, speed)
		}
	})
}
