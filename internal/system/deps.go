package system

import (
	"math/rand"
	"time"

	"github.com/roguewave/sim/internal/config"
	"github.com/roguewave/sim/internal/core/event"
	"github.com/roguewave/sim/internal/data"
	"github.com/roguewave/sim/internal/scripting"
	"github.com/roguewave/sim/internal/world"
	"go.uber.org/zap"
)

// Formulas is the balance-formula surface the pipeline needs.
// *scripting.Engine implements it.
type Formulas interface {
	AttackInterval(speed float64) float64
	DodgeChance(fortune int) float64
	EnemyTier(floor, room, rooms int, roll float64) string
	ModifierCount(tier string, floor int) int
	EnemyStats(ctx scripting.EnemyStatsContext) scripting.EnemyStats
	LevelUpGains(class string, level int) scripting.LevelUpGains
	EnhanceCost(price, level int) int
}

// Deps holds the collaborators shared by every pipeline system.
// All access happens on the game loop goroutine.
type Deps struct {
	World   *world.State
	Content *data.Content
	Balance config.BalanceConfig
	Lua     Formulas
	Rng     *rand.Rand
	Bus     *event.Bus
	Log     *zap.Logger
}

// millis converts a tick delta to the float milliseconds components store.
func millis(dt time.Duration) float64 {
	return float64(dt) / float64(time.Millisecond)
}

// variance rolls the damage variance factor in [VarianceMin, VarianceMax].
func (d *Deps) variance() float64 {
	lo, hi := d.Balance.VarianceMin, d.Balance.VarianceMax
	if hi <= lo {
		return lo
	}
	return lo + d.Rng.Float64()*(hi-lo)
}
