package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	assert.NoError(t, Defaults().Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
tick_rate = "20ms"
seed = 99

[balance]
rooms_per_floor = 3

[balance.status_stack_caps]
poison = 7

[logging]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, int64(99), cfg.Simulation.Seed)
	assert.Equal(t, 3, cfg.Balance.RoomsPerFloor)
	assert.Equal(t, 1.5, cfg.Balance.ExpMultiplier, "unset keys keep defaults")
	assert.Equal(t, 7, cfg.Balance.StackCap("poison"))
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[balance]
variance_min = 1.2
variance_max = 0.8
exp_multiplier = 1.0
rooms_per_floor = 0

[logging]
level = "loud"
`)
	_, err := Load(path)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "variance_min")
	assert.Contains(t, msg, "exp_multiplier")
	assert.Contains(t, msg, "rooms_per_floor")
	assert.Contains(t, msg, "logging.level")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStackCapDefaultsToOne(t *testing.T) {
	b := Defaults().Balance
	assert.Equal(t, 1, b.StackCap("stun"))
	assert.Equal(t, 5, b.StackCap("bleed"))
}

func TestProperty_ExpMultiplierAtOrBelowOneRejected(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := Defaults()
		cfg.Balance.ExpMultiplier = rapid.Float64Range(-10, 1).Draw(rt, "mult")
		if cfg.Validate() == nil {
			rt.Fatalf("exp_multiplier %g accepted", cfg.Balance.ExpMultiplier)
		}
	})
}
