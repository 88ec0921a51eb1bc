package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Balance    BalanceConfig    `toml:"balance"`
	Content    ContentConfig    `toml:"content"`
	Autopilot  AutopilotConfig  `toml:"autopilot"`
	Replay     ReplayConfig     `toml:"replay"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	TickRate      time.Duration `toml:"tick_rate"`
	Seed          int64         `toml:"seed"`
	MaxTicks      int           `toml:"max_ticks"`
	Realtime      bool          `toml:"realtime"` // pace ticks with a wall-clock ticker
	Audit         bool          `toml:"audit"`    // check invariants after every tick
	CombatLogSize int           `toml:"combat_log_size"`
}

// BalanceConfig holds the kernel's tuning constants. Durations are in
// milliseconds of simulated (effective) time.
type BalanceConfig struct {
	VarianceMin          float64 `toml:"variance_min"`
	VarianceMax          float64 `toml:"variance_max"`
	CritMultiplier       float64 `toml:"crit_multiplier"`
	DyingDuration        float64 `toml:"dying_duration"`
	ExpMultiplier        float64 `toml:"exp_multiplier"`
	BaseXPToNext         int     `toml:"base_xp_to_next"`
	BlockReduction       float64 `toml:"block_reduction"`
	BlockCooldown        float64 `toml:"block_cooldown"`
	StanceSwitchCooldown float64 `toml:"stance_switch_cooldown"`
	FirstSpawnDelay      float64 `toml:"first_spawn_delay"`
	SpawnDelay           float64 `toml:"spawn_delay"`
	TransitionDelay      float64 `toml:"transition_delay"`
	RoomsPerFloor        int     `toml:"rooms_per_floor"`
	MaxFloor             int     `toml:"max_floor"`
	PathLevel            int     `toml:"path_level"`
	HealBetweenFloors    bool    `toml:"heal_between_floors"`
	WeakenCap            float64 `toml:"weaken_cap"`
	SlowCap              float64 `toml:"slow_cap"`
	DodgeCap             float64 `toml:"dodge_cap"`
	BuffStackCap         int     `toml:"buff_stack_cap"`
	// StatusStackCaps maps a status type ("poison", "stun", ...) to how many
	// entries of that type may coexist. Unlisted types stack once.
	StatusStackCaps map[string]int `toml:"status_stack_caps"`
}

// StackCap returns the coexistence cap for a status type, at least 1.
func (b BalanceConfig) StackCap(statusType string) int {
	if n, ok := b.StatusStackCaps[statusType]; ok && n > 0 {
		return n
	}
	return 1
}

type ContentConfig struct {
	DataDir    string `toml:"data_dir"`    // empty = embedded tables
	ScriptsDir string `toml:"scripts_dir"` // empty = embedded scripts
}

type AutopilotConfig struct {
	Enabled bool   `toml:"enabled"`
	Class   string `toml:"class"`
}

type ReplayConfig struct {
	RecordPath string `toml:"record_path"`
	PlayPath   string `toml:"play_path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every impossible setting at once.
func (c *Config) Validate() error {
	var errs []string
	s := c.Simulation
	if s.TickRate <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.tick_rate must be > 0, got %s", s.TickRate))
	}
	if s.CombatLogSize < 1 {
		errs = append(errs, fmt.Sprintf("simulation.combat_log_size must be >= 1, got %d", s.CombatLogSize))
	}

	b := c.Balance
	if b.VarianceMin <= 0 || b.VarianceMin > b.VarianceMax {
		errs = append(errs, fmt.Sprintf("balance.variance_min must be in (0, variance_max], got %g/%g", b.VarianceMin, b.VarianceMax))
	}
	if b.CritMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("balance.crit_multiplier must be >= 1, got %g", b.CritMultiplier))
	}
	if b.ExpMultiplier <= 1 {
		errs = append(errs, fmt.Sprintf("balance.exp_multiplier must be > 1, got %g", b.ExpMultiplier))
	}
	if b.BaseXPToNext < 1 {
		errs = append(errs, fmt.Sprintf("balance.base_xp_to_next must be >= 1, got %d", b.BaseXPToNext))
	}
	if b.BlockReduction < 0 || b.BlockReduction > 1 {
		errs = append(errs, fmt.Sprintf("balance.block_reduction must be in [0,1], got %g", b.BlockReduction))
	}
	if b.RoomsPerFloor < 1 {
		errs = append(errs, fmt.Sprintf("balance.rooms_per_floor must be >= 1, got %d", b.RoomsPerFloor))
	}
	if b.MaxFloor < 1 {
		errs = append(errs, fmt.Sprintf("balance.max_floor must be >= 1, got %d", b.MaxFloor))
	}
	if b.DyingDuration < 0 || b.SpawnDelay < 0 || b.FirstSpawnDelay < 0 || b.TransitionDelay < 0 {
		errs = append(errs, "balance delays must not be negative")
	}
	for _, capv := range []float64{b.WeakenCap, b.SlowCap, b.DodgeCap} {
		if capv < 0 || capv >= 1 {
			errs = append(errs, fmt.Sprintf("balance caps must be in [0,1), got %g", capv))
			break
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:      50 * time.Millisecond,
			Seed:          1,
			MaxTicks:      200_000,
			CombatLogSize: 100,
		},
		Balance: BalanceConfig{
			VarianceMin:          0.85,
			VarianceMax:          1.15,
			CritMultiplier:       1.5,
			DyingDuration:        800,
			ExpMultiplier:        1.5,
			BaseXPToNext:         100,
			BlockReduction:       0.5,
			BlockCooldown:        3000,
			StanceSwitchCooldown: 5000,
			FirstSpawnDelay:      500,
			SpawnDelay:           1200,
			TransitionDelay:      1500,
			RoomsPerFloor:        5,
			MaxFloor:             5,
			PathLevel:            2,
			HealBetweenFloors:    true,
			WeakenCap:            0.75,
			SlowCap:              0.75,
			DodgeCap:             0.6,
			BuffStackCap:         3,
			StatusStackCaps: map[string]int{
				"poison": 3,
				"bleed":  5,
				"burn":   3,
				"slow":   2,
			},
		},
		Autopilot: AutopilotConfig{
			Enabled: true,
			Class:   "warrior",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
