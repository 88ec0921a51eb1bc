package data

import (
	"fmt"
	"io/fs"

	"github.com/roguewave/sim/internal/component"
	"gopkg.in/yaml.v3"
)

// EffectKind is the closed set of power effects.
type EffectKind string

const (
	EffectDamage EffectKind = "damage"
	EffectHeal   EffectKind = "heal"
	EffectBuff   EffectKind = "buff"
	EffectDebuff EffectKind = "debuff"
)

type BuffInfo struct {
	Stat       component.BuffStat `yaml:"stat"`
	Multiplier float64            `yaml:"multiplier"`
	Duration   float64            `yaml:"duration"` // ms, 0 = power's buff_duration
}

type StatusInfo struct {
	Type      component.StatusType `yaml:"type"`
	Magnitude float64              `yaml:"magnitude"`
	Duration  float64              `yaml:"duration"` // ms
	Interval  float64              `yaml:"interval"` // ms, DoT/HoT only
}

// PowerInfo holds a single power template. Durations are milliseconds.
type PowerInfo struct {
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name"`
	Effect   EffectKind `yaml:"effect"`
	Cost     int        `yaml:"cost"`
	Cooldown float64    `yaml:"cooldown"`

	// damage
	Multiplier           float64 `yaml:"multiplier"`
	ExecuteThreshold     float64 `yaml:"execute_threshold"` // target HP fraction
	ExecuteBonus         float64 `yaml:"execute_bonus"`
	SelfBelowHP          float64 `yaml:"self_below_hp"` // own HP fraction
	SelfBelowBonus       float64 `yaml:"self_below_bonus"`
	Lifesteal            float64 `yaml:"lifesteal"`
	SelfDamage           float64 `yaml:"self_damage"` // fraction of own max HP
	StunDuration         float64 `yaml:"stun_duration"`
	ResetCooldowns       bool    `yaml:"reset_cooldowns"`
	OnKillResetCooldowns bool    `yaml:"on_kill_reset_cooldowns"`

	// heal
	HealFlat    int     `yaml:"heal_flat"`
	HealPercent float64 `yaml:"heal_percent"`

	// buff
	Buffs        []BuffInfo `yaml:"buffs"`
	BuffDuration float64    `yaml:"buff_duration"`

	// debuff (Multiplier > 0 adds direct damage)
	Statuses []StatusInfo `yaml:"statuses"`

	Shield         int     `yaml:"shield"`
	ShieldDuration float64 `yaml:"shield_duration"`

	// UpgradeBonus is added to the damage/heal multiplier per rank.
	UpgradeBonus float64 `yaml:"upgrade_bonus"`
}

type powerFile struct {
	Powers []PowerInfo `yaml:"powers"`
}

// PowerTable holds player and enemy powers indexed by id.
type PowerTable struct {
	powers map[string]*PowerInfo
}

// Get returns a power by id, or nil if not found.
func (t *PowerTable) Get(id string) *PowerInfo {
	return t.powers[id]
}

// Count returns the number of loaded powers.
func (t *PowerTable) Count() int {
	return len(t.powers)
}

// LoadPowerTable loads power definitions from a YAML file in fsys.
func LoadPowerTable(fsys fs.FS, name string) (*PowerTable, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read powers: %w", err)
	}
	var f powerFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse powers: %w", err)
	}
	t := &PowerTable{powers: make(map[string]*PowerInfo, len(f.Powers))}
	for i := range f.Powers {
		p := &f.Powers[i]
		switch p.Effect {
		case EffectDamage, EffectHeal, EffectBuff, EffectDebuff:
		default:
			return nil, fmt.Errorf("parse powers: %s has effect %q", p.ID, p.Effect)
		}
		t.powers[p.ID] = p
	}
	return t, nil
}
