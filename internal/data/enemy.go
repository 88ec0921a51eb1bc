package data

import (
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"
)

// EnemyInfo is a floor-1 enemy template. Scaling by floor and tier is done
// by the enemy_stats formula.
type EnemyInfo struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Health    int      `yaml:"health"`
	Attack    int      `yaml:"attack"`
	Defense   int      `yaml:"defense"`
	Speed     float64  `yaml:"speed"`
	XP        int      `yaml:"xp"`
	Gold      int      `yaml:"gold"`
	Abilities []string `yaml:"abilities"`
	MinFloor  int      `yaml:"min_floor"`
	Boss      bool     `yaml:"boss"`
}

// ModifierInfo alters an elite or boss enemy at spawn.
type ModifierInfo struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	HealthMult   float64 `yaml:"health_mult"`
	DamageMult   float64 `yaml:"damage_mult"`
	DefenseBonus int     `yaml:"defense_bonus"`
	SpeedMult    float64 `yaml:"speed_mult"`
	Lifesteal    float64 `yaml:"lifesteal"`
}

type enemyFile struct {
	Enemies   []EnemyInfo    `yaml:"enemies"`
	Modifiers []ModifierInfo `yaml:"modifiers"`
}

// EnemyTable holds enemy templates and modifiers in file order.
type EnemyTable struct {
	enemies   []*EnemyInfo
	byID      map[string]*EnemyInfo
	modifiers map[string]*ModifierInfo
}

// Get returns an enemy template by id, or nil if not found.
func (t *EnemyTable) Get(id string) *EnemyInfo {
	return t.byID[id]
}

// Modifier returns a modifier by id, or nil if not found.
func (t *EnemyTable) Modifier(id string) *ModifierInfo {
	return t.modifiers[id]
}

// ModifierIDs returns all modifier ids sorted.
func (t *EnemyTable) ModifierIDs() []string {
	ids := make([]string, 0, len(t.modifiers))
	for id := range t.modifiers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Eligible returns templates usable on floor, in file order. Bosses are
// returned only when boss is true and regular enemies only when it is false.
func (t *EnemyTable) Eligible(floor int, boss bool) []*EnemyInfo {
	var out []*EnemyInfo
	for _, e := range t.enemies {
		if e.Boss == boss && e.MinFloor <= floor {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of enemy templates.
func (t *EnemyTable) Count() int {
	return len(t.enemies)
}

// LoadEnemyTable loads enemy templates and modifiers from a YAML file in fsys.
func LoadEnemyTable(fsys fs.FS, name string) (*EnemyTable, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read enemies: %w", err)
	}
	var f enemyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse enemies: %w", err)
	}
	t := &EnemyTable{
		byID:      make(map[string]*EnemyInfo, len(f.Enemies)),
		modifiers: make(map[string]*ModifierInfo, len(f.Modifiers)),
	}
	for i := range f.Enemies {
		e := &f.Enemies[i]
		if e.Speed <= 0 {
			return nil, fmt.Errorf("parse enemies: %s has speed %v", e.ID, e.Speed)
		}
		if e.MinFloor < 1 {
			e.MinFloor = 1
		}
		t.enemies = append(t.enemies, e)
		t.byID[e.ID] = e
	}
	for i := range f.Modifiers {
		m := &f.Modifiers[i]
		if m.HealthMult == 0 {
			m.HealthMult = 1
		}
		if m.DamageMult == 0 {
			m.DamageMult = 1
		}
		if m.SpeedMult == 0 {
			m.SpeedMult = 1
		}
		t.modifiers[m.ID] = m
	}
	return t, nil
}
