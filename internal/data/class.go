package data

import (
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"
)

// ClassInfo holds the base stats a new player starts with.
type ClassInfo struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Health         int      `yaml:"health"`
	Mana           int      `yaml:"mana"`
	Attack         int      `yaml:"attack"`
	Defense        int      `yaml:"defense"`
	Speed          float64  `yaml:"speed"`
	CritChance     float64  `yaml:"crit_chance"`
	Fortune        int      `yaml:"fortune"`
	HealthRegen    float64  `yaml:"health_regen"` // per second
	ManaRegen      float64  `yaml:"mana_regen"`
	StartingPowers []string `yaml:"starting_powers"`
	Paths          []string `yaml:"paths"`
	StartingGold   int      `yaml:"starting_gold"`
}

type classFile struct {
	Classes []ClassInfo `yaml:"classes"`
}

// ClassTable holds all playable classes indexed by id.
type ClassTable struct {
	classes map[string]*ClassInfo
}

// Get returns a class by id, or nil if not found.
func (t *ClassTable) Get(id string) *ClassInfo {
	return t.classes[id]
}

// Count returns the number of loaded classes.
func (t *ClassTable) Count() int {
	return len(t.classes)
}

// IDs returns all class ids sorted.
func (t *ClassTable) IDs() []string {
	ids := make([]string, 0, len(t.classes))
	for id := range t.classes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadClassTable loads class definitions from a YAML file in fsys.
func LoadClassTable(fsys fs.FS, name string) (*ClassTable, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read classes: %w", err)
	}
	var f classFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse classes: %w", err)
	}
	t := &ClassTable{classes: make(map[string]*ClassInfo, len(f.Classes))}
	for i := range f.Classes {
		c := &f.Classes[i]
		if c.ID == "" {
			return nil, fmt.Errorf("parse classes: entry %d has no id", i)
		}
		t.classes[c.ID] = c
	}
	return t, nil
}
