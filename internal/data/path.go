package data

import (
	"fmt"
	"io/fs"

	"github.com/roguewave/sim/internal/component"
	"gopkg.in/yaml.v3"
)

// Mods is the YAML form of component.StatMods. All values are fractions
// except Regen, which is health per second.
type Mods struct {
	Damage     float64 `yaml:"damage"`
	Defense    float64 `yaml:"defense"`
	Speed      float64 `yaml:"speed"`
	CritChance float64 `yaml:"crit_chance"`
	Dodge      float64 `yaml:"dodge"`
	Lifesteal  float64 `yaml:"lifesteal"`
	Reflect    float64 `yaml:"reflect"`
	Regen      float64 `yaml:"regen"`
}

func (m Mods) StatMods() component.StatMods {
	return component.StatMods{
		Damage:     m.Damage,
		Defense:    m.Defense,
		Speed:      m.Speed,
		CritChance: m.CritChance,
		Dodge:      m.Dodge,
		Lifesteal:  m.Lifesteal,
		Reflect:    m.Reflect,
		Regen:      m.Regen,
	}
}

// PathKind separates power-bar paths from stance paths.
type PathKind string

const (
	PathActive  PathKind = "active"
	PathPassive PathKind = "passive"
)

type ThresholdInfo struct {
	Value       int     `yaml:"value"`
	DamageBonus float64 `yaml:"damage_bonus"`
}

// ResourceInfo describes a path resource pool.
type ResourceInfo struct {
	Name       string                     `yaml:"name"`
	Max        int                        `yaml:"max"`
	Start      int                        `yaml:"start"`
	Behavior   component.ResourceBehavior `yaml:"behavior"`
	OnHitGain  int                        `yaml:"on_hit_gain"`
	PerSecond  float64                    `yaml:"per_second"`
	Thresholds []ThresholdInfo            `yaml:"thresholds"`
}

// LevelChoices lists the options offered when the player reaches Level.
type LevelChoices struct {
	Level   int            `yaml:"level"`
	Options []ChoiceOption `yaml:"options"`
}

type ChoiceOption struct {
	ID   string               `yaml:"id"`
	Kind component.ChoiceKind `yaml:"kind"`
}

type PathInfo struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Class        string         `yaml:"class"`
	Kind         PathKind       `yaml:"kind"`
	Resource     *ResourceInfo  `yaml:"resource"`
	Powers       []string       `yaml:"powers"`
	Stances      []string       `yaml:"stances"`
	Subpaths     []string       `yaml:"subpaths"`
	SubpathLevel int            `yaml:"subpath_level"`
	Choices      []LevelChoices `yaml:"choices"`
}

// ChoicesAt returns the options unlocked at level, or nil.
func (p *PathInfo) ChoicesAt(level int) []ChoiceOption {
	for _, c := range p.Choices {
		if c.Level == level {
			return c.Options
		}
	}
	return nil
}

type SubpathInfo struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Path         string   `yaml:"path"`
	Powers       []string `yaml:"powers"`
	Enhancements []string `yaml:"enhancements"`
	Bonus        Mods     `yaml:"bonus"`
}

type StanceInfo struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Mods Mods   `yaml:"mods"`
}

// EnhancementInfo boosts a stance. An empty Stance applies in every stance.
type EnhancementInfo struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Stance string `yaml:"stance"`
	Mods   Mods   `yaml:"mods"`
}

type pathFile struct {
	Paths        []PathInfo        `yaml:"paths"`
	Subpaths     []SubpathInfo     `yaml:"subpaths"`
	Stances      []StanceInfo      `yaml:"stances"`
	Enhancements []EnhancementInfo `yaml:"enhancements"`
}

// PathTable holds paths, subpaths, stances and stance enhancements.
type PathTable struct {
	paths        map[string]*PathInfo
	subpaths     map[string]*SubpathInfo
	stances      map[string]*StanceInfo
	enhancements map[string]*EnhancementInfo
}

func (t *PathTable) Get(id string) *PathInfo { return t.paths[id] }

func (t *PathTable) Subpath(id string) *SubpathInfo { return t.subpaths[id] }

func (t *PathTable) Stance(id string) *StanceInfo { return t.stances[id] }

func (t *PathTable) Enhancement(id string) *EnhancementInfo { return t.enhancements[id] }

// Count returns the number of loaded paths.
func (t *PathTable) Count() int {
	return len(t.paths)
}

// LoadPathTable loads path data from a YAML file in fsys.
func LoadPathTable(fsys fs.FS, name string) (*PathTable, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	var f pathFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse paths: %w", err)
	}
	t := &PathTable{
		paths:        make(map[string]*PathInfo, len(f.Paths)),
		subpaths:     make(map[string]*SubpathInfo, len(f.Subpaths)),
		stances:      make(map[string]*StanceInfo, len(f.Stances)),
		enhancements: make(map[string]*EnhancementInfo, len(f.Enhancements)),
	}
	for i := range f.Paths {
		p := &f.Paths[i]
		if p.Kind != PathActive && p.Kind != PathPassive {
			return nil, fmt.Errorf("parse paths: %s has kind %q", p.ID, p.Kind)
		}
		if p.Resource != nil && p.Resource.Behavior != component.ResourceSpend && p.Resource.Behavior != component.ResourceGain {
			return nil, fmt.Errorf("parse paths: %s resource behavior %q", p.ID, p.Resource.Behavior)
		}
		t.paths[p.ID] = p
	}
	for i := range f.Subpaths {
		t.subpaths[f.Subpaths[i].ID] = &f.Subpaths[i]
	}
	for i := range f.Stances {
		t.stances[f.Stances[i].ID] = &f.Stances[i]
	}
	for i := range f.Enhancements {
		t.enhancements[f.Enhancements[i].ID] = &f.Enhancements[i]
	}
	return t, nil
}
