package data

import (
	"fmt"
	"io/fs"

	"github.com/roguewave/sim/internal/component"
	"gopkg.in/yaml.v3"
)

// ItemStats are flat bonuses granted by an equipped item at level 0.
type ItemStats struct {
	Attack     int     `yaml:"attack"`
	Defense    int     `yaml:"defense"`
	Health     int     `yaml:"health"`
	CritChance float64 `yaml:"crit_chance"`
	Speed      float64 `yaml:"speed"`
}

// ItemInfo holds a shop item template.
type ItemInfo struct {
	ID       string              `yaml:"id"`
	Name     string              `yaml:"name"`
	Slot     component.EquipSlot `yaml:"slot"`
	Price    int                 `yaml:"price"`
	Stats    ItemStats           `yaml:"stats"`
	MaxLevel int                 `yaml:"max_level"`
	PerLevel float64             `yaml:"per_level"` // fraction of Stats added per enhancement level
}

// Scaled returns the item's stats at enhancement level.
func (it *ItemInfo) Scaled(level int) ItemStats {
	f := 1 + it.PerLevel*float64(level)
	return ItemStats{
		Attack:     int(float64(it.Stats.Attack) * f),
		Defense:    int(float64(it.Stats.Defense) * f),
		Health:     int(float64(it.Stats.Health) * f),
		CritChance: it.Stats.CritChance * f,
		Speed:      it.Stats.Speed * f,
	}
}

type itemFile struct {
	Items []ItemInfo `yaml:"items"`
}

// ItemTable holds shop items indexed by id, plus the shop display order.
type ItemTable struct {
	items map[string]*ItemInfo
	order []string
}

// Get returns an item by id, or nil if not found.
func (t *ItemTable) Get(id string) *ItemInfo {
	return t.items[id]
}

// Stock returns item ids in shop order.
func (t *ItemTable) Stock() []string {
	return append([]string(nil), t.order...)
}

// Count returns the number of loaded items.
func (t *ItemTable) Count() int {
	return len(t.items)
}

// LoadItemTable loads shop items from a YAML file in fsys.
func LoadItemTable(fsys fs.FS, name string) (*ItemTable, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	var f itemFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	t := &ItemTable{items: make(map[string]*ItemInfo, len(f.Items))}
	for i := range f.Items {
		it := &f.Items[i]
		switch it.Slot {
		case component.SlotWeapon, component.SlotArmor, component.SlotAccessory:
		default:
			return nil, fmt.Errorf("parse items: %s has slot %q", it.ID, it.Slot)
		}
		t.items[it.ID] = it
		t.order = append(t.order, it.ID)
	}
	return t, nil
}
