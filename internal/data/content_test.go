package data_test

import (
	"testing"
	"testing/fstest"

	"github.com/roguewave/sim/content"
	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedContentLoads(t *testing.T) {
	c, err := data.LoadContent(content.Data())
	require.NoError(t, err)

	assert.Equal(t, []string{"mage", "paladin", "rogue", "warrior"}, c.Classes.IDs())
	assert.Equal(t, 8, c.Paths.Count())
	assert.Equal(t, 9, c.Items.Count())

	warrior := c.Classes.Get("warrior")
	require.NotNil(t, warrior)
	assert.Equal(t, []string{"berserker", "guardian"}, warrior.Paths)

	berserker := c.Paths.Get("berserker")
	require.NotNil(t, berserker)
	assert.Equal(t, data.PathActive, berserker.Kind)
	require.NotNil(t, berserker.Resource)
	assert.Equal(t, "Fury", berserker.Resource.Name)
	assert.Equal(t, component.ResourceSpend, berserker.Resource.Behavior)

	archmage := c.Paths.Get("archmage")
	require.NotNil(t, archmage.Resource)
	assert.Equal(t, component.ResourceGain, archmage.Resource.Behavior)

	guardian := c.Paths.Get("guardian")
	assert.Equal(t, data.PathPassive, guardian.Kind)
	assert.NotEmpty(t, guardian.Stances)
	assert.NotNil(t, c.Paths.Stance(guardian.Stances[0]))
}

func TestEligibleEnemiesRespectFloorAndBoss(t *testing.T) {
	c, err := data.LoadContent(content.Data())
	require.NoError(t, err)

	for _, e := range c.Enemies.Eligible(1, false) {
		assert.False(t, e.Boss)
		assert.LessOrEqual(t, e.MinFloor, 1)
	}
	bosses := c.Enemies.Eligible(1, true)
	require.NotEmpty(t, bosses)
	for _, e := range bosses {
		assert.True(t, e.Boss)
	}
	assert.Greater(t, len(c.Enemies.Eligible(5, true)), len(bosses))
	assert.NotEmpty(t, c.Enemies.ModifierIDs())
}

func TestItemScaling(t *testing.T) {
	it := &data.ItemInfo{Stats: data.ItemStats{Attack: 10, CritChance: 0.1}, PerLevel: 0.2}
	s := it.Scaled(2)
	assert.Equal(t, 14, s.Attack)
	assert.InDelta(t, 0.14, s.CritChance, 1e-9)
}

func TestChoicesAt(t *testing.T) {
	p := &data.PathInfo{Choices: []data.LevelChoices{{Level: 3, Options: []data.ChoiceOption{{ID: "x"}}}}}
	assert.Len(t, p.ChoicesAt(3), 1)
	assert.Nil(t, p.ChoicesAt(4))
}

func TestDanglingReferencesRejected(t *testing.T) {
	fsys := fstest.MapFS{
		"classes.yaml": {Data: []byte(`
classes:
  - { id: knight, name: Knight, health: 100, mana: 10, attack: 10, defense: 1, speed: 10, starting_powers: [lance], paths: [] }
`)},
		"paths.yaml":   {Data: []byte("paths: []\n")},
		"powers.yaml":  {Data: []byte("powers: []\n")},
		"enemies.yaml": {Data: []byte("enemies: []\nmodifiers: []\n")},
		"items.yaml":   {Data: []byte("items: []\n")},
	}
	_, err := data.LoadContent(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown power "lance"`)
}

func TestInvalidPathKindRejected(t *testing.T) {
	fsys := fstest.MapFS{
		"paths.yaml": {Data: []byte("paths:\n  - { id: odd, kind: sideways }\n")},
	}
	_, err := data.LoadPathTable(fsys, "paths.yaml")
	assert.ErrorContains(t, err, "sideways")
}

func TestMissingFile(t *testing.T) {
	_, err := data.LoadClassTable(fstest.MapFS{}, "classes.yaml")
	assert.ErrorContains(t, err, "read classes")
}
