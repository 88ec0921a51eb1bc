package system

import (
	"github.com/roguewave/sim/internal/component"
	"github.com/roguewave/sim/internal/core/ecs"
)

// addStatus applies e to id. When the type's stack cap is reached the
// oldest-expiring entry is refreshed instead of adding another one.
func (d *Deps) addStatus(id ecs.EntityID, e component.StatusEffect) {
	st, ok := d.World.Statuses.Get(id)
	if !ok {
		st = &component.StatusEffects{}
		d.World.Statuses.Set(id, st)
	}
	limit := d.Balance.StackCap(string(e.Type))
	oldest, count := -1, 0
	for i := range st.Active {
		if st.Active[i].Type != e.Type {
			continue
		}
		count++
		if oldest < 0 || st.Active[i].Remaining < st.Active[oldest].Remaining {
			oldest = i
		}
	}
	if count >= limit && oldest >= 0 {
		old := &st.Active[oldest]
		old.Magnitude = e.Magnitude
		old.Remaining = e.Remaining
		old.Interval = e.Interval
		old.Source = e.Source
		return
	}
	st.Active = append(st.Active, e)
}

// addBuff applies b to id, refreshing the oldest-expiring buff on the same
// stat once BuffStackCap is reached.
func (d *Deps) addBuff(id ecs.EntityID, b component.Buff) {
	bs, ok := d.World.Buffs.Get(id)
	if !ok {
		bs = &component.Buffs{}
		d.World.Buffs.Set(id, bs)
	}
	limit := d.Balance.BuffStackCap
	if limit < 1 {
		limit = 1
	}
	oldest, count := -1, 0
	for i := range bs.Active {
		if bs.Active[i].Stat != b.Stat {
			continue
		}
		count++
		if oldest < 0 || bs.Active[i].Remaining < bs.Active[oldest].Remaining {
			oldest = i
		}
	}
	if count >= limit && oldest >= 0 {
		bs.Active[oldest] = b
		return
	}
	bs.Active = append(bs.Active, b)
}

// clearEffects removes every timed effect, shield and marker from id.
func (d *Deps) clearEffects(id ecs.EntityID) {
	if st, ok := d.World.Statuses.Get(id); ok {
		st.Active = nil
	}
	if bs, ok := d.World.Buffs.Get(id); ok {
		bs.Active = nil
	}
	d.World.Shields.Remove(id)
	d.World.Blocking.Remove(id)
	d.clearPendingActions(id)
}
