package data

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Content bundles every static table the simulation looks up by id.
type Content struct {
	Classes *ClassTable
	Paths   *PathTable
	Powers  *PowerTable
	Enemies *EnemyTable
	Items   *ItemTable
}

// LoadContent loads classes.yaml, paths.yaml, powers.yaml, enemies.yaml and
// items.yaml from the root of fsys and checks cross-table references.
func LoadContent(fsys fs.FS) (*Content, error) {
	c := &Content{}
	var err error
	if c.Classes, err = LoadClassTable(fsys, "classes.yaml"); err != nil {
		return nil, err
	}
	if c.Paths, err = LoadPathTable(fsys, "paths.yaml"); err != nil {
		return nil, err
	}
	if c.Powers, err = LoadPowerTable(fsys, "powers.yaml"); err != nil {
		return nil, err
	}
	if c.Enemies, err = LoadEnemyTable(fsys, "enemies.yaml"); err != nil {
		return nil, err
	}
	if c.Items, err = LoadItemTable(fsys, "items.yaml"); err != nil {
		return nil, err
	}
	if err := c.check(); err != nil {
		return nil, fmt.Errorf("check content: %w", err)
	}
	return c, nil
}

// check reports dangling references between tables.
func (c *Content) check() error {
	var bad []string
	power := func(owner, id string) {
		if c.Powers.Get(id) == nil {
			bad = append(bad, fmt.Sprintf("%s: unknown power %q", owner, id))
		}
	}
	for _, id := range c.Classes.IDs() {
		cl := c.Classes.Get(id)
		for _, p := range cl.StartingPowers {
			power(id, p)
		}
		for _, pid := range cl.Paths {
			p := c.Paths.Get(pid)
			if p == nil {
				bad = append(bad, fmt.Sprintf("%s: unknown path %q", id, pid))
				continue
			}
			for _, pw := range p.Powers {
				power(pid, pw)
			}
			for _, st := range p.Stances {
				if c.Paths.Stance(st) == nil {
					bad = append(bad, fmt.Sprintf("%s: unknown stance %q", pid, st))
				}
			}
			for _, sp := range p.Subpaths {
				sub := c.Paths.Subpath(sp)
				if sub == nil {
					bad = append(bad, fmt.Sprintf("%s: unknown subpath %q", pid, sp))
					continue
				}
				for _, pw := range sub.Powers {
					power(sp, pw)
				}
			}
		}
	}
	for _, e := range c.Enemies.enemies {
		for _, a := range e.Abilities {
			power(e.ID, a)
		}
	}
	if len(bad) > 0 {
		return errors.New(strings.Join(bad, "; "))
	}
	return nil
}
