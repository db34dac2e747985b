package ability

import (
	"sort"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
)

// Class maps levels to the abilities unlocked there.
type Class struct {
	ClassID string
	Table   map[int]combat.Unlock
}

// ID implements combat.Class.
func (c *Class) ID() string { return c.ClassID }

// unlockLevel returns the level at which id unlocks.
func (c *Class) unlockLevel(id string) (int, bool) {
	levels := make([]int, 0, len(c.Table))
	for lvl := range c.Table {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	for _, lvl := range levels {
		u := c.Table[lvl]
		for _, s := range u.Skills {
			if s == id {
				return lvl, true
			}
		}
		for _, s := range u.Spells {
			if s == id {
				return lvl, true
			}
		}
	}
	return 0, false
}

// HasAbility reports whether the class ever grants id.
func (c *Class) HasAbility(id string) bool {
	_, ok := c.unlockLevel(id)
	return ok
}

// CanUseAbility reports whether the actor's level has unlocked id.
func (c *Class) CanUseAbility(a *actor.Actor, id string) bool {
	lvl, ok := c.unlockLevel(id)
	return ok && a.Level >= lvl
}

// Unlocks returns what the class grants exactly at level.
func (c *Class) Unlocks(level int) combat.Unlock {
	return c.Table[level]
}
