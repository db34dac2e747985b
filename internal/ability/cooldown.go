package ability

import (
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
)

type cooldown struct {
	readyAt time.Time
	by      string // Name of the ability that started it
}

// Cooldowns tracks when each actor may use an ability or cooldown group again.
type Cooldowns struct {
	entries map[actor.ID]map[string]cooldown
}

// NewCooldowns creates an empty tracker.
func NewCooldowns() *Cooldowns {
	return &Cooldowns{entries: make(map[actor.ID]map[string]cooldown)}
}

// Remaining returns the time left on key and the name of the ability that
// started the cooldown.
func (c *Cooldowns) Remaining(id actor.ID, key string, now time.Time) (time.Duration, string) {
	cd, ok := c.entries[id][key]
	if !ok {
		return 0, ""
	}
	left := cd.readyAt.Sub(now)
	if left <= 0 {
		delete(c.entries[id], key)
		return 0, ""
	}
	return left, cd.by
}

// Start puts key on cooldown for d.
func (c *Cooldowns) Start(id actor.ID, key, by string, now time.Time, d time.Duration) {
	if d <= 0 {
		return
	}
	if c.entries[id] == nil {
		c.entries[id] = make(map[string]cooldown)
	}
	c.entries[id][key] = cooldown{readyAt: now.Add(d), by: by}
}

// Forget drops every cooldown of an actor.
func (c *Cooldowns) Forget(id actor.ID) {
	delete(c.entries, id)
}
