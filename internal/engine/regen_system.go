package engine

import (
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/rules"
)

// regenerated are the attributes restored out of combat.
var regenerated = []string{attribute.Health, attribute.Mana, attribute.Energy}

// RegenSystem restores resources of actors that are not fighting.
type RegenSystem struct {
	e        *Engine
	interval time.Duration
}

// NewRegenSystem creates the regeneration pulse.
func NewRegenSystem(e *Engine, interval time.Duration) *RegenSystem {
	return &RegenSystem{e: e, interval: interval}
}

// Pulse regenerates once per interval. It is silent; only the pool changes.
func (rs *RegenSystem) Pulse(a *actor.Actor) {
	if rs.interval <= 0 || a.IsInCombat() {
		return
	}
	now := rs.e.now()
	if now.Before(a.NextRegenAt) {
		return
	}
	a.NextRegenAt = now.Add(rs.interval)
	for _, name := range regenerated {
		if !a.Pool.Has(name) || a.Pool.IsUnlimited(name) {
			continue
		}
		if a.Pool.Current(name) < a.Pool.Max(name) {
			a.Pool.Increase(name, rules.RegenAmount(a.Pool.Max(name)))
		}
	}
}
