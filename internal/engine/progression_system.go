package engine

import (
	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
	"github.com/MRamiBalles/tickmud/server/internal/domain/rules"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/notify"
)

// BountyCurrency is the currency NPC kills pay out.
const BountyCurrency = "gold"

// ProgressionSystem turns kill credit into experience and experience into
// levels and ability unlocks.
type ProgressionSystem struct {
	e         *Engine
	table     rules.Table
	abilities AbilityCatalog
}

// NewProgressionSystem creates the tracker over a threshold table.
func NewProgressionSystem(e *Engine, table rules.Table, abilities AbilityCatalog) *ProgressionSystem {
	return &ProgressionSystem{e: e, table: table, abilities: abilities}
}

// Register attaches the core progression handlers to an actor's bus.
func (ps *ProgressionSystem) Register(a *actor.Actor) {
	a.Bus.Core(events.EventTypeDeathblow, func(ev events.GameEvent) {
		if p, ok := ev.Payload.(DeathblowPayload); ok {
			ps.onDeathblow(a, p)
		}
	})
	a.Bus.Core(events.EventTypeExperience, func(ev events.GameEvent) {
		if p, ok := ev.Payload.(ExperiencePayload); ok {
			ps.onExperience(a, p.Amount)
		}
	})
	a.Bus.Core(events.EventTypeLevel, func(ev events.GameEvent) {
		if p, ok := ev.Payload.(LevelPayload); ok {
			ps.onLevel(a, p.Level)
		}
	})
}

// proxyDeathblow gives the killer and every co-located party member their
// own credit, marked so none of them proxies it again.
func (ps *ProgressionSystem) proxyDeathblow(killer *actor.Actor, p DeathblowPayload) {
	p.Proxied = true
	recipients := append([]*actor.Actor{killer}, ps.e.world.ColocatedPartyMembers(killer)...)
	for _, r := range recipients {
		ps.e.emit(r, events.EventTypeDeathblow, p.Target, p)
	}
}

func (ps *ProgressionSystem) onDeathblow(a *actor.Actor, p DeathblowPayload) {
	if !p.Proxied && a.PartyID != "" {
		ps.proxyDeathblow(a, p)
		return
	}
	notify.Deliver(ps.e.composer.Deathblow(a, p.TargetName))
	if a.IsNPC || !p.TargetNPC {
		return
	}
	ps.GrantExperience(a, rules.MobExp(p.TargetLevel))
	ps.e.economy.GrantCurrency(a, BountyCurrency, rules.MobBounty(p.TargetLevel))
}

// GrantExperience emits an experience gain on the actor's bus.
func (ps *ProgressionSystem) GrantExperience(a *actor.Actor, amount int) {
	if amount <= 0 {
		return
	}
	ps.e.emit(a, events.EventTypeExperience, "", ExperiencePayload{Amount: amount})
}

// onExperience applies a gain one level at a time. Each level reached
// clears the counter and carries the remainder forward, so afterwards
// experience is below the next threshold.
func (ps *ProgressionSystem) onExperience(a *actor.Actor, amount int) {
	if amount <= 0 {
		return
	}
	notify.Deliver(ps.e.composer.Experience(a, amount))

	next := ps.table.Threshold(a.Level + 1)
	for next > 0 && a.Experience+amount >= next {
		amount = a.Experience + amount - next
		a.Level++
		a.Experience = 0
		ps.e.emit(a, events.EventTypeLevel, "", LevelPayload{Level: a.Level})
		next = ps.table.Threshold(a.Level + 1)
	}
	a.Experience += amount
	ps.e.save(a, nil)
}

func (ps *ProgressionSystem) onLevel(a *actor.Actor, level int) {
	ps.e.metrics.RecordLevelUp()
	notify.Deliver(ps.e.composer.LevelUp(a, level))
	ps.e.logger.Info("actor levelled up", "actor", a.ID, "level", level)
	ps.unlock(a, level, true)
}

// unlock learns what the actor's class grants at level, activating passive
// skills. Announce prints "You can now use ..." for each.
func (ps *ProgressionSystem) unlock(a *actor.Actor, level int, announce bool) {
	if ps.abilities == nil {
		return
	}
	class, ok := ps.abilities.Class(a.ClassID)
	if !ok {
		return
	}
	u := class.Unlocks(level)
	for _, id := range u.Skills {
		ab, ok := ps.abilities.Skill(id)
		if !ok {
			ps.e.logger.Warn("class unlocks unknown skill", "class", a.ClassID, "skill", id)
			continue
		}
		if announce {
			notify.Deliver(ps.e.composer.Unlocked(a, combat.KindSkill, ab.Name()))
		}
		if ab.Passive() && announce {
			ab.Activate(a)
		}
		a.Skills[id] = true
	}
	for _, id := range u.Spells {
		ab, ok := ps.abilities.Spell(id)
		if !ok {
			ps.e.logger.Warn("class unlocks unknown spell", "class", a.ClassID, "spell", id)
			continue
		}
		if announce {
			notify.Deliver(ps.e.composer.Unlocked(a, combat.KindSpell, ab.Name()))
		}
		a.Skills[id] = true
	}
}

// LearnThrough marks every ability up to the actor's level as learned
// without re-running passive effects. Used when an actor enters the world.
func (ps *ProgressionSystem) LearnThrough(a *actor.Actor) {
	for lvl := 1; lvl <= a.Level; lvl++ {
		ps.unlock(a, lvl, false)
	}
}

// Threshold exposes the experience needed for the actor's next level.
func (ps *ProgressionSystem) Threshold(a *actor.Actor) int {
	return ps.table.Threshold(a.Level + 1)
}
