package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
	"github.com/MRamiBalles/tickmud/server/internal/domain/rules"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/notify"
)

// Striker computes one auto-attack swing.
type Striker interface {
	Strike(attacker, target *actor.Actor) combat.Damage
}

// WeaponStriker swings the wielded weapon, or fists.
type WeaponStriker struct {
	Rand *rand.Rand
}

// Strike implements Striker.
func (s *WeaponStriker) Strike(attacker, target *actor.Actor) combat.Damage {
	min, max := rules.UnarmedMin, rules.UnarmedMax
	var src combat.Source = attacker
	if w := attacker.Wielded(); w != nil {
		min, max = w.MinDamage, w.MaxDamage
		src = w
	}
	amount, crit := rules.RollDamage(s.Rand, attacker.Level, min, max)
	return combat.Damage{
		Attribute: attribute.Health,
		Amount:    amount,
		Source:    src,
		Attacker:  attacker.ID,
		Metadata:  combat.Metadata{Critical: crit},
	}
}

// CombatSystem keeps combatant sets symmetric, resolves rounds and runs
// death handling. It implements combat.Effects for abilities.
type CombatSystem struct {
	e       *Engine
	striker Striker
}

// NewCombatSystem creates the combat coordinator.
func NewCombatSystem(e *Engine, striker Striker) *CombatSystem {
	return &CombatSystem{e: e, striker: striker}
}

// Register attaches the fan-out handlers to an actor's bus.
func (cs *CombatSystem) Register(a *actor.Actor) {
	w := cs.e.world
	a.Bus.Core(events.EventTypeHit, func(ev events.GameEvent) {
		p, ok := ev.Payload.(HitPayload)
		if !ok {
			return
		}
		target, ok := w.Actor(p.Target)
		if !ok {
			return
		}
		notify.Deliver(cs.e.composer.Hit(a, target, p.Damage, p.Final, w.ColocatedPartyMembers(a)))
	})
	a.Bus.Core(events.EventTypeDamaged, func(ev events.GameEvent) {
		p, ok := ev.Payload.(DamagedPayload)
		if !ok {
			return
		}
		attacker, _ := w.Actor(p.Damage.Attacker)
		notify.Deliver(cs.e.composer.Damaged(a, attacker, p.Damage, p.Final, w.ColocatedPartyMembers(a)))
	})
	a.Bus.Core(events.EventTypeHeal, func(ev events.GameEvent) {
		p, ok := ev.Payload.(HealPayload)
		if !ok {
			return
		}
		target, ok := w.Actor(p.Target)
		if !ok {
			return
		}
		notify.Deliver(cs.e.composer.Heal(a, target, p.Heal, p.Final, w.ColocatedPartyMembers(a)))
	})
	a.Bus.Core(events.EventTypeHealed, func(ev events.GameEvent) {
		p, ok := ev.Payload.(HealedPayload)
		if !ok {
			return
		}
		healer, _ := w.Actor(p.Heal.Attacker)
		notify.Deliver(cs.e.composer.Healed(a, healer, p.Heal, p.Final, w.ColocatedPartyMembers(a)))
	})
}

// Engage adds the mutual combatant pair.
func (cs *CombatSystem) Engage(a, b *actor.Actor) {
	if a == nil || b == nil || a.ID == b.ID {
		return
	}
	a.AddCombatant(b.ID)
	b.AddCombatant(a.ID)
}

// Disengage removes the mutual combatant pair.
func (cs *CombatSystem) Disengage(a, b *actor.Actor) {
	a.RemoveCombatant(b.ID)
	b.RemoveCombatant(a.ID)
}

// DisengageAll empties an actor's combatant set on both sides.
func (cs *CombatSystem) DisengageAll(a *actor.Actor) {
	for _, id := range a.Combatants() {
		if other, ok := cs.e.world.Actor(id); ok {
			other.RemoveCombatant(a.ID)
		}
		a.RemoveCombatant(id)
	}
}

// FindCombatant resolves a target in the attacker's room and checks it may
// be attacked.
func (cs *CombatSystem) FindCombatant(attacker *actor.Actor, search string) (*actor.Actor, error) {
	target, ok := cs.e.world.FindInRoom(attacker.RoomID, search)
	if !ok {
		return nil, combat.ErrNotHere
	}
	if err := cs.CanAttack(attacker, target); err != nil {
		return nil, err
	}
	return target, nil
}

// CanAttack checks the self, PvP and pacifist rules.
func (cs *CombatSystem) CanAttack(attacker, target *actor.Actor) error {
	switch {
	case target.ID == attacker.ID:
		return combat.ErrSelfTarget
	case !target.IsAlive():
		return combat.ErrInvalidTarget
	case !target.IsNPC && !attacker.IsNPC && !cs.e.cfg.AllowPvP:
		return combat.ErrNoPvP
	case target.Pacifist:
		return combat.ErrPacifist
	}
	return nil
}

// resolve returns the live, co-located combatants and disengages the rest.
func (cs *CombatSystem) resolve(a *actor.Actor) []*actor.Actor {
	var out []*actor.Actor
	for _, id := range a.Combatants() {
		other, ok := cs.e.world.Actor(id)
		if !ok {
			a.RemoveCombatant(id)
			continue
		}
		if !cs.e.world.SameRoom(a, other) {
			cs.Disengage(a, other)
			continue
		}
		out = append(out, other)
	}
	return out
}

// ResolveRound runs one round for an actor. Idle actors only regenerate.
// Engaged actors swing once at each combatant when their round is due and
// they are not waiting on a queued command. It reports whether anything
// happened.
func (cs *CombatSystem) ResolveRound(a *actor.Actor) bool {
	if !a.IsInCombat() {
		cs.e.regen.Pulse(a)
		return false
	}
	now := cs.e.now()
	if now.Before(a.NextRoundAt) || a.Queue.HasPending() {
		return false
	}

	acted := false
	for _, target := range cs.resolve(a) {
		if !a.IsAlive() || !cs.e.live(a) {
			break
		}
		if !target.IsAlive() || !a.HasCombatant(target.ID) {
			continue
		}
		cs.ApplyDamage(target, cs.striker.Strike(a, target))
		acted = true
	}
	if acted {
		a.NextRoundAt = now.Add(cs.roundInterval(a))
	}
	return acted
}

func (cs *CombatSystem) roundInterval(a *actor.Actor) time.Duration {
	if w := a.Wielded(); w != nil && w.Speed > 0 {
		return w.Speed
	}
	return cs.e.cfg.RoundInterval
}

// ApplyDamage clamps the target's pool, emits hit and damaged, and runs
// death handling when health reaches zero.
func (cs *CombatSystem) ApplyDamage(target *actor.Actor, d combat.Damage) {
	if !target.IsAlive() {
		return
	}
	final := target.Pool.Decrease(d.Attribute, d.Amount)

	attacker, _ := cs.e.world.Actor(d.Attacker)
	if attacker != nil {
		cs.e.emit(attacker, events.EventTypeHit, target.ID, HitPayload{Damage: d, Target: target.ID, Final: final})
	}
	cs.e.emit(target, events.EventTypeDamaged, d.Attacker, DamagedPayload{Damage: d, Final: final})

	if d.Attribute == attribute.Health && target.Pool.Current(attribute.Health) <= 0 {
		cs.HandleDeath(target, attacker)
	}
}

// ApplyHeal clamps the target's pool and emits heal and healed.
func (cs *CombatSystem) ApplyHeal(target *actor.Actor, h combat.Heal) {
	final := target.Pool.Increase(h.Attribute, h.Amount)

	if healer, ok := cs.e.world.Actor(h.Attacker); ok {
		cs.e.emit(healer, events.EventTypeHeal, target.ID, HealPayload{Heal: h, Target: target.ID, Final: final})
	}
	cs.e.emit(target, events.EventTypeHealed, h.Attacker, HealedPayload{Heal: h, Final: final})
}

// HandleDeath ends every engagement of the victim, tells the room and the
// victim's party, then restores, relocates, penalises and saves a player
// victim or despawns an NPC. The killer, if any, is credited last.
func (cs *CombatSystem) HandleDeath(victim, killer *actor.Actor) {
	w := cs.e.world
	deathRoom := victim.RoomID

	cs.DisengageAll(victim)
	cs.e.metrics.RecordDeath()

	var killerID actor.ID
	if killer != nil {
		killerID = killer.ID
	}
	cs.e.emit(victim, events.EventTypeKilled, killerID, KilledPayload{Killer: killerID, RoomID: deathRoom})

	party := w.PartyMembers(victim)

	if victim.IsNPC {
		notify.Deliver(cs.e.composer.Death(victim, killer, w.InRoom(deathRoom), party, 0))
		cs.creditDeathblow(killer, victim)
		cs.e.RemoveActor(victim)
		return
	}

	remaining, lost := rules.AfterDeathPenalty(victim.Experience)
	notify.Deliver(cs.e.composer.Death(victim, killer, w.InRoom(deathRoom), party, lost))

	victim.Pool.Reset(attribute.Health)
	victim.Experience = remaining
	victim.NextRoundAt = time.Time{}
	if dest := cs.respawnRoom(victim, deathRoom); dest != "" {
		if err := w.Move(victim, dest); err != nil {
			cs.e.logger.Error("respawn failed", "actor", victim.ID, "room", dest, "err", err)
		}
	}
	cs.e.logger.Event(string(events.EventTypeKilled), string(victim.ID),
		fmt.Sprintf("killer=%s room=%s lost=%d", killerID, deathRoom, lost))
	cs.e.save(victim, nil)

	cs.creditDeathblow(killer, victim)
}

// respawnRoom picks home, then the starting room, skipping the death room
// and rooms that do not exist. Empty means stay put.
func (cs *CombatSystem) respawnRoom(victim *actor.Actor, deathRoom string) string {
	for _, id := range []string{victim.Home(), cs.e.cfg.StartingRoom} {
		if id == "" || id == deathRoom {
			continue
		}
		if _, ok := cs.e.world.Room(id); ok {
			return id
		}
	}
	return ""
}

// creditDeathblow emits the kill credit. A killer in a party has the
// credit proxied to itself and every co-located member, each marked so the
// progression handler does not proxy it again.
func (cs *CombatSystem) creditDeathblow(killer, victim *actor.Actor) {
	if killer == nil || !cs.e.live(killer) {
		return
	}
	payload := DeathblowPayload{
		Target:      victim.ID,
		TargetName:  victim.Name,
		TargetLevel: victim.Level,
		TargetNPC:   victim.IsNPC,
	}
	if killer.PartyID == "" {
		cs.e.emit(killer, events.EventTypeDeathblow, victim.ID, payload)
		return
	}
	cs.e.progression.proxyDeathblow(killer, payload)
}
