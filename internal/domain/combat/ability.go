package combat

import (
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
)

// Kind separates skills from spells.
type Kind string

const (
	KindSkill Kind = "skill"
	KindSpell Kind = "spell"
)

// Effects is the part of the engine abilities may act through.
type Effects interface {
	Engage(a, b *actor.Actor)
	ApplyDamage(target *actor.Actor, d Damage)
	ApplyHeal(target *actor.Actor, h Heal)
}

// Use is the invocation handed to Ability.Execute.
type Use struct {
	Args    string
	Caster  *actor.Actor
	Target  *actor.Actor
	Effects Effects
	Now     time.Time
}

// Ability is a skill or spell definition.
type Ability interface {
	ID() string
	Name() string
	Kind() Kind
	RequiresTarget() bool
	TargetSelf() bool
	Passive() bool
	CooldownGroup() string
	Lag() time.Duration
	Execute(u Use) error
	Activate(a *actor.Actor)
}

// Registry looks abilities up by id or by name.
type Registry interface {
	Skill(id string) (Ability, bool)
	Spell(id string) (Ability, bool)
	FindSpell(search string) (Ability, bool)
}

// Unlock is what a class grants at one level.
type Unlock struct {
	Skills []string
	Spells []string
}

// Class decides which abilities an actor may learn and use.
type Class interface {
	ID() string
	HasAbility(id string) bool
	CanUseAbility(a *actor.Actor, id string) bool
	Unlocks(level int) Unlock
}
