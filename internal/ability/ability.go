// Package ability provides the in-memory skill and spell catalog, class
// unlock tables and cooldown tracking.
package ability

import (
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
)

// Cost is the resource an ability consumes when it succeeds.
type Cost struct {
	Attribute string
	Amount    int
}

// Definition is a data-driven ability.
type Definition struct {
	AbilityID   string
	AbilityName string
	AbilityKind combat.Kind
	NeedsTarget bool
	DefaultSelf bool
	IsPassive   bool
	Group       string
	Cooldown    time.Duration
	CastLag     time.Duration
	Cost        Cost
	Run         func(d *Definition, u combat.Use) error
	OnActivate  func(a *actor.Actor)

	cooldowns *Cooldowns
}

func (d *Definition) ID() string            { return d.AbilityID }
func (d *Definition) Name() string          { return d.AbilityName }
func (d *Definition) Kind() combat.Kind     { return d.AbilityKind }
func (d *Definition) RequiresTarget() bool  { return d.NeedsTarget }
func (d *Definition) TargetSelf() bool      { return d.DefaultSelf }
func (d *Definition) Passive() bool         { return d.IsPassive }
func (d *Definition) CooldownGroup() string { return d.Group }
func (d *Definition) Lag() time.Duration    { return d.CastLag }

// SourceID and SourceName let the ability be the source of its damage.
func (d *Definition) SourceID() string   { return "ability:" + d.AbilityID }
func (d *Definition) SourceName() string { return d.AbilityName }

func (d *Definition) cooldownKey() string {
	if d.Group != "" {
		return "group:" + d.Group
	}
	return d.AbilityID
}

// Execute checks passivity, cooldown and cost, runs the effect, then pays
// the cost and starts the cooldown.
func (d *Definition) Execute(u combat.Use) error {
	if d.IsPassive {
		return combat.ErrPassive
	}
	now := u.Now
	if now.IsZero() {
		now = time.Now()
	}
	if d.cooldowns != nil {
		if left, by := d.cooldowns.Remaining(u.Caster.ID, d.cooldownKey(), now); left > 0 {
			group := ""
			if by != d.AbilityName {
				group = by
			}
			return combat.CooldownError(d.AbilityName, group, left)
		}
	}
	if d.Cost.Amount > 0 && u.Caster.Pool.Current(d.Cost.Attribute) < d.Cost.Amount {
		return combat.ErrNotEnoughResources
	}
	if d.Run != nil {
		if err := d.Run(d, u); err != nil {
			return err
		}
	}
	if d.Cost.Amount > 0 {
		u.Caster.Pool.Decrease(d.Cost.Attribute, d.Cost.Amount)
	}
	if d.cooldowns != nil {
		d.cooldowns.Start(u.Caster.ID, d.cooldownKey(), d.AbilityName, now, d.Cooldown)
	}
	return nil
}

// Activate applies a passive ability's permanent effect.
func (d *Definition) Activate(a *actor.Actor) {
	if d.OnActivate != nil {
		d.OnActivate(a)
	}
	a.Skills[d.AbilityID] = true
}
