package ability

import (
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
)

// Class ids shipped with the server.
const (
	ClassWarrior = "warrior"
	ClassMage    = "mage"
)

// Default returns the built-in catalog.
func Default() *Registry {
	r := NewRegistry()

	r.Add(&Definition{
		AbilityID:   "rend",
		AbilityName: "Rend",
		AbilityKind: combat.KindSkill,
		NeedsTarget: true,
		Cooldown:    6 * time.Second,
		Cost:        Cost{Attribute: attribute.Energy, Amount: 15},
		Run:         damage(attribute.Health, 12),
	})
	r.Add(&Definition{
		AbilityID:   "second_wind",
		AbilityName: "Second Wind",
		AbilityKind: combat.KindSkill,
		IsPassive:   true,
		OnActivate: func(a *actor.Actor) {
			a.Pool.SetMax(attribute.Health, a.Pool.Max(attribute.Health)+20)
		},
	})
	r.Add(&Definition{
		AbilityID:   "fireball",
		AbilityName: "Fireball",
		AbilityKind: combat.KindSpell,
		NeedsTarget: true,
		Group:       "fire",
		Cooldown:    4 * time.Second,
		CastLag:     1500 * time.Millisecond,
		Cost:        Cost{Attribute: attribute.Mana, Amount: 10},
		Run:         damage(attribute.Health, 18),
	})
	r.Add(&Definition{
		AbilityID:   "flamestrike",
		AbilityName: "Flamestrike",
		AbilityKind: combat.KindSpell,
		NeedsTarget: true,
		Group:       "fire",
		Cooldown:    8 * time.Second,
		CastLag:     2 * time.Second,
		Cost:        Cost{Attribute: attribute.Mana, Amount: 20},
		Run:         damage(attribute.Health, 30),
	})
	r.Add(&Definition{
		AbilityID:   "mend",
		AbilityName: "Mend",
		AbilityKind: combat.KindSpell,
		NeedsTarget: true,
		DefaultSelf: true,
		Cooldown:    3 * time.Second,
		Cost:        Cost{Attribute: attribute.Mana, Amount: 8},
		Run:         heal(attribute.Health, 20),
	})

	r.AddClass(&Class{
		ClassID: ClassWarrior,
		Table: map[int]combat.Unlock{
			1: {Skills: []string{"rend"}},
			3: {Skills: []string{"second_wind"}},
		},
	})
	r.AddClass(&Class{
		ClassID: ClassMage,
		Table: map[int]combat.Unlock{
			1: {Spells: []string{"fireball", "mend"}},
			5: {Spells: []string{"flamestrike"}},
		},
	})
	return r
}

func damage(attr string, amount int) func(*Definition, combat.Use) error {
	return func(d *Definition, u combat.Use) error {
		if u.Target == nil {
			return combat.NoTargetError(d.AbilityName)
		}
		u.Effects.Engage(u.Caster, u.Target)
		u.Effects.ApplyDamage(u.Target, combat.Damage{
			Attribute: attr,
			Amount:    amount + u.Caster.Level,
			Source:    d,
			Attacker:  u.Caster.ID,
		})
		return nil
	}
}

func heal(attr string, amount int) func(*Definition, combat.Use) error {
	return func(d *Definition, u combat.Use) error {
		target := u.Target
		if target == nil {
			target = u.Caster
		}
		u.Effects.ApplyHeal(target, combat.Heal{
			Attribute: attr,
			Amount:    amount + u.Caster.Level,
			Source:    d,
			Attacker:  u.Caster.ID,
		})
		return nil
	}
}
