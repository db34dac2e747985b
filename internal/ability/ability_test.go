package ability

import (
	"errors"
	"testing"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
)

type recordingEffects struct {
	engaged int
	damage  []combat.Damage
	heals   []combat.Heal
}

func (r *recordingEffects) Engage(a, b *actor.Actor) { r.engaged++ }
func (r *recordingEffects) ApplyDamage(t *actor.Actor, d combat.Damage) {
	r.damage = append(r.damage, d)
}
func (r *recordingEffects) ApplyHeal(t *actor.Actor, h combat.Heal) { r.heals = append(r.heals, h) }

func TestFireballCostAndCooldown(t *testing.T) {
	reg := Default()
	caster := actor.New("p1", "Ilse", nil)
	target := actor.NewNPC("n1", "a goblin", 1, nil)
	fx := &recordingEffects{}
	now := time.Now()

	spell, ok := reg.FindSpell("fire")
	if !ok || spell.ID() != "fireball" {
		t.Fatalf("Expected prefix fire to find fireball, got %v", spell)
	}

	if err := spell.Execute(combat.Use{Caster: caster, Target: target, Effects: fx, Now: now}); err != nil {
		t.Fatalf("first cast: %v", err)
	}
	if caster.Pool.Current(attribute.Mana) != 40 {
		t.Errorf("Expected mana 40 after cast, got %d", caster.Pool.Current(attribute.Mana))
	}
	if fx.engaged != 1 || len(fx.damage) != 1 {
		t.Errorf("Expected one engage and one damage, got %d / %d", fx.engaged, len(fx.damage))
	}

	err := spell.Execute(combat.Use{Caster: caster, Target: target, Effects: fx, Now: now.Add(time.Second)})
	if got := apperrors.UserMessage(err); got != "Fireball is on cooldown. 3 seconds remaining." {
		t.Errorf("unexpected cooldown message %q", got)
	}

	strike, _ := reg.Spell("flamestrike")
	err = strike.Execute(combat.Use{Caster: caster, Target: target, Effects: fx, Now: now.Add(time.Second)})
	if got := apperrors.UserMessage(err); got != "Cannot use Flamestrike while Fireball is on cooldown." {
		t.Errorf("unexpected group cooldown message %q", got)
	}
}

func TestPassiveAndResources(t *testing.T) {
	reg := Default()
	caster := actor.New("p1", "Ilse", nil)

	sw, _ := reg.Skill("second_wind")
	if err := sw.Execute(combat.Use{Caster: caster}); !errors.Is(err, combat.ErrPassive) {
		t.Errorf("Expected passive error, got %v", err)
	}

	rend, _ := reg.Skill("rend")
	err := rend.Execute(combat.Use{Caster: caster, Target: actor.New("p2", "Odo", nil), Effects: &recordingEffects{}})
	if !errors.Is(err, combat.ErrNotEnoughResources) {
		t.Errorf("Expected missing energy to fail, got %v", err)
	}
}

func TestClassUnlocks(t *testing.T) {
	reg := Default()
	class, _ := reg.Class(ClassWarrior)
	a := actor.New("p1", "Brakk", nil)

	if !class.HasAbility("second_wind") || class.HasAbility("fireball") {
		t.Error("unexpected warrior ability set")
	}
	if class.CanUseAbility(a, "second_wind") {
		t.Error("Expected second wind locked at level 1")
	}
	a.Level = 3
	if !class.CanUseAbility(a, "second_wind") {
		t.Error("Expected second wind unlocked at level 3")
	}
	if got := class.Unlocks(3).Skills; len(got) != 1 || got[0] != "second_wind" {
		t.Errorf("unexpected level 3 unlocks %v", got)
	}
}
