package engine

import (
	"testing"

	"github.com/MRamiBalles/tickmud/server/internal/ability"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/platform/config"
	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
)

func TestAbilityUseMessages(t *testing.T) {
	h := newHarness(t, config.Default(), Deps{})
	catalog := h.e.Abilities().Catalog()
	fireball, _ := catalog.Spell("fireball")
	flamestrike, _ := catalog.Spell("flamestrike")

	mage, _ := h.spawn(t, "p1", "Ayla", "arena", false)
	mage.ClassID = ability.ClassMage
	warrior, _ := h.spawn(t, "p2", "Bram", "arena", false)
	warrior.ClassID = ability.ClassWarrior
	h.spawn(t, "npc1", "rat", "arena", true)

	tests := []struct {
		name string
		run  func() error
		want string
	}{
		{"class restricted", func() error { return h.e.Abilities().Use(warrior, fireball, "rat") }, "Your class cannot use that ability."},
		{"not learned", func() error { return h.e.Abilities().Use(mage, flamestrike, "rat") }, "You have not yet learned that ability."},
		{"no target", func() error { return h.e.Abilities().Use(mage, fireball, "") }, "Use Fireball on whom?"},
		{"missing target", func() error { return h.e.Abilities().Use(mage, fireball, "dragon") }, "They aren't here."},
		{"self", func() error { return h.e.Abilities().Use(mage, fireball, "ayla") }, "You smack yourself in the face. Ouch!"},
		{"no pvp", func() error { return h.e.Abilities().Use(mage, fireball, "bram") }, "You cannot attack other players here."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if err == nil {
				t.Fatalf("Expected an error")
			}
			if !apperrors.IsInvalidAction(err) {
				t.Errorf("Expected an invalid action, got %v", err)
			}
			if got := apperrors.UserMessage(err); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAbilityUseEngagesAndCoolsDown(t *testing.T) {
	h := newHarness(t, config.Default(), Deps{})
	catalog := h.e.Abilities().Catalog()
	fireball, _ := catalog.Spell("fireball")
	flamestrike, _ := catalog.Spell("flamestrike")

	mage, ch := h.spawn(t, "p1", "Ayla", "arena", false)
	mage.ClassID = ability.ClassMage
	rat, _ := h.spawn(t, "npc1", "rat", "arena", true)
	manaBefore := mage.Pool.Current(attribute.Mana)

	if err := h.e.Abilities().Use(mage, fireball, "rat"); err != nil {
		t.Fatalf("Use: %v", err)
	}
	if !mage.HasCombatant(rat.ID) || !rat.HasCombatant(mage.ID) {
		t.Errorf("Expected a symmetric engagement")
	}
	if got := rat.Pool.Current(attribute.Health); got != 100-19 {
		t.Errorf("Expected rat at 81 health, got %d", got)
	}
	if got := mage.Pool.Current(attribute.Mana); got != manaBefore-10 {
		t.Errorf("Expected 10 mana spent, got %d", manaBefore-got)
	}
	if !ch.Contains("Your Fireball hit rat for 19 damage.") {
		t.Errorf("Expected hit message, got %v", ch.Lines())
	}

	err := h.e.Abilities().Use(mage, fireball, "")
	if got := apperrors.UserMessage(err); got != "Fireball is on cooldown. 4 seconds remaining." {
		t.Errorf("Expected cooldown message, got %q", got)
	}

	mage.Level = 5
	err = h.e.Abilities().Use(mage, flamestrike, "rat")
	if got := apperrors.UserMessage(err); got != "Cannot use Flamestrike while Fireball is on cooldown." {
		t.Errorf("Expected group cooldown message, got %q", got)
	}

	h.clock.Advance(fireball.(*ability.Definition).Cooldown)
	if err := h.e.Abilities().Use(mage, fireball, ""); err != nil {
		t.Errorf("Expected fireball ready after its cooldown, got %v", err)
	}
}

func TestHealDefaultsToSelf(t *testing.T) {
	h := newHarness(t, config.Default(), Deps{})
	mend, _ := h.e.Abilities().Catalog().Spell("mend")
	mage, ch := h.spawn(t, "p1", "Ayla", "arena", false)
	mage.ClassID = ability.ClassMage
	mage.Pool.Decrease(attribute.Health, 50)

	if err := h.e.Abilities().Use(mage, mend, ""); err != nil {
		t.Fatalf("Use: %v", err)
	}
	if got := mage.Pool.Current(attribute.Health); got != 71 {
		t.Errorf("Expected 71 health, got %d", got)
	}
	if !ch.Contains("Your Mend heals you for 21.") {
		t.Errorf("Expected healed message, got %v", ch.Lines())
	}
}

func TestNotEnoughResources(t *testing.T) {
	h := newHarness(t, config.Default(), Deps{})
	fireball, _ := h.e.Abilities().Catalog().Spell("fireball")
	mage, _ := h.spawn(t, "p1", "Ayla", "arena", false)
	mage.ClassID = ability.ClassMage
	h.spawn(t, "npc1", "rat", "arena", true)
	mage.Pool.SetCurrent(attribute.Mana, 3)

	err := h.e.Abilities().Use(mage, fireball, "rat")
	if got := apperrors.UserMessage(err); got != "You do not have enough resources." {
		t.Errorf("Expected resource message, got %q", got)
	}
}
