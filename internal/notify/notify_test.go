package notify

import (
	"strings"
	"testing"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
	"github.com/MRamiBalles/tickmud/server/internal/domain/item"
)

func texts(ds []Delivery, to actor.ID) []string {
	var out []string
	for _, d := range ds {
		if d.To.ID == to {
			out = append(out, d.Text)
		}
	}
	return out
}

func TestHiddenEventsProduceNothing(t *testing.T) {
	c := NewComposer()
	a := actor.New("a", "Alda", nil)
	b := actor.New("b", "Bram", nil)
	d := combat.Damage{Attribute: attribute.Health, Amount: 5, Source: a, Attacker: a.ID, Metadata: combat.Metadata{Hidden: true}}
	h := combat.Heal{Attribute: attribute.Health, Amount: 5, Source: a, Attacker: a.ID, Metadata: combat.Metadata{Hidden: true}}

	if len(c.Hit(a, b, d, 5, nil)) != 0 || len(c.Damaged(b, a, d, 5, nil)) != 0 {
		t.Error("Expected hidden damage to produce no messages")
	}
	if len(c.Heal(a, b, h, 5, nil)) != 0 || len(c.Healed(b, a, h, 5, nil)) != 0 {
		t.Error("Expected hidden heal to produce no messages")
	}
}

func TestCriticalMarker(t *testing.T) {
	c := NewComposer()
	a := actor.New("a", "Alda", nil)
	b := actor.New("b", "Bram", nil)
	d := combat.Damage{Attribute: attribute.Health, Amount: 12, Source: a, Attacker: a.ID, Metadata: combat.Metadata{Critical: true}}

	hit := texts(c.Hit(a, b, d, 12, nil), a.ID)
	if len(hit) != 1 || hit[0] != "You hit Bram for 12 damage. (Critical)" {
		t.Errorf("unexpected hit text %v", hit)
	}
	dmg := texts(c.Damaged(b, a, d, 12, nil), b.ID)
	if len(dmg) != 1 || !strings.HasSuffix(dmg[0], CriticalMarker) {
		t.Errorf("unexpected damaged text %v", dmg)
	}
}

func TestPartyVariantsExcludePrimary(t *testing.T) {
	c := NewComposer()
	a := actor.New("a", "Alda", nil)
	b := actor.New("b", "Bram", nil)
	m := actor.New("m", "Mira", nil)
	sword, _ := item.New("rusty_sword", "i1")
	d := combat.Damage{Attribute: attribute.Health, Amount: 7, Source: sword, Attacker: a.ID}

	out := c.Hit(a, b, d, 7, []*actor.Actor{a, m})

	if got := texts(out, a.ID); len(got) != 1 || got[0] != "Your rusty sword hit Bram for 7 damage." {
		t.Errorf("unexpected attacker text %v", got)
	}
	if got := texts(out, m.ID); len(got) != 1 || got[0] != "Alda's rusty sword hit Bram for 7 damage." {
		t.Errorf("unexpected party text %v", got)
	}
}

func TestDamagedIgnoresNonHealth(t *testing.T) {
	c := NewComposer()
	a := actor.New("a", "Alda", nil)
	d := combat.Damage{Attribute: attribute.Mana, Amount: 3, Source: a, Attacker: a.ID}
	if len(c.Damaged(a, a, d, 3, nil)) != 0 {
		t.Error("Expected mana damage not to be reported")
	}
}

func TestDeathExcludesVictimAndKillerFromRoomLine(t *testing.T) {
	c := NewComposer()
	v := actor.New("v", "Vex", nil)
	k := actor.New("k", "Kor", nil)
	by := actor.New("y", "Yun", nil)

	out := c.Death(v, k, []*actor.Actor{v, k, by}, nil, 200)

	if len(texts(out, k.ID)) != 0 {
		t.Error("Expected killer not to receive the room line")
	}
	if got := texts(out, by.ID); len(got) != 1 || got[0] != "Vex collapses to the ground, dead at the hands of Kor." {
		t.Errorf("unexpected bystander text %v", got)
	}
	victim := texts(out, v.ID)
	if len(victim) != 3 || victim[2] != "You lose 200 experience!" {
		t.Errorf("unexpected victim text %v", victim)
	}
}

func TestCurrencyTitleCase(t *testing.T) {
	c := NewComposer()
	a := actor.New("a", "Alda", nil)
	got := texts(c.Currency(a, "gold_coins", 1500), a.ID)
	if len(got) != 1 || got[0] != "You receive currency: [Gold Coins] x1,500." {
		t.Errorf("unexpected currency text %v", got)
	}
}

func TestCombatPrompt(t *testing.T) {
	a := actor.New("a", "Alda", nil)
	rat := actor.NewNPC("n", "a giant rat", 1, nil)
	rat.Pool.Decrease(attribute.Health, 50)

	p := CombatPrompt(a, []*actor.Actor{rat})
	if !strings.Contains(p, "100/100") || !strings.Contains(p, "50%") {
		t.Errorf("unexpected prompt:\n%s", p)
	}
	if Bar(5, 10, 10) != "[#####-----]" {
		t.Errorf("unexpected bar %s", Bar(5, 10, 10))
	}
}
