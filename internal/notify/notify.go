// Package notify composes the text each recipient sees for combat and
// progression events. It only formats already-resolved values; delivering
// the result is the caller's job.
package notify

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
)

// CriticalMarker is appended to critical damage lines.
const CriticalMarker = " (Critical)"

// Delivery is one message for one recipient.
type Delivery struct {
	To   *actor.Actor
	Text string
}

// Deliver sends every delivery to its recipient's channel.
func Deliver(ds []Delivery) {
	for _, d := range ds {
		d.To.Say(d.Text)
	}
}

// Composer formats messages. Use one per goroutine.
type Composer struct {
	printer *message.Printer
}

// NewComposer creates a composer for English output.
func NewComposer() *Composer {
	return &Composer{printer: message.NewPrinter(language.AmericanEnglish)}
}

// Number formats an integer with digit grouping.
func (c *Composer) Number(n int) string {
	return c.printer.Sprintf("%d", n)
}

// Title title-cases a name such as a currency key.
func (c *Composer) Title(s string) string {
	return cases.Title(language.AmericanEnglish).String(strings.ReplaceAll(s, "_", " "))
}

// Hit is what the attacker and the attacker's co-located party see when
// the attacker's damage lands.
func (c *Composer) Hit(attacker, target *actor.Actor, d combat.Damage, final int, party []*actor.Actor) []Delivery {
	if d.Metadata.Hidden {
		return nil
	}
	var out []Delivery

	self := "You hit"
	if combat.SourceDiffers(d.Source, attacker.ID) {
		self = fmt.Sprintf("Your %s hit", d.Source.SourceName())
	}
	line := fmt.Sprintf("%s %s for %s damage.", self, target.Name, c.Number(final))
	if d.Metadata.Critical {
		line += CriticalMarker
	}
	out = append(out, Delivery{To: attacker, Text: line})

	for _, m := range party {
		if m.ID == attacker.ID {
			continue
		}
		who := attacker.Name + " hit"
		if combat.SourceDiffers(d.Source, attacker.ID) {
			who = fmt.Sprintf("%s's %s hit", attacker.Name, d.Source.SourceName())
		}
		out = append(out, Delivery{To: m, Text: fmt.Sprintf("%s %s for %s damage.", who, target.Name, c.Number(final))})
	}
	return out
}

// Damaged is what the target and the target's co-located party see.
// Only health damage is reported.
func (c *Composer) Damaged(target *actor.Actor, attacker *actor.Actor, d combat.Damage, final int, party []*actor.Actor) []Delivery {
	if d.Metadata.Hidden || d.Attribute != attribute.Health {
		return nil
	}
	cause := describeCause(attacker, d.Source)

	line := fmt.Sprintf("%s hit You for %s damage.", cause, c.Number(final))
	if d.Metadata.Critical {
		line += CriticalMarker
	}
	out := []Delivery{{To: target, Text: line}}

	for _, m := range party {
		if m.ID == target.ID {
			continue
		}
		out = append(out, Delivery{To: m, Text: fmt.Sprintf("%s hit %s for %s damage.", cause, target.Name, c.Number(final))})
	}
	return out
}

// Heal is what the healer and the healer's co-located party see.
func (c *Composer) Heal(healer, target *actor.Actor, h combat.Heal, final int, party []*actor.Actor) []Delivery {
	if h.Metadata.Hidden {
		return nil
	}
	var out []Delivery
	differs := combat.SourceDiffers(h.Source, healer.ID)

	if target.ID != healer.ID {
		self := "You heal"
		if differs {
			self = fmt.Sprintf("Your %s healed", h.Source.SourceName())
		}
		out = append(out, Delivery{To: healer, Text: fmt.Sprintf("%s %s for %s %s.", self, target.Name, c.Number(final), h.Attribute)})
	}

	for _, m := range party {
		if m.ID == healer.ID {
			continue
		}
		who := healer.Name + " healed"
		if differs {
			who = fmt.Sprintf("%s's %s healed", healer.Name, h.Source.SourceName())
		}
		out = append(out, Delivery{To: m, Text: fmt.Sprintf("%s %s for %s %s.", who, target.Name, c.Number(final), h.Attribute)})
	}
	return out
}

// Healed is what the target and the target's co-located party see.
func (c *Composer) Healed(target *actor.Actor, healer *actor.Actor, h combat.Heal, final int, party []*actor.Actor) []Delivery {
	if h.Metadata.Hidden {
		return nil
	}
	cause := describeCause(healer, h.Source)
	if healer != nil && healer.ID == target.ID {
		cause = "You"
		if combat.SourceDiffers(h.Source, healer.ID) {
			cause = "Your " + h.Source.SourceName()
		}
	}

	var line string
	switch {
	case cause == "You":
		line = fmt.Sprintf("You restore %s %s.", c.Number(final), h.Attribute)
	case h.Attribute == attribute.Health:
		line = fmt.Sprintf("%s heals you for %s.", cause, c.Number(final))
	default:
		line = fmt.Sprintf("%s restores %s %s.", cause, c.Number(final), h.Attribute)
	}
	out := []Delivery{{To: target, Text: line}}

	for _, m := range party {
		if m.ID == target.ID {
			continue
		}
		out = append(out, Delivery{To: m, Text: fmt.Sprintf("%s healed %s for %s %s.", describeCause(healer, h.Source), target.Name, c.Number(final), h.Attribute)})
	}
	return out
}

// describeCause names who or what dealt an exchange: "Bram", "Bram's fireball",
// "a rusty sword" or "Something".
func describeCause(attacker *actor.Actor, src combat.Source) string {
	switch {
	case attacker != nil && combat.SourceDiffers(src, attacker.ID):
		return fmt.Sprintf("%s's %s", attacker.Name, src.SourceName())
	case attacker != nil:
		return attacker.Name
	case src != nil:
		return src.SourceName()
	default:
		return "Something"
	}
}

// Death covers the room, the victim's party and the victim. Killer may be nil.
// Bystanders are everyone in the room except the victim and the killer.
func (c *Composer) Death(victim, killer *actor.Actor, bystanders, party []*actor.Actor, lost int) []Delivery {
	var out []Delivery

	roomLine := fmt.Sprintf("%s collapses to the ground, dead.", victim.Name)
	if killer != nil {
		roomLine = fmt.Sprintf("%s collapses to the ground, dead at the hands of %s.", victim.Name, killer.Name)
	}
	for _, b := range bystanders {
		if b.ID == victim.ID || (killer != nil && b.ID == killer.ID) {
			continue
		}
		out = append(out, Delivery{To: b, Text: roomLine})
	}

	for _, m := range party {
		if m.ID == victim.ID {
			continue
		}
		out = append(out, Delivery{To: m, Text: fmt.Sprintf("%s was killed!", victim.Name)})
	}

	if killer != nil {
		out = append(out, Delivery{To: victim, Text: fmt.Sprintf("You were killed by %s.", killer.Name)})
	} else {
		out = append(out, Delivery{To: victim, Text: "You were killed."})
	}
	out = append(out, Delivery{To: victim, Text: "Whoops, that sucked!"})
	if lost > 0 {
		out = append(out, Delivery{To: victim, Text: fmt.Sprintf("You lose %s experience!", c.Number(lost))})
	}
	return out
}

// Deathblow is the killer's credit line.
func (c *Composer) Deathblow(credited *actor.Actor, victimName string) []Delivery {
	if credited.IsNPC {
		return nil
	}
	return []Delivery{{To: credited, Text: fmt.Sprintf("You killed %s!", victimName)}}
}

// Experience reports an experience gain.
func (c *Composer) Experience(a *actor.Actor, amount int) []Delivery {
	return []Delivery{{To: a, Text: fmt.Sprintf("You gained %s experience!", c.Number(amount))}}
}

// LevelUp reports one level gained.
func (c *Composer) LevelUp(a *actor.Actor, level int) []Delivery {
	return []Delivery{
		{To: a, Text: "**** LEVEL UP! ****"},
		{To: a, Text: fmt.Sprintf("You are now level %d!", level)},
	}
}

// Unlocked reports a newly available ability.
func (c *Composer) Unlocked(a *actor.Actor, kind combat.Kind, name string) []Delivery {
	return []Delivery{{To: a, Text: fmt.Sprintf("You can now use %s: %s.", kind, name)}}
}

// Currency reports a currency gain.
func (c *Composer) Currency(a *actor.Actor, key string, amount int) []Delivery {
	return []Delivery{{To: a, Text: fmt.Sprintf("You receive currency: [%s] x%s.", c.Title(key), c.Number(amount))}}
}

// Departure is the room notice when an actor leaves the world.
func (c *Composer) Departure(a *actor.Actor, bystanders []*actor.Actor) []Delivery {
	var out []Delivery
	for _, b := range bystanders {
		if b.ID != a.ID {
			out = append(out, Delivery{To: b, Text: fmt.Sprintf("%s disappears.", a.Name)})
		}
	}
	return out
}

// Entrance is the room notice when an actor enters the world.
func (c *Composer) Entrance(a *actor.Actor, bystanders []*actor.Actor) []Delivery {
	var out []Delivery
	for _, b := range bystanders {
		if b.ID != a.ID {
			out = append(out, Delivery{To: b, Text: fmt.Sprintf("%s appears.", a.Name)})
		}
	}
	return out
}
