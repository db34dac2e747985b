package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
)

var (
	errNoSpell     = apperrors.New(apperrors.CodeInvalidTarget, "No such spell.")
	errCastWhat    = apperrors.New(apperrors.CodeInvalidTarget, "Cast what?")
	errKillWhom    = apperrors.New(apperrors.CodeInvalidTarget, "Kill whom?")
	errNotFighting = apperrors.New(apperrors.CodeInvalidTarget, "You aren't fighting anyone.")
	errNoEscape    = apperrors.New(apperrors.CodeNoExit, "There is nowhere to run!")
)

func (d *Dispatcher) registerBuiltins() {
	d.Register(&Command{Name: "cast", Aliases: []string{"c"}, Usage: "cast '<spell>' [target]", Run: d.cast})
	d.Register(&Command{Name: "kill", Aliases: []string{"k", "attack"}, Usage: "kill <target>", Run: d.kill})
	d.Register(&Command{Name: "flee", Usage: "flee", Run: d.flee})
	d.Register(&Command{Name: "who", Usage: "who", Run: d.who})
	d.Register(&Command{Name: "inventory", Aliases: []string{"i", "inv"}, Usage: "inventory", Run: d.inventory})
	d.Register(&Command{Name: "look", Aliases: []string{"l"}, Usage: "look", Run: d.look})
	d.Register(&Command{Name: "directions", Aliases: []string{"exits"}, Usage: "directions", Run: d.directions})
	d.Register(&Command{Name: "go", Usage: "go <exit>", Run: func(a *actor.Actor, args string) error {
		return d.e.Movement().Move(a, args)
	}})
	d.Register(&Command{Name: "follow", Usage: "follow <player>|self", Run: d.follow})
	d.Register(&Command{Name: "wield", Aliases: []string{"wear", "equip"}, Usage: "wield <item>", Run: d.wield})
	d.Register(&Command{Name: "quaff", Aliases: []string{"drink"}, Usage: "quaff <potion>", Run: d.quaff})
	d.Register(&Command{Name: "score", Aliases: []string{"sc"}, Usage: "score", Run: d.score})
	d.Register(&Command{Name: "quit", Usage: "quit", Run: func(a *actor.Actor, _ string) error {
		return d.e.Quit(a)
	}})
}

// parseCast splits "cast 'magic missile' rat" style arguments.
func parseCast(args string) (spell, target string) {
	args = strings.TrimSpace(args)
	if strings.HasPrefix(args, "'") || strings.HasPrefix(args, `"`) {
		quote := args[:1]
		if end := strings.Index(args[1:], quote); end >= 0 {
			return args[1 : end+1], strings.TrimSpace(args[end+2:])
		}
		return strings.Trim(args, quote), ""
	}
	parts := strings.SplitN(args, " ", 2)
	if len(parts) == 2 {
		return parts[0], strings.TrimSpace(parts[1])
	}
	return parts[0], ""
}

func (d *Dispatcher) cast(a *actor.Actor, args string) error {
	name, target := parseCast(args)
	if name == "" {
		return errCastWhat
	}
	catalog := d.e.Abilities().Catalog()
	if catalog == nil {
		return errNoSpell
	}
	spell, ok := catalog.FindSpell(name)
	if !ok {
		return errNoSpell
	}
	return d.queueAbility(a, "cast "+spell.Name(), spell.Lag(), func() error {
		return d.e.Abilities().Use(a, spell, target)
	})
}

func (d *Dispatcher) kill(a *actor.Actor, args string) error {
	if args == "" {
		return errKillWhom
	}
	target, err := d.e.Combat().FindCombatant(a, args)
	if err != nil {
		return err
	}
	if a.HasCombatant(target.ID) {
		a.Say(fmt.Sprintf("You are already fighting %s!", target.Name))
		return nil
	}
	d.e.Combat().Engage(a, target)
	a.Say(fmt.Sprintf("You attack %s.", target.Name))
	target.Say(fmt.Sprintf("%s attacks you!", a.Name))
	return nil
}

func (d *Dispatcher) flee(a *actor.Actor, _ string) error {
	if !a.IsInCombat() {
		return errNotFighting
	}
	exits := d.e.Movement().Directions(a)
	if len(exits) == 0 {
		return errNoEscape
	}
	d.e.Combat().DisengageAll(a)
	a.Say("You flee from combat!")
	for _, exit := range exits {
		if err := d.e.Movement().Move(a, exit.Direction); err == nil {
			return nil
		}
	}
	a.Say("You couldn't find a way out.")
	return nil
}

func (d *Dispatcher) who(a *actor.Actor, _ string) error {
	players := d.e.World().Players()
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	now := d.e.Now()

	var b strings.Builder
	fmt.Fprintf(&b, "Online (%s):", humanize.Comma(int64(len(players))))
	for _, p := range players {
		idle := "active"
		if !p.LastCommandAt.IsZero() {
			idle = "last seen " + humanize.RelTime(p.LastCommandAt, now, "ago", "from now")
		}
		fmt.Fprintf(&b, "\n  [%2d] %-12s %s", p.Level, p.Name, idle)
	}
	a.Say(b.String())
	return nil
}

func (d *Dispatcher) inventory(a *actor.Actor, _ string) error {
	a.Say(d.e.Economy().Inventory(a))
	return nil
}

func (d *Dispatcher) look(a *actor.Actor, _ string) error {
	a.Say(d.e.Movement().Look(a))
	return nil
}

func (d *Dispatcher) directions(a *actor.Actor, _ string) error {
	exits := d.e.Movement().Directions(a)
	if len(exits) == 0 {
		a.Say("There are no obvious exits.")
		return nil
	}
	dirs := make([]string, 0, len(exits))
	for _, e := range exits {
		dirs = append(dirs, e.Direction)
	}
	a.Say("Exits: " + strings.Join(dirs, ", "))
	return nil
}

func (d *Dispatcher) follow(a *actor.Actor, args string) error {
	if args == "" || strings.EqualFold(args, "self") {
		a.Following = ""
		a.Say("You stop following anyone.")
		return nil
	}
	leader, ok := d.e.World().FindInRoom(a.RoomID, args)
	if !ok || leader.IsNPC {
		return apperrors.New(apperrors.CodeInvalidTarget, "They aren't here.")
	}
	if leader.ID == a.ID {
		a.Following = ""
		a.Say("You stop following anyone.")
		return nil
	}
	a.Following = leader.ID
	a.Say(fmt.Sprintf("You start following %s.", leader.Name))
	leader.Say(fmt.Sprintf("%s starts following you.", a.Name))
	return nil
}

func (d *Dispatcher) wield(a *actor.Actor, args string) error {
	it, err := d.e.Economy().Equip(a, args)
	if err != nil {
		return err
	}
	a.Say(fmt.Sprintf("You equip the %s.", it.Name))
	return nil
}

func (d *Dispatcher) quaff(a *actor.Actor, args string) error {
	return d.e.Economy().Quaff(a, args)
}

func (d *Dispatcher) score(a *actor.Actor, _ string) error {
	c := d.e.Composer()
	var b strings.Builder
	fmt.Fprintf(&b, "%s, level %d %s", a.Name, a.Level, c.Title(classOrNone(a)))
	fmt.Fprintf(&b, "\nExperience: %s / %s", c.Number(a.Experience), c.Number(d.e.Progression().Threshold(a)))
	for _, name := range a.Pool.Names() {
		if a.Pool.IsUnlimited(name) {
			continue
		}
		fmt.Fprintf(&b, "\n%-8s %d/%d", c.Title(name)+":", a.Pool.Current(name), a.Pool.Max(name))
	}
	if a.IsInCombat() {
		b.WriteString("\nYou are fighting.")
	}
	a.Say(b.String())
	return nil
}

func classOrNone(a *actor.Actor) string {
	if a.ClassID == "" {
		return "adventurer"
	}
	return a.ClassID
}
