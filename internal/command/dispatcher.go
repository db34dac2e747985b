// Package command turns lines of player input into engine operations.
// Interpret runs on the tick goroutine.
package command

import (
	"sort"
	"strings"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/room"
	"github.com/MRamiBalles/tickmud/server/internal/engine"
	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
	"github.com/MRamiBalles/tickmud/server/internal/platform/logger"
)

// DefaultLag is used when neither the ability nor the config sets one.
const DefaultLag = time.Second

var errUnknown = apperrors.New(apperrors.CodeUnknownCommand, "Huh?")

// Command is one verb.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Run     func(a *actor.Actor, args string) error
}

// Dispatcher resolves verbs to commands.
type Dispatcher struct {
	e        *engine.Engine
	logger   *logger.Logger
	skillLag time.Duration
	commands map[string]*Command
	names    []string
}

// New creates a dispatcher with the built-in commands and installs it as
// the engine's interpreter.
func New(e *engine.Engine, log *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		e:        e,
		logger:   log,
		skillLag: e.Config().SkillLag,
		commands: make(map[string]*Command),
	}
	d.registerBuiltins()
	e.SetInterpreter(d.Interpret)
	return d
}

// Register adds a command. Later registrations replace earlier ones.
func (d *Dispatcher) Register(c *Command) {
	if _, exists := d.commands[c.Name]; !exists {
		d.names = append(d.names, c.Name)
		sort.Strings(d.names)
	}
	d.commands[c.Name] = c
	for _, alias := range c.Aliases {
		d.commands[alias] = c
	}
}

// Interpret runs one line for an actor and reports failures to it.
func (d *Dispatcher) Interpret(a *actor.Actor, line string) {
	verb, args := split(line)
	if verb == "" {
		return
	}
	if err := d.run(a, verb, args); err != nil {
		a.Say(apperrors.UserMessage(err))
		if !apperrors.IsInvalidAction(err) {
			d.logger.Error("command failed", "actor", a.ID, "verb", verb, "err", err)
		}
	}
}

func (d *Dispatcher) run(a *actor.Actor, verb, args string) error {
	if c, ok := d.commands[verb]; ok {
		return c.Run(a, args)
	}
	if room.IsDirection(verb) {
		return d.e.Movement().Move(a, verb)
	}
	if catalog := d.e.Abilities().Catalog(); catalog != nil {
		if skill, ok := catalog.Skill(verb); ok {
			return d.queueAbility(a, verb, skill.Lag(), func() error {
				return d.e.Abilities().Use(a, skill, args)
			})
		}
	}
	for _, name := range d.names {
		if strings.HasPrefix(name, verb) {
			return d.commands[name].Run(a, args)
		}
	}
	return errUnknown
}

// queueAbility delays an ability by its lag, the configured skill lag, or
// DefaultLag, in that order.
func (d *Dispatcher) queueAbility(a *actor.Actor, label string, lag time.Duration, fn func() error) error {
	if lag <= 0 {
		lag = d.skillLag
	}
	if lag <= 0 {
		lag = DefaultLag
	}
	d.e.QueueCommand(a, label, lag, fn)
	return nil
}

// Names lists the registered command names.
func (d *Dispatcher) Names() []string {
	return append([]string(nil), d.names...)
}

func split(line string) (verb, args string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	parts := strings.SplitN(line, " ", 2)
	verb = strings.ToLower(parts[0])
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return verb, args
}
