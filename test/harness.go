// Package test holds scripted combat scenarios that drive a real engine
// tick by tick on a fake clock. cmd/test-runner prints them; the package's
// own tests assert them.
package test

import (
	"context"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/ability"
	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
	"github.com/MRamiBalles/tickmud/server/internal/engine"
	"github.com/MRamiBalles/tickmud/server/internal/platform/config"
	"github.com/MRamiBalles/tickmud/server/internal/platform/logger"
	"github.com/MRamiBalles/tickmud/server/internal/platform/metrics"
	"github.com/MRamiBalles/tickmud/server/internal/world"
)

// Clock is a manually advanced time source.
type Clock struct{ now time.Time }

func (c *Clock) Now() time.Time          { return c.now }
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// FlatStriker always hits health for Amount.
type FlatStriker struct{ Amount int }

func (s FlatStriker) Strike(attacker, target *actor.Actor) combat.Damage {
	return combat.Damage{Attribute: attribute.Health, Amount: s.Amount, Source: attacker, Attacker: attacker.ID}
}

// Harness is an engine over the starter area with recording channels.
type Harness struct {
	Engine   *engine.Engine
	Clock    *Clock
	Metrics  *metrics.Collector
	channels map[actor.ID]*actor.RecordingChannel
}

// NewHarness builds an engine with no persistence and a fixed striker.
func NewHarness(cfg config.Config, striker engine.Striker) *Harness {
	clock := &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	w := world.NewRegistry()
	world.SeedLimbo(w)
	m := metrics.NewCollector()

	e := engine.NewEngine(cfg, engine.Deps{
		World:     w,
		Abilities: ability.Default(),
		Logger:    logger.Discard(),
		Metrics:   m,
		Striker:   striker,
		Clock:     clock.Now,
	})
	return &Harness{Engine: e, Clock: clock, Metrics: m, channels: make(map[actor.ID]*actor.RecordingChannel)}
}

// Player registers a level-1 player of the given class in roomID.
func (h *Harness) Player(id, name, classID, roomID string) *actor.Actor {
	a := actor.New(actor.ID(id), name, h.Clock.Now)
	a.ClassID = classID
	a.RoomID = roomID
	h.attach(a)
	h.Engine.Progression().LearnThrough(a)
	return a
}

// NPC registers a spawn.
func (h *Harness) NPC(s world.Spawn) *actor.Actor {
	a := s.NewActor(h.Clock.Now)
	h.attach(a)
	return a
}

func (h *Harness) attach(a *actor.Actor) {
	ch := &actor.RecordingChannel{}
	a.Channel = ch
	h.channels[a.ID] = ch
	if err := h.Engine.RegisterActor(a); err != nil {
		panic(err)
	}
}

// Step advances the clock by d and runs one tick, n times.
func (h *Harness) Step(n int, d time.Duration) {
	for i := 0; i < n; i++ {
		h.Clock.Advance(d)
		h.Engine.Tick(context.Background())
	}
}

// StepUntil steps until done reports true or max steps have run.
func (h *Harness) StepUntil(max int, d time.Duration, done func() bool) bool {
	for i := 0; i < max; i++ {
		if done() {
			return true
		}
		h.Step(1, d)
	}
	return done()
}

// Heard reports whether the actor was told line.
func (h *Harness) Heard(a *actor.Actor, line string) bool {
	ch, ok := h.channels[a.ID]
	return ok && ch.Contains(line)
}

// Online reports whether the actor is still in the world.
func (h *Harness) Online(a *actor.Actor) bool {
	_, ok := h.Engine.World().Actor(a.ID)
	return ok
}
