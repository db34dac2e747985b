package engine

import (
	"context"
	"fmt"
	"math/rand"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	otelattr "go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
	"github.com/MRamiBalles/tickmud/server/internal/domain/rules"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/notify"
	"github.com/MRamiBalles/tickmud/server/internal/platform/config"
	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
	"github.com/MRamiBalles/tickmud/server/internal/platform/logger"
	"github.com/MRamiBalles/tickmud/server/internal/platform/metrics"
	"github.com/MRamiBalles/tickmud/server/internal/world"
)

// AbilityCatalog is the ability, spell and class lookup the engine consumes.
type AbilityCatalog interface {
	combat.Registry
	Class(id string) (combat.Class, bool)
	Forget(id actor.ID)
}

// Listener is an application-level handler (quests, rewards) attached to
// every actor's bus after the engine's own handlers.
type Listener func(a *actor.Actor, ev events.GameEvent)

// Deps are the collaborators the engine is built from.
type Deps struct {
	World     *world.Registry
	Abilities AbilityCatalog
	Table     rules.Table
	Saver     Saver
	EventLog  *events.EventLog
	Logger    *logger.Logger
	Metrics   *metrics.Collector
	Striker   Striker
	Clock     func() time.Time
	Rand      *rand.Rand
}

// Engine is the central orchestrator: it owns the tick loop and runs every
// live actor through queue, combat and idle processing each tick.
type Engine struct {
	cfg      config.Config
	world    *world.Registry
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector
	ticker   *Ticker
	tracer   trace.Tracer
	composer *notify.Composer
	now      func() time.Time

	// Sub-systems
	combat      *CombatSystem
	progression *ProgressionSystem
	idle        *IdleSystem
	regen       *RegenSystem
	abilities   *AbilitySystem
	movement    *MovementSystem
	economy     *EconomySystem
	persister   *Persister

	interpret func(a *actor.Actor, line string)
	onRemove  []func(a *actor.Actor)
	listeners map[events.EventType][]Listener

	work       chan func()
	later      []func()
	done       chan struct{}
	tickNumber int64
}

// NewEngine initializes the core game systems and dependencies.
func NewEngine(cfg config.Config, deps Deps) *Engine {
	if deps.World == nil {
		deps.World = world.NewRegistry()
	}
	if deps.Table == nil {
		deps.Table = rules.DefaultTable
	}
	if deps.EventLog == nil {
		deps.EventLog = events.NewEventLog(nil)
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewCollector()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Striker == nil {
		deps.Striker = &WeaponStriker{Rand: deps.Rand}
	}

	e := &Engine{
		cfg:       cfg,
		world:     deps.World,
		eventLog:  deps.EventLog,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		tracer:    otel.Tracer("github.com/MRamiBalles/tickmud/server/internal/engine"),
		composer:  notify.NewComposer(),
		now:       deps.Clock,
		listeners: make(map[events.EventType][]Listener),
		work:      make(chan func(), 1024),
		done:      make(chan struct{}),
	}
	e.ticker = NewTicker(cfg.TickInterval, deps.Logger, e.Tick)
	e.persister = NewPersister(deps.Saver, e.Post, e.Later, deps.Logger, deps.Metrics)

	e.combat = NewCombatSystem(e, deps.Striker)
	e.progression = NewProgressionSystem(e, deps.Table, deps.Abilities)
	e.idle = NewIdleSystem(e, cfg.MaxIdle())
	e.regen = NewRegenSystem(e, cfg.RegenInterval)
	e.abilities = NewAbilitySystem(e, deps.Abilities)
	e.movement = NewMovementSystem(e)
	e.economy = NewEconomySystem(e)
	return e
}

// Start spawns the tick loop.
func (e *Engine) Start(ctx context.Context) {
	go e.Run(ctx)
}

// Run blocks running the tick loop until ctx ends or Stop is called.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("starting core game engine")
	defer close(e.done)
	e.ticker.Start(ctx)
}

// Stop ends the tick loop.
func (e *Engine) Stop() {
	e.ticker.Stop()
}

// SetInterpreter installs the text command handler used by Submit.
func (e *Engine) SetInterpreter(fn func(a *actor.Actor, line string)) {
	e.interpret = fn
}

// OnRemove registers a hook called after an actor leaves the world.
func (e *Engine) OnRemove(fn func(a *actor.Actor)) {
	e.onRemove = append(e.onRemove, fn)
}

// Post schedules fn to run on the tick goroutine at the start of the next
// tick. It returns false if the engine has stopped.
func (e *Engine) Post(fn func()) bool {
	select {
	case e.work <- fn:
		return true
	case <-e.done:
		return false
	}
}

// Later queues fn from the tick goroutine to run at the start of the next
// tick. Unlike Post it never blocks, so tick-side code may call it freely.
func (e *Engine) Later(fn func()) {
	e.later = append(e.later, fn)
}

// Submit hands a line of player input to the interpreter on the tick goroutine.
func (e *Engine) Submit(id actor.ID, line string) bool {
	return e.Post(func() {
		a, ok := e.world.Actor(id)
		if !ok || e.interpret == nil {
			return
		}
		a.LastCommandAt = e.now()
		e.interpret(a, line)
	})
}

// Subscribe attaches an application listener to every current and future actor.
func (e *Engine) Subscribe(t events.EventType, l Listener) {
	e.listeners[t] = append(e.listeners[t], l)
	for _, a := range e.world.Actors() {
		a := a
		a.Bus.On(t, func(ev events.GameEvent) { l(a, ev) })
	}
}

// RegisterActor adds an actor to the world and wires its bus.
func (e *Engine) RegisterActor(a *actor.Actor) error {
	if err := e.world.AddActor(a); err != nil {
		return err
	}
	e.combat.Register(a)
	e.progression.Register(a)
	e.economy.Register(a)
	for t, ls := range e.listeners {
		for _, l := range ls {
			l := l
			a.Bus.On(t, func(ev events.GameEvent) { l(a, ev) })
		}
	}
	e.logger.Info("actor registered with engine sub-systems", "actor", a.ID, "npc", a.IsNPC)
	return nil
}

// Join brings a player into the world: registers it, announces it to the
// room, shows the room and saves. A missing room falls back to the
// starting room.
func (e *Engine) Join(a *actor.Actor) error {
	if _, ok := e.world.Room(a.RoomID); !ok {
		a.RoomID = e.cfg.StartingRoom
	}
	if err := e.RegisterActor(a); err != nil {
		return err
	}
	a.LastCommandAt = e.now()
	notify.Deliver(e.composer.Entrance(a, e.world.InRoom(a.RoomID)))
	a.Say(e.movement.Look(a))
	e.save(a, nil)
	e.logger.Event("JOIN", string(a.ID), fmt.Sprintf("%s entered %s", a.Name, a.RoomID))
	return nil
}

// RemoveActor takes an actor out of the world and runs removal hooks.
func (e *Engine) RemoveActor(a *actor.Actor) {
	if _, ok := e.world.RemoveActor(a.ID); !ok {
		return
	}
	if e.progression.abilities != nil {
		e.progression.abilities.Forget(a.ID)
	}
	for _, fn := range e.onRemove {
		fn(a)
	}
	a.Bus.Clear()
}

// Quit saves the actor and takes it out of the world once the write
// completes. Actors cannot quit mid-fight.
func (e *Engine) Quit(a *actor.Actor) error {
	if a.IsInCombat() {
		return errInCombat
	}
	if a.Evicting {
		return nil
	}
	a.Evicting = true
	a.Say("Goodbye!")
	e.save(a, func(err error) {
		if err != nil {
			e.logger.Warn("save on quit failed", "actor", a.ID, "err", err)
		}
		if !e.live(a) {
			return
		}
		notify.Deliver(e.composer.Departure(a, e.world.InRoom(a.RoomID)))
		e.RemoveActor(a)
	})
	return nil
}

// Tick runs one pass over every live actor: queue, combat round, idle check.
// A failure in one actor is logged and only skips that actor this tick.
func (e *Engine) Tick(ctx context.Context) {
	start := time.Now()
	e.tickNumber++

	_, span := e.tracer.Start(ctx, "engine.tick", trace.WithAttributes(
		otelattr.Int64("tick", e.tickNumber),
	))
	defer span.End()

	e.drainWork()

	actors := e.world.Actors()
	span.SetAttributes(otelattr.Int("actors", len(actors)))
	for _, a := range actors {
		if _, live := e.world.Actor(a.ID); !live {
			continue
		}
		if err := e.tickActor(a); err != nil {
			e.metrics.RecordActorFault()
			e.logger.Error("actor tick failed", "actor", a.ID, "tick", e.tickNumber, "err", err)
			span.RecordError(err, trace.WithAttributes(otelattr.String("actor", string(a.ID))))
			span.SetStatus(codes.Error, "actor fault")
		}
	}

	e.metrics.RecordTick(time.Since(start))
}

func (e *Engine) drainWork() {
	local := e.later
	e.later = nil
	for _, fn := range local {
		e.safely("deferred work", fn)
	}
	for {
		select {
		case fn := <-e.work:
			e.safely("posted work", fn)
		default:
			return
		}
	}
}

func (e *Engine) safely(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error(what+" panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (e *Engine) tickActor(a *actor.Actor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	e.runQueue(a)
	if !e.live(a) {
		return nil
	}

	if e.combat.ResolveRound(a) && e.live(a) {
		e.metrics.RecordRound()
		if a.Channel != nil && !a.Channel.Structured() {
			a.Channel.Prompt(notify.CombatPrompt(a, e.combat.resolve(a)))
		}
	}
	if !e.live(a) {
		return nil
	}

	e.idle.Check(a)
	return nil
}

func (e *Engine) runQueue(a *actor.Actor) {
	ran, label, err := a.Queue.Tick()
	if !ran {
		return
	}
	e.metrics.RecordCommand()
	if err != nil {
		a.Say(apperrors.UserMessage(err))
		if !apperrors.IsInvalidAction(err) {
			e.logger.Error("queued command failed", "actor", a.ID, "command", label, "err", err)
		}
	}
}

func (e *Engine) live(a *actor.Actor) bool {
	_, ok := e.world.Actor(a.ID)
	return ok
}

// emit records an event in the audit log and dispatches it on the actor's bus.
func (e *Engine) emit(a *actor.Actor, t events.EventType, target actor.ID, payload interface{}) {
	ev := events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: e.now(),
		Type:      t,
		ActorID:   string(a.ID),
		TargetID:  string(target),
		Payload:   payload,
		Tick:      e.tickNumber,
	}
	e.eventLog.Append(ev)
	a.Bus.Emit(ev)
}

// save persists an actor without blocking the tick. done, if given, runs
// on the tick goroutine once the write finishes.
func (e *Engine) save(a *actor.Actor, done func(error)) {
	e.persister.Save(a, e.now(), done)
}

// QueueCommand delays fn by lag on the actor's queue and tells the actor.
func (e *Engine) QueueCommand(a *actor.Actor, label string, lag time.Duration, fn func() error) int {
	idx := a.Queue.Enqueue(label, lag, fn)
	e.emit(a, events.EventTypeCommand, "", CommandQueuedPayload{Label: label, Index: idx, Lag: lag})
	a.Say(fmt.Sprintf("Executing '%s' in %.1f seconds.", label, a.Queue.TimeTilRun(idx)))
	return idx
}

// World exposes the registry.
func (e *Engine) World() *world.Registry { return e.world }

// EventLog exposes the audit log.
func (e *Engine) EventLog() *events.EventLog { return e.eventLog }

// Config returns the engine configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Now returns the engine clock.
func (e *Engine) Now() time.Time { return e.now() }

// TickNumber returns how many ticks have run.
func (e *Engine) TickNumber() int64 { return e.tickNumber }

// Combat exposes the combat coordinator.
func (e *Engine) Combat() *CombatSystem { return e.combat }

// Progression exposes the progression tracker.
func (e *Engine) Progression() *ProgressionSystem { return e.progression }

// Abilities exposes ability use.
func (e *Engine) Abilities() *AbilitySystem { return e.abilities }

// Movement exposes room travel.
func (e *Engine) Movement() *MovementSystem { return e.movement }

// Economy exposes currency and items.
func (e *Engine) Economy() *EconomySystem { return e.economy }

// Persister exposes the async persister.
func (e *Engine) Persister() *Persister { return e.persister }

// Composer exposes message formatting for the command layer.
func (e *Engine) Composer() *notify.Composer { return e.composer }

// SaveAll snapshots every live player. Used by the backup loop and shutdown.
func (e *Engine) SaveAll() {
	for _, a := range e.world.Players() {
		e.save(a, nil)
	}
}
