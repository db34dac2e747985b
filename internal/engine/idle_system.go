package engine

import (
	"fmt"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/notify"
)

// IdleSystem evicts players that have not issued a command for too long.
type IdleSystem struct {
	e       *Engine
	maxIdle time.Duration
}

// NewIdleSystem creates the reaper. A non-positive maxIdle disables it.
func NewIdleSystem(e *Engine, maxIdle time.Duration) *IdleSystem {
	return &IdleSystem{e: e, maxIdle: maxIdle}
}

// Check evicts the actor if it is idle and not fighting. The actor is
// saved first; the departure and removal happen once the save completes.
func (is *IdleSystem) Check(a *actor.Actor) {
	if a.IsNPC || a.Evicting || a.IsInCombat() {
		return
	}
	now := is.e.now()
	if !a.IsIdle(now, is.maxIdle) {
		return
	}
	a.Evicting = true
	idleFor := now.Sub(a.LastCommandAt)

	is.e.save(a, func(err error) {
		if err != nil {
			is.e.logger.Warn("idle save failed, evicting anyway", "actor", a.ID, "err", err)
		}
		is.evict(a, idleFor)
	})
}

func (is *IdleSystem) evict(a *actor.Actor, idleFor time.Duration) {
	if !is.e.live(a) {
		return
	}
	// Combat may have started while the save was in flight.
	if a.IsInCombat() {
		a.Evicting = false
		return
	}
	a.Say(fmt.Sprintf("You were kicked for being idle for more than %d minutes!", int(is.maxIdle/time.Minute)))
	notify.Deliver(is.e.composer.Departure(a, is.e.world.InRoom(a.RoomID)))
	is.e.emit(a, events.EventTypeEvicted, "", EvictedPayload{IdleFor: idleFor})
	is.e.metrics.RecordEviction()
	is.e.logger.Info("actor evicted for idling", "actor", a.ID, "idle_for", idleFor)
	is.e.RemoveActor(a)
}
