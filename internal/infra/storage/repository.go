// Package storage provides the SQLite persistence layer: actor snapshots
// written by the engine's persister and the durable copy of the event log.
package storage

import (
	"context"
	"errors"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/events"
)

// ErrNotFound is returned when no row matches a lookup.
var ErrNotFound = errors.New("storage: not found")

// ActorRepository stores player snapshots.
type ActorRepository interface {
	// SaveActor inserts or replaces the snapshot for s.ID.
	SaveActor(ctx context.Context, s actor.Snapshot) error

	// LoadActor returns the snapshot stored under id.
	LoadActor(ctx context.Context, id actor.ID) (actor.Snapshot, error)

	// FindByName resolves a login name to a stored snapshot, ignoring case.
	FindByName(ctx context.Context, name string) (actor.Snapshot, error)

	// ListActors returns every stored snapshot ordered by name.
	ListActors(ctx context.Context) ([]actor.Snapshot, error)
}

// EventRepository is the durable audit ledger.
type EventRepository interface {
	events.EventPersister

	// ByActor returns events emitted on the actor's bus, oldest first.
	ByActor(ctx context.Context, actorID string, limit int) ([]events.GameEvent, error)

	// ByType returns events of a type, oldest first.
	ByType(ctx context.Context, t events.EventType, limit int) ([]events.GameEvent, error)
}
