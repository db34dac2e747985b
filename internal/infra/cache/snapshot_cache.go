// Package cache keeps recently saved actor snapshots in memory so a
// reconnecting player does not hit the database. The repository it wraps
// stays the source of truth.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/infra/storage"
)

// SnapshotCache is a write-through LRU in front of an ActorRepository.
// It satisfies engine.Saver, so the persister can write through it.
type SnapshotCache struct {
	repo storage.ActorRepository
	lru  *lru.Cache[actor.ID, actor.Snapshot]
}

// NewSnapshotCache creates a cache holding at most size snapshots.
func NewSnapshotCache(repo storage.ActorRepository, size int) (*SnapshotCache, error) {
	c, err := lru.New[actor.ID, actor.Snapshot](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}
	return &SnapshotCache{repo: repo, lru: c}, nil
}

// SaveActor writes to the repository first and caches only on success.
// An older snapshot never replaces a newer cached one.
func (c *SnapshotCache) SaveActor(ctx context.Context, s actor.Snapshot) error {
	if err := c.repo.SaveActor(ctx, s); err != nil {
		c.lru.Remove(s.ID)
		return err
	}
	if cached, ok := c.lru.Peek(s.ID); ok && cached.SavedAt.After(s.SavedAt) {
		return nil
	}
	c.lru.Add(s.ID, s)
	return nil
}

// LoadActor serves from memory when possible.
func (c *SnapshotCache) LoadActor(ctx context.Context, id actor.ID) (actor.Snapshot, error) {
	if s, ok := c.lru.Get(id); ok {
		return s, nil
	}
	s, err := c.repo.LoadActor(ctx, id)
	if err != nil {
		return actor.Snapshot{}, err
	}
	c.lru.Add(id, s)
	return s, nil
}

// FindByName always asks the repository; names are not cache keys.
func (c *SnapshotCache) FindByName(ctx context.Context, name string) (actor.Snapshot, error) {
	s, err := c.repo.FindByName(ctx, name)
	if err != nil {
		return actor.Snapshot{}, err
	}
	if cached, ok := c.lru.Get(s.ID); ok {
		return cached, nil
	}
	c.lru.Add(s.ID, s)
	return s, nil
}

// ListActors bypasses the cache.
func (c *SnapshotCache) ListActors(ctx context.Context) ([]actor.Snapshot, error) {
	return c.repo.ListActors(ctx)
}

// Invalidate drops one entry.
func (c *SnapshotCache) Invalidate(id actor.ID) {
	c.lru.Remove(id)
}

// Len reports how many snapshots are held.
func (c *SnapshotCache) Len() int {
	return c.lru.Len()
}

var _ storage.ActorRepository = (*SnapshotCache)(nil)
