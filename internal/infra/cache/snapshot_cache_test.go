package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/infra/storage"
)

// memRepo counts loads so tests can tell hits from misses.
type memRepo struct {
	rows    map[actor.ID]actor.Snapshot
	loads   int
	failing bool
}

func newMemRepo() *memRepo { return &memRepo{rows: make(map[actor.ID]actor.Snapshot)} }

func (m *memRepo) SaveActor(_ context.Context, s actor.Snapshot) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.rows[s.ID] = s
	return nil
}

func (m *memRepo) LoadActor(_ context.Context, id actor.ID) (actor.Snapshot, error) {
	m.loads++
	s, ok := m.rows[id]
	if !ok {
		return actor.Snapshot{}, storage.ErrNotFound
	}
	return s, nil
}

func (m *memRepo) FindByName(_ context.Context, name string) (actor.Snapshot, error) {
	for _, s := range m.rows {
		if s.Name == name {
			return s, nil
		}
	}
	return actor.Snapshot{}, storage.ErrNotFound
}

func (m *memRepo) ListActors(context.Context) ([]actor.Snapshot, error) {
	var out []actor.Snapshot
	for _, s := range m.rows {
		out = append(out, s)
	}
	return out, nil
}

func TestSaveWritesThrough(t *testing.T) {
	repo := newMemRepo()
	c, err := NewSnapshotCache(repo, 2)
	if err != nil {
		t.Fatalf("NewSnapshotCache failed: %v", err)
	}
	ctx := context.Background()

	snap := actor.New("p1", "Ayla", time.Now).Snapshot()
	if err := c.SaveActor(ctx, snap); err != nil {
		t.Fatalf("SaveActor failed: %v", err)
	}
	if _, ok := repo.rows["p1"]; !ok {
		t.Error("Expected snapshot in repository")
	}
	if _, err := c.LoadActor(ctx, "p1"); err != nil {
		t.Fatalf("LoadActor failed: %v", err)
	}
	if repo.loads != 0 {
		t.Errorf("Expected cache hit, got %d repository loads", repo.loads)
	}
}

func TestFailedSaveEvicts(t *testing.T) {
	repo := newMemRepo()
	c, _ := NewSnapshotCache(repo, 2)
	ctx := context.Background()

	a := actor.New("p1", "Ayla", time.Now)
	_ = c.SaveActor(ctx, a.Snapshot())

	repo.failing = true
	a.Level = 9
	if err := c.SaveActor(ctx, a.Snapshot()); err == nil {
		t.Fatal("Expected save error")
	}
	if c.Len() != 0 {
		t.Errorf("Expected entry dropped after failed save, got %d cached", c.Len())
	}

	got, _ := c.LoadActor(ctx, "p1")
	if got.Level != 1 {
		t.Errorf("Expected the durable level 1, got %d", got.Level)
	}
}

func TestLeastRecentlyUsedEvicted(t *testing.T) {
	repo := newMemRepo()
	c, _ := NewSnapshotCache(repo, 2)
	ctx := context.Background()

	for _, id := range []actor.ID{"a", "b", "c"} {
		_ = c.SaveActor(ctx, actor.New(id, string(id), time.Now).Snapshot())
	}
	if c.Len() != 2 {
		t.Errorf("Expected 2 cached, got %d", c.Len())
	}
	_, _ = c.LoadActor(ctx, "a")
	if repo.loads != 1 {
		t.Errorf("Expected a miss for the evicted entry, got %d loads", repo.loads)
	}
}

func TestMissingActor(t *testing.T) {
	c, _ := NewSnapshotCache(newMemRepo(), 1)
	if _, err := c.LoadActor(context.Background(), "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOlderSnapshotKeepsNewerCached(t *testing.T) {
	repo := newMemRepo()
	c, err := NewSnapshotCache(repo, 2)
	if err != nil {
		t.Fatalf("NewSnapshotCache failed: %v", err)
	}
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	newer := actor.New("p1", "Ayla", time.Now).Snapshot()
	newer.Level = 3
	newer.SavedAt = at.Add(time.Second)
	older := newer
	older.Level = 2
	older.SavedAt = at

	_ = c.SaveActor(ctx, newer)
	_ = c.SaveActor(ctx, older)

	got, err := c.LoadActor(ctx, "p1")
	if err != nil {
		t.Fatalf("LoadActor failed: %v", err)
	}
	if got.Level != 3 {
		t.Errorf("Expected cached level 3, got %d", got.Level)
	}
}
