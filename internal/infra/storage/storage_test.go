package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/platform/metrics"
)

func openTestDB(t *testing.T) *SQLiteActorRepository {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteActorRepository(db)
}

func TestActorRepositoryRoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	now := func() time.Time { return time.Unix(1000, 0) }

	a := actor.New("p1", "Ayla", now)
	a.ClassID = "mage"
	a.Level = 4
	a.Experience = 120
	a.Currencies["gold"] = 55
	a.Skills["fireball"] = true

	if err := repo.SaveActor(ctx, a.Snapshot()); err != nil {
		t.Fatalf("SaveActor failed: %v", err)
	}

	got, err := repo.LoadActor(ctx, "p1")
	if err != nil {
		t.Fatalf("LoadActor failed: %v", err)
	}
	if got.Level != 4 || got.Experience != 120 {
		t.Errorf("Expected level 4 with 120 exp, got %d/%d", got.Level, got.Experience)
	}
	if got.Currencies["gold"] != 55 {
		t.Errorf("Expected 55 gold, got %d", got.Currencies["gold"])
	}
	if len(got.Skills) != 1 || got.Skills[0] != "fireball" {
		t.Errorf("Expected [fireball], got %v", got.Skills)
	}
	if got.SavedAt.IsZero() {
		t.Error("Expected SavedAt to be stamped")
	}
}

func TestActorRepositoryUpsert(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	a := actor.New("p1", "Ayla", time.Now)
	_ = repo.SaveActor(ctx, a.Snapshot())
	a.Level = 2
	if err := repo.SaveActor(ctx, a.Snapshot()); err != nil {
		t.Fatalf("second SaveActor failed: %v", err)
	}

	all, err := repo.ListActors(ctx)
	if err != nil {
		t.Fatalf("ListActors failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 row after upsert, got %d", len(all))
	}
	if all[0].Level != 2 {
		t.Errorf("Expected level 2, got %d", all[0].Level)
	}
}

func TestStaleSnapshotDoesNotOverwrite(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	newer := actor.New("p1", "Ayla", time.Now).Snapshot()
	newer.Level = 3
	newer.SavedAt = at.Add(time.Second)
	if err := repo.SaveActor(ctx, newer); err != nil {
		t.Fatalf("SaveActor(newer) failed: %v", err)
	}

	older := newer
	older.Level = 2
	older.SavedAt = at
	if err := repo.SaveActor(ctx, older); err != nil {
		t.Fatalf("SaveActor(older) failed: %v", err)
	}

	got, err := repo.LoadActor(ctx, "p1")
	if err != nil {
		t.Fatalf("LoadActor failed: %v", err)
	}
	if got.Level != 3 {
		t.Errorf("Expected stored level 3, got %d", got.Level)
	}
}

func TestFindByNameIgnoresCase(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	_ = repo.SaveActor(ctx, actor.New("p1", "Ayla", time.Now).Snapshot())

	got, err := repo.FindByName(ctx, "aYLA")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if got.ID != "p1" {
		t.Errorf("Expected p1, got %s", got.ID)
	}

	if _, err := repo.FindByName(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestEventRepositoryAppendAndQuery(t *testing.T) {
	db, err := InitSQLite(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	defer db.Close()

	m := metrics.NewCollector()
	repo := NewSQLiteEventRepository(db, m)
	base := time.Unix(2000, 0)

	for i, typ := range []events.EventType{events.EventTypeHit, events.EventTypeLevel, events.EventTypeHit} {
		err := repo.Append(events.GameEvent{
			ID:        events.GenerateEventID(),
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Type:      typ,
			ActorID:   "p1",
			Payload:   map[string]interface{}{"amount": i},
			Tick:      int64(i),
		})
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	_ = repo.Append(events.GameEvent{ID: events.GenerateEventID(), Timestamp: base, Type: events.EventTypeHit, ActorID: "p2"})

	mine, err := repo.ByActor(context.Background(), "p1", 0)
	if err != nil {
		t.Fatalf("ByActor failed: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("Expected 3 events for p1, got %d", len(mine))
	}
	if mine[1].Type != events.EventTypeLevel {
		t.Errorf("Expected events in tick order, got %s second", mine[1].Type)
	}

	hits, _ := repo.ByType(context.Background(), events.EventTypeHit, 2)
	if len(hits) != 2 {
		t.Errorf("Expected limit of 2 hits, got %d", len(hits))
	}
	if m.EventsWritten != 4 || m.EventErrors != 0 {
		t.Errorf("Expected 4 writes and no errors, got %d/%d", m.EventsWritten, m.EventErrors)
	}
}

func TestEventRepositoryDuplicateIDFails(t *testing.T) {
	db, err := InitSQLite(filepath.Join(t.TempDir(), "dup.db"))
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	defer db.Close()

	m := metrics.NewCollector()
	repo := NewSQLiteEventRepository(db, m)
	ev := events.GameEvent{ID: "same", Timestamp: time.Now(), Type: events.EventTypeHit, ActorID: "p1"}
	_ = repo.Append(ev)
	if err := repo.Append(ev); err == nil {
		t.Error("Expected duplicate id to fail")
	}
	if m.EventErrors != 1 {
		t.Errorf("Expected 1 event error, got %d", m.EventErrors)
	}
}
