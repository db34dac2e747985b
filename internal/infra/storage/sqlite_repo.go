package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/platform/metrics"
)

// AppendTimeout bounds a single audit event write.
const AppendTimeout = 2 * time.Second

// SQLiteActorRepository implements ActorRepository for SQLite.
type SQLiteActorRepository struct {
	db *sql.DB
}

func NewSQLiteActorRepository(db *sql.DB) *SQLiteActorRepository {
	return &SQLiteActorRepository{db: db}
}

// savedAtLayout is fixed width so saved_at compares correctly as text.
const savedAtLayout = "2006-01-02T15:04:05.000000000Z"

// SaveActor upserts the snapshot. A snapshot older than the stored one is
// ignored.
func (r *SQLiteActorRepository) SaveActor(ctx context.Context, s actor.Snapshot) error {
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now()
	}
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO actors (actor_id, name, class_id, level, snapshot, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(actor_id) DO UPDATE SET
			name=excluded.name,
			class_id=excluded.class_id,
			level=excluded.level,
			snapshot=excluded.snapshot,
			saved_at=excluded.saved_at
		WHERE excluded.saved_at >= actors.saved_at
	`
	_, err = r.db.ExecContext(ctx, query,
		string(s.ID), s.Name, s.ClassID, s.Level, string(body), s.SavedAt.UTC().Format(savedAtLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save actor %s: %w", s.ID, err)
	}
	return nil
}

func (r *SQLiteActorRepository) LoadActor(ctx context.Context, id actor.ID) (actor.Snapshot, error) {
	return r.getOne(ctx, `SELECT snapshot FROM actors WHERE actor_id = ?`, string(id))
}

func (r *SQLiteActorRepository) FindByName(ctx context.Context, name string) (actor.Snapshot, error) {
	return r.getOne(ctx, `SELECT snapshot FROM actors WHERE name = ? COLLATE NOCASE`, name)
}

func (r *SQLiteActorRepository) ListActors(ctx context.Context) ([]actor.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT snapshot FROM actors ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []actor.Snapshot
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var s actor.Snapshot
		if err := json.Unmarshal([]byte(body), &s); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

func (r *SQLiteActorRepository) getOne(ctx context.Context, query string, args ...interface{}) (actor.Snapshot, error) {
	var body string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return actor.Snapshot{}, ErrNotFound
		}
		return actor.Snapshot{}, err
	}
	var s actor.Snapshot
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		return actor.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}

// ---------------------------------------------------------
// SQLiteEventRepository
// ---------------------------------------------------------

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db      *sql.DB
	metrics *metrics.Collector
}

// NewSQLiteEventRepository creates the ledger. m may be nil.
func NewSQLiteEventRepository(db *sql.DB, m *metrics.Collector) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db, metrics: m}
}

// Append writes one event. It is called from the event log's writer goroutine.
func (r *SQLiteEventRepository) Append(event events.GameEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), AppendTimeout)
	defer cancel()
	err := r.append(ctx, event)
	if r.metrics != nil {
		r.metrics.RecordEventWrite(err)
	}
	return err
}

func (r *SQLiteEventRepository) append(ctx context.Context, event events.GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, timestamp, event_type, actor_id, target_id, payload, tick)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, string(event.Type), event.ActorID,
		event.TargetID, string(payloadBytes), event.Tick,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]events.GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.GameEvent
	for rows.Next() {
		var e events.GameEvent
		var eventType, payloadStr string
		err := rows.Scan(
			&e.ID, &e.Timestamp, &eventType, &e.ActorID,
			&e.TargetID, &payloadStr, &e.Tick,
		)
		if err != nil {
			return nil, err
		}
		e.Type = events.EventType(eventType)
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteEventRepository) ByActor(ctx context.Context, actorID string, limit int) ([]events.GameEvent, error) {
	query := `SELECT id, timestamp, event_type, actor_id, target_id, payload, tick FROM events WHERE actor_id = ? ORDER BY tick ASC, timestamp ASC LIMIT ?`
	return r.getMany(ctx, query, actorID, normalizeLimit(limit))
}

func (r *SQLiteEventRepository) ByType(ctx context.Context, t events.EventType, limit int) ([]events.GameEvent, error) {
	query := `SELECT id, timestamp, event_type, actor_id, target_id, payload, tick FROM events WHERE event_type = ? ORDER BY tick ASC, timestamp ASC LIMIT ?`
	return r.getMany(ctx, query, string(t), normalizeLimit(limit))
}

// normalizeLimit maps a non-positive limit to SQLite's "no limit".
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
