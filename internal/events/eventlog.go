// Package events provides the typed per-actor event bus and the append-only
// audit log every emitted event is recorded in.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeHit        EventType = "HIT"
	EventTypeDamaged    EventType = "DAMAGED"
	EventTypeHeal       EventType = "HEAL"
	EventTypeHealed     EventType = "HEALED"
	EventTypeKilled     EventType = "KILLED"
	EventTypeDeathblow  EventType = "DEATHBLOW"
	EventTypeExperience EventType = "EXPERIENCE"
	EventTypeLevel      EventType = "LEVEL"
	EventTypeCurrency   EventType = "CURRENCY"
	EventTypeCommand    EventType = "COMMAND_QUEUED"
	EventTypeMoved      EventType = "MOVED"
	EventTypeEvicted    EventType = "EVICTED"
	EventTypeTimeTick   EventType = "TIME_TICK"
)

// GameEvent represents an immutable record of something that happened.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`  // Whose bus the event was emitted on
	TargetID  string      `json:"target_id"` // Who was affected (optional)
	Payload   interface{} `json:"payload"`   // Event-specific data
	Tick      int64       `json:"tick"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// DefaultCapacity bounds the in-memory log; older events are dropped.
const DefaultCapacity = 10_000

// EventLog is the in-memory append-only log of game events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	dropped   int
	capacity  int
	persister EventPersister
	onError   func(GameEvent, error)
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0, 128),
		capacity:  DefaultCapacity,
		persister: persister,
	}
}

// SetCapacity changes how many events are retained in memory.
func (el *EventLog) SetCapacity(n int) {
	el.mu.Lock()
	defer el.mu.Unlock()
	if n > 0 {
		el.capacity = n
		el.trimLocked()
	}
}

// OnPersistError registers a callback for failed asynchronous writes.
func (el *EventLog) OnPersistError(fn func(GameEvent, error)) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.onError = fn
}

// Append adds a new event to the log. Events are immutable once appended.
// Persistence is fire-and-forget; failures go to the OnPersistError callback.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	el.events = append(el.events, event)
	el.trimLocked()

	if el.persister != nil {
		onError := el.onError
		go func(e GameEvent) {
			if err := el.persister.Append(e); err != nil && onError != nil {
				onError(e, err)
			}
		}(event)
	}
}

func (el *EventLog) trimLocked() {
	if over := len(el.events) - el.capacity; over > 0 {
		el.events = append(el.events[:0:0], el.events[over:]...)
		el.dropped += over
	}
}

// GetByActor returns all retained events emitted for a specific actor.
func (el *EventLog) GetByActor(actorID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result
}

// Since returns events with a sequence number >= seq, and the next sequence
// number to ask for. Sequence numbers survive trimming.
func (el *EventLog) Since(seq int) ([]GameEvent, int) {
	el.mu.RLock()
	defer el.mu.RUnlock()

	start := seq - el.dropped
	if start < 0 {
		start = 0
	}
	next := el.dropped + len(el.events)
	if start >= len(el.events) {
		return nil, next
	}
	out := make([]GameEvent, len(el.events)-start)
	copy(out, el.events[start:])
	return out, next
}

// Replay returns a copy of the retained history.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
