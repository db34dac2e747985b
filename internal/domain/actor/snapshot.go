package actor

import (
	"sort"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/item"
)

// Snapshot is a detached copy of the persistent parts of an actor.
type Snapshot struct {
	ID         ID                         `json:"id"`
	Name       string                     `json:"name"`
	ClassID    string                     `json:"class_id"`
	RoomID     string                     `json:"room_id"`
	Level      int                        `json:"level"`
	Experience int                        `json:"experience"`
	Attributes map[string]attribute.Value `json:"attributes"`
	Meta       map[string]string          `json:"meta"`
	Currencies map[string]int             `json:"currencies"`
	Skills     []string                   `json:"skills"`
	Inventory  []string                   `json:"inventory"`
	Equipment  map[item.Slot]string       `json:"equipment"`
	SavedAt    time.Time                  `json:"saved_at"`
}

// Snapshot copies the actor's persistent state.
func (a *Actor) Snapshot() Snapshot {
	s := Snapshot{
		ID:         a.ID,
		Name:       a.Name,
		ClassID:    a.ClassID,
		RoomID:     a.RoomID,
		Level:      a.Level,
		Experience: a.Experience,
		Attributes: a.Pool.Values(),
		Meta:       make(map[string]string, len(a.Meta)),
		Currencies: make(map[string]int, len(a.Currencies)),
		Equipment:  make(map[item.Slot]string, len(a.Equipment)),
	}
	for k, v := range a.Meta {
		s.Meta[k] = v
	}
	for k, v := range a.Currencies {
		s.Currencies[k] = v
	}
	for id, ok := range a.Skills {
		if ok {
			s.Skills = append(s.Skills, id)
		}
	}
	sort.Strings(s.Skills)
	for _, it := range a.Inventory {
		s.Inventory = append(s.Inventory, it.ID)
	}
	for slot, it := range a.Equipment {
		if it != nil {
			s.Equipment[slot] = it.ID
		}
	}
	return s
}

// Restore builds a player actor from a snapshot. Unknown item templates are skipped.
func Restore(s Snapshot, now func() time.Time, newItemID func() string) *Actor {
	a := New(s.ID, s.Name, now)
	a.ClassID = s.ClassID
	a.RoomID = s.RoomID
	if s.Level > 0 {
		a.Level = s.Level
	}
	if s.Experience > 0 {
		a.Experience = s.Experience
	}
	a.Pool.Restore(s.Attributes)
	for k, v := range s.Meta {
		a.Meta[k] = v
	}
	for k, v := range s.Currencies {
		a.Currencies[k] = v
	}
	for _, id := range s.Skills {
		a.Skills[id] = true
	}
	for _, id := range s.Inventory {
		if it, ok := item.New(id, newItemID()); ok {
			a.Inventory = append(a.Inventory, it)
		}
	}
	for slot, id := range s.Equipment {
		if it, ok := item.New(id, newItemID()); ok {
			a.Equipment[slot] = it
		}
	}
	return a
}
