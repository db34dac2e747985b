// Package room defines locations, their exits and doors.
// This package is PURE and must NOT import any infrastructure packages.
package room

import "strings"

// Exit leads from a room to another room id.
type Exit struct {
	Direction string `json:"direction"`
	RoomID    string `json:"room_id"`
}

// Door sits between two rooms.
type Door struct {
	Closed bool   `json:"closed"`
	Locked bool   `json:"locked"`
	Key    string `json:"key,omitempty"` // Item template that unlocks it
}

// Room represents a physical location actors can occupy.
type Room struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Exits       []Exit           `json:"exits"`
	Doors       map[string]*Door `json:"doors"` // Keyed by the adjoining room id

	occupants []string
}

// NewRoom creates a room with no exits.
func NewRoom(id, title string) *Room {
	return &Room{
		ID:    id,
		Title: title,
		Doors: make(map[string]*Door),
	}
}

var directionAliases = map[string]string{
	"n": "north", "s": "south", "e": "east", "w": "west",
	"u": "up", "d": "down",
	"ne": "northeast", "nw": "northwest", "se": "southeast", "sw": "southwest",
}

// NormalizeDirection expands short direction aliases.
func NormalizeDirection(dir string) string {
	dir = strings.ToLower(strings.TrimSpace(dir))
	if full, ok := directionAliases[dir]; ok {
		return full
	}
	return dir
}

// IsDirection reports whether dir names a compass or vertical direction.
func IsDirection(dir string) bool {
	dir = NormalizeDirection(dir)
	for _, full := range directionAliases {
		if full == dir {
			return true
		}
	}
	return false
}

// AddExit links this room to another in the given direction.
func (r *Room) AddExit(direction, roomID string) {
	r.Exits = append(r.Exits, Exit{Direction: NormalizeDirection(direction), RoomID: roomID})
}

// FindExit returns the exit in a direction, accepting aliases and prefixes.
func (r *Room) FindExit(direction string) (Exit, bool) {
	dir := NormalizeDirection(direction)
	if dir == "" {
		return Exit{}, false
	}
	for _, e := range r.Exits {
		if e.Direction == dir {
			return e, true
		}
	}
	for _, e := range r.Exits {
		if strings.HasPrefix(e.Direction, dir) {
			return e, true
		}
	}
	return Exit{}, false
}

// SetDoor places a door between this room and roomID.
func (r *Room) SetDoor(roomID string, door *Door) {
	if r.Doors == nil {
		r.Doors = make(map[string]*Door)
	}
	r.Doors[roomID] = door
}

// DoorTo returns the door leading to roomID, or nil.
func (r *Room) DoorTo(roomID string) *Door {
	return r.Doors[roomID]
}

// AddOccupant adds an actor id. Adding twice is a no-op.
func (r *Room) AddOccupant(actorID string) {
	for _, id := range r.occupants {
		if id == actorID {
			return
		}
	}
	r.occupants = append(r.occupants, actorID)
}

// RemoveOccupant removes an actor id.
func (r *Room) RemoveOccupant(actorID string) {
	for i, id := range r.occupants {
		if id == actorID {
			r.occupants = append(r.occupants[:i], r.occupants[i+1:]...)
			return
		}
	}
}

// Occupants returns the actor ids in arrival order.
func (r *Room) Occupants() []string {
	return append([]string(nil), r.occupants...)
}
