// Package world owns the canonical actor, room and party records. Every other
// structure stores identifiers and resolves them here.
package world

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/party"
	"github.com/MRamiBalles/tickmud/server/internal/domain/room"
)

// Registry is the process-wide arena. It is created at process start and
// mutated only from the engine's tick goroutine.
type Registry struct {
	actors  map[actor.ID]*actor.Actor
	order   []actor.ID
	rooms   map[string]*room.Room
	parties map[string]*party.Party
}

// NewRegistry creates an empty world.
func NewRegistry() *Registry {
	return &Registry{
		actors:  make(map[actor.ID]*actor.Actor),
		rooms:   make(map[string]*room.Room),
		parties: make(map[string]*party.Party),
	}
}

// AddRoom registers a room.
func (r *Registry) AddRoom(rm *room.Room) {
	r.rooms[rm.ID] = rm
}

// Room resolves a room id.
func (r *Registry) Room(id string) (*room.Room, bool) {
	rm, ok := r.rooms[id]
	return rm, ok
}

// Rooms returns every room id in sorted order.
func (r *Registry) Rooms() []string {
	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddActor places an actor in the world and in its room, if the room exists.
func (r *Registry) AddActor(a *actor.Actor) error {
	if _, exists := r.actors[a.ID]; exists {
		return fmt.Errorf("actor %s already in world", a.ID)
	}
	r.actors[a.ID] = a
	r.order = append(r.order, a.ID)
	if rm, ok := r.rooms[a.RoomID]; ok {
		rm.AddOccupant(string(a.ID))
	}
	return nil
}

// Actor resolves an actor id.
func (r *Registry) Actor(id actor.ID) (*actor.Actor, bool) {
	a, ok := r.actors[id]
	return a, ok
}

// Actors returns live actors in insertion order.
func (r *Registry) Actors() []*actor.Actor {
	out := make([]*actor.Actor, 0, len(r.order))
	for _, id := range r.order {
		if a, ok := r.actors[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Players returns live non-NPC actors in insertion order.
func (r *Registry) Players() []*actor.Actor {
	var out []*actor.Actor
	for _, a := range r.Actors() {
		if !a.IsNPC {
			out = append(out, a)
		}
	}
	return out
}

// Count returns the number of live actors.
func (r *Registry) Count() int {
	return len(r.actors)
}

// RemoveActor takes an actor out of the world. It is removed from every
// other actor's combatant set, from its party and from its room; followers
// stop following it.
func (r *Registry) RemoveActor(id actor.ID) (*actor.Actor, bool) {
	a, ok := r.actors[id]
	if !ok {
		return nil, false
	}

	for _, other := range a.Combatants() {
		if o, ok := r.actors[other]; ok {
			o.RemoveCombatant(id)
		}
		a.RemoveCombatant(other)
	}
	r.LeaveParty(a)
	if rm, ok := r.rooms[a.RoomID]; ok {
		rm.RemoveOccupant(string(id))
	}
	for _, other := range r.actors {
		if other.Following == id {
			other.Following = ""
		}
	}

	delete(r.actors, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	a.Queue.Flush()
	return a, true
}

// Move relocates an actor, keeping room occupancy in sync.
func (r *Registry) Move(a *actor.Actor, roomID string) error {
	dest, ok := r.rooms[roomID]
	if !ok {
		return fmt.Errorf("room %q does not exist", roomID)
	}
	if from, ok := r.rooms[a.RoomID]; ok {
		from.RemoveOccupant(string(a.ID))
	}
	a.RoomID = roomID
	dest.AddOccupant(string(a.ID))
	return nil
}

// InRoom returns the live actors in a room, in arrival order.
func (r *Registry) InRoom(roomID string) []*actor.Actor {
	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	var out []*actor.Actor
	for _, id := range rm.Occupants() {
		if a, ok := r.actors[actor.ID(id)]; ok {
			out = append(out, a)
		}
	}
	return out
}

// SameRoom reports whether two actors are co-located.
func (r *Registry) SameRoom(a, b *actor.Actor) bool {
	return a != nil && b != nil && a.RoomID != "" && a.RoomID == b.RoomID
}

// FindInRoom finds an actor in a room by case-insensitive name prefix.
func (r *Registry) FindInRoom(roomID, search string) (*actor.Actor, bool) {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return nil, false
	}
	for _, a := range r.InRoom(roomID) {
		if strings.HasPrefix(strings.ToLower(a.Name), search) || string(a.ID) == search {
			return a, true
		}
	}
	return nil, false
}

// FindPlayer finds a live player by exact, case-insensitive name.
func (r *Registry) FindPlayer(name string) (*actor.Actor, bool) {
	for _, a := range r.Players() {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return nil, false
}

// CreateParty starts a party led by leader.
func (r *Registry) CreateParty(id string, leader *actor.Actor) *party.Party {
	r.LeaveParty(leader)
	p := party.New(id, string(leader.ID))
	r.parties[id] = p
	leader.PartyID = id
	return p
}

// JoinParty adds an actor to an existing party.
func (r *Registry) JoinParty(partyID string, a *actor.Actor) error {
	p, ok := r.parties[partyID]
	if !ok {
		return fmt.Errorf("party %q does not exist", partyID)
	}
	r.LeaveParty(a)
	p.Add(string(a.ID))
	a.PartyID = partyID
	return nil
}

// LeaveParty removes an actor from its party, disbanding empty parties.
func (r *Registry) LeaveParty(a *actor.Actor) {
	if a.PartyID == "" {
		return
	}
	if p, ok := r.parties[a.PartyID]; ok {
		p.Remove(string(a.ID))
		if p.Size() == 0 {
			delete(r.parties, p.ID)
		}
	}
	a.PartyID = ""
}

// Party resolves a party id.
func (r *Registry) Party(id string) (*party.Party, bool) {
	p, ok := r.parties[id]
	return p, ok
}

// PartyMembers resolves the live members of an actor's party, including
// the actor. Actors without a party get nil.
func (r *Registry) PartyMembers(a *actor.Actor) []*actor.Actor {
	if a.PartyID == "" {
		return nil
	}
	p, ok := r.parties[a.PartyID]
	if !ok {
		return nil
	}
	var out []*actor.Actor
	for _, id := range p.Members() {
		if m, ok := r.actors[actor.ID(id)]; ok {
			out = append(out, m)
		}
	}
	return out
}

// ColocatedPartyMembers returns party members in the same room as a,
// excluding a itself.
func (r *Registry) ColocatedPartyMembers(a *actor.Actor) []*actor.Actor {
	var out []*actor.Actor
	for _, m := range r.PartyMembers(a) {
		if m.ID != a.ID && r.SameRoom(a, m) {
			out = append(out, m)
		}
	}
	return out
}

// Followers returns actors following a.
func (r *Registry) Followers(a *actor.Actor) []*actor.Actor {
	var out []*actor.Actor
	for _, other := range r.Actors() {
		if other.Following == a.ID {
			out = append(out, other)
		}
	}
	return out
}
