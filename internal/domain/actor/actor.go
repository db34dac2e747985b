// Package actor defines the entities that queue actions and take part in combat.
// Actors hold identifiers for rooms, parties and combatants; the world
// registry resolves them.
package actor

import (
	"sort"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/item"
	"github.com/MRamiBalles/tickmud/server/internal/events"
)

// ID identifies an actor in the world registry.
type ID string

// MetaHome is the meta key holding an actor's respawn room.
const MetaHome = "waypoint.home"

// Actor represents a player or non-player character.
type Actor struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	IsNPC   bool   `json:"is_npc"`
	ClassID string `json:"class_id"`

	RoomID    string `json:"room_id"`
	PartyID   string `json:"party_id,omitempty"`
	Following ID     `json:"following,omitempty"`

	Level      int `json:"level"`
	Experience int `json:"experience"`

	Pool       *attribute.Pool `json:"-"`
	Meta       map[string]string
	Currencies map[string]int
	Pacifist   bool

	Equipment map[item.Slot]*item.Item
	Inventory []*item.Item

	Queue   *CommandQueue  `json:"-"`
	Bus     *events.Bus    `json:"-"`
	Channel Channel        `json:"-"`
	Skills  map[string]bool // Learned and activated abilities

	// LastCommandAt is the time of the last player-initiated command.
	// Zero means the actor has never acted and cannot be idle.
	LastCommandAt time.Time

	// Engine bookkeeping.
	NextRoundAt time.Time
	NextRegenAt time.Time
	Evicting    bool

	combatants map[ID]struct{}
}

// New creates an actor at level 1 with full resources.
func New(id ID, name string, now func() time.Time) *Actor {
	a := &Actor{
		ID:         id,
		Name:       name,
		Level:      1,
		Pool:       attribute.NewPool(),
		Meta:       make(map[string]string),
		Currencies: make(map[string]int),
		Equipment:  make(map[item.Slot]*item.Item),
		Queue:      NewCommandQueue(now),
		Bus:        events.NewBus(),
		Channel:    NopChannel{},
		Skills:     make(map[string]bool),
		combatants: make(map[ID]struct{}),
	}
	a.Pool.Define(attribute.Health, 100)
	a.Pool.Define(attribute.Mana, 50)
	a.Pool.Define(attribute.Energy, 100)
	a.Pool.Define(attribute.Move, attribute.Unlimited)
	return a
}

// NewNPC creates a non-player actor.
func NewNPC(id ID, name string, level int, now func() time.Time) *Actor {
	a := New(id, name, now)
	a.IsNPC = true
	if level > 0 {
		a.Level = level
	}
	return a
}

// SourceID and SourceName make actors usable as damage sources.
func (a *Actor) SourceID() string   { return string(a.ID) }
func (a *Actor) SourceName() string { return a.Name }

// Say writes a line to the actor's output channel.
func (a *Actor) Say(message string) {
	if a.Channel != nil {
		a.Channel.Say(message)
	}
}

// IsInCombat reports whether the combatant set is non-empty.
func (a *Actor) IsInCombat() bool {
	return len(a.combatants) > 0
}

// HasCombatant reports whether id is engaged with this actor.
func (a *Actor) HasCombatant(id ID) bool {
	_, ok := a.combatants[id]
	return ok
}

// Combatants returns the engaged actor ids in a stable order.
func (a *Actor) Combatants() []ID {
	ids := make([]ID, 0, len(a.combatants))
	for id := range a.combatants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AddCombatant records one side of an engagement. Only the combat system
// calls this, always in pairs.
func (a *Actor) AddCombatant(id ID) {
	if id == a.ID {
		return
	}
	a.combatants[id] = struct{}{}
}

// RemoveCombatant drops one side of an engagement.
func (a *Actor) RemoveCombatant(id ID) {
	delete(a.combatants, id)
}

// Home returns the configured respawn room, if any.
func (a *Actor) Home() string {
	return a.Meta[MetaHome]
}

// Wielded returns the weapon in the wield slot.
func (a *Actor) Wielded() *item.Item {
	if w := a.Equipment[item.SlotWield]; w != nil && w.IsWeapon() {
		return w
	}
	return nil
}

// IsAlive reports whether health is above zero.
func (a *Actor) IsAlive() bool {
	return a.Pool.Current(attribute.Health) > 0
}

// IsIdle reports whether the last command is older than maxIdle at now.
// A non-positive maxIdle disables idleness entirely.
func (a *Actor) IsIdle(now time.Time, maxIdle time.Duration) bool {
	if maxIdle <= 0 || a.LastCommandAt.IsZero() {
		return false
	}
	return now.Sub(a.LastCommandAt) > maxIdle
}
