package world

import (
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/room"
)

// Spawn describes an NPC placed at startup and brought back after it dies.
type Spawn struct {
	ID       actor.ID
	Name     string
	Level    int
	Health   int
	RoomID   string
	Pacifist bool
}

// NewActor builds the NPC. Every call yields a fresh actor with full health.
func (s Spawn) NewActor(now func() time.Time) *actor.Actor {
	a := actor.NewNPC(s.ID, s.Name, s.Level, now)
	if s.Health > 0 {
		a.Pool.Define(attribute.Health, s.Health)
	}
	a.RoomID = s.RoomID
	a.Pacifist = s.Pacifist
	return a
}

// DefaultSpawns populates the starter area built by SeedLimbo.
var DefaultSpawns = []Spawn{
	{ID: "npc:guide", Name: "guide", Level: 10, Health: 500, RoomID: "limbo:start", Pacifist: true},
	{ID: "npc:rat", Name: "rat", Level: 1, Health: 30, RoomID: "limbo:training"},
	{ID: "npc:dummy", Name: "dummy", Level: 2, Health: 80, RoomID: "limbo:training"},
	{ID: "npc:goblin", Name: "goblin", Level: 3, Health: 120, RoomID: "limbo:arena"},
}

// SeedLimbo adds the starter rooms: a hub, a training yard to the south,
// an arena past a closed gate, and a locked vault.
func SeedLimbo(r *Registry) {
	start := room.NewRoom("limbo:start", "The Void")
	start.Description = "A featureless expanse. Paths lead south and east."
	training := room.NewRoom("limbo:training", "Training Grounds")
	training.Description = "Straw dummies line a trampled yard."
	arena := room.NewRoom("limbo:arena", "The Arena")
	arena.Description = "Sand, blood and a cheering crowd you cannot see."
	vault := room.NewRoom("limbo:vault", "The Vault")

	start.AddExit("south", training.ID)
	start.AddExit("east", vault.ID)
	training.AddExit("north", start.ID)
	training.AddExit("down", arena.ID)
	arena.AddExit("up", training.ID)
	vault.AddExit("west", start.ID)

	gate := &room.Door{Closed: true}
	training.SetDoor(arena.ID, gate)
	arena.SetDoor(training.ID, gate)
	start.SetDoor(vault.ID, &room.Door{Closed: true, Locked: true, Key: "vault_key"})

	for _, rm := range []*room.Room{start, training, arena, vault} {
		r.AddRoom(rm)
	}
}
