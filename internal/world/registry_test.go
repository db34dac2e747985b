package world

import (
	"testing"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/room"
)

func setup(t *testing.T) (*Registry, *actor.Actor, *actor.Actor) {
	t.Helper()
	w := NewRegistry()
	w.AddRoom(room.NewRoom("r1", "Hall"))
	w.AddRoom(room.NewRoom("r2", "Yard"))

	a := actor.New("a", "Alda", nil)
	a.RoomID = "r1"
	b := actor.New("b", "Bram", nil)
	b.RoomID = "r1"
	if err := w.AddActor(a); err != nil {
		t.Fatal(err)
	}
	if err := w.AddActor(b); err != nil {
		t.Fatal(err)
	}
	return w, a, b
}

func TestRemoveActorCleansReferences(t *testing.T) {
	w, a, b := setup(t)
	a.AddCombatant(b.ID)
	b.AddCombatant(a.ID)
	w.CreateParty("p1", a)
	if err := w.JoinParty("p1", b); err != nil {
		t.Fatal(err)
	}
	b.Following = a.ID

	if _, ok := w.RemoveActor(a.ID); !ok {
		t.Fatal("Expected removal to succeed")
	}

	if b.IsInCombat() {
		t.Error("Expected b's combatant set to drop a")
	}
	if b.Following != "" {
		t.Error("Expected b to stop following a")
	}
	p, _ := w.Party("p1")
	if p.Has("a") || p.Leader != "b" {
		t.Errorf("Expected b to lead the party without a, got leader %q", p.Leader)
	}
	if len(w.InRoom("r1")) != 1 {
		t.Error("Expected only b left in r1")
	}
}

func TestMoveUpdatesOccupancy(t *testing.T) {
	w, a, _ := setup(t)
	if err := w.Move(a, "r2"); err != nil {
		t.Fatal(err)
	}
	if len(w.InRoom("r2")) != 1 || a.RoomID != "r2" {
		t.Error("Expected a in r2")
	}
	if err := w.Move(a, "nowhere"); err == nil {
		t.Error("Expected error for unknown room")
	}
}

func TestColocatedPartyMembers(t *testing.T) {
	w, a, b := setup(t)
	c := actor.New("c", "Cato", nil)
	c.RoomID = "r2"
	_ = w.AddActor(c)

	w.CreateParty("p1", a)
	_ = w.JoinParty("p1", b)
	_ = w.JoinParty("p1", c)

	got := w.ColocatedPartyMembers(a)
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("Expected only b co-located with a, got %v", got)
	}
}

func TestFindInRoom(t *testing.T) {
	w, _, _ := setup(t)
	if a, ok := w.FindInRoom("r1", "br"); !ok || a.ID != "b" {
		t.Error("Expected prefix br to find Bram")
	}
	if _, ok := w.FindInRoom("r2", "br"); ok {
		t.Error("Expected nobody in r2")
	}
}
