package engine

import (
	"testing"

	"github.com/MRamiBalles/tickmud/server/internal/domain/room"
	"github.com/MRamiBalles/tickmud/server/internal/platform/config"
	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
)

func TestMoveRejections(t *testing.T) {
	h := newHarness(t, config.Default(), Deps{})
	w := h.e.World()
	vault := room.NewRoom("vault", "Vault")
	w.AddRoom(vault)
	cellar := room.NewRoom("cellar", "Cellar")
	w.AddRoom(cellar)
	arena, _ := w.Room("arena")
	arena.AddExit("east", "vault")
	arena.AddExit("down", "cellar")
	arena.AddExit("west", "nowhere")
	arena.SetDoor("vault", &room.Door{Closed: true, Locked: true})
	cellar.SetDoor("arena", &room.Door{Closed: true})

	p, _ := h.spawn(t, "p1", "Ayla", "arena", false)

	tests := []struct {
		dir  string
		want string
		code apperrors.Code
	}{
		{"up", "You can't go that way!", apperrors.CodeNoExit},
		{"east", "The door is locked.", apperrors.CodeDoorLocked},
		{"d", "The door is closed.", apperrors.CodeDoorClosed},
		{"west", "Huh?", apperrors.CodeStructural},
	}
	for _, tt := range tests {
		err := h.e.Movement().Move(p, tt.dir)
		if apperrors.CodeOf(err) != tt.code {
			t.Errorf("%s: expected code %s, got %v", tt.dir, tt.code, err)
		}
		if got := apperrors.UserMessage(err); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.dir, tt.want, got)
		}
	}
	if p.RoomID != "arena" {
		t.Errorf("Expected actor to stay put, in %s", p.RoomID)
	}

	rat, _ := h.spawn(t, "npc1", "rat", "arena", true)
	h.e.Combat().Engage(p, rat)
	if got := apperrors.UserMessage(h.e.Movement().Move(p, "north")); got != "You are in the middle of a fight!" {
		t.Errorf("Expected combat rejection, got %q", got)
	}
}

func TestMoveBringsFollowers(t *testing.T) {
	h := newHarness(t, config.Default(), Deps{})
	leader, leaderCh := h.spawn(t, "p1", "Ayla", "arena", false)
	follower, followerCh := h.spawn(t, "p2", "Bram", "arena", false)
	_, strangerCh := h.spawn(t, "p3", "Cato", "limbo:start", false)
	follower.Following = leader.ID

	if err := h.e.Movement().Move(leader, "n"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if leader.RoomID != "limbo:start" || follower.RoomID != "limbo:start" {
		t.Errorf("Expected both in limbo:start, got %s and %s", leader.RoomID, follower.RoomID)
	}
	if !leaderCh.Contains("Limbo\n[Exits: south]\nCato is here.") {
		t.Errorf("Expected room description, got %v", leaderCh.Lines())
	}
	if !followerCh.Contains("You follow Ayla.") {
		t.Errorf("Expected follow message, got %v", followerCh.Lines())
	}
	if !strangerCh.Contains("Ayla arrives.") || !strangerCh.Contains("Bram arrives.") {
		t.Errorf("Expected arrival notices, got %v", strangerCh.Lines())
	}
}
