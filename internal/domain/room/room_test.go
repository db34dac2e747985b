package room

import "testing"

func TestFindExitAliasesAndPrefixes(t *testing.T) {
	r := NewRoom("town:square", "Town Square")
	r.AddExit("north", "town:gate")
	r.AddExit("southeast", "town:docks")

	if e, ok := r.FindExit("n"); !ok || e.RoomID != "town:gate" {
		t.Errorf("Expected alias n to reach town:gate, got %+v ok=%v", e, ok)
	}
	if e, ok := r.FindExit("south"); !ok || e.RoomID != "town:docks" {
		t.Errorf("Expected prefix south to reach town:docks, got %+v ok=%v", e, ok)
	}
	if _, ok := r.FindExit("west"); ok {
		t.Error("Expected no exit to the west")
	}
}

func TestOccupants(t *testing.T) {
	r := NewRoom("r1", "Cell")
	r.AddOccupant("a")
	r.AddOccupant("b")
	r.AddOccupant("a")
	r.RemoveOccupant("a")

	occ := r.Occupants()
	if len(occ) != 1 || occ[0] != "b" {
		t.Fatalf("Expected [b], got %v", occ)
	}
}
