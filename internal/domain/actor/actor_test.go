package actor

import (
	"testing"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/item"
)

func TestIdleRules(t *testing.T) {
	now := time.Now()
	a := New("p1", "Rook", nil)

	if a.IsIdle(now, time.Minute) {
		t.Error("Expected actor with no commands never to be idle")
	}

	a.LastCommandAt = now.Add(-2 * time.Minute)
	if !a.IsIdle(now, time.Minute) {
		t.Error("Expected actor idle past the threshold")
	}
	if a.IsIdle(now, 0) || a.IsIdle(now, -time.Minute) {
		t.Error("Expected non-positive threshold to disable idleness")
	}
}

func TestCombatantsIgnoreSelf(t *testing.T) {
	a := New("p1", "Rook", nil)
	a.AddCombatant("p1")
	a.AddCombatant("n2")
	a.AddCombatant("n1")

	ids := a.Combatants()
	if len(ids) != 2 || ids[0] != "n1" || ids[1] != "n2" {
		t.Fatalf("Expected sorted [n1 n2], got %v", ids)
	}
}

func TestSnapshotRestore(t *testing.T) {
	a := New("p1", "Rook", nil)
	a.Level = 4
	a.Experience = 120
	a.Meta[MetaHome] = "town:square"
	a.Currencies["gold"] = 12
	a.Pool.Decrease(attribute.Health, 30)
	sword, _ := item.New("rusty_sword", "i1")
	a.Equipment[item.SlotWield] = sword

	n := 0
	restored := Restore(a.Snapshot(), nil, func() string { n++; return "new" })

	if restored.Level != 4 || restored.Experience != 120 {
		t.Errorf("Expected level 4 / 120 xp, got %d / %d", restored.Level, restored.Experience)
	}
	if restored.Home() != "town:square" {
		t.Errorf("Expected home town:square, got %q", restored.Home())
	}
	if restored.Pool.Current(attribute.Health) != 70 {
		t.Errorf("Expected health 70, got %d", restored.Pool.Current(attribute.Health))
	}
	if restored.Wielded() == nil {
		t.Error("Expected wielded sword to be restored")
	}
}
