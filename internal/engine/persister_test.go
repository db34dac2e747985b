package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/rules"
	"github.com/MRamiBalles/tickmud/server/internal/engine/mocks"
	"github.com/MRamiBalles/tickmud/server/internal/platform/config"
)

func TestLevelUpPersistsSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	saver := mocks.NewMockSaver(ctrl)

	saver.EXPECT().
		SaveActor(gomock.Any(), gomock.Cond(func(s actor.Snapshot) bool {
			return s.ID == "p1" && s.Level == 2 && s.Experience == 0
		})).
		Return(nil).
		Times(1)

	h := newHarness(t, config.Default(), Deps{Saver: saver, Table: rules.TableFunc(func(l int) int { return 1000 * (l - 1) })})
	p, _ := h.spawn(t, "p1", "Ayla", "arena", false)

	h.e.Progression().GrantExperience(p, 1000)
	h.e.Persister().Wait()
}

func TestSaveFailureKeepsInMemoryEffect(t *testing.T) {
	ctrl := gomock.NewController(t)
	saver := mocks.NewMockSaver(ctrl)
	saver.EXPECT().SaveActor(gomock.Any(), gomock.Any()).Return(errors.New("disk full")).AnyTimes()

	h := newHarness(t, config.Default(), Deps{Saver: saver})
	p, _ := h.spawn(t, "p1", "Ayla", "arena", false)

	h.e.Economy().GrantCurrency(p, "gold", 10)
	h.e.Persister().Wait()

	if p.Currencies["gold"] != 10 {
		t.Errorf("Expected currency to stand despite the failed save, got %d", p.Currencies["gold"])
	}
	if h.metrics.SaveErrors != 1 {
		t.Errorf("Expected 1 recorded save failure, got %d", h.metrics.SaveErrors)
	}
}

func TestSaveCompletionRunsOnTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	saver := mocks.NewMockSaver(ctrl)
	saver.EXPECT().SaveActor(gomock.Any(), gomock.Any()).Return(nil)

	h := newHarness(t, config.Default(), Deps{Saver: saver})
	p, _ := h.spawn(t, "p1", "Ayla", "arena", false)

	var result error = errors.New("not called")
	h.e.save(p, func(err error) { result = err })
	h.e.Persister().Wait()
	if result == nil {
		t.Fatalf("Completion must wait for the next tick")
	}
	h.tick(1)
	if result != nil {
		t.Errorf("Expected nil completion error, got %v", result)
	}
}

func TestNPCsAreNeverSaved(t *testing.T) {
	ctrl := gomock.NewController(t)
	saver := mocks.NewMockSaver(ctrl)
	saver.EXPECT().SaveActor(gomock.Any(), gomock.Any()).Times(0)

	h := newHarness(t, config.Default(), Deps{Saver: saver})
	rat, _ := h.spawn(t, "npc1", "rat", "arena", true)
	h.e.save(rat, nil)
	h.e.Persister().Wait()
}

// gatedSaver holds its first write until release is closed and records
// every snapshot in the order it was written.
type gatedSaver struct {
	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	written []actor.Snapshot
}

func (g *gatedSaver) SaveActor(ctx context.Context, s actor.Snapshot) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		<-g.release
	}
	g.mu.Lock()
	g.written = append(g.written, s)
	g.mu.Unlock()
	return nil
}

func TestSavesForOneActorLandInOrder(t *testing.T) {
	saver := &gatedSaver{release: make(chan struct{})}
	h := newHarness(t, config.Default(), Deps{Saver: saver})
	p, _ := h.spawn(t, "p1", "Ayla", "arena", false)

	h.e.Economy().GrantCurrency(p, "gold", 10)
	h.e.Economy().GrantCurrency(p, "gold", 5)
	h.e.Economy().GrantCurrency(p, "gold", 1)
	close(saver.release)
	h.e.Persister().Wait()

	if len(saver.written) == 0 {
		t.Fatalf("Expected at least one write")
	}
	last := saver.written[len(saver.written)-1]
	if last.Currencies["gold"] != 16 {
		t.Errorf("Expected last persisted gold 16, got %d", last.Currencies["gold"])
	}
	for i := 1; i < len(saver.written); i++ {
		if saver.written[i].Currencies["gold"] < saver.written[i-1].Currencies["gold"] {
			t.Errorf("Expected writes in save order, got %d after %d",
				saver.written[i].Currencies["gold"], saver.written[i-1].Currencies["gold"])
		}
	}
	if len(saver.written) != 2 {
		t.Errorf("Expected saves queued behind the first write to coalesce into 1, got %d writes", len(saver.written))
	}
}

func TestCoalescedSavesCompleteEveryCaller(t *testing.T) {
	saver := &gatedSaver{release: make(chan struct{})}
	h := newHarness(t, config.Default(), Deps{Saver: saver})
	p, _ := h.spawn(t, "p1", "Ayla", "arena", false)

	calls := 0
	for i := 0; i < 3; i++ {
		h.e.save(p, func(err error) {
			if err == nil {
				calls++
			}
		})
	}
	close(saver.release)
	h.e.Persister().Wait()
	h.tick(1)

	if calls != 3 {
		t.Errorf("Expected 3 completions, got %d", calls)
	}
}

func TestSavesWithoutSaverNeverBlockTheTick(t *testing.T) {
	h := newHarness(t, config.Default(), Deps{})
	p, _ := h.spawn(t, "p1", "Ayla", "arena", false)

	const n = 5000
	calls := 0
	for i := 0; i < n; i++ {
		h.e.save(p, func(error) { calls++ })
	}
	if calls != 0 {
		t.Fatalf("Completion must wait for the next tick, got %d calls", calls)
	}
	h.tick(1)
	if calls != n {
		t.Errorf("Expected %d completions, got %d", n, calls)
	}
}
