package actor

import (
	"errors"
	"testing"
	"time"

	"pgregory.net/rapid"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestQueueRunsOnlyAfterLag(t *testing.T) {
	clock := newClock()
	q := NewCommandQueue(clock.Now)
	ran := false
	q.Enqueue("kick", 500*time.Millisecond, func() error { ran = true; return nil })

	if ok, _, _ := q.Tick(); ok || ran {
		t.Fatal("Expected command not to run before its lag expired")
	}

	clock.Advance(500 * time.Millisecond)
	ok, label, err := q.Tick()
	if !ok || !ran || label != "kick" || err != nil {
		t.Fatalf("Expected kick to run, got ok=%v ran=%v label=%q err=%v", ok, ran, label, err)
	}
	if q.HasPending() {
		t.Error("Expected queue to be empty")
	}
}

func TestQueueOneCommandPerTick(t *testing.T) {
	clock := newClock()
	q := NewCommandQueue(clock.Now)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		q.Enqueue("cmd", 0, func() error { order = append(order, i); return nil })
	}

	q.Tick()
	if len(order) != 1 {
		t.Fatalf("Expected exactly one command after one tick, got %d", len(order))
	}
	q.Tick()
	q.Tick()
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("Expected enqueue order [0 1 2], got %v", order)
	}
}

func TestQueueRecoversFailures(t *testing.T) {
	q := NewCommandQueue(newClock().Now)
	q.Enqueue("fail", 0, func() error { return errors.New("no target") })
	q.Enqueue("panic", 0, func() error { panic("boom") })
	survivor := false
	q.Enqueue("ok", 0, func() error { survivor = true; return nil })

	if _, _, err := q.Tick(); err == nil {
		t.Error("Expected error from failing command")
	}
	if _, label, err := q.Tick(); err == nil || label != "panic" {
		t.Errorf("Expected panic to be converted to an error, got %v", err)
	}
	if q.Len() != 1 {
		t.Fatalf("Expected one command left, got %d", q.Len())
	}
	q.Tick()
	if !survivor {
		t.Error("Expected the remaining command to run after failures")
	}
}

func TestAppendOnResubmission(t *testing.T) {
	q := NewCommandQueue(newClock().Now)
	first := q.Enqueue("cast fireball", time.Second, nil)
	second := q.Enqueue("cast fireball", time.Second, nil)

	if first != 0 || second != 1 || q.Len() != 2 {
		t.Fatalf("Expected appended positions 0 and 1, got %d and %d", first, second)
	}
	if q.Flush() != 2 || q.HasPending() {
		t.Error("Expected flush to empty the queue")
	}
}

func TestQueueDrainsExactlyOncePerCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clock := newClock()
		q := NewCommandQueue(clock.Now)
		lags := rapid.SliceOfN(rapid.IntRange(0, 2000), 1, 20).Draw(t, "lags")

		executed := 0
		for _, ms := range lags {
			q.Enqueue("cmd", time.Duration(ms)*time.Millisecond, func() error { executed++; return nil })
		}

		ticks, iterations := 0, 0
		for q.HasPending() {
			iterations++
			before := executed
			if ran, _, _ := q.Tick(); ran {
				ticks++
			}
			if executed-before > 1 {
				t.Fatalf("more than one command ran in a single tick")
			}
			clock.Advance(100 * time.Millisecond)
			if iterations > len(lags)*100 {
				t.Fatalf("queue did not drain")
			}
		}
		if executed != len(lags) || ticks != len(lags) {
			t.Fatalf("executed %d commands over %d ticks, want %d", executed, ticks, len(lags))
		}
	})
}

func TestTimeTilRunMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clock := newClock()
		q := NewCommandQueue(clock.Now)
		lag := time.Duration(rapid.IntRange(0, 5000).Draw(t, "lag")) * time.Millisecond
		q.Enqueue("cmd", lag, nil)

		prev := q.TimeTilRun(0)
		steps := rapid.SliceOf(rapid.IntRange(0, 1000)).Draw(t, "steps")
		for _, step := range steps {
			clock.Advance(time.Duration(step) * time.Millisecond)
			cur := q.TimeTilRun(0)
			if cur < 0 {
				t.Fatalf("negative time til run: %f", cur)
			}
			if cur > prev {
				t.Fatalf("time til run increased from %f to %f", prev, cur)
			}
			prev = cur
		}
	})
}
