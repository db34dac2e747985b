package attribute

import (
	"testing"

	"pgregory.net/rapid"
)

func TestDamageClampsToZero(t *testing.T) {
	p := NewPool()
	p.Define(Health, 100)

	applied := p.Decrease(Health, 250)

	if applied != 100 {
		t.Errorf("Expected applied damage 100, got %d", applied)
	}
	if p.Current(Health) != 0 {
		t.Errorf("Expected health 0, got %d", p.Current(Health))
	}
}

func TestIncreaseClampsToMax(t *testing.T) {
	p := NewPool()
	p.Define(Mana, 50)
	p.Decrease(Mana, 30)

	if applied := p.Increase(Mana, 100); applied != 30 {
		t.Errorf("Expected heal of 30, got %d", applied)
	}
	if p.Current(Mana) != 50 {
		t.Errorf("Expected mana at max, got %d", p.Current(Mana))
	}
}

func TestUnlimitedMax(t *testing.T) {
	p := NewPool()
	p.Define(Move, Unlimited)
	p.Decrease(Move, 10)

	if !p.IsUnlimited(Move) {
		t.Fatal("Expected move to be unlimited")
	}
	if p.Increase(Move, 1000) != 10 {
		t.Errorf("Expected increase to stop at the sentinel")
	}
}

func TestSetMaxClampsCurrent(t *testing.T) {
	p := NewPool()
	p.Define(Health, 100)
	p.SetMax(Health, 40)

	if p.Current(Health) != 40 {
		t.Errorf("Expected current clamped to 40, got %d", p.Current(Health))
	}
}

func TestUnknownAttributeIsNoop(t *testing.T) {
	p := NewPool()
	if p.Decrease("focus", 10) != 0 || p.Increase("focus", 10) != 0 {
		t.Error("Expected unknown attribute mutations to apply nothing")
	}
}

func TestPoolStaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := NewPool()
		max := rapid.IntRange(0, 10_000).Draw(t, "max")
		p.Define(Health, max)

		ops := rapid.SliceOf(rapid.IntRange(-20_000, 20_000)).Draw(t, "ops")
		for _, op := range ops {
			switch {
			case op < 0:
				p.Decrease(Health, -op)
			case op%3 == 0:
				p.SetCurrent(Health, op-10_000)
			default:
				p.Increase(Health, op)
			}
			cur := p.Current(Health)
			if cur < 0 || cur > p.Max(Health) {
				t.Fatalf("current %d outside [0, %d]", cur, p.Max(Health))
			}
		}
	})
}
