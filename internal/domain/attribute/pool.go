// Package attribute tracks bounded numeric resources (health, mana, ...).
// This package is PURE and must NOT import any infrastructure packages.
package attribute

import (
	"math"
	"sort"
)

// Unlimited marks an attribute with no effective maximum.
const Unlimited = math.MaxInt

// Common attribute names.
const (
	Health = "health"
	Mana   = "mana"
	Energy = "energy"
	Move   = "move"
)

// Value is one (current, max) pair. Invariant: 0 <= Current <= Max.
type Value struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Pool maps attribute names to values.
type Pool struct {
	values map[string]*Value
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{values: make(map[string]*Value)}
}

// Define adds or replaces an attribute at full value.
// A negative max is treated as zero.
func (p *Pool) Define(name string, max int) {
	if max < 0 {
		max = 0
	}
	p.values[name] = &Value{Current: max, Max: max}
}

// Has reports whether the attribute exists.
func (p *Pool) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Get returns a copy of the attribute value.
func (p *Pool) Get(name string) (Value, bool) {
	v, ok := p.values[name]
	if !ok {
		return Value{}, false
	}
	return *v, true
}

// Current returns the current value, zero for unknown attributes.
func (p *Pool) Current(name string) int {
	if v, ok := p.values[name]; ok {
		return v.Current
	}
	return 0
}

// Max returns the maximum, zero for unknown attributes.
func (p *Pool) Max(name string) int {
	if v, ok := p.values[name]; ok {
		return v.Max
	}
	return 0
}

// IsUnlimited reports whether the attribute has no effective maximum.
func (p *Pool) IsUnlimited(name string) bool {
	return p.Max(name) == Unlimited
}

// Increase raises current by amount, clamped to max, and returns the
// amount actually applied.
func (p *Pool) Increase(name string, amount int) int {
	v, ok := p.values[name]
	if !ok || amount <= 0 {
		return 0
	}
	room := v.Max - v.Current
	if amount > room {
		amount = room
	}
	v.Current += amount
	return amount
}

// Decrease lowers current by amount, clamped to zero, and returns the
// amount actually applied.
func (p *Pool) Decrease(name string, amount int) int {
	v, ok := p.values[name]
	if !ok || amount <= 0 {
		return 0
	}
	if amount > v.Current {
		amount = v.Current
	}
	v.Current -= amount
	return amount
}

// SetCurrent sets current, clamped into [0, max].
func (p *Pool) SetCurrent(name string, current int) {
	v, ok := p.values[name]
	if !ok {
		return
	}
	v.Current = clamp(current, 0, v.Max)
}

// SetMax changes the maximum and clamps current into the new range.
func (p *Pool) SetMax(name string, max int) {
	v, ok := p.values[name]
	if !ok {
		return
	}
	if max < 0 {
		max = 0
	}
	v.Max = max
	v.Current = clamp(v.Current, 0, max)
}

// Reset restores the attribute to its maximum.
func (p *Pool) Reset(name string) {
	if v, ok := p.values[name]; ok {
		v.Current = v.Max
	}
}

// Names returns the attribute names in sorted order.
func (p *Pool) Names() []string {
	names := make([]string, 0, len(p.values))
	for name := range p.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns a copy of every attribute, for snapshots.
func (p *Pool) Values() map[string]Value {
	out := make(map[string]Value, len(p.values))
	for name, v := range p.values {
		out[name] = *v
	}
	return out
}

// Restore loads values, clamping each into range.
func (p *Pool) Restore(values map[string]Value) {
	for name, v := range values {
		max := v.Max
		if max < 0 {
			max = 0
		}
		p.values[name] = &Value{Current: clamp(v.Current, 0, max), Max: max}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
