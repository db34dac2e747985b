// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

// Table gives the experience needed to advance from level-1 to level.
// Thresholds must be positive and strictly increasing in level.
type Table interface {
	Threshold(level int) int
}

// TableFunc adapts a function to Table.
type TableFunc func(level int) int

// Threshold implements Table.
func (f TableFunc) Threshold(level int) int { return f(level) }

// DefaultTable is the built-in curve: 1000, 2500, 4500, 7000, ...
var DefaultTable Table = TableFunc(func(level int) int {
	n := level - 1
	if n < 1 {
		n = 1
	}
	return 250*n*n + 750*n
})

// MobExp is the experience awarded for killing something of the given level.
func MobExp(level int) int {
	if level < 1 {
		level = 1
	}
	return 20*level*level + 80
}

// DeathPenaltyPercent is the share of current experience lost on death.
const DeathPenaltyPercent = 20

// AfterDeathPenalty returns experience remaining after the death penalty,
// floor(experience * 0.8), and the amount lost.
func AfterDeathPenalty(experience int) (remaining, lost int) {
	if experience <= 0 {
		return 0, 0
	}
	remaining = experience * (100 - DeathPenaltyPercent) / 100
	return remaining, experience - remaining
}

// MobBounty is the gold dropped by something of the given level.
func MobBounty(level int) int {
	if level < 1 {
		level = 1
	}
	return 5 * level
}
