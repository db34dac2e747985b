package rules

import "math/rand"

// UnarmedDamage is the damage range without a weapon.
const (
	UnarmedMin = 1
	UnarmedMax = 4
)

// CriticalChance is the percent chance a swing is critical.
const CriticalChance = 5

// RollDamage picks a swing amount in [min, max] plus a level bonus, and
// doubles it on a critical.
func RollDamage(rng *rand.Rand, level, min, max int) (amount int, critical bool) {
	if max < min {
		max = min
	}
	amount = min
	if max > min {
		amount += rng.Intn(max - min + 1)
	}
	amount += level / 2
	if rng.Intn(100) < CriticalChance {
		return amount * 2, true
	}
	return amount, false
}

// RegenAmount is what one regeneration pulse restores for an attribute.
func RegenAmount(max int) int {
	amount := max / 10
	if amount < 1 {
		amount = 1
	}
	return amount
}
