package notify

import (
	"fmt"
	"strings"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
)

const barWidth = 20

// Bar renders a progress bar like [#####-----].
func Bar(current, max, width int) string {
	if width <= 0 {
		width = barWidth
	}
	filled := 0
	if max > 0 {
		filled = current * width / max
	}
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// CombatPrompt renders the actor's health and each combatant's health.
// Combatants are passed already resolved.
func CombatPrompt(a *actor.Actor, combatants []*actor.Actor) string {
	var b strings.Builder
	hp, maxHP := a.Pool.Current(attribute.Health), a.Pool.Max(attribute.Health)
	fmt.Fprintf(&b, "You     %s %d/%d", Bar(hp, maxHP, barWidth), hp, maxHP)
	for _, c := range combatants {
		chp, cmax := c.Pool.Current(attribute.Health), c.Pool.Max(attribute.Health)
		pct := 0
		if cmax > 0 {
			pct = chp * 100 / cmax
		}
		fmt.Fprintf(&b, "\n%-7s %s %d%%", truncate(c.Name, 7), Bar(chp, cmax, barWidth), pct)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
