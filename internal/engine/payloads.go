package engine

import (
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
)

// HitPayload is emitted on the attacker's bus when its damage lands.
type HitPayload struct {
	Damage combat.Damage `json:"damage"`
	Target actor.ID      `json:"target"`
	Final  int           `json:"final"`
}

// DamagedPayload is emitted on the target's bus.
type DamagedPayload struct {
	Damage combat.Damage `json:"damage"`
	Final  int           `json:"final"`
}

// HealPayload is emitted on the healer's bus.
type HealPayload struct {
	Heal   combat.Heal `json:"heal"`
	Target actor.ID    `json:"target"`
	Final  int         `json:"final"`
}

// HealedPayload is emitted on the healed actor's bus.
type HealedPayload struct {
	Heal  combat.Heal `json:"heal"`
	Final int         `json:"final"`
}

// KilledPayload is emitted on the victim's bus.
type KilledPayload struct {
	Killer actor.ID `json:"killer,omitempty"`
	RoomID string   `json:"room_id"`
}

// DeathblowPayload credits a kill. Proxied marks a credit already fanned
// out to a party, which must not be fanned out again.
type DeathblowPayload struct {
	Target      actor.ID `json:"target"`
	TargetName  string   `json:"target_name"`
	TargetLevel int      `json:"target_level"`
	TargetNPC   bool     `json:"target_npc"`
	Proxied     bool     `json:"proxied"`
}

// ExperiencePayload grants experience.
type ExperiencePayload struct {
	Amount int `json:"amount"`
}

// LevelPayload announces a level reached.
type LevelPayload struct {
	Level int `json:"level"`
}

// CurrencyPayload grants currency.
type CurrencyPayload struct {
	Currency string `json:"currency"`
	Amount   int    `json:"amount"`
}

// CommandQueuedPayload records a delayed command.
type CommandQueuedPayload struct {
	Label string        `json:"label"`
	Index int           `json:"index"`
	Lag   time.Duration `json:"lag"`
}

// MovedPayload records a room change.
type MovedPayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Direction string `json:"direction"`
}

// EvictedPayload records an idle eviction.
type EvictedPayload struct {
	IdleFor time.Duration `json:"idle_for"`
}
