// Package combat holds the value objects exchanged during combat and the
// contracts abilities implement.
package combat

import "github.com/MRamiBalles/tickmud/server/internal/domain/actor"

// Source is the proximate cause of damage or healing: an actor, a weapon,
// a spell effect.
type Source interface {
	SourceID() string
	SourceName() string
}

// Metadata flags how an exchange is reported.
type Metadata struct {
	Hidden   bool `json:"hidden"`
	Critical bool `json:"critical"`
}

// Damage lowers an attribute. Immutable once emitted.
type Damage struct {
	Attribute string   `json:"attribute"`
	Amount    int      `json:"amount"`
	Source    Source   `json:"-"`
	Attacker  actor.ID `json:"attacker,omitempty"` // Who initiated it; may differ from Source
	Metadata  Metadata `json:"metadata"`
}

// Heal raises an attribute. Immutable once emitted.
type Heal struct {
	Attribute string   `json:"attribute"`
	Amount    int      `json:"amount"`
	Source    Source   `json:"-"`
	Attacker  actor.ID `json:"attacker,omitempty"`
	Metadata  Metadata `json:"metadata"`
}

// SourceDiffers reports whether the source is something other than the
// attacker itself, e.g. a spell or weapon.
func SourceDiffers(src Source, attacker actor.ID) bool {
	return src != nil && src.SourceID() != string(attacker)
}

// SourceName returns the source's name or an empty string.
func SourceName(src Source) string {
	if src == nil {
		return ""
	}
	return src.SourceName()
}
