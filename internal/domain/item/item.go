// Package item defines the in-game items actors carry and wield.
// This package is PURE and must NOT import any infrastructure packages.
package item

import "time"

// Kind represents the kind of item.
type Kind string

const (
	KindWeapon  Kind = "WEAPON"
	KindArmor   Kind = "ARMOR"
	KindPotion  Kind = "POTION"
	KindTrinket Kind = "TRINKET"
)

// Slot is an equipment slot.
type Slot string

const (
	SlotWield Slot = "wield"
	SlotBody  Slot = "body"
)

// Definition provides metadata about an item template.
type Definition struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Kind        Kind          `json:"kind"`
	Slot        Slot          `json:"slot,omitempty"`
	MinDamage   int           `json:"min_damage,omitempty"`
	MaxDamage   int           `json:"max_damage,omitempty"`
	Speed       time.Duration `json:"speed,omitempty"` // Time between swings
	Armor       int           `json:"armor,omitempty"`
	Value       int           `json:"value"`
}

// Item is one instance of a definition.
type Item struct {
	UUID string `json:"uuid"`
	Definition
}

// SourceID and SourceName make items usable as the proximate source of damage.
func (i *Item) SourceID() string   { return i.UUID }
func (i *Item) SourceName() string { return i.Name }

// IsWeapon reports whether the item can be wielded for damage.
func (i *Item) IsWeapon() bool {
	return i.Kind == KindWeapon && i.MaxDamage > 0
}

// Catalog contains every known item template.
var Catalog = map[string]Definition{
	"rusty_sword": {
		ID:          "rusty_sword",
		Name:        "rusty sword",
		Description: "Pitted and dull, but still sharper than a fist.",
		Kind:        KindWeapon,
		Slot:        SlotWield,
		MinDamage:   4,
		MaxDamage:   9,
		Speed:       2 * time.Second,
		Value:       10,
	},
	"oak_staff": {
		ID:          "oak_staff",
		Name:        "oak staff",
		Description: "A walking staff worn smooth by many hands.",
		Kind:        KindWeapon,
		Slot:        SlotWield,
		MinDamage:   2,
		MaxDamage:   6,
		Speed:       1500 * time.Millisecond,
		Value:       6,
	},
	"leather_vest": {
		ID:          "leather_vest",
		Name:        "leather vest",
		Description: "Stiff boiled leather.",
		Kind:        KindArmor,
		Slot:        SlotBody,
		Armor:       2,
		Value:       8,
	},
	"healing_potion": {
		ID:          "healing_potion",
		Name:        "healing potion",
		Description: "A small vial of red liquid.",
		Kind:        KindPotion,
		Value:       15,
	},
}

// GetItem returns the definition for a template id.
func GetItem(id string) (Definition, bool) {
	def, ok := Catalog[id]
	return def, ok
}

// New instantiates a template with the given instance id.
func New(id, uuid string) (*Item, bool) {
	def, ok := GetItem(id)
	if !ok {
		return nil, false
	}
	return &Item{UUID: uuid, Definition: def}, true
}
