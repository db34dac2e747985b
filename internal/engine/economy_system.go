package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/attribute"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
	"github.com/MRamiBalles/tickmud/server/internal/domain/item"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/notify"
	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
)

// PotionHeal is what a healing potion restores.
const PotionHeal = 30

// EconomySystem handles currency gains and the items actors carry.
type EconomySystem struct {
	e *Engine
}

// NewEconomySystem creates the economy handler.
func NewEconomySystem(e *Engine) *EconomySystem {
	return &EconomySystem{e: e}
}

// Register attaches the currency handler to an actor's bus.
func (es *EconomySystem) Register(a *actor.Actor) {
	a.Bus.Core(events.EventTypeCurrency, func(ev events.GameEvent) {
		if p, ok := ev.Payload.(CurrencyPayload); ok {
			es.onCurrency(a, p)
		}
	})
}

// NormalizeCurrency turns a currency name into its storage key.
func NormalizeCurrency(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// GrantCurrency emits a currency gain on the actor's bus.
func (es *EconomySystem) GrantCurrency(a *actor.Actor, currency string, amount int) {
	if amount <= 0 || a.IsNPC {
		return
	}
	es.e.emit(a, events.EventTypeCurrency, "", CurrencyPayload{Currency: NormalizeCurrency(currency), Amount: amount})
}

func (es *EconomySystem) onCurrency(a *actor.Actor, p CurrencyPayload) {
	key := NormalizeCurrency(p.Currency)
	if key == "" || p.Amount <= 0 {
		return
	}
	a.Currencies[key] += p.Amount
	notify.Deliver(es.e.composer.Currency(a, key, p.Amount))
	es.e.save(a, nil)
}

// GiveItem instantiates a template into the actor's inventory.
func (es *EconomySystem) GiveItem(a *actor.Actor, templateID string) (*item.Item, error) {
	it, ok := item.New(templateID, events.GenerateEventID())
	if !ok {
		return nil, apperrors.New(apperrors.CodeStructural, fmt.Sprintf("unknown item template %q", templateID))
	}
	a.Inventory = append(a.Inventory, it)
	es.e.logger.Info("item given", "actor", a.ID, "item", templateID, "uuid", it.UUID)
	return it, nil
}

// Equip moves an inventory item matching search into its slot.
func (es *EconomySystem) Equip(a *actor.Actor, search string) (*item.Item, error) {
	idx := findItem(a.Inventory, search)
	if idx < 0 {
		return nil, apperrors.New(apperrors.CodeInvalidTarget, "You aren't carrying that.")
	}
	it := a.Inventory[idx]
	if it.Slot == "" {
		return nil, apperrors.New(apperrors.CodeInvalidTarget, "You can't equip that.")
	}
	a.Inventory = append(a.Inventory[:idx], a.Inventory[idx+1:]...)
	if prev := a.Equipment[it.Slot]; prev != nil {
		a.Inventory = append(a.Inventory, prev)
	}
	a.Equipment[it.Slot] = it
	return it, nil
}

// Quaff drinks a potion from the inventory.
func (es *EconomySystem) Quaff(a *actor.Actor, search string) error {
	idx := findItem(a.Inventory, search)
	if idx < 0 {
		return apperrors.New(apperrors.CodeInvalidTarget, "You aren't carrying that.")
	}
	it := a.Inventory[idx]
	if it.Kind != item.KindPotion {
		return apperrors.New(apperrors.CodeInvalidTarget, "You can't drink that.")
	}
	a.Inventory = append(a.Inventory[:idx], a.Inventory[idx+1:]...)
	es.e.combat.ApplyHeal(a, combat.Heal{
		Attribute: attribute.Health,
		Amount:    PotionHeal,
		Source:    it,
		Attacker:  a.ID,
	})
	return nil
}

// Inventory lists carried and equipped items and currencies.
func (es *EconomySystem) Inventory(a *actor.Actor) string {
	var b strings.Builder
	b.WriteString("You are carrying:")
	if len(a.Inventory) == 0 {
		b.WriteString("\n  Nothing.")
	}
	for _, it := range a.Inventory {
		fmt.Fprintf(&b, "\n  %s", it.Name)
	}
	for _, slot := range []item.Slot{item.SlotWield, item.SlotBody} {
		if it := a.Equipment[slot]; it != nil {
			fmt.Fprintf(&b, "\n<%s> %s", slot, it.Name)
		}
	}
	keys := sortedKeys(a.Currencies)
	if len(keys) > 0 {
		b.WriteString("\nCurrencies:")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %s", es.e.composer.Title(k), es.e.composer.Number(a.Currencies[k]))
		}
	}
	return b.String()
}

func findItem(items []*item.Item, search string) int {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return -1
	}
	for i, it := range items {
		if it.ID == search || strings.HasPrefix(strings.ToLower(it.Name), search) {
			return i
		}
	}
	return -1
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
