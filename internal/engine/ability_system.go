package engine

import (
	"strings"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
)

var (
	errClassRestricted = apperrors.New(apperrors.CodeClassRestricted, "Your class cannot use that ability.")
	errNotLearned      = apperrors.New(apperrors.CodeNotLearned, "You have not yet learned that ability.")
)

// AbilitySystem checks class and target rules before executing abilities.
type AbilitySystem struct {
	e       *Engine
	catalog AbilityCatalog
}

// NewAbilitySystem creates the ability dispatcher.
func NewAbilitySystem(e *Engine, catalog AbilityCatalog) *AbilitySystem {
	return &AbilitySystem{e: e, catalog: catalog}
}

// Catalog returns the ability registry, which may be nil.
func (as *AbilitySystem) Catalog() AbilityCatalog { return as.catalog }

// Use executes ab for the caster against the target named in args.
// Every returned error is an invalid action except panics recovered by
// the command queue.
func (as *AbilitySystem) Use(caster *actor.Actor, ab combat.Ability, args string) error {
	if as.catalog != nil && caster.ClassID != "" {
		if class, ok := as.catalog.Class(caster.ClassID); ok {
			if !class.HasAbility(ab.ID()) {
				return errClassRestricted
			}
			if !class.CanUseAbility(caster, ab.ID()) {
				return errNotLearned
			}
		}
	}

	target, err := as.resolveTarget(caster, ab, strings.TrimSpace(args))
	if err != nil {
		return err
	}

	return ab.Execute(combat.Use{
		Args:    args,
		Caster:  caster,
		Target:  target,
		Effects: as.e.combat,
		Now:     as.e.now(),
	})
}

func (as *AbilitySystem) resolveTarget(caster *actor.Actor, ab combat.Ability, args string) (*actor.Actor, error) {
	if !ab.RequiresTarget() {
		return nil, nil
	}
	if args == "" {
		if ab.TargetSelf() {
			return caster, nil
		}
		if current := as.e.combat.resolve(caster); len(current) > 0 {
			return current[0], nil
		}
		return nil, combat.NoTargetError(ab.Name())
	}
	if ab.TargetSelf() {
		target, ok := as.e.world.FindInRoom(caster.RoomID, args)
		if !ok {
			return nil, combat.ErrNotHere
		}
		return target, nil
	}
	return as.e.combat.FindCombatant(caster, args)
}
