package ability

import (
	"sort"
	"strings"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/combat"
)

// Registry holds skills, spells and classes.
type Registry struct {
	skills    map[string]*Definition
	spells    map[string]*Definition
	classes   map[string]*Class
	cooldowns *Cooldowns
}

// NewRegistry creates an empty registry sharing one cooldown tracker.
func NewRegistry() *Registry {
	return &Registry{
		skills:    make(map[string]*Definition),
		spells:    make(map[string]*Definition),
		classes:   make(map[string]*Class),
		cooldowns: NewCooldowns(),
	}
}

// Add registers a definition under its kind.
func (r *Registry) Add(d *Definition) {
	d.cooldowns = r.cooldowns
	if d.AbilityKind == combat.KindSpell {
		r.spells[d.AbilityID] = d
		return
	}
	r.skills[d.AbilityID] = d
}

// AddClass registers a class.
func (r *Registry) AddClass(c *Class) {
	r.classes[c.ClassID] = c
}

// Skill implements combat.Registry.
func (r *Registry) Skill(id string) (combat.Ability, bool) {
	d, ok := r.skills[id]
	if !ok {
		return nil, false
	}
	return d, true
}

// Spell implements combat.Registry.
func (r *Registry) Spell(id string) (combat.Ability, bool) {
	d, ok := r.spells[id]
	if !ok {
		return nil, false
	}
	return d, true
}

// FindSpell matches a spell by id or case-insensitive name prefix.
func (r *Registry) FindSpell(search string) (combat.Ability, bool) {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return nil, false
	}
	if d, ok := r.spells[search]; ok {
		return d, true
	}
	ids := make([]string, 0, len(r.spells))
	for id := range r.spells {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if strings.HasPrefix(strings.ToLower(r.spells[id].AbilityName), search) {
			return r.spells[id], true
		}
	}
	return nil, false
}

// Ability looks an id up in both catalogs.
func (r *Registry) Ability(id string) (combat.Ability, bool) {
	if a, ok := r.Skill(id); ok {
		return a, true
	}
	return r.Spell(id)
}

// Class resolves a class id.
func (r *Registry) Class(id string) (combat.Class, bool) {
	c, ok := r.classes[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// Forget clears an actor's cooldowns when it leaves the world.
func (r *Registry) Forget(id actor.ID) {
	r.cooldowns.Forget(id)
}
