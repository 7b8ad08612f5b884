package bestiary

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/encounter/internal/game/creature"
	"github.com/cory-johannsen/encounter/internal/game/ruleset"
	"github.com/cory-johannsen/encounter/internal/game/weapon"
)

// ErrUnknownTemplate is returned when a template ID is not registered.
var ErrUnknownTemplate = errors.New("unknown creature template")

// Bestiary indexes creature templates by ID and spawns attackers from them.
type Bestiary struct {
	templates map[string]*Template
	weapons   *weapon.Registry
}

// New registers every template, resolving weapon IDs against weapons.
//
// Precondition: weapons must be non-nil.
// Postcondition: Returns a Bestiary or an error on a duplicate ID or a
// template referencing an unknown weapon.
func New(templates []*Template, weapons *weapon.Registry) (*Bestiary, error) {
	b := &Bestiary{templates: make(map[string]*Template, len(templates)), weapons: weapons}
	for _, t := range templates {
		if _, exists := b.templates[t.ID]; exists {
			return nil, fmt.Errorf("bestiary: template ID %q already registered", t.ID)
		}
		for _, id := range t.Weapons {
			if _, ok := weapons.Def(id); !ok {
				return nil, fmt.Errorf("bestiary: template %q: weapon %q: %w", t.ID, id, weapon.ErrUnknownWeapon)
			}
		}
		b.templates[t.ID] = t
	}
	return b, nil
}

// Template returns the template for id and whether it was found.
func (b *Bestiary) Template(id string) (*Template, bool) {
	t, ok := b.templates[id]
	return t, ok
}

// Len returns the number of registered templates.
func (b *Bestiary) Len() int { return len(b.templates) }

// Spawn builds an Attacker from template id. An empty name falls back to the
// template name. Weapons are armed with roller in template order.
//
// Precondition: roller must be non-nil.
// Postcondition: Returns an Attacker or an error wrapping ErrUnknownTemplate,
// weapon.ErrUnknownWeapon or creature.ErrInvalidCombatant.
func (b *Bestiary) Spawn(id, name string, camp ruleset.Camp, roller creature.Roller, opts ...creature.Option) (*creature.Attacker, error) {
	t, ok := b.templates[id]
	if !ok {
		return nil, fmt.Errorf("spawning %q: %w", id, ErrUnknownTemplate)
	}
	if name == "" {
		name = t.Name
	}

	weapons := make([]creature.Weapon, 0, len(t.Weapons))
	for _, wid := range t.Weapons {
		w, err := b.weapons.Arm(wid, roller)
		if err != nil {
			return nil, fmt.Errorf("spawning %q: %w", id, err)
		}
		weapons = append(weapons, w)
	}

	a, err := creature.NewAttacker(creature.Params{
		Name:            name,
		HitPoints:       t.HitPoints,
		ArmorClass:      t.ArmorClass,
		Stats:           t.Stats,
		Weapons:         weapons,
		Resistances:     ruleset.NewDamageTypeSet(t.Resistances...),
		Immunities:      ruleset.NewDamageTypeSet(t.Immunities...),
		Vulnerabilities: ruleset.NewDamageTypeSet(t.Vulnerabilities...),
		Camp:            camp,
	}, t.Proficiency, roller, opts...)
	if err != nil {
		return nil, fmt.Errorf("spawning %q: %w", id, err)
	}
	return a, nil
}
