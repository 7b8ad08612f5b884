// Package weapon provides weapon definitions, their YAML loader and the
// damage capability a creature attacks with.
package weapon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/encounter/internal/game/dice"
	"github.com/cory-johannsen/encounter/internal/game/ruleset"
)

// Def defines the static properties of a weapon loaded from YAML.
type Def struct {
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	StatToHit  ruleset.Ability    `yaml:"stat_to_hit"`
	Damage     string             `yaml:"damage"`
	DamageType ruleset.DamageType `yaml:"damage_type"`
}

// Validate checks that the Def satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid; otherwise every
// violation is reported.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !d.StatToHit.Valid() {
		errs = append(errs, fmt.Errorf("stat_to_hit %q is not a known ability", d.StatToHit))
	}
	if _, err := dice.Parse(d.Damage); err != nil {
		errs = append(errs, fmt.Errorf("damage: %w", err))
	}
	if !d.DamageType.Valid() {
		errs = append(errs, fmt.Errorf("damage_type %q is not a known damage type", d.DamageType))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q validation failed: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// LoadDefFromBytes parses and validates a single weapon definition.
//
// Postcondition: Returns a validated *Def or an error.
func LoadDefFromBytes(data []byte) (*Def, error) {
	var d Def
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing weapon YAML: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDefs reads all *.yaml files from dir, parses each as a Def,
// validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Defs or the first encountered error.
func LoadDefs(dir string) ([]*Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadDefs: cannot read directory %q: %w", dir, err)
	}

	var defs []*Def
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadDefs: cannot read file %q: %w", path, err)
		}
		d, err := LoadDefFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("LoadDefs: invalid weapon in %q: %w", path, err)
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// Roller rolls a parsed dice expression. *dice.Roller satisfies it.
type Roller interface {
	Roll(expr dice.Expression) dice.RollResult
}

// Weapon is a Def bound to the roller that produces its damage.
// A Weapon is never mutated by combat and may be shared by many creatures.
type Weapon struct {
	def    *Def
	damage dice.Expression
	roller Roller
}

// New binds d to roller.
//
// Precondition: d must have passed Validate; roller must be non-nil.
func New(d *Def, roller Roller) *Weapon {
	return &Weapon{def: d, damage: dice.MustParse(d.Damage), roller: roller}
}

// ID returns the definition ID.
func (w *Weapon) ID() string { return w.def.ID }

// Name returns the display name.
func (w *Weapon) Name() string { return w.def.Name }

// Ability returns the ability whose modifier is added to damage.
func (w *Weapon) Ability() ruleset.Ability { return w.def.StatToHit }

// DamageType returns the type of damage the weapon deals.
func (w *Weapon) DamageType() ruleset.DamageType { return w.def.DamageType }

// DealDamage rolls one hit. A critical hit doubles the number of damage dice;
// the flat bonus and modifier are added once.
//
// Postcondition: Returns >= 0.
func (w *Weapon) DealDamage(modifier int, critical bool) int {
	expr := w.damage
	if critical {
		expr = expr.WithCount(expr.Count * 2)
	}
	total := w.roller.Roll(expr).Total() + modifier
	if total < 0 {
		return 0
	}
	return total
}

// AverageDamage returns the expected value of the damage dice, flat bonus
// included, ability modifier excluded. Used to rank weapons.
func (w *Weapon) AverageDamage() float64 {
	return w.damage.Average()
}
