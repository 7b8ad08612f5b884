// Package creature implements the combat resolution core: the combatant data
// model, damage mitigation, attack resolution and the target and weapon
// selection heuristics.
package creature

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/game/dice"
	"github.com/cory-johannsen/encounter/internal/game/ruleset"
)

// ErrInvalidCombatant is returned when construction preconditions are violated.
var ErrInvalidCombatant = errors.New("invalid combatant")

var d20 = dice.MustParse("1d20")

// Roller rolls a parsed dice expression. *dice.Roller satisfies it.
type Roller interface {
	Roll(expr dice.Expression) dice.RollResult
}

// Weapon is the damage capability a combatant carries.
// *weapon.Weapon satisfies it.
type Weapon interface {
	Name() string
	Ability() ruleset.Ability
	DamageType() ruleset.DamageType
	// DealDamage returns the damage of one hit for the given ability modifier.
	DealDamage(modifier int, critical bool) int
	// AverageDamage returns the expected damage used to rank weapons.
	AverageDamage() float64
}

// Affinity is how a combatant responds to a damage type.
type Affinity int

const (
	Neutral Affinity = iota
	Resistant
	Immune
	Vulnerable
)

// String returns a human-readable affinity label.
func (a Affinity) String() string {
	switch a {
	case Neutral:
		return "neutral"
	case Resistant:
		return "resistant"
	case Immune:
		return "immune"
	case Vulnerable:
		return "vulnerable"
	default:
		return "unknown"
	}
}

// Params holds everything needed to build a Combatant.
type Params struct {
	Name            string
	HitPoints       int
	ArmorClass      int
	Stats           map[ruleset.Ability]int
	Weapons         []Weapon
	Resistances     ruleset.DamageTypeSet
	Immunities      ruleset.DamageTypeSet
	Vulnerabilities ruleset.DamageTypeSet
	Camp            ruleset.Camp
}

// Combatant is one participant of an encounter.
//
// Invariant: once dead is true it stays true; initiative and modifiers never
// change after construction.
type Combatant struct {
	name            string
	hitPoints       int
	maxHitPoints    int
	armorClass      int
	stats           map[ruleset.Ability]int
	modifiers       map[ruleset.Ability]int
	weapons         []Weapon
	resistances     ruleset.DamageTypeSet
	immunities      ruleset.DamageTypeSet
	vulnerabilities ruleset.DamageTypeSet
	dead            bool
	initiative      int
	camp            ruleset.Camp
	logger          *zap.Logger
}

// NewCombatant builds a Combatant from p and rolls its initiative with roller.
//
// Precondition: roller must be non-nil.
// Postcondition: Returns a living Combatant or an error wrapping
// ErrInvalidCombatant when p.Name or p.Stats is empty.
func NewCombatant(p Params, roller Roller, opts ...Option) (*Combatant, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidCombatant)
	}
	if len(p.Stats) == 0 {
		return nil, fmt.Errorf("%w: %q has no ability scores", ErrInvalidCombatant, p.Name)
	}
	o := newOptions(opts)

	c := &Combatant{
		name:            p.Name,
		hitPoints:       p.HitPoints,
		maxHitPoints:    p.HitPoints,
		armorClass:      p.ArmorClass,
		stats:           make(map[ruleset.Ability]int, len(p.Stats)),
		modifiers:       make(map[ruleset.Ability]int, len(p.Stats)),
		weapons:         append([]Weapon(nil), p.Weapons...),
		resistances:     p.Resistances.Clone(),
		immunities:      p.Immunities.Clone(),
		vulnerabilities: p.Vulnerabilities.Clone(),
		camp:            p.Camp,
		logger:          o.logger.With(zap.String("combatant", p.Name)),
	}
	for ability, score := range p.Stats {
		c.stats[ability] = score
		c.modifiers[ability] = AbilityModifier(score)
	}
	c.initiative = roller.Roll(d20).First() + c.Modifier(ruleset.Dexterity)
	return c, nil
}

// Name returns the combatant's name.
func (c *Combatant) Name() string { return c.name }

// HitPoints returns the current hit points; may be zero or negative.
func (c *Combatant) HitPoints() int { return c.hitPoints }

// MaxHitPoints returns the hit points the combatant started with.
func (c *Combatant) MaxHitPoints() int { return c.maxHitPoints }

// ArmorClass returns the defense an attack roll must meet.
func (c *Combatant) ArmorClass() int { return c.armorClass }

// Initiative returns the initiative rolled at construction.
func (c *Combatant) Initiative() int { return c.initiative }

// Camp returns the side the combatant fights for.
func (c *Combatant) Camp() ruleset.Camp { return c.camp }

// IsDead reports whether hit points have ever dropped to zero or below.
func (c *Combatant) IsDead() bool { return c.dead }

// IsWounded reports whether the combatant has lost hit points.
func (c *Combatant) IsWounded() bool { return c.hitPoints < c.maxHitPoints }

// Stat returns the ability score for a and whether it is known.
func (c *Combatant) Stat(a ruleset.Ability) (int, bool) {
	s, ok := c.stats[a]
	return s, ok
}

// Modifier returns the modifier for a, or 0 when the ability is unknown.
func (c *Combatant) Modifier(a ruleset.Ability) int { return c.modifiers[a] }

// Modifiers returns a copy of the modifiers computed at construction.
func (c *Combatant) Modifiers() map[ruleset.Ability]int {
	out := make(map[ruleset.Ability]int, len(c.modifiers))
	for a, m := range c.modifiers {
		out[a] = m
	}
	return out
}

// Weapons returns a copy of the inventory; index 0 is the wielded weapon.
func (c *Combatant) Weapons() []Weapon {
	return append([]Weapon(nil), c.weapons...)
}

// Wielded returns the weapon at index 0, or nil when the inventory is empty.
func (c *Combatant) Wielded() Weapon {
	if len(c.weapons) == 0 {
		return nil
	}
	return c.weapons[0]
}

// Affinity returns how the combatant responds to t. Immunity takes precedence
// over resistance, which takes precedence over vulnerability.
func (c *Combatant) Affinity(t ruleset.DamageType) Affinity {
	switch {
	case c.immunities.Contains(t):
		return Immune
	case c.resistances.Contains(t):
		return Resistant
	case c.vulnerabilities.Contains(t):
		return Vulnerable
	default:
		return Neutral
	}
}

// Damage applies amount damage of type t after mitigation: immune takes none,
// resistant takes half rounded toward zero, vulnerable takes double.
//
// Postcondition: hit points drop by the mitigated amount; IsDead() is true
// if hit points are <= 0.
func (c *Combatant) Damage(amount int, t ruleset.DamageType) {
	actual := amount
	switch c.Affinity(t) {
	case Immune:
		actual = 0
	case Resistant:
		actual = amount / 2
	case Vulnerable:
		actual = amount * 2
	}

	c.hitPoints -= actual
	if c.hitPoints <= 0 && !c.dead {
		c.dead = true
		c.logger.Info("combatant died", zap.Int("hit_points", c.hitPoints))
	}
}

// ChangeWeapon moves the weapon at index to the front of the inventory,
// keeping the others in order. An out of range index leaves the inventory
// untouched.
func (c *Combatant) ChangeWeapon(index int) {
	if index < 0 || index >= len(c.weapons) {
		return
	}
	w := c.weapons[index]
	copy(c.weapons[1:index+1], c.weapons[:index])
	c.weapons[0] = w
}
