package creature

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/game/ruleset"
)

// NoOpponent is returned by FindOpponent when no enemy qualifies.
const NoOpponent = -1

// ErrNoViableWeapon is returned by FindBestWeapon when every weapon is
// useless against the target or the inventory is empty.
var ErrNoViableWeapon = errors.New("no viable weapon")

// Actor is the capability of a combatant that can take turns.
type Actor interface {
	// Creature returns the combatant acting.
	Creature() *Combatant
	Attack(target *Combatant, w Weapon)
	FindOpponent(fighters []*Combatant, wounded []bool) int
	FindBestWeapon(known Knowledge) (int, error)
}

// AttackRecord describes one resolved attack.
type AttackRecord struct {
	Attacker *Combatant
	Target   *Combatant
	Weapon   Weapon
	// Roll is the raw d20 result.
	Roll int
	// Total is Roll plus proficiency.
	Total    int
	Hit      bool
	Critical bool
	// Rolled is the damage produced by the weapon before mitigation.
	Rolled int
	// Applied is the hit points the target actually lost.
	Applied  int
	Affinity Affinity
}

// AttackObserver is notified after every attack. It cannot alter the outcome.
type AttackObserver interface {
	ObserveAttack(AttackRecord)
}

// Knowledge is what an attacker knows about its target's affinities.
// The zero value knows nothing.
type Knowledge struct {
	Resistances     ruleset.DamageTypeSet
	Immunities      ruleset.DamageTypeSet
	Vulnerabilities ruleset.DamageTypeSet
}

// Attacker is a Combatant able to act: it attacks, picks targets and picks
// weapons.
type Attacker struct {
	*Combatant
	proficiency int
	roller      Roller
	observer    AttackObserver
}

// NewAttacker builds the Combatant described by p and gives it the ability
// to act with the given proficiency bonus.
//
// Precondition: roller must be non-nil.
// Postcondition: Returns an Attacker or an error wrapping ErrInvalidCombatant.
func NewAttacker(p Params, proficiency int, roller Roller, opts ...Option) (*Attacker, error) {
	c, err := NewCombatant(p, roller, opts...)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return &Attacker{
		Combatant:   c,
		proficiency: proficiency,
		roller:      roller,
		observer:    o.observer,
	}, nil
}

// Creature returns the underlying Combatant.
func (a *Attacker) Creature() *Combatant { return a.Combatant }

// Proficiency returns the bonus added to attack rolls.
func (a *Attacker) Proficiency() int { return a.proficiency }

// Attack rolls a d20 plus proficiency against target's armor class using w,
// or the wielded weapon when w is nil. A natural 20 is a critical hit. On a
// hit the weapon's damage is applied to target; a miss changes nothing.
//
// Precondition: w is non-nil or the inventory is non-empty; otherwise the
// call does nothing.
func (a *Attacker) Attack(target *Combatant, w Weapon) {
	if w == nil {
		w = a.Wielded()
	}
	if w == nil {
		a.logger.Warn("attack skipped: no weapon")
		return
	}

	roll := a.roller.Roll(d20).First()
	rec := AttackRecord{
		Attacker: a.Combatant,
		Target:   target,
		Weapon:   w,
		Roll:     roll,
		Total:    roll + a.proficiency,
	}
	rec.Hit = rec.Total >= target.ArmorClass()
	if rec.Hit {
		rec.Critical = roll == 20
		rec.Rolled = w.DealDamage(a.Modifier(w.Ability()), rec.Critical)
		rec.Affinity = target.Affinity(w.DamageType())
		before := target.HitPoints()
		target.Damage(rec.Rolled, w.DamageType())
		rec.Applied = before - target.HitPoints()
	}

	a.logger.Debug("attack resolved",
		zap.String("target", target.Name()),
		zap.String("weapon", w.Name()),
		zap.Int("roll", rec.Roll),
		zap.Int("total", rec.Total),
		zap.Int("armor_class", target.ArmorClass()),
		zap.Bool("hit", rec.Hit),
		zap.Bool("critical", rec.Critical),
		zap.Int("damage", rec.Applied),
	)
	if a.observer != nil {
		a.observer.ObserveAttack(rec)
	}
}

// FindOpponent returns the index of the first fighter of the enemy camp that
// is wounded. When nobody on the whole roster is wounded, the first enemy is
// returned instead. fighters and wounded are read in parallel; the scan stops
// at the shorter one. Returns NoOpponent when no index qualifies.
func (a *Attacker) FindOpponent(fighters []*Combatant, wounded []bool) int {
	enemy := a.Camp().Opposite()

	anyWounded := false
	for _, w := range wounded {
		if w {
			anyWounded = true
			break
		}
	}

	n := min(len(fighters), len(wounded))
	for i := 0; i < n; i++ {
		if fighters[i].Camp() == enemy && (wounded[i] || !anyWounded) {
			return i
		}
	}
	return NoOpponent
}

// FindBestWeapon returns the index of the weapon with the highest expected
// damage against a target with the known affinities. Immune weapons are
// skipped, resisted ones count half and ones the target is vulnerable to count
// double. The earliest weapon wins ties, and a weapon must expect more than
// zero damage to be chosen.
//
// Postcondition: Returns a valid inventory index or ErrNoViableWeapon.
func (a *Attacker) FindBestWeapon(known Knowledge) (int, error) {
	best := -1
	bestDamage := 0.0

	for i, w := range a.weapons {
		expected := w.AverageDamage()
		switch t := w.DamageType(); {
		case known.Immunities.Contains(t):
			continue
		case known.Resistances.Contains(t):
			expected *= 0.5
		case known.Vulnerabilities.Contains(t):
			expected *= 2
		}
		if expected > bestDamage {
			bestDamage = expected
			best = i
		}
	}

	if best == -1 {
		return -1, ErrNoViableWeapon
	}
	return best, nil
}
