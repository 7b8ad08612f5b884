package encounter

import (
	"github.com/cory-johannsen/encounter/internal/game/creature"
	"github.com/cory-johannsen/encounter/internal/game/ruleset"
)

// tally is what one fighter has done so far.
type tally struct {
	damageDealt int
	hits        int
	misses      int
	criticals   int
}

// Tracker observes attacks: it tallies each fighter's record and remembers
// which affinities each camp has seen on each target.
type Tracker struct {
	tallies  map[*creature.Combatant]*tally
	revealed map[ruleset.Camp]map[*creature.Combatant]*creature.Knowledge
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		tallies:  make(map[*creature.Combatant]*tally),
		revealed: make(map[ruleset.Camp]map[*creature.Combatant]*creature.Knowledge),
	}
}

// ObserveAttack records rec.
func (t *Tracker) ObserveAttack(rec creature.AttackRecord) {
	tl := t.tally(rec.Attacker)
	if !rec.Hit {
		tl.misses++
		return
	}
	tl.hits++
	tl.damageDealt += rec.Applied
	if rec.Critical {
		tl.criticals++
	}

	if rec.Affinity == creature.Neutral {
		return
	}
	byTarget, ok := t.revealed[rec.Attacker.Camp()]
	if !ok {
		byTarget = make(map[*creature.Combatant]*creature.Knowledge)
		t.revealed[rec.Attacker.Camp()] = byTarget
	}
	k, ok := byTarget[rec.Target]
	if !ok {
		k = &creature.Knowledge{
			Resistances:     ruleset.NewDamageTypeSet(),
			Immunities:      ruleset.NewDamageTypeSet(),
			Vulnerabilities: ruleset.NewDamageTypeSet(),
		}
		byTarget[rec.Target] = k
	}
	dt := rec.Weapon.DamageType()
	switch rec.Affinity {
	case creature.Immune:
		k.Immunities.Add(dt)
	case creature.Resistant:
		k.Resistances.Add(dt)
	case creature.Vulnerable:
		k.Vulnerabilities.Add(dt)
	}
}

// Knowledge returns what camp has learned about target. The returned sets are
// copies owned by the caller.
func (t *Tracker) Knowledge(camp ruleset.Camp, target *creature.Combatant) creature.Knowledge {
	k, ok := t.revealed[camp][target]
	if !ok {
		return creature.Knowledge{}
	}
	return creature.Knowledge{
		Resistances:     k.Resistances.Clone(),
		Immunities:      k.Immunities.Clone(),
		Vulnerabilities: k.Vulnerabilities.Clone(),
	}
}

func (t *Tracker) tally(c *creature.Combatant) *tally {
	tl, ok := t.tallies[c]
	if !ok {
		tl = &tally{}
		t.tallies[c] = tl
	}
	return tl
}
