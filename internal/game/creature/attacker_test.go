package creature_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/encounter/internal/game/creature"
	"github.com/cory-johannsen/encounter/internal/game/ruleset"
)

// stubWeapon has a fixed damage and expectation.
type stubWeapon struct {
	name    string
	ability ruleset.Ability
	typ     ruleset.DamageType
	damage  int
	average float64

	lastModifier int
	lastCritical bool
	calls        int
}

func (w *stubWeapon) Name() string                   { return w.name }
func (w *stubWeapon) Ability() ruleset.Ability       { return w.ability }
func (w *stubWeapon) DamageType() ruleset.DamageType { return w.typ }
func (w *stubWeapon) AverageDamage() float64         { return w.average }
func (w *stubWeapon) DealDamage(modifier int, critical bool) int {
	w.calls++
	w.lastModifier = modifier
	w.lastCritical = critical
	return w.damage + modifier
}

type recorder struct{ records []creature.AttackRecord }

func (r *recorder) ObserveAttack(rec creature.AttackRecord) { r.records = append(r.records, rec) }

func newAttacker(t *testing.T, proficiency int, ws []creature.Weapon, faces ...int) (*creature.Attacker, *recorder) {
	t.Helper()
	rec := &recorder{}
	a, err := creature.NewAttacker(creature.Params{
		Name:       "bandit",
		HitPoints:  11,
		ArmorClass: 12,
		Stats:      map[ruleset.Ability]int{ruleset.Strength: 14, ruleset.Dexterity: 12},
		Weapons:    ws,
		Camp:       ruleset.CampRed,
	}, proficiency, roller(faces...), creature.WithObserver(rec))
	require.NoError(t, err)
	return a, rec
}

func TestAttack_HitAppliesDamage(t *testing.T) {
	club := &stubWeapon{name: "club", ability: ruleset.Strength, typ: ruleset.Piercing, damage: 5}
	// initiative, attack roll
	a, rec := newAttacker(t, 2, []creature.Weapon{club}, 10, 15)
	target := newTarget(t, 20)

	a.Attack(target, nil)

	assert.Equal(t, 13, target.HitPoints(), "5 damage + strength modifier 2")
	assert.Equal(t, 2, club.lastModifier)
	assert.False(t, club.lastCritical)
	require.Len(t, rec.records, 1)
	assert.True(t, rec.records[0].Hit)
	assert.Equal(t, 15, rec.records[0].Roll)
	assert.Equal(t, 17, rec.records[0].Total)
	assert.Equal(t, 7, rec.records[0].Applied)
}

func TestAttack_MeetingArmorClassHits(t *testing.T) {
	club := &stubWeapon{name: "club", ability: ruleset.Strength, typ: ruleset.Piercing, damage: 1}
	a, _ := newAttacker(t, 2, []creature.Weapon{club}, 10, 11)
	target := newTarget(t, 20)

	a.Attack(target, nil)
	assert.Equal(t, 17, target.HitPoints())
}

func TestAttack_MissChangesNothing(t *testing.T) {
	club := &stubWeapon{name: "club", ability: ruleset.Strength, typ: ruleset.Piercing, damage: 5}
	a, rec := newAttacker(t, 2, []creature.Weapon{club}, 10, 10)
	target := newTarget(t, 20)

	a.Attack(target, nil)

	assert.Equal(t, 20, target.HitPoints())
	assert.False(t, target.IsDead())
	assert.Equal(t, 0, club.calls)
	require.Len(t, rec.records, 1)
	assert.False(t, rec.records[0].Hit)
}

func TestAttack_NaturalTwentyIsCriticalRegardlessOfProficiency(t *testing.T) {
	club := &stubWeapon{name: "club", ability: ruleset.Strength, typ: ruleset.Piercing, damage: 3}
	a, rec := newAttacker(t, -5, []creature.Weapon{club}, 10, 20)
	target := newTarget(t, 20)

	a.Attack(target, nil)

	assert.True(t, club.lastCritical)
	require.Len(t, rec.records, 1)
	assert.True(t, rec.records[0].Critical)
	assert.Equal(t, 15, rec.records[0].Total)
}

func TestAttack_NineteenPlusBonusIsNotCritical(t *testing.T) {
	club := &stubWeapon{name: "club", ability: ruleset.Strength, typ: ruleset.Piercing, damage: 3}
	a, _ := newAttacker(t, 5, []creature.Weapon{club}, 10, 19)
	target := newTarget(t, 20)

	a.Attack(target, nil)
	assert.False(t, club.lastCritical)
}

func TestAttack_ExplicitWeaponOverridesWielded(t *testing.T) {
	club := &stubWeapon{name: "club", ability: ruleset.Strength, typ: ruleset.Piercing, damage: 3}
	torch := &stubWeapon{name: "torch", ability: ruleset.Dexterity, typ: ruleset.Radiant, damage: 2}
	a, rec := newAttacker(t, 2, []creature.Weapon{club}, 10, 15)
	target := newTarget(t, 20)

	a.Attack(target, torch)

	assert.Equal(t, 0, club.calls)
	assert.Equal(t, 1, torch.lastModifier, "dexterity 12")
	assert.Equal(t, 14, target.HitPoints(), "(2+1) doubled by vulnerability")
	assert.Equal(t, creature.Vulnerable, rec.records[0].Affinity)
	assert.Equal(t, 3, rec.records[0].Rolled)
	assert.Equal(t, 6, rec.records[0].Applied)
}

func TestAttack_AgainstImmunityHitsForNothing(t *testing.T) {
	fang := &stubWeapon{name: "fang", ability: ruleset.Strength, typ: ruleset.Poison, damage: 8}
	a, rec := newAttacker(t, 2, []creature.Weapon{fang}, 10, 18)
	target := newTarget(t, 20)

	a.Attack(target, nil)

	assert.Equal(t, 20, target.HitPoints())
	assert.True(t, rec.records[0].Hit)
	assert.Equal(t, creature.Immune, rec.records[0].Affinity)
	assert.Equal(t, 0, rec.records[0].Applied)
}

func TestAttack_NoWeaponIsNoop(t *testing.T) {
	a, rec := newAttacker(t, 2, nil, 10, 18)
	target := newTarget(t, 20)

	a.Attack(target, nil)

	assert.Equal(t, 20, target.HitPoints())
	assert.Empty(t, rec.records)
}

func TestProperty_Attack_HitIffTotalMeetsArmorClass(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		raw := rapid.IntRange(1, 20).Draw(rt, "raw")
		prof := rapid.IntRange(-3, 8).Draw(rt, "proficiency")
		club := &stubWeapon{name: "club", ability: ruleset.Strength, typ: ruleset.Piercing, damage: 4}
		a, err := creature.NewAttacker(creature.Params{
			Name: "a", HitPoints: 10, ArmorClass: 10, Stats: kenkuStats, Weapons: []creature.Weapon{club},
		}, prof, roller(1, raw))
		if err != nil {
			rt.Fatalf("NewAttacker: %v", err)
		}
		target, err := creature.NewCombatant(creature.Params{
			Name: "t", HitPoints: 50, ArmorClass: 13, Stats: kenkuStats,
		}, roller(1))
		if err != nil {
			rt.Fatalf("NewCombatant: %v", err)
		}

		a.Attack(target, nil)

		if raw+prof >= 13 {
			assert.Equal(rt, 46, target.HitPoints())
			assert.Equal(rt, raw == 20, club.lastCritical)
		} else {
			assert.Equal(rt, 50, target.HitPoints())
			assert.Equal(rt, 0, club.calls)
		}
	})
}

func roster(t *testing.T, camps ...ruleset.Camp) []*creature.Combatant {
	t.Helper()
	out := make([]*creature.Combatant, len(camps))
	for i, camp := range camps {
		c, err := creature.NewCombatant(creature.Params{
			Name: string(camp), HitPoints: 10, ArmorClass: 10, Stats: kenkuStats, Camp: camp,
		}, roller(10))
		require.NoError(t, err)
		out[i] = c
	}
	return out
}

func TestFindOpponent_NoEnemy(t *testing.T) {
	k := newKenku(t)
	fighters := roster(t, ruleset.CampRed, ruleset.CampRed)
	assert.Equal(t, creature.NoOpponent, k.FindOpponent(fighters, []bool{false, false}))
	assert.Equal(t, creature.NoOpponent, k.FindOpponent(nil, nil))
}

func TestFindOpponent_FirstEnemyWhenNobodyWounded(t *testing.T) {
	k := newKenku(t)
	fighters := roster(t, ruleset.CampRed, ruleset.CampBlue, ruleset.CampBlue)
	assert.Equal(t, 1, k.FindOpponent(fighters, []bool{false, false, false}))
}

func TestFindOpponent_PrefersFirstWoundedEnemy(t *testing.T) {
	k := newKenku(t)
	fighters := roster(t, ruleset.CampBlue, ruleset.CampRed, ruleset.CampBlue, ruleset.CampBlue)
	assert.Equal(t, 2, k.FindOpponent(fighters, []bool{false, false, true, true}))
}

func TestFindOpponent_WoundedAllyBlocksFallback(t *testing.T) {
	k := newKenku(t)
	fighters := roster(t, ruleset.CampRed, ruleset.CampBlue)
	assert.Equal(t, creature.NoOpponent, k.FindOpponent(fighters, []bool{true, false}))
}

func TestFindOpponent_BlueTargetsRed(t *testing.T) {
	a, err := creature.NewAttacker(creature.Params{
		Name: "knight", HitPoints: 20, ArmorClass: 18, Stats: kenkuStats, Camp: ruleset.CampBlue,
	}, 3, roller(10))
	require.NoError(t, err)
	fighters := roster(t, ruleset.CampBlue, ruleset.CampRed)
	assert.Equal(t, 1, a.FindOpponent(fighters, []bool{false, false}))
}

func TestProperty_FindOpponent_ResultQualifies(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(rt, "n")
		camps := make([]ruleset.Camp, n)
		wounded := make([]bool, n)
		for i := range camps {
			camps[i] = rapid.SampledFrom([]ruleset.Camp{ruleset.CampRed, ruleset.CampBlue}).Draw(rt, "camp")
			wounded[i] = rapid.Bool().Draw(rt, "wounded")
		}
		fighters := make([]*creature.Combatant, n)
		for i, camp := range camps {
			c, err := creature.NewCombatant(creature.Params{
				Name: "f", HitPoints: 10, ArmorClass: 10, Stats: kenkuStats, Camp: camp,
			}, roller(10))
			if err != nil {
				rt.Fatalf("NewCombatant: %v", err)
			}
			fighters[i] = c
		}
		a, err := creature.NewAttacker(creature.Params{
			Name: "a", HitPoints: 10, ArmorClass: 10, Stats: kenkuStats, Camp: ruleset.CampRed,
		}, 2, roller(10))
		if err != nil {
			rt.Fatalf("NewAttacker: %v", err)
		}

		anyWounded := false
		for _, w := range wounded {
			anyWounded = anyWounded || w
		}
		want := creature.NoOpponent
		for i := range fighters {
			if camps[i] == ruleset.CampBlue && (wounded[i] || !anyWounded) {
				want = i
				break
			}
		}
		assert.Equal(rt, want, a.FindOpponent(fighters, wounded))
	})
}

func TestFindBestWeapon_Kenku(t *testing.T) {
	k := newKenku(t)
	idx, err := k.FindBestWeapon(creature.Knowledge{})
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestFindBestWeapon_TieKeepsEarliest(t *testing.T) {
	ws := []creature.Weapon{
		&stubWeapon{name: "a", typ: ruleset.Slashing, average: 4},
		&stubWeapon{name: "b", typ: ruleset.Piercing, average: 6},
		&stubWeapon{name: "c", typ: ruleset.Bludgeoning, average: 6},
	}
	a, _ := newAttacker(t, 2, ws, 10)
	idx, err := a.FindBestWeapon(creature.Knowledge{})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestFindBestWeapon_KnownAffinities(t *testing.T) {
	ws := []creature.Weapon{
		&stubWeapon{name: "sword", typ: ruleset.Slashing, average: 6},
		&stubWeapon{name: "mace", typ: ruleset.Bludgeoning, average: 4},
		&stubWeapon{name: "torch", typ: ruleset.Fire, average: 2},
	}
	a, _ := newAttacker(t, 2, ws, 10)

	idx, err := a.FindBestWeapon(creature.Knowledge{Resistances: ruleset.NewDamageTypeSet(ruleset.Slashing)})
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "halved sword (3) loses to mace (4)")

	idx, err = a.FindBestWeapon(creature.Knowledge{Immunities: ruleset.NewDamageTypeSet(ruleset.Slashing)})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = a.FindBestWeapon(creature.Knowledge{Vulnerabilities: ruleset.NewDamageTypeSet(ruleset.Fire)})
	require.NoError(t, err)
	assert.Equal(t, 0, idx, "doubled torch (4) still loses to sword (6)")

	idx, err = a.FindBestWeapon(creature.Knowledge{
		Resistances:     ruleset.NewDamageTypeSet(ruleset.Slashing),
		Vulnerabilities: ruleset.NewDamageTypeSet(ruleset.Fire, ruleset.Slashing),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "resistance is checked before vulnerability; torch ties mace and loses")
}

func TestFindBestWeapon_AllImmune(t *testing.T) {
	k := newKenku(t)
	_, err := k.FindBestWeapon(creature.Knowledge{
		Immunities: ruleset.NewDamageTypeSet(ruleset.Slashing, ruleset.Piercing),
	})
	assert.True(t, errors.Is(err, creature.ErrNoViableWeapon))
}

func TestFindBestWeapon_EmptyInventory(t *testing.T) {
	a, _ := newAttacker(t, 2, nil, 10)
	_, err := a.FindBestWeapon(creature.Knowledge{})
	assert.True(t, errors.Is(err, creature.ErrNoViableWeapon))
}

func TestFindBestWeapon_ZeroExpectationNeverChosen(t *testing.T) {
	a, _ := newAttacker(t, 2, []creature.Weapon{&stubWeapon{name: "feather", typ: ruleset.Force}}, 10)
	_, err := a.FindBestWeapon(creature.Knowledge{})
	assert.True(t, errors.Is(err, creature.ErrNoViableWeapon))
}

func TestFindBestWeapon_IndependentCalls(t *testing.T) {
	k := newKenku(t)
	_, err := k.FindBestWeapon(creature.Knowledge{Immunities: ruleset.NewDamageTypeSet(ruleset.Slashing)})
	require.NoError(t, err)

	idx, err := k.FindBestWeapon(creature.Knowledge{})
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestProperty_FindBestWeapon_StrictMaximumEarliestIndex(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		avgs := rapid.SliceOfN(rapid.IntRange(1, 12), 1, 6).Draw(rt, "averages")
		ws := make([]creature.Weapon, len(avgs))
		for i, avg := range avgs {
			ws[i] = &stubWeapon{name: "w", typ: ruleset.Slashing, average: float64(avg)}
		}
		a, err := creature.NewAttacker(creature.Params{
			Name: "a", HitPoints: 5, ArmorClass: 10, Stats: kenkuStats, Weapons: ws,
		}, 2, roller(10))
		if err != nil {
			rt.Fatalf("NewAttacker: %v", err)
		}

		want := 0
		for i, avg := range avgs {
			if avg > avgs[want] {
				want = i
			}
		}
		got, err := a.FindBestWeapon(creature.Knowledge{})
		if err != nil {
			rt.Fatalf("FindBestWeapon: %v", err)
		}
		assert.Equal(rt, want, got)
	})
}

func TestAttacker_SatisfiesActor(t *testing.T) {
	var actor creature.Actor = newKenku(t)
	assert.Equal(t, "kenku", actor.Creature().Name())
}
