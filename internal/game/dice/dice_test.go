package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/encounter/internal/game/dice"
	"github.com/cory-johannsen/encounter/internal/testutil"
)

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, 4, r.First())
}

func TestRollResult_First_Empty(t *testing.T) {
	assert.Equal(t, 0, dice.RollResult{}.First())
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}}
	assert.Panics(t, func() { _ = r.String() })
}

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		count int
		sides int
		mod   int
	}{
		{"d20", 1, 20, 0},
		{"1d20", 1, 20, 0},
		{"2d6", 2, 6, 0},
		{"1d8+2", 1, 8, 2},
		{"3d4-1", 3, 4, -1},
		{"2D6 + 3", 2, 6, 3},
	}
	for _, tc := range tests {
		e, err := dice.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.count, e.Count, tc.in)
		assert.Equal(t, tc.sides, e.Sides, tc.in)
		assert.Equal(t, tc.mod, e.Modifier, tc.in)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "d", "20", "0d6", "2d1", "2d6+", "xd6", "1d6*2"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "expected %q to be rejected", in)
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestExpression_Average(t *testing.T) {
	assert.InDelta(t, 3.5, dice.MustParse("1d6").Average(), 1e-9)
	assert.InDelta(t, 5.0, dice.MustParse("2d4").Average(), 1e-9)
	assert.InDelta(t, 6.5, dice.MustParse("1d8+2").Average(), 1e-9)
}

func TestExpression_WithCount(t *testing.T) {
	e := dice.MustParse("1d8+2").WithCount(2)
	assert.Equal(t, 2, e.Count)
	assert.Equal(t, 8, e.Sides)
	assert.Equal(t, 2, e.Modifier)
	assert.Equal(t, "2d8+2", e.String())
}

func TestRoll_UsesSource(t *testing.T) {
	src := testutil.NewScriptedSource(3, 5)
	r := dice.Roll(dice.MustParse("2d6+1"), src)
	assert.Equal(t, []int{3, 5}, r.Dice)
	assert.Equal(t, 9, r.Total())
}

func TestRollExpr_ParseError(t *testing.T) {
	_, err := dice.RollExpr("bogus", dice.NewCryptoSource())
	assert.Error(t, err)
}

func TestLoggedRoller_NilLogger(t *testing.T) {
	r := dice.NewLoggedRoller(testutil.NewScriptedSource(20), nil)
	res, err := r.RollExpr("1d20")
	require.NoError(t, err)
	assert.Equal(t, 20, res.First())
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(20), b.Intn(20))
	}
}

func TestSources_PanicOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestProperty_Roll_DiceInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-10, 10).Draw(rt, "mod")
		seed := rapid.Uint64().Draw(rt, "seed")

		expr := dice.MustParse(fmt.Sprintf("%dd%d%+d", count, sides, mod))
		r := dice.Roll(expr, dice.NewSeededSource(seed))

		require.Len(rt, r.Dice, count)
		sum := 0
		for _, d := range r.Dice {
			assert.GreaterOrEqual(rt, d, 1)
			assert.LessOrEqual(rt, d, sides)
			sum += d
		}
		assert.Equal(rt, sum+mod, r.Total())
		assert.True(rt, strings.Contains(r.String(), "→"))
	})
}
