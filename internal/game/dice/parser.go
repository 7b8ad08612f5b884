package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var notation = regexp.MustCompile(`^(\d*)d(\d+)(?:([+-])(\d+))?$`)

// Expression is a parsed dice notation ready to be rolled.
//
// Invariant: Count >= 1 and Sides >= 2 after a successful Parse.
type Expression struct {
	Raw      string // notation as written
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// Parse parses notation of the form "[N]dS[+M|-M]", e.g. "d20", "2d6", "1d8+2".
//
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	m := notation.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, fmt.Errorf("dice: malformed expression %q", expr)
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		count = n
	}
	if count < 1 {
		return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", expr)
	}

	modifier := 0
	if m[4] != "" {
		modifier, err = strconv.Atoi(m[4])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
		if m[3] == "-" {
			modifier = -modifier
		}
	}

	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error. Useful for package-level values.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// Average returns the expected total of the expression.
//
// Postcondition: Returns Count*(Sides+1)/2 + Modifier.
func (e Expression) Average() float64 {
	return float64(e.Count)*float64(e.Sides+1)/2 + float64(e.Modifier)
}

// WithCount returns a copy of e rolling n dice instead of e.Count.
//
// Precondition: n >= 1.
func (e Expression) WithCount(n int) Expression {
	out := e
	out.Count = n
	out.Raw = out.canonical()
	return out
}

// String returns the canonical notation of e.
func (e Expression) String() string {
	if e.Raw != "" {
		return e.Raw
	}
	return e.canonical()
}

func (e Expression) canonical() string {
	if e.Modifier == 0 {
		return fmt.Sprintf("%dd%d", e.Count, e.Sides)
	}
	return fmt.Sprintf("%dd%d%+d", e.Count, e.Sides, e.Modifier)
}
