// Package ruleset defines the value sets shared by every combat package:
// ability names, damage types and camps.
package ruleset

import "fmt"

// Ability names one of the six core ability scores.
type Ability string

const (
	Strength     Ability = "strength"
	Dexterity    Ability = "dexterity"
	Constitution Ability = "constitution"
	Intelligence Ability = "intelligence"
	Wisdom       Ability = "wisdom"
	Charisma     Ability = "charisma"
)

// Abilities lists every known Ability in sheet order.
var Abilities = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// Valid reports whether a is one of the six known abilities.
func (a Ability) Valid() bool {
	for _, known := range Abilities {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAbility converts s into an Ability.
//
// Postcondition: Returns a valid Ability or a non-nil error.
func ParseAbility(s string) (Ability, error) {
	a := Ability(s)
	if !a.Valid() {
		return "", fmt.Errorf("ruleset: unknown ability %q", s)
	}
	return a, nil
}
