package ruleset

import (
	"fmt"
	"sort"
)

// DamageType is the category of damage an attack deals.
type DamageType string

const (
	Acid        DamageType = "acid"
	Bludgeoning DamageType = "bludgeoning"
	Cold        DamageType = "cold"
	Fire        DamageType = "fire"
	Force       DamageType = "force"
	Lightning   DamageType = "lightning"
	Necrotic    DamageType = "necrotic"
	Piercing    DamageType = "piercing"
	Poison      DamageType = "poison"
	Psychic     DamageType = "psychic"
	Radiant     DamageType = "radiant"
	Slashing    DamageType = "slashing"
	Thunder     DamageType = "thunder"
)

var damageTypes = map[DamageType]bool{
	Acid: true, Bludgeoning: true, Cold: true, Fire: true, Force: true,
	Lightning: true, Necrotic: true, Piercing: true, Poison: true,
	Psychic: true, Radiant: true, Slashing: true, Thunder: true,
}

// Valid reports whether t is a known damage type.
func (t DamageType) Valid() bool { return damageTypes[t] }

// ParseDamageType converts s into a DamageType.
//
// Postcondition: Returns a valid DamageType or a non-nil error.
func ParseDamageType(s string) (DamageType, error) {
	t := DamageType(s)
	if !t.Valid() {
		return "", fmt.Errorf("ruleset: unknown damage type %q", s)
	}
	return t, nil
}

// DamageTypeSet is an unordered set of damage types.
// The nil set is valid and contains nothing.
type DamageTypeSet map[DamageType]struct{}

// NewDamageTypeSet returns a set holding every type in types.
//
// Postcondition: Len() == number of distinct values in types.
func NewDamageTypeSet(types ...DamageType) DamageTypeSet {
	s := make(DamageTypeSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// Contains reports whether t is in the set.
func (s DamageTypeSet) Contains(t DamageType) bool {
	_, ok := s[t]
	return ok
}

// Add inserts t into the set.
//
// Precondition: s must be non-nil.
func (s DamageTypeSet) Add(t DamageType) {
	s[t] = struct{}{}
}

// Len returns the number of types in the set.
func (s DamageTypeSet) Len() int { return len(s) }

// Clone returns an independent copy of s. Cloning nil yields an empty set.
func (s DamageTypeSet) Clone() DamageTypeSet {
	out := make(DamageTypeSet, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

// Slice returns the members of s sorted by name.
func (s DamageTypeSet) Slice() []DamageType {
	out := make([]DamageType, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
