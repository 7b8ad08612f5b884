package weapon

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownWeapon is returned when a weapon ID is not registered.
var ErrUnknownWeapon = errors.New("unknown weapon")

// Registry holds all loaded weapon definitions indexed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// NewRegistryFrom registers every def in defs.
//
// Postcondition: Returns a populated Registry or the first duplicate-ID error.
func NewRegistryFrom(defs []*Def) (*Registry, error) {
	r := NewRegistry()
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds d to the registry.
//
// Precondition: d must not be nil.
// Postcondition: Def(d.ID) returns d; returns error if d.ID already registered.
func (r *Registry) Register(d *Def) error {
	if _, exists := r.defs[d.ID]; exists {
		return fmt.Errorf("weapon: Registry.Register: weapon ID %q already registered", d.ID)
	}
	r.defs[d.ID] = d
	return nil
}

// Def returns the definition for id and whether it was found.
func (r *Registry) Def(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered definition sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Arm builds a Weapon for id bound to roller.
//
// Postcondition: Returns a Weapon or an error wrapping ErrUnknownWeapon.
func (r *Registry) Arm(id string, roller Roller) (*Weapon, error) {
	d, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("weapon %q: %w", id, ErrUnknownWeapon)
	}
	return New(d, roller), nil
}
