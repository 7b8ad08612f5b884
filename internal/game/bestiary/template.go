// Package bestiary provides creature template definitions and spawns
// combat-ready attackers from them.
package bestiary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/encounter/internal/game/ruleset"
)

// Template defines a reusable creature archetype loaded from YAML.
type Template struct {
	ID              string                  `yaml:"id"`
	Name            string                  `yaml:"name"`
	HitPoints       int                     `yaml:"hit_points"`
	ArmorClass      int                     `yaml:"armor_class"`
	Proficiency     int                     `yaml:"proficiency"`
	Stats           map[ruleset.Ability]int `yaml:"stats"`
	Weapons         []string                `yaml:"weapons"`
	Resistances     []ruleset.DamageType    `yaml:"resistances"`
	Immunities      []ruleset.DamageType    `yaml:"immunities"`
	Vulnerabilities []ruleset.DamageType    `yaml:"vulnerabilities"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, HitPoints >= 1,
// ArmorClass >= 1, Stats is non-empty with known abilities, every damage type
// is known and at least one weapon is listed; returns an error on the first
// violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("creature template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("creature template %q: name must not be empty", t.ID)
	}
	if t.HitPoints < 1 {
		return fmt.Errorf("creature template %q: hit_points must be >= 1", t.ID)
	}
	if t.ArmorClass < 1 {
		return fmt.Errorf("creature template %q: armor_class must be >= 1", t.ID)
	}
	if len(t.Stats) == 0 {
		return fmt.Errorf("creature template %q: stats must not be empty", t.ID)
	}
	for ability := range t.Stats {
		if !ability.Valid() {
			return fmt.Errorf("creature template %q: unknown ability %q", t.ID, ability)
		}
	}
	if len(t.Weapons) == 0 {
		return fmt.Errorf("creature template %q: at least one weapon is required", t.ID)
	}
	for _, group := range [][]ruleset.DamageType{t.Resistances, t.Immunities, t.Vulnerabilities} {
		for _, dt := range group {
			if !dt.Valid() {
				return fmt.Errorf("creature template %q: unknown damage type %q", t.ID, dt)
			}
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single creature template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading creature dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
