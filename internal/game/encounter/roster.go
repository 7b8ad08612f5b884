package encounter

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/encounter/internal/game/ruleset"
)

// Participant is one roster line: count creatures of a template on one camp.
type Participant struct {
	Template string       `yaml:"template"`
	Name     string       `yaml:"name"`
	Camp     ruleset.Camp `yaml:"camp"`
	Count    int          `yaml:"count"`
}

// Roster describes who fights in an encounter.
type Roster struct {
	Name         string        `yaml:"name"`
	MaxRounds    int           `yaml:"max_rounds"`
	Participants []Participant `yaml:"participants"`
}

// Validate checks the roster invariants. A zero Count is read as one.
//
// Postcondition: Returns nil iff Name is non-empty, MaxRounds >= 0, every
// participant names a template and a valid camp with Count >= 0, and both
// camps are represented.
func (r *Roster) Validate() error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if r.MaxRounds < 0 {
		errs = append(errs, fmt.Errorf("max_rounds must be >= 0, got %d", r.MaxRounds))
	}
	camps := map[ruleset.Camp]bool{}
	for i, p := range r.Participants {
		if p.Template == "" {
			errs = append(errs, fmt.Errorf("participants[%d]: template must not be empty", i))
		}
		if !p.Camp.Valid() {
			errs = append(errs, fmt.Errorf("participants[%d]: camp must be red or blue, got %q", i, p.Camp))
		}
		if p.Count < 0 {
			errs = append(errs, fmt.Errorf("participants[%d]: count must be >= 0, got %d", i, p.Count))
		}
		camps[p.Camp] = true
	}
	if !camps[ruleset.CampRed] || !camps[ruleset.CampBlue] {
		errs = append(errs, errors.New("roster needs participants on both red and blue camps"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("roster %q: %w", r.Name, errors.Join(errs...))
	}
	return nil
}

// LoadRosterFromBytes parses and validates a roster.
func LoadRosterFromBytes(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster YAML: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadRoster reads and validates the roster at path.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %q: %w", path, err)
	}
	r, err := LoadRosterFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return r, nil
}
