package encounter

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/encounter/internal/game/ruleset"
)

// FighterSummary is one fighter's state when an encounter ends.
type FighterSummary struct {
	Name         string
	Camp         ruleset.Camp
	Initiative   int
	HitPoints    int
	MaxHitPoints int
	Dead         bool
	DamageDealt  int
	Hits         int
	Misses       int
	Criticals    int
}

// Result is the outcome of one encounter.
type Result struct {
	ID     uuid.UUID
	Roster string
	// Winner is empty on a draw.
	Winner   ruleset.Camp
	Rounds   int
	Fighters []FighterSummary
}

// Draw reports whether no camp won.
func (r Result) Draw() bool { return r.Winner == "" }

// Batch aggregates the results of repeated runs of the same roster.
type Batch struct {
	ID          uuid.UUID
	Roster      string
	Runs        int
	Wins        map[ruleset.Camp]int
	Draws       int
	TotalRounds int
	Results     []Result
}

// WinRate returns the share of runs camp won, in [0, 1].
func (b Batch) WinRate(camp ruleset.Camp) float64 {
	if b.Runs == 0 {
		return 0
	}
	return float64(b.Wins[camp]) / float64(b.Runs)
}

// MeanRounds returns the average encounter length.
func (b Batch) MeanRounds() float64 {
	if b.Runs == 0 {
		return 0
	}
	return float64(b.TotalRounds) / float64(b.Runs)
}

// Add folds r into the batch.
func (b *Batch) Add(r Result) {
	if b.Wins == nil {
		b.Wins = make(map[ruleset.Camp]int)
	}
	b.Runs++
	b.TotalRounds += r.Rounds
	if r.Draw() {
		b.Draws++
	} else {
		b.Wins[r.Winner]++
	}
	b.Results = append(b.Results, r)
}

// Simulate runs build(i) then Run for i in [0, runs), one encounter at a time.
//
// Precondition: runs >= 1.
// Postcondition: Returns a Batch with Runs == runs, or the first build or run error.
func Simulate(ctx context.Context, roster string, runs int, build func(run int) (*Encounter, error)) (Batch, error) {
	if runs < 1 {
		return Batch{}, fmt.Errorf("simulate: runs must be >= 1, got %d", runs)
	}
	b := Batch{ID: uuid.New(), Roster: roster, Wins: make(map[ruleset.Camp]int)}
	for i := 0; i < runs; i++ {
		e, err := build(i)
		if err != nil {
			return Batch{}, fmt.Errorf("simulate: building run %d: %w", i, err)
		}
		res, err := e.Run(ctx)
		if err != nil {
			return Batch{}, fmt.Errorf("simulate: run %d: %w", i, err)
		}
		b.Add(res)
	}
	return b, nil
}
