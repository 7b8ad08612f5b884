// Package encounter orchestrates turn-based encounters between two camps of
// attackers and aggregates the outcomes of repeated simulations.
package encounter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/game/bestiary"
	"github.com/cory-johannsen/encounter/internal/game/creature"
	"github.com/cory-johannsen/encounter/internal/game/ruleset"
)

// DefaultMaxRounds bounds an encounter when neither the roster nor the
// options set a limit.
const DefaultMaxRounds = 100

// Options tunes an Encounter.
type Options struct {
	// MaxRounds ends the encounter in a draw once reached. Zero means DefaultMaxRounds.
	MaxRounds int
	// Logger receives turn events. Nil disables logging.
	Logger *zap.Logger
}

// Encounter is one fight between red and blue attackers.
//
// Invariant: fighters is sorted by initiative, highest first.
type Encounter struct {
	id        uuid.UUID
	name      string
	fighters  []*creature.Attacker
	tracker   *Tracker
	maxRounds int
	logger    *zap.Logger
}

// New builds an encounter. fighters are ordered by initiative, highest first;
// equal initiatives keep their given order. tracker must be the observer the
// fighters were built with so the encounter can read what each camp has seen.
//
// Precondition: tracker must be non-nil.
func New(name string, fighters []*creature.Attacker, tracker *Tracker, opts Options) *Encounter {
	ordered := append([]*creature.Attacker(nil), fighters...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Initiative() > ordered[j].Initiative()
	})

	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	return &Encounter{
		id:        id,
		name:      name,
		fighters:  ordered,
		tracker:   tracker,
		maxRounds: maxRounds,
		logger:    logger.With(zap.String("encounter", name), zap.String("encounter_id", id.String())),
	}
}

// FromRoster spawns every roster participant from b and builds the encounter.
// Participants with Count > 1 are suffixed " 1", " 2", ... The roster's
// MaxRounds, when set, overrides opts.MaxRounds.
//
// Precondition: r must have passed Validate; roller must be non-nil.
func FromRoster(r *Roster, b *bestiary.Bestiary, roller creature.Roller, opts Options) (*Encounter, error) {
	tracker := NewTracker()
	var fighters []*creature.Attacker
	for _, p := range r.Participants {
		count := max(p.Count, 1)
		for i := 1; i <= count; i++ {
			name := p.Name
			if name == "" {
				if t, ok := b.Template(p.Template); ok {
					name = t.Name
				}
			}
			if count > 1 {
				name = fmt.Sprintf("%s %d", name, i)
			}
			a, err := b.Spawn(p.Template, name, p.Camp, roller,
				creature.WithLogger(opts.Logger),
				creature.WithObserver(tracker),
			)
			if err != nil {
				return nil, fmt.Errorf("roster %q: %w", r.Name, err)
			}
			fighters = append(fighters, a)
		}
	}
	if r.MaxRounds > 0 {
		opts.MaxRounds = r.MaxRounds
	}
	return New(r.Name, fighters, tracker, opts), nil
}

// ID returns the encounter's unique identifier.
func (e *Encounter) ID() uuid.UUID { return e.id }

// Fighters returns the fighters in initiative order.
func (e *Encounter) Fighters() []*creature.Attacker {
	return append([]*creature.Attacker(nil), e.fighters...)
}

// Run resolves rounds until one camp has no living fighter or MaxRounds is
// reached. Each living fighter acts once per round in initiative order.
//
// Postcondition: Returns the Result, or ctx.Err() if ctx is cancelled
// between turns.
func (e *Encounter) Run(ctx context.Context) (Result, error) {
	e.logger.Info("encounter started", zap.Int("fighters", len(e.fighters)))

	rounds := 0
	for rounds < e.maxRounds {
		if _, over := e.winner(); over {
			break
		}
		rounds++
		for _, actor := range e.fighters {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			if actor.IsDead() {
				continue
			}
			if _, over := e.winner(); over {
				break
			}
			e.takeTurn(actor)
		}
	}

	winner, _ := e.winner()
	res := e.result(winner, rounds)
	e.logger.Info("encounter finished",
		zap.String("winner", string(winner)),
		zap.Int("rounds", rounds),
	)
	return res, nil
}

// takeTurn lets actor pick a target and a weapon, then attack.
func (e *Encounter) takeTurn(actor *creature.Attacker) {
	active, wounded := e.activeRoster()

	idx := actor.FindOpponent(active, wounded)
	if idx == creature.NoOpponent {
		e.logger.Debug("no opponent, turn skipped", zap.String("actor", actor.Name()))
		return
	}
	target := active[idx]

	best, err := actor.FindBestWeapon(e.tracker.Knowledge(actor.Camp(), target))
	if err != nil {
		if errors.Is(err, creature.ErrNoViableWeapon) {
			e.logger.Warn("no viable weapon, turn skipped",
				zap.String("actor", actor.Name()),
				zap.String("target", target.Name()),
			)
			return
		}
		e.logger.Error("weapon selection failed", zap.String("actor", actor.Name()), zap.Error(err))
		return
	}
	actor.ChangeWeapon(best)
	actor.Attack(target, nil)
}

// activeRoster returns the living fighters in initiative order and whether
// each one is wounded.
func (e *Encounter) activeRoster() ([]*creature.Combatant, []bool) {
	active := make([]*creature.Combatant, 0, len(e.fighters))
	wounded := make([]bool, 0, len(e.fighters))
	for _, f := range e.fighters {
		if f.IsDead() {
			continue
		}
		active = append(active, f.Creature())
		wounded = append(wounded, f.IsWounded())
	}
	return active, wounded
}

// winner reports the surviving camp once the other camp is wiped out.
// over is true as soon as at most one camp has living fighters.
func (e *Encounter) winner() (ruleset.Camp, bool) {
	alive := map[ruleset.Camp]bool{}
	for _, f := range e.fighters {
		if !f.IsDead() {
			alive[f.Camp()] = true
		}
	}
	switch {
	case alive[ruleset.CampRed] && alive[ruleset.CampBlue]:
		return "", false
	case alive[ruleset.CampRed]:
		return ruleset.CampRed, true
	case alive[ruleset.CampBlue]:
		return ruleset.CampBlue, true
	default:
		return "", true
	}
}

func (e *Encounter) result(winner ruleset.Camp, rounds int) Result {
	res := Result{
		ID:       e.id,
		Roster:   e.name,
		Winner:   winner,
		Rounds:   rounds,
		Fighters: make([]FighterSummary, 0, len(e.fighters)),
	}
	for _, f := range e.fighters {
		tl := e.tracker.tally(f.Creature())
		res.Fighters = append(res.Fighters, FighterSummary{
			Name:         f.Name(),
			Camp:         f.Camp(),
			Initiative:   f.Initiative(),
			HitPoints:    f.HitPoints(),
			MaxHitPoints: f.MaxHitPoints(),
			Dead:         f.IsDead(),
			DamageDealt:  tl.damageDealt,
			Hits:         tl.hits,
			Misses:       tl.misses,
			Criticals:    tl.criticals,
		})
	}
	return res
}
