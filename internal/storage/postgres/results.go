package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/encounter/internal/game/encounter"
	"github.com/cory-johannsen/encounter/internal/game/ruleset"
)

// ErrBatchNotFound is returned when a batch lookup yields no results.
var ErrBatchNotFound = errors.New("batch not found")

// BatchRecord is the stored aggregate of a simulation batch.
type BatchRecord struct {
	ID          uuid.UUID
	Roster      string
	Runs        int
	Wins        map[ruleset.Camp]int
	Draws       int
	TotalRounds int
	CreatedAt   time.Time
}

// ResultRepository stores simulation batches and their encounters.
type ResultRepository struct {
	db *pgxpool.Pool
}

// NewResultRepository creates a ResultRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: db}
}

var fighterColumns = []string{
	"encounter_id", "position", "name", "camp", "initiative", "hit_points",
	"max_hit_points", "dead", "damage_dealt", "hits", "misses", "criticals",
}

// SaveBatch stores b, every encounter result and every fighter summary in a
// single transaction.
//
// Postcondition: Either everything is stored or nothing is.
func (r *ResultRepository) SaveBatch(ctx context.Context, b encounter.Batch) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO simulation_batches (id, roster, runs, red_wins, blue_wins, draws, total_rounds)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			b.ID, b.Roster, b.Runs, b.Wins[ruleset.CampRed], b.Wins[ruleset.CampBlue], b.Draws, b.TotalRounds,
		)
		if err != nil {
			return fmt.Errorf("inserting batch: %w", err)
		}

		var rows [][]any
		for _, res := range b.Results {
			_, err := tx.Exec(ctx,
				`INSERT INTO encounter_results (id, batch_id, winner, rounds) VALUES ($1, $2, $3, $4)`,
				res.ID, b.ID, string(res.Winner), res.Rounds,
			)
			if err != nil {
				return fmt.Errorf("inserting encounter %s: %w", res.ID, err)
			}
			for i, f := range res.Fighters {
				rows = append(rows, []any{
					res.ID, i, f.Name, string(f.Camp), f.Initiative, f.HitPoints,
					f.MaxHitPoints, f.Dead, f.DamageDealt, f.Hits, f.Misses, f.Criticals,
				})
			}
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"encounter_fighters"}, fighterColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("copying fighters: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving batch %s: %w", b.ID, err)
	}
	return nil
}

// Batch returns the stored aggregate for id.
//
// Postcondition: Returns the record or ErrBatchNotFound.
func (r *ResultRepository) Batch(ctx context.Context, id uuid.UUID) (BatchRecord, error) {
	rec := BatchRecord{ID: id}
	var red, blue int
	err := r.db.QueryRow(ctx,
		`SELECT roster, runs, red_wins, blue_wins, draws, total_rounds, created_at
		 FROM simulation_batches WHERE id = $1`, id,
	).Scan(&rec.Roster, &rec.Runs, &red, &blue, &rec.Draws, &rec.TotalRounds, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BatchRecord{}, ErrBatchNotFound
		}
		return BatchRecord{}, fmt.Errorf("querying batch %s: %w", id, err)
	}
	rec.Wins = map[ruleset.Camp]int{ruleset.CampRed: red, ruleset.CampBlue: blue}
	return rec, nil
}

// Results returns every encounter of batch id with its fighters in
// initiative order.
//
// Postcondition: Returns the results ordered by insertion, or an error.
func (r *ResultRepository) Results(ctx context.Context, id uuid.UUID) ([]encounter.Result, error) {
	b, err := r.Batch(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.winner, e.rounds,
		        f.name, f.camp, f.initiative, f.hit_points, f.max_hit_points,
		        f.dead, f.damage_dealt, f.hits, f.misses, f.criticals
		 FROM encounter_results e
		 JOIN encounter_fighters f ON f.encounter_id = e.id
		 WHERE e.batch_id = $1
		 ORDER BY e.seq, f.position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying results of batch %s: %w", id, err)
	}
	defer rows.Close()

	var results []encounter.Result
	for rows.Next() {
		var (
			encID  uuid.UUID
			winner string
			rounds int
			f      encounter.FighterSummary
			camp   string
		)
		if err := rows.Scan(&encID, &winner, &rounds,
			&f.Name, &camp, &f.Initiative, &f.HitPoints, &f.MaxHitPoints,
			&f.Dead, &f.DamageDealt, &f.Hits, &f.Misses, &f.Criticals,
		); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		f.Camp = ruleset.Camp(camp)
		if n := len(results); n == 0 || results[n-1].ID != encID {
			results = append(results, encounter.Result{
				ID:     encID,
				Roster: b.Roster,
				Winner: ruleset.Camp(winner),
				Rounds: rounds,
			})
		}
		last := &results[len(results)-1]
		last.Fighters = append(last.Fighters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating result rows: %w", err)
	}
	return results, nil
}
