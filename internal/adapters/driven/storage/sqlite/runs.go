package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

const runColumns = `id, name, base_content, population_size, mutation_rate, crossover_rate,
	seed, generation, created_at, updated_at`

// Save stores or updates a run.
func (s *runStore) Save(ctx context.Context, run domain.Run) error {
	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	if run.UpdatedAt.IsZero() {
		run.UpdatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			base_content = excluded.base_content,
			population_size = excluded.population_size,
			mutation_rate = excluded.mutation_rate,
			crossover_rate = excluded.crossover_rate,
			seed = excluded.seed,
			generation = excluded.generation,
			updated_at = excluded.updated_at
	`, run.ID, run.Name, run.BaseContent,
		run.Config.PopulationSize, run.Config.MutationRate, run.Config.CrossoverRate,
		run.Seed, run.Generation, run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *runStore) Get(ctx context.Context, id string) (*domain.Run, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	return run, nil
}

// List returns all runs, most recently created first.
func (s *runStore) List(ctx context.Context) ([]domain.Run, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Delete removes a run. Populations and ratings cascade, then genomes
// no remaining population references are removed in the same transaction.
func (s *runStore) Delete(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	rows, err := tx.QueryContext(ctx,
		"SELECT DISTINCT genome_id FROM population_members WHERE run_id = ?", id)
	if err != nil {
		return fmt.Errorf("listing run genomes: %w", err)
	}
	var genomeIDs []string
	for rows.Next() {
		var genomeID string
		if err := rows.Scan(&genomeID); err != nil {
			rows.Close()
			return fmt.Errorf("scanning genome id: %w", err)
		}
		genomeIDs = append(genomeIDs, genomeID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("listing run genomes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}

	for _, genomeID := range genomeIDs {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM genomes WHERE id = ?
			AND NOT EXISTS (SELECT 1 FROM population_members WHERE genome_id = ?)
			AND NOT EXISTS (SELECT 1 FROM fitness_records WHERE genome_id = ?)`,
			genomeID, genomeID, genomeID); err != nil {
			return fmt.Errorf("deleting genome %s: %w", genomeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run delete: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&run.ID, &run.Name, &run.BaseContent,
		&run.Config.PopulationSize, &run.Config.MutationRate, &run.Config.CrossoverRate,
		&run.Seed, &run.Generation, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		run.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		run.UpdatedAt = updatedAt.Time
	}
	return &run, nil
}
