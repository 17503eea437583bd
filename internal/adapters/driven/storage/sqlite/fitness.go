package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

// fitnessStore implements driven.FitnessStore.
type fitnessStore struct {
	store *Store
}

var _ driven.FitnessStore = (*fitnessStore)(nil)

// Add stores a rating.
func (s *fitnessStore) Add(ctx context.Context, record domain.FitnessRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO fitness_records (id, run_id, genome_id, generation, rating, rater_id, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.RunID, record.GenomeID, record.Generation, record.Rating,
		record.RaterID, record.Output, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving fitness record: %w", err)
	}
	return nil
}

// ListByGeneration returns every rating for one generation of a run, oldest first.
func (s *fitnessStore) ListByGeneration(ctx context.Context, runID string, generation int) ([]domain.FitnessRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, run_id, genome_id, generation, rating, rater_id, output, created_at
		FROM fitness_records
		WHERE run_id = ? AND generation = ?
		ORDER BY created_at, rowid
	`, runID, generation)
	if err != nil {
		return nil, fmt.Errorf("querying fitness records: %w", err)
	}
	return scanFitnessRows(rows)
}

// ListByGenome returns every rating of a genome, oldest first.
func (s *fitnessStore) ListByGenome(ctx context.Context, genomeID string) ([]domain.FitnessRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, run_id, genome_id, generation, rating, rater_id, output, created_at
		FROM fitness_records
		WHERE genome_id = ?
		ORDER BY created_at, rowid
	`, genomeID)
	if err != nil {
		return nil, fmt.Errorf("querying fitness records: %w", err)
	}
	return scanFitnessRows(rows)
}

func scanFitnessRows(rows *sql.Rows) ([]domain.FitnessRecord, error) {
	defer rows.Close()

	records := make([]domain.FitnessRecord, 0)
	for rows.Next() {
		var r domain.FitnessRecord
		var createdAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.RunID, &r.GenomeID, &r.Generation, &r.Rating,
			&r.RaterID, &r.Output, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning fitness record: %w", err)
		}
		if createdAt.Valid {
			r.CreatedAt = createdAt.Time
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fitness records: %w", err)
	}
	return records, nil
}
