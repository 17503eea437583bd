package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

// genomeStore implements driven.GenomeStore.
type genomeStore struct {
	store *Store
}

var _ driven.GenomeStore = (*genomeStore)(nil)

// Save stores a genome, assigning an ID and creation time when missing.
// Genomes are immutable once written; saving an existing ID is a no-op.
func (s *genomeStore) Save(ctx context.Context, genome *domain.Genome) error {
	if genome == nil {
		return domain.ErrInvalidInput
	}
	if genome.ID == "" {
		genome.ID = uuid.New().String()
	}
	if genome.CreatedAt.IsZero() {
		genome.CreatedAt = time.Now().UTC()
	}

	metadata := genome.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO genomes (id, content, metadata, parent_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, genome.ID, genome.Content, string(metadataJSON), nullString(genome.ParentID), genome.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving genome: %w", err)
	}
	return nil
}

// Get retrieves a genome by ID.
func (s *genomeStore) Get(ctx context.Context, id string) (*domain.Genome, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, content, metadata, parent_id, created_at
		FROM genomes WHERE id = ?
	`, id)
	genome, err := scanGenome(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return genome, nil
}

// SavePopulation replaces the membership of one generation.
func (s *genomeStore) SavePopulation(ctx context.Context, runID string, generation int, genomeIDs []string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM population_members WHERE run_id = ? AND generation = ?", runID, generation); err != nil {
		return fmt.Errorf("clearing population: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO population_members (run_id, generation, position, genome_id)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing population insert: %w", err)
	}
	defer stmt.Close()

	for pos, id := range genomeIDs {
		if _, err := stmt.ExecContext(ctx, runID, generation, pos, id); err != nil {
			return fmt.Errorf("saving population member %d: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing population: %w", err)
	}
	return nil
}

// GetPopulation returns one generation in position order.
func (s *genomeStore) GetPopulation(ctx context.Context, runID string, generation int) ([]domain.Genome, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT g.id, g.content, g.metadata, g.parent_id, g.created_at
		FROM population_members p
		JOIN genomes g ON g.id = p.genome_id
		WHERE p.run_id = ? AND p.generation = ?
		ORDER BY p.position
	`, runID, generation)
	if err != nil {
		return nil, fmt.Errorf("querying population: %w", err)
	}
	defer rows.Close()

	var population []domain.Genome //nolint:prealloc // size unknown from query
	for rows.Next() {
		genome, err := scanGenome(rows)
		if err != nil {
			return nil, err
		}
		population = append(population, *genome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating population: %w", err)
	}
	if len(population) == 0 {
		return nil, domain.ErrNotFound
	}
	return population, nil
}

// FindGeneration returns the run and the latest generation containing the genome.
func (s *genomeStore) FindGeneration(ctx context.Context, genomeID string) (string, int, error) {
	var runID string
	var generation int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT run_id, generation FROM population_members
		WHERE genome_id = ?
		ORDER BY generation DESC, run_id ASC
		LIMIT 1
	`, genomeID).Scan(&runID, &generation)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, domain.ErrNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("finding genome generation: %w", err)
	}
	return runID, generation, nil
}

func scanGenome(row rowScanner) (*domain.Genome, error) {
	var genome domain.Genome
	var metadataJSON string
	var parentID sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(&genome.ID, &genome.Content, &metadataJSON, &parentID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning genome: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &genome.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	genome.ParentID = parentID.String
	if createdAt.Valid {
		genome.CreatedAt = createdAt.Time
	}
	return &genome, nil
}
