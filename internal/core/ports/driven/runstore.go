package driven

import (
	"context"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// RunStore persists evolution runs.
type RunStore interface {
	// Save stores or updates a run.
	Save(ctx context.Context, run domain.Run) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// List returns all runs, most recently created first.
	List(ctx context.Context) ([]domain.Run, error)

	// Delete removes a run with its populations, ratings and the genomes
	// no other run references.
	// Genomes are kept because other runs' lineage may reference them.
	Delete(ctx context.Context, id string) error
}
