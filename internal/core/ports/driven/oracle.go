package driven

import (
	"context"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// FitnessOracle converts a generation's genomes into ratings.
//
// Implementations may evaluate concurrently but must return only after
// every call has finished. Zero records for a genome is valid. The caller
// fills in RunID and Generation.
//
// A partial failure returns the records that succeeded together with a
// non-nil error; callers should keep the records.
type FitnessOracle interface {
	// Name identifies the oracle; it is recorded as the rater.
	Name() string

	// Evaluate rates the given genomes.
	Evaluate(ctx context.Context, genomes []domain.Genome) ([]domain.FitnessRecord, error)
}
