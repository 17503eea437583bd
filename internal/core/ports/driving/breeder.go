package driving

import (
	"context"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// CurrentGeneration selects a run's latest generation in Population and Rankings.
const CurrentGeneration = -1

// BreederService manages evolution runs.
type BreederService interface {
	// StartRun validates the configuration, builds and persists generation 0.
	StartRun(ctx context.Context, req StartRunRequest) (*domain.Run, error)

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, id string) (*domain.Run, error)

	// ListRuns returns all runs, most recent first.
	ListRuns(ctx context.Context) ([]domain.Run, error)

	// DeleteRun removes a run with its populations and ratings.
	DeleteRun(ctx context.Context, id string) error

	// Population returns one generation of a run in position order.
	// Pass CurrentGeneration for the latest.
	Population(ctx context.Context, runID string, generation int) ([]domain.Genome, error)

	// Rankings returns one generation ranked by mean rating, with statistics.
	// Pass CurrentGeneration for the latest.
	Rankings(ctx context.Context, runID string, generation int) (*GenerationReport, error)

	// Rate records a rating for a genome in the latest generation it belongs to.
	Rate(ctx context.Context, req RateRequest) (*domain.FitnessRecord, error)

	// Evaluate asks the fitness oracle to rate the current generation and
	// stores the ratings. Returns domain.ErrOracleUnavailable without an oracle.
	Evaluate(ctx context.Context, runID string) ([]domain.FitnessRecord, error)

	// Evolve breeds the next generation from the current one and its ratings.
	Evolve(ctx context.Context, runID string) (*EvolveResult, error)

	// Lineage walks a genome's parent pointers back to its root.
	// The first entry is the genome itself.
	Lineage(ctx context.Context, genomeID string) ([]domain.LineageEntry, error)
}

// StartRunRequest describes a new run.
type StartRunRequest struct {
	// Name is an optional label.
	Name string

	// BaseContent is the base prompt. It may be empty.
	BaseContent string

	// Config holds the population size and rates.
	Config domain.EvolutionConfig

	// Seed makes the run reproducible. Zero picks a time-based seed.
	Seed int64
}

// RateRequest records one rating.
type RateRequest struct {
	GenomeID string
	Rating   float64
	RaterID  string
	Output   string
}

// GenerationReport is a ranked generation.
type GenerationReport struct {
	Run        domain.Run
	Generation int
	Ranked     []domain.RankedGenome
	Stats      domain.GenerationStats
}

// EvolveResult is the outcome of one evolve step.
type EvolveResult struct {
	// Run is the run after advancing.
	Run domain.Run

	// Parent summarises the generation that was bred from.
	Parent domain.GenerationStats

	// Population is the new generation.
	Population []domain.Genome
}
