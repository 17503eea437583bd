package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/evolution"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
	"github.com/custodia-labs/promptbreeder/internal/logger"
)

// Ensure BreederService implements the interface.
var _ driving.BreederService = (*BreederService)(nil)

// DefaultRaterID is recorded for ratings submitted without a rater.
const DefaultRaterID = "human"

// BreederService runs evolution sessions over the stores.
//
// Each generation draws from its own source seeded with
// Run.GenerationSeed, so a run replays identically given the same ratings.
type BreederService struct {
	runs    driven.RunStore
	genomes driven.GenomeStore
	fitness driven.FitnessStore
	oracle  driven.FitnessOracle
	now     func() time.Time
}

// NewBreederService creates a breeder service. oracle may be nil, in which
// case only human ratings are available.
func NewBreederService(
	runs driven.RunStore,
	genomes driven.GenomeStore,
	fitness driven.FitnessStore,
	oracle driven.FitnessOracle,
) *BreederService {
	return &BreederService{
		runs:    runs,
		genomes: genomes,
		fitness: fitness,
		oracle:  oracle,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// StartRun validates the configuration, builds and persists generation 0.
func (s *BreederService) StartRun(ctx context.Context, req driving.StartRunRequest) (*domain.Run, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = s.now().UnixNano()
	}
	now := s.now()
	run := domain.Run{
		ID:          uuid.New().String(),
		Name:        req.Name,
		BaseContent: req.BaseContent,
		Config:      req.Config,
		Seed:        seed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	manager, err := evolution.NewManager(run.Config, evolution.NewSeededSource(run.GenerationSeed(0)))
	if err != nil {
		return nil, err
	}
	population, err := manager.Initialize(run.BaseContent)
	if err != nil {
		return nil, fmt.Errorf("initialise population: %w", err)
	}

	// The run row must exist before membership rows reference it.
	if err := s.runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	if err := s.savePopulation(ctx, run.ID, 0, population); err != nil {
		if delErr := s.runs.Delete(ctx, run.ID); delErr != nil {
			logger.Warn("cleanup of run %s failed: %v", run.ID, delErr)
		}
		return nil, err
	}

	logger.Debug("started run %s (%q) size=%d seed=%d", run.ID, run.DisplayName(), len(population), run.Seed)
	return &run, nil
}

// GetRun retrieves a run by ID.
func (s *BreederService) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	return s.runs.Get(ctx, id)
}

// ListRuns returns all runs, most recent first.
func (s *BreederService) ListRuns(ctx context.Context) ([]domain.Run, error) {
	return s.runs.List(ctx)
}

// DeleteRun removes a run with its populations and ratings.
func (s *BreederService) DeleteRun(ctx context.Context, id string) error {
	if _, err := s.runs.Get(ctx, id); err != nil {
		return err
	}
	if err := s.runs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	logger.Debug("deleted run %s", id)
	return nil
}

// Population returns one generation of a run in position order.
func (s *BreederService) Population(ctx context.Context, runID string, generation int) ([]domain.Genome, error) {
	run, gen, err := s.resolveGeneration(ctx, runID, generation)
	if err != nil {
		return nil, err
	}
	return s.genomes.GetPopulation(ctx, run.ID, gen)
}

// Rankings returns one generation ranked by mean rating, with statistics.
func (s *BreederService) Rankings(ctx context.Context, runID string, generation int) (*driving.GenerationReport, error) {
	run, gen, err := s.resolveGeneration(ctx, runID, generation)
	if err != nil {
		return nil, err
	}
	population, records, err := s.generation(ctx, run.ID, gen)
	if err != nil {
		return nil, err
	}

	ranked := evolution.Rank(population, records)
	return &driving.GenerationReport{
		Run:        *run,
		Generation: gen,
		Ranked:     ranked,
		Stats:      evolution.Summarize(ranked),
	}, nil
}

// Rate records a rating for a genome in the latest generation it belongs to.
func (s *BreederService) Rate(ctx context.Context, req driving.RateRequest) (*domain.FitnessRecord, error) {
	if !domain.ValidRating(req.Rating) {
		return nil, fmt.Errorf("%w: rating must be a finite number", domain.ErrInvalidInput)
	}
	if req.GenomeID == "" {
		return nil, fmt.Errorf("%w: genome id is required", domain.ErrInvalidInput)
	}

	runID, gen, err := s.genomes.FindGeneration(ctx, req.GenomeID)
	if err != nil {
		return nil, fmt.Errorf("genome %s: %w", req.GenomeID, err)
	}

	raterID := req.RaterID
	if raterID == "" {
		raterID = DefaultRaterID
	}
	record := domain.FitnessRecord{
		ID:         uuid.New().String(),
		RunID:      runID,
		GenomeID:   req.GenomeID,
		Generation: gen,
		Rating:     req.Rating,
		RaterID:    raterID,
		Output:     req.Output,
		CreatedAt:  s.now(),
	}
	if err := s.fitness.Add(ctx, record); err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}

	logger.Debug("rated genome %s in run %s gen %d: %.2f by %s", req.GenomeID, runID, gen, req.Rating, raterID)
	return &record, nil
}

// Evaluate asks the fitness oracle to rate the current generation.
// Ratings from a partially failed evaluation are kept and the failure is
// logged; an evaluation that produced nothing returns the oracle's error.
func (s *BreederService) Evaluate(ctx context.Context, runID string) ([]domain.FitnessRecord, error) {
	if s.oracle == nil {
		return nil, fmt.Errorf("%w: no oracle configured", domain.ErrOracleUnavailable)
	}

	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	population, err := s.genomes.GetPopulation(ctx, run.ID, run.Generation)
	if err != nil {
		return nil, fmt.Errorf("load generation %d: %w", run.Generation, err)
	}

	logger.Section("Evaluate")
	defer logger.Timed("oracle %s on run %s gen %d", s.oracle.Name(), run.ID, run.Generation)()

	records, evalErr := s.oracle.Evaluate(ctx, uniqueGenomes(population))
	if evalErr != nil && len(records) == 0 {
		return nil, evalErr
	}
	if evalErr != nil {
		logger.Warn("oracle %s: %v", s.oracle.Name(), evalErr)
	}

	saved := make([]domain.FitnessRecord, 0, len(records))
	for _, r := range records {
		r.RunID = run.ID
		r.Generation = run.Generation
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if r.RaterID == "" {
			r.RaterID = s.oracle.Name()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = s.now()
		}
		if err := s.fitness.Add(ctx, r); err != nil {
			return saved, fmt.Errorf("save rating: %w", err)
		}
		saved = append(saved, r)
	}

	logger.Debug("oracle %s stored %d ratings for %d genomes", s.oracle.Name(), len(saved), len(population))
	return saved, nil
}

// Evolve breeds the next generation from the current one and its ratings.
func (s *BreederService) Evolve(ctx context.Context, runID string) (*driving.EvolveResult, error) {
	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	population, records, err := s.generation(ctx, run.ID, run.Generation)
	if err != nil {
		return nil, err
	}
	if len(population) != run.Config.PopulationSize {
		logger.Debug("run %s gen %d has %d genomes, configured size is %d",
			run.ID, run.Generation, len(population), run.Config.PopulationSize)
	}

	next := run.Generation + 1
	manager, err := evolution.NewManager(run.Config, evolution.NewSeededSource(run.GenerationSeed(next)))
	if err != nil {
		return nil, err
	}

	logger.Section("Evolve")
	defer logger.Timed("evolve run %s to gen %d", run.ID, next)()

	parentStats := evolution.Summarize(evolution.Rank(population, records))
	offspring, err := manager.Evolve(population, records)
	if err != nil {
		return nil, fmt.Errorf("evolve generation %d: %w", run.Generation, err)
	}

	if err := s.savePopulation(ctx, run.ID, next, offspring); err != nil {
		return nil, err
	}
	run.Generation = next
	run.UpdatedAt = s.now()
	if err := s.runs.Save(ctx, *run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}

	logger.Debug("run %s now at gen %d (parent best=%.2f mean=%.2f rated=%d/%d)",
		run.ID, next, parentStats.Best, parentStats.Mean, parentStats.Rated, parentStats.Size)
	return &driving.EvolveResult{
		Run:        *run,
		Parent:     parentStats,
		Population: offspring,
	}, nil
}

// Lineage walks a genome's parent pointers back to its root.
func (s *BreederService) Lineage(ctx context.Context, genomeID string) ([]domain.LineageEntry, error) {
	var lineage []domain.LineageEntry
	seen := make(map[string]bool)

	for id := genomeID; id != "" && !seen[id]; {
		seen[id] = true

		genome, err := s.genomes.Get(ctx, id)
		if err != nil {
			if len(lineage) > 0 && errors.Is(err, domain.ErrNotFound) {
				logger.Warn("lineage of %s stops at missing ancestor %s", genomeID, id)
				break
			}
			return nil, err
		}

		generation := -1
		if _, gen, err := s.genomes.FindGeneration(ctx, genome.ID); err == nil {
			generation = gen
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}

		lineage = append(lineage, domain.LineageEntry{
			Genome:     *genome,
			Generation: generation,
			Operation:  genome.Source(),
		})
		id = genome.ParentID
	}

	return lineage, nil
}

// resolveGeneration maps CurrentGeneration onto the run's latest and
// rejects generations the run has not reached.
func (s *BreederService) resolveGeneration(ctx context.Context, runID string, generation int) (*domain.Run, int, error) {
	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, 0, err
	}
	if generation == driving.CurrentGeneration {
		return run, run.Generation, nil
	}
	if generation < 0 || generation > run.Generation {
		return nil, 0, fmt.Errorf("%w: run %s has generations 0..%d, not %d",
			domain.ErrNotFound, run.ID, run.Generation, generation)
	}
	return run, generation, nil
}

func (s *BreederService) generation(
	ctx context.Context, runID string, gen int,
) ([]domain.Genome, []domain.FitnessRecord, error) {
	population, err := s.genomes.GetPopulation(ctx, runID, gen)
	if err != nil {
		return nil, nil, fmt.Errorf("load generation %d: %w", gen, err)
	}
	records, err := s.fitness.ListByGeneration(ctx, runID, gen)
	if err != nil {
		return nil, nil, fmt.Errorf("load ratings for generation %d: %w", gen, err)
	}
	return population, records, nil
}

// savePopulation stores new genomes (assigning IDs in place) and the
// generation's membership. Elites keep their IDs and are not rewritten.
func (s *BreederService) savePopulation(ctx context.Context, runID string, gen int, population []domain.Genome) error {
	ids := make([]string, len(population))
	for i := range population {
		if population[i].CreatedAt.IsZero() {
			population[i].CreatedAt = s.now()
		}
		if err := s.genomes.Save(ctx, &population[i]); err != nil {
			return fmt.Errorf("save genome: %w", err)
		}
		ids[i] = population[i].ID
	}
	if err := s.genomes.SavePopulation(ctx, runID, gen, ids); err != nil {
		return fmt.Errorf("save generation %d: %w", gen, err)
	}
	return nil
}

// uniqueGenomes drops repeated IDs so a genome is evaluated once per generation.
func uniqueGenomes(population []domain.Genome) []domain.Genome {
	seen := make(map[string]bool, len(population))
	out := make([]domain.Genome, 0, len(population))
	for _, g := range population {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		out = append(out, g)
	}
	return out
}
