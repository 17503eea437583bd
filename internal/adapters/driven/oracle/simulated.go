package oracle

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

// Ensure SimulatedOracle implements the interfaces.
var (
	_ driven.FitnessOracle    = (*SimulatedOracle)(nil)
	_ driven.PromptStoreAware = (*SimulatedOracle)(nil)
)

// Simulated ratings are drawn uniformly from [minRating, maxRating).
const (
	minRating = 1.0
	maxRating = 5.0
)

// SimulatedOracle rates genomes with seeded uniform random scores.
// Its source is independent of the evolution source, so enabling it
// never shifts operator draws.
type SimulatedOracle struct {
	mu  sync.Mutex
	rng *rand.Rand
	gen outputGenerator
}

// NewSimulatedOracle creates a simulated oracle. A zero seed uses the clock.
// llm may be nil, in which case outputs are placeholders.
func NewSimulatedOracle(seed int64, llm driven.LLMService) *SimulatedOracle {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimulatedOracle{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // ratings are not security sensitive
		gen: outputGenerator{
			llm:         llm,
			maxTokens:   DefaultMaxTokens,
			temperature: DefaultTemperature,
		},
	}
}

// Name identifies the oracle.
func (o *SimulatedOracle) Name() string {
	return "simulated"
}

// WithOutputOptions sets generation limits for LLM outputs. Non-positive
// maxTokens and negative temperature keep the defaults.
func (o *SimulatedOracle) WithOutputOptions(maxTokens int, temperature float64) *SimulatedOracle {
	if maxTokens > 0 {
		o.gen.maxTokens = maxTokens
	}
	if temperature >= 0 {
		o.gen.temperature = temperature
	}
	return o
}

// SetPromptStore sets the store the output system prompt is read from.
func (o *SimulatedOracle) SetPromptStore(store driven.PromptStore) {
	o.gen.prompts = store
}

// Evaluate returns one record per genome, in input order.
func (o *SimulatedOracle) Evaluate(ctx context.Context, genomes []domain.Genome) ([]domain.FitnessRecord, error) {
	records := make([]domain.FitnessRecord, 0, len(genomes))
	for i := range genomes {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		output, err := o.gen.generate(ctx, genomes[i].Content)
		if err != nil {
			return records, fmt.Errorf("%w: genome %s: %w", domain.ErrOracleUnavailable, genomes[i].ID, err)
		}

		records = append(records, domain.FitnessRecord{
			ID:        uuid.New().String(),
			GenomeID:  genomes[i].ID,
			Rating:    o.draw(),
			RaterID:   o.Name(),
			Output:    output,
			CreatedAt: time.Now().UTC(),
		})
	}
	return records, nil
}

func (o *SimulatedOracle) draw() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return minRating + (maxRating-minRating)*o.rng.Float64()
}
