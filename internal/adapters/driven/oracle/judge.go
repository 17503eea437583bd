package oracle

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
	"github.com/custodia-labs/promptbreeder/internal/logger"
)

// Ensure Judge implements the interfaces.
var (
	_ driven.FitnessOracle    = (*Judge)(nil)
	_ driven.PromptStoreAware = (*Judge)(nil)
)

const defaultJudgePrompt = `You are grading how well an AI assistant followed a prompt.

Prompt:
%s

Response:
%s

Rate the response from 1 (poor) to 5 (excellent) for relevance, clarity and quality.
Reply with the number only.`

// judgeMaxTokens leaves room for a model that explains before the number.
const judgeMaxTokens = 16

var numberPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// JudgeConfig configures the LLM judge.
type JudgeConfig struct {
	// Concurrency bounds in-flight genomes (default 4).
	Concurrency int

	// RequestsPerSecond throttles LLM calls. Zero disables throttling.
	RequestsPerSecond float64

	// MaxTokens caps generated outputs (default 500).
	MaxTokens int

	// Temperature for output generation. Negative means the default 0.7.
	// Ratings use 0.
	Temperature float64
}

// Judge rates genomes by generating each prompt's output with an LLM and
// then asking the same model to score that output from 1 to 5.
type Judge struct {
	llm         driven.LLMService
	gen         outputGenerator
	limiter     *RateLimiter
	concurrency int
}

// NewJudge creates an LLM judge. llm is required.
func NewJudge(llm driven.LLMService, cfg JudgeConfig) (*Judge, error) {
	if llm == nil {
		return nil, fmt.Errorf("%w: judge requires an LLM service", domain.ErrLLMUnavailable)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = DefaultTemperature
	}

	return &Judge{
		llm: llm,
		gen: outputGenerator{
			llm:         llm,
			maxTokens:   cfg.MaxTokens,
			temperature: cfg.Temperature,
		},
		limiter:     NewRateLimiter(cfg.RequestsPerSecond, cfg.Concurrency),
		concurrency: cfg.Concurrency,
	}, nil
}

// Name identifies the oracle by model.
func (j *Judge) Name() string {
	return "llm:" + j.llm.ModelName()
}

// SetPromptStore sets the store the output and judge prompts are read from.
func (j *Judge) SetPromptStore(store driven.PromptStore) {
	j.gen.prompts = store
}

// Evaluate rates every genome concurrently. Records come back in input
// order; genomes whose calls failed are omitted and reported in the error.
func (j *Judge) Evaluate(ctx context.Context, genomes []domain.Genome) ([]domain.FitnessRecord, error) {
	template := j.judgeTemplate()
	results := make([]*domain.FitnessRecord, len(genomes))
	var (
		mu   sync.Mutex
		errs []error
	)

	p := pool.New().WithMaxGoroutines(j.concurrency)
	for i := range genomes {
		p.Go(func() {
			record, err := j.rate(ctx, template, genomes[i])
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("genome %s: %w", genomes[i].ID, err))
				mu.Unlock()
				return
			}
			results[i] = record
		})
	}
	p.Wait()

	records := make([]domain.FitnessRecord, 0, len(genomes))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}

	if err := ctx.Err(); err != nil {
		return records, err
	}
	if len(errs) > 0 {
		return records, fmt.Errorf("%w: %d of %d evaluations failed: %w",
			domain.ErrOracleUnavailable, len(errs), len(genomes), errors.Join(errs...))
	}
	return records, nil
}

// judgeTemplate loads the judge prompt. A template that does not take
// exactly the prompt and the output is replaced by the default.
func (j *Judge) judgeTemplate() string {
	template := j.gen.prompt(driven.PromptJudge, defaultJudgePrompt)
	if !validJudgeTemplate(template) {
		logger.Warn("judge prompt must contain exactly two %%s placeholders; using the default")
		return defaultJudgePrompt
	}
	return template
}

func validJudgeTemplate(template string) bool {
	verbs := strings.ReplaceAll(template, "%%", "")
	return strings.Count(verbs, "%") == 2 && strings.Count(verbs, "%s") == 2
}

func (j *Judge) rate(ctx context.Context, template string, genome domain.Genome) (*domain.FitnessRecord, error) {
	if err := j.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	output, err := j.gen.generate(ctx, genome.Content)
	if err != nil {
		j.noteRateLimit(err)
		return nil, err
	}

	if err := j.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	reply, err := j.llm.Generate(ctx, fmt.Sprintf(template, genome.Content, output), driven.GenerateOptions{
		MaxTokens: judgeMaxTokens,
	})
	if err != nil {
		j.noteRateLimit(err)
		return nil, fmt.Errorf("judge output: %w", err)
	}

	rating, err := ParseRating(reply)
	if err != nil {
		return nil, err
	}

	return &domain.FitnessRecord{
		ID:        uuid.New().String(),
		GenomeID:  genome.ID,
		Rating:    rating,
		RaterID:   j.Name(),
		Output:    output,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (j *Judge) noteRateLimit(err error) {
	if errors.Is(err, domain.ErrRateLimited) {
		j.limiter.RecordRateLimited()
	}
}

// ParseRating reads the first number in a judge reply and clamps it to [1, 5].
func ParseRating(reply string) (float64, error) {
	match := numberPattern.FindString(reply)
	if match == "" {
		return 0, fmt.Errorf("%w: no rating in judge reply %q", domain.ErrInvalidInput, reply)
	}
	rating, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse rating %q: %w", domain.ErrInvalidInput, match, err)
	}
	return min(max(rating, minRating), maxRating), nil
}
