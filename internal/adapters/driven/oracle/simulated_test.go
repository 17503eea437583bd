package oracle

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

func testGenomes(contents ...string) []domain.Genome {
	genomes := make([]domain.Genome, len(contents))
	for i, c := range contents {
		genomes[i] = domain.Genome{ID: "g" + string(rune('a'+i)), Content: c}
	}
	return genomes
}

func TestMockResponse(t *testing.T) {
	assert.Equal(t, "Mock response to: Write a story...", MockResponse("Write a story"))

	long := strings.Repeat("x", 60)
	assert.Equal(t, "Mock response to: "+strings.Repeat("x", 50)+"...", MockResponse(long))

	// Truncation counts characters, not bytes.
	accented := strings.Repeat("é", 55)
	assert.Equal(t, "Mock response to: "+strings.Repeat("é", 50)+"...", MockResponse(accented))
}

func TestSimulatedOracle_Evaluate(t *testing.T) {
	o := NewSimulatedOracle(42, nil)
	genomes := testGenomes("Write a story", "Write a poem", "Summarise this")

	records, err := o.Evaluate(context.Background(), genomes)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, r := range records {
		assert.Equal(t, genomes[i].ID, r.GenomeID)
		assert.GreaterOrEqual(t, r.Rating, 1.0)
		assert.Less(t, r.Rating, 5.0)
		assert.Equal(t, "simulated", r.RaterID)
		assert.Equal(t, MockResponse(genomes[i].Content), r.Output)
		assert.NotEmpty(t, r.ID)
	}
}

func TestSimulatedOracle_Deterministic(t *testing.T) {
	genomes := testGenomes("a", "b", "c", "d")

	first, err := NewSimulatedOracle(7, nil).Evaluate(context.Background(), genomes)
	require.NoError(t, err)
	second, err := NewSimulatedOracle(7, nil).Evaluate(context.Background(), genomes)
	require.NoError(t, err)

	for i := range first {
		assert.InDelta(t, first[i].Rating, second[i].Rating, 0)
	}
}

func TestSimulatedOracle_WithLLM(t *testing.T) {
	llm := &fakeLLM{}
	o := NewSimulatedOracle(1, llm)
	o.SetPromptStore(fakePrompts{driven.PromptOutputSystem: "Be brief."})

	records, err := o.Evaluate(context.Background(), testGenomes("Write a story"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "out:Write a story", records[0].Output)

	require.Len(t, llm.calls, 1)
	assert.Equal(t, "Be brief.", llm.calls[0].System)
	assert.Equal(t, DefaultMaxTokens, llm.calls[0].MaxTokens)
	assert.InDelta(t, DefaultTemperature, llm.calls[0].Temperature, 1e-9)
}

func TestSimulatedOracle_WithOutputOptions(t *testing.T) {
	llm := &fakeLLM{}
	o := NewSimulatedOracle(1, llm).WithOutputOptions(32, 0)

	_, err := o.Evaluate(context.Background(), testGenomes("Write a story"))
	require.NoError(t, err)
	require.Len(t, llm.calls, 1)
	assert.Equal(t, 32, llm.calls[0].MaxTokens)
	assert.InDelta(t, 0, llm.calls[0].Temperature, 1e-9)
}

func TestSimulatedOracle_LLMFailure(t *testing.T) {
	llm := &fakeLLM{failOn: "poem", err: domain.ErrLLMUnavailable}
	o := NewSimulatedOracle(1, llm)

	records, err := o.Evaluate(context.Background(), testGenomes("Write a story", "Write a poem"))
	assert.ErrorIs(t, err, domain.ErrOracleUnavailable)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Len(t, records, 1)
}

func TestSimulatedOracle_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := NewSimulatedOracle(1, nil).Evaluate(ctx, testGenomes("a"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
}
