package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

func TestServer_handleListRuns(t *testing.T) {
	server, _, run := newTestServer(t)

	_, output, err := server.handleListRuns(context.Background(), nil, ListRunsInput{})
	require.NoError(t, err)
	require.Equal(t, 1, output.Count)
	assert.Equal(t, run.ID, output.Runs[0].ID)
	assert.Equal(t, "stories", output.Runs[0].Name)
	assert.Equal(t, 5, output.Runs[0].PopulationSize)
	assert.Equal(t, int64(11), output.Runs[0].Seed)
}

func TestServer_handleGetPopulation(t *testing.T) {
	ctx := context.Background()
	server, _, run := newTestServer(t)

	t.Run("latest generation by default", func(t *testing.T) {
		_, output, err := server.handleGetPopulation(ctx, nil, GetPopulationInput{RunID: run.ID})
		require.NoError(t, err)
		assert.Equal(t, 0, output.Generation)
		require.Len(t, output.Genomes, 5)
		assert.Equal(t, 5, output.Stats.Size)
		for i, g := range output.Genomes {
			assert.Equal(t, i, g.Rank)
			assert.Equal(t, string(domain.SourceInitial), g.Source)
			assert.NotEmpty(t, g.Content)
		}
	})

	t.Run("explicit generation out of range", func(t *testing.T) {
		gen := 3
		_, _, err := server.handleGetPopulation(ctx, nil, GetPopulationInput{RunID: run.ID, Generation: &gen})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown run", func(t *testing.T) {
		_, _, err := server.handleGetPopulation(ctx, nil, GetPopulationInput{RunID: "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleRateGenome(t *testing.T) {
	ctx := context.Background()
	server, _, run := newTestServer(t)

	_, population, err := server.handleGetPopulation(ctx, nil, GetPopulationInput{RunID: run.ID})
	require.NoError(t, err)
	target := population.Genomes[2].ID

	_, output, err := server.handleRateGenome(ctx, nil, RateGenomeInput{GenomeID: target, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, run.ID, output.RunID)
	assert.Equal(t, 0, output.Generation)
	assert.NotEmpty(t, output.RecordID)

	_, population, err = server.handleGetPopulation(ctx, nil, GetPopulationInput{RunID: run.ID})
	require.NoError(t, err)
	assert.Equal(t, target, population.Genomes[0].ID)
	assert.Equal(t, 1, population.Stats.Rated)

	_, _, err = server.handleRateGenome(ctx, nil, RateGenomeInput{GenomeID: "missing", Rating: 3})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServer_handleRateGenome_DefaultRater(t *testing.T) {
	ctx := context.Background()
	server, breeder, run := newTestServer(t)

	population, err := breeder.Population(ctx, run.ID, 0)
	require.NoError(t, err)
	_, _, err = server.handleRateGenome(ctx, nil, RateGenomeInput{GenomeID: population[0].ID, Rating: 2})
	require.NoError(t, err)

	report, err := breeder.Rankings(ctx, run.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats.Rated)
}

func TestServer_handleEvaluateRun(t *testing.T) {
	server, _, run := newTestServer(t)

	_, output, err := server.handleEvaluateRun(context.Background(), nil, EvaluateRunInput{RunID: run.ID})
	require.NoError(t, err)
	assert.Equal(t, 5, output.Count)
	for _, r := range output.Ratings {
		assert.GreaterOrEqual(t, r.Rating, 1.0)
		assert.Less(t, r.Rating, 5.0)
		assert.Equal(t, "simulated", r.RaterID)
		assert.Contains(t, r.Output, "Mock response to:")
	}
}

func TestServer_handleEvolveRun(t *testing.T) {
	ctx := context.Background()
	server, _, run := newTestServer(t)

	_, output, err := server.handleEvolveRun(ctx, nil, EvolveRunInput{RunID: run.ID, Evaluate: true})
	require.NoError(t, err)
	assert.Equal(t, run.ID, output.RunID)
	assert.Equal(t, 1, output.Generation)
	assert.Equal(t, 5, output.Parent.Rated)
	assert.Len(t, output.Genomes, 5)

	_, _, err = server.handleEvolveRun(ctx, nil, EvolveRunInput{RunID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServer_handleGetLineage(t *testing.T) {
	ctx := context.Background()
	server, _, run := newTestServer(t)

	_, evolved, err := server.handleEvolveRun(ctx, nil, EvolveRunInput{RunID: run.ID})
	require.NoError(t, err)
	child := evolved.Genomes[len(evolved.Genomes)-1]

	_, output, err := server.handleGetLineage(ctx, nil, GetLineageInput{GenomeID: child.ID})
	require.NoError(t, err)
	require.Len(t, output.Entries, 2)
	assert.Equal(t, child.ID, output.Entries[0].GenomeID)
	assert.Equal(t, 1, output.Entries[0].Generation)
	assert.Equal(t, string(domain.SourceInitial), output.Entries[1].Operation)

	_, _, err = server.handleGetLineage(ctx, nil, GetLineageInput{GenomeID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
