package evolution

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

func newTestManager(t *testing.T, size int, mutationRate, crossoverRate float64, seed int64) *Manager {
	t.Helper()
	m, err := NewManager(domain.EvolutionConfig{
		PopulationSize: size,
		MutationRate:   mutationRate,
		CrossoverRate:  crossoverRate,
	}, NewSeededSource(seed))
	require.NoError(t, err)
	return m
}

// persisted gives every genome an ID the way the storage layer would.
func persisted(population []domain.Genome, prefix string) []domain.Genome {
	out := make([]domain.Genome, len(population))
	for i, g := range population {
		g.ID = fmt.Sprintf("%s-%d", prefix, i)
		out[i] = g
	}
	return out
}

// ratedPopulation returns n persisted genomes where genome i is rated i.
func ratedPopulation(n int) ([]domain.Genome, []domain.FitnessRecord) {
	population := make([]domain.Genome, n)
	records := make([]domain.FitnessRecord, n)
	for i := range n {
		id := fmt.Sprintf("g%d", i)
		population[i] = domain.Genome{ID: id, Content: fmt.Sprintf("Prompt %d\nline two", i)}
		records[i] = domain.FitnessRecord{GenomeID: id, Rating: float64(i)}
	}
	return population, records
}

func TestNewManager(t *testing.T) {
	t.Run("invalid configuration", func(t *testing.T) {
		_, err := NewManager(domain.EvolutionConfig{PopulationSize: 0}, NewSeededSource(1))
		assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
	})

	t.Run("nil source", func(t *testing.T) {
		_, err := NewManager(domain.DefaultEvolutionConfig(), nil)
		assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
	})

	t.Run("exposes config and mutator", func(t *testing.T) {
		m := newTestManager(t, 5, 0.1, 0.7, 1)
		assert.Equal(t, 5, m.Config().PopulationSize)
		assert.NotNil(t, m.Mutator())
	})
}

func TestManager_Initialize(t *testing.T) {
	t.Run("builds the configured size with provenance", func(t *testing.T) {
		m := newTestManager(t, 8, 0.1, 0.7, 42)
		population, err := m.Initialize("Write a story")
		require.NoError(t, err)
		require.Len(t, population, 8)

		for i, g := range population {
			assert.NotEmpty(t, g.Content)
			assert.Empty(t, g.ID)
			assert.Empty(t, g.ParentID)
			assert.Equal(t, domain.SourceInitial, g.Source())
			assert.Equal(t, i, g.Metadata[domain.MetaVariantID])
		}
	})

	t.Run("explicit size", func(t *testing.T) {
		m := newTestManager(t, 8, 0.1, 0.7, 42)
		population, err := m.InitializeN("Write a story", 3)
		require.NoError(t, err)
		assert.Len(t, population, 3)
	})

	t.Run("non-positive size", func(t *testing.T) {
		m := newTestManager(t, 8, 0.1, 0.7, 42)
		_, err := m.InitializeN("Write a story", 0)
		assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
	})

	t.Run("empty base does not error", func(t *testing.T) {
		m := newTestManager(t, 10, 0.1, 0.7, 42)
		population, err := m.Initialize("")
		require.NoError(t, err)
		assert.Len(t, population, 10)
	})
}

// Scenario: base "Write a story", size 5, both rates zero.
func TestManager_ZeroRatesScenario(t *testing.T) {
	const base = "Write a story"
	m := newTestManager(t, 5, 0, 0, 2024)

	population, err := m.Initialize(base)
	require.NoError(t, err)

	allowed := map[string]bool{base: true} // reorder is a no-op on one line
	for _, s := range Catalog(OpAddInstruction) {
		allowed[base+"\n\n"+s] = true
	}
	for _, s := range Catalog(OpAddExample) {
		allowed[base+"\n\n"+s] = true
	}
	for _, s := range Catalog(OpChangeTone) {
		allowed[s+"\n\n"+base] = true
	}
	for _, g := range population {
		assert.True(t, allowed[g.Content], "unexpected initial variant %q", g.Content)
	}

	population = persisted(population, "gen0")
	records := make([]domain.FitnessRecord, len(population))
	for i, g := range population {
		records[i] = domain.FitnessRecord{GenomeID: g.ID, Rating: float64(len(population) - i)}
	}

	next, err := m.Evolve(population, records)
	require.NoError(t, err)
	require.Len(t, next, 5)

	// Pool is the top two: gen0-0 and gen0-1.
	byID := map[string]string{population[0].ID: population[0].Content, population[1].ID: population[1].Content}
	for _, child := range next[1:] {
		assert.Equal(t, domain.SourceMutation, child.Source())
		want, ok := byID[child.ParentID]
		require.True(t, ok, "parent %q is not in the selection pool", child.ParentID)
		assert.Equal(t, want, child.Content)
		assert.Equal(t, child.ParentID, child.Metadata[domain.MetaParentID])
	}
}

func TestManager_Evolve_Errors(t *testing.T) {
	t.Run("empty population", func(t *testing.T) {
		m := newTestManager(t, 5, 0.1, 0.7, 1)
		_, err := m.Evolve(nil, nil)
		assert.True(t, errors.Is(err, domain.ErrInvalidPopulation))
	})

	t.Run("empty selection pool", func(t *testing.T) {
		m := newTestManager(t, 1, 0.1, 0.7, 1)
		population, records := ratedPopulation(1)
		_, err := m.Evolve(population, records)
		assert.True(t, errors.Is(err, domain.ErrInvalidPopulation))
	})
}

func TestManager_Evolve_Size(t *testing.T) {
	for _, inputSize := range []int{1, 3, 10, 25} {
		t.Run(fmt.Sprintf("input %d", inputSize), func(t *testing.T) {
			m := newTestManager(t, 10, 0.5, 0.7, int64(inputSize))
			population, records := ratedPopulation(inputSize)
			next, err := m.Evolve(population, records)
			require.NoError(t, err)
			assert.Len(t, next, 10)
		})
	}
}

func TestManager_Evolve_Elitism(t *testing.T) {
	m := newTestManager(t, 10, 1, 1, 3)
	population, records := ratedPopulation(10)

	next, err := m.Evolve(population, records)
	require.NoError(t, err)

	// max(1, 10/5) = 2 elites: the two best, in rank order, byte-identical.
	assert.Equal(t, population[9], next[0])
	assert.Equal(t, population[8], next[1])
}

func TestManager_Evolve_DoesNotAliasInput(t *testing.T) {
	m := newTestManager(t, 6, 1, 1, 4)
	population, records := ratedPopulation(6)
	population[5].Metadata = map[string]any{domain.MetaSource: domain.SourceInitial}
	before := make([]domain.Genome, len(population))
	for i, g := range population {
		before[i] = g.Clone()
	}

	next, err := m.Evolve(population, records)
	require.NoError(t, err)
	next[0].Metadata[domain.MetaSource] = "edited"

	assert.Equal(t, before, population)
}

func TestManager_Evolve_Determinism(t *testing.T) {
	population, records := ratedPopulation(12)

	run := func() []domain.Genome {
		m := newTestManager(t, 12, 0.6, 0.8, 77)
		next, err := m.Evolve(population, records)
		require.NoError(t, err)
		return next
	}

	assert.Equal(t, run(), run())
}

func TestManager_Evolve_ParentsComeFromPool(t *testing.T) {
	m := newTestManager(t, 10, 0, 1, 5)
	population, records := ratedPopulation(10)

	next, err := m.Evolve(population, records)
	require.NoError(t, err)

	pool := map[string]bool{"g9": true, "g8": true, "g7": true, "g6": true, "g5": true}
	for _, child := range next[2:] {
		assert.True(t, pool[child.ParentID], "parent %q outside pool", child.ParentID)
		if child.Source() == domain.SourceCrossover {
			p1, _ := child.Metadata[domain.MetaParent1ID].(string)
			p2, _ := child.Metadata[domain.MetaParent2ID].(string)
			assert.Equal(t, child.ParentID, p1)
			assert.True(t, pool[p2])
			assert.NotEqual(t, p1, p2)
		}
	}
}

func TestManager_Evolve_UnpersistedGenomes(t *testing.T) {
	m := newTestManager(t, 6, 0, 1, 6)
	population, err := m.Initialize("Write a story\nabout a fox\nin winter")
	require.NoError(t, err)

	// Without IDs nothing can be rated, and distinct pool slots still cross over.
	next, err := m.Evolve(population, nil)
	require.NoError(t, err)
	assert.Len(t, next, 6)
}
