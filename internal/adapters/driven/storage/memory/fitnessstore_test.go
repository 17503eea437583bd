package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

func TestFitnessStore_AddAndList(t *testing.T) {
	store := NewFitnessStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, domain.FitnessRecord{RunID: "r", Generation: 0, GenomeID: "g1", Rating: 4}))
	require.NoError(t, store.Add(ctx, domain.FitnessRecord{RunID: "r", Generation: 0, GenomeID: "g2", Rating: 2}))
	require.NoError(t, store.Add(ctx, domain.FitnessRecord{RunID: "r", Generation: 1, GenomeID: "g1", Rating: 5}))
	require.NoError(t, store.Add(ctx, domain.FitnessRecord{RunID: "other", Generation: 0, GenomeID: "g9", Rating: 1}))

	gen0, err := store.ListByGeneration(ctx, "r", 0)
	require.NoError(t, err)
	require.Len(t, gen0, 2)
	assert.Equal(t, "g1", gen0[0].GenomeID)
	assert.Equal(t, "g2", gen0[1].GenomeID)
	assert.NotEmpty(t, gen0[0].ID)
	assert.False(t, gen0[0].CreatedAt.IsZero())

	byGenome, err := store.ListByGenome(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, byGenome, 2)

	none, err := store.ListByGeneration(ctx, "r", 7)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFitnessStore_DeleteRun(t *testing.T) {
	store := NewFitnessStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, domain.FitnessRecord{RunID: "a", GenomeID: "g1"}))
	require.NoError(t, store.Add(ctx, domain.FitnessRecord{RunID: "b", GenomeID: "g2"}))
	store.deleteRun("a")

	remaining, err := store.ListByGeneration(ctx, "b", 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
	gone, err := store.ListByGeneration(ctx, "a", 0)
	require.NoError(t, err)
	assert.Empty(t, gone)
}
