package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptbreeder/internal/adapters/driven/oracle"
	"github.com/custodia-labs/promptbreeder/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
	"github.com/custodia-labs/promptbreeder/internal/core/services"
)

// newTestServer returns a server over in-memory stores with a simulated
// oracle, and one started run.
func newTestServer(t *testing.T) (*Server, *services.BreederService, *domain.Run) {
	t.Helper()

	genomes := memory.NewGenomeStore()
	fitness := memory.NewFitnessStore()
	breeder := services.NewBreederService(
		memory.NewRunStore(genomes, fitness), genomes, fitness,
		oracle.NewSimulatedOracle(1, nil),
	)

	run, err := breeder.StartRun(context.Background(), driving.StartRunRequest{
		Name:        "stories",
		BaseContent: "Write a story\nKeep it short",
		Config:      domain.EvolutionConfig{PopulationSize: 5, MutationRate: 0.2, CrossoverRate: 0.7},
		Seed:        11,
	})
	require.NoError(t, err)

	server, err := NewServer(&Ports{Breeder: breeder})
	require.NoError(t, err)
	return server, breeder, run
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}
