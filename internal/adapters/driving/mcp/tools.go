package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

// DefaultRaterID is recorded for ratings submitted through MCP without a rater.
const DefaultRaterID = "mcp"

// ListRunsInput is the input schema for the list_runs tool.
type ListRunsInput struct{}

// ListRunsOutput is the output schema for the list_runs tool.
type ListRunsOutput struct {
	Runs  []RunOutput `json:"runs"`
	Count int         `json:"count"`
}

// RunOutput summarises a run.
type RunOutput struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	Generation     int     `json:"generation"`
	PopulationSize int     `json:"population_size"`
	MutationRate   float64 `json:"mutation_rate"`
	CrossoverRate  float64 `json:"crossover_rate"`
	Seed           int64   `json:"seed"`
	BaseContent    string  `json:"base_content"`
}

// GetPopulationInput is the input schema for the get_population tool.
type GetPopulationInput struct {
	RunID      string `json:"run_id" jsonschema:"the run to read"`
	Generation *int   `json:"generation,omitempty" jsonschema:"generation number (default latest)"`
}

// GetPopulationOutput is the output schema for the get_population tool.
type GetPopulationOutput struct {
	RunID      string         `json:"run_id"`
	Generation int            `json:"generation"`
	Genomes    []GenomeOutput `json:"genomes"`
	Stats      StatsOutput    `json:"stats"`
}

// GenomeOutput is one ranked genome.
type GenomeOutput struct {
	ID          string  `json:"id"`
	Rank        int     `json:"rank"`
	Content     string  `json:"content"`
	MeanFitness float64 `json:"mean_fitness"`
	Ratings     int     `json:"ratings"`
	Source      string  `json:"source,omitempty"`
	ParentID    string  `json:"parent_id,omitempty"`
	Complexity  int     `json:"complexity"`
}

// StatsOutput summarises a generation's ratings.
type StatsOutput struct {
	Size  int     `json:"size"`
	Rated int     `json:"rated"`
	Best  float64 `json:"best"`
	Mean  float64 `json:"mean"`
	Worst float64 `json:"worst"`
}

// RateGenomeInput is the input schema for the rate_genome tool.
type RateGenomeInput struct {
	GenomeID string  `json:"genome_id" jsonschema:"the genome to rate"`
	Rating   float64 `json:"rating" jsonschema:"the rating, higher is better (1-5 by convention)"`
	RaterID  string  `json:"rater_id,omitempty" jsonschema:"who is rating (default mcp)"`
	Output   string  `json:"output,omitempty" jsonschema:"the model output that was rated"`
}

// RateGenomeOutput is the output schema for the rate_genome tool.
type RateGenomeOutput struct {
	RecordID   string  `json:"record_id"`
	RunID      string  `json:"run_id"`
	Generation int     `json:"generation"`
	Rating     float64 `json:"rating"`
}

// EvolveRunInput is the input schema for the evolve_run tool.
type EvolveRunInput struct {
	RunID    string `json:"run_id" jsonschema:"the run to evolve"`
	Evaluate bool   `json:"evaluate,omitempty" jsonschema:"rate the current generation with the oracle first"`
}

// EvolveRunOutput is the output schema for the evolve_run tool.
type EvolveRunOutput struct {
	RunID      string         `json:"run_id"`
	Generation int            `json:"generation"`
	Parent     StatsOutput    `json:"parent"`
	Genomes    []GenomeOutput `json:"genomes"`
}

// EvaluateRunInput is the input schema for the evaluate_run tool.
type EvaluateRunInput struct {
	RunID string `json:"run_id" jsonschema:"the run whose current generation to rate"`
}

// EvaluateRunOutput is the output schema for the evaluate_run tool.
type EvaluateRunOutput struct {
	Ratings []RatingOutput `json:"ratings"`
	Count   int            `json:"count"`
}

// RatingOutput is one recorded rating.
type RatingOutput struct {
	GenomeID string  `json:"genome_id"`
	Rating   float64 `json:"rating"`
	RaterID  string  `json:"rater_id"`
	Output   string  `json:"output,omitempty"`
}

// GetLineageInput is the input schema for the get_lineage tool.
type GetLineageInput struct {
	GenomeID string `json:"genome_id" jsonschema:"the genome whose ancestry to walk"`
}

// GetLineageOutput is the output schema for the get_lineage tool.
type GetLineageOutput struct {
	Entries []LineageOutput `json:"entries"`
}

// LineageOutput is one ancestor, newest first.
type LineageOutput struct {
	GenomeID   string `json:"genome_id"`
	Generation int    `json:"generation"`
	Operation  string `json:"operation,omitempty"`
	Content    string `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_runs",
		Description: "List prompt evolution runs, most recent first",
	}, s.handleListRuns)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_population",
		Description: "Get a generation of a run ranked by mean rating",
	}, s.handleGetPopulation)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rate_genome",
		Description: "Record a rating for a prompt in its latest generation",
	}, s.handleRateGenome)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evolve_run",
		Description: "Breed the next generation of a run from its ratings",
	}, s.handleEvolveRun)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_run",
		Description: "Rate the current generation of a run with the configured oracle",
	}, s.handleEvaluateRun)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_lineage",
		Description: "Walk a prompt's ancestry back to generation 0",
	}, s.handleGetLineage)
}

func (s *Server) handleListRuns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListRunsInput,
) (*mcp.CallToolResult, ListRunsOutput, error) {
	runs, err := s.ports.Breeder.ListRuns(ctx)
	if err != nil {
		return nil, ListRunsOutput{}, fmt.Errorf("listing runs: %w", err)
	}

	output := ListRunsOutput{Runs: make([]RunOutput, len(runs)), Count: len(runs)}
	for i := range runs {
		output.Runs[i] = toRunOutput(&runs[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetPopulation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetPopulationInput,
) (*mcp.CallToolResult, GetPopulationOutput, error) {
	generation := driving.CurrentGeneration
	if input.Generation != nil {
		generation = *input.Generation
	}

	report, err := s.ports.Breeder.Rankings(ctx, input.RunID, generation)
	if err != nil {
		return nil, GetPopulationOutput{}, fmt.Errorf("getting population: %w", err)
	}

	return nil, GetPopulationOutput{
		RunID:      report.Run.ID,
		Generation: report.Generation,
		Genomes:    toGenomeOutputs(report.Ranked),
		Stats:      toStatsOutput(report.Stats),
	}, nil
}

func (s *Server) handleRateGenome(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RateGenomeInput,
) (*mcp.CallToolResult, RateGenomeOutput, error) {
	raterID := input.RaterID
	if raterID == "" {
		raterID = DefaultRaterID
	}

	record, err := s.ports.Breeder.Rate(ctx, driving.RateRequest{
		GenomeID: input.GenomeID,
		Rating:   input.Rating,
		RaterID:  raterID,
		Output:   input.Output,
	})
	if err != nil {
		return nil, RateGenomeOutput{}, fmt.Errorf("rating genome: %w", err)
	}

	return nil, RateGenomeOutput{
		RecordID:   record.ID,
		RunID:      record.RunID,
		Generation: record.Generation,
		Rating:     record.Rating,
	}, nil
}

func (s *Server) handleEvolveRun(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EvolveRunInput,
) (*mcp.CallToolResult, EvolveRunOutput, error) {
	if input.Evaluate {
		if _, err := s.ports.Breeder.Evaluate(ctx, input.RunID); err != nil {
			return nil, EvolveRunOutput{}, fmt.Errorf("evaluating run: %w", err)
		}
	}

	result, err := s.ports.Breeder.Evolve(ctx, input.RunID)
	if err != nil {
		return nil, EvolveRunOutput{}, fmt.Errorf("evolving run: %w", err)
	}

	genomes := make([]GenomeOutput, len(result.Population))
	for i, g := range result.Population {
		genomes[i] = toGenomeOutput(domain.RankedGenome{Genome: g, Rank: i})
	}
	return nil, EvolveRunOutput{
		RunID:      result.Run.ID,
		Generation: result.Run.Generation,
		Parent:     toStatsOutput(result.Parent),
		Genomes:    genomes,
	}, nil
}

func (s *Server) handleEvaluateRun(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EvaluateRunInput,
) (*mcp.CallToolResult, EvaluateRunOutput, error) {
	records, err := s.ports.Breeder.Evaluate(ctx, input.RunID)
	if err != nil {
		return nil, EvaluateRunOutput{}, fmt.Errorf("evaluating run: %w", err)
	}

	output := EvaluateRunOutput{Ratings: make([]RatingOutput, len(records)), Count: len(records)}
	for i := range records {
		output.Ratings[i] = RatingOutput{
			GenomeID: records[i].GenomeID,
			Rating:   records[i].Rating,
			RaterID:  records[i].RaterID,
			Output:   records[i].Output,
		}
	}
	return nil, output, nil
}

func (s *Server) handleGetLineage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetLineageInput,
) (*mcp.CallToolResult, GetLineageOutput, error) {
	lineage, err := s.ports.Breeder.Lineage(ctx, input.GenomeID)
	if err != nil {
		return nil, GetLineageOutput{}, fmt.Errorf("getting lineage: %w", err)
	}

	output := GetLineageOutput{Entries: make([]LineageOutput, len(lineage))}
	for i := range lineage {
		output.Entries[i] = LineageOutput{
			GenomeID:   lineage[i].Genome.ID,
			Generation: lineage[i].Generation,
			Operation:  lineage[i].Operation.String(),
			Content:    lineage[i].Genome.Content,
		}
	}
	return nil, output, nil
}

func toRunOutput(run *domain.Run) RunOutput {
	return RunOutput{
		ID:             run.ID,
		Name:           run.Name,
		Generation:     run.Generation,
		PopulationSize: run.Config.PopulationSize,
		MutationRate:   run.Config.MutationRate,
		CrossoverRate:  run.Config.CrossoverRate,
		Seed:           run.Seed,
		BaseContent:    run.BaseContent,
	}
}

func toGenomeOutputs(ranked []domain.RankedGenome) []GenomeOutput {
	out := make([]GenomeOutput, len(ranked))
	for i := range ranked {
		out[i] = toGenomeOutput(ranked[i])
	}
	return out
}

func toGenomeOutput(r domain.RankedGenome) GenomeOutput {
	return GenomeOutput{
		ID:          r.Genome.ID,
		Rank:        r.Rank,
		Content:     r.Genome.Content,
		MeanFitness: r.MeanFitness,
		Ratings:     r.Ratings,
		Source:      r.Genome.Source().String(),
		ParentID:    r.Genome.ParentID,
		Complexity:  r.Genome.ComplexityScore(),
	}
}

func toStatsOutput(stats domain.GenerationStats) StatsOutput {
	return StatsOutput{
		Size:  stats.Size,
		Rated: stats.Rated,
		Best:  stats.Best,
		Mean:  stats.Mean,
		Worst: stats.Worst,
	}
}
