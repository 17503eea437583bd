package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

const (
	// uriScheme is the custom URI scheme for promptbreeder resources.
	uriScheme = "promptbreeder://"

	jsonMIME = "application/json"
)

// runResource is the body of a promptbreeder://runs/{id} resource.
type runResource struct {
	Run     RunOutput      `json:"run"`
	Genomes []GenomeOutput `json:"genomes"`
	Stats   StatsOutput    `json:"stats"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "All prompt evolution runs",
		MIMEType:    jsonMIME,
	}, s.handleRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{id}",
		Name:        "run",
		Description: "A run with its current generation ranked by rating",
		MIMEType:    jsonMIME,
	}, s.handleRunResource)
}

func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runs, err := s.ports.Breeder.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]RunOutput, len(runs))
	for i := range runs {
		infos[i] = toRunOutput(&runs[i])
	}
	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.ports.Breeder.Rankings(ctx, runID, driving.CurrentGeneration)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	return jsonResource(req.Params.URI, runResource{
		Run:     toRunOutput(&report.Run),
		Genomes: toGenomeOutputs(report.Ranked),
		Stats:   toStatsOutput(report.Stats),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIME,
			Text:     string(data),
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like promptbreeder://runs/{id}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
