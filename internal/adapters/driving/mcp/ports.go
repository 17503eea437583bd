package mcp

import (
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Breeder manages runs, ratings and evolution.
	Breeder driving.BreederService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Breeder == nil {
		return ErrMissingBreederService
	}
	return nil
}
