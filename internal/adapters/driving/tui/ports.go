// Package tui provides an interactive terminal UI for rating and evolving a run.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
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
