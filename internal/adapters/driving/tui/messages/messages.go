// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

// GenerationLoaded carries the ranked current generation.
type GenerationLoaded struct {
	Report *driving.GenerationReport
	Err    error
}

// GenomeRated is sent after a rating is recorded.
type GenomeRated struct {
	Record *domain.FitnessRecord
	Err    error
}

// OracleFinished is sent after the oracle rated the generation.
type OracleFinished struct {
	Records []domain.FitnessRecord
	Err     error
}

// Evolved is sent after the next generation was bred.
type Evolved struct {
	Result *driving.EvolveResult
	Err    error
}
