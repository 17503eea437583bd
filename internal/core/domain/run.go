package domain

import "time"

// Run is one evolution session: a base prompt, its configuration and the
// current generation. It replaces any process-wide "active population".
type Run struct {
	// ID is the unique identifier.
	ID string

	// Name is an optional human label.
	Name string

	// BaseContent is the prompt generation 0 was derived from.
	BaseContent string

	// Config holds the population size and operator rates.
	Config EvolutionConfig

	// Seed drives the random source. Generation g evolves with Seed+g.
	Seed int64

	// Generation is the latest generation that has a population.
	Generation int

	// CreatedAt is when the run was started.
	CreatedAt time.Time

	// UpdatedAt is when the run last advanced.
	UpdatedAt time.Time
}

// DisplayName returns the name, falling back to the ID.
func (r Run) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// GenerationSeed returns the seed used to breed the given generation.
func (r Run) GenerationSeed(generation int) int64 {
	return r.Seed + int64(generation)
}

// LineageEntry is one step of a genome's ancestry.
type LineageEntry struct {
	Genome     Genome
	Generation int
	Operation  GenomeSource
}
