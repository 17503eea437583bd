package domain

import "fmt"

// Defaults for a new run.
const (
	DefaultPopulationSize = 15
	DefaultMutationRate   = 0.1
	DefaultCrossoverRate  = 0.7
)

// EvolutionConfig is the configuration surface of the evolution core.
type EvolutionConfig struct {
	// PopulationSize is the number of genomes per generation. Must be > 0.
	PopulationSize int

	// MutationRate is the probability of a mutation pass, in [0,1].
	MutationRate float64

	// CrossoverRate is the probability two distinct parents recombine, in [0,1].
	CrossoverRate float64
}

// DefaultEvolutionConfig returns the default configuration.
func DefaultEvolutionConfig() EvolutionConfig {
	return EvolutionConfig{
		PopulationSize: DefaultPopulationSize,
		MutationRate:   DefaultMutationRate,
		CrossoverRate:  DefaultCrossoverRate,
	}
}

// Validate checks the configuration. Errors wrap ErrInvalidConfiguration.
func (c EvolutionConfig) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population size must be > 0, got %d", ErrInvalidConfiguration, c.PopulationSize)
	}
	if !unitInterval(c.MutationRate) {
		return fmt.Errorf("%w: mutation rate must be in [0,1], got %v", ErrInvalidConfiguration, c.MutationRate)
	}
	if !unitInterval(c.CrossoverRate) {
		return fmt.Errorf("%w: crossover rate must be in [0,1], got %v", ErrInvalidConfiguration, c.CrossoverRate)
	}
	return nil
}

// SelectionPoolSize is the number of top-ranked genomes eligible as parents.
func (c EvolutionConfig) SelectionPoolSize() int {
	return c.PopulationSize / 2
}

// EliteCount is the number of genomes carried over unchanged.
func (c EvolutionConfig) EliteCount() int {
	return max(1, c.PopulationSize/5)
}

// unitInterval is false for NaN.
func unitInterval(v float64) bool {
	return v >= 0 && v <= 1
}
