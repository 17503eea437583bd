package domain

import (
	"math"
	"time"
)

// FitnessRecord is one rating of one genome within one generation.
// Ratings have no enforced range; higher is better.
type FitnessRecord struct {
	// ID is the unique identifier.
	ID string

	// RunID is the run the genome belongs to.
	RunID string

	// GenomeID identifies the rated genome.
	GenomeID string

	// Generation is the generation the rating applies to.
	Generation int

	// Rating is the score.
	Rating float64

	// RaterID identifies who produced the rating (a user, or an oracle).
	RaterID string

	// Output is the model output that was rated, if known.
	Output string

	// CreatedAt is when the rating was recorded.
	CreatedAt time.Time
}

// ValidRating reports whether r can be averaged.
func ValidRating(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0)
}

// RankedGenome is a genome with its aggregated fitness for one generation.
type RankedGenome struct {
	Genome Genome

	// MeanFitness is the average rating, 0 when unrated.
	MeanFitness float64

	// Ratings is the number of records that contributed.
	Ratings int

	// Rank is the zero-based position after sorting.
	Rank int
}

// GenerationStats summarises a ranked generation.
type GenerationStats struct {
	Size  int
	Rated int
	Best  float64
	Mean  float64
	Worst float64
}
