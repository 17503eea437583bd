package evolution

import (
	"sort"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// Rank orders a population by mean fitness, highest first. Ties keep their
// input order. Genomes without records, or without an ID, score 0.
// Records with NaN or infinite ratings are ignored.
func Rank(population []domain.Genome, records []domain.FitnessRecord) []domain.RankedGenome {
	type tally struct {
		sum   float64
		count int
	}
	byGenome := make(map[string]*tally, len(population))
	for _, r := range records {
		if r.GenomeID == "" || !domain.ValidRating(r.Rating) {
			continue
		}
		t, ok := byGenome[r.GenomeID]
		if !ok {
			t = &tally{}
			byGenome[r.GenomeID] = t
		}
		t.sum += r.Rating
		t.count++
	}

	ranked := make([]domain.RankedGenome, len(population))
	for i, g := range population {
		ranked[i] = domain.RankedGenome{Genome: g}
		if g.ID == "" {
			continue
		}
		if t, ok := byGenome[g.ID]; ok {
			ranked[i].MeanFitness = t.sum / float64(t.count)
			ranked[i].Ratings = t.count
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanFitness > ranked[j].MeanFitness
	})
	for i := range ranked {
		ranked[i].Rank = i
	}
	return ranked
}

// Summarize computes statistics for a ranked generation.
// Best, Mean and Worst cover rated genomes only.
func Summarize(ranked []domain.RankedGenome) domain.GenerationStats {
	stats := domain.GenerationStats{Size: len(ranked)}
	var sum float64
	for _, r := range ranked {
		if r.Ratings == 0 {
			continue
		}
		if stats.Rated == 0 || r.MeanFitness > stats.Best {
			stats.Best = r.MeanFitness
		}
		if stats.Rated == 0 || r.MeanFitness < stats.Worst {
			stats.Worst = r.MeanFitness
		}
		sum += r.MeanFitness
		stats.Rated++
	}
	if stats.Rated > 0 {
		stats.Mean = sum / float64(stats.Rated)
	}
	return stats
}
