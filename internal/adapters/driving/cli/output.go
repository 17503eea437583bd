package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

const previewWidth = 60

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printRun(cmd *cobra.Command, run *domain.Run) {
	cmd.Printf("Run: %s\n", run.ID)
	if run.Name != "" {
		cmd.Printf("  Name: %s\n", run.Name)
	}
	cmd.Printf("  Generation: %d\n", run.Generation)
	cmd.Printf("  Population size: %d\n", run.Config.PopulationSize)
	cmd.Printf("  Mutation rate: %.2f\n", run.Config.MutationRate)
	cmd.Printf("  Crossover rate: %.2f\n", run.Config.CrossoverRate)
	cmd.Printf("  Seed: %d\n", run.Seed)
	cmd.Printf("  Base prompt: %s\n", preview(run.BaseContent))
}

func printReport(cmd *cobra.Command, report *driving.GenerationReport) {
	cmd.Printf("Generation %d of %s\n", report.Generation, report.Run.DisplayName())
	printStats(cmd, report.Stats)
	cmd.Println()

	for _, r := range report.Ranked {
		rating := "unrated"
		if r.Ratings > 0 {
			rating = fmt.Sprintf("%.2f (%d)", r.MeanFitness, r.Ratings)
		}
		cmd.Printf("  [%d] %s  %s  lines=%d  %s\n",
			r.Rank+1, r.Genome.ID, rating, r.Genome.ComplexityScore(), r.Genome.Source())
		cmd.Printf("      %s\n", preview(r.Genome.Content))
	}
}

func printStats(cmd *cobra.Command, stats domain.GenerationStats) {
	if stats.Rated == 0 {
		cmd.Printf("  Rated: 0/%d\n", stats.Size)
		return
	}
	cmd.Printf("  Rated: %d/%d  best=%.2f  mean=%.2f  worst=%.2f\n",
		stats.Rated, stats.Size, stats.Best, stats.Mean, stats.Worst)
}

// preview flattens content onto one line and truncates it.
func preview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= previewWidth {
		return flat
	}
	return string(runes[:previewWidth-3]) + "..."
}
