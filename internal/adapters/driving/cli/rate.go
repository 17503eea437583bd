package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

var (
	rateRater  string
	rateOutput string
)

var rateCmd = &cobra.Command{
	Use:   "rate [flags] [genome-id] [rating]",
	Short: "Rate a genome",
	Long: `Record a rating for a genome in the latest generation it belongs to.

Ratings are plain numbers, negative ones included; higher is better. A
genome's fitness is the mean of its ratings within a generation.

Flags go before the genome id:

  promptbreeder rate --rater alice 3f2c... -1.5`,
	Args: cobra.ExactArgs(2),
	RunE: runRate,
}

func init() {
	rateCmd.Flags().StringVar(&rateRater, "rater", "", "rater id (default \"human\")")
	rateCmd.Flags().StringVar(&rateOutput, "output", "", "model output that was rated")
	// Everything after the genome id is positional, so "-1.5" is a rating.
	rateCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(rateCmd)
}

func runRate(cmd *cobra.Command, args []string) error {
	if err := requireBreeder(); err != nil {
		return err
	}

	rating, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid rating %q: %w", args[1], err)
	}

	record, err := breederService.Rate(cmd.Context(), driving.RateRequest{
		GenomeID: args[0],
		Rating:   rating,
		RaterID:  rateRater,
		Output:   rateOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to rate genome: %w", err)
	}

	cmd.Printf("Rated %s %.2f (run %s, generation %d, rater %s)\n",
		record.GenomeID, record.Rating, record.RunID, record.Generation, record.RaterID)
	return nil
}
