package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	evolveGenerations int
	evolveEvaluate    bool
)

var evolveCmd = &cobra.Command{
	Use:   "evolve [run-id]",
	Short: "Breed the next generation",
	Long: `Breed the next generation from the current one and its ratings.

With --evaluate the oracle rates each generation before it is bred, so
--generations N runs N unattended steps.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvolve,
}

func init() {
	evolveCmd.Flags().IntVarP(&evolveGenerations, "generations", "n", 1, "number of generations to breed")
	evolveCmd.Flags().BoolVar(&evolveEvaluate, "evaluate", false, "rate each generation with the oracle first")
	rootCmd.AddCommand(evolveCmd)
}

func runEvolve(cmd *cobra.Command, args []string) error {
	if err := requireBreeder(); err != nil {
		return err
	}
	if evolveGenerations < 1 {
		return errors.New("--generations must be at least 1")
	}

	ctx := cmd.Context()
	runID := args[0]
	for range evolveGenerations {
		if evolveEvaluate {
			if _, err := breederService.Evaluate(ctx, runID); err != nil {
				return fmt.Errorf("failed to evaluate run: %w", err)
			}
		}

		result, err := breederService.Evolve(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to evolve run: %w", err)
		}

		cmd.Printf("Generation %d -> %d\n", result.Run.Generation-1, result.Run.Generation)
		printStats(cmd, result.Parent)
	}
	return nil
}
