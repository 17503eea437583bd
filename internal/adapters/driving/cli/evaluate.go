package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [run-id]",
	Short: "Rate the current generation with the oracle",
	Long: `Ask the configured fitness oracle to rate every genome in the run's
current generation. Set the oracle with 'promptbreeder settings set oracle.kind'.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	if err := requireBreeder(); err != nil {
		return err
	}

	records, err := breederService.Evaluate(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to evaluate run: %w", err)
	}

	cmd.Printf("Recorded %d ratings.\n", len(records))
	for i := range records {
		cmd.Printf("  %s  %.2f  %s\n", records[i].GenomeID, records[i].Rating, preview(records[i].Output))
	}
	return nil
}
