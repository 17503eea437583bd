package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

var (
	runBase          string
	runName          string
	runSize          int
	runMutationRate  float64
	runCrossoverRate float64
	runSeed          int64
	runGeneration    int
	runListJSON      bool
	runShowJSON      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Manage evolution runs",
}

var runStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a run from a base prompt",
	Long: `Start a new run and build generation 0 from the base prompt.

Unset flags fall back to the evolution settings. A fixed --seed makes the
run reproducible.`,
	Args: cobra.NoArgs,
	RunE: runRunStart,
}

var runListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs",
	Args:  cobra.NoArgs,
	RunE:  runRunList,
}

var runShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a generation ranked by rating",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunShow,
}

var runDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete a run and its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunDelete,
}

func init() {
	runStartCmd.Flags().StringVarP(&runBase, "base", "b", "", "base prompt")
	runStartCmd.Flags().StringVar(&runName, "name", "", "run name")
	runStartCmd.Flags().IntVar(&runSize, "size", 0, "population size")
	runStartCmd.Flags().Float64Var(&runMutationRate, "mutation-rate", 0, "mutation rate in [0,1]")
	runStartCmd.Flags().Float64Var(&runCrossoverRate, "crossover-rate", 0, "crossover rate in [0,1]")
	runStartCmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed (0 = time based)")

	runShowCmd.Flags().IntVarP(&runGeneration, "generation", "g", driving.CurrentGeneration,
		"generation to show (default latest)")
	runShowCmd.Flags().BoolVar(&runShowJSON, "json", false, "output as JSON")
	runListCmd.Flags().BoolVar(&runListJSON, "json", false, "output as JSON")

	runCmd.AddCommand(runStartCmd)
	runCmd.AddCommand(runListCmd)
	runCmd.AddCommand(runShowCmd)
	runCmd.AddCommand(runDeleteCmd)
	rootCmd.AddCommand(runCmd)
}

func runRunStart(cmd *cobra.Command, _ []string) error {
	if err := requireBreeder(); err != nil {
		return err
	}
	if !cmd.Flags().Changed("base") {
		return errors.New("--base is required")
	}

	cfg, err := startConfig(cmd)
	if err != nil {
		return err
	}

	run, err := breederService.StartRun(cmd.Context(), driving.StartRunRequest{
		Name:        runName,
		BaseContent: runBase,
		Config:      cfg,
		Seed:        runSeed,
	})
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}

	cmd.Println("Started run.")
	printRun(cmd, run)
	return nil
}

// startConfig overlays changed flags on the configured evolution defaults.
func startConfig(cmd *cobra.Command) (domain.EvolutionConfig, error) {
	cfg := domain.DefaultEvolutionConfig()
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return cfg, fmt.Errorf("failed to get settings: %w", err)
		}
		cfg = settings.Evolution
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.PopulationSize = runSize
	}
	if flags.Changed("mutation-rate") {
		cfg.MutationRate = runMutationRate
	}
	if flags.Changed("crossover-rate") {
		cfg.CrossoverRate = runCrossoverRate
	}
	return cfg, nil
}

func runRunList(cmd *cobra.Command, _ []string) error {
	if err := requireBreeder(); err != nil {
		return err
	}

	runs, err := breederService.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if runListJSON {
		return outputJSON(cmd, runs)
	}

	if len(runs) == 0 {
		cmd.Println("No runs. Start one with 'promptbreeder run start --base \"...\"'.")
		return nil
	}

	cmd.Println("Runs:")
	for i := range runs {
		cmd.Printf("  %s  gen=%d  size=%d  %s\n",
			runs[i].ID, runs[i].Generation, runs[i].Config.PopulationSize, runs[i].Name)
	}
	return nil
}

func runRunShow(cmd *cobra.Command, args []string) error {
	if err := requireBreeder(); err != nil {
		return err
	}

	report, err := breederService.Rankings(cmd.Context(), args[0], runGeneration)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	if runShowJSON {
		return outputJSON(cmd, report)
	}

	printRun(cmd, &report.Run)
	cmd.Println()
	printReport(cmd, report)
	return nil
}

func runRunDelete(cmd *cobra.Command, args []string) error {
	if err := requireBreeder(); err != nil {
		return err
	}

	if err := breederService.DeleteRun(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	cmd.Printf("Deleted run: %s\n", args[0])
	return nil
}
