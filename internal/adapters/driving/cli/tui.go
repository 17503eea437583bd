package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptbreeder/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [run-id]",
	Short: "Rate and evolve a run interactively",
	Long: `Launch the interactive terminal UI for a run.

The left pane ranks the current generation, the right pane shows the
selected prompt.

Controls:
  ↑/k, ↓/j - Select a prompt
  1-5      - Rate the selected prompt
  e        - Evolve the next generation
  o        - Rate the generation with the oracle
  r        - Refresh
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := requireBreeder(); err != nil {
		return err
	}
	if _, err := breederService.GetRun(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	app, err := tui.NewApp(&tui.Ports{Breeder: breederService}, args[0])
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
