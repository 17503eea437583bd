// Package cli implements the promptbreeder command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
	"github.com/custodia-labs/promptbreeder/internal/logger"
)

// version is overridden at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Services are the driving ports the commands operate on.
type Services struct {
	Breeder  driving.BreederService
	Settings driving.SettingsService
}

// Options are the global flags, passed to the Bootstrap function.
type Options struct {
	DataDir string
	Verbose bool

	// Oracle is set for commands that evaluate genomes. Other commands
	// run without one.
	Oracle bool
}

// Bootstrap builds the services once global flags are parsed.
// The returned function releases them.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	breederService  driving.BreederService
	settingsService driving.SettingsService

	bootstrap Bootstrap
	release   func()

	verbose bool
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "promptbreeder",
	Short: "Evolve prompts with a genetic algorithm",
	Long: `promptbreeder evolves a population of prompt variants.

Start a run from a base prompt, rate the variants yourself or with an
oracle, and breed the next generation from the best of them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.promptbreeder)")
}

// SetServices injects services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	if s == nil {
		breederService, settingsService = nil, nil
		return
	}
	breederService = s.Breeder
	settingsService = s.Settings
}

// SetBootstrap registers the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if release != nil {
			release()
			release = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil || breederService != nil || skipsServices(cmd) {
		return nil
	}

	s, cleanup, err := bootstrap(cmd.Context(), Options{
		DataDir: dataDir,
		Verbose: verbose,
		Oracle:  needsOracle(cmd),
	})
	if err != nil {
		return err
	}
	SetServices(s)
	release = cleanup
	return nil
}

// skipsServices reports whether cmd runs without a data directory.
func skipsServices(cmd *cobra.Command) bool {
	return cmd == versionCmd || cmd.Name() == "help"
}

// needsOracle reports whether cmd can reach the fitness oracle.
func needsOracle(cmd *cobra.Command) bool {
	switch cmd {
	case evaluateCmd, tuiCmd, mcpCmd:
		return true
	case evolveCmd:
		return evolveEvaluate
	}
	return false
}

func requireBreeder() error {
	if breederService == nil {
		return errors.New("breeder service not configured")
	}
	return nil
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}
