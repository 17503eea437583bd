// Command promptbreeder evolves prompts with a genetic algorithm.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/promptbreeder/internal/adapters/driven/ai"
	"github.com/custodia-labs/promptbreeder/internal/adapters/driven/config/file"
	"github.com/custodia-labs/promptbreeder/internal/adapters/driven/oracle"
	"github.com/custodia-labs/promptbreeder/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/promptbreeder/internal/adapters/driving/cli"
	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
	"github.com/custodia-labs/promptbreeder/internal/core/services"
	"github.com/custodia-labs/promptbreeder/internal/logger"
)

var version = "dev"

func main() {
	// API keys may live in a local .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap opens the stores under the data directory and builds the services.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func(), error) {
	root := opts.DataDir
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("get home directory: %w", err)
		}
		root = filepath.Join(home, ".promptbreeder")
	}

	configStore, err := file.NewConfigStore(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open config: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(root, "prompts"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open prompts: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(root, "data"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("database: %s", store.Path())

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	// Without an oracle Evaluate fails with ErrOracleUnavailable; everything
	// else, including repairing the settings, still works.
	var (
		fitnessOracle driven.FitnessOracle
		llm           driven.LLMService
	)
	if opts.Oracle {
		fitnessOracle, llm, err = buildOracle(ctx, settings)
		if err != nil {
			logger.Warn("oracle unavailable: %v", err)
			fitnessOracle, llm = nil, nil
		}
	}
	if aware, ok := fitnessOracle.(driven.PromptStoreAware); ok {
		aware.SetPromptStore(prompts)
	}

	breeder := services.NewBreederService(store.RunStore(), store.GenomeStore(), store.FitnessStore(), fitnessOracle)

	cleanup := func() {
		if llm != nil {
			if err := llm.Close(); err != nil {
				logger.Warn("failed to close LLM service: %v", err)
			}
		}
		if err := store.Close(); err != nil {
			logger.Warn("failed to close database: %v", err)
		}
	}

	return &cli.Services{Breeder: breeder, Settings: settingsService}, cleanup, nil
}

// buildOracle selects the fitness oracle from settings. The returned LLM
// service, when non-nil, must be closed by the caller.
func buildOracle(ctx context.Context, settings *domain.AppSettings) (driven.FitnessOracle, driven.LLMService, error) {
	switch settings.Oracle.Kind {
	case domain.OracleNone:
		return nil, nil, nil

	case domain.OracleLLM:
		llm, err := ai.CreateAndValidateLLMService(ctx, &settings.LLM)
		if err != nil {
			return nil, nil, err
		}
		if llm == nil {
			return nil, nil, fmt.Errorf("%w: the llm oracle needs a provider. Run 'promptbreeder settings llm'",
				domain.ErrLLMUnavailable)
		}
		judge, err := oracle.NewJudge(llm, oracle.JudgeConfig{
			Concurrency:       settings.Oracle.Concurrency,
			RequestsPerSecond: settings.Oracle.RequestsPerSecond,
			MaxTokens:         settings.LLM.MaxTokens,
			Temperature:       settings.LLM.Temperature,
		})
		if err != nil {
			llm.Close()
			return nil, nil, err
		}
		logger.Debug("oracle: %s", judge.Name())
		return judge, llm, nil

	default:
		// The simulated oracle still generates real outputs when an LLM is reachable.
		llm, err := ai.CreateAndValidateLLMService(ctx, &settings.LLM)
		if err != nil {
			logger.Warn("LLM unavailable, using mock outputs: %v", err)
			llm = nil
		}
		sim := oracle.NewSimulatedOracle(0, llm).WithOutputOptions(settings.LLM.MaxTokens, settings.LLM.Temperature)
		logger.Debug("oracle: %s", sim.Name())
		return sim, llm, nil
	}
}
