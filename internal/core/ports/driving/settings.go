package driving

import (
	"context"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetValue parses and stores a single dot-separated key such as
	// "evolution.mutation_rate". Unknown keys and bad values are
	// domain.ErrInvalidInput.
	SetValue(key, value string) error

	// Keys lists the keys SetValue accepts.
	Keys() []string

	// SetEvolution updates the defaults used for new runs.
	SetEvolution(cfg domain.EvolutionConfig) error

	// SetOracle selects the fitness oracle.
	SetOracle(kind domain.OracleKind) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that the settings are usable together.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig(ctx context.Context) error
}
