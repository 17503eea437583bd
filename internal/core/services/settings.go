package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyPopulationSize    = "evolution.population_size"
	keyMutationRate      = "evolution.mutation_rate"
	keyCrossoverRate     = "evolution.crossover_rate"
	keyOracleKind        = "oracle.kind"
	keyOracleConcurrency = "oracle.concurrency"
	keyOracleRPS         = "oracle.requests_per_second"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMMaxTokens      = "llm.max_tokens"
	keyLLMTemperature    = "llm.temperature"
)

// localLLMBaseURL is the default endpoint for local providers.
const localLLMBaseURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// API keys missing from the config are read from the provider's
// environment variable (OPENAI_API_KEY, ANTHROPIC_API_KEY).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Evolution: domain.EvolutionConfig{
			PopulationSize: s.getInt(keyPopulationSize, defaults.Evolution.PopulationSize),
			MutationRate:   s.getFloat(keyMutationRate, defaults.Evolution.MutationRate),
			CrossoverRate:  s.getFloat(keyCrossoverRate, defaults.Evolution.CrossoverRate),
		},
		Oracle: domain.OracleSettings{
			Kind:              s.getOracleKind(defaults.Oracle.Kind),
			Concurrency:       s.getInt(keyOracleConcurrency, defaults.Oracle.Concurrency),
			RequestsPerSecond: s.getFloat(keyOracleRPS, defaults.Oracle.RequestsPerSecond),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL), // empty is valid for cloud providers
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			MaxTokens:   s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
		},
	}

	if settings.LLM.APIKey == "" {
		if env := settings.LLM.Provider.APIKeyEnv(); env != "" {
			settings.LLM.APIKey = s.getenv(env)
		}
	}

	return settings, nil
}

// Save persists application settings.
// An API key that only came from the environment is not written to disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyPopulationSize, settings.Evolution.PopulationSize},
		{keyMutationRate, settings.Evolution.MutationRate},
		{keyCrossoverRate, settings.Evolution.CrossoverRate},
		{keyOracleKind, settings.Oracle.Kind.String()},
		{keyOracleConcurrency, settings.Oracle.Concurrency},
		{keyOracleRPS, settings.Oracle.RequestsPerSecond},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyLLMTemperature, settings.LLM.Temperature},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	apiKey := settings.LLM.APIKey
	if env := settings.LLM.Provider.APIKeyEnv(); env != "" && apiKey == s.getenv(env) &&
		s.configStore.GetString(keyLLMAPIKey) == "" {
		apiKey = ""
	}
	if apiKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, apiKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}

	return nil
}

// Keys lists the keys SetValue accepts.
func (s *SettingsService) Keys() []string {
	return []string{
		keyPopulationSize, keyMutationRate, keyCrossoverRate,
		keyOracleKind, keyOracleConcurrency, keyOracleRPS,
		keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey,
		keyLLMMaxTokens, keyLLMTemperature,
	}
}

// SetValue parses and stores a single setting.
func (s *SettingsService) SetValue(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	switch key {
	case keyPopulationSize:
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		settings.Evolution.PopulationSize = n
		if err := settings.Evolution.Validate(); err != nil {
			return err
		}
	case keyMutationRate, keyCrossoverRate:
		f, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		if key == keyMutationRate {
			settings.Evolution.MutationRate = f
		} else {
			settings.Evolution.CrossoverRate = f
		}
		if err := settings.Evolution.Validate(); err != nil {
			return err
		}
	case keyOracleKind:
		kind := domain.OracleKind(value)
		if !kind.IsValid() {
			return fmt.Errorf("%w: oracle kind %q", domain.ErrInvalidInput, value)
		}
		settings.Oracle.Kind = kind
	case keyOracleConcurrency:
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		if n < 1 {
			return fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidInput, key)
		}
		settings.Oracle.Concurrency = n
	case keyOracleRPS:
		f, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		if f < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, key)
		}
		settings.Oracle.RequestsPerSecond = f
	case keyLLMProvider:
		provider := domain.AIProvider(value)
		if !provider.IsValid() {
			return fmt.Errorf("%w: LLM provider %q", domain.ErrInvalidInput, value)
		}
		settings.LLM.Provider = provider
	case keyLLMModel:
		settings.LLM.Model = value
	case keyLLMBaseURL:
		settings.LLM.BaseURL = value
	case keyLLMAPIKey:
		if err := s.configStore.Set(keyLLMAPIKey, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		return nil
	case keyLLMMaxTokens:
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		if n < 1 {
			return fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidInput, key)
		}
		settings.LLM.MaxTokens = n
	case keyLLMTemperature:
		f, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		if f < 0 || f > 2 {
			return fmt.Errorf("%w: %s must be in [0, 2]", domain.ErrInvalidInput, key)
		}
		settings.LLM.Temperature = f
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// SetEvolution updates the defaults used for new runs.
func (s *SettingsService) SetEvolution(cfg domain.EvolutionConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Evolution = cfg
	return s.Save(settings)
}

// SetOracle selects the fitness oracle.
func (s *SettingsService) SetOracle(kind domain.OracleKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: oracle kind %q", domain.ErrInvalidInput, kind)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Oracle.Kind = kind
	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: LLM provider %q", domain.ErrInvalidInput, provider)
	}

	if apiKey == "" && provider.APIKeyEnv() != "" {
		apiKey = s.getenv(provider.APIKeyEnv())
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s (or set %s)",
			domain.ErrInvalidInput, provider, provider.APIKeyEnv())
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = localLLMBaseURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the selected oracle has what it needs.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := settings.Evolution.Validate(); err != nil {
		return err
	}
	if !settings.Oracle.Kind.IsValid() {
		return fmt.Errorf("%w: oracle kind %q", domain.ErrInvalidConfiguration, settings.Oracle.Kind)
	}
	if settings.Oracle.Kind.RequiresLLM() && !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: oracle %q requires an LLM provider to be configured",
			domain.ErrInvalidConfiguration, settings.Oracle.Kind.Description())
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getFloat distinguishes an explicit 0 from a missing key, since a zero
// rate is a meaningful setting.
func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getOracleKind(defaultVal domain.OracleKind) domain.OracleKind {
	kind := domain.OracleKind(s.configStore.GetString(keyOracleKind))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, value)
	}
	return f, nil
}
