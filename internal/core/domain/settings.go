package domain

const unknownDescription = "Unknown"

// OracleKind selects how ratings are produced automatically.
type OracleKind string

// Available oracle kinds.
const (
	// OracleNone disables automatic rating; only human ratings are used.
	OracleNone OracleKind = "none"

	// OracleSimulated draws uniform random ratings and mock outputs.
	OracleSimulated OracleKind = "simulated"

	// OracleLLM generates each prompt's output and has the model judge it.
	OracleLLM OracleKind = "llm"
)

// IsValid returns true if the oracle kind is recognised.
func (k OracleKind) IsValid() bool {
	switch k {
	case OracleNone, OracleSimulated, OracleLLM:
		return true
	default:
		return false
	}
}

// RequiresLLM returns true if this oracle needs an LLM provider.
func (k OracleKind) RequiresLLM() bool {
	return k == OracleLLM
}

// String returns the string representation.
func (k OracleKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the oracle kind.
func (k OracleKind) Description() string {
	switch k {
	case OracleNone:
		return "None (human ratings only)"
	case OracleSimulated:
		return "Simulated (random ratings)"
	case OracleLLM:
		return "LLM judge (generate and rate)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// MaxTokens caps the generated output.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// OracleSettings holds fitness oracle configuration.
type OracleSettings struct {
	// Kind selects the oracle implementation.
	Kind OracleKind

	// Concurrency bounds parallel oracle calls.
	Concurrency int

	// RequestsPerSecond throttles LLM calls. Zero disables throttling.
	RequestsPerSecond float64
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Evolution holds defaults for new runs.
	Evolution EvolutionConfig

	// Oracle holds fitness oracle settings.
	Oracle OracleSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured; the simulated oracle works without it.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Evolution: DefaultEvolutionConfig(),
		Oracle: OracleSettings{
			Kind:              OracleSimulated,
			Concurrency:       4,
			RequestsPerSecond: 2,
		},
		LLM: LLMSettings{
			MaxTokens:   500,
			Temperature: 0.7,
		},
	}
}

// AllOracleKinds returns every oracle kind.
func AllOracleKinds() []OracleKind {
	return []OracleKind{
		OracleNone,
		OracleSimulated,
		OracleLLM,
	}
}
