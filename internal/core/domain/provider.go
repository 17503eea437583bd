package domain

// AIProvider identifies an LLM service provider.
type AIProvider string

const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

type providerInfo struct {
	description  string
	defaultModel string
	// keyEnv is empty for providers that run without credentials.
	keyEnv string
}

// providerOrder is the order providers are offered in.
var providerOrder = []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}

var providerTable = map[AIProvider]providerInfo{
	AIProviderOllama: {
		description:  "Ollama (local)",
		defaultModel: "llama3.2",
	},
	AIProviderOpenAI: {
		description:  "OpenAI (cloud)",
		defaultModel: "gpt-3.5-turbo",
		keyEnv:       "OPENAI_API_KEY",
	},
	AIProviderAnthropic: {
		description:  "Anthropic (cloud)",
		defaultModel: "claude-3-5-haiku-latest",
		keyEnv:       "ANTHROPIC_API_KEY",
	},
}

// IsValid reports whether p is a known provider.
func (p AIProvider) IsValid() bool {
	_, ok := providerTable[p]
	return ok
}

// RequiresAPIKey reports whether p needs credentials.
func (p AIProvider) RequiresAPIKey() bool {
	return providerTable[p].keyEnv != ""
}

// IsLocal reports whether p runs on this machine and takes a base URL.
func (p AIProvider) IsLocal() bool {
	return p.IsValid() && !p.RequiresAPIKey()
}

func (p AIProvider) String() string {
	return string(p)
}

// Description is a label for menus and settings output.
func (p AIProvider) Description() string {
	if info, ok := providerTable[p]; ok {
		return info.description
	}
	return unknownDescription
}

// APIKeyEnv names the environment variable read when no key is configured.
func (p AIProvider) APIKeyEnv() string {
	return providerTable[p].keyEnv
}

// AllLLMProviders returns every provider in menu order.
func AllLLMProviders() []AIProvider {
	return append([]AIProvider(nil), providerOrder...)
}

// DefaultLLMModels maps each provider to the model used when none is set.
func DefaultLLMModels() map[AIProvider]string {
	models := make(map[AIProvider]string, len(providerTable))
	for p, info := range providerTable {
		models[p] = info.defaultModel
	}
	return models
}
