package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for classification.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
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

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// RequestsPerMinute caps oracle calls. Zero means unlimited.
	RequestsPerMinute int
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

// DefaultLLMModels returns the default model per provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-sonnet-4-5",
	}
}

// PipelineSettings holds the tunables of the classification pipeline.
type PipelineSettings struct {
	Limits              BatchLimits
	ConfidenceThreshold float64
	SessionTTL          time.Duration
	SweepInterval       time.Duration
}

// DefaultPipelineSettings returns the default pipeline settings.
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		Limits:              DefaultBatchLimits(),
		ConfidenceThreshold: DefaultConfidenceThreshold,
		SessionTTL:          DefaultSessionTTL,
		SweepInterval:       DefaultSweepInterval,
	}
}

// WithDefaults fills zero or out-of-range fields with their default values.
// The sweep interval is clamped below the TTL.
func (s PipelineSettings) WithDefaults() PipelineSettings {
	d := DefaultPipelineSettings()
	s.Limits = s.Limits.WithDefaults()
	if s.ConfidenceThreshold <= 0 || s.ConfidenceThreshold > 1 {
		s.ConfidenceThreshold = d.ConfidenceThreshold
	}
	if s.SessionTTL <= 0 {
		s.SessionTTL = d.SessionTTL
	}
	if s.SweepInterval <= 0 {
		s.SweepInterval = d.SweepInterval
	}
	if s.SweepInterval >= s.SessionTTL {
		s.SweepInterval = s.SessionTTL / 2
	}
	return s
}

// StorageDriver selects the knowledge and submission store backend.
type StorageDriver string

// Available storage drivers.
const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverSQLite   StorageDriver = "sqlite"
	StorageDriverPostgres StorageDriver = "postgres"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	switch d {
	case StorageDriverMemory, StorageDriverSQLite, StorageDriverPostgres:
		return true
	default:
		return false
	}
}

// StorageSettings selects where knowledge objects and submissions live.
type StorageSettings struct {
	Driver StorageDriver

	// DSN is the driver-specific data source. For sqlite it is a file path;
	// empty means the default database under the config directory.
	DSN string
}

// DefaultStorageSettings returns the default storage settings.
func DefaultStorageSettings() StorageSettings {
	return StorageSettings{Driver: StorageDriverSQLite}
}

// DefaultServerAddr is the HTTP listen address used when none is configured.
const DefaultServerAddr = "127.0.0.1:8080"
