package driving

import "github.com/drewgilbert-lab/content-automation-app/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// LLM returns the current LLM provider settings.
	LLM() domain.LLMSettings

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Pipeline returns the current pipeline settings with defaults applied.
	Pipeline() domain.PipelineSettings

	// SetPipeline persists pipeline settings.
	SetPipeline(settings domain.PipelineSettings) error

	// Storage returns the storage backend settings.
	Storage() domain.StorageSettings

	// SetStorage persists storage backend settings.
	SetStorage(settings domain.StorageSettings) error

	// ServerAddr returns the HTTP listen address.
	ServerAddr() string

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
