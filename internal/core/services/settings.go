package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMRequestsPerMin = "llm.requests_per_minute"
	keyMaxFileSize       = "limits.max_file_size"
	keyMaxFiles          = "limits.max_files"
	keyMaxBatchSize      = "limits.max_batch_size"
	keyThreshold         = "classification.confidence_threshold"
	keySessionTTL        = "session.ttl"
	keySweepInterval     = "session.sweep_interval"
	keyStorageDriver     = "storage.driver"
	keyStorageDSN        = "storage.dsn"
	keyServerAddr        = "server.addr"
)

// defaultOllamaURL is used for local providers without a configured endpoint.
const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// LLM returns the configured LLM provider. Without configuration the
// provider is empty and classification is unavailable.
func (s *SettingsService) LLM() domain.LLMSettings {
	provider := s.getProvider(keyLLMProvider)
	model := s.configStore.GetString(keyLLMModel)
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	return domain.LLMSettings{
		Provider:          provider,
		Model:             model,
		BaseURL:           s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
		APIKey:            s.configStore.GetString(keyLLMAPIKey),
		RequestsPerMinute: s.getInt(keyLLMRequestsPerMin, 0),
	}
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.LLM()
	settings.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Model = model
	} else {
		settings.Model = domain.DefaultLLMModels()[provider]
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.BaseURL == "" {
			settings.BaseURL = defaultOllamaURL
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.BaseURL = ""
	}
	settings.APIKey = apiKey

	return s.save(
		kv{keyLLMProvider, settings.Provider.String()},
		kv{keyLLMModel, settings.Model},
		kv{keyLLMBaseURL, settings.BaseURL},
		kv{keyLLMAPIKey, settings.APIKey},
	)
}

// Pipeline returns the pipeline settings with defaults applied.
func (s *SettingsService) Pipeline() domain.PipelineSettings {
	return domain.PipelineSettings{
		Limits: domain.BatchLimits{
			MaxFileSize:  int64(s.getInt(keyMaxFileSize, 0)),
			MaxFiles:     s.getInt(keyMaxFiles, 0),
			MaxBatchSize: int64(s.getInt(keyMaxBatchSize, 0)),
		},
		ConfidenceThreshold: s.getFloat(keyThreshold, 0),
		SessionTTL:          s.getDuration(keySessionTTL, 0),
		SweepInterval:       s.getDuration(keySweepInterval, 0),
	}.WithDefaults()
}

// SetPipeline persists pipeline settings.
func (s *SettingsService) SetPipeline(settings domain.PipelineSettings) error {
	if settings.ConfidenceThreshold < 0 || settings.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence threshold must be between 0 and 1", domain.ErrInvalidInput)
	}
	settings = settings.WithDefaults()

	return s.save(
		kv{keyMaxFileSize, settings.Limits.MaxFileSize},
		kv{keyMaxFiles, int64(settings.Limits.MaxFiles)},
		kv{keyMaxBatchSize, settings.Limits.MaxBatchSize},
		kv{keyThreshold, settings.ConfidenceThreshold},
		kv{keySessionTTL, settings.SessionTTL.String()},
		kv{keySweepInterval, settings.SweepInterval.String()},
	)
}

// Storage returns the storage backend settings.
func (s *SettingsService) Storage() domain.StorageSettings {
	settings := domain.DefaultStorageSettings()
	if driver := domain.StorageDriver(s.configStore.GetString(keyStorageDriver)); driver.IsValid() {
		settings.Driver = driver
	}
	settings.DSN = s.configStore.GetString(keyStorageDSN)
	return settings
}

// SetStorage persists storage backend settings.
func (s *SettingsService) SetStorage(settings domain.StorageSettings) error {
	if !settings.Driver.IsValid() {
		return fmt.Errorf("%w: storage driver %q", domain.ErrUnsupportedType, settings.Driver)
	}
	if settings.Driver == domain.StorageDriverPostgres && settings.DSN == "" {
		return fmt.Errorf("%w: postgres requires a DSN", domain.ErrInvalidInput)
	}
	return s.save(
		kv{keyStorageDriver, string(settings.Driver)},
		kv{keyStorageDSN, settings.DSN},
	)
}

// ServerAddr returns the HTTP listen address.
func (s *SettingsService) ServerAddr() string {
	return s.getString(keyServerAddr, domain.DefaultServerAddr)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings := s.LLM()
	return s.aiValidator.ValidateLLM(&settings)
}

type kv struct {
	key string
	val any
}

// save sets every pair and writes the config once.
func (s *SettingsService) save(pairs ...kv) error {
	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.val); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
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
		// Environment overrides arrive as strings.
		if n, err := strconv.Atoi(s.configStore.GetString(key)); err == nil {
			return n
		}
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return ""
	}
	return provider
}
