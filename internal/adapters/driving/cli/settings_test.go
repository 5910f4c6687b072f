package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

type mockSettingsService struct {
	llm         domain.LLMSettings
	pipeline    domain.PipelineSettings
	storage     domain.StorageSettings
	validateErr error
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{
		pipeline: domain.DefaultPipelineSettings(),
		storage:  domain.DefaultStorageSettings(),
	}
}

func (m *mockSettingsService) LLM() domain.LLMSettings { return m.llm }

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, apiKey string) error {
	m.llm = domain.LLMSettings{Provider: p, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) Pipeline() domain.PipelineSettings { return m.pipeline.WithDefaults() }

func (m *mockSettingsService) SetPipeline(s domain.PipelineSettings) error {
	m.pipeline = s
	return nil
}

func (m *mockSettingsService) Storage() domain.StorageSettings { return m.storage }

func (m *mockSettingsService) SetStorage(s domain.StorageSettings) error {
	m.storage = s
	return nil
}

func (m *mockSettingsService) ServerAddr() string { return domain.DefaultServerAddr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.validateErr }

func withSettings(t *testing.T, s *mockSettingsService) {
	t.Helper()
	old := settingsService
	if s == nil {
		settingsService = nil
	} else {
		settingsService = s
	}
	t.Cleanup(func() { settingsService = old })
}

func TestSettingsShow(t *testing.T) {
	s := newMockSettings()
	s.llm = domain.LLMSettings{Provider: domain.AIProviderAnthropic, Model: "claude-sonnet-4-5", APIKey: "sk-ant-1234567890"}
	s.storage = domain.StorageSettings{Driver: domain.StorageDriverPostgres, DSN: "postgres://app:secret@db:5432/kb"}
	withSettings(t, s)

	out, err := executeCommand(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Provider: Anthropic (cloud)")
	assert.Contains(t, out, "API Key: sk-a...7890")
	assert.Contains(t, out, "Status: configured")
	assert.Contains(t, out, "Max file size: 10 MiB")
	assert.Contains(t, out, "Max files: 50")
	assert.Contains(t, out, "Confidence threshold: 0.70")
	assert.Contains(t, out, "Driver: postgres")
	assert.Contains(t, out, "postgres://app:****@db:5432/kb")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "Address: "+domain.DefaultServerAddr)
}

func TestSettingsShow_NotConfigured(t *testing.T) {
	withSettings(t, newMockSettings())

	out, err := executeCommand(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Status: not configured")
	assert.Contains(t, out, "settings llm")
}

func TestSettings_NoService(t *testing.T) {
	withSettings(t, nil)

	_, err := executeCommand(t, "", "settings")

	assert.ErrorIs(t, err, errSettingsNotConfigured)
}

func TestSettingsPipeline(t *testing.T) {
	s := newMockSettings()
	withSettings(t, s)

	out, err := executeCommand(t, "", "settings", "pipeline",
		"--max-file-size", "5MB", "--max-files", "20", "--threshold", "0.8", "--session-ttl", "2h")

	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), s.pipeline.Limits.MaxFileSize)
	assert.Equal(t, 20, s.pipeline.Limits.MaxFiles)
	assert.Equal(t, domain.DefaultMaxBatchSize, s.pipeline.Limits.MaxBatchSize)
	assert.InDelta(t, 0.8, s.pipeline.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 2*time.Hour, s.pipeline.SessionTTL)
	assert.Contains(t, out, "Pipeline settings saved: 20 files")
}

func TestSettingsPipeline_Invalid(t *testing.T) {
	withSettings(t, newMockSettings())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no flags", nil, "no settings given"},
		{"threshold above one", []string{"--threshold", "1.5"}, "invalid --threshold"},
		{"bad size", []string{"--max-batch-size", "lots"}, "invalid --max-batch-size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, "", append([]string{"settings", "pipeline"}, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSettingsStorage(t *testing.T) {
	s := newMockSettings()
	withSettings(t, s)

	out, err := executeCommand(t, "", "settings", "storage", "--driver", "postgres", "--dsn", "postgres://localhost/kb")
	require.NoError(t, err)
	assert.Equal(t, domain.StorageDriverPostgres, s.storage.Driver)
	assert.Equal(t, "postgres://localhost/kb", s.storage.DSN)
	assert.Contains(t, out, "Storage set to: postgres")

	_, err = executeCommand(t, "", "settings", "storage", "--driver", "mongo")
	assert.ErrorContains(t, err, `unknown storage driver "mongo"`)

	_, err = executeCommand(t, "", "settings", "storage", "--driver", "postgres")
	assert.ErrorContains(t, err, "postgres requires --dsn")
}

func TestSettingsLLM(t *testing.T) {
	s := newMockSettings()
	withSettings(t, s)

	out, err := executeCommand(t, "2\n\nsk-test-abcdefgh\n", "settings", "llm")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, s.llm.Provider)
	assert.Equal(t, "gpt-4o-mini", s.llm.Model)
	assert.Equal(t, "sk-test-abcdefgh", s.llm.APIKey)
	assert.Contains(t, out, "Validating configuration... OK")
}

func TestSettingsLLM_LocalNeedsNoKey(t *testing.T) {
	s := newMockSettings()
	withSettings(t, s)

	_, err := executeCommand(t, "3\nqwen2.5\n", "settings", "llm")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, s.llm.Provider)
	assert.Equal(t, "qwen2.5", s.llm.Model)
	assert.Empty(t, s.llm.APIKey)
}

func TestSettingsLLM_Errors(t *testing.T) {
	s := newMockSettings()
	withSettings(t, s)

	_, err := executeCommand(t, "1\n\n\n", "settings", "llm")
	assert.ErrorContains(t, err, "API key is required")

	s.validateErr = errors.New("connection refused")
	out, err := executeCommand(t, "3\n\n", "settings", "llm")
	assert.ErrorContains(t, err, "validation failed")
	assert.Contains(t, out, "FAILED: connection refused")
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Short key", "abc123", "****"},
		{"Exactly 8 chars", "12345678", "****"},
		{"Long key", "sk-1234567890abcdef", "sk-1...cdef"},
		{"Empty key", "", "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "postgres://u:****@h/db", maskDSN("postgres://u:p@h/db"))
	assert.Equal(t, "postgres://u@h/db", maskDSN("postgres://u@h/db"))
	assert.Equal(t, "/tmp/data.db", maskDSN("/tmp/data.db"))
	assert.Equal(t, "host=db user=app", maskDSN("host=db user=app"))
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{"Empty input returns default", "", 5, 1, 1},
		{"Valid choice within range", "3", 5, 1, 3},
		{"Choice below minimum returns default", "0", 5, 1, 1},
		{"Choice above maximum returns default", "6", 5, 1, 1},
		{"Invalid input returns default", "abc", 5, 2, 2},
		{"Maximum value is valid", "5", 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}
