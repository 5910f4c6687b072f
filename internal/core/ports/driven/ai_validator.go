package driven

import "github.com/drewgilbert-lab/content-automation-app/internal/core/domain"

// AIConfigValidator validates AI provider configurations by connecting to them.
type AIConfigValidator interface {
	// ValidateLLM creates a client from config and pings the provider.
	ValidateLLM(config *domain.LLMSettings) error
}
