package ai

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

// Ensure RateLimitedLLM implements the interface.
var _ driven.LLMService = (*RateLimitedLLM)(nil)

// RateLimitedLLM spaces Complete calls so a provider quota is not exceeded.
// Ping and Close pass straight through.
type RateLimitedLLM struct {
	next    driven.LLMService
	limiter *rate.Limiter
}

// NewRateLimitedLLM allows at most perMinute completions per minute with a
// burst of one.
func NewRateLimitedLLM(next driven.LLMService, perMinute int) *RateLimitedLLM {
	return &RateLimitedLLM{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

// Complete waits for a token, then forwards the call.
func (l *RateLimitedLLM) Complete(
	ctx context.Context,
	systemPrompt, userMessage string,
	opts driven.CompletionOptions,
) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return l.next.Complete(ctx, systemPrompt, userMessage, opts)
}

func (l *RateLimitedLLM) ModelName() string              { return l.next.ModelName() }
func (l *RateLimitedLLM) Ping(ctx context.Context) error { return l.next.Ping(ctx) }
func (l *RateLimitedLLM) Close() error                   { return l.next.Close() }
