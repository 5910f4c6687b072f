package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

// mockLLM returns queued replies in order and records every call.
type mockLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   []string
	pingErr error
}

func (m *mockLLM) Complete(_ context.Context, _, user string, _ driven.CompletionOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.calls)
	m.calls = append(m.calls, user)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.replies) {
		return m.replies[i], nil
	}
	if len(m.replies) > 0 {
		return m.replies[len(m.replies)-1], nil
	}
	return "", errors.New("no reply queued")
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return m.pingErr }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockKnowledgeStore returns a fixed snapshot or an error.
type mockKnowledgeStore struct {
	mu      sync.Mutex
	objects []domain.KnowledgeObject
	err     error
	calls   int
}

func (m *mockKnowledgeStore) ListExisting(_ context.Context) ([]domain.KnowledgeObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.objects, nil
}

// mockSubmissionStore records requests and can fail by object name.
type mockSubmissionStore struct {
	requests []domain.SubmissionRequest
	failFor  map[string]error
}

func (m *mockSubmissionStore) Create(_ context.Context, req domain.SubmissionRequest) (*domain.Submission, error) {
	if err, ok := m.failFor[req.ObjectName]; ok {
		return nil, err
	}
	m.requests = append(m.requests, req)
	return &domain.Submission{
		ID:              "sub-" + req.ObjectName,
		Submitter:       req.Submitter,
		ObjectType:      req.ObjectType,
		ObjectName:      req.ObjectName,
		SubmissionType:  req.SubmissionType,
		ProposedContent: req.ProposedContent,
		Status:          domain.SubmissionStatusPending,
		CreatedAt:       time.Now(),
	}, nil
}

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func (m *mockPromptStore) Reload() {}

// fixedTokenCounter counts one token per byte.
type fixedTokenCounter struct{}

func (fixedTokenCounter) Count(text string) int { return len(text) }

// recordingMetrics captures metric calls.
type recordingMetrics struct {
	nopMetrics
	mu           sync.Mutex
	succeeded    int
	failed       []string
	promptTokens int
	submitted    int
	subFailed    int
}

func (m *recordingMetrics) ClassificationSucceeded(domain.KnowledgeType, bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.succeeded++
}

func (m *recordingMetrics) ClassificationFailed(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, reason)
}

func (m *recordingMetrics) PromptTokens(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promptTokens += n
}

func (m *recordingMetrics) SubmissionCreated(domain.KnowledgeType) { m.submitted++ }
func (m *recordingMetrics) SubmissionFailed()                      { m.subFailed++ }

func existingObjects() []domain.KnowledgeObject {
	return []domain.KnowledgeObject{
		{ID: "p-cfo", Name: "CFO", Type: domain.KnowledgeTypePersona, Tags: []string{"finance", "buyer"}},
		{ID: "p-old", Name: "Legacy Admin", Type: domain.KnowledgeTypePersona, Deprecated: true},
		{ID: "s-ent", Name: "Enterprise", Type: domain.KnowledgeTypeSegment},
		{ID: "u-close", Name: "Month-end close", Type: domain.KnowledgeTypeUseCase},
	}
}
