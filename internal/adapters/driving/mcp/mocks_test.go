package mcp

import (
	"context"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	session   *domain.UploadSession
	summaries []domain.SessionSummary
	result    *domain.ClassificationResult
	err       error

	created  []domain.ParsedDocument
	lastEdit domain.ClassificationEdit
}

func (m *mockSessionService) Create(_ context.Context, docs []domain.ParsedDocument) (*domain.UploadSession, error) {
	m.created = docs
	if m.err != nil {
		return nil, m.err
	}
	return &domain.UploadSession{ID: "sess-1", Documents: docs}, nil
}

func (m *mockSessionService) Get(_ context.Context, _ string) (*domain.UploadSession, error) {
	if m.session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return m.session, m.err
}

func (m *mockSessionService) List(_ context.Context) []domain.SessionSummary {
	return m.summaries
}

func (m *mockSessionService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockSessionService) Edit(
	_ context.Context,
	_ string,
	_ int,
	edit domain.ClassificationEdit,
) (*domain.ClassificationResult, error) {
	m.lastEdit = edit
	return m.result, m.err
}

func (m *mockSessionService) Effective(_ context.Context, _ string, _ int) (*domain.ClassificationResult, error) {
	return m.result, m.err
}

// mockParser is a mock implementation of driving.DocumentParser.
type mockParser struct {
	err   error
	files []domain.UploadedFile
}

func (m *mockParser) Parse(_ context.Context, f domain.UploadedFile) domain.ParsedDocument {
	return domain.ParsedDocument{
		Filename:  domain.SanitizeFilename(f.Filename),
		Format:    domain.FormatPlainText,
		Content:   string(f.Content),
		WordCount: domain.CountWords(string(f.Content)),
	}
}

func (m *mockParser) ParseBatch(
	ctx context.Context,
	files []domain.UploadedFile,
	_ domain.BatchLimits,
) (*domain.ParseBatchResult, error) {
	m.files = files
	if m.err != nil {
		return nil, m.err
	}
	res := &domain.ParseBatchResult{}
	for _, f := range files {
		res.Documents = append(res.Documents, m.Parse(ctx, f))
	}
	return res, nil
}

// mockStreamer is a mock implementation of driving.ClassificationStreamer.
type mockStreamer struct {
	events []domain.ClassificationEvent
	err    error
}

func (m *mockStreamer) Stream(_ context.Context, _ string) (<-chan domain.ClassificationEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan domain.ClassificationEvent, len(m.events))
	for _, ev := range m.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

// mockReviewService is a mock implementation of driving.ReviewService.
type mockReviewService struct {
	result  *domain.ClassificationResult
	approve *domain.ApproveResult
	err     error
	lastReq domain.ApproveRequest
}

func (m *mockReviewService) Reclassify(_ context.Context, _ string, _ int) (*domain.ClassificationResult, error) {
	return m.result, m.err
}

func (m *mockReviewService) Approve(_ context.Context, req domain.ApproveRequest) (*domain.ApproveResult, error) {
	m.lastReq = req
	return m.approve, m.err
}
