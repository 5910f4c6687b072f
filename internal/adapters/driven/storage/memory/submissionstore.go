package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

// Ensure SubmissionStore implements the interfaces.
var (
	_ driven.SubmissionStore  = (*SubmissionStore)(nil)
	_ driven.SubmissionLister = (*SubmissionStore)(nil)
)

// SubmissionStore is an in-memory review queue.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions []domain.Submission
	now         func() time.Time
}

// NewSubmissionStore creates an empty submission store.
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{now: time.Now}
}

// Create validates req and appends a pending submission.
func (s *SubmissionStore) Create(_ context.Context, req domain.SubmissionRequest) (*domain.Submission, error) {
	if err := ValidateSubmission(req); err != nil {
		return nil, err
	}

	sub := domain.Submission{
		ID:              uuid.NewString(),
		Submitter:       req.Submitter,
		ObjectType:      req.ObjectType,
		ObjectName:      req.ObjectName,
		SubmissionType:  req.SubmissionType,
		ProposedContent: req.ProposedContent,
		Status:          domain.SubmissionStatusPending,
		CreatedAt:       s.now().UTC(),
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()

	return &sub, nil
}

// ListSubmissions returns submissions in creation order.
func (s *SubmissionStore) ListSubmissions(_ context.Context) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Submission(nil), s.submissions...), nil
}

// ValidateSubmission checks the fields every submission store requires.
func ValidateSubmission(req domain.SubmissionRequest) error {
	switch {
	case strings.TrimSpace(req.Submitter) == "":
		return fmt.Errorf("%w: submitter is required", domain.ErrInvalidInput)
	case strings.TrimSpace(req.ObjectName) == "":
		return fmt.Errorf("%w: object name is required", domain.ErrInvalidInput)
	case !req.ObjectType.IsValid():
		return fmt.Errorf("%w: invalid object type %q", domain.ErrInvalidInput, req.ObjectType)
	case req.SubmissionType != domain.SubmissionTypeCreate && req.SubmissionType != domain.SubmissionTypeUpdate:
		return fmt.Errorf("%w: invalid submission type %q", domain.ErrInvalidInput, req.SubmissionType)
	}
	return nil
}
