package driven

import (
	"context"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// SubmissionStore creates review-queue submissions.
// Create may fail for network or validation reasons.
type SubmissionStore interface {
	Create(ctx context.Context, req domain.SubmissionRequest) (*domain.Submission, error)
}

// SubmissionLister is implemented by stores that can list what they hold.
type SubmissionLister interface {
	ListSubmissions(ctx context.Context) ([]domain.Submission, error)
}
