package driving

import (
	"context"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// ReviewService re-runs classification and turns reviewed documents into submissions.
type ReviewService interface {
	// Reclassify re-runs classification for one document against a fresh
	// snapshot, replaces the stored result and clears any human edit.
	Reclassify(ctx context.Context, sessionID string, index int) (*domain.ClassificationResult, error)

	// Approve submits the selected documents. Per-document failures are
	// returned in the result; only an unknown session is an error.
	Approve(ctx context.Context, req domain.ApproveRequest) (*domain.ApproveResult, error)
}
