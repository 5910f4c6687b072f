package driving

import (
	"context"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// SessionService manages upload sessions and human edits.
// Unknown or expired sessions are reported as domain.ErrSessionNotFound.
type SessionService interface {
	// Create starts a session for parsed documents.
	Create(ctx context.Context, docs []domain.ParsedDocument) (*domain.UploadSession, error)

	// Get returns the session.
	Get(ctx context.Context, id string) (*domain.UploadSession, error)

	// List returns summaries of live sessions.
	List(ctx context.Context) []domain.SessionSummary

	// Delete removes the session.
	Delete(ctx context.Context, id string) error

	// Edit stores a human override for one document.
	Edit(ctx context.Context, id string, index int, edit domain.ClassificationEdit) (*domain.ClassificationResult, error)

	// Effective returns the merged classification for one document,
	// or domain.ErrNotFound if it has not been classified.
	Effective(ctx context.Context, id string, index int) (*domain.ClassificationResult, error)
}
