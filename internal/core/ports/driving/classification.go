package driving

import (
	"context"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// Classifier classifies one document against a snapshot of existing objects.
type Classifier interface {
	// Classify returns the validated classification, or a
	// *domain.ClassificationError carrying the raw failure message.
	Classify(ctx context.Context, doc domain.ParsedDocument, existing []domain.KnowledgeObject) (*domain.ClassificationResult, error)
}

// ClassificationStreamer classifies every document of a session in order.
type ClassificationStreamer interface {
	// Stream starts classifying the session and returns the event channel.
	// An error is returned, before any event, when the session is unknown or
	// the existing-object snapshot cannot be fetched. The channel is closed
	// after the done event.
	Stream(ctx context.Context, sessionID string) (<-chan domain.ClassificationEvent, error)
}
