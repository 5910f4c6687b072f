package driven

import (
	"context"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// KnowledgeStore is read access to the existing knowledge base.
// The full CRUD surface lives outside this service.
type KnowledgeStore interface {
	// ListExisting returns every knowledge object, deprecated ones included.
	ListExisting(ctx context.Context) ([]domain.KnowledgeObject, error)
}

// KnowledgeWriter seeds or imports knowledge objects.
// Only local stores implement it; it is used by the CLI import command and tests.
type KnowledgeWriter interface {
	SaveObject(ctx context.Context, obj domain.KnowledgeObject) error
}
