package driving

import (
	"context"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// DocumentParser turns uploaded bytes into parsed documents.
type DocumentParser interface {
	// Parse extracts one file. It never fails: problems are recorded in the
	// document's Errors and an unrecoverable failure leaves Content empty.
	Parse(ctx context.Context, file domain.UploadedFile) domain.ParsedDocument

	// ParseBatch validates the batch against limits and parses every file.
	// A batch over the count or aggregate size limit returns an error
	// wrapping domain.ErrBatchRejected and parses nothing.
	ParseBatch(ctx context.Context, files []domain.UploadedFile, limits domain.BatchLimits) (*domain.ParseBatchResult, error)
}
