package driven

import (
	"context"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// Normaliser extracts text from one document format.
// Each normaliser handles specific MIME types and file extensions.
type Normaliser interface {
	// Format returns the document format this normaliser produces.
	Format() domain.Format

	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// SupportedExtensions returns lower-case file extensions without the dot.
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts the text of an uploaded file.
	Normalise(ctx context.Context, file *domain.UploadedFile) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Content is the extracted text.
	Content string

	// Title is a document title, if the format carries one.
	Title string

	// Warnings are soft problems that did not prevent extraction.
	Warnings []string

	// Metadata contains format-specific key-value pairs.
	Metadata map[string]string
}
