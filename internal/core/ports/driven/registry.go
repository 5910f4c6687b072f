package driven

import "github.com/drewgilbert-lab/content-automation-app/internal/core/domain"

// NormaliserRegistry selects the appropriate normaliser for an upload.
// Selection tries the declared MIME type first and falls back to the
// file extension.
type NormaliserRegistry interface {
	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// Lookup returns the best normaliser for the file, or false when neither
	// the MIME type nor the extension is recognised.
	Lookup(file *domain.UploadedFile) (Normaliser, bool)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string

	// SupportedExtensions returns all file extensions that can be normalised.
	SupportedExtensions() []string
}
