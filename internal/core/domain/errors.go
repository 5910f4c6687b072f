package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionNotFound indicates the upload session is unknown or has expired.
	ErrSessionNotFound = errors.New("session not found or expired")

	// ErrSessionClassified indicates a session whose classification run has
	// already started. A session is classified at most once; single documents
	// are reclassified instead.
	ErrSessionClassified = errors.New("session already classified")

	// ErrIndexOutOfRange indicates a document index outside the session's batch.
	ErrIndexOutOfRange = errors.New("document index out of range")

	// ErrBatchRejected indicates a batch failed the count or aggregate size guard.
	// No document in a rejected batch is parsed.
	ErrBatchRejected = errors.New("batch rejected")

	// ErrUnsupportedFormat indicates neither the MIME type nor the extension
	// maps to a known document format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrUnsupportedType indicates an unknown provider or storage driver.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	// Classification is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrStoreUnavailable indicates the knowledge or submission store failed.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrRateLimited indicates the provider rejected a request for rate reasons.
	ErrRateLimited = errors.New("rate limited")
)

// ClassificationError reports a failed classification of one document.
// Message carries the oracle's or validator's raw message unchanged.
type ClassificationError struct {
	Filename string
	Message  string
	Err      error
}

// NewClassificationError wraps err as a classification failure for filename.
func NewClassificationError(filename string, err error) *ClassificationError {
	return &ClassificationError{Filename: filename, Message: err.Error(), Err: err}
}

func (e *ClassificationError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("classification failed: %s", e.Message)
	}
	return fmt.Sprintf("classification failed for %s: %s", e.Filename, e.Message)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
