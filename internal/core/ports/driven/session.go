package driven

import "github.com/drewgilbert-lab/content-automation-app/internal/core/domain"

// SessionStore is the time-bounded registry of upload sessions.
//
// Expected failure modes are reported as false/nil results, never errors:
// an unknown or expired session and an out-of-range index are ordinary
// not-found conditions for callers.
type SessionStore interface {
	// Create registers a new session holding docs in status parsing.
	Create(docs []domain.ParsedDocument) *domain.UploadSession

	// Get returns a copy of the session, or false if it is unknown or expired.
	// An expired session is evicted as a side effect.
	Get(id string) (*domain.UploadSession, bool)

	// List returns summaries of all live sessions, oldest first.
	List() []domain.SessionSummary

	// SetStatus moves the session forward in its lifecycle.
	// Backward transitions return false.
	SetStatus(id string, status domain.SessionStatus) bool

	// TransitionStatus moves the session from one status to another only if
	// it is currently in from. The check and the move happen atomically.
	TransitionStatus(id string, from, to domain.SessionStatus) bool

	// SetClassification stores the classification for index.
	SetClassification(id string, index int, result domain.ClassificationResult) bool

	// SetUserEdit shallow-merges edit onto any existing edit for index.
	SetUserEdit(id string, index int, edit domain.ClassificationEdit) bool

	// ClearUserEdit removes any edit for index.
	ClearUserEdit(id string, index int) bool

	// Delete removes the session.
	Delete(id string) bool

	// Len returns the number of sessions held, expired ones not yet swept included.
	Len() int
}
