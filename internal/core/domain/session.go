package domain

import "time"

// Default session timings.
const (
	DefaultSessionTTL    = 24 * time.Hour
	DefaultSweepInterval = time.Hour
)

// SessionStatus is the lifecycle stage of an upload session.
type SessionStatus string

// Session statuses, in lifecycle order.
const (
	SessionStatusParsing     SessionStatus = "parsing"
	SessionStatusClassifying SessionStatus = "classifying"
	SessionStatusReviewing   SessionStatus = "reviewing"
	SessionStatusApproved    SessionStatus = "approved"
)

// rank orders statuses so transitions can be checked.
func (s SessionStatus) rank() int {
	switch s {
	case SessionStatusParsing:
		return 1
	case SessionStatusClassifying:
		return 2
	case SessionStatusReviewing:
		return 3
	case SessionStatusApproved:
		return 4
	default:
		return 0
	}
}

// IsValid returns true if the status is recognised.
func (s SessionStatus) IsValid() bool {
	return s.rank() > 0
}

// CanTransitionTo returns true if moving to next keeps the lifecycle monotonic.
// Staying in the same status is allowed.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	return next.IsValid() && next.rank() >= s.rank()
}

// UploadSession is the server-held state for one upload batch.
// Document indexes are the stable identity of a document everywhere downstream.
type UploadSession struct {
	ID        string           `json:"id"`
	Documents []ParsedDocument `json:"documents"`

	// Classifications is sparse: an absent index has not been classified
	// or its classification failed.
	Classifications map[int]ClassificationResult `json:"classifications"`

	// UserEdits is sparse: an absent index has no human overrides.
	UserEdits map[int]ClassificationEdit `json:"userEdits"`

	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// IsExpired returns true once now has reached ExpiresAt.
func (s *UploadSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ValidIndex returns true if index addresses a document in the session.
func (s *UploadSession) ValidIndex(index int) bool {
	return index >= 0 && index < len(s.Documents)
}

// Classification returns the stored classification for index, if any.
func (s *UploadSession) Classification(index int) (*ClassificationResult, bool) {
	c, ok := s.Classifications[index]
	if !ok {
		return nil, false
	}
	return &c, true
}

// Edit returns the stored human edit for index, if any.
func (s *UploadSession) Edit(index int) (*ClassificationEdit, bool) {
	e, ok := s.UserEdits[index]
	if !ok {
		return nil, false
	}
	return &e, true
}

// Effective returns the base classification for index with the human edit
// merged in, or nil if the document has no classification.
func (s *UploadSession) Effective(index int) *ClassificationResult {
	base, _ := s.Classification(index)
	edit, _ := s.Edit(index)
	return EffectiveClassification(base, edit)
}

// Clone returns a deep copy so callers never share maps with a store.
func (s *UploadSession) Clone() *UploadSession {
	out := *s
	out.Documents = make([]ParsedDocument, len(s.Documents))
	for i, d := range s.Documents {
		d.Errors = cloneStrings(d.Errors)
		if d.Metadata != nil {
			md := make(map[string]string, len(d.Metadata))
			for k, v := range d.Metadata {
				md[k] = v
			}
			d.Metadata = md
		}
		out.Documents[i] = d
	}
	out.Classifications = make(map[int]ClassificationResult, len(s.Classifications))
	for i, c := range s.Classifications {
		out.Classifications[i] = c.Clone()
	}
	out.UserEdits = make(map[int]ClassificationEdit, len(s.UserEdits))
	for i, e := range s.UserEdits {
		out.UserEdits[i] = e.Clone()
	}
	return &out
}

// SessionSummary is a lightweight view of a session for listings.
type SessionSummary struct {
	ID          string        `json:"id"`
	Status      SessionStatus `json:"status"`
	Documents   int           `json:"documents"`
	Classified  int           `json:"classified"`
	NeedsReview int           `json:"needsReview"`
	CreatedAt   time.Time     `json:"createdAt"`
	ExpiresAt   time.Time     `json:"expiresAt"`
}

// Summary returns the listing view of the session.
func (s *UploadSession) Summary() SessionSummary {
	sum := SessionSummary{
		ID:         s.ID,
		Status:     s.Status,
		Documents:  len(s.Documents),
		Classified: len(s.Classifications),
		CreatedAt:  s.CreatedAt,
		ExpiresAt:  s.ExpiresAt,
	}
	for _, c := range s.Classifications {
		if c.NeedsReview {
			sum.NeedsReview++
		}
	}
	return sum
}
