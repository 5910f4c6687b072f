package services

import (
	"context"
	"fmt"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService exposes the session registry to driving adapters and
// translates its not-found results into errors.
type SessionService struct {
	store     driven.SessionStore
	knowledge driven.KnowledgeStore
	metrics   driven.PipelineMetrics
}

// NewSessionService creates a new session service. knowledge resolves the
// relationships carried by human edits.
func NewSessionService(
	store driven.SessionStore,
	knowledge driven.KnowledgeStore,
	metrics driven.PipelineMetrics,
) *SessionService {
	return &SessionService{store: store, knowledge: knowledge, metrics: metricsOrNop(metrics)}
}

// Create starts a session for the parsed documents.
func (s *SessionService) Create(_ context.Context, docs []domain.ParsedDocument) (*domain.UploadSession, error) {
	sess := s.store.Create(docs)
	s.metrics.SessionsActive(s.store.Len())
	return sess, nil
}

// Get returns the session or domain.ErrSessionNotFound.
func (s *SessionService) Get(_ context.Context, id string) (*domain.UploadSession, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// List returns summaries of live sessions.
func (s *SessionService) List(_ context.Context) []domain.SessionSummary {
	list := s.store.List()
	s.metrics.SessionsActive(len(list))
	return list
}

// Delete removes the session.
func (s *SessionService) Delete(_ context.Context, id string) error {
	if !s.store.Delete(id) {
		return domain.ErrSessionNotFound
	}
	s.metrics.SessionsActive(s.store.Len())
	return nil
}

// Edit merges a human override onto the document's stored edit and returns
// the resulting effective classification. Editing an unclassified document
// is allowed and returns a nil result until the document is classified.
// Relationships in the edit are resolved against a fresh snapshot of
// existing objects; entries naming no live object are dropped.
func (s *SessionService) Edit(
	ctx context.Context,
	id string,
	index int,
	edit domain.ClassificationEdit,
) (*domain.ClassificationResult, error) {
	if edit.ObjectType != nil && !edit.ObjectType.IsValid() {
		return nil, fmt.Errorf("%w: invalid objectType %q: must be one of %s",
			domain.ErrInvalidInput, *edit.ObjectType, domain.KnowledgeTypeNames())
	}
	if edit.Confidence != nil && (*edit.Confidence < 0 || *edit.Confidence > 1) {
		return nil, fmt.Errorf("%w: confidence must be between 0 and 1", domain.ErrInvalidInput)
	}

	sess, err := s.lookup(id, index)
	if err != nil {
		return nil, err
	}
	if edit.SuggestedRelationships != nil {
		existing, err := s.knowledge.ListExisting(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list existing objects: %w", domain.ErrStoreUnavailable, err)
		}
		edit.SuggestedRelationships = ResolveEdited(edit.SuggestedRelationships, existing)
	}
	if !s.store.SetUserEdit(sess.ID, index, edit) {
		return nil, domain.ErrSessionNotFound
	}

	updated, ok := s.store.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return updated.Effective(index), nil
}

// Effective returns the merged classification for one document.
func (s *SessionService) Effective(_ context.Context, id string, index int) (*domain.ClassificationResult, error) {
	sess, err := s.lookup(id, index)
	if err != nil {
		return nil, err
	}
	eff := sess.Effective(index)
	if eff == nil {
		return nil, fmt.Errorf("document %d: %w", index, domain.ErrNotFound)
	}
	return eff, nil
}

func (s *SessionService) lookup(id string, index int) (*domain.UploadSession, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !sess.ValidIndex(index) {
		return nil, fmt.Errorf("%w: %d (session has %d documents)", domain.ErrIndexOutOfRange, index, len(sess.Documents))
	}
	return sess, nil
}
