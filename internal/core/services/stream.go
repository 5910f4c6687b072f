package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driving"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// Ensure StreamService implements the interface.
var _ driving.ClassificationStreamer = (*StreamService)(nil)

// NoContentMessage is the failure reported for documents without text.
const NoContentMessage = "no extractable content"

// StreamService classifies a whole session, one document at a time.
type StreamService struct {
	sessions   driven.SessionStore
	knowledge  driven.KnowledgeStore
	classifier driving.Classifier
}

// NewStreamService creates a streaming classification controller.
func NewStreamService(
	sessions driven.SessionStore,
	knowledge driven.KnowledgeStore,
	classifier driving.Classifier,
) *StreamService {
	return &StreamService{
		sessions:   sessions,
		knowledge:  knowledge,
		classifier: classifier,
	}
}

// Stream validates the session, takes one snapshot of existing objects and
// starts the classification loop. Events are delivered in index order and
// the channel is closed after the done event.
//
// A session is streamed once: the run claims it by moving it from parsing to
// classifying, and any later or concurrent call gets
// domain.ErrSessionClassified.
//
// The loop does not stop when ctx is cancelled: it runs to completion so the
// session ends up fully classified even if the consumer goes away.
func (s *StreamService) Stream(ctx context.Context, sessionID string) (<-chan domain.ClassificationEvent, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if sess.Status != domain.SessionStatusParsing {
		return nil, fmt.Errorf("%w: status is %s", domain.ErrSessionClassified, sess.Status)
	}

	existing, err := s.knowledge.ListExisting(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list existing objects: %w", domain.ErrStoreUnavailable, err)
	}

	if !s.sessions.TransitionStatus(sessionID, domain.SessionStatusParsing, domain.SessionStatusClassifying) {
		if _, ok := s.sessions.Get(sessionID); !ok {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: another run started first", domain.ErrSessionClassified)
	}

	// progress + result/error per document, plus done
	events := make(chan domain.ClassificationEvent, 2*len(sess.Documents)+1)
	go s.run(context.WithoutCancel(ctx), sess, existing, events)
	return events, nil
}

func (s *StreamService) run(
	ctx context.Context,
	sess *domain.UploadSession,
	existing []domain.KnowledgeObject,
	events chan<- domain.ClassificationEvent,
) {
	defer close(events)

	total := len(sess.Documents)
	logger.Info("Classifying session %s: %d document(s)", sess.ID, total)

	classified, failed := 0, 0
	for i, doc := range sess.Documents {
		events <- domain.ProgressEvent(i, total, doc.Filename)

		result, err := s.classifyOne(ctx, doc, existing)
		if err != nil {
			failed++
			events <- domain.ErrorEvent(i, doc.Filename, errorMessage(err))
			continue
		}

		if !s.sessions.SetClassification(sess.ID, i, *result) {
			logger.Warn("Session %s disappeared while classifying %s", sess.ID, doc.Filename)
		}
		classified++
		events <- domain.ResultEvent(i, doc.Filename, *result)
	}

	s.sessions.SetStatus(sess.ID, domain.SessionStatusReviewing)
	logger.Info("Session %s classified: %d succeeded, %d failed", sess.ID, classified, failed)
	events <- domain.DoneEvent(total, classified, failed)
}

// classifyOne fails fast for empty documents and isolates classifier panics.
func (s *StreamService) classifyOne(
	ctx context.Context,
	doc domain.ParsedDocument,
	existing []domain.KnowledgeObject,
) (result *domain.ClassificationResult, err error) {
	if !doc.HasContent() {
		return nil, errors.New(NoContentMessage)
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("classification panicked: %v", r)
		}
	}()
	return s.classifier.Classify(ctx, doc, existing)
}

// errorMessage returns the raw failure message carried by a ClassificationError.
func errorMessage(err error) string {
	var cerr *domain.ClassificationError
	if errors.As(err, &cerr) {
		return cerr.Message
	}
	return err.Error()
}
