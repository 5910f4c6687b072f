package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driving"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// Ensure ReviewService implements the interface.
var _ driving.ReviewService = (*ReviewService)(nil)

// Per-document approval failures.
var (
	errNoClassification = errors.New("No classification for document") //nolint:staticcheck // surfaced verbatim to reviewers
	errMissingName      = errors.New("Object name is required")        //nolint:staticcheck // surfaced verbatim to reviewers
)

// ReviewService reclassifies single documents and submits approved ones.
type ReviewService struct {
	sessions    driven.SessionStore
	knowledge   driven.KnowledgeStore
	classifier  driving.Classifier
	submissions driven.SubmissionStore
	metrics     driven.PipelineMetrics
}

// NewReviewService creates a review/approval controller.
func NewReviewService(
	sessions driven.SessionStore,
	knowledge driven.KnowledgeStore,
	classifier driving.Classifier,
	submissions driven.SubmissionStore,
	metrics driven.PipelineMetrics,
) *ReviewService {
	return &ReviewService{
		sessions:    sessions,
		knowledge:   knowledge,
		classifier:  classifier,
		submissions: submissions,
		metrics:     metricsOrNop(metrics),
	}
}

// Reclassify classifies one document again against a fresh snapshot.
// The new result replaces the stored one and any human edit is dropped.
func (s *ReviewService) Reclassify(ctx context.Context, sessionID string, index int) (*domain.ClassificationResult, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !sess.ValidIndex(index) {
		return nil, fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, index)
	}

	doc := sess.Documents[index]
	if !doc.HasContent() {
		return nil, domain.NewClassificationError(doc.Filename, errors.New(NoContentMessage))
	}

	existing, err := s.knowledge.ListExisting(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list existing objects: %w", domain.ErrStoreUnavailable, err)
	}

	result, err := s.classifier.Classify(ctx, doc, existing)
	if err != nil {
		return nil, err
	}

	if !s.sessions.SetClassification(sessionID, index, *result) || !s.sessions.ClearUserEdit(sessionID, index) {
		return nil, domain.ErrSessionNotFound
	}
	logger.Debug("Reclassified %s in session %s", doc.Filename, sessionID)
	return result, nil
}

// Approve creates one submission per selected document. Each index is
// handled on its own: failures are collected and never stop the batch.
func (s *ReviewService) Approve(ctx context.Context, req domain.ApproveRequest) (*domain.ApproveResult, error) {
	sess, ok := s.sessions.Get(req.SessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	result := &domain.ApproveResult{
		Submissions: []domain.ApprovedSubmission{},
		Errors:      []domain.ApprovalError{},
	}
	snap := &snapshot{knowledge: s.knowledge}
	for _, index := range req.Indexes {
		id, err := s.approveOne(ctx, sess, index, req, snap)
		if err != nil {
			s.metrics.SubmissionFailed()
			result.Errors = append(result.Errors, domain.ApprovalError{Index: index, Message: err.Error()})
			continue
		}
		result.Submissions = append(result.Submissions, domain.ApprovedSubmission{Index: index, SubmissionID: id})
	}

	if len(result.Submissions) > 0 {
		s.sessions.SetStatus(req.SessionID, domain.SessionStatusApproved)
	}
	logger.Info("Approved session %s: %d submitted, %d failed",
		req.SessionID, len(result.Submissions), len(result.Errors))
	return result, nil
}

func (s *ReviewService) approveOne(
	ctx context.Context,
	sess *domain.UploadSession,
	index int,
	req domain.ApproveRequest,
	snap *snapshot,
) (string, error) {
	if !sess.ValidIndex(index) {
		return "", fmt.Errorf("Document index %d is out of range", index) //nolint:staticcheck // surfaced verbatim
	}

	eff := sess.Effective(index)
	if eff == nil {
		return "", errNoClassification
	}
	if override, ok := req.Overrides[index]; ok {
		if override.SuggestedRelationships != nil {
			existing, err := snap.get(ctx)
			if err != nil {
				return "", err
			}
			override.SuggestedRelationships = ResolveEdited(override.SuggestedRelationships, existing)
		}
		applied := eff.Apply(override)
		eff = &applied
	}

	if !eff.ObjectType.IsValid() {
		return "", fmt.Errorf("Invalid object type %q: must be one of %s", //nolint:staticcheck // surfaced verbatim
			eff.ObjectType, domain.KnowledgeTypeNames())
	}
	if strings.TrimSpace(eff.ObjectName) == "" {
		return "", errMissingName
	}

	sub, err := s.submissions.Create(ctx, domain.SubmissionRequest{
		Submitter:       req.Submitter,
		ObjectType:      eff.ObjectType,
		ObjectName:      eff.ObjectName,
		SubmissionType:  domain.SubmissionTypeCreate,
		ProposedContent: ProposedContent(sess.Documents[index], *eff),
	})
	if err != nil {
		return "", err
	}

	s.metrics.SubmissionCreated(eff.ObjectType)
	return sub.ID, nil
}

// snapshot fetches existing objects at most once per approval batch.
type snapshot struct {
	knowledge driven.KnowledgeStore
	fetched   bool
	objects   []domain.KnowledgeObject
	err       error
}

func (s *snapshot) get(ctx context.Context) ([]domain.KnowledgeObject, error) {
	if !s.fetched {
		s.fetched = true
		s.objects, s.err = s.knowledge.ListExisting(ctx)
		if s.err != nil {
			s.err = fmt.Errorf("%w: list existing objects: %w", domain.ErrStoreUnavailable, s.err)
		}
	}
	return s.objects, s.err
}

// ProposedContent builds the submission payload for a classified document.
// ICPs also carry the IDs of the personas and segments they reference.
func ProposedContent(doc domain.ParsedDocument, c domain.ClassificationResult) map[string]any {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	content := map[string]any{
		"name":       c.ObjectName,
		"content":    doc.Content,
		"tags":       tags,
		"sourceFile": doc.Filename,
	}

	if c.ObjectType == domain.KnowledgeTypeICP {
		personas, segments := []string{}, []string{}
		for _, rel := range c.SuggestedRelationships {
			switch rel.TargetType {
			case domain.KnowledgeTypePersona:
				personas = append(personas, rel.TargetID)
			case domain.KnowledgeTypeSegment:
				segments = append(segments, rel.TargetID)
			}
		}
		content["personas"] = personas
		content["segments"] = segments
	}
	return content
}
