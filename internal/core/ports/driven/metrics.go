package driven

import (
	"time"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// PipelineMetrics records pipeline counters and timings.
type PipelineMetrics interface {
	DocumentParsed(format domain.Format, ok bool)
	BatchRejected()
	ClassificationSucceeded(objectType domain.KnowledgeType, needsReview bool, elapsed time.Duration)
	ClassificationFailed(reason string)
	PromptTokens(count int)
	SubmissionCreated(objectType domain.KnowledgeType)
	SubmissionFailed()
	SessionsActive(count int)
}

// TokenCounter counts model tokens in a piece of text.
type TokenCounter interface {
	Count(text string) int
}
