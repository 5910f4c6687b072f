package services

import (
	"time"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

// nopMetrics is used when no metrics sink is wired.
type nopMetrics struct{}

var _ driven.PipelineMetrics = nopMetrics{}

func (nopMetrics) DocumentParsed(domain.Format, bool)                                {}
func (nopMetrics) BatchRejected()                                                    {}
func (nopMetrics) ClassificationSucceeded(domain.KnowledgeType, bool, time.Duration) {}
func (nopMetrics) ClassificationFailed(string)                                       {}
func (nopMetrics) PromptTokens(int)                                                  {}
func (nopMetrics) SubmissionCreated(domain.KnowledgeType)                            {}
func (nopMetrics) SubmissionFailed()                                                 {}
func (nopMetrics) SessionsActive(int)                                                {}

func metricsOrNop(m driven.PipelineMetrics) driven.PipelineMetrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
