// Package metrics exposes pipeline counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

// Ensure Metrics implements the interface.
var _ driven.PipelineMetrics = (*Metrics)(nil)

const namespace = "content_automation"

// Metrics holds every pipeline collector. Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	documentsParsed        *prometheus.CounterVec
	batchesRejected        prometheus.Counter
	classifications        *prometheus.CounterVec
	classificationFailures *prometheus.CounterVec
	classificationDuration prometheus.Histogram
	promptTokens           prometheus.Histogram
	submissions            *prometheus.CounterVec
	submissionFailures     prometheus.Counter
	sessionsActive         prometheus.Gauge
}

// New creates and registers the pipeline metrics plus the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		documentsParsed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_parsed_total",
			Help:      "Documents run through text extraction, by format and outcome.",
		}, []string{"format", "ok"}),
		batchesRejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_rejected_total",
			Help:      "Batches refused by the count or size guard.",
		}),
		classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Successful classifications, by object type and review flag.",
		}, []string{"object_type", "needs_review"}),
		classificationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_failures_total",
			Help:      "Failed classifications, by reason.",
		}, []string{"reason"}),
		classificationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classification_duration_seconds",
			Help:      "LLM round trip time for successful classifications.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
		promptTokens: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prompt_tokens",
			Help:      "Tokens in each classification prompt.",
			Buckets:   prometheus.ExponentialBuckets(256, 2, 10),
		}),
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_created_total",
			Help:      "Review-queue submissions created, by object type.",
		}, []string{"object_type"}),
		submissionFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_failures_total",
			Help:      "Approvals that did not produce a submission.",
		}),
		sessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Upload sessions currently held in memory.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) DocumentParsed(format domain.Format, ok bool) {
	m.documentsParsed.WithLabelValues(string(format), strconv.FormatBool(ok)).Inc()
}

func (m *Metrics) BatchRejected() {
	m.batchesRejected.Inc()
}

func (m *Metrics) ClassificationSucceeded(objectType domain.KnowledgeType, needsReview bool, elapsed time.Duration) {
	m.classifications.WithLabelValues(string(objectType), strconv.FormatBool(needsReview)).Inc()
	m.classificationDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ClassificationFailed(reason string) {
	m.classificationFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) PromptTokens(count int) {
	m.promptTokens.Observe(float64(count))
}

func (m *Metrics) SubmissionCreated(objectType domain.KnowledgeType) {
	m.submissions.WithLabelValues(string(objectType)).Inc()
}

func (m *Metrics) SubmissionFailed() {
	m.submissionFailures.Inc()
}

func (m *Metrics) SessionsActive(count int) {
	m.sessionsActive.Set(float64(count))
}
