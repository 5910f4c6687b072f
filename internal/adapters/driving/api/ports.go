package api

import (
	"net/http"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driving"
)

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Parser   driving.DocumentParser
	Sessions driving.SessionService
	Streamer driving.ClassificationStreamer
	Review   driving.ReviewService

	// Limits bounds every upload. Zero fields use the defaults.
	Limits domain.BatchLimits

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Parser == nil:
		return ErrMissingParser
	case p.Sessions == nil:
		return ErrMissingSessions
	case p.Streamer == nil:
		return ErrMissingStreamer
	case p.Review == nil:
		return ErrMissingReview
	}
	return nil
}
