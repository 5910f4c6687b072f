package mcp

import (
	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Sessions manages upload sessions and edits.
	Sessions driving.SessionService

	// Parser extracts text from local files.
	Parser driving.DocumentParser

	// Streamer classifies whole sessions.
	Streamer driving.ClassificationStreamer

	// Review reclassifies and approves documents.
	Review driving.ReviewService

	// Limits bounds each create_session call.
	Limits domain.BatchLimits
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	// The remaining ports are optional: their tools report ErrUnavailable.
	return nil
}
