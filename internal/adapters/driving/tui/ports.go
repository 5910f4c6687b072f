// Package tui provides an interactive terminal interface for classifying and
// reviewing one upload batch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Streamer classifies the session and emits events.
	Streamer driving.ClassificationStreamer

	// Review reclassifies single documents and approves the selection.
	Review driving.ReviewService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Streamer == nil {
		return ErrMissingStreamer
	}
	if p.Review == nil {
		return ErrMissingReview
	}
	return nil
}

// Batch identifies the session the TUI works on.
type Batch struct {
	// SessionID is the upload session to classify.
	SessionID string

	// Filenames are the documents of the session in order.
	Filenames []string

	// Submitter is recorded on every approved submission.
	Submitter string

	// PreselectAbove selects, once classification finishes, every result
	// that is not flagged for review and has at least this confidence.
	// Zero disables preselection.
	PreselectAbove float64
}
