// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// EventReceived carries one classification event from the stream.
type EventReceived struct {
	Event domain.ClassificationEvent
}

// StreamClosed is sent once the event channel has been drained.
type StreamClosed struct{}

// ReclassifyCompleted carries the outcome of reclassifying one document.
type ReclassifyCompleted struct {
	Index  int
	Result *domain.ClassificationResult
	Err    error
}

// ApproveCompleted carries the outcome of an approval.
type ApproveCompleted struct {
	Result *domain.ApproveResult
	Err    error
}

// Phase identifies the stage of the classify-and-review flow.
type Phase int

const (
	// PhaseClassifying shows progress while documents are classified.
	PhaseClassifying Phase = iota
	// PhaseReviewing lists results for selection.
	PhaseReviewing
	// PhaseApproving waits for the submissions to be created.
	PhaseApproving
	// PhaseDone shows the approval outcome.
	PhaseDone
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseClassifying:
		return "classifying"
	case PhaseReviewing:
		return "reviewing"
	case PhaseApproving:
		return "approving"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}
