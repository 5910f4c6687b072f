package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errs := []error{
		ErrMissingStreamer,
		ErrMissingReview,
		ErrMissingSession,
		ErrNothingSelected,
	}

	seen := make(map[string]bool)
	for _, err := range errs {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingStreamer)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingStreamer)
	assert.ErrorIs(t, (&Ports{Streamer: &mockStreamer{}}).Validate(), ErrMissingReview)
	assert.NoError(t, (&Ports{Streamer: &mockStreamer{}, Review: &mockReview{}}).Validate())
}
