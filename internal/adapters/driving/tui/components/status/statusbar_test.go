package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui/messages"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, messages.PhaseClassifying, bar.Phase())
	assert.Contains(t, bar.View(), "Classifying...")
	assert.Contains(t, bar.View(), "q: quit")
}

func TestBar_Phases(t *testing.T) {
	tests := []struct {
		phase messages.Phase
		want  string
	}{
		{messages.PhaseClassifying, "Classifying..."},
		{messages.PhaseReviewing, "2 selected"},
		{messages.PhaseApproving, "Submitting..."},
		{messages.PhaseDone, "Done"},
	}

	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			bar.SetSelected(2)
			bar.SetPhase(tt.phase)
			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_ReviewHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)
	bar.SetPhase(messages.PhaseReviewing)

	view := bar.View()
	assert.Contains(t, view, "space: select")
	assert.Contains(t, view, "enter: approve")
}

func TestBar_Messages(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)

	bar.SetMessage("Reclassifying b.md")
	assert.Contains(t, bar.View(), "Reclassifying b.md")

	bar.SetError("oracle down")
	assert.Contains(t, bar.View(), "Error: oracle down")

	bar.SetPhase(messages.PhaseReviewing)
	assert.NotContains(t, bar.View(), "oracle down")
}
