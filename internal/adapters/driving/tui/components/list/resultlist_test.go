package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

func classified(name string, confidence float64) domain.ClassificationResult {
	return domain.ClassificationResult{
		ObjectType:  domain.KnowledgeTypePersona,
		ObjectName:  name,
		Confidence:  confidence,
		NeedsReview: confidence < domain.DefaultConfidenceThreshold,
	}
}

func TestNewResultList(t *testing.T) {
	l := NewResultList(nil, []string{"a.md", "b.md"})

	require.Equal(t, 2, l.Len())
	assert.Equal(t, "a.md", l.Row(0).Filename)
	assert.False(t, l.Row(0).Classified())
	assert.Empty(t, l.Selected())
	assert.Contains(t, l.View(), "pending")
}

func TestResultList_EmptyView(t *testing.T) {
	l := NewResultList(nil, nil)
	assert.Equal(t, "No documents", stripANSI(l.View()))
}

func TestResultList_SetResultAndError(t *testing.T) {
	l := NewResultList(nil, []string{"a.md", "b.md"})

	l.SetError(0, "llm timeout")
	assert.Equal(t, "llm timeout", l.Row(0).Error)

	l.SetResult(0, classified("CFO", 0.9))
	assert.True(t, l.Row(0).Classified())
	assert.Empty(t, l.Row(0).Error)

	// out of range is ignored
	l.SetResult(5, classified("x", 1))
	l.SetError(-1, "x")

	view := l.View()
	assert.Contains(t, view, "CFO")
	assert.Contains(t, view, "0.90")
}

func TestResultList_Cursor(t *testing.T) {
	l := NewResultList(nil, []string{"a", "b", "c"})

	l.MoveUp()
	assert.Equal(t, 0, l.Cursor())
	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Cursor())
	l.MoveUp()
	assert.Equal(t, 1, l.Cursor())
}

func TestResultList_Toggle(t *testing.T) {
	l := NewResultList(nil, []string{"a", "b"})

	l.Toggle()
	assert.Empty(t, l.Selected(), "unclassified rows cannot be selected")

	l.SetResult(0, classified("A", 0.9))
	l.Toggle()
	assert.Equal(t, []int{0}, l.Selected())
	l.Toggle()
	assert.Empty(t, l.Selected())
}

func TestResultList_ToggleAll(t *testing.T) {
	l := NewResultList(nil, []string{"a", "b", "c"})
	l.SetResult(0, classified("A", 0.9))
	l.SetResult(2, classified("C", 0.4))

	l.ToggleAll()
	assert.Equal(t, []int{0, 2}, l.Selected())

	l.ToggleAll()
	assert.Empty(t, l.Selected())
}

func TestResultList_SelectWhere(t *testing.T) {
	l := NewResultList(nil, []string{"a", "b", "c"})
	l.SetResult(0, classified("A", 0.9))
	l.SetResult(1, classified("B", 0.5))

	l.SelectWhere(func(r Row) bool { return r.Classification.Confidence >= 0.8 })

	assert.Equal(t, []int{0}, l.Selected())
	assert.Contains(t, l.View(), "needs review")
}

func TestResultList_ViewScrollsToCursor(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f"}
	l := NewResultList(nil, names)
	l.SetDimensions(80, 4)

	for range names {
		l.MoveDown()
	}
	view := l.View()
	assert.Contains(t, view, "f")
	assert.NotContains(t, view, " a ")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

// stripANSI removes escape sequences so rendered text can be compared.
func stripANSI(s string) string {
	var b []rune
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			b = append(b, r)
		}
	}
	return string(b)
}
