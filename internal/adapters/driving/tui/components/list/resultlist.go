// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui/styles"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// Row is one document of the batch as shown in the list.
type Row struct {
	Filename       string
	Classification *domain.ClassificationResult
	Error          string
}

// Classified returns true if the row has a classification.
func (r Row) Classified() bool {
	return r.Classification != nil
}

// ResultList displays one row per document with a cursor and a selection.
type ResultList struct {
	rows     []Row
	cursor   int
	selected map[int]bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a list for filenames, all pending.
func NewResultList(s *styles.Styles, filenames []string) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	rows := make([]Row, len(filenames))
	for i, f := range filenames {
		rows[i] = Row{Filename: f}
	}
	return &ResultList{
		rows:     rows,
		selected: make(map[int]bool),
		styles:   s,
		width:    80,
		height:   20,
	}
}

// SetResult records a classification for index and clears any error.
func (r *ResultList) SetResult(index int, result domain.ClassificationResult) {
	if index < 0 || index >= len(r.rows) {
		return
	}
	r.rows[index].Classification = &result
	r.rows[index].Error = ""
}

// SetError records a failure for index.
func (r *ResultList) SetError(index int, msg string) {
	if index < 0 || index >= len(r.rows) {
		return
	}
	r.rows[index].Error = msg
}

// Row returns the row at index.
func (r *ResultList) Row(index int) Row {
	return r.rows[index]
}

// Len returns the number of rows.
func (r *ResultList) Len() int {
	return len(r.rows)
}

// Cursor returns the index under the cursor.
func (r *ResultList) Cursor() int {
	return r.cursor
}

// MoveUp moves the cursor up.
func (r *ResultList) MoveUp() {
	if r.cursor > 0 {
		r.cursor--
	}
}

// MoveDown moves the cursor down.
func (r *ResultList) MoveDown() {
	if r.cursor < len(r.rows)-1 {
		r.cursor++
	}
}

// Toggle flips the selection of the row under the cursor.
// Unclassified rows cannot be selected.
func (r *ResultList) Toggle() {
	if len(r.rows) == 0 || !r.rows[r.cursor].Classified() {
		return
	}
	if r.selected[r.cursor] {
		delete(r.selected, r.cursor)
	} else {
		r.selected[r.cursor] = true
	}
}

// ToggleAll selects every classified row, or clears the selection when
// every classified row is already selected.
func (r *ResultList) ToggleAll() {
	classified := 0
	for i, row := range r.rows {
		if row.Classified() {
			classified++
			if !r.selected[i] {
				r.SelectWhere(func(Row) bool { return true })
				return
			}
		}
	}
	if classified > 0 {
		r.selected = make(map[int]bool)
	}
}

// SelectWhere adds every classified row matching fn to the selection.
func (r *ResultList) SelectWhere(fn func(Row) bool) {
	for i, row := range r.rows {
		if row.Classified() && fn(row) {
			r.selected[i] = true
		}
	}
}

// Selected returns the selected indexes in ascending order.
func (r *ResultList) Selected() []int {
	out := make([]int, 0, len(r.selected))
	for i := range r.rows {
		if r.selected[i] {
			out = append(out, i)
		}
	}
	return out
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// View renders the visible window of rows around the cursor.
func (r *ResultList) View() string {
	if len(r.rows) == 0 {
		return r.styles.Muted.Render("No documents")
	}

	visible := r.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.cursor >= visible {
		start = r.cursor - visible + 1
	}
	end := min(start+visible, len(r.rows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i))
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) renderRow(i int) string {
	row := r.rows[i]

	indicator := "  "
	if i == r.cursor {
		indicator = "> "
	}
	check := "[ ]"
	if r.selected[i] {
		check = "[x]"
	}

	name := truncate(row.Filename, max(r.width/3, 12))
	prefix := fmt.Sprintf("%s%s %-*s ", indicator, check, max(r.width/3, 12), name)
	if i == r.cursor {
		prefix = r.styles.Selected.Render(prefix)
	} else {
		prefix = r.styles.Normal.Render(prefix)
	}

	switch {
	case row.Classification != nil:
		c := row.Classification
		detail := r.styles.Badge.Render(c.ObjectType.String()) + " " + c.ObjectName + " " +
			r.styles.Confidence(c.NeedsReview).Render(fmt.Sprintf("%.2f", c.Confidence))
		if c.NeedsReview {
			detail += r.styles.Warning.Render(" needs review")
		}
		return prefix + detail
	case row.Error != "":
		return prefix + r.styles.Error.Render(truncate(row.Error, max(r.width/2, 20)))
	default:
		return prefix + r.styles.Muted.Render("pending")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
