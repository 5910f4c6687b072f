package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui/components/list"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui/components/status"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui/keymap"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui/messages"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui/styles"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

// streamStarted carries the event channel once the stream is running.
type streamStarted struct {
	events <-chan domain.ClassificationEvent
}

// streamFailed is sent when the stream could not be started.
type streamFailed struct {
	err error
}

// App is the classify-and-review TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	batch Batch
	ctx   context.Context

	styles   *styles.Styles
	keymap   *keymap.KeyMap
	list     *list.ResultList
	bar      *status.Bar
	progress progress.Model
	spinner  spinner.Model

	phase  messages.Phase
	events <-chan domain.ClassificationEvent

	// processed counts result and error events received so far.
	processed int
	summary   domain.ClassificationEvent

	// reclassifying is the index being reclassified, or -1.
	reclassifying int

	result *domain.ApproveResult
	err    error

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI for one batch.
func NewApp(ports *Ports, batch Batch) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if batch.SessionID == "" {
		return nil, fmt.Errorf("creating app: %w", ErrMissingSession)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	return &App{
		ports:         ports,
		batch:         batch,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		list:          list.NewResultList(s, batch.Filenames),
		bar:           status.NewBar(s, km),
		progress:      progress.New(progress.WithDefaultGradient()),
		spinner:       sp,
		phase:         messages.PhaseClassifying,
		reclassifying: -1,
		width:         80,
		height:        24,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It starts the classification stream.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("content-automation - "+a.batch.SessionID),
		a.spinner.Tick,
		a.startStream,
	)
}

func (a *App) startStream() tea.Msg {
	events, err := a.ports.Streamer.Stream(a.ctx, a.batch.SessionID)
	if err != nil {
		return streamFailed{err: err}
	}
	return streamStarted{events: events}
}

// waitForEvent reads the next event off the stream.
func waitForEvent(events <-chan domain.ClassificationEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return messages.StreamClosed{}
		}
		return messages.EventReceived{Event: ev}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		if a.phase != messages.PhaseClassifying && a.phase != messages.PhaseApproving && a.reclassifying < 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case streamStarted:
		a.events = msg.events
		return a, waitForEvent(a.events)

	case streamFailed:
		a.err = msg.err
		a.phase = messages.PhaseDone
		a.bar.SetPhase(a.phase)
		a.bar.SetError(msg.err.Error())
		return a, nil

	case messages.EventReceived:
		a.handleEvent(msg.Event)
		return a, waitForEvent(a.events)

	case messages.StreamClosed:
		a.events = nil
		a.enterReview()
		return a, nil

	case messages.ReclassifyCompleted:
		a.reclassifying = -1
		if msg.Err != nil {
			a.list.SetError(msg.Index, msg.Err.Error())
			a.bar.SetError(msg.Err.Error())
			return a, nil
		}
		if msg.Result != nil {
			a.list.SetResult(msg.Index, *msg.Result)
		}
		a.bar.SetPhase(a.phase)
		a.bar.SetSelected(len(a.list.Selected()))
		return a, nil

	case messages.ApproveCompleted:
		a.phase = messages.PhaseDone
		a.bar.SetPhase(a.phase)
		if msg.Err != nil {
			a.err = msg.Err
			a.bar.SetError(msg.Err.Error())
			return a, nil
		}
		a.result = msg.Result
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleEvent(ev domain.ClassificationEvent) {
	switch ev.Kind {
	case domain.EventProgress:
		a.bar.SetMessage(fmt.Sprintf("Classifying %s (%d/%d)", ev.Filename, ev.Index+1, ev.Total))
	case domain.EventResult:
		a.processed++
		if ev.Classification != nil {
			a.list.SetResult(ev.Index, *ev.Classification)
		}
	case domain.EventError:
		a.processed++
		a.list.SetError(ev.Index, ev.Message)
	case domain.EventDone:
		a.summary = ev
	}
}

func (a *App) enterReview() {
	if a.phase != messages.PhaseClassifying {
		return
	}
	if a.batch.PreselectAbove > 0 {
		threshold := a.batch.PreselectAbove
		a.list.SelectWhere(func(r list.Row) bool {
			return !r.Classification.NeedsReview && r.Classification.Confidence >= threshold
		})
	}
	a.phase = messages.PhaseReviewing
	a.bar.SetPhase(a.phase)
	a.bar.SetSelected(len(a.list.Selected()))
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	if keymap.Matches(k, a.keymap.Quit) {
		return a, tea.Quit
	}
	if a.phase == messages.PhaseDone {
		if k == "enter" || k == "esc" {
			return a, tea.Quit
		}
		return a, nil
	}
	if a.phase != messages.PhaseReviewing {
		return a, nil
	}

	switch {
	case keymap.Matches(k, a.keymap.Up):
		a.list.MoveUp()
	case keymap.Matches(k, a.keymap.Down):
		a.list.MoveDown()
	case keymap.Matches(k, a.keymap.Toggle):
		a.list.Toggle()
	case keymap.Matches(k, a.keymap.ToggleAll):
		a.list.ToggleAll()
	case keymap.Matches(k, a.keymap.Reclassify):
		return a, a.reclassify()
	case keymap.Matches(k, a.keymap.Approve):
		return a, a.approve()
	}
	a.bar.SetSelected(len(a.list.Selected()))
	return a, nil
}

func (a *App) reclassify() tea.Cmd {
	if a.reclassifying >= 0 || a.list.Len() == 0 {
		return nil
	}
	index := a.list.Cursor()
	a.reclassifying = index
	a.bar.SetMessage("Reclassifying " + a.list.Row(index).Filename)

	ctx, review, sessionID := a.ctx, a.ports.Review, a.batch.SessionID
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		res, err := review.Reclassify(ctx, sessionID, index)
		return messages.ReclassifyCompleted{Index: index, Result: res, Err: err}
	})
}

func (a *App) approve() tea.Cmd {
	if a.reclassifying >= 0 {
		return nil
	}
	selected := a.list.Selected()
	if len(selected) == 0 {
		a.bar.SetError(ErrNothingSelected.Error())
		return nil
	}
	a.phase = messages.PhaseApproving
	a.bar.SetPhase(a.phase)

	ctx, review := a.ctx, a.ports.Review
	req := domain.ApproveRequest{
		SessionID: a.batch.SessionID,
		Indexes:   selected,
		Submitter: a.batch.Submitter,
	}
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		res, err := review.Approve(ctx, req)
		return messages.ApproveCompleted{Result: res, Err: err}
	})
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("content-automation"))
	b.WriteString(" ")
	b.WriteString(a.styles.Muted.Render(a.batch.SessionID))
	b.WriteString("\n\n")

	switch a.phase {
	case messages.PhaseClassifying:
		b.WriteString(a.spinner.View())
		b.WriteString(" ")
		b.WriteString(a.progress.ViewAs(a.Percent()))
		b.WriteString(fmt.Sprintf(" %d/%d\n\n", a.processed, a.list.Len()))
	case messages.PhaseReviewing, messages.PhaseApproving:
		b.WriteString(a.styles.Subtitle.Render(fmt.Sprintf(
			"%d classified, %d failed", a.summary.Classified, a.summary.Failed)))
		if a.phase == messages.PhaseApproving || a.reclassifying >= 0 {
			b.WriteString(" " + a.spinner.View())
		}
		b.WriteString("\n\n")
	case messages.PhaseDone:
		b.WriteString(a.viewOutcome())
		b.WriteString("\n\n")
	}

	b.WriteString(a.list.View())
	b.WriteString("\n\n")
	b.WriteString(a.bar.View())
	return b.String()
}

func (a *App) viewOutcome() string {
	if a.result == nil {
		return a.styles.Error.Render("Nothing submitted")
	}
	lines := []string{a.styles.Success.Render(fmt.Sprintf(
		"Submitted %d, failed %d", len(a.result.Submissions), len(a.result.Errors)))}
	for _, e := range a.result.Errors {
		name := ""
		if e.Index >= 0 && e.Index < a.list.Len() {
			name = a.list.Row(e.Index).Filename
		}
		lines = append(lines, a.styles.Error.Render(fmt.Sprintf("  %s: %s", name, e.Message)))
	}
	return strings.Join(lines, "\n")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Percent returns the share of documents processed so far.
func (a *App) Percent() float64 {
	if a.list.Len() == 0 {
		return 1
	}
	return float64(a.processed) / float64(a.list.Len())
}

// Phase returns the current phase.
func (a *App) Phase() messages.Phase {
	return a.phase
}

// Selected returns the selected document indexes.
func (a *App) Selected() []int {
	return a.list.Selected()
}

// Result returns the approval outcome, or nil if nothing was approved.
func (a *App) Result() *domain.ApproveResult {
	return a.result
}

// Err returns the last fatal error.
func (a *App) Err() error {
	return a.err
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.list.SetDimensions(width, max(height-8, 3))
	a.bar.SetWidth(width)
	a.progress.Width = max(width-20, 10)
}
