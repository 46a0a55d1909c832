// Package tui provides the Bubble Tea terminal UI for linkprobe,
// displaying live validation progress and a styled summary of results.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/linkprobe/checker"
	"github.com/lukemcguire/linkprobe/result"
)

// Model is the Bubble Tea model for the check TUI.
type Model struct {
	cancel     context.CancelFunc
	spinner    spinner.Model
	progressCh <-chan checker.Event

	pageURL  string
	stage    checker.Stage
	started  bool
	checked  int
	total    int
	valid    int
	invalid  int
	current  string
	quitting bool
	done     bool
	result   *result.Result
	err      error
}

// NewModel creates a TUI model for pageURL fed by progressCh.
// cancel aborts the running check when the user quits.
func NewModel(pageURL string, cancel context.CancelFunc, progressCh <-chan checker.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle
	return Model{
		cancel:     cancel,
		spinner:    spin,
		progressCh: progressCh,
		pageURL:    pageURL,
	}
}

// Init starts the spinner and the progress listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForProgress(m.progressCh))
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.onKey(msg)
	case ProgressMsg:
		m.apply(msg.Event)
		return m, waitForProgress(m.progressCh)
	case progressClosedMsg:
		return m, nil
	case DoneMsg:
		m.done, m.result, m.err = true, msg.Result, msg.Err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) onKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if s := key.String(); s != "ctrl+c" && s != "q" {
		return m, nil
	}
	m.quitting = true
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

// apply folds one pipeline event into the counters.
func (m *Model) apply(evt checker.Event) {
	m.started = true
	m.stage = evt.Stage
	if evt.Stage == checker.StageFetched {
		return
	}
	m.total = evt.Total
	if evt.Stage == checker.StageValidated {
		m.checked, m.valid, m.invalid = evt.Checked, evt.Valid, evt.Invalid
		m.current = evt.URL
	}
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.result != nil {
		return RenderSummary(m.result)
	}
	if m.done && m.err != nil {
		return badStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.quitting {
		return mutedStyle.Render("Cancelled.") + "\n"
	}
	switch {
	case !m.started:
		return fmt.Sprintf("%s Fetching %s\n", m.spinner.View(), m.pageURL)
	case m.stage == checker.StageFetched:
		return fmt.Sprintf("%s Reading links from %s\n", m.spinner.View(), m.pageURL)
	}
	return fmt.Sprintf("%s Checking external links... %d/%d, valid %d, invalid %d\n%s\n",
		m.spinner.View(), m.checked, m.total, m.valid, m.invalid,
		mutedStyle.Render("  "+m.current))
}

// Quitting reports whether the user aborted the check.
func (m Model) Quitting() bool {
	return m.quitting
}

// Result returns the check result once done.
func (m Model) Result() *result.Result {
	return m.result
}

// Err returns the error the check ended with, if any.
func (m Model) Err() error {
	return m.err
}

// HasInvalidLinks reports whether the finished check found invalid links.
func (m Model) HasInvalidLinks() bool {
	return m.result.HasInvalidLinks()
}
