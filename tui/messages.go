package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/linkprobe/checker"
	"github.com/lukemcguire/linkprobe/result"
)

// ProgressMsg carries one pipeline progress event.
type ProgressMsg struct {
	Event checker.Event
}

// DoneMsg signals the check has completed.
type DoneMsg struct {
	Result *result.Result
	Err    error
}

// progressClosedMsg signals that no more progress events will arrive.
type progressClosedMsg struct{}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. The final result is delivered separately as a DoneMsg.
func waitForProgress(ch <-chan checker.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return progressClosedMsg{}
		}
		return ProgressMsg{Event: evt}
	}
}
