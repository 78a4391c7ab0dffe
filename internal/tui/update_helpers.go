package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ffajobchange/ffa-status/internal/countdown"
)

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil
	}

	return m, nil
}

// applyCountdown records a controller update. A new phase, or a jump
// upwards in remaining seconds, resets the progress bar's length.
func (m *Model) applyCountdown(x countdownMsg) {
	if x.State.Phase != m.state.Phase || x.State.Remaining > m.state.Remaining {
		if x.State.Phase != countdown.PhaseFinished {
			m.phaseTotal = x.State.Remaining
		}
	}
	m.state = x.State
	m.message = x.Message
}

func progressWidth(windowWidth int) int {
	w := windowWidth - progressMargin
	if w > maxProgressWidth {
		w = maxProgressWidth
	}
	if w < 1 {
		w = defaultProgressWidth
	}
	return w
}
