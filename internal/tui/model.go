package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ffajobchange/ffa-status/internal/countdown"
	"github.com/ffajobchange/ffa-status/internal/lookup"
)

// Model is the root Bubble Tea model: the display surface for one lookup.
type Model struct {
	characterID string

	// last countdown state seen and the message slot alongside it
	state   countdown.State
	message string
	// length of the current phase, for the progress bar
	phaseTotal int

	progress progress.Model
	spinner  spinner.Model
	width    int

	// inbound messages from the runner bridge
	countdownCh chan countdownMsg
	resultCh    chan resultMsg

	result   *lookup.Result
	err      error
	done     bool
	quitting bool

	// ui state
	helpVisible bool
	keys        keyMap
}

// NewModel constructs a Model with initial state.
func NewModel(characterID string, countdownCh chan countdownMsg, resultCh chan resultMsg) Model { // nolint:ireturn
	p := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	p.Width = defaultProgressWidth
	return Model{
		characterID: characterID,
		progress:    p,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		countdownCh: countdownCh,
		resultCh:    resultCh,
		keys:        newKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenForCountdown(),
		m.listenForResult(),
		m.spinner.Tick,
	)
}

// Result returns the finished lookup, if any, and its error.
func (m Model) Result() (*lookup.Result, error) {
	return m.result, m.err
}

// listenForCountdown returns a Tea command that waits for countdownMsg.
func (m Model) listenForCountdown() tea.Cmd {
	return func() tea.Msg {
		msg := <-m.countdownCh
		return msg
	}
}

// listenForResult returns a Tea command that waits for resultMsg.
func (m Model) listenForResult() tea.Cmd {
	return func() tea.Msg {
		msg := <-m.resultCh
		return msg
	}
}

// percent is the elapsed fraction of the current phase.
func (m Model) percent() float64 {
	if m.phaseTotal <= 0 {
		return 0
	}
	pct := float64(m.phaseTotal-m.state.Remaining) / float64(m.phaseTotal)
	switch {
	case pct < 0:
		return 0
	case pct > 1:
		return 1
	}
	return pct
}
