package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ffajobchange/ffa-status/internal/countdown"
	"github.com/ffajobchange/ffa-status/internal/lookup"
)

// Run starts the Bubble Tea TUI program, wiring the runner's countdown to messages,
// and returns the lookup result once the program exits.
func Run(ctx context.Context, r *lookup.Runner, characterID string) (lookup.Result, error) {
	countdownCh := make(chan countdownMsg, channelBufferSize)
	resultCh := make(chan resultMsg, 1)

	model := NewModel(characterID, countdownCh, resultCh)

	// Bridge: forward every controller change. Drop rather than block the tick goroutine.
	unbind := r.Countdown().OnChange(func(s countdown.State) {
		select {
		case countdownCh <- countdownMsg{State: s, Message: r.Message().Load()}:
		default:
			logrus.Debug("countdown update dropped; display is behind")
		}
	})
	defer unbind()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(model, tea.WithContext(ctx))

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	// Start lookup in background.
	go func() {
		res, err := r.Run(ctx, characterID)
		resultCh <- resultMsg{Result: res, Err: err}
	}()

	// Run TUI blocking in this goroutine.
	final, err := p.Run()
	if err != nil {
		return lookup.Result{}, err
	}
	fm, ok := final.(Model)
	if !ok {
		return lookup.Result{}, ErrQuit
	}
	res, resErr := fm.Result()
	if res == nil {
		return lookup.Result{}, ErrQuit
	}
	return *res, resErr
}
