package tui

import (
	"errors"

	"github.com/ffajobchange/ffa-status/internal/countdown"
	"github.com/ffajobchange/ffa-status/internal/lookup"
)

// Message types for Bubble Tea update loop.

// countdownMsg carries a controller state change and the message slot at that moment.
type countdownMsg struct {
	State   countdown.State
	Message string
}

// resultMsg carries the finished lookup.
type resultMsg struct {
	Result lookup.Result
	Err    error
}

// ErrQuit is returned by Run when the user quits before the lookup finishes.
var ErrQuit = errors.New("quit")
