package tui

// Package-level constants to avoid magic numbers and improve readability.
const (
	channelBufferSize = 64

	// progress bar width bounds; the bar follows the window width in between.
	defaultProgressWidth = 40
	maxProgressWidth     = 60
	progressMargin       = 4
)
