package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ffajobchange/ffa-status/internal/countdown"
)

//nolint:gochecknoglobals // shared lipgloss styles.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	secondsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	waitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder
	b.WriteString(renderHeader(m.characterID))
	b.WriteString("\n\n")

	switch {
	case m.done:
		b.WriteString(renderOutcome(m))
	case !m.state.Visible:
		b.WriteString(m.spinner.View())
		b.WriteString(" Starting lookup...")
	default:
		b.WriteString(renderCountdown(m))
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(m.percent()))
	}
	b.WriteString("\n\n")

	if m.helpVisible {
		b.WriteString(renderHelp())
		b.WriteString("\n")
	}
	if !m.done {
		b.WriteString(renderFooter())
		b.WriteString("\n")
	}
	return b.String()
}

func renderHeader(characterID string) string {
	return titleStyle.Render("ffa-status") + mutedStyle.Render(" · character "+characterID)
}

func renderCountdown(m Model) string {
	msgStyle := lipgloss.NewStyle()
	if m.state.Phase == countdown.PhaseExtended {
		msgStyle = waitStyle
	}
	return fmt.Sprintf("%s %s %s",
		m.spinner.View(),
		msgStyle.Render(m.message),
		secondsStyle.Render(fmt.Sprintf("%ds", m.state.Remaining)),
	)
}

func renderOutcome(m Model) string {
	if m.err != nil {
		return failStyle.Render("✗ " + m.err.Error())
	}
	line := okStyle.Render("✓ " + m.message)
	if m.result != nil && m.result.Extended {
		line += mutedStyle.Render(" (after waiting for the server to wake up)")
	}
	return line
}

func renderFooter() string {
	return mutedStyle.Render("q: quit • h/?: help")
}

func renderHelp() string {
	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(lipgloss.Color("69"))
	content := []string{
		"Help",
		"",
		"The countdown waits for the status to be reflected.",
		"If nothing arrives in time the server is probably",
		"asleep, and a longer wait begins.",
		"",
		"h/?: toggle this help",
		"q/esc/ctrl+c: quit",
	}
	return border.Render(strings.Join(content, "\n"))
}
