// Package toaster shows short-lived notices over the preview.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/twinscroll/internal/ui/overlay"
	"github.com/zjrosen/twinscroll/internal/ui/styles"
)

// Style selects the toast border and icon.
type Style int

const (
	// StyleInfo is for routine notices such as a reload.
	StyleInfo Style = iota
	// StyleSuccess confirms a user action.
	StyleSuccess
	// StyleError reports a failure.
	StyleError
)

// Model holds the toast currently on screen.
type Model struct {
	message string
	style   Style
	visible bool
	seq     int
}

// New creates an empty toaster.
func New() Model {
	return Model{}
}

// Show replaces any visible toast with message.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the visible toast text, or "".
func (m Model) Message() string {
	if !m.visible {
		return ""
	}
	return m.message
}

// Style returns the style of the visible toast.
func (m Model) Style() Style {
	return m.style
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	box := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	switch m.style {
	case StyleError:
		return box.BorderForeground(styles.StatusErrorColor).Render("✗ " + m.message)
	case StyleSuccess:
		return box.BorderForeground(styles.StatusSuccessColor).Render("✓ " + m.message)
	default:
		return box.BorderForeground(styles.BorderFocusedColor).Render(m.message)
	}
}

// Overlay draws the toast in the bottom right corner of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.BottomRight,
		PadX:     2,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg hides the toast it was scheduled for.
type DismissMsg struct {
	seq int
}

// ScheduleDismiss returns a command that dismisses the current toast after d.
// A toast shown in the meantime is left alone.
func (m Model) ScheduleDismiss(d time.Duration) tea.Cmd {
	seq := m.seq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}

// Dismiss handles a DismissMsg.
func (m Model) Dismiss(msg DismissMsg) Model {
	if msg.seq != m.seq {
		return m
	}
	return m.Hide()
}
