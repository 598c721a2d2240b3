package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
	assert.Empty(t, m.Message())
}

func TestShowHide(t *testing.T) {
	m := New().Show("reloaded notes.md", StyleInfo)
	assert.True(t, m.Visible())
	assert.Equal(t, "reloaded notes.md", m.Message())
	assert.Contains(t, m.View(), "reloaded notes.md")

	m = m.Hide()
	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow_ReplacesExisting(t *testing.T) {
	m := New().Show("first", StyleInfo).Show("second", StyleError)

	assert.Equal(t, StyleError, m.Style())
	assert.Contains(t, m.View(), "second")
	assert.NotContains(t, m.View(), "first")
}

func TestView_Styles(t *testing.T) {
	tests := []struct {
		style Style
		icon  string
	}{
		{StyleSuccess, "✓ "},
		{StyleError, "✗ "},
	}
	for _, tt := range tests {
		view := ansi.Strip(New().Show("msg", tt.style).View())
		assert.Contains(t, view, tt.icon+"msg")
		assert.Len(t, strings.Split(view, "\n"), 3, "message inside a one-row box")
	}

	info := ansi.Strip(New().Show("msg", StyleInfo).View())
	assert.NotContains(t, info, "✓")
	assert.NotContains(t, info, "✗")
}

func TestOverlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 30)+"\n", 8), "\n")

	assert.Equal(t, bg, New().Overlay(bg, 30, 8), "nothing drawn when hidden")

	got := ansi.Strip(New().Show("hi", StyleInfo).Overlay(bg, 30, 8))
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[5], "hi")
	assert.Equal(t, strings.Repeat(".", 30), lines[7], "one row of padding below")
	assert.True(t, strings.HasSuffix(lines[5], "│.."), "two columns from the right edge")
}

func TestDismiss_IgnoresStaleMessages(t *testing.T) {
	m := New().Show("first", StyleInfo)
	stale := DismissMsg{seq: m.seq}

	m = m.Show("second", StyleInfo)
	m = m.Dismiss(stale)
	assert.True(t, m.Visible())

	m = m.Dismiss(DismissMsg{seq: m.seq})
	assert.False(t, m.Visible())
}

func TestScheduleDismiss(t *testing.T) {
	m := New().Show("bye", StyleInfo)
	msg := m.ScheduleDismiss(time.Millisecond)()

	dismiss, ok := msg.(DismissMsg)
	require.True(t, ok)
	assert.False(t, m.Dismiss(dismiss).Visible())
}
