// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#696969"} // Gutters, hints, footers

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#696969"}
	BorderFocusedColor = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#54A0FF"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#BF8700", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF8787"}

	// Raw viewport marker beside the rendered pane
	IndicatorColor = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#54A0FF"}

	GutterStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)
	TitleStyle      = lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)
	StatusStyle     = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	SyncOnStyle     = lipgloss.NewStyle().Foreground(StatusSuccessColor).Bold(true)
	SyncOffStyle    = lipgloss.NewStyle().Foreground(StatusWarningColor).Bold(true)
	IndicatorStyle  = lipgloss.NewStyle().Foreground(IndicatorColor)
	PlaceholderText = lipgloss.NewStyle().Foreground(TextMutedColor).Italic(true)
)
