package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderPane renders content inside a rounded border with the title embedded
// in the top edge: ╭─ Title ─────╮
// Content lines are cut to the inner width rather than wrapped so that each
// content line stays on exactly one row.
func RenderPane(content, title string, width, height int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	titleColor := TextSecondaryColor
	if focused {
		borderColor = BorderFocusedColor
		titleColor = TextPrimaryColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(focused)

	innerWidth := max(1, width-2)
	contentHeight := max(1, height-2)

	rows := make([]string, 0, contentHeight+2)
	rows = append(rows, paneTop(title, innerWidth, borderStyle, titleStyle))

	side := borderStyle.Render(borderVertical)
	lines := strings.Split(content, "\n")
	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		rows = append(rows, side+FitLine(line, innerWidth)+side)
	}

	rows = append(rows, borderStyle.Render(borderBottomLeft+strings.Repeat(borderHorizontal, innerWidth)+borderBottomRight))
	return strings.Join(rows, "\n")
}

// paneTop builds ╭─ Title ──╮, falling back to a plain edge when the title
// cannot fit.
func paneTop(title string, innerWidth int, border, titleStyle lipgloss.Style) string {
	plain := border.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	if title == "" || innerWidth < 5 {
		return plain
	}

	title = TruncateString(title, innerWidth-4)
	rest := max(0, innerWidth-3-lipgloss.Width(title))
	return border.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(title) +
		border.Render(" "+strings.Repeat(borderHorizontal, rest)+borderTopRight)
}
