package preview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/twinscroll/internal/document"
	"github.com/zjrosen/twinscroll/internal/ui/styles"
)

const (
	indicatorMark = "▐"
	tabWidth      = 4
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	d := m.doc()
	title := "no document"
	if d != nil {
		title = d.Name()
	}

	rawWidth, renderedWidth, paneHeight := m.paneSizes()
	rawPane := styles.RenderPane(m.raw.View(), title, rawWidth, paneHeight, m.focus == paneRaw)
	renderedPane := styles.RenderPane(m.renderedBody(d), "Preview", renderedWidth, paneHeight, m.focus == paneRendered)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, rawPane, renderedPane)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.toast.Overlay(panes, m.width, paneHeight),
		m.footerView(),
	)
}

// paneSizes splits the terminal between the two panes and the footer.
func (m Model) paneSizes() (rawWidth, renderedWidth, paneHeight int) {
	ratio := m.cfg.UI.SplitRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}
	rawWidth = int(float64(m.width) * ratio)
	renderedWidth = m.width - rawWidth
	paneHeight = max(0, m.height-lipgloss.Height(m.footerView()))
	return rawWidth, renderedWidth, paneHeight
}

func (m Model) indicatorWidth() int {
	if m.cfg.UI.ShowIndicator {
		return lipgloss.Width(indicatorMark)
	}
	return 0
}

func (m Model) layoutWidth() int {
	return max(1, m.rendered.Width)
}

// setRawContent fills the raw pane with the source, one row per line.
// Lines are cut, never wrapped, so row n is always source line n+1.
func (m *Model) setRawContent(d *document.Document) {
	lines := d.SourceLines()
	digits := len(strconv.Itoa(len(lines)))

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		row := strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
		if m.cfg.UI.ShowLineNumbers {
			row = styles.GutterStyle.Render(fmt.Sprintf("%*d ", digits, i+1)) + row
		}
		b.WriteString(ansi.Truncate(row, max(1, m.raw.Width), ""))
	}
	m.raw.SetContent(b.String())
}

func (m *Model) setRenderedContent(d *document.Document) {
	if d.Layout == nil {
		m.rendered.SetContent(styles.PlaceholderText.Render("rendering…"))
		return
	}

	rows := make([]string, len(d.Layout.Lines))
	for i, line := range d.Layout.Lines {
		rows[i] = ansi.Truncate(line, max(1, m.rendered.Width), "")
	}
	m.rendered.SetContent(strings.Join(rows, "\n"))
}

// renderedBody is the rendered viewport plus a column marking which rendered
// rows the raw pane is currently showing.
func (m Model) renderedBody(d *document.Document) string {
	view := m.rendered.View()
	if !m.cfg.UI.ShowIndicator || d == nil || d.Layout == nil {
		return view
	}

	ch := m.cellHeight()
	startY, endY := d.Sync.RenderedIndicatorRange(
		float64(m.raw.YOffset)*ch,
		float64(m.raw.Height)*ch,
		ch,
	)

	lines := strings.Split(view, "\n")
	out := make([]string, m.rendered.Height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		mark := " "
		y := float64(m.rendered.YOffset+i) * ch
		if y+ch > startY && y < endY {
			mark = styles.IndicatorStyle.Render(indicatorMark)
		}
		out[i] = styles.FitLine(line, m.rendered.Width) + mark
	}
	return strings.Join(out, "\n")
}

// footerView is the status line plus key help.
func (m Model) footerView() string {
	parts := make([]string, 0, 3)

	if n := m.registry.Len(); n > 0 {
		if d := m.doc(); d != nil {
			parts = append(parts, styles.StatusStyle.Render(fmt.Sprintf("[%d/%d] %s", m.active+1, n, d.Name())))
			parts = append(parts, styles.StatusStyle.Render(fmt.Sprintf("L%d/%d", m.raw.YOffset+1, max(1, len(d.SourceLines())))))
		}
	}

	if m.cfg.SyncScroll.Enabled {
		parts = append(parts, styles.SyncOnStyle.Render("sync on"))
	} else {
		parts = append(parts, styles.SyncOffStyle.Render("sync off"))
	}

	status := strings.Join(parts, styles.StatusStyle.Render("  ·  "))
	if m.width > 0 {
		status = styles.FitLine(status, m.width)
	}
	return status + "\n" + m.help.View(m.keys)
}
