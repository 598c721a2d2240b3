package preview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/twinscroll/internal/syncscroll"
)

// userScrolled reacts to the user moving pane p. The offset is recorded once
// it moved far enough to matter, then the other pane is asked to follow.
func (m *Model) userScrolled(p pane) tea.Cmd {
	d := m.doc()
	if d == nil || d.Layout == nil {
		return nil
	}
	s := d.Sync
	ch := m.cellHeight()

	if p == paneRaw {
		offset := float64(m.raw.YOffset) * ch
		if !s.HasSignificantDelta(offset, s.LastRawOffset()) {
			return nil
		}
		s.UpdateRawOffset(offset)
		s.CancelRawAnimation()
	} else {
		offset := float64(m.rendered.YOffset) * ch
		if !s.HasSignificantDelta(offset, s.LastRenderedOffset()) {
			return nil
		}
		s.UpdateRenderedOffset(offset)
		s.CancelRenderedAnimation()
	}

	return m.syncFrom(p)
}

// syncFrom points the other pane at the source line shown at the top of p.
func (m *Model) syncFrom(p pane) tea.Cmd {
	d := m.doc()
	if d == nil || d.Layout == nil {
		return nil
	}
	s := d.Sync
	origin := p.origin()
	if !s.ShouldSyncFrom(origin) {
		return nil
	}
	s.MarkScroll(origin)

	ch := m.cellHeight()
	if p == paneRaw {
		line := s.RawOffsetToLine(s.LastRawOffset(), ch)
		s.AnimateRenderedTo(s.LineToRenderedOffset(line))
	} else {
		line := s.RenderedOffsetToLine(s.LastRenderedOffset())
		s.AnimateRawTo(s.LineToRawOffset(line, ch))
	}
	return m.startFrames()
}

func (m *Model) startFrames() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return frameCmd()
}

// frame applies this frame's animated offsets and keeps ticking while
// either pane is still moving.
func (m *Model) frame() tea.Cmd {
	d := m.doc()
	if d == nil || d.Layout == nil {
		m.ticking = false
		return nil
	}
	s := d.Sync
	ch := m.cellHeight()

	if v, ok := s.AnimatedRawOffset(); ok {
		m.raw.SetYOffset(d.Layout.RowOf(v))
		s.UpdateRawOffset(float64(m.raw.YOffset) * ch)
	}
	if v, ok := s.AnimatedRenderedOffset(); ok {
		m.rendered.SetYOffset(d.Layout.RowOf(v))
		s.UpdateRenderedOffset(float64(m.rendered.YOffset) * ch)
	}
	s.ClearOrigin()

	if s.IsAnimating() {
		return frameCmd()
	}
	m.ticking = false
	return nil
}

// alignRendered jumps the rendered pane to match the raw pane after a new
// layout replaced the mappings.
func (m *Model) alignRendered() {
	d := m.doc()
	if d == nil || d.Layout == nil {
		return
	}
	s := d.Sync
	ch := m.cellHeight()

	rawOffset := float64(m.raw.YOffset) * ch
	s.UpdateRawOffset(rawOffset)
	if s.Enabled() {
		line := s.RawOffsetToLine(rawOffset, ch)
		m.rendered.SetYOffset(d.Layout.RowOf(s.LineToRenderedOffset(line)))
		s.MarkScroll(syncscroll.OriginExternal)
	}
	s.UpdateRenderedOffset(float64(m.rendered.YOffset) * ch)
}
