package preview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/zjrosen/twinscroll/internal/log"
	"github.com/zjrosen/twinscroll/internal/ui/toaster"
)

// wheelDelta is the number of rows one mouse wheel notch scrolls.
const wheelDelta = 3

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.resize()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case frameMsg:
		return m, m.frame()

	case layoutMsg:
		return m, m.applyLayout(msg)

	case watchStartedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatWatcher, "Failed to watch document", msg.err, "id", msg.id)
			return m, m.notify(fmt.Sprintf("watching file: %v", msg.err), toaster.StyleError)
		}
		if _, err := m.registry.Get(msg.id); err != nil {
			_ = msg.watcher.Stop()
			return m, nil
		}
		m.watchers[msg.id] = msg.watcher
		return m, waitForChange(msg.id, msg.changes)

	case fileChangedMsg:
		if _, err := m.registry.Get(msg.id); err != nil {
			return m, nil
		}
		log.Debug(log.CatWatcher, "Document changed on disk", "id", msg.id)
		return m, tea.Batch(m.reload(msg.id), waitForChange(msg.id, msg.changes))

	case configSavedMsg:
		if msg.err != nil {
			return m, m.notify(fmt.Sprintf("saving config: %v", msg.err), toaster.StyleError)
		}
		return m, nil

	case toaster.DismissMsg:
		m.toast = m.toast.Dismiss(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, m.resize()
	case key.Matches(msg, m.keys.Focus):
		if m.focus == paneRaw {
			m.focus = paneRendered
		} else {
			m.focus = paneRaw
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleSync):
		return m, m.toggleSync()
	case key.Matches(msg, m.keys.NextDoc):
		return m, m.switchDoc(1)
	case key.Matches(msg, m.keys.PrevDoc):
		return m, m.switchDoc(-1)
	case key.Matches(msg, m.keys.Close):
		return m, m.closeDoc()
	case key.Matches(msg, m.keys.Reload):
		if d := m.doc(); d != nil {
			return m, m.reload(d.ID)
		}
		return m, nil
	}

	vp := m.viewport(m.focus)
	before := vp.YOffset
	switch {
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		vp.ScrollUp(max(1, vp.Height))
	case key.Matches(msg, m.keys.PageDown):
		vp.ScrollDown(max(1, vp.Height))
	case key.Matches(msg, m.keys.HalfUp):
		vp.ScrollUp(max(1, vp.Height/2))
	case key.Matches(msg, m.keys.HalfDown):
		vp.ScrollDown(max(1, vp.Height/2))
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	default:
		return m, nil
	}

	if vp.YOffset == before {
		return m, nil
	}
	return m, m.userScrolled(m.focus)
}

// handleMouse scrolls the pane under the pointer; a click focuses it.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	p := paneRaw
	if rawWidth, _, _ := m.paneSizes(); msg.X >= rawWidth {
		p = paneRendered
	}

	vp := m.viewport(p)
	before := vp.YOffset
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		vp.ScrollUp(wheelDelta)
	case tea.MouseButtonWheelDown:
		vp.ScrollDown(wheelDelta)
	case tea.MouseButtonLeft:
		m.focus = p
		return m, nil
	default:
		return m, nil
	}

	if vp.YOffset == before {
		return m, nil
	}
	return m, m.userScrolled(p)
}

func (m *Model) viewport(p pane) *viewport.Model {
	if p == paneRaw {
		return &m.raw
	}
	return &m.rendered
}

// resize recomputes pane sizes and requests a new layout when the rendered
// width changed.
func (m *Model) resize() tea.Cmd {
	m.help.Width = m.width

	rawWidth, renderedWidth, paneHeight := m.paneSizes()
	m.raw.Width = max(0, rawWidth-2)
	m.raw.Height = max(0, paneHeight-2)
	m.rendered.Width = max(0, renderedWidth-2-m.indicatorWidth())
	m.rendered.Height = max(0, paneHeight-2)

	d := m.doc()
	if d == nil {
		return nil
	}
	m.setRawContent(d)
	m.setRenderedContent(d)
	if d.Layout == nil || m.laidOutAt[d.ID] != m.layoutWidth() {
		return layoutCmd(m.layouter, d, m.layoutWidth())
	}
	return nil
}

func (m *Model) applyLayout(msg layoutMsg) tea.Cmd {
	d, err := m.registry.Get(msg.id)
	if err != nil {
		return nil
	}
	if msg.err != nil {
		log.ErrorErr(log.CatRender, "Layout failed", msg.err, "path", d.Path)
		return m.notify(msg.err.Error(), toaster.StyleError)
	}
	if msg.source != d.Source {
		// A reload is already producing a newer layout.
		return nil
	}

	d.ApplyLayout(msg.layout)
	m.laidOutAt[d.ID] = msg.width
	log.Debug(log.CatUI, "Applied layout", "path", d.Path, "width", msg.width, "blocks", len(msg.layout.Mappings))

	if d != m.doc() {
		return nil
	}
	m.setRenderedContent(d)
	m.alignRendered()
	return nil
}

func (m *Model) switchDoc(delta int) tea.Cmd {
	n := m.registry.Len()
	if n <= 1 {
		return nil
	}
	if d := m.doc(); d != nil {
		m.offsets[d.ID] = paneOffsets{raw: m.raw.YOffset, rendered: m.rendered.YOffset}
		d.Sync.ClearAnimation()
	}
	m.active = ((m.active+delta)%n + n) % n
	return m.showDoc()
}

// showDoc loads the active document into both panes.
func (m *Model) showDoc() tea.Cmd {
	d := m.doc()
	if d == nil {
		return nil
	}
	off := m.offsets[d.ID]
	m.setRawContent(d)
	m.raw.SetYOffset(off.raw)
	m.setRenderedContent(d)

	if d.Layout == nil || m.laidOutAt[d.ID] != m.layoutWidth() {
		return layoutCmd(m.layouter, d, m.layoutWidth())
	}
	m.rendered.SetYOffset(off.rendered)
	return nil
}

func (m *Model) closeDoc() tea.Cmd {
	d := m.doc()
	if d == nil {
		return tea.Quit
	}
	if w, ok := m.watchers[d.ID]; ok {
		_ = w.Stop()
		delete(m.watchers, d.ID)
	}
	_ = m.registry.Close(d.ID)
	delete(m.offsets, d.ID)
	delete(m.laidOutAt, d.ID)

	if m.registry.Len() == 0 {
		return tea.Quit
	}
	m.active = min(m.active, m.registry.Len()-1)
	return m.showDoc()
}

func (m *Model) reload(id uuid.UUID) tea.Cmd {
	d, err := m.registry.Get(id)
	if err != nil {
		return nil
	}
	changed, err := d.Reload()
	if err != nil {
		log.ErrorErr(log.CatDoc, "Reload failed", err, "path", d.Path)
		return m.notify(err.Error(), toaster.StyleError)
	}
	if !changed {
		return nil
	}

	if d == m.doc() {
		m.setRawContent(d)
	}
	return tea.Batch(
		layoutCmd(m.layouter, d, m.layoutWidth()),
		m.notify("reloaded "+d.Name(), toaster.StyleInfo),
	)
}

func (m *Model) toggleSync() tea.Cmd {
	enabled := !m.cfg.SyncScroll.Enabled
	m.cfg.SyncScroll.Enabled = enabled
	m.registry.SetSyncEnabled(enabled)
	log.Info(log.CatSync, "Toggled sync scroll", "enabled", enabled)

	var cmds []tea.Cmd
	if enabled {
		cmds = append(cmds, m.notify("sync scroll on", toaster.StyleSuccess), m.syncFrom(m.focus))
	} else {
		cmds = append(cmds, m.notify("sync scroll off", toaster.StyleSuccess))
	}
	if m.configPath != "" {
		cmds = append(cmds, saveSyncCmd(m.configPath, enabled))
	}
	return tea.Batch(cmds...)
}
