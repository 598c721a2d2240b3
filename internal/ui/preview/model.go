// Package preview implements the split raw/rendered markdown view. The pane
// the user scrolls leads and the other pane follows through the document's
// sync state, one frame at a time.
package preview

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/zjrosen/twinscroll/internal/config"
	"github.com/zjrosen/twinscroll/internal/document"
	"github.com/zjrosen/twinscroll/internal/keys"
	"github.com/zjrosen/twinscroll/internal/markdown"
	"github.com/zjrosen/twinscroll/internal/syncscroll"
	"github.com/zjrosen/twinscroll/internal/ui/toaster"
	"github.com/zjrosen/twinscroll/internal/watcher"
)

// toastDuration is how long notices stay on screen.
const toastDuration = 3 * time.Second

// pane identifies one side of the split.
type pane int

const (
	paneRaw pane = iota
	paneRendered
)

func (p pane) origin() syncscroll.ScrollOrigin {
	if p == paneRaw {
		return syncscroll.OriginRaw
	}
	return syncscroll.OriginRendered
}

// paneOffsets remembers where a document was scrolled when it lost focus.
type paneOffsets struct {
	raw      int
	rendered int
}

// Model is the preview application state.
type Model struct {
	cfg        config.Config
	configPath string

	registry *document.Registry
	layouter *markdown.Layouter
	keys     keys.KeyMap
	help     help.Model

	active int
	focus  pane

	raw      viewport.Model
	rendered viewport.Model

	width  int
	height int

	showHelp bool
	ticking  bool
	toast    toaster.Model
	toastTTL time.Duration

	offsets   map[uuid.UUID]paneOffsets
	laidOutAt map[uuid.UUID]int
	watchers  map[uuid.UUID]*watcher.Watcher
}

// Option configures a Model.
type Option func(*Model)

// WithConfigPath sets where runtime setting changes are saved.
func WithConfigPath(path string) Option {
	return func(m *Model) { m.configPath = path }
}

// New creates a preview over the documents already open in registry.
func New(cfg config.Config, registry *document.Registry, layouter *markdown.Layouter, opts ...Option) Model {
	m := Model{
		cfg:       cfg,
		registry:  registry,
		layouter:  layouter,
		keys:      keys.DefaultKeyMap(),
		help:      help.New(),
		toast:     toaster.New(),
		toastTTL:  toastDuration,
		raw:       viewport.New(0, 0),
		rendered:  viewport.New(0, 0),
		offsets:   make(map[uuid.UUID]paneOffsets),
		laidOutAt: make(map[uuid.UUID]int),
		watchers:  make(map[uuid.UUID]*watcher.Watcher),
	}
	for _, opt := range opts {
		opt(&m)
	}
	registry.SetSyncEnabled(cfg.SyncScroll.Enabled)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if !m.cfg.Watch {
		return nil
	}
	var cmds []tea.Cmd
	for _, d := range m.registry.List() {
		cmds = append(cmds, startWatchCmd(d.ID, d.Path))
	}
	return tea.Batch(cmds...)
}

// Close stops all file watchers.
func (m Model) Close() {
	for id, w := range m.watchers {
		_ = w.Stop()
		delete(m.watchers, id)
	}
}

// doc returns the active document, or nil when none are open.
func (m Model) doc() *document.Document {
	d, err := m.registry.At(m.active)
	if err != nil {
		return nil
	}
	return d
}

// notify shows a toast and schedules its dismissal.
func (m *Model) notify(msg string, style toaster.Style) tea.Cmd {
	m.toast = m.toast.Show(msg, style)
	if m.toastTTL <= 0 {
		return nil
	}
	return m.toast.ScheduleDismiss(m.toastTTL)
}

func (m Model) cellHeight() float64 {
	return m.cfg.UI.CellHeight
}

// Focused reports which pane has focus: "raw" or "rendered".
func (m Model) Focused() string {
	if m.focus == paneRaw {
		return "raw"
	}
	return "rendered"
}

// Offsets returns the top row of the raw and rendered panes.
func (m Model) Offsets() (raw, rendered int) {
	return m.raw.YOffset, m.rendered.YOffset
}

// Active returns the active document, or nil.
func (m Model) Active() *document.Document {
	return m.doc()
}
