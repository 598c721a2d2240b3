package preview

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/zjrosen/twinscroll/internal/config"
	"github.com/zjrosen/twinscroll/internal/document"
	"github.com/zjrosen/twinscroll/internal/markdown"
	"github.com/zjrosen/twinscroll/internal/watcher"
)

// frameInterval paces sync animation frames.
const frameInterval = 16 * time.Millisecond

// frameMsg drives one animation frame.
type frameMsg struct{}

// layoutMsg carries a finished layout. source is the text it was built
// from so results for a superseded revision can be dropped.
type layoutMsg struct {
	id     uuid.UUID
	width  int
	source string
	layout *markdown.Layout
	err    error
}

type watchStartedMsg struct {
	id      uuid.UUID
	watcher *watcher.Watcher
	changes <-chan struct{}
	err     error
}

type fileChangedMsg struct {
	id      uuid.UUID
	changes <-chan struct{}
}

type configSavedMsg struct {
	err error
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func layoutCmd(layouter *markdown.Layouter, d *document.Document, width int) tea.Cmd {
	id, source := d.ID, d.Source
	return func() tea.Msg {
		layout, err := layouter.Layout(context.Background(), source, width)
		return layoutMsg{id: id, width: width, source: source, layout: layout, err: err}
	}
}

func startWatchCmd(id uuid.UUID, path string) tea.Cmd {
	return func() tea.Msg {
		w, err := watcher.New(watcher.DefaultConfig(path))
		if err != nil {
			return watchStartedMsg{id: id, err: err}
		}
		changes, err := w.Start()
		if err != nil {
			_ = w.Stop()
			return watchStartedMsg{id: id, err: err}
		}
		return watchStartedMsg{id: id, watcher: w, changes: changes}
	}
}

func waitForChange(id uuid.UUID, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return fileChangedMsg{id: id, changes: changes}
	}
}

func saveSyncCmd(path string, enabled bool) tea.Cmd {
	return func() tea.Msg {
		return configSavedMsg{err: config.SaveSyncScrollEnabled(path, enabled)}
	}
}
