package preview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/twinscroll/internal/cachemanager"
	"github.com/zjrosen/twinscroll/internal/config"
	"github.com/zjrosen/twinscroll/internal/document"
	"github.com/zjrosen/twinscroll/internal/markdown"
	"github.com/zjrosen/twinscroll/internal/syncscroll"
	"github.com/zjrosen/twinscroll/internal/testutil"
	"github.com/zjrosen/twinscroll/internal/ui/toaster"
)

type harness struct {
	t       *testing.T
	m       Model
	clock   *testutil.Clock
	dir     string
	paths   []string
	cfgPath string
}

func newHarness(t *testing.T, docs ...string) *harness {
	t.Helper()
	h := &harness{t: t, clock: testutil.NewClock(), dir: t.TempDir()}

	cfg := config.Defaults()
	cfg.Watch = false
	cfg.UI.MarkdownStyle = "notty"

	h.cfgPath = filepath.Join(h.dir, "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(h.cfgPath))

	reg := document.NewRegistry(
		syncscroll.WithConfig(cfg.SyncScroll.Engine()),
		syncscroll.WithClock(h.clock),
	)
	for i, src := range docs {
		path := filepath.Join(h.dir, fmt.Sprintf("doc%d.md", i+1))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
		_, err := reg.Open(path)
		require.NoError(t, err)
		h.paths = append(h.paths, path)
	}

	cache := cachemanager.NewInMemoryCacheManager[string, []string]("block-render", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	layouter := markdown.NewLayouter(cfg.UI.MarkdownStyle, cfg.UI.CellHeight, cache)

	h.m = New(cfg, reg, layouter, WithConfigPath(h.cfgPath))
	h.m.toastTTL = 0
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.clock.Advance(time.Second)
	return h
}

// send delivers msg and runs every resulting command except animation
// frames, which tests drive explicitly so the clock can advance between them.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return h.drain(cmd)
}

func (h *harness) drain(cmd tea.Cmd) tea.Cmd {
	var quit tea.Cmd
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, frameMsg:
		case tea.QuitMsg:
			quit = c
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, more := h.m.Update(msg)
			h.m = next.(Model)
			queue = append(queue, more)
		}
	}
	return quit
}

func (h *harness) key(k string) tea.Cmd {
	h.t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "pgdown":
		msg = tea.KeyMsg{Type: tea.KeyPgDown}
	case "ctrl+n":
		msg = tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		msg = tea.KeyMsg{Type: tea.KeyCtrlP}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return h.send(msg)
}

// frames advances the clock one frame at a time until the animation settles.
func (h *harness) frames() {
	h.t.Helper()
	for i := 0; i < 100; i++ {
		h.clock.Advance(frameInterval)
		next, cmd := h.m.Update(frameMsg{})
		h.m = next.(Model)
		if cmd == nil {
			return
		}
	}
	h.t.Fatal("animation did not settle")
}

func (h *harness) doc() *document.Document {
	d := h.m.Active()
	require.NotNil(h.t, d)
	return d
}

func (h *harness) maxRenderedOffset() int {
	return max(0, len(h.doc().Layout.Lines)-h.m.rendered.Height)
}

func TestNew_LaysOutOnFirstResize(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 40).String())

	d := h.doc()
	require.NotNil(t, d.Layout)
	require.NotEmpty(t, d.Sync.Mappings())
	require.Equal(t, h.m.rendered.Width, h.m.laidOutAt[d.ID])
	require.Equal(t, 26, h.m.raw.Height, "30 rows minus status, help and borders")
	require.Equal(t, "raw", h.m.Focused())
}

func TestRawScroll_RenderedFollows(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 60).String())

	h.key("pgdown")
	rawTop, _ := h.m.Offsets()
	require.Equal(t, h.m.raw.Height, rawTop)
	require.True(t, h.m.ticking)

	d := h.doc()
	target := d.Sync.LineToRenderedOffset(d.Sync.RawOffsetToLine(float64(rawTop)*20, 20))
	want := min(d.Layout.RowOf(target), h.maxRenderedOffset())

	h.frames()
	_, rendered := h.m.Offsets()
	require.Equal(t, want, rendered)
	require.Greater(t, rendered, 0)
	require.False(t, h.m.ticking)
	require.Equal(t, float64(rendered)*20, d.Sync.LastRenderedOffset())
}

func TestRenderedScroll_RawFollows(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 60).String())

	h.key("tab")
	require.Equal(t, "rendered", h.m.Focused())
	h.key("pgdown")

	d := h.doc()
	_, renderedTop := h.m.Offsets()
	line := d.Sync.RenderedOffsetToLine(float64(renderedTop) * 20)

	h.frames()
	raw, _ := h.m.Offsets()
	require.Equal(t, line-1, raw)
	require.Greater(t, raw, 0)
}

func TestFollowerScroll_DoesNotEchoBack(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 60).String())

	h.key("pgdown")
	rawTop, _ := h.m.Offsets()

	// The user grabs the rendered pane inside the feedback window.
	h.key("tab")
	h.key("j")
	h.frames()

	raw, rendered := h.m.Offsets()
	require.Equal(t, rawTop, raw, "rendered scroll inside the window must not move raw")
	require.Equal(t, 1, rendered, "the user's own scroll wins over the pending follow")
}

func TestFollowerScroll_AfterWindowSyncs(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 60).String())

	h.key("pgdown")
	h.frames()
	h.clock.Advance(time.Second)

	h.key("tab")
	h.key("G")
	h.frames()

	raw, rendered := h.m.Offsets()
	d := h.doc()
	maxRaw := max(0, h.m.raw.TotalLineCount()-h.m.raw.Height)
	require.Equal(t, min(d.Sync.RenderedOffsetToLine(float64(rendered)*20)-1, maxRaw), raw)
}

func TestToggleSync(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 60).String())

	h.key("s")
	require.Equal(t, "sync scroll off", h.m.toast.Message())
	require.False(t, h.m.cfg.SyncScroll.Enabled)
	require.False(t, h.doc().Sync.Enabled())
	require.Contains(t, ansi.Strip(h.m.View()), "sync off")

	data, err := os.ReadFile(h.cfgPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "enabled: false")

	next, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	h.m = next.(Model)
	require.Nil(t, cmd, "no frames while sync is off")
	_, rendered := h.m.Offsets()
	require.Equal(t, 0, rendered)

	// Turning sync back on catches the rendered pane up.
	h.key("s")
	require.True(t, h.doc().Sync.Enabled())
	h.frames()
	_, rendered = h.m.Offsets()
	require.Greater(t, rendered, 0)
}

func TestMouseWheel_ScrollsPaneUnderPointer(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 60).String())

	h.send(tea.MouseMsg{X: 80, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	_, rendered := h.m.Offsets()
	require.Equal(t, wheelDelta, rendered)
	require.Equal(t, "raw", h.m.Focused(), "wheel does not steal focus")

	h.frames()
	raw, _ := h.m.Offsets()
	require.Equal(t, h.doc().Sync.RenderedOffsetToLine(float64(wheelDelta)*20)-1, raw)

	h.send(tea.MouseMsg{X: 80, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, "rendered", h.m.Focused())
}

func TestSwitchDocument_RestoresOffsets(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "First", 60).String(), testutil.SectionsDoc(t, "Second", 10).String())
	first := h.doc()

	h.key("pgdown")
	h.frames()
	raw, rendered := h.m.Offsets()

	h.key("ctrl+n")
	second := h.doc()
	require.NotEqual(t, first.ID, second.ID)
	require.NotNil(t, second.Layout)
	gotRaw, _ := h.m.Offsets()
	require.Equal(t, 0, gotRaw)
	require.Contains(t, ansi.Strip(h.m.View()), "doc2.md")

	h.key("ctrl+p")
	require.Equal(t, first.ID, h.doc().ID)
	gotRaw, gotRendered := h.m.Offsets()
	require.Equal(t, raw, gotRaw)
	require.Equal(t, rendered, gotRendered)
}

func TestResize_Relayouts(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 20).String())
	before := h.doc().Layout

	h.send(tea.WindowSizeMsg{Width: 160, Height: 40})

	after := h.doc().Layout
	require.NotSame(t, before, after)
	require.Equal(t, h.m.rendered.Width, after.Width)
	require.Equal(t, 36, h.m.raw.Height)
}

func TestReload_PicksUpChanges(t *testing.T) {
	h := newHarness(t, "# One\n\nfirst\n")
	require.Len(t, h.doc().Sync.Mappings(), 2)

	require.NoError(t, os.WriteFile(h.paths[0], []byte("# One\n\nfirst\n\n- a\n- b\n"), 0o644))
	h.key("r")

	require.Len(t, h.doc().Sync.Mappings(), 3)
	require.Contains(t, ansi.Strip(h.m.View()), "reloaded doc1.md")
}

func TestReload_MissingFileShowsError(t *testing.T) {
	h := newHarness(t, "# One\n")
	require.NoError(t, os.Remove(h.paths[0]))

	h.key("r")
	require.True(t, h.m.toast.Visible())
	require.Equal(t, toaster.StyleError, h.m.toast.Style())
	require.Contains(t, h.m.toast.Message(), "doc1.md")
	require.NotNil(t, h.doc().Layout, "previous layout stays on screen")
}

func TestFileChanged_Reloads(t *testing.T) {
	h := newHarness(t, "# One\n")
	require.NoError(t, os.WriteFile(h.paths[0], []byte("# One\n\nmore\n"), 0o644))

	changes := make(chan struct{}, 1)
	next, cmd := h.m.Update(fileChangedMsg{id: h.doc().ID, changes: changes})
	h.m = next.(Model)
	require.NotNil(t, cmd)

	// Closed so the follow-up wait returns.
	close(changes)
	h.drain(cmd)
	require.Equal(t, "# One\n\nmore\n", h.doc().Source)
	require.Len(t, h.doc().Sync.Mappings(), 2)
}

func TestCloseDocument(t *testing.T) {
	h := newHarness(t, "# One\n", "# Two\n")

	require.Nil(t, h.key("x"))
	require.Equal(t, 1, h.m.registry.Len())
	require.Contains(t, h.doc().Source, "Two")

	require.NotNil(t, h.key("x"), "closing the last document quits")
}

func TestQuit(t *testing.T) {
	h := newHarness(t, "# One\n")
	require.NotNil(t, h.key("q"))
}

func TestHelpToggle_ShrinksPanes(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 5).String())
	short := h.m.raw.Height

	h.key("?")
	require.True(t, h.m.showHelp)
	require.Less(t, h.m.raw.Height, short)
	require.Contains(t, ansi.Strip(h.m.View()), "toggle sync scroll")
}

func TestView_Layout(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 40).String())

	view := h.m.View()
	rows := strings.Split(view, "\n")
	require.Len(t, rows, 30)

	plain := ansi.Strip(view)
	require.Contains(t, plain, "doc1.md")
	require.Contains(t, plain, "Preview")
	require.Contains(t, plain, "sync on")
	require.Contains(t, plain, "[1/1]")
	require.Contains(t, plain, "L1/")
	require.Contains(t, plain, indicatorMark)
	require.Contains(t, plain, " 1 # Guide", "raw pane shows line numbers")
}

func TestView_NoIndicatorWhenDisabled(t *testing.T) {
	h := newHarness(t, testutil.SectionsDoc(t, "Guide", 5).String())
	h.m.cfg.UI.ShowIndicator = false
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})

	require.NotContains(t, ansi.Strip(h.m.View()), indicatorMark)
}

func TestView_EmptyBeforeSize(t *testing.T) {
	reg := document.NewRegistry()
	m := New(config.Defaults(), reg, nil)
	require.Equal(t, "", m.View())
}

func TestToast_DismissedBySchedule(t *testing.T) {
	h := newHarness(t, "# One\n")
	h.key("s")
	require.True(t, h.m.toast.Visible())

	h.m.toastTTL = time.Millisecond
	cmd := h.m.notify("saved", toaster.StyleSuccess)
	require.NotNil(t, cmd)
	h.send(cmd())
	require.False(t, h.m.toast.Visible())
}
