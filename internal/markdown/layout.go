package markdown

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/twinscroll/internal/cachemanager"
	"github.com/zjrosen/twinscroll/internal/log"
	"github.com/zjrosen/twinscroll/internal/syncscroll"
)

const (
	minWrapWidth = 20
	renderTTL    = 10 * time.Minute
)

// Layout is a rendered document: its terminal lines and where each source
// block landed, in virtual pixels.
type Layout struct {
	Lines       []string
	Blocks      []Block
	Mappings    []syncscroll.BlockMapping
	TotalHeight float64
	LineCount   int
	CellHeight  float64
	Width       int
}

// RowOf converts a pixel offset to a row index in Lines.
func (l *Layout) RowOf(offset float64) int {
	if l.CellHeight <= 0 {
		return 0
	}
	return int(offset/l.CellHeight + 0.5)
}

type renderRequest struct {
	source string
	width  int
}

// Layouter renders documents block by block. Each block render is cached by
// style, width and content hash so relayouts after an edit only render
// changed blocks.
type Layouter struct {
	mu         sync.Mutex
	style      string
	cellHeight float64
	renderers  map[int]*Renderer
	renders    *cachemanager.ReadThroughCache[string, []string, renderRequest]
}

// NewLayouter creates a Layouter. cache may be shared between Layouters.
func NewLayouter(style string, cellHeight float64, cache cachemanager.CacheManager[string, []string]) *Layouter {
	if style == "" {
		style = "dark"
	}
	l := &Layouter{
		style:      style,
		cellHeight: cellHeight,
		renderers:  make(map[int]*Renderer),
	}
	l.renders = cachemanager.NewReadThroughCache(cache, l.cacheKey, l.renderBlock, renderTTL)
	return l
}

// Style returns the glamour style used for rendering.
func (l *Layouter) Style() string {
	return l.style
}

// CellHeight returns the virtual pixel height of one terminal row.
func (l *Layouter) CellHeight() float64 {
	return l.cellHeight
}

// Layout renders src at the given width and stacks its blocks vertically,
// one blank separator row between consecutive blocks.
func (l *Layouter) Layout(ctx context.Context, src string, width int) (*Layout, error) {
	width = max(width, minWrapWidth)

	lines := newSourceLines([]byte(src))
	blocks := ExtractBlocks([]byte(src))

	out := &Layout{
		Blocks:     blocks,
		Mappings:   make([]syncscroll.BlockMapping, 0, len(blocks)),
		LineCount:  lines.count(),
		CellHeight: l.cellHeight,
		Width:      width,
	}

	for i, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rendered, err := l.renders.Get(ctx, renderRequest{source: b.Source, width: width})
		if err != nil {
			return nil, fmt.Errorf("rendering block at line %d: %w", b.StartLine, err)
		}

		if i > 0 {
			out.Lines = append(out.Lines, "")
		}
		row := len(out.Lines)
		out.Lines = append(out.Lines, rendered...)

		out.Mappings = append(out.Mappings, syncscroll.NewBlockMapping(
			b.StartLine, b.EndLine,
			float64(row)*l.cellHeight, float64(len(out.Lines))*l.cellHeight,
			b.Type,
		))
	}

	out.TotalHeight = float64(len(out.Lines)) * l.cellHeight

	log.Debug(log.CatRender, "Laid out document",
		"blocks", len(blocks), "rows", len(out.Lines), "width", width, "style", l.style)
	return out, nil
}

func (l *Layouter) cacheKey(req renderRequest) string {
	return fmt.Sprintf("%s|%d|%016x", l.style, req.width, xxhash.Sum64String(req.source))
}

// renderBlock renders one block and returns at least one line.
func (l *Layouter) renderBlock(_ context.Context, req renderRequest) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.renderers[req.width]
	if !ok {
		var err error
		r, err = NewRenderer(req.width, l.style)
		if err != nil {
			return nil, err
		}
		l.renderers[req.width] = r
	}

	out, err := r.Render(req.source)
	if err != nil {
		return nil, err
	}

	rows := trimBlankRows(strings.Split(out, "\n"))
	if len(rows) == 0 {
		return []string{""}, nil
	}
	return rows, nil
}

// trimBlankRows drops leading and trailing rows that are empty once styling is stripped.
func trimBlankRows(rows []string) []string {
	blank := func(s string) bool { return strings.TrimSpace(ansi.Strip(s)) == "" }
	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	for len(rows) > 0 && blank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}
