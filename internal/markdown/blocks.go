package markdown

import (
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/zjrosen/twinscroll/internal/syncscroll"
)

// Block is one top-level markdown block with its 1-indexed inclusive source line range.
type Block struct {
	Type      syncscroll.BlockType
	StartLine int
	EndLine   int
	Source    string
}

var parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// sourceLines indexes line starts so byte offsets can be mapped to line numbers.
type sourceLines struct {
	src    []byte
	starts []int
}

func newSourceLines(src []byte) sourceLines {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' && i+1 < len(src) {
			starts = append(starts, i+1)
		}
	}
	if len(src) == 0 {
		starts = nil
	}
	return sourceLines{src: src, starts: starts}
}

// count returns the number of source lines. A trailing newline does not start a new line.
func (s sourceLines) count() int {
	return len(s.starts)
}

// lineOf returns the 1-indexed line containing byte offset off.
func (s sourceLines) lineOf(off int) int {
	i, found := slices.BinarySearch(s.starts, off)
	if found {
		return i + 1
	}
	return i
}

// text returns line n without its newline.
func (s sourceLines) text(n int) string {
	if n < 1 || n > len(s.starts) {
		return ""
	}
	start := s.starts[n-1]
	end := len(s.src)
	if n < len(s.starts) {
		end = s.starts[n]
	}
	return strings.TrimRight(string(s.src[start:end]), "\r\n")
}

func (s sourceLines) blank(n int) bool {
	return strings.TrimSpace(s.text(n)) == ""
}

// slice returns lines first..last joined by newlines.
func (s sourceLines) slice(first, last int) string {
	parts := make([]string, 0, last-first+1)
	for n := first; n <= last; n++ {
		parts = append(parts, s.text(n))
	}
	return strings.Join(parts, "\n")
}

// ExtractBlocks parses src and returns its top-level blocks in document order.
func ExtractBlocks(src []byte) []Block {
	lines := newSourceLines(src)
	if lines.count() == 0 {
		return nil
	}

	doc := parser.Parse(text.NewReader(src))

	type span struct {
		node       ast.Node
		start, end int
		known      bool
	}
	var spans []span
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		start, end, ok := nodeRange(n, lines)
		spans = append(spans, span{node: n, start: start, end: end, known: ok})
	}

	blocks := make([]Block, 0, len(spans))
	next := 1
	for i := range spans {
		sp := &spans[i]
		if !sp.known {
			// Thematic breaks and empty fences carry no segments.
			sp.start = next
			for sp.start < lines.count() && lines.blank(sp.start) {
				sp.start++
			}
			sp.end = sp.start
		}

		if sp.node.Kind() == ast.KindHeading && !isATXHeading(lines.text(sp.start)) &&
			isSetextUnderline(lines.text(sp.end+1)) {
			sp.end++
		}

		// Closing fences and table delimiter rows sit on non-blank lines no
		// segment covers.
		limit := lines.count() + 1
		nextKnown := i+1 < len(spans) && spans[i+1].known
		if nextKnown {
			limit = spans[i+1].start
		}
		for sp.end+1 < limit && !lines.blank(sp.end+1) {
			if !nextKnown && i+1 < len(spans) && isThematicBreak(lines.text(sp.end+1)) {
				break
			}
			sp.end++
		}

		blocks = append(blocks, Block{
			Type:      blockType(sp.node),
			StartLine: sp.start,
			EndLine:   sp.end,
			Source:    lines.slice(sp.start, sp.end),
		})
		next = sp.end + 1
	}

	return blocks
}

// nodeRange computes the line range covered by n and its descendants' segments.
func nodeRange(n ast.Node, lines sourceLines) (int, int, bool) {
	start, end := 0, 0
	extend := func(seg text.Segment) {
		first := lines.lineOf(seg.Start)
		last := first
		if seg.Stop > seg.Start {
			last = lines.lineOf(seg.Stop - 1)
		}
		if start == 0 || first < start {
			start = first
		}
		if last > end {
			end = last
		}
	}

	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c.Type() {
		case ast.TypeBlock:
			segs := c.Lines()
			for i := 0; i < segs.Len(); i++ {
				extend(segs.At(i))
			}
		case ast.TypeInline:
			if t, ok := c.(*ast.Text); ok {
				extend(t.Segment)
			}
		}
		return ast.WalkContinue, nil
	})

	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		switch {
		case fenced.Info != nil:
			extend(fenced.Info.Segment)
		case start > 1:
			start--
		}
	}

	return start, end, start > 0
}

func isATXHeading(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " "), "#")
}

func isSetextUnderline(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return strings.Trim(trimmed, "=") == "" || strings.Trim(trimmed, "-") == ""
}

func isThematicBreak(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 {
		return false
	}
	marker := trimmed[0]
	if marker != '-' && marker != '*' && marker != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case marker:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

func blockType(n ast.Node) syncscroll.BlockType {
	switch n.Kind() {
	case ast.KindHeading:
		return syncscroll.BlockHeading
	case ast.KindParagraph, ast.KindTextBlock:
		return syncscroll.BlockParagraph
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		return syncscroll.BlockCodeBlock
	case ast.KindList:
		return syncscroll.BlockList
	case ast.KindBlockquote:
		return syncscroll.BlockQuote
	case east.KindTable:
		return syncscroll.BlockTable
	case ast.KindThematicBreak:
		return syncscroll.BlockHorizontalRule
	default:
		return syncscroll.BlockOther
	}
}
