// Package testutil builds markdown fixtures and fake time for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/twinscroll/internal/syncscroll"
)

// ExpectedBlock is the source line range a builder gave one block.
type ExpectedBlock struct {
	Type      syncscroll.BlockType
	StartLine int
	EndLine   int
}

// DocBuilder accumulates markdown blocks separated by one blank line and
// records the line range each one occupies.
type DocBuilder struct {
	t      testing.TB
	chunks []string
	blocks []ExpectedBlock
	next   int
}

// NewDoc creates an empty document builder.
func NewDoc(t testing.TB) *DocBuilder {
	t.Helper()
	return &DocBuilder{t: t, next: 1}
}

func (b *DocBuilder) add(typ syncscroll.BlockType, text string) *DocBuilder {
	n := strings.Count(text, "\n") + 1
	b.blocks = append(b.blocks, ExpectedBlock{Type: typ, StartLine: b.next, EndLine: b.next + n - 1})
	b.chunks = append(b.chunks, text)
	b.next += n + 1
	return b
}

// Heading adds an ATX heading.
func (b *DocBuilder) Heading(level int, text string) *DocBuilder {
	return b.add(syncscroll.BlockHeading, strings.Repeat("#", level)+" "+text)
}

// Paragraph adds a paragraph with one source line per argument.
func (b *DocBuilder) Paragraph(lines ...string) *DocBuilder {
	return b.add(syncscroll.BlockParagraph, strings.Join(lines, "\n"))
}

// List adds a bullet list.
func (b *DocBuilder) List(items ...string) *DocBuilder {
	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = "- " + item
	}
	return b.add(syncscroll.BlockList, strings.Join(rows, "\n"))
}

// OrderedList adds a numbered list.
func (b *DocBuilder) OrderedList(items ...string) *DocBuilder {
	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return b.add(syncscroll.BlockList, strings.Join(rows, "\n"))
}

// Code adds a fenced code block.
func (b *DocBuilder) Code(lang string, lines ...string) *DocBuilder {
	body := append([]string{"```" + lang}, lines...)
	body = append(body, "```")
	return b.add(syncscroll.BlockCodeBlock, strings.Join(body, "\n"))
}

// Quote adds a blockquote.
func (b *DocBuilder) Quote(lines ...string) *DocBuilder {
	rows := make([]string, len(lines))
	for i, line := range lines {
		rows[i] = "> " + line
	}
	return b.add(syncscroll.BlockQuote, strings.Join(rows, "\n"))
}

// Table adds a GFM table.
func (b *DocBuilder) Table(header []string, rows ...[]string) *DocBuilder {
	row := func(cells []string) string { return "| " + strings.Join(cells, " | ") + " |" }
	delim := make([]string, len(header))
	for i := range delim {
		delim[i] = "---"
	}

	out := []string{row(header), row(delim)}
	for _, r := range rows {
		out = append(out, row(r))
	}
	return b.add(syncscroll.BlockTable, strings.Join(out, "\n"))
}

// Rule adds a thematic break.
func (b *DocBuilder) Rule() *DocBuilder {
	return b.add(syncscroll.BlockHorizontalRule, "---")
}

// String returns the document source with a trailing newline.
func (b *DocBuilder) String() string {
	if len(b.chunks) == 0 {
		return ""
	}
	return strings.Join(b.chunks, "\n\n") + "\n"
}

// Blocks returns the expected block ranges in document order.
func (b *DocBuilder) Blocks() []ExpectedBlock {
	return append([]ExpectedBlock(nil), b.blocks...)
}

// LineCount returns the number of source lines.
func (b *DocBuilder) LineCount() int {
	if len(b.chunks) == 0 {
		return 0
	}
	return b.next - 2
}

// WriteFile writes the document to dir/name and returns the path.
func (b *DocBuilder) WriteFile(dir, name string) string {
	b.t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(b.t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}
