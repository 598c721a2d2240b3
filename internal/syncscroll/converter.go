package syncscroll

import "math"

// maxLine caps float-to-line conversions so extreme offsets cannot overflow int.
const maxLine = math.MaxInt32

// Converter translates between source lines and rendered offsets.
//
// It reads a mapping slice sorted by StartLine plus the document metadata
// used for the proportional fallback. A Converter never mutates its inputs,
// and every method is total: degenerate input yields line 1 or offset 0.
type Converter struct {
	mappings    []BlockMapping
	lineCount   int
	totalHeight float64
}

// NewConverter creates a converter over mappings, which must already be
// sorted ascending by StartLine.
func NewConverter(mappings []BlockMapping, lineCount int, totalHeight float64) Converter {
	return Converter{
		mappings:    mappings,
		lineCount:   lineCount,
		totalHeight: totalHeight,
	}
}

// LineToRenderedOffset converts a 1-indexed source line to a rendered offset.
//
// Lines inside a block are interpolated linearly across the block. Lines in
// a gap between two blocks are interpolated between the end of the previous
// block and the start of the next. Lines past the last block stick to its
// end, lines before the first block scale from zero, and without any
// mappings the document-wide ratio is used.
func (c Converter) LineToRenderedOffset(line int) float64 {
	if line < 0 {
		line = 0
	}

	for _, m := range c.mappings {
		if !m.ContainsLine(line) {
			continue
		}
		span := m.EndLine - m.StartLine
		if span <= 0 {
			return m.StartY
		}
		progress := float64(line-m.StartLine) / float64(span)
		return m.StartY + progress*(m.EndY-m.StartY)
	}

	before, after := c.neighborsOfLine(line)
	switch {
	case before != nil && after != nil:
		span := after.StartLine - before.EndLine
		if span <= 0 {
			return before.EndY
		}
		progress := float64(line-before.EndLine) / float64(span)
		return before.EndY + progress*(after.StartY-before.EndY)
	case before != nil:
		return before.EndY
	case after != nil:
		if after.StartLine <= 0 {
			return 0
		}
		return float64(line) / float64(after.StartLine) * after.StartY
	default:
		return c.proportionalLineToRendered(line)
	}
}

// RenderedOffsetToLine converts a rendered offset to a 1-indexed source line.
// It mirrors LineToRenderedOffset and never returns less than 1.
func (c Converter) RenderedOffsetToLine(y float64) int {
	if math.IsNaN(y) || math.IsInf(y, -1) {
		y = 0
	}

	for _, m := range c.mappings {
		if !m.ContainsRenderedY(y) {
			continue
		}
		height := m.EndY - m.StartY
		if height <= 0 {
			return max(1, m.StartLine)
		}
		progress := (y - m.StartY) / height
		return max(1, m.StartLine+int(progress*float64(m.EndLine-m.StartLine)))
	}

	before, after := c.neighborsOfOffset(y)
	switch {
	case before != nil && after != nil:
		gap := after.StartY - before.EndY
		if gap <= 0 {
			return max(1, before.EndLine)
		}
		progress := (y - before.EndY) / gap
		return max(1, before.EndLine+int(progress*float64(after.StartLine-before.EndLine)))
	case before != nil:
		return max(1, before.EndLine)
	case after != nil:
		if after.StartY <= 0 {
			return 1
		}
		return lineFromFloat(y / after.StartY * float64(after.StartLine))
	default:
		return c.proportionalRenderedToLine(y)
	}
}

// RawOffsetToLine returns the topmost visible source line for a raw view
// scroll offset.
func RawOffsetToLine(scrollOffset, lineHeight float64) int {
	if !(lineHeight > 0) || math.IsNaN(scrollOffset) {
		return 1
	}
	return lineFromFloat(math.Floor(scrollOffset/lineHeight) + 1)
}

// LineToRawOffset returns the raw view scroll offset that puts line at the top.
func LineToRawOffset(line int, lineHeight float64) float64 {
	if !(lineHeight > 0) {
		return 0
	}
	return float64(max(line, 1)-1) * lineHeight
}

// neighborsOfLine finds the mapping ending closest before line and the
// mapping starting closest after it.
func (c Converter) neighborsOfLine(line int) (before, after *BlockMapping) {
	for i := range c.mappings {
		m := &c.mappings[i]
		if m.EndLine < line && (before == nil || m.EndLine >= before.EndLine) {
			before = m
		}
		if m.StartLine > line && (after == nil || m.StartLine < after.StartLine) {
			after = m
		}
	}
	return before, after
}

// neighborsOfOffset is neighborsOfLine for the rendered axis. Mappings are
// ordered by source line, so the whole slice is scanned.
func (c Converter) neighborsOfOffset(y float64) (before, after *BlockMapping) {
	for i := range c.mappings {
		m := &c.mappings[i]
		if m.EndY < y && (before == nil || m.EndY >= before.EndY) {
			before = m
		}
		if m.StartY > y && (after == nil || m.StartY < after.StartY) {
			after = m
		}
	}
	return before, after
}

func (c Converter) proportionalLineToRendered(line int) float64 {
	if c.lineCount <= 0 || !(c.totalHeight > 0) {
		return 0
	}
	return float64(line) / float64(c.lineCount) * c.totalHeight
}

func (c Converter) proportionalRenderedToLine(y float64) int {
	if c.lineCount <= 0 || !(c.totalHeight > 0) {
		return 1
	}
	return lineFromFloat(y / c.totalHeight * float64(c.lineCount))
}

// lineFromFloat floors v into a valid 1-indexed line.
func lineFromFloat(v float64) int {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	if v > maxLine {
		return maxLine
	}
	return int(v)
}
