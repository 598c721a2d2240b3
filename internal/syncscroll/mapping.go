package syncscroll

import "fmt"

// BlockType identifies the kind of markdown block a mapping was built from.
// It is used for diagnostics only and never changes conversion behavior.
type BlockType int

const (
	BlockOther BlockType = iota
	BlockHeading
	BlockParagraph
	BlockCodeBlock
	BlockList
	BlockQuote
	BlockTable
	BlockHorizontalRule
)

func (t BlockType) String() string {
	switch t {
	case BlockHeading:
		return "heading"
	case BlockParagraph:
		return "paragraph"
	case BlockCodeBlock:
		return "code_block"
	case BlockList:
		return "list"
	case BlockQuote:
		return "block_quote"
	case BlockTable:
		return "table"
	case BlockHorizontalRule:
		return "horizontal_rule"
	default:
		return "other"
	}
}

// BlockMapping pairs a source line range with the pixel range the block
// occupies in the rendered view.
//
// Source lines are 1-indexed and inclusive: [StartLine, EndLine].
// The rendered range is half-open: [StartY, EndY).
type BlockMapping struct {
	StartLine int
	EndLine   int
	StartY    float64
	EndY      float64
	Type      BlockType
}

// NewBlockMapping creates a block mapping.
func NewBlockMapping(startLine, endLine int, startY, endY float64, blockType BlockType) BlockMapping {
	return BlockMapping{
		StartLine: startLine,
		EndLine:   endLine,
		StartY:    startY,
		EndY:      endY,
		Type:      blockType,
	}
}

// ContainsLine reports whether line falls within the block's source range.
func (m BlockMapping) ContainsLine(line int) bool {
	return line >= m.StartLine && line <= m.EndLine
}

// ContainsRenderedY reports whether y falls within the block's rendered range.
func (m BlockMapping) ContainsRenderedY(y float64) bool {
	return y >= m.StartY && y < m.EndY
}

// RenderedMidpoint returns the vertical center of the rendered block.
func (m BlockMapping) RenderedMidpoint() float64 {
	return (m.StartY + m.EndY) / 2
}

// SourceMidpoint returns the middle source line, truncated.
func (m BlockMapping) SourceMidpoint() int {
	return (m.StartLine + m.EndLine) / 2
}

// Valid reports whether both ranges are ordered start <= end.
func (m BlockMapping) Valid() bool {
	return m.StartLine <= m.EndLine && m.StartY <= m.EndY
}

func (m BlockMapping) String() string {
	return fmt.Sprintf("%s lines %d-%d -> [%.1f, %.1f)", m.Type, m.StartLine, m.EndLine, m.StartY, m.EndY)
}
