// Package syncscroll keeps a raw markdown view and its rendered view loosely
// synchronized while either one scrolls.
//
// The engine maps source lines to rendered offsets using block mappings
// supplied by the renderer, arbitrates which view is driving to avoid scroll
// feedback loops, and eases the driven view toward its target. It owns no
// widgets and reads time only through an injected Clock. A State is meant to
// be owned and mutated by a single goroutine (the UI update loop).
//
// Typical frame:
//
//	if s.ShouldSyncFrom(syncscroll.OriginRaw) {
//		s.MarkScroll(syncscroll.OriginRaw)
//		line := s.RawOffsetToLine(rawOffset, lineHeight)
//		s.AnimateRenderedTo(s.LineToRenderedOffset(line))
//	}
//	// next frame
//	if y, ok := s.AnimatedRenderedOffset(); ok {
//		rendered.SetOffset(y)
//	}
package syncscroll

import (
	"math"
	"slices"

	"github.com/zjrosen/twinscroll/internal/log"
)

// State is the per-document sync scroll engine.
type State struct {
	enabled bool
	config  Config
	clock   Clock

	mappings            []BlockMapping
	sourceLineCount     int
	renderedTotalHeight float64

	origin *OriginTracker

	lastRawOffset      float64
	lastRenderedOffset float64

	rawAnim      *Animator
	renderedAnim *Animator
}

// Option configures a State.
type Option func(*State)

// WithConfig sets the engine configuration.
func WithConfig(cfg Config) Option {
	return func(s *State) { s.config = cfg }
}

// WithClock sets the time source. Tests use a fake clock.
func WithClock(clock Clock) Option {
	return func(s *State) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New creates an enabled State with default configuration.
func New(opts ...Option) *State {
	s := &State{
		enabled: true,
		config:  DefaultConfig(),
		clock:   RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.origin = NewOriginTracker(s.clock, s.config.Debounce)
	s.rawAnim = NewAnimator(s.clock, s.config.AnimationDuration, s.config.SmoothScrolling)
	s.renderedAnim = NewAnimator(s.clock, s.config.AnimationDuration, s.config.SmoothScrolling)
	return s
}

// Config returns the engine configuration.
func (s *State) Config() Config {
	return s.config
}

// Enabled reports whether sync scrolling is on.
func (s *State) Enabled() bool {
	return s.enabled
}

// SetEnabled turns sync scrolling on or off. Turning it off cancels any
// transition in flight.
func (s *State) SetEnabled(enabled bool) {
	s.enabled = enabled
	if !enabled {
		s.ClearAnimation()
	}
}

// Toggle flips sync scrolling and returns the new value.
func (s *State) Toggle() bool {
	s.SetEnabled(!s.enabled)
	return s.enabled
}

// -----------------------------------------------------------------------------
// Mappings
// -----------------------------------------------------------------------------

// ClearMappings drops all mappings and the fallback metadata.
func (s *State) ClearMappings() {
	s.mappings = nil
	s.sourceLineCount = 0
	s.renderedTotalHeight = 0
}

// AddMapping inserts one mapping, keeping the list sorted by StartLine.
// Mappings with inverted ranges are ignored.
func (s *State) AddMapping(m BlockMapping) {
	if !m.Valid() {
		log.Debug(log.CatSync, "rejected block mapping", "mapping", m.String())
		return
	}
	i, _ := slices.BinarySearchFunc(s.mappings, m.StartLine, func(e BlockMapping, line int) int {
		if e.StartLine <= line {
			return -1
		}
		return 1
	})
	s.mappings = slices.Insert(s.mappings, i, m)
}

// BuildMappingsFromBlocks replaces all mappings with blocks, sorted by
// StartLine. The slice is copied; the caller keeps ownership of its own.
// Mappings with inverted ranges are dropped.
func (s *State) BuildMappingsFromBlocks(blocks []BlockMapping) {
	mappings := make([]BlockMapping, 0, len(blocks))
	rejected := 0
	for _, b := range blocks {
		if !b.Valid() {
			rejected++
			continue
		}
		mappings = append(mappings, b)
	}
	slices.SortStableFunc(mappings, func(a, b BlockMapping) int {
		return a.StartLine - b.StartLine
	})
	s.mappings = mappings

	if rejected > 0 {
		log.Debug(log.CatSync, "rejected block mappings", "count", rejected, "kept", len(mappings))
	}
}

// Mappings returns a copy of the stored mappings.
func (s *State) Mappings() []BlockMapping {
	return slices.Clone(s.mappings)
}

// SetSourceMetadata sets the document size used by the proportional
// fallback when no mappings are available.
func (s *State) SetSourceMetadata(lineCount int, renderedHeight float64) {
	s.sourceLineCount = lineCount
	s.renderedTotalHeight = renderedHeight
}

// SourceLineCount returns the line count set by SetSourceMetadata.
func (s *State) SourceLineCount() int {
	return s.sourceLineCount
}

// RenderedTotalHeight returns the rendered height set by SetSourceMetadata.
func (s *State) RenderedTotalHeight() float64 {
	return s.renderedTotalHeight
}

// -----------------------------------------------------------------------------
// Scroll origin
// -----------------------------------------------------------------------------

// ShouldSyncFrom reports whether a scroll from origin may drive the other
// view. Always false while sync scrolling is disabled.
func (s *State) ShouldSyncFrom(origin ScrollOrigin) bool {
	if !s.enabled {
		return false
	}
	return s.origin.ShouldSync(origin)
}

// MarkScroll records a scroll event from origin.
func (s *State) MarkScroll(origin ScrollOrigin) {
	s.origin.Mark(origin)
}

// ClearOrigin returns to idle once the debounce window allows it.
func (s *State) ClearOrigin() {
	s.origin.Clear()
}

// Origin returns the current scroll origin.
func (s *State) Origin() ScrollOrigin {
	return s.origin.Origin()
}

// -----------------------------------------------------------------------------
// Conversion
// -----------------------------------------------------------------------------

// Converter returns a converter over the current mappings and metadata.
func (s *State) Converter() Converter {
	return NewConverter(s.mappings, s.sourceLineCount, s.renderedTotalHeight)
}

// LineToRenderedOffset converts a source line to a rendered offset.
func (s *State) LineToRenderedOffset(line int) float64 {
	return s.Converter().LineToRenderedOffset(line)
}

// RenderedOffsetToLine converts a rendered offset to a source line.
func (s *State) RenderedOffsetToLine(y float64) int {
	return s.Converter().RenderedOffsetToLine(y)
}

// RawOffsetToLine returns the topmost visible source line in the raw view.
func (s *State) RawOffsetToLine(scrollOffset, lineHeight float64) int {
	return RawOffsetToLine(scrollOffset, lineHeight)
}

// LineToRawOffset returns the raw scroll offset that shows line at the top.
func (s *State) LineToRawOffset(line int, lineHeight float64) float64 {
	return LineToRawOffset(line, lineHeight)
}

// -----------------------------------------------------------------------------
// Animation
// -----------------------------------------------------------------------------

// AnimateRawTo starts a transition of the raw view toward target.
func (s *State) AnimateRawTo(target float64) {
	s.rawAnim.AnimateTo(s.lastRawOffset, target)
}

// AnimateRenderedTo starts a transition of the rendered view toward target.
func (s *State) AnimateRenderedTo(target float64) {
	s.renderedAnim.AnimateTo(s.lastRenderedOffset, target)
}

// AnimatedRawOffset returns the raw view offset for this frame.
func (s *State) AnimatedRawOffset() (float64, bool) {
	return s.rawAnim.Offset()
}

// AnimatedRenderedOffset returns the rendered view offset for this frame.
func (s *State) AnimatedRenderedOffset() (float64, bool) {
	return s.renderedAnim.Offset()
}

// IsAnimating reports whether either view has a pending target.
func (s *State) IsAnimating() bool {
	return s.rawAnim.Animating() || s.renderedAnim.Animating()
}

// CancelRawAnimation drops the raw view's pending target, leaving the
// rendered view's in flight.
func (s *State) CancelRawAnimation() {
	s.rawAnim.Cancel()
}

// CancelRenderedAnimation drops the rendered view's pending target.
func (s *State) CancelRenderedAnimation() {
	s.renderedAnim.Cancel()
}

// ClearAnimation cancels pending targets for both views.
func (s *State) ClearAnimation() {
	s.rawAnim.Cancel()
	s.renderedAnim.Cancel()
}

// -----------------------------------------------------------------------------
// Offset tracking
// -----------------------------------------------------------------------------

// UpdateRawOffset records the raw view's current scroll offset.
func (s *State) UpdateRawOffset(offset float64) {
	s.lastRawOffset = offset
}

// UpdateRenderedOffset records the rendered view's current scroll offset.
func (s *State) UpdateRenderedOffset(offset float64) {
	s.lastRenderedOffset = offset
}

// LastRawOffset returns the last recorded raw offset.
func (s *State) LastRawOffset() float64 {
	return s.lastRawOffset
}

// LastRenderedOffset returns the last recorded rendered offset.
func (s *State) LastRenderedOffset() float64 {
	return s.lastRenderedOffset
}

// HasSignificantDelta reports whether the change from old to new reaches
// the configured minimum scroll delta.
func (s *State) HasSignificantDelta(newOffset, oldOffset float64) bool {
	return math.Abs(newOffset-oldOffset) >= s.config.MinScrollDelta
}

// -----------------------------------------------------------------------------
// Visible range
// -----------------------------------------------------------------------------

// VisibleRawLines returns the first and last source lines visible in the raw
// view. The last line is one past the final fully covered row.
func (s *State) VisibleRawLines(scrollOffset, viewportHeight, lineHeight float64) (first, last int) {
	if !(lineHeight > 0) {
		return 1, 1
	}
	first = RawOffsetToLine(scrollOffset, lineHeight)
	visible := 0
	if viewportHeight > 0 {
		visible = int(min(math.Ceil(viewportHeight/lineHeight), maxLine))
	}
	return first, first + visible
}

// RenderedIndicatorRange maps the raw view's visible lines onto the
// rendered view, for drawing a minimap-style position indicator.
func (s *State) RenderedIndicatorRange(rawScrollOffset, rawViewportHeight, lineHeight float64) (startY, endY float64) {
	first, last := s.VisibleRawLines(rawScrollOffset, rawViewportHeight, lineHeight)
	conv := s.Converter()
	return conv.LineToRenderedOffset(first), conv.LineToRenderedOffset(last)
}
