package syncscroll

import "time"

// ScrollOrigin identifies who initiated the most recent scroll.
type ScrollOrigin int

const (
	// OriginNone is the idle state: nobody is scrolling.
	OriginNone ScrollOrigin = iota
	// OriginRaw is a scroll started in the raw markdown view.
	OriginRaw
	// OriginRendered is a scroll started in the rendered view.
	OriginRendered
	// OriginExternal is navigation from outside both views (outline, search, reload).
	OriginExternal
)

func (o ScrollOrigin) String() string {
	switch o {
	case OriginRaw:
		return "raw"
	case OriginRendered:
		return "rendered"
	case OriginExternal:
		return "external"
	default:
		return "none"
	}
}

// Debounce multipliers. Accepting a scroll from the other view is riskier
// than returning to idle, so it needs the longer cool-down.
const (
	crossOriginDebounceFactor = 3
	clearOriginDebounceFactor = 2
)

// OriginTracker remembers which view last scrolled and when, and decides
// whether a scroll from a given origin may drive the other view.
//
// A programmatic scroll applied to view B in response to view A produces a
// scroll event in B. The tracker keeps that event from being treated as a new
// user scroll until the debounce window has passed.
type OriginTracker struct {
	clock      Clock
	debounce   time.Duration
	origin     ScrollOrigin
	lastScroll time.Time
	stamped    bool
}

// NewOriginTracker creates an idle tracker.
func NewOriginTracker(clock Clock, debounce time.Duration) *OriginTracker {
	if clock == nil {
		clock = RealClock{}
	}
	return &OriginTracker{clock: clock, debounce: debounce}
}

// Origin returns the current scroll origin.
func (t *OriginTracker) Origin() ScrollOrigin {
	return t.origin
}

// Mark records a scroll from origin at the current time.
func (t *OriginTracker) Mark(origin ScrollOrigin) {
	t.origin = origin
	t.lastScroll = t.clock.Now()
	t.stamped = true
}

// ShouldSync reports whether a scroll from origin may be propagated.
// Idle and same-origin scrolls are always allowed; a cross-origin scroll is
// allowed once 3x the debounce window has elapsed since the last mark.
func (t *OriginTracker) ShouldSync(origin ScrollOrigin) bool {
	if t.origin == OriginNone || t.origin == origin {
		return true
	}
	if !t.stamped {
		return true
	}
	return t.elapsed() >= crossOriginDebounceFactor*t.debounce
}

// Clear returns the tracker to idle if 2x the debounce window has elapsed
// since the last mark. Otherwise it does nothing and the caller retries on a
// later frame.
func (t *OriginTracker) Clear() {
	if !t.stamped {
		return
	}
	if t.elapsed() >= clearOriginDebounceFactor*t.debounce {
		t.origin = OriginNone
	}
}

func (t *OriginTracker) elapsed() time.Duration {
	return t.clock.Now().Sub(t.lastScroll)
}
