package syncscroll

import "time"

// Animator eases one view's scroll offset toward a target. The host polls
// Offset once per frame and applies the result to its scroll widget.
type Animator struct {
	clock    Clock
	duration time.Duration
	smooth   bool

	target      float64
	pending     bool
	startOffset float64
	startTime   time.Time
}

// NewAnimator creates an idle animator.
func NewAnimator(clock Clock, duration time.Duration, smooth bool) *Animator {
	if clock == nil {
		clock = RealClock{}
	}
	return &Animator{clock: clock, duration: duration, smooth: smooth}
}

// AnimateTo starts a transition from the view's last known offset to target.
// A new call replaces any transition in flight.
func (a *Animator) AnimateTo(from, target float64) {
	a.target = target
	a.pending = true
	if !a.smooth {
		return
	}
	a.startOffset = from
	a.startTime = a.clock.Now()
}

// Offset returns the offset for the current frame, or false when nothing
// is pending. The final frame returns the exact target and clears it.
func (a *Animator) Offset() (float64, bool) {
	if !a.pending {
		return 0, false
	}

	if !a.smooth {
		a.pending = false
		return a.target, true
	}

	progress := 1.0
	if a.duration > 0 {
		elapsed := a.clock.Now().Sub(a.startTime)
		progress = min(max(float64(elapsed)/float64(a.duration), 0), 1)
	}

	if progress >= 1 {
		a.pending = false
		return a.target, true
	}

	return a.startOffset + (a.target-a.startOffset)*easeOutQuad(progress), true
}

// Animating reports whether a target is pending.
func (a *Animator) Animating() bool {
	return a.pending
}

// Target returns the pending target, if any.
func (a *Animator) Target() (float64, bool) {
	return a.target, a.pending
}

// Cancel drops any pending target.
func (a *Animator) Cancel() {
	a.pending = false
}

// easeOutQuad decelerates toward the end: 1 - (1-p)^2.
func easeOutQuad(p float64) float64 {
	inv := 1 - p
	return 1 - inv*inv
}
