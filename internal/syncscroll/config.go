package syncscroll

import "time"

// Config holds the tunables for sync scrolling.
type Config struct {
	// Debounce is the base window used to arbitrate scroll origins.
	// Cross-origin syncs wait 3x this value, clearing the origin waits 2x.
	Debounce time.Duration

	// SmoothScrolling enables eased transitions. When false, targets are
	// applied as-is on the next poll.
	SmoothScrolling bool

	// AnimationDuration is the length of one eased transition.
	AnimationDuration time.Duration

	// MinScrollDelta is the smallest offset change (pixels) worth syncing.
	MinScrollDelta float64
}

// DefaultConfig returns the default sync scroll configuration
// (16ms debounce, smooth scrolling, 150ms animation, 5px delta).
func DefaultConfig() Config {
	return Config{
		Debounce:          16 * time.Millisecond,
		SmoothScrolling:   true,
		AnimationDuration: 150 * time.Millisecond,
		MinScrollDelta:    5.0,
	}
}
