package syncscroll

import "time"

// Clock provides the current time. Use RealClock for production and a
// fake clock in tests so debounce and animation timing stay deterministic.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }
