package syncscroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testDuration = 150 * time.Millisecond

func TestAnimator_IdleReturnsNothing(t *testing.T) {
	a := NewAnimator(newFakeClock(), testDuration, true)

	_, ok := a.Offset()
	require.False(t, ok)
	require.False(t, a.Animating())
}

func TestAnimator_EaseOutQuad(t *testing.T) {
	clock := newFakeClock()
	a := NewAnimator(clock, testDuration, true)

	a.AnimateTo(0, 100)
	require.True(t, a.Animating())

	v, ok := a.Offset()
	require.True(t, ok)
	require.InDelta(t, 0.0, v, 0.001, "starts at the start offset")

	clock.Advance(testDuration / 2)
	v, ok = a.Offset()
	require.True(t, ok)
	// eased(0.5) = 1 - 0.25 = 0.75
	require.InDelta(t, 75.0, v, 0.001)
	require.True(t, a.Animating())
}

func TestAnimator_ConvergesToExactTarget(t *testing.T) {
	clock := newFakeClock()
	a := NewAnimator(clock, testDuration, true)

	target := 123.456789
	a.AnimateTo(10, target)

	var last float64
	for i := 0; i < 20; i++ {
		v, ok := a.Offset()
		if !ok {
			break
		}
		last = v
		clock.Advance(16 * time.Millisecond)
	}

	require.Equal(t, target, last, "final frame is the exact target")
	_, ok := a.Offset()
	require.False(t, ok, "nothing pending after convergence")
	require.False(t, a.Animating())
}

func TestAnimator_WithoutSmoothScrolling(t *testing.T) {
	a := NewAnimator(newFakeClock(), testDuration, false)

	a.AnimateTo(0, 300)
	v, ok := a.Offset()
	require.True(t, ok)
	require.Equal(t, 300.0, v, "target applied as-is")

	_, ok = a.Offset()
	require.False(t, ok, "target is consumed by one poll")
}

func TestAnimator_ZeroDurationCompletesImmediately(t *testing.T) {
	a := NewAnimator(newFakeClock(), 0, true)

	a.AnimateTo(0, 50)
	v, ok := a.Offset()
	require.True(t, ok)
	require.Equal(t, 50.0, v)
	require.False(t, a.Animating())
}

func TestAnimator_RetargetRestartsFromNewStart(t *testing.T) {
	clock := newFakeClock()
	a := NewAnimator(clock, testDuration, true)

	a.AnimateTo(0, 100)
	clock.Advance(testDuration / 2)
	a.AnimateTo(75, 200)

	v, ok := a.Offset()
	require.True(t, ok)
	require.InDelta(t, 75.0, v, 0.001)

	target, pending := a.Target()
	require.True(t, pending)
	require.Equal(t, 200.0, target)
}

func TestAnimator_Cancel(t *testing.T) {
	a := NewAnimator(newFakeClock(), testDuration, true)
	a.AnimateTo(0, 100)
	a.Cancel()

	_, ok := a.Offset()
	require.False(t, ok)
}

func TestProperty_AnimatedOffsetStaysBetweenStartAndTarget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		clock := newFakeClock()
		a := NewAnimator(clock, testDuration, true)

		from := rapid.Float64Range(-1e4, 1e4).Draw(rt, "from")
		to := rapid.Float64Range(-1e4, 1e4).Draw(rt, "to")
		a.AnimateTo(from, to)

		lo, hi := min(from, to), max(from, to)
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			v, ok := a.Offset()
			if !ok {
				break
			}
			require.GreaterOrEqual(rt, v, lo-1e-9)
			require.LessOrEqual(rt, v, hi+1e-9)
			clock.Advance(time.Duration(rapid.IntRange(0, 40).Draw(rt, "stepMs")) * time.Millisecond)
		}
	})
}
