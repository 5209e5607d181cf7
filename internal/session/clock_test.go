package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTime advances by step on every reading so busy-waits terminate.
type fakeTime struct {
	cur    time.Time
	step   time.Duration
	sleeps []time.Duration
}

func (f *fakeTime) now() time.Time {
	t := f.cur
	f.cur = f.cur.Add(f.step)
	return t
}

func (f *fakeTime) sleep(d time.Duration) {
	f.sleeps = append(f.sleeps, d)
	f.cur = f.cur.Add(d)
}

func newTestClock(rate int) (*FrameClock, *fakeTime) {
	ft := &fakeTime{cur: time.Unix(1000, 0), step: 100 * time.Microsecond}
	c := NewFrameClock(rate)
	c.now = ft.now
	c.sleep = ft.sleep
	return c, ft
}

func TestFrameClockPeriod(t *testing.T) {
	assert.Equal(t, 10*time.Millisecond, NewFrameClock(100).Period())
	assert.Equal(t, NewFrameClock(DefaultFrameRate).Period(), NewFrameClock(0).Period())
	assert.Equal(t, NewFrameClock(DefaultFrameRate).Period(), NewFrameClock(-5).Period())
}

func TestFrameClockWait(t *testing.T) {
	c, ft := newTestClock(100)
	start := ft.cur

	for k := 1; k <= 20; k++ {
		c.Wait()
		elapsed := ft.cur.Sub(start)
		require.GreaterOrEqual(t, elapsed, time.Duration(k)*c.Period(), "frame %d ended early", k)
		require.Less(t, elapsed, time.Duration(k)*c.Period()+time.Millisecond, "frame %d drifted", k)
	}

	for _, d := range ft.sleeps {
		assert.Less(t, d, c.Period())
		assert.Greater(t, d, time.Duration(0))
	}
	assert.InDelta(t, 100, c.FPS(), 3)
}

func TestFrameClockCatchUp(t *testing.T) {
	c, ft := newTestClock(100)
	c.Wait()
	require.Len(t, ft.sleeps, 1)

	// Stall for several frames.
	ft.cur = ft.cur.Add(5 * c.Period())
	c.Wait()
	assert.Len(t, ft.sleeps, 1, "no sleep while behind")

	// The schedule restarts from the stall instead of bursting.
	c.Wait()
	require.Len(t, ft.sleeps, 2)
	assert.Greater(t, ft.sleeps[1], c.Period()/2)
}

func TestFrameClockFPSBeforeFirstFrame(t *testing.T) {
	c, _ := newTestClock(60)
	assert.Zero(t, c.FPS())
	c.Wait()
	assert.Zero(t, c.FPS(), "one frame has no duration")
}
