package session

import (
	"runtime"
	"time"
)

const DefaultFrameRate = 60

// spinWindow is the tail of each frame that is busy-waited, since sleeping
// alone regularly overshoots the deadline.
const spinWindow = time.Millisecond

// Clock paces the frame loop.
type Clock interface {
	// Wait blocks until the next frame boundary.
	Wait()
	// FPS is the running average frame rate.
	FPS() float64
}

// FrameClock is a Clock with a fixed period.
type FrameClock struct {
	period time.Duration
	next   time.Time
	last   time.Time
	fps    float64

	now   func() time.Time
	sleep func(time.Duration)
}

func NewFrameClock(rate int) *FrameClock {
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	return &FrameClock{
		period: time.Second / time.Duration(rate),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

func (c *FrameClock) Period() time.Duration {
	return c.period
}

func (c *FrameClock) Wait() {
	now := c.now()
	if c.next.IsZero() {
		c.next = now
	}
	c.next = c.next.Add(c.period)

	remaining := c.next.Sub(now)
	switch {
	case remaining > 0:
		if coarse := remaining - spinWindow; coarse > 0 {
			c.sleep(coarse)
		}
		for c.now().Before(c.next) {
			runtime.Gosched()
		}
	case -remaining > c.period:
		// More than a frame behind: start over instead of bursting frames.
		c.next = now
	}

	c.tick(c.now())
}

func (c *FrameClock) FPS() float64 {
	return c.fps
}

// tick folds the last frame time into an exponential moving average.
func (c *FrameClock) tick(now time.Time) {
	if !c.last.IsZero() {
		if dt := now.Sub(c.last); dt > 0 {
			instant := float64(time.Second) / float64(dt)
			if c.fps == 0 {
				c.fps = instant
			} else {
				c.fps += (instant - c.fps) / 10
			}
		}
	}
	c.last = now
}
