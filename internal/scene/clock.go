package scene

import "time"

// Clock measures time since the first tick and between ticks.
type Clock struct {
	start   time.Time
	prev    time.Time
	started bool
}

// Tick returns seconds since the first tick and since the previous tick.
// The first tick returns zero for both.
func (c *Clock) Tick(now time.Time) (elapsed, delta float32) {
	if !c.started {
		c.start, c.prev, c.started = now, now, true
		return 0, 0
	}
	elapsed = float32(now.Sub(c.start).Seconds())
	delta = float32(now.Sub(c.prev).Seconds())
	c.prev = now
	if delta < 0 {
		delta = 0
	}
	return elapsed, delta
}
