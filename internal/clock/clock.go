// Package clock accumulates simulation time from a monotonic wall clock.
package clock

import (
	"math"
	"time"
)

// Source supplies the current time. Implementations must carry a monotonic
// reading so that differences are immune to wall-clock adjustments.
type Source interface {
	Now() time.Time
}

// Wall reads the process clock. [time.Now] includes a monotonic reading.
type Wall struct{}

func (Wall) Now() time.Time { return time.Now() }

// SimClock is the process-wide simulation time accumulator. It only moves
// forward: simTime(n+1) = simTime(n) + scale·Δt(n). There is no reset.
//
// A SimClock is owned by a single driver goroutine and is not safe for
// concurrent use.
type SimClock struct {
	src     Source
	last    time.Time
	started bool
	elapsed float64
	scale   float64
	paused  bool
}

// New returns a clock reading src that advances scale simulated seconds
// per real second. A non-positive or non-finite scale is treated as 1.
func New(src Source, scale float64) *SimClock {
	if src == nil {
		src = Wall{}
	}
	c := &SimClock{src: src, scale: 1}
	c.SetScale(scale)
	return c
}

// Advance adds dt real seconds and returns the new simulation time.
// Negative and non-finite deltas add nothing.
func (c *SimClock) Advance(dt float64) float64 {
	if c.paused || dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return c.elapsed
	}
	c.elapsed += dt * c.scale
	return c.elapsed
}

// Tick advances by the real time since the previous Tick. The first Tick
// only anchors the clock.
func (c *SimClock) Tick() float64 {
	now := c.src.Now()
	if !c.started {
		c.last, c.started = now, true
		return c.elapsed
	}
	dt := now.Sub(c.last)
	c.last = now
	return c.Advance(dt.Seconds())
}

// Elapsed returns the accumulated simulation time.
func (c *SimClock) Elapsed() float64 { return c.elapsed }

// Scale returns the simulation speed multiplier.
func (c *SimClock) Scale() float64 { return c.scale }

// SetScale changes the speed multiplier for future deltas. Invalid values are ignored.
func (c *SimClock) SetScale(scale float64) {
	if scale > 0 && !math.IsInf(scale, 0) {
		c.scale = scale
	}
}

// SetPaused stops or resumes accumulation. Real time that passes while
// paused is discarded, not replayed on resume.
func (c *SimClock) SetPaused(p bool) { c.paused = p }

// Paused reports whether the clock is paused.
func (c *SimClock) Paused() bool { return c.paused }
