package timer

import "time"

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// TickSource calls onTick every interval until stopped. Start replaces any
// schedule that is already running, so at most one is ever active.
type TickSource interface {
	Start(interval time.Duration, onTick func())
	Stop()
}

// Countdown counts whole seconds down to zero on a TickSource.
type Countdown struct {
	ticks     TickSource
	remaining int
	total     int
	ticking   bool

	onTick   func(remaining, total int)
	onExpire func()
}

// NewCountdown wires a countdown to its tick source. onTick sees every
// decrement; onExpire runs once the count reaches zero.
func NewCountdown(ticks TickSource, onTick func(remaining, total int), onExpire func()) *Countdown {
	return &Countdown{
		ticks:    ticks,
		onTick:   onTick,
		onExpire: onExpire,
	}
}

func (c *Countdown) Remaining() int { return c.remaining }
func (c *Countdown) Total() int     { return c.total }
func (c *Countdown) Ticking() bool  { return c.ticking }

// Run starts counting down from secs.
func (c *Countdown) Run(secs int) {
	c.remaining = secs
	c.total = secs
	c.schedule()
}

// Pause stops ticking and keeps the remaining time.
func (c *Countdown) Pause() {
	if !c.ticking {
		return
	}
	c.ticks.Stop()
	c.ticking = false
}

// Resume continues from the remaining time. It does nothing if already
// ticking or if nothing is left to count.
func (c *Countdown) Resume() {
	if c.ticking || c.remaining <= 0 {
		return
	}
	c.schedule()
}

// Clear stops ticking and zeroes the count.
func (c *Countdown) Clear() {
	c.ticks.Stop()
	c.ticking = false
	c.remaining = 0
	c.total = 0
}

func (c *Countdown) schedule() {
	c.ticks.Stop()
	c.ticking = true
	c.ticks.Start(TickInterval, c.tick)
}

func (c *Countdown) tick() {
	if !c.ticking {
		return
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.ticks.Stop()
		c.ticking = false
	}
	if c.onTick != nil {
		c.onTick(c.remaining, c.total)
	}
	if c.remaining == 0 && c.onExpire != nil {
		c.onExpire()
	}
}
