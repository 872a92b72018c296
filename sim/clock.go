package sim

import "log"

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// ManualClock is a TimeTeller whose time is advanced by its owner. It stands
// in for the event engine that drives the fabric.
type ManualClock struct {
	now VTimeInSec
}

// NewManualClock creates a clock that starts at time 0.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// CurrentTime returns the current time.
func (c *ManualClock) CurrentTime() VTimeInSec {
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d VTimeInSec) {
	if d < 0 {
		log.Panic("cannot move time backward")
	}

	c.now += d
}

// AdvanceTo moves the clock to t. Moving backward is not allowed.
func (c *ManualClock) AdvanceTo(t VTimeInSec) {
	if t < c.now {
		log.Panicf("cannot move time backward from %.10f to %.10f", c.now, t)
	}

	c.now = t
}
