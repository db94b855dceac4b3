package testutil

import "time"

var (
	defaultStartTime = time.Date(2007, 7, 16, 12, 59, 1, 0, time.UTC)
)

// Clock implements clock.Clock, but each call to Now() after the first
// advances the time by unit.
type Clock struct {
	Start time.Time
	unit  time.Duration
	last  time.Time
}

// Now implements clock.Clock.
func (c *Clock) Now() time.Time {
	if c.last.IsZero() {
		c.last = c.Start
	} else {
		c.last = c.last.Add(c.unit)
	}
	return c.last
}

// Last returns the last time that was used.
func (c *Clock) Last() time.Time {
	if c.last.IsZero() {
		c.last = c.Start
	}
	return c.last
}

func NewClock(unit time.Duration) *Clock {
	return &Clock{
		Start: defaultStartTime,
		unit:  unit,
	}
}
