package clock

import "time"

var (
	Time Clock = &realClock{}
)

// Clock tells the time a message was received.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now().UTC()
}
