package clock

import "time"

// Clock is the single source of "now" for persistence timestamps and file paths.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// UTC reads the wall clock and always returns UTC.
var UTC Clock = systemClock{}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t
}

// Fixed returns a clock frozen at t. Used by tests and the seed command.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t.UTC()}
}
