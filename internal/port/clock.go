package port

import "time"

// Clock supplies the current time; tests substitute a fixed one.
type Clock interface {
	Now() time.Time
}

type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}
