package shared

import "time"

// Clock abstracts time so schedulers and progress math are testable with a
// fixed now.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
