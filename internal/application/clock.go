package application

import "time"

// Clock supplies timestamps for records and events.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC at microsecond precision, the
// resolution Postgres stores, so returned records match later reads.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
