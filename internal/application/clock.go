package application

import "time"

// Clock interface supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Now returns c's time in UTC, truncated to the microsecond precision the SQL stores keep.
func Now(c Clock) time.Time { return c.Now().UTC().Truncate(time.Microsecond) }
