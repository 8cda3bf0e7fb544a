package scheduling

import "time"

// Clock supplies the current time.  The service never calls
// time.Now directly so that check-in and the auto-cancel sweep can
// be tested without real time passing.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
