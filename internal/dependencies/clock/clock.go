// Package clock abstracts the wall clock so card timestamps and export names
// can be pinned in tests.
package clock

import "time"

// Clock tells the time
type Clock interface {
	Now() time.Time
}

// UTC reads the system clock in UTC, so stored cards and export filenames
// don't depend on the server's zone
type UTC struct{}

// New returns the system clock
func New() UTC {
	return UTC{}
}

// Now returns the current time
func (UTC) Now() time.Time {
	return time.Now().UTC()
}
