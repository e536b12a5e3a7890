package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/sotrh/bank/internal/common/clock Clock

// Clock supplies the time used to stamp stored games and round records
type Clock interface {
	Now() time.Time
}

// System implements Clock using the wall clock, in UTC
type System struct{}

// New returns the system clock
func New() *System {
	return &System{}
}

// Now returns the current time
func (c *System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always reports the same instant
type Fixed struct {
	At time.Time
}

// Now returns the fixed instant
func (c Fixed) Now() time.Time {
	return c.At
}
