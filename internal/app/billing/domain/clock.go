package domain

import "time"

// Clock stamps notifications
type Clock interface {
	Now() time.Time
}

// RealClock returns the wall clock in UTC
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns FixedTime
type FixedClock struct {
	FixedTime time.Time
}

func (f FixedClock) Now() time.Time {
	return f.FixedTime
}
