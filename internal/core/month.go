package core

import "time"

const (
	// MonthLayout formats plan month labels ("Jan 2025").
	MonthLayout = "Jan 2006"
	// DateLayout formats register dates ("31/01/2025").
	DateLayout = "02/01/2006"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (local time when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		return now.In(c.Location)
	}
	return now
}

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// MonthLabel formats t as a plan month label.
func MonthLabel(t time.Time) string {
	return t.Format(MonthLayout)
}
