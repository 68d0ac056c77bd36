package shift

import (
	"time"
)

const minutesPerDay = 24 * 60

// Shift describes a scheduled work window. Times are minutes from
// midnight; a shift whose end is numerically earlier than its start
// crosses midnight and requires wrap-around arithmetic.
type Shift struct {
	ID               string
	Name             string
	StartMinutes     int
	EndMinutes       int
	BreakMinutes     int
	LateGraceMinutes int
	CrossesMidnight  bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// GrossMinutes is the scheduled span including breaks.
// For a midnight-crossing shift: (1440 - start) + end.
func (s Shift) GrossMinutes() int {
	if s.CrossesMidnight {
		return (minutesPerDay - s.StartMinutes) + s.EndMinutes
	}
	return s.EndMinutes - s.StartMinutes
}

// NetMinutes is the payable span: max(0, gross - break).
func (s Shift) NetMinutes() int {
	net := s.GrossMinutes() - s.BreakMinutes
	if net < 0 {
		return 0
	}
	return net
}

// MinuteOfDay returns t's minute offset from local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
