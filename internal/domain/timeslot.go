package domain

import "time"

// TimeSlot is a [start, end) interval occupied by one scheduled item.
// Invariant: End is strictly after Start.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

func NewTimeSlot(start time.Time, end time.Time) TimeSlot {
	return TimeSlot{Start: start, End: end}
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints (a.End == b.Start) do not overlap.
func (s TimeSlot) Overlaps(o TimeSlot) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

func (s TimeSlot) DurationMinutes() int {
	return int(s.End.Sub(s.Start).Minutes())
}
