package scheduler

// EventKind tags a structured scheduling event.
type EventKind string

const (
	EventPlaced           EventKind = "placed"
	EventFixedPlaced      EventKind = "fixed_placed"
	EventShifted          EventKind = "shifted"
	EventRejectedNoFit    EventKind = "rejected_no_fit"
	EventRejectedOverlap  EventKind = "rejected_overlap"
	EventRemovedConflict  EventKind = "removed_conflict"
	EventRemovedEarly     EventKind = "removed_before_floor"
	EventWindowCorrected  EventKind = "window_corrected"
	EventCursorCorrected  EventKind = "cursor_corrected"
)

// Event records one scheduling decision. Tests assert against these instead
// of parsing log output.
type Event struct {
	Kind   EventKind
	ItemID string
	Title  string
	Reason string
}
