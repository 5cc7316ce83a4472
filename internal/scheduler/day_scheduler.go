package scheduler

import (
	"fmt"
	"log"
	"sort"
	"time"

	"trip-itinerary-service/internal/domain"
)

// Placement buffer between consecutive non-logistics items.
const bufferMinutes = 5

// DayScheduler owns a single day's timeline.
//
// It performs greedy slot allocation with local repair and never backtracks.
// All operations are synchronous, single-threaded and free of I/O; one
// instance belongs to exactly one day orchestration and is discarded after
// the day's items are extracted.
type DayScheduler struct {
	date     domain.LocalDate
	dayStart time.Time
	dayEnd   time.Time
	cursor   time.Time

	items  []*domain.ScheduledItem
	seq    int
	dayNum int
	events []Event
}

// ItemRequest describes a greedy placement attempt.
type ItemRequest struct {
	Title        string
	Kind         domain.ItemKind
	DurationMin  int
	TravelMin    int
	MinStart     time.Time // zero value: no floor
	Cost         float64
	Location     *domain.Coordinates
	LocationName string
	Description  string
}

// New builds a scheduler for one day. A malformed window (availableUntil not
// after availableFrom) is corrected to a two-hour window, never rejected.
func New(dayNum int, date domain.LocalDate, availableFrom, availableUntil time.Time) *DayScheduler {
	s := &DayScheduler{
		date:     date,
		dayStart: availableFrom,
		dayEnd:   availableUntil,
		cursor:   availableFrom,
		dayNum:   dayNum,
	}

	if !availableUntil.After(availableFrom) {
		s.dayEnd = availableFrom.Add(2 * time.Hour)
		log.Printf(
			"day scheduler: corrected malformed window day=%d from=%s until=%s",
			dayNum, availableFrom.Format("15:04"), availableUntil.Format("15:04"),
		)
		s.record(EventWindowCorrected, "", "", "availableUntil not after availableFrom")
	}

	return s
}

func (s *DayScheduler) Date() domain.LocalDate { return s.date }
func (s *DayScheduler) DayStart() time.Time    { return s.dayStart }
func (s *DayScheduler) DayEnd() time.Time      { return s.dayEnd }
func (s *DayScheduler) Cursor() time.Time      { return s.cursor }

// Items returns the timeline ordered by start time.
func (s *DayScheduler) Items() []domain.ScheduledItem {
	s.sortItems()
	out := make([]domain.ScheduledItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *it)
	}
	return out
}

// Events returns every scheduling decision recorded so far.
func (s *DayScheduler) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// CanFit reports whether duration+travel minutes remain before day end.
func (s *DayScheduler) CanFit(durationMin, travelMin int) bool {
	remaining := int(s.dayEnd.Sub(s.cursor).Minutes())
	return remaining >= durationMin+travelMin
}

// AddItem attempts a greedy placement and returns nil when no slot exists.
// A nil result is the expected outcome for most candidates on a packed day,
// not an error.
//
// Proposed start is cursor + travel + buffer (buffer waived for logistics),
// pulled forward to MinStart when that is later. The start never moves
// backward past the cursor; non-logistics starts are rounded to the nearest
// hour. On conflict the start shifts past the blocking item, then a linear
// sweep finds the first free gap. Success advances the cursor to the item
// end.
func (s *DayScheduler) AddItem(req ItemRequest) *domain.ScheduledItem {
	if req.DurationMin <= 0 {
		s.record(EventRejectedNoFit, "", req.Title, "non-positive duration")
		return nil
	}

	buffer := time.Duration(bufferMinutes) * time.Minute
	if req.Kind.IsLogistics() {
		buffer = 0
	}
	dur := time.Duration(req.DurationMin) * time.Minute

	start := s.cursor.Add(time.Duration(req.TravelMin)*time.Minute + buffer)

	floor := s.cursor
	if !req.MinStart.IsZero() {
		if req.MinStart.After(start) {
			start = req.MinStart
		}
		if req.MinStart.After(floor) {
			floor = req.MinStart
		}
	}

	// Absolute invariant: a placement never begins before the cursor.
	if start.Before(s.cursor) {
		start = s.cursor
		s.record(EventCursorCorrected, "", req.Title, "proposed start before cursor")
	}

	if !req.Kind.IsLogistics() {
		start = roundToHour(start, floor)
	}

	slot := domain.TimeSlot{Start: start, End: start.Add(dur)}

	if blocking := s.firstConflict(slot); blocking != nil {
		shifted := blocking.Slot.End.Add(buffer)
		slot = domain.TimeSlot{Start: shifted, End: shifted.Add(dur)}
		s.record(EventShifted, blocking.ID, req.Title, "initial slot occupied")

		if s.firstConflict(slot) != nil {
			gapStart, ok := s.findGap(dur, buffer, floor)
			if !ok {
				s.record(EventRejectedNoFit, "", req.Title, "no free gap before day end")
				return nil
			}
			slot = domain.TimeSlot{Start: gapStart, End: gapStart.Add(dur)}
		}
	}

	if slot.End.After(s.dayEnd) {
		s.record(EventRejectedNoFit, "", req.Title, "would end after day end")
		return nil
	}

	item := s.append(req.Title, req.Kind, slot, req.DurationMin, req.TravelMin, req.Cost, req.Location, req.LocationName, req.Description)
	if slot.End.After(s.cursor) {
		s.cursor = slot.End
	}
	s.record(EventPlaced, item.ID, item.Title, "")
	return item
}

// InsertFixedItem places an externally dictated time block (flight, train).
// An overlap with an existing item signals an upstream contradiction and
// yields nil; callers must not retry fixed events at a different time. The
// cursor advances to the item end only when that is later than the cursor.
func (s *DayScheduler) InsertFixedItem(title string, kind domain.ItemKind, startTime, endTime time.Time) *domain.ScheduledItem {
	return s.InsertFixed(ItemRequest{Title: title, Kind: kind}, startTime, endTime)
}

// InsertFixed is InsertFixedItem with the full request payload (cost,
// location) preserved on the placed item.
func (s *DayScheduler) InsertFixed(req ItemRequest, startTime, endTime time.Time) *domain.ScheduledItem {
	if !endTime.After(startTime) {
		s.record(EventRejectedNoFit, "", req.Title, "fixed end not after start")
		return nil
	}

	slot := domain.TimeSlot{Start: startTime, End: endTime}
	if blocking := s.firstConflict(slot); blocking != nil {
		s.record(EventRejectedOverlap, blocking.ID, req.Title,
			fmt.Sprintf("fixed slot overlaps %q", blocking.Title))
		return nil
	}

	item := s.append(req.Title, req.Kind, slot, slot.DurationMinutes(), req.TravelMin, req.Cost, req.Location, req.LocationName, req.Description)
	if endTime.After(s.cursor) {
		s.cursor = endTime
	}
	s.record(EventFixedPlaced, item.ID, item.Title, "")
	return item
}

// AdvanceTo moves the cursor forward only; earlier times are a no-op.
func (s *DayScheduler) AdvanceTo(t time.Time) {
	if t.After(s.cursor) {
		s.cursor = t
	}
}

// RemoveConflicts runs iterative priority-based repair until the timeline is
// overlap-free and returns the number of removed items. Each pass removes
// exactly one item, so the loop is bounded by the item count.
func (s *DayScheduler) RemoveConflicts() int {
	removed := 0
	for {
		a, b := s.firstOverlappingPair()
		if a == nil {
			return removed
		}

		loser := b
		if a.Kind.Priority() < b.Kind.Priority() {
			loser = a
		} else if a.Kind.Priority() == b.Kind.Priority() && a.Seq > b.Seq {
			// Equal priority: the later insertion loses.
			loser = a
		}

		s.remove(loser)
		s.record(EventRemovedConflict, loser.ID, loser.Title, "lower priority in overlap")
		removed++
	}
}

// RemoveItemsBefore strips every item starting before t whose kind is not in
// the protected list. Used to guarantee nothing is scheduled at the
// destination before the traveler has physically arrived.
func (s *DayScheduler) RemoveItemsBefore(t time.Time, protected ...domain.ItemKind) int {
	keep := make([]*domain.ScheduledItem, 0, len(s.items))
	removed := 0

	for _, it := range s.items {
		if it.Slot.Start.Before(t) && !kindIn(it.Kind, protected) {
			s.record(EventRemovedEarly, it.ID, it.Title,
				fmt.Sprintf("starts before %s", t.Format("15:04")))
			removed++
			continue
		}
		keep = append(keep, it)
	}

	s.items = keep
	return removed
}

// RemoveItem drops a single item by id. Used when a phase decides a
// placement overshot its bound; the cursor is not rewound.
func (s *DayScheduler) RemoveItem(id string) bool {
	for _, it := range s.items {
		if it.ID == id {
			s.remove(it)
			s.record(EventRemovedEarly, it.ID, it.Title, "withdrawn by caller")
			return true
		}
	}
	return false
}

// Conflict identifies one overlapping item pair for diagnostics.
type Conflict struct {
	FirstID  string
	SecondID string
}

// ValidationResult is the pairwise overlap report for a finished day.
type ValidationResult struct {
	Valid     bool
	Conflicts []Conflict
}

// Validate performs a full pairwise overlap check. Callers run this after
// all repair passes; a remaining conflict is an internal-consistency bug,
// never acceptable output.
func (s *DayScheduler) Validate() ValidationResult {
	s.sortItems()
	res := ValidationResult{Valid: true, Conflicts: []Conflict{}}

	for i := 0; i < len(s.items); i++ {
		for j := i + 1; j < len(s.items); j++ {
			if s.items[i].Slot.Overlaps(s.items[j].Slot) {
				res.Valid = false
				res.Conflicts = append(res.Conflicts, Conflict{
					FirstID:  s.items[i].ID,
					SecondID: s.items[j].ID,
				})
			}
		}
	}

	return res
}

func (s *DayScheduler) append(
	title string,
	kind domain.ItemKind,
	slot domain.TimeSlot,
	durationMin, travelMin int,
	cost float64,
	loc *domain.Coordinates,
	locName, desc string,
) *domain.ScheduledItem {
	s.seq++
	item := &domain.ScheduledItem{
		ID:                fmt.Sprintf("d%d-i%02d", s.dayNum, s.seq),
		Title:             title,
		Kind:              kind,
		Slot:              slot,
		DurationMin:       durationMin,
		TravelMinFromPrev: travelMin,
		Cost:              cost,
		Location:          loc,
		LocationName:      locName,
		Description:       desc,
		Seq:               s.seq,
	}
	s.items = append(s.items, item)
	s.sortItems()
	return item
}

func (s *DayScheduler) remove(target *domain.ScheduledItem) {
	keep := make([]*domain.ScheduledItem, 0, len(s.items))
	for _, it := range s.items {
		if it != target {
			keep = append(keep, it)
		}
	}
	s.items = keep
}

func (s *DayScheduler) firstConflict(slot domain.TimeSlot) *domain.ScheduledItem {
	for _, it := range s.items {
		if it.Slot.Overlaps(slot) {
			return it
		}
	}
	return nil
}

func (s *DayScheduler) firstOverlappingPair() (*domain.ScheduledItem, *domain.ScheduledItem) {
	s.sortItems()
	for i := 0; i < len(s.items); i++ {
		for j := i + 1; j < len(s.items); j++ {
			if s.items[i].Slot.Overlaps(s.items[j].Slot) {
				return s.items[i], s.items[j]
			}
		}
	}
	return nil, nil
}

// findGap sweeps the sorted timeline for the first free span of dur minutes
// at or after floor, bounded by day end.
func (s *DayScheduler) findGap(dur, buffer time.Duration, floor time.Time) (time.Time, bool) {
	s.sortItems()

	candidate := s.cursor
	if floor.After(candidate) {
		candidate = floor
	}

	for _, it := range s.items {
		if !candidate.Add(dur).After(it.Slot.Start) {
			break
		}
		if end := it.Slot.End.Add(buffer); end.After(candidate) {
			candidate = end
		}
	}

	if candidate.Add(dur).After(s.dayEnd) {
		return time.Time{}, false
	}
	return candidate, true
}

func (s *DayScheduler) sortItems() {
	sort.SliceStable(s.items, func(i, j int) bool {
		if s.items[i].Slot.Start.Equal(s.items[j].Slot.Start) {
			return s.items[i].Seq < s.items[j].Seq
		}
		return s.items[i].Slot.Start.Before(s.items[j].Slot.Start)
	})
}

func (s *DayScheduler) record(kind EventKind, itemID, title, reason string) {
	s.events = append(s.events, Event{Kind: kind, ItemID: itemID, Title: title, Reason: reason})
}

// roundToHour snaps t to the nearest full hour without crossing below floor.
func roundToHour(t, floor time.Time) time.Time {
	rounded := t.Truncate(time.Hour)
	if t.Minute() >= 30 {
		rounded = rounded.Add(time.Hour)
	}
	if rounded.Before(floor) {
		rounded = t.Truncate(time.Hour).Add(time.Hour)
	}
	return rounded
}

func kindIn(k domain.ItemKind, kinds []domain.ItemKind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}
