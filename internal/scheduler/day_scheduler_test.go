package scheduler

import (
	"testing"
	"time"

	"trip-itinerary-service/internal/domain"
)

func testDay(t *testing.T, fromHour, untilHour int) *DayScheduler {
	t.Helper()
	date := domain.NewLocalDate(2026, time.May, 10, time.UTC)
	return New(1, date, date.At(fromHour, 0), date.At(untilHour, 0))
}

func TestAddItemClampsToOpeningHours(t *testing.T) {
	// Day window 09:00-22:00, cursor 09:00. A 120-min museum opening at
	// 10:00 with 10 min travel must start at 10:00 and end at 12:00.
	s := testDay(t, 9, 22)
	date := s.Date()

	item := s.AddItem(ItemRequest{
		Title:       "City Museum",
		Kind:        domain.KindActivity,
		DurationMin: 120,
		TravelMin:   10,
		MinStart:    date.At(10, 0),
	})
	if item == nil {
		t.Fatal("expected placement, got nil")
	}

	if !item.Slot.Start.Equal(date.At(10, 0)) {
		t.Errorf("start = %v, want 10:00", item.Slot.Start)
	}
	if !item.Slot.End.Equal(date.At(12, 0)) {
		t.Errorf("end = %v, want 12:00", item.Slot.End)
	}
	if !s.Cursor().Equal(date.At(12, 0)) {
		t.Errorf("cursor = %v, want 12:00", s.Cursor())
	}
}

func TestAddItemRoundsNonLogisticsToNearestHour(t *testing.T) {
	s := testDay(t, 9, 22)
	date := s.Date()
	s.AdvanceTo(date.At(10, 40))

	// 10:40 + 5 min buffer = 10:45, rounds to 11:00.
	item := s.AddItem(ItemRequest{Title: "Gallery", Kind: domain.KindActivity, DurationMin: 60})
	if item == nil {
		t.Fatal("expected placement")
	}
	if !item.Slot.Start.Equal(date.At(11, 0)) {
		t.Errorf("start = %v, want rounded 11:00", item.Slot.Start)
	}
}

func TestAddItemShiftsPastConflict(t *testing.T) {
	s := testDay(t, 9, 22)
	date := s.Date()

	if got := s.InsertFixedItem("Train", domain.KindGroundTransport, date.At(10, 0), date.At(12, 30)); got == nil {
		t.Fatal("fixed insert failed")
	}
	// A block ahead of the cursor (as left behind by an earlier repair pass)
	// so the rounded 13:00 proposal collides and must shift past it.
	s.items = append(s.items, &domain.ScheduledItem{
		ID: "d1-x9", Kind: domain.KindGroundTransport, Title: "Connecting Bus",
		Slot: domain.TimeSlot{Start: date.At(13, 0), End: date.At(14, 0)}, Seq: 40,
	})

	item := s.AddItem(ItemRequest{
		Title:       "Walking Tour",
		Kind:        domain.KindActivity,
		DurationMin: 60,
	})
	if item == nil {
		t.Fatal("expected placement after shift")
	}
	if !item.Slot.Start.Equal(date.At(14, 5)) {
		t.Errorf("start = %v, want 14:05 (bus end plus buffer)", item.Slot.Start)
	}

	shifted := false
	for _, ev := range s.Events() {
		if ev.Kind == EventShifted && ev.Title == "Walking Tour" {
			shifted = true
		}
	}
	if !shifted {
		t.Error("expected a shifted event")
	}
	if res := s.Validate(); !res.Valid {
		t.Fatalf("timeline has conflicts after shift: %+v", res.Conflicts)
	}
}

func TestAddItemSweepFindsGapBetweenItems(t *testing.T) {
	s := testDay(t, 9, 22)
	date := s.Date()

	s.InsertFixedItem("Flight", domain.KindFlight, date.At(10, 0), date.At(12, 0))
	s.InsertFixedItem("Dinner Train", domain.KindGroundTransport, date.At(18, 0), date.At(20, 0))

	// Cursor sits at 20:00 after the fixed inserts; only 120 min remain, so
	// a 150-min request must be rejected even though an afternoon gap exists
	// behind the cursor.
	if item := s.AddItem(ItemRequest{Title: "Long Show", Kind: domain.KindActivity, DurationMin: 150}); item != nil {
		t.Fatalf("expected rejection, placed at %v", item.Slot.Start)
	}

	found := false
	for _, ev := range s.Events() {
		if ev.Kind == EventRejectedNoFit && ev.Title == "Long Show" {
			found = true
		}
	}
	if !found {
		t.Error("expected a rejected_no_fit event for the oversized request")
	}
}

func TestInsertFixedItemRejectsOverlap(t *testing.T) {
	// Fixed flight 14:00-16:00, then fixed check-in 15:00-15:30 -> nil.
	s := testDay(t, 9, 22)
	date := s.Date()

	if got := s.InsertFixedItem("Flight", domain.KindFlight, date.At(14, 0), date.At(16, 0)); got == nil {
		t.Fatal("flight insert failed")
	}
	if got := s.InsertFixedItem("Hotel Check-in", domain.KindCheckIn, date.At(15, 0), date.At(15, 30)); got != nil {
		t.Fatal("overlapping fixed insert must return nil")
	}

	if len(s.Items()) != 1 {
		t.Fatalf("items = %d, want 1", len(s.Items()))
	}
	if !s.Cursor().Equal(date.At(16, 0)) {
		t.Errorf("cursor = %v, want flight end", s.Cursor())
	}
}

func TestCursorNeverMovesBackward(t *testing.T) {
	s := testDay(t, 9, 22)
	date := s.Date()

	s.AdvanceTo(date.At(13, 0))
	s.AdvanceTo(date.At(11, 0))
	if !s.Cursor().Equal(date.At(13, 0)) {
		t.Fatalf("AdvanceTo rewound cursor to %v", s.Cursor())
	}

	// A fixed item ending before the cursor must not rewind it either.
	s.InsertFixedItem("Parking", domain.KindParking, date.At(9, 0), date.At(9, 30))
	if !s.Cursor().Equal(date.At(13, 0)) {
		t.Fatalf("fixed insert rewound cursor to %v", s.Cursor())
	}
}

func TestRemoveConflictsPriorityOrder(t *testing.T) {
	s := testDay(t, 9, 22)
	date := s.Date()

	// Force an overlapping timeline by construction: a flight and an
	// activity occupying the same window.
	s.InsertFixedItem("Flight", domain.KindFlight, date.At(10, 0), date.At(12, 0))
	s.items = append(s.items, &domain.ScheduledItem{
		ID:   "d1-x1",
		Kind: domain.KindActivity, Title: "Rogue Activity",
		Slot: domain.TimeSlot{Start: date.At(11, 0), End: date.At(12, 30)},
		Seq:  99,
	})

	removed := s.RemoveConflicts()
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	items := s.Items()
	if len(items) != 1 || items[0].Kind != domain.KindFlight {
		t.Fatalf("flight must survive conflict repair, got %+v", items)
	}
	if res := s.Validate(); !res.Valid {
		t.Fatalf("conflicts remain after repair: %+v", res.Conflicts)
	}
}

func TestRemoveConflictsSamePriorityRemovesLaterInsertion(t *testing.T) {
	s := testDay(t, 9, 22)
	date := s.Date()

	first := &domain.ScheduledItem{
		ID: "d1-i01", Kind: domain.KindActivity, Title: "First",
		Slot: domain.TimeSlot{Start: date.At(10, 0), End: date.At(11, 30)}, Seq: 1,
	}
	second := &domain.ScheduledItem{
		ID: "d1-i02", Kind: domain.KindActivity, Title: "Second",
		Slot: domain.TimeSlot{Start: date.At(11, 0), End: date.At(12, 0)}, Seq: 2,
	}
	s.items = append(s.items, first, second)

	if removed := s.RemoveConflicts(); removed != 1 {
		t.Fatalf("removed = %d, want exactly 1", removed)
	}

	items := s.Items()
	if len(items) != 1 || items[0].ID != "d1-i01" {
		t.Fatalf("earlier insertion must win the tie, got %+v", items)
	}
}

func TestRemoveItemsBeforeKeepsProtectedKinds(t *testing.T) {
	s := testDay(t, 9, 22)
	date := s.Date()

	s.InsertFixedItem("Airport Transfer", domain.KindGroundTransport, date.At(9, 0), date.At(10, 0))
	s.items = append(s.items, &domain.ScheduledItem{
		ID: "d1-x2", Kind: domain.KindActivity, Title: "Premature Coffee",
		Slot: domain.TimeSlot{Start: date.At(9, 0), End: date.At(9, 45)}, Seq: 50,
	})

	removed := s.RemoveItemsBefore(date.At(11, 0),
		domain.KindFlight, domain.KindGroundTransport, domain.KindCheckIn,
		domain.KindCheckOut, domain.KindParking, domain.KindHotel)

	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	items := s.Items()
	if len(items) != 1 || items[0].Kind != domain.KindGroundTransport {
		t.Fatalf("transfer must survive the purge, got %+v", items)
	}
}

func TestMalformedWindowCorrectedToTwoHours(t *testing.T) {
	date := domain.NewLocalDate(2026, time.May, 10, time.UTC)
	s := New(3, date, date.At(18, 0), date.At(18, 0))

	if !s.DayEnd().Equal(date.At(20, 0)) {
		t.Fatalf("day end = %v, want corrected 20:00", s.DayEnd())
	}

	corrected := false
	for _, ev := range s.Events() {
		if ev.Kind == EventWindowCorrected {
			corrected = true
		}
	}
	if !corrected {
		t.Error("expected a window_corrected event")
	}
}

func TestCanFit(t *testing.T) {
	s := testDay(t, 9, 12)

	if !s.CanFit(170, 10) {
		t.Error("170+10 min should fit in a 180-min window")
	}
	if s.CanFit(175, 10) {
		t.Error("185 min must not fit in a 180-min window")
	}
}

func TestDeterministicItemIDs(t *testing.T) {
	s := testDay(t, 9, 22)
	date := s.Date()

	a := s.InsertFixedItem("Flight", domain.KindFlight, date.At(10, 0), date.At(12, 0))
	b := s.AddItem(ItemRequest{Title: "Park", Kind: domain.KindActivity, DurationMin: 60})

	if a.ID != "d1-i01" || b.ID != "d1-i02" {
		t.Fatalf("ids = %q, %q; want d1-i01, d1-i02", a.ID, b.ID)
	}
}
