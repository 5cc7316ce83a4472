package orchestrator

import (
	"testing"
	"time"

	"trip-itinerary-service/internal/budget"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/location"
)

func feasibilityFixture() (domain.Attraction, domain.LocalDate, location.Tracker) {
	date := domain.NewLocalDate(2026, 5, 11, time.UTC)
	a := domain.Attraction{
		ID:          "a1",
		Name:        "City Museum",
		City:        "Rome",
		DurationMin: 90,
		Opening:     domain.OpeningHours{OpenMin: 9 * 60, CloseMin: 18 * 60},
	}
	loc := location.NewTracker("Berlin")
	loc.LandFlight("Rome", date.At(0, 0))
	return a, date, loc
}

func TestCheckFeasibilityAccepts(t *testing.T) {
	a, date, loc := feasibilityFixture()

	v := CheckFeasibility(a, date, date.At(10, 0), date.At(12, 30),
		budget.NewTracker(1000), map[string]struct{}{}, loc, false)
	if !v.OK {
		t.Fatalf("expected feasible, got %q", v.Reason)
	}
}

func TestCheckFeasibilitySkipReasons(t *testing.T) {
	a, date, loc := feasibilityFixture()
	bdg := budget.NewTracker(1000)
	none := map[string]struct{}{}

	// Already used anywhere on the trip.
	if v := CheckFeasibility(a, date, date.At(10, 0), date.At(12, 30), bdg,
		map[string]struct{}{"a1": {}}, loc, false); v.OK {
		t.Error("used attraction must be skipped")
	}

	// Wrong city for the current location.
	elsewhere := a
	elsewhere.City = "Florence"
	if v := CheckFeasibility(elsewhere, date, date.At(10, 0), date.At(12, 30), bdg, none, loc, false); v.OK {
		t.Error("wrong-city attraction must be skipped")
	}
	// ...unless it is a day trip.
	if v := CheckFeasibility(elsewhere, date, date.At(10, 0), date.At(12, 30), bdg, none, loc, true); !v.OK {
		t.Errorf("day trip bypasses the location check: %q", v.Reason)
	}

	// Cannot finish before the phase limit.
	if v := CheckFeasibility(a, date, date.At(11, 30), date.At(12, 30), bdg, none, loc, false); v.OK {
		t.Error("90 min from 11:30 cannot finish by 12:30")
	}

	// Would run past safe closing time (close 18:00, safety 30 min).
	if v := CheckFeasibility(a, date, date.At(16, 30), date.At(22, 0), bdg, none, loc, false); v.OK {
		t.Error("ending 18:00 violates the 17:30 safe close")
	}

	// Opening hours pull the start forward; 08:00 proposal becomes 09:00.
	if v := CheckFeasibility(a, date, date.At(8, 0), date.At(12, 30), bdg, none, loc, false); !v.OK {
		t.Errorf("early proposal should clamp to opening, got %q", v.Reason)
	}

	// Exceeds remaining trip budget.
	pricey := a
	pricey.EstimatedCost = 2000
	if v := CheckFeasibility(pricey, date, date.At(10, 0), date.At(12, 30), bdg, none, loc, false); v.OK {
		t.Error("unaffordable attraction must be skipped")
	}
}
