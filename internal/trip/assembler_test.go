package trip

import (
	"context"
	"errors"
	"testing"
	"time"

	"trip-itinerary-service/internal/domain"
)

var (
	tripRomeCenter  = domain.Coordinates{Lat: 41.9028, Lon: 12.4964}
	tripRomeAirport = domain.Coordinates{Lat: 41.8003, Lon: 12.2389}
	tripBerlin      = domain.Coordinates{Lat: 52.5200, Lon: 13.4050}
	tripBerlinBER   = domain.Coordinates{Lat: 52.3667, Lon: 13.5033}
)

type fakeRestaurants struct {
	list []domain.Restaurant
}

func (f *fakeRestaurants) ListRestaurants(ctx context.Context, city string) ([]domain.Restaurant, error) {
	return f.list, nil
}

func (f *fakeRestaurants) FindNear(ctx context.Context, city string, near domain.Coordinates) (*domain.Restaurant, error) {
	if len(f.list) == 0 {
		return nil, errors.New("no restaurants")
	}
	r := f.list[0]
	return &r, nil
}

type fakeCurator struct {
	groups [][]domain.Attraction
	err    error
}

func (f *fakeCurator) PlanDays(ctx context.Context, prefs domain.TripPreferences, pool []domain.Attraction, days int) ([][]domain.Attraction, error) {
	return f.groups, f.err
}

func attractionPool(n int) []domain.Attraction {
	names := []string{
		"Colosseum", "Pantheon", "Trevi Fountain", "Borghese Gallery", "Roman Forum",
		"Capitoline Museums", "Castel Sant'Angelo", "Piazza Navona", "Spanish Steps", "Villa Farnesina",
	}
	out := make([]domain.Attraction, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Attraction{
			ID:          names[i][:5],
			Name:        names[i],
			Type:        "sightseeing",
			City:        "Rome",
			Coord:       domain.Coordinates{Lat: tripRomeCenter.Lat + float64(i)*0.002, Lon: tripRomeCenter.Lon},
			DurationMin: 90,
			Opening:     domain.OpeningHours{OpenMin: 9 * 60, CloseMin: 19 * 60},
			Rating:      4.5,
		})
	}
	return out
}

func tripRequest(outDep, outArr time.Time) Request {
	start := domain.NewLocalDate(2026, 5, 10, time.UTC)
	last := start.AddDays(3)
	return Request{
		Prefs: domain.TripPreferences{
			Origin:           "Berlin",
			Destination:      "Rome",
			OriginCoord:      tripBerlin,
			DestinationCoord: tripRomeCenter,
			StartDate:        start,
			DurationDays:     4,
			GroupSize:        2,
			TotalBudget:      5000,
		},
		Accommodation: &domain.Accommodation{
			Name:              "Hotel Aurora",
			City:              "Rome",
			Coord:             tripRomeCenter,
			PricePerNight:     120,
			CheckInMin:        15 * 60,
			CheckOutMin:       11 * 60,
			BreakfastIncluded: true,
		},
		OutboundFlight: &domain.Flight{
			ID:        "AZ401",
			From:      domain.Airport{Code: "BER", Name: "Berlin Brandenburg", City: "Berlin", Coord: tripBerlinBER},
			To:        domain.Airport{Code: "FCO", Name: "Fiumicino", City: "Rome", Coord: tripRomeAirport},
			Departure: outDep,
			Arrival:   outArr,
			Price:     180,
		},
		ReturnFlight: &domain.Flight{
			ID:        "AZ430",
			From:      domain.Airport{Code: "FCO", Name: "Fiumicino", City: "Rome", Coord: tripRomeAirport},
			To:        domain.Airport{Code: "BER", Name: "Berlin Brandenburg", City: "Berlin", Coord: tripBerlinBER},
			Departure: last.At(18, 0),
			Arrival:   last.At(20, 15),
			Price:     190,
		},
		Pool: attractionPool(10),
	}
}

func testRestaurants() *fakeRestaurants {
	return &fakeRestaurants{list: []domain.Restaurant{
		{ID: "r1", Name: "Trattoria da Mario", City: "Rome", Coord: tripRomeCenter, Rating: 4.6},
	}}
}

func TestAssembleFullTrip(t *testing.T) {
	start := domain.NewLocalDate(2026, 5, 10, time.UTC)
	req := tripRequest(start.At(7, 0), start.At(9, 10))

	a := NewAssembler(nil, testRestaurants(), nil)
	it, err := a.Assemble(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if it.ID == "" {
		t.Error("itinerary id must be set")
	}
	if len(it.Days) != 4 {
		t.Fatalf("got %d days, want 4", len(it.Days))
	}
	if it.Days[0].Date != "2026-05-10" || it.Days[3].Date != "2026-05-13" {
		t.Errorf("day dates = %s .. %s", it.Days[0].Date, it.Days[3].Date)
	}

	// Fixed costs are pre-filled exactly once from the resolved bookings.
	if it.Budget.Flights != 370 {
		t.Errorf("flights bucket = %f, want 370", it.Budget.Flights)
	}
	if it.Budget.Accommodation != 360 {
		t.Errorf("accommodation bucket = %f, want 360 (3 nights)", it.Budget.Accommodation)
	}

	// Day 1 carries the outbound flight; day 4 the return and checkout.
	if !hasKind(it.Days[0].Items, domain.KindFlight) {
		t.Error("day 1 missing outbound flight")
	}
	if !hasKind(it.Days[3].Items, domain.KindFlight) || !hasKind(it.Days[3].Items, domain.KindCheckOut) {
		t.Error("day 4 missing return logistics")
	}

	seenTitles := map[string]int{}
	for _, d := range it.Days {
		for i, item := range d.Items {
			if item.OrderIndex != i {
				t.Fatalf("day %d item %d has order index %d", d.DayNumber, i, item.OrderIndex)
			}
			if item.Kind == domain.KindActivity {
				seenTitles[item.Title]++
			}
		}
	}
	for title, n := range seenTitles {
		if n > 1 {
			t.Errorf("activity %q scheduled %d times", title, n)
		}
	}
	if len(seenTitles) == 0 {
		t.Error("expected at least one activity across the trip")
	}
}

func TestAssembleOvernightFlightMovesActivitiesToLaterDays(t *testing.T) {
	start := domain.NewLocalDate(2026, 5, 10, time.UTC)
	req := tripRequest(start.At(22, 0), start.AddDays(1).At(0, 50))

	a := NewAssembler(nil, testRestaurants(), nil)
	it, err := a.Assemble(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, item := range it.Days[0].Items {
		if item.Kind == domain.KindActivity || item.Kind == domain.KindRestaurant {
			t.Errorf("travel day 1 must stay pure logistics, got %q", item.Title)
		}
	}
	if !hasKind(it.Days[1].Items, domain.KindCheckIn) {
		t.Error("day 2 missing the deferred hotel check-in")
	}

	activities := 0
	for _, d := range it.Days[1:] {
		for _, item := range d.Items {
			if item.Kind == domain.KindActivity {
				activities++
			}
		}
	}
	if activities == 0 {
		t.Error("redistributed attractions should land on days 2+")
	}
}

func TestAssembleRejectsNonPositiveDuration(t *testing.T) {
	a := NewAssembler(nil, testRestaurants(), nil)
	req := Request{Prefs: domain.TripPreferences{DurationDays: 0}}
	if _, err := a.Assemble(context.Background(), req); err == nil {
		t.Fatal("expected an error for zero trip duration")
	}
}

func TestAssembleCuratorFailureFallsBackToAllocation(t *testing.T) {
	start := domain.NewLocalDate(2026, 5, 10, time.UTC)
	req := tripRequest(start.At(7, 0), start.At(9, 10))

	a := NewAssembler(nil, testRestaurants(), &fakeCurator{err: errors.New("model unavailable")})
	it, err := a.Assemble(context.Background(), req)
	if err != nil {
		t.Fatalf("curation failure must not fail assembly: %v", err)
	}

	activities := 0
	for _, d := range it.Days {
		for _, item := range d.Items {
			if item.Kind == domain.KindActivity {
				activities++
			}
		}
	}
	if activities == 0 {
		t.Error("fallback allocation should still schedule activities")
	}
}

func TestAssembleUsesCuratedGrouping(t *testing.T) {
	start := domain.NewLocalDate(2026, 5, 10, time.UTC)
	req := tripRequest(start.At(7, 0), start.At(9, 10))
	pool := attractionPool(4)
	req.Pool = pool

	// Everything on day 2; days 3 and 4 can only draw from the gap-fill pool.
	groups := [][]domain.Attraction{{}, pool, {}, {}}
	a := NewAssembler(nil, testRestaurants(), &fakeCurator{groups: groups})
	it, err := a.Assemble(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day2 := 0
	for _, item := range it.Days[1].Items {
		if item.Kind == domain.KindActivity {
			day2++
		}
	}
	if day2 == 0 {
		t.Error("curated grouping put the pool on day 2, but nothing was scheduled there")
	}
}

func hasKind(items []domain.TripItem, kind domain.ItemKind) bool {
	for _, it := range items {
		if it.Kind == kind {
			return true
		}
	}
	return false
}
