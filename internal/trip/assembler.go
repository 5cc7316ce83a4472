package trip

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"trip-itinerary-service/internal/allocator"
	"trip-itinerary-service/internal/budget"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/location"
	"trip-itinerary-service/internal/orchestrator"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/scheduler"
)

// Request carries the externally resolved inputs for one trip. Flights,
// ground transport and accommodation arrive with authoritative times and
// prices; the assembler never looks them up.
type Request struct {
	Prefs          domain.TripPreferences
	Strategy       *domain.BudgetStrategy
	Accommodation  *domain.Accommodation
	OutboundFlight *domain.Flight
	ReturnFlight   *domain.Flight
	OutboundGround *domain.GroundTransport
	ReturnGround   *domain.GroundTransport
	WithParking    bool
	Pool           []domain.Attraction
	DayTrips       map[int]bool // day number -> away from the base city
}

// DayPlan is one generated day of the itinerary.
type DayPlan struct {
	DayNumber int               `json:"day_number"`
	Date      string            `json:"date"`
	Items     []domain.TripItem `json:"items"`
	Events    []scheduler.Event `json:"-"`
}

// Itinerary is the fully assembled trip.
type Itinerary struct {
	ID     string           `json:"id"`
	Days   []DayPlan        `json:"days"`
	Budget budget.Breakdown `json:"budget"`
}

// Assembler owns the trip-lifetime state (budget, used-id set, location
// tracker are created per Assemble call) and loops the day orchestrator over
// the trip in order.
type Assembler struct {
	distance    ports.DistanceProvider
	restaurants ports.RestaurantRepository
	curator     ports.Curator
}

func NewAssembler(distance ports.DistanceProvider, restaurants ports.RestaurantRepository, curator ports.Curator) *Assembler {
	return &Assembler{distance: distance, restaurants: restaurants, curator: curator}
}

// Assemble generates the full itinerary day by day. Days run strictly in
// order: each one may produce a flight carry-over and mutates the shared
// budget and used-id set, so parallel day generation would corrupt both.
// Degraded days (missing meal venue, fewer attractions) are normal output;
// the only error surfaced is a post-repair validation failure.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Itinerary, error) {
	days := req.Prefs.DurationDays
	if days <= 0 {
		return nil, fmt.Errorf("assemble trip: duration_days=%d", days)
	}

	pool := domain.NormalizeAttractions(req.Pool)

	bdg := budget.NewTracker(req.Prefs.TotalBudget)
	bdg.SetFixedCosts(fixedFlightCost(req), fixedStayCost(req, days))

	buckets := a.allocate(ctx, req.Prefs, pool, days)

	used := make(map[string]struct{})
	loc := location.NewTracker(req.Prefs.Origin)
	orch := orchestrator.New(bdg, used, loc, a.distance, a.restaurants)

	var carry *domain.LateFlightCarryOver
	groceries := false

	out := &Itinerary{ID: uuid.NewString(), Days: make([]DayPlan, 0, days)}

	for day := 1; day <= days; day++ {
		in := orchestrator.DayInput{
			DayNumber:     day,
			TotalDays:     days,
			Date:          req.Prefs.StartDate.AddDays(day - 1),
			IsFirst:       day == 1,
			IsLast:        day == days,
			DayTrip:       req.DayTrips[day],
			Allocated:     buckets[day-1],
			TripPool:      pool,
			Prefs:         req.Prefs,
			Strategy:      req.Strategy,
			Accommodation: req.Accommodation,
			CarryOver:     carry,
			GroceriesDone: groceries,
		}
		if in.IsFirst {
			in.OutboundFlight = req.OutboundFlight
			in.OutboundGround = req.OutboundGround
			in.WithParking = req.WithParking
		}
		if in.IsLast {
			in.ReturnFlight = req.ReturnFlight
			in.ReturnGround = req.ReturnGround
			in.WithParking = req.WithParking
		}

		res, err := orch.PlanDay(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("assemble trip: day %d: %w", day, err)
		}

		carry = res.CarryOver
		groceries = res.GroceriesDone
		if carry != nil {
			// The day turned into pure travel; rehome its attractions.
			allocator.Redistribute(buckets, day-1, used)
		}

		out.Days = append(out.Days, DayPlan{
			DayNumber: day,
			Date:      in.Date.String(),
			Items:     toTripItems(day, res.Items),
			Events:    res.Events,
		})
	}

	dropDuplicateVenues(out.Days)
	out.Budget = bdg.Snapshot()
	return out, nil
}

// allocate prefers AI curation and falls back to round-robin pre-allocation
// whenever the curator is absent, fails, or returns a malformed grouping.
func (a *Assembler) allocate(ctx context.Context, prefs domain.TripPreferences, pool []domain.Attraction, days int) [][]domain.Attraction {
	if a.curator != nil {
		curated, err := a.curator.PlanDays(ctx, prefs, pool, days)
		switch {
		case err != nil:
			log.Printf("attraction curation failed, using round-robin allocation err=%v", err)
		case len(curated) == days:
			return curated
		case curated != nil:
			log.Printf("attraction curation returned %d day groups for %d days, using round-robin allocation", len(curated), days)
		}
	}
	return allocator.PreAllocate(pool, days)
}

func fixedFlightCost(req Request) float64 {
	var total float64
	if req.OutboundFlight != nil {
		total += req.OutboundFlight.Price
	}
	if req.ReturnFlight != nil {
		total += req.ReturnFlight.Price
	}
	return total
}

func fixedStayCost(req Request, days int) float64 {
	if req.Accommodation == nil || days < 2 {
		return 0
	}
	return req.Accommodation.PricePerNight * float64(days-1)
}

func toTripItems(day int, items []domain.ScheduledItem) []domain.TripItem {
	out := make([]domain.TripItem, 0, len(items))
	for i, it := range items {
		out = append(out, domain.TripItem{
			ID:                it.ID,
			DayNumber:         day,
			StartTime:         it.Slot.Start.Format("15:04"),
			EndTime:           it.Slot.End.Format("15:04"),
			Kind:              it.Kind,
			Title:             it.Title,
			Description:       it.Description,
			LocationName:      it.LocationName,
			Coord:             it.Location,
			EstimatedCost:     it.Cost,
			OrderIndex:        i,
			TravelMinFromPrev: it.TravelMinFromPrev,
		})
	}
	return out
}

// dropDuplicateVenues removes repeated activity titles across the whole trip,
// keeping the earliest occurrence. The used-id set already dedups attractions
// by id; this catches the same venue arriving under different ids from
// different pools.
func dropDuplicateVenues(days []DayPlan) {
	seen := make(map[string]struct{})
	for d := range days {
		kept := days[d].Items[:0]
		for _, it := range days[d].Items {
			if it.Kind == domain.KindActivity {
				key := strings.ToLower(it.Title)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			kept = append(kept, it)
		}
		for i := range kept {
			kept[i].OrderIndex = i
		}
		days[d].Items = kept
	}
}
