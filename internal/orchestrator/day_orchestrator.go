package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"trip-itinerary-service/internal/budget"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/location"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/scheduler"
)

const (
	dayStartHour = 8
	dayEndHour   = 22

	securityMinutes        = 60 // airport check-in/security block
	securityLeadMinutes    = 30 // security ends this long before departure
	flightArrivalFloorMin  = 90
	groundArrivalFloorMin  = 15
	lateArrivalOffsetMin   = 30 // transfer starts this long after a late-night landing
	transferBlockMinutes   = 30
	checkInBlockMinutes    = 30
	checkOutBlockMinutes   = 30
	parkingBlockMinutes    = 15
	breakfastCutoffHour    = 10
	morningLimitHour       = 12
	morningLimitMinute     = 30
	lunchMinutes           = 45
	afternoonLimitHour     = 19
	afternoonLimitMinute   = 30
	dinnerEarliestHour     = 19
	dinnerMinutes          = 90
	gapFillThresholdMin    = 60
	gapFillRadiusMeters    = 5000
	gapFillMaxItems        = 3
	groceryRunMinutes      = 45
	standardCheckoutHour   = 12
	checkoutLeadFlight     = 210 * time.Minute // 3.5h before departure
	defaultTravelMinutes   = 15
	walkingThresholdMeters = 2500
)

// DayInput carries everything one day's orchestration needs. Shared mutable
// trip state (budget, used-id set, location) lives on the Orchestrator.
type DayInput struct {
	DayNumber int // 1-based
	TotalDays int
	Date      domain.LocalDate
	IsFirst   bool
	IsLast    bool
	DayTrip   bool

	Allocated []domain.Attraction // this day's pre-assigned candidates
	TripPool  []domain.Attraction // whole-trip pool for gap-filling

	Prefs         domain.TripPreferences
	Strategy      *domain.BudgetStrategy
	Accommodation *domain.Accommodation

	OutboundFlight *domain.Flight // first day only
	ReturnFlight   *domain.Flight // last day only
	OutboundGround *domain.GroundTransport
	ReturnGround   *domain.GroundTransport
	WithParking    bool

	CarryOver     *domain.LateFlightCarryOver // from the previous day
	GroceriesDone bool
}

// DayResult is the complete (possibly degraded) outcome for one day. A day
// is always emitted in full; missing meal venues or fewer attractions are
// preferable to a failed generation.
type DayResult struct {
	Items         []domain.ScheduledItem
	Events        []scheduler.Event
	Validation    scheduler.ValidationResult
	CarryOver     *domain.LateFlightCarryOver // for the next day
	GroceriesDone bool
}

// Orchestrator sequences the per-day phases: logistics, breakfast, morning
// placement, lunch, afternoon placement, gap-filling, dinner, return
// logistics, repair. It lends the trip-wide budget, used-id set and location
// tracker to each day in turn; days are strictly sequential.
type Orchestrator struct {
	budget      *budget.Tracker
	used        map[string]struct{}
	location    location.Tracker
	distance    ports.DistanceProvider
	restaurants ports.RestaurantRepository
}

func New(
	bdg *budget.Tracker,
	used map[string]struct{},
	loc location.Tracker,
	distance ports.DistanceProvider,
	restaurants ports.RestaurantRepository,
) *Orchestrator {
	return &Orchestrator{
		budget:      bdg,
		used:        used,
		location:    loc,
		distance:    distance,
		restaurants: restaurants,
	}
}

// dayState is the working set threaded through the phases of one day.
type dayState struct {
	in        DayInput
	sched     *scheduler.DayScheduler
	lastPos   *domain.Coordinates // travel-time anchor for the next placement
	carryOut  *domain.LateFlightCarryOver
	groceries bool
	// day-1 bookkeeping for the origin-activity purge
	transferDeparture time.Time
	arrivalAt         time.Time
	travelDayOver     bool // overnight/late-night: no further activities today
	// departure-day window, reserved before greedy placement
	checkoutAt        time.Time
	prepStart         time.Time
	returnTransferMin int
}

// PlanDay runs the full phase sequence for one day. The only error it
// returns is a post-repair validation failure, which indicates a broken
// repair algorithm rather than bad input and must not be swallowed.
func (o *Orchestrator) PlanDay(ctx context.Context, in DayInput) (DayResult, error) {
	st := &dayState{
		in:        in,
		sched:     scheduler.New(in.DayNumber, in.Date, in.Date.At(dayStartHour, 0), in.Date.At(dayEndHour, 0)),
		groceries: in.GroceriesDone,
	}
	if in.Accommodation != nil {
		c := in.Accommodation.Coord
		st.lastPos = &c
	}

	o.resolveCarryOver(ctx, st)
	o.departureLogistics(ctx, st)
	o.enforceArrivalFloor(st)
	o.planReturnWindow(ctx, st)

	if !st.travelDayOver {
		o.scheduleBreakfast(ctx, st)
		o.scheduleGroceryRun(st)
		o.placeMorning(st)
		o.fillMorningGap(st)
		o.scheduleLunch(ctx, st)
		o.placeAfternoon(st)
		o.fillPreDinnerGap(st)
		o.scheduleDinner(ctx, st)
	}

	o.returnLogistics(ctx, st)
	o.purgeOriginActivities(st)

	st.sched.RemoveConflicts()
	validation := st.sched.Validate()

	res := DayResult{
		Items:         st.sched.Items(),
		Events:        st.sched.Events(),
		Validation:    validation,
		CarryOver:     st.carryOut,
		GroceriesDone: st.groceries,
	}

	if !validation.Valid {
		return res, fmt.Errorf(
			"plan day %d: %d conflicts remain after repair",
			in.DayNumber, len(validation.Conflicts),
		)
	}
	return res, nil
}

// Phase 1: consume a late/overnight flight carry-over from the previous day
// by injecting the deferred airport-to-hotel transfer and hotel check-in.
func (o *Orchestrator) resolveCarryOver(ctx context.Context, st *dayState) {
	carry := st.in.CarryOver
	if carry == nil || st.in.IsFirst || carry.Flight == nil {
		return
	}

	arrival := carry.Flight.Arrival
	o.location.LandFlight(carry.Flight.To.City, arrival)
	st.arrivalAt = arrival

	transferMin := transferBlockMinutes
	var hotelCoord *domain.Coordinates
	if carry.Accommodation != nil {
		c := carry.Accommodation.Coord
		hotelCoord = &c
		transferMin = o.travelMinutes(ctx, carry.Flight.To.Coord, c, ports.ModeDriving)
	}

	transferStart := arrival.Add(lateArrivalOffsetMin * time.Minute)
	transferEnd := transferStart.Add(time.Duration(transferMin) * time.Minute)
	st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        "Transfer from " + carry.DestinationAirport,
		Kind:         domain.KindGroundTransport,
		Location:     hotelCoord,
		LocationName: carry.DestinationAirport,
	}, transferStart, transferEnd)

	checkInEnd := transferEnd.Add(checkInBlockMinutes * time.Minute)
	hotelName := "hotel"
	if carry.Accommodation != nil {
		hotelName = carry.Accommodation.Name
	}
	st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        "Check in at " + hotelName,
		Kind:         domain.KindCheckIn,
		Location:     hotelCoord,
		LocationName: hotelName,
	}, transferEnd, checkInEnd)

	st.sched.AdvanceTo(checkInEnd)
	st.lastPos = hotelCoord
}

// Phase 2: first-day departure logistics and post-arrival branching.
func (o *Orchestrator) departureLogistics(ctx context.Context, st *dayState) {
	if !st.in.IsFirst {
		return
	}

	switch {
	case st.in.OutboundFlight != nil:
		o.flightDeparture(ctx, st, st.in.OutboundFlight)
	case st.in.OutboundGround != nil:
		o.groundDeparture(ctx, st, st.in.OutboundGround)
	}
}

func (o *Orchestrator) flightDeparture(ctx context.Context, st *dayState, f *domain.Flight) {
	// Transfer duration comes from real inter-city distance: a city and its
	// airport can share a name while sitting tens of kilometers apart.
	transferMin := o.travelMinutes(ctx, st.in.Prefs.OriginCoord, f.From.Coord, ports.ModeDriving)

	securityEnd := f.Departure.Add(-securityLeadMinutes * time.Minute)
	securityStart := securityEnd.Add(-securityMinutes * time.Minute)

	transferEnd := securityStart
	if st.in.WithParking {
		parkingEnd := securityStart
		st.sched.InsertFixedItem("Park at "+f.From.Code, domain.KindParking,
			parkingEnd.Add(-parkingBlockMinutes*time.Minute), parkingEnd)
		transferEnd = parkingEnd.Add(-parkingBlockMinutes * time.Minute)
	}
	transferStart := transferEnd.Add(-time.Duration(transferMin) * time.Minute)
	st.transferDeparture = transferStart

	st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        "Transfer to " + f.From.Name,
		Kind:         domain.KindGroundTransport,
		TravelMin:    transferMin,
		Cost:         transferCost(float64(transferMin)),
		LocationName: f.From.Name,
	}, transferStart, transferEnd)
	o.budget.Spend(budget.CategoryTransport, transferCost(float64(transferMin)))

	st.sched.InsertFixedItem("Check-in and security at "+f.From.Code, domain.KindCheckIn,
		securityStart, securityEnd)

	st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        fmt.Sprintf("Flight %s → %s", f.From.Code, f.To.Code),
		Kind:         domain.KindFlight,
		LocationName: f.From.Name,
		Description:  fmt.Sprintf("%s, arriving %s", f.ID, f.Arrival.Format("15:04")),
	}, f.Departure, f.Arrival)

	o.location.BoardFlight(f.From.City, f.To.City)

	switch {
	case f.IsOvernight():
		// Pure travel day: the landing belongs to tomorrow.
		st.carryOut = &domain.LateFlightCarryOver{
			Flight:             f,
			DestinationAirport: f.To.Name,
			Accommodation:      st.in.Accommodation,
		}
		st.travelDayOver = true

	case f.IsLateNight():
		o.location.LandFlight(f.To.City, f.Arrival)
		st.arrivalAt = f.Arrival
		o.lateNightArrival(ctx, st, f)
		st.travelDayOver = true

	default:
		o.location.LandFlight(f.To.City, f.Arrival)
		st.arrivalAt = f.Arrival
		o.normalArrival(ctx, st, f.To.Coord, f.Arrival.Add(flightArrivalFloorMin*time.Minute))
	}
}

func (o *Orchestrator) groundDeparture(ctx context.Context, st *dayState, g *domain.GroundTransport) {
	start := st.in.Date.At(8, 0)
	end := start.Add(time.Duration(g.DurationMin) * time.Minute)

	st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        fmt.Sprintf("%s to %s", titleCase(g.Mode), g.ToCity),
		Kind:         domain.KindGroundTransport,
		Cost:         g.Price,
		LocationName: g.FromCity,
	}, start, end)
	o.budget.Spend(budget.CategoryTransport, g.Price)

	o.location.BoardGroundTransport(g.FromCity, g.ToCity)
	o.location.ArriveGroundTransport(g.ToCity, end)
	st.arrivalAt = end
	st.transferDeparture = start

	var arrivalPos domain.Coordinates
	if st.in.Accommodation != nil {
		arrivalPos = st.in.Accommodation.Coord
	}
	o.normalArrival(ctx, st, arrivalPos, end.Add(groundArrivalFloorMin*time.Minute))
}

// lateNightArrival inserts transfer and check-in immediately after landing;
// no further activities happen today.
func (o *Orchestrator) lateNightArrival(ctx context.Context, st *dayState, f *domain.Flight) {
	var hotelCoord *domain.Coordinates
	hotelName := "hotel"
	transferMin := transferBlockMinutes
	if st.in.Accommodation != nil {
		c := st.in.Accommodation.Coord
		hotelCoord = &c
		hotelName = st.in.Accommodation.Name
		transferMin = o.travelMinutes(ctx, f.To.Coord, c, ports.ModeDriving)
	}

	transferStart := f.Arrival.Add(lateArrivalOffsetMin * time.Minute)
	transferEnd := transferStart.Add(time.Duration(transferMin) * time.Minute)
	st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        "Transfer from " + f.To.Name,
		Kind:         domain.KindGroundTransport,
		Location:     hotelCoord,
		LocationName: f.To.Name,
	}, transferStart, transferEnd)

	st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        "Check in at " + hotelName,
		Kind:         domain.KindCheckIn,
		Location:     hotelCoord,
		LocationName: hotelName,
	}, transferEnd, transferEnd.Add(checkInBlockMinutes*time.Minute))

	st.lastPos = hotelCoord
}

// normalArrival handles a daytime arrival: transfer toward the hotel, then
// pre-check-in attractions when the official check-in time leaves room, then
// the fixed check-in itself.
func (o *Orchestrator) normalArrival(ctx context.Context, st *dayState, arrivalPoint domain.Coordinates, floor time.Time) {
	var hotelCoord *domain.Coordinates
	hotelName := "hotel"
	checkInAt := st.in.Date.At(15, 0)
	if st.in.Accommodation != nil {
		c := st.in.Accommodation.Coord
		hotelCoord = &c
		hotelName = st.in.Accommodation.Name
		checkInAt = st.in.Date.AtMinutes(st.in.Accommodation.CheckInMin)

		transferMin := o.travelMinutes(ctx, arrivalPoint, c, ports.ModeDriving)
		transferStart := st.arrivalAt.Add(groundArrivalFloorMin * time.Minute)
		transferEnd := transferStart.Add(time.Duration(transferMin) * time.Minute)
		st.sched.InsertFixed(scheduler.ItemRequest{
			Title:        "Transfer to city center",
			Kind:         domain.KindGroundTransport,
			Location:     hotelCoord,
			Cost:         transferCost(float64(transferMin)),
			LocationName: hotelName,
		}, transferStart, transferEnd)
		o.budget.Spend(budget.CategoryTransport, transferCost(float64(transferMin)))
	}
	st.lastPos = hotelCoord
	st.sched.AdvanceTo(floor)

	// Time before official check-in gets greedily filled with attractions.
	if st.sched.Cursor().Add(gapFillThresholdMin * time.Minute).Before(checkInAt) {
		o.placeAttractions(st, st.in.Allocated, checkInAt, false)
	}

	if checkInAt.Before(st.sched.Cursor()) {
		checkInAt = st.sched.Cursor()
	}
	st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        "Check in at " + hotelName,
		Kind:         domain.KindCheckIn,
		Location:     hotelCoord,
		LocationName: hotelName,
	}, checkInAt, checkInAt.Add(checkInBlockMinutes*time.Minute))
	st.sched.AdvanceTo(checkInAt.Add(checkInBlockMinutes * time.Minute))
}

// Phase 3: absolute post-condition — the cursor never sits before the
// arrival floor, otherwise greedy placement could schedule a destination
// breakfast before the traveler has landed.
func (o *Orchestrator) enforceArrivalFloor(st *dayState) {
	if st.arrivalAt.IsZero() {
		return
	}

	floor := st.arrivalAt.Add(groundArrivalFloorMin * time.Minute)
	if st.in.OutboundFlight != nil || (st.in.CarryOver != nil && st.in.CarryOver.Flight != nil) {
		floor = st.arrivalAt.Add(flightArrivalFloorMin * time.Minute)
	}
	st.sched.AdvanceTo(floor)
}

// Phase 4: breakfast.
func (o *Orchestrator) scheduleBreakfast(ctx context.Context, st *dayState) {
	in := st.in
	if in.IsFirst {
		return // logistics own the first morning
	}
	cutoff := in.Date.At(breakfastCutoffHour, 0)
	if !st.sched.Cursor().Before(cutoff) {
		return
	}
	if in.IsLast && o.checkoutTime(in).Before(in.Date.At(9, 0)) {
		return // checkout too early to allow it
	}

	hotelBreakfast := in.Accommodation != nil && in.Accommodation.BreakfastIncluded

	if hotelBreakfast {
		var coord *domain.Coordinates
		name := "hotel"
		if in.Accommodation != nil {
			c := in.Accommodation.Coord
			coord = &c
			name = in.Accommodation.Name
		}
		if it := st.sched.AddItem(scheduler.ItemRequest{
			Title:        "Breakfast at " + name,
			Kind:         domain.KindRestaurant,
			DurationMin:  45,
			Location:     coord,
			LocationName: name,
		}); it != nil {
			st.lastPos = coord
		}
		return
	}

	if ShouldSelfCater(MealBreakfast, in.DayNumber, in.TotalDays, in.Strategy, false, in.DayTrip, st.groceries) {
		st.sched.AddItem(scheduler.ItemRequest{
			Title:       "Breakfast (self-catered)",
			Kind:        domain.KindRestaurant,
			DurationMin: 30,
			Location:    st.lastPos,
		})
		return
	}

	o.placeRestaurantMeal(ctx, st, MealBreakfast, 45, time.Time{})
}

// Grocery-run injection: once per trip, on the first feasible post-arrival
// morning, when the strategy self-caters any meal.
func (o *Orchestrator) scheduleGroceryRun(st *dayState) {
	in := st.in
	if st.groceries || in.IsFirst || in.DayTrip || !strategySelfCaters(in.Strategy) {
		return
	}

	if it := st.sched.AddItem(scheduler.ItemRequest{
		Title:       "Grocery shopping",
		Kind:        domain.KindActivity,
		DurationMin: groceryRunMinutes,
		TravelMin:   10,
		Location:    st.lastPos,
		Description: "Stock up for self-catered meals",
	}); it != nil {
		st.groceries = true
		o.budget.Spend(budget.CategoryFood, mealCost(MealLunch, in.Prefs.GroupSize))
	}
}

// Phase 5: morning placement in curation order, only while the cursor is
// before noon. Continue-don't-break: a too-long candidate never blocks
// shorter ones behind it.
func (o *Orchestrator) placeMorning(st *dayState) {
	if !st.sched.Cursor().Before(st.in.Date.At(12, 0)) {
		return
	}
	limit := o.morningBound(st, st.in.Date.At(morningLimitHour, morningLimitMinute))
	o.placeAttractions(st, st.in.Allocated, limit, false)
}

// Phase 6: a second pass over the day's own list when more than an hour
// remains before the morning limit.
func (o *Orchestrator) fillMorningGap(st *dayState) {
	limit := o.morningBound(st, st.in.Date.At(morningLimitHour, morningLimitMinute))
	if limit.Sub(st.sched.Cursor()) <= gapFillThresholdMin*time.Minute {
		return
	}
	o.placeAttractions(st, st.in.Allocated, limit, false)
}

// Phase 7: lunch, forced at 12:30 independent of the cursor.
func (o *Orchestrator) scheduleLunch(ctx context.Context, st *dayState) {
	in := st.in

	// Day 1 with an afternoon arrival has no lunch window.
	if in.IsFirst && !st.arrivalAt.IsZero() && st.arrivalAt.After(in.Date.At(morningLimitHour, morningLimitMinute)) {
		return
	}
	if !st.sched.DayEnd().After(in.Date.At(14, 0)) {
		return
	}

	lunchStart := in.Date.At(12, 30)
	lunchEnd := lunchStart.Add(lunchMinutes * time.Minute)

	// Departure-day fixed blocks own their slots.
	if !st.checkoutAt.IsZero() {
		co := domain.TimeSlot{Start: st.checkoutAt, End: st.checkoutAt.Add(checkOutBlockMinutes * time.Minute)}
		if co.Overlaps(domain.TimeSlot{Start: lunchStart, End: lunchEnd}) {
			return
		}
	}
	if !st.prepStart.IsZero() && lunchEnd.After(st.prepStart) {
		return
	}

	if ShouldSelfCater(MealLunch, in.DayNumber, in.TotalDays, in.Strategy, false, in.DayTrip, st.groceries) {
		st.sched.InsertFixed(scheduler.ItemRequest{
			Title:    "Lunch (self-catered)",
			Kind:     domain.KindRestaurant,
			Location: st.lastPos,
		}, lunchStart, lunchEnd)
	} else {
		o.placeRestaurantMealFixed(ctx, st, MealLunch, lunchStart, lunchEnd)
	}

	// Advanced regardless of whether the insertion succeeded.
	st.sched.AdvanceTo(lunchEnd)
}

// Phase 8: afternoon placement, re-sorted by proximity to the current
// position to avoid geographic zig-zag after the lunch relocation.
func (o *Orchestrator) placeAfternoon(st *dayState) {
	limit := o.afternoonBound(st, st.in.Date.At(afternoonLimitHour, afternoonLimitMinute))
	if st.sched.DayEnd().Before(limit) {
		limit = st.sched.DayEnd()
	}
	o.placeAttractions(st, st.in.Allocated, limit, true)
}

// Phase 9: pre-dinner gap-fill from the whole trip pool, filtered to ~5 km
// of the day's activity centroid and capped, so idle blocks get filled
// without importing geographically incoherent attractions.
func (o *Orchestrator) fillPreDinnerGap(st *dayState) {
	limit := o.afternoonBound(st, st.in.Date.At(afternoonLimitHour, afternoonLimitMinute))
	if st.sched.DayEnd().Before(limit) {
		limit = st.sched.DayEnd()
	}
	if limit.Sub(st.sched.Cursor()) <= gapFillThresholdMin*time.Minute {
		return
	}

	centroid := o.dayCentroid(st)
	nearby := make([]domain.Attraction, 0)
	for _, a := range st.in.TripPool {
		if domain.DistanceMeters(centroid, a.Coord) <= gapFillRadiusMeters {
			nearby = append(nearby, a)
		}
	}

	o.placeAttractionsCapped(st, nearby, limit, true, gapFillMaxItems)
}

// Phase 10: dinner, never before 19:00, never on the last day, only when
// the day is long enough to have an evening.
func (o *Orchestrator) scheduleDinner(ctx context.Context, st *dayState) {
	in := st.in
	if in.IsLast {
		return
	}
	if st.sched.DayEnd().Hour() < 20 {
		return
	}
	if !st.sched.CanFit(dinnerMinutes, 0) {
		return
	}

	earliest := in.Date.At(dinnerEarliestHour, 0)

	if ShouldSelfCater(MealDinner, in.DayNumber, in.TotalDays, in.Strategy, false, in.DayTrip, st.groceries) {
		st.sched.AddItem(scheduler.ItemRequest{
			Title:       "Dinner (self-catered)",
			Kind:        domain.KindRestaurant,
			DurationMin: dinnerMinutes,
			MinStart:    earliest,
			Location:    st.lastPos,
		})
		return
	}

	o.placeRestaurantMeal(ctx, st, MealDinner, dinnerMinutes, earliest)
}

// Phase 11: last-day checkout and return logistics.
func (o *Orchestrator) returnLogistics(ctx context.Context, st *dayState) {
	in := st.in
	if !in.IsLast || (in.ReturnFlight == nil && in.ReturnGround == nil) {
		return
	}

	checkoutAt := st.checkoutAt
	hotelName := "hotel"
	var hotelCoord *domain.Coordinates
	if in.Accommodation != nil {
		hotelName = in.Accommodation.Name
		c := in.Accommodation.Coord
		hotelCoord = &c
	}
	st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        "Check out of " + hotelName,
		Kind:         domain.KindCheckOut,
		Location:     hotelCoord,
		LocationName: hotelName,
	}, checkoutAt, checkoutAt.Add(checkOutBlockMinutes*time.Minute))
	st.sched.AdvanceTo(checkoutAt.Add(checkOutBlockMinutes * time.Minute))

	if f := in.ReturnFlight; f != nil {
		transferMin := st.returnTransferMin

		securityEnd := f.Departure.Add(-securityLeadMinutes * time.Minute)
		securityStart := securityEnd.Add(-securityMinutes * time.Minute)
		transferStart := st.prepStart

		st.sched.InsertFixed(scheduler.ItemRequest{
			Title:        "Transfer to " + f.From.Name,
			Kind:         domain.KindGroundTransport,
			Cost:         transferCost(float64(transferMin)),
			LocationName: f.From.Name,
		}, transferStart, securityStart)
		o.budget.Spend(budget.CategoryTransport, transferCost(float64(transferMin)))

		st.sched.InsertFixedItem("Check-in and security at "+f.From.Code, domain.KindCheckIn,
			securityStart, securityEnd)
		st.sched.InsertFixed(scheduler.ItemRequest{
			Title:       fmt.Sprintf("Flight %s → %s", f.From.Code, f.To.Code),
			Kind:        domain.KindFlight,
			Description: fmt.Sprintf("%s, arriving %s", f.ID, f.Arrival.Format("15:04")),
		}, f.Departure, f.Arrival)
		o.location.BoardFlight(f.From.City, f.To.City)

		// Parking pickup only when the return lands the same calendar day.
		if in.WithParking && !f.IsOvernight() {
			st.sched.InsertFixedItem("Pick up car at "+f.To.Code, domain.KindParking,
				f.Arrival.Add(15*time.Minute), f.Arrival.Add((15+parkingBlockMinutes)*time.Minute))
		}
		return
	}

	g := in.ReturnGround
	start := st.sched.Cursor().Add(transferBlockMinutes * time.Minute)
	end := start.Add(time.Duration(g.DurationMin) * time.Minute)
	st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        fmt.Sprintf("%s to %s", titleCase(g.Mode), g.ToCity),
		Kind:         domain.KindGroundTransport,
		Cost:         g.Price,
		LocationName: g.FromCity,
	}, start, end)
	o.budget.Spend(budget.CategoryTransport, g.Price)
	o.location.BoardGroundTransport(g.FromCity, g.ToCity)
	o.location.ArriveGroundTransport(g.ToCity, end)
}

// Phase 12: strip anything non-logistics the greedy placer put at the
// origin city before departure on day 1.
func (o *Orchestrator) purgeOriginActivities(st *dayState) {
	in := st.in
	if !in.IsFirst || in.OutboundFlight == nil {
		return
	}

	purgeBefore := st.transferDeparture
	if !in.OutboundFlight.IsOvernight() {
		purgeBefore = in.OutboundFlight.Arrival.Add(flightArrivalFloorMin * time.Minute)
	}
	st.sched.RemoveItemsBefore(purgeBefore,
		domain.KindFlight, domain.KindGroundTransport, domain.KindCheckIn,
		domain.KindCheckOut, domain.KindParking, domain.KindHotel)
}

// placeAttractions runs the greedy feasibility loop over a candidate list.
func (o *Orchestrator) placeAttractions(st *dayState, list []domain.Attraction, limit time.Time, byProximity bool) {
	o.placeAttractionsCapped(st, list, limit, byProximity, len(list))
}

func (o *Orchestrator) placeAttractionsCapped(st *dayState, list []domain.Attraction, limit time.Time, byProximity bool, maxItems int) {
	candidates := list
	if byProximity && st.lastPos != nil {
		candidates = make([]domain.Attraction, len(list))
		copy(candidates, list)
		anchor := *st.lastPos
		sort.SliceStable(candidates, func(i, j int) bool {
			return domain.DistanceMeters(anchor, candidates[i].Coord) <
				domain.DistanceMeters(anchor, candidates[j].Coord)
		})
	}

	placed := 0
	for _, a := range candidates {
		if placed >= maxItems {
			return
		}

		travelMin := o.walkMinutes(st.lastPos, a.Coord)
		earliest := st.sched.Cursor().Add(time.Duration(travelMin) * time.Minute)

		verdict := CheckFeasibility(a, st.in.Date, earliest, limit, o.budget, o.used, o.location, st.in.DayTrip)
		if !verdict.OK {
			continue
		}

		coord := a.Coord
		item := st.sched.AddItem(scheduler.ItemRequest{
			Title:        a.Name,
			Kind:         domain.KindActivity,
			DurationMin:  a.DurationMin,
			TravelMin:    travelMin,
			MinStart:     a.Opening.OpenAt(st.in.Date),
			Cost:         a.EstimatedCost,
			Location:     &coord,
			LocationName: a.Name,
			Description:  a.Type,
		})
		if item == nil {
			continue
		}
		if item.Slot.End.After(limit) {
			// Rounding or conflict shifting pushed it past the phase bound.
			st.sched.RemoveItem(item.ID)
			continue
		}

		o.used[a.ID] = struct{}{}
		o.budget.Spend(budget.CategoryActivities, a.EstimatedCost)
		st.lastPos = &coord
		placed++
	}
}

// placeRestaurantMeal resolves a venue and places it greedily. Lookup
// failures degrade to a generic placeholder; a meal never fails the day.
func (o *Orchestrator) placeRestaurantMeal(ctx context.Context, st *dayState, meal string, durationMin int, earliest time.Time) {
	title, coord, locName := o.resolveMealVenue(ctx, st, meal)
	cost := mealCost(meal, st.in.Prefs.GroupSize)

	if it := st.sched.AddItem(scheduler.ItemRequest{
		Title:        title,
		Kind:         domain.KindRestaurant,
		DurationMin:  durationMin,
		TravelMin:    o.walkMinutesPtr(st.lastPos, coord),
		MinStart:     earliest,
		Cost:         cost,
		Location:     coord,
		LocationName: locName,
	}); it != nil {
		o.budget.Spend(budget.CategoryFood, cost)
		if coord != nil {
			st.lastPos = coord
		}
	}
}

func (o *Orchestrator) placeRestaurantMealFixed(ctx context.Context, st *dayState, meal string, start, end time.Time) {
	title, coord, locName := o.resolveMealVenue(ctx, st, meal)
	cost := mealCost(meal, st.in.Prefs.GroupSize)

	if it := st.sched.InsertFixed(scheduler.ItemRequest{
		Title:        title,
		Kind:         domain.KindRestaurant,
		Cost:         cost,
		Location:     coord,
		LocationName: locName,
	}, start, end); it != nil {
		o.budget.Spend(budget.CategoryFood, cost)
		if coord != nil {
			st.lastPos = coord
		}
	}
}

func (o *Orchestrator) resolveMealVenue(ctx context.Context, st *dayState, meal string) (string, *domain.Coordinates, string) {
	label := titleCase(meal)
	if o.restaurants == nil {
		return label, st.lastPos, ""
	}

	near := st.in.Prefs.DestinationCoord
	if st.lastPos != nil {
		near = *st.lastPos
	}

	r, err := o.restaurants.FindNear(ctx, st.in.Prefs.Destination, near)
	if err != nil || r == nil {
		log.Printf("meal venue lookup failed day=%d meal=%s err=%v", st.in.DayNumber, meal, err)
		return label, st.lastPos, ""
	}

	c := r.Coord
	return fmt.Sprintf("%s at %s", label, r.Name), &c, r.Name
}

// planReturnWindow reserves the departure-day timeline before greedy
// placement so the fixed checkout and transfer blocks land in free space.
func (o *Orchestrator) planReturnWindow(ctx context.Context, st *dayState) {
	in := st.in
	if !in.IsLast || (in.ReturnFlight == nil && in.ReturnGround == nil) {
		return
	}
	st.checkoutAt = o.checkoutTime(in)

	if f := in.ReturnFlight; f != nil {
		var from domain.Coordinates
		if in.Accommodation != nil {
			from = in.Accommodation.Coord
		}
		st.returnTransferMin = o.travelMinutes(ctx, from, f.From.Coord, ports.ModeDriving)
		st.prepStart = f.Departure.
			Add(-securityLeadMinutes * time.Minute).
			Add(-securityMinutes * time.Minute).
			Add(-time.Duration(st.returnTransferMin) * time.Minute)
	}
}

// morningBound trims the morning phase on a departure day so the fixed
// checkout block is never occupied when it gets inserted.
func (o *Orchestrator) morningBound(st *dayState, limit time.Time) time.Time {
	if !st.checkoutAt.IsZero() && st.checkoutAt.Before(limit) {
		return st.checkoutAt
	}
	return limit
}

// afternoonBound does the same for the airport transfer, security and
// flight blocks.
func (o *Orchestrator) afternoonBound(st *dayState, limit time.Time) time.Time {
	if !st.prepStart.IsZero() && st.prepStart.Before(limit) {
		return st.prepStart
	}
	return limit
}

func (o *Orchestrator) checkoutTime(in DayInput) time.Time {
	standard := in.Date.At(standardCheckoutHour, 0)
	if in.Accommodation != nil && in.Accommodation.CheckOutMin > 0 {
		standard = in.Date.AtMinutes(in.Accommodation.CheckOutMin)
	}
	if in.ReturnFlight != nil {
		byFlight := in.ReturnFlight.Departure.Add(-checkoutLeadFlight)
		if byFlight.Before(standard) {
			return byFlight
		}
	}
	return standard
}

// dayCentroid averages the coordinates of today's placed activities,
// falling back to the current position.
func (o *Orchestrator) dayCentroid(st *dayState) domain.Coordinates {
	var sumLat, sumLon float64
	n := 0
	for _, it := range st.sched.Items() {
		if it.Kind == domain.KindActivity && it.Location != nil {
			sumLat += it.Location.Lat
			sumLon += it.Location.Lon
			n++
		}
	}
	if n == 0 {
		if st.lastPos != nil {
			return *st.lastPos
		}
		return st.in.Prefs.DestinationCoord
	}
	return domain.Coordinates{Lat: sumLat / float64(n), Lon: sumLon / float64(n)}
}

// travelMinutes asks the distance provider and degrades to a flat default
// rather than failing the day.
func (o *Orchestrator) travelMinutes(ctx context.Context, from, to domain.Coordinates, mode string) int {
	if o.distance == nil {
		return defaultTravelMinutes
	}
	res, err := o.distance.GetDistance(ctx, from, to, mode)
	if err != nil || res.DurationSeconds <= 0 {
		return defaultTravelMinutes
	}
	m := res.DurationSeconds / 60
	if m < 5 {
		m = 5
	}
	return m
}

// walkMinutes is the in-city travel estimate between placements.
func (o *Orchestrator) walkMinutes(from *domain.Coordinates, to domain.Coordinates) int {
	if from == nil {
		return 10
	}
	meters := domain.DistanceMeters(*from, to)
	if meters > walkingThresholdMeters {
		// Assume a short ride at ~25 km/h.
		return int(meters/1000/25*60) + 10
	}
	// ~4.5 km/h walking pace.
	return int(meters / 1000 / 4.5 * 60)
}

func (o *Orchestrator) walkMinutesPtr(from, to *domain.Coordinates) int {
	if to == nil {
		return 5
	}
	return o.walkMinutes(from, *to)
}

func transferCost(durationMin float64) float64 {
	return 3 + durationMin*0.9
}

func strategySelfCaters(s *domain.BudgetStrategy) bool {
	if s == nil {
		return false
	}
	for _, m := range []domain.MealMode{s.BreakfastMode, s.LunchMode, s.DinnerMode} {
		if m == domain.MealSelfCatered || m == domain.MealMixed {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
