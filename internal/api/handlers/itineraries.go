package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"trip-itinerary-service/internal/api/dto"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/trip"
)

const maxTripDays = 30

type ItineraryHandler struct {
	Attractions ports.AttractionRepository
	Restaurants ports.RestaurantRepository
	Distance    ports.DistanceProvider
	Assembler   *trip.Assembler
}

// Create generates a full day-by-day itinerary. It coordinates the candidate
// fan-out and the trip assembler; flights, ground transport and accommodation
// arrive pre-resolved in the request body.
func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ItineraryRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	assembleReq, cities, err := buildTripRequest(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pools, err := trip.FetchCandidates(r.Context(), h.Attractions, h.Restaurants, cities)
	if err != nil {
		log.Printf("fetch candidates failed: destination=%s err=%v", req.Destination, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	assembleReq.Pool = pools.Attractions

	trip.WarmDistances(r.Context(), h.Distance, assembleReq.Prefs.DestinationCoord, pools.Attractions)

	itinerary, err := h.Assembler.Assemble(r.Context(), *assembleReq)
	if err != nil {
		log.Printf("assemble itinerary failed: destination=%s days=%d err=%v",
			req.Destination, req.DurationDays, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toItineraryResponse(itinerary))
}

// buildTripRequest validates the DTO and converts it into the assembler's
// input plus the city list for the candidate fan-out.
func buildTripRequest(req dto.ItineraryRequest) (*trip.Request, []string, error) {
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return nil, nil, fmt.Errorf("destination is required")
	}
	if req.DurationDays < 1 || req.DurationDays > maxTripDays {
		return nil, nil, fmt.Errorf("duration_days must be between 1 and %d", maxTripDays)
	}
	if req.TotalBudget <= 0 {
		return nil, nil, fmt.Errorf("total_budget must be positive")
	}

	groupSize := req.GroupSize
	if groupSize == 0 {
		groupSize = 1
	}
	if groupSize < 1 || groupSize > 20 {
		return nil, nil, fmt.Errorf("group_size must be between 1 and 20")
	}

	loc := time.UTC
	if tz := strings.TrimSpace(req.Timezone); tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, nil, fmt.Errorf("unknown timezone %q", tz)
		}
	}
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("start_date must be YYYY-MM-DD")
	}

	if err := validFlight(req.OutboundFlight, "outbound_flight"); err != nil {
		return nil, nil, err
	}
	if err := validFlight(req.ReturnFlight, "return_flight"); err != nil {
		return nil, nil, err
	}

	strategy, err := toStrategy(req.BudgetStrategy)
	if err != nil {
		return nil, nil, err
	}

	cities := []string{destination}
	dayTrips := make(map[int]bool, len(req.DayTrips))
	for _, dt := range req.DayTrips {
		if dt.Day < 1 || dt.Day > req.DurationDays {
			return nil, nil, fmt.Errorf("day_trips: day %d outside the trip", dt.Day)
		}
		if strings.TrimSpace(dt.City) == "" {
			return nil, nil, fmt.Errorf("day_trips: day %d has no city", dt.Day)
		}
		dayTrips[dt.Day] = true
		cities = append(cities, dt.City)
	}

	out := &trip.Request{
		Prefs: domain.TripPreferences{
			Origin:           strings.TrimSpace(req.Origin),
			Destination:      destination,
			OriginCoord:      toCoord(req.OriginCoordinates),
			DestinationCoord: toCoord(req.DestinationCoordinates),
			StartDate:        domain.DateOf(start),
			DurationDays:     req.DurationDays,
			GroupSize:        groupSize,
			TotalBudget:      req.TotalBudget,
			BudgetLevel:      req.BudgetLevel,
			ActivityTypes:    req.ActivityTypes,
		},
		Strategy:       strategy,
		Accommodation:  toAccommodation(req.Accommodation),
		OutboundFlight: toFlight(req.OutboundFlight),
		ReturnFlight:   toFlight(req.ReturnFlight),
		OutboundGround: toGround(req.OutboundGround),
		ReturnGround:   toGround(req.ReturnGround),
		WithParking:    req.WithParking,
		DayTrips:       dayTrips,
	}
	return out, cities, nil
}

func validFlight(f *dto.Flight, field string) error {
	if f == nil {
		return nil
	}
	if f.Departure.IsZero() || f.Arrival.IsZero() {
		return fmt.Errorf("%s: departure and arrival are required", field)
	}
	if !f.Arrival.After(f.Departure) {
		return fmt.Errorf("%s: arrival must be after departure", field)
	}
	return nil
}

func toCoord(c dto.Coordinates) domain.Coordinates {
	return domain.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

func toFlight(f *dto.Flight) *domain.Flight {
	if f == nil {
		return nil
	}
	return &domain.Flight{
		ID:        f.ID,
		From:      toAirport(f.From),
		To:        toAirport(f.To),
		Departure: f.Departure,
		Arrival:   f.Arrival,
		Price:     f.Price,
	}
}

func toAirport(a dto.Airport) domain.Airport {
	return domain.Airport{Code: a.Code, Name: a.Name, City: a.City, Coord: toCoord(a.Coordinates)}
}

func toGround(g *dto.GroundTransport) *domain.GroundTransport {
	if g == nil {
		return nil
	}
	return &domain.GroundTransport{
		Mode:        g.Mode,
		FromCity:    g.FromCity,
		ToCity:      g.ToCity,
		DurationMin: g.DurationMin,
		Price:       g.Price,
	}
}

func toAccommodation(a *dto.Accommodation) *domain.Accommodation {
	if a == nil {
		return nil
	}
	return &domain.Accommodation{
		Name:              a.Name,
		City:              a.City,
		Coord:             toCoord(a.Coordinates),
		PricePerNight:     a.PricePerNight,
		CheckInMin:        a.CheckInMin,
		CheckOutMin:       a.CheckOutMin,
		BreakfastIncluded: a.BreakfastIncluded,
	}
}

func toStrategy(s *dto.BudgetStrategy) (*domain.BudgetStrategy, error) {
	if s == nil {
		return nil, nil
	}
	modes := map[string]domain.MealMode{
		"":                             domain.MealRestaurant,
		string(domain.MealRestaurant):  domain.MealRestaurant,
		string(domain.MealSelfCatered): domain.MealSelfCatered,
		string(domain.MealMixed):       domain.MealMixed,
	}
	breakfast, ok := modes[s.BreakfastMode]
	if !ok {
		return nil, fmt.Errorf("budget_strategy: unknown breakfast_mode %q", s.BreakfastMode)
	}
	lunch, ok := modes[s.LunchMode]
	if !ok {
		return nil, fmt.Errorf("budget_strategy: unknown lunch_mode %q", s.LunchMode)
	}
	dinner, ok := modes[s.DinnerMode]
	if !ok {
		return nil, fmt.Errorf("budget_strategy: unknown dinner_mode %q", s.DinnerMode)
	}
	return &domain.BudgetStrategy{
		BreakfastMode:       breakfast,
		LunchMode:           lunch,
		DinnerMode:          dinner,
		DailyActivityBudget: s.DailyActivityBudget,
	}, nil
}

func toItineraryResponse(it *trip.Itinerary) dto.ItineraryResponse {
	res := dto.ItineraryResponse{
		ID:   it.ID,
		Days: make([]dto.DayPlanResponse, 0, len(it.Days)),
	}
	for _, d := range it.Days {
		items := make([]dto.TripItemResponse, 0, len(d.Items))
		for _, item := range d.Items {
			var coord *dto.Coordinates
			if item.Coord != nil {
				coord = &dto.Coordinates{Lat: item.Coord.Lat, Lon: item.Coord.Lon}
			}
			items = append(items, dto.TripItemResponse{
				ID:                item.ID,
				StartTime:         item.StartTime,
				EndTime:           item.EndTime,
				Kind:              string(item.Kind),
				Title:             item.Title,
				Description:       item.Description,
				LocationName:      item.LocationName,
				Coordinates:       coord,
				EstimatedCost:     item.EstimatedCost,
				OrderIndex:        item.OrderIndex,
				TravelMinFromPrev: item.TravelMinFromPrev,
			})
		}
		res.Days = append(res.Days, dto.DayPlanResponse{
			DayNumber: d.DayNumber,
			Date:      d.Date,
			Items:     items,
		})
	}

	b := it.Budget
	res.Budget = dto.BudgetResponse{
		Flights:       b.Flights,
		Accommodation: b.Accommodation,
		Food:          b.Food,
		Activities:    b.Activities,
		Transport:     b.Transport,
		Other:         b.Other,
		TotalSpent:    b.Flights + b.Accommodation + b.Food + b.Activities + b.Transport + b.Other,
	}
	return res
}
