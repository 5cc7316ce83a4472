package dto

import "time"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Airport struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	City        string      `json:"city"`
	Coordinates Coordinates `json:"coordinates"`
}

type Flight struct {
	ID        string    `json:"id"`
	From      Airport   `json:"from"`
	To        Airport   `json:"to"`
	Departure time.Time `json:"departure"`
	Arrival   time.Time `json:"arrival"`
	Price     float64   `json:"price"`
}

type GroundTransport struct {
	Mode        string  `json:"mode"`
	FromCity    string  `json:"from_city"`
	ToCity      string  `json:"to_city"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
}

type Accommodation struct {
	Name              string      `json:"name"`
	City              string      `json:"city"`
	Coordinates       Coordinates `json:"coordinates"`
	PricePerNight     float64     `json:"price_per_night"`
	CheckInMin        int         `json:"check_in_min"`
	CheckOutMin       int         `json:"check_out_min"`
	BreakfastIncluded bool        `json:"breakfast_included"`
}

type BudgetStrategy struct {
	BreakfastMode       string  `json:"breakfast_mode"`
	LunchMode           string  `json:"lunch_mode"`
	DinnerMode          string  `json:"dinner_mode"`
	DailyActivityBudget float64 `json:"daily_activity_budget"`
}

type DayTrip struct {
	Day  int    `json:"day"`
	City string `json:"city"`
}

type ItineraryRequest struct {
	Origin                 string           `json:"origin"`
	Destination            string           `json:"destination"`
	OriginCoordinates      Coordinates      `json:"origin_coordinates"`
	DestinationCoordinates Coordinates      `json:"destination_coordinates"`
	StartDate              string           `json:"start_date"` // YYYY-MM-DD
	Timezone               string           `json:"timezone"`   // IANA name, optional
	DurationDays           int              `json:"duration_days"`
	GroupSize              int              `json:"group_size"`
	TotalBudget            float64          `json:"total_budget"`
	BudgetLevel            string           `json:"budget_level"`
	ActivityTypes          []string         `json:"activity_types"`
	OutboundFlight         *Flight          `json:"outbound_flight"`
	ReturnFlight           *Flight          `json:"return_flight"`
	OutboundGround         *GroundTransport `json:"outbound_ground"`
	ReturnGround           *GroundTransport `json:"return_ground"`
	Accommodation          *Accommodation   `json:"accommodation"`
	WithParking            bool             `json:"with_parking"`
	BudgetStrategy         *BudgetStrategy  `json:"budget_strategy"`
	DayTrips               []DayTrip        `json:"day_trips"`
}

type TripItemResponse struct {
	ID                string       `json:"id"`
	StartTime         string       `json:"start_time"`
	EndTime           string       `json:"end_time"`
	Kind              string       `json:"kind"`
	Title             string       `json:"title"`
	Description       string       `json:"description,omitempty"`
	LocationName      string       `json:"location_name,omitempty"`
	Coordinates       *Coordinates `json:"coordinates,omitempty"`
	EstimatedCost     float64      `json:"estimated_cost"`
	OrderIndex        int          `json:"order_index"`
	TravelMinFromPrev int          `json:"travel_min_from_previous"`
}

type DayPlanResponse struct {
	DayNumber int                `json:"day_number"`
	Date      string             `json:"date"`
	Items     []TripItemResponse `json:"items"`
}

type BudgetResponse struct {
	Flights       float64 `json:"flights"`
	Accommodation float64 `json:"accommodation"`
	Food          float64 `json:"food"`
	Activities    float64 `json:"activities"`
	Transport     float64 `json:"transport"`
	Other         float64 `json:"other"`
	TotalSpent    float64 `json:"total_spent"`
}

type ItineraryResponse struct {
	ID     string            `json:"id"`
	Days   []DayPlanResponse `json:"days"`
	Budget BudgetResponse    `json:"budget"`
}
