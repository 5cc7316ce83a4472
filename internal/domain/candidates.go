package domain

import "time"

// OpeningHours in minutes past local midnight.
type OpeningHours struct {
	OpenMin  int
	CloseMin int
}

// OpenAt returns the opening instant on the given day.
func (o OpeningHours) OpenAt(d LocalDate) time.Time { return d.AtMinutes(o.OpenMin) }

// CloseAt returns the closing instant on the given day.
func (o OpeningHours) CloseAt(d LocalDate) time.Time { return d.AtMinutes(o.CloseMin) }

// Attraction is a visitable candidate resolved by external search or AI
// curation. Consumed read-only; Normalize is the single permitted mutation
// pass before allocation.
type Attraction struct {
	ID            string
	Name          string
	Type          string
	City          string
	Coord         Coordinates
	DurationMin   int
	EstimatedCost float64
	Opening       OpeningHours
	MustSee       bool
	Rating        float64
}

const defaultAttractionMinutes = 90

// NormalizeAttractions fills missing durations and clamps negative costs.
// Called exactly once per trip, before allocation.
func NormalizeAttractions(pool []Attraction) []Attraction {
	out := make([]Attraction, len(pool))
	for i, a := range pool {
		if a.DurationMin <= 0 {
			a.DurationMin = defaultAttractionMinutes
		}
		if a.EstimatedCost < 0 {
			a.EstimatedCost = 0
		}
		if a.Opening.CloseMin == 0 {
			a.Opening = OpeningHours{OpenMin: 9 * 60, CloseMin: 18 * 60}
		}
		out[i] = a
	}
	return out
}

type Restaurant struct {
	ID        string
	Name      string
	City      string
	Coord     Coordinates
	Rating    float64
	PriceTier int
}

type Airport struct {
	Code  string
	Name  string
	City  string
	Coord Coordinates
}

// Flight carries externally resolved, authoritative times.
type Flight struct {
	ID        string
	From      Airport
	To        Airport
	Departure time.Time
	Arrival   time.Time
	Price     float64
}

// IsOvernight reports whether the flight lands on a later calendar day than
// it departs.
func (f Flight) IsOvernight() bool {
	return DateOf(f.Departure).Before(DateOf(f.Arrival))
}

// IsLateNight reports a same-day arrival at an hour too late for activities.
func (f Flight) IsLateNight() bool {
	h := f.Arrival.Hour()
	return h >= 22 || h < 5
}

type GroundTransport struct {
	Mode        string // "train", "bus", "car"
	FromCity    string
	ToCity      string
	DurationMin int
	Price       float64
}

type Accommodation struct {
	Name              string
	City              string
	Coord             Coordinates
	PricePerNight     float64
	CheckInMin        int // minutes past midnight, e.g. 15:00 -> 900
	CheckOutMin       int
	BreakfastIncluded bool
}

// MealMode controls how a meal slot is sourced.
type MealMode string

const (
	MealSelfCatered MealMode = "self_catered"
	MealRestaurant  MealMode = "restaurant"
	MealMixed       MealMode = "mixed"
)

// BudgetStrategy is the per-meal sourcing policy plus a daily activity cap.
type BudgetStrategy struct {
	BreakfastMode       MealMode
	LunchMode           MealMode
	DinnerMode          MealMode
	DailyActivityBudget float64
}

type TripPreferences struct {
	Origin           string
	Destination      string
	OriginCoord      Coordinates
	DestinationCoord Coordinates
	StartDate        LocalDate
	DurationDays     int
	GroupSize        int
	TotalBudget      float64
	BudgetLevel      string
	ActivityTypes    []string
}

// LateFlightCarryOver is produced by a day whose outbound flight lands past
// midnight and consumed by the next day's orchestration, which injects the
// deferred transfer and hotel check-in.
type LateFlightCarryOver struct {
	Flight             *Flight
	DestinationAirport string
	Accommodation      *Accommodation
}

// TripItem is the presentation record for one scheduled entry.
type TripItem struct {
	ID                string       `json:"id"`
	DayNumber         int          `json:"day_number"`
	StartTime         string       `json:"start_time"` // HH:MM local
	EndTime           string       `json:"end_time"`
	Kind              ItemKind     `json:"kind"`
	Title             string       `json:"title"`
	Description       string       `json:"description,omitempty"`
	LocationName      string       `json:"location_name,omitempty"`
	Coord             *Coordinates `json:"coordinates,omitempty"`
	EstimatedCost     float64      `json:"estimated_cost"`
	OrderIndex        int          `json:"order_index"`
	TravelMinFromPrev int          `json:"travel_min_from_previous"`
}
