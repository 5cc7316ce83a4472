package domain

// ItemKind classifies a scheduled item. Logistics kinds carry externally
// dictated times and outrank meals and activities during conflict repair.
type ItemKind string

const (
	KindFlight          ItemKind = "flight"
	KindGroundTransport ItemKind = "ground-transport"
	KindCheckIn         ItemKind = "checkin"
	KindCheckOut        ItemKind = "checkout"
	KindParking         ItemKind = "parking"
	KindHotel           ItemKind = "hotel"
	KindRestaurant      ItemKind = "restaurant"
	KindActivity        ItemKind = "activity"
)

// Conflict-repair priority. Higher survives when two items overlap.
var kindPriority = map[ItemKind]int{
	KindFlight:          100,
	KindGroundTransport: 90,
	KindCheckIn:         80,
	KindCheckOut:        80,
	KindParking:         70,
	KindHotel:           60,
	KindRestaurant:      20,
	KindActivity:        10,
}

func (k ItemKind) Priority() int { return kindPriority[k] }

// IsLogistics reports whether the kind is a logistics block (no placement
// buffer, protected from pre-arrival purges).
func (k ItemKind) IsLogistics() bool {
	return kindPriority[k] >= kindPriority[KindHotel]
}

// ScheduledItem is one placed entry on a day's timeline.
//
// For greedy placements DurationMin matches the slot length; for fixed items
// (flights, trains) the slot is authoritative and externally given.
type ScheduledItem struct {
	ID                string
	Title             string
	Kind              ItemKind
	Slot              TimeSlot
	DurationMin       int
	TravelMinFromPrev int
	Cost              float64
	Location          *Coordinates
	LocationName      string
	Description       string
	// Seq is the insertion sequence within one day. It is the deterministic
	// tie-break when two overlapping items share a priority: the later
	// insertion loses.
	Seq int
}
