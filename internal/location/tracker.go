package location

import (
	"fmt"
	"strings"
	"time"
)

// State of the traveler relative to the trip's destination.
type State string

const (
	AtOrigin      State = "AT_ORIGIN"
	InTransit     State = "IN_TRANSIT"
	AtDestination State = "AT_DESTINATION"
)

// Verdict is the result of an activity legality check.
type Verdict struct {
	Valid  bool
	Reason string
}

// Tracker answers "where is the traveler right now" so the orchestrator
// never schedules a destination activity before physical arrival. Day-trip
// activities bypass the check at the call site.
type Tracker interface {
	BoardFlight(from, to string)
	LandFlight(city string, at time.Time)
	BoardGroundTransport(from, to string)
	ArriveGroundTransport(city string, at time.Time)
	State() State
	CurrentCity() string
	ValidateActivity(city, name string) Verdict
}

type tracker struct {
	state     State
	city      string
	arrivedAt time.Time
}

// NewTracker starts at the origin city.
func NewTracker(origin string) Tracker {
	return &tracker{state: AtOrigin, city: origin}
}

func (t *tracker) BoardFlight(from, to string) {
	t.state = InTransit
	t.city = ""
	_ = from
	_ = to
}

func (t *tracker) LandFlight(city string, at time.Time) {
	t.state = AtDestination
	t.city = city
	t.arrivedAt = at
}

func (t *tracker) BoardGroundTransport(from, to string) { t.BoardFlight(from, to) }

func (t *tracker) ArriveGroundTransport(city string, at time.Time) { t.LandFlight(city, at) }

func (t *tracker) State() State        { return t.state }
func (t *tracker) CurrentCity() string { return t.city }

// ValidateActivity rejects anything while in transit and anything whose city
// does not match the current location.
func (t *tracker) ValidateActivity(city, name string) Verdict {
	if t.state == InTransit {
		return Verdict{Valid: false, Reason: fmt.Sprintf("%q rejected: traveler is in transit", name)}
	}
	if city == "" || sameCity(city, t.city) {
		return Verdict{Valid: true}
	}
	return Verdict{
		Valid:  false,
		Reason: fmt.Sprintf("%q is in %s but traveler is in %s", name, city, t.city),
	}
}

func sameCity(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
