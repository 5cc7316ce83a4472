package orchestrator

import (
	"time"

	"trip-itinerary-service/internal/budget"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/location"
)

// Attractions must wrap up this long before the venue closes.
const closingSafetyMinutes = 30

// FeasibilityVerdict explains why a candidate was accepted or skipped.
// Skips are expected, not errors; the placement loops continue past them.
type FeasibilityVerdict struct {
	OK     bool
	Reason string
}

// CheckFeasibility is the pure placement predicate for one attraction: no
// side effects, no scheduling. earliestStart is where the visit would begin
// (cursor plus travel), limit is the phase bound (12:30 for mornings, 19:30
// for afternoons, day end for gap fills).
func CheckFeasibility(
	a domain.Attraction,
	date domain.LocalDate,
	earliestStart time.Time,
	limit time.Time,
	bdg *budget.Tracker,
	used map[string]struct{},
	loc location.Tracker,
	dayTrip bool,
) FeasibilityVerdict {
	if _, taken := used[a.ID]; taken {
		return FeasibilityVerdict{Reason: "already scheduled on another day"}
	}

	// Day trips legitimately place the traveler in a different city.
	if !dayTrip && loc != nil {
		if v := loc.ValidateActivity(a.City, a.Name); !v.Valid {
			return FeasibilityVerdict{Reason: v.Reason}
		}
	}

	start := earliestStart
	if open := a.Opening.OpenAt(date); open.After(start) {
		start = open
	}
	end := start.Add(time.Duration(a.DurationMin) * time.Minute)

	if end.After(limit) {
		return FeasibilityVerdict{Reason: "cannot finish before phase limit"}
	}

	safeClose := a.Opening.CloseAt(date).Add(-closingSafetyMinutes * time.Minute)
	if end.After(safeClose) {
		return FeasibilityVerdict{Reason: "would run past safe closing time"}
	}

	if bdg != nil && !bdg.CanAfford(budget.CategoryActivities, a.EstimatedCost) {
		return FeasibilityVerdict{Reason: "exceeds remaining trip budget"}
	}

	return FeasibilityVerdict{OK: true}
}
