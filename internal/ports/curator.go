package ports

import (
	"context"

	"trip-itinerary-service/internal/domain"
)

// Port: AI-assisted day-by-day attraction grouping.
//
// Implementations propose a rough grouping of the candidate pool across trip
// days. A nil grouping (or any error) means curation is unavailable and the
// caller falls back to round-robin pre-allocation.
type Curator interface {
	PlanDays(ctx context.Context, prefs domain.TripPreferences, pool []domain.Attraction, days int) ([][]domain.Attraction, error)
}
