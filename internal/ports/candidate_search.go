package ports

import (
	"context"

	"trip-itinerary-service/internal/domain"
)

// Port: a boundary for retrieving attraction candidates from a data source.
type AttractionRepository interface {
	// Retrieve all attraction candidates for a city, in curation order.
	ListAttractions(ctx context.Context, city string) ([]domain.Attraction, error)
}

// Port: a boundary for resolving restaurant candidates for meal slots.
type RestaurantRepository interface {
	ListRestaurants(ctx context.Context, city string) ([]domain.Restaurant, error)
	// FindNear returns the best-rated restaurant near a point, or an error
	// when none resolves. Callers degrade to a placeholder item on failure.
	FindNear(ctx context.Context, city string, near domain.Coordinates) (*domain.Restaurant, error)
}
