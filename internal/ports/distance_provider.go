package ports

import (
	"context"

	"trip-itinerary-service/internal/domain"
)

// Travel mode for distance estimation.
const (
	ModeWalking = "walking"
	ModeDriving = "driving"
	ModeTransit = "transit"
)

// Distance and travel duration between two points.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving travel distance and duration between coordinates.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two points.
	GetDistance(ctx context.Context, from, to domain.Coordinates, mode string) (DistanceResult, error)
}

// Optional extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances from one origin to many destinations.
	GetDistances(ctx context.Context, from domain.Coordinates, to []domain.Coordinates, mode string) ([]DistanceResult, error)
}
