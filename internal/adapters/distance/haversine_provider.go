package distance

import (
	"context"
	"errors"
	"fmt"

	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

// Great-circle distance scaled by a winding factor: streets are not straight
// lines, and 1.3 tracks observed urban routing well enough for itinerary
// estimates.
const routeFactor = 1.3

var modeSpeedKmh = map[string]float64{
	ports.ModeWalking: 4.5,
	ports.ModeDriving: 30,
	ports.ModeTransit: 20,
}

// HaversineProvider estimates travel distance and duration from coordinates
// alone, with no external routing service. It backs the cached provider chain
// and is the terminal fallback when no other estimator is configured.
type HaversineProvider struct{}

func NewHaversineProvider() *HaversineProvider {
	return &HaversineProvider{}
}

func (p *HaversineProvider) GetDistance(
	ctx context.Context,
	from, to domain.Coordinates,
	mode string,
) (ports.DistanceResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("haversine distance: %w", err)
	}

	speed, ok := modeSpeedKmh[mode]
	if !ok {
		return ports.DistanceResult{}, errors.New("haversine distance: unknown travel mode " + mode)
	}

	meters := domain.DistanceMeters(from, to) * routeFactor
	seconds := meters / 1000 / speed * 3600

	return ports.DistanceResult{
		DistanceMeters:  int(meters),
		DurationSeconds: int(seconds),
	}, nil
}

// GetDistances computes one origin against many destinations. Purely local,
// so the batch is a plain loop; it exists to satisfy the matrix extension of
// the distance port.
func (p *HaversineProvider) GetDistances(
	ctx context.Context,
	from domain.Coordinates,
	to []domain.Coordinates,
	mode string,
) ([]ports.DistanceResult, error) {
	out := make([]ports.DistanceResult, 0, len(to))
	for _, dest := range to {
		r, err := p.GetDistance(ctx, from, dest, mode)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
