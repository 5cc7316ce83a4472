package distance

import (
	"context"
	"fmt"

	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

// MockDistanceProvider serves fixed pairs and counts lookups, for tests that
// assert on cache behavior.
type MockDistanceProvider struct {
	m     map[string]ports.DistanceResult
	Calls int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[CoordKey(p.From)+"|"+CoordKey(p.To)] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, from, to domain.Coordinates, mode string) (ports.DistanceResult, error) {
	p.Calls++
	r, ok := p.m[CoordKey(from)+"|"+CoordKey(to)]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %s -> %s", CoordKey(from), CoordKey(to))
	}

	return r, nil
}
