package trip

import (
	"context"
	"errors"
	"sync"
	"testing"

	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

type fakeAttractions struct {
	byCity map[string][]domain.Attraction
	err    error
}

func (f *fakeAttractions) ListAttractions(ctx context.Context, city string) ([]domain.Attraction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byCity[city], nil
}

type failingRestaurants struct{}

func (failingRestaurants) ListRestaurants(ctx context.Context, city string) ([]domain.Restaurant, error) {
	return nil, errors.New("search backend down")
}

func (failingRestaurants) FindNear(ctx context.Context, city string, near domain.Coordinates) (*domain.Restaurant, error) {
	return nil, errors.New("search backend down")
}

func TestFetchCandidatesMergesCityPools(t *testing.T) {
	repo := &fakeAttractions{byCity: map[string][]domain.Attraction{
		"Rome": {
			{ID: "a1", Name: "Colosseum", City: "Rome"},
			{ID: "a2", Name: "Pantheon", City: "Rome"},
		},
		"Tivoli": {
			{ID: "a3", Name: "Villa d'Este", City: "Tivoli"},
			{ID: "a1", Name: "Colosseum", City: "Rome"}, // overlapping pool entry
		},
	}}

	pools, err := FetchCandidates(context.Background(), repo, testRestaurants(), []string{"Rome", " rome ", "Tivoli"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pools.Attractions) != 3 {
		t.Fatalf("got %d attractions, want 3 after id dedup", len(pools.Attractions))
	}
	// Destination pool first, curation order preserved.
	if pools.Attractions[0].ID != "a1" || pools.Attractions[1].ID != "a2" || pools.Attractions[2].ID != "a3" {
		t.Errorf("pool order = %s %s %s", pools.Attractions[0].ID, pools.Attractions[1].ID, pools.Attractions[2].ID)
	}
	if len(pools.Restaurants) != 1 {
		t.Errorf("got %d restaurants, want 1", len(pools.Restaurants))
	}
}

func TestFetchCandidatesPropagatesAttractionError(t *testing.T) {
	repo := &fakeAttractions{err: errors.New("search backend down")}
	if _, err := FetchCandidates(context.Background(), repo, nil, []string{"Rome"}); err == nil {
		t.Fatal("expected the attraction fetch error to surface")
	}
}

func TestFetchCandidatesRestaurantFailureIsNotFatal(t *testing.T) {
	repo := &fakeAttractions{byCity: map[string][]domain.Attraction{
		"Rome": {{ID: "a1", Name: "Colosseum", City: "Rome"}},
	}}

	pools, err := FetchCandidates(context.Background(), repo, failingRestaurants{}, []string{"Rome"})
	if err != nil {
		t.Fatalf("restaurant failure must not fail the fetch: %v", err)
	}
	if len(pools.Restaurants) != 0 {
		t.Errorf("got %d restaurants, want none", len(pools.Restaurants))
	}
	if len(pools.Attractions) != 1 {
		t.Errorf("got %d attractions, want 1", len(pools.Attractions))
	}
}

func TestFetchCandidatesRequiresACity(t *testing.T) {
	if _, err := FetchCandidates(context.Background(), &fakeAttractions{}, nil, []string{" ", ""}); err == nil {
		t.Fatal("expected an error for an empty city list")
	}
}

type countingProvider struct {
	mu    sync.Mutex
	calls int
}

func (p *countingProvider) GetDistance(ctx context.Context, from, to domain.Coordinates, mode string) (ports.DistanceResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return ports.DistanceResult{DistanceMeters: 1000, DurationSeconds: 800}, nil
}

func TestWarmDistancesHitsEveryAttraction(t *testing.T) {
	pool := []domain.Attraction{
		{ID: "a1", Coord: domain.Coordinates{Lat: 41.89, Lon: 12.49}},
		{ID: "a2", Coord: domain.Coordinates{Lat: 41.90, Lon: 12.48}},
		{ID: "a3", Coord: domain.Coordinates{Lat: 41.91, Lon: 12.47}},
	}
	p := &countingProvider{}

	WarmDistances(context.Background(), p, domain.Coordinates{Lat: 41.9, Lon: 12.5}, pool)

	if p.calls != len(pool) {
		t.Errorf("got %d lookups, want %d", p.calls, len(pool))
	}
}

func TestWarmDistancesToleratesNilProvider(t *testing.T) {
	WarmDistances(context.Background(), nil, domain.Coordinates{}, []domain.Attraction{{ID: "a1"}})
}
