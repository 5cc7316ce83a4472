package trip

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/samber/lo"

	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

const fetchConcurrency = 5

type cityFetch struct {
	city        string
	attractions []domain.Attraction
	err         error
}

// CandidatePools holds the upfront-fetched inputs for one trip.
type CandidatePools struct {
	Attractions []domain.Attraction
	Restaurants []domain.Restaurant
}

// FetchCandidates loads the attraction pool for every city on the trip plus
// the destination restaurant pool in one concurrent fan-out. This is the only
// parallel stage of trip generation; everything downstream runs strictly
// sequentially.
func FetchCandidates(
	ctx context.Context,
	attractions ports.AttractionRepository,
	restaurants ports.RestaurantRepository,
	cities []string,
) (CandidatePools, error) {
	seen := make(map[string]struct{}, len(cities))
	targets := make([]string, 0, len(cities))
	for _, c := range cities {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		targets = append(targets, c)
	}
	if len(targets) == 0 {
		return CandidatePools{}, fmt.Errorf("fetch candidates: no cities given")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, fetchConcurrency)
	resultsCh := make(chan cityFetch, len(targets))
	var wg sync.WaitGroup

	for _, city := range targets {
		wg.Add(1)
		go func(c string) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			pool, err := attractions.ListAttractions(ctx, c)
			if err != nil {
				resultsCh <- cityFetch{city: c, err: fmt.Errorf("fetch candidates: list attractions for %q: %w", c, err)}
				cancel()
				return
			}
			resultsCh <- cityFetch{city: c, attractions: pool}
		}(city)
	}

	// Restaurant pool for the primary destination, alongside the fan-out.
	primary := targets[0]
	var (
		rests   []domain.Restaurant
		restErr error
		restWG  sync.WaitGroup
	)
	if restaurants != nil {
		restWG.Add(1)
		go func() {
			defer restWG.Done()
			rests, restErr = restaurants.ListRestaurants(ctx, primary)
		}()
	}

	wg.Wait()
	close(resultsCh)
	restWG.Wait()

	byCity := make(map[string][]domain.Attraction, len(targets))
	var fetchErr error
	for res := range resultsCh {
		if res.err != nil {
			if fetchErr == nil {
				fetchErr = res.err
			}
			continue
		}
		byCity[res.city] = res.attractions
	}
	if fetchErr != nil {
		return CandidatePools{}, fetchErr
	}

	pool := make([]domain.Attraction, 0)
	for _, c := range targets {
		pool = append(pool, byCity[c]...)
	}
	pool = lo.UniqBy(pool, func(a domain.Attraction) string { return a.ID })

	if restErr != nil {
		// Meal slots degrade to placeholders; an empty pool is not fatal.
		log.Printf("fetch candidates: restaurant pool unavailable city=%s err=%v", primary, restErr)
		rests = nil
	}

	return CandidatePools{Attractions: pool, Restaurants: rests}, nil
}

// WarmDistances pre-populates the distance caches with the lookups the day
// loop is about to make: origin-to-attraction walking estimates. Failures are
// logged and ignored; the orchestrator repeats any lookup that did not warm.
func WarmDistances(ctx context.Context, provider ports.DistanceProvider, origin domain.Coordinates, pool []domain.Attraction) {
	if provider == nil || len(pool) == 0 {
		return
	}

	sem := make(chan struct{}, fetchConcurrency)
	var wg sync.WaitGroup
	for _, a := range pool {
		wg.Add(1)
		go func(coord domain.Coordinates) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := provider.GetDistance(ctx, origin, coord, ports.ModeWalking); err != nil {
				log.Printf("warm distances: lookup failed err=%v", err)
			}
		}(a.Coord)
	}
	wg.Wait()
}
