package distance

import (
	"context"
	"fmt"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/ports"
)

// DistanceCache is the persistent tier behind the in-memory one. Implemented
// by the SQL and redis caches; keys are mode-prefixed coordinate strings.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]ports.DistanceResult) error
}

// CachedProvider layers a process-local TTL cache and an optional persistent
// cache in front of an estimator. Cache failures degrade to the inner
// provider; a broken cache never fails a lookup.
type CachedProvider struct {
	inner      ports.DistanceProvider
	memory     *gocache.Cache
	persistent DistanceCache
}

func NewCachedProvider(inner ports.DistanceProvider, persistent DistanceCache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:      inner,
		memory:     gocache.New(ttl, 2*ttl),
		persistent: persistent,
	}
}

// CoordKey normalizes a coordinate for cache keying. Five decimals is about
// one meter of precision, enough to collapse repeated lookups for the same
// venue without colliding distinct ones.
func CoordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}

func originKey(mode string, c domain.Coordinates) string {
	return mode + ":" + CoordKey(c)
}

func (p *CachedProvider) GetDistance(
	ctx context.Context,
	from, to domain.Coordinates,
	mode string,
) (ports.DistanceResult, error) {
	ok := originKey(mode, from)
	dk := CoordKey(to)
	memKey := ok + "|" + dk

	if v, hit := p.memory.Get(memKey); hit {
		return v.(ports.DistanceResult), nil
	}

	if p.persistent != nil {
		hits, err := p.persistent.GetMany(ctx, ok, []string{dk})
		if err != nil {
			log.Printf("distance cache read failed origin=%s err=%v", ok, err)
		} else if r, found := hits[dk]; found {
			p.memory.Set(memKey, r, gocache.DefaultExpiration)
			return r, nil
		}
	}

	r, err := p.inner.GetDistance(ctx, from, to, mode)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("distance lookup: %w", err)
	}

	p.memory.Set(memKey, r, gocache.DefaultExpiration)
	if p.persistent != nil {
		if err := p.persistent.PutMany(ctx, ok, map[string]ports.DistanceResult{dk: r}); err != nil {
			log.Printf("distance cache write failed origin=%s err=%v", ok, err)
		}
	}

	return r, nil
}
