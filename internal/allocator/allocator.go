package allocator

import (
	"github.com/samber/lo"

	"trip-itinerary-service/internal/domain"
)

const (
	// Fairness passes guarantee every day reaches this count before any day
	// grows past it. Avoids one day getting ten attractions while another
	// gets none.
	fairnessTarget = 4
	dayCap         = 5
)

// PreAllocate assigns a flat attraction pool to trip days: four round-robin
// passes bring every day to 1, 2, 3 and 4 attractions in turn, then a greedy
// fill tops days up to the cap. Used as the fallback when AI curation is
// unavailable; pool order is the curation order and is preserved.
func PreAllocate(pool []domain.Attraction, days int) [][]domain.Attraction {
	if days <= 0 {
		return nil
	}

	buckets := make([][]domain.Attraction, days)
	for d := range buckets {
		buckets[d] = []domain.Attraction{}
	}

	next := 0
	for target := 1; target <= fairnessTarget && next < len(pool); target++ {
		for d := 0; d < days && next < len(pool); d++ {
			if len(buckets[d]) < target {
				buckets[d] = append(buckets[d], pool[next])
				next++
			}
		}
	}

	for d := 0; d < days && next < len(pool); d++ {
		for len(buckets[d]) < dayCap && next < len(pool) {
			buckets[d] = append(buckets[d], pool[next])
			next++
		}
	}

	return buckets
}

// Redistribute moves day dayIdx's unused attractions round-robin onto the
// remaining days. Called when a late or overnight flight turns that day into
// a pure travel day. Days already at the cap are skipped; anything that
// cannot be rehomed stays available through the trip-wide gap-fill pool.
func Redistribute(buckets [][]domain.Attraction, dayIdx int, used map[string]struct{}) {
	if dayIdx < 0 || dayIdx >= len(buckets) {
		return
	}

	unused := lo.Filter(buckets[dayIdx], func(a domain.Attraction, _ int) bool {
		_, taken := used[a.ID]
		return !taken
	})
	buckets[dayIdx] = []domain.Attraction{}

	if dayIdx == len(buckets)-1 {
		return
	}

	span := len(buckets) - dayIdx - 1
	cursor := 0
	for _, a := range unused {
		placed := false
		for probe := 0; probe < span; probe++ {
			d := dayIdx + 1 + (cursor+probe)%span
			if len(buckets[d]) < dayCap {
				buckets[d] = append(buckets[d], a)
				cursor = (cursor + probe + 1) % span
				placed = true
				break
			}
		}
		if !placed {
			return
		}
	}
}
