package allocator

import (
	"fmt"
	"testing"

	"trip-itinerary-service/internal/domain"
)

func makePool(n int) []domain.Attraction {
	pool := make([]domain.Attraction, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, domain.Attraction{ID: fmt.Sprintf("a%02d", i), Name: fmt.Sprintf("Attraction %d", i)})
	}
	return pool
}

func TestPreAllocateFairness(t *testing.T) {
	// With N >= 4D every day must reach 4 before any day has 5.
	buckets := PreAllocate(makePool(13), 3)

	if len(buckets) != 3 {
		t.Fatalf("buckets = %d, want 3", len(buckets))
	}
	for d, b := range buckets {
		if len(b) < 4 {
			t.Errorf("day %d has %d attractions, want >= 4", d+1, len(b))
		}
	}

	total := 0
	seen := map[string]bool{}
	for _, b := range buckets {
		total += len(b)
		for _, a := range b {
			if seen[a.ID] {
				t.Errorf("attraction %s allocated twice", a.ID)
			}
			seen[a.ID] = true
		}
	}
	if total != 13 {
		t.Fatalf("allocated %d of 13", total)
	}
}

func TestPreAllocateSparsePool(t *testing.T) {
	// 4 attractions over 3 days: round-robin gives 2/1/1, never 4/0/0.
	buckets := PreAllocate(makePool(4), 3)

	if len(buckets[0]) != 2 || len(buckets[1]) != 1 || len(buckets[2]) != 1 {
		t.Fatalf("distribution = %d/%d/%d, want 2/1/1",
			len(buckets[0]), len(buckets[1]), len(buckets[2]))
	}
}

func TestPreAllocateRespectsCap(t *testing.T) {
	buckets := PreAllocate(makePool(40), 3)

	for d, b := range buckets {
		if len(b) > 5 {
			t.Errorf("day %d has %d attractions, cap is 5", d+1, len(b))
		}
	}
}

func TestRedistributeMovesUnusedToLaterDays(t *testing.T) {
	buckets := PreAllocate(makePool(9), 3) // 3 per day
	used := map[string]struct{}{buckets[0][0].ID: {}}

	Redistribute(buckets, 0, used)

	if len(buckets[0]) != 0 {
		t.Fatalf("travel day still holds %d attractions", len(buckets[0]))
	}
	// 2 unused attractions split across days 2 and 3.
	if len(buckets[1]) != 4 || len(buckets[2]) != 4 {
		t.Fatalf("redistribution = %d/%d, want 4/4", len(buckets[1]), len(buckets[2]))
	}
}

func TestRedistributeLastDayDropsAllocation(t *testing.T) {
	buckets := PreAllocate(makePool(6), 2)
	Redistribute(buckets, 1, map[string]struct{}{})

	if len(buckets[1]) != 0 {
		t.Fatalf("last day must be emptied, has %d", len(buckets[1]))
	}
	if len(buckets[0]) != 3 {
		t.Fatalf("earlier days must not change, day 1 has %d", len(buckets[0]))
	}
}
