package budget

// Category is a spend bucket in the trip ledger.
type Category string

const (
	CategoryFlights       Category = "flights"
	CategoryAccommodation Category = "accommodation"
	CategoryFood          Category = "food"
	CategoryActivities    Category = "activities"
	CategoryTransport     Category = "transport"
	CategoryOther         Category = "other"
)

// Breakdown is the per-category spend accumulator. Every field is
// monotonically non-decreasing within a trip run; the two fixed-cost fields
// are set exactly once.
type Breakdown struct {
	Flights       float64 `json:"flights"`
	Accommodation float64 `json:"accommodation"`
	Food          float64 `json:"food"`
	Activities    float64 `json:"activities"`
	Transport     float64 `json:"transport"`
	Other         float64 `json:"other"`
}

// Tracker is the per-trip spend ledger. Spending is never rolled back: an
// amount stays spent even when the corresponding item is later removed
// during conflict cleanup, so the final breakdown can overstate placed
// items. Callers that need reconciliation read the scheduler's removal
// events.
//
// Not safe for concurrent use; the sequential day loop is the only writer.
type Tracker struct {
	breakdown   Breakdown
	totalBudget float64
	fixedSet    bool
}

func NewTracker(totalBudget float64) *Tracker {
	return &Tracker{totalBudget: totalBudget}
}

// Spend accumulates unconditionally; affordability is the caller's check.
func (t *Tracker) Spend(cat Category, amount float64) {
	if amount <= 0 {
		return
	}
	switch cat {
	case CategoryFlights:
		t.breakdown.Flights += amount
	case CategoryAccommodation:
		t.breakdown.Accommodation += amount
	case CategoryFood:
		t.breakdown.Food += amount
	case CategoryActivities:
		t.breakdown.Activities += amount
	case CategoryTransport:
		t.breakdown.Transport += amount
	default:
		t.breakdown.Other += amount
	}
}

// CanAfford checks the prospective spend against the total trip budget, not
// a per-category limit.
func (t *Tracker) CanAfford(cat Category, amount float64) bool {
	_ = cat
	return t.TotalSpent()+amount <= t.totalBudget
}

// SetFixedCosts pre-fills the flight and accommodation buckets. One-time:
// repeat calls are ignored.
func (t *Tracker) SetFixedCosts(flights, accommodation float64) {
	if t.fixedSet {
		return
	}
	t.fixedSet = true
	if flights > 0 {
		t.breakdown.Flights = flights
	}
	if accommodation > 0 {
		t.breakdown.Accommodation = accommodation
	}
}

func (t *Tracker) TotalSpent() float64 {
	b := t.breakdown
	return b.Flights + b.Accommodation + b.Food + b.Activities + b.Transport + b.Other
}

func (t *Tracker) Remaining() float64 {
	return t.totalBudget - t.TotalSpent()
}

// RemainingPerDay divides the variable pool (total minus fixed costs) left
// to spend across the remaining days.
func (t *Tracker) RemainingPerDay(daysLeft int) float64 {
	if daysLeft <= 0 {
		return 0
	}
	variable := t.totalBudget - t.breakdown.Flights - t.breakdown.Accommodation
	variableSpent := t.TotalSpent() - t.breakdown.Flights - t.breakdown.Accommodation
	remaining := variable - variableSpent
	if remaining < 0 {
		return 0
	}
	return remaining / float64(daysLeft)
}

func (t *Tracker) IsOverBudget() bool { return t.TotalSpent() > t.totalBudget }

// Snapshot returns a copy of the current breakdown.
func (t *Tracker) Snapshot() Breakdown { return t.breakdown }
