package orchestrator

import "trip-itinerary-service/internal/domain"

// Meal slot names.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

// Per-person meal cost estimates used when a resolved restaurant carries no
// price data.
var mealCostPerPerson = map[string]float64{
	MealBreakfast: 12,
	MealLunch:     18,
	MealDinner:    28,
}

// ShouldSelfCater resolves the meal-sourcing decision for one meal slot.
//
// Hard vetoes first: no strategy, hotel-included breakfast, day trips (no
// kitchen access), groceries not yet bought. Then the strategy's per-meal
// mode applies; mixed mode resolves by day position — day 1 is always a
// restaurant (arrival day), the last full evening's dinner is always a
// restaurant, other days alternate by day-number parity (odd self-caters).
func ShouldSelfCater(
	meal string,
	dayNumber int,
	totalDays int,
	strategy *domain.BudgetStrategy,
	hotelBreakfastIncluded bool,
	dayTrip bool,
	groceriesDone bool,
) bool {
	if strategy == nil {
		return false
	}
	if meal == MealBreakfast && hotelBreakfastIncluded {
		return false
	}
	if dayTrip {
		return false
	}
	if !groceriesDone {
		return false
	}

	var mode domain.MealMode
	switch meal {
	case MealBreakfast:
		mode = strategy.BreakfastMode
	case MealLunch:
		mode = strategy.LunchMode
	case MealDinner:
		mode = strategy.DinnerMode
	}

	switch mode {
	case domain.MealSelfCatered:
		return true
	case domain.MealRestaurant:
		return false
	case domain.MealMixed:
		if dayNumber == 1 {
			return false
		}
		if meal == MealDinner && dayNumber == totalDays-1 {
			return false
		}
		return dayNumber%2 == 1
	default:
		return false
	}
}

func mealCost(meal string, groupSize int) float64 {
	if groupSize < 1 {
		groupSize = 1
	}
	return mealCostPerPerson[meal] * float64(groupSize)
}
