package orchestrator

import (
	"testing"

	"trip-itinerary-service/internal/domain"
)

func mixedStrategy() *domain.BudgetStrategy {
	return &domain.BudgetStrategy{
		BreakfastMode: domain.MealMixed,
		LunchMode:     domain.MealMixed,
		DinnerMode:    domain.MealMixed,
	}
}

func TestShouldSelfCaterMixedParity(t *testing.T) {
	// Day 3 of 5, mixed dinner: neither day 1 nor the last full evening
	// (day 4), so parity decides — odd day self-caters.
	if !ShouldSelfCater(MealDinner, 3, 5, mixedStrategy(), false, false, true) {
		t.Error("day 3 mixed dinner should self-cater")
	}
	if ShouldSelfCater(MealDinner, 2, 5, mixedStrategy(), false, false, true) {
		t.Error("day 2 mixed dinner should be a restaurant")
	}
}

func TestShouldSelfCaterMixedSpecialDays(t *testing.T) {
	if ShouldSelfCater(MealDinner, 1, 5, mixedStrategy(), false, false, true) {
		t.Error("arrival day is always a restaurant")
	}
	// Day 4 of 5 is the last full evening; dinner is a special occasion.
	if ShouldSelfCater(MealDinner, 4, 5, mixedStrategy(), false, false, true) {
		t.Error("last full evening dinner is always a restaurant")
	}
	// The same day's lunch still follows parity (4 is even -> restaurant).
	if ShouldSelfCater(MealLunch, 4, 5, mixedStrategy(), false, false, true) {
		t.Error("day 4 mixed lunch should be a restaurant by parity")
	}
	if !ShouldSelfCater(MealLunch, 3, 5, mixedStrategy(), false, false, true) {
		t.Error("day 3 mixed lunch should self-cater by parity")
	}
}

func TestShouldSelfCaterHardVetoes(t *testing.T) {
	always := &domain.BudgetStrategy{
		BreakfastMode: domain.MealSelfCatered,
		LunchMode:     domain.MealSelfCatered,
		DinnerMode:    domain.MealSelfCatered,
	}

	if ShouldSelfCater(MealDinner, 3, 5, nil, false, false, true) {
		t.Error("no strategy means no self-catering")
	}
	if ShouldSelfCater(MealBreakfast, 3, 5, always, true, false, true) {
		t.Error("hotel-included breakfast wins over any strategy")
	}
	if ShouldSelfCater(MealLunch, 3, 5, always, false, true, true) {
		t.Error("day trips have no kitchen access")
	}
	if ShouldSelfCater(MealDinner, 3, 5, always, false, false, false) {
		t.Error("cannot self-cater before groceries are bought")
	}
	if !ShouldSelfCater(MealDinner, 3, 5, always, false, false, true) {
		t.Error("self_catered mode with groceries done should self-cater")
	}
}

func TestMealCostScalesWithGroupSize(t *testing.T) {
	if got := mealCost(MealDinner, 2); got != 56 {
		t.Fatalf("dinner for 2 = %f, want 56", got)
	}
	if got := mealCost(MealBreakfast, 0); got != 12 {
		t.Fatalf("zero group size must count one traveler, got %f", got)
	}
}
