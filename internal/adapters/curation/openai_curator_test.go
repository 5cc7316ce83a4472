package curation

import (
	"testing"

	"trip-itinerary-service/internal/domain"
)

func curatorPool() []domain.Attraction {
	return []domain.Attraction{
		{ID: "a1", Name: "Colosseum"},
		{ID: "a2", Name: "Pantheon"},
		{ID: "a3", Name: "Trevi Fountain"},
		{ID: "a4", Name: "Borghese Gallery"},
	}
}

func TestParseDayGroups(t *testing.T) {
	groups, err := parseDayGroups(`{"days": [["a1", "a2"], ["a3", "a4"]]}`, curatorPool(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 || len(groups[0]) != 2 || len(groups[1]) != 2 {
		t.Fatalf("group shape = %d/%d", len(groups[0]), len(groups[1]))
	}
	if groups[0][0].Name != "Colosseum" || groups[1][1].Name != "Borghese Gallery" {
		t.Error("ids not resolved against the pool")
	}
}

func TestParseDayGroupsToleratesFencedAnswer(t *testing.T) {
	content := "```json\n{\"days\": [[\"a1\"], [\"a2\"]]}\n```"
	groups, err := parseDayGroups(content, curatorPool(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if groups[0][0].ID != "a1" || groups[1][0].ID != "a2" {
		t.Error("fenced answer not parsed")
	}
}

func TestParseDayGroupsDropsUnknownAndRepeatedIds(t *testing.T) {
	groups, err := parseDayGroups(`{"days": [["a1", "made-up"], ["a1", "a2"]]}`, curatorPool(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups[0]) != 1 {
		t.Errorf("day 1 has %d attractions, unknown id should be dropped", len(groups[0]))
	}
	if len(groups[1]) != 1 || groups[1][0].ID != "a2" {
		t.Errorf("day 2 = %+v, repeated a1 should keep its first assignment", groups[1])
	}
}

func TestParseDayGroupsRejectsWrongDayCount(t *testing.T) {
	if _, err := parseDayGroups(`{"days": [["a1"]]}`, curatorPool(), 2); err == nil {
		t.Fatal("expected an error for a wrong day count")
	}
}

func TestParseDayGroupsRejectsProse(t *testing.T) {
	if _, err := parseDayGroups("Sure! Here is a plan for your trip...", curatorPool(), 2); err == nil {
		t.Fatal("expected an error for a non-JSON answer")
	}
}

func TestParseDayGroupsRejectsAllUnknownIds(t *testing.T) {
	if _, err := parseDayGroups(`{"days": [["x"], ["y"]]}`, curatorPool(), 2); err == nil {
		t.Fatal("expected an error when no known ids are assigned")
	}
}
