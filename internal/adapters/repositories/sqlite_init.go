package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createAttractionsQuery := `
	CREATE TABLE IF NOT EXISTS attractions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		duration_min INTEGER NOT NULL DEFAULT 0,
		estimated_cost REAL NOT NULL DEFAULT 0,
		open_min INTEGER NOT NULL DEFAULT 0,
		close_min INTEGER NOT NULL DEFAULT 0,
		must_see INTEGER NOT NULL DEFAULT 0,
		rating REAL NOT NULL DEFAULT 0
	);
	`

	createRestaurantsQuery := `
	CREATE TABLE IF NOT EXISTS restaurants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		rating REAL NOT NULL DEFAULT 0,
		price_tier INTEGER NOT NULL DEFAULT 0
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createCityIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_attractions_city ON attractions(city);
	`

	createRestaurantCityIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_restaurants_city ON restaurants(city);
	`

	statements := []string{
		createAttractionsQuery,
		createRestaurantsQuery,
		createDistanceCacheQuery,
		createCityIndexQuery,
		createRestaurantCityIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type AttractionSeed struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	City          string  `json:"city"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	DurationMin   int     `json:"duration_min"`
	EstimatedCost float64 `json:"estimated_cost"`
	OpenMin       int     `json:"open_min"`
	CloseMin      int     `json:"close_min"`
	MustSee       bool    `json:"must_see"`
	Rating        float64 `json:"rating"`
}

type RestaurantSeed struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Rating    float64 `json:"rating"`
	PriceTier int     `json:"price_tier"`
}

type CandidateSeed struct {
	Attractions []AttractionSeed `json:"attractions"`
	Restaurants []RestaurantSeed `json:"restaurants"`
}

// Populate the database with candidate pools from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed candidates: read %q: %w", jsonPath, err)
	}

	var data CandidateSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed candidates: parse json: %w", err)
	}

	for i, a := range data.Attractions {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("seed candidates: attraction at index %d: id cannot be empty", i+1)
		}
		if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.City) == "" {
			return fmt.Errorf("seed candidates: attraction id=%s: name and city cannot be empty", a.ID)
		}
	}
	for i, r := range data.Restaurants {
		if strings.TrimSpace(r.ID) == "" {
			return fmt.Errorf("seed candidates: restaurant at index %d: id cannot be empty", i+1)
		}
		if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.City) == "" {
			return fmt.Errorf("seed candidates: restaurant id=%s: name and city cannot be empty", r.ID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed candidates: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	attractionStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO attractions (
		id, name, type, city, lat, lng,
		duration_min, estimated_cost, open_min, close_min, must_see, rating
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed candidates: prepare attraction insert: %w", err)
	}
	defer attractionStmt.Close()

	for _, a := range data.Attractions {
		mustSee := 0
		if a.MustSee {
			mustSee = 1
		}
		if _, err := attractionStmt.Exec(
			a.ID, strings.TrimSpace(a.Name), a.Type, strings.TrimSpace(a.City), a.Lat, a.Lng,
			a.DurationMin, a.EstimatedCost, a.OpenMin, a.CloseMin, mustSee, a.Rating,
		); err != nil {
			return fmt.Errorf("seed candidates: insert attraction id=%s: %w", a.ID, err)
		}
	}

	restaurantStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO restaurants (
		id, name, city, lat, lng, rating, price_tier
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed candidates: prepare restaurant insert: %w", err)
	}
	defer restaurantStmt.Close()

	for _, r := range data.Restaurants {
		if _, err := restaurantStmt.Exec(
			r.ID, strings.TrimSpace(r.Name), strings.TrimSpace(r.City), r.Lat, r.Lng, r.Rating, r.PriceTier,
		); err != nil {
			return fmt.Errorf("seed candidates: insert restaurant id=%s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed candidates: commit tx: %w", err)
	}

	return nil
}
