package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trip-itinerary-service/internal/domain"
)

// Restaurants beyond this radius only win when nothing closer exists.
const nearRadiusMeters = 2000

// SQLite-backed candidate pools. One repository serves both the attraction
// and the restaurant port.
type SqliteCandidateRepository struct{ DB *sql.DB }

func NewSqliteCandidateRepository(db *sql.DB) *SqliteCandidateRepository {
	return &SqliteCandidateRepository{DB: db}
}

// ListAttractions returns a city's pool in curation order: must-see first,
// then by rating.
func (s *SqliteCandidateRepository) ListAttractions(ctx context.Context, city string) ([]domain.Attraction, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite candidate repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		type,
		city,
		lat,
		lng,
		duration_min,
		estimated_cost,
		open_min,
		close_min,
		must_see,
		rating
	FROM attractions
	WHERE city = ? COLLATE NOCASE
	ORDER BY must_see DESC, rating DESC, id;
	`
	rows, err := s.DB.QueryContext(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("list attractions: query attractions table: %w", err)
	}
	defer rows.Close()

	attractions := make([]domain.Attraction, 0, 64)
	for rows.Next() {
		var a domain.Attraction
		var mustSee int
		err := rows.Scan(
			&a.ID, &a.Name, &a.Type, &a.City,
			&a.Coord.Lat, &a.Coord.Lon,
			&a.DurationMin, &a.EstimatedCost,
			&a.Opening.OpenMin, &a.Opening.CloseMin,
			&mustSee, &a.Rating,
		)
		if err != nil {
			return nil, fmt.Errorf("list attractions: scan row: %w", err)
		}
		a.MustSee = mustSee != 0
		attractions = append(attractions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attractions: row iteration: %w", err)
	}

	return attractions, nil
}

// ListRestaurants returns a city's restaurant pool, best rated first.
func (s *SqliteCandidateRepository) ListRestaurants(ctx context.Context, city string) ([]domain.Restaurant, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite candidate repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		city,
		lat,
		lng,
		rating,
		price_tier
	FROM restaurants
	WHERE city = ? COLLATE NOCASE
	ORDER BY rating DESC, id;
	`
	rows, err := s.DB.QueryContext(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: query restaurants table: %w", err)
	}
	defer rows.Close()

	restaurants := make([]domain.Restaurant, 0, 32)
	for rows.Next() {
		var r domain.Restaurant
		err := rows.Scan(&r.ID, &r.Name, &r.City, &r.Coord.Lat, &r.Coord.Lon, &r.Rating, &r.PriceTier)
		if err != nil {
			return nil, fmt.Errorf("list restaurants: scan row: %w", err)
		}
		restaurants = append(restaurants, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: row iteration: %w", err)
	}

	return restaurants, nil
}

// FindNear picks the best-rated restaurant within walking radius of a point,
// degrading to the nearest one in the city. SQLite has no spatial index; the
// city pool is small enough to scan.
func (s *SqliteCandidateRepository) FindNear(ctx context.Context, city string, near domain.Coordinates) (*domain.Restaurant, error) {
	restaurants, err := s.ListRestaurants(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("find restaurant near: %w", err)
	}
	if len(restaurants) == 0 {
		return nil, fmt.Errorf("find restaurant near: no restaurants for city %q", city)
	}

	// The list is rating-ordered, so the first hit inside the radius is the
	// best-rated nearby one.
	for i := range restaurants {
		if domain.DistanceMeters(near, restaurants[i].Coord) <= nearRadiusMeters {
			return &restaurants[i], nil
		}
	}

	nearest := &restaurants[0]
	nearestDist := domain.DistanceMeters(near, nearest.Coord)
	for i := 1; i < len(restaurants); i++ {
		if d := domain.DistanceMeters(near, restaurants[i].Coord); d < nearestDist {
			nearest = &restaurants[i]
			nearestDist = d
		}
	}
	return nearest, nil
}
