package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"trip-itinerary-service/internal/adapters/repositories"
	"trip-itinerary-service/internal/config"
	"trip-itinerary-service/internal/platform/db"
)

// Postgres flavor of the distance_cache table used by the shared SQL cache.
// Candidate pools stay on sqlite; only the travel-estimate cache is worth
// sharing across instances.
const createPostgresDistanceCache = `
CREATE TABLE IF NOT EXISTS distance_cache (
	origin TEXT NOT NULL,
	destination TEXT NOT NULL,
	distance_meters BIGINT NOT NULL,
	duration_seconds BIGINT NOT NULL,
	PRIMARY KEY (origin, destination)
);
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		initPostgres(databaseURL)
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/candidates.json")
	initAndSeedSqlite(dbPath, seedPath)
}

func initPostgres(databaseURL string) {
	log.Println("Initializing postgres distance cache...")
	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	if _, err := pg.Exec(createPostgresDistanceCache); err != nil {
		log.Fatalf("postgres distance cache initialization failed: %v", err)
	}
	log.Println("Postgres distance cache ready.")
}

func initAndSeedSqlite(dbPath, seedPath string) {
	sqlite, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalf("open sqlite database %q: %v", dbPath, err)
	}
	defer sqlite.Close()

	log.Println("Initializing sqlite schema...")
	if err := repositories.InitSchema(sqlite); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding candidate pools...")
	if err := repositories.SeedFromJSON(sqlite, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
