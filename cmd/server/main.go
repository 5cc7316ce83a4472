package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"trip-itinerary-service/internal/adapters/cache"
	"trip-itinerary-service/internal/adapters/curation"
	"trip-itinerary-service/internal/adapters/distance"
	"trip-itinerary-service/internal/adapters/repositories"
	"trip-itinerary-service/internal/api"
	"trip-itinerary-service/internal/config"
	platformdb "trip-itinerary-service/internal/platform/db"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/trip"
)

// main is the application composition root. It wires concrete adapters
// (sqlite candidate pools, the distance cache chain, optional AI curation)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/candidates.json")
	port := config.Get("PORT", "8080")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo candidate pools on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	provider, err := newDistanceProvider(db)
	if err != nil {
		log.Fatal(err)
	}

	var curator ports.Curator
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		curator = curation.NewOpenAICurator(key, config.Get("OPENAI_MODEL", ""))
		log.Println("AI attraction curation enabled")
	} else {
		log.Println("OPENAI_API_KEY not set, using round-robin attraction allocation")
	}

	repo := repositories.NewSqliteCandidateRepository(db)
	assembler := trip.NewAssembler(provider, repo, curator)
	router := api.NewRouter(repo, repo, provider, assembler)

	// Write timeout covers full-trip generation with cold distance caches.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// newDistanceProvider builds the estimation chain: in-memory TTL tier over a
// persistent cache over the haversine estimator. The persistent tier is redis
// when REDIS_URL is set, postgres when DATABASE_URL is set, and the local
// sqlite database otherwise.
func newDistanceProvider(db *sql.DB) (ports.DistanceProvider, error) {
	ttlHours, err := strconv.Atoi(config.Get("DISTANCE_CACHE_TTL_HOURS", "24"))
	if err != nil || ttlHours < 1 {
		return nil, fmt.Errorf("newDistanceProvider: invalid DISTANCE_CACHE_TTL_HOURS")
	}
	ttl := time.Duration(ttlHours) * time.Hour

	var persistent distance.DistanceCache
	switch {
	case strings.TrimSpace(os.Getenv("REDIS_URL")) != "":
		opts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
		if err != nil {
			return nil, fmt.Errorf("newDistanceProvider: parse REDIS_URL: %w", err)
		}
		persistent = cache.NewRedisDistanceCache(redis.NewClient(opts), ttl)
		log.Println("Distance cache backend: redis")

	case strings.TrimSpace(os.Getenv("DATABASE_URL")) != "":
		pg, err := platformdb.Open(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, fmt.Errorf("newDistanceProvider: %w", err)
		}
		persistent = cache.NewSQLDistanceCache(pg)
		log.Println("Distance cache backend: postgres")

	default:
		persistent = cache.NewSqliteDistanceCache(db)
		log.Println("Distance cache backend: sqlite")
	}

	return distance.NewCachedProvider(distance.NewHaversineProvider(), persistent, ttl), nil
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Printf("seed file not found path=%s, starting with existing data", seedPath)
		return nil
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
