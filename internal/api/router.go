package api

import (
	"net/http"

	"trip-itinerary-service/internal/api/handlers"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/trip"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root; handlers stay unaware of
// concrete adapters.
func NewRouter(
	attractions ports.AttractionRepository,
	restaurants ports.RestaurantRepository,
	distance ports.DistanceProvider,
	assembler *trip.Assembler,
) http.Handler {
	mux := http.NewServeMux()

	attractionHandler := &handlers.AttractionHandler{Repo: attractions}
	itineraryHandler := &handlers.ItineraryHandler{
		Attractions: attractions,
		Restaurants: restaurants,
		Distance:    distance,
		Assembler:   assembler,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/attractions", attractionHandler.List)
	mux.HandleFunc("/itineraries", itineraryHandler.Create)

	return loggingMiddleware(mux)
}
