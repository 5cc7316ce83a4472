package handlers

import (
	"log"
	"net/http"
	"strings"

	"trip-itinerary-service/internal/api/dto"
	"trip-itinerary-service/internal/ports"
)

// AttractionHandler exposes read-only candidate-pool retrieval endpoints.
type AttractionHandler struct {
	Repo ports.AttractionRepository
}

func (h *AttractionHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeError(w, r, http.StatusBadRequest, "city query parameter is required")
		return
	}

	pool, err := h.Repo.ListAttractions(r.Context(), city)
	if err != nil {
		log.Printf("list attractions failed: city=%s err=%v", city, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListAttractionsResponse{
		Attractions: make([]dto.AttractionResponse, 0, len(pool)),
	}
	for _, a := range pool {
		res.Attractions = append(res.Attractions, dto.AttractionResponse{
			ID:            a.ID,
			Name:          a.Name,
			Type:          a.Type,
			City:          a.City,
			Coordinates:   dto.Coordinates{Lat: a.Coord.Lat, Lon: a.Coord.Lon},
			DurationMin:   a.DurationMin,
			EstimatedCost: a.EstimatedCost,
			OpenMin:       a.Opening.OpenMin,
			CloseMin:      a.Opening.CloseMin,
			MustSee:       a.MustSee,
			Rating:        a.Rating,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
