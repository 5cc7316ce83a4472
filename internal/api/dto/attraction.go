package dto

type AttractionResponse struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	City          string      `json:"city"`
	Coordinates   Coordinates `json:"coordinates"`
	DurationMin   int         `json:"duration_min"`
	EstimatedCost float64     `json:"estimated_cost"`
	OpenMin       int         `json:"open_min"`
	CloseMin      int         `json:"close_min"`
	MustSee       bool        `json:"must_see"`
	Rating        float64     `json:"rating"`
}

type ListAttractionsResponse struct {
	Attractions []AttractionResponse `json:"attractions"`
}
