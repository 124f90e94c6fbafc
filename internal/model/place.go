package model

// Place is the canonical place record built from a heterogeneous upstream result
type Place struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	PlaceID string   `json:"place_id"`
	Rating  *float64 `json:"rating,omitempty"`
	MapsURL string   `json:"maps_url,omitempty"`
}

// PromptSearchRequest represents a prompt-driven search request
type PromptSearchRequest struct {
	Prompt string   `json:"prompt" binding:"required,min=3,max=2000"`
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
}

// PromptSearchResponse represents a prompt-driven search response
type PromptSearchResponse struct {
	Intent        Intent  `json:"intent"`
	Places        []Place `json:"places"`
	EmbedURL      string  `json:"embed_url"`
	DirectionsURL string  `json:"directions_url,omitempty"`
}

// PlacesResponse represents a direct query search response
type PlacesResponse struct {
	Query         string  `json:"query"`
	Places        []Place `json:"places"`
	EmbedURL      string  `json:"embedUrl,omitempty"`
	DirectionsURL string  `json:"directionsUrl,omitempty"`
}

// DirectionsResponse represents a directions lookup response
type DirectionsResponse struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DirectionsURL string `json:"directionsUrl"`
}

// FeedbackRequest represents user feedback on a returned place
type FeedbackRequest struct {
	SearchID string `json:"search_id" binding:"required"`
	PlaceID  string `json:"place_id" binding:"required"`
	Action   string `json:"action" binding:"required"` // click, contact, view_details
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
