package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"core/internal/apperr"
	"core/internal/model"
	"core/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// PromptSearch handles POST /api/llm/places
func (h *SearchHandler) PromptSearch(c *gin.Context) {
	var req model.PromptSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	coords, err := coordsFromPointers(req.Lat, req.Lng)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.searchService.PromptSearch(c.Request.Context(), req.Prompt, coords)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Places handles GET /api/places
func (h *SearchHandler) Places(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must be at least 2 characters"})
		return
	}

	coords, err := coordsFromQuery(c.Query("lat"), c.Query("lng"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.searchService.QuerySearch(c.Request.Context(), query, coords)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Directions handles GET /api/directions
func (h *SearchHandler) Directions(c *gin.Context) {
	origin := c.Query("origin")
	dest := c.Query("dest")
	if origin == "" || dest == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and dest are required"})
		return
	}

	response, err := h.searchService.Directions(c.Request.Context(), origin, dest)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// respondError maps classified errors to HTTP responses. Upstream failures
// surface as 502; internal detail is logged but withheld from the caller.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindValidation:
			c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
			return
		case apperr.KindUpstream:
			log.Printf("Maps API error: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "maps_api_error"})
			return
		}
	}

	log.Printf("Unexpected error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

// coordsFromPointers validates an optional coordinate pair from a JSON body
func coordsFromPointers(lat, lng *float64) (*service.Coordinates, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, errors.New("lat and lng must be provided together")
	}
	if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return nil, errors.New("lat/lng out of range")
	}
	return &service.Coordinates{Lat: *lat, Lng: *lng}, nil
}

// coordsFromQuery validates an optional coordinate pair from query params
func coordsFromQuery(latStr, lngStr string) (*service.Coordinates, error) {
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, errors.New("lat and lng must be provided together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errors.New("invalid lat")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, errors.New("invalid lng")
	}

	return coordsFromPointers(&lat, &lng)
}
