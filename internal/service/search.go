package service

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"core/internal/apperr"
	"core/internal/config"
	"core/internal/model"
	"core/internal/utils"
)

// SearchLogger records searches and feedback for later analysis. Implemented
// by the Postgres repository; a nil logger disables recording.
type SearchLogger interface {
	LogSearch(ctx context.Context, entry SearchLogEntry) error
	LogFeedback(ctx context.Context, searchID, placeID, action string) error
}

// SearchLogEntry describes one completed search
type SearchLogEntry struct {
	Endpoint       string
	Prompt         string
	Intent         model.Intent
	ResultCount    int
	ResponseTimeMs int
}

// SearchService composes intent extraction, the result cache, the upstream
// maps provider, and place normalization into the two search pipelines.
type SearchService struct {
	extractor *IntentExtractor
	maps      MapsAPI
	cache     ResultCache
	repo      SearchLogger
	cfg       config.SearchConfig
	cacheTTL  time.Duration
}

// NewSearchService creates a new search service. repo may be nil when search
// logging is not configured.
func NewSearchService(
	extractor *IntentExtractor,
	maps MapsAPI,
	cache ResultCache,
	repo SearchLogger,
	cfg config.SearchConfig,
	cacheTTL time.Duration,
) *SearchService {
	return &SearchService{
		extractor: extractor,
		maps:      maps,
		cache:     cache,
		repo:      repo,
		cfg:       cfg,
		cacheTTL:  cacheTTL,
	}
}

// PromptSearch runs the full prompt pipeline: extract intent, consult the
// cache, search upstream, normalize, and assemble embed/directions URLs.
func (s *SearchService) PromptSearch(ctx context.Context, prompt string, coords *Coordinates) (*model.PromptSearchResponse, error) {
	startTime := time.Now()

	intent := s.extractor.Extract(ctx, prompt)
	searchText := s.composeSearchText(intent, prompt, coords)

	key := PromptCacheKey(intent.Query, intent.Location, intent.RadiusM, coords)
	var cached model.PromptSearchResponse
	if s.cacheLookup(ctx, key, &cached) {
		return &cached, nil
	}

	radius := intent.RadiusM
	if radius <= 0 {
		radius = s.cfg.DefaultRadiusM
	}

	results, err := s.maps.TextSearch(ctx, searchText, coords, radius)
	if err != nil {
		return nil, err
	}

	places := NormalizePlaces(results)
	if len(places) > s.cfg.PromptLimit {
		places = places[:s.cfg.PromptLimit]
	}

	response := &model.PromptSearchResponse{
		Intent:   intent,
		Places:   places,
		EmbedURL: s.buildEmbedURL(places, searchText),
	}
	if len(places) > 0 {
		response.DirectionsURL = s.buildDirectionsURL(places[0], intent, coords)
	}

	s.cacheStore(ctx, key, response)
	s.logSearchAsync("llm_places", prompt, intent, len(places), startTime)

	return response, nil
}

// QuerySearch runs the direct query pipeline without intent extraction
func (s *SearchService) QuerySearch(ctx context.Context, query string, coords *Coordinates) (*model.PlacesResponse, error) {
	startTime := time.Now()
	query = strings.TrimSpace(query)

	key := QueryCacheKey(query, coords)
	var cached model.PlacesResponse
	if s.cacheLookup(ctx, key, &cached) {
		return &cached, nil
	}

	results, err := s.maps.TextSearch(ctx, query, coords, s.cfg.DefaultRadiusM)
	if err != nil {
		return nil, err
	}

	places := NormalizePlaces(results)
	if len(places) > s.cfg.QueryLimit {
		places = places[:s.cfg.QueryLimit]
	}

	response := &model.PlacesResponse{
		Query:  query,
		Places: places,
	}
	if len(places) > 0 {
		first := places[0]
		response.EmbedURL = utils.EmbedURL(*first.Lat, *first.Lng, first.Name)
		if coords != nil {
			response.DirectionsURL = utils.DirectionsURL(
				formatLatLng(coords.Lat, coords.Lng),
				formatLatLng(*first.Lat, *first.Lng))
		}
	}

	s.cacheStore(ctx, key, response)
	s.logSearchAsync("places", query, model.Intent{Query: query}, len(places), startTime)

	return response, nil
}

// Directions validates two "lat,lng" locations, checks the route upstream,
// and returns the normalized pair plus a universal directions link.
func (s *SearchService) Directions(ctx context.Context, origin, dest string) (*model.DirectionsResponse, error) {
	_, _, originNormalized, err := utils.ParseLatLng(origin)
	if err != nil {
		return nil, apperr.Validation("invalid_coordinates")
	}
	_, _, destNormalized, err := utils.ParseLatLng(dest)
	if err != nil {
		return nil, apperr.Validation("invalid_coordinates")
	}

	if err := s.maps.Directions(ctx, originNormalized, destNormalized); err != nil {
		return nil, err
	}

	return &model.DirectionsResponse{
		Origin:        originNormalized,
		Destination:   destNormalized,
		DirectionsURL: utils.DirectionsURL(originNormalized, destNormalized),
	}, nil
}

// LogFeedback records user feedback; a no-op when logging is not configured
func (s *SearchService) LogFeedback(ctx context.Context, searchID, placeID, action string) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.LogFeedback(ctx, searchID, placeID, action)
}

// composeSearchText builds the upstream query text. With precise user
// coordinates the named location is deliberately left out so it cannot
// contradict the geographic anchor.
func (s *SearchService) composeSearchText(intent model.Intent, prompt string, coords *Coordinates) string {
	if coords != nil {
		if intent.Query != "" {
			return intent.Query
		}
		if intent.Location != "" {
			return intent.Location
		}
		return strings.TrimSpace(prompt)
	}

	if intent.Query != "" && intent.Location != "" {
		return intent.Query + " near " + intent.Location
	}
	if intent.Query != "" {
		return intent.Query
	}
	if intent.Location != "" {
		return intent.Location
	}
	return strings.TrimSpace(prompt)
}

// buildEmbedURL prefers a coordinate-centered embed for the top place, then a
// text-search embed, then the generic maps URL.
func (s *SearchService) buildEmbedURL(places []model.Place, searchText string) string {
	if len(places) > 0 {
		first := places[0]
		if first.Lat != nil && first.Lng != nil {
			return utils.EmbedURL(*first.Lat, *first.Lng, first.Name)
		}
	}
	if searchText != "" {
		return utils.SearchEmbedURL(searchText)
	}
	return utils.GenericMapsURL
}

// buildDirectionsURL picks the best destination (coordinates, then place ID,
// then name) and origin (user coordinates, then intent location, then none).
func (s *SearchService) buildDirectionsURL(place model.Place, intent model.Intent, coords *Coordinates) string {
	var destination string
	switch {
	case place.Lat != nil && place.Lng != nil:
		destination = formatLatLng(*place.Lat, *place.Lng)
	case place.PlaceID != "":
		destination = "place_id:" + place.PlaceID
	case place.Name != "":
		destination = place.Name
	default:
		return ""
	}

	origin := ""
	if coords != nil {
		origin = formatLatLng(coords.Lat, coords.Lng)
	} else if intent.Location != "" {
		origin = intent.Location
	}

	return utils.DirectionsURL(origin, destination)
}

// cacheLookup reads a cached response; cache failures count as misses
func (s *SearchService) cacheLookup(ctx context.Context, key string, target interface{}) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("Warning: cache lookup failed for %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		log.Printf("Warning: discarding undecodable cache entry %s: %v", key, err)
		return false
	}
	return true
}

// cacheStore writes an assembled response; failures only lose the cache win
func (s *SearchService) cacheStore(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Warning: failed to marshal cache entry %s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		log.Printf("Warning: cache store failed for %s: %v", key, err)
	}
}

// logSearchAsync records the search without blocking the response
func (s *SearchService) logSearchAsync(endpoint, prompt string, intent model.Intent, resultCount int, startTime time.Time) {
	if s.repo == nil {
		return
	}
	took := int(time.Since(startTime).Milliseconds())
	go func() {
		_ = s.repo.LogSearch(context.Background(), SearchLogEntry{
			Endpoint:       endpoint,
			Prompt:         prompt,
			Intent:         intent,
			ResultCount:    resultCount,
			ResponseTimeMs: took,
		})
	}()
}

func formatLatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
