package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"core/internal/model"
	"core/internal/utils"
)

// Upstream place records arrive in several shapes: flat lat/lng fields, a
// nested location object, or the Places API geometry.location form. The
// normalizer decodes all three and resolves them in that order.

// flexFloat decodes a JSON number or a numeric string. Any other shape leaves
// the value unset instead of failing the record.
type flexFloat struct {
	value float64
	valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.value, f.valid = num, true
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			f.value, f.valid = parsed, true
		}
	}

	return nil
}

type rawLatLng struct {
	Lat *flexFloat `json:"lat"`
	Lng *flexFloat `json:"lng"`
}

// pair returns the coordinate pair when both components are present and numeric
func (l *rawLatLng) pair() (float64, float64, bool) {
	if l == nil || l.Lat == nil || l.Lng == nil || !l.Lat.valid || !l.Lng.valid {
		return 0, 0, false
	}
	return l.Lat.value, l.Lng.value, true
}

type rawPlace struct {
	Name             string     `json:"name"`
	FormattedAddress string     `json:"formatted_address"`
	Address          string     `json:"address"`
	Lat              *flexFloat `json:"lat"`
	Lng              *flexFloat `json:"lng"`
	Location         *rawLatLng `json:"location"`
	Geometry         *struct {
		Location *rawLatLng `json:"location"`
	} `json:"geometry"`
	PlaceID string     `json:"place_id"`
	ID      string     `json:"id"`
	Rating  *flexFloat `json:"rating"`
}

// resolveCoordinates applies the fallback order: flat -> location -> geometry
func (r *rawPlace) resolveCoordinates() (float64, float64, bool) {
	flat := rawLatLng{Lat: r.Lat, Lng: r.Lng}
	if lat, lng, ok := flat.pair(); ok {
		return lat, lng, true
	}
	if lat, lng, ok := r.Location.pair(); ok {
		return lat, lng, true
	}
	if r.Geometry != nil {
		if lat, lng, ok := r.Geometry.Location.pair(); ok {
			return lat, lng, true
		}
	}
	return 0, 0, false
}

// NormalizePlace converts one upstream record into the canonical Place shape.
// Records without a resolvable name, place ID, or coordinate pair are dropped;
// the second return value reports whether the record survived.
func NormalizePlace(raw json.RawMessage) (model.Place, bool) {
	var record rawPlace
	if err := json.Unmarshal(raw, &record); err != nil {
		return model.Place{}, false
	}

	name := strings.TrimSpace(record.Name)
	if name == "" {
		return model.Place{}, false
	}

	placeID := record.PlaceID
	if placeID == "" {
		placeID = record.ID
	}
	if placeID == "" {
		return model.Place{}, false
	}

	lat, lng, ok := record.resolveCoordinates()
	if !ok {
		return model.Place{}, false
	}

	address := record.FormattedAddress
	if address == "" {
		address = record.Address
	}

	place := model.Place{
		Name:    name,
		Address: address,
		Lat:     &lat,
		Lng:     &lng,
		PlaceID: placeID,
		MapsURL: utils.PlaceMapsURL(placeID),
	}
	if record.Rating != nil && record.Rating.valid {
		rating := record.Rating.value
		place.Rating = &rating
	}

	return place, true
}

// NormalizePlaces normalizes a batch of upstream records, dropping invalid
// ones and preserving the upstream relevance order.
func NormalizePlaces(raw []json.RawMessage) []model.Place {
	places := make([]model.Place, 0, len(raw))
	for _, record := range raw {
		if place, ok := NormalizePlace(record); ok {
			places = append(places, place)
		}
	}
	return places
}
