package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

// GenericMapsURL is the fallback when nothing better can be built
const GenericMapsURL = "https://www.google.com/maps"

var coordinatePattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)

// ParseLatLng parses a "lat,lng" string and validates the ranges
// (lat in [-90,90], lng in [-180,180]). The returned normalized string keeps
// the numeric representation the caller supplied, with whitespace stripped.
func ParseLatLng(value string) (lat, lng float64, normalized string, err error) {
	match := coordinatePattern.FindStringSubmatch(value)
	if match == nil {
		return 0, 0, "", fmt.Errorf("invalid coordinate format: %q", value)
	}

	lat, err = strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, 0, "", fmt.Errorf("invalid latitude: %q", match[1])
	}
	lng, err = strconv.ParseFloat(match[2], 64)
	if err != nil {
		return 0, 0, "", fmt.Errorf("invalid longitude: %q", match[2])
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, "", fmt.Errorf("coordinate out of range: %s,%s", match[1], match[2])
	}

	return lat, lng, match[1] + "," + match[2], nil
}

// FormatFixed6 formats a coordinate component to exactly 6 decimal places.
// Cache keys depend on this being stable for semantically equal inputs.
func FormatFixed6(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// EmbedURL returns an embeddable map URL centered on the given coordinates,
// labeled with q. The loc: variant zooms to the exact point and works on the
// public embed endpoint without an API key.
func EmbedURL(lat, lng float64, q string) string {
	return fmt.Sprintf("https://maps.google.com/maps?q=%s+loc:%s,%s&hl=id&z=15&output=embed",
		url.QueryEscape(q),
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64))
}

// SearchEmbedURL returns an embeddable map URL for a free-text search
func SearchEmbedURL(search string) string {
	return "https://maps.google.com/maps?output=embed&q=" + url.QueryEscape(search)
}

// PlaceMapsURL returns a maps deep link for a place ID
func PlaceMapsURL(placeID string) string {
	if placeID == "" {
		return GenericMapsURL
	}
	return "https://www.google.com/maps/place/?q=place_id:" + url.QueryEscape(placeID)
}

// DirectionsURL builds a universal directions link. Origin is optional and
// omitted when empty; destination is required by every caller.
func DirectionsURL(origin, destination string) string {
	result := "https://www.google.com/maps/dir/?api=1"
	if origin != "" {
		result += "&origin=" + url.QueryEscape(origin)
	}
	result += "&destination=" + url.QueryEscape(destination)
	return result
}
