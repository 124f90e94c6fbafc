package utils

import (
	"testing"
)

func TestParseLatLng(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantLat        float64
		wantLng        float64
		wantNormalized string
		wantErr        bool
	}{
		{
			name:           "Plain pair",
			input:          "-6.2,106.8",
			wantLat:        -6.2,
			wantLng:        106.8,
			wantNormalized: "-6.2,106.8",
		},
		{
			name:           "Whitespace around components",
			input:          " -6.193125 , 106.821810 ",
			wantLat:        -6.193125,
			wantLng:        106.82181,
			wantNormalized: "-6.193125,106.821810",
		},
		{
			name:           "Integer components",
			input:          "0,0",
			wantLat:        0,
			wantLng:        0,
			wantNormalized: "0,0",
		},
		{
			name:    "Latitude out of range",
			input:   "91,0",
			wantErr: true,
		},
		{
			name:    "Longitude out of range",
			input:   "0,181",
			wantErr: true,
		},
		{
			name:    "Not a coordinate",
			input:   "Jakarta",
			wantErr: true,
		},
		{
			name:    "Missing component",
			input:   "-6.2",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, normalized, err := ParseLatLng(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLatLng() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if lat != tt.wantLat || lng != tt.wantLng {
				t.Errorf("ParseLatLng() = %v,%v, want %v,%v", lat, lng, tt.wantLat, tt.wantLng)
			}
			if normalized != tt.wantNormalized {
				t.Errorf("ParseLatLng() normalized = %q, want %q", normalized, tt.wantNormalized)
			}
		})
	}
}

func TestFormatFixed6(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"Full precision", -6.193125, "-6.193125"},
		{"Padded", 106.8, "106.800000"},
		{"Zero", 0, "0.000000"},
		{"Rounds extra precision", 1.23456789, "1.234568"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFixed6(tt.input); got != tt.want {
				t.Errorf("FormatFixed6(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEmbedURL(t *testing.T) {
	got := EmbedURL(-6.2, 106.8, "Kopi Kenangan")
	want := "https://maps.google.com/maps?q=Kopi+Kenangan+loc:-6.2,106.8&hl=id&z=15&output=embed"
	if got != want {
		t.Errorf("EmbedURL() = %q, want %q", got, want)
	}
}

func TestSearchEmbedURL(t *testing.T) {
	got := SearchEmbedURL("coffee near Senopati")
	want := "https://maps.google.com/maps?output=embed&q=coffee+near+Senopati"
	if got != want {
		t.Errorf("SearchEmbedURL() = %q, want %q", got, want)
	}
}

func TestPlaceMapsURL(t *testing.T) {
	got := PlaceMapsURL("ChIJabc123")
	want := "https://www.google.com/maps/place/?q=place_id:ChIJabc123"
	if got != want {
		t.Errorf("PlaceMapsURL() = %q, want %q", got, want)
	}

	if got := PlaceMapsURL(""); got != GenericMapsURL {
		t.Errorf("PlaceMapsURL(\"\") = %q, want generic URL", got)
	}
}

func TestDirectionsURL(t *testing.T) {
	tests := []struct {
		name        string
		origin      string
		destination string
		want        string
	}{
		{
			name:        "Origin and destination",
			origin:      "-6.2,106.8",
			destination: "-6.3,106.9",
			want:        "https://www.google.com/maps/dir/?api=1&origin=-6.2%2C106.8&destination=-6.3%2C106.9",
		},
		{
			name:        "Destination only",
			origin:      "",
			destination: "place_id:ChIJabc123",
			want:        "https://www.google.com/maps/dir/?api=1&destination=place_id%3AChIJabc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DirectionsURL(tt.origin, tt.destination); got != tt.want {
				t.Errorf("DirectionsURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
