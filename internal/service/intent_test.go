package service

import (
	"context"
	"errors"
	"testing"

	"core/internal/config"
	"core/internal/model"
)

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		DefaultRadiusM:       5000,
		DefaultIntentRadiusM: 3000,
		DefaultLocation:      "Jakarta",
		PromptLimit:          5,
		QueryLimit:           3,
	}
}

// stubGenerator is a canned TextGenerator for tests
type stubGenerator struct {
	enabled bool
	output  string
	err     error
}

func (s *stubGenerator) IsEnabled() bool { return s.enabled }

func (s *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	return s.output, s.err
}

func TestExtract_Heuristic(t *testing.T) {
	extractor := NewIntentExtractor(nil, testSearchConfig())

	tests := []struct {
		name         string
		prompt       string
		wantQuery    string
		wantLocation string
		wantRadiusM  int
	}{
		{
			name:         "Short prompt gets defaults",
			prompt:       "ok",
			wantQuery:    "ok",
			wantLocation: "Jakarta",
			wantRadiusM:  3000,
		},
		{
			name:         "Radius in km",
			prompt:       "coffee shop dekat Senopati radius 2km",
			wantQuery:    "coffee shop",
			wantLocation: "Senopati",
			wantRadiusM:  2000,
		},
		{
			name:         "Radius in meters",
			prompt:       "apotek radius 500m",
			wantQuery:    "apotek",
			wantLocation: "Jakarta",
			wantRadiusM:  500,
		},
		{
			name:         "Radius without unit",
			prompt:       "bengkel radius 750",
			wantQuery:    "bengkel",
			wantLocation: "Jakarta",
			wantRadiusM:  750,
		},
		{
			name:         "Radius clamped to minimum",
			prompt:       "warung radius 50m",
			wantQuery:    "warung",
			wantLocation: "Jakarta",
			wantRadiusM:  100,
		},
		{
			name:         "Location marker near",
			prompt:       "sushi near Blok M",
			wantQuery:    "sushi",
			wantLocation: "Blok M",
			wantRadiusM:  3000,
		},
		{
			name:         "Location marker di",
			prompt:       "cari ramen enak di Kemang",
			wantQuery:    "cari ramen enak",
			wantLocation: "Kemang",
			wantRadiusM:  3000,
		},
		{
			name:         "No markers at all",
			prompt:       "tempat ngopi yang nyaman",
			wantQuery:    "tempat ngopi yang nyaman",
			wantLocation: "Jakarta",
			wantRadiusM:  3000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := extractor.Extract(context.Background(), tt.prompt)

			if intent.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", intent.Query, tt.wantQuery)
			}
			if intent.Location != tt.wantLocation {
				t.Errorf("Location = %q, want %q", intent.Location, tt.wantLocation)
			}
			if intent.RadiusM != tt.wantRadiusM {
				t.Errorf("RadiusM = %d, want %d", intent.RadiusM, tt.wantRadiusM)
			}
		})
	}
}

func TestExtract_Generative(t *testing.T) {
	tests := []struct {
		name         string
		generator    *stubGenerator
		prompt       string
		wantQuery    string
		wantLocation string
		wantRadiusM  int
	}{
		{
			name: "Valid model output",
			generator: &stubGenerator{
				enabled: true,
				output:  `{"query": "coffee shop", "location": "Senopati", "radius_m": 2000}`,
			},
			prompt:       "coffee shop dekat Senopati radius 2km",
			wantQuery:    "coffee shop",
			wantLocation: "Senopati",
			wantRadiusM:  2000,
		},
		{
			name: "Model output wrapped in markdown",
			generator: &stubGenerator{
				enabled: true,
				output:  "```json\n{\"query\": \"sushi\", \"location\": \"Blok M\", \"radius_m\": 1500}\n```",
			},
			prompt:       "sushi enak di Blok M",
			wantQuery:    "sushi",
			wantLocation: "Blok M",
			wantRadiusM:  1500,
		},
		{
			name: "Model radius as string",
			generator: &stubGenerator{
				enabled: true,
				output:  `{"query": "apotek", "radius": "800"}`,
			},
			prompt:       "apotek terdekat",
			wantQuery:    "apotek",
			wantLocation: "Jakarta",
			wantRadiusM:  800,
		},
		{
			name: "Model radius below minimum is clamped",
			generator: &stubGenerator{
				enabled: true,
				output:  `{"query": "warung", "radius_m": 10}`,
			},
			prompt:       "warung terdekat",
			wantQuery:    "warung",
			wantLocation: "Jakarta",
			wantRadiusM:  100,
		},
		{
			name: "Garbage output falls back to heuristic",
			generator: &stubGenerator{
				enabled: true,
				output:  "maaf, saya tidak bisa membantu",
			},
			prompt:       "sushi near Blok M",
			wantQuery:    "sushi",
			wantLocation: "Blok M",
			wantRadiusM:  3000,
		},
		{
			name: "Generation error falls back to heuristic",
			generator: &stubGenerator{
				enabled: true,
				err:     errors.New("quota exceeded"),
			},
			prompt:       "apotek radius 500m",
			wantQuery:    "apotek",
			wantLocation: "Jakarta",
			wantRadiusM:  500,
		},
		{
			name: "Disabled generator skips straight to heuristic",
			generator: &stubGenerator{
				enabled: false,
				output:  `{"query": "should not be used"}`,
			},
			prompt:       "sushi near Blok M",
			wantQuery:    "sushi",
			wantLocation: "Blok M",
			wantRadiusM:  3000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewIntentExtractor(tt.generator, testSearchConfig())
			intent := extractor.Extract(context.Background(), tt.prompt)

			if intent.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", intent.Query, tt.wantQuery)
			}
			if intent.Location != tt.wantLocation {
				t.Errorf("Location = %q, want %q", intent.Location, tt.wantLocation)
			}
			if intent.RadiusM != tt.wantRadiusM {
				t.Errorf("RadiusM = %d, want %d", intent.RadiusM, tt.wantRadiusM)
			}
		})
	}
}

func TestExtract_ShortPromptSkipsGenerator(t *testing.T) {
	generator := &stubGenerator{enabled: true, output: `{"query": "should not run"}`}
	extractor := NewIntentExtractor(generator, testSearchConfig())

	intent := extractor.Extract(context.Background(), "  a ")

	want := model.Intent{Query: "a", Location: "Jakarta", RadiusM: 3000}
	if intent != want {
		t.Errorf("Extract() = %+v, want %+v", intent, want)
	}
}
