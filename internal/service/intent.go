package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"core/internal/config"
	"core/internal/model"
	"core/internal/utils"
)

// TextGenerator produces raw text from a prompt. Implemented by GeminiClient;
// tests substitute stubs.
type TextGenerator interface {
	IsEnabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// IntentExtractor converts a free-text prompt into a structured search intent.
// It never fails: when the generative path is disabled, errors out, or returns
// unparseable output, a deterministic heuristic takes over.
type IntentExtractor struct {
	generator       TextGenerator
	defaultLocation string
	defaultRadiusM  int
}

// NewIntentExtractor creates a new intent extractor. generator may be nil,
// which disables the generative tier entirely.
func NewIntentExtractor(generator TextGenerator, cfg config.SearchConfig) *IntentExtractor {
	return &IntentExtractor{
		generator:       generator,
		defaultLocation: cfg.DefaultLocation,
		defaultRadiusM:  cfg.DefaultIntentRadiusM,
	}
}

const intentInstruction = "Anda adalah asisten yang mengekstrak niat pencarian tempat. " +
	"Berikan hasil dalam JSON dengan kunci: query (string), location (string), radius_m (integer)." +
	"\nPrompt pengguna: %s\nJSON:"

// Extract derives a search intent from the prompt. Always returns a usable
// intent; extraction failures degrade silently to the heuristic.
func (e *IntentExtractor) Extract(ctx context.Context, prompt string) model.Intent {
	if utf8.RuneCountInString(strings.TrimSpace(prompt)) < 3 {
		return e.defaultIntent(prompt)
	}

	if e.generator == nil || !e.generator.IsEnabled() {
		return e.heuristicFromPrompt(prompt)
	}

	output, err := e.generator.Generate(ctx, fmt.Sprintf(intentInstruction, strings.TrimSpace(prompt)))
	if err != nil {
		log.Printf("Generative intent extraction failed, using heuristic: %v", err)
		return e.heuristicFromPrompt(prompt)
	}

	intent, ok := e.intentFromModelOutput(output, prompt)
	if !ok {
		return e.heuristicFromPrompt(prompt)
	}
	return intent
}

// defaultIntent returns the baseline intent all extraction tiers start from
func (e *IntentExtractor) defaultIntent(prompt string) model.Intent {
	query := strings.TrimSpace(prompt)
	if query == "" {
		query = "places"
	}
	return model.Intent{
		Query:    query,
		Location: e.defaultLocation,
		RadiusM:  e.defaultRadiusM,
	}
}

// intentFromModelOutput parses the first JSON object in the model output.
// The boolean reports whether a usable object was found; a false return is
// the signal for the caller to run the heuristic instead.
func (e *IntentExtractor) intentFromModelOutput(output, prompt string) (model.Intent, bool) {
	var data map[string]interface{}
	if err := utils.ParseAIJSON(output, &data); err != nil {
		log.Printf("Model output was not valid JSON, using heuristic")
		return model.Intent{}, false
	}

	intent := e.defaultIntent(prompt)

	if query, ok := data["query"].(string); ok && strings.TrimSpace(query) != "" {
		intent.Query = strings.TrimSpace(query)
	}
	if location, ok := data["location"].(string); ok && strings.TrimSpace(location) != "" {
		intent.Location = strings.TrimSpace(location)
	}

	radius := data["radius_m"]
	if radius == nil {
		radius = data["radius"]
	}
	if radius != nil {
		intent.RadiusM = e.coerceRadius(radius)
	}

	return intent, true
}

// coerceRadius converts a model-supplied radius value to a usable integer,
// clamped to MinRadiusM. Unparseable values fall back to the default radius.
func (e *IntentExtractor) coerceRadius(value interface{}) int {
	var radius float64
	switch v := value.(type) {
	case float64:
		radius = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return e.defaultRadiusM
		}
		radius = parsed
	default:
		return e.defaultRadiusM
	}

	if int(radius) < model.MinRadiusM {
		return model.MinRadiusM
	}
	return int(radius)
}

var (
	radiusPattern     = regexp.MustCompile(`(?i)radius\s*(\d+(?:\.\d+)?)\s*(km|m|meter|meters)?`)
	locationPattern   = regexp.MustCompile(`(?i)(?:di|dekat|near|sekitar)\s+([\w\s]+)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// heuristicFromPrompt is the deterministic fallback: regex out a radius and a
// location marker, then treat the remaining text as the query.
func (e *IntentExtractor) heuristicFromPrompt(prompt string) model.Intent {
	intent := e.defaultIntent(prompt)
	working := prompt

	if match := radiusPattern.FindStringSubmatch(working); match != nil {
		value, err := strconv.ParseFloat(match[1], 64)
		if err == nil {
			unit := strings.ToLower(match[2])
			radius := int(value)
			if strings.HasPrefix(unit, "km") {
				radius = int(value * 1000)
			}
			if radius < model.MinRadiusM {
				radius = model.MinRadiusM
			}
			intent.RadiusM = radius
		}
		working = strings.Replace(working, match[0], "", 1)
	}

	if match := locationPattern.FindStringSubmatch(working); match != nil {
		if location := strings.TrimSpace(match[1]); location != "" {
			intent.Location = location
		}
		working = strings.Replace(working, match[0], "", 1)
	}

	cleaned := strings.Trim(whitespacePattern.ReplaceAllString(working, " "), " ,.-")
	if cleaned != "" {
		intent.Query = cleaned
	}

	return intent
}
