package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"core/internal/config"

	"google.golang.org/genai"
)

// GeminiClient generates text with the Gemini API. The underlying client is
// constructed lazily on first use; concurrent first calls share one
// construction via sync.Once.
type GeminiClient struct {
	cfg config.GeminiConfig

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiClient creates a Gemini text generator. The API client itself is
// not dialed until the first Generate call.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	return &GeminiClient{cfg: cfg}
}

// IsEnabled returns whether the client is configured and ready
func (g *GeminiClient) IsEnabled() bool {
	return g != nil && g.cfg.Enabled
}

func (g *GeminiClient) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		log.Printf("Initializing Gemini client (model: %s)", g.cfg.Model)
		g.client, g.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return g.client, g.initErr
}

// Generate sends a prompt to the configured model and returns the raw text output
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.IsEnabled() {
		return "", fmt.Errorf("gemini is not enabled (missing API key)")
	}

	client, err := g.ensureClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
		TopP:        genai.Ptr[float32](0.9),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return resp.Text(), nil
}
