package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Maps   MapsConfig
	Gemini GeminiConfig
	Cache  CacheConfig
	Search SearchConfig
	Rate   RateLimitConfig
	DB     DBConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// MapsConfig holds Google Maps API configuration
type MapsConfig struct {
	APIKey   string
	Language string
	Region   string
	Timeout  int // seconds
}

// GeminiConfig holds the generative model configuration.
// Intent extraction falls back to the deterministic heuristic when no key is set.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Enabled bool
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	TTLSeconds int
	RedisURL   string // empty = in-memory cache
}

// SearchConfig holds search defaults
type SearchConfig struct {
	DefaultRadiusM       int    // textsearch radius when user coords present without a usable intent radius
	DefaultIntentRadiusM int    // radius_m fallback during intent extraction
	DefaultLocation      string // location fallback during intent extraction
	PromptLimit          int    // max places returned by the prompt endpoint
	QueryLimit           int    // max places returned by the direct query endpoint
}

// RateLimitConfig holds per-IP rate limiting configuration
type RateLimitConfig struct {
	PerMinute int
}

// DBConfig holds the optional search-log database configuration
type DBConfig struct {
	DSN                string
	MaxConnections     int
	MaxIdleConnections int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Maps: MapsConfig{
			// 优先使用 GOOGLE_MAPS_API_KEY，兼容旧的 GOOGLE_MAPS_KEY
			APIKey:   getEnv("GOOGLE_MAPS_API_KEY", getEnv("GOOGLE_MAPS_KEY", "")),
			Language: getEnv("MAPS_LANGUAGE", "id"),
			Region:   getEnv("MAPS_REGION", "ID"),
			Timeout:  getEnvAsInt("MAPS_TIMEOUT_SECONDS", 10),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Enabled: getEnv("GEMINI_API_KEY", "") != "",
		},
		Cache: CacheConfig{
			TTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 600),
			RedisURL:   getEnv("REDIS_URL", ""),
		},
		Search: SearchConfig{
			DefaultRadiusM:       getEnvAsInt("DEFAULT_SEARCH_RADIUS_M", 5000),
			DefaultIntentRadiusM: getEnvAsInt("DEFAULT_INTENT_RADIUS_M", 3000),
			DefaultLocation:      getEnv("DEFAULT_INTENT_LOCATION", "Jakarta"),
			PromptLimit:          getEnvAsInt("SEARCH_PROMPT_LIMIT", 5),
			QueryLimit:           getEnvAsInt("SEARCH_QUERY_LIMIT", 3),
		},
		Rate: RateLimitConfig{
			PerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		},
		DB: DBConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
	}

	if cfg.Maps.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY environment variable is required")
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}
