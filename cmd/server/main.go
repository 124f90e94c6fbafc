package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"core/internal/config"
	"core/internal/handler"
	"core/internal/repository"
	"core/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("Maps Search Proxy")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Optional search-log database
	var repo *repository.PostgresRepository
	if cfg.DB.DSN != "" {
		repo, err = repository.NewPostgresRepository(
			cfg.DB.DSN,
			cfg.DB.MaxConnections,
			cfg.DB.MaxIdleConnections,
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer repo.Close()
		log.Println("✅ Connected to PostgreSQL database (search logging enabled)")
	} else {
		log.Println("⚠️  DATABASE_URL not set - search logging is disabled")
	}

	// Result cache: Redis when configured, otherwise in-process
	var cache service.ResultCache
	if cfg.Cache.RedisURL != "" {
		redisCache, err := service.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		cache = redisCache
		log.Println("✅ Using Redis result cache")
	} else {
		cache = service.NewMemoryCache()
		log.Println("✅ Using in-memory result cache")
	}

	// Gemini client for intent extraction
	var generator service.TextGenerator
	if cfg.Gemini.Enabled {
		generator = service.NewGeminiClient(cfg.Gemini)
		log.Printf("✅ Gemini client configured")
		log.Printf("   - Model: %s", cfg.Gemini.Model)
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set - intent extraction uses the heuristic parser only")
	}

	// Initialize services
	extractor := service.NewIntentExtractor(generator, cfg.Search)
	mapsClient := service.NewGoogleMapsClient(cfg.Maps)
	searchService := service.NewSearchService(
		extractor,
		mapsClient,
		cache,
		searchLogger(repo),
		cfg.Search,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
	)

	log.Println("✅ Services initialized")

	// Initialize handlers
	searchHandler := handler.NewSearchHandler(searchService)
	feedbackHandler := handler.NewFeedbackHandler(searchService)
	rateLimiter := handler.NewIPRateLimiter(cfg.Rate.PerMinute)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = strings.Split(cfg.Server.AllowedMethods, ",")
	corsConfig.AllowHeaders = strings.Split(cfg.Server.AllowedHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "maps-search-proxy",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	api := router.Group("/api")
	api.Use(rateLimiter.Middleware())
	{
		api.POST("/llm/places", searchHandler.PromptSearch)
		api.GET("/places", searchHandler.Places)
		api.GET("/directions", searchHandler.Directions)
		api.POST("/feedback", feedbackHandler.Submit)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API base: http://localhost:%d/api", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}

// searchLogger converts a possibly-nil repository into the service interface.
// A plain nil *PostgresRepository must not become a non-nil interface value.
func searchLogger(repo *repository.PostgresRepository) service.SearchLogger {
	if repo == nil {
		return nil
	}
	return repo
}
