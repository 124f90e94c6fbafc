package repository

import (
	"context"
	"fmt"
	"time"

	"core/internal/service"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository stores search and feedback logs. The search path never
// depends on it; it exists for offline analysis of what users ask for.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// LogSearch logs one completed search
func (r *PostgresRepository) LogSearch(ctx context.Context, entry service.SearchLogEntry) error {
	query := `
		INSERT INTO search_logs (endpoint, prompt, intent_query, intent_location, intent_radius_m, result_count, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.Endpoint,
		entry.Prompt,
		entry.Intent.Query,
		entry.Intent.Location,
		entry.Intent.RadiusM,
		entry.ResultCount,
		entry.ResponseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// LogFeedback records a user action on a returned place
func (r *PostgresRepository) LogFeedback(ctx context.Context, searchID, placeID, action string) error {
	query := `
		UPDATE search_logs
		SET clicked_place_id = $2, action = $3
		WHERE search_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, searchID, placeID, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}
