// Package storage - postgres.go
// PostgreSQL implementations of StateRepository and EventRepository for hosted saves.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchemas = []string{
	`CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS event_log (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		game_id TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL,
		event_type TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		target_id TEXT,
		payload JSONB NOT NULL,
		game_date TEXT NOT NULL,
		game_day INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_event_log_game_id ON event_log(game_id)`,
	`CREATE INDEX IF NOT EXISTS idx_event_log_target_id ON event_log(target_id)`,
}

// ConnectPostgres opens a connection pool and makes sure the schema exists.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	for _, query := range postgresSchemas {
		if _, err := pool.Exec(ctx, query); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create schemas: %w", err)
		}
	}
	return pool, nil
}

// PostgresStateRepository stores state blobs in the kv_store table.
type PostgresStateRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresStateRepository(pool *pgxpool.Pool) *PostgresStateRepository {
	return &PostgresStateRepository{pool: pool}
}

func (r *PostgresStateRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

func (r *PostgresStateRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// PostgresEventRepository implements EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Append inserts a new event into the immutable ledger.
func (r *PostgresEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO event_log (id, game_id, timestamp, event_type, actor_id, target_id, payload, game_date, game_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.pool.Exec(ctx, query,
		event.ID,
		event.GameID,
		event.Timestamp,
		event.EventType,
		event.ActorID,
		event.TargetID,
		payloadJSON,
		event.GameDate,
		event.GameDay,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

const postgresEventColumns = `id, game_id, timestamp, event_type, actor_id, target_id, payload, game_date, game_day`

// GetByGameID retrieves all events for a save, oldest first.
func (r *PostgresEventRepository) GetByGameID(ctx context.Context, gameID string) ([]GameEvent, error) {
	query := `SELECT ` + postgresEventColumns + ` FROM event_log WHERE game_id = $1 ORDER BY seq ASC`
	return r.queryEvents(ctx, query, gameID)
}

// GetByTargetID retrieves all events that affected an entity.
func (r *PostgresEventRepository) GetByTargetID(ctx context.Context, gameID, targetID string) ([]GameEvent, error) {
	query := `SELECT ` + postgresEventColumns + ` FROM event_log WHERE game_id = $1 AND target_id = $2 ORDER BY seq ASC`
	return r.queryEvents(ctx, query, gameID, targetID)
}

// GetSinceDay retrieves all events from a game day onwards.
func (r *PostgresEventRepository) GetSinceDay(ctx context.Context, gameID string, day int) ([]GameEvent, error) {
	query := `SELECT ` + postgresEventColumns + ` FROM event_log WHERE game_id = $1 AND game_day >= $2 ORDER BY seq ASC`
	return r.queryEvents(ctx, query, gameID, day)
}

// GetByEventType retrieves all events of a specific type.
func (r *PostgresEventRepository) GetByEventType(ctx context.Context, gameID string, eventType string) ([]GameEvent, error) {
	query := `SELECT ` + postgresEventColumns + ` FROM event_log WHERE game_id = $1 AND event_type = $2 ORDER BY seq ASC`
	return r.queryEvents(ctx, query, gameID, eventType)
}

// queryEvents is a helper to execute queries and scan results.
func (r *PostgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadJSON []byte
		var targetID *string

		err := rows.Scan(
			&e.ID,
			&e.GameID,
			&e.Timestamp,
			&e.EventType,
			&e.ActorID,
			&targetID,
			&payloadJSON,
			&e.GameDate,
			&e.GameDay,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if targetID != nil {
			e.TargetID = *targetID
		}
		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// Ensure the Postgres repositories implement their interfaces
var (
	_ EventRepository = (*PostgresEventRepository)(nil)
	_ StateRepository = (*PostgresStateRepository)(nil)
)
