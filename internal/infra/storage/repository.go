// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// StateRepository is the key-value collaborator the game state is saved to.
// Values are opaque serialized blobs.
type StateRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// GameEvent mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	GameID    string                 `json:"game_id" db:"game_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	TargetID  string                 `json:"target_id" db:"target_id"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	GameDate  string                 `json:"game_date" db:"game_date"`
	GameDay   int                    `json:"game_day" db:"game_day"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event GameEvent) error

	// GetByGameID retrieves all events for a specific save, oldest first.
	GetByGameID(ctx context.Context, gameID string) ([]GameEvent, error)

	// GetByTargetID retrieves all events that affected an entity.
	GetByTargetID(ctx context.Context, gameID, targetID string) ([]GameEvent, error)

	// GetSinceDay retrieves all events from a game day onwards.
	GetSinceDay(ctx context.Context, gameID string, day int) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, gameID string, eventType string) ([]GameEvent, error)
}

// MemoryStateRepository keeps state in process memory.
type MemoryStateRepository struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStateRepository creates an empty in-memory store.
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{data: make(map[string]string)}
}

func (m *MemoryStateRepository) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStateRepository) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
