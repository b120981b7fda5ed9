package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MRamiBalles/PropertyIdle/internal/events"
)

// EventSink adapts an EventRepository to events.EventPersister so the
// in-memory log writes through to the ledger of one save.
type EventSink struct {
	repo    EventRepository
	gameID  string
	timeout time.Duration
}

// NewEventSink binds a repository to a save key.
func NewEventSink(repo EventRepository, gameID string) *EventSink {
	return &EventSink{repo: repo, gameID: gameID, timeout: 5 * time.Second}
}

// Append converts a domain event and stores it.
func (s *EventSink) Append(e events.GameEvent) error {
	row, err := ToRecord(s.gameID, e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.repo.Append(ctx, row)
}

// ToRecord flattens a domain event into its persisted shape. Typed payloads
// are round-tripped through JSON into a generic map.
func ToRecord(gameID string, e events.GameEvent) (GameEvent, error) {
	payload := map[string]interface{}{}
	if e.Payload != nil {
		raw, err := json.Marshal(e.Payload)
		if err != nil {
			return GameEvent{}, fmt.Errorf("failed to marshal payload: %w", err)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			// Scalars and slices are wrapped.
			var v interface{}
			if err := json.Unmarshal(raw, &v); err != nil {
				return GameEvent{}, fmt.Errorf("failed to decode payload: %w", err)
			}
			payload = map[string]interface{}{"value": v}
		}
	}
	return GameEvent{
		ID:        e.ID,
		GameID:    gameID,
		Timestamp: e.Timestamp,
		EventType: string(e.Type),
		ActorID:   e.ActorID,
		TargetID:  e.TargetID,
		Payload:   payload,
		GameDate:  e.GameDate.String(),
		GameDay:   e.GameDay,
	}, nil
}

var _ events.EventPersister = (*EventSink)(nil)
