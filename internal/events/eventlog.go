// Package events provides the append-only journal of everything that happened
// in a save: tenants moving in, rent, sales, staff leaving, economic phases.
package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeDayAdvanced         EventType = "DAY_ADVANCED"
	EventTypePhaseChanged        EventType = "PHASE_CHANGED"
	EventTypeInterestPaid        EventType = "INTEREST_PAID"
	EventTypeTenancyStarted      EventType = "TENANCY_STARTED"
	EventTypeTenancyEnded        EventType = "TENANCY_ENDED"
	EventTypeRentCollected       EventType = "RENT_COLLECTED"
	EventTypeRepairStarted       EventType = "REPAIR_STARTED"
	EventTypeRepairCompleted     EventType = "REPAIR_COMPLETED"
	EventTypePropertyListed      EventType = "PROPERTY_LISTED"
	EventTypePropertyBought      EventType = "PROPERTY_BOUGHT"
	EventTypePropertySold        EventType = "PROPERTY_SOLD"
	EventTypeOfferRejected       EventType = "OFFER_REJECTED"
	EventTypeMortgageTaken       EventType = "MORTGAGE_TAKEN"
	EventTypeMortgageBilled      EventType = "MORTGAGE_BILLED"
	EventTypeMortgageRateReset   EventType = "MORTGAGE_RATE_RESET"
	EventTypeMortgageRepaid      EventType = "MORTGAGE_REPAID"
	EventTypeStaffHired          EventType = "STAFF_HIRED"
	EventTypeStaffPromoted       EventType = "STAFF_PROMOTED"
	EventTypeStaffFired          EventType = "STAFF_FIRED"
	EventTypeStaffQuit           EventType = "STAFF_QUIT"
	EventTypeWagesPaid           EventType = "WAGES_PAID"
	EventTypeWagesMissed         EventType = "WAGES_MISSED"
	EventTypeBalanceSheet        EventType = "BALANCE_SHEET"
	EventTypeForeclosureWarning  EventType = "FORECLOSURE_WARNING"
	EventTypeForeclosureResolved EventType = "FORECLOSURE_RESOLVED"
	EventTypeGameOver            EventType = "GAME_OVER"
	EventTypeGameWin             EventType = "GAME_WIN"
	EventTypeNewGame             EventType = "NEW_GAME"
)

// ActorSystem marks events caused by the simulation rather than the player.
const (
	ActorSystem = "SYSTEM"
	ActorPlayer = "PLAYER"
)

// GameEvent represents an immutable record of something that happened.
type GameEvent struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	ActorID   string        `json:"actor_id"`  // Who performed the action
	TargetID  string        `json:"target_id"` // Property, staff or mortgage affected (optional)
	Payload   interface{}   `json:"payload"`
	GameDate  calendar.Date `json:"game_date"`
	GameDay   int           `json:"game_day"` // days played when it happened
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds events to the log and writes them through to the persister.
// Events are kept in memory even when persisting fails.
func (el *EventLog) Append(batch ...GameEvent) error {
	el.mu.Lock()
	defer el.mu.Unlock()

	now := time.Now()
	var firstErr error
	for _, e := range batch {
		if e.ID == "" {
			e.ID = GenerateEventID()
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = now
		}
		el.events = append(el.events, e)

		if el.persister != nil {
			if err := el.persister.Append(e); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("persist event %s: %w", e.ID, err)
			}
		}
	}
	return firstErr
}

// GetByTarget returns all events that affected a specific entity.
func (el *EventLog) GetByTarget(targetID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.TargetID == targetID {
			result = append(result, e)
		}
	}
	return result
}

// GetByType returns all events of one type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GetByDay returns all events that occurred on a specific game day.
func (el *EventLog) GetByDay(day int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.GameDay == day {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns a copy of the full history.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return append([]GameEvent(nil), el.events...)
}

// Len returns the number of events held in memory.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
