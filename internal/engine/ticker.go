// Package engine - ticker.go
// The real-time host: turns wall-clock time into AdvanceDay commands at the
// interval the game's speed asks for.
//
// ARCHITECTURAL RULE: The Ticker does NOT touch game state. It reads a
// snapshot and dispatches commands through the state's single owner.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// Driver owns the game state the ticker advances.
type Driver interface {
	Snapshot() game.State
	Dispatch(ctx context.Context, cmd Command) (Result, error)
}

// Ticker manages the game loop heartbeat.
type Ticker struct {
	driver   Driver
	logger   *logger.Logger
	interval func(game.Speed) time.Duration
	wake     chan struct{}
	stopChan chan struct{}
}

// NewTicker creates a new game ticker.
func NewTicker(driver Driver, log *logger.Logger) *Ticker {
	return &Ticker{
		driver:   driver,
		logger:   log,
		interval: game.Speed.Interval,
		wake:     make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}
}

// Start begins the game loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("Engine Ticker started.")

	for {
		s := t.driver.Snapshot()
		timer := time.NewTimer(t.interval(s.GameTime.Speed))

		select {
		case <-ctx.Done():
			timer.Stop()
			t.logger.Info("Engine Ticker stopped by context.")
			return
		case <-t.stopChan:
			timer.Stop()
			t.logger.Info("Engine Ticker stopped manually.")
			return
		case <-t.wake:
			timer.Stop()
		case <-timer.C:
			t.tick(ctx)
		}
	}
}

// Reschedule restarts the wait, picking up a new speed immediately.
func (t *Ticker) Reschedule() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}

// tick advances one day unless the game is paused or over.
func (t *Ticker) tick(ctx context.Context) {
	s := t.driver.Snapshot()
	if s.GameTime.IsPaused || s.GameOver != nil {
		return
	}
	if _, err := t.driver.Dispatch(ctx, AdvanceDay{}); err != nil {
		t.logger.Error(fmt.Sprintf("advance day failed: %v", err))
	}
}
