// Package store is the single owner of the live game state. It sequences
// commands through the engine, writes the result through to the persistence
// collaborator and journal, and fans updates out to subscribers.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/engine"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/infra/storage"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/metrics"
	"github.com/MRamiBalles/PropertyIdle/internal/savegame"
)

// Update is what subscribers receive after every applied command.
type Update struct {
	Command string             `json:"command"`
	State   game.State         `json:"state"`
	Events  []events.GameEvent `json:"events"`
}

// Subscriber is called synchronously after each update and must not block.
type Subscriber func(Update)

// Store serializes access to the one game state.
type Store struct {
	engine  *engine.Engine
	repo    storage.StateRepository
	key     string
	journal *events.EventLog
	logger  *logger.Logger
	metrics *metrics.Collector
	timeout time.Duration

	mu    sync.Mutex
	state game.State

	subsMu      sync.RWMutex
	subscribers map[int]Subscriber
	nextSub     int
}

// Option customises a Store.
type Option func(*Store)

// WithJournal appends every emitted event to log.
func WithJournal(log *events.EventLog) Option {
	return func(s *Store) { s.journal = log }
}

// WithMetrics records outcomes on c instead of the global collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Store) { s.metrics = c }
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// Open restores the saved game from repo. Any failure to load (missing key,
// corrupt blob, failed migration, newer version) starts a fresh game instead.
func Open(ctx context.Context, eng *engine.Engine, repo storage.StateRepository, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		engine:      eng,
		repo:        repo,
		key:         config.DefaultStateKey,
		logger:      log,
		metrics:     metrics.Get(),
		timeout:     5 * time.Second,
		subscribers: make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := s.load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.metrics.RecordLoadFailure()
			s.logger.Warn(fmt.Sprintf("could not restore saved game, starting fresh: %v", err))
		} else {
			s.logger.Info("no saved game found, starting fresh")
		}
		state = eng.NewGame()
		s.state = state
		if err := s.save(ctx); err != nil {
			s.logger.Error(fmt.Sprintf("failed to save new game: %v", err))
		}
		return s
	}

	s.state = state
	s.logger.WithFields(map[string]interface{}{
		"date":       state.GameTime.CurrentDate.String(),
		"properties": len(state.Player.Properties),
	}).Info("saved game restored")
	return s
}

func (s *Store) load(ctx context.Context) (game.State, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return game.State{}, err
	}
	return savegame.Decode(raw, s.engine.Balance())
}

// save writes the current state. Callers hold mu or own s exclusively.
func (s *Store) save(ctx context.Context) error {
	start := time.Now()
	raw, err := savegame.Encode(s.state)
	if err == nil {
		wctx, cancel := context.WithTimeout(ctx, s.timeout)
		err = s.repo.Set(wctx, s.key, raw)
		cancel()
	}
	s.metrics.RecordSave(time.Since(start), err)
	return err
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies cmd. A rejected command leaves the state untouched and is
// not persisted; its reason is carried in the result, not the error. The
// returned error reports only persistence failures, after which the new state
// is still live in memory.
func (s *Store) Dispatch(ctx context.Context, cmd engine.Command) (engine.Result, error) {
	s.mu.Lock()

	start := time.Now()
	res := s.engine.Apply(s.state, cmd)
	s.metrics.RecordCommand(res.Applied)
	if !res.Applied {
		s.mu.Unlock()
		return res, nil
	}
	if _, ok := cmd.(engine.AdvanceDay); ok {
		s.metrics.RecordDay(time.Since(start))
	}

	s.state = res.State
	saveErr := s.save(ctx)
	if saveErr != nil {
		s.logger.Error(fmt.Sprintf("failed to save game after %s: %v", cmd.CommandName(), saveErr))
		saveErr = fmt.Errorf("save after %s: %w", cmd.CommandName(), saveErr)
	}

	if s.journal != nil && len(res.Events) > 0 {
		err := s.journal.Append(res.Events...)
		s.metrics.RecordEvents(len(res.Events), err)
		if err != nil {
			s.logger.Warn(fmt.Sprintf("failed to journal events: %v", err))
		}
	}

	update := Update{Command: cmd.CommandName(), State: s.state.Clone(), Events: res.Events}
	s.mu.Unlock()

	s.notify(update)
	return res, saveErr
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Subscriber) (cancel func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subscribers, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) notify(u Update) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, fn := range s.subscribers {
		fn(u)
	}
}

// Journal returns the event log, or nil when none was configured.
func (s *Store) Journal() *events.EventLog {
	return s.journal
}

var _ engine.Driver = (*Store)(nil)
