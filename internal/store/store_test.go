package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/engine"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/infra/storage"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/metrics"
	"github.com/MRamiBalles/PropertyIdle/internal/savegame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRepo wraps a memory store and can be told to fail writes.
type countingRepo struct {
	*storage.MemoryStateRepository
	mu       sync.Mutex
	sets     int
	failSets bool
}

func newCountingRepo() *countingRepo {
	return &countingRepo{MemoryStateRepository: storage.NewMemoryStateRepository()}
}

func (r *countingRepo) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.sets++
	fail := r.failSets
	r.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return r.MemoryStateRepository.Set(ctx, key, value)
}

func newEngine() *engine.Engine {
	return engine.NewEngine(config.Default(), logger.NewNop(), engine.WithRandom(engine.NewSeededRandom(7)))
}

func TestOpen_StartsFreshWhenNothingSaved(t *testing.T) {
	repo := newCountingRepo()
	m := metrics.New()
	s := Open(context.Background(), newEngine(), repo, logger.NewNop(), WithMetrics(m))

	snap := s.Snapshot()
	assert.Equal(t, 50000.0, snap.Player.Cash)
	assert.Equal(t, calendar.New(2024, 1, 1), snap.GameTime.CurrentDate)
	assert.Equal(t, 1, repo.sets, "fresh game is saved immediately")
	assert.Equal(t, int64(0), m.LoadFailures)
}

func TestOpen_CorruptSaveFallsBackToFreshGame(t *testing.T) {
	ctx := context.Background()
	for name, blob := range map[string]string{
		"corrupt": "{not json",
		"newer":   `{"version": 42}`,
	} {
		t.Run(name, func(t *testing.T) {
			repo := newCountingRepo()
			require.NoError(t, repo.MemoryStateRepository.Set(ctx, config.DefaultStateKey, blob))
			m := metrics.New()

			s := Open(ctx, newEngine(), repo, logger.NewNop(), WithMetrics(m))
			assert.Equal(t, game.CurrentVersion, s.Snapshot().Version)
			assert.Equal(t, int64(1), m.LoadFailures)
		})
	}
}

func TestOpen_RestoresSavedGame(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	eng := newEngine()

	saved := eng.NewGame()
	saved.Player.Cash = 777
	saved.GameTime.DaysPlayed = 12
	raw, err := savegame.Encode(saved)
	require.NoError(t, err)
	require.NoError(t, repo.MemoryStateRepository.Set(ctx, "slot-2", raw))

	s := Open(ctx, eng, repo, logger.NewNop(), WithKey("slot-2"), WithMetrics(metrics.New()))
	snap := s.Snapshot()
	assert.Equal(t, 777.0, snap.Player.Cash)
	assert.Equal(t, 12, snap.GameTime.DaysPlayed)
	assert.Equal(t, 0, repo.sets)
}

func TestDispatch_PersistsAppliedCommands(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	m := metrics.New()
	journal := events.NewEventLog(nil)
	s := Open(ctx, newEngine(), repo, logger.NewNop(), WithMetrics(m), WithJournal(journal))

	var updates []Update
	cancel := s.Subscribe(func(u Update) { updates = append(updates, u) })

	res, err := s.Dispatch(ctx, engine.AdvanceDay{})
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, 2, repo.sets)
	assert.Equal(t, int64(1), m.DaysAdvanced)

	raw, err := repo.Get(ctx, config.DefaultStateKey)
	require.NoError(t, err)
	persisted, err := savegame.Decode(raw, config.Default())
	require.NoError(t, err)
	assert.Equal(t, calendar.New(2024, 1, 2), persisted.GameTime.CurrentDate)

	require.Len(t, updates, 1)
	assert.Equal(t, "advanceDay", updates[0].Command)
	assert.Equal(t, 1, updates[0].State.GameTime.DaysPlayed)
	assert.NotEmpty(t, journal.GetByType(events.EventTypeDayAdvanced))

	cancel()
	_, err = s.Dispatch(ctx, engine.TogglePause{})
	require.NoError(t, err)
	assert.Len(t, updates, 1, "cancelled subscriber is not called")
	assert.True(t, s.Snapshot().GameTime.IsPaused)
}

func TestDispatch_RejectedCommandIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	m := metrics.New()
	s := Open(ctx, newEngine(), repo, logger.NewNop(), WithMetrics(m))
	before := s.Snapshot()

	res, err := s.Dispatch(ctx, engine.SetSpeed{Speed: 3})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.ErrorIs(t, res.Reason, engine.ErrInvalidArgument)
	assert.Equal(t, 1, repo.sets)
	assert.Equal(t, int64(1), m.CommandsRejected)
	assert.Equal(t, before, s.Snapshot())
}

func TestDispatch_SaveFailureKeepsNewState(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	m := metrics.New()
	s := Open(ctx, newEngine(), repo, logger.NewNop(), WithMetrics(m))
	repo.failSets = true

	res, err := s.Dispatch(ctx, engine.SetSpeed{Speed: game.SpeedFast})
	require.Error(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, game.SpeedFast, s.Snapshot().GameTime.Speed)
	assert.Equal(t, int64(1), m.SaveErrors)
}

func TestSnapshot_IsIsolated(t *testing.T) {
	s := Open(context.Background(), newEngine(), newCountingRepo(), logger.NewNop(), WithMetrics(metrics.New()))
	snap := s.Snapshot()
	require.NotEmpty(t, snap.Player.Properties)
	snap.Player.Properties[0].Name = "changed"
	assert.NotEqual(t, "changed", s.Snapshot().Player.Properties[0].Name)
}
