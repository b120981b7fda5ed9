package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*SQLiteStateRepository, *SQLiteEventRepository) {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "saves", "game.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStateRepository(db), NewSQLiteEventRepository(db)
}

func TestSQLiteStateRepository_GetSet(t *testing.T) {
	kv, _ := openTestDB(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, "gameState")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "gameState", `{"version":5}`))
	v, err := kv.Get(ctx, "gameState")
	require.NoError(t, err)
	assert.Equal(t, `{"version":5}`, v)

	// Upsert overwrites.
	require.NoError(t, kv.Set(ctx, "gameState", `{"version":6}`))
	v, err = kv.Get(ctx, "gameState")
	require.NoError(t, err)
	assert.Equal(t, `{"version":6}`, v)
}

func TestMemoryStateRepository(t *testing.T) {
	kv := NewMemoryStateRepository()
	ctx := context.Background()

	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "k", "v"))
	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func appendDomainEvents(t *testing.T, repo EventRepository, gameID string) {
	t.Helper()
	sink := NewEventSink(repo, gameID)
	log := events.NewEventLog(sink)

	day := calendar.New(2024, 2, 1)
	err := log.Append(
		events.GameEvent{Type: events.EventTypeRentCollected, ActorID: events.ActorSystem, TargetID: "p1",
			Payload: map[string]float64{"amount": 250}, GameDate: day, GameDay: 31},
		events.GameEvent{Type: events.EventTypeWagesPaid, ActorID: events.ActorSystem,
			Payload: map[string]float64{"amount": 1500}, GameDate: day, GameDay: 31},
		events.GameEvent{Type: events.EventTypePropertySold, ActorID: events.ActorSystem, TargetID: "p1",
			Payload: map[string]float64{"sale_price": 120000}, GameDate: calendar.New(2024, 3, 3), GameDay: 62},
		events.GameEvent{Type: events.EventTypeForeclosureResolved, ActorID: events.ActorSystem,
			GameDate: calendar.New(2024, 3, 4), GameDay: 63},
	)
	require.NoError(t, err)
}

func TestSQLiteEventRepository_Queries(t *testing.T) {
	_, repo := openTestDB(t)
	ctx := context.Background()
	appendDomainEvents(t, repo, "save-1")
	appendDomainEvents(t, repo, "save-2")

	all, err := repo.GetByGameID(ctx, "save-1")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, string(events.EventTypeRentCollected), all[0].EventType)
	assert.Equal(t, "1 Feb 2024", all[0].GameDate)
	assert.Equal(t, 250.0, all[0].Payload["amount"])
	assert.NotEmpty(t, all[0].ID)
	assert.Empty(t, all[3].Payload)

	byTarget, err := repo.GetByTargetID(ctx, "save-1", "p1")
	require.NoError(t, err)
	assert.Len(t, byTarget, 2)

	since, err := repo.GetSinceDay(ctx, "save-1", 62)
	require.NoError(t, err)
	assert.Len(t, since, 2)

	sold, err := repo.GetByEventType(ctx, "save-1", string(events.EventTypePropertySold))
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, 120000.0, sold[0].Payload["sale_price"])
}

func TestToRecord_WrapsScalarPayload(t *testing.T) {
	rec, err := ToRecord("g", events.GameEvent{
		ID: "e1", Type: events.EventTypeDayAdvanced, Timestamp: time.Now(), Payload: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, rec.Payload["value"])
	assert.Equal(t, "DAY_ADVANCED", rec.EventType)
}

func TestReconstructor(t *testing.T) {
	_, repo := openTestDB(t)
	ctx := context.Background()
	appendDomainEvents(t, repo, "save-1")
	r := NewReconstructor(repo)

	ledger, err := r.RebuildLedger(ctx, "save-1")
	require.NoError(t, err)
	assert.Equal(t, 250.0, ledger.RentCollected)
	assert.Equal(t, 1500.0, ledger.WagesPaid)
	assert.Equal(t, 120000.0, ledger.SaleProceeds)
	assert.Equal(t, 1, ledger.PropertiesSold)

	recap, err := r.GenerateRecap(ctx, "save-1", 0)
	require.NoError(t, err)
	// Rent collection is skipped as noise.
	require.Len(t, recap, 3)
	assert.Equal(t, "Wages of £1,500.00 were paid.", recap[0].Summary)
	assert.Equal(t, ImpactNeutral, recap[0].Impact)
	assert.Equal(t, "A property sold for £120,000.00.", recap[1].Summary)
	assert.Equal(t, ImpactPositive, recap[1].Impact)
	assert.Equal(t, 62, recap[1].GameDay)
}
