package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/engine"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/infra/storage"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/metrics"
	"github.com/MRamiBalles/PropertyIdle/internal/store"
)

func newTestStore(t *testing.T, journal *events.EventLog) *store.Store {
	t.Helper()
	eng := engine.NewEngine(config.Default(), logger.NewNop(), engine.WithRandom(engine.NewSeededRandom(3)))
	opts := []store.Option{store.WithMetrics(metrics.New())}
	if journal != nil {
		opts = append(opts, store.WithJournal(journal))
	}
	return store.Open(context.Background(), eng, storage.NewMemoryStateRepository(), logger.NewNop(), opts...)
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg ServerMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHub_CommandRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := newTestStore(t, nil)
	hub := NewHub(st, logger.NewNop())
	go hub.Run(ctx)
	st.Subscribe(hub.Publish)

	srv := httptest.NewServer(ServeWs(ctx, hub))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readMessage(t, conn)
	assert.Equal(t, MessageState, first.Type)
	require.NotNil(t, first.State)
	assert.False(t, first.State.GameTime.IsPaused)

	require.NoError(t, conn.WriteJSON(CommandRequest{RequestID: "r1", Command: "togglePause"}))

	var result, update *ServerMessage
	for result == nil || update == nil {
		msg := readMessage(t, conn)
		switch msg.Type {
		case MessageResult:
			result = &msg
		case MessageUpdate:
			update = &msg
		}
	}
	assert.Equal(t, "r1", result.RequestID)
	assert.True(t, result.Result.Applied)
	assert.Equal(t, "togglePause", update.Command)
	assert.True(t, update.State.GameTime.IsPaused)
}

func TestHub_RejectsUnknownCommand(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(newTestStore(t, nil), logger.NewNop())
	go hub.Run(ctx)
	srv := httptest.NewServer(ServeWs(ctx, hub))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(CommandRequest{RequestID: "r2", Command: "teleport"}))
	msg := readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)
	assert.Equal(t, "r2", msg.RequestID)
	assert.Contains(t, msg.Error, "teleport")
}

func TestAPI_CommandAndState(t *testing.T) {
	journal := events.NewEventLog(nil)
	st := newTestStore(t, journal)
	api := NewAPI(st, journal, nil, "test", logger.NewNop())
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/command",
		strings.NewReader(`{"command":"setSpeed","args":{"speed":5}}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var res CommandResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Applied)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/command",
		strings.NewReader(`{"command":"setSpeed","args":{"speed":2}}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var s game.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, game.SpeedFast, s.GameTime.Speed)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/balance-sheet", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current"`)
}

func TestAPI_Journal(t *testing.T) {
	journal := events.NewEventLog(nil)
	st := newTestStore(t, journal)
	api := NewAPI(st, journal, nil, "test", logger.NewNop())
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	for i := 0; i < 3; i++ {
		_, err := st.Dispatch(context.Background(), engine.AdvanceDay{})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/journal?type=DAY_ADVANCED&day=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body JournalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalEvents)
	assert.Equal(t, 2, body.Events[0].GameDay)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/journal?day=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recap", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
