package network

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/PropertyIdle/internal/engine"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/infra/storage"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // The UI dev server runs on another origin
	},
}

// ServeWs handles websocket requests from the peer.
func ServeWs(ctx context.Context, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.logger.Error("Failed to upgrade websocket connection")
			return
		}

		client := NewClient(hub, conn)
		client.Register()

		// Allow collection of memory referenced by the caller by doing all work in
		// new goroutines.
		go client.WritePump()
		go client.ReadPump(ctx)
	}
}

// API is the plain HTTP surface: state, balance sheet, commands and the journal.
type API struct {
	driver  engine.Driver
	journal *events.EventLog
	recaps  *storage.Reconstructor
	gameID  string
	logger  *logger.Logger
}

// NewAPI creates the HTTP handlers. journal and recaps may be nil.
func NewAPI(driver engine.Driver, journal *events.EventLog, recaps *storage.Reconstructor, gameID string, log *logger.Logger) *API {
	return &API{driver: driver, journal: journal, recaps: recaps, gameID: gameID, logger: log}
}

// RegisterRoutes sets up the API routes.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", a.HandleState)
	mux.HandleFunc("/api/balance-sheet", a.HandleBalanceSheet)
	mux.HandleFunc("/api/command", a.HandleCommand)
	mux.HandleFunc("/api/journal", a.HandleJournal)
	mux.HandleFunc("/api/recap", a.HandleRecap)
}

// HandleState returns the current game state.
// GET /api/state
func (a *API) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.writeJSON(w, http.StatusOK, a.driver.Snapshot())
}

// HandleBalanceSheet returns the live balance sheet plus the annual history.
// GET /api/balance-sheet
func (a *API) HandleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s := a.driver.Snapshot()
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"current": game.BalanceSheet(&s),
		"history": s.BalanceSheetHistory,
	})
}

// HandleCommand applies one command.
// POST /api/command {"command": "setSpeed", "args": {"speed": 5}}
func (a *API) HandleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd, err := engine.DecodeCommand(req.Command, req.Args)
	if err != nil {
		a.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := a.driver.Dispatch(r.Context(), cmd)
	if err != nil {
		a.logger.Warn("command " + req.Command + ": " + err.Error())
	}
	out := CommandResult{Applied: res.Applied}
	status := http.StatusOK
	if res.Reason != nil {
		out.Reason = res.Reason.Error()
		status = http.StatusConflict
	}
	a.writeJSON(w, status, out)
}

// JournalResponse is the API response for the event journal.
type JournalResponse struct {
	TotalEvents int                `json:"total_events"`
	GeneratedAt string             `json:"generated_at"`
	Events      []events.GameEvent `json:"events"`
}

// HandleJournal returns the in-memory event journal.
// GET /api/journal?day=N&type=PROPERTY_SOLD&target=ID
func (a *API) HandleJournal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.journal == nil {
		a.jsonError(w, "Journal disabled", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	day := -1
	if v := q.Get("day"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			a.jsonError(w, "Invalid day", http.StatusBadRequest)
			return
		}
		day = d
	}
	eventType := q.Get("type")
	target := q.Get("target")

	filtered := []events.GameEvent{}
	for _, e := range a.journal.Replay() {
		if day >= 0 && e.GameDay != day {
			continue
		}
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		if target != "" && e.TargetID != target {
			continue
		}
		filtered = append(filtered, e)
	}

	a.writeJSON(w, http.StatusOK, JournalResponse{
		TotalEvents: len(filtered),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      filtered,
	})
}

// HandleRecap summarizes the persisted ledger since a day.
// GET /api/recap?since=N
func (a *API) HandleRecap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.recaps == nil {
		a.jsonError(w, "Recap requires a persistent event ledger", http.StatusNotFound)
		return
	}

	since, _ := strconv.Atoi(r.URL.Query().Get("since"))
	recap, err := a.recaps.GenerateRecap(r.Context(), a.gameID, since)
	if err != nil {
		a.logger.Error("recap failed: " + err.Error())
		a.jsonError(w, "Failed to build recap", http.StatusInternalServerError)
		return
	}
	ledger, err := a.recaps.RebuildLedger(r.Context(), a.gameID)
	if err != nil {
		a.logger.Error("ledger rebuild failed: " + err.Error())
		a.jsonError(w, "Failed to build recap", http.StatusInternalServerError)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"since":  since,
		"events": recap,
		"ledger": ledger,
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (a *API) jsonError(w http.ResponseWriter, message string, status int) {
	a.writeJSON(w, status, map[string]string{"error": message})
}
