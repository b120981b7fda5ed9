// Package metrics provides observability for the game server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Simulation metrics
	DaysAdvanced     int64
	DayLatencySum    int64 // nanoseconds
	DayLatencyMax    int64
	CommandsApplied  int64
	CommandsRejected int64
	LastDayTime      time.Time

	// Persistence metrics
	Saves          int64
	SaveLatencySum int64
	SaveLatencyMax int64
	SaveErrors     int64
	LoadFailures   int64

	// Event metrics
	EventsWritten    int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = New()

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// New creates an isolated collector, mostly for tests.
func New() *Collector {
	return &Collector{StartTime: time.Now()}
}

func storeMax(addr *int64, v int64) {
	// Update max (non-atomic but acceptable for metrics)
	if v > atomic.LoadInt64(addr) {
		atomic.StoreInt64(addr, v)
	}
}

// RecordDay records one simulated day.
func (c *Collector) RecordDay(latency time.Duration) {
	atomic.AddInt64(&c.DaysAdvanced, 1)
	atomic.AddInt64(&c.DayLatencySum, int64(latency))
	storeMax(&c.DayLatencyMax, int64(latency))

	c.mu.Lock()
	c.LastDayTime = time.Now()
	c.mu.Unlock()
}

// RecordCommand counts a command outcome.
func (c *Collector) RecordCommand(applied bool) {
	if applied {
		atomic.AddInt64(&c.CommandsApplied, 1)
	} else {
		atomic.AddInt64(&c.CommandsRejected, 1)
	}
}

// RecordSave records a write of the state blob.
func (c *Collector) RecordSave(latency time.Duration, err error) {
	atomic.AddInt64(&c.Saves, 1)
	atomic.AddInt64(&c.SaveLatencySum, int64(latency))
	storeMax(&c.SaveLatencyMax, int64(latency))
	if err != nil {
		atomic.AddInt64(&c.SaveErrors, 1)
	}
}

// RecordLoadFailure counts a save that could not be restored.
func (c *Collector) RecordLoadFailure() {
	atomic.AddInt64(&c.LoadFailures, 1)
}

// RecordEvents records a batch of journal writes.
func (c *Collector) RecordEvents(n int, err error) {
	atomic.AddInt64(&c.EventsWritten, int64(n))
	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

func avgMillis(sum, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count) / 1e6
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	days := atomic.LoadInt64(&c.DaysAdvanced)
	saves := atomic.LoadInt64(&c.Saves)

	lastDay := ""
	if !c.LastDayTime.IsZero() {
		lastDay = c.LastDayTime.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"simulation": map[string]interface{}{
			"days_advanced":     days,
			"avg_latency_ms":    avgMillis(atomic.LoadInt64(&c.DayLatencySum), days),
			"max_latency_ms":    float64(atomic.LoadInt64(&c.DayLatencyMax)) / 1e6,
			"last_day":          lastDay,
			"commands_applied":  atomic.LoadInt64(&c.CommandsApplied),
			"commands_rejected": atomic.LoadInt64(&c.CommandsRejected),
		},

		"persistence": map[string]interface{}{
			"saves":          saves,
			"avg_latency_ms": avgMillis(atomic.LoadInt64(&c.SaveLatencySum), saves),
			"max_latency_ms": float64(atomic.LoadInt64(&c.SaveLatencyMax)) / 1e6,
			"errors":         atomic.LoadInt64(&c.SaveErrors),
			"load_failures":  atomic.LoadInt64(&c.LoadFailures),
		},

		"events": map[string]interface{}{
			"written": atomic.LoadInt64(&c.EventsWritten),
			"errors":  atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return collector.Handler()
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return collector.PrometheusHandler()
}

// Handler serves this collector's snapshot as JSON.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		json.NewEncoder(w).Encode(c.Snapshot())
	}
}

func writeMetric(w http.ResponseWriter, name, kind, help string, value interface{}) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	switch v := value.(type) {
	case float64:
		fmt.Fprintf(w, "%s %.2f\n\n", name, v)
	default:
		fmt.Fprintf(w, "%s %v\n\n", name, v)
	}
}

// PrometheusHandler serves this collector in the Prometheus text format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// Simulation metrics
		writeMetric(w, "propertyidle_days_advanced", "counter", "Total simulated days", atomic.LoadInt64(&c.DaysAdvanced))
		writeMetric(w, "propertyidle_day_latency_max_ms", "gauge", "Maximum day-advance latency",
			float64(atomic.LoadInt64(&c.DayLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP propertyidle_commands_total Commands dispatched\n")
		fmt.Fprintf(w, "# TYPE propertyidle_commands_total counter\n")
		fmt.Fprintf(w, "propertyidle_commands_total{outcome=\"applied\"} %d\n", atomic.LoadInt64(&c.CommandsApplied))
		fmt.Fprintf(w, "propertyidle_commands_total{outcome=\"rejected\"} %d\n\n", atomic.LoadInt64(&c.CommandsRejected))

		// Persistence metrics
		writeMetric(w, "propertyidle_saves", "counter", "Total state saves", atomic.LoadInt64(&c.Saves))
		writeMetric(w, "propertyidle_save_errors", "counter", "Total failed saves", atomic.LoadInt64(&c.SaveErrors))
		writeMetric(w, "propertyidle_events_written", "counter", "Total journal events written", atomic.LoadInt64(&c.EventsWritten))

		// WebSocket metrics
		writeMetric(w, "propertyidle_ws_connections", "gauge", "Active WebSocket connections", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP propertyidle_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE propertyidle_ws_messages_total counter\n")
		fmt.Fprintf(w, "propertyidle_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "propertyidle_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
