package metrics

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Snapshot(t *testing.T) {
	c := New()
	c.RecordDay(2 * time.Millisecond)
	c.RecordDay(4 * time.Millisecond)
	c.RecordCommand(true)
	c.RecordCommand(false)
	c.RecordSave(time.Millisecond, nil)
	c.RecordSave(time.Millisecond, errors.New("disk full"))
	c.RecordEvents(3, nil)

	snap := c.Snapshot()
	sim := snap["simulation"].(map[string]interface{})
	assert.Equal(t, int64(2), sim["days_advanced"])
	assert.InDelta(t, 3.0, sim["avg_latency_ms"], 1e-9)
	assert.InDelta(t, 4.0, sim["max_latency_ms"], 1e-9)
	assert.Equal(t, int64(1), sim["commands_rejected"])

	persist := snap["persistence"].(map[string]interface{})
	assert.Equal(t, int64(2), persist["saves"])
	assert.Equal(t, int64(1), persist["errors"])

	assert.Equal(t, int64(3), snap["events"].(map[string]interface{})["written"])
}

func TestCollector_Handlers(t *testing.T) {
	c := New()
	c.RecordWSConnection(1)
	c.RecordWSMessage(true)

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest("GET", "/metrics", nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	ws := body["websocket"].(map[string]interface{})
	assert.Equal(t, 1.0, ws["active_connections"])

	rec = httptest.NewRecorder()
	c.PrometheusHandler()(rec, httptest.NewRequest("GET", "/metrics/prometheus", nil))
	assert.Contains(t, rec.Body.String(), "propertyidle_ws_connections 1\n")
	assert.Contains(t, rec.Body.String(), `propertyidle_ws_messages_total{direction="in"} 1`)
}
