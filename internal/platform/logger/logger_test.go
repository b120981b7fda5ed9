package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Format: "json", Output: &buf})

	log.WithFields(map[string]interface{}{"day": 12}).Event("PROPERTY_SOLD", "SYSTEM", "sold p1")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "PROPERTY_SOLD", line["event"])
	assert.Equal(t, "SYSTEM", line["actor"])
	assert.Equal(t, "sold p1", line["msg"])
	assert.Equal(t, float64(12), line["day"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf})
	log.Info("hidden")
	assert.Zero(t, buf.Len())
	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNop(t *testing.T) {
	NewNop().Error("nothing happens")
}
