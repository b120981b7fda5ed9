package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushInflation_KeepsHistoryAndPeak(t *testing.T) {
	e := Initial()

	for _, r := range []float64{1.4, 0.2, -0.3, 0.6} {
		e.PushInflation(r)
	}

	assert.Equal(t, []float64{1.4, 0.2, -0.3, 0.6}, e.InflationHistory)
	assert.Equal(t, 1.4, e.HighestInflationRate)

	e.PushInflation(-0.5)
	assert.Equal(t, []float64{0.2, -0.3, 0.6, -0.5}, e.InflationHistory)
	assert.Equal(t, 1.4, e.HighestInflationRate)
}

func TestClone_CopiesHistory(t *testing.T) {
	e := Initial()
	c := e.Clone()
	c.PushInflation(2)

	assert.Equal(t, []float64{0.75}, e.InflationHistory)
	assert.Equal(t, 0.75, e.HighestInflationRate)
}
