package sim

import (
	"fmt"
	"testing"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/engine"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(seed int64) *engine.Engine {
	n := 0
	return engine.NewEngine(config.Default(), logger.NewNop(),
		engine.WithRandom(engine.NewSeededRandom(seed)),
		engine.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}))
}

func TestRunAdvancesEveryDay(t *testing.T) {
	eng := newTestEngine(7)
	r := NewRunner(eng, logger.NewNop(), false)

	sum := r.Run(eng.NewGame(), 45)

	assert.Equal(t, 45, sum.DaysRun)
	assert.Equal(t, 0, sum.Commands)
	assert.Equal(t, 45, sum.EventCounts[events.EventTypeDayAdvanced])
	assert.Equal(t, 45, sum.Final.GameTime.DaysPlayed)
	assert.Equal(t, len(sum.Final.Player.Properties), sum.BalanceSheet.TotalProperties)
}

func TestRunIsDeterministicForASeed(t *testing.T) {
	a := NewRunner(newTestEngine(42), logger.NewNop(), true)
	b := NewRunner(newTestEngine(42), logger.NewNop(), true)

	sa := a.Run(a.engine.NewGame(), 120)
	sb := b.Run(b.engine.NewGame(), 120)

	assert.Equal(t, sa.Final.Player.Cash, sb.Final.Player.Cash)
	assert.Equal(t, sa.EventCounts, sb.EventCounts)
}

func TestAutopilotLetsTheStarterHome(t *testing.T) {
	eng := newTestEngine(3)
	r := NewRunner(eng, logger.NewNop(), true)
	r.CashBuffer = 1e9 // never buy

	s := eng.NewGame()
	require.Len(t, s.Player.Properties, 1)

	sum := r.Run(s, 1)
	require.GreaterOrEqual(t, sum.Commands, 1)
	p := sum.Final.Player.Properties[0]
	assert.True(t, p.IsListed || p.IsOccupied(), "starter home should be on the lettings market")
}

func TestAutopilotBuysWhenCashAllows(t *testing.T) {
	eng := newTestEngine(11)
	r := NewRunner(eng, logger.NewNop(), true)
	r.CashBuffer = 1

	s := eng.NewGame()
	s.Player.Cash = 1e9

	sum := r.Run(s, 1)
	assert.Greater(t, len(sum.Final.Player.Properties), 1)
	assert.Positive(t, sum.EventCounts[events.EventTypePropertyBought])
}
