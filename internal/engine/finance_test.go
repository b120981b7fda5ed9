package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/economy"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/mortgage"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
)

func mortgagedState(t *testing.T, e *Engine, typ mortgage.Type, deposit float64) game.State {
	t.Helper()
	s := blankState(e)
	s.Market = []property.Listing{testListing("l1", 100000, 100)}
	return apply(t, e, s, BuyPropertyWithMortgage{
		ListingID: "l1", Type: typ, DepositPercentage: deposit, TermYears: 25, FixedPeriodYears: 2,
	})
}

func TestBuyWithMortgage(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := mortgagedState(t, e, mortgage.TypeStandard, 10)

	require.Len(t, s.Player.Properties, 1)
	require.Len(t, s.Player.Mortgages, 1)
	m := s.Player.Mortgages[0]
	assert.Equal(t, s.Player.Properties[0].ID, m.PropertyID)
	assert.InDelta(t, 40000, s.Player.Cash, 1e-9)
	assert.InDelta(t, 90000, m.OutstandingBalance, 1e-9)
	assert.InDelta(t, 4.0+1.5, m.InterestRate, 1e-9)
	assert.Equal(t, calendar.New(2026, 1, 1), m.FixedPeriodEndDate)
	assert.Positive(t, m.MonthlyPayment)
}

func TestBuyWithMortgage_Validation(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.Market = []property.Listing{testListing("l1", 100000, 100)}

	cases := []struct {
		name string
		cmd  BuyPropertyWithMortgage
		want error
	}{
		{"btl needs 25%", BuyPropertyWithMortgage{ListingID: "l1", Type: mortgage.TypeBuyToLet, DepositPercentage: 10, TermYears: 25, FixedPeriodYears: 2}, ErrIneligible},
		{"term too long", BuyPropertyWithMortgage{ListingID: "l1", Type: mortgage.TypeStandard, DepositPercentage: 10, TermYears: 40, FixedPeriodYears: 2}, ErrInvalidArgument},
		{"odd fixed period", BuyPropertyWithMortgage{ListingID: "l1", Type: mortgage.TypeStandard, DepositPercentage: 10, TermYears: 25, FixedPeriodYears: 4}, ErrInvalidArgument},
		{"deposit unaffordable", BuyPropertyWithMortgage{ListingID: "l1", Type: mortgage.TypeStandard, DepositPercentage: 60, TermYears: 25, FixedPeriodYears: 2}, ErrInsufficientFunds},
		{"unknown listing", BuyPropertyWithMortgage{ListingID: "zz", Type: mortgage.TypeStandard, DepositPercentage: 10, TermYears: 25, FixedPeriodYears: 2}, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.Apply(s, tc.cmd)
			assert.False(t, res.Applied)
			assert.ErrorIs(t, res.Reason, tc.want)
		})
	}
}

func TestStandardMortgageAmortises(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := mortgagedState(t, e, mortgage.TypeStandard, 10)

	s, evs := advance(t, e, s, 31) // 1 Feb
	require.Len(t, s.Player.Mortgages, 1)
	first := s.Player.Mortgages[0]
	assert.Less(t, first.OutstandingBalance, 90000.0)
	assert.Equal(t, 1, first.PaymentsMade)
	assert.Equal(t, 1, countEvents(evs, events.EventTypeMortgageBilled))

	s, _ = advance(t, e, s, 29) // 1 Mar
	second := s.Player.Mortgages[0]
	assert.Less(t, second.OutstandingBalance, first.OutstandingBalance)
	assert.InDelta(t, 90000, second.OutstandingBalance+second.TotalPrincipalPaid, 1e-6)
}

func TestBuyToLetPaysInterestOnly(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := mortgagedState(t, e, mortgage.TypeBuyToLet, 25)
	require.Zero(t, s.Player.Mortgages[0].MonthlyPayment)
	rate := 4.0 + 0.5 + 1.0

	s, _ = advance(t, e, s, 60) // two billing days
	m := s.Player.Mortgages[0]
	assert.InDelta(t, 75000, m.OutstandingBalance, 1e-9)
	assert.InDelta(t, 2*75000*rate/100/12, m.TotalInterestPaid, 1e-9)
	assert.Zero(t, m.TotalPrincipalPaid)
}

func TestMortgageRateReset(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.Market = []property.Listing{testListing("l1", 100000, 100)}
	s = apply(t, e, s, BuyPropertyWithMortgage{
		ListingID: "l1", Type: mortgage.TypeStandard, DepositPercentage: 10, TermYears: 25, FixedPeriodYears: 0,
	})
	before := s.Player.Mortgages[0]

	s.Economy.BaseRate = 2.0
	s, evs := advance(t, e, s, 1)

	after := s.Player.Mortgages[0]
	assert.InDelta(t, 2.0+1.5, after.InterestRate, 1e-9)
	assert.Less(t, after.MonthlyPayment, before.MonthlyPayment)
	assert.Equal(t, 1, countEvents(evs, events.EventTypeMortgageRateReset))
}

func TestPayOffMortgage(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := mortgagedState(t, e, mortgage.TypeStandard, 10)
	id := s.Player.Mortgages[0].ID

	assert.ErrorIs(t, e.Apply(s, PayOffMortgage{MortgageID: id}).Reason, ErrInsufficientFunds)
	assert.ErrorIs(t, e.Apply(s, PayOffMortgage{MortgageID: "nope"}).Reason, ErrNotFound)

	s.Player.Cash = 100000
	s = apply(t, e, s, PayOffMortgage{MortgageID: id})
	assert.Empty(t, s.Player.Mortgages)
	assert.InDelta(t, 10000, s.Player.Cash, 1e-9)
}

func TestRemortgage(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := mortgagedState(t, e, mortgage.TypeStandard, 10)
	pid := s.Player.Properties[0].ID
	old := s.Player.Mortgages[0]

	s = apply(t, e, s, RemortgageProperty{PropertyID: pid, Type: mortgage.TypeStandard, TermYears: 30, FixedPeriodYears: 5})
	require.Len(t, s.Player.Mortgages, 1)
	next := s.Player.Mortgages[0]
	assert.NotEqual(t, old.ID, next.ID)
	assert.Equal(t, pid, next.PropertyID)
	assert.InDelta(t, old.OutstandingBalance, next.OutstandingBalance, 1e-9)
	assert.InDelta(t, 10, next.DepositPercentage, 1e-9)
	assert.Equal(t, 30, next.TermYears)

	s.Player.Mortgages[0].OutstandingBalance = 150000
	assert.ErrorIs(t, e.Apply(s, RemortgageProperty{PropertyID: pid, Type: mortgage.TypeStandard, TermYears: 30, FixedPeriodYears: 5}).Reason, ErrNoEquity)
}

func TestSavingsInterest(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)

	s, evs := advance(t, e, s, 31) // 1 Feb pays January's accrual
	daily := 50000 * (4.0 - 0.5) / 100 / 365
	assert.InDelta(t, 50000+31*daily, s.Player.Cash, 1e-6)
	assert.InDelta(t, 31*daily, s.Player.TotalInterestEarned, 1e-6)
	assert.Zero(t, s.Player.AccruedInterest)
	assert.InDelta(t, s.Player.Cash, s.Savings.Balance, 1e-6)
	assert.Equal(t, 1, countEvents(evs, events.EventTypeInterestPaid))
}

func TestForeclosure(t *testing.T) {
	overdrawn := func(e *Engine) game.State {
		s := blankState(e)
		s.Player.Cash = -1000
		return s
	}

	t.Run("game over after the grace period", func(t *testing.T) {
		e := newTestEngine(NewFixedRandom(neverRoll))
		s, evs := advance(t, e, overdrawn(e), 1)
		require.NotNil(t, s.Foreclosure)
		assert.Equal(t, 30, s.Foreclosure.DaysRemaining)
		assert.True(t, s.GameTime.IsPaused)
		assert.Equal(t, 1, countEvents(evs, events.EventTypeForeclosureWarning))

		s, _ = advance(t, e, s, 29)
		require.Nil(t, s.GameOver)
		assert.Equal(t, 1, s.Foreclosure.DaysRemaining)

		s, evs = advance(t, e, s, 1)
		require.NotNil(t, s.GameOver)
		assert.Equal(t, GameOverReasonForeclosure, s.GameOver.Reason)
		assert.InDelta(t, -1000, s.GameOver.FinalCash, 1e-9)
		assert.Nil(t, s.Foreclosure)
		assert.True(t, s.GameTime.IsPaused)
		assert.Equal(t, 1, countEvents(evs, events.EventTypeGameOver))

		res := e.Apply(s, AdvanceDay{})
		assert.ErrorIs(t, res.Reason, ErrGameOver)
	})

	t.Run("recovery clears the warning", func(t *testing.T) {
		e := newTestEngine(NewFixedRandom(neverRoll))
		s, _ := advance(t, e, overdrawn(e), 10)
		require.NotNil(t, s.Foreclosure)

		s.Player.Cash = 500
		s, evs := advance(t, e, s, 1)
		assert.Nil(t, s.Foreclosure)
		assert.Nil(t, s.GameOver)
		assert.Equal(t, 1, countEvents(evs, events.EventTypeForeclosureResolved))
	})

	t.Run("equity protects an overdraft", func(t *testing.T) {
		e := newTestEngine(NewFixedRandom(neverRoll))
		s := overdrawn(e)
		s.Player.Properties = []property.Property{testProperty("p1", 50000, 100)}

		s, _ = advance(t, e, s, 5)
		assert.Nil(t, s.Foreclosure)
	})
}

func TestEconomy_PhaseTransition(t *testing.T) {
	e := newTestEngine(NewFixedRandom(0))
	s := blankState(e)
	s.Economy.QuartersSincePhaseChange = 2
	s.Player.Properties = []property.Property{testProperty("p1", 100000, 100)}
	s.Market = []property.Listing{testListing("l1", 20000, 100)}

	tx := e.begin(s, events.ActorSystem)
	e.economySystem.OnNewQuarter(tx)
	got := tx.s.Economy

	assert.Equal(t, economy.PhasePeak, got.Phase)
	assert.Zero(t, got.QuartersSincePhaseChange)
	assert.InDelta(t, 1.0, got.TargetInflationRate, 1e-9)
	assert.InDelta(t, 4.0, got.TargetBaseRate, 1e-9)
	assert.InDelta(t, 0.75+0.3*(1.0-0.75), got.InflationRate, 1e-9)
	assert.InDelta(t, 4.0, got.BaseRate, 1e-9)
	assert.Equal(t, []float64{0.75, got.InflationRate}, got.InflationHistory)
	assert.InDelta(t, 100000*(1+got.InflationRate/100), tx.s.Player.Properties[0].BaseValue, 1e-6)
	assert.InDelta(t, 20000*(1+got.InflationRate/100), tx.s.Market[0].BaseValue, 1e-6)
	assert.Equal(t, 1, countEvents(tx.events, events.EventTypePhaseChanged))
}

func TestEconomy_MinimumDwell(t *testing.T) {
	e := newTestEngine(NewFixedRandom(0))
	s := blankState(e)

	tx := e.begin(s, events.ActorSystem)
	e.economySystem.OnNewQuarter(tx)

	assert.Equal(t, economy.PhaseExpansion, tx.s.Economy.Phase)
	assert.Equal(t, 1, tx.s.Economy.QuartersSincePhaseChange)
}

func TestEconomy_BaseRateFloor(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.Economy.BaseRate = 0.12
	s.Economy.TargetBaseRate = 0

	tx := e.begin(s, events.ActorSystem)
	e.economySystem.OnNewQuarter(tx)

	assert.Equal(t, e.Balance().MinBaseRate, tx.s.Economy.BaseRate)
}

func TestEconomy_RunsOnQuarterBoundaryOnly(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.GameTime.CurrentDate = calendar.New(2024, 3, 30)

	s, _ = advance(t, e, s, 1)
	assert.Zero(t, s.Economy.QuartersSincePhaseChange)
	s, _ = advance(t, e, s, 1) // 1 Apr
	assert.Equal(t, 1, s.Economy.QuartersSincePhaseChange)
}

func TestBalanceSheetAnchorAndWin(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.GameTime.CurrentDate = calendar.New(2073, 4, 5)
	s.Player.Cash = 2000000
	s.BalanceSheetHistory = make([]game.OverallBalanceSheet, 49)

	s, evs := advance(t, e, s, 1)

	assert.Len(t, s.BalanceSheetHistory, 50)
	assert.True(t, s.UI.ShowBalanceSheet)
	require.NotNil(t, s.GameWin)
	assert.True(t, s.GameWin.Achieved)
	assert.True(t, s.UI.ShowGameWin)
	assert.True(t, s.GameTime.IsPaused)
	assert.Equal(t, 1, countEvents(evs, events.EventTypeGameWin))

	s = apply(t, e, s, DismissGameWinModal{})
	s = apply(t, e, s, DismissBalanceSheetModal{})
	assert.False(t, s.UI.ShowGameWin)
	assert.False(t, s.UI.ShowBalanceSheet)

	s = apply(t, e, s, OpenPrestigeModal{})
	assert.True(t, s.UI.ShowPrestige)

	s = apply(t, e, s, Prestige{})
	assert.Equal(t, game.Prestige{Level: 1, TotalWins: 1}, s.Prestige)
	assert.Nil(t, s.GameWin)
	assert.InDelta(t, 55000, s.Player.Cash, 1e-9)
	assert.Equal(t, calendar.New(2024, 1, 1), s.GameTime.CurrentDate)
}

func TestBalanceSheetHistoryIsCapped(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.GameTime.CurrentDate = calendar.New(2080, 4, 5)
	s.BalanceSheetHistory = make([]game.OverallBalanceSheet, 50)
	s.GameWin = &game.GameWin{Achieved: false}

	s, evs := advance(t, e, s, 1)

	assert.Len(t, s.BalanceSheetHistory, 50)
	assert.Equal(t, calendar.New(2080, 4, 6), s.BalanceSheetHistory[49].SnapshotDate)
	assert.Zero(t, countEvents(evs, events.EventTypeGameWin))
}

func TestLostGameCannotPrestige(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.GameTime.CurrentDate = calendar.New(2073, 4, 5)
	s.BalanceSheetHistory = make([]game.OverallBalanceSheet, 49)

	s, _ = advance(t, e, s, 1)
	require.NotNil(t, s.GameWin)
	assert.False(t, s.GameWin.Achieved)
	assert.ErrorIs(t, e.Apply(s, Prestige{}).Reason, ErrIneligible)
	assert.ErrorIs(t, e.Apply(s, OpenPrestigeModal{}).Reason, ErrIneligible)
}
