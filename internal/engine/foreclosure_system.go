// Package engine - foreclosure_system.go
// Foreclosure System - lifetime peaks and the insolvency countdown.
package engine

import (
	"fmt"
	"math"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// GameOverReasonForeclosure is recorded when the grace period runs out.
const GameOverReasonForeclosure = "foreclosure"

// ForeclosureSystem watches solvency.
type ForeclosureSystem struct {
	balance *config.Balance
	logger  *logger.Logger
}

// NewForeclosureSystem creates a new foreclosure system.
func NewForeclosureSystem(b *config.Balance, log *logger.Logger) *ForeclosureSystem {
	return &ForeclosureSystem{balance: b, logger: log}
}

// TrackPeaks updates the high-water marks reported at game over.
func (fs *ForeclosureSystem) TrackPeaks(t *tx) {
	st := &t.s.Stats
	st.PeakNetWorth = math.Max(st.PeakNetWorth, t.s.NetWorth())
	st.PeakPropertyCount = max(st.PeakPropertyCount, len(t.s.Player.Properties))
}

// Exposure returns the overdraft and the property equity it is measured against.
func Exposure(s *game.State) (debt, equity float64) {
	debt = math.Max(0, -s.Player.Cash)
	equity = s.PropertyValue() - s.MortgageDebt()
	return debt, equity
}

func (fs *ForeclosureSystem) atRisk(debt, equity float64) bool {
	return debt > 0 && debt >= fs.balance.ForeclosureRatio*equity
}

// Check starts, advances or cancels the foreclosure countdown.
func (fs *ForeclosureSystem) Check(t *tx) {
	debt, equity := Exposure(t.s)
	risk := fs.atRisk(debt, equity)

	f := t.s.Foreclosure
	switch {
	case f == nil && risk:
		t.s.Foreclosure = &game.Foreclosure{
			StartDate:     t.today(),
			DaysRemaining: fs.balance.ForeclosureGraceDays,
			Debt:          debt,
			Equity:        equity,
		}
		t.s.GameTime.IsPaused = true
		fs.logger.Warn(fmt.Sprintf("foreclosure warning: debt %s against equity %s, %d days to recover",
			game.FormatCurrency(debt), game.FormatCurrency(equity), fs.balance.ForeclosureGraceDays))
		t.emit(events.EventTypeForeclosureWarning, "", *t.s.Foreclosure)

	case f != nil && !risk:
		t.s.Foreclosure = nil
		fs.logger.Info("foreclosure warning cleared")
		t.emit(events.EventTypeForeclosureResolved, "", nil)

	case f != nil:
		f.DaysRemaining--
		f.Debt, f.Equity = debt, equity
		if f.DaysRemaining <= 0 {
			fs.gameOver(t)
		}
	}
}

func (fs *ForeclosureSystem) gameOver(t *tx) {
	s := t.s
	over := &game.GameOver{
		Date:                  t.today(),
		Reason:                GameOverReasonForeclosure,
		DaysPlayed:            s.GameTime.DaysPlayed,
		PeakNetWorth:          s.Stats.PeakNetWorth,
		PeakPropertyCount:     s.Stats.PeakPropertyCount,
		FinalNetWorth:         s.NetWorth(),
		FinalCash:             s.Player.Cash,
		TotalRentIncome:       s.Stats.TotalRentCollected,
		TotalMaintenancePaid:  s.Stats.TotalMaintenancePaid,
		TotalMortgageInterest: s.Stats.TotalMortgageInterest,
		TotalStaffWages:       s.Stats.TotalStaffWages,
		PropertiesSold:        len(s.Player.PropertySales),
	}
	s.GameOver = over
	s.Foreclosure = nil
	s.GameTime.IsPaused = true
	fs.logger.Error(fmt.Sprintf("game over after %d days: foreclosure", over.DaysPlayed))
	t.emit(events.EventTypeGameOver, "", *over)
}
