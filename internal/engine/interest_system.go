// Package engine - interest_system.go
// Interest System - savings interest on positive cash, accrued daily and
// paid monthly, alongside an untouched-savings comparison baseline.
package engine

import (
	"math"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

const daysPerYear = 365

// InterestPayload records a monthly interest payment.
type InterestPayload struct {
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
}

// InterestSystem pays interest on cash.
type InterestSystem struct {
	balance *config.Balance
	logger  *logger.Logger
}

// NewInterestSystem creates a new interest system.
func NewInterestSystem(b *config.Balance, log *logger.Logger) *InterestSystem {
	return &InterestSystem{balance: b, logger: log}
}

// SavingsRate is the annual percentage paid on positive balances.
func (is *InterestSystem) SavingsRate(baseRate float64) float64 {
	return math.Max(0, baseRate-is.balance.SavingsMargin)
}

// Accrue adds one day of interest on positive cash and on the baseline.
func (is *InterestSystem) Accrue(t *tx) {
	daily := is.SavingsRate(t.s.Economy.BaseRate) / 100 / daysPerYear
	if t.s.Player.Cash > 0 {
		t.s.Player.AccruedInterest += t.s.Player.Cash * daily
	}
	if t.s.Savings.Balance > 0 {
		t.s.Savings.Accrued += t.s.Savings.Balance * daily
	}
}

// PayOut credits the month's accrued interest.
func (is *InterestSystem) PayOut(t *tx) {
	amount := t.s.Player.AccruedInterest
	t.s.Player.Cash += amount
	t.s.Player.TotalInterestEarned += amount
	t.s.Player.AccruedInterest = 0

	t.s.Savings.Balance += t.s.Savings.Accrued
	t.s.Savings.Accrued = 0

	if amount > 0 {
		t.emit(events.EventTypeInterestPaid, "", InterestPayload{Amount: amount, Rate: is.SavingsRate(t.s.Economy.BaseRate)})
	}
}
