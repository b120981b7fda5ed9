// Package engine - mortgage_system.go
// Mortgage System - origination, monthly billing, variable-rate resets,
// payoff and remortgage.
package engine

import (
	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/mortgage"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// MortgagePayload describes a loan event.
type MortgagePayload struct {
	PropertyID     string  `json:"property_id,omitempty"`
	Rate           float64 `json:"rate"`
	Balance        float64 `json:"balance"`
	MonthlyPayment float64 `json:"monthly_payment"`
	Interest       float64 `json:"interest,omitempty"`
	Principal      float64 `json:"principal,omitempty"`
}

// Terms are the choices made when taking out a loan.
type Terms struct {
	Type             mortgage.Type
	DepositPct       float64
	TermYears        int
	FixedPeriodYears int
}

// MortgageSystem manages the player's loans.
type MortgageSystem struct {
	balance *config.Balance
	logger  *logger.Logger
}

// NewMortgageSystem creates a new mortgage system.
func NewMortgageSystem(b *config.Balance, log *logger.Logger) *MortgageSystem {
	return &MortgageSystem{balance: b, logger: log}
}

// validate checks terms against the products on offer.
func (ms *MortgageSystem) validate(terms Terms) error {
	if terms.Type != mortgage.TypeStandard && terms.Type != mortgage.TypeBuyToLet {
		return ErrInvalidArgument
	}
	if terms.TermYears < ms.balance.MinTermYears || terms.TermYears > ms.balance.MaxTermYears {
		return ErrInvalidArgument
	}
	if !rules.ValidFixedPeriod(terms.FixedPeriodYears, ms.balance.FixedPeriods) {
		return ErrInvalidArgument
	}
	if !(terms.DepositPct > 0 && terms.DepositPct < 100) {
		return ErrInvalidArgument
	}
	if terms.Type == mortgage.TypeBuyToLet && terms.DepositPct < ms.balance.BuyToLetMinDeposit {
		return ErrIneligible
	}
	return nil
}

// originate builds a loan for propertyID priced off today's base rate.
func (ms *MortgageSystem) originate(t *tx, propertyID string, loan float64, terms Terms) mortgage.Mortgage {
	today := t.today()
	rate := rules.InterestRate(t.s.Economy.BaseRate, terms.DepositPct, terms.Type, ms.balance.DepositPremiums, ms.balance.BuyToLetPremium)
	return mortgage.Mortgage{
		ID:                 t.newID(),
		PropertyID:         propertyID,
		Type:               terms.Type,
		DepositPercentage:  terms.DepositPct,
		TermYears:          terms.TermYears,
		FixedPeriodYears:   terms.FixedPeriodYears,
		FixedPeriodEndDate: calendar.AddMonths(today, terms.FixedPeriodYears*12),
		StartDate:          today,
		InterestRate:       rate,
		OriginalLoanAmount: loan,
		OutstandingBalance: loan,
		MonthlyPayment:     rules.MonthlyPayment(loan, rate, terms.TermYears*12, terms.Type),
	}
}

func mortgagePayload(m *mortgage.Mortgage) MortgagePayload {
	return MortgagePayload{PropertyID: m.PropertyID, Rate: m.InterestRate, Balance: m.OutstandingBalance, MonthlyPayment: m.MonthlyPayment}
}

// ResetRates reprices every loan past its fixed period from the live base rate.
func (ms *MortgageSystem) ResetRates(t *tx) {
	today := t.today()
	for i := range t.s.Player.Mortgages {
		m := &t.s.Player.Mortgages[i]
		if !calendar.IsAfterOrEqual(today, m.FixedPeriodEndDate) {
			continue
		}
		rate := rules.InterestRate(t.s.Economy.BaseRate, m.DepositPercentage, m.Type, ms.balance.DepositPremiums, ms.balance.BuyToLetPremium)
		if rate == m.InterestRate {
			continue
		}
		m.InterestRate = rate
		m.MonthlyPayment = rules.MonthlyPayment(m.OutstandingBalance, rate, m.RemainingPayments(), m.Type)
		t.emit(events.EventTypeMortgageRateReset, m.ID, mortgagePayload(m))
	}
}

// Bill takes one month's payment for every loan, even when it overdraws the
// player, then drops loans that have been cleared.
func (ms *MortgageSystem) Bill(t *tx) {
	for i := range t.s.Player.Mortgages {
		m := &t.s.Player.Mortgages[i]
		inst := rules.NextInstallment(m)
		t.s.Player.Cash -= inst.Total()
		m.OutstandingBalance -= inst.Principal
		m.TotalInterestPaid += inst.Interest
		m.TotalPrincipalPaid += inst.Principal
		m.PaymentsMade++
		t.s.Stats.TotalMortgageInterest += inst.Interest

		p := mortgagePayload(m)
		p.Interest = inst.Interest
		p.Principal = inst.Principal
		t.emit(events.EventTypeMortgageBilled, m.ID, p)
	}
	ms.cleanup(t)
}

func (ms *MortgageSystem) cleanup(t *tx) {
	kept := t.s.Player.Mortgages[:0]
	for _, m := range t.s.Player.Mortgages {
		if m.IsRepaid() {
			t.emit(events.EventTypeMortgageRepaid, m.ID, MortgagePayload{PropertyID: m.PropertyID})
			continue
		}
		kept = append(kept, m)
	}
	t.s.Player.Mortgages = kept
}

// PayOff clears a loan from cash in one go.
func (ms *MortgageSystem) PayOff(t *tx, mortgageID string) error {
	for i := range t.s.Player.Mortgages {
		m := &t.s.Player.Mortgages[i]
		if m.ID != mortgageID {
			continue
		}
		if t.s.Player.Cash < m.OutstandingBalance {
			return ErrInsufficientFunds
		}
		t.s.Player.Cash -= m.OutstandingBalance
		m.TotalPrincipalPaid += m.OutstandingBalance
		m.OutstandingBalance = 0
		t.emit(events.EventTypeMortgageRepaid, m.ID, MortgagePayload{PropertyID: m.PropertyID})
		t.s.Player.Mortgages = append(t.s.Player.Mortgages[:i], t.s.Player.Mortgages[i+1:]...)
		return nil
	}
	return ErrNotFound
}

// Remortgage replaces a property's loan with a new product on today's
// rates. The whole current equity counts as the deposit and the balance
// carries over.
func (ms *MortgageSystem) Remortgage(t *tx, c RemortgageProperty) error {
	p := t.s.Property(c.PropertyID)
	if p == nil {
		return ErrNotFound
	}
	old := t.s.MortgageFor(p.ID)
	if old == nil {
		return ErrIneligible
	}
	value := rules.MarketValue(p.BaseValue, p.Maintenance)
	equity := value - old.OutstandingBalance
	if equity <= 0 || value <= 0 {
		return ErrNoEquity
	}
	terms := Terms{
		Type:             c.Type,
		DepositPct:       equity / value * 100,
		TermYears:        c.TermYears,
		FixedPeriodYears: c.FixedPeriodYears,
	}
	if err := ms.validate(terms); err != nil {
		return err
	}

	next := ms.originate(t, p.ID, old.OutstandingBalance, terms)
	*old = next
	t.emit(events.EventTypeMortgageTaken, next.ID, mortgagePayload(&next))
	return nil
}

// buyWithMortgage pays the deposit from cash and borrows the remainder.
func (e *Engine) buyWithMortgage(t *tx, c BuyPropertyWithMortgage) error {
	terms := Terms{
		Type:             c.Type,
		DepositPct:       c.DepositPercentage,
		TermYears:        c.TermYears,
		FixedPeriodYears: c.FixedPeriodYears,
	}
	if err := e.mortgageSystem.validate(terms); err != nil {
		return err
	}
	i := e.marketSystem.findListing(t.s.Market, c.ListingID)
	if i < 0 {
		return ErrNotFound
	}
	l := t.s.Market[i]
	price := rules.MarketValue(l.BaseValue, l.Maintenance)
	deposit := price * terms.DepositPct / 100
	if t.s.Player.Cash < deposit {
		return ErrInsufficientFunds
	}

	t.s.Market = append(t.s.Market[:i], t.s.Market[i+1:]...)
	m := e.mortgageSystem.originate(t, "", price-deposit, terms)
	p := e.marketSystem.acquire(t, l.Valuation, price, deposit, PurchasePayload{Source: "market", Mortgage: m.ID})
	m.PropertyID = p.ID
	t.s.Player.Mortgages = append(t.s.Player.Mortgages, m)
	t.emit(events.EventTypeMortgageTaken, m.ID, mortgagePayload(&m))
	return nil
}
