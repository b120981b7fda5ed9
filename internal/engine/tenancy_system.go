// Package engine - tenancy_system.go
// Tenancy System - fills vacancies, collects rent and ends leases.
package engine

import (
	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// TenancyPayload describes a lease.
type TenancyPayload struct {
	RentMarkup   int           `json:"rent_markup"`
	PeriodMonths int           `json:"period_months"`
	EndDate      calendar.Date `json:"end_date"`
	MonthlyRent  float64       `json:"monthly_rent"`
}

// RentPayload records one month of rent from one property.
type RentPayload struct {
	Amount float64 `json:"amount"`
}

// TenancySystem runs the letting side of the portfolio.
type TenancySystem struct {
	balance *config.Balance
	rng     Random
	logger  *logger.Logger
}

// NewTenancySystem creates a new tenancy system.
func NewTenancySystem(b *config.Balance, rng Random, log *logger.Logger) *TenancySystem {
	return &TenancySystem{balance: b, rng: rng, logger: log}
}

// AttemptFills rolls once per listed vacancy, agent-managed properties first.
func (ts *TenancySystem) AttemptFills(t *tx) {
	props := t.s.Player.Properties
	for pass := 0; pass < 2; pass++ {
		managed := pass == 0
		for i := range props {
			p := &props[i]
			if (p.AssignedEstateAgent != "") != managed {
				continue
			}
			if !p.IsListed || !rules.CanBeLetOut(p, ts.balance.MinLettableCondition) {
				continue
			}
			fill := rules.FillChance(p.VacantSettings.RentMarkup, ts.balance.FillChanceExponent, t.s.AverageRating(p.AreaID))
			if chance(ts.rng, fill) {
				ts.startTenancy(t, p)
			}
		}
	}
}

func (ts *TenancySystem) startTenancy(t *tx, p *property.Property) {
	today := t.today()
	p.Tenancy = &property.Tenancy{
		RentMarkup:         p.VacantSettings.RentMarkup,
		PeriodMonths:       p.VacantSettings.PeriodMonths,
		StartDate:          today,
		EndDate:            calendar.AddMonths(today, p.VacantSettings.PeriodMonths),
		MarketValueAtStart: rules.MarketValue(p.BaseValue, p.Maintenance),
		BaseRateAtStart:    t.s.Economy.BaseRate,
	}
	p.Unlist()
	t.emit(events.EventTypeTenancyStarted, p.ID, TenancyPayload{
		RentMarkup:   p.Tenancy.RentMarkup,
		PeriodMonths: p.Tenancy.PeriodMonths,
		EndDate:      p.Tenancy.EndDate,
		MonthlyRent:  rules.MonthlyRent(p.Tenancy),
	})
}

// CollectRent pays one month of rent for every occupied property.
func (ts *TenancySystem) CollectRent(t *tx) {
	for i := range t.s.Player.Properties {
		p := &t.s.Player.Properties[i]
		if p.Tenancy == nil {
			continue
		}
		rent := rules.MonthlyRent(p.Tenancy)
		t.s.Player.Cash += rent
		p.TotalIncomeEarned += rent
		t.s.Stats.TotalRentCollected += rent
		t.emit(events.EventTypeRentCollected, p.ID, RentPayload{Amount: rent})
	}
}

// ExpireTenancies ends leases whose end date has been reached.
func (ts *TenancySystem) ExpireTenancies(t *tx) {
	today := t.today()
	for i := range t.s.Player.Properties {
		p := &t.s.Player.Properties[i]
		if p.Tenancy == nil || !calendar.IsAfterOrEqual(today, p.Tenancy.EndDate) {
			continue
		}
		p.Tenancy = nil
		p.Unlist()
		p.VacantSettings.RentMarkup = t.s.Settings.DefaultRentMarkup
		t.emit(events.EventTypeTenancyEnded, p.ID, nil)
	}
}

// List puts p on the rental market if it can take a tenant.
func (ts *TenancySystem) List(t *tx, p *property.Property) bool {
	if p.IsListed || !rules.CanBeLetOut(p, ts.balance.MinLettableCondition) {
		return false
	}
	today := t.today()
	p.IsListed = true
	p.ListedDate = &today
	t.emit(events.EventTypePropertyListed, p.ID, p.VacantSettings)
	return true
}

// ListNow handles an explicit request to advertise a vacancy.
func (ts *TenancySystem) ListNow(t *tx, propertyID string) error {
	p := t.s.Property(propertyID)
	if p == nil {
		return ErrNotFound
	}
	if !ts.List(t, p) {
		return ErrIneligible
	}
	return nil
}

// SetVacantSettings changes the terms offered at the next letting.
func (ts *TenancySystem) SetVacantSettings(t *tx, propertyID string, markup, months int) error {
	if markup < ts.balance.MinRentMarkup || markup > ts.balance.MaxRentMarkup {
		return ErrInvalidArgument
	}
	if !rules.ValidLease(months, ts.balance.LeaseLengths) {
		return ErrInvalidArgument
	}
	p := t.s.Property(propertyID)
	if p == nil {
		return ErrNotFound
	}
	p.VacantSettings = property.VacantSettings{RentMarkup: markup, PeriodMonths: months}
	return nil
}

// SetDefaultMarkup changes the markup restored when a lease ends.
func (ts *TenancySystem) SetDefaultMarkup(t *tx, markup int) error {
	if markup < ts.balance.MinRentMarkup || markup > ts.balance.MaxRentMarkup {
		return ErrInvalidArgument
	}
	t.s.Settings.DefaultRentMarkup = markup
	return nil
}
