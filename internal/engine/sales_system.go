// Package engine - sales_system.go
// Sales System - for-sale listings of owned properties and the daily sale roll.
package engine

import (
	"fmt"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// SalePayload records a completed sale.
type SalePayload struct {
	SalePrice      float64 `json:"sale_price"`
	PurchasePrice  float64 `json:"purchase_price"`
	MortgageRepaid float64 `json:"mortgage_repaid"`
	DaysOwned      int     `json:"days_owned"`
	DaysListed     int     `json:"days_listed"`
}

// SalesSystem sells owned properties.
type SalesSystem struct {
	balance *config.Balance
	rng     Random
	logger  *logger.Logger
	staff   *StaffSystem
}

// NewSalesSystem creates a new sales system. Sold properties are released
// from staff through staffSystem.
func NewSalesSystem(b *config.Balance, rng Random, log *logger.Logger, staffSystem *StaffSystem) *SalesSystem {
	return &SalesSystem{balance: b, rng: rng, logger: log, staff: staffSystem}
}

// List puts a vacant, idle property up for sale at pct of market value. A
// rental listing is withdrawn.
func (ss *SalesSystem) List(t *tx, propertyID string, pct float64) error {
	if !rules.ValidAskingPercentage(pct) {
		return ErrInvalidArgument
	}
	p := t.s.Property(propertyID)
	if p == nil {
		return ErrNotFound
	}
	if p.Tenancy != nil || p.IsUnderMaintenance || p.SaleInfo != nil {
		return ErrIneligible
	}
	p.Unlist()
	p.SaleInfo = &property.SaleInfo{
		AskingPercentage: pct,
		AskingPrice:      rules.MarketValue(p.BaseValue, p.Maintenance) * pct / 100,
		ListedDate:       t.today(),
	}
	return nil
}

// Cancel withdraws a sale listing.
func (ss *SalesSystem) Cancel(t *tx, propertyID string) error {
	p := t.s.Property(propertyID)
	if p == nil {
		return ErrNotFound
	}
	if p.SaleInfo == nil {
		return ErrIneligible
	}
	p.SaleInfo = nil
	return nil
}

// ProcessSales rolls once per listing. The asking price follows the current
// market value; invalid percentages are reset to 100.
func (ss *SalesSystem) ProcessSales(t *tx) {
	var sold []string
	for i := range t.s.Player.Properties {
		p := &t.s.Player.Properties[i]
		if p.SaleInfo == nil {
			continue
		}
		si := p.SaleInfo
		si.DaysListed++
		if !rules.ValidAskingPercentage(si.AskingPercentage) {
			ss.logger.Warn(fmt.Sprintf("invalid asking percentage %v on %s, reset to %d", si.AskingPercentage, p.ID, rules.DefaultAskingPercentage))
			si.AskingPercentage = rules.DefaultAskingPercentage
		}
		si.AskingPrice = rules.MarketValue(p.BaseValue, p.Maintenance) * si.AskingPercentage / 100

		if chance(ss.rng, rules.SaleChance(si.AskingPercentage, ss.balance.SaleBaseChance, ss.balance.SalePriceElasticity)) {
			sold = append(sold, p.ID)
		}
	}
	for _, id := range sold {
		ss.complete(t, id)
	}
}

// complete settles a sale: proceeds repay the mortgage first. If they fall
// short the loan outlives the property.
func (ss *SalesSystem) complete(t *tx, propertyID string) {
	p := t.s.Property(propertyID)
	price := p.SaleInfo.AskingPrice

	repaid, interest := 0.0, 0.0
	if m := t.s.MortgageFor(p.ID); m != nil {
		interest = m.TotalInterestPaid
		if price >= m.OutstandingBalance {
			repaid = m.OutstandingBalance
		} else {
			repaid = price
			ss.logger.Warn(fmt.Sprintf("sale of %s left %.2f of mortgage %s outstanding", p.ID, m.OutstandingBalance-price, m.ID))
		}
		m.OutstandingBalance -= repaid
		m.TotalPrincipalPaid += repaid
		m.PropertyID = ""
		if m.IsRepaid() {
			m.OutstandingBalance = 0
		}
	}
	t.s.Player.Cash += price - repaid

	today := t.today()
	t.s.Player.PropertySales = append(t.s.Player.PropertySales, property.Sale{
		PropertyID:            p.ID,
		Name:                  p.Name,
		PurchasePrice:         p.PurchasePrice,
		PurchaseDate:          p.PurchaseDate,
		SalePrice:             price,
		SaleDate:              today,
		TotalRentIncome:       p.TotalIncomeEarned,
		TotalMaintenancePaid:  p.TotalMaintenancePaid,
		TotalMortgageInterest: interest,
		MortgageRepaid:        repaid,
	})
	t.emit(events.EventTypePropertySold, p.ID, SalePayload{
		SalePrice:      price,
		PurchasePrice:  p.PurchasePrice,
		MortgageRepaid: repaid,
		DaysOwned:      ownedSince(p, today),
		DaysListed:     p.SaleInfo.DaysListed,
	})

	ss.staff.ReleaseProperty(t, p.ID)
	t.s.RemoveProperty(p.ID)
	ss.dropRepaid(t)
}

func (ss *SalesSystem) dropRepaid(t *tx) {
	kept := t.s.Player.Mortgages[:0]
	for _, m := range t.s.Player.Mortgages {
		if m.OutstandingBalance > 0 {
			kept = append(kept, m)
		}
	}
	t.s.Player.Mortgages = kept
}
