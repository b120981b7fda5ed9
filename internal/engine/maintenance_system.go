// Package engine - maintenance_system.go
// Maintenance System - condition decay and month-long repairs.
package engine

import (
	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// RepairPayload records a repair being paid for.
type RepairPayload struct {
	Cost        float64       `json:"cost"`
	Condition   float64       `json:"condition"`
	CompletesOn calendar.Date `json:"completes_on"`
	ByCaretaker string        `json:"caretaker_id,omitempty"`
}

// MaintenanceSystem tracks property condition.
type MaintenanceSystem struct {
	balance  *config.Balance
	logger   *logger.Logger
	lettings *TenancySystem
}

// NewMaintenanceSystem creates a new maintenance system. Completed repairs on
// agent-managed properties are handed to lettings for relisting.
func NewMaintenanceSystem(b *config.Balance, log *logger.Logger, lettings *TenancySystem) *MaintenanceSystem {
	return &MaintenanceSystem{balance: b, logger: log, lettings: lettings}
}

// Cost returns what a full repair of p costs today.
func (ms *MaintenanceSystem) Cost(p *property.Property) float64 {
	return rules.MaintenanceCost(p.BaseValue, p.Maintenance, ms.balance.MaintenanceCostRatio)
}

// canRepair reports whether p is vacant, idle and below full condition.
func (ms *MaintenanceSystem) canRepair(p *property.Property) bool {
	return !p.IsUnderMaintenance && p.Tenancy == nil && p.SaleInfo == nil && p.Maintenance < 100
}

// StartRepair pays for and begins a repair. It reports false without side
// effects when p is ineligible or unaffordable.
func (ms *MaintenanceSystem) StartRepair(t *tx, p *property.Property, caretakerID string) bool {
	if !ms.canRepair(p) {
		return false
	}
	cost := ms.Cost(p)
	if t.s.Player.Cash < cost {
		return false
	}
	today := t.today()
	t.s.Player.Cash -= cost
	t.s.Stats.TotalMaintenancePaid += cost
	p.TotalMaintenancePaid += cost
	p.IsUnderMaintenance = true
	p.MaintenanceStartDate = &today
	p.Unlist()
	t.emit(events.EventTypeRepairStarted, p.ID, RepairPayload{
		Cost:        cost,
		Condition:   p.Maintenance,
		CompletesOn: calendar.AddMonths(today, 1),
		ByCaretaker: caretakerID,
	})
	return true
}

// CarryOut handles an explicit repair order from the player.
func (ms *MaintenanceSystem) CarryOut(t *tx, propertyID string) error {
	p := t.s.Property(propertyID)
	if p == nil {
		return ErrNotFound
	}
	if !ms.canRepair(p) {
		return ErrIneligible
	}
	if t.s.Player.Cash < ms.Cost(p) {
		return ErrInsufficientFunds
	}
	ms.StartRepair(t, p, "")
	return nil
}

// CompleteRepairs finishes every repair that started a calendar month ago.
// It runs daily, not only on month boundaries.
func (ms *MaintenanceSystem) CompleteRepairs(t *tx) {
	today := t.today()
	for i := range t.s.Player.Properties {
		p := &t.s.Player.Properties[i]
		if !p.IsUnderMaintenance || p.MaintenanceStartDate == nil {
			continue
		}
		if !calendar.IsAfterOrEqual(today, calendar.AddMonths(*p.MaintenanceStartDate, 1)) {
			continue
		}
		p.Maintenance = 100
		p.IsUnderMaintenance = false
		p.MaintenanceStartDate = nil
		t.emit(events.EventTypeRepairCompleted, p.ID, nil)

		if p.AssignedEstateAgent != "" {
			ms.lettings.List(t, p)
		}
	}
}

// Decay wears every property down by one month: tenants wear faster.
func (ms *MaintenanceSystem) Decay(t *tx) {
	for i := range t.s.Player.Properties {
		p := &t.s.Player.Properties[i]
		switch {
		case p.Tenancy != nil:
			p.Maintenance = rules.ClampMaintenance(p.Maintenance - ms.balance.OccupiedDecayPerMonth)
		case !p.IsUnderMaintenance:
			p.Maintenance = rules.ClampMaintenance(p.Maintenance - ms.balance.VacantDecayPerMonth)
		}
	}
}
