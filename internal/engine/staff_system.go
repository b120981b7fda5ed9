// Package engine - staff_system.go
// Staff System - hiring, experience, payroll and the automation each role
// performs on its assigned properties.
//
// Behaviour is dispatched on staff.Role: estate agents list and reprice
// vacancies, caretakers start repairs.
package engine

import (
	"fmt"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/staff"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// Agent repricing odds, rolled per listed vacancy at each adjustment.
const (
	agentMarkupDownChance = 0.60
	agentMarkupUpChance   = 0.20
	agentLeaseRerollOdds  = 0.30
)

// StaffPayload describes a staff change.
type StaffPayload struct {
	Name     string     `json:"name"`
	Role     staff.Role `json:"role"`
	District string     `json:"district"`
	Salary   float64    `json:"salary"`
	Level    int        `json:"level"`
}

// PayrollPayload records a monthly wage run.
type PayrollPayload struct {
	Amount float64 `json:"amount"`
}

// StaffSystem manages employees.
type StaffSystem struct {
	balance     *config.Balance
	rng         Random
	logger      *logger.Logger
	lettings    *TenancySystem
	maintenance *MaintenanceSystem
}

// NewStaffSystem creates a new staff system.
func NewStaffSystem(b *config.Balance, rng Random, log *logger.Logger, lettings *TenancySystem, maintenance *MaintenanceSystem) *StaffSystem {
	return &StaffSystem{balance: b, rng: rng, logger: log, lettings: lettings, maintenance: maintenance}
}

func (ss *StaffSystem) salaryFor(role staff.Role, district string) float64 {
	tier := property.DistrictTier(district)
	if role == staff.RoleEstateAgent {
		return rules.Salary(tier, ss.balance.AgentSalaries)
	}
	return rules.Salary(tier, ss.balance.CaretakerSalaries)
}

func payload(m *staff.Member) StaffPayload {
	return StaffPayload{Name: m.Name, Role: m.Role, District: m.District, Salary: m.CurrentSalary, Level: m.Level}
}

// lookup returns the member with id, provided it has the expected role.
func (ss *StaffSystem) lookup(t *tx, id string, role staff.Role) (*staff.Member, error) {
	m := t.s.Member(id)
	if m == nil || m.Role != role {
		return nil, ErrNotFound
	}
	return m, nil
}

// Hire adds a level-1 member for a district. Wages are first due on the
// next payroll.
func (ss *StaffSystem) Hire(t *tx, role staff.Role, district string) error {
	if !role.IsValid() || !property.IsDistrict(district) {
		return ErrInvalidArgument
	}
	name := staff.RandomName(ss.rng.Float64(), ss.rng.Float64())
	m := staff.New(t.newID(), name, role, district, ss.salaryFor(role, district), t.today())
	t.s.Staff = append(t.s.Staff, m)
	t.emit(events.EventTypeStaffHired, m.ID, payload(&m))
	return nil
}

// Fire dismisses a member and releases their properties.
func (ss *StaffSystem) Fire(t *tx, id string, role staff.Role) error {
	m, err := ss.lookup(t, id, role)
	if err != nil {
		return err
	}
	p := payload(m)
	ss.remove(t, id)
	t.emit(events.EventTypeStaffFired, id, p)
	return nil
}

// remove drops a member and clears every reference to them.
func (ss *StaffSystem) remove(t *tx, id string) {
	m := t.s.Member(id)
	if m == nil {
		return
	}
	for _, pid := range m.AssignedProperties {
		p := t.s.Property(pid)
		if p == nil {
			continue
		}
		switch m.Role {
		case staff.RoleEstateAgent:
			p.AssignedEstateAgent = ""
			if p.Tenancy == nil {
				p.Unlist()
			}
		case staff.RoleCaretaker:
			// A repair already paid for runs to completion.
			p.AssignedCaretaker = ""
		}
	}
	for i := range t.s.Staff {
		if t.s.Staff[i].ID == id {
			t.s.Staff = append(t.s.Staff[:i], t.s.Staff[i+1:]...)
			return
		}
	}
}

// Promote pays a bonus and raises the member one level once the XP
// threshold is met.
func (ss *StaffSystem) Promote(t *tx, id string, role staff.Role) error {
	m, err := ss.lookup(t, id, role)
	if err != nil {
		return err
	}
	if !rules.CanPromote(m.XP, m.Level, ss.balance.LevelXP) {
		return ErrNotPromotable
	}
	bonus := m.CurrentSalary * ss.balance.PromotionBonusFactor
	if t.s.Player.Cash < bonus {
		return ErrInsufficientFunds
	}
	t.s.Player.Cash -= bonus
	t.s.Stats.TotalStaffWages += bonus
	m.TotalWagesPaid += bonus
	m.Level++
	m.XP = 0
	m.CurrentSalary *= 1 + ss.balance.PromotionRaise
	t.emit(events.EventTypeStaffPromoted, m.ID, payload(m))
	return nil
}

// Assign hands a property to a member of the same district with spare capacity.
// A property already managed by another member of that role is moved.
func (ss *StaffSystem) Assign(t *tx, propertyID, staffID string, role staff.Role) error {
	p := t.s.Property(propertyID)
	if p == nil {
		return ErrNotFound
	}
	m, err := ss.lookup(t, staffID, role)
	if err != nil {
		return err
	}
	if m.District != p.District {
		return ErrDistrictMismatch
	}
	if m.IsAssigned(propertyID) {
		return ErrIneligible
	}
	if len(m.AssignedProperties) >= rules.Capacity(m.Level, ss.balance.LevelCapacity) {
		return ErrAtCapacity
	}

	if prev := currentAssignee(p, role); prev != "" {
		if pm := t.s.Member(prev); pm != nil {
			pm.Unassign(propertyID)
		}
	}
	m.Assign(propertyID)
	if role == staff.RoleEstateAgent {
		p.AssignedEstateAgent = staffID
		ss.lettings.List(t, p)
	} else {
		p.AssignedCaretaker = staffID
	}
	return nil
}

// Unassign releases a property from its member of the given role.
func (ss *StaffSystem) Unassign(t *tx, propertyID string, role staff.Role) error {
	if !role.IsValid() {
		return ErrInvalidArgument
	}
	p := t.s.Property(propertyID)
	if p == nil {
		return ErrNotFound
	}
	id := currentAssignee(p, role)
	if id == "" {
		return ErrIneligible
	}
	if m := t.s.Member(id); m != nil {
		m.Unassign(propertyID)
	}
	if role == staff.RoleEstateAgent {
		p.AssignedEstateAgent = ""
	} else {
		p.AssignedCaretaker = ""
	}
	return nil
}

// ReleaseProperty removes a sold property from every assignment list.
func (ss *StaffSystem) ReleaseProperty(t *tx, propertyID string) {
	for i := range t.s.Staff {
		t.s.Staff[i].Unassign(propertyID)
	}
}

func currentAssignee(p *property.Property, role staff.Role) string {
	if role == staff.RoleEstateAgent {
		return p.AssignedEstateAgent
	}
	return p.AssignedCaretaker
}

// GainExperience awards daily XP for each managed property.
func (ss *StaffSystem) GainExperience(t *tx) {
	for i := range t.s.Staff {
		m := &t.s.Staff[i]
		m.XP = rules.GainXP(m.XP, m.Level, len(m.AssignedProperties), ss.balance.XPPerPropertyPerDay, ss.balance.LevelXP)
	}
}

// RunAgents lists eligible vacancies and periodically reprices them.
func (ss *StaffSystem) RunAgents(t *tx) {
	today := t.today()
	for i := range t.s.Staff {
		m := &t.s.Staff[i]
		if m.Role != staff.RoleEstateAgent || m.Agent == nil {
			continue
		}
		for _, pid := range m.AssignedProperties {
			if p := t.s.Property(pid); p != nil {
				ss.lettings.List(t, p)
			}
		}

		if calendar.DaysBetween(m.Agent.LastAdjustmentCheck, today) < ss.balance.AgentAdjustmentDays {
			continue
		}
		m.Agent.LastAdjustmentCheck = today
		for _, pid := range m.AssignedProperties {
			p := t.s.Property(pid)
			if p == nil || !p.IsListed || p.Tenancy != nil {
				continue
			}
			ss.adjust(p)
		}
	}
}

// adjust nudges the markup of a slow-filling vacancy and sometimes rerolls
// the lease length.
func (ss *StaffSystem) adjust(p *property.Property) {
	vs := &p.VacantSettings
	r := ss.rng.Float64()
	switch {
	case r < agentMarkupDownChance:
		vs.RentMarkup--
	case r < agentMarkupDownChance+agentMarkupUpChance:
		vs.RentMarkup++
	}
	vs.RentMarkup = rules.ClampMarkup(vs.RentMarkup, ss.balance.MinRentMarkup, ss.balance.MaxRentMarkup)

	if chance(ss.rng, agentLeaseRerollOdds) && len(ss.balance.LeaseLengths) > 0 {
		vs.PeriodMonths = ss.balance.LeaseLengths[pickIndex(ss.rng, len(ss.balance.LeaseLengths))]
	}
}

// RunCaretakers starts repairs on worn vacant properties the player can afford.
func (ss *StaffSystem) RunCaretakers(t *tx) {
	for i := range t.s.Staff {
		m := &t.s.Staff[i]
		if m.Role != staff.RoleCaretaker {
			continue
		}
		for _, pid := range m.AssignedProperties {
			p := t.s.Property(pid)
			if p == nil || p.Tenancy != nil || p.Maintenance > ss.balance.CaretakerRepairBelow {
				continue
			}
			ss.maintenance.StartRepair(t, p, m.ID)
		}
	}
}

// Payroll pays every wage plus arrears, or accrues arrears when the player
// cannot cover the whole bill. Members unpaid too long quit.
func (ss *StaffSystem) Payroll(t *tx) {
	if len(t.s.Staff) == 0 {
		return
	}
	total := 0.0
	for _, m := range t.s.Staff {
		total += m.CurrentSalary + m.UnpaidWages
	}

	if t.s.Player.Cash >= total {
		t.s.Player.Cash -= total
		t.s.Stats.TotalStaffWages += total
		for i := range t.s.Staff {
			m := &t.s.Staff[i]
			m.TotalWagesPaid += m.CurrentSalary + m.UnpaidWages
			m.UnpaidWages = 0
			m.MonthsUnpaid = 0
		}
		t.emit(events.EventTypeWagesPaid, "", PayrollPayload{Amount: total})
		return
	}

	t.emit(events.EventTypeWagesMissed, "", PayrollPayload{Amount: total})
	var quitting []string
	for i := range t.s.Staff {
		m := &t.s.Staff[i]
		m.UnpaidWages += m.CurrentSalary
		m.MonthsUnpaid++
		if m.MonthsUnpaid >= ss.balance.UnpaidMonthsToQuit {
			quitting = append(quitting, m.ID)
		}
	}
	for _, id := range quitting {
		m := t.s.Member(id)
		p := payload(m)
		ss.logger.Warn(fmt.Sprintf("%s quit after %d unpaid months", m.Name, m.MonthsUnpaid))
		ss.remove(t, id)
		t.emit(events.EventTypeStaffQuit, id, p)
	}
}

// IndexWages applies a third of positive quarterly inflation to every salary.
// Salaries never fall; Economy.HighestInflationRate only records the peak.
func (ss *StaffSystem) IndexWages(t *tx) {
	infl := t.s.Economy.InflationRate
	if infl <= 0 {
		return
	}
	for i := range t.s.Staff {
		t.s.Staff[i].CurrentSalary = rules.IndexSalary(t.s.Staff[i].CurrentSalary, infl)
	}
}
