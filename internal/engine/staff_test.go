package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/staff"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
)

func testMember(id string, role staff.Role, district string, salary float64) staff.Member {
	return staff.New(id, "Sam Reid", role, district, salary, calendar.New(2024, 1, 1))
}

func TestHireStaff(t *testing.T) {
	e := newTestEngine(NewFixedRandom(0.5))
	s := blankState(e)

	s = apply(t, e, s, HireStaff{Role: staff.RoleEstateAgent, District: "Westbury"})
	require.Len(t, s.Staff, 1)
	m := s.Staff[0]
	assert.Equal(t, 1, m.Level)
	assert.Zero(t, m.XP)
	assert.Equal(t, 2500.0, m.CurrentSalary)
	assert.NotEmpty(t, m.Name)
	require.NotNil(t, m.Agent)

	s = apply(t, e, s, HireStaff{Role: staff.RoleCaretaker, District: "Northside"})
	assert.Equal(t, 1200.0, s.Staff[1].CurrentSalary)
	assert.Nil(t, s.Staff[1].Agent)

	assert.ErrorIs(t, e.Apply(s, HireStaff{Role: staff.RoleCaretaker, District: "Atlantis"}).Reason, ErrInvalidArgument)
	assert.ErrorIs(t, e.Apply(s, HireStaff{Role: "butler", District: "Northside"}).Reason, ErrInvalidArgument)
}

func TestAssignAgentListsProperty(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.Player.Properties = []property.Property{testProperty("p1", 50000, 100)}
	s.Staff = []staff.Member{
		testMember("a1", staff.RoleEstateAgent, "Northside", 1500),
		testMember("a2", staff.RoleEstateAgent, "Riverside", 2000),
	}

	res := e.Apply(s, AssignPropertyToStaff{PropertyID: "p1", StaffID: "a2", Role: staff.RoleEstateAgent})
	assert.ErrorIs(t, res.Reason, ErrDistrictMismatch)

	res = e.Apply(s, AssignPropertyToStaff{PropertyID: "p1", StaffID: "a1", Role: staff.RoleCaretaker})
	assert.ErrorIs(t, res.Reason, ErrNotFound)

	s = apply(t, e, s, AssignPropertyToStaff{PropertyID: "p1", StaffID: "a1", Role: staff.RoleEstateAgent})
	p := s.Player.Properties[0]
	assert.Equal(t, "a1", p.AssignedEstateAgent)
	assert.True(t, p.IsListed)
	assert.Equal(t, []string{"p1"}, s.Staff[0].AssignedProperties)

	s = apply(t, e, s, UnassignProperty{PropertyID: "p1", Role: staff.RoleEstateAgent})
	assert.Empty(t, s.Player.Properties[0].AssignedEstateAgent)
	assert.Empty(t, s.Staff[0].AssignedProperties)
}

func TestAssign_Capacity(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		s.Player.Properties = append(s.Player.Properties, testProperty(id, 50000, 100))
	}
	s.Staff = []staff.Member{testMember("c1", staff.RoleCaretaker, "Northside", 1200)}

	for _, id := range []string{"p1", "p2", "p3"} {
		s = apply(t, e, s, AssignPropertyToStaff{PropertyID: id, StaffID: "c1", Role: staff.RoleCaretaker})
	}
	res := e.Apply(s, AssignPropertyToStaff{PropertyID: "p4", StaffID: "c1", Role: staff.RoleCaretaker})
	assert.ErrorIs(t, res.Reason, ErrAtCapacity)
}

func TestExperienceAndPromotion(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.Player.Properties = []property.Property{testProperty("p1", 50000, 100), testProperty("p2", 50000, 100)}
	m := testMember("c1", staff.RoleCaretaker, "Northside", 1200)
	m.AssignedProperties = []string{"p1", "p2"}
	s.Staff = []staff.Member{m}

	s, _ = advance(t, e, s, 3)
	assert.Equal(t, 6.0, s.Staff[0].XP)

	assert.ErrorIs(t, e.Apply(s, PromoteStaff{StaffID: "c1", Role: staff.RoleCaretaker}).Reason, ErrNotPromotable)

	s.Staff[0].XP = 300
	cash := s.Player.Cash
	s = apply(t, e, s, PromoteStaff{StaffID: "c1", Role: staff.RoleCaretaker})
	got := s.Staff[0]
	assert.Equal(t, 2, got.Level)
	assert.Zero(t, got.XP)
	assert.InDelta(t, 1440, got.CurrentSalary, 1e-9)
	assert.InDelta(t, cash-2400, s.Player.Cash, 1e-9)
}

func TestExperienceIsCappedAtThreshold(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.Player.Properties = []property.Property{testProperty("p1", 50000, 100)}
	m := testMember("c1", staff.RoleCaretaker, "Northside", 1200)
	m.AssignedProperties = []string{"p1"}
	m.XP = 299.5
	s.Staff = []staff.Member{m}

	s, _ = advance(t, e, s, 2)
	assert.Equal(t, 300.0, s.Staff[0].XP)
	assert.Equal(t, 1, s.Staff[0].Level)
}

func TestPayroll(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))

	t.Run("pays wages and arrears", func(t *testing.T) {
		s := blankState(e)
		s.Player.Cash = 10000
		m := testMember("a1", staff.RoleEstateAgent, "Northside", 1500)
		m.UnpaidWages = 1500
		m.MonthsUnpaid = 1
		s.Staff = []staff.Member{m}

		tx := e.begin(s, events.ActorSystem)
		e.staffSystem.Payroll(tx)

		assert.InDelta(t, 7000, tx.s.Player.Cash, 1e-9)
		assert.Zero(t, tx.s.Staff[0].UnpaidWages)
		assert.Zero(t, tx.s.Staff[0].MonthsUnpaid)
		assert.InDelta(t, 3000, tx.s.Staff[0].TotalWagesPaid, 1e-9)
		assert.Equal(t, 1, countEvents(tx.events, events.EventTypeWagesPaid))
	})

	t.Run("all or nothing, then quit", func(t *testing.T) {
		s := blankState(e)
		s.Player.Cash = 100
		p := testProperty("p1", 50000, 100)
		p.AssignedEstateAgent = "a1"
		p.IsListed = true
		s.Player.Properties = []property.Property{p}
		agent := testMember("a1", staff.RoleEstateAgent, "Northside", 1500)
		agent.AssignedProperties = []string{"p1"}
		s.Staff = []staff.Member{agent}

		tx := e.begin(s, events.ActorSystem)
		e.staffSystem.Payroll(tx)
		e.staffSystem.Payroll(tx)
		require.Len(t, tx.s.Staff, 1)
		assert.Equal(t, 2, tx.s.Staff[0].MonthsUnpaid)
		assert.InDelta(t, 3000, tx.s.Staff[0].UnpaidWages, 1e-9)
		assert.InDelta(t, 100, tx.s.Player.Cash, 1e-9)

		e.staffSystem.Payroll(tx)
		assert.Empty(t, tx.s.Staff)
		assert.Empty(t, tx.s.Player.Properties[0].AssignedEstateAgent)
		assert.False(t, tx.s.Player.Properties[0].IsListed)
		assert.Equal(t, 3, countEvents(tx.events, events.EventTypeWagesMissed))
		assert.Equal(t, 1, countEvents(tx.events, events.EventTypeStaffQuit))
	})
}

func TestWageIndexation(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.Staff = []staff.Member{testMember("c1", staff.RoleCaretaker, "Northside", 1200)}

	s.Economy.InflationRate = 0.9
	tx := e.begin(s, events.ActorSystem)
	e.staffSystem.IndexWages(tx)
	assert.InDelta(t, 1200*1.003, tx.s.Staff[0].CurrentSalary, 1e-9)

	tx.s.Economy.InflationRate = -0.4
	e.staffSystem.IndexWages(tx)
	assert.InDelta(t, 1200*1.003, tx.s.Staff[0].CurrentSalary, 1e-9)
}

func TestQuittingCaretakerLeavesPaidRepairRunning(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	s.Player.Cash = 0
	p := testProperty("p1", 100000, 60)
	p.IsUnderMaintenance = true
	started := calendar.New(2024, 1, 1)
	p.MaintenanceStartDate = &started
	p.AssignedCaretaker = "c1"
	s.Player.Properties = []property.Property{p}
	c := testMember("c1", staff.RoleCaretaker, "Northside", 1200)
	c.AssignedProperties = []string{"p1"}
	c.MonthsUnpaid = 2
	s.Staff = []staff.Member{c}

	tx := e.begin(s, events.ActorSystem)
	e.staffSystem.Payroll(tx)

	assert.Empty(t, tx.s.Staff)
	got := tx.s.Player.Properties[0]
	assert.Empty(t, got.AssignedCaretaker)
	assert.True(t, got.IsUnderMaintenance)
	require.NotNil(t, got.MaintenanceStartDate)
	assert.Equal(t, started, *got.MaintenanceStartDate)
}

func TestCaretakerStartsRepairs(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	worn := testProperty("p1", 100000, 85)
	worn.AssignedCaretaker = "c1"
	fine := testProperty("p2", 100000, 95)
	fine.AssignedCaretaker = "c1"
	s.Player.Properties = []property.Property{worn, fine}
	m := testMember("c1", staff.RoleCaretaker, "Northside", 1200)
	m.AssignedProperties = []string{"p1", "p2"}
	s.Staff = []staff.Member{m}

	s, evs := advance(t, e, s, 1)

	assert.True(t, s.Player.Properties[0].IsUnderMaintenance)
	assert.False(t, s.Player.Properties[1].IsUnderMaintenance)
	assert.InDelta(t, 50000-1500, s.Player.Cash, 1e-9)
	assert.Equal(t, 1, countEvents(evs, events.EventTypeRepairStarted))
}

func TestAgentAdjustsSlowListings(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	p := testProperty("p1", 50000, 100)
	p.AssignedEstateAgent = "a1"
	p.IsListed = true
	p.VacantSettings = property.VacantSettings{RentMarkup: 6, PeriodMonths: 12}
	s.Player.Properties = []property.Property{p}
	agent := testMember("a1", staff.RoleEstateAgent, "Northside", 1500)
	agent.AssignedProperties = []string{"p1"}
	agent.Agent.LastAdjustmentCheck = calendar.New(2023, 12, 1)
	s.Staff = []staff.Member{agent}

	tx := e.begin(s, events.ActorSystem)
	// 0.1 rolls: markup down, lease reroll to the first length.
	e.staffSystem.rng = NewFixedRandom(0.1)
	e.staffSystem.RunAgents(tx)

	got := tx.s.Player.Properties[0].VacantSettings
	assert.Equal(t, 5, got.RentMarkup)
	assert.Equal(t, 6, got.PeriodMonths)
	assert.Equal(t, calendar.New(2024, 1, 1), tx.s.Staff[0].Agent.LastAdjustmentCheck)
}

func TestFireStaffReleasesProperties(t *testing.T) {
	e := newTestEngine(NewFixedRandom(neverRoll))
	s := blankState(e)
	p := testProperty("p1", 50000, 100)
	p.AssignedCaretaker = "c1"
	s.Player.Properties = []property.Property{p}
	m := testMember("c1", staff.RoleCaretaker, "Northside", 1200)
	m.AssignedProperties = []string{"p1"}
	s.Staff = []staff.Member{m}

	assert.ErrorIs(t, e.Apply(s, FireStaff{StaffID: "c1", Role: staff.RoleEstateAgent}).Reason, ErrNotFound)

	s = apply(t, e, s, FireStaff{StaffID: "c1", Role: staff.RoleCaretaker})
	assert.Empty(t, s.Staff)
	assert.Empty(t, s.Player.Properties[0].AssignedCaretaker)
}

func TestSoldPropertyLeavesAssignments(t *testing.T) {
	e := newTestEngine(NewFixedRandom(0))
	s := blankState(e)
	p := testProperty("p1", 50000, 100)
	p.AssignedCaretaker = "c1"
	p.SaleInfo = &property.SaleInfo{AskingPercentage: 100}
	s.Player.Properties = []property.Property{p}
	m := testMember("c1", staff.RoleCaretaker, "Northside", 1200)
	m.AssignedProperties = []string{"p1"}
	s.Staff = []staff.Member{m}

	s, _ = advance(t, e, s, 1)

	assert.Empty(t, s.Player.Properties)
	assert.Empty(t, s.Staff[0].AssignedProperties)
}
