// Package staff defines the employees a landlord can hire.
// This package is PURE and must NOT import any infrastructure packages.
//
// Staff is a tagged union: every member shares Member's fields and Role
// selects the variant. Only estate agents carry AgentInfo.
package staff

import "github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"

// Role selects the staff variant.
type Role string

const (
	RoleEstateAgent Role = "estateAgent"
	RoleCaretaker   Role = "caretaker"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleEstateAgent || r == RoleCaretaker
}

// AgentInfo holds estate-agent specific state.
type AgentInfo struct {
	LastAdjustmentCheck calendar.Date `json:"lastAdjustmentCheck"`
}

// Member is one employee.
type Member struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Role               Role          `json:"type"`
	District           string        `json:"district"`
	BaseSalary         float64       `json:"baseSalary"`
	CurrentSalary      float64       `json:"currentSalary"`
	Level              int           `json:"experienceLevel"`
	XP                 float64       `json:"experiencePoints"`
	AssignedProperties []string      `json:"assignedProperties"`
	HiredDate          calendar.Date `json:"hiredDate"`
	UnpaidWages        float64       `json:"unpaidWages"`
	MonthsUnpaid       int           `json:"monthsUnpaid"`
	TotalWagesPaid     float64       `json:"totalWagesPaid"`

	Agent *AgentInfo `json:"agent,omitempty"`
}

// New creates a level-1 member of the given role.
func New(id, name string, role Role, district string, salary float64, hired calendar.Date) Member {
	m := Member{
		ID:                 id,
		Name:               name,
		Role:               role,
		District:           district,
		BaseSalary:         salary,
		CurrentSalary:      salary,
		Level:              1,
		AssignedProperties: []string{},
		HiredDate:          hired,
	}
	if role == RoleEstateAgent {
		m.Agent = &AgentInfo{LastAdjustmentCheck: hired}
	}
	return m
}

// Clone returns a deep copy.
func (m Member) Clone() Member {
	c := m
	c.AssignedProperties = append([]string(nil), m.AssignedProperties...)
	if m.Agent != nil {
		a := *m.Agent
		c.Agent = &a
	}
	return c
}

// IsAssigned reports whether propertyID is managed by m.
func (m *Member) IsAssigned(propertyID string) bool {
	for _, id := range m.AssignedProperties {
		if id == propertyID {
			return true
		}
	}
	return false
}

// Assign adds propertyID to the assignment list.
func (m *Member) Assign(propertyID string) {
	if !m.IsAssigned(propertyID) {
		m.AssignedProperties = append(m.AssignedProperties, propertyID)
	}
}

// Unassign removes propertyID from the assignment list.
func (m *Member) Unassign(propertyID string) {
	kept := m.AssignedProperties[:0]
	for _, id := range m.AssignedProperties {
		if id != propertyID {
			kept = append(kept, id)
		}
	}
	m.AssignedProperties = kept
}

var firstNames = []string{"Alex", "Sam", "Priya", "Tom", "Grace", "Oliver", "Mia", "Hamza", "Chloe", "Ravi", "Ellie", "Jack"}
var lastNames = []string{"Hughes", "Patel", "Okafor", "Taylor", "Murphy", "Evans", "Khan", "Walsh", "Bennett", "Reid"}

// RandomName builds a display name from two unit-interval rolls.
func RandomName(r1, r2 float64) string {
	return firstNames[pick(r1, len(firstNames))] + " " + lastNames[pick(r2, len(lastNames))]
}

func pick(r float64, n int) int {
	i := int(r * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
