// Package mortgage defines loans secured against owned properties.
// This package is PURE and must NOT import any infrastructure packages.
package mortgage

import "github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"

// Type distinguishes repayment loans from interest-only buy-to-let loans.
type Type string

const (
	TypeStandard Type = "standard"
	TypeBuyToLet Type = "btl"
)

// Epsilon is the balance below which a loan is considered repaid.
const Epsilon = 0.01

// Mortgage is an outstanding loan. PropertyID is empty once the property has
// been sold while the loan was underwater.
type Mortgage struct {
	ID                 string        `json:"id"`
	PropertyID         string        `json:"propertyId"`
	Type               Type          `json:"mortgageType"`
	DepositPercentage  float64       `json:"depositPercentage"`
	TermYears          int           `json:"termLengthYears"`
	FixedPeriodYears   int           `json:"fixedPeriodYears"`
	FixedPeriodEndDate calendar.Date `json:"fixedPeriodEndDate"`
	StartDate          calendar.Date `json:"startDate"`
	InterestRate       float64       `json:"interestRate"`
	OriginalLoanAmount float64       `json:"originalLoanAmount"`
	OutstandingBalance float64       `json:"outstandingBalance"`
	MonthlyPayment     float64       `json:"monthlyPayment"`
	PaymentsMade       int           `json:"paymentsMade"`
	TotalInterestPaid  float64       `json:"totalInterestPaid"`
	TotalPrincipalPaid float64       `json:"totalPrincipalPaid"`
}

// RemainingPayments is the number of scheduled payments left on the term.
func (m *Mortgage) RemainingPayments() int {
	n := m.TermYears*12 - m.PaymentsMade
	if n < 1 {
		return 1
	}
	return n
}

// IsRepaid reports whether the balance has fallen below Epsilon.
func (m *Mortgage) IsRepaid() bool {
	return m.OutstandingBalance < Epsilon
}

// IsOrphaned reports whether the secured property has been sold.
func (m *Mortgage) IsOrphaned() bool {
	return m.PropertyID == ""
}
