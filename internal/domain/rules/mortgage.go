package rules

import (
	"math"

	"github.com/MRamiBalles/PropertyIdle/internal/domain/mortgage"
)

// DepositTier maps a minimum deposit percentage to an interest premium.
type DepositTier struct {
	MinDeposit float64 `yaml:"min_deposit" json:"min_deposit"`
	Premium    float64 `yaml:"premium" json:"premium"`
}

// DepositPremium returns the premium of the highest tier the deposit reaches.
// Deposits below every tier pay the steepest premium.
func DepositPremium(depositPct float64, tiers []DepositTier) float64 {
	best := -1.0
	premium := 0.0
	steepest := 0.0
	for _, t := range tiers {
		if t.Premium > steepest {
			steepest = t.Premium
		}
		if depositPct >= t.MinDeposit && t.MinDeposit > best {
			best = t.MinDeposit
			premium = t.Premium
		}
	}
	if best < 0 {
		return steepest
	}
	return premium
}

// InterestRate is the annual percentage charged on a new or reset loan.
func InterestRate(baseRate, depositPct float64, typ mortgage.Type, tiers []DepositTier, btlPremium float64) float64 {
	rate := baseRate + DepositPremium(depositPct, tiers)
	if typ == mortgage.TypeBuyToLet {
		rate += btlPremium
	}
	return rate
}

// MonthlyPayment is the annuity payment that clears loan over n months at
// annualRate percent. Buy-to-let loans return 0: they pay interest only.
func MonthlyPayment(loan, annualRate float64, months int, typ mortgage.Type) float64 {
	if typ == mortgage.TypeBuyToLet || loan <= 0 || months <= 0 {
		return 0
	}
	r := annualRate / 100 / 12
	if r == 0 {
		return loan / float64(months)
	}
	f := math.Pow(1+r, float64(months))
	return loan * r * f / (f - 1)
}

// MonthlyInterest is one month's interest on the outstanding balance.
func MonthlyInterest(balance, annualRate float64) float64 {
	return balance * annualRate / 100 / 12
}

// Installment splits one month's bill into interest and principal.
type Installment struct {
	Interest  float64
	Principal float64
}

// Total is the cash leaving the player.
func (i Installment) Total() float64 {
	return i.Interest + i.Principal
}

// NextInstallment computes the bill for m. Principal never exceeds the
// outstanding balance, and buy-to-let loans never amortise.
func NextInstallment(m *mortgage.Mortgage) Installment {
	interest := MonthlyInterest(m.OutstandingBalance, m.InterestRate)
	if m.Type == mortgage.TypeBuyToLet {
		return Installment{Interest: interest}
	}
	principal := m.MonthlyPayment - interest
	if principal > m.OutstandingBalance {
		principal = m.OutstandingBalance
	}
	if principal < 0 {
		principal = 0
	}
	return Installment{Interest: interest, Principal: principal}
}

// ValidFixedPeriod reports whether years is an offered fixed period.
func ValidFixedPeriod(years int, periods []int) bool {
	for _, p := range periods {
		if p == years {
			return true
		}
	}
	return false
}
