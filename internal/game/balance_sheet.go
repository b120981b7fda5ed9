package game

import (
	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/mortgage"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
)

// PropertyBalanceSheet is a per-property profitability report.
type PropertyBalanceSheet struct {
	PurchasePrice float64       `json:"purchasePrice"`
	PurchaseDate  calendar.Date `json:"purchaseDate"`
	DaysOwned     int           `json:"daysOwned"`
	YearsOwned    float64       `json:"yearsOwned"`

	BaseValue              float64 `json:"baseValue"`
	MarketValue            float64 `json:"marketValue"`
	BaseValueChange        float64 `json:"baseValueChange"`
	BaseValueChangePercent float64 `json:"baseValueChangePercent"`

	TotalRentIncome        float64 `json:"totalRentIncome"`
	TotalMaintenanceCosts  float64 `json:"totalMaintenanceCosts"`
	TotalMortgageInterest  float64 `json:"totalMortgageInterest"`
	TotalMortgagePrincipal float64 `json:"totalMortgagePrincipal"`

	NetOperatingIncome float64 `json:"netOperatingIncome"`
	NetProfit          float64 `json:"netProfit"`
	TotalGain          float64 `json:"totalGain"`
	ROI                float64 `json:"roi"`

	AvgAnnualProfit       float64 `json:"avgAnnualProfit"`
	AvgAnnualAppreciation float64 `json:"avgAnnualAppreciation"`
	AvgAnnualTotalGain    float64 `json:"avgAnnualTotalGain"`

	HasMortgage           bool    `json:"hasMortgage"`
	CurrentEquity         float64 `json:"currentEquity"`
	EquityPercent         float64 `json:"equityPercent"`
	OutstandingBalance    float64 `json:"outstandingBalance"`
	TotalMortgagePayments float64 `json:"totalMortgagePayments"`
	EffectiveMortgageCost float64 `json:"effectiveMortgageCost"`
}

// OverallBalanceSheet aggregates the whole portfolio at a point in time.
type OverallBalanceSheet struct {
	SnapshotDate calendar.Date `json:"snapshotDate"`

	TotalProperties    int     `json:"totalProperties"`
	TotalCash          float64 `json:"totalCash"`
	TotalPropertyValue float64 `json:"totalPropertyValue"`
	TotalBaseValue     float64 `json:"totalBaseValue"`
	TotalEquity        float64 `json:"totalEquity"`
	TotalDebt          float64 `json:"totalDebt"`
	OrphanedDebt       float64 `json:"orphanedDebt"`
	NetWorth           float64 `json:"netWorth"`

	TotalRentIncome        float64 `json:"totalRentIncome"`
	TotalMaintenanceCosts  float64 `json:"totalMaintenanceCosts"`
	TotalMortgageInterest  float64 `json:"totalMortgageInterest"`
	TotalMortgagePrincipal float64 `json:"totalMortgagePrincipal"`
	TotalMortgagePayments  float64 `json:"totalMortgagePayments"`
	TotalStaffCosts        float64 `json:"totalStaffCosts"`
	TotalInterestEarned    float64 `json:"totalInterestEarned"`

	TotalPropertiesSold int     `json:"totalPropertiesSold"`
	TotalSaleRevenue    float64 `json:"totalSaleRevenue"`
	TotalSaleGains      float64 `json:"totalSaleGains"`
	RealizedGains       float64 `json:"realizedGains"`

	TotalValueChange        float64 `json:"totalValueChange"`
	TotalValueChangePercent float64 `json:"totalValueChangePercent"`

	NetOperatingIncome float64 `json:"netOperatingIncome"`
	NetProfit          float64 `json:"netProfit"`
	TotalGain          float64 `json:"totalGain"`
	PortfolioROI       float64 `json:"portfolioROI"`

	AvgPropertyValue float64 `json:"avgPropertyValue"`
	AvgEquityPercent float64 `json:"avgEquityPercent"`
	AvgInterestRate  float64 `json:"avgInterestRate"`
	DebtToValueRatio float64 `json:"debtToValueRatio"`

	AvgMonthlyRentIncome      float64 `json:"avgMonthlyRentIncome"`
	AvgMonthlyMortgagePayment float64 `json:"avgMonthlyMortgagePayment"`
	MonthlyStaffCosts         float64 `json:"monthlyStaffCosts"`
	MonthlyCashFlow           float64 `json:"monthlyCashFlow"`

	SavingsBaseline float64 `json:"savingsBaseline"`
}

// PropertySheet reports on one property. m may be nil.
func PropertySheet(p *property.Property, m *mortgage.Mortgage, today calendar.Date) PropertyBalanceSheet {
	daysOwned := max(1, calendar.DaysBetween(p.PurchaseDate, today))
	years := float64(daysOwned) / 365

	bs := PropertyBalanceSheet{
		PurchasePrice:         p.PurchasePrice,
		PurchaseDate:          p.PurchaseDate,
		DaysOwned:             daysOwned,
		YearsOwned:            years,
		BaseValue:             p.BaseValue,
		MarketValue:           rules.MarketValue(p.BaseValue, p.Maintenance),
		BaseValueChange:       p.BaseValue - p.PurchaseBaseValue,
		TotalRentIncome:       p.TotalIncomeEarned,
		TotalMaintenanceCosts: p.TotalMaintenancePaid,
	}
	if p.PurchaseBaseValue > 0 {
		bs.BaseValueChangePercent = bs.BaseValueChange / p.PurchaseBaseValue * 100
	}
	if m != nil && m.PropertyID == p.ID {
		bs.HasMortgage = true
		bs.TotalMortgageInterest = m.TotalInterestPaid
		bs.TotalMortgagePrincipal = m.TotalPrincipalPaid
		bs.OutstandingBalance = m.OutstandingBalance
		if m.OriginalLoanAmount > 0 {
			bs.EffectiveMortgageCost = m.TotalInterestPaid / m.OriginalLoanAmount * 100
		}
	}

	bs.NetOperatingIncome = bs.TotalRentIncome - bs.TotalMaintenanceCosts
	bs.NetProfit = bs.NetOperatingIncome - bs.TotalMortgageInterest
	bs.TotalGain = bs.NetProfit + bs.BaseValueChange
	if p.PurchasePrice > 0 {
		bs.ROI = bs.TotalGain / p.PurchasePrice * 100
	}
	bs.AvgAnnualProfit = bs.NetProfit / years
	bs.AvgAnnualAppreciation = bs.BaseValueChange / years
	bs.AvgAnnualTotalGain = bs.TotalGain / years

	bs.CurrentEquity = bs.MarketValue - bs.OutstandingBalance
	if bs.MarketValue > 0 {
		bs.EquityPercent = bs.CurrentEquity / bs.MarketValue * 100
	}
	bs.TotalMortgagePayments = bs.TotalMortgageInterest + bs.TotalMortgagePrincipal
	return bs
}

// BalanceSheet aggregates the whole portfolio of s on its current date.
func BalanceSheet(s *State) OverallBalanceSheet {
	today := s.GameTime.CurrentDate
	out := OverallBalanceSheet{
		SnapshotDate:        today,
		TotalProperties:     len(s.Player.Properties),
		TotalCash:           s.Player.Cash,
		TotalStaffCosts:     s.Stats.TotalStaffWages,
		TotalInterestEarned: s.Player.TotalInterestEarned,
		TotalPropertiesSold: len(s.Player.PropertySales),
		SavingsBaseline:     s.Savings.Balance,
	}

	for _, m := range s.Staff {
		out.MonthlyStaffCosts += m.CurrentSalary + m.UnpaidWages
	}

	totalInvested := 0.0
	for _, sale := range s.Player.PropertySales {
		gain := sale.SalePrice - sale.PurchasePrice
		out.TotalSaleRevenue += sale.SalePrice
		out.TotalSaleGains += gain
		out.RealizedGains += sale.TotalRentIncome - sale.TotalMaintenancePaid - sale.TotalMortgageInterest + gain
		totalInvested += sale.PurchasePrice
	}

	weightedRate := 0.0
	for _, m := range s.Player.Mortgages {
		if m.IsOrphaned() {
			out.OrphanedDebt += m.OutstandingBalance
			continue
		}
		weightedRate += m.InterestRate * m.OutstandingBalance
		if m.Type == mortgage.TypeBuyToLet {
			out.AvgMonthlyMortgagePayment += rules.MonthlyInterest(m.OutstandingBalance, m.InterestRate)
		} else {
			out.AvgMonthlyMortgagePayment += m.MonthlyPayment
		}
	}

	valueChangePct := 0.0
	equityPct := 0.0
	for i := range s.Player.Properties {
		p := &s.Player.Properties[i]
		bs := PropertySheet(p, s.MortgageFor(p.ID), today)

		out.TotalPropertyValue += bs.MarketValue
		out.TotalBaseValue += bs.BaseValue
		out.TotalDebt += bs.OutstandingBalance
		out.TotalRentIncome += bs.TotalRentIncome
		out.TotalMaintenanceCosts += bs.TotalMaintenanceCosts
		out.TotalMortgageInterest += bs.TotalMortgageInterest
		out.TotalMortgagePrincipal += bs.TotalMortgagePrincipal
		out.TotalValueChange += bs.BaseValueChange
		valueChangePct += bs.BaseValueChangePercent
		equityPct += bs.EquityPercent
		totalInvested += p.PurchasePrice

		out.AvgMonthlyRentIncome += rules.MonthlyRent(p.Tenancy)
	}

	out.TotalEquity = out.TotalPropertyValue - out.TotalDebt
	out.NetWorth = out.TotalCash + out.TotalEquity - out.OrphanedDebt
	out.TotalMortgagePayments = out.TotalMortgageInterest + out.TotalMortgagePrincipal
	out.NetOperatingIncome = out.TotalRentIncome - out.TotalMaintenanceCosts
	out.NetProfit = out.NetOperatingIncome - out.TotalMortgageInterest
	out.TotalGain = out.NetProfit + out.TotalValueChange + out.RealizedGains
	if totalInvested > 0 {
		out.PortfolioROI = out.TotalGain / totalInvested * 100
	}

	if n := float64(out.TotalProperties); n > 0 {
		out.TotalValueChangePercent = valueChangePct / n
		out.AvgPropertyValue = out.TotalPropertyValue / n
		out.AvgEquityPercent = equityPct / n
	}
	if out.TotalDebt > 0 {
		out.AvgInterestRate = weightedRate / out.TotalDebt
	}
	if out.TotalPropertyValue > 0 {
		out.DebtToValueRatio = out.TotalDebt / out.TotalPropertyValue * 100
	}
	out.MonthlyCashFlow = out.AvgMonthlyRentIncome - out.AvgMonthlyMortgagePayment - out.MonthlyStaffCosts
	return out
}
