package rules

import (
	"math"
	"testing"

	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/mortgage"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tiers = []DepositTier{
	{MinDeposit: 60, Premium: 0.1},
	{MinDeposit: 40, Premium: 0.25},
	{MinDeposit: 25, Premium: 0.5},
	{MinDeposit: 20, Premium: 0.75},
	{MinDeposit: 15, Premium: 1.0},
	{MinDeposit: 10, Premium: 1.5},
	{MinDeposit: 5, Premium: 2.5},
}

func TestMarketValue(t *testing.T) {
	assert.Equal(t, 1000.0, MarketValue(1000, 100))
	assert.Equal(t, 500.0, MarketValue(1000, 0))
	assert.Equal(t, 750.0, MarketValue(1000, 50))
}

func TestMaintenanceCost(t *testing.T) {
	assert.InDelta(t, 50.0, MaintenanceCost(1000, 50, 0.10), 1e-9)
	assert.Zero(t, MaintenanceCost(1000, 100, 0.10))
}

func TestBaseValue_Multipliers(t *testing.T) {
	f := property.Features{Type: property.TypeTerraced, Bedrooms: 3}
	avg := property.Ratings{Crime: 3, Schools: 3, Transport: 3, Economy: 3}
	// 1.0 * 1.0 * 1.0^4 area
	assert.Equal(t, 2000.0, BaseValue(2000, f, avg, 1))

	f.HasGarden = true
	f.HasParking = true
	assert.Equal(t, math.Round(2000*1.1*1.05*8), BaseValue(2000, f, avg, 8))
}

func TestCanBeLetOut(t *testing.T) {
	p := &property.Property{Valuation: property.Valuation{Maintenance: 80}}
	assert.True(t, CanBeLetOut(p, 25))

	p.Maintenance = 24
	assert.False(t, CanBeLetOut(p, 25))

	p.Maintenance = 80
	p.IsUnderMaintenance = true
	assert.False(t, CanBeLetOut(p, 25))

	p.IsUnderMaintenance = false
	p.Tenancy = &property.Tenancy{}
	assert.False(t, CanBeLetOut(p, 25))

	p.Tenancy = nil
	p.SaleInfo = &property.SaleInfo{AskingPercentage: 100}
	assert.False(t, CanBeLetOut(p, 25))
}

func TestFillChance_DecreasesWithMarkup(t *testing.T) {
	prev := FillChance(1, 65, 3)
	for m := 2; m <= 10; m++ {
		cur := FillChance(m, 65, 3)
		assert.Less(t, cur, prev, "markup %d", m)
		prev = cur
	}
}

func TestFillChance_BetterAreasFillFaster(t *testing.T) {
	assert.Greater(t, FillChance(5, 65, 5), FillChance(5, 65, 1))
	assert.InDelta(t, 0.7*math.Pow(0.95, 65), FillChance(5, 65, 1), 1e-12)
}

func TestMonthlyRent(t *testing.T) {
	ten := &property.Tenancy{RentMarkup: 10, MarketValueAtStart: 1000}
	assert.InDelta(t, 8.3333, MonthlyRent(ten), 1e-3)
	assert.Zero(t, MonthlyRent(nil))
}

func TestDepositPremium(t *testing.T) {
	assert.Equal(t, 0.1, DepositPremium(75, tiers))
	assert.Equal(t, 0.5, DepositPremium(25, tiers))
	assert.Equal(t, 0.75, DepositPremium(24.9, tiers))
	assert.Equal(t, 2.5, DepositPremium(5, tiers))
	assert.Equal(t, 2.5, DepositPremium(1, tiers))
}

func TestInterestRate_BuyToLetPremium(t *testing.T) {
	std := InterestRate(4, 25, mortgage.TypeStandard, tiers, 1)
	btl := InterestRate(4, 25, mortgage.TypeBuyToLet, tiers, 1)
	assert.Equal(t, 4.5, std)
	assert.Equal(t, 5.5, btl)
}

func TestMonthlyPayment(t *testing.T) {
	assert.InDelta(t, 584.59, MonthlyPayment(100000, 5, 300, mortgage.TypeStandard), 0.01)
	assert.Zero(t, MonthlyPayment(100000, 5, 300, mortgage.TypeBuyToLet))
	assert.InDelta(t, 1000.0, MonthlyPayment(12000, 0, 12, mortgage.TypeStandard), 1e-9)
}

func TestStandardLoanAmortisesToZero(t *testing.T) {
	m := &mortgage.Mortgage{
		Type:               mortgage.TypeStandard,
		InterestRate:       5,
		TermYears:          5,
		OutstandingBalance: 10000,
		StartDate:          calendar.New(2024, 1, 1),
	}
	m.MonthlyPayment = MonthlyPayment(m.OutstandingBalance, m.InterestRate, 60, m.Type)

	prev := m.OutstandingBalance
	for i := 0; i < 60; i++ {
		inst := NextInstallment(m)
		m.OutstandingBalance -= inst.Principal
		require.Less(t, m.OutstandingBalance, prev)
		prev = m.OutstandingBalance
	}
	assert.Less(t, m.OutstandingBalance, mortgage.Epsilon)
}

func TestBuyToLetNeverAmortises(t *testing.T) {
	m := &mortgage.Mortgage{Type: mortgage.TypeBuyToLet, InterestRate: 6, OutstandingBalance: 12000}
	inst := NextInstallment(m)
	assert.Zero(t, inst.Principal)
	assert.InDelta(t, 60.0, inst.Interest, 1e-9)
}

func TestStaffProgression(t *testing.T) {
	caps := []int{3, 5, 8, 12, 20}
	xp := []float64{300, 900, 2000, 4000}

	assert.Equal(t, 3, Capacity(1, caps))
	assert.Equal(t, 20, Capacity(9, caps))

	assert.Equal(t, 300.0, GainXP(299, 1, 3, 1, xp))
	assert.Equal(t, 5.0, GainXP(2, 1, 3, 1, xp))
	assert.Equal(t, 50.0, GainXP(50, 5, 3, 1, xp), "max level gains nothing")

	assert.False(t, CanPromote(299, 1, xp))
	assert.True(t, CanPromote(300, 1, xp))
	assert.False(t, CanPromote(9999, 5, xp))
}

func TestIndexSalary_Ratchet(t *testing.T) {
	assert.InDelta(t, 1510.0, IndexSalary(1500, 2), 1e-9)
	assert.Equal(t, 1500.0, IndexSalary(1500, -0.5))
	assert.Equal(t, 2500.0, Salary(7, []float64{1500, 2000, 2500}))
}

func TestSaleChance(t *testing.T) {
	assert.InDelta(t, 0.05, SaleChance(100, 0.05, 8), 1e-12)
	assert.Equal(t, 1.0, SaleChance(50, 0.05, 8))
	assert.Less(t, SaleChance(120, 0.05, 8), SaleChance(100, 0.05, 8))
	assert.InDelta(t, 0.05, SaleChance(math.NaN(), 0.05, 8), 1e-12)
}

func TestOfferAcceptance(t *testing.T) {
	assert.Equal(t, 1.0, OfferAcceptance(100, MarketOfferSpread))
	assert.InDelta(t, 0.5, OfferAcceptance(90, MarketOfferSpread), 1e-9)
	assert.Zero(t, OfferAcceptance(70, MarketOfferSpread))
	assert.InDelta(t, 0.25, OfferAcceptance(70, AuctionOfferSpread), 1e-9)

	assert.False(t, ValidOfferPercentage(0))
	assert.False(t, ValidOfferPercentage(101))
	assert.True(t, ValidOfferPercentage(85))
}
