package config

import "github.com/MRamiBalles/PropertyIdle/internal/domain/rules"

// Balance holds every gameplay tuning constant of the simulation.
type Balance struct {
	// New game
	StartYear    int     `yaml:"start_year" json:"start_year"`
	StartingCash float64 `yaml:"starting_cash" json:"starting_cash"`

	// Valuation
	BasePropertyValue    float64 `yaml:"base_property_value" json:"base_property_value"`
	MinDistrictFactor    float64 `yaml:"min_district_factor" json:"min_district_factor"`
	MaxDistrictFactor    float64 `yaml:"max_district_factor" json:"max_district_factor"`
	MaintenanceCostRatio float64 `yaml:"maintenance_cost_ratio" json:"maintenance_cost_ratio"`

	// Maintenance
	OccupiedDecayPerMonth float64 `yaml:"occupied_decay_per_month" json:"occupied_decay_per_month"`
	VacantDecayPerMonth   float64 `yaml:"vacant_decay_per_month" json:"vacant_decay_per_month"`
	MinLettableCondition  float64 `yaml:"min_lettable_condition" json:"min_lettable_condition"`

	// Tenancy
	DefaultRentMarkup  int     `yaml:"default_rent_markup" json:"default_rent_markup"`
	DefaultLeaseMonths int     `yaml:"default_lease_months" json:"default_lease_months"`
	MinRentMarkup      int     `yaml:"min_rent_markup" json:"min_rent_markup"`
	MaxRentMarkup      int     `yaml:"max_rent_markup" json:"max_rent_markup"`
	LeaseLengths       []int   `yaml:"lease_lengths" json:"lease_lengths"`
	FillChanceExponent float64 `yaml:"fill_chance_exponent" json:"fill_chance_exponent"`

	// Markets
	MarketPoolCap         int     `yaml:"market_pool_cap" json:"market_pool_cap"`
	AuctionPoolCap        int     `yaml:"auction_pool_cap" json:"auction_pool_cap"`
	InitialMarketListings int     `yaml:"initial_market_listings" json:"initial_market_listings"`
	InitialAuctionLots    int     `yaml:"initial_auction_lots" json:"initial_auction_lots"`
	ListingSpawnChance    float64 `yaml:"listing_spawn_chance" json:"listing_spawn_chance"`
	MarketMinDays         int     `yaml:"market_min_days" json:"market_min_days"`
	MarketMaxDays         int     `yaml:"market_max_days" json:"market_max_days"`
	AuctionDays           int     `yaml:"auction_days" json:"auction_days"`
	SaleBaseChance        float64 `yaml:"sale_base_chance" json:"sale_base_chance"`
	SalePriceElasticity   float64 `yaml:"sale_price_elasticity" json:"sale_price_elasticity"`

	// Mortgages
	DepositPremiums    []DepositTier `yaml:"deposit_premiums" json:"deposit_premiums"`
	BuyToLetPremium    float64       `yaml:"buy_to_let_premium" json:"buy_to_let_premium"`
	BuyToLetMinDeposit float64       `yaml:"buy_to_let_min_deposit" json:"buy_to_let_min_deposit"`
	MinTermYears       int           `yaml:"min_term_years" json:"min_term_years"`
	MaxTermYears       int           `yaml:"max_term_years" json:"max_term_years"`
	FixedPeriods       []int         `yaml:"fixed_periods" json:"fixed_periods"`

	// Economy
	MinBaseRate           float64 `yaml:"min_base_rate" json:"min_base_rate"`
	PhaseMinQuarters      int     `yaml:"phase_min_quarters" json:"phase_min_quarters"`
	PhaseChancePerQuarter float64 `yaml:"phase_chance_per_quarter" json:"phase_chance_per_quarter"`
	PhaseMaxChance        float64 `yaml:"phase_max_chance" json:"phase_max_chance"`
	TargetRedrawChance    float64 `yaml:"target_redraw_chance" json:"target_redraw_chance"`
	ConvergenceRate       float64 `yaml:"convergence_rate" json:"convergence_rate"`
	SavingsMargin         float64 `yaml:"savings_margin" json:"savings_margin"`

	// Staff
	LevelCapacity        []int     `yaml:"level_capacity" json:"level_capacity"`
	LevelXP              []float64 `yaml:"level_xp" json:"level_xp"`
	XPPerPropertyPerDay  float64   `yaml:"xp_per_property_per_day" json:"xp_per_property_per_day"`
	AgentSalaries        []float64 `yaml:"agent_salaries" json:"agent_salaries"`
	CaretakerSalaries    []float64 `yaml:"caretaker_salaries" json:"caretaker_salaries"`
	PromotionBonusFactor float64   `yaml:"promotion_bonus_factor" json:"promotion_bonus_factor"`
	PromotionRaise       float64   `yaml:"promotion_raise" json:"promotion_raise"`
	UnpaidMonthsToQuit   int       `yaml:"unpaid_months_to_quit" json:"unpaid_months_to_quit"`
	AgentAdjustmentDays  int       `yaml:"agent_adjustment_days" json:"agent_adjustment_days"`
	CaretakerRepairBelow float64   `yaml:"caretaker_repair_below" json:"caretaker_repair_below"`

	// End conditions
	BalanceSheetMonth    int     `yaml:"balance_sheet_month" json:"balance_sheet_month"`
	BalanceSheetDay      int     `yaml:"balance_sheet_day" json:"balance_sheet_day"`
	BalanceSheetHistory  int     `yaml:"balance_sheet_history" json:"balance_sheet_history"`
	WinNetWorth          float64 `yaml:"win_net_worth" json:"win_net_worth"`
	ForeclosureGraceDays int     `yaml:"foreclosure_grace_days" json:"foreclosure_grace_days"`
	ForeclosureRatio     float64 `yaml:"foreclosure_ratio" json:"foreclosure_ratio"`
	PrestigeCashBonus    float64 `yaml:"prestige_cash_bonus" json:"prestige_cash_bonus"`
}

// DepositTier maps a minimum deposit percentage to an interest premium.
type DepositTier = rules.DepositTier

// Default returns the standard balance.
func Default() Balance {
	return Balance{
		StartYear:    2024,
		StartingCash: 50000,

		BasePropertyValue:    2000,
		MinDistrictFactor:    1,
		MaxDistrictFactor:    10,
		MaintenanceCostRatio: 0.10,

		OccupiedDecayPerMonth: 1.0,
		VacantDecayPerMonth:   0.2,
		MinLettableCondition:  25,

		DefaultRentMarkup:  5,
		DefaultLeaseMonths: 12,
		MinRentMarkup:      1,
		MaxRentMarkup:      10,
		LeaseLengths:       []int{6, 12, 18, 24},
		FillChanceExponent: 65,

		MarketPoolCap:         20,
		AuctionPoolCap:        5,
		InitialMarketListings: 10,
		InitialAuctionLots:    3,
		ListingSpawnChance:    0.10,
		MarketMinDays:         30,
		MarketMaxDays:         730,
		AuctionDays:           30,
		SaleBaseChance:        0.05,
		SalePriceElasticity:   8,

		DepositPremiums: []DepositTier{
			{MinDeposit: 60, Premium: 0.1},
			{MinDeposit: 40, Premium: 0.25},
			{MinDeposit: 25, Premium: 0.5},
			{MinDeposit: 20, Premium: 0.75},
			{MinDeposit: 15, Premium: 1.0},
			{MinDeposit: 10, Premium: 1.5},
			{MinDeposit: 5, Premium: 2.5},
		},
		BuyToLetPremium:    1.0,
		BuyToLetMinDeposit: 25,
		MinTermYears:       5,
		MaxTermYears:       35,
		FixedPeriods:       []int{0, 2, 3, 5, 10},

		MinBaseRate:           0.1,
		PhaseMinQuarters:      3,
		PhaseChancePerQuarter: 0.05,
		PhaseMaxChance:        0.30,
		TargetRedrawChance:    0.20,
		ConvergenceRate:       0.30,
		SavingsMargin:         0.5,

		LevelCapacity:        []int{3, 5, 8, 12, 20},
		LevelXP:              []float64{300, 900, 2000, 4000},
		XPPerPropertyPerDay:  1,
		AgentSalaries:        []float64{1500, 2000, 2500},
		CaretakerSalaries:    []float64{1200, 1600, 2000},
		PromotionBonusFactor: 2,
		PromotionRaise:       0.20,
		UnpaidMonthsToQuit:   3,
		AgentAdjustmentDays:  30,
		CaretakerRepairBelow: 90,

		BalanceSheetMonth:    4,
		BalanceSheetDay:      6,
		BalanceSheetHistory:  50,
		WinNetWorth:          1000000,
		ForeclosureGraceDays: 30,
		ForeclosureRatio:     2,
		PrestigeCashBonus:    0.10,
	}
}

// Casual is a forgiving preset: more cash, slower decay, longer grace.
func Casual() Balance {
	cfg := Default()
	cfg.StartingCash = 100000
	cfg.OccupiedDecayPerMonth = 0.5
	cfg.VacantDecayPerMonth = 0.1
	cfg.ForeclosureGraceDays = 60
	return cfg
}

// Hard is a punishing preset.
func Hard() Balance {
	cfg := Default()
	cfg.StartingCash = 25000
	cfg.OccupiedDecayPerMonth = 1.5
	cfg.UnpaidMonthsToQuit = 2
	cfg.ForeclosureGraceDays = 15
	return cfg
}

// ForDifficulty resolves a preset name, falling back to Default.
func ForDifficulty(name string) Balance {
	switch name {
	case "casual":
		return Casual()
	case "hard":
		return Hard()
	default:
		return Default()
	}
}
