// Package game defines the root aggregate of a single-player save: everything
// the simulation owns, plus read-only derived views over it.
//
// A State is a value. Commands never mutate the caller's copy; the engine
// clones, transforms and hands back a replacement.
package game

import (
	"time"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/economy"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/mortgage"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/staff"
)

// CurrentVersion tags freshly created and fully migrated saves.
const CurrentVersion = 5

// Speed is the real-time multiplier chosen by the player.
type Speed float64

const (
	SpeedSlow   Speed = 0.5
	SpeedNormal Speed = 1
	SpeedFast   Speed = 5
)

// IsValid reports whether s is one of the offered speeds.
func (s Speed) IsValid() bool {
	return s == SpeedSlow || s == SpeedNormal || s == SpeedFast
}

// Interval is the real time between simulated days at this speed.
func (s Speed) Interval() time.Duration {
	switch s {
	case SpeedSlow:
		return 10 * time.Second
	case SpeedFast:
		return 500 * time.Millisecond
	default:
		return 2 * time.Second
	}
}

// Player holds the landlord's money and portfolio.
type Player struct {
	Cash                float64             `json:"cash"`
	AccruedInterest     float64             `json:"accruedInterest"`
	TotalInterestEarned float64             `json:"totalInterestEarned"`
	Properties          []property.Property `json:"properties"`
	Mortgages           []mortgage.Mortgage `json:"mortgages"`
	PropertySales       []property.Sale     `json:"propertySales"`
}

// Settings are player preferences applied to new vacancies.
type Settings struct {
	DefaultRentMarkup  int `json:"defaultRentMarkup"`
	DefaultLeaseMonths int `json:"defaultLeaseMonths"`
}

// Time is the simulated clock.
type Time struct {
	CurrentDate calendar.Date `json:"currentDate"`
	Speed       Speed         `json:"speed"`
	IsPaused    bool          `json:"isPaused"`
	DaysPlayed  int           `json:"daysPlayed"`
}

// Foreclosure is an active warning counting down to game over.
type Foreclosure struct {
	StartDate     calendar.Date `json:"startDate"`
	DaysRemaining int           `json:"daysRemaining"`
	Debt          float64       `json:"debt"`
	Equity        float64       `json:"equity"`
}

// GameOver is the terminal record written when a foreclosure runs out.
type GameOver struct {
	Date                  calendar.Date `json:"date"`
	Reason                string        `json:"reason"`
	DaysPlayed            int           `json:"daysPlayed"`
	PeakNetWorth          float64       `json:"peakNetWorth"`
	PeakPropertyCount     int           `json:"peakPropertyCount"`
	FinalNetWorth         float64       `json:"finalNetWorth"`
	FinalCash             float64       `json:"finalCash"`
	TotalRentIncome       float64       `json:"totalRentIncome"`
	TotalMaintenancePaid  float64       `json:"totalMaintenancePaid"`
	TotalMortgageInterest float64       `json:"totalMortgageInterest"`
	TotalStaffWages       float64       `json:"totalStaffWages"`
	PropertiesSold        int           `json:"propertiesSold"`
}

// GameWin records the evaluation made on the last balance sheet of a run.
type GameWin struct {
	Date           calendar.Date `json:"date"`
	Achieved       bool          `json:"achieved"`
	NetWorth       float64       `json:"netWorth"`
	TargetNetWorth float64       `json:"targetNetWorth"`
}

// Stats are lifetime trackers that survive property sales.
type Stats struct {
	PeakNetWorth          float64 `json:"peakNetWorth"`
	PeakPropertyCount     int     `json:"peakPropertyCount"`
	TotalRentCollected    float64 `json:"totalRentCollected"`
	TotalMaintenancePaid  float64 `json:"totalMaintenancePaid"`
	TotalMortgageInterest float64 `json:"totalMortgageInterest"`
	TotalStaffWages       float64 `json:"totalStaffWages"`
}

// Savings is a comparison baseline: what the starting cash would have
// earned left untouched in a savings account.
type Savings struct {
	Balance float64 `json:"balance"`
	Accrued float64 `json:"accrued"`
}

// Prestige tracks meta-progression across won runs.
type Prestige struct {
	Level     int `json:"level"`
	TotalWins int `json:"totalWins"`
}

// UI holds flags the renderer reacts to.
type UI struct {
	ShowBalanceSheet bool `json:"showBalanceSheetModal"`
	ShowGameWin      bool `json:"showGameWinModal"`
	ShowPrestige     bool `json:"showPrestigeModal"`
}

// State is the root aggregate.
type State struct {
	Version             int                   `json:"version"`
	Player              Player                `json:"player"`
	Settings            Settings              `json:"settings"`
	Market              []property.Listing    `json:"market"`
	Auction             []property.AuctionLot `json:"auction"`
	Areas               []property.Area       `json:"areas"`
	Economy             economy.Economy       `json:"economy"`
	Staff               []staff.Member        `json:"staff"`
	GameTime            Time                  `json:"gameTime"`
	BalanceSheetHistory []OverallBalanceSheet `json:"balanceSheetHistory"`
	UI                  UI                    `json:"ui"`
	Foreclosure         *Foreclosure          `json:"foreclosure"`
	GameOver            *GameOver             `json:"gameOver"`
	GameWin             *GameWin              `json:"gameWin"`
	Stats               Stats                 `json:"stats"`
	Savings             Savings               `json:"savings"`
	Prestige            Prestige              `json:"prestige"`
}

// New returns an empty state on the start date with the given starting cash.
// Listings and the starter property are seeded by the engine.
func New(b config.Balance, startingCash float64) State {
	return State{
		Version: CurrentVersion,
		Player: Player{
			Cash:          startingCash,
			Properties:    []property.Property{},
			Mortgages:     []mortgage.Mortgage{},
			PropertySales: []property.Sale{},
		},
		Settings: Settings{
			DefaultRentMarkup:  b.DefaultRentMarkup,
			DefaultLeaseMonths: b.DefaultLeaseMonths,
		},
		Market:              []property.Listing{},
		Auction:             []property.AuctionLot{},
		Areas:               property.DefaultAreas(),
		Economy:             economy.Initial(),
		Staff:               []staff.Member{},
		GameTime:            Time{CurrentDate: calendar.New(b.StartYear, 1, 1), Speed: SpeedNormal},
		BalanceSheetHistory: []OverallBalanceSheet{},
		Savings:             Savings{Balance: startingCash},
	}
}

// Clone returns a deep copy that shares no mutable memory with s.
func (s State) Clone() State {
	c := s
	c.Player.Properties = make([]property.Property, len(s.Player.Properties))
	for i, p := range s.Player.Properties {
		c.Player.Properties[i] = p.Clone()
	}
	c.Player.Mortgages = append([]mortgage.Mortgage{}, s.Player.Mortgages...)
	c.Player.PropertySales = append([]property.Sale{}, s.Player.PropertySales...)
	c.Market = append([]property.Listing{}, s.Market...)
	c.Auction = append([]property.AuctionLot{}, s.Auction...)
	c.Areas = append([]property.Area{}, s.Areas...)
	c.Economy = s.Economy.Clone()
	c.Staff = make([]staff.Member, len(s.Staff))
	for i, m := range s.Staff {
		c.Staff[i] = m.Clone()
	}
	c.BalanceSheetHistory = append([]OverallBalanceSheet{}, s.BalanceSheetHistory...)
	if s.Foreclosure != nil {
		f := *s.Foreclosure
		c.Foreclosure = &f
	}
	if s.GameOver != nil {
		g := *s.GameOver
		c.GameOver = &g
	}
	if s.GameWin != nil {
		w := *s.GameWin
		c.GameWin = &w
	}
	return c
}

// Property returns a pointer into s for in-place edits, or nil.
func (s *State) Property(id string) *property.Property {
	for i := range s.Player.Properties {
		if s.Player.Properties[i].ID == id {
			return &s.Player.Properties[i]
		}
	}
	return nil
}

// MortgageFor returns the mortgage secured on propertyID, or nil.
func (s *State) MortgageFor(propertyID string) *mortgage.Mortgage {
	if propertyID == "" {
		return nil
	}
	for i := range s.Player.Mortgages {
		if s.Player.Mortgages[i].PropertyID == propertyID {
			return &s.Player.Mortgages[i]
		}
	}
	return nil
}

// Member returns the staff member with the given id, or nil.
func (s *State) Member(id string) *staff.Member {
	for i := range s.Staff {
		if s.Staff[i].ID == id {
			return &s.Staff[i]
		}
	}
	return nil
}

// Area returns the area a property sits in.
func (s *State) Area(id string) (property.Area, bool) {
	return property.FindArea(s.Areas, id)
}

// AverageRating is the mean area rating for a property, 3 if the area is unknown.
func (s *State) AverageRating(areaID string) float64 {
	if a, ok := s.Area(areaID); ok {
		return a.Ratings.Average()
	}
	return 3
}

// PropertyValue sums the market value of every owned property.
func (s *State) PropertyValue() float64 {
	total := 0.0
	for i := range s.Player.Properties {
		p := &s.Player.Properties[i]
		total += rules.MarketValue(p.BaseValue, p.Maintenance)
	}
	return total
}

// MortgageDebt sums every outstanding balance, including loans that
// outlived their property.
func (s *State) MortgageDebt() float64 {
	total := 0.0
	for _, m := range s.Player.Mortgages {
		total += m.OutstandingBalance
	}
	return total
}

// NetWorth is cash plus property value minus all mortgage debt.
func (s *State) NetWorth() float64 {
	return s.Player.Cash + s.PropertyValue() - s.MortgageDebt()
}

// RemoveProperty drops the property with id and reports whether it existed.
func (s *State) RemoveProperty(id string) bool {
	for i := range s.Player.Properties {
		if s.Player.Properties[i].ID == id {
			s.Player.Properties = append(s.Player.Properties[:i], s.Player.Properties[i+1:]...)
			return true
		}
	}
	return false
}
