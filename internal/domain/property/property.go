// Package property defines the real-estate entities of the game: owned
// properties, their tenancies and sale listings, and the market/auction stock.
// This package is PURE and must NOT import any infrastructure packages.
package property

import "github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"

// Type is the building style.
type Type string

const (
	TypeFlat         Type = "flat"
	TypeTerraced     Type = "terraced"
	TypeBungalow     Type = "bungalow"
	TypeSemiDetached Type = "semi-detached"
	TypeDetached     Type = "detached"
)

// AllTypes lists every building style in generation order.
var AllTypes = []Type{TypeFlat, TypeTerraced, TypeBungalow, TypeSemiDetached, TypeDetached}

// Features are fixed at generation.
type Features struct {
	Type       Type `json:"type"`
	Bedrooms   int  `json:"bedrooms"` // 1-5
	HasGarden  bool `json:"hasGarden"`
	HasParking bool `json:"hasParking"`
}

// Valuation holds the attributes shared by owned properties and listings.
type Valuation struct {
	Name             string   `json:"name"`
	BaseValue        float64  `json:"baseValue"`
	Features         Features `json:"features"`
	AreaID           string   `json:"area"`
	District         string   `json:"district"`
	DistrictModifier float64  `json:"districtModifier"`
	Maintenance      float64  `json:"maintenance"` // 0-100
}

// VacantSettings are applied when the property is next let.
type VacantSettings struct {
	RentMarkup   int `json:"rentMarkup"`
	PeriodMonths int `json:"periodMonths"`
}

// Tenancy is an active lease. MarketValueAtStart and BaseRateAtStart are
// frozen at signing so agreed rent is immune to later changes.
type Tenancy struct {
	RentMarkup         int           `json:"rentMarkup"`
	PeriodMonths       int           `json:"periodMonths"`
	StartDate          calendar.Date `json:"startDate"`
	EndDate            calendar.Date `json:"endDate"`
	MarketValueAtStart float64       `json:"marketValueAtStart"`
	BaseRateAtStart    float64       `json:"baseRateAtStart"`
}

// SaleInfo is an active for-sale listing of an owned property.
type SaleInfo struct {
	AskingPercentage float64       `json:"askingPercentage"`
	AskingPrice      float64       `json:"askingPrice"`
	ListedDate       calendar.Date `json:"listedDate"`
	DaysListed       int           `json:"daysListed"`
}

// Property is an owned unit.
type Property struct {
	ID string `json:"id"`
	Valuation

	PurchaseBaseValue    float64       `json:"purchaseBaseValue"`
	PurchasePrice        float64       `json:"purchasePrice"`
	PurchaseDate         calendar.Date `json:"purchaseDate"`
	TotalMaintenancePaid float64       `json:"totalMaintenancePaid"`
	TotalIncomeEarned    float64       `json:"totalIncomeEarned"`

	IsUnderMaintenance   bool           `json:"isUnderMaintenance"`
	MaintenanceStartDate *calendar.Date `json:"maintenanceStartDate"`

	Tenancy        *Tenancy       `json:"tenancy"`
	VacantSettings VacantSettings `json:"vacantSettings"`
	IsListed       bool           `json:"isListed"`
	ListedDate     *calendar.Date `json:"listedDate"`
	SaleInfo       *SaleInfo      `json:"saleInfo"`

	AssignedEstateAgent string `json:"assignedEstateAgent,omitempty"`
	AssignedCaretaker   string `json:"assignedCaretaker,omitempty"`
}

// IsOccupied reports whether a tenant is in place.
func (p *Property) IsOccupied() bool {
	return p.Tenancy != nil
}

// IsForSale reports whether the property has an active sale listing.
func (p *Property) IsForSale() bool {
	return p.SaleInfo != nil
}

// Clone returns a deep copy.
func (p Property) Clone() Property {
	c := p
	if p.MaintenanceStartDate != nil {
		d := *p.MaintenanceStartDate
		c.MaintenanceStartDate = &d
	}
	if p.Tenancy != nil {
		t := *p.Tenancy
		c.Tenancy = &t
	}
	if p.ListedDate != nil {
		d := *p.ListedDate
		c.ListedDate = &d
	}
	if p.SaleInfo != nil {
		s := *p.SaleInfo
		c.SaleInfo = &s
	}
	return c
}

// Unlist takes the property off the rental market.
func (p *Property) Unlist() {
	p.IsListed = false
	p.ListedDate = nil
}

// Listing is a property on the open market, not yet owned.
type Listing struct {
	ID string `json:"id"`
	Valuation
	DaysOnMarket     int `json:"daysOnMarket"`
	DaysUntilRemoval int `json:"daysUntilRemoval"`
}

// AuctionLot is distressed stock sold through the auction house.
type AuctionLot struct {
	ID string `json:"id"`
	Valuation
	DaysOnMarket int `json:"daysOnMarket"`
	DaysLeft     int `json:"daysLeft"`
}

// Sale is the history record of a sold property.
type Sale struct {
	PropertyID            string        `json:"propertyId"`
	Name                  string        `json:"name"`
	PurchasePrice         float64       `json:"purchasePrice"`
	PurchaseDate          calendar.Date `json:"purchaseDate"`
	SalePrice             float64       `json:"salePrice"`
	SaleDate              calendar.Date `json:"saleDate"`
	TotalRentIncome       float64       `json:"totalRentIncome"`
	TotalMaintenancePaid  float64       `json:"totalMaintenancePaid"`
	TotalMortgageInterest float64       `json:"totalMortgageInterest"`
	MortgageRepaid        float64       `json:"mortgageRepaid"`
}
