// Package engine - commands.go
// The command surface: every way a caller can change a game.
package engine

import (
	"encoding/json"
	"fmt"

	"github.com/MRamiBalles/PropertyIdle/internal/domain/mortgage"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/staff"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
)

// Command is a request to transform the game state.
type Command interface {
	CommandName() string
}

// AdvanceDay runs one simulated day.
type AdvanceDay struct{}

// SetSpeed changes the real-time speed multiplier.
type SetSpeed struct {
	Speed game.Speed `json:"speed"`
}

// TogglePause pauses or resumes the clock.
type TogglePause struct{}

// Reset starts a fresh game, keeping the prestige record.
type Reset struct{}

// SetPropertyVacantSettings sets the terms offered when a property is next let.
type SetPropertyVacantSettings struct {
	PropertyID   string `json:"propertyId"`
	RentMarkup   int    `json:"rentMarkup"`
	PeriodMonths int    `json:"periodMonths"`
}

// SetDefaultRentMarkup sets the markup used for new purchases and ended leases.
type SetDefaultRentMarkup struct {
	Markup int `json:"markup"`
}

// CarryOutMaintenance pays for a repair back to full condition.
type CarryOutMaintenance struct {
	PropertyID string `json:"propertyId"`
}

// BuyPropertyInstant buys a market listing at its asking price.
type BuyPropertyInstant struct {
	ListingID string `json:"marketId"`
}

// MakeOffer bids a percentage of a market listing's price.
type MakeOffer struct {
	ListingID       string  `json:"marketId"`
	OfferPercentage float64 `json:"offerPercentage"`
}

// BuyPropertyWithMortgage buys a market listing with a deposit and a loan.
type BuyPropertyWithMortgage struct {
	ListingID         string        `json:"marketId"`
	Type              mortgage.Type `json:"mortgageType"`
	DepositPercentage float64       `json:"depositPercentage"`
	TermYears         int           `json:"termLengthYears"`
	FixedPeriodYears  int           `json:"fixedPeriodYears"`
}

// BuyAuctionPropertyInstant buys an auction lot outright.
type BuyAuctionPropertyInstant struct {
	LotID string `json:"auctionId"`
}

// MakeAuctionOffer bids a percentage of an auction lot's price.
type MakeAuctionOffer struct {
	LotID           string  `json:"auctionId"`
	OfferPercentage float64 `json:"offerPercentage"`
}

// ListPropertyForSale puts an owned property on the market.
type ListPropertyForSale struct {
	PropertyID       string  `json:"propertyId"`
	AskingPercentage float64 `json:"askingPercentage"`
}

// CancelListing withdraws a property from sale.
type CancelListing struct {
	PropertyID string `json:"propertyId"`
}

// ListPropertyNow advertises a vacant property to tenants.
type ListPropertyNow struct {
	PropertyID string `json:"propertyId"`
}

// RemortgageProperty replaces a property's loan, using all current equity
// as the new deposit.
type RemortgageProperty struct {
	PropertyID       string        `json:"propertyId"`
	Type             mortgage.Type `json:"mortgageType"`
	TermYears        int           `json:"termLengthYears"`
	FixedPeriodYears int           `json:"fixedPeriodYears"`
}

// PayOffMortgage settles a loan from cash.
type PayOffMortgage struct {
	MortgageID string `json:"mortgageId"`
}

// HireStaff takes on an agent or caretaker in a district.
type HireStaff struct {
	Role     staff.Role `json:"type"`
	District string     `json:"district"`
}

// FireStaff lets a member go, releasing their properties.
type FireStaff struct {
	StaffID string     `json:"staffId"`
	Role    staff.Role `json:"type"`
}

// PromoteStaff pays the bonus and raises a member one level.
type PromoteStaff struct {
	StaffID string     `json:"staffId"`
	Role    staff.Role `json:"type"`
}

// AssignPropertyToStaff hands a property to a member of the same district.
type AssignPropertyToStaff struct {
	PropertyID string     `json:"propertyId"`
	StaffID    string     `json:"staffId"`
	Role       staff.Role `json:"type"`
}

// UnassignProperty takes a property back from its agent or caretaker.
type UnassignProperty struct {
	PropertyID string     `json:"propertyId"`
	Role       staff.Role `json:"type"`
}

// DismissBalanceSheetModal closes the annual balance-sheet popup.
type DismissBalanceSheetModal struct{}

// DismissGameWinModal closes the end-of-run popup.
type DismissGameWinModal struct{}

// OpenPrestigeModal shows the prestige offer.
type OpenPrestigeModal struct{}

// Prestige starts a new run one level higher after a won game.
type Prestige struct{}

func (AdvanceDay) CommandName() string                { return "advanceDay" }
func (SetSpeed) CommandName() string                  { return "setSpeed" }
func (TogglePause) CommandName() string               { return "togglePause" }
func (Reset) CommandName() string                     { return "reset" }
func (SetPropertyVacantSettings) CommandName() string { return "setPropertyVacantSettings" }
func (SetDefaultRentMarkup) CommandName() string      { return "setDefaultRentMarkup" }
func (CarryOutMaintenance) CommandName() string       { return "carryOutMaintenance" }
func (BuyPropertyInstant) CommandName() string        { return "buyPropertyInstant" }
func (MakeOffer) CommandName() string                 { return "makeOffer" }
func (BuyPropertyWithMortgage) CommandName() string   { return "buyPropertyWithMortgage" }
func (BuyAuctionPropertyInstant) CommandName() string { return "buyAuctionPropertyInstant" }
func (MakeAuctionOffer) CommandName() string          { return "makeAuctionOffer" }
func (ListPropertyForSale) CommandName() string       { return "listPropertyForSale" }
func (CancelListing) CommandName() string             { return "cancelListing" }
func (ListPropertyNow) CommandName() string           { return "listPropertyNow" }
func (RemortgageProperty) CommandName() string        { return "remortgageProperty" }
func (PayOffMortgage) CommandName() string            { return "payOffMortgage" }
func (HireStaff) CommandName() string                 { return "hireStaff" }
func (FireStaff) CommandName() string                 { return "fireStaff" }
func (PromoteStaff) CommandName() string              { return "promoteStaff" }
func (AssignPropertyToStaff) CommandName() string     { return "assignPropertyToStaff" }
func (UnassignProperty) CommandName() string          { return "unassignProperty" }
func (DismissBalanceSheetModal) CommandName() string  { return "dismissBalanceSheetModal" }
func (DismissGameWinModal) CommandName() string       { return "dismissGameWinModal" }
func (OpenPrestigeModal) CommandName() string         { return "openPrestigeModal" }
func (Prestige) CommandName() string                  { return "prestige" }

var decoders = map[string]func(json.RawMessage) (Command, error){
	"advanceDay":                decodeAs[AdvanceDay],
	"setSpeed":                  decodeAs[SetSpeed],
	"togglePause":               decodeAs[TogglePause],
	"reset":                     decodeAs[Reset],
	"setPropertyVacantSettings": decodeAs[SetPropertyVacantSettings],
	"setDefaultRentMarkup":      decodeAs[SetDefaultRentMarkup],
	"carryOutMaintenance":       decodeAs[CarryOutMaintenance],
	"buyPropertyInstant":        decodeAs[BuyPropertyInstant],
	"makeOffer":                 decodeAs[MakeOffer],
	"buyPropertyWithMortgage":   decodeAs[BuyPropertyWithMortgage],
	"buyAuctionPropertyInstant": decodeAs[BuyAuctionPropertyInstant],
	"makeAuctionOffer":          decodeAs[MakeAuctionOffer],
	"listPropertyForSale":       decodeAs[ListPropertyForSale],
	"cancelListing":             decodeAs[CancelListing],
	"listPropertyNow":           decodeAs[ListPropertyNow],
	"remortgageProperty":        decodeAs[RemortgageProperty],
	"payOffMortgage":            decodeAs[PayOffMortgage],
	"hireStaff":                 decodeAs[HireStaff],
	"fireStaff":                 decodeAs[FireStaff],
	"promoteStaff":              decodeAs[PromoteStaff],
	"assignPropertyToStaff":     decodeAs[AssignPropertyToStaff],
	"unassignProperty":          decodeAs[UnassignProperty],
	"dismissBalanceSheetModal":  decodeAs[DismissBalanceSheetModal],
	"dismissGameWinModal":       decodeAs[DismissGameWinModal],
	"openPrestigeModal":         decodeAs[OpenPrestigeModal],
	"prestige":                  decodeAs[Prestige],
}

// DecodeCommand builds a command from its wire name and JSON arguments.
func DecodeCommand(name string, args json.RawMessage) (Command, error) {
	decode, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	cmd, err := decode(args)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return cmd, nil
}

func decodeAs[T Command](raw json.RawMessage) (Command, error) {
	var cmd T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, err
		}
	}
	return cmd, nil
}
