// Package storage - reconstructor.go
// Rebuilds a portfolio summary from the event ledger: state = f(events).
package storage

import (
	"context"
	"fmt"

	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
)

// Impact classifies how an event affected the player.
const (
	ImpactPositive = "POSITIVE"
	ImpactNegative = "NEGATIVE"
	ImpactNeutral  = "NEUTRAL"
)

// Reconstructor reads the ledger back. It is used for:
// 1. The "while you were away" recap after loading a save
// 2. Auditing cash flows independently of the saved blob
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new ledger reader.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// Ledger totals the money that moved through a save.
type Ledger struct {
	RentCollected    float64 `json:"rent_collected"`
	InterestEarned   float64 `json:"interest_earned"`
	RepairsPaid      float64 `json:"repairs_paid"`
	MortgagePaid     float64 `json:"mortgage_paid"`
	WagesPaid        float64 `json:"wages_paid"`
	SaleProceeds     float64 `json:"sale_proceeds"`
	PropertiesSold   int     `json:"properties_sold"`
	PropertiesBought int     `json:"properties_bought"`
	StaffQuit        int     `json:"staff_quit"`
}

// RecapEvent is a simplified event for the recap screen.
type RecapEvent struct {
	GameDate  string `json:"game_date"`
	GameDay   int    `json:"game_day"`
	EventType string `json:"event_type"`
	Summary   string `json:"summary"` // Human-readable description
	Impact    string `json:"impact"`  // "POSITIVE", "NEGATIVE", "NEUTRAL"
}

// RebuildLedger folds every event of a save into cash-flow totals.
func (r *Reconstructor) RebuildLedger(ctx context.Context, gameID string) (*Ledger, error) {
	all, err := r.eventRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game events: %w", err)
	}

	var l Ledger
	for _, e := range all {
		r.applyEvent(&l, e)
	}
	return &l, nil
}

// GenerateRecap lists the noteworthy events since a given day.
// Day ticks and monthly billing noise are skipped.
func (r *Reconstructor) GenerateRecap(ctx context.Context, gameID string, sinceDay int) ([]RecapEvent, error) {
	all, err := r.eventRepo.GetSinceDay(ctx, gameID, sinceDay)
	if err != nil {
		return nil, err
	}

	var recap []RecapEvent
	for _, e := range all {
		switch events.EventType(e.EventType) {
		case events.EventTypeDayAdvanced, events.EventTypeMortgageBilled, events.EventTypeRentCollected:
			continue
		}
		recap = append(recap, RecapEvent{
			GameDate:  e.GameDate,
			GameDay:   e.GameDay,
			EventType: e.EventType,
			Summary:   summarizeEvent(e),
			Impact:    determineImpact(e),
		})
	}
	return recap, nil
}

func (r *Reconstructor) applyEvent(l *Ledger, e GameEvent) {
	switch events.EventType(e.EventType) {
	case events.EventTypeRentCollected:
		l.RentCollected += number(e.Payload, "amount")
	case events.EventTypeInterestPaid:
		l.InterestEarned += number(e.Payload, "amount")
	case events.EventTypeRepairStarted:
		l.RepairsPaid += number(e.Payload, "cost")
	case events.EventTypeMortgageBilled:
		l.MortgagePaid += number(e.Payload, "interest") + number(e.Payload, "principal")
	case events.EventTypeWagesPaid:
		l.WagesPaid += number(e.Payload, "amount")
	case events.EventTypePropertySold:
		l.SaleProceeds += number(e.Payload, "sale_price")
		l.PropertiesSold++
	case events.EventTypePropertyBought:
		l.PropertiesBought++
	case events.EventTypeStaffQuit:
		l.StaffQuit++
	}
}

// number reads a JSON number out of a decoded payload.
func number(payload map[string]interface{}, key string) float64 {
	if v, ok := payload[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

func text(payload map[string]interface{}, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// summarizeEvent creates a human-readable summary.
func summarizeEvent(e GameEvent) string {
	p := e.Payload
	switch events.EventType(e.EventType) {
	case events.EventTypePhaseChanged:
		return fmt.Sprintf("The economy moved from %s to %s.", text(p, "from"), text(p, "to"))
	case events.EventTypeInterestPaid:
		return fmt.Sprintf("Savings interest of %s was paid.", game.FormatCurrency(number(p, "amount")))
	case events.EventTypeTenancyStarted:
		return fmt.Sprintf("A tenant moved in paying %s a month.", game.FormatCurrency(number(p, "monthly_rent")))
	case events.EventTypeTenancyEnded:
		return "A tenancy came to an end."
	case events.EventTypeRepairStarted:
		return fmt.Sprintf("Repairs started at a cost of %s.", game.FormatCurrency(number(p, "cost")))
	case events.EventTypeRepairCompleted:
		return "Repairs were completed."
	case events.EventTypePropertyBought:
		return fmt.Sprintf("You bought a property for %s.", game.FormatCurrency(number(p, "price")))
	case events.EventTypePropertySold:
		return fmt.Sprintf("A property sold for %s.", game.FormatCurrency(number(p, "sale_price")))
	case events.EventTypeOfferRejected:
		return "An offer was rejected and the listing withdrawn."
	case events.EventTypeMortgageRateReset:
		return fmt.Sprintf("A mortgage moved to %s.", game.FormatPercent(number(p, "rate")))
	case events.EventTypeMortgageRepaid:
		return "A mortgage was repaid in full."
	case events.EventTypeStaffHired:
		return fmt.Sprintf("%s joined the team.", text(p, "name"))
	case events.EventTypeStaffPromoted:
		return fmt.Sprintf("%s was promoted.", text(p, "name"))
	case events.EventTypeStaffFired:
		return fmt.Sprintf("%s was let go.", text(p, "name"))
	case events.EventTypeStaffQuit:
		return fmt.Sprintf("%s quit over unpaid wages.", text(p, "name"))
	case events.EventTypeWagesPaid:
		return fmt.Sprintf("Wages of %s were paid.", game.FormatCurrency(number(p, "amount")))
	case events.EventTypeWagesMissed:
		return "Payroll could not be met."
	case events.EventTypeBalanceSheet:
		return "The annual balance sheet is ready."
	case events.EventTypeForeclosureWarning:
		return "The bank has issued a foreclosure warning."
	case events.EventTypeForeclosureResolved:
		return "The foreclosure warning was lifted."
	case events.EventTypeGameOver:
		return "The bank foreclosed on the portfolio."
	case events.EventTypeGameWin:
		return "The final balance sheet has been drawn up."
	case events.EventTypeNewGame:
		return "A new game started."
	default:
		return "Something happened in the portfolio."
	}
}

// determineImpact classifies the event impact.
func determineImpact(e GameEvent) string {
	switch events.EventType(e.EventType) {
	case events.EventTypeTenancyStarted, events.EventTypePropertySold, events.EventTypeInterestPaid,
		events.EventTypeRepairCompleted, events.EventTypeMortgageRepaid, events.EventTypeForeclosureResolved,
		events.EventTypeGameWin:
		return ImpactPositive
	case events.EventTypeStaffQuit, events.EventTypeWagesMissed, events.EventTypeForeclosureWarning,
		events.EventTypeGameOver, events.EventTypeOfferRejected, events.EventTypeTenancyEnded:
		return ImpactNegative
	default:
		return ImpactNeutral
	}
}
