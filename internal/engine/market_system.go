// Package engine - market_system.go
// Market System - generates stock, churns the market and auction pools and
// handles purchases from them.
package engine

import (
	"fmt"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// Maintenance ranges for freshly generated stock.
const (
	marketMinCondition  = 75
	marketMaxCondition  = 100
	auctionMinCondition = 0
	auctionMaxCondition = 49
	areaDriftChance     = 0.10
)

// PurchasePayload records a completed acquisition.
type PurchasePayload struct {
	Source   string  `json:"source"` // market, auction, starter
	Price    float64 `json:"price"`
	Offer    float64 `json:"offer_percentage,omitempty"`
	Mortgage string  `json:"mortgage_id,omitempty"`
}

// MarketSystem owns the stock the player can buy.
type MarketSystem struct {
	balance *config.Balance
	rng     Random
	logger  *logger.Logger
}

// NewMarketSystem creates a new market system.
func NewMarketSystem(b *config.Balance, rng Random, log *logger.Logger) *MarketSystem {
	return &MarketSystem{balance: b, rng: rng, logger: log}
}

// Generate draws a random property valuation with condition in [minCond,maxCond].
func (ms *MarketSystem) Generate(areas []property.Area, minCond, maxCond int) property.Valuation {
	f := property.Features{
		Type:       property.AllTypes[pickIndex(ms.rng, len(property.AllTypes))],
		Bedrooms:   intBetween(ms.rng, 1, 5),
		HasGarden:  chance(ms.rng, 0.5),
		HasParking: chance(ms.rng, 0.5),
	}
	area := areas[pickIndex(ms.rng, len(areas))]
	dm := rules.DistrictModifier(between(ms.rng, ms.balance.MinDistrictFactor, ms.balance.MaxDistrictFactor))

	return property.Valuation{
		Name:             fmt.Sprintf("%d-bed %s, %s", f.Bedrooms, f.Type, area.Name),
		BaseValue:        rules.BaseValue(ms.balance.BasePropertyValue, f, area.Ratings, dm),
		Features:         f,
		AreaID:           area.ID,
		District:         area.District,
		DistrictModifier: dm,
		Maintenance:      float64(intBetween(ms.rng, minCond, maxCond)),
	}
}

func (ms *MarketSystem) newListing(t *tx) property.Listing {
	return property.Listing{
		ID:               t.newID(),
		Valuation:        ms.Generate(t.s.Areas, marketMinCondition, marketMaxCondition),
		DaysUntilRemoval: intBetween(ms.rng, ms.balance.MarketMinDays, ms.balance.MarketMaxDays),
	}
}

func (ms *MarketSystem) newLot(t *tx) property.AuctionLot {
	return property.AuctionLot{
		ID:        t.newID(),
		Valuation: ms.Generate(t.s.Areas, auctionMinCondition, auctionMaxCondition),
		DaysLeft:  ms.balance.AuctionDays,
	}
}

// Seed fills both pools of a new game and grants the starter property.
func (ms *MarketSystem) Seed(t *tx) {
	for i := 0; i < ms.balance.InitialMarketListings; i++ {
		t.s.Market = append(t.s.Market, ms.newListing(t))
	}
	for i := 0; i < ms.balance.InitialAuctionLots; i++ {
		t.s.Auction = append(t.s.Auction, ms.newLot(t))
	}
	starter := ms.Generate(t.s.Areas, marketMinCondition, marketMaxCondition)
	starter.Name = "Starter Home, " + starter.Name
	t.s.Player.Properties = append(t.s.Player.Properties, newOwned(t, starter, 0))
}

// newOwned turns a valuation into an owned property bought today at price.
func newOwned(t *tx, v property.Valuation, price float64) property.Property {
	return property.Property{
		ID:                t.newID(),
		Valuation:         v,
		PurchaseBaseValue: v.BaseValue,
		PurchasePrice:     price,
		PurchaseDate:      t.today(),
		VacantSettings: property.VacantSettings{
			RentMarkup:   t.s.Settings.DefaultRentMarkup,
			PeriodMonths: t.s.Settings.DefaultLeaseMonths,
		},
	}
}

func (ms *MarketSystem) findListing(s []property.Listing, id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

func (ms *MarketSystem) findLot(s []property.AuctionLot, id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

// acquire records a purchase at price, of which paid leaves the player's cash now.
func (ms *MarketSystem) acquire(t *tx, v property.Valuation, price, paid float64, payload PurchasePayload) *property.Property {
	t.s.Player.Cash -= paid
	p := newOwned(t, v, price)
	t.s.Player.Properties = append(t.s.Player.Properties, p)
	payload.Price = price
	t.emit(events.EventTypePropertyBought, p.ID, payload)
	return &t.s.Player.Properties[len(t.s.Player.Properties)-1]
}

// BuyInstant pays full market value for a market listing.
func (ms *MarketSystem) BuyInstant(t *tx, listingID string) error {
	i := ms.findListing(t.s.Market, listingID)
	if i < 0 {
		return ErrNotFound
	}
	l := t.s.Market[i]
	price := rules.MarketValue(l.BaseValue, l.Maintenance)
	if t.s.Player.Cash < price {
		return ErrInsufficientFunds
	}
	t.s.Market = append(t.s.Market[:i], t.s.Market[i+1:]...)
	ms.acquire(t, l.Valuation, price, price, PurchasePayload{Source: "market"})
	return nil
}

// BuyAuctionInstant pays full market value for an auction lot.
func (ms *MarketSystem) BuyAuctionInstant(t *tx, lotID string) error {
	i := ms.findLot(t.s.Auction, lotID)
	if i < 0 {
		return ErrNotFound
	}
	l := t.s.Auction[i]
	price := rules.MarketValue(l.BaseValue, l.Maintenance)
	if t.s.Player.Cash < price {
		return ErrInsufficientFunds
	}
	t.s.Auction = append(t.s.Auction[:i], t.s.Auction[i+1:]...)
	ms.acquire(t, l.Valuation, price, price, PurchasePayload{Source: "auction"})
	return nil
}

// MakeOffer bids pct of market value. The listing is withdrawn whether the
// seller accepts or not.
func (ms *MarketSystem) MakeOffer(t *tx, listingID string, pct float64) error {
	if !rules.ValidOfferPercentage(pct) {
		return ErrInvalidArgument
	}
	i := ms.findListing(t.s.Market, listingID)
	if i < 0 {
		return ErrNotFound
	}
	l := t.s.Market[i]
	price := rules.MarketValue(l.BaseValue, l.Maintenance) * pct / 100
	if t.s.Player.Cash < price {
		return ErrInsufficientFunds
	}
	t.s.Market = append(t.s.Market[:i], t.s.Market[i+1:]...)
	ms.settleOffer(t, l.ID, l.Valuation, price, pct, rules.MarketOfferSpread, "market")
	return nil
}

// MakeAuctionOffer bids on an auction lot; sellers there are more flexible.
func (ms *MarketSystem) MakeAuctionOffer(t *tx, lotID string, pct float64) error {
	if !rules.ValidOfferPercentage(pct) {
		return ErrInvalidArgument
	}
	i := ms.findLot(t.s.Auction, lotID)
	if i < 0 {
		return ErrNotFound
	}
	l := t.s.Auction[i]
	price := rules.MarketValue(l.BaseValue, l.Maintenance) * pct / 100
	if t.s.Player.Cash < price {
		return ErrInsufficientFunds
	}
	t.s.Auction = append(t.s.Auction[:i], t.s.Auction[i+1:]...)
	ms.settleOffer(t, l.ID, l.Valuation, price, pct, rules.AuctionOfferSpread, "auction")
	return nil
}

func (ms *MarketSystem) settleOffer(t *tx, listingID string, v property.Valuation, price, pct, spread float64, source string) {
	if !chance(ms.rng, rules.OfferAcceptance(pct, spread)) {
		t.emit(events.EventTypeOfferRejected, listingID, PurchasePayload{Source: source, Price: price, Offer: pct})
		return
	}
	ms.acquire(t, v, price, price, PurchasePayload{Source: source, Offer: pct})
}

// Churn ages both pools, drops expired stock and maybe spawns new stock.
func (ms *MarketSystem) Churn(t *tx) {
	kept := t.s.Market[:0]
	for _, l := range t.s.Market {
		l.DaysOnMarket++
		if l.DaysOnMarket <= l.DaysUntilRemoval {
			kept = append(kept, l)
		}
	}
	t.s.Market = kept

	lots := t.s.Auction[:0]
	for _, l := range t.s.Auction {
		l.DaysOnMarket++
		l.DaysLeft--
		if l.DaysLeft > 0 {
			lots = append(lots, l)
		}
	}
	t.s.Auction = lots

	if len(t.s.Market) < ms.balance.MarketPoolCap && chance(ms.rng, ms.balance.ListingSpawnChance) {
		t.s.Market = append(t.s.Market, ms.newListing(t))
	}
	if len(t.s.Auction) < ms.balance.AuctionPoolCap && chance(ms.rng, ms.balance.ListingSpawnChance) {
		t.s.Auction = append(t.s.Auction, ms.newLot(t))
	}
}

// DriftAreas nudges each area rating by one point with a small probability.
func (ms *MarketSystem) DriftAreas(t *tx) {
	for i := range t.s.Areas {
		r := &t.s.Areas[i].Ratings
		for _, axis := range []*int{&r.Crime, &r.Schools, &r.Transport, &r.Economy} {
			if !chance(ms.rng, areaDriftChance) {
				continue
			}
			step := 1
			if chance(ms.rng, 0.5) {
				step = -1
			}
			*axis = min(5, max(1, *axis+step))
		}
	}
}

// ownedSince reports how long p has been held, used in sale records.
func ownedSince(p *property.Property, today calendar.Date) int {
	return calendar.DaysBetween(p.PurchaseDate, today)
}
