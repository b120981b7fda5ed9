package rules

import "math"

// DefaultAskingPercentage replaces invalid asking percentages.
const DefaultAskingPercentage = 100

// ValidAskingPercentage reports whether pct is a usable sale percentage.
func ValidAskingPercentage(pct float64) bool {
	return !math.IsNaN(pct) && !math.IsInf(pct, 0) && pct > 0
}

// SaleChance is the daily probability that a listing at pct of market value
// sells: cheaper listings sell much faster.
func SaleChance(pct, baseChance, elasticity float64) float64 {
	if !ValidAskingPercentage(pct) {
		pct = DefaultAskingPercentage
	}
	return math.Min(1, baseChance*math.Pow(100/pct, elasticity))
}

// Spread values used by OfferAcceptance.
const (
	MarketOfferSpread  = 20
	AuctionOfferSpread = 40
)

// OfferAcceptance is the probability that a seller accepts pct of market
// value. Offers at or above asking always succeed.
func OfferAcceptance(pct, spread float64) float64 {
	if pct >= 100 {
		return 1
	}
	return clamp01(1 - (100-pct)/spread)
}

// ValidOfferPercentage reports whether pct lies in (0,100].
func ValidOfferPercentage(pct float64) bool {
	return ValidAskingPercentage(pct) && pct <= 100
}
