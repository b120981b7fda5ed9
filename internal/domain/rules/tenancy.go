package rules

import (
	"math"

	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
)

// AreaQualityModifier scales fill odds by the average area rating (1-5).
func AreaQualityModifier(avgRating float64) float64 {
	return 0.7 + (avgRating-1)*0.15
}

// FillChance is the daily probability in [0,1] that a vacancy at the given
// markup finds a tenant.
func FillChance(markup int, exponent, avgRating float64) float64 {
	if markup >= 100 {
		return 0
	}
	base := math.Pow(1-float64(markup)/100, exponent)
	return clamp01(base * AreaQualityModifier(avgRating))
}

// MonthlyRent is derived from the values frozen at signing, so later
// inflation and rate moves never change an agreed lease.
func MonthlyRent(t *property.Tenancy) float64 {
	if t == nil {
		return 0
	}
	return t.MarketValueAtStart * float64(t.RentMarkup) / 100 / 12
}

// ClampMarkup bounds a markup to [min,max].
func ClampMarkup(markup, min, max int) int {
	if markup < min {
		return min
	}
	if markup > max {
		return max
	}
	return markup
}

// ValidLease reports whether months is one of the offered lease lengths.
func ValidLease(months int, lengths []int) bool {
	for _, l := range lengths {
		if l == months {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
