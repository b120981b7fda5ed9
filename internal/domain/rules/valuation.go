// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import (
	"math"

	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
)

var typeMultipliers = map[property.Type]float64{
	property.TypeFlat:         0.8,
	property.TypeTerraced:     1.0,
	property.TypeBungalow:     1.1,
	property.TypeSemiDetached: 1.2,
	property.TypeDetached:     1.5,
}

var bedroomMultipliers = []float64{0.7, 0.9, 1.0, 1.2, 1.4}

const (
	gardenMultiplier  = 1.1
	parkingMultiplier = 1.05
)

// FeatureMultiplier is the product of the type, bedroom, garden and parking factors.
func FeatureMultiplier(f property.Features) float64 {
	m, ok := typeMultipliers[f.Type]
	if !ok {
		m = 1
	}
	b := f.Bedrooms
	if b < 1 {
		b = 1
	}
	if b > len(bedroomMultipliers) {
		b = len(bedroomMultipliers)
	}
	m *= bedroomMultipliers[b-1]
	if f.HasGarden {
		m *= gardenMultiplier
	}
	if f.HasParking {
		m *= parkingMultiplier
	}
	return m
}

// AreaMultiplier is the product of 0.8 + (rating-1)*0.1 over the four axes.
func AreaMultiplier(r property.Ratings) float64 {
	m := 1.0
	for _, v := range r.Axes() {
		m *= 0.8 + float64(v-1)*0.1
	}
	return m
}

// DistrictModifier maps a uniform draw in [min,max] to its cube.
func DistrictModifier(u float64) float64 {
	return u * u * u
}

// BaseValue computes the rounded intrinsic value of a newly generated property.
func BaseValue(base float64, f property.Features, r property.Ratings, districtModifier float64) float64 {
	return math.Round(base * FeatureMultiplier(f) * AreaMultiplier(r) * districtModifier)
}

// MarketValue discounts the base value by condition: at 0 maintenance a
// property is worth half its base value.
func MarketValue(baseValue, maintenance float64) float64 {
	return baseValue * (0.5 + maintenance/200)
}

// MaintenanceCost is the price of restoring a property to full condition.
func MaintenanceCost(baseValue, maintenance, ratio float64) float64 {
	return ratio * baseValue * (100 - maintenance) / 100
}

// ClampMaintenance bounds a maintenance gauge to [0,100].
func ClampMaintenance(m float64) float64 {
	return math.Max(0, math.Min(100, m))
}

// CanBeLetOut reports whether p may take a tenant.
func CanBeLetOut(p *property.Property, minCondition float64) bool {
	return p.Maintenance >= minCondition &&
		!p.IsUnderMaintenance &&
		p.Tenancy == nil &&
		p.SaleInfo == nil
}

// Inflate applies a quarterly inflation percentage to a base value.
func Inflate(baseValue, inflationPct float64) float64 {
	return baseValue * (1 + inflationPct/100)
}
