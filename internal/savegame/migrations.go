package savegame

import (
	"encoding/json"
	"fmt"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/economy"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/property"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
)

// Migration upgrades a document from Version to Version+1.
type Migration struct {
	Version int
	Name    string
	Up      func(doc map[string]any) error
}

// Migrator applies pending migrations in order.
type Migrator struct {
	balance    config.Balance
	migrations []Migration
}

// NewMigrator registers every known step. Defaults for backfilled fields
// come from b.
func NewMigrator(b config.Balance) *Migrator {
	m := &Migrator{balance: b}
	m.migrations = []Migration{
		{Version: 1, Name: "calendar dates", Up: m.calendarDates},
		{Version: 2, Name: "market and areas", Up: m.marketAndAreas},
		{Version: 3, Name: "economy and mortgages", Up: m.economyAndMortgages},
		{Version: 4, Name: "staff and endgame", Up: m.staffAndEndgame},
	}
	return m
}

// Migrations returns the registered steps in order.
func (m *Migrator) Migrations() []Migration {
	return append([]Migration(nil), m.migrations...)
}

// Up runs every step from version from up to game.CurrentVersion.
func (m *Migrator) Up(doc map[string]any, from int) error {
	for _, mig := range m.migrations {
		if mig.Version < from {
			continue
		}
		if err := mig.Up(doc); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", mig.Version, mig.Name, err)
		}
		doc["version"] = float64(mig.Version + 1)
	}
	if v := VersionOf(doc); v != game.CurrentVersion {
		return fmt.Errorf("migrations stopped at version %d, expected %d", v, game.CurrentVersion)
	}
	return nil
}

// v1 counted days from 1 and paid a flat monthlyIncome per property.
func (m *Migrator) calendarDates(doc map[string]any) error {
	gt := object(doc, "gameTime")
	start := calendar.New(m.balance.StartYear, 1, 1)
	day := int(num(gt, "currentDay", 1))
	if day < 1 {
		day = 1
	}
	if _, ok := gt["currentDate"]; !ok {
		gt["currentDate"] = toValue(calendar.AddDays(start, day-1))
		gt["daysPlayed"] = float64(day - 1)
	}
	delete(gt, "currentDay")
	delete(gt, "lastIncomeDay")
	setDefault(gt, "speed", float64(game.SpeedNormal))
	setDefault(gt, "isPaused", false)

	for _, p := range list(object(doc, "player"), "properties") {
		delete(p, "monthlyIncome")
	}
	m.backfillProperties(doc)
	return nil
}

// v2 had no market stock or areas; churn refills the pools after loading.
// Browser saves are tagged v2 too but carry bare properties, so the
// per-property backfill runs again here.
func (m *Migrator) marketAndAreas(doc map[string]any) error {
	m.backfillProperties(doc)
	setDefault(doc, "market", []any{})
	setDefault(doc, "auction", []any{})
	setDefault(doc, "areas", toValue(property.DefaultAreas()))
	return nil
}

// v3 introduced the economy; leases signed before it get their rent frozen
// against the opening base rate.
func (m *Migrator) economyAndMortgages(doc map[string]any) error {
	setDefault(doc, "economy", toValue(economy.Initial()))
	player := object(doc, "player")
	setDefault(player, "mortgages", []any{})
	setDefault(player, "propertySales", []any{})
	setDefault(player, "accruedInterest", float64(0))
	setDefault(player, "totalInterestEarned", float64(0))
	setDefault(doc, "savings", toValue(game.Savings{Balance: num(player, "cash", 0)}))
	m.backfillTenancies(doc)
	return nil
}

func (m *Migrator) staffAndEndgame(doc map[string]any) error {
	player := object(doc, "player")
	setDefault(doc, "staff", []any{})
	setDefault(doc, "balanceSheetHistory", []any{})
	setDefault(doc, "ui", toValue(game.UI{}))
	setDefault(doc, "prestige", toValue(game.Prestige{}))
	setDefault(doc, "stats", toValue(game.Stats{
		PeakNetWorth:      num(player, "cash", 0),
		PeakPropertyCount: len(list(player, "properties")),
	}))

	econ := object(doc, "economy")
	if _, ok := econ["highestInflationRate"]; !ok {
		highest := num(econ, "inflationRate", 0)
		if hist, ok := econ["inflationHistory"].([]any); ok {
			for _, h := range hist {
				if f, ok := h.(float64); ok && f > highest {
					highest = f
				}
			}
		}
		econ["highestInflationRate"] = highest
	}
	return nil
}

// backfillProperties fills in every property field older saves lack, field
// by field, so it is safe to run on a partially upgraded document.
func (m *Migrator) backfillProperties(doc map[string]any) {
	gt := object(doc, "gameTime")
	delete(gt, "lastRentCollectionDate")
	today := dateOf(gt, "currentDate", calendar.New(m.balance.StartYear, 1, 1))

	setDefault(doc, "settings", toValue(game.Settings{
		DefaultRentMarkup:  m.balance.DefaultRentMarkup,
		DefaultLeaseMonths: m.balance.DefaultLeaseMonths,
	}))

	home := property.DefaultAreas()[0]
	for _, p := range list(object(doc, "player"), "properties") {
		base := num(p, "baseValue", 0)
		setDefault(p, "maintenance", float64(100))
		setDefault(p, "features", toValue(property.Features{Type: property.TypeTerraced, Bedrooms: 2}))
		setDefault(p, "area", home.ID)
		setDefault(p, "district", home.District)
		setDefault(p, "districtModifier", float64(1))
		setDefault(p, "purchaseBaseValue", base)
		setDefault(p, "purchasePrice", base)
		setDefault(p, "purchaseDate", toValue(today))
		setDefault(p, "totalIncomeEarned", float64(0))
		setDefault(p, "totalMaintenancePaid", float64(0))
		setDefault(p, "vacantSettings", toValue(property.VacantSettings{
			RentMarkup:   m.balance.DefaultRentMarkup,
			PeriodMonths: m.balance.DefaultLeaseMonths,
		}))
		if vs, ok := p["vacantSettings"].(map[string]any); ok {
			delete(vs, "autoRelist")
		}
	}
}

// backfillTenancies freezes the rent basis of leases that predate it.
func (m *Migrator) backfillTenancies(doc map[string]any) {
	rate := num(object(doc, "economy"), "baseRate", economy.Initial().BaseRate)
	for _, p := range list(object(doc, "player"), "properties") {
		ten, ok := p["tenancy"].(map[string]any)
		if !ok {
			continue
		}
		if num(ten, "marketValueAtStart", 0) <= 0 {
			ten["marketValueAtStart"] = rules.MarketValue(num(p, "baseValue", 0), num(p, "maintenance", 100))
		}
		setDefault(ten, "baseRateAtStart", rate)
	}
}

// dateOf reads a {year, month, day} object, falling back to def.
func dateOf(doc map[string]any, key string, def calendar.Date) calendar.Date {
	o, ok := doc[key].(map[string]any)
	if !ok {
		return def
	}
	d := calendar.New(int(num(o, "year", 0)), int(num(o, "month", 0)), int(num(o, "day", 0)))
	if d.Year < 1 || d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return def
	}
	return d
}

// object returns doc[key] as an object, creating it when absent.
func object(doc map[string]any, key string) map[string]any {
	if o, ok := doc[key].(map[string]any); ok {
		return o
	}
	o := map[string]any{}
	doc[key] = o
	return o
}

// list returns the objects inside doc[key], skipping anything else.
func list(doc map[string]any, key string) []map[string]any {
	raw, _ := doc[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if o, ok := v.(map[string]any); ok {
			out = append(out, o)
		}
	}
	return out
}

func num(doc map[string]any, key string, def float64) float64 {
	if f, ok := doc[key].(float64); ok {
		return f
	}
	return def
}

func setDefault(doc map[string]any, key string, v any) {
	if cur, ok := doc[key]; !ok || cur == nil {
		doc[key] = v
	}
}

// toValue converts a typed value into its generic JSON shape.
func toValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("savegame: default %T is not serializable: %v", v, err))
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("savegame: default %T did not round-trip: %v", v, err))
	}
	return out
}
