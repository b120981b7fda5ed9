// Package engine - economy_system.go
// Economy System - the quarterly business cycle. Phases switch slowly so
// players live through recognisable eras rather than a random walk.
package engine

import (
	"fmt"
	"math"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/economy"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// PhaseChangePayload records a move to the next phase of the cycle.
type PhaseChangePayload struct {
	From economy.Phase `json:"from"`
	To   economy.Phase `json:"to"`
}

// EconomySystem drives rates and inflation.
type EconomySystem struct {
	balance *config.Balance
	rng     Random
	logger  *logger.Logger
}

// NewEconomySystem creates a new economy system.
func NewEconomySystem(b *config.Balance, rng Random, log *logger.Logger) *EconomySystem {
	return &EconomySystem{balance: b, rng: rng, logger: log}
}

// transitionChance grows linearly with time in phase after the minimum dwell.
func (es *EconomySystem) transitionChance(quarters int) float64 {
	if quarters < es.balance.PhaseMinQuarters {
		return 0
	}
	return math.Min(es.balance.PhaseMaxChance, es.balance.PhaseChancePerQuarter*float64(quarters))
}

// OnNewQuarter runs once on the first day of each quarter.
func (es *EconomySystem) OnNewQuarter(t *tx) {
	e := &t.s.Economy
	e.QuartersSincePhaseChange++

	transition := chance(es.rng, es.transitionChance(e.QuartersSincePhaseChange))
	if transition {
		from := e.Phase
		e.Phase = e.Phase.Next()
		e.QuartersSincePhaseChange = 0
		es.logger.Event(string(events.EventTypePhaseChanged), events.ActorSystem, fmt.Sprintf("%s -> %s", from, e.Phase))
		t.emit(events.EventTypePhaseChanged, "", PhaseChangePayload{From: from, To: e.Phase})
	}

	if transition || chance(es.rng, es.balance.TargetRedrawChance) {
		targets := economy.TargetsFor(e.Phase)
		e.TargetInflationRate = targets.Inflation.Lerp(es.rng.Float64())
		e.TargetBaseRate = targets.BaseRate.Lerp(es.rng.Float64())
	}

	e.InflationRate += es.balance.ConvergenceRate * (e.TargetInflationRate - e.InflationRate)
	e.BaseRate += es.balance.ConvergenceRate * (e.TargetBaseRate - e.BaseRate)
	if e.BaseRate < es.balance.MinBaseRate {
		e.BaseRate = es.balance.MinBaseRate
	}

	es.inflate(t, e.InflationRate)
	e.PushInflation(e.InflationRate)
}

// inflate applies the quarter's inflation to every owned and listed base value.
func (es *EconomySystem) inflate(t *tx, pct float64) {
	for i := range t.s.Player.Properties {
		p := &t.s.Player.Properties[i]
		p.BaseValue = rules.Inflate(p.BaseValue, pct)
	}
	for i := range t.s.Market {
		t.s.Market[i].BaseValue = rules.Inflate(t.s.Market[i].BaseValue, pct)
	}
	for i := range t.s.Auction {
		t.s.Auction[i].BaseValue = rules.Inflate(t.s.Auction[i].BaseValue, pct)
	}
}
