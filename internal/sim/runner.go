// Package sim runs headless games: a fixed number of days advanced back to
// back, optionally with a simple autopilot standing in for the player.
package sim

import (
	"sort"

	"github.com/MRamiBalles/PropertyIdle/internal/domain/rules"
	"github.com/MRamiBalles/PropertyIdle/internal/engine"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// Summary describes a finished run.
type Summary struct {
	DaysRun      int
	Commands     int // player commands the autopilot got applied
	EventCounts  map[events.EventType]int
	Final        game.State
	BalanceSheet game.OverallBalanceSheet
}

// Runner advances a game without a clock.
type Runner struct {
	engine    *engine.Engine
	logger    *logger.Logger
	autopilot bool
	// CashBuffer is the multiple of a listing's price the autopilot keeps
	// in hand before buying it.
	CashBuffer float64
}

// NewRunner creates a runner. With autopilot on, vacant homes are put up
// for let and the cheapest affordable listing is bought each day.
func NewRunner(eng *engine.Engine, log *logger.Logger, autopilot bool) *Runner {
	return &Runner{engine: eng, logger: log, autopilot: autopilot, CashBuffer: 1.5}
}

// Run advances s by up to days days, stopping early on game over.
func (r *Runner) Run(s game.State, days int) Summary {
	sum := Summary{EventCounts: map[events.EventType]int{}}
	apply := func(cmd engine.Command) bool {
		res := r.engine.Apply(s, cmd)
		if !res.Applied {
			return false
		}
		s = res.State
		for _, e := range res.Events {
			sum.EventCounts[e.Type]++
		}
		return true
	}

	for sum.DaysRun < days && s.GameOver == nil {
		if r.autopilot {
			for _, cmd := range r.plan(s) {
				if apply(cmd) {
					sum.Commands++
				}
			}
		}
		if !apply(engine.AdvanceDay{}) {
			break
		}
		sum.DaysRun++
	}

	if sum.DaysRun < days && s.GameOver != nil {
		r.logger.Warn("simulation ended early: game over")
	}
	sum.Final = s
	sum.BalanceSheet = game.BalanceSheet(&s)
	return sum
}

// plan picks today's player moves.
func (r *Runner) plan(s game.State) []engine.Command {
	var cmds []engine.Command
	if s.UI.ShowBalanceSheet {
		cmds = append(cmds, engine.DismissBalanceSheetModal{})
	}
	if s.UI.ShowGameWin {
		cmds = append(cmds, engine.DismissGameWinModal{})
	}

	for _, p := range s.Player.Properties {
		switch {
		case p.IsOccupied() || p.IsListed || p.IsForSale() || p.IsUnderMaintenance:
		case p.Maintenance < r.engine.Balance().MinLettableCondition:
			cmds = append(cmds, engine.CarryOutMaintenance{PropertyID: p.ID})
		default:
			cmds = append(cmds, engine.ListPropertyNow{PropertyID: p.ID})
		}
	}

	listings := append(s.Market[:0:0], s.Market...)
	sort.Slice(listings, func(i, j int) bool {
		return price(listings[i].BaseValue, listings[i].Maintenance) < price(listings[j].BaseValue, listings[j].Maintenance)
	})
	if len(listings) > 0 {
		cheapest := listings[0]
		if s.Player.Cash >= r.CashBuffer*price(cheapest.BaseValue, cheapest.Maintenance) {
			cmds = append(cmds, engine.BuyPropertyInstant{ListingID: cheapest.ID})
		}
	}
	return cmds
}

func price(base, maintenance float64) float64 {
	return rules.MarketValue(base, maintenance)
}
